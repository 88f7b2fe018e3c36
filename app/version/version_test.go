// Copyright © 2022-2025 Obol Labs Inc. Licensed under the terms of a Business Source License 1.1

package version_test

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"

	"github.com/obolnetwork/attester/app/log"
	"github.com/obolnetwork/attester/app/version"
)

func TestGitCommit(t *testing.T) {
	hash, timestamp := version.GitCommit()
	require.NotEmpty(t, hash)
	require.NotEmpty(t, timestamp)
}

func TestLogInfo(t *testing.T) {
	var buf bytes.Buffer
	log.InitLogfmtForT(t, zapcore.AddSync(&buf))

	version.LogInfo(context.Background(), "Attester starting")

	require.Contains(t, buf.String(), "msg=\"Attester starting\"")
	require.Contains(t, buf.String(), "version="+version.Version)
}
