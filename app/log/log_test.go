// Copyright © 2022-2025 Obol Labs Inc. Licensed under the terms of a Business Source License 1.1

package log_test

import (
	"bytes"
	"context"
	"io"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest"

	"github.com/obolnetwork/attester/app/errors"
	"github.com/obolnetwork/attester/app/log"
	"github.com/obolnetwork/attester/app/z"
)

func TestWithContext(t *testing.T) {
	buf := setup(t)

	ctx1 := context.Background()
	ctx2 := log.WithCtx(ctx1, z.Int("wrap2", 2))
	ctx3 := log.WithCtx(ctx2, z.Str("wrap3", "a"))
	ctx3b := log.WithCtx(ctx2, z.Str("wrap3", "b")) // Overrides ctx3 field of same name.

	log.Debug(ctx1, "msg1", z.Int("ctx1", 1))
	log.Info(ctx2, "msg2")
	log.Warn(ctx3, "msg3a", nil)
	log.Warn(ctx3b, "msg3b", nil)

	out := buf.String()
	require.Contains(t, out, `msg=msg1 ctx1=1`)
	require.Contains(t, out, `msg=msg2 wrap2=2`)
	require.Contains(t, out, `msg=msg3a wrap3=a wrap2=2`)
	require.Contains(t, out, `msg=msg3b wrap3=b wrap2=2`)
}

func TestErrorWrap(t *testing.T) {
	buf := setup(t)

	err1 := errors.New("first", z.Int("1", 1))
	err2 := errors.Wrap(err1, "second", z.Uint("2", 2))

	log.Error(context.Background(), "failed", err2)

	out := buf.String()
	require.Contains(t, out, `msg="failed: second: first"`)
	require.Contains(t, out, `1=1`)
	require.Contains(t, out, `2=2`)
}

func TestErrorWrapOther(t *testing.T) {
	buf := setup(t)

	log.Error(context.Background(), "read", io.EOF)

	require.Contains(t, buf.String(), `msg="read: EOF"`)
}

func TestTopic(t *testing.T) {
	buf := setup(t)

	ctx := log.WithTopic(context.Background(), "quorum")
	log.Info(ctx, "polling")

	require.Contains(t, buf.String(), `topic=quorum`)
}

func TestInitLogger(t *testing.T) {
	tests := []struct {
		name   string
		config log.Config
		errMsg string
	}{
		{
			name:   "default",
			config: log.DefaultConfig(),
		},
		{
			name:   "json file",
			config: log.Config{Level: "debug", Format: "json", Color: "disable", OutputPath: filepath.Join(t.TempDir(), "attester.log")},
		},
		{
			name:   "invalid level",
			config: log.Config{Level: "loud", Format: "console"},
			errMsg: "parse level",
		},
		{
			name:   "invalid format",
			config: log.Config{Level: "info", Format: "xml", Color: "disable"},
			errMsg: "invalid logger format",
		},
		{
			name:   "invalid color",
			config: log.Config{Level: "info", Format: "console", Color: "rainbow"},
			errMsg: "invalid --log-color value",
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			err := log.InitLogger(test.config)
			if test.errMsg != "" {
				require.ErrorContains(t, err, test.errMsg)
				return
			}
			require.NoError(t, err)
		})
	}

	log.InitConsoleForT(t, zaptest.NewTestingWriter(t))
}

func setup(t *testing.T) *bytes.Buffer {
	t.Helper()

	var buf bytes.Buffer

	log.InitLogfmtForT(t, zapcore.AddSync(&buf), func(config *zapcore.EncoderConfig) {
		config.TimeKey = ""
		config.CallerKey = ""
	})

	return &buf
}
