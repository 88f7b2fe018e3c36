// Copyright © 2022-2025 Obol Labs Inc. Licensed under the terms of a Business Source License 1.1

package testutil

import (
	"context"
	"fmt"

	"github.com/obolnetwork/attester/app/log"
)

// WithTestTopic returns a context with a yellow-background "test" topic.
// Useful to distinguish test logs from application logs.
func WithTestTopic(ctx context.Context) context.Context {
	const testTopic = "test"
	const yellowBackground = 35
	topic := fmt.Sprintf("\x1b[%dm%s\x1b[0m", yellowBackground, testTopic)

	return log.WithTopic(ctx, topic)
}
