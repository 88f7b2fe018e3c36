// Copyright © 2022-2025 Obol Labs Inc. Licensed under the terms of a Business Source License 1.1

package app_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/require"

	"github.com/obolnetwork/attester/app"
	"github.com/obolnetwork/attester/app/log"
	"github.com/obolnetwork/attester/core/signer"
	"github.com/obolnetwork/attester/core/validator"
	"github.com/obolnetwork/attester/testutil"
)

const slotDuration = time.Second

func newConfig(t *testing.T, clock clockwork.Clock, results chan<- app.SlotResult) app.Config {
	t.Helper()

	key, err := signer.Random()
	require.NoError(t, err)

	valConf := validator.DefaultConfig()
	valConf.PrivateKey = fmt.Sprintf("0x%x", key.PrivateKey().Serialize())
	valConf.Reexecute = true

	return app.Config{
		Log:                 log.DefaultConfig(),
		Validator:           valConf,
		SimnetSlotDuration:  slotDuration,
		SimnetCommitteeSize: 4,
		TestConfig: app.TestConfig{
			Clock:       clock,
			SkipLogInit: true,
			SlotCallback: func(_ context.Context, res app.SlotResult) {
				results <- res
			},
		},
	}
}

func runAsync(ctx context.Context, conf app.Config) <-chan error {
	errCh := make(chan error, 1)
	go func() {
		errCh <- app.Run(ctx, conf)
	}()

	return errCh
}

func TestRunSimnet(t *testing.T) {
	ctx, cancel := context.WithCancel(testutil.WithTestTopic(context.Background()))
	clock := clockwork.NewFakeClock()
	results := make(chan app.SlotResult, 1)

	errCh := runAsync(ctx, newConfig(t, clock, results))

	for slot := 1; slot <= 4; slot++ {
		require.NoError(t, clock.BlockUntilContext(ctx, 1))
		clock.Advance(slotDuration)

		res := <-results
		testutil.RequireNoError(t, res.Err)
		require.EqualValues(t, slot, res.Slot)
		require.Equal(t, 4, res.Attested)
		require.Len(t, res.Quorum, 3)

		sender, err := res.Proposal.Sender()
		require.NoError(t, err)
		require.Equal(t, res.Proposer, sender)

		for _, att := range res.Quorum {
			require.True(t, att.Matches(res.Proposal))
		}
	}

	cancel()
	testutil.RequireNoError(t, <-errCh)
}

func TestRunSimnetDisabled(t *testing.T) {
	ctx, cancel := context.WithCancel(testutil.WithTestTopic(context.Background()))
	clock := clockwork.NewFakeClock()
	results := make(chan app.SlotResult, 1)

	conf := newConfig(t, clock, results)
	conf.Validator.Disabled = true
	conf.Validator.PrivateKey = "invalid"

	errCh := runAsync(ctx, conf)

	require.NoError(t, clock.BlockUntilContext(ctx, 1))
	clock.Advance(slotDuration)

	// The local validator abstains, the remaining committee still reaches quorum.
	res := <-results
	testutil.RequireNoError(t, res.Err)
	require.Equal(t, 4, res.Attested)
	require.Len(t, res.Quorum, 3)

	cancel()
	testutil.RequireNoError(t, <-errCh)
}

func TestRunInvalidKey(t *testing.T) {
	conf := newConfig(t, clockwork.NewFakeClock(), nil)
	conf.Validator.PrivateKey = "0x1234567890123456789"

	err := app.Run(context.Background(), conf)
	require.ErrorIs(t, err, signer.ErrInvalidPrivateKey)
}
