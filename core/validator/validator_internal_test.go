// Copyright © 2022-2025 Obol Labs Inc. Licensed under the terms of a Business Source License 1.1

package validator

import (
	"context"
	"testing"

	"github.com/jonboulle/clockwork"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"

	"github.com/obolnetwork/attester/core"
	"github.com/obolnetwork/attester/core/mocks"
)

func TestWithoutMetrics(t *testing.T) {
	ctx := context.Background()
	conf := DefaultConfig()
	conf.Disabled = true

	newClient := func(opts ...Option) *Client {
		opts = append(opts, WithClock(clockwork.NewFakeClock()))
		client, err := New(conf, mocks.NewEpochCache(t), mocks.NewP2P(t), opts...)
		require.NoError(t, err)

		return client
	}

	disabled := attestCounter.WithLabelValues(ReasonDisabled.Code)
	before := testutil.ToFloat64(disabled)

	res, err := newClient(WithoutMetrics()).AttestToProposal(ctx, core.SignedBlockProposal{})
	require.NoError(t, err)
	require.Equal(t, ReasonDisabled, res.Abstained)
	require.InDelta(t, before, testutil.ToFloat64(disabled), 0)

	res, err = newClient().AttestToProposal(ctx, core.SignedBlockProposal{})
	require.NoError(t, err)
	require.Equal(t, ReasonDisabled, res.Abstained)
	require.InDelta(t, before+1, testutil.ToFloat64(disabled), 0)
}
