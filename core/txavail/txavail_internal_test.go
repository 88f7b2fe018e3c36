// Copyright © 2022-2025 Obol Labs Inc. Licensed under the terms of a Business Source License 1.1

package txavail

import (
	"context"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/obolnetwork/attester/core"
	"github.com/obolnetwork/attester/core/mocks"
)

func TestMetrics(t *testing.T) {
	ctx := context.Background()
	hashes := []core.TxHash{{1}, {2}}

	newPool := func() *mocks.P2P {
		p2p := mocks.NewP2P(t)
		p2p.On("HasTxsInPool", mock.Anything, hashes).Return([]bool{false, false}, nil).Once()
		p2p.On("RequestTxsByHash", mock.Anything, hashes).Return([]*core.Tx{nil, nil}, nil).Once()

		return p2p
	}

	before := testutil.ToFloat64(missingCounter)

	err := New(newPool(), WithoutMetrics()).EnsureAvailable(ctx, hashes)
	require.ErrorIs(t, err, ErrTransactionsUnavailable)
	require.InDelta(t, before, testutil.ToFloat64(missingCounter), 0)

	err = New(newPool()).EnsureAvailable(ctx, hashes)
	require.ErrorIs(t, err, ErrTransactionsUnavailable)
	require.InDelta(t, before+2, testutil.ToFloat64(missingCounter), 0)
}
