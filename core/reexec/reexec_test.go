// Copyright © 2022-2025 Obol Labs Inc. Licensed under the terms of a Business Source License 1.1

package reexec_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/obolnetwork/attester/app/errors"
	"github.com/obolnetwork/attester/core"
	"github.com/obolnetwork/attester/core/mocks"
	"github.com/obolnetwork/attester/core/reexec"
	"github.com/obolnetwork/attester/testutil"
)

func setup(t *testing.T, n int) (*mocks.P2P, core.SignedBlockProposal, []core.Tx) {
	t.Helper()

	txs, hashes := testutil.RandomTxs(n)
	p2p := mocks.NewP2P(t)
	for i := range txs {
		p2p.On("GetTxByHash", mock.Anything, hashes[i]).Return(&txs[i], nil).Maybe()
	}

	proposal := core.SignedBlockProposal{Payload: testutil.RandomPayload(testutil.RandomSlot(), hashes)}

	return p2p, proposal, txs
}

func TestReexecute(t *testing.T) {
	defer goleak.VerifyNone(t)

	p2p, proposal, txs := setup(t, 5)

	builder := mocks.NewBlockBuilder(t)
	builder.On("Build", mock.Anything, txs, core.BuildInputsFromProposal(proposal)).
		Return(proposal.Payload.Archive, nil).Once()

	require.NoError(t, reexec.New(p2p).Reexecute(context.Background(), builder, proposal))
}

func TestNoBuilder(t *testing.T) {
	p2p := mocks.NewP2P(t)
	proposal := core.SignedBlockProposal{Payload: testutil.RandomPayload(1, testutil.RandomTxHashes(5))}

	err := reexec.New(p2p).Reexecute(context.Background(), nil, proposal)
	require.ErrorIs(t, err, reexec.ErrBlockBuilderNotProvided)
	require.NotErrorIs(t, err, reexec.ErrReexecutionFailed)
}

func TestReexecutionFailed(t *testing.T) {
	testErr := errors.New("invalid block")

	tests := []struct {
		name    string
		builder core.BlockBuilder
		errMsg  string
	}{
		{
			name: "builder error",
			builder: core.BlockBuilderFunc(func(context.Context, []core.Tx, core.BuildInputs) (core.Fr, error) {
				return core.Fr{}, testErr
			}),
			errMsg: "invalid block",
		},
		{
			name: "builder panic",
			builder: core.BlockBuilderFunc(func(context.Context, []core.Tx, core.BuildInputs) (core.Fr, error) {
				panic("boom")
			}),
			errMsg: "builder panic",
		},
		{
			name: "archive mismatch",
			builder: core.BlockBuilderFunc(func(context.Context, []core.Tx, core.BuildInputs) (core.Fr, error) {
				return testutil.RandomFr(), nil
			}),
			errMsg: "archive mismatch",
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			defer goleak.VerifyNone(t)

			p2p, proposal, _ := setup(t, 5)

			err := reexec.New(p2p).Reexecute(context.Background(), test.builder, proposal)
			require.ErrorIs(t, err, reexec.ErrReexecutionFailed)
			require.NotErrorIs(t, err, reexec.ErrBlockBuilderNotProvided)
			require.ErrorContains(t, err, test.errMsg)
		})
	}
}

func TestMissingTx(t *testing.T) {
	defer goleak.VerifyNone(t)

	txs, hashes := testutil.RandomTxs(3)
	p2p := mocks.NewP2P(t)
	p2p.On("GetTxByHash", mock.Anything, hashes[0]).Return(&txs[0], nil).Maybe()
	p2p.On("GetTxByHash", mock.Anything, hashes[1]).Return(nil, nil).Maybe()
	p2p.On("GetTxByHash", mock.Anything, hashes[2]).Return(&txs[2], nil).Maybe()

	proposal := core.SignedBlockProposal{Payload: testutil.RandomPayload(1, hashes)}

	builder := mocks.NewBlockBuilder(t) // Not called.

	err := reexec.New(p2p).Reexecute(context.Background(), builder, proposal)
	require.ErrorIs(t, err, reexec.ErrReexecutionFailed)
	require.ErrorContains(t, err, "tx not found")
}

func TestFetchOrder(t *testing.T) {
	p2p, proposal, txs := setup(t, 40)

	var got []core.Tx
	builder := core.BlockBuilderFunc(func(_ context.Context, txs []core.Tx, _ core.BuildInputs) (core.Fr, error) {
		got = txs
		return proposal.Payload.Archive, nil
	})

	require.NoError(t, reexec.New(p2p).Reexecute(context.Background(), builder, proposal))
	require.Equal(t, txs, got)
}

func TestCancelled(t *testing.T) {
	p2p, proposal, _ := setup(t, 2)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := reexec.New(p2p).Reexecute(ctx, mocks.NewBlockBuilder(t), proposal)
	require.ErrorIs(t, err, context.Canceled)
	require.NotErrorIs(t, err, reexec.ErrReexecutionFailed)
}
