// Copyright © 2022-2025 Obol Labs Inc. Licensed under the terms of a Business Source License 1.1

package quorum_test

import (
	"context"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/obolnetwork/attester/app/errors"
	"github.com/obolnetwork/attester/core"
	"github.com/obolnetwork/attester/core/mocks"
	"github.com/obolnetwork/attester/core/quorum"
	"github.com/obolnetwork/attester/core/signer"
	"github.com/obolnetwork/attester/testutil"
)

const interval = time.Second

type result struct {
	atts []core.BlockAttestation
	err  error
}

func newProposal(t *testing.T) core.SignedBlockProposal {
	t.Helper()

	proposer, err := signer.Random()
	require.NoError(t, err)

	proposal, err := proposer.SignProposal(testutil.RandomPayload(testutil.RandomSlot(), testutil.RandomTxHashes(3)))
	require.NoError(t, err)

	return proposal
}

func attest(t *testing.T, proposal core.SignedBlockProposal) (core.BlockAttestation, core.Address) {
	t.Helper()

	s, err := signer.Random()
	require.NoError(t, err)

	att, err := s.SignAttestation(proposal.Slot(), proposal.Payload.Archive, proposal.Payload.TxHashes)
	require.NoError(t, err)

	return att, s.Address()
}

func senders(t *testing.T, atts []core.BlockAttestation) []core.Address {
	t.Helper()

	var resp []core.Address
	for _, att := range atts {
		sender, err := att.Sender()
		require.NoError(t, err)
		resp = append(resp, sender)
	}

	return resp
}

func collectAsync(ctx context.Context, c *quorum.Collector, proposal core.SignedBlockProposal, n int, deadline time.Time) <-chan result {
	resp := make(chan result, 1)
	go func() {
		atts, err := c.Collect(ctx, proposal, n, deadline)
		resp <- result{atts: atts, err: err}
	}()

	return resp
}

func TestTimeout(t *testing.T) {
	defer goleak.VerifyNone(t)

	ctx := context.Background()
	clock := clockwork.NewFakeClock()
	proposal := newProposal(t)
	deadline := clock.Now().Add(3 * interval)

	p2p := mocks.NewP2P(t)
	p2p.On("GetAttestationsForSlot", mock.Anything, proposal.Slot(), proposal.ID()).Return(nil, nil).Times(4)

	resCh := collectAsync(ctx, quorum.New(p2p, clock, interval), proposal, 2, deadline)

	for range 3 {
		require.NoError(t, clock.BlockUntilContext(ctx, 1))
		clock.Advance(interval)
	}

	res := <-resCh
	require.ErrorIs(t, res.err, quorum.ErrAttestationTimeout)
	require.Nil(t, res.atts)

	var timeout *quorum.TimeoutError
	require.True(t, errors.As(res.err, &timeout))
	require.Empty(t, timeout.Collected)
	require.Equal(t, 2, timeout.Required)

	// Not earlier than the deadline, not later than one interval after.
	require.False(t, clock.Now().Before(deadline))
	require.LessOrEqual(t, clock.Now().Sub(deadline), interval)
}

func TestTimeoutPartial(t *testing.T) {
	ctx := context.Background()
	clock := clockwork.NewFakeClock()
	proposal := newProposal(t)
	att, addr := attest(t, proposal)

	p2p := mocks.NewP2P(t)
	p2p.On("GetAttestationsForSlot", mock.Anything, proposal.Slot(), proposal.ID()).
		Return([]core.BlockAttestation{att}, nil)

	// Deadline already passed, so a single poll.
	_, err := quorum.New(p2p, clock, interval).Collect(ctx, proposal, 3, clock.Now())

	var timeout *quorum.TimeoutError
	require.True(t, errors.As(err, &timeout))
	require.Equal(t, []core.Address{addr}, senders(t, timeout.Collected))
	require.Equal(t, "attestation timeout: collected 1 of 3", err.Error())
	p2p.AssertNumberOfCalls(t, "GetAttestationsForSlot", 1)
}

func TestQuorumFirstPoll(t *testing.T) {
	ctx := context.Background()
	clock := clockwork.NewFakeClock()
	proposal := newProposal(t)

	att1, addr1 := attest(t, proposal)
	att2, addr2 := attest(t, proposal)
	att3, _ := attest(t, proposal)

	p2p := mocks.NewP2P(t)
	p2p.On("GetAttestationsForSlot", mock.Anything, proposal.Slot(), proposal.ID()).
		Return([]core.BlockAttestation{att1, att1, att2, att3}, nil).Once()

	atts, err := quorum.New(p2p, clock, interval).Collect(ctx, proposal, 2, clock.Now().Add(time.Minute))
	require.NoError(t, err)
	require.Len(t, atts, 2)
	require.Equal(t, []core.Address{addr1, addr2}, senders(t, atts))
}

func TestQuorumAcrossPolls(t *testing.T) {
	defer goleak.VerifyNone(t)

	ctx := context.Background()
	clock := clockwork.NewFakeClock()
	proposal := newProposal(t)

	att1, addr1 := attest(t, proposal)
	att2, addr2 := attest(t, proposal)
	att3, addr3 := attest(t, proposal)

	// Attestations for other proposals and with invalid signatures are ignored.
	otherSlot := att1
	otherSlot.Slot++
	otherArchive, _ := attest(t, newProposal(t))
	otherArchive.Slot = proposal.Slot()
	badSig := att3
	badSig.Signature = []byte{1, 2, 3}

	p2p := mocks.NewP2P(t)
	p2p.On("GetAttestationsForSlot", mock.Anything, proposal.Slot(), proposal.ID()).
		Return([]core.BlockAttestation{att1, otherArchive, badSig}, nil).Once()
	p2p.On("GetAttestationsForSlot", mock.Anything, proposal.Slot(), proposal.ID()).
		Return(nil, errors.New("network hiccup")).Once()
	p2p.On("GetAttestationsForSlot", mock.Anything, proposal.Slot(), proposal.ID()).
		Return([]core.BlockAttestation{otherSlot, att1, att2, att1, att3}, nil).Once()

	resCh := collectAsync(ctx, quorum.New(p2p, clock, interval), proposal, 3, clock.Now().Add(time.Minute))

	for range 2 {
		require.NoError(t, clock.BlockUntilContext(ctx, 1))
		clock.Advance(interval)
	}

	res := <-resCh
	require.NoError(t, res.err)
	require.Equal(t, []core.Address{addr1, addr2, addr3}, senders(t, res.atts))
}

func TestRequiredZero(t *testing.T) {
	p2p := mocks.NewP2P(t)

	atts, err := quorum.New(p2p, clockwork.NewFakeClock(), interval).
		Collect(context.Background(), newProposal(t), 0, time.Time{})
	require.NoError(t, err)
	require.Empty(t, atts)
}

func TestCancelled(t *testing.T) {
	defer goleak.VerifyNone(t)

	ctx, cancel := context.WithCancel(context.Background())
	clock := clockwork.NewFakeClock()
	proposal := newProposal(t)

	p2p := mocks.NewP2P(t)
	p2p.On("GetAttestationsForSlot", mock.Anything, proposal.Slot(), proposal.ID()).Return(nil, nil)

	resCh := collectAsync(ctx, quorum.New(p2p, clock, interval), proposal, 1, clock.Now().Add(time.Hour))

	require.NoError(t, clock.BlockUntilContext(ctx, 1))
	cancel()

	res := <-resCh
	require.ErrorIs(t, res.err, context.Canceled)
	require.ErrorContains(t, res.err, "collect attestations")
	require.NotErrorIs(t, res.err, quorum.ErrAttestationTimeout)
}
