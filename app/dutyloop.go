// Copyright © 2022-2025 Obol Labs Inc. Licensed under the terms of a Business Source License 1.1

package app

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/ethereum/go-ethereum/crypto"
	"github.com/jonboulle/clockwork"
	"golang.org/x/sync/errgroup"

	"github.com/obolnetwork/attester/app/errors"
	"github.com/obolnetwork/attester/app/log"
	"github.com/obolnetwork/attester/app/z"
	"github.com/obolnetwork/attester/core"
	"github.com/obolnetwork/attester/core/quorum"
	"github.com/obolnetwork/attester/core/signer"
	"github.com/obolnetwork/attester/core/validator"
	"github.com/obolnetwork/attester/testutil"
	"github.com/obolnetwork/attester/testutil/simnet"
)

const txsPerSlot = 8

// SlotResult is the outcome of a simnet slot.
type SlotResult struct {
	Slot     core.Slot
	Proposer core.Address
	Proposal core.SignedBlockProposal
	// Attested is the number of committee members that attested to the proposal.
	Attested int
	// Quorum is the attestation quorum collected by the local validator, empty on error.
	Quorum []core.BlockAttestation
	Err    error
}

type participant struct {
	client *validator.Client
	node   *simnet.Node
}

// dutyLoop drives a simnet: every slot the scheduled proposer proposes a block,
// all participants attest and the local validator collects the quorum.
type dutyLoop struct {
	clock        clockwork.Clock
	slotDuration time.Duration
	callback     func(context.Context, SlotResult)

	net          *simnet.Network
	committee    simnet.Committee
	local        *validator.Client
	participants []participant // Local validator first.

	ready    atomic.Bool
	quit     chan struct{}
	quitOnce sync.Once

	// Only accessed by the Run goroutine.
	slot        core.Slot
	lastArchive core.Fr
}

// newDutyLoop returns a simnet duty loop of the local validator and random peers.
// A disabled local validator is not a committee member.
func newDutyLoop(conf Config, clock clockwork.Clock) (*dutyLoop, error) {
	if conf.SimnetSlotDuration <= 0 {
		return nil, errors.New("invalid simnet slot duration", z.Str("duration", conf.SimnetSlotDuration.String()))
	} else if conf.SimnetCommitteeSize <= 0 {
		return nil, errors.New("invalid simnet committee size", z.Int("size", conf.SimnetCommitteeSize))
	}

	var members []core.Address

	peerCount := conf.SimnetCommitteeSize
	if !conf.Validator.Disabled {
		self, err := signer.New(conf.Validator.PrivateKey)
		if err != nil {
			return nil, err
		}

		members = append(members, self.Address())
		peerCount--
	}

	var peerConfs []validator.Config
	for range peerCount {
		s, err := signer.Random()
		if err != nil {
			return nil, err
		}

		members = append(members, s.Address())
		peerConfs = append(peerConfs, validator.Config{
			PrivateKey:                 fmt.Sprintf("%x", s.PrivateKey().Serialize()),
			AttestationPollingInterval: conf.Validator.AttestationPollingInterval,
			Reexecute:                  true,
		})
	}

	var (
		net          = simnet.NewNetwork()
		committee    = simnet.NewCommittee(members)
		participants []participant
	)

	for i, valConf := range append([]validator.Config{conf.Validator}, peerConfs...) {
		node := net.NewNode()

		opts := []validator.Option{validator.WithClock(clock)}
		if i > 0 {
			// Only the local validator records metrics.
			opts = append(opts, validator.WithoutMetrics())
		}

		client, err := validator.New(valConf, committee, node, opts...)
		if err != nil {
			return nil, err
		}

		client.RegisterBlockBuilder(simnet.Builder)
		participants = append(participants, participant{client: client, node: node})
	}

	callback := conf.TestConfig.SlotCallback
	if callback == nil {
		callback = func(context.Context, SlotResult) {}
	}

	return &dutyLoop{
		clock:        clock,
		slotDuration: conf.SimnetSlotDuration,
		callback:     callback,
		net:          net,
		committee:    committee,
		local:        participants[0].client,
		participants: participants,
		quit:         make(chan struct{}),
	}, nil
}

// Run runs the duty loop until the context is cancelled or Stop is called.
func (l *dutyLoop) Run(ctx context.Context) error {
	ctx = log.WithTopic(ctx, "simnet")

	ticker := l.clock.NewTicker(l.slotDuration)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-l.quit:
			return nil
		case <-ticker.Chan():
			l.slot++

			res := l.runSlot(ctx, l.slot)
			if ctx.Err() != nil {
				return nil
			}

			l.record(ctx, res)
			l.ready.Store(true)
			l.callback(ctx, res)
		}
	}
}

// Stop stops the duty loop.
func (l *dutyLoop) Stop(context.Context) {
	l.quitOnce.Do(func() {
		close(l.quit)
	})
}

// Ready returns nil once the first slot completed.
func (l *dutyLoop) Ready() error {
	if !l.ready.Load() {
		return errNotReady
	}

	return nil
}

func (l *dutyLoop) record(ctx context.Context, res SlotResult) {
	ctx = log.WithCtx(ctx, z.U64("slot", uint64(res.Slot)), z.Str("proposer", res.Proposer.Hex()))

	switch {
	case res.Err == nil:
		slotCounter.WithLabelValues("quorum").Inc()
		log.Info(ctx, "Slot completed with attestation quorum",
			z.Int("attested", res.Attested),
			z.Int("quorum", len(res.Quorum)),
		)
	case errors.Is(res.Err, quorum.ErrAttestationTimeout):
		slotCounter.WithLabelValues("timeout").Inc()
		log.Warn(ctx, "Slot completed without attestation quorum", res.Err, z.Int("attested", res.Attested))
	default:
		slotCounter.WithLabelValues("error").Inc()
		log.Error(ctx, "Slot failed", res.Err)
	}
}

// proposer returns the participant whose turn it is to propose.
func (l *dutyLoop) proposer(ctx context.Context, slot core.Slot) (participant, error) {
	for _, p := range l.participants {
		ok, err := p.client.IsTurnToPropose(ctx, slot)
		if err != nil {
			return participant{}, err
		} else if ok {
			return p, nil
		}
	}

	return participant{}, errors.New("no proposer for slot")
}

func (l *dutyLoop) runSlot(ctx context.Context, slot core.Slot) SlotResult {
	res := SlotResult{Slot: slot}

	proposer, err := l.proposer(ctx, slot)
	if err != nil {
		res.Err = err
		return res
	}

	res.Proposer = proposer.client.Address()

	proposal, err := l.propose(ctx, proposer, slot)
	if err != nil {
		res.Err = err
		return res
	}

	res.Proposal = proposal

	received, err := l.net.GossipProposal(proposal)
	if err != nil {
		res.Err = errors.Wrap(err, "gossip proposal")
		return res
	}

	res.Attested, err = l.attest(ctx, received)
	if err != nil {
		res.Err = err
		return res
	}

	deadline := l.clock.Now().Add(l.slotDuration)

	res.Quorum, err = l.local.CollectAttestations(ctx, received, l.committee.Quorum(), deadline)
	if err != nil {
		res.Err = err
		return res
	}

	l.lastArchive = received.Payload.Archive
	l.net.MarkMined(received.Payload.TxHashes)
	l.net.Prune(slot)

	return res
}

// propose creates a block of random transactions seeded into the proposer's pool.
func (l *dutyLoop) propose(ctx context.Context, proposer participant, slot core.Slot) (core.SignedBlockProposal, error) {
	txs, hashes := testutil.RandomTxs(txsPerSlot)
	l.net.SeedTxs(txs, proposer.node)

	var commitment [32]byte
	for _, hash := range hashes {
		commitment = crypto.Keccak256Hash(commitment[:], hash[:])
	}

	inputs := core.BuildInputs{
		BlockNumber: uint64(slot),
		Header: core.ProposedHeader{
			LastArchive:       l.lastArchive,
			ContentCommitment: commitment,
			Slot:              slot,
			Timestamp:         uint64(l.clock.Now().Unix()),
			Coinbase:          proposer.client.Address(),
		},
		State: testutil.RandomState(),
	}

	archive, err := simnet.Build(ctx, txs, inputs)
	if err != nil {
		return core.SignedBlockProposal{}, errors.Wrap(err, "build block")
	}

	return proposer.client.CreateBlockProposal(ctx, inputs.BlockNumber, inputs.Header, archive, inputs.State, hashes)
}

// attest has all participants attest to the proposal concurrently and returns the number of attestations.
func (l *dutyLoop) attest(ctx context.Context, proposal core.SignedBlockProposal) (int, error) {
	var (
		attested atomic.Int64
		eg, ectx = errgroup.WithContext(ctx)
	)

	for _, p := range l.participants {
		eg.Go(func() error {
			res, err := p.client.AttestToProposal(ectx, proposal)
			if err != nil {
				return err
			} else if !res.Attested() {
				return nil
			}

			attested.Add(1)

			return l.net.PublishAttestation(res.Attestation)
		})
	}

	if err := eg.Wait(); err != nil {
		return 0, errors.Wrap(err, "attest to proposal")
	}

	return int(attested.Load()), nil
}
