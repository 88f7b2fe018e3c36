// Copyright © 2022-2025 Obol Labs Inc. Licensed under the terms of a Business Source License 1.1

// Package validator performs the block proposer and attester duties of a single validator.
package validator

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/jonboulle/clockwork"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/obolnetwork/attester/app/errors"
	"github.com/obolnetwork/attester/app/log"
	"github.com/obolnetwork/attester/app/tracer"
	"github.com/obolnetwork/attester/app/z"
	"github.com/obolnetwork/attester/core"
	"github.com/obolnetwork/attester/core/duty"
	"github.com/obolnetwork/attester/core/quorum"
	"github.com/obolnetwork/attester/core/reexec"
	"github.com/obolnetwork/attester/core/signer"
	"github.com/obolnetwork/attester/core/txavail"
)

// ErrValidatorDisabled is returned by duties that refuse to run in disabled mode.
var ErrValidatorDisabled = errors.NewSentinel("validator disabled")

// Config is the validator client configuration.
type Config struct {
	// PrivateKey is the hex encoded secp256k1 private key, optionally 0x prefixed.
	PrivateKey string
	// AttestationPollingInterval is the delay between attestation polls.
	AttestationPollingInterval time.Duration
	// Disabled disables all duties.
	Disabled bool
	// Reexecute enables re-execution of proposals before attesting.
	Reexecute bool
}

// DefaultConfig returns the default validator configuration without a private key.
func DefaultConfig() Config {
	return Config{
		AttestationPollingInterval: 200 * time.Millisecond,
	}
}

// Option configures a Client.
type Option func(*options)

type options struct {
	clock   clockwork.Clock
	metrics bool
}

// WithClock returns an option that sets the clock used for attestation collection.
func WithClock(clock clockwork.Clock) Option {
	return func(o *options) {
		o.clock = clock
	}
}

// WithoutMetrics returns an option that disables metrics of the client and its components.
// Only one client per process should record metrics since they are not labelled per validator.
func WithoutMetrics() Option {
	return func(o *options) {
		o.metrics = false
	}
}

// Result is the outcome of AttestToProposal. Either Attestation is populated or Abstained is set.
type Result struct {
	Attestation core.BlockAttestation
	Abstained   Reason
}

// Attested returns true if an attestation was produced.
func (r Result) Attested() bool {
	return r.Abstained == Reason{}
}

func abstain(reason Reason) Result {
	return Result{Abstained: reason}
}

// builderRef wraps the registered builder so it can be stored atomically.
type builderRef struct {
	builder core.BlockBuilder
}

// New returns a new validator client. It returns an error matching signer.ErrInvalidPrivateKey
// if the configured key is invalid, unless the client is disabled.
func New(conf Config, epochCache core.EpochCache, p2p core.P2P, opts ...Option) (*Client, error) {
	o := options{clock: clockwork.NewRealClock(), metrics: true}
	for _, opt := range opts {
		opt(&o)
	}

	if conf.AttestationPollingInterval <= 0 {
		conf.AttestationPollingInterval = DefaultConfig().AttestationPollingInterval
	}

	var s *signer.Signer
	if !conf.Disabled {
		var err error
		s, err = signer.New(conf.PrivateKey)
		if err != nil {
			return nil, err
		}
	}

	var (
		txavailOpts []txavail.Option
		quorumOpts  []quorum.Option
	)
	if !o.metrics {
		txavailOpts = append(txavailOpts, txavail.WithoutMetrics())
		quorumOpts = append(quorumOpts, quorum.WithoutMetrics())
	}

	return &Client{
		conf:       conf,
		clock:      o.clock,
		metrics:    o.metrics,
		signer:     s,
		epochCache: epochCache,
		txavail:    txavail.New(p2p, txavailOpts...),
		reexec:     reexec.New(p2p),
		quorum:     quorum.New(p2p, o.clock, conf.AttestationPollingInterval, quorumOpts...),
	}, nil
}

// Client is a validator client. It is safe for concurrent use.
type Client struct {
	conf       Config
	clock      clockwork.Clock
	metrics    bool
	signer     *signer.Signer // Nil if disabled.
	epochCache core.EpochCache
	txavail    *txavail.Checker
	reexec     *reexec.Guard
	quorum     *quorum.Collector
	builder    atomic.Pointer[builderRef]
}

// Address returns the validator's address or the zero address if disabled.
func (c *Client) Address() core.Address {
	if c.signer == nil {
		return core.Address{}
	}

	return c.signer.Address()
}

// RegisterBlockBuilder registers the builder used to re-execute proposals. The last registration wins.
func (c *Client) RegisterBlockBuilder(builder core.BlockBuilder) {
	c.builder.Store(&builderRef{builder: builder})
}

func (c *Client) blockBuilder() core.BlockBuilder {
	ref := c.builder.Load()
	if ref == nil {
		return nil
	}

	return ref.builder
}

// IsTurnToPropose returns true if this validator is the expected proposer of the slot.
func (c *Client) IsTurnToPropose(ctx context.Context, slot core.Slot) (bool, error) {
	if c.conf.Disabled {
		return false, nil
	}

	snapshot, err := c.epochCache.GetProposerInCurrentOrNextSlot(ctx, slot)
	if err != nil {
		return false, errors.Wrap(err, "get proposer snapshot", z.U64("slot", uint64(slot)))
	}

	return duty.IsTurnToPropose(slot, snapshot, c.Address()), nil
}

// CreateBlockProposal signs and returns a proposal with the provided contents.
// It does not check whether it is this validator's turn to propose.
func (c *Client) CreateBlockProposal(ctx context.Context, blockNumber uint64, header core.ProposedHeader,
	archive core.Fr, state core.StateReference, txHashes []core.TxHash,
) (core.SignedBlockProposal, error) {
	slotDuty := core.NewProposerDuty(header.Slot)
	defer c.observeDuty(slotDuty, c.clock.Now())

	ctx, span := tracer.Start(ctx, "core/validator.CreateBlockProposal")
	defer span.End()
	span.SetAttributes(attribute.String("duty", slotDuty.String()))

	if c.conf.Disabled {
		return core.SignedBlockProposal{}, errors.Wrap(ErrValidatorDisabled, "create block proposal")
	}

	proposal, err := c.signer.SignProposal(core.BlockProposalPayload{
		BlockNumber: blockNumber,
		Header:      header,
		State:       state,
		Archive:     archive,
		TxHashes:    append([]core.TxHash(nil), txHashes...),
	})
	if err != nil {
		recordErr(span, err)
		return core.SignedBlockProposal{}, err
	}

	if c.metrics {
		proposalCounter.Inc()
	}

	log.Info(ctx, "Created block proposal",
		z.Str("duty", slotDuty.String()),
		z.U64("block", blockNumber),
		z.Str("archive", archive.String()),
		z.Int("txs", len(txHashes)),
	)

	return proposal, nil
}

// AttestToProposal evaluates the proposal and returns a signed attestation if this validator
// should attest to it. Abstentions are returned as a Result with a Reason, not as errors.
// It returns an error matching txavail.ErrTransactionsUnavailable if proposal transactions
// are unavailable and reexec.ErrBlockBuilderNotProvided if re-execution is enabled without a builder.
func (c *Client) AttestToProposal(ctx context.Context, proposal core.SignedBlockProposal) (Result, error) {
	slotDuty := core.NewAttesterDuty(proposal.Slot())
	defer c.observeDuty(slotDuty, c.clock.Now())

	ctx, span := tracer.Start(ctx, "core/validator.AttestToProposal")
	defer span.End()
	span.SetAttributes(attribute.String("duty", slotDuty.String()), attribute.String("proposal", proposal.ID()))

	ctx = log.WithCtx(ctx, z.Str("duty", slotDuty.String()), z.Str("proposal", proposal.ID()))

	res, err := c.attest(ctx, proposal)
	if err != nil {
		c.countAttest("error")
		recordErr(span, err)

		return Result{}, err
	}

	if !res.Attested() {
		c.countAttest(res.Abstained.Code)
		span.SetAttributes(attribute.String("abstained", res.Abstained.Code))
		log.Debug(ctx, "Abstained from attesting to proposal", z.Str("reason", res.Abstained.Code))

		return res, nil
	}

	c.countAttest("attested")
	log.Info(ctx, "Attested to proposal", z.Int("txs", len(res.Attestation.TxHashes)))

	return res, nil
}

func (c *Client) attest(ctx context.Context, proposal core.SignedBlockProposal) (Result, error) {
	if c.conf.Disabled {
		return abstain(ReasonDisabled), nil
	}

	slot := proposal.Slot()

	proposer, err := proposal.Sender()
	if err != nil {
		log.Debug(ctx, "Invalid proposal signature", z.Err(err))
		return abstain(ReasonInvalidProposalSignature), nil
	}

	inCommittee, err := c.epochCache.IsInCommittee(ctx, slot, c.Address())
	if err != nil {
		return Result{}, errors.Wrap(err, "check committee membership")
	}

	snapshot, err := c.epochCache.GetProposerInCurrentOrNextSlot(ctx, slot)
	if err != nil {
		return Result{}, errors.Wrap(err, "get proposer snapshot")
	}

	if verdict := duty.CanAttest(slot, snapshot, proposer, inCommittee); !verdict.Eligible() {
		return abstain(reasonFromVerdict(verdict)), nil
	}

	if err := c.EnsureTransactionsAreAvailable(ctx, proposal); err != nil {
		return Result{}, err
	}

	if c.conf.Reexecute {
		err := c.ReexecuteTransactions(ctx, proposal)
		if errors.Is(err, reexec.ErrReexecutionFailed) {
			log.Warn(ctx, "Proposal re-execution failed", err)
			return abstain(ReasonReexecutionFailed), nil
		} else if err != nil {
			return Result{}, err
		}
	}

	att, err := c.signer.SignAttestation(slot, proposal.Payload.Archive, proposal.Payload.TxHashes)
	if err != nil {
		return Result{}, err
	}

	return Result{Attestation: att}, nil
}

// EnsureTransactionsAreAvailable returns nil if all transactions of the proposal are in the local pool
// or could be fetched from peers, otherwise an error matching txavail.ErrTransactionsUnavailable.
func (c *Client) EnsureTransactionsAreAvailable(ctx context.Context, proposal core.SignedBlockProposal) error {
	return c.txavail.EnsureAvailable(ctx, proposal.Payload.TxHashes)
}

// ReexecuteTransactions rebuilds the proposal with the registered block builder and verifies its archive.
// It runs regardless of Config.Reexecute.
func (c *Client) ReexecuteTransactions(ctx context.Context, proposal core.SignedBlockProposal) error {
	return c.reexec.Reexecute(ctx, c.blockBuilder(), proposal)
}

// CollectAttestations polls until required distinct attestations to the proposal are observed
// or returns an error matching quorum.ErrAttestationTimeout once the deadline passes.
func (c *Client) CollectAttestations(ctx context.Context, proposal core.SignedBlockProposal, required int,
	deadline time.Time,
) ([]core.BlockAttestation, error) {
	slotDuty := core.NewQuorumDuty(proposal.Slot())
	defer c.observeDuty(slotDuty, c.clock.Now())

	ctx, span := tracer.Start(ctx, "core/validator.CollectAttestations")
	defer span.End()
	span.SetAttributes(attribute.String("duty", slotDuty.String()), attribute.Int("required", required))

	atts, err := c.quorum.Collect(ctx, proposal, required, deadline)
	if err != nil {
		recordErr(span, err)
		return nil, err
	}

	return atts, nil
}

func (c *Client) countAttest(result string) {
	if c.metrics {
		attestCounter.WithLabelValues(result).Inc()
	}
}

// observeDuty records the duration of the duty started at t0.
func (c *Client) observeDuty(d core.Duty, t0 time.Time) {
	if c.metrics {
		dutyDuration.WithLabelValues(d.Type.String()).Observe(c.clock.Since(t0).Seconds())
	}
}

func recordErr(span trace.Span, err error) {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
}
