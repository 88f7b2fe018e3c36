// Copyright © 2022-2025 Obol Labs Inc. Licensed under the terms of a Business Source License 1.1

// Package quorum collects a quorum of distinct signer attestations for a proposal by polling peers.
package quorum

import (
	"context"
	"fmt"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/obolnetwork/attester/app/errors"
	"github.com/obolnetwork/attester/app/log"
	"github.com/obolnetwork/attester/app/z"
	"github.com/obolnetwork/attester/core"
)

// ErrAttestationTimeout is matched by TimeoutError.
var ErrAttestationTimeout = errors.NewSentinel("attestation timeout")

// TimeoutError is returned when the deadline is reached before quorum.
type TimeoutError struct {
	// Collected contains the distinct signer attestations collected before the deadline.
	Collected []core.BlockAttestation
	Required  int
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("attestation timeout: collected %d of %d", len(e.Collected), e.Required)
}

// Is returns true for ErrAttestationTimeout.
func (e *TimeoutError) Is(target error) bool {
	return errors.Is(ErrAttestationTimeout, target)
}

// AttestationSource is the subset of the p2p service used to poll attestations.
type AttestationSource interface {
	GetAttestationsForSlot(ctx context.Context, slot core.Slot, proposalID string) ([]core.BlockAttestation, error)
}

// Option configures a Collector.
type Option func(*Collector)

// WithoutMetrics returns an option that disables metrics, used when several collectors share a process.
func WithoutMetrics() Option {
	return func(c *Collector) {
		c.metrics = false
	}
}

// New returns a new collector polling the source every interval.
func New(source AttestationSource, clock clockwork.Clock, interval time.Duration, opts ...Option) *Collector {
	c := &Collector{
		source:   source,
		clock:    clock,
		interval: interval,
		metrics:  true,
	}
	for _, opt := range opts {
		opt(c)
	}

	return c
}

// Collector collects attestations.
type Collector struct {
	source   AttestationSource
	clock    clockwork.Clock
	interval time.Duration
	metrics  bool
}

// Collect polls the source until required distinct signer attestations matching the proposal
// are observed and returns exactly required of them in first-seen order.
// If the deadline is reached first, it returns a *TimeoutError containing the attestations collected so far.
// The deadline is checked after each poll, so it is not overshot by more than one interval.
func (c *Collector) Collect(ctx context.Context, proposal core.SignedBlockProposal, required int, deadline time.Time,
) ([]core.BlockAttestation, error) {
	if required <= 0 {
		return []core.BlockAttestation{}, nil
	}

	var (
		slot      = proposal.Slot()
		id        = proposal.ID()
		seen      = make(map[core.Address]bool)
		collected []core.BlockAttestation
	)

	ctx = errors.WithCtxErr(ctx, "collect attestations")
	ctx = log.WithCtx(ctx, z.U64("slot", uint64(slot)), z.Str("proposal", id))

	for {
		atts, err := c.poll(ctx, slot, id)
		if ctx.Err() != nil {
			return nil, ctx.Err()
		} else if err != nil {
			log.Warn(ctx, "Polling attestations failed", err)
		}

		for _, att := range atts {
			if !att.Matches(proposal) {
				continue
			}

			sender, err := att.Sender()
			if err != nil {
				log.Debug(ctx, "Ignoring attestation with invalid signature", z.Err(err))
				continue
			} else if seen[sender] {
				continue
			}

			seen[sender] = true
			collected = append(collected, att)

			if len(collected) == required {
				c.observeCollected(len(collected), false)
				log.Debug(ctx, "Collected attestation quorum", z.Int("required", required))

				return collected, nil
			}
		}

		if !c.clock.Now().Before(deadline) {
			c.observeCollected(len(collected), true)

			return nil, &TimeoutError{Collected: collected, Required: required}
		}

		log.Debug(ctx, "Waiting for more attestations",
			z.Int("collected", len(collected)), z.Int("required", required))

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-c.clock.After(c.interval):
		}
	}
}

// poll returns the attestations of a single poll of the source.
func (c *Collector) poll(ctx context.Context, slot core.Slot, id string) ([]core.BlockAttestation, error) {
	t0 := c.clock.Now()
	atts, err := c.source.GetAttestationsForSlot(ctx, slot, id)

	if c.metrics {
		result := "ok"
		if err != nil {
			result = "error"
		}

		pollCounter.WithLabelValues(result).Inc()
		pollDuration.Observe(c.clock.Since(t0).Seconds())
	}

	return atts, err
}

func (c *Collector) observeCollected(n int, timeout bool) {
	if !c.metrics {
		return
	}

	collectedGauge.Set(float64(n))
	if timeout {
		timeoutCounter.Inc()
	}
}
