// Copyright © 2022-2025 Obol Labs Inc. Licensed under the terms of a Business Source License 1.1

// Package txavail ensures all transactions of a proposal are available locally before attesting.
package txavail

import (
	"context"
	"fmt"

	"github.com/obolnetwork/attester/app/errors"
	"github.com/obolnetwork/attester/app/log"
	"github.com/obolnetwork/attester/app/z"
	"github.com/obolnetwork/attester/core"
)

// ErrTransactionsUnavailable is matched by UnavailableError.
var ErrTransactionsUnavailable = errors.NewSentinel("transactions unavailable")

// UnavailableError is returned when transactions remain unresolved after fetching from peers.
type UnavailableError struct {
	Missing []core.TxHash
}

func (e *UnavailableError) Error() string {
	return fmt.Sprintf("%d transactions unavailable", len(e.Missing))
}

// Is returns true for ErrTransactionsUnavailable.
func (e *UnavailableError) Is(target error) bool {
	return errors.Is(ErrTransactionsUnavailable, target)
}

// Pool is the subset of the p2p service used to check transaction availability.
type Pool interface {
	HasTxsInPool(ctx context.Context, hashes []core.TxHash) ([]bool, error)
	RequestTxsByHash(ctx context.Context, hashes []core.TxHash) ([]*core.Tx, error)
}

// Option configures a Checker.
type Option func(*Checker)

// WithoutMetrics returns an option that disables metrics, used when several checkers share a process.
func WithoutMetrics() Option {
	return func(c *Checker) {
		c.metrics = false
	}
}

// New returns a new availability checker.
func New(pool Pool, opts ...Option) *Checker {
	c := &Checker{pool: pool, metrics: true}
	for _, opt := range opts {
		opt(c)
	}

	return c
}

// Checker checks transaction availability against the local pool and fetches absent transactions.
type Checker struct {
	pool    Pool
	metrics bool
}

// EnsureAvailable returns nil if all transactions are in the local pool or could be fetched from peers,
// else an *UnavailableError with the unresolved hashes. Fetched transactions must match their hash.
func (c *Checker) EnsureAvailable(ctx context.Context, hashes []core.TxHash) error {
	if len(hashes) == 0 {
		return nil
	}

	inPool, err := c.pool.HasTxsInPool(ctx, hashes)
	if err != nil {
		return errors.Wrap(err, "check txs in pool")
	}

	var absent []core.TxHash
	for i, hash := range hashes {
		// Short responses leave trailing hashes unresolved.
		if i >= len(inPool) || !inPool[i] {
			absent = append(absent, hash)
		}
	}

	if len(absent) == 0 {
		return nil
	}

	log.Debug(ctx, "Requesting missing transactions from peers", z.Int("absent", len(absent)))

	fetched, err := c.pool.RequestTxsByHash(ctx, absent)
	if err != nil {
		return errors.Wrap(err, "request txs by hash")
	}

	var missing []core.TxHash
	for i, hash := range absent {
		if i >= len(fetched) || fetched[i] == nil || fetched[i].Hash() != hash {
			missing = append(missing, hash)
		}
	}

	if c.metrics {
		fetchedCounter.Add(float64(len(absent) - len(missing)))
		missingCounter.Add(float64(len(missing)))
	}

	if len(missing) > 0 {
		return &UnavailableError{Missing: missing}
	}

	return nil
}
