// Copyright © 2022-2025 Obol Labs Inc. Licensed under the terms of a Business Source License 1.1

// Package reexec rebuilds a proposed block from its transactions and verifies the resulting archive.
package reexec

import (
	"context"
	"fmt"

	"github.com/obolnetwork/attester/app/errors"
	"github.com/obolnetwork/attester/app/forkjoin"
	"github.com/obolnetwork/attester/app/log"
	"github.com/obolnetwork/attester/app/z"
	"github.com/obolnetwork/attester/core"
)

var (
	// ErrBlockBuilderNotProvided is returned when re-execution is requested without a registered builder.
	ErrBlockBuilderNotProvided = errors.NewSentinel("block builder not provided")

	// ErrReexecutionFailed is returned when the proposal could not be rebuilt or its archive differs.
	ErrReexecutionFailed = errors.NewSentinel("re-execution failed")

	errTxNotFound = errors.NewSentinel("tx not found")
)

const fetchWorkers = 16

// TxFetcher is the subset of the p2p service used to fetch transactions.
type TxFetcher interface {
	GetTxByHash(ctx context.Context, hash core.TxHash) (*core.Tx, error)
}

// New returns a new re-execution guard.
func New(fetcher TxFetcher) *Guard {
	return &Guard{fetcher: fetcher}
}

// Guard re-executes proposals.
type Guard struct {
	fetcher TxFetcher
}

// Reexecute fetches all transactions of the proposal, rebuilds the block with the builder
// and returns nil if the resulting archive matches the proposal's.
// It returns ErrBlockBuilderNotProvided if the builder is nil and an error
// matching ErrReexecutionFailed for any other failure.
func (g *Guard) Reexecute(ctx context.Context, builder core.BlockBuilder, proposal core.SignedBlockProposal) error {
	if builder == nil {
		return errors.Wrap(ErrBlockBuilderNotProvided, "reexecute")
	}

	txs, err := forkjoin.Map(ctx, g.fetchTx, proposal.Payload.TxHashes, forkjoin.WithWorkers(fetchWorkers))
	if ctx.Err() != nil {
		return errors.Wrap(ctx.Err(), "fetch txs")
	} else if err != nil {
		return failed(err, "fetch txs")
	}

	archive, err := build(ctx, builder, txs, core.BuildInputsFromProposal(proposal))
	if err != nil {
		return failed(err, "build block")
	}

	if archive != proposal.Payload.Archive {
		return failed(errors.New("archive mismatch",
			z.Str("expected", proposal.Payload.Archive.String()),
			z.Str("actual", archive.String()),
		), "verify archive")
	}

	log.Debug(ctx, "Re-executed proposal", z.Int("txs", len(txs)))

	return nil
}

func (g *Guard) fetchTx(ctx context.Context, hash core.TxHash) (core.Tx, error) {
	tx, err := g.fetcher.GetTxByHash(ctx, hash)
	if err != nil {
		return core.Tx{}, errors.Wrap(err, "get tx by hash", z.Str("hash", hash.String()))
	} else if tx == nil {
		return core.Tx{}, errors.Wrap(errTxNotFound, "get tx by hash", z.Str("hash", hash.String()))
	}

	return *tx, nil
}

// build calls the builder converting panics into errors.
func build(ctx context.Context, builder core.BlockBuilder, txs []core.Tx, inputs core.BuildInputs) (archive core.Fr, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = errors.New("builder panic", z.Str("panic", fmt.Sprint(r)))
		}
	}()

	return builder.Build(ctx, txs, inputs)
}

// failed returns an error matching both ErrReexecutionFailed and the cause.
func failed(cause error, msg string) error {
	return errors.SkipWrap(failure{cause: cause}, msg, 3)
}

type failure struct {
	cause error
}

func (f failure) Error() string {
	return "re-execution failed: " + f.cause.Error()
}

func (f failure) Unwrap() error {
	return f.cause
}

func (f failure) Is(target error) bool {
	return errors.Is(ErrReexecutionFailed, target)
}
