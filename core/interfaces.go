// Copyright © 2022-2025 Obol Labs Inc. Licensed under the terms of a Business Source License 1.1

package core

import (
	"context"
)

//go:generate mockery --name=EpochCache --output=mocks --outpkg=mocks --case=underscore
//go:generate mockery --name=P2P --output=mocks --outpkg=mocks --case=underscore
//go:generate mockery --name=BlockBuilder --output=mocks --outpkg=mocks --case=underscore

// EpochCache provides point-in-time proposer and committee facts for slots.
type EpochCache interface {
	// GetProposerInCurrentOrNextSlot returns the proposers of the current and next slot relative to the slot.
	GetProposerInCurrentOrNextSlot(ctx context.Context, slot Slot) (ProposerSnapshot, error)

	// IsInCommittee returns true if the address is a committee member for the slot.
	IsInCommittee(ctx context.Context, slot Slot, addr Address) (bool, error)
}

// P2P is the network and transaction pool service. Requests are expected to be
// bounded by the implementation's own timeouts.
type P2P interface {
	// GetAttestationsForSlot returns all attestations seen for the slot and proposal id.
	GetAttestationsForSlot(ctx context.Context, slot Slot, proposalID string) ([]BlockAttestation, error)

	// GetTxByHash returns the transaction from the local pool or nil if absent.
	GetTxByHash(ctx context.Context, hash TxHash) (*Tx, error)

	// GetTxStatus returns the pool status of the transaction.
	GetTxStatus(ctx context.Context, hash TxHash) (TxStatus, error)

	// HasTxsInPool returns whether each transaction is in the local pool, in input order.
	HasTxsInPool(ctx context.Context, hashes []TxHash) ([]bool, error)

	// RequestTxsByHash requests transactions from peers returning them in input order,
	// nil entries are unresolved.
	RequestTxsByHash(ctx context.Context, hashes []TxHash) ([]*Tx, error)
}

// BuildInputs are the declared inputs of a proposal a block is rebuilt from.
type BuildInputs struct {
	BlockNumber uint64
	Header      ProposedHeader
	State       StateReference
}

// BuildInputsFromProposal returns the declared build inputs of the proposal.
func BuildInputsFromProposal(p SignedBlockProposal) BuildInputs {
	return BuildInputs{
		BlockNumber: p.Payload.BlockNumber,
		Header:      p.Payload.Header,
		State:       p.Payload.State,
	}
}

// BlockBuilder rebuilds a block from its transactions and returns the resulting archive.
type BlockBuilder interface {
	Build(ctx context.Context, txs []Tx, inputs BuildInputs) (Fr, error)
}

// BlockBuilderFunc adapts a function to a BlockBuilder.
type BlockBuilderFunc func(ctx context.Context, txs []Tx, inputs BuildInputs) (Fr, error)

func (f BlockBuilderFunc) Build(ctx context.Context, txs []Tx, inputs BuildInputs) (Fr, error) {
	return f(ctx, txs, inputs)
}
