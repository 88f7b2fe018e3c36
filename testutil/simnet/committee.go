// Copyright © 2022-2025 Obol Labs Inc. Licensed under the terms of a Business Source License 1.1

package simnet

import (
	"context"
	"slices"

	"github.com/obolnetwork/attester/core"
)

var _ core.EpochCache = Committee{}

// NewCommittee returns a committee of the members proposing in round-robin order.
func NewCommittee(members []core.Address) Committee {
	return Committee{members: slices.Clone(members)}
}

// Committee is a static committee whose members propose in round-robin order.
// The queried slot is considered the current slot.
type Committee struct {
	members []core.Address
}

// Size returns the number of committee members.
func (c Committee) Size() int {
	return len(c.members)
}

// Quorum returns the number of attestations required for a proposal, more than two thirds of the committee.
func (c Committee) Quorum() int {
	return len(c.members)*2/3 + 1
}

// ProposerOf returns the proposer of the slot.
func (c Committee) ProposerOf(slot core.Slot) core.Address {
	if len(c.members) == 0 {
		return core.Address{}
	}

	return c.members[uint64(slot)%uint64(len(c.members))]
}

func (c Committee) GetProposerInCurrentOrNextSlot(_ context.Context, slot core.Slot) (core.ProposerSnapshot, error) {
	return core.ProposerSnapshot{
		CurrentProposer: c.ProposerOf(slot),
		NextProposer:    c.ProposerOf(slot + 1),
		CurrentSlot:     slot,
		NextSlot:        slot + 1,
	}, nil
}

func (c Committee) IsInCommittee(_ context.Context, _ core.Slot, addr core.Address) (bool, error) {
	return slices.Contains(c.members, addr), nil
}
