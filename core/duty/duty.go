// Copyright © 2022-2025 Obol Labs Inc. Licensed under the terms of a Business Source License 1.1

// Package duty decides whether the local validator is the proposer or an eligible attester for a slot.
package duty

import (
	"github.com/obolnetwork/attester/core"
)

// Verdict is the outcome of an attestation eligibility evaluation.
type Verdict int

const (
	Eligible Verdict = iota
	WrongSlot
	ProposerMismatch
	NotInCommittee
)

func (v Verdict) String() string {
	switch v {
	case Eligible:
		return "eligible"
	case WrongSlot:
		return "wrong_slot"
	case ProposerMismatch:
		return "proposer_mismatch"
	case NotInCommittee:
		return "not_in_committee"
	default:
		return "unknown"
	}
}

// Eligible returns true if the validator may attest.
func (v Verdict) Eligible() bool {
	return v == Eligible
}

// IsTurnToPropose returns true if self is the expected proposer of the slot.
// The current slot is checked before the next slot.
func IsTurnToPropose(slot core.Slot, snapshot core.ProposerSnapshot, self core.Address) bool {
	if slot == snapshot.CurrentSlot && self == snapshot.CurrentProposer {
		return true
	}

	return slot == snapshot.NextSlot && self == snapshot.NextProposer
}

// ExpectedProposer returns the proposer expected for the slot and true,
// or false if the slot is neither the current nor the next slot.
func ExpectedProposer(slot core.Slot, snapshot core.ProposerSnapshot) (core.Address, bool) {
	switch slot {
	case snapshot.CurrentSlot:
		return snapshot.CurrentProposer, true
	case snapshot.NextSlot:
		return snapshot.NextProposer, true
	default:
		return core.Address{}, false
	}
}

// CanAttest returns whether self may attest to a proposal for the slot by the proposer.
// Ineligibility is a policy outcome, not an error.
func CanAttest(slot core.Slot, snapshot core.ProposerSnapshot, proposer core.Address, inCommittee bool) Verdict {
	expected, ok := ExpectedProposer(slot, snapshot)
	if !ok {
		return WrongSlot
	} else if expected != proposer {
		return ProposerMismatch
	} else if !inCommittee {
		return NotInCommittee
	}

	return Eligible
}
