// Copyright © 2022-2025 Obol Labs Inc. Licensed under the terms of a Business Source License 1.1

package validator

import "github.com/obolnetwork/attester/core/duty"

// Reason is a reason for abstaining from attesting to a proposal.
type Reason struct {
	// Code is a short code for the reason.
	Code string
	// Long is a long description of the reason.
	Long string
}

var (
	ReasonDisabled = Reason{
		Code: "disabled",
		Long: "Reason `disabled` indicates the validator client runs in disabled mode and performs no duties.",
	}

	ReasonWrongSlot = Reason{
		Code: "wrong_slot",
		Long: "Reason `wrong_slot` indicates the proposal's slot is neither the current nor the next slot of the proposer schedule.",
	}

	ReasonProposerMismatch = Reason{
		Code: "proposer_mismatch",
		Long: "Reason `proposer_mismatch` indicates the proposal was not signed by the expected proposer of its slot.",
	}

	ReasonNotInCommittee = Reason{
		Code: "not_in_committee",
		Long: "Reason `not_in_committee` indicates this validator is not a committee member for the proposal's slot.",
	}

	ReasonReexecutionFailed = Reason{
		Code: "reexecution_failed",
		Long: "Reason `reexecution_failed` indicates rebuilding the block from its transactions failed or produced a different archive.",
	}

	ReasonInvalidProposalSignature = Reason{
		Code: "invalid_proposal_signature",
		Long: "Reason `invalid_proposal_signature` indicates the proposer could not be recovered from the proposal signature.",
	}
)

// reasonFromVerdict returns the abstain reason of an ineligible duty verdict.
func reasonFromVerdict(v duty.Verdict) Reason {
	switch v {
	case duty.WrongSlot:
		return ReasonWrongSlot
	case duty.ProposerMismatch:
		return ReasonProposerMismatch
	case duty.NotInCommittee:
		return ReasonNotInCommittee
	default:
		return Reason{Code: v.String(), Long: "Unexpected duty verdict."}
	}
}
