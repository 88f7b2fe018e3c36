// Copyright © 2022-2025 Obol Labs Inc. Licensed under the terms of a Business Source License 1.1

package core

import (
	"encoding/hex"
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
)

// Slot identifies a protocol time unit during which exactly one proposer is expected to produce a block.
type Slot uint64

// Address is the validator's public identifier derived from its signing key.
type Address = common.Address

// DutyType enumerates the different types of duties.
type DutyType int

// DutyType values are metric labels and must not change.
const (
	DutyUnknown  DutyType = 0
	DutyProposer DutyType = 1
	DutyAttester DutyType = 2
	DutyQuorum   DutyType = 3
)

func (d DutyType) String() string {
	return map[DutyType]string{
		DutyUnknown:  "unknown",
		DutyProposer: "proposer",
		DutyAttester: "attester",
		DutyQuorum:   "quorum",
	}[d]
}

// Duty is the unit of work of a validator in a slot.
type Duty struct {
	Slot Slot
	Type DutyType
}

func (d Duty) String() string {
	return fmt.Sprintf("%d/%s", d.Slot, d.Type)
}

// NewProposerDuty returns a new proposer duty.
func NewProposerDuty(slot Slot) Duty {
	return Duty{Slot: slot, Type: DutyProposer}
}

// NewAttesterDuty returns a new attester duty.
func NewAttesterDuty(slot Slot) Duty {
	return Duty{Slot: slot, Type: DutyAttester}
}

// NewQuorumDuty returns a new attestation quorum collection duty.
func NewQuorumDuty(slot Slot) Duty {
	return Duty{Slot: slot, Type: DutyQuorum}
}

// TxHash identifies a transaction.
type TxHash [32]byte

func (h TxHash) String() string {
	return "0x" + hex.EncodeToString(h[:])
}

// Tx is an opaque transaction payload.
type Tx struct {
	Data []byte
}

// Hash returns the keccak256 hash of the transaction data.
func (t Tx) Hash() TxHash {
	return TxHash(crypto.Keccak256Hash(t.Data))
}

// TxStatus is the pool status of a transaction.
type TxStatus int

const (
	TxStatusUnknown TxStatus = iota // Absent
	TxStatusPending
	TxStatusMined
	TxStatusDeleted
)

func (s TxStatus) String() string {
	switch s {
	case TxStatusPending:
		return "pending"
	case TxStatusMined:
		return "mined"
	case TxStatusDeleted:
		return "deleted"
	default:
		return "unknown"
	}
}

// ProposerSnapshot is a point-in-time view of who may propose for the current and next slot.
type ProposerSnapshot struct {
	CurrentProposer Address
	NextProposer    Address
	CurrentSlot     Slot
	NextSlot        Slot
}

// ProposedHeader is the header a proposer proposes for a block.
type ProposedHeader struct {
	LastArchive       Fr
	ContentCommitment [32]byte
	Slot              Slot
	Timestamp         uint64
	Coinbase          Address
	FeeRecipient      Fr
}

// StateReference commits to the world state trees after applying a block.
type StateReference struct {
	MessageTreeRoot    Fr
	NoteHashTreeRoot   Fr
	NullifierTreeRoot  Fr
	PublicDataTreeRoot Fr
}
