// Copyright © 2022-2025 Obol Labs Inc. Licensed under the terms of a Business Source License 1.1

package core

import (
	"github.com/ethereum/go-ethereum/crypto"

	"github.com/obolnetwork/attester/app/errors"
	"github.com/obolnetwork/attester/app/k1util"
)

// MaxTxsPerBlock is the maximum number of transactions a gossiped proposal or attestation may reference.
// Signing is not bounded.
const MaxTxsPerBlock = 1024

// signedMsgPrefix is the Ethereum signed message prefix of a 32 byte message.
var signedMsgPrefix = []byte("\x19Ethereum Signed Message:\n32")

// BlockProposalPayload is the content of a block proposal. It is immutable once constructed.
type BlockProposalPayload struct {
	BlockNumber uint64
	Header      ProposedHeader
	State       StateReference
	Archive     Fr
	TxHashes    []TxHash
}

// Slot returns the slot of the proposed header.
func (p BlockProposalPayload) Slot() Slot {
	return p.Header.Slot
}

// SigningDigest returns the digest signed by the proposer;
// the Ethereum signed message hash of the keccak256 of the SSZ encoding.
func (p BlockProposalPayload) SigningDigest() [32]byte {
	b := p.marshalTo(make([]byte, 0, p.SizeSSZ()))

	return ethSignedMsgHash(crypto.Keccak256(b))
}

// SignedBlockProposal is a block proposal payload signed by its proposer.
type SignedBlockProposal struct {
	Payload   BlockProposalPayload
	Signature []byte
}

// Slot returns the slot of the proposal.
func (p SignedBlockProposal) Slot() Slot {
	return p.Payload.Slot()
}

// ID returns the identifier peers use to key attestations to this proposal.
func (p SignedBlockProposal) ID() string {
	return p.Payload.Archive.String()
}

// Sender returns the address recovered from the signature.
func (p SignedBlockProposal) Sender() (Address, error) {
	digest := p.Payload.SigningDigest()

	addr, err := k1util.RecoverAddress(digest[:], p.Signature)
	if err != nil {
		return Address{}, errors.Wrap(err, "recover proposal sender")
	}

	return addr, nil
}

// ethSignedMsgHash returns the EIP-191 hash of a 32 byte message.
func ethSignedMsgHash(msg []byte) [32]byte {
	return crypto.Keccak256Hash(signedMsgPrefix, msg)
}
