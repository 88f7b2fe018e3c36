// Copyright © 2022-2025 Obol Labs Inc. Licensed under the terms of a Business Source License 1.1

package core

import (
	"github.com/ethereum/go-ethereum/crypto"

	"github.com/obolnetwork/attester/app/errors"
	"github.com/obolnetwork/attester/app/k1util"
)

// BlockAttestation attests to the archive and transactions of a proposal.
// The signature covers only the archive and transaction hashes, the slot is routing data.
type BlockAttestation struct {
	Slot      Slot
	Archive   Fr
	TxHashes  []TxHash
	Signature []byte
}

// Sender returns the address recovered from the signature.
func (a BlockAttestation) Sender() (Address, error) {
	digest := AttestationDigest(a.Archive, a.TxHashes)

	addr, err := k1util.RecoverAddress(digest[:], a.Signature)
	if err != nil {
		return Address{}, errors.Wrap(err, "recover attestation sender")
	}

	return addr, nil
}

// Matches returns true if the attestation is for the proposal's slot and archive.
func (a BlockAttestation) Matches(proposal SignedBlockProposal) bool {
	return a.Slot == proposal.Slot() && a.Archive == proposal.Payload.Archive
}

// AttestationDigest returns the digest signed by attesters;
// the Ethereum signed message hash of the keccak256 of the SSZ encoded (archive, txHashes).
func AttestationDigest(archive Fr, txHashes []TxHash) [32]byte {
	return ethSignedMsgHash(crypto.Keccak256(marshalAttestationDataSSZ(archive, txHashes)))
}
