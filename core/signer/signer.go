// Copyright © 2022-2025 Obol Labs Inc. Licensed under the terms of a Business Source License 1.1

// Package signer provides the validator's signing identity.
package signer

import (
	k1 "github.com/decred/dcrd/dcrec/secp256k1/v4"

	"github.com/obolnetwork/attester/app/errors"
	"github.com/obolnetwork/attester/app/k1util"
	"github.com/obolnetwork/attester/app/z"
	"github.com/obolnetwork/attester/core"
)

// ErrInvalidPrivateKey is returned when the private key is malformed.
var ErrInvalidPrivateKey = errors.NewSentinel("invalid validator private key")

// Signer wraps a secp256k1 private key. It is read-only after construction
// and safe for concurrent use.
type Signer struct {
	key     *k1.PrivateKey
	address core.Address
}

// New returns a signer from a 32 byte hex encoded private key with optional 0x prefix.
func New(privKeyHex string) (*Signer, error) {
	key, err := k1util.ParseHex(privKeyHex)
	if err != nil {
		return nil, errors.Wrap(ErrInvalidPrivateKey, "parse key", z.Str("reason", err.Error()))
	}

	return FromKey(key), nil
}

// FromKey returns a signer of the private key.
func FromKey(key *k1.PrivateKey) *Signer {
	return &Signer{
		key:     key,
		address: k1util.Address(key.PubKey()),
	}
}

// Random returns a signer with a new random private key.
func Random() (*Signer, error) {
	key, err := k1.GeneratePrivateKey()
	if err != nil {
		return nil, errors.Wrap(err, "generate private key")
	}

	return FromKey(key), nil
}

// Address returns the validator address of the key.
func (s *Signer) Address() core.Address {
	return s.address
}

// PrivateKey returns the underlying private key.
func (s *Signer) PrivateKey() *k1.PrivateKey {
	return s.key
}

// Sign returns the 65 byte [R || S || V] recoverable signature of the digest.
func (s *Signer) Sign(digest [32]byte) ([]byte, error) {
	return k1util.Sign(s.key, digest[:])
}

// SignProposal returns the payload signed by this signer.
func (s *Signer) SignProposal(payload core.BlockProposalPayload) (core.SignedBlockProposal, error) {
	sig, err := s.Sign(payload.SigningDigest())
	if err != nil {
		return core.SignedBlockProposal{}, err
	}

	return core.SignedBlockProposal{
		Payload:   payload,
		Signature: sig,
	}, nil
}

// SignAttestation returns an attestation of the archive and transactions signed by this signer.
func (s *Signer) SignAttestation(slot core.Slot, archive core.Fr, txHashes []core.TxHash) (core.BlockAttestation, error) {
	sig, err := s.Sign(core.AttestationDigest(archive, txHashes))
	if err != nil {
		return core.BlockAttestation{}, err
	}

	return core.BlockAttestation{
		Slot:      slot,
		Archive:   archive,
		TxHashes:  append([]core.TxHash(nil), txHashes...),
		Signature: sig,
	}, nil
}
