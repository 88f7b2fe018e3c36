// Copyright © 2022-2025 Obol Labs Inc. Licensed under the terms of a Business Source License 1.1

package core

import (
	ssz "github.com/ferranbt/fastssz"
	"github.com/holiman/uint256"

	"github.com/obolnetwork/attester/app/errors"
	"github.com/obolnetwork/attester/app/z"
)

const (
	sigLen    = 65
	frLen     = 32
	txHashLen = 32
	addrLen   = 20

	headerSSZLen           = frLen + 32 + 8 + 8 + addrLen + frLen // 132
	stateSSZLen            = 4 * frLen                            // 128
	payloadFixedLen        = 8 + headerSSZLen + stateSSZLen + frLen + 4
	signedProposalFixedLen = 4 + sigLen
	attestationFixedLen    = 8 + frLen + 4 + sigLen
	attestationDataLen     = frLen + 4
)

// sszType indicates a type that can be marshalled and unmarshalled by ssz.
type sszType interface {
	ssz.Marshaler
	ssz.Unmarshaler
}

var (
	_ sszType = new(BlockProposalPayload)
	_ sszType = new(SignedBlockProposal)
	_ sszType = new(BlockAttestation)
)

// ================================ BlockProposalPayload ================================

// MarshalSSZ ssz marshals the BlockProposalPayload object.
func (p BlockProposalPayload) MarshalSSZ() ([]byte, error) {
	resp, err := ssz.MarshalSSZ(p)
	if err != nil {
		return nil, errors.Wrap(err, "marshal BlockProposalPayload")
	}

	return resp, nil
}

// MarshalSSZTo ssz marshals the BlockProposalPayload object to a target array.
func (p BlockProposalPayload) MarshalSSZTo(dst []byte) ([]byte, error) {
	if len(p.TxHashes) > MaxTxsPerBlock {
		return nil, errors.Wrap(ssz.ErrListTooBig, "tx hashes", z.Int("len", len(p.TxHashes)))
	}

	return p.marshalTo(dst), nil
}

// marshalTo appends the ssz encoding of the BlockProposalPayload without bounding the tx hashes list.
func (p BlockProposalPayload) marshalTo(dst []byte) []byte {
	// Field (0) 'BlockNumber'
	dst = ssz.MarshalUint64(dst, p.BlockNumber)

	// Field (1) 'Header'
	dst = marshalHeaderTo(dst, p.Header)

	// Field (2) 'State'
	dst = marshalStateTo(dst, p.State)

	// Field (3) 'Archive'
	dst = marshalFrTo(dst, p.Archive)

	// Offset (4) 'TxHashes'
	dst = ssz.WriteOffset(dst, payloadFixedLen)

	// Field (4) 'TxHashes'
	return marshalTxHashesTo(dst, p.TxHashes)
}

// SizeSSZ returns the ssz encoded size in bytes for the BlockProposalPayload object.
func (p BlockProposalPayload) SizeSSZ() int {
	return payloadFixedLen + len(p.TxHashes)*txHashLen
}

// UnmarshalSSZ ssz unmarshals the BlockProposalPayload object.
func (p *BlockProposalPayload) UnmarshalSSZ(buf []byte) error {
	if len(buf) < payloadFixedLen {
		return errors.Wrap(ssz.ErrSize, "payload too short", z.Int("len", len(buf)))
	}

	var (
		err    error
		offset = 0
		next   = 8
	)

	// Field (0) 'BlockNumber'
	p.BlockNumber = ssz.UnmarshallUint64(buf[offset:next])

	// Field (1) 'Header'
	offset, next = next, next+headerSSZLen
	if p.Header, err = unmarshalHeader(buf[offset:next]); err != nil {
		return err
	}

	// Field (2) 'State'
	offset, next = next, next+stateSSZLen
	if p.State, err = unmarshalState(buf[offset:next]); err != nil {
		return err
	}

	// Field (3) 'Archive'
	offset, next = next, next+frLen
	if p.Archive, err = unmarshalFr(buf[offset:next]); err != nil {
		return errors.Wrap(err, "archive")
	}

	// Offset (4) 'TxHashes'
	if o := ssz.ReadOffset(buf[next : next+4]); o != payloadFixedLen {
		return errors.Wrap(ssz.ErrOffset, "tx hashes offset", z.U64("offset", o))
	}

	// Field (4) 'TxHashes'
	if p.TxHashes, err = unmarshalTxHashes(buf[payloadFixedLen:]); err != nil {
		return err
	}

	return nil
}

// ================================ SignedBlockProposal ================================

// MarshalSSZ ssz marshals the SignedBlockProposal object.
func (p SignedBlockProposal) MarshalSSZ() ([]byte, error) {
	resp, err := ssz.MarshalSSZ(p)
	if err != nil {
		return nil, errors.Wrap(err, "marshal SignedBlockProposal")
	}

	return resp, nil
}

// MarshalSSZTo ssz marshals the SignedBlockProposal object to a target array.
func (p SignedBlockProposal) MarshalSSZTo(dst []byte) ([]byte, error) {
	if len(p.Signature) != sigLen {
		return nil, errors.Wrap(ssz.ErrBytesLength, "signature", z.Int("len", len(p.Signature)))
	}

	// Offset (0) 'Payload'
	dst = ssz.WriteOffset(dst, signedProposalFixedLen)

	// Field (1) 'Signature'
	dst = append(dst, p.Signature...)

	// Field (0) 'Payload'
	return p.Payload.MarshalSSZTo(dst)
}

// SizeSSZ returns the ssz encoded size in bytes for the SignedBlockProposal object.
func (p SignedBlockProposal) SizeSSZ() int {
	return signedProposalFixedLen + p.Payload.SizeSSZ()
}

// UnmarshalSSZ ssz unmarshals the SignedBlockProposal object.
func (p *SignedBlockProposal) UnmarshalSSZ(buf []byte) error {
	if len(buf) < signedProposalFixedLen {
		return errors.Wrap(ssz.ErrSize, "signed proposal too short", z.Int("len", len(buf)))
	}

	// Offset (0) 'Payload'
	if o := ssz.ReadOffset(buf[0:4]); o != signedProposalFixedLen {
		return errors.Wrap(ssz.ErrOffset, "payload offset", z.U64("offset", o))
	}

	// Field (1) 'Signature'
	p.Signature = append([]byte(nil), buf[4:signedProposalFixedLen]...)

	// Field (0) 'Payload'
	if err := p.Payload.UnmarshalSSZ(buf[signedProposalFixedLen:]); err != nil {
		return errors.Wrap(err, "unmarshal payload")
	}

	return nil
}

// ================================ BlockAttestation ================================

// MarshalSSZ ssz marshals the BlockAttestation object.
func (a BlockAttestation) MarshalSSZ() ([]byte, error) {
	resp, err := ssz.MarshalSSZ(a)
	if err != nil {
		return nil, errors.Wrap(err, "marshal BlockAttestation")
	}

	return resp, nil
}

// MarshalSSZTo ssz marshals the BlockAttestation object to a target array.
func (a BlockAttestation) MarshalSSZTo(dst []byte) ([]byte, error) {
	if len(a.Signature) != sigLen {
		return nil, errors.Wrap(ssz.ErrBytesLength, "signature", z.Int("len", len(a.Signature)))
	} else if len(a.TxHashes) > MaxTxsPerBlock {
		return nil, errors.Wrap(ssz.ErrListTooBig, "tx hashes", z.Int("len", len(a.TxHashes)))
	}

	// Field (0) 'Slot'
	dst = ssz.MarshalUint64(dst, uint64(a.Slot))

	// Field (1) 'Archive'
	dst = marshalFrTo(dst, a.Archive)

	// Offset (2) 'TxHashes'
	dst = ssz.WriteOffset(dst, attestationFixedLen)

	// Field (3) 'Signature'
	dst = append(dst, a.Signature...)

	// Field (2) 'TxHashes'
	return marshalTxHashesTo(dst, a.TxHashes), nil
}

// SizeSSZ returns the ssz encoded size in bytes for the BlockAttestation object.
func (a BlockAttestation) SizeSSZ() int {
	return attestationFixedLen + len(a.TxHashes)*txHashLen
}

// UnmarshalSSZ ssz unmarshals the BlockAttestation object.
func (a *BlockAttestation) UnmarshalSSZ(buf []byte) error {
	if len(buf) < attestationFixedLen {
		return errors.Wrap(ssz.ErrSize, "attestation too short", z.Int("len", len(buf)))
	}

	var err error

	// Field (0) 'Slot'
	a.Slot = Slot(ssz.UnmarshallUint64(buf[0:8]))

	// Field (1) 'Archive'
	if a.Archive, err = unmarshalFr(buf[8:40]); err != nil {
		return errors.Wrap(err, "archive")
	}

	// Offset (2) 'TxHashes'
	if o := ssz.ReadOffset(buf[40:44]); o != attestationFixedLen {
		return errors.Wrap(ssz.ErrOffset, "tx hashes offset", z.U64("offset", o))
	}

	// Field (3) 'Signature'
	a.Signature = append([]byte(nil), buf[44:attestationFixedLen]...)

	// Field (2) 'TxHashes'
	if a.TxHashes, err = unmarshalTxHashes(buf[attestationFixedLen:]); err != nil {
		return err
	}

	return nil
}

// marshalAttestationDataSSZ returns the ssz encoding of the signed part of an attestation.
// The tx hashes list is not bounded, the bound only applies to gossip.
func marshalAttestationDataSSZ(archive Fr, txHashes []TxHash) []byte {
	dst := make([]byte, 0, attestationDataLen+len(txHashes)*txHashLen)

	// Field (0) 'Archive'
	dst = marshalFrTo(dst, archive)

	// Offset (1) 'TxHashes'
	dst = ssz.WriteOffset(dst, attestationDataLen)

	// Field (1) 'TxHashes'
	return marshalTxHashesTo(dst, txHashes)
}

// ================================ Helpers ================================

func marshalHeaderTo(dst []byte, h ProposedHeader) []byte {
	dst = marshalFrTo(dst, h.LastArchive)
	dst = append(dst, h.ContentCommitment[:]...)
	dst = ssz.MarshalUint64(dst, uint64(h.Slot))
	dst = ssz.MarshalUint64(dst, h.Timestamp)
	dst = append(dst, h.Coinbase[:]...)

	return marshalFrTo(dst, h.FeeRecipient)
}

func unmarshalHeader(buf []byte) (ProposedHeader, error) {
	var (
		h   ProposedHeader
		err error
	)

	if h.LastArchive, err = unmarshalFr(buf[0:32]); err != nil {
		return ProposedHeader{}, errors.Wrap(err, "last archive")
	}
	copy(h.ContentCommitment[:], buf[32:64])
	h.Slot = Slot(ssz.UnmarshallUint64(buf[64:72]))
	h.Timestamp = ssz.UnmarshallUint64(buf[72:80])
	copy(h.Coinbase[:], buf[80:100])
	if h.FeeRecipient, err = unmarshalFr(buf[100:132]); err != nil {
		return ProposedHeader{}, errors.Wrap(err, "fee recipient")
	}

	return h, nil
}

func marshalStateTo(dst []byte, s StateReference) []byte {
	dst = marshalFrTo(dst, s.MessageTreeRoot)
	dst = marshalFrTo(dst, s.NoteHashTreeRoot)
	dst = marshalFrTo(dst, s.NullifierTreeRoot)

	return marshalFrTo(dst, s.PublicDataTreeRoot)
}

func unmarshalState(buf []byte) (StateReference, error) {
	var roots [4]Fr
	for i := range roots {
		var err error
		if roots[i], err = unmarshalFr(buf[i*frLen : (i+1)*frLen]); err != nil {
			return StateReference{}, errors.Wrap(err, "state root", z.Int("index", i))
		}
	}

	return StateReference{
		MessageTreeRoot:    roots[0],
		NoteHashTreeRoot:   roots[1],
		NullifierTreeRoot:  roots[2],
		PublicDataTreeRoot: roots[3],
	}, nil
}

func marshalFrTo(dst []byte, f Fr) []byte {
	b := f.Bytes32()
	return append(dst, b[:]...)
}

// unmarshalFr returns the field element of the 32 bytes, rejecting non-canonical values.
func unmarshalFr(buf []byte) (Fr, error) {
	if len(buf) != frLen {
		return Fr{}, ssz.ErrBytesLength
	}

	var v uint256.Int
	v.SetBytes32(buf)
	if !v.Lt(frModulus) {
		return Fr{}, errors.New("non-canonical field element")
	}

	return Fr{v: v}, nil
}

func marshalTxHashesTo(dst []byte, hashes []TxHash) []byte {
	for _, h := range hashes {
		dst = append(dst, h[:]...)
	}

	return dst
}

func unmarshalTxHashes(buf []byte) ([]TxHash, error) {
	if len(buf)%txHashLen != 0 {
		return nil, errors.Wrap(ssz.ErrSize, "tx hashes length", z.Int("len", len(buf)))
	}

	n := len(buf) / txHashLen
	if n > MaxTxsPerBlock {
		return nil, errors.Wrap(ssz.ErrListTooBig, "tx hashes", z.Int("len", n))
	} else if n == 0 {
		return nil, nil
	}

	resp := make([]TxHash, n)
	for i := range resp {
		copy(resp[i][:], buf[i*txHashLen:(i+1)*txHashLen])
	}

	return resp, nil
}
