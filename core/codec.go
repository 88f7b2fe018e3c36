// Copyright © 2022-2025 Obol Labs Inc. Licensed under the terms of a Business Source License 1.1

package core

import (
	ssz "github.com/ferranbt/fastssz"
	"github.com/golang/snappy"

	"github.com/obolnetwork/attester/app/errors"
)

// maxGossipLen bounds the decoded length of a gossip frame.
const maxGossipLen = signedProposalFixedLen + payloadFixedLen + MaxTxsPerBlock*txHashLen

// EncodeGossip returns the gossip frame of the message: snappy block compressed SSZ.
func EncodeGossip(msg ssz.Marshaler) ([]byte, error) {
	b, err := msg.MarshalSSZ()
	if err != nil {
		return nil, err
	}

	return snappy.Encode(nil, b), nil
}

// DecodeProposal returns the signed block proposal of the gossip frame.
func DecodeProposal(frame []byte) (SignedBlockProposal, error) {
	var resp SignedBlockProposal
	if err := decodeGossip(frame, &resp); err != nil {
		return SignedBlockProposal{}, errors.Wrap(err, "decode proposal")
	}

	return resp, nil
}

// DecodeAttestation returns the block attestation of the gossip frame.
func DecodeAttestation(frame []byte) (BlockAttestation, error) {
	var resp BlockAttestation
	if err := decodeGossip(frame, &resp); err != nil {
		return BlockAttestation{}, errors.Wrap(err, "decode attestation")
	}

	return resp, nil
}

func decodeGossip(frame []byte, msg ssz.Unmarshaler) error {
	n, err := snappy.DecodedLen(frame)
	if err != nil {
		return errors.Wrap(err, "snappy length")
	} else if n > maxGossipLen {
		return errors.New("gossip frame too large")
	}

	b, err := snappy.Decode(nil, frame)
	if err != nil {
		return errors.Wrap(err, "snappy decode")
	}

	return msg.UnmarshalSSZ(b)
}
