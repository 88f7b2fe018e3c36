// Copyright © 2022-2025 Obol Labs Inc. Licensed under the terms of a Business Source License 1.1

package core_test

import (
	"bytes"
	"testing"

	ssz "github.com/ferranbt/fastssz"
	"github.com/stretchr/testify/require"

	"github.com/obolnetwork/attester/core"
	"github.com/obolnetwork/attester/testutil"
)

func randomSig() []byte {
	sig := make([]byte, 65)
	copy(sig, testutil.RandomTxHash().String())

	return sig
}

func TestSSZ(t *testing.T) {
	tests := []struct {
		name  string
		value ssz.Marshaler
		zero  ssz.Unmarshaler
	}{
		{
			name:  "payload",
			value: testutil.RandomPayload(testutil.RandomSlot(), testutil.RandomTxHashes(4)),
			zero:  new(core.BlockProposalPayload),
		},
		{
			name: "signed proposal",
			value: core.SignedBlockProposal{
				Payload:   testutil.RandomPayload(testutil.RandomSlot(), testutil.RandomTxHashes(2)),
				Signature: randomSig(),
			},
			zero: new(core.SignedBlockProposal),
		},
		{
			name: "attestation",
			value: core.BlockAttestation{
				Slot:      testutil.RandomSlot(),
				Archive:   testutil.RandomFr(),
				TxHashes:  testutil.RandomTxHashes(3),
				Signature: randomSig(),
			},
			zero: new(core.BlockAttestation),
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			b, err := test.value.MarshalSSZ()
			require.NoError(t, err)
			require.Len(t, b, test.value.SizeSSZ())

			require.NoError(t, test.zero.UnmarshalSSZ(b))

			b2, err := test.zero.(ssz.Marshaler).MarshalSSZ()
			require.NoError(t, err)
			require.True(t, bytes.Equal(b, b2))

			// Truncated input is rejected.
			require.Error(t, test.zero.UnmarshalSSZ(b[:len(b)-1]))
			require.Error(t, test.zero.UnmarshalSSZ(b[:10]))
		})
	}
}

func TestSSZProposalFields(t *testing.T) {
	proposal := core.SignedBlockProposal{
		Payload:   testutil.RandomPayload(42, testutil.RandomTxHashes(2)),
		Signature: randomSig(),
	}

	b, err := proposal.MarshalSSZ()
	require.NoError(t, err)

	var decoded core.SignedBlockProposal
	require.NoError(t, decoded.UnmarshalSSZ(b))
	require.Equal(t, proposal, decoded)
}

func TestSSZNoTxs(t *testing.T) {
	payload := testutil.RandomPayload(1, nil)

	b, err := payload.MarshalSSZ()
	require.NoError(t, err)

	var decoded core.BlockProposalPayload
	require.NoError(t, decoded.UnmarshalSSZ(b))
	require.Equal(t, payload, decoded)
}

func TestSSZErrors(t *testing.T) {
	t.Run("too many txs", func(t *testing.T) {
		payload := testutil.RandomPayload(1, make([]core.TxHash, core.MaxTxsPerBlock+1))
		_, err := payload.MarshalSSZ()
		require.ErrorIs(t, err, ssz.ErrListTooBig)
	})

	t.Run("bad signature length", func(t *testing.T) {
		att := core.BlockAttestation{Archive: testutil.RandomFr(), Signature: []byte{1, 2, 3}}
		_, err := att.MarshalSSZ()
		require.ErrorIs(t, err, ssz.ErrBytesLength)
	})

	t.Run("bad offset", func(t *testing.T) {
		att := core.BlockAttestation{Archive: testutil.RandomFr(), Signature: randomSig()}
		b, err := att.MarshalSSZ()
		require.NoError(t, err)

		b[40]++ // Offset (2) 'TxHashes'
		require.ErrorIs(t, new(core.BlockAttestation).UnmarshalSSZ(b), ssz.ErrOffset)
	})

	t.Run("non-canonical field element", func(t *testing.T) {
		att := core.BlockAttestation{Archive: testutil.RandomFr(), Signature: randomSig()}
		b, err := att.MarshalSSZ()
		require.NoError(t, err)

		copy(b[8:40], bytes.Repeat([]byte{0xff}, 32)) // Field (1) 'Archive'
		require.ErrorContains(t, new(core.BlockAttestation).UnmarshalSSZ(b), "non-canonical field element")
	})
}

func TestGossipCodec(t *testing.T) {
	proposal := core.SignedBlockProposal{
		Payload:   testutil.RandomPayload(7, testutil.RandomTxHashes(5)),
		Signature: randomSig(),
	}

	frame, err := core.EncodeGossip(proposal)
	require.NoError(t, err)

	decoded, err := core.DecodeProposal(frame)
	require.NoError(t, err)
	require.Equal(t, proposal, decoded)

	att := core.BlockAttestation{
		Slot:      7,
		Archive:   proposal.Payload.Archive,
		TxHashes:  proposal.Payload.TxHashes,
		Signature: randomSig(),
	}

	frame, err = core.EncodeGossip(att)
	require.NoError(t, err)

	decodedAtt, err := core.DecodeAttestation(frame)
	require.NoError(t, err)
	require.Equal(t, att, decodedAtt)

	_, err = core.DecodeAttestation([]byte("not snappy"))
	require.ErrorContains(t, err, "decode attestation")

	// A proposal frame is not an attestation.
	frame, err = core.EncodeGossip(proposal)
	require.NoError(t, err)
	_, err = core.DecodeAttestation(frame)
	require.Error(t, err)
}
