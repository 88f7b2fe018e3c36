// Copyright © 2022-2025 Obol Labs Inc. Licensed under the terms of a Business Source License 1.1

package simnet

import (
	"context"
	"encoding/binary"

	"github.com/ethereum/go-ethereum/crypto"

	"github.com/obolnetwork/attester/core"
)

// Builder is a deterministic block builder. The archive is the keccak256 hash of the
// build inputs and transaction hashes reduced into the field.
var Builder core.BlockBuilder = core.BlockBuilderFunc(Build)

// Build returns the archive of the block built from the transactions and inputs.
func Build(ctx context.Context, txs []core.Tx, inputs core.BuildInputs) (core.Fr, error) {
	if ctx.Err() != nil {
		return core.Fr{}, ctx.Err()
	}

	var (
		number = binary.BigEndian.AppendUint64(nil, inputs.BlockNumber)
		slot   = binary.BigEndian.AppendUint64(nil, uint64(inputs.Header.Slot))
		last   = inputs.Header.LastArchive.Bytes32()
		state  = [][32]byte{
			inputs.State.MessageTreeRoot.Bytes32(),
			inputs.State.NoteHashTreeRoot.Bytes32(),
			inputs.State.NullifierTreeRoot.Bytes32(),
			inputs.State.PublicDataTreeRoot.Bytes32(),
		}
	)

	data := [][]byte{number, slot, last[:]}
	for i := range state {
		data = append(data, state[i][:])
	}
	for _, tx := range txs {
		hash := tx.Hash()
		data = append(data, hash[:])
	}

	return core.FrFromBytes32(crypto.Keccak256Hash(data...)), nil
}
