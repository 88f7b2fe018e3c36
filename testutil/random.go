// Copyright © 2022-2025 Obol Labs Inc. Licensed under the terms of a Business Source License 1.1

//nolint:gosec // Test fixtures do not need crypto randomness.
package testutil

import (
	"math/rand"

	"github.com/obolnetwork/attester/core"
)

// RandomFr returns a random field element.
func RandomFr() core.Fr {
	var b [32]byte
	_, _ = rand.Read(b[:])

	return core.FrFromBytes32(b)
}

// RandomTxHash returns a random transaction hash.
func RandomTxHash() core.TxHash {
	var h core.TxHash
	_, _ = rand.Read(h[:])

	return h
}

// RandomTx returns a random transaction payload.
func RandomTx() core.Tx {
	data := make([]byte, 64+rand.Intn(64))
	_, _ = rand.Read(data)

	return core.Tx{Data: data}
}

// RandomTxs returns n random transactions and their hashes.
func RandomTxs(n int) ([]core.Tx, []core.TxHash) {
	var (
		txs    []core.Tx
		hashes []core.TxHash
	)
	for range n {
		tx := RandomTx()
		txs = append(txs, tx)
		hashes = append(hashes, tx.Hash())
	}

	return txs, hashes
}

// RandomTxHashes returns n random transaction hashes.
func RandomTxHashes(n int) []core.TxHash {
	var resp []core.TxHash
	for range n {
		resp = append(resp, RandomTxHash())
	}

	return resp
}

// RandomAddress returns a random address.
func RandomAddress() core.Address {
	var a core.Address
	_, _ = rand.Read(a[:])

	return a
}

// RandomSlot returns a random slot.
func RandomSlot() core.Slot {
	return core.Slot(rand.Uint32())
}

// RandomHeader returns a random header to propose for the slot.
func RandomHeader(slot core.Slot) core.ProposedHeader {
	var commitment [32]byte
	_, _ = rand.Read(commitment[:])

	return core.ProposedHeader{
		LastArchive:       RandomFr(),
		ContentCommitment: commitment,
		Slot:              slot,
		Timestamp:         rand.Uint64(),
		Coinbase:          RandomAddress(),
		FeeRecipient:      RandomFr(),
	}
}

// RandomState returns a random state reference.
func RandomState() core.StateReference {
	return core.StateReference{
		MessageTreeRoot:    RandomFr(),
		NoteHashTreeRoot:   RandomFr(),
		NullifierTreeRoot:  RandomFr(),
		PublicDataTreeRoot: RandomFr(),
	}
}

// RandomPayload returns a random proposal payload for the slot referencing the transaction hashes.
func RandomPayload(slot core.Slot, txHashes []core.TxHash) core.BlockProposalPayload {
	return core.BlockProposalPayload{
		BlockNumber: uint64(rand.Uint32()),
		Header:      RandomHeader(slot),
		State:       RandomState(),
		Archive:     RandomFr(),
		TxHashes:    txHashes,
	}
}
