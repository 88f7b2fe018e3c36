// Copyright © 2022-2025 Obol Labs Inc. Licensed under the terms of a Business Source License 1.1

// Package simnet provides an in-memory network of validator nodes sharing a transaction pool
// and attestation gossip.
package simnet

import (
	"context"
	"sync"

	"github.com/obolnetwork/attester/app/errors"
	"github.com/obolnetwork/attester/app/log"
	"github.com/obolnetwork/attester/app/z"
	"github.com/obolnetwork/attester/core"
)

// NewNetwork returns a new empty in-memory network.
func NewNetwork() *Network {
	return &Network{
		txs:    make(map[core.TxHash]core.Tx),
		status: make(map[core.TxHash]core.TxStatus),
		gossip: make(map[core.Slot][][]byte),
	}
}

// Network is an in-memory network. Nodes share the transactions known to any node
// and the attestation gossip. Messages are transported as encoded gossip frames.
type Network struct {
	mu     sync.Mutex
	txs    map[core.TxHash]core.Tx
	status map[core.TxHash]core.TxStatus
	gossip map[core.Slot][][]byte
}

// NewNode returns a new node connected to the network with an empty local pool.
func (n *Network) NewNode() *Node {
	return &Node{
		net:   n,
		local: make(map[core.TxHash]core.Tx),
	}
}

// SeedTxs adds the transactions to the network as pending and to the local pools of the nodes.
func (n *Network) SeedTxs(txs []core.Tx, nodes ...*Node) {
	n.mu.Lock()
	for _, tx := range txs {
		n.txs[tx.Hash()] = tx
		n.status[tx.Hash()] = core.TxStatusPending
	}
	n.mu.Unlock()

	for _, node := range nodes {
		node.addTxs(txs)
	}
}

// MarkMined marks the transactions as mined.
func (n *Network) MarkMined(hashes []core.TxHash) {
	n.mu.Lock()
	defer n.mu.Unlock()

	for _, hash := range hashes {
		if _, ok := n.status[hash]; ok {
			n.status[hash] = core.TxStatusMined
		}
	}
}

// Prune deletes gossip of slots before the slot and removes mined transactions from the network pool.
func (n *Network) Prune(before core.Slot) {
	n.mu.Lock()
	defer n.mu.Unlock()

	for slot := range n.gossip {
		if slot < before {
			delete(n.gossip, slot)
		}
	}

	for hash, status := range n.status {
		if status == core.TxStatusMined {
			delete(n.txs, hash)
			n.status[hash] = core.TxStatusDeleted
		}
	}
}

// GossipProposal sends the proposal over the network and returns it as decoded by a receiver.
func (n *Network) GossipProposal(proposal core.SignedBlockProposal) (core.SignedBlockProposal, error) {
	frame, err := core.EncodeGossip(proposal)
	if err != nil {
		return core.SignedBlockProposal{}, err
	}

	return core.DecodeProposal(frame)
}

// PublishAttestation gossips the attestation to all nodes.
func (n *Network) PublishAttestation(att core.BlockAttestation) error {
	frame, err := core.EncodeGossip(att)
	if err != nil {
		return err
	}

	n.mu.Lock()
	defer n.mu.Unlock()

	n.gossip[att.Slot] = append(n.gossip[att.Slot], frame)

	return nil
}

func (n *Network) frames(slot core.Slot) [][]byte {
	n.mu.Lock()
	defer n.mu.Unlock()

	return append([][]byte(nil), n.gossip[slot]...)
}

func (n *Network) lookup(hash core.TxHash) (core.Tx, bool) {
	n.mu.Lock()
	defer n.mu.Unlock()

	tx, ok := n.txs[hash]

	return tx, ok
}

func (n *Network) txStatus(hash core.TxHash) core.TxStatus {
	n.mu.Lock()
	defer n.mu.Unlock()

	return n.status[hash]
}

var _ core.P2P = (*Node)(nil)

// Node is a network participant implementing core.P2P with its own local transaction pool.
type Node struct {
	net *Network

	mu    sync.Mutex
	local map[core.TxHash]core.Tx
}

func (n *Node) addTxs(txs []core.Tx) {
	n.mu.Lock()
	defer n.mu.Unlock()

	for _, tx := range txs {
		n.local[tx.Hash()] = tx
	}
}

func (n *Node) GetAttestationsForSlot(ctx context.Context, slot core.Slot, proposalID string) ([]core.BlockAttestation, error) {
	var resp []core.BlockAttestation
	for _, frame := range n.net.frames(slot) {
		att, err := core.DecodeAttestation(frame)
		if err != nil {
			log.Warn(ctx, "Dropping invalid attestation gossip", err, z.U64("slot", uint64(slot)))
			continue
		}

		if att.Archive.String() != proposalID {
			continue
		}

		resp = append(resp, att)
	}

	return resp, nil
}

func (n *Node) GetTxByHash(_ context.Context, hash core.TxHash) (*core.Tx, error) {
	n.mu.Lock()
	defer n.mu.Unlock()

	tx, ok := n.local[hash]
	if !ok {
		return nil, nil
	}

	return &tx, nil
}

func (n *Node) GetTxStatus(_ context.Context, hash core.TxHash) (core.TxStatus, error) {
	return n.net.txStatus(hash), nil
}

func (n *Node) HasTxsInPool(_ context.Context, hashes []core.TxHash) ([]bool, error) {
	n.mu.Lock()
	defer n.mu.Unlock()

	resp := make([]bool, len(hashes))
	for i, hash := range hashes {
		_, resp[i] = n.local[hash]
	}

	return resp, nil
}

// RequestTxsByHash fetches the transactions from the network, adding the resolved ones to the local pool.
func (n *Node) RequestTxsByHash(ctx context.Context, hashes []core.TxHash) ([]*core.Tx, error) {
	if ctx.Err() != nil {
		return nil, errors.Wrap(ctx.Err(), "request txs")
	}

	var (
		resp     = make([]*core.Tx, len(hashes))
		resolved []core.Tx
	)
	for i, hash := range hashes {
		tx, ok := n.net.lookup(hash)
		if !ok {
			continue
		}

		resp[i] = &tx
		resolved = append(resolved, tx)
	}

	n.addTxs(resolved)

	return resp, nil
}
