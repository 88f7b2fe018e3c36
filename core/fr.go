// Copyright © 2022-2025 Obol Labs Inc. Licensed under the terms of a Business Source License 1.1

package core

import (
	"encoding/hex"
	"strings"

	"github.com/holiman/uint256"

	"github.com/obolnetwork/attester/app/errors"
	"github.com/obolnetwork/attester/app/z"
)

// frModulus is the BN254 scalar field modulus.
var frModulus = uint256.MustFromHex("0x30644e72e131a029b85045b68181585d2833e84879b9709143e1f593f0000001")

// Fr is an element of the BN254 scalar field, used for commitments like archives and tree roots.
// The zero value is the zero element. Fr values are comparable.
type Fr struct {
	v uint256.Int
}

// NewFr returns the field element of the integer.
func NewFr(u uint64) Fr {
	var f Fr
	f.v.SetUint64(u)

	return f
}

// FrFromBytes32 returns the field element of the big-endian bytes reduced modulo the field.
func FrFromBytes32(b [32]byte) Fr {
	var f Fr
	f.v.SetBytes32(b[:])
	f.v.Mod(&f.v, frModulus)

	return f
}

// FrFromHex returns the field element of a hex string with optional 0x prefix of at most 32 bytes.
func FrFromHex(s string) (Fr, error) {
	b, err := hex.DecodeString(strings.TrimPrefix(s, "0x"))
	if err != nil {
		return Fr{}, errors.Wrap(err, "decode field element hex")
	} else if len(b) > 32 {
		return Fr{}, errors.New("field element too long", z.Int("len", len(b)))
	}

	var padded [32]byte
	copy(padded[32-len(b):], b)

	return FrFromBytes32(padded), nil
}

// Bytes32 returns the big-endian 32 byte encoding.
func (f Fr) Bytes32() [32]byte {
	return f.v.Bytes32()
}

// IsZero returns true if this is the zero element.
func (f Fr) IsZero() bool {
	return f.v.IsZero()
}

// String returns the 0x prefixed 32 byte hex encoding.
func (f Fr) String() string {
	b := f.Bytes32()
	return "0x" + hex.EncodeToString(b[:])
}
