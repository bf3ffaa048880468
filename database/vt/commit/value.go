// Copyright (c) 2025 Sonic Operations Ltd
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at soniclabs.com/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

package commit

import (
	"encoding/hex"
	"math/big"

	"github.com/crate-crypto/go-ipa/bandersnatch/fr"
)

// modulus is the order of the scalar field values are taken from.
const modulus = "13108968793781547619861935127046491459309155893440570251786403306729687672801"

// Modulus returns the order of the field values are reduced by. A fresh copy
// is returned on each call.
func Modulus() *big.Int {
	res, _ := new(big.Int).SetString(modulus, 10)
	return res
}

// Value is a numeric value the commitment can be made of. A commit is a
// commitment to a vector of these values. The value range is approximately
// 253 bits, which is just under 32 bytes. Thus, it is not possible to
// represent all 32 byte values, but it is possible to represent all 31 byte
// values.
//
// Background: The value is stored as a scalar in the Banderwagon curve field.
type Value struct {
	scalar fr.Element
}

// NewValue creates a new value from a uint64 value. Any 64-bit value is a valid
// value.
func NewValue(value uint64) Value {
	var scalar fr.Element
	scalar.SetUint64(value)
	return Value{scalar: scalar}
}

// NewValueFromScalar wraps a field element into a value.
func NewValueFromScalar(scalar fr.Element) Value {
	return Value{scalar: scalar}
}

// NewValueFromBigInt creates a value from an arbitrary integer. The integer
// is reduced modulo the field order, negative inputs are mapped to their
// non-negative residue.
func NewValueFromBigInt(value *big.Int) Value {
	var scalar fr.Element
	scalar.SetBigInt(value)
	return Value{scalar: scalar}
}

// NewValueFromLittleEndianBytes creates a new value from a 32-byte
// little-endian byte slice. The value is expanded with zeros to 32 bytes if the
// input is shorter. Inputs longer than 32 bytes are truncated to 32 bytes.
// Values exceeding the field order are reduced.
func NewValueFromLittleEndianBytes(data []byte) Value {
	var padded [32]byte
	copy(padded[:], data)
	var scalar fr.Element
	scalar.SetBytesLE(padded[:])
	return Value{scalar: scalar}
}

// Scalar returns the field element represented by this value.
func (v Value) Scalar() fr.Element {
	return v.scalar
}

// Add returns v + other.
func (v Value) Add(other Value) Value {
	var res Value
	res.scalar.Add(&v.scalar, &other.scalar)
	return res
}

// Sub returns v - other.
func (v Value) Sub(other Value) Value {
	var res Value
	res.scalar.Sub(&v.scalar, &other.scalar)
	return res
}

// Equal checks whether both values represent the same field element.
func (v Value) Equal(other Value) bool {
	return v.scalar.Equal(&other.scalar)
}

// IsZero checks whether this value is the zero element.
func (v Value) IsZero() bool {
	return v.scalar.IsZero()
}

// LittleEndianBytes returns the canonical 32-byte little-endian encoding.
func (v Value) LittleEndianBytes() [32]byte {
	return v.scalar.BytesLE()
}

// BigInt returns the value as a non-negative integer below the field order.
func (v Value) BigInt() *big.Int {
	return v.scalar.ToBigIntRegular(new(big.Int))
}

func (v Value) String() string {
	bytes := v.scalar.Bytes()
	return "0x" + hex.EncodeToString(bytes[:])
}
