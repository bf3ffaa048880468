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
	"errors"
	"fmt"

	"github.com/0xsoniclabs/verkle/go/common"
	"github.com/crate-crypto/go-ipa/bandersnatch/fr"
	"github.com/crate-crypto/go-ipa/banderwagon"
)

// VectorSize is the size of the vector that the commitment is made to.
const VectorSize = 256

// ErrInvalidCommitment is returned when decoding a byte sequence that is not
// the encoding of a valid commitment.
var ErrInvalidCommitment = errors.New("invalid commitment encoding")

// Commitment is a commitment to a vector of 256 values. It is a point on the
// Banderwagon curve, which is used for the Pedersen commitment scheme.
//
// For background on the Pedersen commitment scheme, see:
// https://rareskills.io/post/pedersen-commitment
type Commitment struct {
	point banderwagon.Element
}

// Identity returns the identity commitment, which is the commitment to a vector
// of zero values. This is the point at infinity on the Banderwagon curve.
func Identity() Commitment {
	return Commitment{point: banderwagon.Identity}
}

// NewCommitment wraps a group element into a commitment.
func NewCommitment(point banderwagon.Element) Commitment {
	return Commitment{point: point}
}

// Commit creates a new commitment to a vector of values.
func Commit(values [VectorSize]Value) Commitment {
	scalars := make([]fr.Element, VectorSize)
	for i, value := range values {
		scalars[i] = value.scalar
	}
	return Commitment{point: GetCRS().CommitScalars(scalars)}
}

// CommitSparse creates a commitment to a vector that is zero everywhere except
// at the given positions.
func CommitSparse(values map[byte]Value) Commitment {
	res := Identity()
	for position, value := range values {
		res = res.UpdateByDelta(position, value)
	}
	return res
}

// FromCompressed decodes a commitment from its compressed form as produced by
// Compress. Only encodings of points in the prime order subgroup are accepted.
func FromCompressed(data [32]byte) (Commitment, error) {
	var res Commitment
	if err := res.point.SetBytes(data[:]); err != nil {
		return Commitment{}, fmt.Errorf("%w: %v", ErrInvalidCommitment, err)
	}
	return res, nil
}

// Point returns the group element of this commitment.
func (p Commitment) Point() banderwagon.Element {
	return p.point
}

// IsValid checks if the commitment is valid, i.e., if it is a point on the
// curve. Not all possible instances of Commitment are valid. If instances are
// fetched from an untrusted source, they should be checked for validity.
func (p Commitment) IsValid() bool {
	return p.point.IsOnCurve()
}

// Equal checks if two commitments are equal. This is a point equality check on
// the Banderwagon curve.
func (p Commitment) Equal(other Commitment) bool {
	return p.point.Equal(&other.point)
}

// Add returns the sum of both commitments. By the additive homomorphism of the
// scheme, this is the commitment to the sum of the committed vectors.
func (p Commitment) Add(other Commitment) Commitment {
	var res Commitment
	res.point.Add(&p.point, &other.point)
	return res
}

// Sub returns the difference of both commitments.
func (p Commitment) Sub(other Commitment) Commitment {
	var res Commitment
	res.point.Sub(&p.point, &other.point)
	return res
}

// ToValue converts the commitment to a value. The result is a scalar field value
// that can be used recursively in other commitments -- as it is required for
// the Verkle trie.
func (p Commitment) ToValue() Value {
	var res fr.Element
	p.point.MapToScalarField(&res)
	return Value{scalar: res}
}

// Hash returns the little-endian encoding of the commitment's field value.
func (p Commitment) Hash() common.Hash {
	value := p.ToValue()
	return value.scalar.BytesLE()
}

// Compress returns the compressed representation of the commitment. The result
// can be used as a unique identifier for summarizing the root commitment of a
// Verkle trie.
func (p Commitment) Compress() [32]byte {
	return p.point.Bytes()
}

// Update creates a new commitment that is the same as the original, except
// that the value at the given position is updated from old to new.
func (p Commitment) Update(position byte, old, new Value) Commitment {
	return p.UpdateByDelta(position, new.Sub(old))
}

// UpdateByDelta creates a new commitment where the committed value at the
// given position is increased by delta. Only a single scalar multiplication
// with the basis point of the position is needed, since
//
//	Commit(A + δ·e_i) = Commit(A) + δ·G_i
func (p Commitment) UpdateByDelta(position byte, delta Value) Commitment {
	if delta.IsZero() {
		return p
	}
	basis := GetCRS().BasisPoint(position)
	var diff banderwagon.Element
	diff.ScalarMul(&basis, &delta.scalar)

	var res Commitment
	res.point.Add(&p.point, &diff)
	return res
}

func (p Commitment) String() string {
	return fmt.Sprintf("%x", p.Compress())
}
