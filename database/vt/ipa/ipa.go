// Copyright (c) 2025 Sonic Operations Ltd
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at soniclabs.com/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

package ipa

import (
	"errors"
	"fmt"

	"github.com/0xsoniclabs/verkle/go/database/vt/commit"
	"github.com/0xsoniclabs/verkle/go/database/vt/transcript"
	"github.com/crate-crypto/go-ipa/bandersnatch/fr"
	"github.com/crate-crypto/go-ipa/banderwagon"
)

// NumRounds is the number of halving rounds needed to reduce a vector of
// commit.VectorSize elements to a single element.
const NumRounds = 8

var (
	// ErrInvalidVectorLength is returned if a polynomial does not consist of
	// exactly commit.VectorSize evaluations.
	ErrInvalidVectorLength = errors.New("invalid vector length")
	// ErrInvalidProofShape is returned for proofs not containing exactly
	// NumRounds L and R points.
	ErrInvalidProofShape = errors.New("invalid proof shape")
)

// Labels absorbed into the transcript during the inner product argument:
//  1. the domain separator,
//  2. the commitment C, the input point z and the output point y,
//  3. the challenge w rescaling the point Q,
//  4. per round, the points L and R followed by the round challenge x.
var (
	labelDomainSep   = []byte("ipa")
	labelC           = []byte("C")
	labelInputPoint  = []byte("input point")
	labelOutputPoint = []byte("output point")
	labelW           = []byte("w")
	labelL           = []byte("L")
	labelR           = []byte("R")
	labelX           = []byte("x")
)

// Proof is an inner product argument proving that a committed polynomial,
// given in evaluation form over the domain {0..255}, evaluates to a claimed
// value at a given point.
//
// Details: https://dankradfeist.de/ethereum/2021/07/27/inner-product-arguments.html
type Proof struct {
	L []banderwagon.Element
	R []banderwagon.Element
	A fr.Element
}

// CreateProof creates an opening proof for the polynomial a committed to by
// the given commitment at the point z. The evaluation y = a(z) is returned
// alongside the proof. The transcript is advanced by the proof.
func CreateProof(
	t *transcript.Transcript,
	commitment banderwagon.Element,
	a []fr.Element,
	z fr.Element,
) (Proof, fr.Element, error) {
	if len(a) != commit.VectorSize {
		return Proof{}, fr.Element{}, fmt.Errorf("%w: got %d, want %d", ErrInvalidVectorLength, len(a), commit.VectorSize)
	}
	crs := commit.GetCRS()
	t.DomainSep(labelDomainSep)

	b := commit.EvaluationVector(z)
	y, err := commit.InnerProduct(a, b)
	if err != nil {
		return Proof{}, fr.Element{}, err
	}

	t.AppendPoint(commitment, labelC)
	t.AppendScalar(z, labelInputPoint)
	t.AppendScalar(y, labelOutputPoint)
	w := t.ChallengeScalar(labelW)

	base := crs.Q()
	var q banderwagon.Element
	q.ScalarMul(&base, &w)

	basis := crs.Basis()
	proof := Proof{
		L: make([]banderwagon.Element, NumRounds),
		R: make([]banderwagon.Element, NumRounds),
	}
	for round := range NumRounds {
		half := len(a) / 2
		aL, aR := a[:half], a[half:]
		bL, bR := b[:half], b[half:]
		gL, gR := basis[:half], basis[half:]

		// L = <a_R, G_L> + <a_R, b_L>·q
		// R = <a_L, G_R> + <a_L, b_R>·q
		left, err := crossCommit(gL, aR, bL, q)
		if err != nil {
			return Proof{}, fr.Element{}, err
		}
		right, err := crossCommit(gR, aL, bR, q)
		if err != nil {
			return Proof{}, fr.Element{}, err
		}
		proof.L[round] = left
		proof.R[round] = right

		t.AppendPoint(left, labelL)
		t.AppendPoint(right, labelR)
		x := t.ChallengeScalar(labelX)
		var xInv fr.Element
		xInv.Inverse(&x)

		a = foldScalars(aL, aR, x)
		b = foldScalars(bL, bR, xInv)
		basis = foldPoints(gL, gR, xInv)
	}

	proof.A = a[0]
	return proof, y, nil
}

// CheckProof verifies that the proof shows that the polynomial committed to
// by the given commitment evaluates to y at the point z. Invalid proofs yield
// false; an error is only returned for proofs of the wrong shape.
func CheckProof(
	t *transcript.Transcript,
	commitment banderwagon.Element,
	proof Proof,
	z fr.Element,
	y fr.Element,
) (bool, error) {
	if len(proof.L) != NumRounds || len(proof.R) != NumRounds {
		return false, fmt.Errorf("%w: got %d L and %d R points, want %d each", ErrInvalidProofShape, len(proof.L), len(proof.R), NumRounds)
	}
	crs := commit.GetCRS()
	t.DomainSep(labelDomainSep)

	b := commit.EvaluationVector(z)

	t.AppendPoint(commitment, labelC)
	t.AppendScalar(z, labelInputPoint)
	t.AppendScalar(y, labelOutputPoint)
	w := t.ChallengeScalar(labelW)

	base := crs.Q()
	var q banderwagon.Element
	q.ScalarMul(&base, &w)

	challenges := make([]fr.Element, NumRounds)
	for i := range NumRounds {
		t.AppendPoint(proof.L[i], labelL)
		t.AppendPoint(proof.R[i], labelR)
		challenges[i] = t.ChallengeScalar(labelX)
	}
	inverses := fr.BatchInvert(challenges)

	// C' = C + y·q + Σ (x_i·L_i + x_i⁻¹·R_i)
	points := make([]banderwagon.Element, 0, 2+2*NumRounds)
	scalars := make([]fr.Element, 0, 2+2*NumRounds)
	points = append(points, commitment, q)
	scalars = append(scalars, fr.One(), y)
	for i := range NumRounds {
		points = append(points, proof.L[i], proof.R[i])
		scalars = append(scalars, challenges[i], inverses[i])
	}
	expected, err := commit.MultiScalarMul(points, scalars)
	if err != nil {
		return false, err
	}

	// The folded basis point and b value are linear combinations of the
	// initial vectors. The coefficient of index i is the product of the
	// inverse challenges of all rounds in which i was in the right half.
	folding := make([]fr.Element, commit.VectorSize)
	for i := range folding {
		folding[i].SetOne()
		for round := range NumRounds {
			if i&(1<<(NumRounds-1-round)) != 0 {
				folding[i].Mul(&folding[i], &inverses[round])
			}
		}
	}
	g0 := crs.CommitScalars(folding)
	b0, err := commit.InnerProduct(b, folding)
	if err != nil {
		return false, err
	}

	// a·G_0 + (a·b_0)·q
	var ab fr.Element
	ab.Mul(&proof.A, &b0)
	var got, tmp banderwagon.Element
	got.ScalarMul(&g0, &proof.A)
	tmp.ScalarMul(&q, &ab)
	got.Add(&got, &tmp)

	return got.Equal(&expected), nil
}

// Equal checks whether two proofs consist of the same points and scalar.
func (p Proof) Equal(other Proof) bool {
	if len(p.L) != len(other.L) || len(p.R) != len(other.R) {
		return false
	}
	for i := range p.L {
		if !p.L[i].Equal(&other.L[i]) {
			return false
		}
	}
	for i := range p.R {
		if !p.R[i].Equal(&other.R[i]) {
			return false
		}
	}
	return p.A.Equal(&other.A)
}

// crossCommit computes <a, g> + <a, b>·q.
func crossCommit(g []banderwagon.Element, a, b []fr.Element, q banderwagon.Element) (banderwagon.Element, error) {
	z, err := commit.InnerProduct(a, b)
	if err != nil {
		return banderwagon.Element{}, err
	}
	points := append(append(make([]banderwagon.Element, 0, len(g)+1), g...), q)
	scalars := append(append(make([]fr.Element, 0, len(a)+1), a...), z)
	return commit.MultiScalarMul(points, scalars)
}

// foldScalars computes left + x·right.
func foldScalars(left, right []fr.Element, x fr.Element) []fr.Element {
	res := make([]fr.Element, len(left))
	for i := range left {
		res[i].Mul(&right[i], &x)
		res[i].Add(&res[i], &left[i])
	}
	return res
}

// foldPoints computes left + x·right.
func foldPoints(left, right []banderwagon.Element, x fr.Element) []banderwagon.Element {
	res := make([]banderwagon.Element, len(left))
	for i := range left {
		res[i].ScalarMul(&right[i], &x)
		res[i].Add(&res[i], &left[i])
	}
	return res
}
