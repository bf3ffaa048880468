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

var (
	// ErrNoQueries is returned when creating or checking a multiproof
	// without any openings.
	ErrNoQueries = errors.New("no queries")
	// ErrQueryCountMismatch is returned if the number of verifier inputs
	// does not match.
	ErrQueryCountMismatch = errors.New("query count mismatch")
)

// Labels absorbed into the transcript by the multiproof protocol:
//  1. the domain separator,
//  2. per query, the commitment C, the point z and the result y,
//  3. the challenge r combining the queries,
//  4. the commitment D to g(X) followed by the challenge t,
//  5. the commitment E to h(X), followed by an IPA of E-D at t.
var (
	labelMultiDomainSep = []byte("multiproof")
	labelMultiC         = []byte("C")
	labelZ              = []byte("z")
	labelY              = []byte("y")
	labelRChallenge     = []byte("r")
	labelD              = []byte("D")
	labelT              = []byte("t")
	labelE              = []byte("E")
)

// ProverQuery is a single opening to be covered by a multiproof: the
// polynomial committed to by Commitment, given in evaluation form, is opened
// at the domain element Point.
type ProverQuery struct {
	Commitment banderwagon.Element
	Polynomial []fr.Element
	Point      uint8
}

// VerifierQuery is the verifier's view of a ProverQuery: the commitment, the
// opened domain element, and the claimed result.
type VerifierQuery struct {
	Commitment banderwagon.Element
	Point      uint8
	Result     fr.Element
}

// MultiProof proves an arbitrary number of openings of committed polynomials
// at domain elements with a single inner product argument.
type MultiProof struct {
	D   banderwagon.Element
	IPA Proof
}

// CreateMultiProof creates a proof covering all given queries.
func CreateMultiProof(t *transcript.Transcript, queries []ProverQuery) (*MultiProof, error) {
	if len(queries) == 0 {
		return nil, ErrNoQueries
	}
	for i, query := range queries {
		if len(query.Polynomial) != commit.VectorSize {
			return nil, fmt.Errorf("%w: query %d has %d evaluations, want %d", ErrInvalidVectorLength, i, len(query.Polynomial), commit.VectorSize)
		}
	}
	crs := commit.GetCRS()
	t.DomainSep(labelMultiDomainSep)

	for _, query := range queries {
		t.AppendPoint(query.Commitment, labelMultiC)
		t.AppendScalar(domainElement(query.Point), labelZ)
		t.AppendScalar(query.Polynomial[query.Point], labelY)
	}
	r := t.ChallengeScalar(labelRChallenge)
	powers := commit.PowersOf(r, len(queries))

	// Aggregate r^i·f_i by point, such that at most one division per domain
	// element is needed.
	var grouped [commit.VectorSize][]fr.Element
	for i, query := range queries {
		sum := grouped[query.Point]
		if sum == nil {
			sum = make([]fr.Element, commit.VectorSize)
			grouped[query.Point] = sum
		}
		for j := range sum {
			var scaled fr.Element
			scaled.Mul(&powers[i], &query.Polynomial[j])
			sum[j].Add(&sum[j], &scaled)
		}
	}

	// g(X) = Σ r^i·(f_i(X) - y_i)/(X - z_i)
	g := make([]fr.Element, commit.VectorSize)
	for point, sum := range grouped {
		if sum == nil {
			continue
		}
		quotient := commit.DivideOnDomain(uint8(point), sum)
		for j := range g {
			g[j].Add(&g[j], &quotient[j])
		}
	}
	d := crs.CommitScalars(g)
	t.AppendPoint(d, labelD)
	challenge := t.ChallengeScalar(labelT)

	// h(X) = Σ r^i·f_i(X)/(t - z_i)
	h := make([]fr.Element, commit.VectorSize)
	for point, sum := range grouped {
		if sum == nil {
			continue
		}
		var den fr.Element
		z := domainElement(uint8(point))
		den.Sub(&challenge, &z)
		den.Inverse(&den)
		for j := range h {
			var scaled fr.Element
			scaled.Mul(&sum[j], &den)
			h[j].Add(&h[j], &scaled)
		}
	}
	e := crs.CommitScalars(h)
	t.AppendPoint(e, labelE)

	hMinusG := make([]fr.Element, commit.VectorSize)
	for i := range hMinusG {
		hMinusG[i].Sub(&h[i], &g[i])
	}
	var eMinusD banderwagon.Element
	eMinusD.Sub(&e, &d)

	proof, _, err := CreateProof(t, eMinusD, hMinusG, challenge)
	if err != nil {
		return nil, fmt.Errorf("failed to create inner product argument: %w", err)
	}
	return &MultiProof{D: d, IPA: proof}, nil
}

// CheckMultiProof verifies that the proof covers all given openings. Invalid
// proofs yield false; errors are reserved for malformed inputs.
func CheckMultiProof(t *transcript.Transcript, proof *MultiProof, queries []VerifierQuery) (bool, error) {
	if len(queries) == 0 {
		return false, ErrNoQueries
	}
	if proof == nil {
		return false, fmt.Errorf("%w: missing proof", ErrInvalidProofShape)
	}
	if len(proof.IPA.L) != NumRounds || len(proof.IPA.R) != NumRounds {
		return false, fmt.Errorf("%w: got %d L and %d R points, want %d each", ErrInvalidProofShape, len(proof.IPA.L), len(proof.IPA.R), NumRounds)
	}
	t.DomainSep(labelMultiDomainSep)

	for _, query := range queries {
		t.AppendPoint(query.Commitment, labelMultiC)
		t.AppendScalar(domainElement(query.Point), labelZ)
		t.AppendScalar(query.Result, labelY)
	}
	r := t.ChallengeScalar(labelRChallenge)
	powers := commit.PowersOf(r, len(queries))

	t.AppendPoint(proof.D, labelD)
	challenge := t.ChallengeScalar(labelT)

	// 1/(t - z) for every domain element z
	inverses := make([]fr.Element, commit.VectorSize)
	for i := range inverses {
		z := domainElement(uint8(i))
		inverses[i].Sub(&challenge, &z)
	}
	inverses = fr.BatchInvert(inverses)

	// g2(t) = Σ r^i·y_i/(t - z_i)
	// E = Σ r^i/(t - z_i)·C_i
	var g2 fr.Element
	points := make([]banderwagon.Element, len(queries))
	scalars := make([]fr.Element, len(queries))
	for i, query := range queries {
		points[i] = query.Commitment
		scalars[i].Mul(&powers[i], &inverses[query.Point])
		var term fr.Element
		term.Mul(&scalars[i], &query.Result)
		g2.Add(&g2, &term)
	}
	e, err := commit.MultiScalarMul(points, scalars)
	if err != nil {
		return false, err
	}
	t.AppendPoint(e, labelE)

	var eMinusD banderwagon.Element
	eMinusD.Sub(&e, &proof.D)

	return CheckProof(t, eMinusD, proof.IPA, challenge, g2)
}

// CheckMultiProofFor verifies a multiproof given the verifier inputs as
// separate slices. All slices must be of the same length.
func CheckMultiProofFor(
	t *transcript.Transcript,
	proof *MultiProof,
	commitments []banderwagon.Element,
	points []uint8,
	results []fr.Element,
) (bool, error) {
	if len(commitments) != len(points) || len(commitments) != len(results) {
		return false, fmt.Errorf("%w: %d commitments, %d points, %d results",
			ErrQueryCountMismatch, len(commitments), len(points), len(results))
	}
	queries := make([]VerifierQuery, len(commitments))
	for i := range queries {
		queries[i] = VerifierQuery{
			Commitment: commitments[i],
			Point:      points[i],
			Result:     results[i],
		}
	}
	return CheckMultiProof(t, proof, queries)
}

// Equal checks whether both proofs are identical.
func (p *MultiProof) Equal(other *MultiProof) bool {
	if p == nil || other == nil {
		return p == other
	}
	return p.D.Equal(&other.D) && p.IPA.Equal(other.IPA)
}

func domainElement(x uint8) fr.Element {
	var res fr.Element
	res.SetUint64(uint64(x))
	return res
}
