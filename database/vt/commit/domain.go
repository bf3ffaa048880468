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

	"github.com/crate-crypto/go-ipa/bandersnatch/fr"
)

// ErrLengthMismatch is returned by vector operations on inputs of different
// lengths.
var ErrLengthMismatch = errors.New("vector lengths do not match")

// domain holds precomputed constants for working with polynomials given in
// evaluation form over the domain {0, 1, ..., 255}. With A(X) = Π (X - i),
// weights[i] holds A'(i), inverseWeights[i] holds 1/A'(i), and
// inverses[k] holds 1/k for k in [1, 255].
type domain struct {
	weights        [VectorSize]fr.Element
	inverseWeights [VectorSize]fr.Element
	inverses       [VectorSize]fr.Element
}

func newDomain() *domain {
	res := &domain{}
	for i := range VectorSize {
		res.weights[i] = derivativeOfVanishing(uint64(i))
	}
	copy(res.inverseWeights[:], fr.BatchInvert(res.weights[:]))

	for k := 1; k < VectorSize; k++ {
		var cur fr.Element
		cur.SetUint64(uint64(k))
		res.inverses[k].Inverse(&cur)
	}
	return res
}

// derivativeOfVanishing computes A'(x) = Π_{i != x} (x - i) for a domain
// element x.
func derivativeOfVanishing(x uint64) fr.Element {
	var point fr.Element
	point.SetUint64(x)
	res := fr.One()
	for i := range uint64(VectorSize) {
		if i == x {
			continue
		}
		var cur, diff fr.Element
		cur.SetUint64(i)
		diff.Sub(&point, &cur)
		res.Mul(&res, &diff)
	}
	return res
}

// inverseOfDifference returns 1/(a-b) for distinct domain elements a and b.
func (d *domain) inverseOfDifference(a, b int) fr.Element {
	if a > b {
		return d.inverses[a-b]
	}
	var res fr.Element
	res.Neg(&d.inverses[b-a])
	return res
}

// BarycentricCoefficients computes the Lagrange basis polynomials L_i
// evaluated at z, such that for any polynomial f given in evaluation form the
// inner product of f and the result equals f(z).
//
// The point z must not be an element of the domain {0..255}. This is not
// checked; for domain elements the result is meaningless.
func BarycentricCoefficients(z fr.Element) []fr.Element {
	d := GetCRS().domain

	// L_i(z) = A(z) / (A'(i) * (z - i))
	res := make([]fr.Element, VectorSize)
	vanishing := fr.One()
	for i := range VectorSize {
		var cur fr.Element
		cur.SetUint64(uint64(i))
		res[i].Sub(&z, &cur)
		vanishing.Mul(&vanishing, &res[i])
		res[i].Mul(&res[i], &d.weights[i])
	}
	res = fr.BatchInvert(res)
	for i := range res {
		res[i].Mul(&res[i], &vanishing)
	}
	return res
}

// EvaluateOutsideDomain evaluates the polynomial given in evaluation form at
// the point z, which must not be an element of the domain.
func EvaluateOutsideDomain(poly []fr.Element, z fr.Element) (fr.Element, error) {
	return InnerProduct(poly, BarycentricCoefficients(z))
}

// EvaluationVector returns the vector b such that ⟨f, b⟩ = f(z) for every
// polynomial f in evaluation form. For domain elements this is a unit vector,
// for all other points the barycentric coefficients are returned.
func EvaluationVector(z fr.Element) []fr.Element {
	if index, ok := domainIndex(z); ok {
		res := make([]fr.Element, VectorSize)
		res[index].SetOne()
		return res
	}
	return BarycentricCoefficients(z)
}

func domainIndex(z fr.Element) (int, bool) {
	var limit fr.Element
	limit.SetUint64(VectorSize)
	if z.Cmp(&limit) >= 0 {
		return 0, false
	}
	bytes := z.Bytes() // < big-endian
	return int(bytes[31]), true
}

// DivideOnDomain computes the quotient q(X) = (f(X) - f(x_i)) / (X - x_i) in
// evaluation form, where x_i = index is an element of the domain. The input
// must contain VectorSize evaluations.
func DivideOnDomain(index uint8, f []fr.Element) []fr.Element {
	d := GetCRS().domain
	res := make([]fr.Element, VectorSize)
	pos := int(index)
	y := f[pos]
	for i := range VectorSize {
		if i == pos {
			continue
		}
		// q_i = (f_i - y) / (i - index)
		inv := d.inverseOfDifference(i, pos)
		res[i].Sub(&f[i], &y)
		res[i].Mul(&res[i], &inv)

		// q_index = - Σ A'(index)/A'(i) * q_i
		var ratio fr.Element
		ratio.Mul(&d.weights[pos], &d.inverseWeights[i])
		ratio.Mul(&ratio, &res[i])
		res[pos].Sub(&res[pos], &ratio)
	}
	return res
}

// InnerProduct computes Σ a[i]·b[i].
func InnerProduct(a, b []fr.Element) (fr.Element, error) {
	var res fr.Element
	if len(a) != len(b) {
		return res, ErrLengthMismatch
	}
	for i := range a {
		var cur fr.Element
		cur.Mul(&a[i], &b[i])
		res.Add(&res, &cur)
	}
	return res, nil
}

// PowersOf returns the vector [1, x, x^2, ..., x^(n-1)].
func PowersOf(x fr.Element, n int) []fr.Element {
	res := make([]fr.Element, n)
	if n == 0 {
		return res
	}
	res[0].SetOne()
	for i := 1; i < n; i++ {
		res[i].Mul(&res[i-1], &x)
	}
	return res
}
