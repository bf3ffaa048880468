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
	"crypto/sha256"
	"encoding/binary"
	"fmt"
	"sync"

	"github.com/crate-crypto/go-ipa/bandersnatch/fp"
	"github.com/crate-crypto/go-ipa/bandersnatch/fr"
	"github.com/crate-crypto/go-ipa/banderwagon"
)

// crsSeed is the seed from which the basis points of the common reference
// string are derived. It matches the seed used by Ethereum verkle clients, so
// commitments computed by this package are interoperable.
const crsSeed = "eth_verkle_oct_2021"

// CRS is the common reference string of the Pedersen commitment scheme. It
// consists of VectorSize independent basis points G_0..G_255 and an extra
// point Q used by opening proofs. Instances are immutable and shared among
// all users of this package, see GetCRS.
type CRS struct {
	basis  [VectorSize]banderwagon.Element
	q      banderwagon.Element
	msm    banderwagon.MSMPrecomp
	domain *domain
}

var (
	crs     *CRS
	crsOnce sync.Once
)

// GetCRS returns the common reference string. It is derived on first use,
// which takes a moment due to the precomputation of MSM tables.
func GetCRS() *CRS {
	crsOnce.Do(func() {
		res, err := newCRS()
		if err != nil {
			panic(fmt.Sprintf("failed to initialize CRS: %v", err))
		}
		crs = res
	})
	return crs
}

func newCRS() (*CRS, error) {
	points := GeneratePoints(VectorSize)
	msm, err := banderwagon.NewPrecompMSM(points)
	if err != nil {
		return nil, fmt.Errorf("failed to precompute MSM tables: %w", err)
	}
	res := &CRS{
		q:      banderwagon.Generator,
		msm:    msm,
		domain: newDomain(),
	}
	copy(res.basis[:], points)
	return res, nil
}

// GeneratePoints deterministically derives the given number of group elements
// from the CRS seed. Candidates are obtained by hashing the seed together with
// a big-endian counter and interpreting the digest as a base field element.
// Candidates that are not the encoding of a point in the prime order subgroup
// are skipped.
func GeneratePoints(count int) []banderwagon.Element {
	points := make([]banderwagon.Element, 0, count)
	var counter [8]byte
	for i := uint64(0); len(points) < count; i++ {
		binary.BigEndian.PutUint64(counter[:], i)
		hasher := sha256.New()
		hasher.Write([]byte(crsSeed))
		hasher.Write(counter[:])

		var x fp.Element
		x.SetBytes(hasher.Sum(nil))
		candidate := x.Bytes()

		var point banderwagon.Element
		if err := point.SetBytes(candidate[:]); err != nil {
			continue
		}
		points = append(points, point)
	}
	return points
}

// Basis returns a copy of the basis points G_0..G_255.
func (c *CRS) Basis() []banderwagon.Element {
	res := make([]banderwagon.Element, VectorSize)
	copy(res, c.basis[:])
	return res
}

// Digest returns the SHA-256 hash of the concatenated compressed basis
// points, a fingerprint for comparing CRS instances across implementations.
func (c *CRS) Digest() [sha256.Size]byte {
	hasher := sha256.New()
	for _, point := range c.basis {
		bytes := point.Bytes()
		hasher.Write(bytes[:])
	}
	var res [sha256.Size]byte
	hasher.Sum(res[:0])
	return res
}

// BasisPoint returns the basis point G_i.
func (c *CRS) BasisPoint(i byte) banderwagon.Element {
	return c.basis[i]
}

// Q returns the auxiliary point used to bind evaluation results in opening
// proofs.
func (c *CRS) Q() banderwagon.Element {
	return c.q
}

// CommitScalars computes the Pedersen commitment Σ scalars[i]·G_i using the
// precomputed fixed-base tables. At most VectorSize scalars are supported.
func (c *CRS) CommitScalars(scalars []fr.Element) banderwagon.Element {
	return c.msm.MSM(scalars)
}

// MultiScalarMul computes Σ scalars[i]·points[i] for an arbitrary basis.
func MultiScalarMul(points []banderwagon.Element, scalars []fr.Element) (banderwagon.Element, error) {
	var res banderwagon.Element
	res.SetIdentity()
	if len(points) != len(scalars) {
		return res, fmt.Errorf("number of points %d does not match number of scalars %d", len(points), len(scalars))
	}
	if len(points) == 0 {
		return res, nil
	}
	if _, err := res.MultiExp(points, scalars, banderwagon.MultiExpConfig{ScalarsMont: true}); err != nil {
		return res, fmt.Errorf("multi-scalar multiplication failed: %w", err)
	}
	return res, nil
}
