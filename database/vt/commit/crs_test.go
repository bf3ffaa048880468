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
	"sync"
	"testing"

	"github.com/crate-crypto/go-ipa/bandersnatch/fr"
	"github.com/crate-crypto/go-ipa/banderwagon"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/stretchr/testify/require"
)

func TestCRS_MatchesPublishedReferenceValues(t *testing.T) {
	require := require.New(t)

	basis := GetCRS().Basis()
	require.Len(basis, VectorSize)

	first := basis[0].Bytes()
	last := basis[VectorSize-1].Bytes()
	require.Equal("0x01587ad1336675eb912550ec2a28eb8923b824b490dd2ba82e48f14590a298a0", hexutil.Encode(first[:]))
	require.Equal("0x3de2be346b539395b0c0de56a5ccca54a317f1b5c80107b0802af9a62276a4d8", hexutil.Encode(last[:]))

	hasher := sha256.New()
	for _, point := range basis {
		bytes := point.Bytes()
		hasher.Write(bytes[:])
	}
	require.Equal("0x1fcaea10bf24f750200e06fa473c76ff0468007291fa548e2d99f09ba9256fdb", hexutil.Encode(hasher.Sum(nil)))

	digest := GetCRS().Digest()
	require.Equal("0x1fcaea10bf24f750200e06fa473c76ff0468007291fa548e2d99f09ba9256fdb", hexutil.Encode(digest[:]))
}

func TestCRS_DoesNotContainTheGenerator(t *testing.T) {
	for i, point := range GetCRS().Basis() {
		require.False(t, point.Equal(&banderwagon.Generator), "basis point %d is the generator", i)
	}
}

func TestCRS_PointsAreDistinctAndValid(t *testing.T) {
	require := require.New(t)

	seen := map[[32]byte]struct{}{}
	for _, point := range GetCRS().Basis() {
		require.True(point.IsOnCurve())
		seen[point.Bytes()] = struct{}{}
	}
	require.Len(seen, VectorSize)
}

func TestCRS_GeneratePointsIsDeterministicPrefix(t *testing.T) {
	require := require.New(t)

	short := GeneratePoints(4)
	basis := GetCRS().Basis()
	for i, point := range short {
		require.True(point.Equal(&basis[i]))
	}
}

func TestCRS_QIsGenerator(t *testing.T) {
	q := GetCRS().Q()
	require.True(t, q.Equal(&banderwagon.Generator))
}

func TestCRS_BasisReturnsCopy(t *testing.T) {
	basis := GetCRS().Basis()
	basis[0] = banderwagon.Identity
	again := GetCRS().Basis()
	require.False(t, again[0].Equal(&banderwagon.Identity))
}

func TestCRS_CommitScalarsEqualsGenericMultiScalarMul(t *testing.T) {
	require := require.New(t)

	scalars := make([]fr.Element, VectorSize)
	for i := range scalars {
		scalars[i].SetUint64(uint64(3*i + 1))
	}
	crs := GetCRS()
	want, err := MultiScalarMul(crs.Basis(), scalars)
	require.NoError(err)
	got := crs.CommitScalars(scalars)
	require.True(got.Equal(&want))
}

func TestMultiScalarMul_RejectsLengthMismatch(t *testing.T) {
	_, err := MultiScalarMul(GetCRS().Basis()[:2], make([]fr.Element, 3))
	require.Error(t, err)
}

func TestMultiScalarMul_EmptyInputIsIdentity(t *testing.T) {
	res, err := MultiScalarMul(nil, nil)
	require.NoError(t, err)
	require.True(t, res.Equal(&banderwagon.Identity))
}

func TestCRS_ConcurrentAccessYieldsSameInstance(t *testing.T) {
	const N = 8
	results := make([]*CRS, N)
	var wg sync.WaitGroup
	for i := range N {
		wg.Add(1)
		go func() {
			defer wg.Done()
			results[i] = GetCRS()
		}()
	}
	wg.Wait()
	for _, res := range results {
		require.Same(t, results[0], res)
	}
}
