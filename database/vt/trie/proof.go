// Copyright (c) 2025 Sonic Operations Ltd
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at soniclabs.com/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

package trie

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/0xsoniclabs/verkle/go/database/vt/commit"
	"github.com/0xsoniclabs/verkle/go/database/vt/ipa"
	"github.com/0xsoniclabs/verkle/go/database/vt/transcript"
	"github.com/crate-crypto/go-ipa/bandersnatch/fr"
	"github.com/ethereum/go-ethereum/log"
	"golang.org/x/exp/slices"
)

var (
	// ErrKeyNotFound is returned by Prove if one of the keys is not stored
	// in the trie.
	ErrKeyNotFound = errors.New("key not found")
	// ErrInvalidProof is returned if a proof does not match the shape
	// implied by the keys it is checked against.
	ErrInvalidProof = errors.New("invalid proof")
)

// proofLabel is the transcript label shared by the trie prover and verifier.
const proofLabel = "vt"

// Proof is a membership proof for a set of keys. It opens every inner node on
// the path of each key at the key's byte of that level and each reached leaf
// at the positions holding its key and value. All openings are batched into a
// single multiproof.
type Proof struct {
	// Depths lists the depth of the leaf of each key, in ascending key order.
	// Duplicate keys are listed once.
	Depths []byte
	// Commitments are the commitments of all non-root nodes on the proven
	// paths, in order of first appearance when walking the paths in
	// ascending key order.
	Commitments []commit.Commitment
	Multi       ipa.MultiProof
}

// Prove creates a membership proof for the given keys, which must all be
// present in the trie. Missing commitments are computed first.
func (t *Trie) Prove(keys []Key) (*Proof, error) {
	start := time.Now()
	t.AddMissingCommitments()
	keys = sortedUnique(keys)
	if len(keys) == 0 {
		return nil, fmt.Errorf("%w: no keys", ErrInvalidProof)
	}

	type opening struct {
		node  node
		point byte
	}
	seenNodes := map[node]struct{}{t.root: {}}
	seenOpenings := map[opening]struct{}{}
	queries := []ipa.ProverQuery{}
	open := func(n node, polynomial []fr.Element, point byte) {
		if _, found := seenOpenings[opening{n, point}]; found {
			return
		}
		seenOpenings[opening{n, point}] = struct{}{}
		queries = append(queries, ipa.ProverQuery{
			Commitment: n.getCommitment().Point(),
			Polynomial: polynomial,
			Point:      point,
		})
	}

	res := &Proof{Depths: make([]byte, 0, len(keys))}
	for _, key := range keys {
		current := t.root
		for depth := 0; ; depth++ {
			child := current.children[key[depth]]
			if child == nil {
				return nil, fmt.Errorf("%w: %v", ErrKeyNotFound, key)
			}
			open(current, current.polynomial(), key[depth])
			if _, found := seenNodes[child]; !found {
				seenNodes[child] = struct{}{}
				res.Commitments = append(res.Commitments, child.getCommitment())
			}
			if next, ok := child.(*inner); ok {
				current = next
				continue
			}
			l := child.(*leaf)
			if l.key != key {
				return nil, fmt.Errorf("%w: %v", ErrKeyNotFound, key)
			}
			polynomial := l.polynomial()
			for i := range leafVectorLength {
				open(l, polynomial, byte(i))
			}
			res.Depths = append(res.Depths, byte(depth+1))
			break
		}
	}

	multi, err := ipa.CreateMultiProof(transcript.New(proofLabel), queries)
	if err != nil {
		return nil, fmt.Errorf("failed to create multiproof: %w", err)
	}
	res.Multi = *multi
	log.Debug("Created proof", "keys", len(keys), "openings", len(queries), "duration", time.Since(start))
	return res, nil
}

// VerifyProof checks that the proof shows that each key is mapped to the
// value at the same position in the trie with the given root commitment. The
// result is false if the proof does not hold; an error is returned only if
// the inputs are malformed.
func VerifyProof(root commit.Commitment, proof *Proof, keys []Key, values []Value) (bool, error) {
	if proof == nil {
		return false, fmt.Errorf("%w: no proof", ErrInvalidProof)
	}
	if len(keys) != len(values) {
		return false, fmt.Errorf("%w: %d keys but %d values", ErrInvalidProof, len(keys), len(values))
	}
	pairs, consistent := sortedUniquePairs(keys, values)
	if !consistent {
		return false, nil
	}
	if len(pairs) == 0 {
		return false, fmt.Errorf("%w: no keys", ErrInvalidProof)
	}
	if len(pairs) != len(proof.Depths) {
		return false, fmt.Errorf("%w: %d depths for %d keys", ErrInvalidProof, len(proof.Depths), len(pairs))
	}

	// Nodes are identified by the key prefix leading to them.
	type opening struct {
		prefix string
		point  byte
	}
	nodes := map[string]commit.Commitment{"": root}
	results := map[opening]commit.Value{}
	queries := []ipa.VerifierQuery{}
	nextCommitment := 0
	claim := func(prefix string, point byte, result commit.Value) bool {
		key := opening{prefix, point}
		if previous, found := results[key]; found {
			return previous.Equal(result)
		}
		results[key] = result
		queries = append(queries, ipa.VerifierQuery{
			Commitment: nodes[prefix].Point(),
			Point:      point,
			Result:     result.Scalar(),
		})
		return true
	}

	for i, pair := range pairs {
		depth := int(proof.Depths[i])
		if depth < 1 || depth > len(pair.key) {
			return false, fmt.Errorf("%w: depth %d out of range", ErrInvalidProof, depth)
		}
		for d := range depth {
			parent := string(pair.key[:d])
			child := string(pair.key[:d+1])
			if _, found := nodes[child]; !found {
				if nextCommitment >= len(proof.Commitments) {
					return false, fmt.Errorf("%w: too few commitments", ErrInvalidProof)
				}
				nodes[child] = proof.Commitments[nextCommitment]
				nextCommitment++
			}
			if !claim(parent, pair.key[d], nodes[child].ToValue()) {
				return false, nil
			}
		}
		prefix := string(pair.key[:depth])
		vector := leafVector(pair.key, pair.value)
		for j := range leafVectorLength {
			if !claim(prefix, byte(j), vector[j]) {
				return false, nil
			}
		}
	}
	if nextCommitment != len(proof.Commitments) {
		return false, fmt.Errorf("%w: %d unused commitments", ErrInvalidProof, len(proof.Commitments)-nextCommitment)
	}

	return ipa.CheckMultiProof(transcript.New(proofLabel), &proof.Multi, queries)
}

// Write serializes the proof. The layout is the number of keys as a 32-bit
// big-endian integer, one depth byte per key, the number of commitments as a
// 32-bit big-endian integer, the compressed commitments, and the multiproof.
func (p *Proof) Write(w io.Writer) error {
	if err := binary.Write(w, binary.BigEndian, uint32(len(p.Depths))); err != nil {
		return err
	}
	if _, err := w.Write(p.Depths); err != nil {
		return err
	}
	if err := binary.Write(w, binary.BigEndian, uint32(len(p.Commitments))); err != nil {
		return err
	}
	for _, c := range p.Commitments {
		data := c.Compress()
		if _, err := w.Write(data[:]); err != nil {
			return err
		}
	}
	return p.Multi.Write(w)
}

// Read deserializes a proof written by Write. The receiver is only modified
// on success.
func (p *Proof) Read(r io.Reader) error {
	var numDepths uint32
	if err := binary.Read(r, binary.BigEndian, &numDepths); err != nil {
		return fmt.Errorf("failed to read number of keys: %w", err)
	}
	depths, err := readBytes(r, int64(numDepths))
	if err != nil {
		return fmt.Errorf("failed to read depths: %w", err)
	}
	var numCommitments uint32
	if err := binary.Read(r, binary.BigEndian, &numCommitments); err != nil {
		return fmt.Errorf("failed to read number of commitments: %w", err)
	}
	var commitments []commit.Commitment
	for i := range numCommitments {
		var data [32]byte
		if _, err := io.ReadFull(r, data[:]); err != nil {
			return fmt.Errorf("failed to read commitment %d: %w", i, err)
		}
		c, err := commit.FromCompressed(data)
		if err != nil {
			return fmt.Errorf("failed to decode commitment %d: %w", i, err)
		}
		commitments = append(commitments, c)
	}
	var multi ipa.MultiProof
	if err := multi.Read(r); err != nil {
		return fmt.Errorf("failed to read multiproof: %w", err)
	}
	p.Depths = depths
	p.Commitments = commitments
	p.Multi = multi
	return nil
}

func readBytes(r io.Reader, n int64) ([]byte, error) {
	var buffer bytes.Buffer
	read, err := io.CopyN(&buffer, r, n)
	if err != nil {
		return nil, err
	}
	if read != n {
		return nil, io.ErrUnexpectedEOF
	}
	return buffer.Bytes(), nil
}

// polynomial returns the vector committed to by the inner node.
func (i *inner) polynomial() []fr.Element {
	res := make([]fr.Element, commit.VectorSize)
	for j, child := range i.children {
		if child != nil {
			res[j] = child.getField().Scalar()
		}
	}
	return res
}

// polynomial returns the vector committed to by the leaf.
func (l *leaf) polynomial() []fr.Element {
	vector := leafVector(l.key, l.value)
	res := make([]fr.Element, commit.VectorSize)
	for j := range vector {
		res[j] = vector[j].Scalar()
	}
	return res
}

func compareKeys(a, b Key) bool {
	return bytes.Compare(a[:], b[:]) < 0
}

func sortedUnique(keys []Key) []Key {
	res := slices.Clone(keys)
	slices.SortFunc(res, compareKeys)
	return slices.Compact(res)
}

type pair struct {
	key   Key
	value Value
}

// sortedUniquePairs sorts the pairs by key and removes duplicates. The second
// result is false if a key is listed with different values.
func sortedUniquePairs(keys []Key, values []Value) ([]pair, bool) {
	pairs := make([]pair, len(keys))
	for i := range keys {
		pairs[i] = pair{keys[i], values[i]}
	}
	slices.SortFunc(pairs, func(a, b pair) bool {
		return compareKeys(a.key, b.key)
	})
	res := pairs[:0]
	for _, p := range pairs {
		if len(res) > 0 && res[len(res)-1].key == p.key {
			if res[len(res)-1].value != p.value {
				return nil, false
			}
			continue
		}
		res = append(res, p)
	}
	return res, true
}

