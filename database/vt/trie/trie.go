// Copyright (c) 2025 Sonic Operations Ltd
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at soniclabs.com/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

// Package trie implements an all-in-memory verkle trie: an authenticated
// key/value dictionary whose root is a Pedersen vector commitment.
//
// Keys are 32 bytes; the byte at depth d selects the child of an inner node at
// depth d. Leaves hold a single key/value pair. Inner nodes commit to the
// commitment fields of their children, leaves commit to their key and value.
//
// Commitments can be maintained in two ways:
//   - bulk: pairs are inserted with InsertNoCommit, which marks the touched
//     nodes dirty, and AddMissingCommitments recomputes all dirty nodes
//     bottom-up, optionally in parallel;
//   - incrementally: Update applies the change of a single pair to all
//     commitments on its path using one scalar multiplication per level.
//
// A Trie is not safe for concurrent use.
package trie

import (
	"errors"
	"time"

	"github.com/0xsoniclabs/verkle/go/common"
	"github.com/0xsoniclabs/verkle/go/database/vt/commit"
	"github.com/ethereum/go-ethereum/log"
	"github.com/holiman/uint256"
)

// ErrDirtyPath is returned by Update if a node on the path of the updated key
// has no up-to-date commitment. AddMissingCommitments needs to be called
// before incremental updates are possible.
var ErrDirtyPath = errors.New("update on a path with missing commitments")

// Key is a fixed-size byte array used to address values in the trie.
type Key = common.Key

// Value is a fixed-size byte array used to represent data stored in the trie.
type Value = common.Value

// ValueFromUint256 encodes the given integer as a trie value using
// little-endian byte order.
func ValueFromUint256(value *uint256.Int) Value {
	bytes := value.Bytes32() // < big-endian
	var res Value
	for i := range res {
		res[i] = bytes[len(bytes)-1-i]
	}
	return res
}

// TrieConfig is the configuration of a trie.
type TrieConfig struct {
	// ParallelCommit enables the parallel computation of missing commitments.
	ParallelCommit bool
}

// Trie implements an all-in-memory version of a Verkle trie. It provides a
// basic key-value store with fixed-length keys and values and the ability to
// provide a cryptographic commitment of the trie's state using Pedersen
// commitments.
type Trie struct {
	root   *inner
	config TrieConfig
	size   int
}

// NewTrie creates an empty trie with the given configuration.
func NewTrie(config TrieConfig) *Trie {
	return &Trie{
		root:   newInner(),
		config: config,
	}
}

// Config returns the configuration the trie was created with.
func (t *Trie) Config() TrieConfig {
	return t.config
}

// Get retrieves the value associated with the given key from the trie. The
// second result is false if the key is not present.
func (t *Trie) Get(key Key) (Value, bool) {
	return t.root.get(key, 0)
}

// Len returns the number of keys stored in the trie.
func (t *Trie) Len() int {
	return t.size
}

// InsertNoCommit associates the given key with the specified value. No
// commitment is updated; all nodes on the key's path are marked dirty instead.
func (t *Trie) InsertNoCommit(key Key, value Value) {
	if _, added := t.root.insert(key, value, 0); added {
		t.size++
	}
}

// AddMissingCommitments computes the commitments of all dirty nodes. Clean
// nodes are skipped, thus calling it on a clean trie is cheap.
func (t *Trie) AddMissingCommitments() {
	if t.root.isClean() {
		return
	}
	start := time.Now()
	if t.config.ParallelCommit {
		tasks := []*task{}
		t.root.collectCommitTasks(&tasks)
		runTasks(tasks)
		log.Debug("Added missing commitments", "mode", "parallel", "tasks", len(tasks), "duration", time.Since(start))
		return
	}
	t.root.addMissingCommitments()
	log.Debug("Added missing commitments", "mode", "sequential", "duration", time.Since(start))
}

// Update associates the given key with the specified value and updates the
// commitments of all nodes on the key's path incrementally. All those nodes
// must have an up-to-date commitment, otherwise ErrDirtyPath is returned and
// the trie remains unchanged.
func (t *Trie) Update(key Key, value Value) error {
	_, _, added, err := t.root.update(key, value, 0)
	if err != nil {
		return err
	}
	if added {
		t.size++
	}
	log.Trace("Updated key", "key", key, "added", added)
	return nil
}

// Commitment returns the commitment of the root node. Missing commitments are
// computed first.
func (t *Trie) Commitment() commit.Commitment {
	t.AddMissingCommitments()
	return t.root.commitment
}

// RootField returns the commitment field of the root node, which summarizes
// the content of the trie in a single value. Missing commitments are computed
// first.
func (t *Trie) RootField() commit.Value {
	t.AddMissingCommitments()
	return t.root.field
}
