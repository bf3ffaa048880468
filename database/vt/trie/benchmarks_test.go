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
	"fmt"
	"testing"
)

func BenchmarkTrie_AddMissingCommitments(b *testing.B) {
	for _, size := range []uint64{100, 10_000} {
		for name, config := range configs() {
			b.Run(fmt.Sprintf("%s/size=%d", name, size), func(b *testing.B) {
				for b.Loop() {
					b.StopTimer()
					trie := NewTrie(config)
					for i := range size {
						trie.InsertNoCommit(randomKey(i), randomValue(i))
					}
					b.StartTimer()
					trie.AddMissingCommitments()
				}
			})
		}
	}
}

func BenchmarkTrie_Update(b *testing.B) {
	trie := NewTrie(TrieConfig{ParallelCommit: true})
	for i := range uint64(10_000) {
		trie.InsertNoCommit(randomKey(i), randomValue(i))
	}
	trie.AddMissingCommitments()
	i := uint64(0)
	for b.Loop() {
		if err := trie.Update(randomKey(i%20_000), randomValue(i)); err != nil {
			b.Fatal(err)
		}
		i++
	}
}

func BenchmarkTrie_Prove(b *testing.B) {
	trie := NewTrie(TrieConfig{ParallelCommit: true})
	for i := range uint64(1_000) {
		trie.InsertNoCommit(randomKey(i), randomValue(i))
	}
	trie.AddMissingCommitments()
	keys := []Key{randomKey(1), randomKey(2), randomKey(3), randomKey(4)}
	for b.Loop() {
		if _, err := trie.Prove(keys); err != nil {
			b.Fatal(err)
		}
	}
}
