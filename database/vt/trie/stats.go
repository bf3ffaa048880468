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
	"unsafe"
)

// Stats summarizes the shape of a trie.
type Stats struct {
	InnerNodes int
	Leaves     int
	// MaxDepth is the largest depth of any leaf, where children of the root
	// are at depth 1.
	MaxDepth int
	// LeavesPerDepth counts the leaves at each depth.
	LeavesPerDepth map[int]int
	// MemoryFootprint is an estimate of the bytes occupied by all nodes.
	MemoryFootprint uint64
}

// Stats walks the trie and collects its statistics.
func (t *Trie) Stats() Stats {
	res := Stats{LeavesPerDepth: map[int]int{}}
	collectStats(t.root, 0, &res)
	return res
}

func collectStats(n node, depth int, stats *Stats) {
	switch n := n.(type) {
	case *inner:
		stats.InnerNodes++
		stats.MemoryFootprint += uint64(unsafe.Sizeof(*n))
		for _, child := range n.children {
			if child != nil {
				collectStats(child, depth+1, stats)
			}
		}
	case *leaf:
		stats.Leaves++
		stats.MemoryFootprint += uint64(unsafe.Sizeof(*n))
		stats.LeavesPerDepth[depth]++
		stats.MaxDepth = max(stats.MaxDepth, depth)
	}
}

func (s Stats) String() string {
	return fmt.Sprintf(
		"inner nodes: %d, leaves: %d, max depth: %d, memory: %d bytes",
		s.InnerNodes, s.Leaves, s.MaxDepth, s.MemoryFootprint,
	)
}
