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
	"time"

	"github.com/0xsoniclabs/verkle/go/database/vt/store"
	"github.com/ethereum/go-ethereum/log"
)

// LoadFrom inserts all pairs of the given source into the trie and computes
// all missing commitments afterwards. If the source fails, pairs visited
// before the failure remain inserted and the trie is left uncommitted.
func (t *Trie) LoadFrom(source store.Source) error {
	start := time.Now()
	count := 0
	err := source.ForEach(func(key Key, value Value) error {
		t.InsertNoCommit(key, value)
		count++
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to load pairs: %w", err)
	}
	log.Debug("Loaded pairs", "count", count, "duration", time.Since(start))
	t.AddMissingCommitments()
	return nil
}
