// Copyright (c) 2025 Sonic Operations Ltd
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at soniclabs.com/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

package store

import (
	"bytes"
	"sync"

	"github.com/0xsoniclabs/verkle/go/common"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

// Memory is a map-backed Store. It is safe for concurrent use.
type Memory struct {
	mutex sync.RWMutex
	data  map[common.Key]common.Value
}

// NewMemory creates an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{data: map[common.Key]common.Value{}}
}

func (m *Memory) ForEach(visit func(common.Key, common.Value) error) error {
	m.mutex.RLock()
	keys := maps.Keys(m.data)
	values := make(map[common.Key]common.Value, len(m.data))
	maps.Copy(values, m.data)
	m.mutex.RUnlock()

	slices.SortFunc(keys, func(a, b common.Key) bool {
		return bytes.Compare(a[:], b[:]) < 0
	})
	for _, key := range keys {
		if err := visit(key, values[key]); err != nil {
			return err
		}
	}
	return nil
}

func (m *Memory) Get(key common.Key) (common.Value, bool, error) {
	m.mutex.RLock()
	defer m.mutex.RUnlock()
	value, found := m.data[key]
	return value, found, nil
}

func (m *Memory) Set(key common.Key, value common.Value) error {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	m.data[key] = value
	return nil
}

func (m *Memory) Close() error {
	return nil
}
