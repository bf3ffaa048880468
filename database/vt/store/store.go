// Copyright (c) 2025 Sonic Operations Ltd
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at soniclabs.com/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

// Package store provides key/value sources a verkle trie can be loaded from.
package store

//go:generate mockgen -source store.go -destination store_mocks.go -package store

import (
	"errors"

	"github.com/0xsoniclabs/verkle/go/common"
)

// ErrInvalidLength is returned if a stored key or value is not exactly 32
// bytes long.
var ErrInvalidLength = errors.New("invalid key or value length")

// Source is a read-only collection of key/value pairs.
type Source interface {
	// ForEach calls the visitor for every stored pair, in ascending key
	// order. Iteration stops at the first error returned by the visitor,
	// which is forwarded to the caller.
	ForEach(visit func(common.Key, common.Value) error) error

	// Get returns the value stored for the given key. The second result is
	// false if the key is not present.
	Get(key common.Key) (common.Value, bool, error)

	// Close releases all resources held by the source.
	Close() error
}

// Store is a Source that can be modified.
type Store interface {
	Source

	// Set associates the given key with the given value.
	Set(key common.Key, value common.Value) error
}
