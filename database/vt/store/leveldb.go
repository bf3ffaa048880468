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
	"errors"
	"fmt"

	"github.com/0xsoniclabs/verkle/go/common"
	"github.com/syndtr/goleveldb/leveldb"
	leveldbstorage "github.com/syndtr/goleveldb/leveldb/storage"
)

// LevelDb is a Store persisting pairs in a LevelDB instance. LevelDB handles
// its own synchronization, so instances are safe for concurrent use.
type LevelDb struct {
	db *leveldb.DB
}

// OpenLevelDb opens or creates a LevelDB database in the given directory.
func OpenLevelDb(path string) (*LevelDb, error) {
	db, err := leveldb.OpenFile(path, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to open database at %s: %w", path, err)
	}
	return &LevelDb{db: db}, nil
}

// NewLevelDbInMemory creates a LevelDB instance backed by memory only.
func NewLevelDbInMemory() (*LevelDb, error) {
	db, err := leveldb.Open(leveldbstorage.NewMemStorage(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create in-memory database: %w", err)
	}
	return &LevelDb{db: db}, nil
}

func (s *LevelDb) ForEach(visit func(common.Key, common.Value) error) error {
	iter := s.db.NewIterator(nil, nil)
	defer iter.Release()
	for iter.Next() {
		key, value := iter.Key(), iter.Value()
		if len(key) != common.KeySize || len(value) != common.ValueSize {
			return fmt.Errorf("%w: key %x, value %x", ErrInvalidLength, key, value)
		}
		if err := visit(common.Key(key), common.Value(value)); err != nil {
			return err
		}
	}
	if err := iter.Error(); err != nil {
		return fmt.Errorf("failed to iterate database: %w", err)
	}
	return nil
}

func (s *LevelDb) Get(key common.Key) (common.Value, bool, error) {
	data, err := s.db.Get(key[:], nil)
	if errors.Is(err, leveldb.ErrNotFound) {
		return common.Value{}, false, nil
	}
	if err != nil {
		return common.Value{}, false, fmt.Errorf("failed to get %v: %w", key, err)
	}
	if len(data) != common.ValueSize {
		return common.Value{}, false, fmt.Errorf("%w: value %x of key %v", ErrInvalidLength, data, key)
	}
	return common.Value(data), true, nil
}

func (s *LevelDb) Set(key common.Key, value common.Value) error {
	return s.db.Put(key[:], value[:], nil)
}

// put stores raw bytes, bypassing the length checks of the typed interface.
func (s *LevelDb) put(key, value []byte) error {
	return s.db.Put(key, value, nil)
}

func (s *LevelDb) Close() error {
	return s.db.Close()
}
