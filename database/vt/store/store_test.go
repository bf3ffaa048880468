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
	"os"
	"path/filepath"
	"testing"

	"github.com/0xsoniclabs/verkle/go/common"
	"github.com/stretchr/testify/require"
)

var (
	_ Store = (*Memory)(nil)
	_ Store = (*LevelDb)(nil)
	_ Store = (*MockStore)(nil)
	_ Source = (*MockSource)(nil)
)

func storeFactories() map[string]func(t *testing.T) Store {
	return map[string]func(t *testing.T) Store{
		"memory": func(t *testing.T) Store {
			return NewMemory()
		},
		"leveldb-in-memory": func(t *testing.T) Store {
			db, err := NewLevelDbInMemory()
			require.NoError(t, err)
			return db
		},
		"leveldb-on-disk": func(t *testing.T) Store {
			db, err := OpenLevelDb(filepath.Join(t.TempDir(), "db"))
			require.NoError(t, err)
			return db
		},
	}
}

func TestStore_GetReturnsStoredValues(t *testing.T) {
	for name, factory := range storeFactories() {
		t.Run(name, func(t *testing.T) {
			require := require.New(t)
			store := factory(t)
			defer func() { require.NoError(store.Close()) }()

			key := common.Key{1, 2, 3}
			_, found, err := store.Get(key)
			require.NoError(err)
			require.False(found)

			require.NoError(store.Set(key, common.Value{4}))
			value, found, err := store.Get(key)
			require.NoError(err)
			require.True(found)
			require.Equal(common.Value{4}, value)

			require.NoError(store.Set(key, common.Value{5}))
			value, found, err = store.Get(key)
			require.NoError(err)
			require.True(found)
			require.Equal(common.Value{5}, value)
		})
	}
}

func TestStore_ForEachVisitsAllPairsInKeyOrder(t *testing.T) {
	for name, factory := range storeFactories() {
		t.Run(name, func(t *testing.T) {
			require := require.New(t)
			store := factory(t)
			defer func() { require.NoError(store.Close()) }()

			keys := []common.Key{{31: 3}, {0: 1}, {0: 2}, {}, {0: 1, 31: 1}}
			for i, key := range keys {
				require.NoError(store.Set(key, common.Value{byte(i + 1)}))
			}

			var seen []common.Key
			err := store.ForEach(func(key common.Key, value common.Value) error {
				seen = append(seen, key)
				for i, k := range keys {
					if k == key {
						require.Equal(common.Value{byte(i + 1)}, value)
					}
				}
				return nil
			})
			require.NoError(err)
			want := []common.Key{{}, {31: 3}, {0: 1}, {0: 1, 31: 1}, {0: 2}}
			require.Equal(want, seen)
		})
	}
}

func TestStore_ForEachStopsAtFirstVisitorError(t *testing.T) {
	for name, factory := range storeFactories() {
		t.Run(name, func(t *testing.T) {
			require := require.New(t)
			store := factory(t)
			defer func() { require.NoError(store.Close()) }()

			for i := range 5 {
				require.NoError(store.Set(common.Key{byte(i)}, common.Value{}))
			}

			injected := errors.New("injected")
			calls := 0
			err := store.ForEach(func(common.Key, common.Value) error {
				calls++
				if calls == 2 {
					return injected
				}
				return nil
			})
			require.ErrorIs(err, injected)
			require.Equal(2, calls)
		})
	}
}

func TestStore_ForEachOnEmptyStoreDoesNotCallVisitor(t *testing.T) {
	for name, factory := range storeFactories() {
		t.Run(name, func(t *testing.T) {
			store := factory(t)
			defer func() { require.NoError(t, store.Close()) }()
			err := store.ForEach(func(common.Key, common.Value) error {
				t.Fatal("visitor must not be called")
				return nil
			})
			require.NoError(t, err)
		})
	}
}

func TestLevelDb_ContentIsPersistedAcrossReopening(t *testing.T) {
	require := require.New(t)
	path := filepath.Join(t.TempDir(), "db")

	db, err := OpenLevelDb(path)
	require.NoError(err)
	require.NoError(db.Set(common.Key{1}, common.Value{2}))
	require.NoError(db.Close())

	db, err = OpenLevelDb(path)
	require.NoError(err)
	defer func() { require.NoError(db.Close()) }()
	value, found, err := db.Get(common.Key{1})
	require.NoError(err)
	require.True(found)
	require.Equal(common.Value{2}, value)
}

func TestLevelDb_EntriesOfInvalidLengthAreRejected(t *testing.T) {
	tests := map[string]struct {
		key   []byte
		value []byte
	}{
		"short key":   {key: []byte{1, 2, 3}, value: make([]byte, common.ValueSize)},
		"long key":    {key: make([]byte, common.KeySize+1), value: make([]byte, common.ValueSize)},
		"short value": {key: make([]byte, common.KeySize), value: []byte{1}},
		"empty value": {key: make([]byte, common.KeySize), value: []byte{}},
	}
	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			require := require.New(t)
			db, err := NewLevelDbInMemory()
			require.NoError(err)
			defer func() { require.NoError(db.Close()) }()

			require.NoError(db.put(test.key, test.value))
			err = db.ForEach(func(common.Key, common.Value) error {
				return nil
			})
			require.ErrorIs(err, ErrInvalidLength)

			if len(test.key) == common.KeySize {
				_, _, err = db.Get(common.Key(test.key))
				require.ErrorIs(err, ErrInvalidLength)
			}
		})
	}
}

func TestOpenLevelDb_FailsIfPathIsAFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "file")
	require.NoError(t, os.WriteFile(path, []byte("content"), 0600))
	_, err := OpenLevelDb(path)
	require.Error(t, err)
}

func TestMemory_CanBeUsedConcurrently(t *testing.T) {
	store := NewMemory()
	done := make(chan struct{})
	for i := range 8 {
		go func() {
			defer func() { done <- struct{}{} }()
			for j := range 100 {
				key := common.Key{byte(i), byte(j)}
				require.NoError(t, store.Set(key, common.Value{byte(j)}))
				_, found, err := store.Get(key)
				require.NoError(t, err)
				require.True(t, found)
			}
		}()
	}
	for range 8 {
		<-done
	}
	count := 0
	require.NoError(t, store.ForEach(func(common.Key, common.Value) error {
		count++
		return nil
	}))
	require.Equal(t, 800, count)
}
