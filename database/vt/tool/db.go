// Copyright (c) 2025 Sonic Operations Ltd
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at soniclabs.com/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

package main

import (
	"encoding/binary"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/0xsoniclabs/verkle/go/common"
	"github.com/0xsoniclabs/verkle/go/database/vt/store"
	"github.com/0xsoniclabs/verkle/go/database/vt/trie"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/log"
	"github.com/holiman/uint256"
	"github.com/pbnjay/memory"
	"github.com/urfave/cli/v2"
)

var parallelFlag = cli.BoolFlag{
	Name:  "parallel",
	Usage: "compute commitments in parallel",
	Value: true,
}

var SetCmd = cli.Command{
	Action:    setValue,
	Name:      "set",
	Usage:     "store a key/value pair in a database",
	ArgsUsage: "<db directory> <key> <value>",
	Description: "The key is a 0x-prefixed hex string of 32 bytes. The value is either a " +
		"0x-prefixed hex string of 32 bytes or a decimal integer, which is stored " +
		"in little-endian byte order.",
}

var seedFlag = cli.Uint64Flag{
	Name:  "seed",
	Usage: "seed of the generated keys and values",
}

var FillCmd = cli.Command{
	Action:    fillDb,
	Name:      "fill",
	Usage:     "store a number of pseudo-random key/value pairs in a database",
	ArgsUsage: "<db directory> <count>",
	Flags:     []cli.Flag{&seedFlag},
	Description: "The i-th key is the Keccak256 hash of the seed and i, both encoded as " +
		"8 byte big-endian integers. Its value is the Keccak256 hash of the key. " +
		"Filling a database twice with the same seed stores the same pairs.",
}

var RootCmd = cli.Command{
	Action:    printRoot,
	Name:      "root",
	Usage:     "load a database into a trie and print its root commitment",
	ArgsUsage: "<db directory>",
	Flags:     []cli.Flag{&parallelFlag},
}

var StatsCmd = cli.Command{
	Action:    printStats,
	Name:      "stats",
	Usage:     "print statistics on the trie of a database",
	ArgsUsage: "<db directory>",
	Flags:     []cli.Flag{&parallelFlag},
}

func setValue(context *cli.Context) (err error) {
	if context.Args().Len() != 3 {
		return fmt.Errorf("expected 3 arguments, got %d", context.Args().Len())
	}
	key, err := common.ParseKey(context.Args().Get(1))
	if err != nil {
		return fmt.Errorf("invalid key: %w", err)
	}
	value, err := parseValue(context.Args().Get(2))
	if err != nil {
		return fmt.Errorf("invalid value: %w", err)
	}

	db, err := store.OpenLevelDb(context.Args().Get(0))
	if err != nil {
		return err
	}
	defer func() { err = errors.Join(err, db.Close()) }()
	if err := db.Set(key, value); err != nil {
		return fmt.Errorf("failed to store value: %w", err)
	}
	log.Info("Stored value", "key", key, "value", value)
	return nil
}

func fillDb(context *cli.Context) (err error) {
	if context.Args().Len() != 2 {
		return fmt.Errorf("expected 2 arguments, got %d", context.Args().Len())
	}
	count, err := strconv.ParseUint(context.Args().Get(1), 10, 64)
	if err != nil {
		return fmt.Errorf("invalid count: %w", err)
	}

	db, err := store.OpenLevelDb(context.Args().Get(0))
	if err != nil {
		return err
	}
	defer func() { err = errors.Join(err, db.Close()) }()

	start := time.Now()
	seed := context.Uint64(seedFlag.Name)
	for i := range count {
		key, value := generatePair(seed, i)
		if err := db.Set(key, value); err != nil {
			return fmt.Errorf("failed to store value: %w", err)
		}
	}
	log.Info("Filled database", "pairs", count, "seed", seed, "duration", time.Since(start))
	return nil
}

// generatePair derives the i-th pseudo-random key/value pair of a seed.
func generatePair(seed, i uint64) (common.Key, common.Value) {
	var data [16]byte
	binary.BigEndian.PutUint64(data[:8], seed)
	binary.BigEndian.PutUint64(data[8:], i)
	key := common.Keccak256(data[:])
	value := common.Keccak256(key[:])
	return common.Key(key), common.Value(value)
}

// parseValue accepts 0x-prefixed hex strings of 32 bytes and decimal
// integers below 2^256.
func parseValue(s string) (common.Value, error) {
	if strings.HasPrefix(s, "0x") || strings.HasPrefix(s, "0X") {
		return common.ParseValue(s)
	}
	value, err := uint256.FromDecimal(s)
	if err != nil {
		return common.Value{}, err
	}
	return trie.ValueFromUint256(value), nil
}

// loadTrie builds the trie holding the content of the database in the given
// directory.
func loadTrie(context *cli.Context, dir string) (_ *trie.Trie, err error) {
	db, err := store.OpenLevelDb(dir)
	if err != nil {
		return nil, err
	}
	defer func() { err = errors.Join(err, db.Close()) }()

	start := time.Now()
	res := trie.NewTrie(trie.TrieConfig{ParallelCommit: context.Bool(parallelFlag.Name)})
	if err := res.LoadFrom(db); err != nil {
		return nil, err
	}
	log.Info("Loaded trie", "keys", res.Len(), "duration", time.Since(start))
	return res, nil
}

func printRoot(context *cli.Context) error {
	if context.Args().Len() != 1 {
		return fmt.Errorf("missing db directory parameter")
	}
	t, err := loadTrie(context, context.Args().Get(0))
	if err != nil {
		return err
	}
	root := t.Commitment().Compress()
	out := context.App.Writer
	fmt.Fprintf(out, "keys:       %d\n", t.Len())
	fmt.Fprintf(out, "commitment: %s\n", hexutil.Encode(root[:]))
	fmt.Fprintf(out, "field:      %s\n", t.RootField())
	return nil
}

func printStats(context *cli.Context) error {
	if context.Args().Len() != 1 {
		return fmt.Errorf("missing db directory parameter")
	}
	t, err := loadTrie(context, context.Args().Get(0))
	if err != nil {
		return err
	}
	stats := t.Stats()
	total := memory.TotalMemory()
	out := context.App.Writer
	fmt.Fprintf(out, "keys:          %d\n", t.Len())
	fmt.Fprintf(out, "inner nodes:   %d\n", stats.InnerNodes)
	fmt.Fprintf(out, "leaves:        %d\n", stats.Leaves)
	fmt.Fprintf(out, "max depth:     %d\n", stats.MaxDepth)
	for depth := 1; depth <= stats.MaxDepth; depth++ {
		if count := stats.LeavesPerDepth[depth]; count > 0 {
			fmt.Fprintf(out, "  depth %2d:    %d leaves\n", depth, count)
		}
	}
	fmt.Fprintf(out, "memory:        %d bytes", stats.MemoryFootprint)
	if total > 0 {
		fmt.Fprintf(out, " (%.4f%% of %d bytes system memory)", 100*float64(stats.MemoryFootprint)/float64(total), total)
	}
	fmt.Fprintln(out)
	return nil
}
