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
	"bufio"
	"errors"
	"fmt"
	"os"

	"github.com/0xsoniclabs/verkle/go/common"
	"github.com/0xsoniclabs/verkle/go/database/vt/store"
	"github.com/0xsoniclabs/verkle/go/database/vt/trie"
	"github.com/ethereum/go-ethereum/log"
	"github.com/urfave/cli/v2"
)

// ErrProofRejected is returned by the verify command if the proof does not
// hold for the database content.
var ErrProofRejected = errors.New("proof rejected")

var ProveCmd = cli.Command{
	Action:    prove,
	Name:      "prove",
	Usage:     "create a membership proof for keys stored in a database",
	ArgsUsage: "<db directory> <proof file> <key>...",
	Flags:     []cli.Flag{&parallelFlag},
}

var VerifyCmd = cli.Command{
	Action:    verify,
	Name:      "verify",
	Usage:     "check a membership proof against the content of a database",
	ArgsUsage: "<db directory> <proof file> <key>...",
	Flags:     []cli.Flag{&parallelFlag},
}

func parseKeys(args []string) ([]common.Key, error) {
	if len(args) == 0 {
		return nil, fmt.Errorf("no keys given")
	}
	keys := make([]common.Key, len(args))
	for i, arg := range args {
		key, err := common.ParseKey(arg)
		if err != nil {
			return nil, fmt.Errorf("invalid key %q: %w", arg, err)
		}
		keys[i] = key
	}
	return keys, nil
}

func prove(context *cli.Context) (err error) {
	args := context.Args().Slice()
	if len(args) < 3 {
		return fmt.Errorf("expected db directory, proof file and at least one key")
	}
	keys, err := parseKeys(args[2:])
	if err != nil {
		return err
	}
	t, err := loadTrie(context, args[0])
	if err != nil {
		return err
	}
	proof, err := t.Prove(keys)
	if err != nil {
		return err
	}

	file, err := os.Create(args[1])
	if err != nil {
		return fmt.Errorf("failed to create proof file: %w", err)
	}
	defer func() { err = errors.Join(err, file.Close()) }()
	writer := bufio.NewWriter(file)
	if err := proof.Write(writer); err != nil {
		return fmt.Errorf("failed to write proof: %w", err)
	}
	if err := writer.Flush(); err != nil {
		return fmt.Errorf("failed to write proof: %w", err)
	}
	log.Info("Created proof", "keys", len(keys), "file", args[1])
	return nil
}

func verify(context *cli.Context) (err error) {
	args := context.Args().Slice()
	if len(args) < 3 {
		return fmt.Errorf("expected db directory, proof file and at least one key")
	}
	keys, err := parseKeys(args[2:])
	if err != nil {
		return err
	}
	values, err := lookupValues(args[0], keys)
	if err != nil {
		return err
	}
	t, err := loadTrie(context, args[0])
	if err != nil {
		return err
	}

	file, err := os.Open(args[1])
	if err != nil {
		return fmt.Errorf("failed to open proof file: %w", err)
	}
	defer func() { err = errors.Join(err, file.Close()) }()
	var proof trie.Proof
	if err := proof.Read(bufio.NewReader(file)); err != nil {
		return fmt.Errorf("failed to read proof: %w", err)
	}

	ok, err := trie.VerifyProof(t.Commitment(), &proof, keys, values)
	if err != nil {
		return err
	}
	if !ok {
		return ErrProofRejected
	}
	fmt.Fprintln(context.App.Writer, "proof valid")
	return nil
}

// lookupValues fetches the values of the given keys from the database.
func lookupValues(dir string, keys []common.Key) (_ []common.Value, err error) {
	db, err := store.OpenLevelDb(dir)
	if err != nil {
		return nil, err
	}
	defer func() { err = errors.Join(err, db.Close()) }()
	values := make([]common.Value, len(keys))
	for i, key := range keys {
		value, found, err := db.Get(key)
		if err != nil {
			return nil, err
		}
		if !found {
			return nil, fmt.Errorf("%w: %v", trie.ErrKeyNotFound, key)
		}
		values[i] = value
	}
	return values, nil
}
