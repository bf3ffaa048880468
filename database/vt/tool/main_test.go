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
	"bytes"
	"path/filepath"
	"strings"
	"testing"

	"github.com/0xsoniclabs/verkle/go/common"
	"github.com/0xsoniclabs/verkle/go/database/vt/trie"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/holiman/uint256"
	"github.com/stretchr/testify/require"
)

// run executes the tool with the given arguments and returns its output.
func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	app := newApp()
	var out bytes.Buffer
	app.Writer = &out
	app.ErrWriter = &out
	err := app.Run(append([]string{"vt", "--verbosity", "0"}, args...))
	return out.String(), err
}

func TestAllCommands_HelpCanBePrinted(t *testing.T) {
	for _, cmd := range commands {
		t.Run(cmd.Name, func(t *testing.T) {
			out, err := run(t, cmd.Name, "--help")
			require.NoError(t, err)
			require.Contains(t, out, cmd.Name)
		})
	}
}

func TestCrs_PrintsReferenceValues(t *testing.T) {
	out, err := run(t, "crs")
	require.NoError(t, err)
	require.Contains(t, out, "0x01587ad1336675eb912550ec2a28eb8923b824b490dd2ba82e48f14590a298a0")
	require.Contains(t, out, "0x3de2be346b539395b0c0de56a5ccca54a317f1b5c80107b0802af9a62276a4d8")
	require.Contains(t, out, "0x1fcaea10bf24f750200e06fa473c76ff0468007291fa548e2d99f09ba9256fdb")
}

func TestRoot_PrintsCommitmentOfStoredPairs(t *testing.T) {
	require := require.New(t)
	dir := filepath.Join(t.TempDir(), "db")

	key1 := common.Key{1}
	key2 := common.Key{1, 2}
	_, err := run(t, "set", dir, key1.String(), "0x"+strings.Repeat("ab", 32))
	require.NoError(err)
	_, err = run(t, "set", dir, key2.String(), "12345")
	require.NoError(err)

	want := trie.NewTrie(trie.TrieConfig{})
	value1, err := common.ParseValue("0x" + strings.Repeat("ab", 32))
	require.NoError(err)
	want.InsertNoCommit(key1, value1)
	want.InsertNoCommit(key2, trie.ValueFromUint256(uint256.NewInt(12345)))
	root := want.Commitment().Compress()

	for _, parallel := range []string{"--parallel=true", "--parallel=false"} {
		out, err := run(t, "root", parallel, dir)
		require.NoError(err)
		require.Contains(out, hexutil.Encode(root[:]))
		require.Contains(out, want.RootField().String())
		require.Contains(out, "keys:       2")
	}
}

func TestRoot_OfEmptyDatabaseIsZero(t *testing.T) {
	out, err := run(t, "root", filepath.Join(t.TempDir(), "db"))
	require.NoError(t, err)
	require.Contains(t, out, hexutil.Encode(make([]byte, 32)))
}

func TestSet_RejectsInvalidInput(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "db")
	key := common.Key{1}.String()
	tests := map[string][]string{
		"missing value":   {dir, key},
		"short key":       {dir, "0x01", "1"},
		"non-hex key":     {dir, "key", "1"},
		"short hex value": {dir, key, "0x01"},
		"negative value":  {dir, key, "-1"},
		"value too large": {dir, key, "1" + strings.Repeat("0", 80)},
	}
	for name, args := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := run(t, append([]string{"set"}, args...)...)
			require.Error(t, err)
		})
	}
}

func TestProveAndVerify_RoundTrip(t *testing.T) {
	require := require.New(t)
	dir := filepath.Join(t.TempDir(), "db")
	proofFile := filepath.Join(t.TempDir(), "proof")

	keys := []common.Key{{}, {30: 1}, {7}}
	for i, key := range keys {
		_, err := run(t, "set", dir, key.String(), uint256.NewInt(uint64(i+1)).Dec())
		require.NoError(err)
	}

	_, err := run(t, "prove", dir, proofFile, keys[0].String(), keys[1].String())
	require.NoError(err)
	require.FileExists(proofFile)

	out, err := run(t, "verify", dir, proofFile, keys[0].String(), keys[1].String())
	require.NoError(err)
	require.Contains(out, "proof valid")

	// The proof does not cover other keys.
	_, err = run(t, "verify", dir, proofFile, keys[2].String())
	require.Error(err)

	// Changing the content invalidates the proof.
	_, err = run(t, "set", dir, keys[2].String(), "99")
	require.NoError(err)
	_, err = run(t, "verify", dir, proofFile, keys[0].String(), keys[1].String())
	require.ErrorIs(err, ErrProofRejected)
}

func TestProve_FailsForMissingKeys(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "db")
	_, err := run(t, "set", dir, common.Key{1}.String(), "1")
	require.NoError(t, err)

	proofFile := filepath.Join(t.TempDir(), "proof")
	_, err = run(t, "prove", dir, proofFile, common.Key{2}.String())
	require.ErrorIs(t, err, trie.ErrKeyNotFound)
	_, err = run(t, "verify", dir, proofFile, common.Key{2}.String())
	require.ErrorIs(t, err, trie.ErrKeyNotFound)
	_, err = run(t, "prove", dir, proofFile)
	require.Error(t, err)
}

func TestStats_PrintsTrieShape(t *testing.T) {
	require := require.New(t)
	dir := filepath.Join(t.TempDir(), "db")
	for _, key := range []common.Key{{}, {30: 1}} {
		_, err := run(t, "set", dir, key.String(), "1")
		require.NoError(err)
	}
	out, err := run(t, "stats", dir)
	require.NoError(err)
	require.Contains(out, "inner nodes:   31")
	require.Contains(out, "leaves:        2")
	require.Contains(out, "max depth:     31")
	require.Contains(out, "system memory")
}

func TestVerbosity_OutOfRangeIsRejected(t *testing.T) {
	app := newApp()
	app.Writer = &bytes.Buffer{}
	err := app.Run([]string{"vt", "--verbosity", "9", "crs"})
	require.Error(t, err)
}

func TestParseValue_AcceptsHexAndDecimal(t *testing.T) {
	oneHex := "0x" + strings.Repeat("00", 31) + "01"
	tests := map[string]common.Value{
		"0":    {},
		"1":    {1},
		"256":  {0, 1},
		oneHex: {31: 1},
	}
	for input, want := range tests {
		t.Run(input, func(t *testing.T) {
			got, err := parseValue(input)
			require.NoError(t, err)
			require.Equal(t, want, got)
		})
	}
}

func TestFill_StoresPseudoRandomPairs(t *testing.T) {
	require := require.New(t)
	dir := filepath.Join(t.TempDir(), "db")

	_, err := run(t, "fill", "--seed", "7", dir, "10")
	require.NoError(err)

	want := trie.NewTrie(trie.TrieConfig{})
	for i := range uint64(10) {
		key, value := generatePair(7, i)
		want.InsertNoCommit(key, value)
	}
	root := want.Commitment().Compress()

	out, err := run(t, "root", dir)
	require.NoError(err)
	require.Contains(out, "keys:       10")
	require.Contains(out, hexutil.Encode(root[:]))

	// The same seed reproduces the same pairs, a different seed adds new ones.
	_, err = run(t, "fill", "--seed", "7", dir, "10")
	require.NoError(err)
	out, err = run(t, "root", dir)
	require.NoError(err)
	require.Contains(out, "keys:       10")

	_, err = run(t, "fill", "--seed", "8", dir, "5")
	require.NoError(err)
	out, err = run(t, "root", dir)
	require.NoError(err)
	require.Contains(out, "keys:       15")
}

func TestFill_PairsAreDerivedFromKeccak256(t *testing.T) {
	require := require.New(t)
	key, value := generatePair(1, 2)
	want := common.Keccak256([]byte{7: 1, 15: 2})
	require.Equal(common.Key(want), key)
	require.Equal(common.Value(common.Keccak256(key[:])), value)

	other, _ := generatePair(2, 1)
	require.NotEqual(key, other)
}

func TestFill_RejectsInvalidInput(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "db")
	tests := map[string][]string{
		"missing count":  {dir},
		"negative count": {dir, "-1"},
		"non-numeric":    {dir, "ten"},
	}
	for name, args := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := run(t, append([]string{"fill"}, args...)...)
			require.Error(t, err)
		})
	}
}
