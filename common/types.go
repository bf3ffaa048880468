// Copyright (c) 2025 Sonic Operations Ltd
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at soniclabs.com/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

package common

import (
	"fmt"

	"github.com/ethereum/go-ethereum/common/hexutil"
)

// KeySize is the size of keys stored in a verkle trie.
const KeySize = 32

// ValueSize is the size of values stored in a verkle trie.
const ValueSize = 32

// Key is a fixed-size byte array used to address values in the trie.
type Key [KeySize]byte

// Value is a fixed-size byte array used to represent data stored in the trie.
type Value [ValueSize]byte

func (k Key) String() string {
	return hexutil.Encode(k[:])
}

func (v Value) String() string {
	return hexutil.Encode(v[:])
}

// ParseKey decodes a 0x-prefixed hex string of exactly KeySize bytes.
func ParseKey(s string) (Key, error) {
	var res Key
	return res, parseFixed(s, res[:])
}

// ParseValue decodes a 0x-prefixed hex string of exactly ValueSize bytes.
func ParseValue(s string) (Value, error) {
	var res Value
	return res, parseFixed(s, res[:])
}

func parseFixed(s string, out []byte) error {
	data, err := hexutil.Decode(s)
	if err != nil {
		return err
	}
	if len(data) != len(out) {
		return fmt.Errorf("invalid length %d, expected %d bytes", len(data), len(out))
	}
	copy(out, data)
	return nil
}
