// Copyright (c) 2025 Sonic Operations Ltd
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at soniclabs.com/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

// Package transcript implements the Fiat-Shamir transcript used to derive all
// verifier challenges of the commitment opening protocols.
//
// A transcript accumulates labelled protocol messages in a SHA-256 state.
// Challenges are squeezed out of the current digest and immediately absorbed
// again, such that every challenge summarizes everything seen before it.
// Prover and verifier must issue the exact same sequence of calls with the
// same labels; any divergence breaks soundness.
//
// A Transcript is not safe for concurrent use. Each proof being created or
// verified needs its own instance.
package transcript

import (
	"crypto/sha256"
	"errors"
	"hash"
	"math/big"

	"github.com/crate-crypto/go-ipa/bandersnatch/fr"
	"github.com/crate-crypto/go-ipa/banderwagon"
)

// ErrNotAScalar is returned when a value that is not a scalar is appended.
var ErrNotAScalar = errors.New("transcript: value is not a scalar")

// Transcript is a Fiat-Shamir challenge accumulator.
type Transcript struct {
	state hash.Hash
}

// New creates a transcript for the protocol identified by the given label.
func New(label string) *Transcript {
	t := &Transcript{state: sha256.New()}
	t.state.Write([]byte(label))
	return t
}

// AppendScalar absorbs the label followed by the 32-byte little-endian
// encoding of the scalar.
func (t *Transcript) AppendScalar(scalar fr.Element, label []byte) {
	bytes := scalar.BytesLE()
	t.appendMessage(bytes[:], label)
}

// AppendBigInt absorbs an arbitrary integer as a scalar. The integer is
// reduced modulo the scalar field order first, so equal residues produce the
// same transcript state regardless of their representation.
func (t *Transcript) AppendBigInt(scalar *big.Int, label []byte) error {
	if scalar == nil {
		return ErrNotAScalar
	}
	reduced := new(big.Int).Mod(scalar, fr.Modulus())
	var element fr.Element
	element.SetBigInt(reduced)
	t.AppendScalar(element, label)
	return nil
}

// AppendPoint absorbs the label followed by the compressed encoding of the
// point.
func (t *Transcript) AppendPoint(point banderwagon.Element, label []byte) {
	bytes := point.Bytes()
	t.appendMessage(bytes[:], label)
}

// DomainSep absorbs a label on its own. It separates sub-protocols and marks
// the transition between absorbing and squeezing.
func (t *Transcript) DomainSep(label []byte) {
	t.state.Write(label)
}

// ChallengeScalar derives a challenge from everything absorbed so far. The
// accumulator is reset afterwards and the challenge is absorbed under the same
// label, so consecutive calls never produce the same value.
func (t *Transcript) ChallengeScalar(label []byte) fr.Element {
	t.DomainSep(label)

	digest := t.state.Sum(nil)
	var challenge fr.Element
	challenge.SetBytesLE(digest) // < reduces modulo the field order

	t.state.Reset()
	t.AppendScalar(challenge, label)
	return challenge
}

func (t *Transcript) appendMessage(message []byte, label []byte) {
	t.state.Write(label)
	t.state.Write(message)
}
