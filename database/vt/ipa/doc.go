// Copyright (c) 2025 Sonic Operations Ltd
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at soniclabs.com/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

// Package ipa implements opening proofs for Pedersen vector commitments.
//
// A single opening is proven by an inner product argument (IPA): the prover
// shows that ⟨a, b⟩ = y, where a is the committed polynomial in evaluation form
// and b is the evaluation vector of the opened point. The argument takes
// eight halving rounds and results in 16 group elements and one scalar.
//
// Multiple openings of possibly different polynomials at domain elements are
// batched by a multiproof into a single IPA on a random linear combination of
// the openings.
//
// The wire format and the Fiat-Shamir transcript are compatible with those of
// Ethereum verkle clients.
package ipa
