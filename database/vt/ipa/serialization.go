// Copyright (c) 2025 Sonic Operations Ltd
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at soniclabs.com/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

package ipa

import (
	"errors"
	"fmt"
	"io"

	"github.com/crate-crypto/go-ipa/bandersnatch/fr"
	"github.com/crate-crypto/go-ipa/banderwagon"
)

const (
	// ProofSize is the number of bytes of a serialized Proof.
	ProofSize = 2*NumRounds*banderwagon.CompressedSize + 32
	// MultiProofSize is the number of bytes of a serialized MultiProof.
	MultiProofSize = banderwagon.CompressedSize + ProofSize
)

// ErrTrailingData is returned if a serialized multiproof is followed by
// additional bytes.
var ErrTrailingData = errors.New("unexpected data after proof")

// Write serializes the proof as the compressed L points, followed by the
// compressed R points, followed by the little-endian encoding of A.
func (p *Proof) Write(w io.Writer) error {
	if len(p.L) != NumRounds || len(p.R) != NumRounds {
		return fmt.Errorf("%w: got %d L and %d R points", ErrInvalidProofShape, len(p.L), len(p.R))
	}
	for i, point := range p.L {
		if err := writePoint(w, point); err != nil {
			return fmt.Errorf("failed to write L[%d]: %w", i, err)
		}
	}
	for i, point := range p.R {
		if err := writePoint(w, point); err != nil {
			return fmt.Errorf("failed to write R[%d]: %w", i, err)
		}
	}
	scalar := p.A.BytesLE()
	if _, err := w.Write(scalar[:]); err != nil {
		return fmt.Errorf("failed to write A: %w", err)
	}
	return nil
}

// Read deserializes a proof written by Write. Points must be valid group
// elements and the scalar must be canonical.
func (p *Proof) Read(r io.Reader) error {
	res := Proof{
		L: make([]banderwagon.Element, NumRounds),
		R: make([]banderwagon.Element, NumRounds),
	}
	for i := range res.L {
		point, err := readPoint(r)
		if err != nil {
			return fmt.Errorf("failed to read L[%d]: %w", i, err)
		}
		res.L[i] = point
	}
	for i := range res.R {
		point, err := readPoint(r)
		if err != nil {
			return fmt.Errorf("failed to read R[%d]: %w", i, err)
		}
		res.R[i] = point
	}
	scalar, err := readScalar(r)
	if err != nil {
		return fmt.Errorf("failed to read A: %w", err)
	}
	res.A = scalar
	*p = res
	return nil
}

// Write serializes the multiproof as the compressed point D followed by the
// serialized inner product argument.
func (p *MultiProof) Write(w io.Writer) error {
	if err := writePoint(w, p.D); err != nil {
		return fmt.Errorf("failed to write D: %w", err)
	}
	if err := p.IPA.Write(w); err != nil {
		return fmt.Errorf("failed to write inner product argument: %w", err)
	}
	return nil
}

// Read deserializes a multiproof written by Write. The reader must be
// exhausted after the proof.
func (p *MultiProof) Read(r io.Reader) error {
	d, err := readPoint(r)
	if err != nil {
		return fmt.Errorf("failed to read D: %w", err)
	}
	var proof Proof
	if err := proof.Read(r); err != nil {
		return fmt.Errorf("failed to read inner product argument: %w", err)
	}
	var buffer [1]byte
	for {
		n, err := r.Read(buffer[:])
		if n != 0 {
			return ErrTrailingData
		}
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return fmt.Errorf("failed to check for trailing data: %w", err)
		}
	}
	p.D = d
	p.IPA = proof
	return nil
}

func writePoint(w io.Writer, point banderwagon.Element) error {
	bytes := point.Bytes()
	_, err := w.Write(bytes[:])
	return err
}

func readPoint(r io.Reader) (banderwagon.Element, error) {
	var buffer [banderwagon.CompressedSize]byte
	if _, err := io.ReadFull(r, buffer[:]); err != nil {
		return banderwagon.Element{}, err
	}
	var res banderwagon.Element
	if err := res.SetBytes(buffer[:]); err != nil {
		return banderwagon.Element{}, err
	}
	return res, nil
}

func readScalar(r io.Reader) (fr.Element, error) {
	var buffer [32]byte
	if _, err := io.ReadFull(r, buffer[:]); err != nil {
		return fr.Element{}, err
	}
	var res fr.Element
	if _, err := res.SetBytesLECanonical(buffer[:]); err != nil {
		return fr.Element{}, err
	}
	return res, nil
}
