// Copyright (c) 2025 Sonic Operations Ltd
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at soniclabs.com/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

package commit

import (
	"fmt"
	"testing"

	"github.com/ethereum/go-ethereum/common/hexutil"
)

// To run the benchmarks in this package use:
//
//  go test ./database/vt/commit -run='^$' -bench=.
//
// To get aggregated statistics, install benchstat using
//
//  go install golang.org/x/perf/cmd/benchstat@latest
//
// and then run
//
//  go test ./database/vt/commit -run='^$' -bench=. -count 10 > bench.txt
//
// and finally
//
//  benchstat bench.txt

var benchmarkValue = NewValueFromLittleEndianBytes(
	hexutil.MustDecode("0x46123387734d09ce6f083425adf3b9d8bf70359cdae94686794a4a23ac478000"),
)

func Benchmark_CommitSingleValue(b *testing.B) {
	GetCRS()
	for _, i := range []int{0, 4, 32, 64, 255} {
		b.Run(fmt.Sprintf("index=%d", i), func(b *testing.B) {
			values := [VectorSize]Value{}
			values[i] = benchmarkValue
			for b.Loop() {
				Commit(values)
			}
		})
	}
}

func Benchmark_CommitMultipleValues(b *testing.B) {
	GetCRS()
	for _, i := range []int{5, 64, 256} {
		b.Run(fmt.Sprintf("values=%d", i), func(b *testing.B) {
			values := [VectorSize]Value{}
			for j := range i {
				values[j] = benchmarkValue
			}
			for b.Loop() {
				Commit(values)
			}
		})
	}
}

func Benchmark_UpdateSingleValue(b *testing.B) {
	values := [VectorSize]Value{}
	for i := range values {
		values[i] = benchmarkValue
	}
	commitment := Commit(values)
	for _, i := range []byte{0, 4, 255} {
		b.Run(fmt.Sprintf("index=%d", i), func(b *testing.B) {
			for b.Loop() {
				commitment.Update(i, benchmarkValue, NewValue(1))
			}
		})
	}
}

func Benchmark_CommitAdd(b *testing.B) {
	values := [VectorSize]Value{}
	for i := range values {
		values[i] = benchmarkValue
	}
	c1 := Commit(values)
	for i := range values {
		values[i] = c1.ToValue()
	}
	c2 := Commit(values)

	for b.Loop() {
		c1.Add(c2)
	}
}

func Benchmark_ToValue(b *testing.B) {
	commitment := Commit([VectorSize]Value{benchmarkValue})
	for b.Loop() {
		commitment.ToValue()
	}
}
