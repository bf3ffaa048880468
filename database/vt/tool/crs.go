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
	"fmt"

	"github.com/0xsoniclabs/verkle/go/database/vt/commit"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/urfave/cli/v2"
)

var CrsCmd = cli.Command{
	Action: printCrs,
	Name:   "crs",
	Usage:  "print the first and last basis point and the digest of the CRS",
}

func printCrs(context *cli.Context) error {
	crs := commit.GetCRS()
	first := crs.BasisPoint(0).Bytes()
	last := crs.BasisPoint(commit.VectorSize - 1).Bytes()
	digest := crs.Digest()
	out := context.App.Writer
	fmt.Fprintf(out, "first:  %s\n", hexutil.Encode(first[:]))
	fmt.Fprintf(out, "last:   %s\n", hexutil.Encode(last[:]))
	fmt.Fprintf(out, "digest: %s\n", hexutil.Encode(digest[:]))
	return nil
}
