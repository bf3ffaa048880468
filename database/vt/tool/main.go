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
	"os"

	"github.com/0xsoniclabs/verkle/go/common/diagnostics"
	"github.com/ethereum/go-ethereum/log"
	"github.com/urfave/cli/v2"
)

// Run using
//  go run ./database/vt/tool <command> <flags>

var verbosityFlag = cli.IntFlag{
	Name:  "verbosity",
	Usage: "log level: 0=silent, 1=error, 2=warn, 3=info, 4=debug, 5=trace",
	Value: 3,
}

var commands = []*cli.Command{
	&CrsCmd,
	&SetCmd,
	&FillCmd,
	&RootCmd,
	&ProveCmd,
	&VerifyCmd,
	&StatsCmd,
}

func newApp() *cli.App {
	app := &cli.App{
		Name:      "vt",
		Usage:     "Verkle trie toolbox",
		Copyright: "(c) 2025 Sonic Operations Ltd",
		Flags:     append([]cli.Flag{&verbosityFlag}, diagnostics.Flags()...),
		Before:    setupLogging,
	}
	for _, cmd := range commands {
		wrapped := *cmd
		wrapped.Action = diagnostics.Wrap(cmd.Action)
		app.Commands = append(app.Commands, &wrapped)
	}
	return app
}

func setupLogging(context *cli.Context) error {
	verbosity := context.Int(verbosityFlag.Name)
	if verbosity < 0 || verbosity > 5 {
		return fmt.Errorf("invalid verbosity %d, must be in [0,5]", verbosity)
	}
	handler := log.DiscardHandler()
	if verbosity > 0 {
		handler = log.NewTerminalHandlerWithLevel(os.Stderr, log.FromLegacyLevel(verbosity), true)
	}
	log.SetDefault(log.NewLogger(handler))
	return nil
}

func main() {
	if err := newApp().Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
