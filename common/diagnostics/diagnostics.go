// Copyright (c) 2025 Sonic Operations Ltd
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at soniclabs.com/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

// Package diagnostics provides command line flags enabling performance
// diagnostics for tools: a pprof server, CPU profiling and execution traces.
package diagnostics

import (
	"errors"
	"fmt"
	"net/http"
	_ "net/http/pprof"
	"os"
	"runtime"
	"runtime/pprof"
	"runtime/trace"
	"strings"

	"github.com/ethereum/go-ethereum/log"
	"github.com/urfave/cli/v2"
)

var (
	PortFlag = cli.IntFlag{
		Name:  "diagnostic-port",
		Usage: "enable hosting of a realtime diagnostic server by providing a port",
	}
	CpuProfileFlag = cli.StringFlag{
		Name:  "cpuprofile",
		Usage: "sets the target file for storing CPU profiles to, disabled if empty",
	}
	TraceFlag = cli.StringFlag{
		Name:  "tracefile",
		Usage: "sets the target file for traces to, disabled if empty",
	}
)

// Flags returns the flags consumed by Wrap.
func Flags() []cli.Flag {
	return []cli.Flag{&PortFlag, &CpuProfileFlag, &TraceFlag}
}

// Wrap returns an action enabling the diagnostics requested through the
// flags listed by Flags before running the given action. Profiles and traces
// are completed once the action returns.
func Wrap(action cli.ActionFunc) cli.ActionFunc {
	return func(context *cli.Context) (err error) {
		startDiagnosticServer(context.Int(PortFlag.Name))

		if file := strings.TrimSpace(context.String(CpuProfileFlag.Name)); file != "" {
			stop, startErr := startCpuProfiler(file)
			if startErr != nil {
				return startErr
			}
			defer func() { err = errors.Join(err, stop()) }()
		}

		if file := strings.TrimSpace(context.String(TraceFlag.Name)); file != "" {
			stop, startErr := startTracer(file)
			if startErr != nil {
				return startErr
			}
			defer func() { err = errors.Join(err, stop()) }()
		}

		return action(context)
	}
}

func startDiagnosticServer(port int) {
	if port <= 0 || port >= (1<<16) {
		return
	}
	addr := fmt.Sprintf("localhost:%d", port)
	log.Info("Starting diagnostic server", "url", "http://"+addr+"/debug/pprof/")
	log.Warn("Block and mutex sampling enabled for diagnostics, performance may be impacted")
	go func() {
		if err := http.ListenAndServe(addr, nil); err != nil {
			log.Error("Diagnostic server stopped", "err", err)
		}
	}()
	runtime.SetBlockProfileRate(1)
	runtime.SetMutexProfileFraction(1)
}

// startCpuProfiler starts recording a CPU profile into the given file. The
// returned function ends the recording and closes the file.
func startCpuProfiler(filename string) (func() error, error) {
	file, err := os.Create(filename)
	if err != nil {
		return nil, fmt.Errorf("could not create CPU profile: %w", err)
	}
	if err := pprof.StartCPUProfile(file); err != nil {
		return nil, errors.Join(fmt.Errorf("could not start CPU profile: %w", err), file.Close())
	}
	return func() error {
		pprof.StopCPUProfile()
		return file.Close()
	}, nil
}

// startTracer starts recording an execution trace into the given file. The
// returned function ends the recording and closes the file.
func startTracer(filename string) (func() error, error) {
	file, err := os.Create(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to create trace file: %w", err)
	}
	if err := trace.Start(file); err != nil {
		return nil, errors.Join(fmt.Errorf("failed to start trace: %w", err), file.Close())
	}
	return func() error {
		trace.Stop()
		return file.Close()
	}, nil
}
