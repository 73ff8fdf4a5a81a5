// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Command matrix shows the Matrix digital rain in a window or a terminal.
//
//	matrix                       run with the best available host
//	matrix --backend terminal    run in the terminal
//	matrix settings show         print the effective configuration
//	matrix snapshot --out a.png  render offscreen to a PNG file
//	matrix hosts                 list the hosts that can run here
//
// On Windows the screensaver arguments /s, /c and /p are understood.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/gogpu/matrix"
	"github.com/gogpu/matrix/config"
	"github.com/gogpu/matrix/internal/host"
)

func main() {
	args, exit := screensaverArgs(os.Args[1:])
	if exit {
		return
	}

	cmd := newRootCmd()
	cmd.SetArgs(args)
	if err := cmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// app holds the flags shared by the commands.
type app struct {
	configPath   string
	logLevel     string
	backend      string
	seed         uint64
	cpuThreshold float64
	level        slog.Level
	logOff       bool
}

func newRootCmd() *cobra.Command {
	a := &app{}
	root := &cobra.Command{
		Use:           "matrix",
		Short:         "Matrix digital rain",
		Long:          `Matrix digital rain screensaver for windows and terminals.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.NoArgs,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.setupLogging(cmd.ErrOrStderr())
		},
		RunE: a.run,
	}

	pf := root.PersistentFlags()
	pf.StringVar(&a.configPath, "config", "", "path to Config.toml (default: user config dir)")
	pf.StringVar(&a.logLevel, "log-level", "warn", "log level (debug, info, warn, error, off)")

	f := root.Flags()
	f.StringVar(&a.backend, "backend", "",
		"host to run on ("+strings.Join(host.List(), ", ")+"); empty selects automatically")
	f.Uint64Var(&a.seed, "seed", 0, "random seed for a reproducible rain")
	f.Float64Var(&a.cpuThreshold, "cpu-threshold", 0.9, "slow down while CPU usage exceeds this fraction (0 disables)")

	root.AddCommand(
		newSettingsCmd(a),
		newSnapshotCmd(a),
		newHostsCmd(),
		newVersionCmd(),
	)
	return root
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "matrix %s\n", matrix.Version)
		},
	}
}

func newHostsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "hosts",
		Short: "List the hosts and whether they can run here",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			for _, name := range host.List() {
				e, ok := host.Get(name)
				if !ok {
					continue
				}
				state := "unavailable"
				if e.Available() {
					state = "available"
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%-10s %4d  %s\n", e.Name, e.Priority, state)
			}
		},
	}
}

// path returns the configuration file in use.
func (a *app) path() (string, error) {
	if a.configPath != "" {
		return a.configPath, nil
	}
	return config.Path()
}
