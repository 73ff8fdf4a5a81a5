// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/gogpu/matrix"
	"github.com/gogpu/matrix/config"
	"github.com/gogpu/matrix/internal/host"
)

func newSnapshotCmd(a *app) *cobra.Command {
	var (
		opts host.Options
		seed uint64
	)
	cmd := &cobra.Command{
		Use:   "snapshot",
		Short: "Render the rain offscreen and save it as PNG",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			path, err := a.path()
			if err != nil {
				return err
			}
			if opts.Config, err = config.LoadWithEnv(path); err != nil {
				return err
			}
			if cmd.Flags().Changed("seed") {
				opts.Engine = []matrix.Option{matrix.WithSeed(seed)}
			}

			h, err := host.NewByName("png", opts)
			if err != nil {
				return err
			}
			if err := h.Run(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", opts.Out)
			return nil
		},
	}

	f := cmd.Flags()
	f.IntVar(&opts.Frames, "frames", 60, "number of ticks to simulate")
	f.IntVar(&opts.Width, "width", 0, "image width (default: window_width)")
	f.IntVar(&opts.Height, "height", 0, "image height (default: window_height)")
	f.StringVarP(&opts.Out, "out", "o", "matrix.png", "output file")
	f.Uint64Var(&seed, "seed", 0, "random seed")
	return cmd
}
