// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/gogpu/matrix"
	"github.com/gogpu/matrix/config"
	"github.com/gogpu/matrix/internal/cpuload"
	"github.com/gogpu/matrix/internal/host"
)

// throttleFactor stretches the frame interval while the CPU is busy.
const throttleFactor = 2

func (a *app) run(cmd *cobra.Command, _ []string) error {
	path, err := a.path()
	if err != nil {
		return err
	}
	cfg, err := config.LoadWithEnv(path)
	if err != nil {
		// The rain still starts, with the defaults.
		matrix.Logger().Warn("config unusable, using defaults", "path", path, "err", err)
		cfg = config.Default()
	}

	reload := make(chan config.Config, 1)
	opts := host.Options{
		Config: cfg,
		Reload: reload,
		Engine: a.engineOptions(cmd),
	}

	var (
		h    host.Host
		name = a.backend
	)
	if name == "" {
		h, name, err = host.New(opts)
	} else {
		h, err = host.NewByName(name, opts)
	}
	if err != nil {
		var (
			notFound    *host.NotFoundError
			unavailable *host.UnavailableError
		)
		if errors.As(err, &notFound) || errors.As(err, &unavailable) {
			return fmt.Errorf("%w (available: %s)", err, strings.Join(host.Available(), ", "))
		}
		return err
	}
	if name == "terminal" {
		closeLog, err := a.logToFile(path)
		if err != nil {
			return err
		}
		defer closeLog()
	}
	matrix.Logger().Info("starting", "host", name, "config", path)

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	watchCtx, stopWatch := context.WithCancel(ctx)
	g, watchCtx := errgroup.WithContext(watchCtx)
	g.Go(func() error {
		err := config.Watch(watchCtx, path, func(c config.Config, err error) {
			if err != nil {
				matrix.Logger().Warn("config reload failed, keeping current settings", "err", err)
				return
			}
			offer(reload, c)
		})
		if err != nil && !errors.Is(err, context.Canceled) {
			matrix.Logger().Warn("hot reload disabled", "err", err)
		}
		return nil
	})

	// The host runs on the calling goroutine: window systems want the
	// main thread.
	runErr := h.Run(ctx)
	stopWatch()
	_ = g.Wait()
	return runErr
}

// offer hands c to the host, replacing a configuration it has not picked
// up yet.
func offer(ch chan config.Config, c config.Config) {
	for {
		select {
		case ch <- c:
			return
		default:
		}
		select {
		case <-ch:
		default:
		}
	}
}

func (a *app) engineOptions(cmd *cobra.Command) []matrix.Option {
	var opts []matrix.Option
	if cmd.Flags().Changed("seed") {
		opts = append(opts, matrix.WithSeed(a.seed))
	}
	if a.cpuThreshold > 0 {
		opts = append(opts, matrix.WithThrottle(cpuload.New(), a.cpuThreshold, throttleFactor))
	}
	return opts
}
