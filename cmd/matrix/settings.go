// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package main

import (
	"fmt"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/spf13/cobra"

	"github.com/gogpu/matrix/config"
)

func newSettingsCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "settings",
		Short: "Show or change the configuration",
	}
	cmd.AddCommand(
		&cobra.Command{
			Use:   "show",
			Short: "Print the effective configuration",
			Args:  cobra.NoArgs,
			RunE:  a.settingsShow,
		},
		&cobra.Command{
			Use:   "path",
			Short: "Print the configuration file path",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				path, err := a.path()
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), path)
				return nil
			},
		},
		&cobra.Command{
			Use:       "set KEY VALUE",
			Short:     "Change one key and save",
			Long:      "Change one key and save.\n\nKeys: " + strings.Join(config.Keys(), ", "),
			Args:      cobra.ExactArgs(2),
			ValidArgs: config.Keys(),
			RunE:      a.settingsSet,
		},
		&cobra.Command{
			Use:   "reset",
			Short: "Restore the default configuration",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				path, err := a.path()
				if err != nil {
					return err
				}
				if err := config.Default().Save(path); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "reset %s\n", path)
				return nil
			},
		},
		&cobra.Command{
			Use:   "presets [NAME]",
			Short: "List the character presets, or apply one",
			Args:  cobra.MaximumNArgs(1),
			RunE:  a.settingsPresets,
		},
	)
	return cmd
}

func (a *app) settingsShow(cmd *cobra.Command, _ []string) error {
	path, err := a.path()
	if err != nil {
		return err
	}
	cfg, err := config.LoadWithEnv(path)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "# %s\n", path)
	return toml.NewEncoder(cmd.OutOrStdout()).Encode(cfg)
}

// loadFile reads the file alone, without the environment overlay, so that
// saving does not persist MATRIX_* variables.
func (a *app) loadFile() (config.Config, string, error) {
	path, err := a.path()
	if err != nil {
		return config.Config{}, "", err
	}
	cfg, err := config.Load(path)
	return cfg, path, err
}

func (a *app) settingsSet(cmd *cobra.Command, args []string) error {
	cfg, path, err := a.loadFile()
	if err != nil {
		return err
	}
	key, value := args[0], args[1]
	if err := cfg.Set(key, value); err != nil {
		return err
	}
	cfg.Normalize()
	if err := cfg.Save(path); err != nil {
		return err
	}
	got, _ := cfg.Get(key)
	fmt.Fprintf(cmd.OutOrStdout(), "%s = %s\n", key, got)
	return nil
}

func (a *app) settingsPresets(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	if len(args) == 0 {
		for _, p := range config.Presets() {
			fmt.Fprintf(out, "%-10s %-8s %s\n", p.Name, p.Font, p.Characters)
		}
		return nil
	}

	cfg, path, err := a.loadFile()
	if err != nil {
		return err
	}
	if err := cfg.ApplyPreset(args[0]); err != nil {
		return err
	}
	cfg.Normalize()
	if err := cfg.Save(path); err != nil {
		return err
	}
	fmt.Fprintf(out, "characters = %s\nfont = %s\n", cfg.Characters, cfg.Font)
	return nil
}
