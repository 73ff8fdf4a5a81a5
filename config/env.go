// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// ApplyEnv overrides the fields of c whose MATRIX_<KEY> variable is set.
// Unset variables leave the current value untouched.
func (c *Config) ApplyEnv() error {
	if err := env.Parse(c); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

// LoadWithEnv loads path, applies the environment overlay and normalizes
// the result.
func LoadWithEnv(path string) (Config, error) {
	c, err := Load(path)
	if err != nil {
		return c, err
	}
	if err := c.ApplyEnv(); err != nil {
		return c, fmt.Errorf("config: %w", err)
	}
	c.Normalize()
	return c, nil
}
