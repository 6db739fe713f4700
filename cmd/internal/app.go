// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Daco Labs

// Package internal contains the main application logic for the CLI.
package internal

import (
	"context"
	"errors"
	"io/fs"

	"github.com/joho/godotenv"

	"github.com/kduma-archive/brief-generator-cli/internal/commands"
)

// EnvFile is read into the process environment before the command runs.
const EnvFile = ".env"

// Run is the main application logic, extracted for testability.
// It accepts OS dependencies as parameters (context, env lookup).
func Run(ctx context.Context, getenv func(string) string, args ...string) error {
	if err := loadEnv(EnvFile); err != nil {
		return err
	}

	rootCmd := commands.NewRootCmd(getenv)
	if len(args) > 0 {
		rootCmd.SetArgs(args)
	}
	return rootCmd.ExecuteContext(ctx)
}

// loadEnv reads path into the environment without overriding variables that
// are already set. A missing file is not an error.
func loadEnv(path string) error {
	if err := godotenv.Load(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return nil
}
