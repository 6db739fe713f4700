// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Daco Labs

package session

import (
	"errors"

	"github.com/spf13/cobra"
)

// FromCommand extracts the session Context from a cobra.Command's context.
// Returns nil if no Context is stored.
func FromCommand(cmd *cobra.Command) *Context {
	return From(cmd.Context())
}

// RequireFromCommand extracts the session Context from a cobra.Command's
// context, returning an error if not found.
func RequireFromCommand(cmd *cobra.Command) (*Context, error) {
	ctx := FromCommand(cmd)
	if ctx == nil {
		return nil, errors.New("project context not loaded")
	}
	return ctx, nil
}

// PreRunLoad returns a PersistentPreRunE function that loads the session
// from the persistent --config, --templates and --verbose flags and stores
// it in the command's context.
func PreRunLoad(getenv func(string) string) func(cmd *cobra.Command, args []string) error {
	return func(cmd *cobra.Command, _ []string) error {
		opts := Options{Getenv: getenv, Stderr: cmd.ErrOrStderr()}
		opts.ConfigPath, _ = cmd.Flags().GetString("config")
		opts.TemplatesDir, _ = cmd.Flags().GetString("templates")
		opts.Verbose, _ = cmd.Flags().GetBool("verbose")

		ctx, err := Load(cmd.Context(), opts)
		if err != nil {
			return err
		}
		cmd.SetContext(ctx)
		return nil
	}
}
