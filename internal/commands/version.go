// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Daco Labs

package commands

import (
	"io"

	"github.com/spf13/cobra"

	"github.com/kduma-archive/brief-generator-cli/internal/prompts"
	"github.com/kduma-archive/brief-generator-cli/internal/version"
)

func registerVersionCmd(parent *cobra.Command) {
	cmd := &cobra.Command{
		Use:   "version",
		Short: "Show build information",
		Example: `  # Show the version
  brief-generator version

  # Single line, same as --version
  brief-generator --version`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			runVersion(cmd.OutOrStdout())
			return nil
		},
	}
	parent.AddCommand(cmd)
}

func runVersion(w io.Writer) {
	b := version.Current()
	prompts.PrintResult(w, []prompts.ResultField{
		{Label: "Version", Value: b.Version},
		{Label: "Commit", Value: b.Commit},
		{Label: "Built", Value: b.Date},
		{Label: "Go", Value: b.Go},
	}, "")
}
