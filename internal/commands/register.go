// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Daco Labs

// Package commands contains all CLI command definitions.
package commands

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/kduma-archive/brief-generator-cli/internal/version"
)

// ErrReported marks an error whose message was already printed to the user.
var ErrReported = errors.New("error already reported")

// NewRootCmd creates and returns the root command for the CLI.
func NewRootCmd(getenv func(string) string) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "brief-generator",
		Short: "Generate label PDFs from CSV files",
		Long: `Generate a PDF with one label per row of a CSV or spreadsheet file.
Rows are rendered with a template chosen by matching the first column
against layout keys, then imposed onto print sheets with cut marks.`,
		Version:       version.Short(),
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.SetVersionTemplate(version.Info() + "\n")

	rootCmd.PersistentFlags().Bool("verbose", false, "Log progress to stderr")
	rootCmd.PersistentFlags().String("config", "", "Path to brief.yaml (default: ./brief.yaml, $BRIEF_CONFIG)")
	rootCmd.PersistentFlags().String("templates", "", "Template directory (default: from brief.yaml, $BRIEF_TEMPLATES)")

	registerMakeCmd(rootCmd, getenv)
	registerInitCmd(rootCmd, getenv)
	registerVersionCmd(rootCmd)

	return rootCmd
}
