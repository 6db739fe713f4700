// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Daco Labs

package commands

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/kduma-archive/brief-generator-cli/internal/config"
	"github.com/kduma-archive/brief-generator-cli/internal/prompts"
	"github.com/kduma-archive/brief-generator-cli/internal/session"
	"github.com/kduma-archive/brief-generator-cli/internal/templates"
)

type initOptions struct {
	configPath     string
	templatesDir   string
	labelSize      string
	sheet          string
	noImposition   bool
	force          bool
	nonInteractive bool
}

func registerInitCmd(parent *cobra.Command, getenv func(string) string) {
	opts := &initOptions{}

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Initialize a new label project",
		Long: `Initialize a label project with a brief.yaml configuration file and a
template directory holding the built-in default template and stylesheet.
Add layouts/<KEY>.twig files to the template directory to render matching
rows differently.`,
		Example: `  # Interactive mode
  brief-generator init

  # Non-interactive
  brief-generator init --label-size 100x50 --sheet a4-landscape --non-interactive`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.configPath, _ = cmd.Flags().GetString("config")
			opts.templatesDir, _ = cmd.Flags().GetString("templates")
			if opts.configPath == "" {
				opts.configPath = getenv(session.EnvConfig)
			}
			return runInit(cmd.OutOrStdout(), opts)
		},
	}

	cmd.Flags().StringVar(&opts.labelSize, "label-size", "80x80", "Label size in millimetres (WxH or a paper name)")
	cmd.Flags().StringVar(&opts.sheet, "sheet", "a4", "Sheet size for imposition")
	cmd.Flags().BoolVar(&opts.noImposition, "no-imposition", false, "Disable imposition by default")
	cmd.Flags().BoolVarP(&opts.force, "force", "f", false, "Overwrite an existing brief.yaml and templates")
	cmd.Flags().BoolVar(&opts.nonInteractive, "non-interactive", false, "Run without prompts")

	parent.AddCommand(cmd)
}

func runInit(w io.Writer, opts *initOptions) error {
	cfgPath := opts.configPath
	if cfgPath == "" {
		cfgPath = config.FileName
	}

	// Check that the project isn't already initialized
	if _, err := os.Stat(cfgPath); err == nil && !opts.force {
		return fmt.Errorf("%s already exists; project already initialized", cfgPath)
	}

	if opts.templatesDir == "" {
		opts.templatesDir = config.Default().Templates
	}

	if !opts.nonInteractive {
		imposition := !opts.noImposition
		if err := prompts.RunInitForm(&opts.templatesDir, &opts.labelSize, &opts.sheet, &imposition); err != nil {
			return err
		}
		opts.noImposition = !imposition
	}

	cfg := config.Default()
	cfg.Templates = opts.templatesDir
	cfg.Label.Size = opts.labelSize
	cfg.Imposition.Sheet = opts.sheet
	cfg.Imposition.Disabled = opts.noImposition
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	// Templates live next to brief.yaml unless given as an absolute path.
	dir := cfg.Templates
	if !filepath.IsAbs(dir) {
		dir = filepath.Join(filepath.Dir(cfgPath), dir)
	}
	written, err := templates.Scaffold(dir, opts.force)
	if err != nil {
		return err
	}

	if err := cfg.Save(cfgPath); err != nil {
		return fmt.Errorf("config file couldn't be saved: %w", err)
	}

	files := "-"
	if len(written) > 0 {
		files = strings.Join(written, ", ")
	}
	prompts.PrintResult(w, []prompts.ResultField{
		{Label: "Config", Value: cfgPath},
		{Label: "Templates", Value: dir},
		{Label: "Written", Value: files},
	}, "Initialization completed")

	return nil
}
