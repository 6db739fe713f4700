// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Daco Labs

package commands

import (
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/kduma-archive/brief-generator-cli/internal/config"
	"github.com/kduma-archive/brief-generator-cli/internal/impose"
	"github.com/kduma-archive/brief-generator-cli/internal/label"
	"github.com/kduma-archive/brief-generator-cli/internal/pipeline"
	"github.com/kduma-archive/brief-generator-cli/internal/prompts"
	"github.com/kduma-archive/brief-generator-cli/internal/rows"
	"github.com/kduma-archive/brief-generator-cli/internal/session"
)

type makeOptions struct {
	source         string
	destination    string
	noImposition   bool
	delimiter      string
	enclosure      string
	escape         string
	spacing        float64
	sheet          string
	labelSize      string
	column         string
	title          string
	noCenter       bool
	noCutMarks     bool
	nonInteractive bool
}

func registerMakeCmd(parent *cobra.Command, getenv func(string) string) {
	opts := &makeOptions{}

	cmd := &cobra.Command{
		Use:   "make [source] [destination]",
		Short: "Generate a label PDF from a CSV file",
		Long: `Render one label per row of the source file into the destination PDF.

Each row is matched against the layout keys of the template directory.
A key is a pattern where 0 stands for any digit and A for any letter;
the first key matching the discriminant column selects layouts/<KEY>.<ext>,
other rows use the default template. Unless --no-imposition is given the
labels are then imposed onto print sheets with cut marks.`,
		Example: `  # Labels imposed on A4 sheets
  brief-generator make labels.csv labels.pdf

  # Semicolon separated file, one label per page
  brief-generator make labels.csv labels.pdf --delimiter ";" --no-imposition

  # Tighter grid on A3 without cut marks
  brief-generator make labels.csv labels.pdf --sheet a3 --imposition-spacing 2 --no-cut-marks`,
		Args:    cobra.MaximumNArgs(2),
		PreRunE: session.PreRunLoad(getenv),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, err := session.RequireFromCommand(cmd)
			if err != nil {
				return err
			}
			if len(args) > 0 {
				opts.source = args[0]
			}
			if len(args) > 1 {
				opts.destination = args[1]
			}
			return runMake(cmd, ctx, opts)
		},
	}

	cmd.Flags().BoolVar(&opts.noImposition, "no-imposition", false, "Write one label per page without imposing onto sheets")
	cmd.Flags().StringVar(&opts.delimiter, "delimiter", ",", "Field delimiter of the source file")
	cmd.Flags().StringVar(&opts.enclosure, "enclosure", `"`, "Field enclosure character of the source file")
	cmd.Flags().StringVar(&opts.escape, "escape", `\`, "Escape character of the source file")
	cmd.Flags().Float64Var(&opts.spacing, "imposition-spacing", 5, "Space around each label on the sheet in millimetres")
	cmd.Flags().StringVar(&opts.sheet, "sheet", "a4", "Sheet size (a3, a4, a5, letter, legal, -landscape suffix, or WxH)")
	cmd.Flags().StringVar(&opts.labelSize, "label-size", "80x80", "Label size in millimetres (WxH or a paper name)")
	cmd.Flags().StringVar(&opts.column, "column", "column_0", "Column matched against layout keys")
	cmd.Flags().StringVar(&opts.title, "title", "", "Document title")
	cmd.Flags().BoolVar(&opts.noCenter, "no-center", false, "Place the label grid at the sheet corner instead of centering it")
	cmd.Flags().BoolVar(&opts.noCutMarks, "no-cut-marks", false, "Don't draw cut marks")
	cmd.Flags().BoolVar(&opts.nonInteractive, "non-interactive", false, "Run without prompts (requires source and destination)")

	parent.AddCommand(cmd)
}

func runMake(cmd *cobra.Command, ctx *session.Context, opts *makeOptions) error {
	if opts.source == "" || opts.destination == "" {
		if opts.nonInteractive {
			return errors.New("source and destination are required in non-interactive mode")
		}
		if err := prompts.RunMakeForm(&opts.source, &opts.destination); err != nil {
			return err
		}
	}

	cfg, err := mergeMakeFlags(cmd, ctx.Config, opts)
	if err != nil {
		return err
	}

	run, err := newMakeRun(cfg, ctx)
	if err != nil {
		return err
	}

	report, err := run.driver.Run(cmd.Context(), pipeline.Options{
		Source:         opts.source,
		Destination:    opts.destination,
		Dialect:        run.dialect,
		SkipImposition: cfg.Imposition.Disabled,
	})
	if errors.Is(err, pipeline.ErrInputNotFound) {
		_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "File '%s' doesn't exist!\n", opts.source)
		return ErrReported
	}
	if err != nil {
		return err
	}

	printMakeReport(cmd.OutOrStdout(), opts, ctx, report)
	return nil
}

// mergeMakeFlags returns a copy of cfg with every flag given on the command
// line applied on top.
func mergeMakeFlags(cmd *cobra.Command, cfg *config.Config, opts *makeOptions) (*config.Config, error) {
	merged := *cfg
	changed := cmd.Flags().Changed

	if changed("no-imposition") {
		merged.Imposition.Disabled = opts.noImposition
	}
	if changed("delimiter") {
		merged.CSV.Delimiter = opts.delimiter
	}
	if changed("enclosure") {
		merged.CSV.Enclosure = opts.enclosure
	}
	if changed("escape") {
		merged.CSV.Escape = opts.escape
	}
	if changed("imposition-spacing") {
		spacing := opts.spacing
		merged.Imposition.Spacing = &spacing
	}
	if changed("sheet") {
		merged.Imposition.Sheet = opts.sheet
	}
	if changed("label-size") {
		merged.Label.Size = opts.labelSize
	}
	if changed("column") {
		merged.Label.Column = opts.column
	}
	if changed("title") {
		merged.Label.Title = opts.title
	}
	if changed("no-center") {
		center := !opts.noCenter
		merged.Imposition.Center = &center
	}
	if changed("no-cut-marks") {
		marks := !opts.noCutMarks
		merged.Imposition.CutMarks = &marks
	}

	merged.ApplyDefaults()
	if err := merged.Validate(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}
	return &merged, nil
}

type makeRun struct {
	driver  *pipeline.Driver
	dialect rows.Dialect
}

func newMakeRun(cfg *config.Config, ctx *session.Context) (*makeRun, error) {
	size, err := cfg.LabelSize()
	if err != nil {
		return nil, err
	}
	sheet, err := cfg.SheetSize()
	if err != nil {
		return nil, err
	}
	dialect, err := cfg.Dialect()
	if err != nil {
		return nil, err
	}

	gen, err := label.NewFromSet(label.Config{
		Width:  size.W,
		Height: size.H,
		Title:  cfg.Label.Title,
		Column: cfg.Label.Column,
	}, ctx.Templates)
	if err != nil {
		return nil, err
	}

	var layout impose.Layout = impose.NewAutoGrid(size, sheet, cfg.Spacing(), cfg.Centered())
	if cfg.CutMarks() {
		layout = impose.NewOutsideBoxCutMarks(layout, cfg.Spacing())
	}

	return &makeRun{
		driver:  pipeline.New(gen, impose.New(layout)),
		dialect: dialect,
	}, nil
}

func printMakeReport(w io.Writer, opts *makeOptions, ctx *session.Context, report *pipeline.Report) {
	fields := []prompts.ResultField{
		{Label: "Source", Value: opts.source},
		{Label: "Templates", Value: ctx.Templates.Source},
	}

	var total time.Duration
	for _, stage := range report.Stages {
		total += stage.Duration
	}

	if res, ok := report.Stage(pipeline.StageGenerate); ok {
		fields = append(fields,
			prompts.ResultField{Label: "Labels", Value: fmt.Sprintf("%d", res.Pages)},
			prompts.ResultField{Label: "Layouts", Value: formatLayouts(res.Layouts)},
		)
	}
	if res, ok := report.Stage(pipeline.StageImpose); ok {
		fields = append(fields, prompts.ResultField{
			Label: "Sheets",
			Value: fmt.Sprintf("%d (%d per sheet)", res.Sheets, res.PerSheet),
		})
	}
	fields = append(fields,
		prompts.ResultField{Label: "Destination", Value: opts.destination},
		prompts.ResultField{Label: "Took", Value: total.Round(time.Millisecond).String()},
	)

	prompts.PrintResult(w, fields, "Labels generated")
}

// formatLayouts renders page counts per layout key, default last.
func formatLayouts(counts map[string]int) string {
	keys := make([]string, 0, len(counts))
	for key := range counts {
		if key != label.DefaultKey {
			keys = append(keys, key)
		}
	}
	sort.Strings(keys)
	if _, ok := counts[label.DefaultKey]; ok {
		keys = append(keys, label.DefaultKey)
	}

	parts := make([]string, len(keys))
	for i, key := range keys {
		parts[i] = fmt.Sprintf("%s: %d", key, counts[key])
	}
	if len(parts) == 0 {
		return "-"
	}
	return strings.Join(parts, ", ")
}
