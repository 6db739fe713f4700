// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Daco Labs

// Package pipeline runs label generation followed by sheet imposition.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/kduma-archive/brief-generator-cli/internal/ctxlog"
	"github.com/kduma-archive/brief-generator-cli/internal/impose"
	"github.com/kduma-archive/brief-generator-cli/internal/label"
	"github.com/kduma-archive/brief-generator-cli/internal/rows"
)

// ErrInputNotFound indicates the source file does not exist.
var ErrInputNotFound = errors.New("input not found")

// Stage names a step of the pipeline.
type Stage string

// Pipeline stages, in execution order.
const (
	StageGenerate Stage = "generate"
	StageImpose   Stage = "impose"
)

// StageResult records the outcome of one executed stage.
type StageResult struct {
	Stage    Stage
	Pages    int
	Sheets   int
	PerSheet int
	Layouts  map[string]int
	Duration time.Duration
	Err      error
}

// Report lists the stages that ran, in order.
type Report struct {
	Stages []StageResult
}

// Stage returns the result of stage s if it ran.
func (r *Report) Stage(s Stage) (StageResult, bool) {
	for _, res := range r.Stages {
		if res.Stage == s {
			return res, true
		}
	}
	return StageResult{}, false
}

// Options configures one run.
type Options struct {
	Source         string
	Destination    string
	Dialect        rows.Dialect
	SkipImposition bool
}

// Generator renders rows into the label document.
type Generator interface {
	Generate(ctx context.Context, src rows.Source, dest string) (label.Result, error)
}

// Imposer repacks a label document onto sheets.
type Imposer interface {
	Impose(ctx context.Context, src, dest string) (impose.Result, error)
}

// Driver sequences the stages.
type Driver struct {
	gen  Generator
	imp  Imposer
	open func(path string, d rows.Dialect) (rows.Source, error)
}

// New returns a driver. imp may be nil when imposition is never requested.
func New(gen Generator, imp Imposer) *Driver {
	return &Driver{gen: gen, imp: imp, open: rows.Open}
}

// Run checks the source, generates the label document at the destination
// and, unless skipped, imposes it in place. It stops at the first failing
// stage; a failed imposition leaves the generated document behind.
func (d *Driver) Run(ctx context.Context, opts Options) (*Report, error) {
	logger := ctxlog.FromContext(ctx)
	report := &Report{}

	if _, err := os.Stat(opts.Source); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return report, fmt.Errorf("%w: file '%s' doesn't exist", ErrInputNotFound, opts.Source)
		}
		return report, fmt.Errorf("%w: %v", ErrInputNotFound, err)
	}

	err := d.stage(report, StageGenerate, func(res *StageResult) error {
		src, err := d.open(opts.Source, opts.Dialect)
		if err != nil {
			return err
		}
		defer func() { _ = src.Close() }()

		out, err := d.gen.Generate(ctx, src, opts.Destination)
		res.Pages = out.Pages
		res.Layouts = out.Templates
		return err
	})
	if err != nil {
		return report, err
	}
	logger.Debug("generated labels", "path", opts.Destination, "pages", report.Stages[0].Pages)

	if opts.SkipImposition || d.imp == nil {
		logger.Debug("imposition skipped")
		return report, nil
	}

	err = d.stage(report, StageImpose, func(res *StageResult) error {
		out, err := d.imp.Impose(ctx, opts.Destination, opts.Destination)
		res.Pages = out.Pages
		res.Sheets = out.Sheets
		res.PerSheet = out.PerSheet
		return err
	})
	if err != nil {
		return report, err
	}
	last := report.Stages[len(report.Stages)-1]
	logger.Debug("imposed labels", "path", opts.Destination, "sheets", last.Sheets, "per_sheet", last.PerSheet)
	return report, nil
}

func (d *Driver) stage(report *Report, s Stage, fn func(res *StageResult) error) error {
	start := time.Now()
	res := StageResult{Stage: s}
	res.Err = fn(&res)
	res.Duration = time.Since(start)
	report.Stages = append(report.Stages, res)
	return res.Err
}
