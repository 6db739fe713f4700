// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Daco Labs

package pipeline

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kduma-archive/brief-generator-cli/internal/impose"
	"github.com/kduma-archive/brief-generator-cli/internal/label"
	"github.com/kduma-archive/brief-generator-cli/internal/rows"
	"github.com/kduma-archive/brief-generator-cli/internal/templates"
)

type fakeGenerator struct {
	rows  []rows.Row
	err   error
	calls int
}

func (f *fakeGenerator) Generate(_ context.Context, src rows.Source, dest string) (label.Result, error) {
	f.calls++
	for row, err := range src.Rows() {
		if err != nil {
			return label.Result{}, err
		}
		f.rows = append(f.rows, row)
	}
	if f.err != nil {
		return label.Result{}, f.err
	}
	if err := os.WriteFile(dest, []byte("labels"), 0o600); err != nil {
		return label.Result{}, err
	}
	return label.Result{Pages: len(f.rows), Templates: map[string]int{label.DefaultKey: len(f.rows)}}, nil
}

type fakeImposer struct {
	err   error
	calls int
	src   string
	dest  string
}

func (f *fakeImposer) Impose(_ context.Context, src, dest string) (impose.Result, error) {
	f.calls++
	f.src, f.dest = src, dest
	if f.err != nil {
		return impose.Result{}, f.err
	}
	return impose.Result{Pages: 3, Sheets: 1, PerSheet: 6}, os.WriteFile(dest, []byte("sheets"), 0o600)
}

func writeCSV(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "rows.csv")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func options(src, dest string) Options {
	return Options{Source: src, Destination: dest, Dialect: rows.DefaultDialect()}
}

func TestRun_MissingSource(t *testing.T) {
	dest := filepath.Join(t.TempDir(), "out.pdf")
	gen, imp := &fakeGenerator{}, &fakeImposer{}

	report, err := New(gen, imp).Run(context.Background(), options(filepath.Join(t.TempDir(), "nope.csv"), dest))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInputNotFound)
	assert.Contains(t, err.Error(), "nope.csv' doesn't exist")
	assert.Empty(t, report.Stages)
	assert.Zero(t, gen.calls)
	assert.Zero(t, imp.calls)
	assert.NoFileExists(t, dest)
}

func TestRun_GenerateThenImpose(t *testing.T) {
	src := writeCSV(t, "A5;x\n99;y\nZZ;z\n")
	dest := filepath.Join(t.TempDir(), "out.pdf")
	gen, imp := &fakeGenerator{}, &fakeImposer{}

	opts := options(src, dest)
	opts.Dialect.Delimiter = ';'
	report, err := New(gen, imp).Run(context.Background(), opts)
	require.NoError(t, err)

	require.Len(t, report.Stages, 2)
	assert.Equal(t, StageGenerate, report.Stages[0].Stage)
	assert.Equal(t, 3, report.Stages[0].Pages)
	assert.Equal(t, StageImpose, report.Stages[1].Stage)
	assert.Equal(t, 1, report.Stages[1].Sheets)

	require.Len(t, gen.rows, 3)
	assert.Equal(t, []string{"99", "y"}, gen.rows[1].Values)

	assert.Equal(t, dest, imp.src)
	assert.Equal(t, dest, imp.dest)

	data, err := os.ReadFile(dest) //nolint:gosec // test file path
	require.NoError(t, err)
	assert.Equal(t, "sheets", string(data))
}

func TestRun_SkipImposition(t *testing.T) {
	src := writeCSV(t, "A5\n")
	dest := filepath.Join(t.TempDir(), "out.pdf")
	gen, imp := &fakeGenerator{}, &fakeImposer{}

	opts := options(src, dest)
	opts.SkipImposition = true
	report, err := New(gen, imp).Run(context.Background(), opts)
	require.NoError(t, err)

	require.Len(t, report.Stages, 1)
	_, ran := report.Stage(StageImpose)
	assert.False(t, ran)
	assert.Zero(t, imp.calls)
}

func TestRun_GenerationFailure(t *testing.T) {
	src := writeCSV(t, "A5\n")
	dest := filepath.Join(t.TempDir(), "out.pdf")
	boom := errors.New("boom")
	gen, imp := &fakeGenerator{err: boom}, &fakeImposer{}

	report, err := New(gen, imp).Run(context.Background(), options(src, dest))
	assert.ErrorIs(t, err, boom)

	res, ok := report.Stage(StageGenerate)
	require.True(t, ok)
	assert.ErrorIs(t, res.Err, boom)
	assert.Zero(t, imp.calls)
	assert.NoFileExists(t, dest)
}

func TestRun_ImpositionFailureKeepsLabels(t *testing.T) {
	src := writeCSV(t, "A5\nB6\n")
	dest := filepath.Join(t.TempDir(), "out.pdf")
	gen, imp := &fakeGenerator{}, &fakeImposer{err: impose.ErrImposition}

	report, err := New(gen, imp).Run(context.Background(), options(src, dest))
	assert.ErrorIs(t, err, impose.ErrImposition)
	require.Len(t, report.Stages, 2)
	assert.NoError(t, report.Stages[0].Err)
	assert.ErrorIs(t, report.Stages[1].Err, impose.ErrImposition)

	data, err := os.ReadFile(dest) //nolint:gosec // test file path
	require.NoError(t, err)
	assert.Equal(t, "labels", string(data))
}

func TestRun_InvalidDialect(t *testing.T) {
	src := writeCSV(t, "A5\n")
	dest := filepath.Join(t.TempDir(), "out.pdf")
	gen := &fakeGenerator{}

	opts := options(src, dest)
	opts.Dialect.Enclosure = ','
	_, err := New(gen, nil).Run(context.Background(), opts)
	require.Error(t, err)
	assert.Zero(t, gen.calls)
}

func newLabelGenerator(t *testing.T) *label.Generator {
	t.Helper()
	set, err := templates.Builtin(templates.DefaultEngines())
	require.NoError(t, err)
	gen, err := label.NewFromSet(label.DefaultConfig(), set)
	require.NoError(t, err)
	return gen
}

func TestRun_EndToEnd(t *testing.T) {
	src := writeCSV(t, "A1,one\nA2,two\nA3,three\nA4,four\nA5,five\nA6,six\nA7,seven\n")
	layout := impose.NewOutsideBoxCutMarks(
		impose.NewAutoGrid(impose.Size{W: 80, H: 80}, impose.Size{W: 210, H: 297}, 5, true), 5)

	t.Run("without imposition", func(t *testing.T) {
		dest := filepath.Join(t.TempDir(), "labels.pdf")
		opts := options(src, dest)
		opts.SkipImposition = true

		_, err := New(newLabelGenerator(t), impose.New(layout)).Run(context.Background(), opts)
		require.NoError(t, err)

		pages, err := impose.CountPages(dest)
		require.NoError(t, err)
		assert.Equal(t, 7, pages)
	})

	t.Run("with imposition", func(t *testing.T) {
		dest := filepath.Join(t.TempDir(), "labels.pdf")

		report, err := New(newLabelGenerator(t), impose.New(layout)).Run(context.Background(), options(src, dest))
		require.NoError(t, err)

		res, ok := report.Stage(StageImpose)
		require.True(t, ok)
		assert.Equal(t, 7, res.Pages)
		assert.Equal(t, 6, res.PerSheet)
		assert.Equal(t, 2, res.Sheets)

		sheets, err := impose.CountPages(dest)
		require.NoError(t, err)
		assert.Equal(t, 2, sheets)
	})
}
