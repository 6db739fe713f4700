// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Daco Labs

// Package templates loads label templates and renders rows through them.
package templates

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/kduma-archive/brief-generator-cli/internal/rows"
)

var (
	// ErrTemplates indicates the template directory or a template is invalid.
	ErrTemplates = errors.New("invalid templates")

	// ErrExecute indicates a template failed while rendering a row.
	ErrExecute = errors.New("template execution failed")
)

// Template renders the markup of one label.
type Template interface {
	// Name returns the file name the template was loaded from.
	Name() string

	// Execute renders data into label markup.
	Execute(data Data) (string, error)
}

// Engine compiles template source for one template language.
type Engine interface {
	Compile(name, src string) (Template, error)
}

// Data is the variable scope a template sees for one row: every column as
// a top-level variable plus "row" (all columns by key), "values" (all
// columns in order), "index" and "line".
type Data map[string]any

// NewData builds the template scope for row, the index-th row rendered.
func NewData(row rows.Row, index int) Data {
	fields := row.Map()
	data := make(Data, len(fields)+4)
	for k, v := range fields {
		data[k] = v
	}
	data["row"] = fields
	data["values"] = row.Values
	data["index"] = index
	data["line"] = row.Line
	return data
}

// Register maps file extensions (with leading dot) to engines.
type Register map[string]Engine

// DefaultEngines returns the engines known to the CLI.
func DefaultEngines() Register {
	return Register{
		".twig":   Twig{},
		".html":   Twig{},
		".tmpl":   Text{},
		".gotmpl": Text{},
		".md":     Markdown{},
	}
}

// Get retrieves the engine for an extension.
func (r Register) Get(ext string) (Engine, error) {
	e, ok := r[strings.ToLower(ext)]
	if !ok {
		return nil, fmt.Errorf("no template engine for %q (available: %s)", ext, strings.Join(r.Available(), ", "))
	}
	return e, nil
}

// Available returns all registered extensions, sorted.
func (r Register) Available() []string {
	exts := make([]string, 0, len(r))
	for ext := range r {
		exts = append(exts, ext)
	}
	sort.Strings(exts)
	return exts
}
