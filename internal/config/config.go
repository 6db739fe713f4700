// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Daco Labs

// Package config handles the brief.yaml project configuration.
package config

import (
	"errors"
	"fmt"
	"os"
	"regexp"

	"gopkg.in/yaml.v3"

	"github.com/kduma-archive/brief-generator-cli/internal/impose"
	"github.com/kduma-archive/brief-generator-cli/internal/rows"
)

// CurrentConfigVersion is the current version of the config file format.
const CurrentConfigVersion = 1

// FileName is the name of the project configuration file.
const FileName = "brief.yaml"

// ErrInvalidConfig indicates the config file exists but is invalid.
var ErrInvalidConfig = errors.New("invalid configuration")

var columnKey = regexp.MustCompile(`^column_(0|[1-9][0-9]*)$`)

// Config represents the brief.yaml project configuration file.
type Config struct {
	Version    int        `yaml:"version"`
	Templates  string     `yaml:"templates,omitempty"`
	Label      Label      `yaml:"label"`
	CSV        CSV        `yaml:"csv"`
	Imposition Imposition `yaml:"imposition"`
}

// Label configures the generated label pages.
type Label struct {
	Size   string `yaml:"size,omitempty"`
	Column string `yaml:"column,omitempty"`
	Title  string `yaml:"title,omitempty"`
}

// CSV configures the delimited file dialect.
type CSV struct {
	Delimiter string `yaml:"delimiter,omitempty"`
	Enclosure string `yaml:"enclosure,omitempty"`
	Escape    string `yaml:"escape,omitempty"`
}

// Imposition configures how labels are placed on print sheets.
type Imposition struct {
	Disabled bool     `yaml:"disabled,omitempty"`
	Sheet    string   `yaml:"sheet,omitempty"`
	Spacing  *float64 `yaml:"spacing,omitempty"`
	Center   *bool    `yaml:"center,omitempty"`
	CutMarks *bool    `yaml:"cut_marks,omitempty"`
}

// Default returns the configuration used when no brief.yaml exists.
func Default() *Config {
	spacing := 5.0
	on := true
	return &Config{
		Version:   CurrentConfigVersion,
		Templates: "templates",
		Label:     Label{Size: "80x80", Column: "column_0"},
		CSV:       CSV{Delimiter: ",", Enclosure: `"`, Escape: `\`},
		Imposition: Imposition{
			Sheet:    "a4",
			Spacing:  &spacing,
			Center:   &on,
			CutMarks: &on,
		},
	}
}

// Load reads a Config from a file path. Settings missing from the file take
// their default values.
func Load(path string) (*Config, error) {
	f, err := os.Open(path) //nolint:gosec // path is provided by caller
	if err != nil {
		return nil, err
	}
	defer f.Close() //nolint:errcheck

	var cfg Config
	if err := yaml.NewDecoder(f).Decode(&cfg); err != nil {
		return nil, err
	}
	cfg.ApplyDefaults()
	return &cfg, nil
}

// ApplyDefaults fills every unset field from Default.
func (c *Config) ApplyDefaults() {
	d := Default()
	setString(&c.Templates, d.Templates)
	setString(&c.Label.Size, d.Label.Size)
	setString(&c.Label.Column, d.Label.Column)
	setString(&c.CSV.Delimiter, d.CSV.Delimiter)
	setString(&c.CSV.Enclosure, d.CSV.Enclosure)
	setString(&c.CSV.Escape, d.CSV.Escape)
	setString(&c.Imposition.Sheet, d.Imposition.Sheet)
	if c.Imposition.Spacing == nil {
		c.Imposition.Spacing = d.Imposition.Spacing
	}
	if c.Imposition.Center == nil {
		c.Imposition.Center = d.Imposition.Center
	}
	if c.Imposition.CutMarks == nil {
		c.Imposition.CutMarks = d.Imposition.CutMarks
	}
}

func setString(field *string, def string) {
	if *field == "" {
		*field = def
	}
}

// Save writes the Config to a file path.
func (c *Config) Save(path string) error {
	f, err := os.Create(path) //nolint:gosec // path is provided by caller
	if err != nil {
		return err
	}
	defer f.Close() //nolint:errcheck

	enc := yaml.NewEncoder(f)
	enc.SetIndent(2)
	return enc.Encode(c)
}

// Validate checks the configuration for required fields and valid values.
// It expects defaults to be applied.
func (c *Config) Validate() error {
	if c.Version != CurrentConfigVersion {
		return errors.New("unsupported config version")
	}
	if _, err := c.LabelSize(); err != nil {
		return fmt.Errorf("label.size: %w", err)
	}
	if !columnKey.MatchString(c.Label.Column) {
		return fmt.Errorf("label.column: %q is not a column key like column_0", c.Label.Column)
	}
	if _, err := c.Dialect(); err != nil {
		return err
	}
	if _, err := c.SheetSize(); err != nil {
		return fmt.Errorf("imposition.sheet: %w", err)
	}
	if c.Spacing() < 0 {
		return errors.New("imposition.spacing cannot be negative")
	}
	return nil
}

// LabelSize returns the label page size.
func (c *Config) LabelSize() (impose.Size, error) {
	return impose.ParseSize(c.Label.Size)
}

// SheetSize returns the print sheet size.
func (c *Config) SheetSize() (impose.Size, error) {
	return impose.ParseSize(c.Imposition.Sheet)
}

// Dialect returns the configured delimited file dialect.
func (c *Config) Dialect() (rows.Dialect, error) {
	var d rows.Dialect
	var err error
	if d.Delimiter, err = rows.Char("csv.delimiter", c.CSV.Delimiter); err != nil {
		return d, err
	}
	if d.Enclosure, err = rows.Char("csv.enclosure", c.CSV.Enclosure); err != nil {
		return d, err
	}
	if d.Escape, err = rows.Char("csv.escape", c.CSV.Escape); err != nil {
		return d, err
	}
	return d, d.Validate()
}

// Spacing returns the imposition spacing in millimetres.
func (c *Config) Spacing() float64 {
	if c.Imposition.Spacing == nil {
		return *Default().Imposition.Spacing
	}
	return *c.Imposition.Spacing
}

// Centered reports whether the label grid is centered on the sheet.
func (c *Config) Centered() bool {
	return c.Imposition.Center == nil || *c.Imposition.Center
}

// CutMarks reports whether cut marks are drawn.
func (c *Config) CutMarks() bool {
	return c.Imposition.CutMarks == nil || *c.Imposition.CutMarks
}
