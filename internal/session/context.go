// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Daco Labs

// Package session provides project context loading for CLI commands.
package session

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/kduma-archive/brief-generator-cli/internal/config"
	"github.com/kduma-archive/brief-generator-cli/internal/ctxlog"
	"github.com/kduma-archive/brief-generator-cli/internal/templates"
)

// Environment variables read through the injected getenv.
const (
	EnvConfig    = "BRIEF_CONFIG"
	EnvTemplates = "BRIEF_TEMPLATES"
)

// ErrTemplatesNotFound indicates an explicitly requested template directory
// doesn't exist.
var ErrTemplatesNotFound = errors.New("template directory not found")

// contextKey is used to store Context in context.Context.
type contextKey struct{}

// Context holds the resolved configuration and the loaded template set.
type Context struct {
	// Config is the configuration with defaults applied.
	Config *config.Config

	// ConfigPath is the file Config was read from, empty when defaults are used.
	ConfigPath string

	// Templates is the template set used for rendering.
	Templates *templates.Set

	Logger *slog.Logger
}

// Options controls how the session is resolved.
type Options struct {
	ConfigPath   string // --config, overrides BRIEF_CONFIG
	TemplatesDir string // --templates, overrides BRIEF_TEMPLATES and brief.yaml
	Verbose      bool
	Stderr       io.Writer
	Getenv       func(string) string
}

// Load resolves the configuration and template set and returns a new
// context.Context with the Context and its logger stored in it.
//
// The configuration is read from opts.ConfigPath, BRIEF_CONFIG or
// brief.yaml in the working directory. Only an explicitly named file has to
// exist. The template directory is taken from opts.TemplatesDir,
// BRIEF_TEMPLATES or brief.yaml; when the configured directory is missing
// the built-in templates are used.
func Load(ctx context.Context, opts Options) (context.Context, error) {
	getenv := opts.Getenv
	if getenv == nil {
		getenv = func(string) string { return "" }
	}
	stderr := opts.Stderr
	if stderr == nil {
		stderr = os.Stderr
	}
	logger := ctxlog.New(stderr, opts.Verbose)

	cfg, cfgPath, err := loadConfig(firstNonEmpty(opts.ConfigPath, getenv(EnvConfig)))
	if err != nil {
		return nil, err
	}
	if cfgPath != "" {
		logger.Debug("loaded configuration", "path", cfgPath)
	}

	explicit := firstNonEmpty(opts.TemplatesDir, getenv(EnvTemplates))
	dir := explicit
	if dir == "" {
		dir = cfg.Templates
		if cfgPath != "" && !filepath.IsAbs(dir) {
			dir = filepath.Join(filepath.Dir(cfgPath), dir)
		}
	}

	set, err := loadTemplates(dir, explicit != "")
	if err != nil {
		return nil, err
	}
	logger.Debug("loaded templates", "source", set.Source, "layouts", len(set.Layouts))

	briefCtx := &Context{
		Config:     cfg,
		ConfigPath: cfgPath,
		Templates:  set,
		Logger:     logger,
	}

	ctx = ctxlog.WithLogger(ctx, logger)
	return context.WithValue(ctx, contextKey{}, briefCtx), nil
}

func loadConfig(path string) (*config.Config, string, error) {
	explicit := path != ""
	if !explicit {
		path = config.FileName
	}

	if _, err := os.Stat(path); err != nil {
		if !explicit && errors.Is(err, os.ErrNotExist) {
			return config.Default(), "", nil
		}
		return nil, "", fmt.Errorf("%w: %v", config.ErrInvalidConfig, err)
	}

	cfg, err := config.Load(path)
	if err != nil {
		return nil, "", fmt.Errorf("%w: %v", config.ErrInvalidConfig, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, "", fmt.Errorf("%w: %v", config.ErrInvalidConfig, err)
	}
	return cfg, path, nil
}

func loadTemplates(dir string, explicit bool) (*templates.Set, error) {
	engines := templates.DefaultEngines()
	if _, err := os.Stat(dir); err != nil {
		if explicit || !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrTemplatesNotFound, dir)
		}
		return templates.Builtin(engines)
	}
	return templates.Load(dir, engines)
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

// From extracts the session Context from a context.Context.
// Returns nil if no Context is stored.
func From(ctx context.Context) *Context {
	if briefCtx, ok := ctx.Value(contextKey{}).(*Context); ok {
		return briefCtx
	}
	return nil
}
