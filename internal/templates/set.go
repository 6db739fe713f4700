// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Daco Labs

package templates

import (
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"
)

const (
	defaultStem    = "default"
	stylesheetName = "style.css"
	layoutsDir     = "layouts"
)

//go:embed builtin
var builtinFS embed.FS

// Layout is a template bound to the layout key derived from its file name.
type Layout struct {
	Key      string
	Template Template
}

// Set is the immutable collection of templates used for one run.
type Set struct {
	Default    Template
	Layouts    []Layout // sorted by key
	Stylesheet string
	Source     string // directory the set was loaded from, "builtin" for the embedded set
}

// Keys returns the layout keys in evaluation order.
func (s *Set) Keys() []string {
	keys := make([]string, len(s.Layouts))
	for i, l := range s.Layouts {
		keys[i] = l.Key
	}
	return keys
}

// Lookup returns the template registered for key.
func (s *Set) Lookup(key string) (Template, bool) {
	for _, l := range s.Layouts {
		if l.Key == key {
			return l.Template, true
		}
	}
	return nil, false
}

// Load reads a template set from dir:
//
//	dir/default.<ext>        template used when no layout matches
//	dir/style.css            optional stylesheet shared by every label
//	dir/layouts/<KEY>.<ext>  one template per layout key
func Load(dir string, engines Register) (*Set, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrTemplates, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%w: %s is not a directory", ErrTemplates, dir)
	}
	set, err := LoadFS(os.DirFS(dir), engines)
	if err != nil {
		return nil, err
	}
	set.Source = dir
	return set, nil
}

// Builtin returns the template set embedded in the binary.
func Builtin(engines Register) (*Set, error) {
	sub, err := fs.Sub(builtinFS, "builtin")
	if err != nil {
		return nil, err
	}
	set, err := LoadFS(sub, engines)
	if err != nil {
		return nil, err
	}
	set.Source = "builtin"
	return set, nil
}

// LoadFS reads a template set from the root of fsys.
func LoadFS(fsys fs.FS, engines Register) (*Set, error) {
	set := &Set{}

	defaults, err := fs.Glob(fsys, defaultStem+".*")
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrTemplates, err)
	}
	switch len(defaults) {
	case 0:
		return nil, fmt.Errorf("%w: no %s template found", ErrTemplates, defaultStem)
	case 1:
	default:
		return nil, fmt.Errorf("%w: more than one %s template: %s", ErrTemplates, defaultStem, strings.Join(defaults, ", "))
	}
	if set.Default, err = compileFile(fsys, defaults[0], engines); err != nil {
		return nil, err
	}

	css, err := fs.ReadFile(fsys, stylesheetName)
	switch {
	case err == nil:
		set.Stylesheet = string(css)
	case !errors.Is(err, fs.ErrNotExist):
		return nil, fmt.Errorf("%w: %v", ErrTemplates, err)
	}

	entries, err := fs.ReadDir(fsys, layoutsDir)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: %v", ErrTemplates, err)
	}
	seen := make(map[string]string, len(entries))
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || strings.HasPrefix(name, ".") {
			continue
		}
		key := strings.TrimSuffix(name, path.Ext(name))
		if other, dup := seen[key]; dup {
			return nil, fmt.Errorf("%w: layout %q defined by both %s and %s", ErrTemplates, key, other, name)
		}
		seen[key] = name

		tpl, err := compileFile(fsys, path.Join(layoutsDir, name), engines)
		if err != nil {
			return nil, err
		}
		set.Layouts = append(set.Layouts, Layout{Key: key, Template: tpl})
	}
	sort.Slice(set.Layouts, func(i, j int) bool { return set.Layouts[i].Key < set.Layouts[j].Key })

	return set, nil
}

func compileFile(fsys fs.FS, name string, engines Register) (Template, error) {
	engine, err := engines.Get(path.Ext(name))
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrTemplates, name, err)
	}
	src, err := fs.ReadFile(fsys, name)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrTemplates, err)
	}
	return engine.Compile(name, string(src))
}

// Scaffold copies the embedded templates into dir and creates an empty
// layouts directory. Existing files are kept unless force is set.
// It returns the paths it wrote.
func Scaffold(dir string, force bool) ([]string, error) {
	if err := os.MkdirAll(filepath.Join(dir, layoutsDir), 0o750); err != nil {
		return nil, fmt.Errorf("failed to create template directory: %w", err)
	}

	var written []string
	err := fs.WalkDir(builtinFS, "builtin", func(p string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return err
		}
		rel := strings.TrimPrefix(p, "builtin/")
		dest := filepath.Join(dir, filepath.FromSlash(rel))
		if _, statErr := os.Stat(dest); statErr == nil && !force {
			return nil
		}
		data, err := builtinFS.ReadFile(p)
		if err != nil {
			return err
		}
		if err := os.MkdirAll(filepath.Dir(dest), 0o750); err != nil {
			return err
		}
		if err := os.WriteFile(dest, data, 0o600); err != nil {
			return err
		}
		written = append(written, dest)
		return nil
	})
	if err != nil {
		return written, fmt.Errorf("failed to write templates: %w", err)
	}
	return written, nil
}
