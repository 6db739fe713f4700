// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Daco Labs

package templates

import (
	"bytes"
	"fmt"
	"regexp"
	"strings"
	"text/template"

	"github.com/flosch/pongo2/v6"
	"github.com/gomarkdown/markdown"
	mdhtml "github.com/gomarkdown/markdown/html"
	"github.com/gomarkdown/markdown/parser"
)

var (
	outputTag = regexp.MustCompile(`(?s)\{\{.*?\}\}`)
	columnRef = regexp.MustCompile(`(?:^|[^.\w"'])(column_\d+)\b`)
)

// Twig compiles Twig/Django-style templates with pongo2.
// A column printed by a {{ }} tag must exist in the row; columns tested in
// {% %} tags or read through row.column_N may be absent.
type Twig struct{}

// Compile parses src.
func (Twig) Compile(name, src string) (Template, error) {
	tpl, err := pongo2.FromString(src)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrTemplates, name, err)
	}
	return &twigTemplate{name: name, tpl: tpl, columns: printedColumns(src)}, nil
}

// printedColumns lists the column_N variables referenced inside output tags.
func printedColumns(src string) []string {
	var cols []string
	seen := make(map[string]bool)
	for _, tag := range outputTag.FindAllString(src, -1) {
		for _, m := range columnRef.FindAllStringSubmatch(tag, -1) {
			if !seen[m[1]] {
				seen[m[1]] = true
				cols = append(cols, m[1])
			}
		}
	}
	return cols
}

type twigTemplate struct {
	name    string
	tpl     *pongo2.Template
	columns []string
}

func (t *twigTemplate) Name() string { return t.name }

func (t *twigTemplate) Execute(data Data) (string, error) {
	for _, col := range t.columns {
		if _, ok := data[col]; !ok {
			return "", fmt.Errorf("%w: %s: undefined field %s", ErrExecute, t.name, col)
		}
	}
	out, err := t.tpl.Execute(pongo2.Context(data))
	if err != nil {
		return "", fmt.Errorf("%w: %s: %v", ErrExecute, t.name, err)
	}
	return out, nil
}

var textFuncs = template.FuncMap{
	"upper": strings.ToUpper,
	"lower": strings.ToLower,
	"trim":  strings.TrimSpace,
	"default": func(def, v string) string {
		if strings.TrimSpace(v) == "" {
			return def
		}
		return v
	},
}

// Text compiles Go text/template templates. Referencing a column the row
// does not have is an execution error.
type Text struct{}

// Compile parses src.
func (Text) Compile(name, src string) (Template, error) {
	tpl, err := template.New(name).Option("missingkey=error").Funcs(textFuncs).Parse(src)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrTemplates, name, err)
	}
	return &textTemplate{name: name, tpl: tpl}, nil
}

type textTemplate struct {
	name string
	tpl  *template.Template
}

func (t *textTemplate) Name() string { return t.name }

func (t *textTemplate) Execute(data Data) (string, error) {
	var buf bytes.Buffer
	if err := t.tpl.Execute(&buf, map[string]any(data)); err != nil {
		return "", fmt.Errorf("%w: %s: %v", ErrExecute, t.name, err)
	}
	return buf.String(), nil
}

// Markdown expands a text/template and converts the result from Markdown
// to HTML.
type Markdown struct{}

// Compile parses src.
func (Markdown) Compile(name, src string) (Template, error) {
	inner, err := Text{}.Compile(name, src)
	if err != nil {
		return nil, err
	}
	return &markdownTemplate{inner: inner}, nil
}

type markdownTemplate struct {
	inner Template
}

func (t *markdownTemplate) Name() string { return t.inner.Name() }

func (t *markdownTemplate) Execute(data Data) (string, error) {
	out, err := t.inner.Execute(data)
	if err != nil {
		return "", err
	}
	// parsers keep state and cannot be reused
	p := parser.NewWithExtensions(parser.CommonExtensions | parser.HardLineBreak)
	r := mdhtml.NewRenderer(mdhtml.RendererOptions{Flags: mdhtml.CommonFlags})
	return string(markdown.ToHTML([]byte(out), p, r)), nil
}
