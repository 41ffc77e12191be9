// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package render produces a local, deterministic HTML preview of a deck.
// It serves the quick-look path that needs no model call: the deck structure
// plus an optional design library's CSS variables become a standalone
// document with keyboard slide navigation.
package render

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"

	"deckpress/internal/markdown"
	"deckpress/internal/models"
)

//go:embed templates/preview.html
var previewFS embed.FS

// Renderer executes the embedded preview template.
type Renderer struct {
	tmpl *template.Template
}

// previewData is the root object handed to the preview template.
type previewData struct {
	Deck         *models.Deck
	CSSVariables template.CSS
}

// New parses the embedded preview template.
func New() (*Renderer, error) {
	funcMap := template.FuncMap{
		// markdownHTML renders a slide body; a conversion failure falls back
		// to the escaped source text.
		"markdownHTML": func(source string) template.HTML {
			out, err := markdown.ToHTML(source)
			if err != nil {
				return template.HTML(template.HTMLEscapeString(source))
			}
			return template.HTML(out)
		},
	}

	tmpl, err := template.New("preview.html").Funcs(funcMap).ParseFS(previewFS, "templates/preview.html")
	if err != nil {
		return nil, fmt.Errorf("parse preview template: %w", err)
	}
	return &Renderer{tmpl: tmpl}, nil
}

// Preview renders a deck into a standalone HTML document. cssVariables may
// be empty, in which case the template's built-in defaults apply.
func (r *Renderer) Preview(deck *models.Deck, cssVariables string) (string, error) {
	var buf bytes.Buffer
	data := previewData{
		Deck:         deck,
		CSSVariables: template.CSS(cssVariables),
	}
	if err := r.tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("render preview: %w", err)
	}
	return buf.String(), nil
}
