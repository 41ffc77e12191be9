// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package pipeline

import (
	"fmt"
	"strings"
)

// DefaultDeckTemplate is the built-in prompt used when a request names no
// template. It instructs the model to return a strict JSON deck.
const DefaultDeckTemplate = `You are a presentation expert. Convert the following text into a structured slide deck.

Respond with JSON only, no commentary, using this exact shape:
{
  "title": "deck title",
  "slides": [
    {"title": "slide title", "content": "slide body", "type": "title|content|bullet|image|mixed", "bullets": ["optional"], "imagePrompt": "optional"}
  ]
}

Rules:
- The first slide should be a title slide.
- Keep each slide focused on one idea.
- Use the bullet type with a bullets array for enumerations.

Text to convert:
{{USER_INPUT}}`

// SystemDeck steers deck-structuring completions toward raw JSON output.
const SystemDeck = `You convert prose into structured slide decks. Respond with a single JSON object and nothing else. Do not wrap the JSON in markdown fences.`

// SystemDesignTokens steers screenshot analysis toward a CSS variable set
// plus a written analysis.
const SystemDesignTokens = `You are a design systems expert. Analyze the provided screenshot and extract its visual design as CSS custom properties. Respond with a single JSON object of the shape {"cssVariables": ":root { ... }", "analysisResult": "prose describing the palette, typography and spacing"} and nothing else.`

// SystemPresentationHTML steers HTML generation toward a complete standalone
// document.
const SystemPresentationHTML = `You are an expert front-end developer building slide presentations. Respond with one complete standalone HTML document: inline all CSS and JavaScript, start with <!DOCTYPE html>, and include keyboard navigation between slides (arrow keys). No markdown fences, no commentary outside the document.`

// BuildPresentationPrompt assembles the user prompt for generating a
// presentation document from a normalized deck, optionally styled with a
// design library's tokens.
func BuildPresentationPrompt(deckJSON, cssVariables, analysisResult string) string {
	var b strings.Builder
	b.WriteString("Build a slide presentation from this deck structure:\n")
	b.WriteString(deckJSON)
	b.WriteString("\n")
	if cssVariables != "" {
		b.WriteString("\nApply this design system. Use these CSS custom properties verbatim:\n")
		b.WriteString(cssVariables)
		b.WriteString("\n")
	}
	if analysisResult != "" {
		b.WriteString("\nDesign analysis to follow:\n")
		b.WriteString(analysisResult)
		b.WriteString("\n")
	}
	b.WriteString("\nOne <section> per slide, only the first visible initially.")
	return b.String()
}

// BuildImprovePrompt assembles the user prompt for revising an existing
// presentation document per an instruction. The current document is included
// whole so the model returns a full replacement rather than a diff.
func BuildImprovePrompt(currentHTML, instruction string) string {
	return fmt.Sprintf("Here is the current presentation document:\n```html\n%s\n```\n\nRevise it as follows and return the complete updated document: %s", currentHTML, instruction)
}
