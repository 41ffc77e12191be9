// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package pipeline

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"deckpress/internal/models"
)

// DesignTokens is the canonical shape of a normalized design-token extraction.
type DesignTokens struct {
	CSSVariables   string `json:"cssVariables"`
	AnalysisResult string `json:"analysisResult"`
}

// StripFences removes a surrounding markdown code fence (```html ... ``` or
// ``` ... ```) from a completion, returning the trimmed inner content.
// Completions without fences pass through unchanged apart from whitespace
// trimming.
func StripFences(response string) string {
	response = strings.TrimSpace(response)

	if strings.HasPrefix(response, "```") {
		// Drop the opening fence line, language tag included.
		firstNewline := strings.Index(response, "\n")
		if firstNewline != -1 {
			response = response[firstNewline+1:]
		}
		if idx := strings.LastIndex(response, "```"); idx != -1 {
			response = response[:idx]
		}
	}

	return strings.TrimSpace(response)
}

// NormalizeDeck parses a completion into a canonical Deck. The raw text may
// be fenced. A top-level title is accepted under "title" or
// "presentationTitle". Each slide gets a synthesized id when the model omits
// one, and an omitted slide type defaults to content. The slide count is
// always recomputed from the slides actually present; any count the model
// reports is ignored.
func NormalizeDeck(raw string) (*models.Deck, error) {
	var root map[string]json.RawMessage
	if err := json.Unmarshal([]byte(StripFences(raw)), &root); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedOutput, err)
	}

	title, err := deckTitle(root)
	if err != nil {
		return nil, err
	}

	slidesRaw, ok := root["slides"]
	if !ok {
		return nil, fmt.Errorf("%w: missing slides", ErrSchemaViolation)
	}
	var rawSlides []rawSlide
	if err := json.Unmarshal(slidesRaw, &rawSlides); err != nil {
		return nil, fmt.Errorf("%w: slides is not a sequence of slide objects", ErrSchemaViolation)
	}
	if len(rawSlides) == 0 {
		return nil, fmt.Errorf("%w: deck has no slides", ErrEmptyResult)
	}

	deck := &models.Deck{
		Title:  title,
		Slides: make([]models.Slide, 0, len(rawSlides)),
	}
	for _, rs := range rawSlides {
		s := models.Slide{
			ID:          rs.ID,
			Title:       rs.Title,
			Content:     rs.Content,
			Type:        models.SlideType(rs.Type),
			Bullets:     rs.Bullets,
			ImagePrompt: rs.ImagePrompt,
		}
		if s.ID == "" {
			s.ID = uuid.NewString()
		}
		if s.Type == "" {
			s.Type = models.SlideTypeContent
		}
		deck.Slides = append(deck.Slides, s)
	}
	deck.TotalSlides = len(deck.Slides)
	return deck, nil
}

// deckTitle extracts the deck title from either accepted field name.
func deckTitle(root map[string]json.RawMessage) (string, error) {
	for _, key := range []string{"title", "presentationTitle"} {
		rawTitle, ok := root[key]
		if !ok {
			continue
		}
		var title string
		if err := json.Unmarshal(rawTitle, &title); err != nil {
			return "", fmt.Errorf("%w: %s is not a string", ErrSchemaViolation, key)
		}
		if title != "" {
			return title, nil
		}
	}
	return "", fmt.Errorf("%w: missing title", ErrSchemaViolation)
}

type rawSlide struct {
	ID          string   `json:"id"`
	Title       string   `json:"title"`
	Content     string   `json:"content"`
	Type        string   `json:"type"`
	Bullets     []string `json:"bullets"`
	ImagePrompt string   `json:"imagePrompt"`
}

// tokenVariant pairs the alternate field names models use when returning a
// design-token extraction. Earlier entries win when several are present.
var tokenVariants = []struct {
	cssKey      string
	analysisKey string
}{
	{"cssVariables", "analysisResult"},
	{"css", "implementationNote"},
	{"variables", "analysis"},
}

// NormalizeDesignTokens parses a design-token completion into the canonical
// {cssVariables, analysisResult} pair. Models return the pair under several
// known field names; all are recognized and reshaped. A non-string analysis
// value is coerced into its indented JSON text form.
func NormalizeDesignTokens(raw string) (*DesignTokens, error) {
	var root map[string]json.RawMessage
	if err := json.Unmarshal([]byte(StripFences(raw)), &root); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedOutput, err)
	}

	for _, v := range tokenVariants {
		cssRaw, ok := root[v.cssKey]
		if !ok {
			continue
		}
		var css string
		if err := json.Unmarshal(cssRaw, &css); err != nil {
			return nil, fmt.Errorf("%w: %s is not a string", ErrSchemaViolation, v.cssKey)
		}

		analysis, err := coerceText(root[v.analysisKey])
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %v", ErrSchemaViolation, v.analysisKey, err)
		}

		if css == "" || analysis == "" {
			return nil, fmt.Errorf("%w: design tokens incomplete", ErrEmptyResult)
		}
		return &DesignTokens{CSSVariables: css, AnalysisResult: analysis}, nil
	}

	return nil, fmt.Errorf("%w: no recognized design-token fields", ErrSchemaViolation)
}

// coerceText renders a JSON value as text: strings pass through, anything
// else is re-serialized with two-space indentation.
func coerceText(raw json.RawMessage) (string, error) {
	if len(raw) == 0 {
		return "", nil
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s, nil
	}
	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		return "", err
	}
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return "", err
	}
	return string(b), nil
}
