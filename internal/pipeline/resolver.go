// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package pipeline implements the structured-content generation pipeline:
// prompt template resolution, model response validation, and normalization
// into canonical structures. Every function here is a pure, single-pass
// transformation with no network or storage I/O.
package pipeline

import (
	"strings"

	"deckpress/internal/models"
)

// Placeholder is the literal substitution token a prompt template body must
// contain exactly once. The resolver replaces its first occurrence with the
// caller's input text.
const Placeholder = "{{USER_INPUT}}"

// Resolve produces the final prompt string from an optional template and the
// caller's input. A nil template selects the embedded default deck template.
// An inactive template is treated the same as a missing one. No escaping of
// any kind is performed; the input is inserted literally.
func Resolve(tmpl *models.PromptTemplate, input string) (string, error) {
	body := DefaultDeckTemplate
	if tmpl != nil {
		if !tmpl.IsActive {
			return "", ErrTemplateNotFound
		}
		body = tmpl.Body
	}
	return strings.Replace(body, Placeholder, input, 1), nil
}

// ValidateTemplateBody checks that a template body carries exactly one
// substitution point. Used by the template CRUD handlers at write time so
// the resolver never sees a malformed body.
func ValidateTemplateBody(body string) bool {
	return strings.Count(body, Placeholder) == 1
}
