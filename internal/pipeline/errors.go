// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package pipeline

import "errors"

var (
	// ErrTemplateNotFound is returned when a template reference does not
	// resolve to an existing, active prompt template.
	ErrTemplateNotFound = errors.New("pipeline: template not found or inactive")

	// ErrMalformedOutput is returned when a completion that should be JSON
	// cannot be parsed at all.
	ErrMalformedOutput = errors.New("pipeline: model output is not valid JSON")

	// ErrSchemaViolation is returned when the parsed output is valid JSON
	// but is missing required fields or carries them with the wrong kind.
	ErrSchemaViolation = errors.New("pipeline: model output violates expected schema")

	// ErrEmptyResult is returned when normalization succeeds structurally
	// but a required canonical field is empty.
	ErrEmptyResult = errors.New("pipeline: normalized result is empty")
)
