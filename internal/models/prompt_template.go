// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import (
	"time"

	"github.com/google/uuid"
)

// TemplateCategory groups prompt templates by their intended output.
type TemplateCategory string

const (
	CategoryGeneral      TemplateCategory = "general"
	CategoryPresentation TemplateCategory = "presentation"
	CategoryDocument     TemplateCategory = "document"
	CategoryCustom       TemplateCategory = "custom"
	CategoryDesign       TemplateCategory = "design"
)

// ValidCategory reports whether c is one of the known template categories.
func ValidCategory(c TemplateCategory) bool {
	switch c {
	case CategoryGeneral, CategoryPresentation, CategoryDocument, CategoryCustom, CategoryDesign:
		return true
	}
	return false
}

// PromptTemplate is a reusable instruction template sent to the model.
// The body contains a single {{USER_INPUT}} substitution point where the
// caller's text is inserted by the resolver.
type PromptTemplate struct {
	ID          uuid.UUID        `json:"id"`
	Name        string           `json:"name"`
	Description string           `json:"description"`
	Body        string           `json:"body"`
	Category    TemplateCategory `json:"category"`
	Version     int              `json:"version"`
	IsActive    bool             `json:"is_active"`
	OwnerID     uuid.UUID        `json:"owner_id"`
	CreatedAt   time.Time        `json:"created_at"`
	UpdatedAt   time.Time        `json:"updated_at"`
}
