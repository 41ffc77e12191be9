// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import (
	"time"

	"github.com/google/uuid"
)

// DesignLibrary stores a design-token set extracted from a screenshot.
// CSSVariables and AnalysisResult are write-once outputs of the model
// invocation; only Name and Description are editable afterwards.
type DesignLibrary struct {
	ID             uuid.UUID `json:"id"`
	Name           string    `json:"name"`
	Description    string    `json:"description"`
	CSSVariables   string    `json:"css_variables"`
	AnalysisResult string    `json:"analysis_result"`
	TemplateID     uuid.UUID `json:"template_id"`
	OwnerID        uuid.UUID `json:"owner_id"`
	ScreenshotKey  *string   `json:"-"` // S3 key of the archived source image, if storage is configured
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}
