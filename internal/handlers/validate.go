// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"net/mail"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"
)

// Validation limits for request fields.
const (
	maxNameLen         = 200
	maxDescriptionLen  = 1_000
	maxTemplateBodyLen = 50_000
	maxInputTextLen    = 100_000
	maxHTMLLen         = 2_000_000
	maxInstructionLen  = 5_000
	minPasswordLen     = 10

	// maxScreenshotB64Len caps the base64 text of a screenshot upload.
	maxScreenshotB64Len = 4 << 20
)

// parseUUID wraps uuid.Parse for handler use.
func parseUUID(s string) (uuid.UUID, error) {
	return uuid.Parse(strings.TrimSpace(s))
}

// validateSignup checks signup fields and returns the first error found.
func validateSignup(email, password, name string) string {
	if _, err := mail.ParseAddress(email); err != nil {
		return "A valid email address is required."
	}
	if utf8.RuneCountInString(password) < minPasswordLen {
		return "Password must be at least 10 characters."
	}
	if utf8.RuneCountInString(name) > maxNameLen {
		return "Name is too long (max 200 characters)."
	}
	return ""
}

// validateTemplate checks template fields and returns the first error found.
// Placeholder presence is checked separately by the resolver contract.
func validateTemplate(name, description, body string) string {
	if strings.TrimSpace(name) == "" {
		return "Template name is required."
	}
	if utf8.RuneCountInString(name) > maxNameLen {
		return "Template name is too long (max 200 characters)."
	}
	if utf8.RuneCountInString(description) > maxDescriptionLen {
		return "Description is too long (max 1,000 characters)."
	}
	if strings.TrimSpace(body) == "" {
		return "Template body is required."
	}
	if utf8.RuneCountInString(body) > maxTemplateBodyLen {
		return "Template body is too long (max 50,000 characters)."
	}
	return ""
}

// validateInputText checks the free text submitted for structuring.
func validateInputText(text string) string {
	if strings.TrimSpace(text) == "" {
		return "Input text is required."
	}
	if utf8.RuneCountInString(text) > maxInputTextLen {
		return "Input text is too long (max 100,000 characters)."
	}
	return ""
}

// validateProposal checks proposal fields and returns the first error found.
func validateProposal(name, html string) string {
	if strings.TrimSpace(name) == "" {
		return "Proposal name is required."
	}
	if utf8.RuneCountInString(name) > maxNameLen {
		return "Proposal name is too long (max 200 characters)."
	}
	if strings.TrimSpace(html) == "" {
		return "Proposal HTML is required."
	}
	if len(html) > maxHTMLLen {
		return "Proposal HTML is too large (max 2 MB)."
	}
	return ""
}
