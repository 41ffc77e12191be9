// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package database

import (
	"database/sql"
	"fmt"
	"log/slog"

	"golang.org/x/crypto/bcrypt"
)

// Seed populates the database with initial development data.
// It creates a default user and a pair of starter prompt templates if the
// users table is empty. The user will be prompted to set up 2FA on first
// login (totp_enabled = false).
func Seed(db *sql.DB) error {
	var count int
	if err := db.QueryRow("SELECT COUNT(*) FROM users").Scan(&count); err != nil {
		return fmt.Errorf("seed check users: %w", err)
	}

	if count > 0 {
		slog.Info("database already seeded, skipping")
		return nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte("letmein-dev"), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("seed bcrypt: %w", err)
	}

	var userID string
	err = db.QueryRow(`
		INSERT INTO users (email, name, password_hash, totp_enabled)
		VALUES ($1, $2, $3, $4)
		RETURNING id
	`, "dev@deckpress.local", "Dev", string(hash), false).Scan(&userID)
	if err != nil {
		return fmt.Errorf("seed insert user: %w", err)
	}

	// Starter templates so the structuring and extraction endpoints work
	// out of the box. Each body carries exactly one input placeholder.
	templates := []struct {
		name, description, body, category string
	}{
		{
			name:        "Standard Presentation",
			description: "General-purpose slide structuring for prose input.",
			body: "Structure the following text into a slide presentation. " +
				"Prefer short bullet points over paragraphs and open with a title slide.\n\n{{USER_INPUT}}",
			category: "presentation",
		},
		{
			name:        "Design Extraction",
			description: "Derives design tokens from a product screenshot.",
			body: "Analyze the attached screenshot and extract its design system. " +
				"Additional context from the user:\n\n{{USER_INPUT}}",
			category: "design",
		},
	}

	for _, t := range templates {
		_, err := db.Exec(`
			INSERT INTO prompt_templates (name, description, body, category, owner_id)
			VALUES ($1, $2, $3, $4, $5)
		`, t.name, t.description, t.body, t.category, userID)
		if err != nil {
			return fmt.Errorf("seed insert template %q: %w", t.name, err)
		}
	}

	slog.Info("database seeded with default user",
		"email", "dev@deckpress.local",
		"password", "letmein-dev",
	)

	return nil
}
