// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"deckpress/internal/models"
)

// LibraryStore handles design library database operations.
type LibraryStore struct {
	db *sql.DB
}

// NewLibraryStore creates a new LibraryStore with the given database connection.
func NewLibraryStore(db *sql.DB) *LibraryStore {
	return &LibraryStore{db: db}
}

const libraryColumns = `id, name, description, css_variables, analysis_result, template_id, owner_id, screenshot_key, created_at, updated_at`

func scanLibrary(row interface{ Scan(...any) error }) (*models.DesignLibrary, error) {
	l := &models.DesignLibrary{}
	err := row.Scan(
		&l.ID, &l.Name, &l.Description, &l.CSSVariables, &l.AnalysisResult,
		&l.TemplateID, &l.OwnerID, &l.ScreenshotKey, &l.CreatedAt, &l.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return l, nil
}

// ListByOwner returns all design libraries owned by a user, newest first.
func (s *LibraryStore) ListByOwner(ownerID uuid.UUID) ([]models.DesignLibrary, error) {
	rows, err := s.db.Query(`
		SELECT `+libraryColumns+` FROM design_libraries
		WHERE owner_id = $1 ORDER BY created_at DESC
	`, ownerID)
	if err != nil {
		return nil, fmt.Errorf("list libraries: %w", err)
	}
	defer rows.Close()

	var libraries []models.DesignLibrary
	for rows.Next() {
		l, err := scanLibrary(rows)
		if err != nil {
			return nil, fmt.Errorf("scan library: %w", err)
		}
		libraries = append(libraries, *l)
	}
	return libraries, rows.Err()
}

// FindByID retrieves a design library by UUID. Returns nil if not found.
func (s *LibraryStore) FindByID(id uuid.UUID) (*models.DesignLibrary, error) {
	l, err := scanLibrary(s.db.QueryRow(`
		SELECT `+libraryColumns+` FROM design_libraries WHERE id = $1
	`, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find library by id: %w", err)
	}
	return l, nil
}

// Create persists a normalized design-token extraction as a library.
// screenshotKey may be nil when archival is disabled.
func (s *LibraryStore) Create(name, description, cssVariables, analysisResult string, templateID, ownerID uuid.UUID, screenshotKey *string) (*models.DesignLibrary, error) {
	l, err := scanLibrary(s.db.QueryRow(`
		INSERT INTO design_libraries (name, description, css_variables, analysis_result, template_id, owner_id, screenshot_key)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING `+libraryColumns+`
	`, name, description, cssVariables, analysisResult, templateID, ownerID, screenshotKey))
	if err != nil {
		return nil, fmt.Errorf("create library: %w", err)
	}
	return l, nil
}

// UpdateMeta renames a library and updates its description. The extracted
// tokens themselves are immutable; re-extraction creates a new library.
func (s *LibraryStore) UpdateMeta(id uuid.UUID, name, description string) (*models.DesignLibrary, error) {
	l, err := scanLibrary(s.db.QueryRow(`
		UPDATE design_libraries
		SET name = $1, description = $2, updated_at = NOW()
		WHERE id = $3
		RETURNING `+libraryColumns+`
	`, name, description, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("update library: %w", err)
	}
	return l, nil
}

// Delete removes a design library by ID.
func (s *LibraryStore) Delete(id uuid.UUID) error {
	_, err := s.db.Exec(`DELETE FROM design_libraries WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete library: %w", err)
	}
	return nil
}
