// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"database/sql"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"deckpress/internal/models"
)

// TemplateStore handles prompt template database operations.
type TemplateStore struct {
	db *sql.DB
}

// NewTemplateStore creates a new TemplateStore with the given database connection.
func NewTemplateStore(db *sql.DB) *TemplateStore {
	return &TemplateStore{db: db}
}

const templateColumns = `id, name, description, body, category, version, is_active, owner_id, created_at, updated_at`

func scanTemplate(row interface{ Scan(...any) error }) (*models.PromptTemplate, error) {
	t := &models.PromptTemplate{}
	err := row.Scan(
		&t.ID, &t.Name, &t.Description, &t.Body, &t.Category,
		&t.Version, &t.IsActive, &t.OwnerID, &t.CreatedAt, &t.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return t, nil
}

// List returns templates, optionally filtered by category and active state.
// Pass an empty category to list all; pass activeOnly=false to include
// deactivated templates.
func (s *TemplateStore) List(category models.TemplateCategory, activeOnly bool) ([]models.PromptTemplate, error) {
	query := `SELECT ` + templateColumns + ` FROM prompt_templates`
	var conds []string
	var args []any

	if category != "" {
		args = append(args, category)
		conds = append(conds, fmt.Sprintf("category = $%d", len(args)))
	}
	if activeOnly {
		conds = append(conds, "is_active = TRUE")
	}
	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}
	query += " ORDER BY name ASC"

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("list templates: %w", err)
	}
	defer rows.Close()

	var templates []models.PromptTemplate
	for rows.Next() {
		t, err := scanTemplate(rows)
		if err != nil {
			return nil, fmt.Errorf("scan template: %w", err)
		}
		templates = append(templates, *t)
	}
	return templates, rows.Err()
}

// FindByID retrieves a template by UUID. Returns nil if not found.
func (s *TemplateStore) FindByID(id uuid.UUID) (*models.PromptTemplate, error) {
	t, err := scanTemplate(s.db.QueryRow(`
		SELECT `+templateColumns+` FROM prompt_templates WHERE id = $1
	`, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find template by id: %w", err)
	}
	return t, nil
}

// FindByName retrieves a template by its unique name. Returns nil if not found.
func (s *TemplateStore) FindByName(name string) (*models.PromptTemplate, error) {
	t, err := scanTemplate(s.db.QueryRow(`
		SELECT `+templateColumns+` FROM prompt_templates WHERE name = $1
	`, name))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find template by name: %w", err)
	}
	return t, nil
}

// Create inserts a new template. Template names are unique across the
// instance; a duplicate name surfaces as a database constraint error.
func (s *TemplateStore) Create(name, description, body string, category models.TemplateCategory, ownerID uuid.UUID) (*models.PromptTemplate, error) {
	t, err := scanTemplate(s.db.QueryRow(`
		INSERT INTO prompt_templates (name, description, body, category, owner_id)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING `+templateColumns+`
	`, name, description, body, category, ownerID))
	if err != nil {
		return nil, fmt.Errorf("create template: %w", err)
	}
	return t, nil
}

// Update modifies a template's body and metadata, bumping its version.
func (s *TemplateStore) Update(id uuid.UUID, description, body string, category models.TemplateCategory, isActive bool) (*models.PromptTemplate, error) {
	t, err := scanTemplate(s.db.QueryRow(`
		UPDATE prompt_templates
		SET description = $1, body = $2, category = $3, is_active = $4,
		    version = version + 1, updated_at = NOW()
		WHERE id = $5
		RETURNING `+templateColumns+`
	`, description, body, category, isActive, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("update template: %w", err)
	}
	return t, nil
}

// Delete removes a template by ID.
func (s *TemplateStore) Delete(id uuid.UUID) error {
	_, err := s.db.Exec(`DELETE FROM prompt_templates WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete template: %w", err)
	}
	return nil
}
