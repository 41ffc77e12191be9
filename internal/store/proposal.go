// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"crypto/rand"
	"database/sql"
	"encoding/hex"
	"fmt"

	"github.com/google/uuid"

	"deckpress/internal/models"
)

// shareTokenBytes is the entropy of a proposal share token
// (16 bytes = 32 hex chars).
const shareTokenBytes = 16

// ProposalStore handles proposal and view-tracking database operations.
type ProposalStore struct {
	db *sql.DB
}

// NewProposalStore creates a new ProposalStore with the given database connection.
func NewProposalStore(db *sql.DB) *ProposalStore {
	return &ProposalStore{db: db}
}

const proposalColumns = `id, name, html, share_token, owner_id, created_at`

func scanProposal(row interface{ Scan(...any) error }) (*models.Proposal, error) {
	p := &models.Proposal{}
	err := row.Scan(&p.ID, &p.Name, &p.HTML, &p.ShareToken, &p.OwnerID, &p.CreatedAt)
	if err != nil {
		return nil, err
	}
	return p, nil
}

// Create persists a proposal with a freshly generated share token.
func (s *ProposalStore) Create(name, html string, ownerID uuid.UUID) (*models.Proposal, error) {
	token, err := generateShareToken()
	if err != nil {
		return nil, fmt.Errorf("generate share token: %w", err)
	}

	p, err := scanProposal(s.db.QueryRow(`
		INSERT INTO proposals (name, html, share_token, owner_id)
		VALUES ($1, $2, $3, $4)
		RETURNING `+proposalColumns+`
	`, name, html, token, ownerID))
	if err != nil {
		return nil, fmt.Errorf("create proposal: %w", err)
	}
	return p, nil
}

// ListByOwner returns a user's proposals, newest first, each with its
// derived view count.
func (s *ProposalStore) ListByOwner(ownerID uuid.UUID) ([]models.Proposal, error) {
	rows, err := s.db.Query(`
		SELECT p.id, p.name, p.html, p.share_token, p.owner_id, p.created_at,
		       COUNT(v.id) AS view_count
		FROM proposals p
		LEFT JOIN proposal_views v ON v.proposal_id = p.id
		WHERE p.owner_id = $1
		GROUP BY p.id
		ORDER BY p.created_at DESC
	`, ownerID)
	if err != nil {
		return nil, fmt.Errorf("list proposals: %w", err)
	}
	defer rows.Close()

	var proposals []models.Proposal
	for rows.Next() {
		var p models.Proposal
		if err := rows.Scan(
			&p.ID, &p.Name, &p.HTML, &p.ShareToken, &p.OwnerID, &p.CreatedAt, &p.ViewCount,
		); err != nil {
			return nil, fmt.Errorf("scan proposal: %w", err)
		}
		proposals = append(proposals, p)
	}
	return proposals, rows.Err()
}

// FindByID retrieves a proposal by UUID with its derived view count.
// Returns nil if not found.
func (s *ProposalStore) FindByID(id uuid.UUID) (*models.Proposal, error) {
	p := &models.Proposal{}
	err := s.db.QueryRow(`
		SELECT p.id, p.name, p.html, p.share_token, p.owner_id, p.created_at,
		       COUNT(v.id) AS view_count
		FROM proposals p
		LEFT JOIN proposal_views v ON v.proposal_id = p.id
		WHERE p.id = $1
		GROUP BY p.id
	`, id).Scan(&p.ID, &p.Name, &p.HTML, &p.ShareToken, &p.OwnerID, &p.CreatedAt, &p.ViewCount)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find proposal by id: %w", err)
	}
	return p, nil
}

// FindByToken retrieves a proposal by its share token. Returns nil if not
// found. This is the public lookup path; it never exposes the owner's other
// proposals.
func (s *ProposalStore) FindByToken(token string) (*models.Proposal, error) {
	p, err := scanProposal(s.db.QueryRow(`
		SELECT `+proposalColumns+` FROM proposals WHERE share_token = $1
	`, token))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find proposal by token: %w", err)
	}
	return p, nil
}

// RecordView appends a view event for a proposal. The event log is
// append-only; counts are always derived from it.
func (s *ProposalStore) RecordView(proposalID uuid.UUID, ipAddress, location string) error {
	_, err := s.db.Exec(`
		INSERT INTO proposal_views (proposal_id, ip_address, location)
		VALUES ($1, $2, $3)
	`, proposalID, ipAddress, location)
	if err != nil {
		return fmt.Errorf("record proposal view: %w", err)
	}
	return nil
}

// ViewCount derives the number of views from the event log.
func (s *ProposalStore) ViewCount(proposalID uuid.UUID) (int, error) {
	var count int
	err := s.db.QueryRow(`
		SELECT COUNT(*) FROM proposal_views WHERE proposal_id = $1
	`, proposalID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count proposal views: %w", err)
	}
	return count, nil
}

// ListViews returns a proposal's view events, newest first.
func (s *ProposalStore) ListViews(proposalID uuid.UUID) ([]models.ProposalView, error) {
	rows, err := s.db.Query(`
		SELECT id, proposal_id, ip_address, location, viewed_at
		FROM proposal_views
		WHERE proposal_id = $1
		ORDER BY viewed_at DESC
	`, proposalID)
	if err != nil {
		return nil, fmt.Errorf("list proposal views: %w", err)
	}
	defer rows.Close()

	var views []models.ProposalView
	for rows.Next() {
		var v models.ProposalView
		if err := rows.Scan(&v.ID, &v.ProposalID, &v.IPAddress, &v.Location, &v.ViewedAt); err != nil {
			return nil, fmt.Errorf("scan proposal view: %w", err)
		}
		views = append(views, v)
	}
	return views, rows.Err()
}

// Delete removes a proposal by ID. Its view events cascade.
func (s *ProposalStore) Delete(id uuid.UUID) error {
	_, err := s.db.Exec(`DELETE FROM proposals WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete proposal: %w", err)
	}
	return nil
}

// generateShareToken creates a cryptographically random URL-safe token.
func generateShareToken() (string, error) {
	b := make([]byte, shareTokenBytes)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}
