// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import (
	"time"

	"github.com/google/uuid"
)

// Proposal is a stored HTML document shared via an unguessable token.
// The share token is generated at creation and never changes. ViewCount
// is derived from the proposal_views event log, not stored as a mutable
// counter.
type Proposal struct {
	ID         uuid.UUID `json:"id"`
	Name       string    `json:"name"`
	HTML       string    `json:"html"`
	ShareToken string    `json:"share_token"`
	OwnerID    uuid.UUID `json:"owner_id"`
	ViewCount  int       `json:"view_count"`
	CreatedAt  time.Time `json:"created_at"`
}

// ProposalView records a single resolution of a share token.
// Location is best-effort ("unknown" when the geo lookup fails).
type ProposalView struct {
	ID         uuid.UUID `json:"id"`
	ProposalID uuid.UUID `json:"proposal_id"`
	IPAddress  string    `json:"ip_address"`
	Location   string    `json:"location"`
	ViewedAt   time.Time `json:"viewed_at"`
}
