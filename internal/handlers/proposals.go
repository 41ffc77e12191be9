// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"deckpress/internal/geo"
	"deckpress/internal/middleware"
	"deckpress/internal/models"
	"deckpress/internal/store"
)

// Proposals groups the shareable-document handlers: CRUD for owners and
// the public token-resolving page with view tracking.
type Proposals struct {
	proposals *store.ProposalStore
	geo       *geo.Client
}

// NewProposals creates a new Proposals handler group.
func NewProposals(proposals *store.ProposalStore, geoClient *geo.Client) *Proposals {
	return &Proposals{proposals: proposals, geo: geoClient}
}

type proposalCreateRequest struct {
	Name string `json:"name"`
	HTML string `json:"html"`
}

// Create persists an HTML proposal and mints its share token.
func (h *Proposals) Create(w http.ResponseWriter, r *http.Request) {
	var req proposalCreateRequest
	if err := readJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body.")
		return
	}
	if msg := validateProposal(req.Name, req.HTML); msg != "" {
		writeError(w, http.StatusBadRequest, msg)
		return
	}

	sess := currentSession(r)
	p, err := h.proposals.Create(strings.TrimSpace(req.Name), req.HTML, sess.UserID)
	if err != nil {
		slog.Error("create proposal failed", "error", err)
		writeError(w, http.StatusInternalServerError, "An unexpected error occurred.")
		return
	}

	slog.Info("proposal created", "proposal_id", p.ID, "user_id", sess.UserID)
	writeJSON(w, http.StatusCreated, p)
}

// List returns the caller's proposals with derived view counts.
func (h *Proposals) List(w http.ResponseWriter, r *http.Request) {
	proposals, err := h.proposals.ListByOwner(currentSession(r).UserID)
	if err != nil {
		slog.Error("list proposals failed", "error", err)
		writeError(w, http.StatusInternalServerError, "An unexpected error occurred.")
		return
	}
	if proposals == nil {
		proposals = []models.Proposal{}
	}
	writeJSON(w, http.StatusOK, proposals)
}

// proposalDetail is a proposal plus its view event log.
type proposalDetail struct {
	models.Proposal
	Views []models.ProposalView `json:"views"`
}

// Get returns one of the caller's proposals with its full view log.
func (h *Proposals) Get(w http.ResponseWriter, r *http.Request) {
	p, ok := h.fetchOwned(w, r)
	if !ok {
		return
	}

	views, err := h.proposals.ListViews(p.ID)
	if err != nil {
		slog.Error("list proposal views failed", "error", err)
		writeError(w, http.StatusInternalServerError, "An unexpected error occurred.")
		return
	}
	if views == nil {
		views = []models.ProposalView{}
	}
	writeJSON(w, http.StatusOK, proposalDetail{Proposal: *p, Views: views})
}

// Delete removes one of the caller's proposals.
func (h *Proposals) Delete(w http.ResponseWriter, r *http.Request) {
	p, ok := h.fetchOwned(w, r)
	if !ok {
		return
	}

	if err := h.proposals.Delete(p.ID); err != nil {
		slog.Error("delete proposal failed", "error", err)
		writeError(w, http.StatusInternalServerError, "An unexpected error occurred.")
		return
	}

	slog.Info("proposal deleted", "proposal_id", p.ID)
	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

// Public serves a proposal's HTML by share token, without authentication.
// Every successful resolution appends a view event; the geo lookup is
// best-effort and never blocks or aborts the page.
func (h *Proposals) Public(w http.ResponseWriter, r *http.Request) {
	token := chi.URLParam(r, "token")

	p, err := h.proposals.FindByToken(token)
	if err != nil {
		slog.Error("proposal token lookup failed", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	if p == nil {
		http.NotFound(w, r)
		return
	}

	ip := middleware.ClientIP(r)
	location := geo.Unknown
	if h.geo != nil {
		location = h.geo.Lookup(r.Context(), ip)
	}
	if err := h.proposals.RecordView(p.ID, ip, location); err != nil {
		// The viewer still gets the page; only the analytics write failed.
		slog.Error("record proposal view failed", "proposal_id", p.ID, "error", err)
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write([]byte(p.HTML))
}

// fetchOwned loads the proposal from the URL parameter and verifies
// ownership. Other users' proposals read as not found.
func (h *Proposals) fetchOwned(w http.ResponseWriter, r *http.Request) (*models.Proposal, bool) {
	id, err := parseUUID(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid proposal id.")
		return nil, false
	}

	p, err := h.proposals.FindByID(id)
	if err != nil {
		slog.Error("proposal lookup failed", "error", err)
		writeError(w, http.StatusInternalServerError, "An unexpected error occurred.")
		return nil, false
	}
	if p == nil || p.OwnerID != currentSession(r).UserID {
		writeError(w, http.StatusNotFound, "Proposal not found.")
		return nil, false
	}
	return p, true
}
