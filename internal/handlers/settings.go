// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"log/slog"
	"net/http"
	"strings"

	"deckpress/internal/ai"
	"deckpress/internal/secrets"
	"deckpress/internal/store"
)

// Settings groups the credential configuration handlers. The credential
// is sealed at rest and never returned in plaintext from a read path.
type Settings struct {
	users   *store.UserStore
	invoker *ai.Client
	box     *secrets.Box
}

// NewSettings creates a new Settings handler group.
func NewSettings(users *store.UserStore, invoker *ai.Client, box *secrets.Box) *Settings {
	return &Settings{users: users, invoker: invoker, box: box}
}

type credentialStatus struct {
	Configured bool     `json:"configured"`
	Models     []string `json:"models"`
}

// GetCredential reports whether a credential is on file and which model
// selectors it can be used with. The key itself is never returned.
func (h *Settings) GetCredential(w http.ResponseWriter, r *http.Request) {
	sess := currentSession(r)

	user, err := h.users.FindByID(sess.UserID)
	if err != nil || user == nil {
		writeError(w, http.StatusInternalServerError, "An unexpected error occurred.")
		return
	}

	writeJSON(w, http.StatusOK, credentialStatus{
		Configured: user.HasCredential(),
		Models:     ai.Models(),
	})
}

type credentialUpdateRequest struct {
	APIKey string `json:"api_key"`
}

// PutCredential verifies a new API key against the remote model service
// and seals it for storage. A key the service rejects is never saved.
func (h *Settings) PutCredential(w http.ResponseWriter, r *http.Request) {
	var req credentialUpdateRequest
	if err := readJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body.")
		return
	}
	req.APIKey = strings.TrimSpace(req.APIKey)
	if req.APIKey == "" {
		writeError(w, http.StatusBadRequest, "An API key is required.")
		return
	}

	if err := h.invoker.VerifyCredential(r.Context(), req.APIKey); err != nil {
		writePipelineError(w, err)
		return
	}

	envelope, err := h.box.Seal(req.APIKey)
	if err != nil {
		slog.Error("credential seal failed", "error", err)
		writeError(w, http.StatusInternalServerError, "An unexpected error occurred.")
		return
	}

	sess := currentSession(r)
	if err := h.users.SetAPIKeyEnvelope(sess.UserID, &envelope); err != nil {
		slog.Error("credential save failed", "error", err)
		writeError(w, http.StatusInternalServerError, "An unexpected error occurred.")
		return
	}

	slog.Info("credential updated", "user_id", sess.UserID)
	writeJSON(w, http.StatusOK, credentialStatus{Configured: true, Models: ai.Models()})
}

// DeleteCredential removes the stored credential.
func (h *Settings) DeleteCredential(w http.ResponseWriter, r *http.Request) {
	sess := currentSession(r)

	if err := h.users.SetAPIKeyEnvelope(sess.UserID, nil); err != nil {
		slog.Error("credential clear failed", "error", err)
		writeError(w, http.StatusInternalServerError, "An unexpected error occurred.")
		return
	}

	slog.Info("credential removed", "user_id", sess.UserID)
	writeJSON(w, http.StatusOK, credentialStatus{Configured: false, Models: ai.Models()})
}
