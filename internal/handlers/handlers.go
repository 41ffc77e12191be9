// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package handlers implements the JSON HTTP API: account and session
// endpoints, prompt template CRUD, the structured-generation endpoints
// (decks, presentations, design libraries), and proposal sharing.
package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"deckpress/internal/ai"
	"deckpress/internal/middleware"
	"deckpress/internal/models"
	"deckpress/internal/pipeline"
	"deckpress/internal/secrets"
	"deckpress/internal/session"
	"deckpress/internal/store"
)

// credentialHint is appended to credential failures so the user knows where
// to fix them.
const credentialHint = "Configure a valid API credential in your settings."

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// writeError writes a JSON error body with the given status code.
func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

// readJSON decodes a request body into dst, rejecting unknown payloads
// larger than 8 MiB (screenshot uploads are the largest legitimate bodies).
func readJSON(r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(nil, r.Body, 8<<20)
	dec := json.NewDecoder(r.Body)
	if err := dec.Decode(dst); err != nil {
		return fmt.Errorf("decode request body: %w", err)
	}
	return nil
}

// writePipelineError maps generation pipeline failures onto HTTP statuses:
// client-attributable failures (bad model, bad credential, bad template)
// become 4xx, upstream and model-shape failures become 5xx. The remote
// error detail is surfaced where safe; the credential never is.
func writePipelineError(w http.ResponseWriter, err error) {
	var upstream *ai.UpstreamError

	switch {
	case errors.Is(err, pipeline.ErrTemplateNotFound):
		writeError(w, http.StatusNotFound, "Template not found or inactive.")
	case errors.Is(err, ai.ErrInvalidModel):
		writeError(w, http.StatusBadRequest, "Unknown model selector.")
	case errors.Is(err, ai.ErrInvalidCredential):
		writeError(w, http.StatusBadRequest, "Invalid API credential. "+credentialHint)
	case errors.As(err, &upstream):
		slog.Error("model service error", "status", upstream.Status, "body", upstream.Body)
		writeError(w, http.StatusBadGateway,
			fmt.Sprintf("Model service rejected the request (status %d).", upstream.Status))
	case errors.Is(err, ai.ErrEmptyCompletion):
		writeError(w, http.StatusBadGateway, "Model returned an empty completion.")
	case errors.Is(err, pipeline.ErrMalformedOutput):
		writeError(w, http.StatusBadGateway, "Model output was not valid JSON.")
	case errors.Is(err, pipeline.ErrSchemaViolation):
		writeError(w, http.StatusBadGateway, "Model output did not match the expected structure.")
	case errors.Is(err, pipeline.ErrEmptyResult):
		writeError(w, http.StatusBadGateway, "Model output was empty after normalization.")
	default:
		slog.Error("pipeline failure", "error", err)
		writeError(w, http.StatusInternalServerError, "An unexpected error occurred.")
	}
}

// currentSession returns the authenticated session. Handlers behind
// RequireAuth can rely on it being non-nil.
func currentSession(r *http.Request) *session.Data {
	return middleware.SessionFromCtx(r.Context())
}

// credentialOpener loads a user's sealed API credential and opens it just
// before use. Embedded by every handler group that invokes the model.
type credentialOpener struct {
	users *store.UserStore
	box   *secrets.Box
}

// openCredential returns the caller's plaintext API key, or writes the
// appropriate error response and returns false. The plaintext never leaves
// the request that needed it.
func (c *credentialOpener) openCredential(w http.ResponseWriter, r *http.Request) (string, bool) {
	sess := currentSession(r)

	user, err := c.users.FindByID(sess.UserID)
	if err != nil {
		slog.Error("credential lookup failed", "error", err)
		writeError(w, http.StatusInternalServerError, "An unexpected error occurred.")
		return "", false
	}
	if user == nil || !user.HasCredential() {
		writeError(w, http.StatusBadRequest, "No API credential on file. "+credentialHint)
		return "", false
	}

	apiKey, err := c.box.Open(*user.APIKeyEnvelope)
	if err != nil {
		slog.Error("credential unseal failed", "user_id", user.ID, "error", err)
		writeError(w, http.StatusBadRequest, "Stored API credential is unreadable. "+credentialHint)
		return "", false
	}
	return apiKey, true
}

// ownedTemplate fetches a template and verifies it exists. Template reads
// are instance-wide (names are unique across the instance); writes check
// ownership at the call site.
func fetchTemplate(templates *store.TemplateStore, w http.ResponseWriter, id string) (*models.PromptTemplate, bool) {
	tid, err := parseUUID(id)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid template id.")
		return nil, false
	}
	tmpl, err := templates.FindByID(tid)
	if err != nil {
		slog.Error("template lookup failed", "error", err)
		writeError(w, http.StatusInternalServerError, "An unexpected error occurred.")
		return nil, false
	}
	if tmpl == nil {
		writeError(w, http.StatusNotFound, "Template not found or inactive.")
		return nil, false
	}
	return tmpl, true
}
