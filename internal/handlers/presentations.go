// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"deckpress/internal/ai"
	"deckpress/internal/cache"
	"deckpress/internal/models"
	"deckpress/internal/pipeline"
	"deckpress/internal/secrets"
	"deckpress/internal/store"
)

// Presentations groups the model-backed HTML generation endpoints:
// deck-to-document, one-shot text-to-document, and iterative improvement.
type Presentations struct {
	credentialOpener
	libraries *store.LibraryStore
	invoker   *ai.Client
	deckCache *cache.DeckCache
}

// NewPresentations creates a new Presentations handler group.
func NewPresentations(users *store.UserStore, libraries *store.LibraryStore,
	invoker *ai.Client, box *secrets.Box, deckCache *cache.DeckCache) *Presentations {
	return &Presentations{
		credentialOpener: credentialOpener{users: users, box: box},
		libraries:        libraries,
		invoker:          invoker,
		deckCache:        deckCache,
	}
}

type generateRequest struct {
	Deck            *models.Deck `json:"deck,omitempty"`
	Model           string       `json:"model"`
	DesignLibraryID string       `json:"design_library_id,omitempty"`
}

type htmlResponse struct {
	HTML string `json:"html"`
}

// Generate turns a structured deck into a complete standalone presentation
// document, optionally styled with a design library's tokens. The deck
// comes from the request body or the caller's cached last deck.
func (h *Presentations) Generate(w http.ResponseWriter, r *http.Request) {
	var req generateRequest
	if err := readJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body.")
		return
	}

	deck := req.Deck
	if deck == nil {
		deck = h.deckCache.Get(r.Context(), currentSession(r).UserID)
	}
	if deck == nil || len(deck.Slides) == 0 {
		writeError(w, http.StatusBadRequest, "A deck is required: supply one or structure text first.")
		return
	}
	deck.TotalSlides = len(deck.Slides)

	css, analysis, ok := h.libraryTokens(w, r, req.DesignLibraryID)
	if !ok {
		return
	}

	deckJSON, err := json.Marshal(deck)
	if err != nil {
		slog.Error("deck marshal failed", "error", err)
		writeError(w, http.StatusInternalServerError, "An unexpected error occurred.")
		return
	}

	h.complete(w, r, req.Model, pipeline.BuildPresentationPrompt(string(deckJSON), css, analysis))
}

type oneshotRequest struct {
	Text            string `json:"text"`
	Model           string `json:"model"`
	DesignLibraryID string `json:"design_library_id,omitempty"`
}

// Oneshot produces a presentation document directly from prose, skipping
// the intermediate structured deck.
func (h *Presentations) Oneshot(w http.ResponseWriter, r *http.Request) {
	var req oneshotRequest
	if err := readJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body.")
		return
	}
	if msg := validateInputText(req.Text); msg != "" {
		writeError(w, http.StatusBadRequest, msg)
		return
	}

	css, analysis, ok := h.libraryTokens(w, r, req.DesignLibraryID)
	if !ok {
		return
	}

	var b strings.Builder
	b.WriteString("Build a slide presentation from this text:\n")
	b.WriteString(req.Text)
	b.WriteString("\n")
	if css != "" {
		b.WriteString("\nApply this design system. Use these CSS custom properties verbatim:\n")
		b.WriteString(css)
		b.WriteString("\n")
	}
	if analysis != "" {
		b.WriteString("\nDesign analysis to follow:\n")
		b.WriteString(analysis)
		b.WriteString("\n")
	}

	h.complete(w, r, req.Model, b.String())
}

type improveRequest struct {
	HTML   string `json:"html"`
	Prompt string `json:"prompt"`
	Model  string `json:"model"`
}

// Improve revises an existing presentation document per an instruction and
// returns the complete replacement document.
func (h *Presentations) Improve(w http.ResponseWriter, r *http.Request) {
	var req improveRequest
	if err := readJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body.")
		return
	}
	if strings.TrimSpace(req.HTML) == "" || len(req.HTML) > maxHTMLLen {
		writeError(w, http.StatusBadRequest, "A presentation document up to 2 MB is required.")
		return
	}
	if strings.TrimSpace(req.Prompt) == "" || len(req.Prompt) > maxInstructionLen {
		writeError(w, http.StatusBadRequest, "An improvement instruction up to 5,000 characters is required.")
		return
	}

	h.complete(w, r, req.Model, pipeline.BuildImprovePrompt(req.HTML, req.Prompt))
}

// complete runs the shared invoke-and-strip tail of every generation
// endpoint: one model call, fence stripping, free-text passthrough.
func (h *Presentations) complete(w http.ResponseWriter, r *http.Request, model, userPrompt string) {
	apiKey, ok := h.openCredential(w, r)
	if !ok {
		return
	}

	completion, err := h.invoker.Complete(r.Context(), apiKey, model, pipeline.SystemPresentationHTML, userPrompt)
	if err != nil {
		writePipelineError(w, err)
		return
	}

	html := pipeline.StripFences(completion)
	if html == "" {
		writePipelineError(w, pipeline.ErrEmptyResult)
		return
	}

	slog.Info("presentation generated", "user_id", currentSession(r).UserID, "model", model, "bytes", len(html))
	writeJSON(w, http.StatusOK, htmlResponse{HTML: html})
}

// libraryTokens resolves an optional design library reference into its
// token pair, verifying ownership.
func (h *Presentations) libraryTokens(w http.ResponseWriter, r *http.Request, id string) (css, analysis string, ok bool) {
	if id == "" {
		return "", "", true
	}

	lid, err := parseUUID(id)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid design library id.")
		return "", "", false
	}
	lib, err := h.libraries.FindByID(lid)
	if err != nil {
		slog.Error("library lookup failed", "error", err)
		writeError(w, http.StatusInternalServerError, "An unexpected error occurred.")
		return "", "", false
	}
	if lib == nil || lib.OwnerID != currentSession(r).UserID {
		writeError(w, http.StatusNotFound, "Design library not found.")
		return "", "", false
	}
	return lib.CSSVariables, lib.AnalysisResult, true
}
