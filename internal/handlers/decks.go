// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"log/slog"
	"net/http"

	"deckpress/internal/ai"
	"deckpress/internal/cache"
	"deckpress/internal/models"
	"deckpress/internal/pipeline"
	"deckpress/internal/render"
	"deckpress/internal/secrets"
	"deckpress/internal/store"
)

// Decks groups the text-to-deck structuring endpoints and the local
// preview renderer.
type Decks struct {
	credentialOpener
	templates *store.TemplateStore
	libraries *store.LibraryStore
	invoker   *ai.Client
	deckCache *cache.DeckCache
	renderer  *render.Renderer
}

// NewDecks creates a new Decks handler group.
func NewDecks(users *store.UserStore, templates *store.TemplateStore, libraries *store.LibraryStore,
	invoker *ai.Client, box *secrets.Box, deckCache *cache.DeckCache, renderer *render.Renderer) *Decks {
	return &Decks{
		credentialOpener: credentialOpener{users: users, box: box},
		templates:        templates,
		libraries:        libraries,
		invoker:          invoker,
		deckCache:        deckCache,
		renderer:         renderer,
	}
}

type deckRequest struct {
	Text       string `json:"text"`
	Model      string `json:"model"`
	TemplateID string `json:"template_id,omitempty"`
}

// Create runs the full structuring pipeline: resolve the prompt template,
// invoke the model once, normalize the completion into a canonical deck.
// The result is cached per user for follow-up rendering but not persisted.
func (h *Decks) Create(w http.ResponseWriter, r *http.Request) {
	var req deckRequest
	if err := readJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body.")
		return
	}
	if msg := validateInputText(req.Text); msg != "" {
		writeError(w, http.StatusBadRequest, msg)
		return
	}

	var tmpl *models.PromptTemplate
	if req.TemplateID != "" {
		var ok bool
		if tmpl, ok = fetchTemplate(h.templates, w, req.TemplateID); !ok {
			return
		}
	}

	prompt, err := pipeline.Resolve(tmpl, req.Text)
	if err != nil {
		writePipelineError(w, err)
		return
	}

	apiKey, ok := h.openCredential(w, r)
	if !ok {
		return
	}

	completion, err := h.invoker.Complete(r.Context(), apiKey, req.Model, pipeline.SystemDeck, prompt)
	if err != nil {
		writePipelineError(w, err)
		return
	}

	deck, err := pipeline.NormalizeDeck(completion)
	if err != nil {
		writePipelineError(w, err)
		return
	}

	sess := currentSession(r)
	h.deckCache.Set(r.Context(), sess.UserID, deck)

	slog.Info("deck structured", "user_id", sess.UserID, "slides", deck.TotalSlides, "model", req.Model)
	writeJSON(w, http.StatusOK, deck)
}

// Last returns the caller's most recently structured deck, if still cached.
func (h *Decks) Last(w http.ResponseWriter, r *http.Request) {
	deck := h.deckCache.Get(r.Context(), currentSession(r).UserID)
	if deck == nil {
		writeError(w, http.StatusNotFound, "No recent deck available.")
		return
	}
	writeJSON(w, http.StatusOK, deck)
}

type previewRequest struct {
	Deck            *models.Deck `json:"deck,omitempty"`
	DesignLibraryID string       `json:"design_library_id,omitempty"`
}

// Preview renders a deck into a standalone HTML document locally, without
// a model call. The deck comes from the request body or, when omitted,
// from the caller's cached last deck. An optional design library supplies
// the CSS variables.
func (h *Decks) Preview(w http.ResponseWriter, r *http.Request) {
	var req previewRequest
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

	var css string
	if req.DesignLibraryID != "" {
		lib, ok := h.fetchOwnedLibrary(w, r, req.DesignLibraryID)
		if !ok {
			return
		}
		css = lib.CSSVariables
	}

	html, err := h.renderer.Preview(deck, css)
	if err != nil {
		slog.Error("deck preview failed", "error", err)
		writeError(w, http.StatusInternalServerError, "An unexpected error occurred.")
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write([]byte(html))
}

// fetchOwnedLibrary loads a design library and verifies the caller owns it.
func (h *Decks) fetchOwnedLibrary(w http.ResponseWriter, r *http.Request, id string) (*models.DesignLibrary, bool) {
	lid, err := parseUUID(id)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid design library id.")
		return nil, false
	}
	lib, err := h.libraries.FindByID(lid)
	if err != nil {
		slog.Error("library lookup failed", "error", err)
		writeError(w, http.StatusInternalServerError, "An unexpected error occurred.")
		return nil, false
	}
	if lib == nil || lib.OwnerID != currentSession(r).UserID {
		writeError(w, http.StatusNotFound, "Design library not found.")
		return nil, false
	}
	return lib, true
}
