// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"encoding/base64"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"deckpress/internal/ai"
	"deckpress/internal/imaging"
	"deckpress/internal/models"
	"deckpress/internal/pipeline"
	"deckpress/internal/secrets"
	"deckpress/internal/slug"
	"deckpress/internal/storage"
	"deckpress/internal/store"
)

// Libraries groups design library handlers: screenshot-to-token extraction
// and CRUD over the extracted libraries.
type Libraries struct {
	credentialOpener
	libraries *store.LibraryStore
	templates *store.TemplateStore
	invoker   *ai.Client
	archive   *storage.Client // nil when archival is disabled
}

// NewLibraries creates a new Libraries handler group. archive may be nil.
func NewLibraries(users *store.UserStore, libraries *store.LibraryStore, templates *store.TemplateStore,
	invoker *ai.Client, box *secrets.Box, archive *storage.Client) *Libraries {
	return &Libraries{
		credentialOpener: credentialOpener{users: users, box: box},
		libraries:        libraries,
		templates:        templates,
		invoker:          invoker,
		archive:          archive,
	}
}

type libraryCreateRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	TemplateID  string `json:"template_id"`
	Model       string `json:"model"`
	// Screenshot is the base64-encoded image payload (PNG, JPEG, or WebP).
	Screenshot string `json:"screenshot"`
}

// libraryResponse augments a library with its archived screenshot URL.
type libraryResponse struct {
	models.DesignLibrary
	ScreenshotURL string `json:"screenshot_url,omitempty"`
}

// Create derives a design library from a screenshot: the referenced
// template shapes the extraction prompt, the model analyzes the image, and
// the normalized token pair is persisted. The screenshot is archived when
// object storage is configured.
func (h *Libraries) Create(w http.ResponseWriter, r *http.Request) {
	var req libraryCreateRequest
	if err := readJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body.")
		return
	}
	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		writeError(w, http.StatusBadRequest, "Library name is required.")
		return
	}
	if req.TemplateID == "" {
		writeError(w, http.StatusBadRequest, "A template id is required.")
		return
	}
	if len(req.Screenshot) == 0 || len(req.Screenshot) > maxScreenshotB64Len {
		writeError(w, http.StatusBadRequest, "A screenshot up to 4 MB (base64) is required.")
		return
	}

	tmpl, ok := fetchTemplate(h.templates, w, req.TemplateID)
	if !ok {
		return
	}

	raw, err := base64.StdEncoding.DecodeString(req.Screenshot)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Screenshot is not valid base64.")
		return
	}
	mimeType, err := imaging.ValidateScreenshot(raw)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Screenshot must be a PNG, JPEG, or WebP image up to 4 MB.")
		return
	}

	prompt, err := pipeline.Resolve(tmpl, req.Description)
	if err != nil {
		writePipelineError(w, err)
		return
	}

	apiKey, ok := h.openCredential(w, r)
	if !ok {
		return
	}

	completion, err := h.invoker.CompleteWithImage(r.Context(), apiKey, req.Model,
		pipeline.SystemDesignTokens, prompt, req.Screenshot, mimeType)
	if err != nil {
		writePipelineError(w, err)
		return
	}

	tokens, err := pipeline.NormalizeDesignTokens(completion)
	if err != nil {
		writePipelineError(w, err)
		return
	}

	sess := currentSession(r)

	// Archive before persisting so the stored key is always valid.
	var screenshotKey *string
	if h.archive != nil {
		key := archiveKey(req.Name, mimeType)
		if err := h.archive.Upload(r.Context(), key, mimeType, raw); err != nil {
			// Archival is supporting material; the extraction still counts.
			slog.Warn("screenshot archive failed", "key", key, "error", err)
		} else {
			screenshotKey = &key
		}
	}

	lib, err := h.libraries.Create(req.Name, req.Description,
		tokens.CSSVariables, tokens.AnalysisResult, tmpl.ID, sess.UserID, screenshotKey)
	if err != nil {
		slog.Error("create library failed", "error", err)
		writeError(w, http.StatusInternalServerError, "An unexpected error occurred.")
		return
	}

	slog.Info("design library created", "library_id", lib.ID, "user_id", sess.UserID)
	writeJSON(w, http.StatusCreated, h.withScreenshotURL(r, lib))
}

// List returns the caller's design libraries.
func (h *Libraries) List(w http.ResponseWriter, r *http.Request) {
	libraries, err := h.libraries.ListByOwner(currentSession(r).UserID)
	if err != nil {
		slog.Error("list libraries failed", "error", err)
		writeError(w, http.StatusInternalServerError, "An unexpected error occurred.")
		return
	}

	out := make([]libraryResponse, 0, len(libraries))
	for i := range libraries {
		out = append(out, h.withScreenshotURL(r, &libraries[i]))
	}
	writeJSON(w, http.StatusOK, out)
}

// Get returns a single design library owned by the caller.
func (h *Libraries) Get(w http.ResponseWriter, r *http.Request) {
	lib, ok := h.fetchOwned(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, h.withScreenshotURL(r, lib))
}

type libraryUpdateRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// Update renames a library. The extracted tokens are write-once; only the
// name and description can change.
func (h *Libraries) Update(w http.ResponseWriter, r *http.Request) {
	lib, ok := h.fetchOwned(w, r)
	if !ok {
		return
	}

	var req libraryUpdateRequest
	if err := readJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body.")
		return
	}
	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		writeError(w, http.StatusBadRequest, "Library name is required.")
		return
	}
	if len(req.Name) > maxNameLen || len(req.Description) > maxDescriptionLen {
		writeError(w, http.StatusBadRequest, "Name or description is too long.")
		return
	}

	updated, err := h.libraries.UpdateMeta(lib.ID, req.Name, req.Description)
	if err != nil {
		slog.Error("update library failed", "error", err)
		writeError(w, http.StatusInternalServerError, "An unexpected error occurred.")
		return
	}
	if updated == nil {
		writeError(w, http.StatusNotFound, "Design library not found.")
		return
	}
	writeJSON(w, http.StatusOK, h.withScreenshotURL(r, updated))
}

// Delete removes a library and its archived screenshot.
func (h *Libraries) Delete(w http.ResponseWriter, r *http.Request) {
	lib, ok := h.fetchOwned(w, r)
	if !ok {
		return
	}

	if err := h.libraries.Delete(lib.ID); err != nil {
		slog.Error("delete library failed", "error", err)
		writeError(w, http.StatusInternalServerError, "An unexpected error occurred.")
		return
	}

	if h.archive != nil && lib.ScreenshotKey != nil {
		if err := h.archive.Delete(r.Context(), *lib.ScreenshotKey); err != nil {
			slog.Warn("screenshot delete failed", "key", *lib.ScreenshotKey, "error", err)
		}
	}

	slog.Info("design library deleted", "library_id", lib.ID)
	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

// fetchOwned loads the library from the URL parameter and verifies
// ownership. Other users' libraries read as not found.
func (h *Libraries) fetchOwned(w http.ResponseWriter, r *http.Request) (*models.DesignLibrary, bool) {
	id, err := parseUUID(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid design library id.")
		return nil, false
	}

	lib, err := h.libraries.FindByID(id)
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

// withScreenshotURL attaches a short-lived presigned URL when the library
// has an archived screenshot.
func (h *Libraries) withScreenshotURL(r *http.Request, lib *models.DesignLibrary) libraryResponse {
	resp := libraryResponse{DesignLibrary: *lib}
	if h.archive != nil && lib.ScreenshotKey != nil {
		url, err := h.archive.PresignedURL(r.Context(), *lib.ScreenshotKey, 15*time.Minute)
		if err != nil {
			slog.Warn("screenshot presign failed", "key", *lib.ScreenshotKey, "error", err)
		} else {
			resp.ScreenshotURL = url
		}
	}
	return resp
}

// archiveKey builds a collision-resistant object key from the library name.
func archiveKey(name, mimeType string) string {
	ext := "png"
	switch mimeType {
	case "image/jpeg":
		ext = "jpg"
	case "image/webp":
		ext = "webp"
	}
	s := slug.Generate(name)
	if s == "" {
		s = "screenshot"
	}
	return fmt.Sprintf("screenshots/%s-%s.%s", s, uuid.NewString()[:8], ext)
}
