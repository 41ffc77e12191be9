// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"deckpress/internal/models"
	"deckpress/internal/pipeline"
	"deckpress/internal/store"
)

// Templates groups prompt template CRUD handlers. Templates are shared
// across the instance for reading; only the owner may modify or delete.
type Templates struct {
	templates *store.TemplateStore
}

// NewTemplates creates a new Templates handler group.
func NewTemplates(templates *store.TemplateStore) *Templates {
	return &Templates{templates: templates}
}

// List returns templates, filtered by the optional "category" and "active"
// query parameters.
func (h *Templates) List(w http.ResponseWriter, r *http.Request) {
	category := models.TemplateCategory(r.URL.Query().Get("category"))
	if category != "" && !models.ValidCategory(category) {
		writeError(w, http.StatusBadRequest, "Unknown template category.")
		return
	}
	activeOnly := r.URL.Query().Get("active") != "false"

	templates, err := h.templates.List(category, activeOnly)
	if err != nil {
		slog.Error("list templates failed", "error", err)
		writeError(w, http.StatusInternalServerError, "An unexpected error occurred.")
		return
	}
	if templates == nil {
		templates = []models.PromptTemplate{}
	}
	writeJSON(w, http.StatusOK, templates)
}

// Get returns a single template by id.
func (h *Templates) Get(w http.ResponseWriter, r *http.Request) {
	tmpl, ok := fetchTemplate(h.templates, w, chi.URLParam(r, "id"))
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, tmpl)
}

type templateRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Body        string `json:"body"`
	Category    string `json:"category"`
	IsActive    *bool  `json:"is_active"`
}

// Create adds a new template owned by the caller. The body must carry
// exactly one substitution point.
func (h *Templates) Create(w http.ResponseWriter, r *http.Request) {
	var req templateRequest
	if err := readJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body.")
		return
	}
	req.Name = strings.TrimSpace(req.Name)

	if msg := validateTemplate(req.Name, req.Description, req.Body); msg != "" {
		writeError(w, http.StatusBadRequest, msg)
		return
	}
	if !pipeline.ValidateTemplateBody(req.Body) {
		writeError(w, http.StatusBadRequest,
			"Template body must contain the "+pipeline.Placeholder+" placeholder exactly once.")
		return
	}

	category := models.TemplateCategory(req.Category)
	if category == "" {
		category = models.CategoryGeneral
	}
	if !models.ValidCategory(category) {
		writeError(w, http.StatusBadRequest, "Unknown template category.")
		return
	}

	existing, err := h.templates.FindByName(req.Name)
	if err != nil {
		slog.Error("template name lookup failed", "error", err)
		writeError(w, http.StatusInternalServerError, "An unexpected error occurred.")
		return
	}
	if existing != nil {
		writeError(w, http.StatusBadRequest, "A template with that name already exists.")
		return
	}

	tmpl, err := h.templates.Create(req.Name, req.Description, req.Body, category, currentSession(r).UserID)
	if err != nil {
		slog.Error("create template failed", "error", err)
		writeError(w, http.StatusInternalServerError, "An unexpected error occurred.")
		return
	}

	slog.Info("template created", "template_id", tmpl.ID, "name", tmpl.Name)
	writeJSON(w, http.StatusCreated, tmpl)
}

// Update modifies a template's body, metadata, and active flag. Only the
// owner may update. Name changes are not supported; the name is the
// template's stable reference.
func (h *Templates) Update(w http.ResponseWriter, r *http.Request) {
	tmpl, ok := fetchTemplate(h.templates, w, chi.URLParam(r, "id"))
	if !ok {
		return
	}
	if tmpl.OwnerID != currentSession(r).UserID {
		writeError(w, http.StatusNotFound, "Template not found or inactive.")
		return
	}

	var req templateRequest
	if err := readJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body.")
		return
	}

	if msg := validateTemplate(tmpl.Name, req.Description, req.Body); msg != "" {
		writeError(w, http.StatusBadRequest, msg)
		return
	}
	if !pipeline.ValidateTemplateBody(req.Body) {
		writeError(w, http.StatusBadRequest,
			"Template body must contain the "+pipeline.Placeholder+" placeholder exactly once.")
		return
	}

	category := tmpl.Category
	if req.Category != "" {
		category = models.TemplateCategory(req.Category)
		if !models.ValidCategory(category) {
			writeError(w, http.StatusBadRequest, "Unknown template category.")
			return
		}
	}
	isActive := tmpl.IsActive
	if req.IsActive != nil {
		isActive = *req.IsActive
	}

	updated, err := h.templates.Update(tmpl.ID, req.Description, req.Body, category, isActive)
	if err != nil {
		slog.Error("update template failed", "error", err)
		writeError(w, http.StatusInternalServerError, "An unexpected error occurred.")
		return
	}
	if updated == nil {
		writeError(w, http.StatusNotFound, "Template not found or inactive.")
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

// Delete removes a template. Only the owner may delete.
func (h *Templates) Delete(w http.ResponseWriter, r *http.Request) {
	tmpl, ok := fetchTemplate(h.templates, w, chi.URLParam(r, "id"))
	if !ok {
		return
	}
	if tmpl.OwnerID != currentSession(r).UserID {
		writeError(w, http.StatusNotFound, "Template not found or inactive.")
		return
	}

	if err := h.templates.Delete(tmpl.ID); err != nil {
		slog.Error("delete template failed", "error", err)
		writeError(w, http.StatusInternalServerError, "An unexpected error occurred.")
		return
	}

	slog.Info("template deleted", "template_id", tmpl.ID, "name", tmpl.Name)
	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}
