// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"deckpress/internal/models"
)

const proposalHTML = "<!DOCTYPE html><html><body><h1>Offer</h1></body></html>"

func TestProposalCreate_Validation(t *testing.T) {
	env := newTestEnv(t)
	_, sess := testUser(t, env, uniqueEmail("prop-val"))

	req := jsonRequest(t, http.MethodPost, "/api/proposals", map[string]string{
		"name": "  ",
		"html": proposalHTML,
	}, sess)
	rec := httptest.NewRecorder()
	env.Proposals.Create(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("blank name: got %d, want 400", rec.Code)
	}

	req = jsonRequest(t, http.MethodPost, "/api/proposals", map[string]string{
		"name": "No Document",
		"html": "",
	}, sess)
	rec = httptest.NewRecorder()
	env.Proposals.Create(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("blank html: got %d, want 400", rec.Code)
	}
}

func TestProposalLifecycleWithViewTracking(t *testing.T) {
	env := newTestEnv(t)
	_, sess := testUser(t, env, uniqueEmail("prop-life"))

	// Create.
	req := jsonRequest(t, http.MethodPost, "/api/proposals", map[string]string{
		"name": "Spring Offer",
		"html": proposalHTML,
	}, sess)
	rec := httptest.NewRecorder()
	env.Proposals.Create(rec, req)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create status: got %d, want 201 (body: %s)", rec.Code, rec.Body.String())
	}

	var created models.Proposal
	decodeBody(t, rec, &created)
	if len(created.ShareToken) != 32 {
		t.Errorf("share token length: got %d, want 32", len(created.ShareToken))
	}
	if created.ViewCount != 0 {
		t.Errorf("fresh proposal view count: got %d, want 0", created.ViewCount)
	}

	// Two anonymous visits through the share page.
	for i := 0; i < 2; i++ {
		req = httptest.NewRequest(http.MethodGet, "/p/"+created.ShareToken, nil)
		req.RemoteAddr = "203.0.113.7:4444"
		req = withChiURLParam(req, "token", created.ShareToken)
		rec = httptest.NewRecorder()
		env.Proposals.Public(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("public view %d: got %d, want 200", i, rec.Code)
		}
		if !strings.Contains(rec.Body.String(), "<h1>Offer</h1>") {
			t.Error("expected proposal HTML on the share page")
		}
	}

	// Owner detail shows the derived count and the event log.
	req = withChiURLParam(jsonRequest(t, http.MethodGet, "/api/proposals/"+created.ID.String(), nil, sess), "id", created.ID.String())
	rec = httptest.NewRecorder()
	env.Proposals.Get(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("get status: got %d, want 200 (body: %s)", rec.Code, rec.Body.String())
	}

	var detail struct {
		models.Proposal
		Views []models.ProposalView `json:"views"`
	}
	decodeBody(t, rec, &detail)
	if detail.ViewCount != 2 {
		t.Errorf("view count: got %d, want 2", detail.ViewCount)
	}
	if len(detail.Views) != 2 {
		t.Fatalf("view log: got %d entries, want 2", len(detail.Views))
	}
	if detail.Views[0].IPAddress != "203.0.113.7" {
		t.Errorf("view ip: got %q", detail.Views[0].IPAddress)
	}
	if detail.Views[0].Location == "" {
		t.Error("expected a location value, even if unknown")
	}

	// List includes it with the count.
	req = jsonRequest(t, http.MethodGet, "/api/proposals", nil, sess)
	rec = httptest.NewRecorder()
	env.Proposals.List(rec, req)
	var listed []models.Proposal
	decodeBody(t, rec, &listed)
	var found bool
	for _, p := range listed {
		if p.ID == created.ID && p.ViewCount == 2 {
			found = true
		}
	}
	if !found {
		t.Error("expected proposal with derived view count in list")
	}

	// Delete ends the sharing.
	req = withChiURLParam(jsonRequest(t, http.MethodDelete, "/api/proposals/"+created.ID.String(), nil, sess), "id", created.ID.String())
	rec = httptest.NewRecorder()
	env.Proposals.Delete(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("delete status: got %d, want 200", rec.Code)
	}

	req = withChiURLParam(httptest.NewRequest(http.MethodGet, "/p/"+created.ShareToken, nil), "token", created.ShareToken)
	rec = httptest.NewRecorder()
	env.Proposals.Public(rec, req)
	if rec.Code != http.StatusNotFound {
		t.Errorf("public after delete: got %d, want 404", rec.Code)
	}
}

func TestProposalGet_OtherUsersReadAsNotFound(t *testing.T) {
	env := newTestEnv(t)
	owner, _ := testUser(t, env, uniqueEmail("prop-owner"))
	_, otherSess := testUser(t, env, uniqueEmail("prop-other"))

	p, err := env.ProposalStore.Create("Private Offer", proposalHTML, owner.ID)
	if err != nil {
		t.Fatalf("create proposal: %v", err)
	}
	t.Cleanup(func() { env.DB.Exec("DELETE FROM proposals WHERE id = $1", p.ID) })

	req := withChiURLParam(jsonRequest(t, http.MethodGet, "/api/proposals/"+p.ID.String(), nil, otherSess), "id", p.ID.String())
	rec := httptest.NewRecorder()
	env.Proposals.Get(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Errorf("status: got %d, want 404", rec.Code)
	}
}

func TestProposalPublic_UnknownToken(t *testing.T) {
	env := newTestEnv(t)

	req := withChiURLParam(httptest.NewRequest(http.MethodGet, "/p/deadbeef", nil), "token", "deadbeef")
	rec := httptest.NewRecorder()
	env.Proposals.Public(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Errorf("status: got %d, want 404", rec.Code)
	}
}
