// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package render

import (
	"strings"
	"testing"

	"deckpress/internal/models"
)

func testDeck() *models.Deck {
	return &models.Deck{
		Title:       "Q1 Update",
		TotalSlides: 2,
		Slides: []models.Slide{
			{ID: "s1", Title: "Q1 Update", Content: "A quarter in review", Type: models.SlideTypeTitle},
			{ID: "s2", Title: "Revenue", Content: "Grew **20%**", Type: models.SlideTypeBullet, Bullets: []string{"EU up", "US flat"}},
		},
	}
}

func TestPreview(t *testing.T) {
	r, err := New()
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	out, err := r.Preview(testDeck(), "")
	if err != nil {
		t.Fatalf("Preview: %v", err)
	}

	if !strings.HasPrefix(out, "<!DOCTYPE html>") {
		t.Error("preview should be a standalone document")
	}
	for _, fragment := range []string{
		"<title>Q1 Update</title>",
		`data-slide-id="s1"`,
		`data-slide-id="s2"`,
		"<strong>20%</strong>",
		"<li>EU up</li>",
		"type-title",
		"ArrowRight",
	} {
		if !strings.Contains(out, fragment) {
			t.Errorf("preview missing %q", fragment)
		}
	}

	// Only the first slide starts visible.
	if n := strings.Count(out, ` active"`); n != 1 {
		t.Errorf("exactly one slide should start active, found %d", n)
	}
}

func TestPreview_AppliesDesignVariables(t *testing.T) {
	r, err := New()
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	css := ":root { --deck-bg: #fffbeb; --deck-accent: #b45309; }"
	out, err := r.Preview(testDeck(), css)
	if err != nil {
		t.Fatalf("Preview: %v", err)
	}
	if !strings.Contains(out, "--deck-bg: #fffbeb") {
		t.Error("library CSS variables should be embedded in the document")
	}
}

func TestPreview_EscapesSlideTitles(t *testing.T) {
	r, err := New()
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	deck := &models.Deck{
		Title:       "T",
		TotalSlides: 1,
		Slides:      []models.Slide{{ID: "s1", Title: `<script>alert(1)</script>`, Type: models.SlideTypeContent}},
	}
	out, err := r.Preview(deck, "")
	if err != nil {
		t.Fatalf("Preview: %v", err)
	}
	if strings.Contains(out, "<script>alert(1)</script>") {
		t.Error("slide titles must be HTML-escaped")
	}
}
