// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

// SlideType tags a slide with its layout role. The tag constrains which
// optional fields are meaningful: Bullets for bullet/mixed slides,
// ImagePrompt for image/mixed slides. Mismatched combinations are kept
// as-is rather than dropped.
type SlideType string

const (
	SlideTypeTitle   SlideType = "title"
	SlideTypeContent SlideType = "content"
	SlideTypeBullet  SlideType = "bullet"
	SlideTypeImage   SlideType = "image"
	SlideTypeMixed   SlideType = "mixed"
)

// Slide is a single entry in a generated deck. Slides are not persisted
// independently; they exist only inside a Deck.
type Slide struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Content     string    `json:"content"`
	Type        SlideType `json:"type"`
	Bullets     []string  `json:"bullets,omitempty"`
	ImagePrompt string    `json:"imagePrompt,omitempty"`
}

// Deck is the ephemeral structured result of the text-to-deck pipeline.
// TotalSlides is always recomputed from len(Slides); a count supplied by
// the model is never trusted.
type Deck struct {
	Title       string  `json:"title"`
	TotalSlides int     `json:"totalSlides"`
	Slides      []Slide `json:"slides"`
}
