// Copyright (c) 2026 Critiq. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package catalog

import "time"

// Category classifies a title by medium (e.g. "Films", "Books", "Music").
//
// # Identity
//
// Categories are addressed by slug in the public API; the numeric ID is an
// internal storage detail and never appears in URLs.
type Category struct {
	ID   int64  `json:"-"`
	Name string `json:"name"`
	Slug string `json:"slug"`
}

// Genre is a thematic label attached to titles (e.g. "science-fiction").
//
// A title may carry any number of genres; genres exist independently of the
// titles referencing them.
type Genre struct {
	ID   int64  `json:"-"`
	Name string `json:"name"`
	Slug string `json:"slug"`
}

// Title is the central aggregate of the Critiq domain.
//
// # Overview
//
// It represents a single reviewable work in the catalog. Titles never store
// a rating column: the Rating field is computed from review scores at read
// time by the [Aggregator] and is nil when the title has no reviews yet.
type Title struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Year        int      `json:"year"` // First release year.
	Description *string  `json:"description"`
	Category    *Category `json:"category"` // nil when the category was removed.
	Genres      []Genre  `json:"genres"`

	// Rating is the arithmetic mean of all review scores (1..10 scale).
	// nil means the title has not been reviewed yet.
	Rating *float64 `json:"rating"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TitleFilter holds the parameters for a filtered title list query.
//
// All fields are optional; zero values mean "no constraint".
type TitleFilter struct {
	CategorySlug string // Exact match on the category slug.
	GenreSlug    string // Titles carrying the genre with this slug.
	Name         string // Case-insensitive substring match on the title name.
	Year         *int   // Exact release year.
}
