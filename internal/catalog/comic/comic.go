// Copyright (c) 2026 Panelku. All rights reserved.
// Author: hello@panelku.id

/*
Package comic defines the core domain entities for the Panelku catalog.

It manages the lifecycle of serialized publications (Manga, Manhwa, Manhua)
including metadata, genre association, chapter organization, and the storage
folder that holds each comic's image assets.

Core Responsibility:

  - Catalog: Defines publication statuses (Ongoing, Completed) and types.
  - Assets: Owns the slug-driven folder naming scheme (comics/{id}-{slug})
    and keeps persisted image paths consistent across renames.
  - Discovery: Supports filtered, eager-loaded listing for the public API.

This package acts as the source of truth for all content-related data models.
*/
package comic

import "time"

// # Domain Enums

// Status represents the publication status of a comic.
type Status string

const (
	// StatusOngoing indicates the publication is actively updating.
	StatusOngoing Status = "ongoing"

	// StatusCompleted indicates no further chapters are expected.
	StatusCompleted Status = "completed"
)

// IsValid reports whether s is a recognised [Status] value.
func (s Status) IsValid() bool {
	switch s {
	case
		StatusOngoing,
		StatusCompleted:
		return true
	}
	return false
}

// Type classifies the publication's origin and reading format.
type Type string

const (
	// TypeManga is a Japanese-origin publication.
	TypeManga Type = "manga"

	// TypeManhwa is a Korean-origin publication.
	TypeManhwa Type = "manhwa"

	// TypeManhua is a Chinese-origin publication.
	TypeManhua Type = "manhua"
)

// IsValid reports whether t is a recognised [Type] value.
func (t Type) IsValid() bool {
	switch t {
	case
		TypeManga,
		TypeManhwa,
		TypeManhua:
		return true
	}
	return false
}

// # Core Entities

// Comic is the central aggregate of the Panelku domain.
// It represents a single serialized publication in the catalog.
type Comic struct {
	ID       int64  `json:"id"`
	Title    string `json:"title"`
	Slug     string `json:"slug"` // URL-safe identifier, unique among non-deleted comics
	Author   string `json:"author"`
	Status   Status `json:"status"`
	Type     Type   `json:"type"`
	Synopsis string `json:"synopsis"`

	// CoverImage is the storage path of the cover asset
	// (comics/{id}-{slug}/cover.{ext}), or the "pending" sentinel between
	// the row insert and the asset placement.
	CoverImage string `json:"cover_image"`

	Genres   []Genre   `json:"genres"`
	Chapters []Chapter `json:"chapters,omitempty"`

	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
	DeletedAt *time.Time `json:"-"` // nil = active; non-nil = soft-deleted
}

// Genre represents a genre classifier attached to a [Comic].
type Genre struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
	Slug string `json:"slug"`
}

// # Search & Filtering

// Filter holds the parameters for a filtered comic list query.
// All fields are independently optional and combine with logical AND.
type Filter struct {
	Search    string `json:"search,omitempty"` // Case-insensitive substring match on title
	Status    Status `json:"status,omitempty"`
	Type      Type   `json:"type,omitempty"`
	GenreSlug string `json:"genre,omitempty"` // Membership by genre slug
}

// # Field Identifiers

// Global field names for validation and dynamic query mapping.
const (
	FieldID         = "id"
	FieldTitle      = "title"
	FieldSlug       = "slug"
	FieldAuthor     = "author"
	FieldStatus     = "status"
	FieldType       = "type"
	FieldSynopsis   = "synopsis"
	FieldCoverImage = "cover_image"
	FieldGenreIDs   = "genres"
	FieldCover      = "cover"
)

// Field identifiers for the [Chapter] domain.
const (
	FieldChapterNumber = "number"
	FieldChapterTitle  = "title"
	FieldChapterSlug   = "slug"
)
