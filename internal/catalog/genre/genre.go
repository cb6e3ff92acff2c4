// Copyright (c) 2026 Panelku. All rights reserved.
// Author: hello@panelku.id

// Package genre implements the genre registry: the controlled vocabulary
// that comics reference for classification.
//
// # Architecture
//
// The package follows the standard vertical slice: entity, service, HTTP
// handler, and a Postgres repository. The full genre list is small and
// read-heavy, so it is cached as a single Redis entry that every write
// invalidates.
package genre

import "time"

// # Entity

// Genre is a single classification label. Names are unique across the
// registry; slugs are derived from the name unless supplied explicitly.
type Genre struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Slug      string    `json:"slug"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// # Field Names

// Field identifiers used in validation error details.
const (
	FieldName = "name"
	FieldSlug = "slug"
)
