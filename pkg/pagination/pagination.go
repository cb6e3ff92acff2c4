// Copyright (c) 2026 Panelku. All rights reserved.
// Author: hello@panelku.id

// Package pagination provides shared types and helpers for API list endpoints.
//
// # Overview
//
// Pagination is an opt-in extension: the catalog's base contract returns the
// full result set, and only requests that carry an explicit "limit" query
// parameter are paginated. This keeps existing clients of the List endpoint
// unaffected while letting new clients page through large catalogs.
package pagination

import (
	"net/http"
	"strconv"
)

const (
	// MaxLimit is the upper bound for items per page to prevent system abuse.
	MaxLimit = 100
	// DefaultPage is the starting page (1-indexed).
	DefaultPage = 1
)

// Params holds the parsed page and limit from a request's query string.
//
// A Limit of zero means "unlimited": the endpoint returns the full result
// set and omits pagination metadata from the response.
type Params struct {
	Page  int
	Limit int
}

// Enabled reports whether the request opted into pagination.
func (p Params) Enabled() bool {
	return p.Limit > 0
}

// Offset returns the SQL OFFSET value derived from [Page] and [Limit].
func (p Params) Offset() int {
	if !p.Enabled() || p.Page <= 1 {
		return 0
	}
	return (p.Page - 1) * p.Limit
}

// Meta is the pagination metadata included in paginated API list responses.
type Meta struct {
	Page       int `json:"page"`
	Limit      int `json:"limit"`
	Total      int `json:"total"`
	TotalPages int `json:"total_pages"`
}

// NewMeta constructs pagination metadata for a response.
func NewMeta(page, limit, total int) Meta {
	totalPages := 0
	if limit > 0 {
		totalPages = (total + limit - 1) / limit
	}

	return Meta{
		Page:       page,
		Limit:      limit,
		Total:      total,
		TotalPages: totalPages,
	}
}

// FromRequest parses "page" and "limit" query parameters from an HTTP request.
//
// # Clamping
//
// An absent or unparsable "limit" leaves pagination disabled. Present values
// are clamped to [1, MaxLimit]; the page defaults to [DefaultPage].
func FromRequest(r *http.Request) Params {
	page := parseIntParam(r, "page", DefaultPage)
	if page < 1 {
		page = DefaultPage
	}

	limit := parseIntParam(r, "limit", 0)
	if limit < 0 {
		limit = 0
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}

	return Params{Page: page, Limit: limit}
}

// parseIntParam parses a single integer query parameter with a fallback default.
func parseIntParam(r *http.Request, key string, defaultVal int) int {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return defaultVal
	}

	n, err := strconv.Atoi(raw)
	if err != nil {
		return defaultVal
	}

	return n
}
