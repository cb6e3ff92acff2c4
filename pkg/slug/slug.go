// Copyright (c) 2026 Panelku. All rights reserved.
// Author: hello@panelku.id

// Package slug generates ASCII URL slugs from arbitrary Unicode strings.
//
// # Usage
//
// Slugs identify comics and genres in URLs and in asset folder names
// (e.g. "comics/15-naruto"). Because the folder name is derived from the
// slug, every slug that enters the system passes through [From] exactly
// once, before persistence.
package slug

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// hyphenRuns collapses consecutive hyphens into one.
var hyphenRuns = regexp.MustCompile(`-{2,}`)

// From converts an arbitrary Unicode string into a URL-safe ASCII slug.
//
// # Transformation Pipeline
//
//  1. Decomposes to NFD and strips combining marks (é → e).
//  2. Lowercases the result.
//  3. Replaces every non-alphanumeric rune with a hyphen.
//  4. Collapses hyphen runs and trims leading/trailing hyphens.
//
// Inputs with no usable characters produce the empty string; callers must
// treat that as a validation failure, not a valid slug.
func From(s string) string {
	// Strip accents by decomposing and removing non-spacing marks.
	chain := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	stripped, _, err := transform.String(chain, s)
	if err != nil {
		stripped = s
	}

	lowered := strings.ToLower(stripped)

	// Everything outside [a-z0-9] becomes a hyphen. Non-ASCII letters that
	// survived the accent strip (e.g. CJK) are dropped the same way.
	mapped := strings.Map(func(r rune) rune {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			return r
		}
		return '-'
	}, lowered)

	mapped = hyphenRuns.ReplaceAllString(mapped, "-")
	return strings.Trim(mapped, "-")
}
