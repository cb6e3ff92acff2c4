// Copyright (c) 2026 Panelku. All rights reserved.
// Author: hello@panelku.id

package slug_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/panelku/panelku/pkg/slug"
)

/*
TestFrom covers the slugify pipeline against titles that occur in practice.
*/
func TestFrom(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"simple_title", "Naruto", "naruto"},
		{"spaces_become_hyphens", "One Punch Man", "one-punch-man"},
		{"accents_stripped", "Crème Brûlée", "creme-brulee"},
		{"punctuation_collapsed", "Dr. STONE: New World!!", "dr-stone-new-world"},
		{"mixed_case_and_digits", "Mob Psycho 100", "mob-psycho-100"},
		{"leading_trailing_junk", "  --Solo Leveling--  ", "solo-leveling"},
		{"already_a_slug", "naruto-renamed", "naruto-renamed"},
		{"only_symbols", "!!!", ""},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, slug.From(tt.input))
		})
	}
}

/*
TestFrom_Idempotent ensures normalizing an existing slug is a no-op, since
update flows re-normalize whatever the caller supplies.
*/
func TestFrom_Idempotent(t *testing.T) {
	inputs := []string{"naruto", "one-punch-man", "mob-psycho-100"}
	for _, in := range inputs {
		assert.Equal(t, in, slug.From(slug.From(in)))
	}
}
