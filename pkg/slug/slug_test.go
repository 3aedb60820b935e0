// Copyright (c) 2026 Lawha. All rights reserved.

package slug_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/lawhahq/lawha/pkg/slug"
)

/*
TestFrom covers the normalization pipeline: accents, casing, punctuation,
and hyphen cleanup.
*/
func TestFrom(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"simple", "Noor Gallery", "noor-gallery"},
		{"accents_removed", "Café d'Été", "cafe-d-ete"},
		{"punctuation_collapsed", "Desert -- Rose!!", "desert-rose"},
		{"leading_trailing_trimmed", "  Riyadh Nights  ", "riyadh-nights"},
		{"digits_kept", "Vision 2030", "vision-2030"},
		{"already_slug", "noor-gallery", "noor-gallery"},
		{"non_latin_dropped", "لوحة", ""},
		{"mixed_scripts", "Desert Rose لوحة", "desert-rose"},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, slug.From(tt.input))
		})
	}
}
