// Copyright (c) 2026 Critiq. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package slug_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/taibuivan/critiq/pkg/slug"
)

/*
TestFrom verifies the normalization pipeline across character classes.
*/
func TestFrom(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"simple", "Drama", "drama"},
		{"spaces", "Science Fiction", "science-fiction"},
		{"accents", "Café Société", "cafe-societe"},
		{"punctuation", "Rock & Roll!", "rock-roll"},
		{"multiple_separators", "a -- b__c", "a-b-c"},
		{"leading_trailing", "  --movies--  ", "movies"},
		{"already_slug", "sci-fi", "sci-fi"},
		{"digits", "Top 10 of 2026", "top-10-of-2026"},
		{"empty", "", ""},
		{"only_symbols", "!@#$%", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, slug.From(tt.input))
		})
	}
}
