package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHasOverlap(t *testing.T) {
	tests := []struct {
		name string
		a    string
		b    string
		want bool
	}{
		{"suffixed id", "E1-proc", "E1", true},
		{"no shared material", "ZZZ-999", "E1", false},
		{"punctuation stripped", "web-app", "webapp", true},
		{"case folded", "WEB-APP", "web_app", true},
		{"single substitution", "e1", "e2", true},
		{"uuid against short id", "4a1c9f00-6f5e-4f6e-9f00-000000000000", "E1", false},
		{"empty candidate", "", "E1", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, HasOverlap(tt.a, tt.b, 2, 2))
		})
	}
}

func TestHasOverlapRespectsMinLength(t *testing.T) {
	// "s" is contained in "storage" but a single rune is not enough evidence,
	// and six edits are needed to turn one into the other.
	assert.False(t, HasOverlap("s", "storage", 2, 2))
	assert.True(t, HasOverlap("s", "storage", 1, 2))
}

func TestLevenshtein(t *testing.T) {
	tests := []struct {
		a    string
		b    string
		want int
	}{
		{"", "", 0},
		{"", "abc", 3},
		{"abc", "", 3},
		{"abc", "abc", 0},
		{"kitten", "sitting", 3},
		{"flow1", "flow2", 1},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, levenshtein(tt.a, tt.b), "levenshtein(%q, %q)", tt.a, tt.b)
	}
}
