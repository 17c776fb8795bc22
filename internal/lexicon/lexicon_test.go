// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package lexicon

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCount(t *testing.T) {
	tests := []struct {
		name string
		text string
		list []string
		want int
	}{
		{name: "case insensitive", text: "Your SOUL knows", list: []string{"soul"}, want: 1},
		{name: "multi word term", text: "Reach your higher self today", list: []string{"higher self", "today"}, want: 2},
		{name: "substring match", text: "spiritual", list: []string{"spirit"}, want: 1},
		{name: "no match", text: "plain words", list: []string{"soul"}, want: 0},
		{name: "empty list", text: "anything", list: nil, want: 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Count(tt.text, tt.list))
		})
	}
}

func TestFraction(t *testing.T) {
	assert.InDelta(t, 0.5, Fraction("calm and kind", []string{"calm", "kind", "warm", "gentle"}), 1e-9)
	assert.Equal(t, 0.0, Fraction("calm", nil))
}

func TestScaledAndClamp(t *testing.T) {
	assert.Equal(t, 1.0, Scaled(0.5, 3))
	assert.InDelta(t, 0.6, Scaled(0.2, 3), 1e-9)
	assert.Equal(t, 0.0, Clamp(-0.3))
	assert.Equal(t, 1.0, Clamp(1.7))
}

func TestKeyTerms(t *testing.T) {
	got := KeyTerms("Leadership asks courage; leadership rewards those who begin.")
	assert.Equal(t, []string{"leadership", "courage", "rewards", "begin"}, got)
}

func TestWords(t *testing.T) {
	assert.Equal(t, []string{"it's", "a", "new", "day"}, Words("It's a new-day!"))
}
