// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package selection

import (
	"strings"
	"unicode"
)

// MinFragmentLength is the shortest sentence kept by SplitSentences.
const MinFragmentLength = 15

// SplitSentences breaks text at terminal punctuation followed by whitespace
// or end of text. Fragments shorter than MinFragmentLength characters are
// dropped.
func SplitSentences(text string) []string {
	var out []string
	runes := []rune(text)
	start := 0
	for i := 0; i < len(runes); i++ {
		if !isTerminal(runes[i]) {
			continue
		}
		// Absorb runs like "?!" or "..." and a closing quote.
		for i+1 < len(runes) && (isTerminal(runes[i+1]) || runes[i+1] == '"' || runes[i+1] == '\'') {
			i++
		}
		if i+1 < len(runes) && !unicode.IsSpace(runes[i+1]) {
			continue
		}
		out = appendFragment(out, string(runes[start:i+1]))
		start = i + 1
	}
	if start < len(runes) {
		out = appendFragment(out, string(runes[start:]))
	}
	return out
}

func appendFragment(out []string, s string) []string {
	s = strings.TrimSpace(s)
	if len([]rune(s)) < MinFragmentLength {
		return out
	}
	return append(out, s)
}

func isTerminal(r rune) bool {
	return r == '.' || r == '!' || r == '?'
}
