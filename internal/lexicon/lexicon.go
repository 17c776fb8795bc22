// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package lexicon holds the fixed vocabularies shared by the scorer and the
// evaluator, together with case-insensitive presence counting.
package lexicon

import (
	"strings"
	"unicode"
)

// Transcendent drives the scorer's depth signal. Three hits saturate it.
var Transcendent = []string{
	"soul", "spirit", "divine", "sacred", "essence", "consciousness",
	"awakening", "transcend", "eternal", "infinite", "higher self", "wisdom",
}

// Spiritual is the authenticity base vocabulary.
var Spiritual = []string{
	"spirit", "soul", "energy", "intuition", "sacred", "wisdom",
	"purpose", "growth", "inner", "alignment", "journey", "presence",
}

// Depth marks reflective, meaning-oriented language.
var Depth = []string{
	"deeper", "profound", "meaning", "essence", "truth",
	"reflection", "understanding", "insight",
}

// InsightVerbs are verbs that frame guidance as discovery.
var InsightVerbs = []string{
	"reveals", "invites", "illuminates", "reminds", "encourages",
	"guides", "awakens", "supports", "asks", "calls",
}

// ActionVerbs are concrete, imperative verbs.
var ActionVerbs = []string{
	"write", "call", "schedule", "start", "choose", "practice",
	"list", "take", "set", "notice", "try", "share", "plan", "begin",
}

// Specificity marks time-bound or measurable phrasing.
var Specificity = []string{
	"today", "this week", "tonight", "this morning", "tomorrow",
	"minutes", "one thing", "right now", "this month", "before bed",
}

// Warm is the grounded brand vocabulary.
var Warm = []string{
	"gentle", "grounded", "steady", "warm", "kind", "patient",
	"honest", "simple", "clear", "trust", "calm", "care",
}

// Ornate is mystical language the brand avoids unless a persona permits it.
var Ornate = []string{
	"celestial", "ethereal", "cosmic", "tapestry", "vibrational",
	"ascended", "mystical", "astral", "luminous", "transcendent",
}

// Blending marks explicit fusion language.
var Blending = []string{
	"combines", "fuses", "integrates", "blends", "weaves",
	"merges", "unites", "bridges",
}

// stopwords are skipped when extracting key terms.
var stopwords = map[string]bool{
	"about": true, "after": true, "again": true, "being": true, "could": true,
	"every": true, "their": true, "there": true, "these": true, "those": true,
	"through": true, "where": true, "which": true, "while": true, "would": true,
	"yourself": true, "other": true, "because": true, "before": true, "should": true,
}

// Count returns how many terms in list occur in text (case-insensitive substring).
func Count(text string, list []string) int {
	lower := strings.ToLower(text)
	n := 0
	for _, term := range list {
		if strings.Contains(lower, strings.ToLower(term)) {
			n++
		}
	}
	return n
}

// Fraction returns Count(text, list) / len(list), or 0 for an empty list.
func Fraction(text string, list []string) float64 {
	if len(list) == 0 {
		return 0
	}
	return float64(Count(text, list)) / float64(len(list))
}

// Scaled multiplies a fraction and caps the result at 1.
func Scaled(fraction, factor float64) float64 {
	return Clamp(fraction * factor)
}

// Clamp limits v to [0,1].
func Clamp(v float64) float64 {
	switch {
	case v < 0:
		return 0
	case v > 1:
		return 1
	default:
		return v
	}
}

// Words splits text into lowercase alphabetic tokens.
func Words(text string) []string {
	return strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && r != '\''
	})
}

// KeyTerms returns the distinct content words (five or more letters, not a
// stopword) of text, in first-seen order.
func KeyTerms(text string) []string {
	seen := make(map[string]bool)
	var terms []string
	for _, w := range Words(text) {
		w = strings.Trim(w, "'")
		if len([]rune(w)) < 5 || stopwords[w] || seen[w] {
			continue
		}
		seen[w] = true
		terms = append(terms, w)
	}
	return terms
}
