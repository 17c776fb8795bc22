// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package persona

// axisEntry describes one axis value: the keywords the scorer matches and a
// short phrase the composer interpolates.
type axisEntry struct {
	keywords []string
	phrase   string
}

var axisTable = map[int]axisEntry{
	1:  {keywords: []string{"lead", "begin", "independ", "initiative", "courage", "pioneer", "start", "self"}, phrase: "leadership and new beginnings"},
	2:  {keywords: []string{"partner", "balance", "harmony", "patience", "cooperat", "listen", "sensitiv", "peace"}, phrase: "partnership and quiet balance"},
	3:  {keywords: []string{"create", "express", "joy", "voice", "play", "imagin", "share", "communicat"}, phrase: "creative expression and joy"},
	4:  {keywords: []string{"build", "structure", "discipline", "foundation", "order", "steady", "work", "plan"}, phrase: "steady foundations and disciplined work"},
	5:  {keywords: []string{"change", "freedom", "adventure", "curious", "explore", "adapt", "move", "variety"}, phrase: "freedom and meaningful change"},
	6:  {keywords: []string{"care", "home", "family", "nurtur", "responsib", "heal", "love", "serve"}, phrase: "care, home, and responsibility"},
	7:  {keywords: []string{"reflect", "inner", "study", "solitude", "truth", "question", "quiet", "wisdom"}, phrase: "reflection and inner wisdom"},
	8:  {keywords: []string{"power", "ambition", "abundance", "achieve", "authority", "goal", "resource", "success"}, phrase: "ambition and grounded abundance"},
	9:  {keywords: []string{"complet", "release", "compassion", "forgive", "humanit", "give", "close", "let go"}, phrase: "completion and compassionate release"},
	11: {keywords: []string{"intuition", "inspire", "vision", "light", "sensitiv", "illuminat", "insight", "spirit"}, phrase: "intuition and inspired vision"},
	22: {keywords: []string{"master", "build", "vision", "legacy", "practical", "large", "structure", "manifest"}, phrase: "building a lasting vision"},
	33: {keywords: []string{"teach", "compassion", "heal", "serve", "uplift", "guide", "love", "devotion"}, phrase: "compassionate teaching and service"},
}

// AxisKeywords returns the keyword list for an axis value, or nil when the
// value is not in the table.
func AxisKeywords(axis int) []string {
	return axisTable[axis].keywords
}

// AxisPhrase returns the descriptive phrase for an axis value. Unknown
// values get a neutral phrase so composition never fails.
func AxisPhrase(axis int) string {
	if e, ok := axisTable[axis]; ok {
		return e.phrase
	}
	return "the path in front of you"
}

// KnownAxes returns every axis value in the table in ascending order.
func KnownAxes() []int {
	return []int{1, 2, 3, 4, 5, 6, 7, 8, 9, 11, 22, 33}
}
