// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package persona

func builtinProfiles() []Profile {
	return []Profile{sageProfile(), coachProfile(), mysticProfile(), philosopherProfile()}
}

func sageProfile() Profile {
	return Profile{
		ID:       "sage",
		Markers:  []string{"wisdom", "patience", "understand", "season", "trust", "grounded", "listen", "inner"},
		Keywords: []string{"wisdom", "patience", "trust", "understanding", "season", "inner", "grounded", "growth"},
		Phrases:  []string{"in its own time", "quiet strength", "the wisdom of", "you already know", "steady path"},
		Heuristics: Heuristics{
			PenalizeBenediction: true,
			PenalizeOrnate:      true,
			MaxSentences:        2,
		},
		Templates: []Template{
			{Name: "sage-reflection", Sentences: 2, Body: "Your focus on {{.Focus}} meets {{.Realm}}. {{.S1}} {{.S2}}"},
			{Name: "sage-season", Sentences: 3, Body: "This season asks for {{.Focus}}. {{.S1}} {{.S2}} Held within {{.Realm}}, {{.S3}}"},
			{Name: "sage-bridge", Sentences: 2, Body: "{{.S1}} Where {{.Focus}} meets {{.Realm}}, {{.S2}}"},
			{Name: "sage-quiet-strength", Sentences: 3, Body: "There is quiet strength in {{.Focus}}, even amid {{.Realm}}. {{.S1}} {{.S2}} {{.S3}}"},
			{Name: "sage-two-paths", Sentences: 4, Body: "{{.S1}} {{.S2}} Meanwhile, {{.Realm}} keeps teaching what {{.Focus}} began. {{.S3}} {{.S4}}"},
			{Name: "sage-already-know", Sentences: 2, Body: "You already know the wisdom of {{.Focus}} and {{.Realm}}. {{.S1}} {{.S2}}"},
			{Name: "sage-steady-path", Sentences: 3, Body: "A steady path runs through {{.Focus}} and {{.Realm}}. {{.S1}} {{.S2}} {{.S3}}"},
			{Name: "sage-own-time", Sentences: 2, Body: "{{.S1}} In its own time, {{.Realm}} will show the gifts of {{.Focus}}. {{.S2}}"},
			{Name: "sage-weave", Sentences: 4, Body: "Today weaves {{.Focus}} with {{.Realm}}. {{.S1}} {{.S2}} {{.S3}} {{.S4}}"},
			{Name: "sage-closing", Sentences: 3, Body: "{{.S1}} {{.S2}} Let {{.Focus}} guide you, and let {{.Realm}} steady you. {{.S3}}"},
		},
	}
}

func coachProfile() Profile {
	return Profile{
		ID:       "coach",
		Markers:  []string{"you", "today", "step", "action", "goal", "plan", "try", "commit"},
		Keywords: []string{"step", "action", "goal", "today", "plan", "commit", "progress", "focus"},
		Phrases:  []string{"one small step", "this week", "start with", "make a plan", "take action"},
		Heuristics: Heuristics{
			ActionBonus:         true,
			PenalizeBenediction: true,
			PenalizeOrnate:      true,
			MaxSentences:        2,
		},
		Templates: []Template{
			{Name: "coach-game-plan", Sentences: 3, Body: "Game plan: lean into {{.Focus}} and practice {{.Realm}}. {{.S1}} {{.S2}} {{.S3}}"},
			{Name: "coach-one-step", Sentences: 2, Body: "Start with one small step toward {{.Focus}} in {{.Realm}}. {{.S1}} {{.S2}}"},
			{Name: "coach-this-week", Sentences: 3, Body: "This week, combine {{.Focus}} with {{.Realm}}. {{.S1}} {{.S2}} {{.S3}}"},
			{Name: "coach-action", Sentences: 2, Body: "{{.S1}} Take action on {{.Focus}} where {{.Realm}} shows up. {{.S2}}"},
			{Name: "coach-focus", Sentences: 4, Body: "Focus: {{.Focus}}. Arena: {{.Realm}}. {{.S1}} {{.S2}} {{.S3}} {{.S4}}"},
			{Name: "coach-commit", Sentences: 2, Body: "Commit to {{.Focus}} today and to {{.Realm}} this week. {{.S1}} {{.S2}}"},
			{Name: "coach-make-a-plan", Sentences: 3, Body: "Make a plan that integrates {{.Focus}} and {{.Realm}}. {{.S1}} {{.S2}} {{.S3}}"},
			{Name: "coach-progress", Sentences: 2, Body: "{{.S1}} {{.S2}} Progress in {{.Realm}} comes from steady reps of {{.Focus}}."},
			{Name: "coach-checklist", Sentences: 4, Body: "{{.S1}} {{.S2}} Next, bring {{.Focus}} into {{.Realm}}. {{.S3}} {{.S4}}"},
			{Name: "coach-reset", Sentences: 3, Body: "Reset, start with {{.Focus}}, then carry it into {{.Realm}}. {{.S1}} {{.S2}} {{.S3}}"},
		},
	}
}

func mysticProfile() Profile {
	return Profile{
		ID:            "mystic",
		Markers:       []string{"energy", "soul", "spirit", "sacred", "light", "intuition", "cosmic", "universe"},
		Keywords:      []string{"energy", "soul", "spirit", "sacred", "light", "intuition", "universe", "alignment"},
		Phrases:       []string{"the universe", "your soul", "sacred space", "divine timing", "inner light"},
		OrnateAllowed: true,
		Heuristics: Heuristics{
			MaxSentences: 2,
		},
		Templates: []Template{
			{Name: "mystic-currents", Sentences: 3, Body: "The energy of {{.Focus}} flows into {{.Realm}}. {{.S1}} {{.S2}} {{.S3}}"},
			{Name: "mystic-soul-call", Sentences: 2, Body: "Your soul calls for {{.Focus}} within {{.Realm}}. {{.S1}} {{.S2}}"},
			{Name: "mystic-sacred-space", Sentences: 3, Body: "{{.S1}} In sacred space, {{.Realm}} awakens to {{.Focus}}. {{.S2}} {{.S3}}"},
			{Name: "mystic-divine-timing", Sentences: 2, Body: "Divine timing blends {{.Focus}} with {{.Realm}}. {{.S1}} {{.S2}}"},
			{Name: "mystic-inner-light", Sentences: 4, Body: "Your inner light carries {{.Focus}} into {{.Realm}}. {{.S1}} {{.S2}} {{.S3}} {{.S4}}"},
			{Name: "mystic-universe", Sentences: 2, Body: "{{.S1}} The universe fuses {{.Focus}} and {{.Realm}}. {{.S2}}"},
			{Name: "mystic-intuition", Sentences: 3, Body: "Trust your intuition about {{.Focus}} and {{.Realm}}. {{.S1}} {{.S2}} {{.S3}}"},
			{Name: "mystic-spirit", Sentences: 2, Body: "Spirit unites {{.Focus}} and {{.Realm}}. {{.S1}} {{.S2}}"},
			{Name: "mystic-alignment", Sentences: 4, Body: "{{.S1}} {{.S2}} Alignment between {{.Focus}} and {{.Realm}} deepens. {{.S3}} {{.S4}}"},
			{Name: "mystic-threshold", Sentences: 3, Body: "You stand at the threshold of {{.Focus}}, facing {{.Realm}}. {{.S1}} {{.S2}} {{.S3}}"},
		},
	}
}

func philosopherProfile() Profile {
	return Profile{
		ID:       "philosopher",
		Markers:  []string{"meaning", "question", "reason", "truth", "choice", "virtue", "examine", "freedom"},
		Keywords: []string{"meaning", "question", "reason", "truth", "choice", "virtue", "examine", "purpose"},
		Phrases:  []string{"consider that", "the question of", "what it means", "a life examined", "the good"},
		Heuristics: Heuristics{
			PenalizeBenediction: true,
			PenalizeOrnate:      true,
			MaxSentences:        2,
		},
		Templates: []Template{
			{Name: "philosopher-question", Sentences: 2, Body: "Consider the question of {{.Focus}} in {{.Realm}}. {{.S1}} {{.S2}}"},
			{Name: "philosopher-dialectic", Sentences: 4, Body: "{{.S1}} {{.S2}} Yet {{.Realm}} raises its own question about {{.Focus}}. {{.S3}} {{.S4}}"},
			{Name: "philosopher-examined", Sentences: 3, Body: "A life examined through {{.Focus}} and {{.Realm}}: {{.S1}} {{.S2}} {{.S3}}"},
			{Name: "philosopher-meaning", Sentences: 2, Body: "{{.S1}} What it means to live {{.Focus}} through {{.Realm}} is the real inquiry. {{.S2}}"},
			{Name: "philosopher-choice", Sentences: 3, Body: "Every choice about {{.Focus}} shapes {{.Realm}}. {{.S1}} {{.S2}} {{.S3}}"},
			{Name: "philosopher-virtue", Sentences: 2, Body: "Virtue integrates {{.Focus}} with {{.Realm}}. {{.S1}} {{.S2}}"},
			{Name: "philosopher-the-good", Sentences: 3, Body: "{{.S1}} The good lies where {{.Focus}} meets {{.Realm}}. {{.S2}} {{.S3}}"},
			{Name: "philosopher-reason", Sentences: 2, Body: "Reason about {{.Focus}} before acting in {{.Realm}}. {{.S1}} {{.S2}}"},
			{Name: "philosopher-synthesis", Sentences: 4, Body: "Thesis: {{.Focus}}. Antithesis: {{.Realm}}. {{.S1}} {{.S2}} {{.S3}} {{.S4}}"},
			{Name: "philosopher-consider", Sentences: 3, Body: "Consider that {{.Realm}} completes {{.Focus}}. {{.S1}} {{.S2}} {{.S3}}"},
		},
	}
}
