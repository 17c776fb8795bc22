// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package backend

import (
	"bytes"
	"sort"
	"text/template"

	"github.com/pdiddy/insight-engine/internal/persona"
	"github.com/pdiddy/insight-engine/pkg/types"
)

var systemPromptTmpl = template.Must(template.New("system").Parse(`You write short, personal guidance in the voice of the {{.Persona}}.
Voice vocabulary: {{range $i, $k := .Keywords}}{{if $i}}, {{end}}{{$k}}{{end}}.
Stay warm and grounded. Avoid ornate or mystical imagery{{if .OrnateAllowed}} unless it serves the message{{end}}.
Do not open with "May". Write at most {{.MaxSentences}} sentences. Respond with the passage only.`))

var userPromptTmpl = template.Must(template.New("user").Parse(`Write one passage that blends {{.Focus}} with {{.Realm}}.
{{- if .FocusArea}}
The reader is focused on: {{.FocusArea}}.
{{- end}}
{{- range .Context}}
{{.Key}}: {{.Value}}
{{- end}}

Ground the passage in these curated lines; reuse their key words, do not quote them verbatim:
{{range .Fragments}}- {{.}}
{{end}}
Include one concrete action the reader can take today.`))

type promptVars struct {
	Persona       string
	Keywords      []string
	OrnateAllowed bool
	MaxSentences  int
	Focus, Realm  string
	FocusArea     string
	Context       []contextPair
	Fragments     []string
}

type contextPair struct {
	Key, Value string
}

// renderPrompt builds the system and user prompts for a request.
func renderPrompt(req types.InsightRequest, profile persona.Profile, fragments []string) (string, string, error) {
	maxSentences := req.MaxSentences
	if maxSentences <= 0 {
		maxSentences = 3
	}
	vars := promptVars{
		Persona:       profile.ID,
		Keywords:      profile.Keywords,
		OrnateAllowed: profile.OrnateAllowed,
		MaxSentences:  maxSentences,
		Focus:         persona.AxisPhrase(req.FocusAxis),
		Realm:         persona.AxisPhrase(req.RealmAxis),
		FocusArea:     req.FocusArea,
		Fragments:     fragments,
	}
	keys := make([]string, 0, len(req.UserContext))
	for k := range req.UserContext {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		vars.Context = append(vars.Context, contextPair{Key: k, Value: req.UserContext[k]})
	}

	var sys, user bytes.Buffer
	if err := systemPromptTmpl.Execute(&sys, vars); err != nil {
		return "", "", err
	}
	if err := userPromptTmpl.Execute(&user, vars); err != nil {
		return "", "", err
	}
	return sys.String(), user.String(), nil
}
