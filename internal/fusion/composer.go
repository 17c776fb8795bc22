// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package fusion recombines selected sentences into a single passage using
// persona templates.
package fusion

import (
	"fmt"
	"strings"
	"sync"
	"text/template"
	"time"

	"github.com/pdiddy/insight-engine/internal/persona"
	"github.com/pdiddy/insight-engine/pkg/types"
)

// Techniques reported in FusedPassage.Technique.
const (
	TechniqueConcatenation = "concatenation"
	techniqueTemplate      = "template:"
)

// Confidence values for each technique.
const (
	TemplateConfidence      = 0.85
	ConcatenationConfidence = 0.6
)

// minTemplateSentences is the fewest selected sentences a template needs.
const minTemplateSentences = 4

// templateData is what a persona template can reference.
type templateData struct {
	S1, S2, S3, S4 string
	Focus, Realm   string
}

// Composer renders selected sentences through persona templates.
type Composer struct {
	personas *persona.Registry
	rnd      RandomSource

	mu     sync.Mutex
	parsed map[string]*template.Template
}

// NewComposer returns a composer. A nil rnd uses the process-wide
// random generator.
func NewComposer(personas *persona.Registry, rnd RandomSource) *Composer {
	if personas == nil {
		personas = persona.NewRegistry()
	}
	if rnd == nil {
		rnd = processSource{}
	}
	return &Composer{personas: personas, rnd: rnd, parsed: make(map[string]*template.Template)}
}

// Compose fuses selected into a passage. The first half of selected (rounded
// up) is the focus subset and the rest the realm subset. Fewer than four
// sentences are concatenated instead. The passage is non-empty whenever
// selected holds a non-blank sentence.
func (c *Composer) Compose(selected []string, focus, realm int, personaID string) types.FusedPassage {
	start := time.Now()
	sentences := clean(selected)

	if len(sentences) < minTemplateSentences {
		return concatenate(sentences, start)
	}

	profile, _ := c.personas.Lookup(personaID)
	if len(profile.Templates) == 0 {
		return concatenate(sentences, start)
	}
	tmpl := profile.Templates[c.rnd.IntN(len(profile.Templates))]

	half := (len(sentences) + 1) / 2
	picked := c.draw(sentences[:half], sentences[half:], tmpl.Sentences)
	data := templateData{
		Focus: persona.AxisPhrase(focus),
		Realm: persona.AxisPhrase(realm),
	}
	slots := []*string{&data.S1, &data.S2, &data.S3, &data.S4}
	for i, s := range picked {
		*slots[i] = s
	}

	text, err := c.render(tmpl, data)
	if err != nil || text == "" {
		return concatenate(sentences, start)
	}
	return types.FusedPassage{
		Text:       text,
		Technique:  techniqueTemplate + tmpl.Name,
		Confidence: TemplateConfidence,
		Elapsed:    time.Since(start),
	}
}

// draw takes n sentences without replacement, alternating between the focus
// and realm subsets and switching when one runs dry.
func (c *Composer) draw(focus, realm []string, n int) []string {
	n = min(max(n, 0), 4)
	pools := [][]string{append([]string(nil), focus...), append([]string(nil), realm...)}
	var out []string
	for k := 0; k < n; k++ {
		p := k % 2
		if len(pools[p]) == 0 {
			p = 1 - p
		}
		if len(pools[p]) == 0 {
			break
		}
		i := c.rnd.IntN(len(pools[p]))
		out = append(out, pools[p][i])
		pools[p] = append(pools[p][:i], pools[p][i+1:]...)
	}
	return out
}

func (c *Composer) render(tmpl persona.Template, data templateData) (string, error) {
	c.mu.Lock()
	t, ok := c.parsed[tmpl.Body]
	if !ok {
		var err error
		t, err = template.New(tmpl.Name).Option("missingkey=zero").Parse(tmpl.Body)
		if err != nil {
			c.mu.Unlock()
			return "", fmt.Errorf("parsing template %s: %w", tmpl.Name, err)
		}
		c.parsed[tmpl.Body] = t
	}
	c.mu.Unlock()

	var b strings.Builder
	if err := t.Execute(&b, data); err != nil {
		return "", fmt.Errorf("rendering template %s: %w", tmpl.Name, err)
	}
	return strings.Join(strings.Fields(b.String()), " "), nil
}

func concatenate(sentences []string, start time.Time) types.FusedPassage {
	p := types.FusedPassage{
		Text:      strings.Join(sentences, " "),
		Technique: TechniqueConcatenation,
		Elapsed:   time.Since(start),
	}
	if p.Text != "" {
		p.Confidence = ConcatenationConfidence
	}
	return p
}

func clean(selected []string) []string {
	out := make([]string, 0, len(selected))
	for _, s := range selected {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}
