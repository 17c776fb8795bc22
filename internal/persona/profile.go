// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package persona describes voice profiles as data. Each profile carries the
// vocabulary the scorer and evaluator look for, the heuristics that apply to
// it, and the passage templates the fusion composer chooses from. New
// personas are registrations, not code paths.
package persona

import (
	"fmt"
	"os"
	"sort"
	"strings"
	"sync"

	"go.yaml.in/yaml/v3"
)

// DefaultID is the persona used when a request names an unknown one.
const DefaultID = "sage"

// Template is one passage shape. Body is a text/template with the fields
// .S1-.S4 (selected sentences), .Focus and .Realm (axis phrases).
type Template struct {
	Name      string `json:"name" yaml:"name"`
	Sentences int    `json:"sentences" yaml:"sentences"`
	Body      string `json:"body" yaml:"body"`
}

// Heuristics toggles persona-specific scoring adjustments.
type Heuristics struct {
	// ActionBonus rewards imperative verbs and time-bound phrases.
	ActionBonus bool `json:"action_bonus" yaml:"action_bonus"`

	// PenalizeBenediction penalizes sentences opening with "May ...".
	PenalizeBenediction bool `json:"penalize_benediction" yaml:"penalize_benediction"`

	// PenalizeOrnate penalizes stacking two or more ornate terms.
	PenalizeOrnate bool `json:"penalize_ornate" yaml:"penalize_ornate"`

	// MaxSentences is the sentence count above which each extra sentence
	// costs a penalty. Zero disables the penalty.
	MaxSentences int `json:"max_sentences" yaml:"max_sentences"`
}

// Profile is a named voice.
type Profile struct {
	ID string `json:"id" yaml:"id"`

	// Markers are the vocabulary the candidate scorer checks for.
	Markers []string `json:"markers" yaml:"markers"`

	// Keywords and Phrases feed the evaluator's persona fidelity dimension.
	Keywords []string `json:"keywords" yaml:"keywords"`
	Phrases  []string `json:"phrases" yaml:"phrases"`

	// OrnateAllowed exempts the persona from the brand ornate penalty.
	OrnateAllowed bool `json:"ornate_allowed" yaml:"ornate_allowed"`

	Heuristics Heuristics `json:"heuristics" yaml:"heuristics"`
	Templates  []Template `json:"templates" yaml:"templates"`
}

// Registry maps persona IDs to profiles. It is safe for concurrent use.
type Registry struct {
	mu       sync.RWMutex
	profiles map[string]Profile
}

// NewRegistry returns a registry holding the built-in profiles.
func NewRegistry() *Registry {
	r := &Registry{profiles: make(map[string]Profile)}
	for _, p := range builtinProfiles() {
		r.profiles[p.ID] = p
	}
	return r
}

// Register adds or replaces a profile. Every template must use 2-4
// sentences and name both axis phrases.
func (r *Registry) Register(p Profile) error {
	if p.ID == "" {
		return fmt.Errorf("persona profile has empty id")
	}
	for i, t := range p.Templates {
		if t.Sentences < 2 || t.Sentences > 4 {
			return fmt.Errorf("persona %s template %d: sentences must be 2-4, got %d", p.ID, i, t.Sentences)
		}
		if !strings.Contains(t.Body, ".Focus") || !strings.Contains(t.Body, ".Realm") {
			return fmt.Errorf("persona %s template %d: body must reference both .Focus and .Realm", p.ID, i)
		}
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.profiles[normalizeID(p.ID)] = p
	return nil
}

// Lookup returns the profile for id, falling back to the default persona.
// The boolean reports whether id itself was registered.
func (r *Registry) Lookup(id string) (Profile, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if p, ok := r.profiles[normalizeID(id)]; ok {
		return p, true
	}
	return r.profiles[DefaultID], false
}

// IDs returns the registered persona IDs in sorted order.
func (r *Registry) IDs() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	ids := make([]string, 0, len(r.profiles))
	for id := range r.profiles {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// profilesFile is the YAML layout accepted by LoadFile.
type profilesFile struct {
	Personas []Profile `yaml:"personas"`
}

// LoadFile reads additional persona profiles from a YAML file and registers
// them, replacing built-ins with the same ID.
func (r *Registry) LoadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading personas: %w", err)
	}
	var pf profilesFile
	if err := yaml.Unmarshal(data, &pf); err != nil {
		return fmt.Errorf("parsing personas: %w", err)
	}
	for _, p := range pf.Personas {
		if err := r.Register(p); err != nil {
			return err
		}
	}
	return nil
}

func normalizeID(id string) string {
	return strings.ToLower(strings.TrimSpace(id))
}
