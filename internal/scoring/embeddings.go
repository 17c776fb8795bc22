// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package scoring

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"sync"

	"go.yaml.in/yaml/v3"
	"gonum.org/v1/gonum/floats"
)

// ErrNoVector indicates that none of the requested words has an embedding.
var ErrNoVector = errors.New("no embedding for input")

// EmbeddingProvider returns the mean embedding vector of a word list.
type EmbeddingProvider interface {
	Embed(ctx context.Context, words []string) ([]float64, error)
}

// Cosine returns the cosine similarity of a and b. It reports false when the
// vectors differ in length or either has zero norm.
func Cosine(a, b []float64) (float64, bool) {
	if len(a) == 0 || len(a) != len(b) {
		return 0, false
	}
	na, nb := floats.Norm(a, 2), floats.Norm(b, 2)
	if na == 0 || nb == 0 {
		return 0, false
	}
	return floats.Dot(a, b) / (na * nb), true
}

// MeanVector averages equal-length vectors. It returns nil for no input.
func MeanVector(vectors [][]float64) []float64 {
	if len(vectors) == 0 {
		return nil
	}
	mean := make([]float64, len(vectors[0]))
	for _, v := range vectors {
		if len(v) != len(mean) {
			continue
		}
		floats.Add(mean, v)
	}
	floats.Scale(1/float64(len(vectors)), mean)
	return mean
}

// StaticEmbeddings is a fixed word-vector table.
type StaticEmbeddings struct {
	dim     int
	vectors map[string][]float64
}

type staticFile struct {
	Dimension int                  `yaml:"dimension"`
	Vectors   map[string][]float64 `yaml:"vectors"`
}

// NewStaticEmbeddings builds a table from word vectors. Every vector must
// have the same dimension.
func NewStaticEmbeddings(vectors map[string][]float64) (*StaticEmbeddings, error) {
	s := &StaticEmbeddings{vectors: make(map[string][]float64, len(vectors))}
	for word, v := range vectors {
		if s.dim == 0 {
			s.dim = len(v)
		}
		if len(v) != s.dim || len(v) == 0 {
			return nil, fmt.Errorf("vector for %q has dimension %d, want %d", word, len(v), s.dim)
		}
		s.vectors[strings.ToLower(word)] = v
	}
	return s, nil
}

// LoadStaticEmbeddings reads a YAML table of the form
//
//	dimension: 3
//	vectors:
//	  courage: [0.1, 0.9, 0.2]
func LoadStaticEmbeddings(path string) (*StaticEmbeddings, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	var f staticFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	s, err := NewStaticEmbeddings(f.Vectors)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	if f.Dimension != 0 && s.dim != 0 && f.Dimension != s.dim {
		return nil, fmt.Errorf("%s: declared dimension %d, vectors have %d", path, f.Dimension, s.dim)
	}
	return s, nil
}

// Embed averages the vectors of the known words.
func (s *StaticEmbeddings) Embed(_ context.Context, words []string) ([]float64, error) {
	var found [][]float64
	for _, w := range words {
		if v, ok := s.vectors[strings.ToLower(w)]; ok {
			found = append(found, v)
		}
	}
	if len(found) == 0 {
		return nil, ErrNoVector
	}
	return MeanVector(found), nil
}

// TextEmbedder embeds a piece of text with a model.
type TextEmbedder interface {
	Embed(ctx context.Context, text string) ([]float64, error)
}

// ModelEmbeddings embeds the joined word list with a model.
type ModelEmbeddings struct {
	embedder TextEmbedder
}

// NewModelEmbeddings wraps a model embedder.
func NewModelEmbeddings(e TextEmbedder) *ModelEmbeddings {
	return &ModelEmbeddings{embedder: e}
}

// Embed joins words with spaces and embeds the result.
func (m *ModelEmbeddings) Embed(ctx context.Context, words []string) ([]float64, error) {
	if len(words) == 0 {
		return nil, ErrNoVector
	}
	v, err := m.embedder.Embed(ctx, strings.Join(words, " "))
	if err != nil {
		return nil, err
	}
	if len(v) == 0 {
		return nil, ErrNoVector
	}
	return v, nil
}

// EmbeddingCache memoizes another provider by word list. Failures are not
// cached.
type EmbeddingCache struct {
	provider EmbeddingProvider

	mu      sync.RWMutex
	vectors map[string][]float64
}

// NewEmbeddingCache wraps provider.
func NewEmbeddingCache(provider EmbeddingProvider) *EmbeddingCache {
	return &EmbeddingCache{provider: provider, vectors: make(map[string][]float64)}
}

// Embed returns the cached vector or asks the wrapped provider.
func (c *EmbeddingCache) Embed(ctx context.Context, words []string) ([]float64, error) {
	key := strings.ToLower(strings.Join(words, "\x00"))

	c.mu.RLock()
	v, ok := c.vectors[key]
	c.mu.RUnlock()
	if ok {
		return v, nil
	}

	v, err := c.provider.Embed(ctx, words)
	if err != nil {
		return nil, err
	}
	c.mu.Lock()
	c.vectors[key] = v
	c.mu.Unlock()
	return v, nil
}

// Len returns the number of cached entries.
func (c *EmbeddingCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.vectors)
}
