package vector

import (
	"context"
	"regexp"
	"sort"
	"strings"
	"sync"
)

// MemoryIndex is a process-local Index backed by lexical token overlap.
// It stands in for a real embedding index behind the same contract.
type MemoryIndex struct {
	mu      sync.RWMutex
	entries map[string]entry
}

type entry struct {
	content  string
	metadata map[string]string
	tokens   map[string]bool
}

// NewMemoryIndex creates an empty in-memory index
func NewMemoryIndex() *MemoryIndex {
	return &MemoryIndex{entries: make(map[string]entry)}
}

var tokenPattern = regexp.MustCompile(`[a-z0-9]+`)

// tokenize lowercases text and splits it into unique alphanumeric tokens.
func tokenize(text string) map[string]bool {
	tokens := make(map[string]bool)
	for _, tok := range tokenPattern.FindAllString(strings.ToLower(text), -1) {
		tokens[tok] = true
	}
	return tokens
}

// Upsert inserts or replaces one entry by id
func (m *MemoryIndex) Upsert(_ context.Context, id, content string, metadata map[string]string) error {
	meta := make(map[string]string, len(metadata))
	for k, v := range metadata {
		meta[k] = v
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries[id] = entry{
		content:  content,
		metadata: meta,
		tokens:   tokenize(content),
	}
	return nil
}

// Search ranks entries by token overlap with the query. The score is the
// fraction of query tokens present in the entry, so it stays in [0, 1].
func (m *MemoryIndex) Search(_ context.Context, query string, filter map[string]string, k int) ([]Hit, error) {
	queryTokens := tokenize(query)

	m.mu.RLock()
	defer m.mu.RUnlock()

	var hits []Hit
	for id, e := range m.entries {
		if !matchesFilter(e.metadata, filter) {
			continue
		}

		overlap := 0
		for tok := range queryTokens {
			if e.tokens[tok] {
				overlap++
			}
		}
		if overlap == 0 {
			continue
		}

		score := float64(overlap) / float64(max(1, len(queryTokens)))
		meta := make(map[string]string, len(e.metadata))
		for mk, mv := range e.metadata {
			meta[mk] = mv
		}
		hits = append(hits, Hit{ID: id, Content: e.content, Metadata: meta, Score: score})
	}

	sort.SliceStable(hits, func(i, j int) bool {
		if hits[i].Score != hits[j].Score {
			return hits[i].Score > hits[j].Score
		}
		return hits[i].ID < hits[j].ID
	})

	if k > 0 && len(hits) > k {
		hits = hits[:k]
	}
	return hits, nil
}

func matchesFilter(metadata, filter map[string]string) bool {
	for k, v := range filter {
		if metadata[k] != v {
			return false
		}
	}
	return true
}
