// Package vector provides the semantic cache/search index used for company
// research caching and resume indexing.
package vector

import "context"

// Hit is one search result from the index
type Hit struct {
	ID       string            `json:"id"`
	Content  string            `json:"content"`
	Metadata map[string]string `json:"metadata"`
	Score    float64           `json:"score"`
}

// Index is the read/write contract the agents depend on. Implementations own
// their ranking model; callers only see content, metadata and a relevance
// score in [0, 1].
type Index interface {
	// Search returns up to k hits for the query, best first. A non-nil
	// filter restricts hits to entries whose metadata contains every
	// filter pair.
	Search(ctx context.Context, query string, filter map[string]string, k int) ([]Hit, error)
	// Upsert inserts or replaces one entry by id.
	Upsert(ctx context.Context, id, content string, metadata map[string]string) error
}
