// Package websearch provides web text search for company research.
package websearch

import (
	"context"
	"fmt"

	"google.golang.org/api/customsearch/v1"
	"google.golang.org/api/option"
)

// Result is one web search hit
type Result struct {
	Title string `json:"title"`
	Body  string `json:"body"`
	URL   string `json:"url,omitempty"`
}

// Searcher is the web text search contract. Implementations return up to
// maxResults hits, best first.
type Searcher interface {
	Search(ctx context.Context, query string, maxResults int) ([]Result, error)
}

// DisabledSearcher stands in when no search credentials are configured.
// Every query fails, which degrades company research to its placeholder path.
type DisabledSearcher struct{}

// Search always reports that search is unavailable.
func (DisabledSearcher) Search(context.Context, string, int) ([]Result, error) {
	return nil, fmt.Errorf("web search is not configured")
}

// GoogleSearcher implements Searcher on the Google Custom Search API
type GoogleSearcher struct {
	svc *customsearch.Service
	cx  string
}

// NewGoogleSearcher creates a searcher bound to one custom search engine id
func NewGoogleSearcher(ctx context.Context, apiKey, cx string) (*GoogleSearcher, error) {
	if apiKey == "" || cx == "" {
		return nil, fmt.Errorf("search API key and engine id are required")
	}

	svc, err := customsearch.NewService(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create customsearch service: %w", err)
	}
	return &GoogleSearcher{svc: svc, cx: cx}, nil
}

// Search runs one query and maps the items to results. Snippets serve as the
// body text; callers that need full page content fetch the URL themselves.
func (g *GoogleSearcher) Search(ctx context.Context, query string, maxResults int) ([]Result, error) {
	if maxResults <= 0 {
		maxResults = 5
	}

	call := g.svc.Cse.List().Cx(g.cx).Q(query).Num(int64(maxResults)).Context(ctx)
	resp, err := call.Do()
	if err != nil {
		return nil, fmt.Errorf("search failed for %q: %w", query, err)
	}

	results := make([]Result, 0, len(resp.Items))
	for _, item := range resp.Items {
		results = append(results, Result{
			Title: item.Title,
			Body:  item.Snippet,
			URL:   item.Link,
		})
	}
	return results, nil
}
