package research

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/resume-optimizer/internal/llm"
	"github.com/jonathan/resume-optimizer/internal/vector"
	"github.com/jonathan/resume-optimizer/internal/websearch"
)

// stubSearcher returns canned results or an error for every query.
type stubSearcher struct {
	results []websearch.Result
	err     error
	calls   int
}

func (s *stubSearcher) Search(_ context.Context, _ string, _ int) ([]websearch.Result, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	return s.results, nil
}

// stubLLM replies with a fixed completion.
type stubLLM struct {
	reply string
	err   error
	calls int
}

func (s *stubLLM) Complete(_ context.Context, _ llm.Request, _ llm.ModelTier) (string, error) {
	s.calls++
	if s.err != nil {
		return "", s.err
	}
	return s.reply, nil
}

func (s *stubLLM) GetModel(llm.ModelTier) string { return "stub" }
func (s *stubLLM) Close() error                  { return nil }

const summaryReply = `CULTURE: Collaborative and customer-obsessed.
KEY_SKILLS: Go, distributed systems, ownership
INDUSTRY: Cloud computing
HIRING_NOTES: Behavioral interviews built on leadership principles.`

func TestResearch_SearchSummarizeAndCache(t *testing.T) {
	idx := vector.NewMemoryIndex()
	searcher := &stubSearcher{results: []websearch.Result{
		{Title: "About", Body: "Globex culture is collaborative."},
	}}
	model := &stubLLM{reply: summaryReply}

	svc := NewService(idx, searcher, model, nil)
	info := svc.Research(context.Background(), "Globex")

	assert.Equal(t, "Globex", info.CompanyName)
	assert.Equal(t, "Collaborative and customer-obsessed.", info.Culture)
	assert.Equal(t, []string{"Go", "distributed systems", "ownership"}, info.KeySkills)
	assert.Equal(t, "Cloud computing", info.Industry)
	assert.Equal(t, 2, searcher.calls)

	// Second lookup must come from the cache: no new search, no new model call.
	info2 := svc.Research(context.Background(), "Globex")
	assert.Equal(t, info.Culture, info2.Culture)
	assert.Equal(t, info.KeySkills, info2.KeySkills)
	assert.Equal(t, 2, searcher.calls)
	assert.Equal(t, 1, model.calls)
}

func TestResearch_SearchFailureYieldsPlaceholder(t *testing.T) {
	idx := vector.NewMemoryIndex()
	searcher := &stubSearcher{err: fmt.Errorf("quota exceeded")}
	model := &stubLLM{reply: summaryReply}

	svc := NewService(idx, searcher, model, nil)
	info := svc.Research(context.Background(), "Globex")

	assert.Equal(t, "Globex", info.CompanyName)
	assert.Equal(t, PlaceholderCulture, info.Culture)
	assert.Equal(t, "Unknown", info.Industry)
	assert.Empty(t, info.KeySkills)
	assert.Zero(t, model.calls)
}

func TestResearch_ModelFailureYieldsPlaceholder(t *testing.T) {
	idx := vector.NewMemoryIndex()
	searcher := &stubSearcher{results: []websearch.Result{{Body: "snippet"}}}
	model := &stubLLM{err: fmt.Errorf("model unavailable")}

	svc := NewService(idx, searcher, model, nil)
	info := svc.Research(context.Background(), "Globex")

	assert.Equal(t, PlaceholderCulture, info.Culture)
}

func TestResearch_EmptySearchResultsYieldPlaceholder(t *testing.T) {
	idx := vector.NewMemoryIndex()
	searcher := &stubSearcher{results: nil}
	model := &stubLLM{reply: summaryReply}

	svc := NewService(idx, searcher, model, nil)
	info := svc.Research(context.Background(), "Globex")

	assert.Equal(t, PlaceholderCulture, info.Culture)
	assert.Zero(t, model.calls)
}

func TestParseCompanyInfo_PartialReply(t *testing.T) {
	info := ParseCompanyInfo("CULTURE: Remote-first.", "Initech")

	assert.Equal(t, "Initech", info.CompanyName)
	assert.Equal(t, "Remote-first.", info.Culture)
	assert.Empty(t, info.KeySkills)
	assert.Empty(t, info.Industry)
}

func TestResearch_CacheMissOnDifferentCompany(t *testing.T) {
	idx := vector.NewMemoryIndex()
	require.NoError(t, idx.Upsert(context.Background(), "company:other", "Other company culture", map[string]string{
		"kind":         "company",
		"company_name": "Other",
	}))

	searcher := &stubSearcher{results: []websearch.Result{{Body: "Globex info"}}}
	model := &stubLLM{reply: summaryReply}

	svc := NewService(idx, searcher, model, nil)
	info := svc.Research(context.Background(), "Globex")

	// The cached record for a different company must not satisfy this lookup.
	assert.Equal(t, "Globex", info.CompanyName)
	assert.Equal(t, 1, model.calls)
}
