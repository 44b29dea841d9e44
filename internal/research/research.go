// Package research gathers company intelligence for resume tailoring. Results
// are cached in the vector index so repeat requests for the same company skip
// the web entirely.
package research

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/jonathan/resume-optimizer/internal/extract"
	"github.com/jonathan/resume-optimizer/internal/fetch"
	"github.com/jonathan/resume-optimizer/internal/llm"
	"github.com/jonathan/resume-optimizer/internal/prompts"
	"github.com/jonathan/resume-optimizer/internal/vector"
	"github.com/jonathan/resume-optimizer/internal/websearch"
)

const (
	// cultureSnippets / hiringSnippets cap how much search text feeds the
	// summary prompt.
	cultureSnippets = 3
	hiringSnippets  = 2

	maxCultureChars = 2000
	maxHiringChars  = 1000
)

// PlaceholderCulture marks a company record built without usable research.
const PlaceholderCulture = "Information not available - using general best practices"

// CompanyInfo is the distilled research result for one company
type CompanyInfo struct {
	CompanyName string   `json:"company_name"`
	Culture     string   `json:"culture"`
	KeySkills   []string `json:"key_skills"`
	Industry    string   `json:"industry"`
	HiringNotes string   `json:"hiring_notes"`
}

// Service researches companies via cache, web search, and model summarization
type Service struct {
	index    vector.Index
	searcher websearch.Searcher
	client   llm.Client
	logger   *zap.Logger
}

// NewService wires a research service from its collaborators
func NewService(index vector.Index, searcher websearch.Searcher, client llm.Client, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		index:    index,
		searcher: searcher,
		client:   client,
		logger:   logger,
	}
}

// Research returns company info for a name, preferring the cache. A research
// failure of any kind degrades to a placeholder record; tailoring proceeds on
// general best practices rather than aborting.
func (s *Service) Research(ctx context.Context, companyName string) CompanyInfo {
	if cached, ok := s.lookupCache(ctx, companyName); ok {
		s.logger.Debug("company research cache hit", zap.String("company", companyName))
		return cached
	}

	info, err := s.searchAndSummarize(ctx, companyName)
	if err != nil {
		s.logger.Warn("company research degraded to placeholder",
			zap.String("company", companyName),
			zap.Error(err))
		return placeholderInfo(companyName)
	}

	s.writeCache(ctx, info)
	return info
}

// lookupCache checks the vector index for a prior research result.
func (s *Service) lookupCache(ctx context.Context, companyName string) (CompanyInfo, bool) {
	hits, err := s.index.Search(ctx, companyName, map[string]string{"kind": "company"}, 1)
	if err != nil || len(hits) == 0 {
		return CompanyInfo{}, false
	}

	hit := hits[0]
	if !strings.EqualFold(hit.Metadata["company_name"], companyName) {
		return CompanyInfo{}, false
	}

	return CompanyInfo{
		CompanyName: hit.Metadata["company_name"],
		Culture:     hit.Metadata["culture"],
		KeySkills:   extract.SplitList(hit.Metadata["key_skills"]),
		Industry:    hit.Metadata["industry"],
		HiringNotes: hit.Metadata["hiring_notes"],
	}, true
}

// searchAndSummarize runs the culture and hiring queries in parallel, then
// asks the model to distill the snippets into labeled fields.
func (s *Service) searchAndSummarize(ctx context.Context, companyName string) (CompanyInfo, error) {
	var cultureResults, hiringResults []websearch.Result

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		results, err := s.searcher.Search(gctx, companyName+" company culture values mission", 5)
		if err != nil {
			return fmt.Errorf("culture search: %w", err)
		}
		cultureResults = results
		return nil
	})
	g.Go(func() error {
		results, err := s.searcher.Search(gctx, companyName+" hiring process interview what they look for", 3)
		if err != nil {
			return fmt.Errorf("hiring search: %w", err)
		}
		hiringResults = results
		return nil
	})
	if err := g.Wait(); err != nil {
		return CompanyInfo{}, err
	}

	cultureInfo := s.enrichFromPage(ctx, cultureResults, joinSnippets(cultureResults, cultureSnippets, maxCultureChars))
	hiringInfo := joinSnippets(hiringResults, hiringSnippets, maxHiringChars)
	if cultureInfo == "" && hiringInfo == "" {
		return CompanyInfo{}, fmt.Errorf("no search results for %s", companyName)
	}

	prompt := prompts.Format(prompts.MustGet("agents.json", "research_summary"), map[string]string{
		"Company":     companyName,
		"CultureInfo": cultureInfo,
		"HiringInfo":  hiringInfo,
	})

	reply, err := s.client.Complete(ctx, llm.Request{
		System: prompts.MustGet("agents.json", "research_system"),
		Prompt: prompt,
	}, llm.TierStandard)
	if err != nil {
		return CompanyInfo{}, fmt.Errorf("summary call: %w", err)
	}

	return ParseCompanyInfo(reply, companyName), nil
}

// enrichFromPage fetches the top hit's page for fuller text than its search
// snippet. Fetch failures leave the snippets as-is.
func (s *Service) enrichFromPage(ctx context.Context, results []websearch.Result, snippets string) string {
	if len(results) == 0 || results[0].URL == "" {
		return snippets
	}

	pageText, err := fetch.PageText(ctx, results[0].URL)
	if err != nil || pageText == "" {
		if err != nil {
			s.logger.Debug("page enrichment skipped", zap.String("url", results[0].URL), zap.Error(err))
		}
		return snippets
	}

	combined := snippets + " " + pageText
	if len(combined) > maxCultureChars {
		combined = combined[:maxCultureChars]
	}
	return combined
}

// ParseCompanyInfo recovers the labeled research fields from a model reply.
// Missing fields stay empty; parsing never fails.
func ParseCompanyInfo(reply, companyName string) CompanyInfo {
	fields := extract.LabeledFields(reply, []extract.FieldSpec{
		{Name: "CULTURE"},
		{Name: "KEY_SKILLS", List: true},
		{Name: "INDUSTRY"},
		{Name: "HIRING_NOTES"},
	})

	return CompanyInfo{
		CompanyName: companyName,
		Culture:     fields.Text("CULTURE"),
		KeySkills:   fields.Items("KEY_SKILLS"),
		Industry:    fields.Text("INDUSTRY"),
		HiringNotes: fields.Text("HIRING_NOTES"),
	}
}

// writeCache stores a research result back into the vector index.
func (s *Service) writeCache(ctx context.Context, info CompanyInfo) {
	id := "company:" + strings.ToLower(info.CompanyName)
	content := fmt.Sprintf("%s %s %s %s",
		info.CompanyName, info.Culture, strings.Join(info.KeySkills, " "), info.Industry)

	err := s.index.Upsert(ctx, id, content, map[string]string{
		"kind":         "company",
		"company_name": info.CompanyName,
		"culture":      info.Culture,
		"key_skills":   strings.Join(info.KeySkills, ", "),
		"industry":     info.Industry,
		"hiring_notes": info.HiringNotes,
	})
	if err != nil {
		s.logger.Warn("failed to cache company info",
			zap.String("company", info.CompanyName),
			zap.Error(err))
	}
}

// placeholderInfo is returned when research fails end to end.
func placeholderInfo(companyName string) CompanyInfo {
	return CompanyInfo{
		CompanyName: companyName,
		Culture:     PlaceholderCulture,
		Industry:    "Unknown",
		HiringNotes: "No specific information found",
	}
}

// joinSnippets concatenates result bodies up to a count and character budget.
func joinSnippets(results []websearch.Result, maxItems, maxChars int) string {
	var parts []string
	for i, r := range results {
		if i == maxItems {
			break
		}
		if r.Body != "" {
			parts = append(parts, r.Body)
		}
	}
	joined := strings.Join(parts, " ")
	if len(joined) > maxChars {
		joined = joined[:maxChars]
	}
	return joined
}
