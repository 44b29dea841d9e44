// Package scoring computes resume/job match scores from skill lists and
// model-emitted ratings.
package scoring

import (
	"math"
	"regexp"
	"strings"
)

// Weighted score blend. These are product-tuned constants, not derived
// values; keep them adjustable in one place.
const (
	WeightRequired  = 0.4
	WeightPreferred = 0.2
	WeightSoft      = 0.15
	WeightKeywords  = 0.25

	// Hybrid blend between keyword matching and the model's semantic rating.
	BlendKeyword  = 0.6
	BlendSemantic = 0.4

	// NeutralSemanticScore is used when the model reply has no parseable
	// rating. Scoring must always produce a number.
	NeutralSemanticScore = 50.0
)

// synonymTable maps canonical skill names to alternate surface forms used
// during keyword matching.
var synonymTable = map[string][]string{
	"python":          {"python", "py", "django", "flask", "fastapi", "pytorch", "tensorflow"},
	"programming":     {"programming", "coding", "development", "software", "engineer"},
	"ml":              {"ml", "machine learning", "deep learning", "ai", "artificial intelligence", "neural network"},
	"data":            {"data", "analytics", "analysis", "statistics", "statistical"},
	"math":            {"math", "mathematics", "mathematical", "calculus", "linear algebra", "probability"},
	"communication":   {"communication", "communicate", "presentation", "written", "verbal", "articulate"},
	"leadership":      {"leadership", "lead", "led", "leading", "manage", "managed", "team lead"},
	"problem solving": {"problem solving", "problem-solving", "analytical", "critical thinking", "debug", "troubleshoot"},
	"teamwork":        {"teamwork", "team", "collaborate", "collaboration", "cross-functional"},
	"agile":           {"agile", "scrum", "sprint", "kanban", "jira"},
	"cloud":           {"cloud", "aws", "azure", "gcp", "google cloud", "serverless"},
	"database":        {"database", "sql", "mysql", "postgresql", "mongodb", "nosql", "redis"},
	"api":             {"api", "rest", "restful", "graphql", "microservices"},
	"testing":         {"testing", "test", "unit test", "pytest", "jest", "qa", "quality"},
	"git":             {"git", "github", "gitlab", "version control", "ci/cd"},
	"degree":          {"degree", "bachelor", "master", "b.tech", "b.e.", "m.tech", "phd", "graduate"},
	"engineering":     {"engineering", "engineer", "b.tech", "b.e.", "computer science", "cs", "ece", "electrical"},
}

// MatchSkills splits candidate skills into found and missing against the
// document text. Each skill is tested as four case-insensitive surface
// variants first (verbatim, hyphen/space swapped both ways, spaces removed),
// then against the synonym table, so an exact skill name always beats a
// generic synonym.
func MatchSkills(candidates []string, documentText string) (found, missing []string) {
	docLower := strings.ToLower(documentText)

	for _, skill := range candidates {
		skillLower := strings.ToLower(strings.TrimSpace(skill))

		variants := []string{
			skillLower,
			strings.ReplaceAll(skillLower, "-", " "),
			strings.ReplaceAll(skillLower, " ", "-"),
			strings.ReplaceAll(skillLower, " ", ""),
		}

		matched := false
		for _, variant := range variants {
			if variant != "" && strings.Contains(docLower, variant) {
				found = append(found, skill)
				matched = true
				break
			}
		}

		if !matched && synonymMatch(skillLower, docLower) {
			found = append(found, skill)
			matched = true
		}

		if !matched {
			missing = append(missing, skill)
		}
	}
	return found, missing
}

// synonymMatch reports whether the skill maps into the synonym table and any
// of that entry's synonyms appears in the document.
func synonymMatch(skillLower, docLower string) bool {
	for _, synonyms := range synonymTable {
		related := false
		for _, syn := range synonyms {
			if strings.Contains(skillLower, syn) || skillLower == syn {
				related = true
				break
			}
		}
		if !related {
			continue
		}
		for _, syn := range synonyms {
			if strings.Contains(docLower, syn) {
				return true
			}
		}
	}
	return false
}

// Percent converts a found/total pair to a 0-100 percentage. An empty
// candidate list scores 100 by convention: absent requirements are treated as
// satisfied, and the guarded denominator exists to avoid division by zero,
// not to reward empty lists.
func Percent(found, total int) float64 {
	if total == 0 {
		return 100.0
	}
	return float64(found) / float64(total) * 100.0
}

// Weighted combines the four per-bucket percentages into one keyword score.
func Weighted(requiredPct, preferredPct, softPct, keywordPct float64) float64 {
	return requiredPct*WeightRequired +
		preferredPct*WeightPreferred +
		softPct*WeightSoft +
		keywordPct*WeightKeywords
}

// Hybrid blends the keyword score with the model's semantic rating.
func Hybrid(keywordScore, semanticScore float64) float64 {
	return keywordScore*BlendKeyword + semanticScore*BlendSemantic
}

var firstInteger = regexp.MustCompile(`\d+`)

// ParseSemanticScore reads the first integer in a model reply and clamps it
// to [0, 100]. Replies without a number score neutral.
func ParseSemanticScore(reply string) float64 {
	m := firstInteger.FindString(reply)
	if m == "" {
		return NeutralSemanticScore
	}
	score := 0
	for _, ch := range m {
		score = score*10 + int(ch-'0')
		if score > 100 {
			return 100.0
		}
	}
	return float64(score)
}

// Round1 rounds to one decimal place. Applied only at result boundaries;
// internal computation keeps full precision.
func Round1(v float64) float64 {
	return math.Round(v*10) / 10
}
