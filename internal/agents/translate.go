package agents

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"go.uber.org/zap"

	"github.com/jonathan/resume-optimizer/internal/extract"
	"github.com/jonathan/resume-optimizer/internal/llm"
	"github.com/jonathan/resume-optimizer/internal/prompts"
	"github.com/jonathan/resume-optimizer/internal/types"
)

// Language holds one supported translation target
type Language struct {
	Name    string
	Code    string
	Regions []string
}

// supportedLanguages is the closed table of translation targets. Order is
// fixed so language extraction is deterministic.
var supportedLanguages = []Language{
	{Name: "spanish", Code: "es", Regions: []string{"Spain", "Mexico", "Argentina", "Colombia"}},
	{Name: "french", Code: "fr", Regions: []string{"France", "Canada", "Belgium", "Switzerland"}},
	{Name: "german", Code: "de", Regions: []string{"Germany", "Austria", "Switzerland"}},
	{Name: "portuguese", Code: "pt", Regions: []string{"Brazil", "Portugal"}},
	{Name: "italian", Code: "it", Regions: []string{"Italy", "Switzerland"}},
	{Name: "dutch", Code: "nl", Regions: []string{"Netherlands", "Belgium"}},
	{Name: "japanese", Code: "ja", Regions: []string{"Japan"}},
	{Name: "chinese", Code: "zh", Regions: []string{"China", "Taiwan", "Singapore"}},
	{Name: "korean", Code: "ko", Regions: []string{"South Korea"}},
	{Name: "arabic", Code: "ar", Regions: []string{"UAE", "Saudi Arabia", "Egypt"}},
	{Name: "hindi", Code: "hi", Regions: []string{"India"}},
	{Name: "russian", Code: "ru", Regions: []string{"Russia"}},
}

// Conventions describe regional resume norms
type Conventions struct {
	Photo        string `json:"photo,omitempty"`
	PersonalInfo string `json:"personal_info,omitempty"`
	Format       string `json:"format,omitempty"`
	Length       string `json:"length,omitempty"`
	Notes        string `json:"notes,omitempty"`
}

// regionalConventions is the fixed lookup of regional resume norms. Regions
// outside the table get an empty convention set.
var regionalConventions = map[string]Conventions{
	"Germany": {
		Photo:        "Often expected",
		PersonalInfo: "Date of birth, nationality common",
		Format:       "Reverse chronological, detailed",
		Length:       "2-3 pages acceptable",
		Notes:        "Formal tone, include all certifications",
	},
	"France": {
		Photo:        "Common but not required",
		PersonalInfo: "Age, marital status sometimes included",
		Format:       "Reverse chronological",
		Length:       "1-2 pages",
		Notes:        "Include language proficiency levels",
	},
	"Japan": {
		Photo:        "Required",
		PersonalInfo: "Date of birth, gender expected",
		Format:       "Specific rirekisho format often required",
		Length:       "1-2 pages",
		Notes:        "Very formal, humble tone",
	},
	"Spain": {
		Photo:        "Common",
		PersonalInfo: "DNI number sometimes included",
		Format:       "Europass format accepted",
		Length:       "1-2 pages",
		Notes:        "Include language certifications",
	},
	"Mexico": {
		Photo:        "Often expected",
		PersonalInfo: "CURP sometimes included",
		Format:       "Similar to US but more personal info",
		Length:       "1-2 pages",
		Notes:        "Professional Spanish, formal tone",
	},
	"Brazil": {
		Photo:        "Common",
		PersonalInfo: "CPF sometimes included",
		Format:       "Similar to US",
		Length:       "1-2 pages",
		Notes:        "Portuguese (Brazilian), include courses/certifications",
	},
	"India": {
		Photo:        "Common",
		PersonalInfo: "Father's name sometimes included",
		Format:       "Detailed, comprehensive",
		Length:       "2-3 pages acceptable",
		Notes:        "Include all educational details",
	},
	"UAE": {
		Photo:        "Expected",
		PersonalInfo: "Nationality, visa status important",
		Format:       "Comprehensive",
		Length:       "2+ pages acceptable",
		Notes:        "Include nationality and visa status",
	},
}

// languagePatterns catch phrasing like "translate to X" when the language
// name alone did not appear.
var languagePatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?:translate|convert|change).*?(?:to|into)\s+(\w+)`),
	regexp.MustCompile(`(\w+)\s+(?:version|translation|resume)`),
	regexp.MustCompile(`in\s+(\w+)(?:\s+language)?`),
}

// marketPatterns catch region phrasing like "for the German market".
var marketPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?:for|targeting|in)\s+(?:the\s+)?(\w+)\s+market`),
	regexp.MustCompile(`(\w+)\s+(?:market|region|country)`),
}

// TranslateAgent translates and localizes resumes for regional markets
type TranslateAgent struct {
	client llm.Client
	logger *zap.Logger
}

// NewTranslateAgent creates the translation agent
func NewTranslateAgent(client llm.Client, logger *zap.Logger) *TranslateAgent {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TranslateAgent{client: client, logger: logger}
}

// Type identifies the agent
func (a *TranslateAgent) Type() types.AgentType {
	return types.AgentTranslation
}

// Process translates the resume into the requested language and region.
// An unrecognized or unsupported language fails immediately with the
// supported-language list; no model call is made.
func (a *TranslateAgent) Process(ctx context.Context, message string, resume *types.Resume, conv *types.Conversation) (*types.AgentResult, error) {
	languageName := contextValue(conv, types.ContextTargetLanguage)
	if languageName == "" {
		languageName = ExtractLanguage(message)
	}

	if languageName == "" {
		return &types.AgentResult{
			Success:   false,
			Message:   languageHelpMessage(),
			AgentType: a.Type(),
			Reasoning: "No target language identified",
		}, nil
	}

	language, supported := LookupLanguage(languageName)
	if !supported {
		return &types.AgentResult{
			Success:   false,
			Message:   fmt.Sprintf("I don't currently support translation to '%s'. %s", languageName, languageHelpMessage()),
			AgentType: a.Type(),
			Reasoning: "Unsupported language: " + languageName,
		}, nil
	}

	region := contextValue(conv, types.ContextTargetRegion)
	if region == "" {
		region = ExtractRegion(message)
	}
	if region == "" {
		region = language.Regions[0]
	}

	conventions := regionalConventions[region]

	prompt := prompts.Format(prompts.MustGet("agents.json", "translate"), map[string]string{
		"UserMessage": message,
		"Language":    titleCase(language.Name),
		"Region":      region,
		"Conventions": formatConventions(conventions),
		"Resume":      resume.FullText(),
	})

	reply, err := a.client.Complete(ctx, llm.Request{
		System:      prompts.MustGet("agents.json", "translation_system"),
		Prompt:      prompt,
		Temperature: 0.3,
	}, llm.TierAdvanced)
	if err != nil {
		return nil, fmt.Errorf("translation call: %w", err)
	}

	updatedSections := extractUpdatedSections(reply, resume)
	changes := types.DiffSections(resume.Sections, updatedSections)

	culturalNotes := extract.CulturalNotes(reply)
	if culturalNotes == "" {
		culturalNotes = "Resume translated and adapted for the target market."
	}

	message = fmt.Sprintf("Translation Complete\n\nTarget Language: %s\nTarget Region: %s\n\nRegional Conventions Applied:\n%s\n\nCultural Adaptations:\n%s\n\nYour resume has been translated and localized. Review the changes below.",
		titleCase(language.Name), region, formatConventions(conventions), culturalNotes)

	return &types.AgentResult{
		Success:         true,
		Message:         message,
		AgentType:       a.Type(),
		UpdatedSections: updatedSections,
		Changes:         changes,
		Reasoning:       culturalNotes,
		Metadata: map[string]any{
			"target_language":      language.Name,
			"language_code":        language.Code,
			"target_region":        region,
			"regional_conventions": conventions,
		},
	}, nil
}

// LookupLanguage resolves a language name against the supported table.
func LookupLanguage(name string) (Language, bool) {
	lower := strings.ToLower(strings.TrimSpace(name))
	for _, lang := range supportedLanguages {
		if lang.Name == lower {
			return lang, true
		}
	}
	return Language{}, false
}

// ExtractLanguage finds a supported language name in the message: direct
// substring first, then phrasing patterns.
func ExtractLanguage(message string) string {
	lower := strings.ToLower(message)

	for _, lang := range supportedLanguages {
		if strings.Contains(lower, lang.Name) {
			return lang.Name
		}
	}

	for _, pattern := range languagePatterns {
		if m := pattern.FindStringSubmatch(lower); m != nil {
			if _, ok := LookupLanguage(m[1]); ok {
				return m[1]
			}
		}
	}

	return ""
}

// ExtractRegion finds a known region name in the message.
func ExtractRegion(message string) string {
	lower := strings.ToLower(message)

	for _, lang := range supportedLanguages {
		for _, region := range lang.Regions {
			if strings.Contains(lower, strings.ToLower(region)) {
				return region
			}
		}
	}

	for _, pattern := range marketPatterns {
		if m := pattern.FindStringSubmatch(lower); m != nil {
			candidate := titleCase(m[1])
			for _, lang := range supportedLanguages {
				for _, region := range lang.Regions {
					if region == candidate {
						return region
					}
				}
			}
		}
	}

	return ""
}

// SupportedLanguageNames lists the translation targets, title-cased.
func SupportedLanguageNames() []string {
	names := make([]string, 0, len(supportedLanguages))
	for _, lang := range supportedLanguages {
		names = append(names, titleCase(lang.Name))
	}
	return names
}

// RegionalConventions returns the convention set for a region. Unknown
// regions get an empty set, not an error.
func RegionalConventions(region string) Conventions {
	return regionalConventions[region]
}

// languageHelpMessage lists the supported languages with example requests.
func languageHelpMessage() string {
	return fmt.Sprintf(`Please specify which language you'd like me to translate your resume to.

Supported Languages:
%s

Example requests:
- "Translate my resume to Spanish for the Mexican market"
- "Convert to German"
- "Create a French version for Canada"
- "Translate to Japanese"

You can also specify a region for more accurate localization.`, strings.Join(SupportedLanguageNames(), ", "))
}

// formatConventions renders a convention set for prompts and messages.
func formatConventions(c Conventions) string {
	pairs := []struct{ label, value string }{
		{"Photo", c.Photo},
		{"Personal Info", c.PersonalInfo},
		{"Format", c.Format},
		{"Length", c.Length},
		{"Notes", c.Notes},
	}

	var lines []string
	for _, p := range pairs {
		if p.value != "" {
			lines = append(lines, fmt.Sprintf("- %s: %s", p.label, p.value))
		}
	}
	if len(lines) == 0 {
		return "- Standard international format"
	}
	return strings.Join(lines, "\n")
}

// titleCase uppercases the first letter of each word.
func titleCase(s string) string {
	words := strings.Fields(s)
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}
