// Package observability provides formatted output utilities for the CLI
// chat session's verbose mode.
package observability

import (
	"fmt"
	"io"
	"strings"

	"github.com/jonathan/resume-optimizer/internal/agents"
	"github.com/jonathan/resume-optimizer/internal/research"
	"github.com/jonathan/resume-optimizer/internal/types"
)

const (
	// boxWidth is the default width for formatted output boxes
	boxWidth = 60
	// maxItemsToShow is the default number of items to display in lists
	maxItemsToShow = 5
)

// Printer handles formatted output for verbose mode
type Printer struct {
	out io.Writer
}

// NewPrinter creates a new Printer that writes to the given writer
func NewPrinter(out io.Writer) *Printer {
	return &Printer{out: out}
}

// printBox prints a formatted box with a title and content
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) printBox(title string, content string) {
	border := strings.Repeat("─", boxWidth-2)
	fmt.Fprintf(p.out, "┌%s┐\n", border)
	fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, title)
	fmt.Fprintf(p.out, "├%s┤\n", border)

	for _, line := range strings.Split(content, "\n") {
		if len(line) > boxWidth-4 {
			line = line[:boxWidth-7] + "..."
		}
		fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, line)
	}

	fmt.Fprintf(p.out, "└%s┘\n", border)
}

// PrintResult outputs the routed agent outcome with its changes.
func (p *Printer) PrintResult(result *types.AgentResult) {
	if result == nil {
		return
	}

	var sb strings.Builder
	status := "SUCCESS"
	if !result.Success {
		status = "FAILED"
	}
	sb.WriteString(fmt.Sprintf("Agent:   %s\n", result.AgentType))
	sb.WriteString(fmt.Sprintf("Status:  %s\n", status))

	if result.Reasoning != "" {
		reasoning := result.Reasoning
		if len(reasoning) > 120 {
			reasoning = reasoning[:117] + "..."
		}
		sb.WriteString(fmt.Sprintf("Why:     %s\n", reasoning))
	}

	if len(result.Changes) > 0 {
		sb.WriteString("\nChanges:\n")
		count := min(len(result.Changes), maxItemsToShow)
		for i := 0; i < count; i++ {
			change := result.Changes[i]
			sb.WriteString(fmt.Sprintf("  • %s (%s)\n", change.Section, change.Type))
		}
		if len(result.Changes) > maxItemsToShow {
			sb.WriteString(fmt.Sprintf("  ... and %d more\n", len(result.Changes)-maxItemsToShow))
		}
	}

	p.printBox("AGENT RESULT", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintMatchResult outputs the job match score breakdown.
func (p *Printer) PrintMatchResult(match *agents.MatchResult) {
	if match == nil {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Overall:   %.1f%%\n", match.OverallScore))
	sb.WriteString(fmt.Sprintf("Keyword:   %.1f%%   Semantic: %.1f%%\n", match.KeywordScore, match.SemanticScore))
	sb.WriteString("\n")
	sb.WriteString(fmt.Sprintf("Required:  %.1f%%\n", match.Required.Score))
	sb.WriteString(fmt.Sprintf("Preferred: %.1f%%\n", match.Preferred.Score))
	sb.WriteString(fmt.Sprintf("Soft:      %.1f%%\n", match.Soft.Score))
	sb.WriteString(fmt.Sprintf("Keywords:  %.1f%%\n", match.Keywords.Score))

	if len(match.SkillGaps) > 0 {
		sb.WriteString("\nGaps:\n")
		count := min(len(match.SkillGaps), maxItemsToShow)
		for i := 0; i < count; i++ {
			sb.WriteString(fmt.Sprintf("  • %s\n", match.SkillGaps[i]))
		}
		if len(match.SkillGaps) > maxItemsToShow {
			sb.WriteString(fmt.Sprintf("  ... and %d more\n", len(match.SkillGaps)-maxItemsToShow))
		}
	}

	p.printBox("JOB MATCH", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintCompanyInfo outputs the researched company profile.
func (p *Printer) PrintCompanyInfo(info *research.CompanyInfo) {
	if info == nil {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Company:   %s\n", info.CompanyName))
	sb.WriteString(fmt.Sprintf("Industry:  %s\n", info.Industry))

	culture := info.Culture
	if len(culture) > 100 {
		culture = culture[:97] + "..."
	}
	sb.WriteString(fmt.Sprintf("Culture:   %s\n", culture))

	if len(info.KeySkills) > 0 {
		skills := strings.Join(info.KeySkills, ", ")
		if len(skills) > 45 {
			skills = skills[:42] + "..."
		}
		sb.WriteString(fmt.Sprintf("Skills:    %s\n", skills))
	}

	p.printBox("COMPANY RESEARCH", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintAnalysis outputs a standalone resume review.
func (p *Printer) PrintAnalysis(analysis *agents.ResumeAnalysis) {
	if analysis == nil {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Overall:  %.1f   Keywords: %.1f\n", analysis.OverallScore, analysis.KeywordScore))
	sb.WriteString(fmt.Sprintf("Format:   %.1f   Impact:   %.1f\n", analysis.FormatScore, analysis.ImpactScore))

	if len(analysis.Strengths) > 0 {
		sb.WriteString("\nStrengths:\n")
		count := min(len(analysis.Strengths), 3)
		for i := 0; i < count; i++ {
			sb.WriteString(fmt.Sprintf("  • %s\n", analysis.Strengths[i]))
		}
	}
	if len(analysis.Improvements) > 0 {
		sb.WriteString("\nImprovements:\n")
		count := min(len(analysis.Improvements), 3)
		for i := 0; i < count; i++ {
			sb.WriteString(fmt.Sprintf("  • %s\n", analysis.Improvements[i]))
		}
	}

	p.printBox("RESUME ANALYSIS", strings.TrimSuffix(sb.String(), "\n"))
}
