package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jonathan/resume-optimizer/internal/agents"
	"github.com/jonathan/resume-optimizer/internal/extract"
	"github.com/jonathan/resume-optimizer/internal/logger"
	"github.com/jonathan/resume-optimizer/internal/observability"
	"github.com/jonathan/resume-optimizer/internal/research"
	"github.com/jonathan/resume-optimizer/internal/store"
	"github.com/jonathan/resume-optimizer/internal/types"
)

var chatResumePath string

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Optimize a resume interactively",
	Long:  `Start an interactive session against a resume file. Messages are routed to the company research, job matching, and translation agents. Type 'analyze' for a quality review, 'history' to list versions, 'show' to print the current resume, 'exit' to quit.`,
	RunE:  runChat,
}

func init() {
	chatCmd.Flags().StringVar(&chatResumePath, "resume", "", "Path to a plain-text resume file (required)")
	_ = chatCmd.MarkFlagRequired("resume")
	rootCmd.AddCommand(chatCmd)
}

func runChat(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	log, err := logger.New(false, cfg.Verbose)
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	defer func() { _ = log.Sync() }()

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	d, err := buildDeps(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer d.client.Close()

	st := store.NewMemoryStore()
	resume, err := loadResumeFile(ctx, st, chatResumePath)
	if err != nil {
		return err
	}

	fmt.Printf("Loaded resume with %d sections. Type a request, or 'exit' to quit.\n\n", len(resume.Sections))

	conv := &types.Conversation{
		UserID:   resume.UserID,
		ResumeID: resume.ID,
		Context:  map[string]string{},
	}
	printer := observability.NewPrinter(os.Stdout)
	scanner := bufio.NewScanner(os.Stdin)

	for {
		fmt.Print("> ")
		if !scanner.Scan() {
			break
		}
		message := strings.TrimSpace(scanner.Text())

		switch message {
		case "":
			continue
		case "exit", "quit":
			return scanner.Err()
		case "show":
			fmt.Printf("\n%s\n\n", resume.FullText())
			continue
		case "analyze":
			printer.PrintAnalysis(d.analyzer.Analyze(ctx, resume))
			continue
		case "history":
			printHistory(ctx, st, resume.ID)
			continue
		}

		conv.AddMessage(types.Message{ID: uuid.NewString(), Role: types.RoleUser, Content: message})
		result := d.router.Route(ctx, message, resume, conv)
		conv.AddMessage(types.Message{
			ID:        uuid.NewString(),
			Role:      types.RoleAssistant,
			Content:   result.Message,
			AgentType: result.AgentType,
		})

		if result.Success && len(result.UpdatedSections) > 0 {
			resume.Sections = result.UpdatedSections
			if err := recordVersion(ctx, st, resume, result); err != nil {
				log.Warn("failed to record version", zap.Error(err))
			}
		}

		fmt.Printf("\n%s\n\n", result.Message)

		if cfg.Verbose {
			printer.PrintResult(result)
			if match, ok := result.Metadata["match_result"].(*agents.MatchResult); ok {
				printer.PrintMatchResult(match)
			}
			if info, ok := result.Metadata["company_info"].(*research.CompanyInfo); ok {
				printer.PrintCompanyInfo(info)
			}
		}
	}

	return scanner.Err()
}

// loadResumeFile reads a plain-text resume and registers it in the session
// store so version history works within the session.
func loadResumeFile(ctx context.Context, st store.Store, path string) (*types.Resume, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read resume file: %w", err)
	}

	text := string(raw)
	sections := extract.Sections(text, nil)
	if len(sections) == 0 {
		sections = []types.ResumeSection{
			{Type: types.SectionOther, Title: "Resume", Content: text, Order: 0},
		}
	}

	resume := &types.Resume{
		UserID:   "cli",
		Filename: path,
		RawText:  text,
		Sections: sections,
	}

	if err := st.CreateResume(ctx, resume); err != nil {
		return nil, err
	}
	if err := st.CreateVersion(ctx, store.InitialVersion(resume)); err != nil {
		return nil, err
	}
	return resume, nil
}

// recordVersion persists a resume mutation as the next version.
func recordVersion(ctx context.Context, st store.Store, resume *types.Resume, result *types.AgentResult) error {
	if err := st.UpdateResume(ctx, resume); err != nil {
		return err
	}
	return st.CreateVersion(ctx, &types.ResumeVersion{
		ResumeID:           resume.ID,
		Content:            resume.FullText(),
		Sections:           resume.Sections,
		ChangesDescription: result.Reasoning,
		AgentUsed:          string(result.AgentType),
	})
}

// printHistory lists the session's version records.
func printHistory(ctx context.Context, st store.Store, resumeID string) {
	versions, err := st.ListVersions(ctx, resumeID)
	if err != nil {
		fmt.Printf("failed to list versions: %v\n", err)
		return
	}
	fmt.Println()
	for _, v := range versions {
		desc := v.ChangesDescription
		if desc == "" {
			desc = "(no description)"
		}
		fmt.Printf("  v%d  [%s]  %s\n", v.VersionNumber, v.AgentUsed, desc)
	}
	fmt.Println()
}
