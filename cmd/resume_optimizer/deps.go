package main

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/jonathan/resume-optimizer/internal/agents"
	"github.com/jonathan/resume-optimizer/internal/config"
	"github.com/jonathan/resume-optimizer/internal/llm"
	"github.com/jonathan/resume-optimizer/internal/research"
	"github.com/jonathan/resume-optimizer/internal/vector"
	"github.com/jonathan/resume-optimizer/internal/websearch"
)

// loadConfig resolves the effective configuration: config-file values win
// over environment variables.
func loadConfig() (config.Config, error) {
	fileCfg := &config.Config{}
	if configPath != "" {
		loaded, err := config.LoadConfig(configPath)
		if err != nil {
			return config.Config{}, err
		}
		fileCfg = loaded
	}

	cfg := fileCfg.MergeWithDefaults(config.FromEnv())
	if verbose {
		cfg.Verbose = true
	}
	if err := cfg.Validate(); err != nil {
		return config.Config{}, err
	}
	if cfg.APIKey == "" {
		return config.Config{}, fmt.Errorf("a Gemini API key is required: set GEMINI_API_KEY or 'api_key' in the config file")
	}
	return cfg, nil
}

// deps bundles the agent stack shared by the serve and chat commands.
type deps struct {
	client   llm.Client
	index    vector.Index
	router   *agents.Router
	analyzer *agents.Analyzer
}

// buildDeps wires the model client, search, research, and agents from the
// configuration. The caller owns closing the client.
func buildDeps(ctx context.Context, cfg config.Config, logger *zap.Logger) (*deps, error) {
	modelCfg := llm.DefaultConfig()
	if cfg.LiteModel != "" {
		modelCfg = modelCfg.WithModel(llm.TierLite, cfg.LiteModel)
	}
	if cfg.StandardModel != "" {
		modelCfg = modelCfg.WithModel(llm.TierStandard, cfg.StandardModel)
	}
	if cfg.AdvancedModel != "" {
		modelCfg = modelCfg.WithModel(llm.TierAdvanced, cfg.AdvancedModel)
	}

	client, err := llm.NewGeminiClient(ctx, modelCfg, cfg.APIKey)
	if err != nil {
		return nil, fmt.Errorf("failed to create model client: %w", err)
	}

	var searcher websearch.Searcher = websearch.DisabledSearcher{}
	if cfg.SearchAPIKey != "" {
		gs, err := websearch.NewGoogleSearcher(ctx, cfg.SearchAPIKey, cfg.SearchEngineID)
		if err != nil {
			_ = client.Close()
			return nil, fmt.Errorf("failed to create searcher: %w", err)
		}
		searcher = gs
	} else {
		logger.Warn("web search not configured, company research will use general best practices")
	}

	index := vector.NewMemoryIndex()
	researchSvc := research.NewService(index, searcher, client, logger)

	return &deps{
		client:   client,
		index:    index,
		router:   agents.NewRouter(client, researchSvc, logger),
		analyzer: agents.NewAnalyzer(client, logger),
	}, nil
}
