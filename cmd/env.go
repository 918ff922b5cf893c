package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/abhisek/mathsolver/internal/config"
	"github.com/abhisek/mathsolver/internal/llm"
	"github.com/abhisek/mathsolver/internal/logger"
	"github.com/abhisek/mathsolver/internal/ocr"
	"github.com/abhisek/mathsolver/internal/pipeline"
	"github.com/abhisek/mathsolver/internal/store"
)

// env is what a command needs to solve problems.
type env struct {
	cfg      config.Config
	store    *store.Store
	pipeline *pipeline.Pipeline
}

func (e *env) Close() error {
	return e.store.Close()
}

// loadConfig reads the config file named by --config and applies --db.
func loadConfig(cmd *cobra.Command) (config.Config, error) {
	path, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(path)
	if err != nil {
		return cfg, fmt.Errorf("load config: %w", err)
	}
	if p, _ := cmd.Flags().GetString("db"); p != "" {
		cfg.DBPath = p
	}
	return cfg, nil
}

// resolveDBPath returns the database path using --db flag (highest priority),
// then the config file and MATHSOLVER_DB, then the default XDG path.
func resolveDBPath(cmd *cobra.Command) (string, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return "", err
	}
	if cfg.DBPath != "" {
		return cfg.DBPath, store.EnsureDir(cfg.DBPath)
	}
	return store.DefaultDBPath()
}

// openStore opens the database named by the flags and config.
func openStore(cmd *cobra.Command) (*store.Store, error) {
	dbPath, err := resolveDBPath(cmd)
	if err != nil {
		return nil, fmt.Errorf("resolve database path: %w", err)
	}
	s, err := store.Open(dbPath)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	return s, nil
}

// openEnv loads config, opens the store and builds the pipeline. OCR is
// wired only when an LLM provider key is configured.
func openEnv(cmd *cobra.Command, skipHistory bool) (*env, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}
	s, err := openStore(cmd)
	if err != nil {
		return nil, err
	}

	opts := pipeline.Options{
		History:     s.HistoryRepo(),
		Stats:       s.StatsRepo(),
		HistorySize: cfg.HistorySize,
		Limits:      cfg.Limits(),
		Timeout:     cfg.Timeout(),
		SkipHistory: skipHistory,
	}

	if cfg.LLM.HasKey() {
		provider, err := llm.NewProvider(cmd.Context(), cfg.LLM, s.EventRepo())
		if err != nil {
			logger.Warn("LLM provider unavailable: %v", err)
		} else {
			logger.Debug("ocr provider %s model %s", cfg.LLM.Provider, provider.ModelID())
			opts.Recognizer = ocr.NewLLMRecognizer(provider, cfg.Recognizer())
		}
	}

	return &env{cfg: cfg, store: s, pipeline: pipeline.New(opts)}, nil
}
