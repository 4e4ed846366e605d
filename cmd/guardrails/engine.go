package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"guardrails/internal/change"
	"guardrails/internal/config"
	"guardrails/internal/impact"
	"guardrails/internal/logging"
	"guardrails/internal/project"
	"guardrails/internal/source"
)

// loadConfig reads and validates the tool config for one invocation
func loadConfig() (*config.Config, error) {
	cfg, err := config.LoadConfig(repoRootFlag)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// newLogger builds a logger from the configured format and level. JSON
// output forces JSON logs on stderr too so pipelines stay parseable; the
// GUARDRAILS_LOG_LEVEL env var overrides the configured level.
func newLogger(cfg *config.Config, outputFormat string) *logging.Logger {
	logFormat := cfg.Logging.Format
	if outputFormat == "json" {
		logFormat = "json"
	}
	level := cfg.Logging.Level
	if env := os.Getenv("GUARDRAILS_LOG_LEVEL"); env != "" {
		level = env
	}
	return logging.NewLogger(logging.Config{
		Format: logging.Format(logFormat),
		Level:  logging.LogLevel(level),
	})
}

// loadEngine wires the project context, source analyzer, and orchestrator
// for one command invocation.
func loadEngine(cfg *config.Config, logger *logging.Logger) (*impact.Analyzer, error) {
	projCtx, err := loadProjectContext(cfg)
	if err != nil {
		return nil, err
	}

	src := source.NewRegexAnalyzer(repoRootFlag, logger)
	src.SetScanLimits(cfg.Analysis.MaxFilesScanned, cfg.Analysis.IgnoreDirs)

	analyzer := impact.NewAnalyzer(src, logger)
	analyzer.SetTimeout(time.Duration(cfg.Analysis.TimeoutMs) * time.Millisecond)
	analyzer.SetConcurrency(cfg.Analysis.Concurrency)
	if err := analyzer.Initialize(projCtx); err != nil {
		return nil, err
	}
	return analyzer, nil
}

// loadProjectContext reads the context file when present; a missing file
// yields an empty context, which disables critical-component scoring but
// never blocks analysis.
func loadProjectContext(cfg *config.Config) (*project.Context, error) {
	contextPath := filepath.Join(repoRootFlag, cfg.Analysis.ContextFile)
	if _, err := os.Stat(contextPath); os.IsNotExist(err) {
		return &project.Context{RootPath: repoRootFlag}, nil
	}

	projCtx, err := project.Load(contextPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load project context: %w", err)
	}
	if projCtx.RootPath == "" {
		projCtx.RootPath = repoRootFlag
	}
	return projCtx, nil
}

// loadChanges reads changes from a diff (path or "-" for stdin) or a
// JSON change-set file. Exactly one source must be given.
func loadChanges(diffPath, changesPath, author string) ([]change.CodeChange, error) {
	switch {
	case diffPath != "" && changesPath != "":
		return nil, fmt.Errorf("--diff and --changes are mutually exclusive")
	case diffPath != "":
		return loadDiff(diffPath, author)
	case changesPath != "":
		return loadChangeSet(changesPath)
	default:
		return nil, fmt.Errorf("one of --diff or --changes is required")
	}
}

func loadDiff(diffPath, author string) ([]change.CodeChange, error) {
	var r io.Reader
	if diffPath == "-" {
		r = os.Stdin
	} else {
		f, err := os.Open(diffPath)
		if err != nil {
			return nil, fmt.Errorf("failed to open diff: %w", err)
		}
		defer f.Close()
		r = f
	}
	return change.FromDiff(r, author)
}

func loadChangeSet(changesPath string) ([]change.CodeChange, error) {
	data, err := os.ReadFile(changesPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read change set: %w", err)
	}

	var changes []change.CodeChange
	if err := json.Unmarshal(data, &changes); err != nil {
		return nil, fmt.Errorf("failed to parse change set: %w", err)
	}
	for i := range changes {
		filled, err := change.New(changes[i])
		if err != nil {
			return nil, err
		}
		changes[i] = *filled
	}
	return changes, nil
}
