package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/bkyoung/review-aggregator/internal/adapter/cli"
	"github.com/bkyoung/review-aggregator/internal/adapter/git"
	githubadapter "github.com/bkyoung/review-aggregator/internal/adapter/github"
	"github.com/bkyoung/review-aggregator/internal/adapter/httpx"
	"github.com/bkyoung/review-aggregator/internal/adapter/llm/openai"
	"github.com/bkyoung/review-aggregator/internal/adapter/observability"
	jsonwriter "github.com/bkyoung/review-aggregator/internal/adapter/output/json"
	"github.com/bkyoung/review-aggregator/internal/adapter/output/markdown"
	"github.com/bkyoung/review-aggregator/internal/adapter/output/text"
	"github.com/bkyoung/review-aggregator/internal/adapter/store/sqlite"
	"github.com/bkyoung/review-aggregator/internal/config"
	"github.com/bkyoung/review-aggregator/internal/store"
	"github.com/bkyoung/review-aggregator/internal/usecase/aggregate"
	"github.com/bkyoung/review-aggregator/internal/usecase/publish"
	"github.com/bkyoung/review-aggregator/internal/usecase/rewrite"
	"github.com/bkyoung/review-aggregator/internal/version"
)

func main() {
	if err := run(); err != nil {
		log.Println(err)
		os.Exit(1)
	}
}

func run() error {
	// Create cancellable context with signal handling for graceful shutdown
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	cfg, err := config.Load(config.LoaderOptions{
		ConfigPaths: defaultConfigPaths(),
		FileName:    "ra",
		EnvPrefix:   "RA",
	})
	if err != nil {
		return fmt.Errorf("config load failed: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	logger := buildLogger(cfg.Observability)
	retryConf := buildRetryConfig(cfg.HTTP)

	pipeline := aggregate.NewPipeline(logger)

	// Rewrite pass is optional: without a provider the deterministic
	// rendering is used as-is.
	var rewriter cli.Rewriter
	if cfg.Rewrite.Enabled {
		var rewriteProvider rewrite.Provider
		apiKey := cfg.Rewrite.APIKey
		if apiKey == "" {
			apiKey = os.Getenv("OPENAI_API_KEY")
		}
		if apiKey == "" {
			log.Println("rewrite: no API key provided, using deterministic report text")
		} else {
			client := openai.NewClient(apiKey, cfg.Rewrite.Model)
			client.SetRetryConfig(retryConf)
			if timeout, err := time.ParseDuration(cfg.HTTP.Timeout); err == nil {
				client.SetTimeout(timeout)
			}
			rewriteProvider = client
		}
		rewriter = rewrite.NewRewriter(rewriteProvider, logger)
	}

	// GitHub poster is optional and only wired when a token is available.
	var publisher cli.Publisher
	if githubToken := resolveGitHubToken(cfg.GitHub); githubToken != "" {
		githubClient := githubadapter.NewClient(githubToken)
		githubClient.SetRetryConfig(retryConf)
		publisher = publish.NewPublisher(githubClient, logger)
	}

	// Initialize run history store if enabled
	var runStore store.Store
	if cfg.Store.Enabled {
		storeDir := filepath.Dir(cfg.Store.Path)
		if err := os.MkdirAll(storeDir, 0755); err != nil {
			log.Printf("warning: failed to create store directory: %v", err)
		} else {
			sqliteStore, err := sqlite.NewStore(cfg.Store.Path)
			if err != nil {
				log.Printf("warning: failed to initialize store: %v", err)
			} else {
				runStore = sqliteStore
				defer runStore.Close()
			}
		}
	}

	// Default the publish target from the origin remote when not configured
	owner, repo := cfg.GitHub.Owner, cfg.GitHub.Repo
	if owner == "" || repo == "" {
		if origin, err := git.DetectOrigin("."); err == nil {
			if owner == "" {
				owner = origin.Owner
			}
			if repo == "" {
				repo = origin.Repo
			}
		}
	}

	root := cli.NewRootCommand(cli.Dependencies{
		Aggregator:     pipeline,
		Rewriter:       rewriter,
		Publisher:      publisher,
		JSONWriter:     jsonwriter.NewWriter(),
		MarkdownWriter: markdown.NewWriter(),
		TextWriter:     text.NewWriter(),
		Store:          runStore,
		Logger:         logger,
		Defaults: cli.Defaults{
			InputDir:    cfg.Input.Directory,
			OutputDir:   cfg.Output.Directory,
			Basename:    cfg.Output.Basename,
			MaxComments: cfg.Report.MaxComments,
			Markdown:    cfg.Output.Markdown,
			GitHubOwner: owner,
			GitHubRepo:  repo,
		},
		IsOutputTerminal: aggregate.IsOutputTerminal,
		Version:          version.Value(),
	})

	if err := root.ExecuteContext(ctx); err != nil {
		if errors.Is(err, cli.ErrVersionRequested) {
			return nil
		}
		return fmt.Errorf("command failed: %w", err)
	}
	return nil
}

func defaultConfigPaths() []string {
	paths := []string{"."}
	if home, err := os.UserHomeDir(); err == nil {
		paths = append(paths, filepath.Join(home, ".config", "ra"))
	}
	return paths
}

// buildLogger creates the logger based on configuration. Returns nil when
// logging is disabled.
func buildLogger(cfg config.ObservabilityConfig) aggregate.Logger {
	if !cfg.Logging.Enabled {
		return nil
	}
	return observability.NewDefaultLogger(
		observability.ParseLogLevel(cfg.Logging.Level),
		observability.ParseLogFormat(cfg.Logging.Format),
	)
}

func buildRetryConfig(cfg config.HTTPConfig) httpx.RetryConfig {
	conf := httpx.DefaultRetryConfig()
	if cfg.MaxRetries > 0 {
		conf.MaxRetries = cfg.MaxRetries
	}
	if d, err := time.ParseDuration(cfg.InitialBackoff); err == nil && d > 0 {
		conf.InitialBackoff = d
	}
	if d, err := time.ParseDuration(cfg.MaxBackoff); err == nil && d > 0 {
		conf.MaxBackoff = d
	}
	if cfg.BackoffMultiplier > 1 {
		conf.Multiplier = cfg.BackoffMultiplier
	}
	return conf
}

func resolveGitHubToken(cfg config.GitHubConfig) string {
	if cfg.Token != "" {
		return cfg.Token
	}
	return os.Getenv("GITHUB_TOKEN")
}

// Compile-time interface compliance checks
var _ cli.Aggregator = (*aggregate.Pipeline)(nil)
var _ cli.Rewriter = (*rewrite.Rewriter)(nil)
var _ cli.Publisher = (*publish.Publisher)(nil)
var _ cli.ReportWriter = (*jsonwriter.Writer)(nil)
var _ cli.ReportWriter = (*markdown.Writer)(nil)
var _ cli.TextWriter = (*text.Writer)(nil)
var _ rewrite.Provider = (*openai.Client)(nil)
var _ publish.Poster = (*githubadapter.Client)(nil)
var _ store.Store = (*sqlite.Store)(nil)
