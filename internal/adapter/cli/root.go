package cli

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/bkyoung/review-aggregator/internal/domain"
	"github.com/bkyoung/review-aggregator/internal/store"
	"github.com/bkyoung/review-aggregator/internal/usecase/aggregate"
	"github.com/bkyoung/review-aggregator/internal/usecase/publish"
)

// ErrVersionRequested indicates the user requested the CLI version and no further work should be done.
var ErrVersionRequested = errors.New("version requested")

// Aggregator runs the aggregation pipeline over a findings directory.
type Aggregator interface {
	Run(ctx context.Context, req aggregate.Request) (aggregate.Result, error)
}

// Rewriter reworks the rendered report text, falling back to the
// deterministic rendering when the rework cannot be produced.
type Rewriter interface {
	Rewrite(ctx context.Context, report domain.Report, fallback string) string
}

// Publisher posts the final report to a pull request.
type Publisher interface {
	Publish(ctx context.Context, req publish.Request) error
}

// ReportWriter persists a structured report artifact and returns its path.
type ReportWriter interface {
	Write(ctx context.Context, artifact domain.ReportArtifact) (string, error)
}

// TextWriter persists a rendered text artifact and returns its path.
type TextWriter interface {
	Write(ctx context.Context, artifact domain.TextArtifact) (string, error)
}

// Arguments encapsulates IO writers injected from the host process.
type Arguments struct {
	OutWriter io.Writer
	ErrWriter io.Writer
}

// Defaults holds flag defaults sourced from configuration.
type Defaults struct {
	InputDir    string
	OutputDir   string
	Basename    string
	MaxComments int
	Markdown    bool
	GitHubOwner string
	GitHubRepo  string
}

// Dependencies captures the collaborators for the CLI.
type Dependencies struct {
	Aggregator       Aggregator
	Rewriter         Rewriter
	Publisher        Publisher
	JSONWriter       ReportWriter
	MarkdownWriter   ReportWriter
	TextWriter       TextWriter
	Store            store.Store
	Logger           aggregate.Logger
	Args             Arguments
	Defaults         Defaults
	IsOutputTerminal func() bool
	Version          string
}

// NewRootCommand constructs the root Cobra command.
func NewRootCommand(deps Dependencies) *cobra.Command {
	versionString := deps.Version
	if versionString == "" {
		versionString = "v0.0.0"
	}

	root := &cobra.Command{
		Use:   "ra",
		Short: "Multi-tool code review issue aggregator",
	}
	root.SilenceUsage = true
	root.SilenceErrors = true

	outWriter := deps.Args.OutWriter
	if outWriter == nil {
		outWriter = os.Stdout
	}
	errWriter := deps.Args.ErrWriter
	if errWriter == nil {
		errWriter = os.Stderr
	}
	root.SetOut(outWriter)
	root.SetErr(errWriter)

	root.AddCommand(aggregateCommand(deps))

	var showVersion bool
	root.PersistentFlags().BoolVarP(&showVersion, "version", "v", false, "Show version and exit")
	versionHandler := func(cmd *cobra.Command, args []string) error {
		if showVersion {
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), versionString)
			return ErrVersionRequested
		}
		return nil
	}
	root.PersistentPreRunE = versionHandler
	root.PreRunE = versionHandler
	root.RunE = func(cmd *cobra.Command, args []string) error {
		if err := versionHandler(cmd, args); err != nil {
			return err
		}
		return cmd.Help()
	}

	return root
}

func aggregateCommand(deps Dependencies) *cobra.Command {
	var inputDir string
	var outputDir string
	var basename string
	var maxComments int
	var writeMarkdown bool

	// GitHub integration flags
	var postComment bool
	var githubOwner string
	var githubRepo string
	var prNumber int

	cmd := &cobra.Command{
		Use:   "aggregate [input-dir]",
		Short: "Aggregate tool findings into a ranked review report",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) > 0 {
				inputDir = args[0]
			}
			ctx := cmd.Context()

			if maxComments < 0 {
				return fmt.Errorf("--max-comments must be non-negative, got %d", maxComments)
			}
			if inputDir == "" {
				return fmt.Errorf("input directory not specified; pass as an argument or use --input")
			}

			// Validate GitHub flags before doing any work
			if postComment {
				if githubOwner == "" || githubRepo == "" {
					return fmt.Errorf("--github-owner and --github-repo are required when --post-github-comment is set")
				}
				if prNumber <= 0 {
					return fmt.Errorf("--pr-number must be a positive integer when --post-github-comment is set")
				}
			}

			result, err := deps.Aggregator.Run(ctx, aggregate.Request{
				InputDir:    inputDir,
				MaxComments: maxComments,
			})
			if err != nil {
				return err
			}

			text := result.Text
			if deps.Rewriter != nil {
				text = deps.Rewriter.Rewrite(ctx, result.Report, result.Text)
			}

			jsonPath, err := deps.JSONWriter.Write(ctx, domain.ReportArtifact{
				OutputDir: outputDir,
				Basename:  basename,
				Report:    result.Report,
			})
			if err != nil {
				return fmt.Errorf("write report: %w", err)
			}

			textPath, err := deps.TextWriter.Write(ctx, domain.TextArtifact{
				OutputDir: outputDir,
				Basename:  basename,
				Text:      text,
			})
			if err != nil {
				return fmt.Errorf("write text report: %w", err)
			}

			paths := []string{jsonPath, textPath}
			if writeMarkdown && deps.MarkdownWriter != nil {
				mdPath, err := deps.MarkdownWriter.Write(ctx, domain.ReportArtifact{
					OutputDir: outputDir,
					Basename:  basename,
					Report:    result.Report,
				})
				if err != nil {
					return fmt.Errorf("write markdown report: %w", err)
				}
				paths = append(paths, mdPath)
			}

			saveRun(ctx, deps, inputDir, result.Report)

			if postComment && deps.Publisher != nil {
				err := deps.Publisher.Publish(ctx, publish.Request{
					Owner:    githubOwner,
					Repo:     githubRepo,
					PRNumber: prNumber,
					Body:     text,
				})
				if err != nil {
					// Publishing is best-effort: the report artifacts are
					// already on disk, so do not fail the run.
					warn(ctx, deps, "failed to post review comment", map[string]interface{}{"error": err.Error()})
					_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "warning: failed to post review comment: %v\n", err)
				}
			}

			isTerminal := deps.IsOutputTerminal != nil && deps.IsOutputTerminal()
			if isTerminal {
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), text)
			}
			for _, path := range paths {
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", path)
			}

			return nil
		},
	}

	if deps.Defaults.InputDir == "" {
		deps.Defaults.InputDir = "findings"
	}
	if deps.Defaults.OutputDir == "" {
		deps.Defaults.OutputDir = "out"
	}
	if deps.Defaults.Basename == "" {
		deps.Defaults.Basename = "report"
	}
	cmd.Flags().StringVar(&inputDir, "input", deps.Defaults.InputDir, "Directory containing per-tool findings files")
	cmd.Flags().StringVar(&outputDir, "output", deps.Defaults.OutputDir, "Directory to write report artifacts")
	cmd.Flags().StringVar(&basename, "basename", deps.Defaults.Basename, "Base filename for report artifacts")
	cmd.Flags().IntVar(&maxComments, "max-comments", deps.Defaults.MaxComments, "Maximum number of issues to emit in the report")
	cmd.Flags().BoolVar(&writeMarkdown, "markdown", deps.Defaults.Markdown, "Additionally write a Markdown report")

	// GitHub integration flags
	cmd.Flags().BoolVar(&postComment, "post-github-comment", false, "Post the report as a pull request comment")
	cmd.Flags().StringVar(&githubOwner, "github-owner", deps.Defaults.GitHubOwner, "GitHub repository owner (required with --post-github-comment)")
	cmd.Flags().StringVar(&githubRepo, "github-repo", deps.Defaults.GitHubRepo, "GitHub repository name (required with --post-github-comment)")
	cmd.Flags().IntVar(&prNumber, "pr-number", 0, "Pull request number (required with --post-github-comment)")

	return cmd
}

// saveRun records the run outcome when a store is configured. Storage is
// best-effort and never fails the command.
func saveRun(ctx context.Context, deps Dependencies, inputDir string, report domain.Report) {
	if deps.Store == nil {
		return
	}

	now := time.Now()
	err := deps.Store.SaveRun(ctx, store.RunRecord{
		RunID:         generateRunID(now, inputDir),
		Timestamp:     now,
		InputDir:      inputDir,
		Total:         report.Total,
		Emitted:       report.Emitted,
		MaxComments:   report.MaxComments,
		Disagreements: len(report.Disagreements),
		ToolCounts:    report.ToolCounts,
	})
	if err != nil {
		warn(ctx, deps, "failed to save run history", map[string]interface{}{"error": err.Error()})
	}
}

// generateRunID creates a unique, time-ordered run ID.
func generateRunID(timestamp time.Time, inputDir string) string {
	ts := timestamp.UTC().Format("20060102T150405Z")

	input := fmt.Sprintf("%s|%d", inputDir, timestamp.UnixNano())
	hash := sha256.Sum256([]byte(input))
	shortHash := hex.EncodeToString(hash[:3])

	return fmt.Sprintf("run-%s-%s", ts, shortHash)
}

func warn(ctx context.Context, deps Dependencies, message string, fields map[string]interface{}) {
	if deps.Logger == nil {
		return
	}
	deps.Logger.LogWarning(ctx, message, fields)
}
