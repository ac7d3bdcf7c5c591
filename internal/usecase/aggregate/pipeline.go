package aggregate

import (
	"context"
	"fmt"

	"github.com/bkyoung/review-aggregator/internal/domain"
)

// Request carries the caller-supplied configuration for one run.
type Request struct {
	InputDir    string
	MaxComments int
}

// Result is the outcome of one aggregation run. Sorted holds the full
// severity-ranked sequence; the Report embeds only the capped prefix.
type Result struct {
	Report domain.Report
	Text   string
	Sorted []domain.Issue
}

// Pipeline runs the load, normalize, merge, rank, disagreement-detect,
// render sequence. It is synchronous and single-pass: each stage
// depends only on the previous stage's output.
type Pipeline struct {
	loader *Loader
	logger Logger
}

// NewPipeline constructs the aggregation pipeline.
func NewPipeline(logger Logger) *Pipeline {
	return &Pipeline{
		loader: NewLoader(logger),
		logger: logger,
	}
}

// Run executes the pipeline. Per-file and per-record faults are logged
// and skipped; only caller mistakes (negative cap, unusable input
// directory) return an error. No findings at all is not an error.
func (p *Pipeline) Run(ctx context.Context, req Request) (Result, error) {
	if req.MaxComments < 0 {
		return Result{}, fmt.Errorf("maxComments must be non-negative, got %d", req.MaxComments)
	}

	records, err := p.loader.Load(ctx, req.InputDir)
	if err != nil {
		return Result{}, err
	}

	issues := make([]domain.Issue, 0, len(records))
	for _, rec := range records {
		issue := Normalize(rec)
		if issue == nil {
			p.warn(ctx, "dropping record without message", map[string]interface{}{
				"source": rec.Source,
			})
			continue
		}
		issues = append(issues, *issue)
	}

	merged, locations := Merge(issues)
	sorted, capped := Rank(merged, req.MaxComments)
	disagreements := Disagreements(locations)
	report := BuildReport(sorted, capped, disagreements, req.MaxComments)
	text := RenderText(sorted, report)

	p.info(ctx, "aggregation complete", map[string]interface{}{
		"total":         report.Total,
		"emitted":       report.Emitted,
		"disagreements": len(report.Disagreements),
	})

	return Result{Report: report, Text: text, Sorted: sorted}, nil
}

func (p *Pipeline) warn(ctx context.Context, message string, fields map[string]interface{}) {
	if p.logger != nil {
		p.logger.LogWarning(ctx, message, fields)
	}
}

func (p *Pipeline) info(ctx context.Context, message string, fields map[string]interface{}) {
	if p.logger != nil {
		p.logger.LogInfo(ctx, message, fields)
	}
}
