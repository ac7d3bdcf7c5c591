package rewrite

import (
	"context"
	"fmt"
	"strings"

	"github.com/bkyoung/review-aggregator/internal/domain"
	"github.com/bkyoung/review-aggregator/internal/usecase/aggregate"
)

// Provider produces an alternative rendering of the aggregated report.
type Provider interface {
	Rewrite(ctx context.Context, prompt string) (string, error)
}

// Rewriter asks a chat-completion endpoint to restate the aggregated
// report. It fails open: on any failure (no provider, transport error,
// empty completion) the deterministic text is returned unchanged so
// valid feedback is never lost.
type Rewriter struct {
	provider Provider
	logger   aggregate.Logger
}

// NewRewriter constructs a rewriter. A nil provider disables the pass.
func NewRewriter(provider Provider, logger aggregate.Logger) *Rewriter {
	return &Rewriter{provider: provider, logger: logger}
}

// Rewrite returns the rewritten text, or fallback on any failure.
func (r *Rewriter) Rewrite(ctx context.Context, report domain.Report, fallback string) string {
	if r.provider == nil {
		return fallback
	}

	text, err := r.provider.Rewrite(ctx, buildPrompt(report, fallback))
	if err != nil {
		r.warn(ctx, "rewrite pass failed, using deterministic report", map[string]interface{}{
			"error": err.Error(),
		})
		return fallback
	}
	if strings.TrimSpace(text) == "" {
		r.warn(ctx, "rewrite pass returned empty text, using deterministic report", nil)
		return fallback
	}
	return text
}

func buildPrompt(report domain.Report, fallback string) string {
	var b strings.Builder
	b.WriteString("Rewrite the following aggregated code review summary as a concise, friendly review comment. ")
	b.WriteString("Keep every issue with its severity, location, and contributing tools. Do not invent or drop findings.\n\n")
	b.WriteString(fmt.Sprintf("Totals: %d found, %d shown (cap %d).\n\n", report.Total, report.Emitted, report.MaxComments))
	b.WriteString(fallback)
	return b.String()
}

func (r *Rewriter) warn(ctx context.Context, message string, fields map[string]interface{}) {
	if r.logger != nil {
		r.logger.LogWarning(ctx, message, fields)
	}
}
