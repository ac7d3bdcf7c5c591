package rewrite_test

import (
	"context"
	"errors"
	"testing"

	"github.com/bkyoung/review-aggregator/internal/domain"
	"github.com/bkyoung/review-aggregator/internal/usecase/rewrite"
	"github.com/stretchr/testify/assert"
)

type stubProvider struct {
	text   string
	err    error
	prompt string
}

func (s *stubProvider) Rewrite(_ context.Context, prompt string) (string, error) {
	s.prompt = prompt
	return s.text, s.err
}

func TestRewriteUsesProviderText(t *testing.T) {
	provider := &stubProvider{text: "friendlier version"}
	rewriter := rewrite.NewRewriter(provider, nil)

	got := rewriter.Rewrite(context.Background(), domain.Report{Total: 2, Emitted: 2, MaxComments: 15}, "deterministic")

	assert.Equal(t, "friendlier version", got)
	assert.Contains(t, provider.prompt, "deterministic", "prompt embeds the deterministic rendering")
	assert.Contains(t, provider.prompt, "2 found")
}

func TestRewriteFallsBackOnError(t *testing.T) {
	provider := &stubProvider{err: errors.New("network down")}
	rewriter := rewrite.NewRewriter(provider, nil)

	got := rewriter.Rewrite(context.Background(), domain.Report{}, "deterministic")

	assert.Equal(t, "deterministic", got)
}

func TestRewriteFallsBackOnEmptyCompletion(t *testing.T) {
	provider := &stubProvider{text: "   \n"}
	rewriter := rewrite.NewRewriter(provider, nil)

	got := rewriter.Rewrite(context.Background(), domain.Report{}, "deterministic")

	assert.Equal(t, "deterministic", got)
}

func TestRewriteWithoutProviderIsDisabled(t *testing.T) {
	rewriter := rewrite.NewRewriter(nil, nil)

	got := rewriter.Rewrite(context.Background(), domain.Report{}, "deterministic")

	assert.Equal(t, "deterministic", got)
}
