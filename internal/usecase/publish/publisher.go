package publish

import (
	"context"
	"fmt"

	"github.com/bkyoung/review-aggregator/internal/usecase/aggregate"
)

// Poster defines the transport used to publish the final text.
type Poster interface {
	CreateIssueComment(ctx context.Context, owner, repo string, number int, body string) (string, error)
}

// Request carries the coordinates and body for one publication.
type Request struct {
	Owner    string
	Repo     string
	PRNumber int
	Body     string
}

// Publisher posts the aggregated report text to the review system. The
// aggregation result never depends on publishing succeeding; callers
// treat a returned error as a warning.
type Publisher struct {
	poster Poster
	logger aggregate.Logger
}

// NewPublisher constructs a publisher.
func NewPublisher(poster Poster, logger aggregate.Logger) *Publisher {
	return &Publisher{poster: poster, logger: logger}
}

// Publish validates the request and posts the body as a PR comment.
func (p *Publisher) Publish(ctx context.Context, req Request) error {
	if p.poster == nil {
		return fmt.Errorf("no poster configured; set a GitHub token")
	}
	if req.Owner == "" || req.Repo == "" {
		return fmt.Errorf("owner and repo are required to publish")
	}
	if req.PRNumber <= 0 {
		return fmt.Errorf("pull request number must be positive, got %d", req.PRNumber)
	}
	if req.Body == "" {
		return fmt.Errorf("refusing to publish an empty comment")
	}

	url, err := p.poster.CreateIssueComment(ctx, req.Owner, req.Repo, req.PRNumber, req.Body)
	if err != nil {
		return fmt.Errorf("post review comment: %w", err)
	}

	if p.logger != nil {
		p.logger.LogInfo(ctx, "review comment posted", map[string]interface{}{
			"url": url,
		})
	}
	return nil
}
