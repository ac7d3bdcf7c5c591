package git

import (
	"fmt"
	"strings"

	goGit "github.com/go-git/go-git/v5"
)

// Origin identifies the GitHub project a repository's origin remote points at.
type Origin struct {
	Owner string
	Repo  string
}

// DetectOrigin opens the repository containing dir and derives the owner and
// repository name from the origin remote URL. It is used to default the
// publish target when no owner or repo is configured.
func DetectOrigin(dir string) (Origin, error) {
	repo, err := goGit.PlainOpenWithOptions(dir, &goGit.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		return Origin{}, fmt.Errorf("open repo: %w", err)
	}

	remote, err := repo.Remote("origin")
	if err != nil {
		return Origin{}, fmt.Errorf("resolve origin remote: %w", err)
	}

	urls := remote.Config().URLs
	if len(urls) == 0 {
		return Origin{}, fmt.Errorf("origin remote has no URL")
	}

	return ParseRemoteURL(urls[0])
}

// ParseRemoteURL extracts the owner and repository name from a git remote URL.
// Both SSH (git@github.com:owner/repo.git) and HTTPS
// (https://github.com/owner/repo.git) forms are supported.
func ParseRemoteURL(url string) (Origin, error) {
	trimmed := strings.TrimSuffix(strings.TrimSpace(url), ".git")

	var path string
	switch {
	case strings.Contains(trimmed, "://"):
		parts := strings.SplitN(trimmed, "://", 2)
		rest := parts[1]
		slash := strings.Index(rest, "/")
		if slash < 0 {
			return Origin{}, fmt.Errorf("unrecognized remote URL: %s", url)
		}
		path = rest[slash+1:]
	case strings.Contains(trimmed, "@") && strings.Contains(trimmed, ":"):
		// scp-like syntax: git@host:owner/repo
		parts := strings.SplitN(trimmed, ":", 2)
		path = parts[1]
	default:
		return Origin{}, fmt.Errorf("unrecognized remote URL: %s", url)
	}

	path = strings.Trim(path, "/")
	segments := strings.Split(path, "/")
	if len(segments) < 2 || segments[0] == "" || segments[1] == "" {
		return Origin{}, fmt.Errorf("remote URL has no owner/repo: %s", url)
	}

	return Origin{Owner: segments[0], Repo: segments[1]}, nil
}
