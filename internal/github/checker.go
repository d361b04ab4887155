package github

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"path"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/google/go-github/v81/github"
)

// DefaultPrefix is how documents refer to the server repository.
const DefaultPrefix = "server/"

// PathChecker answers whether a reference such as "server/api/main.go"
// names a file or directory in a GitHub repository. The prefix is stripped
// to obtain the repository path.
type PathChecker struct {
	client *Client
	owner  string
	repo   string
	ref    string
	prefix string
}

// NewPathChecker creates a checker for owner/repo at ref (default branch
// when empty). References not starting with prefix are not checked.
func NewPathChecker(client *Client, owner, repo, ref, prefix string) *PathChecker {
	if prefix == "" {
		prefix = DefaultPrefix
	}
	return &PathChecker{
		client: client,
		owner:  owner,
		repo:   repo,
		ref:    ref,
		prefix: prefix,
	}
}

// RepoPath maps a reference to a repository path. ok is false when the
// reference does not belong to this repository.
func (c *PathChecker) RepoPath(ref string) (string, bool) {
	if !strings.HasPrefix(ref, c.prefix) {
		return "", false
	}
	p := path.Clean(strings.TrimPrefix(ref, c.prefix))
	if p == "." || strings.HasPrefix(p, "..") {
		return "", false
	}
	return p, true
}

// Exists reports whether ref exists remotely. References outside the
// checker's prefix are reported as existing. Server errors are retried with
// exponential backoff; a 404 is a definite "no".
func (c *PathChecker) Exists(ctx context.Context, ref string) (bool, error) {
	repoPath, ok := c.RepoPath(ref)
	if !ok {
		return true, nil
	}

	var opts *github.RepositoryContentGetOptions
	if c.ref != "" {
		opts = &github.RepositoryContentGetOptions{Ref: c.ref}
	}

	found := false
	operation := func() error {
		_, _, _, err := c.client.Repositories.GetContents(ctx, c.owner, c.repo, repoPath, opts)
		if err == nil {
			found = true
			return nil
		}
		if isNotFound(err) {
			found = false
			return nil
		}
		if isServerError(err) {
			return err
		}
		return backoff.Permanent(err)
	}

	b := backoff.NewExponentialBackOff()
	b.InitialInterval = 500 * time.Millisecond
	b.MaxInterval = 5 * time.Second
	b.MaxElapsedTime = 20 * time.Second

	if err := backoff.Retry(operation, backoff.WithContext(b, ctx)); err != nil {
		return false, fmt.Errorf("get contents of %s/%s/%s: %w", c.owner, c.repo, repoPath, err)
	}
	return found, nil
}

func statusCode(err error) int {
	var ghErr *github.ErrorResponse
	if errors.As(err, &ghErr) && ghErr.Response != nil {
		return ghErr.Response.StatusCode
	}
	return 0
}

func isNotFound(err error) bool {
	return statusCode(err) == http.StatusNotFound
}

func isServerError(err error) bool {
	return statusCode(err) >= http.StatusInternalServerError
}
