package provider

import (
	"context"
	"os"
	"regexp"
	"strings"

	git "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing/transport/http"

	"github.com/dsablic/mergeplan/internal/errs"
)

var scpLike = regexp.MustCompile(`^[A-Za-z0-9._-]+@[A-Za-z0-9.-]+:`)

// IsRemote reports whether location names a remote repository rather than
// a path on disk.
func IsRemote(location string) bool {
	return strings.Contains(location, "://") || scpLike.MatchString(location)
}

// Cloner mirrors remote repositories into temporary directories so their
// branches can be analyzed locally.
type Cloner struct {
	token string
}

// NewCloner creates a Cloner. If token is non-empty it will be used for
// HTTP basic-auth (username "x-token-auth" works for GitHub and Bitbucket).
func NewCloner(token string) *Cloner {
	return &Cloner{token: token}
}

// Clone mirrors the repository at url, so that every remote branch is a
// local branch of the copy. It returns the copy opened with workers handles
// and a cleanup function that removes it. The caller must call cleanup when
// done.
func (c *Cloner) Clone(ctx context.Context, url string, workers int) (*Local, func(), error) {
	tmpDir, err := os.MkdirTemp("", "mergeplan-*")
	if err != nil {
		return nil, nil, errs.Repository(err, "create temp dir for %s", url)
	}

	cleanupFn := func() {
		os.RemoveAll(tmpDir)
	}

	opts := &git.CloneOptions{
		URL:    url,
		Mirror: true,
		Tags:   git.NoTags,
	}

	if c.token != "" {
		opts.Auth = &http.BasicAuth{
			Username: "x-token-auth",
			Password: c.token,
		}
	}

	repo, err := git.PlainCloneContext(ctx, tmpDir, true, opts)
	if err != nil {
		cleanupFn()
		return nil, nil, errs.Repository(err, "clone %s", url)
	}

	// The first handle is the clone itself; the rest reopen its storage.
	first := true
	l, err := openPool(url, workers, func() (*git.Repository, error) {
		if first {
			first = false
			return repo, nil
		}
		return git.PlainOpen(tmpDir)
	})
	if err != nil {
		cleanupFn()
		return nil, nil, err
	}
	return l, cleanupFn, nil
}
