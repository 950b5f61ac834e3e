package provider

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	git "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"

	"github.com/dsablic/mergeplan/internal/errs"
	"github.com/dsablic/mergeplan/internal/model"
)

// Local implements GitData over a repository on disk using go-git.
//
// A go-git repository handle is not safe for concurrent use, so Local keeps
// a pool of handles opened on the same storage and each call borrows one for
// its duration. Workers reports the pool size; callers that run more
// queries than that at once wait for a free handle.
type Local struct {
	path    string
	handles chan *git.Repository
}

// OpenLocal opens the repository containing path with workers handles.
func OpenLocal(path string, workers int) (*Local, error) {
	open := func() (*git.Repository, error) {
		return git.PlainOpenWithOptions(path, &git.PlainOpenOptions{DetectDotGit: true})
	}
	return openPool(path, workers, open)
}

// NewLocal wraps an already opened repository as a single-handle pool.
func NewLocal(repo *git.Repository, path string) *Local {
	l := &Local{path: path, handles: make(chan *git.Repository, 1)}
	l.handles <- repo
	return l
}

func openPool(path string, workers int, open func() (*git.Repository, error)) (*Local, error) {
	if workers < 1 {
		workers = 1
	}
	l := &Local{path: path, handles: make(chan *git.Repository, workers)}
	for range workers {
		repo, err := open()
		if err != nil {
			return nil, errs.Repository(err, "open repository %s", path)
		}
		l.handles <- repo
	}
	return l, nil
}

// Path returns the location the repository was opened from.
func (l *Local) Path() string {
	return l.path
}

// Workers returns how many queries can run against the repository at once.
func (l *Local) Workers() int {
	return cap(l.handles)
}

// acquire borrows a handle, giving up when ctx is done first.
func (l *Local) acquire(ctx context.Context) (*handle, error) {
	select {
	case repo := <-l.handles:
		if err := ctx.Err(); err != nil {
			l.handles <- repo
			return nil, err
		}
		return &handle{Repository: repo, path: l.path, pool: l.handles}, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// handle is a borrowed repository. release returns it to the pool.
type handle struct {
	*git.Repository
	path string
	pool chan *git.Repository
}

func (h *handle) release() {
	h.pool <- h.Repository
}

// Branches lists local branch names in name order.
func (l *Local) Branches(ctx context.Context) ([]string, error) {
	h, err := l.acquire(ctx)
	if err != nil {
		return nil, err
	}
	defer h.release()

	iter, err := h.Branches()
	if err != nil {
		return nil, errs.Repository(err, "list branches of %s", l.path)
	}
	var names []string
	err = iter.ForEach(func(ref *plumbing.Reference) error {
		names = append(names, ref.Name().Short())
		return nil
	})
	if err != nil {
		return nil, errs.Repository(err, "list branches of %s", l.path)
	}
	sort.Strings(names)
	return names, nil
}

// LastCommit returns the tip commit of branch.
func (l *Local) LastCommit(ctx context.Context, branch string) (*model.Commit, error) {
	h, err := l.acquire(ctx)
	if err != nil {
		return nil, err
	}
	defer h.release()

	tip, err := h.resolve(branch)
	if err != nil {
		return nil, err
	}
	c := toCommit(tip, branch)
	return &c, nil
}

// CommitCount counts the commits reachable from the tip of branch.
func (l *Local) CommitCount(ctx context.Context, branch string) (int, error) {
	h, err := l.acquire(ctx)
	if err != nil {
		return 0, err
	}
	defer h.release()

	tip, err := h.resolve(branch)
	if err != nil {
		return 0, err
	}
	iter, err := h.Log(&git.LogOptions{From: tip.Hash})
	if err != nil {
		return 0, errs.Repository(err, "log branch %q", branch)
	}
	count := 0
	err = iter.ForEach(func(*object.Commit) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		count++
		return nil
	})
	if err != nil {
		return 0, errs.Repository(err, "count commits on branch %q", branch)
	}
	return count, nil
}

// MergeBase returns the hash of the nearest common ancestor of two branches.
func (l *Local) MergeBase(ctx context.Context, branchA, branchB string) (string, error) {
	h, err := l.acquire(ctx)
	if err != nil {
		return "", err
	}
	defer h.release()

	base, err := h.mergeBase(branchA, branchB)
	if err != nil {
		return "", err
	}
	return base.Hash.String(), nil
}

// CommitsInRange returns the commits on branch authored within [start, end],
// newest first.
func (l *Local) CommitsInRange(ctx context.Context, branch string, start, end time.Time) ([]model.Commit, error) {
	h, err := l.acquire(ctx)
	if err != nil {
		return nil, err
	}
	defer h.release()

	tip, err := h.resolve(branch)
	if err != nil {
		return nil, err
	}
	iter, err := h.Log(&git.LogOptions{From: tip.Hash, Order: git.LogOrderCommitterTime})
	if err != nil {
		return nil, errs.Repository(err, "log branch %q", branch)
	}

	var commits []model.Commit
	err = iter.ForEach(func(c *object.Commit) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		when := c.Author.When
		if when.Before(start) || when.After(end) {
			return nil
		}
		commits = append(commits, toCommit(c, branch))
		return nil
	})
	if err != nil {
		return nil, errs.Repository(err, "read history of branch %q", branch)
	}
	newestFirst(commits)
	return commits, nil
}

// FileHistory returns the commits on branch that touched path, newest first.
func (l *Local) FileHistory(ctx context.Context, branch, path string) ([]model.Commit, error) {
	h, err := l.acquire(ctx)
	if err != nil {
		return nil, err
	}
	defer h.release()

	tip, err := h.resolve(branch)
	if err != nil {
		return nil, err
	}
	file := strings.TrimPrefix(path, "./")
	iter, err := h.Log(&git.LogOptions{
		From:     tip.Hash,
		Order:    git.LogOrderCommitterTime,
		FileName: &file,
	})
	if err != nil {
		return nil, errs.Repository(err, "log %s on branch %q", path, branch)
	}

	var commits []model.Commit
	err = iter.ForEach(func(c *object.Commit) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		commits = append(commits, toCommit(c, branch))
		return nil
	})
	if err != nil {
		return nil, errs.Repository(err, "read history of %s on branch %q", path, branch)
	}
	newestFirst(commits)
	return commits, nil
}

// ChangedFiles lists the paths changed on toRef since its merge base with
// fromRef, the equivalent of "git diff fromRef...toRef --name-only".
func (l *Local) ChangedFiles(ctx context.Context, fromRef, toRef string) ([]string, error) {
	h, err := l.acquire(ctx)
	if err != nil {
		return nil, err
	}
	defer h.release()

	base, err := h.mergeBase(fromRef, toRef)
	if err != nil {
		return nil, err
	}
	tip, err := h.resolve(toRef)
	if err != nil {
		return nil, err
	}

	baseTree, err := base.Tree()
	if err != nil {
		return nil, errs.Repository(err, "read tree of %s", base.Hash)
	}
	tipTree, err := tip.Tree()
	if err != nil {
		return nil, errs.Repository(err, "read tree of branch %q", toRef)
	}
	changes, err := baseTree.DiffContext(ctx, tipTree)
	if err != nil {
		return nil, errs.Repository(err, "diff %s...%s", fromRef, toRef)
	}

	seen := map[string]bool{}
	var files []string
	for _, ch := range changes {
		for _, name := range []string{ch.From.Name, ch.To.Name} {
			if name != "" && !seen[name] {
				seen[name] = true
				files = append(files, name)
			}
		}
	}
	sort.Strings(files)
	return files, nil
}

// FileContent returns the contents of path at the tip of ref.
func (l *Local) FileContent(ctx context.Context, ref, path string) ([]byte, error) {
	h, err := l.acquire(ctx)
	if err != nil {
		return nil, err
	}
	defer h.release()

	tip, err := h.resolve(ref)
	if err != nil {
		return nil, err
	}
	f, err := tip.File(path)
	if err != nil {
		return nil, errs.Repository(err, "read %s on %q", path, ref)
	}
	contents, err := f.Contents()
	if err != nil {
		return nil, errs.Repository(err, "read %s on %q", path, ref)
	}
	return []byte(contents), nil
}

func (h *handle) resolve(branch string) (*object.Commit, error) {
	if branch == "" {
		return nil, errs.InvalidInput("branch name is empty")
	}
	hash, err := h.ResolveRevision(plumbing.Revision(branch))
	if err != nil {
		return nil, errs.Repository(err, "resolve branch %q in %s", branch, h.path)
	}
	c, err := h.CommitObject(*hash)
	if err != nil {
		return nil, errs.Repository(err, "read commit %s of branch %q", hash, branch)
	}
	return c, nil
}

func (h *handle) mergeBase(branchA, branchB string) (*object.Commit, error) {
	a, err := h.resolve(branchA)
	if err != nil {
		return nil, err
	}
	b, err := h.resolve(branchB)
	if err != nil {
		return nil, err
	}
	bases, err := a.MergeBase(b)
	if err != nil {
		return nil, errs.Repository(err, "merge base of %q and %q", branchA, branchB)
	}
	if len(bases) == 0 {
		return nil, errs.Repository(nil, "branches %q and %q share no history", branchA, branchB)
	}
	// Criss-cross merges can yield several bases; pick one deterministically.
	sort.Slice(bases, func(i, j int) bool {
		return bases[i].Hash.String() < bases[j].Hash.String()
	})
	return bases[0], nil
}

// newestFirst orders commits by author time, newest first. The log walk
// follows committer time, which disagrees with author time after a rebase
// or cherry-pick.
func newestFirst(commits []model.Commit) {
	sort.SliceStable(commits, func(i, j int) bool {
		return commits[i].Timestamp.After(commits[j].Timestamp)
	})
}

func toCommit(c *object.Commit, branch string) model.Commit {
	return model.Commit{
		Hash:      c.Hash.String(),
		Author:    fmt.Sprintf("%s <%s>", c.Author.Name, c.Author.Email),
		Timestamp: c.Author.When,
		Message:   subject(c.Message),
		Branch:    branch,
	}
}

// subject returns the first line of a commit message, untouched otherwise.
func subject(message string) string {
	if i := strings.IndexByte(message, '\n'); i >= 0 {
		message = message[:i]
	}
	return strings.TrimRight(message, "\r")
}
