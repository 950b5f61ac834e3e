// Package providertest provides an in-memory GitData for tests.
package providertest

import (
	"context"
	"sync"
	"time"

	"github.com/dsablic/mergeplan/internal/errs"
	"github.com/dsablic/mergeplan/internal/model"
	"github.com/dsablic/mergeplan/internal/provider"
)

var (
	_ provider.GitData       = (*Fake)(nil)
	_ provider.ContentReader = (*Fake)(nil)
)

// Fake serves canned repository data and records how often each query ran.
// Unknown branches fail with a repository error, as a real repository would.
type Fake struct {
	// Commits holds each branch's full history, newest first.
	Commits map[string][]model.Commit
	// Bases maps "a|b" (either order) to a merge base hash.
	Bases map[string]string
	// Files maps branch -> path -> history, newest first.
	Files map[string]map[string][]model.Commit
	// Changed maps "from|to" to changed paths.
	Changed map[string][]string
	// Contents maps "ref|path" to file contents.
	Contents map[string][]byte

	mu    sync.Mutex
	calls map[string]int
}

// Calls returns how many times the named query ran.
func (f *Fake) Calls(query string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[query]
}

func (f *Fake) record(query string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.calls == nil {
		f.calls = map[string]int{}
	}
	f.calls[query]++
}

func (f *Fake) history(branch string) ([]model.Commit, error) {
	h, ok := f.Commits[branch]
	if !ok {
		return nil, errs.Repository(nil, "resolve branch %q", branch)
	}
	return h, nil
}

func (f *Fake) LastCommit(ctx context.Context, branch string) (*model.Commit, error) {
	f.record("LastCommit")
	h, err := f.history(branch)
	if err != nil {
		return nil, err
	}
	if len(h) == 0 {
		return nil, nil
	}
	c := h[0]
	c.Branch = branch
	return &c, nil
}

func (f *Fake) CommitCount(ctx context.Context, branch string) (int, error) {
	f.record("CommitCount")
	h, err := f.history(branch)
	return len(h), err
}

func (f *Fake) MergeBase(ctx context.Context, a, b string) (string, error) {
	f.record("MergeBase")
	if _, err := f.history(a); err != nil {
		return "", err
	}
	if _, err := f.history(b); err != nil {
		return "", err
	}
	if base, ok := f.Bases[a+"|"+b]; ok {
		return base, nil
	}
	if base, ok := f.Bases[b+"|"+a]; ok {
		return base, nil
	}
	return "", errs.Repository(nil, "branches %q and %q share no history", a, b)
}

func (f *Fake) CommitsInRange(ctx context.Context, branch string, start, end time.Time) ([]model.Commit, error) {
	f.record("CommitsInRange")
	h, err := f.history(branch)
	if err != nil {
		return nil, err
	}
	var out []model.Commit
	for _, c := range h {
		if c.Timestamp.Before(start) || c.Timestamp.After(end) {
			continue
		}
		c.Branch = branch
		out = append(out, c)
	}
	return out, nil
}

func (f *Fake) FileHistory(ctx context.Context, branch, path string) ([]model.Commit, error) {
	f.record("FileHistory")
	if _, err := f.history(branch); err != nil {
		return nil, err
	}
	var out []model.Commit
	for _, c := range f.Files[branch][path] {
		c.Branch = branch
		out = append(out, c)
	}
	return out, nil
}

func (f *Fake) ChangedFiles(ctx context.Context, from, to string) ([]string, error) {
	f.record("ChangedFiles")
	if _, err := f.history(from); err != nil {
		return nil, err
	}
	if _, err := f.history(to); err != nil {
		return nil, err
	}
	return f.Changed[from+"|"+to], nil
}

func (f *Fake) FileContent(ctx context.Context, ref, path string) ([]byte, error) {
	f.record("FileContent")
	data, ok := f.Contents[ref+"|"+path]
	if !ok {
		return nil, errs.Repository(nil, "read %s on %q", path, ref)
	}
	return data, nil
}

// Linear returns n commits on a branch, one per day ending at last, newest
// first, with messages taken round-robin from messages.
func Linear(branch string, n int, last time.Time, messages ...string) []model.Commit {
	if len(messages) == 0 {
		messages = []string{"update"}
	}
	out := make([]model.Commit, n)
	for i := 0; i < n; i++ {
		out[i] = model.Commit{
			Hash:      branch + "-" + string(rune('a'+i%26)) + string(rune('0'+i/26%10)),
			Author:    "dev <dev@example.com>",
			Timestamp: last.AddDate(0, 0, -i),
			Message:   messages[i%len(messages)],
			Branch:    branch,
		}
	}
	return out
}
