package provider_test

import (
	"context"
	"os/exec"
	"testing"

	"github.com/dsablic/mergeplan/internal/provider"
)

func TestIsRemote(t *testing.T) {
	tests := map[string]bool{
		"https://github.com/org/repo.git": true,
		"ssh://git@host/org/repo":         true,
		"git@github.com:org/repo.git":     true,
		"file:///srv/repo":                true,
		".":                               false,
		"/home/me/src/repo":               false,
		"../repo":                         false,
		`C:\src\repo`:                     false,
	}
	for location, want := range tests {
		if got := provider.IsRemote(location); got != want {
			t.Errorf("IsRemote(%q) = %v, want %v", location, got, want)
		}
	}
}

func TestCloneMirrorsBranches(t *testing.T) {
	// go-git clones local paths through git-upload-pack.
	if _, err := exec.LookPath("git"); err != nil {
		t.Skip("git binary not available")
	}
	f := newFixture(t)

	l, cleanup, err := provider.NewCloner("").Clone(context.Background(), f.dir, 3)
	if err != nil {
		t.Fatalf("Clone: %v", err)
	}
	defer cleanup()

	if l.Workers() != 3 {
		t.Errorf("expected 3 workers, got %d", l.Workers())
	}
	if l.Path() != f.dir {
		t.Errorf("expected path %s, got %s", f.dir, l.Path())
	}
	branches, err := l.Branches(context.Background())
	if err != nil {
		t.Fatalf("Branches: %v", err)
	}
	if len(branches) != 2 || branches[0] != "dev" || branches[1] != "master" {
		t.Errorf("expected [dev master], got %v", branches)
	}

	n, err := l.CommitCount(context.Background(), "dev")
	if err != nil {
		t.Fatalf("CommitCount dev: %v", err)
	}
	if n != 3 {
		t.Errorf("expected 3 commits on dev, got %d", n)
	}
}

func TestCloneFailure(t *testing.T) {
	_, _, err := provider.NewCloner("").Clone(context.Background(), t.TempDir(), 1)
	if err == nil {
		t.Fatal("expected error cloning a directory that is not a repository")
	}
}
