package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"github.com/cockroachdb/errors"
	git "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dsablic/mergeplan/internal/errs"
	"github.com/dsablic/mergeplan/internal/model"
	"github.com/dsablic/mergeplan/internal/ui"
)

// newRepo builds:
//
//	master:  c1 (a.go) -- c2 (a.go)
//	dev:       \-- c3 (a.go, b.go) -- c4 (b.go)
//	feature:   \-- c5 (a.go)
func newRepo(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	repo, err := git.PlainInit(dir, false)
	require.NoError(t, err)
	wt, err := repo.Worktree()
	require.NoError(t, err)

	commit := func(name string, day int, msg string, files ...string) plumbing.Hash {
		for _, f := range files {
			content := "package a\n\n// " + name + "\nfunc F(x int) int {\n\tif x > 0 {\n\t\treturn x\n\t}\n\treturn 0\n}\n"
			require.NoError(t, os.WriteFile(filepath.Join(dir, f), []byte(content), 0o644))
			_, err := wt.Add(f)
			require.NoError(t, err)
		}
		h, err := wt.Commit(msg, &git.CommitOptions{
			Author: &object.Signature{Name: "dev", Email: "dev@example.com", When: time.Date(2024, 1, day, 12, 0, 0, 0, time.UTC)},
		})
		require.NoError(t, err)
		return h
	}
	branch := func(name string, from plumbing.Hash) {
		require.NoError(t, wt.Checkout(&git.CheckoutOptions{
			Hash:   from,
			Branch: plumbing.NewBranchReferenceName(name),
			Create: true,
		}))
	}

	c1 := commit("c1", 1, "initial import", "a.go")
	commit("c2", 10, "feat: faster a", "a.go")
	branch("dev", c1)
	commit("c3", 5, "fix: a and b", "a.go", "b.go")
	commit("c4", 15, "docs: b", "b.go")
	branch("feature", c1)
	commit("c5", 6, "refactor: a", "a.go")
	return dir
}

func execute(t *testing.T, args ...string) ([]byte, error) {
	t.Helper()
	t.Setenv("HOME", t.TempDir())
	root := newRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&bytes.Buffer{})
	root.SetArgs(args)
	err := root.Execute()
	return out.Bytes(), err
}

func TestOverviewCommand(t *testing.T) {
	dir := newRepo(t)
	out, err := execute(t, "overview", "--repo", dir, "--branches", "master,dev", "--log-level", "error")
	require.NoError(t, err)

	var report model.Report
	require.NoError(t, json.Unmarshal(out, &report))
	assert.Equal(t, model.OpOverview, report.Operation)
	assert.Equal(t, []string{"master", "dev"}, report.Branches)
	require.NotNil(t, report.Overview)
	assert.Equal(t, 5, report.Overview.Summary.TotalCommits)
	assert.Equal(t, "dev", report.Overview.Summary.MostActiveBranch)
	require.Len(t, report.Overview.Branches[0].MergeBase, 1)
	assert.Equal(t, "dev", report.Overview.Branches[0].MergeBase[0].Branch)
}

func TestOverviewNarrative(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("shell scripts are not executable on windows")
	}
	bin := t.TempDir()
	script := "#!/bin/sh\ncat >/dev/null\necho 'branches look healthy'\n"
	require.NoError(t, os.WriteFile(filepath.Join(bin, "claude"), []byte(script), 0o755))
	t.Setenv("PATH", bin+string(os.PathListSeparator)+os.Getenv("PATH"))

	dir := newRepo(t)
	out, err := execute(t, "overview", "--repo", dir, "--branches", "master,dev", "--narrative")
	require.NoError(t, err)
	assert.Contains(t, string(out), "branches look healthy")
}

func TestActivityCommand(t *testing.T) {
	dir := newRepo(t)
	out, err := execute(t, "activity", "--repo", dir, "--branches", "master,dev",
		"--since", "2024-01-02", "--until", "2024-01-12", "--log-level", "error")
	require.NoError(t, err)

	var report model.Report
	require.NoError(t, json.Unmarshal(out, &report))
	require.NotNil(t, report.Activity)
	assert.Equal(t, 2, report.Activity.Summary.TotalCommits)
	assert.Equal(t, 1, report.Activity.Branches[0].CommitTypeCounts[model.CategoryFeature])
	assert.Equal(t, 1, report.Activity.Branches[1].CommitTypeCounts[model.CategoryFix])
}

func TestConflictsCommand(t *testing.T) {
	dir := newRepo(t)
	out, err := execute(t, "conflicts", "--repo", dir, "--branches", "master,dev",
		"--files", "a.go", "--log-level", "error")
	require.NoError(t, err)

	var report model.Report
	require.NoError(t, json.Unmarshal(out, &report))
	require.NotNil(t, report.Conflicts)
	require.Len(t, report.Conflicts.Files, 1)
	assert.Equal(t, model.RiskMedium, report.Conflicts.Files[0].RiskLevel)
	assert.Equal(t, []string{"Parallel development detected between master and dev"}, report.Conflicts.Files[0].Reasons)
}

func TestConflictsRejectsEscapingPath(t *testing.T) {
	dir := newRepo(t)
	_, err := execute(t, "conflicts", "--repo", dir, "--branches", "master", "--files", "../secret")
	require.Error(t, err)
	assert.True(t, errors.Is(err, errs.ErrInvalidInput))
}

func TestRecommendCommand(t *testing.T) {
	dir := newRepo(t)
	outPath := filepath.Join(t.TempDir(), "plan.json")
	_, err := execute(t, "recommend", "--repo", dir, "--branches", "master,dev,feature",
		"--output", outPath, "--log-level", "error")
	require.NoError(t, err)

	data, err := os.ReadFile(outPath)
	require.NoError(t, err)
	var report model.Report
	require.NoError(t, json.Unmarshal(data, &report))

	rec := report.Recommendation
	require.NotNil(t, rec)
	assert.Equal(t, "dev", rec.RecommendedBase)
	assert.Equal(t, "master", rec.Baseline)
	assert.Equal(t, "cherry-pick", rec.Approach)
	require.Len(t, rec.ConflictRisks.Hotspots, 1)
	spot := rec.ConflictRisks.Hotspots[0]
	assert.Equal(t, "a.go", spot.File)
	assert.Equal(t, []string{"dev", "feature"}, spot.Branches)
	assert.Equal(t, "Go", spot.Language)
	assert.Positive(t, spot.Complexity)
	assert.Equal(t, model.RiskMedium, rec.ConflictRisks.OverallRisk)
}

func TestRecommendNamedBaseline(t *testing.T) {
	dir := newRepo(t)
	out, err := execute(t, "recommend", "--repo", dir, "--branches", "master,dev,feature",
		"--baseline", "dev", "--no-complexity", "--format", "json", "--log-level", "error")
	require.NoError(t, err)

	var report model.Report
	require.NoError(t, json.Unmarshal(out, &report))
	assert.Equal(t, "dev", report.Recommendation.Baseline)

	_, err = execute(t, "recommend", "--repo", dir, "--branches", "master,dev", "--baseline", "release")
	assert.True(t, errors.Is(err, errs.ErrInvalidInput))
}

func TestUnknownBranch(t *testing.T) {
	dir := newRepo(t)
	_, err := execute(t, "overview", "--repo", dir, "--branches", "master,ghost", "--log-level", "error")
	require.Error(t, err)
	assert.True(t, errors.Is(err, errs.ErrRepository))
	assert.Contains(t, err.Error(), "ghost")
}

func TestMissingBranchesWithoutTerminal(t *testing.T) {
	if ui.IsTTY() {
		t.Skip("stderr is a terminal")
	}
	dir := newRepo(t)
	_, err := execute(t, "overview", "--repo", dir)
	assert.True(t, errors.Is(err, errs.ErrInvalidInput))
}
