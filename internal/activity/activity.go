// Package activity summarizes per-branch commit activity within a time range.
package activity

import (
	"strings"

	"github.com/dsablic/mergeplan/internal/classify"
	"github.com/dsablic/mergeplan/internal/errs"
	"github.com/dsablic/mergeplan/internal/model"
	"github.com/dsablic/mergeplan/internal/timerange"
)

// Input holds each branch's commits within Range, newest first.
type Input struct {
	Branches []string
	Range    model.TimeRange
	Commits  map[string][]model.Commit
}

// Analyze builds an ActivityWindow per requested branch plus a summary.
func Analyze(in Input) (*model.ActivityReport, error) {
	if err := validate(in.Branches, in.Range); err != nil {
		return nil, err
	}

	report := &model.ActivityReport{
		TimeRange: in.Range,
		Branches:  make([]model.ActivityWindow, 0, len(in.Branches)),
	}
	for _, branch := range in.Branches {
		commits, ok := in.Commits[branch]
		if !ok {
			return nil, errs.Computation("no commit history for branch %q", branch)
		}
		report.Branches = append(report.Branches, window(branch, in.Range, commits))
	}
	report.Summary = summarize(report.Branches)
	return report, nil
}

func window(branch string, r model.TimeRange, commits []model.Commit) model.ActivityWindow {
	w := model.ActivityWindow{
		Branch:           branch,
		TimeRange:        r,
		Commits:          commits,
		CommitTypeCounts: classify.CategorizeCommits(commits),
		TotalCommits:     len(commits),
		Authors:          countAuthors(commits),
	}
	if w.Commits == nil {
		w.Commits = []model.Commit{}
	}
	if len(commits) > 0 {
		newest := commits[0]
		oldest := commits[len(commits)-1]
		w.LastCommit = &newest
		w.FirstCommit = &oldest
	}
	return w
}

func summarize(windows []model.ActivityWindow) model.ActivitySummary {
	var s model.ActivitySummary
	bestCommits, bestAuthors := -1, -1
	for _, w := range windows {
		s.TotalCommits += w.TotalCommits
		if w.TotalCommits > 0 {
			s.BranchesWithActivity++
		}
		// Strict comparison keeps the first branch on ties, and the first
		// branch overall when every branch is idle.
		if w.TotalCommits > bestCommits {
			bestCommits = w.TotalCommits
			s.MostActiveBy.Commits = w.Branch
		}
		if w.Authors > bestAuthors {
			bestAuthors = w.Authors
			s.MostActiveBy.Authors = w.Branch
		}
	}
	return s
}

func countAuthors(commits []model.Commit) int {
	seen := map[string]bool{}
	for _, c := range commits {
		if c.Author == "" {
			continue
		}
		seen[normalizeAuthor(c.Author)] = true
	}
	return len(seen)
}

func normalizeAuthor(author string) string {
	// Extract email from "Name <email>" format for deduplication
	if idx := strings.Index(author, "<"); idx >= 0 {
		if end := strings.Index(author[idx:], ">"); end >= 0 {
			return strings.ToLower(strings.TrimSpace(author[idx+1 : idx+end]))
		}
	}
	return strings.ToLower(strings.TrimSpace(author))
}

func validate(branches []string, r model.TimeRange) error {
	if len(branches) == 0 {
		return errs.InvalidInput("at least one branch is required")
	}
	for i, b := range branches {
		if b == "" {
			return errs.InvalidInput("branch name at position %d is empty", i)
		}
	}
	return timerange.Validate(r)
}
