// Package overview summarizes branch divergence: tip commit, commit count
// and merge base against every other requested branch.
package overview

import (
	"math"
	"time"

	"github.com/dsablic/mergeplan/internal/errs"
	"github.com/dsablic/mergeplan/internal/health"
	"github.com/dsablic/mergeplan/internal/model"
)

// Pair is an unordered pair of branch names, stored with A <= B so that
// (x, y) and (y, x) share a key.
type Pair struct {
	A string
	B string
}

// NewPair returns the order-independent key for two branches.
func NewPair(a, b string) Pair {
	if b < a {
		a, b = b, a
	}
	return Pair{A: a, B: b}
}

// Pairs returns every unordered pair of distinct branch names, each once.
// Repeated names in branches are ignored.
func Pairs(branches []string) []Pair {
	names := distinct(branches)
	var pairs []Pair
	for i := 0; i < len(names); i++ {
		for j := i + 1; j < len(names); j++ {
			pairs = append(pairs, NewPair(names[i], names[j]))
		}
	}
	return pairs
}

// Input is the already-fetched repository data an overview is computed from.
type Input struct {
	Branches     []string
	LastCommits  map[string]*model.Commit
	CommitCounts map[string]int
	MergeBases   map[Pair]string
}

// Analyze builds one BranchSummary per requested branch, in request order,
// plus aggregate statistics. Repeated branch names yield repeated entries.
// now is the reference time for branch health.
func Analyze(in Input, now time.Time) (*model.OverviewReport, error) {
	if err := validateBranches(in.Branches); err != nil {
		return nil, err
	}
	names := distinct(in.Branches)

	report := &model.OverviewReport{Branches: make([]model.BranchSummary, 0, len(in.Branches))}
	for _, branch := range in.Branches {
		count, ok := in.CommitCounts[branch]
		if !ok {
			return nil, errs.Computation("no commit count for branch %q", branch)
		}
		last := in.LastCommits[branch]

		refs := make([]model.MergeBaseRef, 0, len(names)-1)
		for _, other := range names {
			if other == branch {
				continue
			}
			base, ok := in.MergeBases[NewPair(branch, other)]
			if !ok {
				return nil, errs.Computation("no merge base for branches %q and %q", branch, other)
			}
			refs = append(refs, model.MergeBaseRef{Branch: other, Base: base})
		}

		report.Branches = append(report.Branches, model.BranchSummary{
			Branch:      branch,
			LastCommit:  last,
			CommitCount: count,
			MergeBase:   refs,
			Health:      health.ClassifyCommit(last, now),
		})
	}

	report.Summary = summarize(report.Branches)
	return report, nil
}

func summarize(branches []model.BranchSummary) model.OverviewSummary {
	s := model.OverviewSummary{TotalBranches: len(branches)}
	best := -1
	for _, b := range branches {
		s.TotalCommits += b.CommitCount
		if b.CommitCount > best {
			best = b.CommitCount
			s.MostActiveBranch = b.Branch
		}
	}
	if s.TotalBranches > 0 {
		s.AverageCommitsPerBranch = int(math.Round(float64(s.TotalCommits) / float64(s.TotalBranches)))
	}
	s.BranchesByHealth = health.Summarize(branches)
	return s
}

func validateBranches(branches []string) error {
	if len(branches) == 0 {
		return errs.InvalidInput("at least one branch is required")
	}
	for i, b := range branches {
		if b == "" {
			return errs.InvalidInput("branch name at position %d is empty", i)
		}
	}
	return nil
}

func distinct(branches []string) []string {
	seen := make(map[string]bool, len(branches))
	out := make([]string, 0, len(branches))
	for _, b := range branches {
		if !seen[b] {
			seen[b] = true
			out = append(out, b)
		}
	}
	return out
}
