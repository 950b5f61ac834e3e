// Package strategy recommends a merge base and ranks the files most likely
// to conflict when the requested branches are combined.
package strategy

import (
	"fmt"

	"github.com/dsablic/mergeplan/internal/complexity"
	"github.com/dsablic/mergeplan/internal/errs"
	"github.com/dsablic/mergeplan/internal/hotspot"
	"github.com/dsablic/mergeplan/internal/model"
	"github.com/dsablic/mergeplan/internal/risk"
)

// Approach is the only merge approach currently recommended. Choosing between
// merge, rebase and cherry-pick from divergence is not implemented.
const Approach = "cherry-pick"

// Recommendations is the fixed guidance attached to every recommendation.
var Recommendations = []string{
	"Review hotspot files before merging",
	"Merge branches that share the fewest hotspots first",
	"Coordinate with the authors of overlapping changes",
	"Run the full test suite after each merge",
}

// Steps is the fixed merge procedure. It does not vary with branch count.
var Steps = []string{
	"Create a backup branch from the recommended base",
	"Fetch and update all branches",
	"Cherry-pick commits from the remaining branches onto the recommended base",
	"Resolve conflicts in hotspot files first",
	"Run tests after each cherry-pick",
	"Review the combined history before pushing",
}

// Input is the already-fetched repository data a recommendation is computed from.
type Input struct {
	Branches     []string
	CommitCounts map[string]int
	// Baseline is the branch each other branch was diffed against.
	Baseline string
	// Changed maps each non-baseline branch to the files it changed since
	// its merge base with Baseline.
	Changed map[string][]string
	// Measures optionally profiles hotspot files by path.
	Measures map[string]complexity.Measure
	// Limit caps the reported hotspots; zero reports all of them.
	Limit int
}

// Recommend picks the branch with the most commits as the merge base (first
// wins on ties) and scores conflict risk from cross-branch hotspots.
func Recommend(in Input) (*model.MergeRecommendation, error) {
	if err := validate(in.Branches, in.Baseline); err != nil {
		return nil, err
	}

	base, best := "", -1
	for _, b := range in.Branches {
		n, ok := in.CommitCounts[b]
		if !ok {
			return nil, errs.Computation("no commit count for branch %q", b)
		}
		if n > best {
			base, best = b, n
		}
	}

	var acc hotspot.Accumulator
	for _, b := range compared(in.Branches, in.Baseline) {
		files, ok := in.Changed[b]
		if !ok {
			return nil, errs.Computation("no changed files for branch %q against %q", b, in.Baseline)
		}
		acc.Add(b, files)
	}

	spots := acc.Hotspots()
	for i := range spots {
		if m, ok := in.Measures[spots[i].File]; ok {
			spots[i].Language = m.Language
			spots[i].Complexity = m.Complexity
			spots[i].Vendored = m.Vendored
		}
	}
	ranked := hotspot.Rank(spots, in.Limit)
	if ranked == nil {
		ranked = []model.Hotspot{}
	}

	return &model.MergeRecommendation{
		RecommendedBase: base,
		Approach:        Approach,
		Baseline:        in.Baseline,
		Reasoning:       reasoning(in, base, best, len(spots)),
		ConflictRisks: model.ConflictRisks{
			OverallRisk:     risk.OverallHotspotRisk(len(spots)),
			Hotspots:        ranked,
			Recommendations: append([]string(nil), Recommendations...),
		},
		Steps: append([]string(nil), Steps...),
	}, nil
}

func reasoning(in Input, base string, commits, hotspots int) []string {
	out := []string{
		fmt.Sprintf("%s has the most commits (%d) of the %d requested branches", base, commits, len(in.Branches)),
		fmt.Sprintf("Changes were compared against baseline %s", in.Baseline),
	}
	switch hotspots {
	case 0:
		out = append(out, "No file was changed on more than one branch")
	case 1:
		out = append(out, "1 file was changed on more than one branch")
	default:
		out = append(out, fmt.Sprintf("%d files were changed on more than one branch", hotspots))
	}
	return out
}

// compared returns the distinct branches other than baseline, in request order.
func compared(branches []string, baseline string) []string {
	seen := map[string]bool{baseline: true}
	var out []string
	for _, b := range branches {
		if !seen[b] {
			seen[b] = true
			out = append(out, b)
		}
	}
	return out
}

func validate(branches []string, baseline string) error {
	if len(branches) == 0 {
		return errs.InvalidInput("at least one branch is required")
	}
	found := false
	for i, b := range branches {
		if b == "" {
			return errs.InvalidInput("branch name at position %d is empty", i)
		}
		if b == baseline {
			found = true
		}
	}
	if !found {
		return errs.InvalidInput("baseline branch %q is not among the requested branches", baseline)
	}
	return nil
}
