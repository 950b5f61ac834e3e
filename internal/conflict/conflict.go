// Package conflict assesses per-file merge risk from parallel development
// on several branches.
package conflict

import (
	"fmt"
	"path"
	"sort"
	"strings"

	"github.com/dsablic/mergeplan/internal/errs"
	"github.com/dsablic/mergeplan/internal/model"
	"github.com/dsablic/mergeplan/internal/overlap"
	"github.com/dsablic/mergeplan/internal/risk"
)

// Key identifies one file's history on one branch.
type Key struct {
	File   string
	Branch string
}

// Input holds per-(file, branch) histories, newest first.
type Input struct {
	Files     []string
	Branches  []string
	Histories map[Key][]model.Commit
}

// Analyze assesses every requested file across every requested branch.
func Analyze(in Input) (*model.ConflictReport, error) {
	if err := validate(in.Files, in.Branches); err != nil {
		return nil, err
	}

	// A branch compared with itself is not parallel development.
	branches := distinct(in.Branches)

	report := &model.ConflictReport{Files: make([]model.ConflictAssessment, 0, len(in.Files))}
	for _, file := range in.Files {
		entries := make([]model.FileHistoryEntry, 0, len(branches))
		for _, branch := range branches {
			history, ok := in.Histories[Key{File: file, Branch: branch}]
			if !ok {
				return nil, errs.Computation("no history for %s on branch %q", file, branch)
			}
			if history == nil {
				history = []model.Commit{}
			}
			entries = append(entries, model.FileHistoryEntry{Branch: branch, File: file, History: history})
		}
		report.Files = append(report.Files, Assess(file, entries))
	}

	report.Summary = summarize(in.Files, report.Files)
	return report, nil
}

// Assess computes the risk of a single file from its per-branch histories.
func Assess(file string, entries []model.FileHistoryEntry) model.ConflictAssessment {
	pairs := overlap.FindOverlappingChanges(entries)
	reasons := make([]string, 0, len(pairs))
	for _, p := range pairs {
		reasons = append(reasons, fmt.Sprintf("Parallel development detected between %s and %s", p.A, p.B))
	}
	return model.ConflictAssessment{
		File:      file,
		Changes:   entries,
		RiskLevel: risk.AssessRiskLevel(len(pairs)),
		Reasons:   reasons,
	}
}

// ReviewOrder returns the files of assessments sorted by descending risk.
// Files of equal risk keep their relative order. The input is not modified.
func ReviewOrder(assessments []model.ConflictAssessment) []string {
	ordered := make([]model.ConflictAssessment, len(assessments))
	copy(ordered, assessments)
	sort.SliceStable(ordered, func(i, j int) bool {
		return risk.RiskToNumber(ordered[i].RiskLevel) > risk.RiskToNumber(ordered[j].RiskLevel)
	})
	files := make([]string, len(ordered))
	for i, a := range ordered {
		files[i] = a.File
	}
	return files
}

func summarize(files []string, assessments []model.ConflictAssessment) model.ConflictSummary {
	s := model.ConflictSummary{TotalFiles: len(files)}
	for _, a := range assessments {
		if a.RiskLevel != model.RiskLow {
			s.FilesWithConflicts++
		}
		if a.RiskLevel == model.RiskHigh {
			s.HighRiskFiles++
		}
	}
	s.RecommendedReviewOrder = ReviewOrder(assessments)
	return s
}

func validate(files, branches []string) error {
	if len(files) == 0 {
		return errs.InvalidInput("at least one file path is required")
	}
	if len(branches) == 0 {
		return errs.InvalidInput("at least one branch is required")
	}
	for i, b := range branches {
		if b == "" {
			return errs.InvalidInput("branch name at position %d is empty", i)
		}
	}
	for _, f := range files {
		if err := ValidatePath(f); err != nil {
			return err
		}
	}
	return nil
}

func distinct(names []string) []string {
	seen := make(map[string]bool, len(names))
	out := make([]string, 0, len(names))
	for _, n := range names {
		if !seen[n] {
			seen[n] = true
			out = append(out, n)
		}
	}
	return out
}

// ValidatePath rejects paths that cannot name a file inside the repository:
// empty, absolute, escaping the root, or containing NUL.
func ValidatePath(p string) error {
	switch {
	case strings.TrimSpace(p) == "":
		return errs.InvalidInput("file path is empty")
	case strings.ContainsRune(p, 0):
		return errs.InvalidInput("file path %q contains a NUL byte", p)
	case strings.HasPrefix(p, "/") || strings.Contains(p, "\\"):
		return errs.InvalidInput("file path %q must be relative to the repository root using forward slashes", p)
	}
	clean := path.Clean(p)
	if clean == "." || clean == ".." || strings.HasPrefix(clean, "../") {
		return errs.InvalidInput("file path %q escapes the repository root", p)
	}
	return nil
}
