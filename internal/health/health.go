// internal/health/health.go
package health

import (
	"time"

	"github.com/dsablic/mergeplan/internal/model"
)

const (
	ActiveThresholdDays     = 30
	MaintainedThresholdDays = 90
)

// Classify returns a BranchHealth based on the last commit date relative to now.
func Classify(lastCommitDate, now time.Time) *model.BranchHealth {
	days := int(now.Sub(lastCommitDate).Hours() / 24)
	if days < 0 {
		days = 0
	}

	var category model.HealthCategory
	switch {
	case days < ActiveThresholdDays:
		category = model.HealthActive
	case days < MaintainedThresholdDays:
		category = model.HealthMaintained
	default:
		category = model.HealthAbandoned
	}

	return &model.BranchHealth{
		Category:        category,
		LastCommitDate:  lastCommitDate.UTC().Format(time.RFC3339),
		DaysSinceCommit: days,
	}
}

// ClassifyCommit classifies a branch from its tip commit.
// Returns nil if the commit is missing or carries no timestamp.
func ClassifyCommit(last *model.Commit, now time.Time) *model.BranchHealth {
	if last == nil || last.Timestamp.IsZero() {
		return nil
	}
	return Classify(last.Timestamp, now)
}

// Summarize counts branches per health category. Branches without health
// data are skipped. Returns nil if none has health data.
func Summarize(branches []model.BranchSummary) map[model.HealthCategory]int {
	var counts map[model.HealthCategory]int
	for _, b := range branches {
		if b.Health == nil {
			continue
		}
		if counts == nil {
			counts = map[model.HealthCategory]int{}
		}
		counts[b.Health.Category]++
	}
	return counts
}
