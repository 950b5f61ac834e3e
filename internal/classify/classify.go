// Package classify maps commit messages to categories.
package classify

import (
	"strings"

	"github.com/dsablic/mergeplan/internal/model"
)

// rules are evaluated in order; the first matching prefix wins.
var rules = []struct {
	prefixes []string
	category model.Category
}{
	{[]string{"feat", "add"}, model.CategoryFeature},
	{[]string{"fix", "bug"}, model.CategoryFix},
	{[]string{"refactor", "style", "chore"}, model.CategoryRefactor},
	{[]string{"docs"}, model.CategoryDocs},
}

// Classify returns the category of a commit message. Matching is
// case-insensitive and anchored to the start of the message.
func Classify(message string) model.Category {
	lower := strings.ToLower(message)
	for _, r := range rules {
		for _, p := range r.prefixes {
			if strings.HasPrefix(lower, p) {
				return r.category
			}
		}
	}
	return model.CategoryOther
}

// CategorizeCommits counts commits per category. Every category is present
// in the result, zero when unseen.
func CategorizeCommits(commits []model.Commit) map[model.Category]int {
	counts := make(map[model.Category]int, len(model.Categories))
	for _, c := range model.Categories {
		counts[c] = 0
	}
	for _, c := range commits {
		counts[Classify(c.Message)]++
	}
	return counts
}
