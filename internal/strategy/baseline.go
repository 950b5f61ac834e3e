package strategy

import (
	"strings"

	"github.com/dsablic/mergeplan/internal/errs"
)

// Policy selects the branch every other branch is diffed against when
// looking for hotspots.
type Policy string

const (
	// PolicyFirst uses the first requested branch.
	PolicyFirst Policy = "first"
	// PolicyNamed uses a configured branch, which must be among those requested.
	PolicyNamed Policy = "named"
)

// Baseline is a comparison baseline policy.
type Baseline struct {
	Policy Policy
	Branch string
}

// ParsePolicy accepts "first" or "named", case-insensitively. An empty value
// means PolicyFirst.
func ParsePolicy(s string) (Policy, error) {
	switch Policy(strings.ToLower(strings.TrimSpace(s))) {
	case "", PolicyFirst:
		return PolicyFirst, nil
	case PolicyNamed:
		return PolicyNamed, nil
	}
	return "", errs.InvalidInput("unknown baseline policy %q (want first or named)", s)
}

// Resolve returns the baseline branch for branches.
func (b Baseline) Resolve(branches []string) (string, error) {
	if len(branches) == 0 {
		return "", errs.InvalidInput("at least one branch is required")
	}
	switch b.Policy {
	case "", PolicyFirst:
		return branches[0], nil
	case PolicyNamed:
		if b.Branch == "" {
			return "", errs.InvalidInput("baseline policy %q requires a baseline branch", PolicyNamed)
		}
		for _, name := range branches {
			if name == b.Branch {
				return name, nil
			}
		}
		return "", errs.InvalidInput("baseline branch %q is not among the requested branches", b.Branch)
	}
	return "", errs.InvalidInput("unknown baseline policy %q", b.Policy)
}
