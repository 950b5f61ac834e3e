package ui

import (
	"os"

	"github.com/charmbracelet/huh"

	"github.com/dsablic/mergeplan/internal/errs"
)

// SelectBranches asks the user to pick branches from available. Every
// branch in preselected that is also available starts checked.
func SelectBranches(available, preselected []string) ([]string, error) {
	if len(available) == 0 {
		return nil, errs.InvalidInput("repository has no local branches")
	}

	checked := map[string]bool{}
	for _, b := range preselected {
		checked[b] = true
	}
	options := make([]huh.Option[string], len(available))
	for i, b := range available {
		options[i] = huh.NewOption(b, b).Selected(checked[b])
	}

	var selected []string
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewMultiSelect[string]().
				Title("Branches to analyze").
				Description("The first selected branch is the default comparison baseline.").
				Options(options...).
				Value(&selected).
				Validate(func(s []string) error {
					if len(s) == 0 {
						return errs.InvalidInput("select at least one branch")
					}
					return nil
				}),
		),
	).WithOutput(os.Stderr)

	if err := form.Run(); err != nil {
		return nil, err
	}
	return selected, nil
}
