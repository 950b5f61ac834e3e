package activity

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/dsablic/mergeplan/internal/batch"
	"github.com/dsablic/mergeplan/internal/model"
	"github.com/dsablic/mergeplan/internal/provider"
)

// Collect fetches the in-range history of every distinct branch.
func Collect(ctx context.Context, src provider.GitData, run batch.Runner, branches []string, r model.TimeRange) (Input, error) {
	if err := validate(branches, r); err != nil {
		return Input{}, err
	}

	var names []string
	seen := map[string]bool{}
	for _, b := range branches {
		if !seen[b] {
			seen[b] = true
			names = append(names, b)
		}
	}

	histories := make([][]model.Commit, len(names))
	tasks := make([]batch.Task, len(names))
	for i, name := range names {
		tasks[i] = batch.Task{
			Label: fmt.Sprintf("commits %s", name),
			Run: func(ctx context.Context) error {
				commits, err := src.CommitsInRange(ctx, name, r.Start, r.End)
				histories[i] = commits
				return err
			},
		}
	}

	if run.Logger != nil {
		run.Logger.WithFields(logrus.Fields{
			"branches": len(names),
			"start":    r.Start,
			"end":      r.End,
		}).Info("collecting branch activity")
	}
	if err := run.Run(ctx, tasks); err != nil {
		return Input{}, err
	}

	in := Input{Branches: branches, Range: r, Commits: make(map[string][]model.Commit, len(names))}
	for i, name := range names {
		commits := histories[i]
		if commits == nil {
			commits = []model.Commit{}
		}
		in.Commits[name] = commits
	}
	return in, nil
}

// Run collects and analyzes in one step.
func Run(ctx context.Context, src provider.GitData, run batch.Runner, branches []string, r model.TimeRange) (*model.ActivityReport, error) {
	in, err := Collect(ctx, src, run, branches, r)
	if err != nil {
		return nil, err
	}
	return Analyze(in)
}
