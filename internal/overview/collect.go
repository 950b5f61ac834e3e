package overview

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/dsablic/mergeplan/internal/batch"
	"github.com/dsablic/mergeplan/internal/model"
	"github.com/dsablic/mergeplan/internal/provider"
)

// Collect fetches everything Analyze needs. Each distinct branch is queried
// once for its tip and count, and each unordered pair once for its merge
// base: n branches cost n*(n-1)/2 merge-base queries, not n*(n-1).
func Collect(ctx context.Context, src provider.GitData, run batch.Runner, branches []string) (Input, error) {
	if err := validateBranches(branches); err != nil {
		return Input{}, err
	}
	names := distinct(branches)
	pairs := Pairs(branches)

	lasts := make([]*model.Commit, len(names))
	counts := make([]int, len(names))
	bases := make([]string, len(pairs))

	var tasks []batch.Task
	for i, name := range names {
		tasks = append(tasks,
			batch.Task{
				Label: fmt.Sprintf("last commit %s", name),
				Run: func(ctx context.Context) error {
					c, err := src.LastCommit(ctx, name)
					lasts[i] = c
					return err
				},
			},
			batch.Task{
				Label: fmt.Sprintf("commit count %s", name),
				Run: func(ctx context.Context) error {
					n, err := src.CommitCount(ctx, name)
					counts[i] = n
					return err
				},
			},
		)
	}
	for i, p := range pairs {
		tasks = append(tasks, batch.Task{
			Label: fmt.Sprintf("merge base %s %s", p.A, p.B),
			Run: func(ctx context.Context) error {
				base, err := src.MergeBase(ctx, p.A, p.B)
				bases[i] = base
				return err
			},
		})
	}

	if run.Logger != nil {
		run.Logger.WithFields(logrus.Fields{
			"branches":    len(names),
			"merge_bases": len(pairs),
		}).Info("collecting branch overview")
	}
	if err := run.Run(ctx, tasks); err != nil {
		return Input{}, err
	}

	in := Input{
		Branches:     branches,
		LastCommits:  make(map[string]*model.Commit, len(names)),
		CommitCounts: make(map[string]int, len(names)),
		MergeBases:   make(map[Pair]string, len(pairs)),
	}
	for i, name := range names {
		in.LastCommits[name] = lasts[i]
		in.CommitCounts[name] = counts[i]
	}
	for i, p := range pairs {
		in.MergeBases[p] = bases[i]
	}
	return in, nil
}

// Run collects and analyzes in one step.
func Run(ctx context.Context, src provider.GitData, run batch.Runner, branches []string, now time.Time) (*model.OverviewReport, error) {
	in, err := Collect(ctx, src, run, branches)
	if err != nil {
		return nil, err
	}
	return Analyze(in, now)
}
