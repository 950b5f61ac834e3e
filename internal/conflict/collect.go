package conflict

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/dsablic/mergeplan/internal/batch"
	"github.com/dsablic/mergeplan/internal/model"
	"github.com/dsablic/mergeplan/internal/provider"
)

// Collect fetches the history of every distinct (file, branch) pair.
func Collect(ctx context.Context, src provider.GitData, run batch.Runner, files, branches []string) (Input, error) {
	if err := validate(files, branches); err != nil {
		return Input{}, err
	}

	var keys []Key
	seen := map[Key]bool{}
	for _, f := range files {
		for _, b := range branches {
			k := Key{File: f, Branch: b}
			if !seen[k] {
				seen[k] = true
				keys = append(keys, k)
			}
		}
	}

	histories := make([][]model.Commit, len(keys))
	tasks := make([]batch.Task, len(keys))
	for i, k := range keys {
		tasks[i] = batch.Task{
			Label: fmt.Sprintf("history %s@%s", k.File, k.Branch),
			Run: func(ctx context.Context) error {
				h, err := src.FileHistory(ctx, k.Branch, k.File)
				histories[i] = h
				return err
			},
		}
	}

	if run.Logger != nil {
		run.Logger.WithFields(logrus.Fields{
			"files":    len(files),
			"branches": len(branches),
			"queries":  len(tasks),
		}).Info("collecting file histories")
	}
	if err := run.Run(ctx, tasks); err != nil {
		return Input{}, err
	}

	in := Input{Files: files, Branches: branches, Histories: make(map[Key][]model.Commit, len(keys))}
	for i, k := range keys {
		h := histories[i]
		if h == nil {
			h = []model.Commit{}
		}
		in.Histories[k] = h
	}
	return in, nil
}

// Run collects and analyzes in one step.
func Run(ctx context.Context, src provider.GitData, run batch.Runner, files, branches []string) (*model.ConflictReport, error) {
	in, err := Collect(ctx, src, run, files, branches)
	if err != nil {
		return nil, err
	}
	return Analyze(in)
}
