package strategy

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/dsablic/mergeplan/internal/batch"
	"github.com/dsablic/mergeplan/internal/complexity"
	"github.com/dsablic/mergeplan/internal/hotspot"
	"github.com/dsablic/mergeplan/internal/model"
	"github.com/dsablic/mergeplan/internal/provider"
)

// Options configures Collect.
type Options struct {
	Baseline Baseline
	// Meter profiles hotspot files when src also implements
	// provider.ContentReader. Nil skips profiling.
	Meter *complexity.Meter
	Limit int
}

// Collect fetches commit counts for every distinct branch and, for every
// distinct branch other than the baseline, the files it changed since its
// merge base with the baseline. Hotspot files are then read and profiled.
func Collect(ctx context.Context, src provider.GitData, run batch.Runner, branches []string, opts Options) (Input, error) {
	baseline, err := opts.Baseline.Resolve(branches)
	if err != nil {
		return Input{}, err
	}
	if err := validate(branches, baseline); err != nil {
		return Input{}, err
	}

	names := compared(branches, "")
	others := compared(branches, baseline)

	counts := make([]int, len(names))
	changed := make([][]string, len(others))

	var tasks []batch.Task
	for i, name := range names {
		tasks = append(tasks, batch.Task{
			Label: fmt.Sprintf("commit count %s", name),
			Run: func(ctx context.Context) error {
				n, err := src.CommitCount(ctx, name)
				counts[i] = n
				return err
			},
		})
	}
	for i, name := range others {
		tasks = append(tasks, batch.Task{
			Label: fmt.Sprintf("changed files %s...%s", baseline, name),
			Run: func(ctx context.Context) error {
				files, err := src.ChangedFiles(ctx, baseline, name)
				changed[i] = files
				return err
			},
		})
	}

	if run.Logger != nil {
		run.Logger.WithFields(logrus.Fields{
			"branches": len(names),
			"baseline": baseline,
		}).Info("collecting merge strategy inputs")
	}
	if err := run.Run(ctx, tasks); err != nil {
		return Input{}, err
	}

	in := Input{
		Branches:     branches,
		CommitCounts: make(map[string]int, len(names)),
		Baseline:     baseline,
		Changed:      make(map[string][]string, len(others)),
		Limit:        opts.Limit,
	}
	for i, name := range names {
		in.CommitCounts[name] = counts[i]
	}
	for i, name := range others {
		files := changed[i]
		if files == nil {
			files = []string{}
		}
		in.Changed[name] = files
	}

	reader, ok := src.(provider.ContentReader)
	if opts.Meter == nil || !ok {
		return in, nil
	}
	measures, err := measure(ctx, reader, run, opts.Meter, in)
	if err != nil {
		return Input{}, err
	}
	in.Measures = measures
	return in, nil
}

// measure profiles each hotspot as stored on the first branch that touched
// it. A file that cannot be read there, typically because that branch
// deleted it, is left unprofiled.
func measure(ctx context.Context, reader provider.ContentReader, run batch.Runner, meter *complexity.Meter, in Input) (map[string]complexity.Measure, error) {
	var acc hotspot.Accumulator
	for _, b := range compared(in.Branches, in.Baseline) {
		acc.Add(b, in.Changed[b])
	}
	spots := acc.Hotspots()
	if len(spots) == 0 {
		return nil, nil
	}

	results := make([]*complexity.Measure, len(spots))
	tasks := make([]batch.Task, len(spots))
	for i, s := range spots {
		ref := s.Branches[0]
		tasks[i] = batch.Task{
			Label: fmt.Sprintf("read %s on %s", s.File, ref),
			Run: func(ctx context.Context) error {
				content, err := reader.FileContent(ctx, ref, s.File)
				if err != nil {
					if ctx.Err() != nil {
						return err
					}
					if run.Logger != nil {
						run.Logger.WithError(err).WithField("file", s.File).Debug("hotspot not profiled")
					}
					return nil
				}
				m := meter.Measure(s.File, content)
				results[i] = &m
				return nil
			},
		}
	}
	if err := run.Run(ctx, tasks); err != nil {
		return nil, err
	}

	out := make(map[string]complexity.Measure, len(spots))
	for i, s := range spots {
		if results[i] != nil {
			out[s.File] = *results[i]
		}
	}
	return out, nil
}

// Run collects and recommends in one step.
func Run(ctx context.Context, src provider.GitData, run batch.Runner, branches []string, opts Options) (*model.MergeRecommendation, error) {
	in, err := Collect(ctx, src, run, branches, opts)
	if err != nil {
		return nil, err
	}
	return Recommend(in)
}
