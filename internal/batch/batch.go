// Package batch runs independent repository queries concurrently.
package batch

import (
	"context"
	"sync"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/dsablic/mergeplan/internal/errs"
)

const (
	DefaultLimit   = 8
	DefaultTimeout = 30 * time.Second
)

// Task is one independent query. Run stores its own result; tasks never
// share mutable state.
type Task struct {
	Label string
	Run   func(ctx context.Context) error
}

// ProgressFunc is called after each task completes successfully.
type ProgressFunc func(completed, total int, label string)

// Runner executes tasks with bounded parallelism and a per-task timeout.
// The first failing task cancels the rest and its error is returned.
type Runner struct {
	Limit    int
	Timeout  time.Duration
	Progress ProgressFunc
	Logger   logrus.FieldLogger
}

// Run executes tasks and waits for all of them. It stops dispatching new
// tasks as soon as ctx is cancelled or a task fails.
func (r Runner) Run(ctx context.Context, tasks []Task) error {
	limit := r.Limit
	if limit <= 0 {
		limit = DefaultLimit
	}
	timeout := r.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)

	var mu sync.Mutex
	completed := 0
	total := len(tasks)
	start := time.Now()

	for _, t := range tasks {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			qctx, cancel := context.WithTimeout(gctx, timeout)
			defer cancel()

			if err := t.Run(qctx); err != nil {
				if errors.Is(err, context.DeadlineExceeded) && ctx.Err() == nil {
					return errs.Repository(err, "query %s timed out after %s", t.Label, timeout)
				}
				return err
			}

			mu.Lock()
			completed++
			n := completed
			if r.Progress != nil {
				r.Progress(n, total, t.Label)
			}
			mu.Unlock()
			if r.Logger != nil {
				r.Logger.WithField("query", t.Label).Debug("query completed")
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	if r.Logger != nil {
		r.Logger.WithFields(logrus.Fields{
			"queries":  total,
			"duration": time.Since(start).String(),
		}).Debug("query batch completed")
	}
	return nil
}
