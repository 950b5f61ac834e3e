package batch_test

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dsablic/mergeplan/internal/batch"
	"github.com/dsablic/mergeplan/internal/errs"
)

func TestRunAllTasks(t *testing.T) {
	results := make([]int, 20)
	var tasks []batch.Task
	for i := range results {
		tasks = append(tasks, batch.Task{
			Label: "task",
			Run: func(context.Context) error {
				results[i] = i * i
				return nil
			},
		})
	}

	var progressCalls int32
	r := batch.Runner{
		Limit: 3,
		Progress: func(completed, total int, _ string) {
			atomic.AddInt32(&progressCalls, 1)
			assert.LessOrEqual(t, completed, total)
			assert.Equal(t, 20, total)
		},
	}
	require.NoError(t, r.Run(context.Background(), tasks))
	for i, v := range results {
		assert.Equal(t, i*i, v)
	}
	assert.Equal(t, int32(20), atomic.LoadInt32(&progressCalls))
}

func TestRunRespectsLimit(t *testing.T) {
	var inFlight, peak int32
	var tasks []batch.Task
	for i := 0; i < 10; i++ {
		tasks = append(tasks, batch.Task{Label: "slow", Run: func(context.Context) error {
			n := atomic.AddInt32(&inFlight, 1)
			for {
				p := atomic.LoadInt32(&peak)
				if n <= p || atomic.CompareAndSwapInt32(&peak, p, n) {
					break
				}
			}
			time.Sleep(5 * time.Millisecond)
			atomic.AddInt32(&inFlight, -1)
			return nil
		}})
	}
	require.NoError(t, batch.Runner{Limit: 2}.Run(context.Background(), tasks))
	assert.LessOrEqual(t, atomic.LoadInt32(&peak), int32(2))
}

func TestRunFirstErrorAborts(t *testing.T) {
	boom := errs.Repository(nil, "resolve branch %q", "ghost")
	var ran int32
	tasks := []batch.Task{
		{Label: "bad", Run: func(context.Context) error { return boom }},
	}
	for i := 0; i < 50; i++ {
		tasks = append(tasks, batch.Task{Label: "ok", Run: func(ctx context.Context) error {
			atomic.AddInt32(&ran, 1)
			<-ctx.Done()
			return ctx.Err()
		}})
	}

	err := batch.Runner{Limit: 1}.Run(context.Background(), tasks)
	require.Error(t, err)
	assert.True(t, errors.Is(err, errs.ErrRepository))
	assert.Less(t, atomic.LoadInt32(&ran), int32(50), "dispatch should stop after the failure")
}

func TestRunTimeout(t *testing.T) {
	tasks := []batch.Task{{Label: "merge-base a b", Run: func(ctx context.Context) error {
		<-ctx.Done()
		return ctx.Err()
	}}}

	err := batch.Runner{Timeout: 10 * time.Millisecond}.Run(context.Background(), tasks)
	require.Error(t, err)
	assert.True(t, errors.Is(err, errs.ErrRepository))
	assert.Contains(t, err.Error(), "merge-base a b")
}

func TestRunCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var ran int32
	tasks := []batch.Task{{Label: "x", Run: func(context.Context) error {
		atomic.AddInt32(&ran, 1)
		return nil
	}}}
	err := batch.Runner{}.Run(ctx, tasks)
	assert.True(t, errors.Is(err, context.Canceled))
	assert.Equal(t, int32(0), atomic.LoadInt32(&ran))
}

func TestRunEmpty(t *testing.T) {
	assert.NoError(t, batch.Runner{}.Run(context.Background(), nil))
}
