package worker

import (
	"context"
	"sync"
	"sync/atomic"
)

// Task is one unit of work for the batch runner. Tasks handle their own
// failures; from the runner's perspective every task always succeeds.
type Task func()

// RunBounded executes tasks with at most limit in flight at any instant.
// A fixed pool of goroutines advances a shared cursor through the task
// list, so the moment any task settles the next queued one is admitted.
// Returns only after every admitted task has settled. Context
// cancellation stops admission of new tasks; tasks already running
// complete normally.
func RunBounded(ctx context.Context, limit int, tasks []Task) {
	if len(tasks) == 0 {
		return
	}
	if limit < 1 {
		limit = 1
	}
	if limit > len(tasks) {
		limit = len(tasks)
	}

	var cursor atomic.Int64
	var wg sync.WaitGroup

	for i := 0; i < limit; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				if ctx.Err() != nil {
					return
				}
				next := int(cursor.Add(1)) - 1
				if next >= len(tasks) {
					return
				}
				tasks[next]()
			}
		}()
	}

	wg.Wait()
}
