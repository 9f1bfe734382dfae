// Package bench runs N independent Machine+Interp pairs concurrently to
// benchmark or fuzz the core. Each worker owns its own machine end to end
// (spec.md's single-hart model never shares state across a run), so the
// concurrency here is pure fan-out over independent runs, not multi-hart
// execution. Shape is lifted from the reference codebase's
// search.WorkerPool (pkg/search/worker.go): atomic counters, a channel-fed
// task queue, and a ticking progress reporter.
package bench

import (
	"fmt"
	"runtime"
	"sync"
	"sync/atomic"
	"time"

	"github.com/oisee/rv32core/pkg/statsio"
)

// Task is one independent run: build a fresh Machine+Interp from Setup,
// run it, and report Stats.
type Task struct {
	Name  string
	Setup func() (run func() (statsio.Stats, error))
}

// WorkerPool runs Tasks across NumWorkers goroutines and collects results
// into Results.
type WorkerPool struct {
	NumWorkers int
	Results    *statsio.Table

	completed atomic.Int64
	failed    atomic.Int64
}

// NewWorkerPool creates a pool with the given worker count (runtime.NumCPU
// if <= 0).
func NewWorkerPool(numWorkers int) *WorkerPool {
	if numWorkers <= 0 {
		numWorkers = runtime.NumCPU()
	}
	return &WorkerPool{
		NumWorkers: numWorkers,
		Results:    statsio.NewTable(),
	}
}

// Stats reports how many tasks have completed and how many of those
// failed.
func (wp *WorkerPool) Stats() (completed, failed int64) {
	return wp.completed.Load(), wp.failed.Load()
}

// RunTasks distributes tasks across the pool's workers and blocks until
// every task has run. When progress is true it logs a line every two
// seconds (workloads here are seconds, not the reference tool's
// hours-long searches, so the reporting cadence is tighter).
func (wp *WorkerPool) RunTasks(tasks []Task, progress bool) []error {
	total := int64(len(tasks))
	ch := make(chan Task, len(tasks))
	for _, t := range tasks {
		ch <- t
	}
	close(ch)

	errs := make([]error, len(tasks))
	var errMu sync.Mutex
	recordErr := func(i int, err error) {
		if err == nil {
			return
		}
		errMu.Lock()
		errs[i] = err
		errMu.Unlock()
	}

	indexed := make(chan indexedTask, len(tasks))
	go func() {
		i := 0
		for t := range ch {
			indexed <- indexedTask{i, t}
			i++
		}
		close(indexed)
	}()

	done := make(chan struct{})
	start := time.Now()
	if progress {
		go func() {
			ticker := time.NewTicker(2 * time.Second)
			defer ticker.Stop()
			for {
				select {
				case <-done:
					return
				case <-ticker.C:
					comp := wp.completed.Load()
					fmt.Printf("  [%s] %d/%d tasks complete (%d failed)\n",
						time.Since(start).Round(time.Millisecond), comp, total, wp.failed.Load())
				}
			}
		}()
	}

	var wg sync.WaitGroup
	for i := 0; i < wp.NumWorkers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for it := range indexed {
				run := it.task.Setup()
				stats, err := run()
				if err != nil {
					wp.failed.Add(1)
					recordErr(it.index, fmt.Errorf("%s: %w", it.task.Name, err))
				} else {
					wp.Results.Add(stats)
				}
				wp.completed.Add(1)
			}
		}()
	}
	wg.Wait()
	close(done)

	return errs
}

type indexedTask struct {
	index int
	task  Task
}
