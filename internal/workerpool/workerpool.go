// Package workerpool implements the process-wide fixed-size worker pool
// shared by every parallel stage of the archive engine.
package workerpool

import (
	"errors"
	"fmt"
	"runtime"
	"sync"
	"sync/atomic"

	"golang.org/x/sync/errgroup"
)

// ErrShutDown is returned by Submit after the pool has been torn down.
var ErrShutDown = errors.New("workerpool: pool shut down")

// Future is a completion handle returned by Submit.
type Future[T any] struct {
	done chan struct{}
	val  T
	err  error
}

// Wait blocks until the submitted task completes and returns its result or
// error.
func (f *Future[T]) Wait() (T, error) {
	<-f.done
	return f.val, f.err
}

// Pool is a goroutine-backed worker pool with a fixed worker count. Tasks
// run to completion on a single goroutine; there is no cooperative
// suspension. Obtain the process-wide singleton described in SPEC_FULL.md
// through Get, or a standalone pool through New.
type Pool struct {
	workers  int
	mu       sync.Mutex
	shutDown bool
	inFlight sync.WaitGroup
}

var (
	instance     *Pool
	instanceOnce sync.Once
)

// Get returns the process-wide singleton pool, lazily initializing it on
// first call with max(1, runtime.NumCPU()-1) workers.
func Get() *Pool {
	instanceOnce.Do(func() {
		instance = New(defaultWorkers())
	})
	return instance
}

func defaultWorkers() int {
	n := runtime.NumCPU() - 1
	if n < 1 {
		n = 1
	}
	return n
}

// New constructs a standalone pool with the given worker count, bypassing
// the process-wide singleton. Useful for tests that want isolated
// concurrency semantics without disturbing Get's shared instance.
func New(workers int) *Pool {
	if workers < 1 {
		workers = 1
	}
	return &Pool{workers: workers}
}

// Submit starts fn on its own goroutine and returns a Future that resolves
// to its result. The pool's worker count does not bound Submit: there is no
// task queue, and every submitted task runs at once. Submitting after
// Shutdown returns ErrShutDown immediately without running fn.
func Submit[T any](p *Pool, fn func() (T, error)) (*Future[T], error) {
	p.mu.Lock()
	if p.shutDown {
		p.mu.Unlock()
		return nil, ErrShutDown
	}
	p.inFlight.Add(1)
	p.mu.Unlock()

	f := &Future[T]{done: make(chan struct{})}
	go func() {
		defer p.inFlight.Done()
		defer close(f.done)
		f.val, f.err = fn()
	}()
	return f, nil
}

// ParallelForEach distributes items across the pool's worker count using a
// shared atomic counter: each worker repeatedly claims the next unclaimed
// index until the slice is exhausted. It blocks until every worker has
// returned and propagates the first error observed via errgroup. A worker
// whose task fails stops claiming indices; the other workers keep claiming
// until the slice is exhausted or a task of theirs fails too. Once the pool
// is shut down, no further indices are claimed and ErrShutDown is returned.
func ParallelForEach[T any](p *Pool, items []T, fn func(int, T) error) error {
	if len(items) == 0 {
		return nil
	}

	var next atomic.Int64
	var g errgroup.Group

	workers := p.workers
	if workers > len(items) {
		workers = len(items)
	}

	for w := 0; w < workers; w++ {
		g.Go(func() error {
			for {
				i := int(next.Add(1)) - 1
				if i >= len(items) {
					return nil
				}
				p.mu.Lock()
				if p.shutDown {
					p.mu.Unlock()
					return ErrShutDown
				}
				p.inFlight.Add(1)
				p.mu.Unlock()
				err := fn(i, items[i])
				p.inFlight.Done()
				if err != nil {
					return fmt.Errorf("workerpool: item %d: %w", i, err)
				}
			}
		})
	}
	return g.Wait()
}

// Shutdown signals the pool to stop accepting new tasks. Tasks already
// running are allowed to complete; it blocks until they do. Queued work
// submitted via ParallelForEach that has not yet claimed an index is
// simply never claimed.
func (p *Pool) Shutdown() {
	p.mu.Lock()
	p.shutDown = true
	p.mu.Unlock()
	p.inFlight.Wait()
}
