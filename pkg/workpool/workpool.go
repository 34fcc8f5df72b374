// Package workpool runs fire-and-forget tasks on a bounded set of goroutines.
//
// A pool keeps a fixed number of persistent workers reading from a bounded
// queue. When the queue is full it may start short-lived overflow workers up
// to a hard cap. Past that, Submit fails with ErrSaturated instead of
// blocking the caller or dropping the task silently.
package workpool

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/dharmil18/betterbank-auth-service/pkg/idx"
	"golang.org/x/sync/semaphore"
)

var (
	// ErrSaturated is returned when the queue is full and no overflow worker
	// can be started.
	ErrSaturated = errors.New("workpool: saturated")

	// ErrClosed is returned by Submit after Shutdown has been called.
	ErrClosed = errors.New("workpool: closed")
)

// Task is a unit of work. It owns its context and must not assume the
// submitter is still around when it runs.
type Task func()

// Config sizes a pool.
type Config struct {
	// Workers is the number of persistent workers.
	Workers int
	// MaxWorkers caps persistent plus overflow workers.
	MaxWorkers int
	// QueueSize is the depth of the pending task queue.
	QueueSize int

	Logger *slog.Logger
}

// DefaultConfig returns 5 persistent workers, up to 10 in total, and a queue
// of 50 pending tasks.
func DefaultConfig() Config {
	return Config{Workers: 5, MaxWorkers: 10, QueueSize: 50}
}

// Handle identifies a submitted task. Done is closed once the task returns,
// including when it panicked. Callers are free to ignore it.
type Handle struct {
	ID   idx.ID
	Done <-chan struct{}
}

type job struct {
	id   idx.ID
	task Task
	done chan struct{}
}

// Pool is a bounded worker pool. The zero value is not usable; call New.
type Pool struct {
	queue    chan job
	overflow *semaphore.Weighted
	log      *slog.Logger

	mu     sync.RWMutex
	closed bool
	wg     sync.WaitGroup
}

// New starts the persistent workers and returns the pool.
func New(cfg Config) (*Pool, error) {
	if cfg.Workers <= 0 {
		return nil, fmt.Errorf("workpool: workers must be positive, got %d", cfg.Workers)
	}
	if cfg.QueueSize < 0 {
		return nil, fmt.Errorf("workpool: queue size must not be negative, got %d", cfg.QueueSize)
	}
	if cfg.MaxWorkers < cfg.Workers {
		cfg.MaxWorkers = cfg.Workers
	}

	log := cfg.Logger
	if log == nil {
		log = slog.Default()
	}

	p := &Pool{
		queue:    make(chan job, cfg.QueueSize),
		overflow: semaphore.NewWeighted(int64(cfg.MaxWorkers - cfg.Workers)),
		log:      log.With("component", "workpool"),
	}

	p.wg.Add(cfg.Workers)
	for range cfg.Workers {
		go p.worker()
	}

	return p, nil
}

// Submit enqueues task under a fresh id without waiting for it to run.
func (p *Pool) Submit(task Task) (Handle, error) {
	return p.SubmitWithID(idx.New(), task)
}

// SubmitWithID is Submit with a caller-chosen id, for callers that record the
// task somewhere before handing it over.
func (p *Pool) SubmitWithID(id idx.ID, task Task) (Handle, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()

	if p.closed {
		return Handle{}, ErrClosed
	}

	j := job{id: id, task: task, done: make(chan struct{})}
	h := Handle{ID: j.id, Done: j.done}

	select {
	case p.queue <- j:
		return h, nil
	default:
	}

	if !p.overflow.TryAcquire(1) {
		p.log.Warn("task rejected, pool saturated", "task_id", j.id, "queued", len(p.queue))
		return Handle{}, ErrSaturated
	}

	p.wg.Add(1)
	go p.overflowWorker(j)

	return h, nil
}

// Queued reports the number of tasks waiting for a worker. It is a snapshot
// for tests and diagnostics.
func (p *Pool) Queued() int {
	return len(p.queue)
}

// Shutdown stops accepting tasks and waits for queued and running tasks to
// finish, or for ctx to end.
func (p *Pool) Shutdown(ctx context.Context) error {
	p.mu.Lock()
	if !p.closed {
		p.closed = true
		close(p.queue)
	}
	p.mu.Unlock()

	done := make(chan struct{})
	go func() {
		p.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return fmt.Errorf("workpool: shutdown: %w", ctx.Err())
	}
}

func (p *Pool) worker() {
	defer p.wg.Done()

	for j := range p.queue {
		p.run(j)
	}
}

// overflowWorker runs j and then helps drain the queue until it is empty.
func (p *Pool) overflowWorker(j job) {
	defer p.wg.Done()
	defer p.overflow.Release(1)

	p.run(j)

	for {
		select {
		case next, ok := <-p.queue:
			if !ok {
				return
			}
			p.run(next)
		default:
			return
		}
	}
}

func (p *Pool) run(j job) {
	defer close(j.done)
	defer func() {
		if r := recover(); r != nil {
			p.log.Error("task panicked", "task_id", j.id, "panic", r)
		}
	}()

	j.task()
}
