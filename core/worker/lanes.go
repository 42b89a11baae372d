// Package worker runs jobs in per-key FIFO lanes.
//
// Jobs submitted under one key run strictly one after another in submission
// order; different keys run in parallel. A lane goroutine starts on the first
// job for its key and exits once the lane drains.
package worker

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/sourcegraph/conc"
	"github.com/sourcegraph/conc/panics"

	"github.com/dobryakk5/nsk/core/logger"
)

var (
	// ErrClosed is returned by Submit after Close.
	ErrClosed = errors.New("worker: lanes closed")
	// ErrLaneFull is returned when a key already has MaxPending queued jobs.
	ErrLaneFull = errors.New("worker: lane full")
)

// Job is a unit of work. It receives the context passed to Submit.
type Job func(ctx context.Context)

type queued struct {
	ctx context.Context
	job Job
}

type lane struct {
	queue []queued
}

// Lanes serializes jobs per key.
type Lanes struct {
	maxPending int

	mu     sync.Mutex
	lanes  map[int64]*lane
	closed bool
	wg     *conc.WaitGroup
}

// New builds Lanes. maxPending <= 0 means unbounded queues.
func New(maxPending int) *Lanes {
	return &Lanes{
		maxPending: maxPending,
		lanes:      make(map[int64]*lane),
		wg:         conc.NewWaitGroup(),
	}
}

// Submit enqueues job on the lane for key.
func (l *Lanes) Submit(ctx context.Context, key int64, job Job) error {
	if job == nil {
		return errors.New("worker: nil job")
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.closed {
		return ErrClosed
	}
	item := queued{ctx: ctx, job: job}
	if ln, ok := l.lanes[key]; ok {
		if l.maxPending > 0 && len(ln.queue) >= l.maxPending {
			return fmt.Errorf("%w: key %d has %d pending", ErrLaneFull, key, len(ln.queue))
		}
		ln.queue = append(ln.queue, item)
		return nil
	}
	ln := &lane{queue: []queued{item}}
	l.lanes[key] = ln
	l.wg.Go(func() { l.drain(key, ln) })
	return nil
}

func (l *Lanes) drain(key int64, ln *lane) {
	for {
		l.mu.Lock()
		if len(ln.queue) == 0 {
			delete(l.lanes, key)
			l.mu.Unlock()
			return
		}
		next := ln.queue[0]
		ln.queue[0] = queued{}
		ln.queue = ln.queue[1:]
		l.mu.Unlock()

		l.run(key, next)
	}
}

func (l *Lanes) run(key int64, item queued) {
	var pc panics.Catcher
	pc.Try(func() { item.job(item.ctx) })
	if r := pc.Recovered(); r != nil {
		logger.Error(item.ctx, "worker", "job.panic",
			slog.String("status", "fail"),
			slog.Int64("user_id", key),
			slog.String("err", fmt.Sprint(r.Value)),
			slog.String("err_code", "PANIC"),
			slog.String("stack", string(r.Stack)),
		)
	}
}

// Pending returns the number of queued jobs for key, not counting a running one.
func (l *Lanes) Pending(key int64) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	if ln, ok := l.lanes[key]; ok {
		return len(ln.queue)
	}
	return 0
}

// Active returns the number of live lanes.
func (l *Lanes) Active() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.lanes)
}

// Close rejects new jobs and waits until every queued job has run.
func (l *Lanes) Close() {
	l.mu.Lock()
	l.closed = true
	l.mu.Unlock()
	l.wg.Wait()
}
