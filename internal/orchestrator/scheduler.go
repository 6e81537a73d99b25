package orchestrator

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
	"golang.org/x/sync/semaphore"
)

// Runner concatenates one task's file list, retrying as it sees fit.
// *concat.Retrier is the production Runner.
type Runner interface {
	Run(ctx context.Context, files []string) error
}

// Scheduler builds merge trees and runs every task on its own goroutine.
// A task waits for all of its children before it concatenates, so byte order
// follows the tree and never the goroutine schedule.
type Scheduler struct {
	batchSize  int
	runner     Runner
	sem        *semaphore.Weighted
	log        zerolog.Logger
	onProgress func(ProgressEvent)
}

// Option customises a Scheduler or Driver.
type Option func(*options)

type options struct {
	log        zerolog.Logger
	onProgress func(ProgressEvent)
}

// WithLogger sets the logger. The default discards everything.
func WithLogger(log zerolog.Logger) Option {
	return func(o *options) { o.log = log }
}

// WithProgress registers a callback for task lifecycle events. It is called
// from the task goroutines and must not block.
func WithProgress(fn func(ProgressEvent)) Option {
	return func(o *options) { o.onProgress = fn }
}

func collectOptions(opts []Option) options {
	o := options{log: zerolog.Nop()}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// NewScheduler creates a Scheduler for cfg.BatchSize using runner for every
// task. cfg.Workers > 0 caps the concatenations running at once.
func NewScheduler(cfg Config, runner Runner, opts ...Option) *Scheduler {
	o := collectOptions(opts)
	s := &Scheduler{
		batchSize:  cfg.BatchSize,
		runner:     runner,
		log:        o.log,
		onProgress: o.onProgress,
	}
	if cfg.Workers > 0 {
		s.sem = semaphore.NewWeighted(int64(cfg.Workers))
	}
	return s
}

// Build creates the merge tree for base from its sorted fragments and
// dispatches each task as soon as it exists. It returns without waiting;
// callers wait on the root.
func (s *Scheduler) Build(ctx context.Context, base string, fragments []string) (*Tree, error) {
	b := &builder{
		batchSize: s.batchSize,
		start:     func(t *Task) { s.dispatch(ctx, base, t) },
	}
	return b.build(fragments)
}

func (s *Scheduler) dispatch(ctx context.Context, base string, t *Task) {
	s.emit(base, t, ProgressPending, "")
	go func() {
		err := s.execute(ctx, base, t)
		if err != nil {
			s.emit(base, t, ProgressFailed, err.Error())
		} else {
			s.emit(base, t, ProgressComplete, "")
		}
		t.finish(err)
	}()
}

func (s *Scheduler) execute(ctx context.Context, base string, t *Task) error {
	for _, child := range t.Children {
		if err := child.Wait(ctx); err != nil {
			return fmt.Errorf("task %d: child task %d: %w", t.ID, child.ID, err)
		}
	}

	if s.sem != nil {
		if err := s.sem.Acquire(ctx, 1); err != nil {
			return fmt.Errorf("task %d: %w", t.ID, err)
		}
		defer s.sem.Release(1)
	}

	s.emit(base, t, ProgressWorking, "")
	s.log.Debug().
		Str("file", base).
		Int("task", t.ID).
		Int("level", t.Level).
		Str("leader", t.Leader()).
		Int("files", len(t.Files)).
		Msg("concatenating")

	if err := s.runner.Run(ctx, t.Files); err != nil {
		return fmt.Errorf("task %d (leader %s): %w", t.ID, t.Leader(), err)
	}
	return nil
}

func (s *Scheduler) emit(base string, t *Task, status ProgressStatus, msg string) {
	if s.onProgress == nil {
		return
	}
	s.onProgress(ProgressEvent{
		File:    base,
		TaskID:  t.ID,
		Level:   t.Level,
		Leader:  t.Leader(),
		Status:  status,
		Message: msg,
	})
}
