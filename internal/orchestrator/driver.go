package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"time"

	"github.com/rs/zerolog"
)

// ErrLeaderMissing means the merged file vanished before the final rename.
var ErrLeaderMissing = errors.New("merged leader file missing")

// Result describes one finished reconstruction.
type Result struct {
	Base      string
	Fragments int
	Tasks     int
	Height    int
	Elapsed   time.Duration
}

// Driver rebuilds one file at a time from its fragments. It is safe for
// concurrent use; each call gets its own merge tree.
type Driver struct {
	scheduler *Scheduler
	log       zerolog.Logger
}

// NewDriver creates a Driver whose trees run on runner.
func NewDriver(cfg Config, runner Runner, opts ...Option) *Driver {
	o := collectOptions(opts)
	return &Driver{
		scheduler: NewScheduler(cfg, runner, opts...),
		log:       o.log,
	}
}

// Reconstruct merges fragments into base. The fragments are sorted first;
// that order is the byte order of the result. It blocks until the whole tree
// has joined, then renames the merged leader to base. A failed rename is
// returned as is and not retried.
func (d *Driver) Reconstruct(ctx context.Context, base string, fragments []string) (*Result, error) {
	start := time.Now()
	d.log.Info().Str("file", base).Int("fragments", len(fragments)).Msg("start reconstructing")

	sorted := slices.Clone(fragments)
	slices.Sort(sorted)

	tree, err := d.scheduler.Build(ctx, base, sorted)
	if err != nil {
		return nil, fmt.Errorf("reconstruct %s: %w", base, err)
	}
	if err := tree.Root.Wait(ctx); err != nil {
		// Every task sees the same ctx, so the rest of the tree winds down too.
		tree.Drain()
		return nil, fmt.Errorf("reconstruct %s: %w", base, err)
	}

	leader := tree.Root.Leader()
	if _, err := os.Stat(leader); err != nil {
		return nil, fmt.Errorf("reconstruct %s: %w: %s: %w", base, ErrLeaderMissing, leader, err)
	}
	if err := replaceFile(leader, base); err != nil {
		return nil, fmt.Errorf("reconstruct %s: rename %s: %w", base, leader, err)
	}
	if err := syncDir(filepath.Dir(base)); err != nil {
		d.log.Debug().Err(err).Str("file", base).Msg("directory sync failed")
	}

	res := &Result{
		Base:      base,
		Fragments: len(sorted),
		Tasks:     len(tree.Tasks),
		Height:    tree.Height,
		Elapsed:   time.Since(start),
	}
	d.log.Info().
		Str("file", base).
		Int("tasks", res.Tasks).
		Int("height", res.Height).
		Dur("elapsed", res.Elapsed).
		Msg("end reconstruction")
	return res, nil
}
