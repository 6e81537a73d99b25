package orchestrator

import (
	"context"
	"errors"

	"github.com/dusk-indust/reassemble/internal/discovery"
	"golang.org/x/sync/errgroup"
)

// FileResult holds the outcome of one group after fan-out.
type FileResult struct {
	// Base is the file that was being rebuilt.
	Base string

	// Result is set on success.
	Result *Result

	// Err is non-nil if this file could not be rebuilt.
	Err error
}

// FanOut rebuilds many files in parallel, one Driver call per group.
// Files are independent: a failure on one never stops or cancels another.
type FanOut struct {
	driver *Driver
}

// NewFanOut creates a FanOut that rebuilds files with driver.
func NewFanOut(driver *Driver) *FanOut {
	return &FanOut{driver: driver}
}

// Run reconstructs every group concurrently and waits for all of them.
// Results are returned in group order regardless of errors. The returned
// error joins every per-file failure.
func (f *FanOut) Run(ctx context.Context, groups []discovery.Group) ([]FileResult, error) {
	results := make([]FileResult, len(groups))

	// A plain Group rather than WithContext: one failing file must not
	// cancel its siblings.
	var g errgroup.Group
	for i, group := range groups {
		g.Go(func() error {
			res, err := f.driver.Reconstruct(ctx, group.Base, group.Fragments)
			results[i] = FileResult{Base: group.Base, Result: res, Err: err}
			return err
		})
	}
	_ = g.Wait()

	var errs []error
	for _, r := range results {
		if r.Err != nil {
			errs = append(errs, r.Err)
		}
	}
	return results, errors.Join(errs...)
}
