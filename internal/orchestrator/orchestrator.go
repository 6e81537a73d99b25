// Package orchestrator rebuilds split files by running a balanced n-ary
// tree of concatenation tasks per file.
//
// Fragments are folded in batches into leaf tasks; tasks are then folded in
// batches into parent tasks until one remains. Every task runs on its own
// goroutine, and a parent joins all its children before it concatenates
// their leaders, so the surviving leader holds the fragments' bytes in
// sorted order.
package orchestrator

import (
	"context"

	"github.com/dusk-indust/reassemble/internal/concat"
	"github.com/dusk-indust/reassemble/internal/discovery"
)

// Reconstructor rebuilds a set of fragment groups.
type Reconstructor interface {
	Run(ctx context.Context, groups []discovery.Group) ([]FileResult, error)
}

var _ Reconstructor = (*FanOut)(nil)

// New wires the production stack for cfg: filesystem concatenation behind a
// retrier, driven by one Driver and fanned out over files.
func New(cfg Config, opts ...Option) *FanOut {
	o := collectOptions(opts)
	runner := concat.NewRetrier(concat.NewAppender(o.log), cfg.Retry, o.log)
	return NewFanOut(NewDriver(cfg, runner, opts...))
}
