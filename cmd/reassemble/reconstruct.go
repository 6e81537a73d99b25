package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/dusk-indust/reassemble/internal/discovery"
	"github.com/dusk-indust/reassemble/internal/mcptools"
	"github.com/dusk-indust/reassemble/internal/orchestrator"
	"github.com/dusk-indust/reassemble/internal/watch"
	"github.com/spf13/cobra"
)

// signalContext returns a context cancelled on SIGINT or SIGTERM.
func signalContext(parent context.Context) (context.Context, context.CancelFunc) {
	return signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
}

func runReconstruct(cmd *cobra.Command, s settings) error {
	ctx, stop := signalContext(cmd.Context())
	defer stop()

	if !s.watch {
		return reconstructOnce(ctx, cmd, s)
	}

	// Set up the watch first so fragments landing during the first pass are
	// picked up by the next one.
	w, err := watch.New(s.cfg.Root, s.cfg.Marker, s.settle, func(ctx context.Context) error {
		return reconstructOnce(ctx, cmd, s)
	}, s.log)
	if err != nil {
		return err
	}
	if err := reconstructOnce(ctx, cmd, s); err != nil {
		s.log.Error().Err(err).Msg("initial reconstruction pass failed")
	}
	return w.Run(ctx)
}

// reconstructOnce discovers every fragment group under the root and rebuilds
// them all.
func reconstructOnce(ctx context.Context, cmd *cobra.Command, s settings) error {
	start := time.Now()
	groups, err := discovery.Discover(s.cfg.Root, s.cfg.Marker, func(path string, err error) {
		s.log.Debug().Err(err).Str("path", path).Msg("skipping unreadable path")
	})
	if err != nil {
		return err
	}
	if len(groups) == 0 {
		s.log.Info().Str("root", s.cfg.Root).Msg("no fragments found")
		return nil
	}

	opts := []orchestrator.Option{orchestrator.WithLogger(s.log)}
	var printer sync.WaitGroup
	var reporter *orchestrator.ProgressReporter
	if s.progress {
		reporter = orchestrator.NewProgressReporter()
		opts = append(opts, orchestrator.WithProgress(reporter.Emit))
		out := cmd.ErrOrStderr()
		printer.Add(1)
		go func() {
			defer printer.Done()
			for ev := range reporter.Subscribe() {
				fmt.Fprintln(out, orchestrator.FormatProgress(ev))
			}
		}()
	}

	results, err := orchestrator.New(s.cfg, opts...).Run(ctx, groups)
	if reporter != nil {
		reporter.Close()
		printer.Wait()
	}

	for _, r := range results {
		if r.Err != nil {
			s.log.Error().Err(r.Err).Str("file", r.Base).Msg("reconstruction failed")
		}
	}
	if err != nil {
		return err
	}

	s.log.Info().
		Int("files", len(results)).
		Dur("elapsed", time.Since(start)).
		Msg("Reconstruction completed")
	return nil
}

func runServeMCP(cmd *cobra.Command, s settings) error {
	ctx, stop := signalContext(cmd.Context())
	defer stop()

	svc := mcptools.NewReassembleService(s.cfg, nil, s.log)
	return mcptools.RunStdio(ctx, mcptools.NewReassembleMCPServer(svc))
}
