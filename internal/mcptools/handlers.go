package mcptools

import (
	"context"
	"fmt"

	"github.com/dusk-indust/reassemble/internal/discovery"
	"github.com/dusk-indust/reassemble/internal/orchestrator"
	"github.com/dusk-indust/reassemble/internal/status"
	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/rs/zerolog"
)

// Factory builds the Reconstructor used for one reconstruct call.
type Factory func(cfg orchestrator.Config) orchestrator.Reconstructor

// ReassembleService handles MCP tool calls. It holds the configuration the
// server was started with; each call may override root and batch size.
type ReassembleService struct {
	cfg     orchestrator.Config
	factory Factory
	log     zerolog.Logger
}

// NewReassembleService creates a ReassembleService. A nil factory uses
// orchestrator.New.
func NewReassembleService(cfg orchestrator.Config, factory Factory, log zerolog.Logger) *ReassembleService {
	if factory == nil {
		factory = func(c orchestrator.Config) orchestrator.Reconstructor {
			return orchestrator.New(c, orchestrator.WithLogger(log))
		}
	}
	return &ReassembleService{cfg: cfg, factory: factory, log: log}
}

// resolve applies per-call overrides and validates the result.
func (s *ReassembleService) resolve(root string, batchSize int) (orchestrator.Config, error) {
	cfg := s.cfg
	if root != "" {
		cfg.Root = root
	}
	if batchSize != 0 {
		cfg.BatchSize = batchSize
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Reconstruct rebuilds every fragment group under the root.
func (s *ReassembleService) Reconstruct(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input ReconstructInput,
) (*mcp.CallToolResult, ReconstructOutput, error) {
	cfg, err := s.resolve(input.Root, input.BatchSize)
	if err != nil {
		return nil, ReconstructOutput{}, fmt.Errorf("invalid arguments: %w", err)
	}

	groups, err := discovery.Discover(cfg.Root, cfg.Marker, nil)
	if err != nil {
		return nil, ReconstructOutput{}, err
	}

	// Per-file failures are reported in the output, not as a tool error.
	results, _ := s.factory(cfg).Run(ctx, groups)

	out := ReconstructOutput{Files: make([]FileOutcome, 0, len(results))}
	for _, r := range results {
		fo := FileOutcome{Base: r.Base, Status: "completed"}
		if r.Err != nil {
			fo.Status = "failed"
			fo.Message = r.Err.Error()
			out.Failed++
		} else if r.Result != nil {
			fo.Fragments = r.Result.Fragments
			fo.Height = r.Result.Height
		}
		out.Files = append(out.Files, fo)
	}
	s.log.Info().Int("files", len(out.Files)).Int("failed", out.Failed).Msg("mcp: reconstruct finished")
	return nil, out, nil
}

// Plan returns the merge tree that reconstruct would run, without touching
// any file.
func (s *ReassembleService) Plan(
	_ context.Context,
	_ *mcp.CallToolRequest,
	input PlanInput,
) (*mcp.CallToolResult, PlanOutput, error) {
	cfg, err := s.resolve(input.Root, input.BatchSize)
	if err != nil {
		return nil, PlanOutput{}, fmt.Errorf("invalid arguments: %w", err)
	}

	groups, err := discovery.Discover(cfg.Root, cfg.Marker, nil)
	if err != nil {
		return nil, PlanOutput{}, err
	}

	out := PlanOutput{Plans: []PlanSummary{}}
	for _, g := range groups {
		if input.Base != "" && g.Base != input.Base {
			continue
		}
		tree, err := orchestrator.Plan(g.Fragments, cfg.BatchSize)
		if err != nil {
			return nil, PlanOutput{}, err
		}
		out.Plans = append(out.Plans, summarize(g.Base, cfg.BatchSize, len(g.Fragments), tree))
	}
	if input.Base != "" && len(out.Plans) == 0 {
		return nil, out, fmt.Errorf("no fragments found for %s", input.Base)
	}
	return nil, out, nil
}

// Status lists the fragment groups waiting under the root.
func (s *ReassembleService) Status(
	_ context.Context,
	_ *mcp.CallToolRequest,
	input StatusInput,
) (*mcp.CallToolResult, StatusOutput, error) {
	cfg, err := s.resolve(input.Root, input.BatchSize)
	if err != nil {
		return nil, StatusOutput{}, fmt.Errorf("invalid arguments: %w", err)
	}

	groups, err := status.Survey(cfg)
	if err != nil {
		return nil, StatusOutput{}, err
	}
	if groups == nil {
		groups = []status.GroupStatus{}
	}
	return nil, StatusOutput{Groups: groups}, nil
}

func summarize(base string, batchSize, fragments int, tree *orchestrator.Tree) PlanSummary {
	ps := PlanSummary{
		Base:      base,
		BatchSize: batchSize,
		Fragments: fragments,
		Height:    tree.Height,
		RootID:    tree.Root.ID,
		Tasks:     make([]TaskSummary, 0, len(tree.Tasks)),
	}
	for _, t := range tree.Tasks {
		ts := TaskSummary{ID: t.ID, Level: t.Level, Leader: t.Leader(), Files: t.Files}
		for _, c := range t.Children {
			ts.Children = append(ts.Children, c.ID)
		}
		ps.Tasks = append(ps.Tasks, ts)
	}
	return ps
}
