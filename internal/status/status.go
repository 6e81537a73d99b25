package status

import (
	"os"

	"github.com/dusk-indust/reassemble/internal/discovery"
	"github.com/dusk-indust/reassemble/internal/orchestrator"
)

// GroupStatus describes one pending reconstruction without touching it.
type GroupStatus struct {
	Base         string `json:"base"`
	Fragments    int    `json:"fragments"`
	Bytes        int64  `json:"bytes"`
	Tasks        int    `json:"tasks"`
	Height       int    `json:"height"`
	TargetExists bool   `json:"targetExists"`
}

// Survey finds every fragment group under cfg.Root and reports what
// reconstructing it with cfg.BatchSize would involve.
func Survey(cfg orchestrator.Config) ([]GroupStatus, error) {
	groups, err := discovery.Discover(cfg.Root, cfg.Marker, nil)
	if err != nil {
		return nil, err
	}

	out := make([]GroupStatus, 0, len(groups))
	for _, g := range groups {
		tree, err := orchestrator.Plan(g.Fragments, cfg.BatchSize)
		if err != nil {
			return nil, err
		}
		gs := GroupStatus{
			Base:      g.Base,
			Fragments: len(g.Fragments),
			Bytes:     totalSize(g.Fragments),
			Tasks:     len(tree.Tasks),
			Height:    tree.Height,
		}
		if _, err := os.Stat(g.Base); err == nil {
			gs.TargetExists = true
		}
		out = append(out, gs)
	}
	return out, nil
}

func totalSize(paths []string) int64 {
	var n int64
	for _, p := range paths {
		if info, err := os.Stat(p); err == nil {
			n += info.Size()
		}
	}
	return n
}
