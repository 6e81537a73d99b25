package export

import (
	"time"

	"github.com/dusk-indust/reassemble/internal/orchestrator"
)

// PlanExport is the top-level JSON export of one merge plan.
type PlanExport struct {
	Base       string     `json:"base"`
	ExportedAt string     `json:"exportedAt"`
	BatchSize  int        `json:"batchSize"`
	Fragments  int        `json:"fragments"`
	Height     int        `json:"height"`
	Tasks      int        `json:"tasks"`
	Root       TaskExport `json:"root"`
}

// TaskExport describes one task and, recursively, the tasks it waits for.
type TaskExport struct {
	ID       int          `json:"id"`
	Level    int          `json:"level"`
	Leader   string       `json:"leader"`
	Files    []string     `json:"files"`
	Children []TaskExport `json:"children,omitempty"`
}

// ExportPlan converts a merge tree into its JSON form.
func ExportPlan(base string, batchSize, fragments int, tree *orchestrator.Tree) *PlanExport {
	return &PlanExport{
		Base:       base,
		ExportedAt: time.Now().UTC().Format(time.RFC3339),
		BatchSize:  batchSize,
		Fragments:  fragments,
		Height:     tree.Height,
		Tasks:      len(tree.Tasks),
		Root:       exportTask(tree.Root),
	}
}

func exportTask(t *orchestrator.Task) TaskExport {
	te := TaskExport{
		ID:     t.ID,
		Level:  t.Level,
		Leader: t.Leader(),
		Files:  t.Files,
	}
	for _, c := range t.Children {
		te.Children = append(te.Children, exportTask(c))
	}
	return te
}
