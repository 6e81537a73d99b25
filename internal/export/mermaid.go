package export

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/dusk-indust/reassemble/internal/orchestrator"
)

// GenerateMermaid produces a Mermaid graph TD diagram of a merge tree.
// Each task is a node labelled with its leader and file count; arrows point
// from a child to the parent that absorbs it. Leaves are grouped in one
// subgraph.
func GenerateMermaid(base string, tree *orchestrator.Tree) string {
	var sb strings.Builder
	sb.WriteString("graph TD\n")

	// Root output node.
	sb.WriteString(fmt.Sprintf("  OUT[[\"%s\"]]\n", escapeLabel(filepath.Base(base))))

	leaves := tree.Leaves()
	if len(leaves) > 0 {
		sb.WriteString("  subgraph leaves[\"fragments\"]\n")
		for _, t := range leaves {
			sb.WriteString(fmt.Sprintf("    %s\n", nodeDecl(t)))
		}
		sb.WriteString("  end\n")
	}

	for _, t := range tree.Tasks {
		if t.Level == 0 {
			continue
		}
		sb.WriteString(fmt.Sprintf("  %s\n", nodeDecl(t)))
	}
	for _, t := range tree.Tasks {
		for _, c := range t.Children {
			sb.WriteString(fmt.Sprintf("  %s --> %s\n", nodeID(c), nodeID(t)))
		}
	}
	sb.WriteString(fmt.Sprintf("  %s --> OUT\n", nodeID(tree.Root)))

	return sb.String()
}

func nodeID(t *orchestrator.Task) string {
	return fmt.Sprintf("T%d", t.ID)
}

func nodeDecl(t *orchestrator.Task) string {
	return fmt.Sprintf("%s[\"%s (%d)\"]", nodeID(t), escapeLabel(filepath.Base(t.Leader())), len(t.Files))
}

// escapeLabel makes name safe inside a quoted Mermaid label.
func escapeLabel(name string) string {
	return strings.ReplaceAll(name, `"`, "#quot;")
}
