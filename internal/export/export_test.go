package export

import (
	"encoding/json"
	"testing"

	"github.com/dusk-indust/reassemble/internal/orchestrator"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var reportFrags = []string{
	"/d/report.txt.FRAG-00000",
	"/d/report.txt.FRAG-00001",
	"/d/report.txt.FRAG-00002",
}

func TestExportPlan(t *testing.T) {
	tree, err := orchestrator.Plan(reportFrags, 2)
	require.NoError(t, err)

	got := ExportPlan("/d/report.txt", 2, len(reportFrags), tree)
	assert.Equal(t, "/d/report.txt", got.Base)
	assert.NotEmpty(t, got.ExportedAt)
	assert.Equal(t, 2, got.Height)
	assert.Equal(t, 3, got.Tasks)

	root := got.Root
	assert.Equal(t, 2, root.ID)
	assert.Equal(t, reportFrags[0], root.Leader)
	assert.Equal(t, []string{reportFrags[0], reportFrags[2]}, root.Files)
	require.Len(t, root.Children, 2)
	assert.Equal(t, []string{reportFrags[0], reportFrags[1]}, root.Children[0].Files)
	assert.Equal(t, []string{reportFrags[2]}, root.Children[1].Files)
	assert.Empty(t, root.Children[1].Children)

	data, err := json.Marshal(got)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"batchSize":2`)
}

func TestGenerateMermaid(t *testing.T) {
	tree, err := orchestrator.Plan(reportFrags, 2)
	require.NoError(t, err)

	want := "graph TD\n" +
		"  OUT[[\"report.txt\"]]\n" +
		"  subgraph leaves[\"fragments\"]\n" +
		"    T0[\"report.txt.FRAG-00000 (2)\"]\n" +
		"    T1[\"report.txt.FRAG-00002 (1)\"]\n" +
		"  end\n" +
		"  T2[\"report.txt.FRAG-00000 (2)\"]\n" +
		"  T0 --> T2\n" +
		"  T1 --> T2\n" +
		"  T2 --> OUT\n"
	assert.Equal(t, want, GenerateMermaid("/d/report.txt", tree))
}

func TestGenerateMermaid_SingleLeaf(t *testing.T) {
	tree, err := orchestrator.Plan(reportFrags[:1], 32)
	require.NoError(t, err)

	out := GenerateMermaid("/d/report.txt", tree)
	assert.Contains(t, out, "T0[\"report.txt.FRAG-00000 (1)\"]")
	assert.Contains(t, out, "T0 --> OUT")
}

func TestGenerateMermaid_EscapesQuotes(t *testing.T) {
	tree, err := orchestrator.Plan([]string{`/d/say "hi".txt.FRAG-0`}, 2)
	require.NoError(t, err)

	out := GenerateMermaid(`/d/say "hi".txt`, tree)
	assert.Contains(t, out, `OUT[["say #quot;hi#quot;.txt"]]`)
	assert.Contains(t, out, `T0["say #quot;hi#quot;.txt.FRAG-0 (1)"]`)
	assert.NotContains(t, out, `"hi"`)
}
