package mcptools

import "github.com/dusk-indust/reassemble/internal/status"

// --- MCP Tool Types for the server mode (--serve-mcp) ---
// Every input may override the root directory and batch size the server was
// started with.

// ReconstructInput is the input for the reconstruct MCP tool.
type ReconstructInput struct {
	Root      string `json:"root,omitempty" jsonschema:"directory to search for fragments (default: server root)"`
	BatchSize int    `json:"batchSize,omitempty" jsonschema:"fragments or tasks merged per step, 2-100 (default: server setting)"`
}

// ReconstructOutput is the result of the reconstruct MCP tool.
type ReconstructOutput struct {
	Files  []FileOutcome `json:"files"`
	Failed int           `json:"failed"`
}

// FileOutcome is the result for one rebuilt file.
type FileOutcome struct {
	Base      string `json:"base"`
	Status    string `json:"status"` // "completed" or "failed"
	Fragments int    `json:"fragments,omitempty"`
	Height    int    `json:"height,omitempty"`
	Message   string `json:"message,omitempty"`
}

// PlanInput is the input for the plan MCP tool.
type PlanInput struct {
	Root      string `json:"root,omitempty" jsonschema:"directory to search for fragments (default: server root)"`
	Base      string `json:"base,omitempty" jsonschema:"only plan the file with this base path"`
	BatchSize int    `json:"batchSize,omitempty" jsonschema:"fragments or tasks merged per step, 2-100 (default: server setting)"`
}

// PlanOutput is the result of the plan MCP tool.
type PlanOutput struct {
	Plans []PlanSummary `json:"plans"`
}

// PlanSummary is one merge tree with its tasks listed flat in creation
// order; children are referenced by task ID.
type PlanSummary struct {
	Base      string        `json:"base"`
	BatchSize int           `json:"batchSize"`
	Fragments int           `json:"fragments"`
	Height    int           `json:"height"`
	RootID    int           `json:"rootId"`
	Tasks     []TaskSummary `json:"tasks"`
}

// TaskSummary is one task of a PlanSummary.
type TaskSummary struct {
	ID       int      `json:"id"`
	Level    int      `json:"level"`
	Leader   string   `json:"leader"`
	Files    []string `json:"files"`
	Children []int    `json:"children,omitempty"`
}

// StatusInput is the input for the status MCP tool.
type StatusInput struct {
	Root      string `json:"root,omitempty" jsonschema:"directory to search for fragments (default: server root)"`
	BatchSize int    `json:"batchSize,omitempty" jsonschema:"fragments or tasks merged per step, 2-100 (default: server setting)"`
}

// StatusOutput is the result of the status MCP tool.
type StatusOutput struct {
	Groups []status.GroupStatus `json:"groups"`
}
