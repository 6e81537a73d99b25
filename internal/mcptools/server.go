package mcptools

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// version is set by the linker at build time.
var version = "dev"

// NewReassembleMCPServer creates an MCP server with the 3 reassemble tools
// registered: reconstruct, plan and status.
func NewReassembleMCPServer(svc *ReassembleService) *mcp.Server {
	server := mcp.NewServer(&mcp.Implementation{
		Name:    "reassemble",
		Version: version,
	}, nil)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "reconstruct",
		Description: "Find every split file under a directory and rebuild it by concatenating its .FRAG- fragments in order. Fragments are consumed.",
	}, svc.Reconstruct)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "plan",
		Description: "Show the merge tree that reconstruct would run for each split file, without modifying anything.",
	}, svc.Plan)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "status",
		Description: "List split files waiting to be rebuilt, with fragment counts, sizes and merge tree height.",
	}, svc.Status)

	return server
}

// RunStdio runs the MCP server on stdio transport, blocking until stdin is
// closed or the context is cancelled.
func RunStdio(ctx context.Context, server *mcp.Server) error {
	return server.Run(ctx, &mcp.StdioTransport{})
}
