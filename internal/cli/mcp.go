package cli

import (
	"github.com/spf13/cobra"

	"docrag/internal/mcp"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Start the MCP server over stdio",
	Long: `Start the Model Context Protocol server for AI assistant integration.

The server speaks JSON-RPC over stdio and exposes three tools:
  ingest  ingest a document from a URL or inline text
  query   answer a question with page citations
  stats   summarize past ingestion attempts

Client configuration:
  {
    "mcpServers": {
      "docrag": {
        "command": "/path/to/docrag",
        "args": ["mcp"]
      }
    }
  }`,
	Args: cobra.NoArgs,
	RunE: runMCP,
}

func init() {
	rootCmd.AddCommand(mcpCmd)
}

func runMCP(cmd *cobra.Command, _ []string) error {
	server, err := mcp.NewServer(&mcp.Services{
		Ingest: ingestService,
		Query:  queryService,
	})
	if err != nil {
		return err
	}
	return server.Run(cmd.Context())
}
