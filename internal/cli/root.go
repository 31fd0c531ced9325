// Package cli implements the docrag command-line interface.
package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"docrag/internal/app"
	"docrag/internal/config"
	"docrag/internal/service"
)

// Services used by the commands. Execute builds them from configuration
// unless they were set beforehand.
var (
	ingestService service.IngestService
	queryService  service.QueryService
	closeApp      func() error
)

var rootCmd = &cobra.Command{
	Use:   "docrag",
	Short: "Ingest documents and answer questions about them",
	Long: `docrag ingests PDF, HTML, markdown and plain text documents into a vector
store and answers questions with citations to the pages the answer came from.

Configuration is read from the environment, a .env file, and the YAML file
named by DOCRAG_CONFIG.`,
	SilenceUsage:      true,
	PersistentPreRunE: bootstrap,
}

// Execute runs the root command and releases the application afterwards.
func Execute(ctx context.Context) error {
	err := rootCmd.ExecuteContext(ctx)
	if closeApp != nil {
		if cerr := closeApp(); cerr != nil {
			slog.Warn("failed to close application", "error", cerr)
		}
		closeApp = nil
	}
	return err
}

// bootstrap loads configuration and builds the services on first use.
// Logs go to stderr so stdout stays clean for results and the MCP transport.
func bootstrap(cmd *cobra.Command, _ []string) error {
	if ingestService != nil && queryService != nil {
		return nil
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	slog.SetDefault(cfg.NewLogger(os.Stderr))

	a, err := app.New(cmd.Context(), cfg)
	if err != nil {
		return err
	}
	ingestService = a.IngestService
	queryService = a.QueryService
	closeApp = a.Close
	return nil
}

func printJSON(cmd *cobra.Command, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal output: %w", err)
	}
	fmt.Fprintln(cmd.OutOrStdout(), string(data))
	return nil
}
