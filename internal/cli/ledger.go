package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"docrag/internal/storage"
)

var (
	historyLimit int
	historyJSON  bool
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List recent ingestion attempts",
	Args:  cobra.NoArgs,
	RunE:  runHistory,
}

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Summarize ingestion outcomes and chunk counts",
	Args:  cobra.NoArgs,
	RunE:  runStats,
}

func init() {
	historyCmd.Flags().IntVarP(&historyLimit, "limit", "n", storage.DefaultListLimit, "maximum number of records")
	historyCmd.Flags().BoolVar(&historyJSON, "json", false, "output records as JSON")
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(statsCmd)
}

func runHistory(cmd *cobra.Command, _ []string) error {
	records, err := ingestService.ListIngestions(cmd.Context(), historyLimit)
	if err != nil {
		return fmt.Errorf("failed to list ingestions: %w", err)
	}

	if historyJSON {
		return printJSON(cmd, records)
	}
	if len(records) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No ingestions recorded.")
		return nil
	}
	for _, r := range records {
		line := fmt.Sprintf("%s  %-14s %3d chunks  %s", r.CreatedAt.Format("2006-01-02 15:04:05"), r.Outcome, r.ChunksCreated, r.SourceID)
		if r.Error != "" {
			line += "  (" + r.Error + ")"
		}
		fmt.Fprintln(cmd.OutOrStdout(), line)
	}
	return nil
}

func runStats(cmd *cobra.Command, _ []string) error {
	stats, err := ingestService.Stats(cmd.Context())
	if err != nil {
		return fmt.Errorf("failed to compute stats: %w", err)
	}
	return printJSON(cmd, stats)
}
