package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var ingestDirJSON bool

var ingestDirCmd = &cobra.Command{
	Use:   "ingest-dir [path]",
	Short: "Ingest every supported file under a directory",
	Long: `Walks a directory and ingests every .pdf, .txt, .html, .htm, .md and
.markdown file. Hidden files and directories are skipped. Each file's source
id is its path relative to the directory.

A failing file does not stop the others; failures are listed at the end.`,
	Args: cobra.ExactArgs(1),
	RunE: runIngestDir,
}

func init() {
	ingestDirCmd.Flags().BoolVar(&ingestDirJSON, "json", false, "output report as JSON")
	rootCmd.AddCommand(ingestDirCmd)
}

func runIngestDir(cmd *cobra.Command, args []string) error {
	report, err := ingestService.IngestDirectory(cmd.Context(), args[0])
	if err != nil {
		return fmt.Errorf("ingest-dir failed: %w", err)
	}

	w := cmd.OutOrStdout()
	if ingestDirJSON {
		if err := printJSON(cmd, report); err != nil {
			return err
		}
	} else {
		fmt.Fprintf(w, "Files:       %d\n", report.Files)
		fmt.Fprintf(w, "Ingested:    %d\n", report.Ingested)
		fmt.Fprintf(w, "Duplicates:  %d\n", report.Duplicates)
		fmt.Fprintf(w, "Empty:       %d\n", report.Empty)
		fmt.Fprintf(w, "Chunks:      %d\n", report.ChunksCreated)
		if len(report.Failures) > 0 {
			fmt.Fprintf(w, "Failures:    %d\n", len(report.Failures))
			for _, f := range report.Failures {
				fmt.Fprintf(w, "  %s: %s\n", f.Path, f.Error)
			}
		}
	}

	if len(report.Failures) > 0 {
		return fmt.Errorf("%d of %d files failed", len(report.Failures), report.Files)
	}
	return nil
}
