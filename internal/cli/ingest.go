package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"docrag/internal/service"
)

var (
	ingestDocType  string
	ingestSourceID string
	ingestMeta     map[string]string
	ingestJSON     bool
)

var ingestCmd = &cobra.Command{
	Use:   "ingest",
	Short: "Ingest a single document",
	Long: `Ingest one document from a URL, inline text, or a local file.

Documents whose normalized content was already ingested are reported as
duplicates and nothing is stored.`,
}

var ingestURLCmd = &cobra.Command{
	Use:   "url [url]",
	Short: "Fetch and ingest a document from a URL",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runIngest(cmd, service.SourceURL, args[0])
	},
}

var ingestTextCmd = &cobra.Command{
	Use:   "text [content|-]",
	Short: "Ingest inline text, or stdin when the argument is -",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		content := args[0]
		if content == "-" {
			data, err := io.ReadAll(cmd.InOrStdin())
			if err != nil {
				return fmt.Errorf("failed to read stdin: %w", err)
			}
			content = string(data)
		}
		return runIngest(cmd, service.SourceText, content)
	},
}

var ingestFileCmd = &cobra.Command{
	Use:   "file [path]",
	Short: "Ingest a local file, inferring its type from the extension",
	Args:  cobra.ExactArgs(1),
	RunE:  runIngestFile,
}

func init() {
	for _, c := range []*cobra.Command{ingestURLCmd, ingestTextCmd} {
		c.Flags().StringVarP(&ingestDocType, "type", "t", "", "document type: pdf, text, html or markdown")
		c.Flags().StringVar(&ingestSourceID, "id", "", "source id (defaults to the URL or a fingerprint-derived id)")
		c.Flags().StringToStringVarP(&ingestMeta, "meta", "m", nil, "extra metadata as key=value, repeatable")
		_ = c.MarkFlagRequired("type")
	}
	for _, c := range []*cobra.Command{ingestURLCmd, ingestTextCmd, ingestFileCmd} {
		c.Flags().BoolVar(&ingestJSON, "json", false, "output result as JSON")
		ingestCmd.AddCommand(c)
	}
	rootCmd.AddCommand(ingestCmd)
}

func runIngest(cmd *cobra.Command, sourceType service.SourceType, content string) error {
	var meta map[string]any
	if len(ingestMeta) > 0 {
		meta = make(map[string]any, len(ingestMeta))
		for k, v := range ingestMeta {
			meta[k] = v
		}
	}

	res, err := ingestService.Ingest(cmd.Context(), service.IngestRequest{
		SourceType:   sourceType,
		Content:      content,
		DocumentType: ingestDocType,
		SourceID:     ingestSourceID,
		Metadata:     meta,
	})
	if err != nil {
		return fmt.Errorf("ingest failed: %w", err)
	}
	return outputIngestResult(cmd, res)
}

func runIngestFile(cmd *cobra.Command, args []string) error {
	res, err := ingestService.IngestFile(cmd.Context(), args[0])
	if err != nil {
		return fmt.Errorf("ingest failed: %w", err)
	}
	return outputIngestResult(cmd, res)
}

// ingestOutput is the JSON shape of a single ingest result.
type ingestOutput struct {
	Outcome       string `json:"outcome"`
	ChunksCreated int    `json:"chunks_created"`
	SourceID      string `json:"source_id"`
	Fingerprint   string `json:"fingerprint,omitempty"`
	IngestionID   string `json:"ingestion_id,omitempty"`
	Excerpt       string `json:"content_excerpt,omitempty"`
}

func outputIngestResult(cmd *cobra.Command, res service.IngestResult) error {
	out := ingestOutput{
		Outcome:       string(res.Outcome.Kind),
		ChunksCreated: res.Outcome.ChunksCreated,
		SourceID:      res.Outcome.SourceID,
		Fingerprint:   res.Outcome.Fingerprint,
		IngestionID:   res.RecordID,
		Excerpt:       res.Excerpt,
	}
	if ingestJSON {
		return printJSON(cmd, out)
	}

	w := cmd.OutOrStdout()
	fmt.Fprintf(w, "Outcome:  %s\n", out.Outcome)
	fmt.Fprintf(w, "Source:   %s\n", out.SourceID)
	fmt.Fprintf(w, "Chunks:   %d\n", out.ChunksCreated)
	if out.Fingerprint != "" {
		fmt.Fprintf(w, "Digest:   %s\n", out.Fingerprint)
	}
	if out.Excerpt != "" {
		fmt.Fprintf(w, "Excerpt:  %s\n", strings.ReplaceAll(out.Excerpt, "\n", " "))
	}
	return nil
}
