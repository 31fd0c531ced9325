package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"docrag/internal/document"
	"docrag/internal/service"
)

var queryJSON bool

var queryCmd = &cobra.Command{
	Use:   "query [question]",
	Short: "Answer a question from the ingested documents",
	Long: `Retrieves the chunks most similar to the question and asks the
language model to answer from them. Each source is printed with the page it
came from.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runQuery,
}

func init() {
	queryCmd.Flags().BoolVar(&queryJSON, "json", false, "output answer and sources as JSON")
	rootCmd.AddCommand(queryCmd)
}

// queryOutput is the JSON shape of a query answer.
type queryOutput struct {
	Answer  string            `json:"answer"`
	Sources []document.Source `json:"sources"`
}

func runQuery(cmd *cobra.Command, args []string) error {
	question := strings.Join(args, " ")

	result, err := queryService.Query(cmd.Context(), service.QueryRequest{Question: question})
	if err != nil {
		return fmt.Errorf("query failed: %w", err)
	}

	sources := result.Sources
	if sources == nil {
		sources = []document.Source{}
	}
	if queryJSON {
		return printJSON(cmd, queryOutput{Answer: result.Answer, Sources: sources})
	}

	w := cmd.OutOrStdout()
	fmt.Fprintln(w, result.Answer)
	if len(sources) == 0 {
		return nil
	}
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Sources:")
	for i, s := range sources {
		fmt.Fprintf(w, "  [%d] page %d: %s\n", i+1, s.Page, excerpt(s.Text, 120))
	}
	return nil
}

func excerpt(s string, n int) string {
	s = strings.Join(strings.Fields(s), " ")
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n]) + "..."
}
