package graphrag

import (
	"fmt"
	"strings"

	graphraglib "github.com/quarryhq/graphrag"
	"github.com/quarryhq/graphrag/pkg/config"
	"github.com/spf13/cobra"
)

var queryCmd = &cobra.Command{
	Use:   "query [question]",
	Short: "Run a hybrid query against ingested documents",
	Long: `Ingest the given documents, then run a hybrid query combining semantic
search with graph expansion and print the reranked chunks.

The vector index lives in memory, so the documents to query over are
ingested first via --docs.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runQuery,
}

var answerCmd = &cobra.Command{
	Use:   "answer [question]",
	Short: "Generate a grounded answer for a question",
	Long: `Ingest the given documents, run the full pipeline, and print a generated
answer with citations.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runAnswer,
}

var queryDocs []string

func init() {
	rootCmd.AddCommand(queryCmd)
	rootCmd.AddCommand(answerCmd)

	queryCmd.Flags().StringSliceVar(&queryDocs, "docs", nil, "Document files to ingest before querying")
	answerCmd.Flags().StringSliceVar(&queryDocs, "docs", nil, "Document files to ingest before querying")
}

func openWithDocs(cmd *cobra.Command) (*graphraglib.Client, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	log, _, err := newLogger(cfg)
	if err != nil {
		return nil, err
	}

	client, err := graphraglib.Open(cmd.Context(), cfg, log)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize graphrag: %w", err)
	}

	if len(queryDocs) > 0 {
		if _, err := client.IngestDocuments(cmd.Context(), queryDocs); err != nil {
			client.Close(cmd.Context())
			return nil, err
		}
	}
	return client, nil
}

func runQuery(cmd *cobra.Command, args []string) error {
	client, err := openWithDocs(cmd)
	if err != nil {
		return err
	}
	defer client.Close(cmd.Context())

	question := strings.Join(args, " ")
	result, err := client.Query(cmd.Context(), question)
	if err != nil {
		return err
	}

	if len(result.Items) == 0 {
		fmt.Println("No results.")
		return nil
	}
	for i, item := range result.Items {
		fmt.Printf("%2d. [%.4f] %s (%s)\n", i+1, item.Score, item.Chunk.ID, item.Chunk.SourceDocument)
		fmt.Printf("    %s\n", snippet(item.Chunk.Text, 160))
	}
	return nil
}

func runAnswer(cmd *cobra.Command, args []string) error {
	client, err := openWithDocs(cmd)
	if err != nil {
		return err
	}
	defer client.Close(cmd.Context())

	question := strings.Join(args, " ")
	result, err := client.Answer(cmd.Context(), question)
	if err != nil {
		return err
	}

	fmt.Println(result.Answer)
	if len(result.Citations) > 0 {
		fmt.Println("\nSources:")
		for i, c := range result.Citations {
			fmt.Printf("  [%d] %s (%s, %.4f)\n", i+1, c.ChunkID, c.SourceDocument, c.Score)
		}
	}
	return nil
}

func snippet(text string, n int) string {
	text = strings.Join(strings.Fields(text), " ")
	if len(text) <= n {
		return text
	}
	return text[:n] + "..."
}
