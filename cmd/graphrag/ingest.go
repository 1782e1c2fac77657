package graphrag

import (
	"fmt"

	graphraglib "github.com/quarryhq/graphrag"
	"github.com/quarryhq/graphrag/pkg/config"
	"github.com/spf13/cobra"
)

var ingestCmd = &cobra.Command{
	Use:   "ingest [files...]",
	Short: "Ingest documents into the index and knowledge graph",
	Long: `Load the given document files, split them into chunks, extract named
entities, index the chunks, and write the resulting graph to Neo4j.

Only files with an allowed extension (.txt and .md by default) are
processed; everything else is skipped.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runIngest,
}

func init() {
	rootCmd.AddCommand(ingestCmd)
}

func runIngest(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	log, flush, err := newLogger(cfg)
	if err != nil {
		return err
	}
	defer flush()

	client, err := graphraglib.Open(cmd.Context(), cfg, log)
	if err != nil {
		return fmt.Errorf("failed to initialize graphrag: %w", err)
	}
	defer client.Close(cmd.Context())

	result, err := client.IngestDocuments(cmd.Context(), args)
	if err != nil {
		return err
	}

	fmt.Printf("Ingested %d chunks, %d entities, %d relations\n",
		len(result.Chunks), len(result.Entities), len(result.Relations))
	return nil
}
