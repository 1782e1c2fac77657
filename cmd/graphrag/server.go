package graphrag

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	graphraglib "github.com/quarryhq/graphrag"
	"github.com/quarryhq/graphrag/pkg/config"
	"github.com/quarryhq/graphrag/pkg/logger"
	"github.com/quarryhq/graphrag/pkg/server"
	"github.com/quarryhq/graphrag/pkg/telemetry"
	"github.com/spf13/cobra"
)

var serverCmd = &cobra.Command{
	Use:   "server",
	Short: "Start the graphrag HTTP server",
	Long: `Start the graphrag HTTP server to provide REST API access to the
retrieval pipeline.

The server provides endpoints for:
- Indexing chunks and ingesting documents
- Hybrid retrieval, reranking, and answer generation
- Health checks

Configuration can be provided through config files, environment variables, or command-line flags.`,
	RunE: runServer,
}

var (
	serverHost string
	serverPort int
	serverMode string
)

func init() {
	rootCmd.AddCommand(serverCmd)

	// Server-specific flags
	serverCmd.Flags().StringVar(&serverHost, "host", "localhost", "Server host")
	serverCmd.Flags().IntVar(&serverPort, "port", 8080, "Server port")
	serverCmd.Flags().StringVar(&serverMode, "mode", "debug", "Server mode (debug, release, test)")

	// Graph database flags
	serverCmd.Flags().String("graph-uri", "", "Neo4j bolt URI")
	serverCmd.Flags().String("graph-username", "", "Neo4j username")
	serverCmd.Flags().String("graph-password", "", "Neo4j password")
	serverCmd.Flags().String("graph-database", "", "Neo4j database name")

	// Embedding flags
	serverCmd.Flags().String("embedding-model", "", "Embedding model")
	serverCmd.Flags().String("embedding-api-key", "", "Embedding API key")
	serverCmd.Flags().String("embedding-base-url", "", "Embedding base URL")
	serverCmd.Flags().String("embedding-cache-dir", "", "On-disk embedding cache directory")

	// Generation flags
	serverCmd.Flags().String("generation-model", "", "Chat model for extraction and answers")
	serverCmd.Flags().String("generation-api-key", "", "Chat API key")
	serverCmd.Flags().String("generation-base-url", "", "Chat base URL")

	// Telemetry flags
	serverCmd.Flags().String("telemetry-parquet-path", "", "Directory for parquet error telemetry")
}

func runServer(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	overrideConfigWithFlags(cmd, cfg)

	if cfg.Server.Port <= 0 || cfg.Server.Port > 65535 {
		return fmt.Errorf("invalid port: %d", cfg.Server.Port)
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

	srv := server.New(cfg, client)
	srv.Setup()

	// Handle signals
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	serverErrChan := make(chan error, 1)
	go func() {
		if err := srv.Start(); err != nil {
			serverErrChan <- err
		}
	}()

	select {
	case err := <-serverErrChan:
		client.Close(context.Background())
		return fmt.Errorf("server error: %w", err)
	case sig := <-sigChan:
		fmt.Printf("\nReceived signal: %v\n", sig)

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer shutdownCancel()

		if err := srv.Stop(shutdownCtx); err != nil {
			return fmt.Errorf("server shutdown error: %w", err)
		}
		if err := client.Close(shutdownCtx); err != nil {
			log.Warn("error closing client", "error", err)
		}

		fmt.Println("Server stopped gracefully")
		return nil
	}
}

// newLogger builds the process logger, wrapping the base handler with parquet
// error telemetry when a telemetry path is configured. The returned flush
// function writes any buffered telemetry records.
func newLogger(cfg *config.Config) (*slog.Logger, func(), error) {
	base := logger.NewHandler(cfg.Log)
	noop := func() {}

	if cfg.Telemetry.ParquetPath == "" {
		return slog.New(base), noop, nil
	}

	if err := os.MkdirAll(cfg.Telemetry.ParquetPath, 0o755); err != nil {
		return nil, nil, fmt.Errorf("failed to create telemetry directory: %w", err)
	}

	parquetHandler, err := telemetry.NewParquetHandler(base, cfg.Telemetry.ParquetPath)
	if err != nil {
		// Telemetry is best-effort; fall back to the plain handler.
		fmt.Fprintf(os.Stderr, "Warning: failed to initialize error telemetry: %v\n", err)
		return slog.New(base), noop, nil
	}

	return slog.New(parquetHandler), func() { _ = parquetHandler.Flush() }, nil
}

func overrideConfigWithFlags(cmd *cobra.Command, cfg *config.Config) {
	// Server flags
	if cmd.Flags().Changed("host") {
		cfg.Server.Host = serverHost
	}
	if cmd.Flags().Changed("port") {
		cfg.Server.Port = serverPort
	}
	if cmd.Flags().Changed("mode") {
		cfg.Server.Mode = serverMode
	}

	// Graph database flags
	if cmd.Flags().Changed("graph-uri") {
		cfg.Graph.URI, _ = cmd.Flags().GetString("graph-uri")
	}
	if cmd.Flags().Changed("graph-username") {
		cfg.Graph.Username, _ = cmd.Flags().GetString("graph-username")
	}
	if cmd.Flags().Changed("graph-password") {
		cfg.Graph.Password, _ = cmd.Flags().GetString("graph-password")
	}
	if cmd.Flags().Changed("graph-database") {
		cfg.Graph.Database, _ = cmd.Flags().GetString("graph-database")
	}

	// Embedding flags
	if cmd.Flags().Changed("embedding-model") {
		cfg.Embedding.Model, _ = cmd.Flags().GetString("embedding-model")
	}
	if cmd.Flags().Changed("embedding-api-key") {
		cfg.Embedding.APIKey, _ = cmd.Flags().GetString("embedding-api-key")
	}
	if cmd.Flags().Changed("embedding-base-url") {
		cfg.Embedding.BaseURL, _ = cmd.Flags().GetString("embedding-base-url")
	}
	if cmd.Flags().Changed("embedding-cache-dir") {
		cfg.Embedding.CacheDir, _ = cmd.Flags().GetString("embedding-cache-dir")
	}

	// Generation flags
	if cmd.Flags().Changed("generation-model") {
		cfg.Generation.Model, _ = cmd.Flags().GetString("generation-model")
	}
	if cmd.Flags().Changed("generation-api-key") {
		cfg.Generation.APIKey, _ = cmd.Flags().GetString("generation-api-key")
	}
	if cmd.Flags().Changed("generation-base-url") {
		cfg.Generation.BaseURL, _ = cmd.Flags().GetString("generation-base-url")
	}

	// Telemetry flags
	if cmd.Flags().Changed("telemetry-parquet-path") {
		cfg.Telemetry.ParquetPath, _ = cmd.Flags().GetString("telemetry-parquet-path")
	}
}
