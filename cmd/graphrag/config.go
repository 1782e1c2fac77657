package graphrag

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage graphrag configuration",
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a default config file",
	Long: `Write a commented default configuration to $HOME/.graphrag.yaml, or to
the path given with --output. Existing files are not overwritten unless
--force is set.`,
	RunE: runConfigInit,
}

var (
	configOutput string
	configForce  bool
)

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configInitCmd)

	configInitCmd.Flags().StringVar(&configOutput, "output", "", "Output path (default $HOME/.graphrag.yaml)")
	configInitCmd.Flags().BoolVar(&configForce, "force", false, "Overwrite an existing file")
}

// defaultConfigDocument mirrors the defaults applied by config.Load.
func defaultConfigDocument() map[string]any {
	return map[string]any{
		"log": map[string]any{
			"level":  "info",
			"format": "text",
		},
		"server": map[string]any{
			"host": "localhost",
			"port": 8080,
			"mode": "release",
		},
		"graph": map[string]any{
			"uri":      "bolt://localhost:7687",
			"username": "neo4j",
			"password": "password",
			"database": "neo4j",
		},
		"embedding": map[string]any{
			"provider":  "openai",
			"model":     "text-embedding-3-small",
			"cache_dir": "",
		},
		"generation": map[string]any{
			"provider":       "openai",
			"model":          "gpt-4o-mini",
			"temperature":    0.2,
			"max_tokens":     512,
			"context_chunks": 3,
		},
		"retrieval": map[string]any{
			"top_k_vectors":     10,
			"top_k_graph":       10,
			"max_hops":          2,
			"alpha_semantic":    0.6,
			"weight_semantic":   0.7,
			"weight_centrality": 0.3,
		},
		"ingestion": map[string]any{
			"chunk_size":      500,
			"chunk_overlap":   50,
			"allowed_formats": []string{".txt", ".md"},
		},
		"circuit_breaker": map[string]any{
			"enabled":             true,
			"max_requests":        1,
			"interval":            60,
			"timeout":             30,
			"ready_to_trip_ratio": 0.6,
		},
	}
}

func runConfigInit(cmd *cobra.Command, args []string) error {
	path := configOutput
	if path == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return fmt.Errorf("failed to find home directory: %w", err)
		}
		path = filepath.Join(home, ".graphrag.yaml")
	}

	if !configForce {
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("%s already exists, use --force to overwrite", path)
		}
	}

	data, err := yaml.Marshal(defaultConfigDocument())
	if err != nil {
		return fmt.Errorf("failed to marshal default config: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	fmt.Println("Wrote default config to", path)
	return nil
}
