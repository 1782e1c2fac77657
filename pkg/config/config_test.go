package config_test

import (
	"testing"

	"github.com/quarryhq/graphrag/pkg/config"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	viper.Reset()
	t.Setenv("OPENAI_API_KEY", "")

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, 10, cfg.Retrieval.TopKVectors)
	assert.Equal(t, 10, cfg.Retrieval.TopKGraph)
	assert.Equal(t, 2, cfg.Retrieval.MaxHops)
	assert.InDelta(t, 0.6, cfg.Retrieval.AlphaSemantic, 1e-9)
	assert.InDelta(t, 0.7, cfg.Retrieval.WeightSemantic, 1e-9)
	assert.InDelta(t, 0.3, cfg.Retrieval.WeightCentrality, 1e-9)

	assert.Equal(t, 500, cfg.Ingestion.ChunkSize)
	assert.Equal(t, 50, cfg.Ingestion.ChunkOverlap)
	assert.Equal(t, []string{".txt", ".md"}, cfg.Ingestion.AllowedFormats)

	assert.Equal(t, "bolt://localhost:7687", cfg.Graph.URI)
	assert.Equal(t, "text-embedding-3-small", cfg.Embedding.Model)
	assert.Equal(t, "gpt-4o-mini", cfg.Generation.Model)
}

func TestEnvOverrides(t *testing.T) {
	viper.Reset()
	t.Setenv("NEO4J_URI", "bolt://graph.internal:7687")
	t.Setenv("NEO4J_USER", "svc")
	t.Setenv("NEO4J_PASSWORD", "hunter2")
	t.Setenv("OPENAI_API_KEY", "sk-test")

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, "bolt://graph.internal:7687", cfg.Graph.URI)
	assert.Equal(t, "svc", cfg.Graph.Username)
	assert.Equal(t, "hunter2", cfg.Graph.Password)
	assert.Equal(t, "sk-test", cfg.Embedding.APIKey)
	assert.Equal(t, "sk-test", cfg.Generation.APIKey)
}

func TestValidate(t *testing.T) {
	valid := func() *config.Config {
		return &config.Config{
			Retrieval: config.RetrievalConfig{
				TopKVectors:      10,
				TopKGraph:        10,
				MaxHops:          2,
				AlphaSemantic:    0.6,
				WeightSemantic:   0.7,
				WeightCentrality: 0.3,
			},
			Ingestion: config.IngestionConfig{ChunkSize: 500, ChunkOverlap: 50},
		}
	}

	tests := []struct {
		name    string
		mutate  func(*config.Config)
		wantErr string
	}{
		{"valid", func(c *config.Config) {}, ""},
		{"zero top_k_vectors", func(c *config.Config) { c.Retrieval.TopKVectors = 0 }, "top_k_vectors"},
		{"negative top_k_graph", func(c *config.Config) { c.Retrieval.TopKGraph = -1 }, "top_k_graph"},
		{"zero max_hops", func(c *config.Config) { c.Retrieval.MaxHops = 0 }, "max_hops"},
		{"alpha above one", func(c *config.Config) { c.Retrieval.AlphaSemantic = 1.5 }, "alpha_semantic"},
		{"negative alpha", func(c *config.Config) { c.Retrieval.AlphaSemantic = -0.1 }, "alpha_semantic"},
		{"weight above one", func(c *config.Config) { c.Retrieval.WeightCentrality = 2 }, "weight_centrality"},
		{"overlap not below chunk size", func(c *config.Config) { c.Ingestion.ChunkOverlap = 500 }, "chunk_overlap"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
			} else {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
			}
		})
	}
}
