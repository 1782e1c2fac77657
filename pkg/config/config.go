package config

import (
	"fmt"
	"os"

	"github.com/spf13/viper"
)

// Config holds all configuration for the application
type Config struct {
	// Log configuration
	Log LogConfig `mapstructure:"log"`

	// Server configuration
	Server ServerConfig `mapstructure:"server"`

	// Graph database configuration
	Graph GraphConfig `mapstructure:"graph"`

	// Embedding configuration
	Embedding EmbeddingConfig `mapstructure:"embedding"`

	// Generation configuration
	Generation GenerationConfig `mapstructure:"generation"`

	// Retrieval configuration
	Retrieval RetrievalConfig `mapstructure:"retrieval"`

	// Ingestion configuration
	Ingestion IngestionConfig `mapstructure:"ingestion"`

	// Telemetry configuration
	Telemetry TelemetryConfig `mapstructure:"telemetry"`

	// CircuitBreaker configuration
	CircuitBreaker CircuitBreakerConfig `mapstructure:"circuit_breaker"`
}

// LogConfig holds logging configuration
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Host string `mapstructure:"host"`
	Port int    `mapstructure:"port"`
	Mode string `mapstructure:"mode"` // gin mode: debug, release, test
}

// GraphConfig holds graph database configuration
type GraphConfig struct {
	URI      string `mapstructure:"uri"`
	Username string `mapstructure:"username"`
	Password string `mapstructure:"password"`
	Database string `mapstructure:"database"`
}

// EmbeddingConfig holds embedding provider configuration
type EmbeddingConfig struct {
	Provider string `mapstructure:"provider"` // openai or any OpenAI-compatible API
	Model    string `mapstructure:"model"`
	APIKey   string `mapstructure:"api_key"`
	BaseURL  string `mapstructure:"base_url"`
	CacheDir string `mapstructure:"cache_dir"` // empty disables the embedding cache
}

// GenerationConfig holds answer generation configuration
type GenerationConfig struct {
	Provider    string  `mapstructure:"provider"`
	Model       string  `mapstructure:"model"`
	APIKey      string  `mapstructure:"api_key"`
	BaseURL     string  `mapstructure:"base_url"`
	Temperature float32 `mapstructure:"temperature"`
	MaxTokens   int     `mapstructure:"max_tokens"`
	// ContextChunks is how many reranked chunks are stitched into the prompt.
	ContextChunks int `mapstructure:"context_chunks"`
}

// RetrievalConfig holds the knobs for the hybrid retrieval pipeline.
type RetrievalConfig struct {
	TopKVectors int `mapstructure:"top_k_vectors"`
	TopKGraph   int `mapstructure:"top_k_graph"`
	MaxHops     int `mapstructure:"max_hops"`

	// AlphaSemantic is the blend weight applied to the semantic score when a
	// chunk is found by both signals: alpha*semantic + (1-alpha)*graph.
	AlphaSemantic float64 `mapstructure:"alpha_semantic"`

	// WeightSemantic and WeightCentrality blend the merged score with the
	// centrality prior during reranking. These are tuning constants with no
	// derivation behind them; they are configuration, not science.
	WeightSemantic   float64 `mapstructure:"weight_semantic"`
	WeightCentrality float64 `mapstructure:"weight_centrality"`
}

// IngestionConfig holds document loading and chunking configuration
type IngestionConfig struct {
	ChunkSize      int      `mapstructure:"chunk_size"`    // words per chunk
	ChunkOverlap   int      `mapstructure:"chunk_overlap"` // words shared between neighbors
	AllowedFormats []string `mapstructure:"allowed_formats"`
}

// TelemetryConfig holds telemetry configuration
type TelemetryConfig struct {
	ParquetPath string `mapstructure:"parquet_path"`
}

// CircuitBreakerConfig holds configuration for circuit breaking around the
// graph service.
type CircuitBreakerConfig struct {
	Enabled          bool    `mapstructure:"enabled"`
	MaxRequests      uint32  `mapstructure:"max_requests"`
	Interval         int     `mapstructure:"interval"` // in seconds
	Timeout          int     `mapstructure:"timeout"`  // in seconds
	ReadyToTripRatio float64 `mapstructure:"ready_to_trip_ratio"`
}

// Load loads configuration from file and environment variables
func Load() (*Config, error) {
	setDefaults()

	config := &Config{}
	if err := viper.Unmarshal(config); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	overrideWithEnv(config)

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

// Validate checks that the numeric retrieval knobs make sense. All counts
// must be positive and the blend weights must stay within [0,1].
func (c *Config) Validate() error {
	r := c.Retrieval
	if r.TopKVectors <= 0 {
		return fmt.Errorf("retrieval.top_k_vectors must be positive, got %d", r.TopKVectors)
	}
	if r.TopKGraph <= 0 {
		return fmt.Errorf("retrieval.top_k_graph must be positive, got %d", r.TopKGraph)
	}
	if r.MaxHops <= 0 {
		return fmt.Errorf("retrieval.max_hops must be positive, got %d", r.MaxHops)
	}
	if r.AlphaSemantic < 0 || r.AlphaSemantic > 1 {
		return fmt.Errorf("retrieval.alpha_semantic must be in [0,1], got %g", r.AlphaSemantic)
	}
	if r.WeightSemantic < 0 || r.WeightSemantic > 1 {
		return fmt.Errorf("retrieval.weight_semantic must be in [0,1], got %g", r.WeightSemantic)
	}
	if r.WeightCentrality < 0 || r.WeightCentrality > 1 {
		return fmt.Errorf("retrieval.weight_centrality must be in [0,1], got %g", r.WeightCentrality)
	}
	if c.Ingestion.ChunkSize <= 0 {
		return fmt.Errorf("ingestion.chunk_size must be positive, got %d", c.Ingestion.ChunkSize)
	}
	if c.Ingestion.ChunkOverlap < 0 || c.Ingestion.ChunkOverlap >= c.Ingestion.ChunkSize {
		return fmt.Errorf("ingestion.chunk_overlap must be in [0, chunk_size), got %d", c.Ingestion.ChunkOverlap)
	}
	return nil
}

// setDefaults sets default configuration values
func setDefaults() {
	// Log defaults
	viper.SetDefault("log.level", "info")
	viper.SetDefault("log.format", "text")

	// Server defaults
	viper.SetDefault("server.host", "localhost")
	viper.SetDefault("server.port", 8080)
	viper.SetDefault("server.mode", "debug")

	// Graph database defaults
	viper.SetDefault("graph.uri", "bolt://localhost:7687")
	viper.SetDefault("graph.username", "neo4j")
	viper.SetDefault("graph.password", "password")
	viper.SetDefault("graph.database", "neo4j")

	// Embedding defaults
	viper.SetDefault("embedding.provider", "openai")
	viper.SetDefault("embedding.model", "text-embedding-3-small")
	viper.SetDefault("embedding.cache_dir", "")

	// Generation defaults
	viper.SetDefault("generation.provider", "openai")
	viper.SetDefault("generation.model", "gpt-4o-mini")
	viper.SetDefault("generation.temperature", 0.2)
	viper.SetDefault("generation.max_tokens", 512)
	viper.SetDefault("generation.context_chunks", 3)

	// Retrieval defaults
	viper.SetDefault("retrieval.top_k_vectors", 10)
	viper.SetDefault("retrieval.top_k_graph", 10)
	viper.SetDefault("retrieval.max_hops", 2)
	viper.SetDefault("retrieval.alpha_semantic", 0.6)
	viper.SetDefault("retrieval.weight_semantic", 0.7)
	viper.SetDefault("retrieval.weight_centrality", 0.3)

	// Ingestion defaults
	viper.SetDefault("ingestion.chunk_size", 500)
	viper.SetDefault("ingestion.chunk_overlap", 50)
	viper.SetDefault("ingestion.allowed_formats", []string{".txt", ".md"})

	// Circuit breaker defaults
	viper.SetDefault("circuit_breaker.enabled", true)
	viper.SetDefault("circuit_breaker.max_requests", 1)
	viper.SetDefault("circuit_breaker.interval", 60)
	viper.SetDefault("circuit_breaker.timeout", 30)
	viper.SetDefault("circuit_breaker.ready_to_trip_ratio", 0.6)

	// Telemetry defaults
	home, err := os.UserHomeDir()
	if err == nil {
		viper.SetDefault("telemetry.parquet_path", fmt.Sprintf("%s/.graphrag/telemetry", home))
	}
}

// overrideWithEnv overrides config with environment variables
func overrideWithEnv(config *Config) {
	if apiKey := os.Getenv("OPENAI_API_KEY"); apiKey != "" {
		if config.Embedding.APIKey == "" {
			config.Embedding.APIKey = apiKey
		}
		if config.Generation.APIKey == "" {
			config.Generation.APIKey = apiKey
		}
	}

	// Graph database credentials
	if uri := os.Getenv("NEO4J_URI"); uri != "" {
		config.Graph.URI = uri
	}
	if user := os.Getenv("NEO4J_USER"); user != "" {
		config.Graph.Username = user
	}
	if pass := os.Getenv("NEO4J_PASSWORD"); pass != "" {
		config.Graph.Password = pass
	}

	// Server settings
	if host := os.Getenv("SERVER_HOST"); host != "" {
		config.Server.Host = host
	}
	if port := os.Getenv("SERVER_PORT"); port != "" {
		viper.Set("server.port", port)
	}

	// Telemetry settings
	if path := os.Getenv("TELEMETRY_PARQUET_PATH"); path != "" {
		config.Telemetry.ParquetPath = path
	}
}
