package embedder

import "context"

// Client is the narrow contract the retrieval core has with an embedding
// provider: texts in, one fixed-dimension vector per text, in input order.
type Client interface {
	// Embed generates embeddings for the given texts in a single batch.
	Embed(ctx context.Context, texts []string) ([][]float32, error)

	// EmbedSingle generates an embedding for a single text.
	EmbedSingle(ctx context.Context, text string) ([]float32, error)

	// Dimensions returns the number of dimensions in the embeddings.
	Dimensions() int

	// Close cleans up any resources.
	Close() error
}

// Config holds common embedding client settings.
type Config struct {
	Model     string
	BaseURL   string
	Dimension int
}
