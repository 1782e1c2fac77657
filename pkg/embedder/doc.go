// Package embedder provides text embedding clients for vector representations.
//
// This package defines the Client interface and an OpenAI-backed
// implementation. Any OpenAI-compatible embedding API works through the
// BaseURL override.
//
// # Usage
//
//	client := embedder.NewOpenAIEmbedder(apiKey, embedder.Config{
//	    Model: "text-embedding-3-small",
//	})
//
//	vectors, err := client.Embed(ctx, []string{"hello world"})
//
// # Batch Processing
//
// Embed sends all texts in a single request so the provider returns vectors
// in input order; EmbedSingle is a convenience wrapper for one text.
//
// # Caching
//
// NewCachedClient wraps any Client with a Badger-backed cache keyed by model
// and text content, so re-indexing the same corpus does not re-pay provider
// calls.
package embedder
