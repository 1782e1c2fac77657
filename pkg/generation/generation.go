// Package generation produces a grounded answer from reranked chunks.
package generation

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/quarryhq/graphrag/pkg/config"
	"github.com/quarryhq/graphrag/pkg/llm"
	"github.com/quarryhq/graphrag/pkg/types"
)

const answerSystemPrompt = `You are a question answering assistant.
Answer the user's question using ONLY the numbered context passages provided.
If the context does not contain the answer, say you do not know.
Keep the answer concise and cite passage numbers like [1] where relevant.`

// Result is a generated answer plus the chunks it was grounded on.
type Result struct {
	Answer    string           `json:"answer"`
	Citations []types.Citation `json:"citations"`
}

// Generator turns a query and its reranked chunks into an answer.
type Generator struct {
	config config.GenerationConfig
	chat   llm.Client
	log    *slog.Logger
}

// New creates a Generator.
func New(cfg config.GenerationConfig, chat llm.Client, log *slog.Logger) *Generator {
	if log == nil {
		log = slog.Default()
	}
	return &Generator{config: cfg, chat: chat, log: log}
}

// Generate answers query from the top reranked chunks. The context window
// takes the first ContextChunks items; the reranked slice is assumed to be
// sorted best-first already.
func (g *Generator) Generate(ctx context.Context, query string, reranked *types.RerankedResult) (*Result, error) {
	if reranked == nil || len(reranked.Items) == 0 {
		return &Result{Answer: "I do not have any relevant context to answer that question."}, nil
	}

	limit := g.config.ContextChunks
	if limit <= 0 || limit > len(reranked.Items) {
		limit = len(reranked.Items)
	}
	selected := reranked.Items[:limit]

	var b strings.Builder
	citations := make([]types.Citation, 0, len(selected))
	for i, item := range selected {
		fmt.Fprintf(&b, "[%d] %s\n\n", i+1, item.Chunk.Text)
		citations = append(citations, types.Citation{
			ChunkID:        item.Chunk.ID,
			SourceDocument: item.Chunk.SourceDocument,
			Score:          item.Score,
		})
	}
	fmt.Fprintf(&b, "Question: %s", query)

	answer, err := g.chat.Complete(ctx, answerSystemPrompt, b.String())
	if err != nil {
		return nil, fmt.Errorf("answer generation failed: %w", err)
	}

	g.log.Debug("generated answer", "context_chunks", len(selected), "answer_len", len(answer))
	return &Result{Answer: strings.TrimSpace(answer), Citations: citations}, nil
}
