// Package ingest turns documents on disk into the chunks, entities, and
// relations consumed by indexing and graph upsert.
//
// Documents are split into fixed-size word windows with overlap, entities
// are extracted per chunk, and three relation types connect the results:
// each chunk is part_of its document, each entity mentions the chunks it was
// found in, and entities co-occurring in one chunk are linked pairwise.
package ingest

import (
	"context"
	"crypto/sha1"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/quarryhq/graphrag/pkg/config"
	"github.com/quarryhq/graphrag/pkg/extract"
	"github.com/quarryhq/graphrag/pkg/types"
)

// Document is a loaded source file.
type Document struct {
	ID   string
	Path string
	Text string
}

// Result is everything one ingestion run produced.
type Result struct {
	Chunks    []types.Chunk
	Entities  []types.Entity
	Relations []types.Relation
}

// Pipeline loads, chunks, and extracts from documents.
type Pipeline struct {
	config    config.IngestionConfig
	extractor extract.Extractor
	log       *slog.Logger
}

// New creates an ingestion pipeline.
func New(cfg config.IngestionConfig, extractor extract.Extractor, log *slog.Logger) *Pipeline {
	if log == nil {
		log = slog.Default()
	}
	return &Pipeline{config: cfg, extractor: extractor, log: log}
}

// Ingest processes the given file paths end to end.
func (p *Pipeline) Ingest(ctx context.Context, paths []string) (*Result, error) {
	documents, err := p.LoadDocuments(paths)
	if err != nil {
		return nil, err
	}
	p.log.Info("loaded documents", "count", len(documents))

	var chunks []types.Chunk
	for _, doc := range documents {
		chunks = append(chunks, p.ChunkDocument(doc)...)
	}
	p.log.Info("created chunks", "count", len(chunks))
	if len(chunks) == 0 {
		return nil, fmt.Errorf("no chunks created from input documents")
	}

	entitiesByChunk := make(map[string][]types.Entity, len(chunks))
	entityByID := make(map[string]types.Entity)
	var entities []types.Entity
	for _, chunk := range chunks {
		extracted, err := p.extractor.Extract(ctx, chunk.Text)
		if err != nil {
			return nil, fmt.Errorf("entity extraction failed for chunk %s: %w", chunk.ID, err)
		}
		entitiesByChunk[chunk.ID] = extracted
		for _, entity := range extracted {
			if _, seen := entityByID[entity.ID]; !seen {
				entityByID[entity.ID] = entity
				entities = append(entities, entity)
			}
		}
	}
	p.log.Info("extracted entities", "unique", len(entities))

	relations := BuildRelations(chunks, entitiesByChunk)
	p.log.Info("built relations", "count", len(relations))

	return &Result{Chunks: chunks, Entities: entities, Relations: relations}, nil
}

// LoadDocuments reads every path whose extension is allowed. Unsupported
// extensions are skipped, not errors, so directories can be globbed loosely.
func (p *Pipeline) LoadDocuments(paths []string) ([]Document, error) {
	allowed := make(map[string]bool, len(p.config.AllowedFormats))
	for _, format := range p.config.AllowedFormats {
		allowed[strings.ToLower(format)] = true
	}

	var documents []Document
	for _, path := range paths {
		if !allowed[strings.ToLower(filepath.Ext(path))] {
			p.log.Debug("skipping unsupported format", "path", path)
			continue
		}
		raw, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read document %s: %w", path, err)
		}
		documents = append(documents, Document{
			ID:   DocumentID(path),
			Path: path,
			Text: string(raw),
		})
	}
	return documents, nil
}

// ChunkDocument splits a document into overlapping word windows. Chunk IDs
// are deterministic (document ID plus word offset) so re-ingesting the same
// file produces the same IDs and indexing stays idempotent.
func (p *Pipeline) ChunkDocument(doc Document) []types.Chunk {
	words := strings.Fields(doc.Text)
	if len(words) == 0 {
		return nil
	}

	step := p.config.ChunkSize - p.config.ChunkOverlap
	var chunks []types.Chunk
	for start := 0; start < len(words); start += step {
		end := start + p.config.ChunkSize
		if end > len(words) {
			end = len(words)
		}
		chunks = append(chunks, types.Chunk{
			ID:             fmt.Sprintf("chunk_%s_%d", doc.ID, start),
			Text:           strings.Join(words[start:end], " "),
			SourceDocument: doc.ID,
		})
		if end == len(words) {
			break
		}
	}
	return chunks
}

// BuildRelations connects chunks, documents, and entities:
//   - chunk -> document: part_of
//   - entity -> chunk: mentions
//   - entity <-> entity within one chunk: co_occurs, scored 1.0 for distinct
//     labels and 0.5 when the labels match (a weaker self-association signal)
func BuildRelations(chunks []types.Chunk, entitiesByChunk map[string][]types.Entity) []types.Relation {
	var relations []types.Relation

	for _, chunk := range chunks {
		relations = append(relations, types.Relation{
			Head:  chunk.ID,
			Tail:  chunk.SourceDocument,
			Type:  types.RelationPartOf,
			Score: 1.0,
		})

		entities := entitiesByChunk[chunk.ID]
		for _, entity := range entities {
			relations = append(relations, types.Relation{
				Head:  entity.ID,
				Tail:  chunk.ID,
				Type:  types.RelationMentions,
				Score: 1.0,
			})
		}

		for i := 0; i < len(entities); i++ {
			for j := i + 1; j < len(entities); j++ {
				score := 1.0
				if strings.EqualFold(entities[i].Label, entities[j].Label) {
					score = 0.5
				}
				relations = append(relations,
					types.Relation{Head: entities[i].ID, Tail: entities[j].ID, Type: types.RelationCoOccurs, Score: score},
					types.Relation{Head: entities[j].ID, Tail: entities[i].ID, Type: types.RelationCoOccurs, Score: score},
				)
			}
		}
	}

	return relations
}

// DocumentID derives a stable ID from a document path.
func DocumentID(path string) string {
	sum := sha1.Sum([]byte(filepath.Clean(path)))
	base := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	return fmt.Sprintf("doc_%s_%x", sanitize(base), sum[:4])
}

func sanitize(s string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(s) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
		default:
			b.WriteRune('_')
		}
	}
	return b.String()
}
