package ingest_test

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/quarryhq/graphrag/pkg/config"
	"github.com/quarryhq/graphrag/pkg/ingest"
	"github.com/quarryhq/graphrag/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// wordExtractor returns one entity per configured keyword found in the text.
type wordExtractor struct {
	keywords map[string]string // label -> type
	calls    int
}

func (w *wordExtractor) Extract(ctx context.Context, text string) ([]types.Entity, error) {
	w.calls++
	lower := strings.ToLower(text)
	var out []types.Entity
	for label, entityType := range w.keywords {
		if strings.Contains(lower, strings.ToLower(label)) {
			out = append(out, types.Entity{
				ID:    "ent_" + strings.ToLower(label),
				Label: label,
				Type:  entityType,
			})
		}
	}
	return out, nil
}

type failingExtractor struct{}

func (failingExtractor) Extract(ctx context.Context, text string) ([]types.Entity, error) {
	return nil, fmt.Errorf("extractor down")
}

func testConfig() config.IngestionConfig {
	return config.IngestionConfig{
		ChunkSize:      500,
		ChunkOverlap:   50,
		AllowedFormats: []string{".txt", ".md"},
	}
}

func words(n int) string {
	parts := make([]string, n)
	for i := range parts {
		parts[i] = fmt.Sprintf("w%d", i)
	}
	return strings.Join(parts, " ")
}

func TestChunkDocumentWindows(t *testing.T) {
	cfg := testConfig()
	cfg.ChunkSize = 10
	cfg.ChunkOverlap = 2
	p := ingest.New(cfg, nil, nil)

	doc := ingest.Document{ID: "doc_test_00000000", Text: words(25)}
	chunks := p.ChunkDocument(doc)

	// Step is 8; the window starting at 16 reaches the final word, so the
	// windows start at 0, 8, and 16.
	require.Len(t, chunks, 3)
	assert.Equal(t, "chunk_doc_test_00000000_0", chunks[0].ID)
	assert.Equal(t, "chunk_doc_test_00000000_8", chunks[1].ID)
	assert.Equal(t, "chunk_doc_test_00000000_16", chunks[2].ID)

	first := strings.Fields(chunks[0].Text)
	second := strings.Fields(chunks[1].Text)
	last := strings.Fields(chunks[2].Text)
	assert.Len(t, first, 10)
	assert.Equal(t, first[8:], second[:2], "consecutive windows overlap by two words")
	assert.Len(t, last, 9)
	assert.Equal(t, "w24", last[len(last)-1])

	for _, c := range chunks {
		assert.Equal(t, doc.ID, c.SourceDocument)
	}
}

func TestChunkDocumentShortAndEmpty(t *testing.T) {
	p := ingest.New(testConfig(), nil, nil)

	short := p.ChunkDocument(ingest.Document{ID: "doc_x", Text: "just a few words"})
	require.Len(t, short, 1)
	assert.Equal(t, "just a few words", short[0].Text)

	assert.Empty(t, p.ChunkDocument(ingest.Document{ID: "doc_y", Text: "   \n\t "}))
}

func TestChunkIDsAreDeterministic(t *testing.T) {
	p := ingest.New(testConfig(), nil, nil)
	doc := ingest.Document{ID: "doc_stable_abcd1234", Text: words(1200)}

	first := p.ChunkDocument(doc)
	second := p.ChunkDocument(doc)
	require.Equal(t, len(first), len(second))
	for i := range first {
		assert.Equal(t, first[i].ID, second[i].ID)
	}
}

func TestBuildRelations(t *testing.T) {
	chunks := []types.Chunk{
		{ID: "chunk_1", Text: "a", SourceDocument: "doc_1"},
	}
	entities := map[string][]types.Entity{
		"chunk_1": {
			{ID: "ent_tesla", Label: "Tesla", Type: "ORG"},
			{ID: "ent_berlin", Label: "Berlin", Type: "LOC"},
		},
	}

	relations := ingest.BuildRelations(chunks, entities)

	byType := make(map[string][]types.Relation)
	for _, r := range relations {
		byType[r.Type] = append(byType[r.Type], r)
	}

	require.Len(t, byType[types.RelationPartOf], 1)
	assert.Equal(t, "chunk_1", byType[types.RelationPartOf][0].Head)
	assert.Equal(t, "doc_1", byType[types.RelationPartOf][0].Tail)

	require.Len(t, byType[types.RelationMentions], 2)
	for _, r := range byType[types.RelationMentions] {
		assert.Equal(t, "chunk_1", r.Tail)
	}

	// One pair, linked in both directions.
	require.Len(t, byType[types.RelationCoOccurs], 2)
	assert.Equal(t, 1.0, byType[types.RelationCoOccurs][0].Score)
	assert.Equal(t, byType[types.RelationCoOccurs][0].Head, byType[types.RelationCoOccurs][1].Tail)
}

func TestBuildRelationsSameLabelScoresHalf(t *testing.T) {
	chunks := []types.Chunk{{ID: "chunk_1", SourceDocument: "doc_1"}}
	entities := map[string][]types.Entity{
		"chunk_1": {
			{ID: "ent_apple_org", Label: "Apple", Type: "ORG"},
			{ID: "ent_apple_product", Label: "apple", Type: "PRODUCT"},
		},
	}

	relations := ingest.BuildRelations(chunks, entities)
	for _, r := range relations {
		if r.Type == types.RelationCoOccurs {
			assert.Equal(t, 0.5, r.Score)
		}
	}
}

func TestLoadDocumentsSkipsUnsupportedFormats(t *testing.T) {
	dir := t.TempDir()
	txt := filepath.Join(dir, "notes.txt")
	pdf := filepath.Join(dir, "report.pdf")
	require.NoError(t, os.WriteFile(txt, []byte("hello world"), 0o644))
	require.NoError(t, os.WriteFile(pdf, []byte("%PDF"), 0o644))

	p := ingest.New(testConfig(), nil, nil)
	docs, err := p.LoadDocuments([]string{txt, pdf})
	require.NoError(t, err)
	require.Len(t, docs, 1)
	assert.Equal(t, "hello world", docs[0].Text)
	assert.True(t, strings.HasPrefix(docs[0].ID, "doc_notes_"))
}

func TestLoadDocumentsMissingFile(t *testing.T) {
	p := ingest.New(testConfig(), nil, nil)
	_, err := p.LoadDocuments([]string{filepath.Join(t.TempDir(), "absent.txt")})
	require.Error(t, err)
}

func TestIngestEndToEnd(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "physics.md")
	text := "Marie Curie studied radioactivity in Paris. " + words(20)
	require.NoError(t, os.WriteFile(path, []byte(text), 0o644))

	extractor := &wordExtractor{keywords: map[string]string{
		"Marie Curie": "PERSON",
		"Paris":       "LOC",
	}}
	p := ingest.New(testConfig(), extractor, nil)

	result, err := p.Ingest(context.Background(), []string{path})
	require.NoError(t, err)

	require.Len(t, result.Chunks, 1)
	assert.Equal(t, 1, extractor.calls)
	assert.Len(t, result.Entities, 2)

	var mentions, coOccurs, partOf int
	for _, r := range result.Relations {
		switch r.Type {
		case types.RelationMentions:
			mentions++
		case types.RelationCoOccurs:
			coOccurs++
		case types.RelationPartOf:
			partOf++
		}
	}
	assert.Equal(t, 1, partOf)
	assert.Equal(t, 2, mentions)
	assert.Equal(t, 2, coOccurs)
}

func TestIngestDeduplicatesEntitiesAcrossChunks(t *testing.T) {
	cfg := testConfig()
	cfg.ChunkSize = 10
	cfg.ChunkOverlap = 0

	dir := t.TempDir()
	path := filepath.Join(dir, "tesla.txt")
	// Two chunks, both mentioning Tesla.
	text := "Tesla " + words(9) + " Tesla " + words(8)
	require.NoError(t, os.WriteFile(path, []byte(text), 0o644))

	extractor := &wordExtractor{keywords: map[string]string{"Tesla": "ORG"}}
	p := ingest.New(cfg, extractor, nil)

	result, err := p.Ingest(context.Background(), []string{path})
	require.NoError(t, err)
	require.Len(t, result.Chunks, 2)
	assert.Len(t, result.Entities, 1, "same entity in two chunks is stored once")

	var mentions int
	for _, r := range result.Relations {
		if r.Type == types.RelationMentions {
			mentions++
		}
	}
	assert.Equal(t, 2, mentions, "but it mentions both chunks")
}

func TestIngestExtractorFailure(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "doc.txt")
	require.NoError(t, os.WriteFile(path, []byte("some text"), 0o644))

	p := ingest.New(testConfig(), failingExtractor{}, nil)
	_, err := p.Ingest(context.Background(), []string{path})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "entity extraction failed")
}

func TestIngestNoUsableDocuments(t *testing.T) {
	p := ingest.New(testConfig(), failingExtractor{}, nil)
	_, err := p.Ingest(context.Background(), []string{"slides.pptx"})
	require.Error(t, err)
}

func TestDocumentID(t *testing.T) {
	a := ingest.DocumentID("/data/notes.txt")
	b := ingest.DocumentID("/data/notes.txt")
	c := ingest.DocumentID("/other/notes.txt")

	assert.Equal(t, a, b)
	assert.NotEqual(t, a, c, "same basename under different paths gets a different ID")
	assert.True(t, strings.HasPrefix(a, "doc_notes_"))
}
