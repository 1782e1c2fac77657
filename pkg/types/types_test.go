package types_test

import (
	"encoding/json"
	"testing"

	"github.com/quarryhq/graphrag/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChunkJSONRoundTrip(t *testing.T) {
	chunk := types.Chunk{
		ID:             "chunk_doc1_0",
		Text:           "The quick brown fox jumps over the lazy dog.",
		SourceDocument: "doc1",
	}

	data, err := json.Marshal(chunk)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"source_document":"doc1"`)

	var decoded types.Chunk
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, chunk, decoded)
}

func TestRetrievalResultZeroValue(t *testing.T) {
	// A zero RetrievalResult is a valid "nothing found" result, not an error
	// condition. Handlers serialize it directly.
	var result types.RetrievalResult
	assert.Empty(t, result.Semantic)
	assert.Empty(t, result.Graph)
	assert.Empty(t, result.Merged)
}

func TestRelationTypeConstants(t *testing.T) {
	assert.Equal(t, "part_of", types.RelationPartOf)
	assert.Equal(t, "mentions", types.RelationMentions)
	assert.Equal(t, "co_occurs", types.RelationCoOccurs)
}
