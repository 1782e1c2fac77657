package extract_test

import (
	"context"
	"errors"
	"testing"

	"github.com/quarryhq/graphrag/pkg/extract"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// cannedChat returns a fixed response for any prompt.
type cannedChat struct {
	response string
	err      error
	calls    int
}

func (c *cannedChat) Complete(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	c.calls++
	return c.response, c.err
}

func (c *cannedChat) Close() error { return nil }

func TestExtractCleanJSON(t *testing.T) {
	chat := &cannedChat{response: `[{"label": "Marie Curie", "type": "PERSON"}, {"label": "Sorbonne", "type": "ORG"}]`}
	x := extract.NewLLMExtractor(chat)

	entities, err := x.Extract(context.Background(), "Marie Curie taught at the Sorbonne.")
	require.NoError(t, err)
	require.Len(t, entities, 2)

	assert.Equal(t, "ent_marie_curie", entities[0].ID)
	assert.Equal(t, "Marie Curie", entities[0].Label)
	assert.Equal(t, "PERSON", entities[0].Type)
	assert.Equal(t, "ent_sorbonne", entities[1].ID)
}

func TestExtractWrappedResponse(t *testing.T) {
	chat := &cannedChat{response: `{"entities": [{"name": "Oslo", "type": "LOC"}]}`}
	x := extract.NewLLMExtractor(chat)

	entities, err := x.Extract(context.Background(), "I visited Oslo.")
	require.NoError(t, err)
	require.Len(t, entities, 1)
	assert.Equal(t, "Oslo", entities[0].Label)
}

func TestExtractRepairsSloppyJSON(t *testing.T) {
	// Trailing comma and single quotes, the usual model output problems.
	chat := &cannedChat{response: `[{'label': 'Tesla', 'type': 'ORG'},]`}
	x := extract.NewLLMExtractor(chat)

	entities, err := x.Extract(context.Background(), "Tesla shipped a new model.")
	require.NoError(t, err)
	require.Len(t, entities, 1)
	assert.Equal(t, "Tesla", entities[0].Label)
}

func TestExtractJSONEmbeddedInProse(t *testing.T) {
	chat := &cannedChat{response: "Here are the entities:\n[{\"label\": \"Berlin\", \"type\": \"LOC\"}]\nLet me know if you need more."}
	x := extract.NewLLMExtractor(chat)

	entities, err := x.Extract(context.Background(), "Berlin is the capital of Germany.")
	require.NoError(t, err)
	require.Len(t, entities, 1)
	assert.Equal(t, "Berlin", entities[0].Label)
}

func TestExtractDeduplicatesByID(t *testing.T) {
	chat := &cannedChat{response: `[{"label": "Tesla", "type": "ORG"}, {"label": "tesla", "type": "ORG"}]`}
	x := extract.NewLLMExtractor(chat)

	entities, err := x.Extract(context.Background(), "Tesla, tesla.")
	require.NoError(t, err)
	assert.Len(t, entities, 1, "case variants share an ID and collapse to one entity")
}

func TestExtractEmptyTextSkipsModel(t *testing.T) {
	chat := &cannedChat{response: `[]`}
	x := extract.NewLLMExtractor(chat)

	entities, err := x.Extract(context.Background(), "   ")
	require.NoError(t, err)
	assert.Empty(t, entities)
	assert.Equal(t, 0, chat.calls)
}

func TestExtractPropagatesChatError(t *testing.T) {
	chat := &cannedChat{err: errors.New("model unavailable")}
	x := extract.NewLLMExtractor(chat)

	_, err := x.Extract(context.Background(), "some text")
	require.Error(t, err)
}

func TestEntityID(t *testing.T) {
	tests := []struct {
		label string
		want  string
	}{
		{"Marie Curie", "ent_marie_curie"},
		{"  Tesla  ", "ent_tesla"},
		{"C-3PO", "ent_c_3po"},
		{"Ørsted", "ent__rsted"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, extract.EntityID(tt.label), "label %q", tt.label)
	}
}
