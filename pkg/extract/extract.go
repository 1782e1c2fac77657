// Package extract pulls named entities out of text with an LLM. The
// extraction prompt asks for strict JSON, but models drift, so responses run
// through jsonrepair and a couple of fallback parsing strategies before
// giving up.
package extract

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	jsonrepair "github.com/kaptinlin/jsonrepair"
	"github.com/quarryhq/graphrag/pkg/llm"
	"github.com/quarryhq/graphrag/pkg/types"
)

// Extractor is the contract consumed by ingestion and query handling.
type Extractor interface {
	Extract(ctx context.Context, text string) ([]types.Entity, error)
}

const systemPrompt = `You are a named entity recognition system.
Extract the named entities (people, organizations, locations, products, events, concepts) from the user's text.
Respond with a JSON array only, no prose. Each element must be an object with fields "label" (the entity surface form) and "type" (PERSON, ORG, LOC, PRODUCT, EVENT, or CONCEPT).`

// LLMExtractor extracts entities via a chat model.
type LLMExtractor struct {
	chat llm.Client
}

// NewLLMExtractor creates an Extractor backed by the given chat client.
func NewLLMExtractor(chat llm.Client) *LLMExtractor {
	return &LLMExtractor{chat: chat}
}

// extractedEntity tolerates the field names different models like to use.
type extractedEntity struct {
	Label  string `json:"label"`
	Name   string `json:"name"`
	Entity string `json:"entity"`
	Type   string `json:"type"`
}

func (e *extractedEntity) label() string {
	if e.Label != "" {
		return e.Label
	}
	if e.Name != "" {
		return e.Name
	}
	return e.Entity
}

type wrappedEntities struct {
	Entities          []extractedEntity `json:"entities"`
	ExtractedEntities []extractedEntity `json:"extracted_entities"`
}

func (w *wrappedEntities) list() []extractedEntity {
	if len(w.Entities) > 0 {
		return w.Entities
	}
	return w.ExtractedEntities
}

// Extract asks the model for entities in text and parses the response.
func (x *LLMExtractor) Extract(ctx context.Context, text string) ([]types.Entity, error) {
	if strings.TrimSpace(text) == "" {
		return nil, nil
	}

	response, err := x.chat.Complete(ctx, systemPrompt, text)
	if err != nil {
		return nil, fmt.Errorf("entity extraction failed: %w", err)
	}

	raw, err := parseEntityResponse(response)
	if err != nil {
		return nil, err
	}

	entities := make([]types.Entity, 0, len(raw))
	seen := make(map[string]bool, len(raw))
	for _, e := range raw {
		label := strings.TrimSpace(e.label())
		if label == "" {
			continue
		}
		id := EntityID(label)
		if seen[id] {
			continue
		}
		seen[id] = true
		entityType := e.Type
		if entityType == "" {
			entityType = "CONCEPT"
		}
		entities = append(entities, types.Entity{ID: id, Label: label, Type: entityType})
	}
	return entities, nil
}

// parseEntityResponse decodes a model response into raw entity records. It
// repairs malformed JSON first, then tries a direct array, a wrapped object,
// and finally the outermost bracketed region of the text.
func parseEntityResponse(response string) ([]extractedEntity, error) {
	repaired, err := jsonrepair.JSONRepair(response)
	if err != nil {
		repaired = response
	}

	var list []extractedEntity
	if err := json.Unmarshal([]byte(repaired), &list); err == nil {
		return list, nil
	}

	var wrapped wrappedEntities
	if err := json.Unmarshal([]byte(repaired), &wrapped); err == nil && len(wrapped.list()) > 0 {
		return wrapped.list(), nil
	}

	start := strings.Index(repaired, "[")
	end := strings.LastIndex(repaired, "]")
	if start != -1 && end > start {
		if err := json.Unmarshal([]byte(repaired[start:end+1]), &list); err == nil {
			return list, nil
		}
	}

	return nil, fmt.Errorf("could not parse entity response: %q", truncate(response, 120))
}

// EntityID derives a stable node ID from an entity label, so the same
// real-world entity extracted from different chunks (or from a query) lands
// on the same graph node.
func EntityID(label string) string {
	slug := strings.ToLower(strings.TrimSpace(label))
	var b strings.Builder
	for _, r := range slug {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
		default:
			b.WriteRune('_')
		}
	}
	return "ent_" + b.String()
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
