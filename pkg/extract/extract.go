// Package extract turns raw document text into structured metadata and a
// knowledge graph by prompting an LLM with schema-constrained output.
package extract

import (
	"context"
	"fmt"
	"strings"

	gonanoid "github.com/matoous/go-nanoid/v2"
	"github.com/pkoukk/tiktoken-go"
	orderedmap "github.com/wk8/go-ordered-map/v2"

	"github.com/corpora-lab/papergraph/pkg/ai"
	"github.com/corpora-lab/papergraph/pkg/kg"
	"github.com/corpora-lab/papergraph/pkg/logger"
)

// maxPromptTokens bounds the document text handed to the model, leaving the
// rest of the context window for the schema and the answer.
const maxPromptTokens = 24000

// Extractor runs LLM extraction over document text.
type Extractor struct {
	ai ai.Client
}

func New(client ai.Client) *Extractor {
	return &Extractor{ai: client}
}

// graphFormat mirrors the structure the model is asked to produce. IDs are
// model-assigned and only need to be unique within one document.
type graphFormat struct {
	Nodes []struct {
		ID             string         `json:"id"`
		Label          string         `json:"label"`
		Type           string         `json:"type"`
		Properties     map[string]any `json:"properties,omitempty"`
		SourcePassages []kg.Passage   `json:"source_passages,omitempty"`
		Confidence     float64        `json:"confidence,omitempty"`
	} `json:"nodes"`
	Relationships []struct {
		ID             string         `json:"id"`
		SourceID       string         `json:"source_id"`
		TargetID       string         `json:"target_id"`
		Type           string         `json:"type"`
		Properties     map[string]any `json:"properties,omitempty"`
		SourcePassages []kg.Passage   `json:"source_passages,omitempty"`
		Confidence     float64        `json:"confidence,omitempty"`
	} `json:"relationships"`
}

// ExtractGraph prompts the model for a knowledge graph over text using the
// given schema preset. Nodes without a usable ID get a generated one, and
// relationships pointing at unknown nodes are dropped with a warning.
func (e *Extractor) ExtractGraph(ctx context.Context, text string, preset SchemaPreset, opts ...ai.GenerateOption) (*kg.Graph, error) {
	if strings.TrimSpace(text) == "" {
		return nil, &kg.ValidationError{Op: "extract graph", Reason: "document text must not be empty"}
	}

	cfg := preset.Config()
	prompt := fmt.Sprintf(
		ai.ExtractGraphPrompt,
		truncateTokens(text, maxPromptTokens),
		strings.Join(cfg.NodeLabels, ", "),
		strings.Join(cfg.RelationshipTypes, ", "),
	)

	var out graphFormat
	err := e.ai.GenerateCompletionWithFormat(
		ctx,
		"knowledge_graph",
		"Entities and relationships extracted from a research document",
		prompt,
		&out,
		opts...,
	)
	if err != nil {
		return nil, fmt.Errorf("graph extraction failed: %w", err)
	}

	graph := &kg.Graph{}
	known := make(map[string]struct{}, len(out.Nodes))

	for i, n := range out.Nodes {
		if strings.TrimSpace(n.Label) == "" {
			continue
		}
		id := n.ID
		if id == "" {
			id = newID(i)
		}
		known[id] = struct{}{}
		graph.Nodes = append(graph.Nodes, kg.Node{
			ID:             id,
			Label:          n.Label,
			Type:           n.Type,
			Confidence:     n.Confidence,
			SourcePassages: n.SourcePassages,
			Properties:     toProperties(n.Properties),
		})
	}

	dropped := 0
	for i, r := range out.Relationships {
		if _, ok := known[r.SourceID]; !ok {
			dropped++
			continue
		}
		if _, ok := known[r.TargetID]; !ok {
			dropped++
			continue
		}
		id := r.ID
		if id == "" {
			id = newID(i)
		}
		graph.Relationships = append(graph.Relationships, kg.Relationship{
			ID:             id,
			SourceID:       r.SourceID,
			TargetID:       r.TargetID,
			Type:           r.Type,
			Confidence:     r.Confidence,
			SourcePassages: r.SourcePassages,
			Properties:     toProperties(r.Properties),
		})
	}
	if dropped > 0 {
		logger.Warn("[Extract] Dropped relationships with unknown endpoints", "count", dropped)
	}

	return graph, nil
}

// ExtractMetadata prompts the model for the bibliographic metadata of text.
func (e *Extractor) ExtractMetadata(ctx context.Context, text string, opts ...ai.GenerateOption) (*kg.ExtractedContent, error) {
	if strings.TrimSpace(text) == "" {
		return nil, &kg.ValidationError{Op: "extract metadata", Reason: "document text must not be empty"}
	}

	var out kg.ExtractedContent
	err := e.ai.GenerateCompletionWithFormat(
		ctx,
		"document_metadata",
		"Bibliographic metadata of a research document",
		fmt.Sprintf(ai.ExtractMetadataPrompt, truncateTokens(text, maxPromptTokens)),
		&out,
		opts...,
	)
	if err != nil {
		return nil, fmt.Errorf("metadata extraction failed: %w", err)
	}
	return &out, nil
}

func newID(i int) string {
	id, err := gonanoid.New()
	if err != nil {
		return fmt.Sprintf("node-%d", i)
	}
	return id
}

func toProperties(m map[string]any) *kg.Properties {
	if len(m) == 0 {
		return nil
	}
	props := orderedmap.New[string, any]()
	for k, v := range m {
		props.Set(k, v)
	}
	return props
}

// truncateTokens cuts text to at most limit tokens. When the tokenizer is
// unavailable it falls back to a rough 4-characters-per-token estimate.
func truncateTokens(text string, limit int) string {
	enc, err := tiktoken.GetEncoding("o200k_base")
	if err != nil {
		if len(text) > limit*4 {
			return text[:limit*4]
		}
		return text
	}

	tokens := enc.Encode(text, nil, nil)
	if len(tokens) <= limit {
		return text
	}
	return enc.Decode(tokens[:limit])
}
