package extract

import (
	"fmt"

	"github.com/corpora-lab/papergraph/pkg/kg"
)

// SchemaPreset names a built-in extraction schema. The preset constrains
// which node labels and relationship types the model may produce.
type SchemaPreset string

const (
	PresetGeneral  SchemaPreset = "general"
	PresetResearch SchemaPreset = "research"
	PresetBusiness SchemaPreset = "business"
)

// SchemaConfig is the node/relationship vocabulary handed to the model.
type SchemaConfig struct {
	NodeLabels        []string `json:"node_labels"`
	RelationshipTypes []string `json:"relationship_types"`
}

var presets = map[SchemaPreset]SchemaConfig{
	PresetGeneral: {
		NodeLabels:        []string{"Person", "Organization", "Location", "Concept", "Event"},
		RelationshipTypes: []string{"RELATED_TO", "PART_OF", "LOCATED_IN", "PARTICIPATED_IN"},
	},
	PresetResearch: {
		NodeLabels:        []string{"Author", "Method", "Dataset", "Algorithm", "Concept", "Metric"},
		RelationshipTypes: []string{"AUTHORED_BY", "USES_METHOD", "EVALUATES_ON", "RELATED_TO"},
	},
	PresetBusiness: {
		NodeLabels:        []string{"Company", "Person", "Product", "Market", "Technology"},
		RelationshipTypes: []string{"WORKS_FOR", "COMPETES_WITH", "PRODUCES", "PARTNERS_WITH"},
	},
}

// ParsePreset resolves a preset name, defaulting to the general schema for
// the empty string.
func ParsePreset(name string) (SchemaPreset, error) {
	if name == "" {
		return PresetGeneral, nil
	}
	p := SchemaPreset(name)
	if _, ok := presets[p]; !ok {
		return "", &kg.ValidationError{
			Op:     "parse schema preset",
			Reason: fmt.Sprintf("unknown preset %q", name),
		}
	}
	return p, nil
}

// Config returns the vocabulary of a preset.
func (p SchemaPreset) Config() SchemaConfig {
	cfg, ok := presets[p]
	if !ok {
		return presets[PresetGeneral]
	}
	return cfg
}
