package extract

import (
	"errors"
	"reflect"
	"testing"

	"github.com/corpora-lab/papergraph/pkg/kg"
)

func TestParsePreset(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want SchemaPreset
	}{
		{"empty defaults to general", "", PresetGeneral},
		{"general", "general", PresetGeneral},
		{"research", "research", PresetResearch},
		{"business", "business", PresetBusiness},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParsePreset(tt.in)
			if err != nil {
				t.Fatalf("ParsePreset(%q): %v", tt.in, err)
			}
			if got != tt.want {
				t.Errorf("ParsePreset(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestParsePreset_Unknown(t *testing.T) {
	_, err := ParsePreset("medical")
	var verr *kg.ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("err = %v, want ValidationError", err)
	}
}

func TestConfig(t *testing.T) {
	cfg := PresetResearch.Config()
	if !reflect.DeepEqual(cfg.NodeLabels, []string{"Author", "Method", "Dataset", "Algorithm", "Concept", "Metric"}) {
		t.Errorf("NodeLabels = %v", cfg.NodeLabels)
	}
	if !reflect.DeepEqual(cfg.RelationshipTypes, []string{"AUTHORED_BY", "USES_METHOD", "EVALUATES_ON", "RELATED_TO"}) {
		t.Errorf("RelationshipTypes = %v", cfg.RelationshipTypes)
	}
}

func TestConfig_UnknownFallsBackToGeneral(t *testing.T) {
	if !reflect.DeepEqual(SchemaPreset("bogus").Config(), PresetGeneral.Config()) {
		t.Error("unknown preset should fall back to the general vocabulary")
	}
}
