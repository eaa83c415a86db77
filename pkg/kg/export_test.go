package kg

import (
	"reflect"
	"testing"
	"time"
)

func TestExport(t *testing.T) {
	docs := []Document{
		{ID: "d1", Title: "First", Authors: []string{"Ada", "Grace"}},
		{ID: "d2", Title: "Second"},
		{ID: "d3", Title: "Unselected"},
	}
	combined := &Combined{
		Nodes: []Node{
			{ID: "n1", Label: "a", Type: "Concept"},
			{ID: "n2", Label: "b", Type: "Person"},
			{ID: "n3", Label: "c", Type: "Concept"},
		},
		Relationships: []Relationship{
			{ID: "r1", SourceID: "n1", TargetID: "n2", Type: "RELATED_TO"},
			{ID: "r2", SourceID: "n2", TargetID: "n3", Type: "PART_OF"},
			{ID: "r3", SourceID: "n1", TargetID: "n3", Type: "RELATED_TO"},
		},
	}
	now := time.Date(2025, 6, 1, 12, 30, 0, 0, time.UTC)

	snap := Export(docs, []string{"d1", "d2"}, combined, now)

	if snap.Version != "1.0" {
		t.Errorf("Version = %q", snap.Version)
	}
	if snap.Timestamp != "2025-06-01T12:30:00Z" {
		t.Errorf("Timestamp = %q", snap.Timestamp)
	}

	wantPapers := []PaperMeta{
		{ID: "d1", Title: "First", Authors: []string{"Ada", "Grace"}},
		{ID: "d2", Title: "Second"},
	}
	if !reflect.DeepEqual(snap.Papers, wantPapers) {
		t.Errorf("Papers = %+v, want %+v", snap.Papers, wantPapers)
	}

	if snap.Metadata.TotalNodes != 3 || snap.Metadata.TotalRelationships != 3 {
		t.Errorf("counts = %d nodes / %d relationships",
			snap.Metadata.TotalNodes, snap.Metadata.TotalRelationships)
	}
	// type lists keep first-appearance order, not sorted order
	if !reflect.DeepEqual(snap.Metadata.NodeTypes, []string{"Concept", "Person"}) {
		t.Errorf("NodeTypes = %v", snap.Metadata.NodeTypes)
	}
	if !reflect.DeepEqual(snap.Metadata.RelationshipTypes, []string{"RELATED_TO", "PART_OF"}) {
		t.Errorf("RelationshipTypes = %v", snap.Metadata.RelationshipTypes)
	}
}

func TestExport_TimestampNormalizedToUTC(t *testing.T) {
	loc := time.FixedZone("CEST", 2*60*60)
	now := time.Date(2025, 6, 1, 14, 30, 0, 0, loc)

	snap := Export(nil, nil, &Combined{}, now)
	if snap.Timestamp != "2025-06-01T12:30:00Z" {
		t.Errorf("Timestamp = %q", snap.Timestamp)
	}
}

func TestExport_EmptyGraph(t *testing.T) {
	snap := Export(nil, nil, &Combined{Nodes: []Node{}, Relationships: []Relationship{}}, time.Now())
	if len(snap.Papers) != 0 {
		t.Errorf("Papers = %+v", snap.Papers)
	}
	if snap.Metadata.TotalNodes != 0 || len(snap.Metadata.NodeTypes) != 0 {
		t.Errorf("metadata = %+v", snap.Metadata)
	}
}

func TestExport_DoesNotMutateSource(t *testing.T) {
	combined := &Combined{
		Nodes:         []Node{{ID: "n1", Label: "a", Type: "Concept"}},
		Relationships: []Relationship{},
	}
	before := *combined
	beforeNodes := append([]Node(nil), combined.Nodes...)

	_ = Export(nil, nil, combined, time.Now())

	if !reflect.DeepEqual(combined.Nodes, beforeNodes) || len(combined.Relationships) != len(before.Relationships) {
		t.Error("export mutated its input")
	}
}
