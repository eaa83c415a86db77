package kg

import (
	"math"
	"reflect"
	"testing"
)

func completedDoc(id, title string, graph Graph) Document {
	return Document{
		ID:     id,
		Title:  title,
		Status: StatusCompleted,
		Graph:  &graph,
	}
}

func TestNormalizeLabel(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Apple", "apple"},
		{" apple ", "apple"},
		{"  Neural Network\t", "neural network"},
		{"", ""},
		{"   ", ""},
	}

	for _, tt := range tests {
		if got := NormalizeLabel(tt.in); got != tt.want {
			t.Errorf("NormalizeLabel(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestCombine_FirstOccurrenceWins(t *testing.T) {
	docs := []Document{
		completedDoc("d1", "Paper One", Graph{
			Nodes: []Node{
				{ID: "n1", Label: "Apple", Type: "Concept", SourcePassages: []Passage{{Text: "a"}}},
			},
		}),
		completedDoc("d2", "Paper Two", Graph{
			Nodes: []Node{
				{ID: "n2", Label: " apple ", Type: "Fruit", SourcePassages: []Passage{{Text: "b"}}},
			},
		}),
	}

	combined, stats, err := Combine(docs, []string{"d1", "d2"})
	if err != nil {
		t.Fatalf("Combine() error = %v", err)
	}
	if stats.UnlabeledNodes != 0 {
		t.Errorf("UnlabeledNodes = %d, want 0", stats.UnlabeledNodes)
	}
	if len(combined.Nodes) != 1 {
		t.Fatalf("got %d nodes, want 1", len(combined.Nodes))
	}

	primary := combined.Nodes[0]
	if primary.ID != "n1" || primary.Label != "Apple" || primary.Type != "Concept" {
		t.Errorf("primary = %+v, want first occurrence from d1", primary)
	}
	wantPassages := []Passage{{Text: "a"}, {Text: "b"}}
	if !reflect.DeepEqual(primary.SourcePassages, wantPassages) {
		t.Errorf("SourcePassages = %+v, want %+v", primary.SourcePassages, wantPassages)
	}
	wantPapers := []string{"Paper One", "Paper Two"}
	if !reflect.DeepEqual(primary.Papers, wantPapers) {
		t.Errorf("Papers = %+v, want %+v", primary.Papers, wantPapers)
	}
}

func TestCombine_SelectionOrderDecidesPrimary(t *testing.T) {
	docs := []Document{
		completedDoc("d1", "Paper One", Graph{
			Nodes: []Node{{ID: "n1", Label: "apple"}},
		}),
		completedDoc("d2", "Paper Two", Graph{
			Nodes: []Node{{ID: "n2", Label: "apple"}},
		}),
	}

	combined, _, err := Combine(docs, []string{"d2", "d1"})
	if err != nil {
		t.Fatalf("Combine() error = %v", err)
	}
	if combined.Nodes[0].ID != "n2" {
		t.Errorf("primary = %s, want n2 when d2 is selected first", combined.Nodes[0].ID)
	}
}

func TestCombine_SkipsIncompleteDocuments(t *testing.T) {
	docs := []Document{
		completedDoc("d1", "Done", Graph{Nodes: []Node{{ID: "n1", Label: "x"}}}),
		{ID: "d2", Title: "Processing", Status: StatusProcessing, Graph: &Graph{
			Nodes: []Node{{ID: "n2", Label: "y"}},
		}},
		{ID: "d3", Title: "No graph", Status: StatusCompleted},
	}

	combined, _, err := Combine(docs, []string{"d1", "d2", "d3", "d4"})
	if err != nil {
		t.Fatalf("Combine() error = %v", err)
	}
	if len(combined.Nodes) != 1 || combined.Nodes[0].ID != "n1" {
		t.Errorf("nodes = %+v, want only n1", combined.Nodes)
	}
}

func TestCombine_DropsUnlabeledNodes(t *testing.T) {
	docs := []Document{
		completedDoc("d1", "Paper", Graph{
			Nodes: []Node{
				{ID: "n1", Label: "kept"},
				{ID: "n2", Label: ""},
				{ID: "n3", Label: "   "},
			},
		}),
	}

	combined, stats, err := Combine(docs, []string{"d1"})
	if err != nil {
		t.Fatalf("Combine() error = %v", err)
	}
	if stats.UnlabeledNodes != 2 {
		t.Errorf("UnlabeledNodes = %d, want 2", stats.UnlabeledNodes)
	}
	if len(combined.Nodes) != 1 {
		t.Errorf("got %d nodes, want 1", len(combined.Nodes))
	}
}

func TestCombine_RelationshipsNeverDeduplicated(t *testing.T) {
	rel := Relationship{ID: "r1", SourceID: "n1", TargetID: "n2", Type: "RELATED_TO"}
	docs := []Document{
		completedDoc("d1", "One", Graph{
			Nodes:         []Node{{ID: "n1", Label: "a"}, {ID: "n2", Label: "b"}},
			Relationships: []Relationship{rel},
		}),
		completedDoc("d2", "Two", Graph{
			Nodes:         []Node{{ID: "n1", Label: "a"}, {ID: "n2", Label: "b"}},
			Relationships: []Relationship{rel},
		}),
	}

	combined, _, err := Combine(docs, []string{"d1", "d2"})
	if err != nil {
		t.Fatalf("Combine() error = %v", err)
	}
	if len(combined.Relationships) != 2 {
		t.Fatalf("got %d relationships, want 2", len(combined.Relationships))
	}
	if combined.Relationships[0].PaperID != "d1" || combined.Relationships[1].PaperID != "d2" {
		t.Errorf("provenance tags wrong: %+v", combined.Relationships)
	}
	// endpoints stay untouched even though the label-identical nodes folded
	for _, r := range combined.Relationships {
		if r.SourceID != "n1" || r.TargetID != "n2" {
			t.Errorf("endpoints rewritten during combine: %+v", r)
		}
	}
}

func TestCombine_MissingEndpointFails(t *testing.T) {
	docs := []Document{
		completedDoc("d1", "Bad", Graph{
			Nodes:         []Node{{ID: "n1", Label: "a"}},
			Relationships: []Relationship{{ID: "r1", SourceID: "n1", TargetID: ""}},
		}),
	}

	if _, _, err := Combine(docs, []string{"d1"}); err == nil {
		t.Fatal("Combine() expected error for relationship without target")
	}
}

func TestCombine_GeneratesFallbackIDs(t *testing.T) {
	docs := []Document{
		completedDoc("d1", "Paper", Graph{
			Nodes:         []Node{{Label: "a"}, {Label: "b"}},
			Relationships: []Relationship{{SourceID: "x", TargetID: "y"}},
		}),
	}

	combined, _, err := Combine(docs, []string{"d1"})
	if err != nil {
		t.Fatalf("Combine() error = %v", err)
	}
	if combined.Nodes[0].ID != "node-d1-0" || combined.Nodes[1].ID != "node-d1-1" {
		t.Errorf("node ids = %s, %s", combined.Nodes[0].ID, combined.Nodes[1].ID)
	}
	if combined.Relationships[0].ID != "rel-d1-0" {
		t.Errorf("rel id = %s", combined.Relationships[0].ID)
	}
}

func TestCombine_Layout(t *testing.T) {
	docs := []Document{
		completedDoc("d1", "Paper", Graph{
			Nodes: []Node{
				{ID: "n1", Label: "a"},
				{ID: "n2", Label: "b"},
				{ID: "n3", Label: "c"},
				{ID: "n4", Label: "d"},
			},
		}),
	}

	combined, _, err := Combine(docs, []string{"d1"})
	if err != nil {
		t.Fatalf("Combine() error = %v", err)
	}

	// node i of n sits at angle 2*pi*i/n on a circle of radius 180 around
	// (700, 300)
	n := len(combined.Nodes)
	for i, node := range combined.Nodes {
		angle := 2 * math.Pi * float64(i) / float64(n)
		wantX := 700 + 180*math.Cos(angle)
		wantY := 300 + 180*math.Sin(angle)
		if math.Abs(node.X-wantX) > 1e-9 || math.Abs(node.Y-wantY) > 1e-9 {
			t.Errorf("node %d at (%v, %v), want (%v, %v)", i, node.X, node.Y, wantX, wantY)
		}
	}
}

func TestCombine_Idempotent(t *testing.T) {
	docs := []Document{
		completedDoc("d1", "One", Graph{
			Nodes:         []Node{{ID: "n1", Label: "Apple", SourcePassages: []Passage{{Text: "a"}}}},
			Relationships: []Relationship{{ID: "r1", SourceID: "n1", TargetID: "n1"}},
		}),
		completedDoc("d2", "Two", Graph{
			Nodes: []Node{{ID: "n2", Label: "apple", SourcePassages: []Passage{{Text: "b"}}}},
		}),
	}
	ids := []string{"d1", "d2"}

	first, _, err := Combine(docs, ids)
	if err != nil {
		t.Fatalf("Combine() error = %v", err)
	}
	second, _, err := Combine(docs, ids)
	if err != nil {
		t.Fatalf("Combine() error = %v", err)
	}
	if !reflect.DeepEqual(first, second) {
		t.Error("Combine is not deterministic for identical input")
	}
}

func TestCombine_DoesNotMutateInput(t *testing.T) {
	docs := []Document{
		completedDoc("d1", "One", Graph{
			Nodes: []Node{{ID: "n1", Label: "Apple"}},
		}),
	}

	if _, _, err := Combine(docs, []string{"d1"}); err != nil {
		t.Fatalf("Combine() error = %v", err)
	}

	orig := docs[0].Graph.Nodes[0]
	if orig.X != 0 || orig.Y != 0 || orig.PaperID != "" || orig.Papers != nil {
		t.Errorf("input document mutated: %+v", orig)
	}
}
