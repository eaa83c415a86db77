package kg

import (
	"errors"
	"reflect"
	"testing"
)

func TestPlanMerge_SingleDocument(t *testing.T) {
	docs := []Document{
		completedDoc("d1", "Paper", Graph{
			Nodes: []Node{
				{ID: "n1", Label: "Apple", SourcePassages: []Passage{{Text: "a"}}},
				{ID: "n2", Label: "apple", SourcePassages: []Passage{{Text: "b"}, {Text: "c"}}},
				{ID: "n3", Label: "Banana"},
			},
			Relationships: []Relationship{
				{ID: "r1", SourceID: "n2", TargetID: "n3"},
				{ID: "r2", SourceID: "n3", TargetID: "n1"},
			},
		}),
	}
	selection := []string{"d1"}
	group := DuplicateGroups(TagNodes(docs, selection))[0]
	edges := TagRelationships(docs, selection)

	plan, err := PlanMerge(group, docs, edges, PolicyFirstOccurrence)
	if err != nil {
		t.Fatalf("PlanMerge() error = %v", err)
	}

	if plan.Primary.ID != "n1" {
		t.Errorf("primary = %s, want n1", plan.Primary.ID)
	}
	if !reflect.DeepEqual(plan.RemovedIDs, []string{"n2"}) {
		t.Errorf("RemovedIDs = %v, want [n2]", plan.RemovedIDs)
	}

	// passage count is the sum over the group, concatenated in group order
	wantPassages := []Passage{{Text: "a"}, {Text: "b"}, {Text: "c"}}
	if !reflect.DeepEqual(plan.Primary.SourcePassages, wantPassages) {
		t.Errorf("primary passages = %+v, want %+v", plan.Primary.SourcePassages, wantPassages)
	}

	if len(plan.Updates) != 1 || plan.Updates[0].DocumentID != "d1" {
		t.Fatalf("updates = %+v, want one for d1", plan.Updates)
	}
	next := plan.Updates[0].Graph
	if len(next.Nodes) != 2 {
		t.Fatalf("got %d nodes after merge, want 2", len(next.Nodes))
	}
	for _, node := range next.Nodes {
		if node.ID == "n2" {
			t.Error("removed node n2 still present")
		}
		if node.ID == "n1" && !reflect.DeepEqual(node.SourcePassages, wantPassages) {
			t.Errorf("stored primary passages = %+v", node.SourcePassages)
		}
	}

	// r1's source pointed at the removed node and must now reach the primary
	for _, rel := range next.Relationships {
		if rel.SourceID == "n2" || rel.TargetID == "n2" {
			t.Errorf("dangling edge after merge: %+v", rel)
		}
	}
	if next.Relationships[0].SourceID != "n1" {
		t.Errorf("r1 source = %s, want n1", next.Relationships[0].SourceID)
	}
	if next.Relationships[1].TargetID != "n1" {
		t.Errorf("r2 target = %s, want n1", next.Relationships[1].TargetID)
	}
}

func TestPlanMerge_CrossDocument(t *testing.T) {
	docs := []Document{
		completedDoc("d1", "One", Graph{
			Nodes: []Node{
				{ID: "a1", Label: "CRISPR", SourcePassages: []Passage{{Text: "p1"}}},
				{ID: "a2", Label: "Gene"},
			},
			Relationships: []Relationship{{ID: "r1", SourceID: "a1", TargetID: "a2"}},
		}),
		completedDoc("d2", "Two", Graph{
			Nodes: []Node{
				{ID: "b1", Label: "crispr ", SourcePassages: []Passage{{Text: "p2"}}},
				{ID: "b2", Label: "Cell"},
			},
			Relationships: []Relationship{{ID: "r2", SourceID: "b1", TargetID: "b2"}},
		}),
	}
	selection := []string{"d1", "d2"}
	group := DuplicateGroups(TagNodes(docs, selection))[0]
	edges := TagRelationships(docs, selection)

	plan, err := PlanMerge(group, docs, edges, PolicyFirstOccurrence)
	if err != nil {
		t.Fatalf("PlanMerge() error = %v", err)
	}

	if plan.Primary.ID != "a1" || plan.Primary.PaperID != "d1" {
		t.Errorf("primary = %+v, want a1 from d1", plan.Primary)
	}
	if len(plan.Updates) != 2 {
		t.Fatalf("got %d updates, want one per affected document", len(plan.Updates))
	}

	byDoc := map[string]Graph{}
	for _, u := range plan.Updates {
		byDoc[u.DocumentID] = u.Graph
	}

	// d1 keeps its node with the concatenated passages
	d1 := byDoc["d1"]
	if len(d1.Nodes) != 2 {
		t.Errorf("d1 nodes = %d, want 2", len(d1.Nodes))
	}
	wantPassages := []Passage{{Text: "p1"}, {Text: "p2"}}
	if !reflect.DeepEqual(d1.Nodes[0].SourcePassages, wantPassages) {
		t.Errorf("d1 primary passages = %+v", d1.Nodes[0].SourcePassages)
	}

	// d2 loses b1 and its edge now points at the shared primary id
	d2 := byDoc["d2"]
	if len(d2.Nodes) != 1 || d2.Nodes[0].ID != "b2" {
		t.Errorf("d2 nodes = %+v, want only b2", d2.Nodes)
	}
	if d2.Relationships[0].SourceID != "a1" {
		t.Errorf("d2 edge source = %s, want a1", d2.Relationships[0].SourceID)
	}
}

func TestPlanMerge_RemovalScopedToOwningDocument(t *testing.T) {
	// both documents use the id "n1"; only d2's copy is in the group's
	// removal set, so d1's unrelated n1 must survive
	docs := []Document{
		completedDoc("d1", "One", Graph{
			Nodes: []Node{
				{ID: "n1", Label: "apple"},
				{ID: "n2", Label: "banana"},
			},
		}),
		completedDoc("d2", "Two", Graph{
			Nodes: []Node{{ID: "n1", Label: "apple"}},
		}),
	}
	selection := []string{"d1", "d2"}
	group := DuplicateGroups(TagNodes(docs, selection))[0]

	plan, err := PlanMerge(group, docs, nil, PolicyFirstOccurrence)
	if err != nil {
		t.Fatalf("PlanMerge() error = %v", err)
	}
	if plan.Primary.PaperID != "d1" {
		t.Fatalf("primary owner = %s, want d1", plan.Primary.PaperID)
	}

	for _, u := range plan.Updates {
		if u.DocumentID == "d1" {
			if len(u.Graph.Nodes) != 2 {
				t.Errorf("d1 lost a node it owns: %+v", u.Graph.Nodes)
			}
		}
		if u.DocumentID == "d2" && len(u.Graph.Nodes) != 0 {
			t.Errorf("d2 should have lost its duplicate: %+v", u.Graph.Nodes)
		}
	}
}

func TestPlanMerge_TooSmallGroup(t *testing.T) {
	group := DuplicateGroup{Label: "apple", Nodes: []Node{{ID: "n1"}}, Count: 1}

	_, err := PlanMerge(group, nil, nil, PolicyFirstOccurrence)
	if err == nil {
		t.Fatal("PlanMerge() expected error for group of one")
	}
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Errorf("error type = %T, want *ValidationError", err)
	}
}

func TestPlanMerge_DoesNotMutateInput(t *testing.T) {
	docs := []Document{
		completedDoc("d1", "Paper", Graph{
			Nodes: []Node{
				{ID: "n1", Label: "apple", SourcePassages: []Passage{{Text: "a"}}},
				{ID: "n2", Label: "apple"},
			},
			Relationships: []Relationship{{ID: "r1", SourceID: "n2", TargetID: "n1"}},
		}),
	}
	selection := []string{"d1"}
	group := DuplicateGroups(TagNodes(docs, selection))[0]

	if _, err := PlanMerge(group, docs, TagRelationships(docs, selection), PolicyFirstOccurrence); err != nil {
		t.Fatalf("PlanMerge() error = %v", err)
	}

	if len(docs[0].Graph.Nodes) != 2 {
		t.Error("input document lost a node")
	}
	if docs[0].Graph.Relationships[0].SourceID != "n2" {
		t.Error("input relationship was rewritten")
	}
	if len(docs[0].Graph.Nodes[0].SourcePassages) != 1 {
		t.Error("input passages were extended")
	}
}
