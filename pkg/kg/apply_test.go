package kg

import (
	"context"
	"errors"
	"reflect"
	"strings"
	"sync"
	"testing"
)

type stubUpdater struct {
	mu      sync.Mutex
	failOn  map[string]error
	updated map[string]Graph
}

func newStubUpdater() *stubUpdater {
	return &stubUpdater{
		failOn:  make(map[string]error),
		updated: make(map[string]Graph),
	}
}

func (s *stubUpdater) UpdateGraph(_ context.Context, documentID string, graph Graph) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.failOn[documentID]; err != nil {
		return err
	}
	s.updated[documentID] = graph
	return nil
}

func TestApply(t *testing.T) {
	store := newStubUpdater()
	updates := []DocumentUpdate{
		{DocumentID: "d2", Graph: Graph{Nodes: []Node{{ID: "n2"}}}},
		{DocumentID: "d1", Graph: Graph{Nodes: []Node{{ID: "n1"}}}},
	}

	report := Apply(context.Background(), store, updates)
	if !report.Ok() {
		t.Fatalf("report not ok: %v", report.Err())
	}
	if report.Err() != nil {
		t.Errorf("Err() = %v, want nil", report.Err())
	}
	if !reflect.DeepEqual(report.Applied, []string{"d1", "d2"}) {
		t.Errorf("Applied = %v, want sorted [d1 d2]", report.Applied)
	}
	if len(store.updated["d1"].Nodes) != 1 || store.updated["d1"].Nodes[0].ID != "n1" {
		t.Errorf("d1 graph = %+v", store.updated["d1"])
	}
}

func TestApply_PartialFailure(t *testing.T) {
	store := newStubUpdater()
	store.failOn["d2"] = errors.New("connection reset")
	updates := []DocumentUpdate{
		{DocumentID: "d3"},
		{DocumentID: "d2"},
		{DocumentID: "d1"},
	}

	report := Apply(context.Background(), store, updates)
	if report.Ok() {
		t.Fatal("report ok despite failing document")
	}

	// the failing document never blocks its siblings
	if !reflect.DeepEqual(report.Applied, []string{"d1", "d3"}) {
		t.Errorf("Applied = %v, want [d1 d3]", report.Applied)
	}
	if len(report.Failed) != 1 || report.Failed[0].DocumentID != "d2" {
		t.Fatalf("Failed = %+v, want only d2", report.Failed)
	}
	if _, ok := store.updated["d2"]; ok {
		t.Error("d2 was persisted despite the error")
	}

	err := report.Err()
	if err == nil {
		t.Fatal("Err() = nil, want summary error")
	}
	if !strings.Contains(err.Error(), "updated 2 of 3 documents") {
		t.Errorf("Err() = %q", err)
	}
	if !strings.Contains(err.Error(), "connection reset") {
		t.Errorf("Err() = %q, want wrapped cause", err)
	}
}

func TestApply_AllFail(t *testing.T) {
	store := newStubUpdater()
	store.failOn["d1"] = errors.New("nope")
	store.failOn["d2"] = errors.New("nope")

	report := Apply(context.Background(), store, []DocumentUpdate{
		{DocumentID: "d2"}, {DocumentID: "d1"},
	})
	if len(report.Applied) != 0 {
		t.Errorf("Applied = %v, want none", report.Applied)
	}
	if len(report.Failed) != 2 || report.Failed[0].DocumentID != "d1" {
		t.Errorf("Failed = %+v, want sorted [d1 d2]", report.Failed)
	}
}

func TestApply_NoUpdates(t *testing.T) {
	report := Apply(context.Background(), newStubUpdater(), nil)
	if !report.Ok() || len(report.Applied) != 0 || len(report.Failed) != 0 {
		t.Errorf("report = %+v, want empty ok report", report)
	}
}
