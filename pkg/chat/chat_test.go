package chat

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/corpora-lab/papergraph/pkg/ai"
	"github.com/corpora-lab/papergraph/pkg/kg"
)

type fakeClient struct {
	payload    string
	err        error
	lastPrompt string
	calls      int
}

func (f *fakeClient) GenerateCompletion(context.Context, string, ...ai.GenerateOption) (string, error) {
	return "", errors.New("not used")
}

func (f *fakeClient) GenerateCompletionWithFormat(_ context.Context, _, _, prompt string, out any, _ ...ai.GenerateOption) error {
	f.calls++
	f.lastPrompt = prompt
	if f.err != nil {
		return f.err
	}
	return json.Unmarshal([]byte(f.payload), out)
}

func (f *fakeClient) GenerateChat(context.Context, []ai.ChatMessage, ...ai.GenerateOption) (string, error) {
	return "", errors.New("not used")
}

func completedDoc(id, title string) kg.Document {
	return kg.Document{
		ID:     id,
		Title:  title,
		Status: kg.StatusCompleted,
		Graph: &kg.Graph{
			Nodes: []kg.Node{
				{ID: "n1", Label: "Transformer", Type: "Method"},
				{ID: "n2", Label: "BLEU", Type: "Metric"},
			},
			Relationships: []kg.Relationship{
				{ID: "r1", SourceID: "n1", TargetID: "n2", Type: "EVALUATES_ON"},
			},
		},
	}
}

func TestAsk(t *testing.T) {
	client := &fakeClient{payload: `{"answer": "It uses attention [Citation 1].", "citations": [1]}`}
	docs := []kg.Document{completedDoc("d1", "Attention Paper")}

	answer, err := New(client).Ask(context.Background(), docs, nil, "How does it work?")
	if err != nil {
		t.Fatalf("Ask: %v", err)
	}
	if answer.Content != "It uses attention [Citation 1]." {
		t.Errorf("Content = %q", answer.Content)
	}
	if len(answer.Citations) != 1 {
		t.Fatalf("Citations = %+v, want one", answer.Citations)
	}
	c := answer.Citations[0]
	if c.Index != 1 || c.DocumentID != "d1" || c.Title != "Attention Paper" {
		t.Errorf("citation = %+v", c)
	}

	// the context block carries the document and its graph content
	for _, want := range []string{"[Document 1] Attention Paper", "Transformer (Method)", "Transformer evaluates on BLEU", "How does it work?"} {
		if !strings.Contains(client.lastPrompt, want) {
			t.Errorf("prompt is missing %q", want)
		}
	}
}

func TestAsk_EmptyQuestion(t *testing.T) {
	_, err := New(&fakeClient{}).Ask(context.Background(), nil, nil, "  ")
	var verr *kg.ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("err = %v, want ValidationError", err)
	}
}

func TestAsk_NoCompletedDocuments(t *testing.T) {
	client := &fakeClient{}
	docs := []kg.Document{
		{ID: "d1", Title: "Still processing", Status: kg.StatusProcessing},
		{ID: "d2", Title: "No graph", Status: kg.StatusCompleted},
	}

	answer, err := New(client).Ask(context.Background(), docs, nil, "anything?")
	if err != nil {
		t.Fatal(err)
	}
	if client.calls != 0 {
		t.Error("model was called without any context documents")
	}
	if !strings.Contains(answer.Content, "don't have any processed documents") {
		t.Errorf("Content = %q", answer.Content)
	}
	if len(answer.Citations) != 0 {
		t.Errorf("Citations = %+v, want none", answer.Citations)
	}
}

func TestAsk_SkipsOutOfRangeCitations(t *testing.T) {
	client := &fakeClient{payload: `{"answer": "ok", "citations": [0, 1, 7]}`}
	docs := []kg.Document{completedDoc("d1", "Only Doc")}

	answer, err := New(client).Ask(context.Background(), docs, nil, "q")
	if err != nil {
		t.Fatal(err)
	}
	if len(answer.Citations) != 1 || answer.Citations[0].DocumentID != "d1" {
		t.Errorf("Citations = %+v, want only the valid index", answer.Citations)
	}
}

func TestAsk_HistoryReplayed(t *testing.T) {
	client := &fakeClient{payload: `{"answer": "ok", "citations": []}`}
	docs := []kg.Document{completedDoc("d1", "Doc")}
	history := []Message{
		{Role: "user", Content: "first question"},
		{Role: "assistant", Content: "first answer"},
	}

	if _, err := New(client).Ask(context.Background(), docs, history, "follow-up"); err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{"Conversation so far:", "user: first question", "assistant: first answer"} {
		if !strings.Contains(client.lastPrompt, want) {
			t.Errorf("prompt is missing %q", want)
		}
	}
}

func TestAsk_ModelFailure(t *testing.T) {
	cause := errors.New("upstream timeout")
	_, err := New(&fakeClient{err: cause}).Ask(
		context.Background(),
		[]kg.Document{completedDoc("d1", "Doc")},
		nil,
		"q",
	)
	if !errors.Is(err, cause) {
		t.Fatalf("err = %v, want wrapped cause", err)
	}
}
