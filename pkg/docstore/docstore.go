package docstore

import (
	"context"
	"errors"
	"time"

	"github.com/corpora-lab/papergraph/pkg/chat"
	"github.com/corpora-lab/papergraph/pkg/kg"
)

// ErrNotFound is returned when a document or chat session does not exist.
var ErrNotFound = errors.New("not found")

// DocumentPatch is a partial document update. Nil fields are left untouched;
// set fields overwrite the stored value. Slices replace the stored slice
// wholesale when non-nil.
type DocumentPatch struct {
	Title            *string
	Authors          []string
	Abstract         *string
	Keywords         []string
	FileURL          *string
	Status           *kg.Status
	Progress         *int
	Error            *string
	ExtractedContent *kg.ExtractedContent
	Graph            *kg.Graph
}

// ChatSession is a persisted conversation over a set of documents.
type ChatSession struct {
	ID          string         `json:"id"`
	Title       string         `json:"title"`
	DocumentIDs []string       `json:"document_ids,omitempty"`
	Messages    []chat.Message `json:"messages"`
	CreatedAt   time.Time      `json:"created_date,omitempty"`
	UpdatedAt   time.Time      `json:"updated_date,omitempty"`
}

// Store is the persistence collaborator for research documents and chat
// sessions. Implementations must treat each call as an independent unit of
// work; callers that fan out across documents handle partial failure
// themselves.
type Store interface {
	CreateDocument(ctx context.Context, doc *kg.Document) error
	GetDocument(ctx context.Context, id string) (*kg.Document, error)
	ListDocuments(ctx context.Context) ([]kg.Document, error)
	UpdateDocument(ctx context.Context, id string, patch DocumentPatch) (*kg.Document, error)
	DeleteDocument(ctx context.Context, id string) error

	// UpdateGraph replaces the stored knowledge graph of a single document.
	// It also satisfies the graph consolidation layer's updater contract.
	UpdateGraph(ctx context.Context, documentID string, graph kg.Graph) error

	CreateSession(ctx context.Context, session *ChatSession) error
	GetSession(ctx context.Context, id string) (*ChatSession, error)
	ListSessions(ctx context.Context) ([]ChatSession, error)
	AppendMessages(ctx context.Context, sessionID string, messages ...chat.Message) error
	DeleteSession(ctx context.Context, id string) error
}
