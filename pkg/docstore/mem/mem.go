// Package mem provides an in-memory docstore.Store used in tests.
package mem

import (
	"context"
	"encoding/json"
	"sort"
	"sync"
	"time"

	"github.com/corpora-lab/papergraph/pkg/chat"
	"github.com/corpora-lab/papergraph/pkg/docstore"
	"github.com/corpora-lab/papergraph/pkg/kg"
)

type Store struct {
	mu       sync.RWMutex
	docs     map[string]*kg.Document
	sessions map[string]*docstore.ChatSession
}

func NewStore() *Store {
	return &Store{
		docs:     make(map[string]*kg.Document),
		sessions: make(map[string]*docstore.ChatSession),
	}
}

func (s *Store) CreateDocument(_ context.Context, doc *kg.Document) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now().UTC()
	doc.CreatedAt = now
	doc.UpdatedAt = now
	s.docs[doc.ID] = cloneDocument(doc)
	return nil
}

func (s *Store) GetDocument(_ context.Context, id string) (*kg.Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	doc, ok := s.docs[id]
	if !ok {
		return nil, docstore.ErrNotFound
	}
	return cloneDocument(doc), nil
}

func (s *Store) ListDocuments(_ context.Context) ([]kg.Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	docs := make([]kg.Document, 0, len(s.docs))
	for _, doc := range s.docs {
		docs = append(docs, *cloneDocument(doc))
	}
	sort.Slice(docs, func(i, j int) bool {
		if docs[i].CreatedAt.Equal(docs[j].CreatedAt) {
			return docs[i].ID < docs[j].ID
		}
		return docs[i].CreatedAt.After(docs[j].CreatedAt)
	})
	return docs, nil
}

func (s *Store) UpdateDocument(_ context.Context, id string, patch docstore.DocumentPatch) (*kg.Document, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, ok := s.docs[id]
	if !ok {
		return nil, docstore.ErrNotFound
	}

	if patch.Title != nil {
		doc.Title = *patch.Title
	}
	if patch.Authors != nil {
		doc.Authors = append([]string(nil), patch.Authors...)
	}
	if patch.Abstract != nil {
		doc.Abstract = *patch.Abstract
	}
	if patch.Keywords != nil {
		doc.Keywords = append([]string(nil), patch.Keywords...)
	}
	if patch.FileURL != nil {
		doc.FileURL = *patch.FileURL
	}
	if patch.Status != nil {
		if !patch.Status.Valid() {
			return nil, &kg.ValidationError{Op: "update document", Reason: "unknown status"}
		}
		doc.Status = *patch.Status
	}
	if patch.Progress != nil {
		doc.Progress = *patch.Progress
	}
	if patch.Error != nil {
		doc.Error = *patch.Error
	}
	if patch.ExtractedContent != nil {
		doc.ExtractedContent = patch.ExtractedContent
	}
	if patch.Graph != nil {
		doc.Graph = patch.Graph
	}
	doc.UpdatedAt = time.Now().UTC()

	return cloneDocument(doc), nil
}

func (s *Store) UpdateGraph(_ context.Context, documentID string, graph kg.Graph) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, ok := s.docs[documentID]
	if !ok {
		return docstore.ErrNotFound
	}
	doc.Graph = &graph
	doc.UpdatedAt = time.Now().UTC()
	return nil
}

func (s *Store) DeleteDocument(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.docs[id]; !ok {
		return docstore.ErrNotFound
	}
	delete(s.docs, id)
	return nil
}

func (s *Store) CreateSession(_ context.Context, session *docstore.ChatSession) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now().UTC()
	session.CreatedAt = now
	session.UpdatedAt = now

	clone := *session
	clone.Messages = append([]chat.Message(nil), session.Messages...)
	s.sessions[session.ID] = &clone
	return nil
}

func (s *Store) GetSession(_ context.Context, id string) (*docstore.ChatSession, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	session, ok := s.sessions[id]
	if !ok {
		return nil, docstore.ErrNotFound
	}
	clone := *session
	clone.Messages = append([]chat.Message(nil), session.Messages...)
	return &clone, nil
}

func (s *Store) ListSessions(_ context.Context) ([]docstore.ChatSession, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sessions := make([]docstore.ChatSession, 0, len(s.sessions))
	for _, session := range s.sessions {
		clone := *session
		clone.Messages = append([]chat.Message(nil), session.Messages...)
		sessions = append(sessions, clone)
	}
	sort.Slice(sessions, func(i, j int) bool {
		if sessions[i].UpdatedAt.Equal(sessions[j].UpdatedAt) {
			return sessions[i].ID < sessions[j].ID
		}
		return sessions[i].UpdatedAt.After(sessions[j].UpdatedAt)
	})
	return sessions, nil
}

func (s *Store) AppendMessages(_ context.Context, sessionID string, messages ...chat.Message) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	session, ok := s.sessions[sessionID]
	if !ok {
		return docstore.ErrNotFound
	}
	session.Messages = append(session.Messages, messages...)
	session.UpdatedAt = time.Now().UTC()
	return nil
}

func (s *Store) DeleteSession(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.sessions[id]; !ok {
		return docstore.ErrNotFound
	}
	delete(s.sessions, id)
	return nil
}

// cloneDocument deep-copies via JSON so callers can't mutate stored state.
func cloneDocument(doc *kg.Document) *kg.Document {
	blob, err := json.Marshal(doc)
	if err != nil {
		clone := *doc
		return &clone
	}
	var clone kg.Document
	if err := json.Unmarshal(blob, &clone); err != nil {
		c := *doc
		return &c
	}
	return &clone
}
