package pgx

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	pgxv5 "github.com/jackc/pgx/v5"

	"github.com/corpora-lab/papergraph/pkg/chat"
	"github.com/corpora-lab/papergraph/pkg/docstore"
)

const sessionColumns = `id, title, document_ids, messages, created_at, updated_at`

func (s *Store) CreateSession(ctx context.Context, session *docstore.ChatSession) error {
	messages, err := json.Marshal(messagesOrEmpty(session.Messages))
	if err != nil {
		return fmt.Errorf("failed to encode messages: %w", err)
	}

	now := time.Now().UTC()
	session.CreatedAt = now
	session.UpdatedAt = now

	_, err = s.conn.Exec(ctx, `
		INSERT INTO chat_sessions (id, title, document_ids, messages, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		session.ID, session.Title, session.DocumentIDs, messages,
		session.CreatedAt, session.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert chat session %s: %w", session.ID, err)
	}
	return nil
}

func (s *Store) GetSession(ctx context.Context, id string) (*docstore.ChatSession, error) {
	row := s.conn.QueryRow(ctx,
		`SELECT `+sessionColumns+` FROM chat_sessions WHERE id = $1`, id)

	session, err := scanSession(row)
	if err != nil {
		if errors.Is(err, pgxv5.ErrNoRows) {
			return nil, docstore.ErrNotFound
		}
		return nil, fmt.Errorf("failed to load chat session %s: %w", id, err)
	}
	return session, nil
}

func (s *Store) ListSessions(ctx context.Context) ([]docstore.ChatSession, error) {
	rows, err := s.conn.Query(ctx,
		`SELECT `+sessionColumns+` FROM chat_sessions ORDER BY updated_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("failed to list chat sessions: %w", err)
	}
	defer rows.Close()

	var sessions []docstore.ChatSession
	for rows.Next() {
		session, err := scanSession(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan chat session: %w", err)
		}
		sessions = append(sessions, *session)
	}
	return sessions, rows.Err()
}

// AppendMessages loads, extends and rewrites the session's message log in a
// single transaction so concurrent appends cannot drop turns.
func (s *Store) AppendMessages(ctx context.Context, sessionID string, messages ...chat.Message) error {
	if len(messages) == 0 {
		return nil
	}

	tx, err := s.conn.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	var blob []byte
	err = tx.QueryRow(ctx,
		`SELECT messages FROM chat_sessions WHERE id = $1 FOR UPDATE`, sessionID,
	).Scan(&blob)
	if err != nil {
		if errors.Is(err, pgxv5.ErrNoRows) {
			return docstore.ErrNotFound
		}
		return fmt.Errorf("failed to load chat session %s: %w", sessionID, err)
	}

	var existing []chat.Message
	if len(blob) > 0 {
		if err := json.Unmarshal(blob, &existing); err != nil {
			return fmt.Errorf("failed to decode messages: %w", err)
		}
	}

	updated, err := json.Marshal(append(existing, messages...))
	if err != nil {
		return fmt.Errorf("failed to encode messages: %w", err)
	}

	_, err = tx.Exec(ctx, `
		UPDATE chat_sessions SET messages = $1, updated_at = $2 WHERE id = $3`,
		updated, time.Now().UTC(), sessionID,
	)
	if err != nil {
		return fmt.Errorf("failed to update chat session %s: %w", sessionID, err)
	}

	return tx.Commit(ctx)
}

func (s *Store) DeleteSession(ctx context.Context, id string) error {
	tag, err := s.conn.Exec(ctx, `DELETE FROM chat_sessions WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete chat session %s: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return docstore.ErrNotFound
	}
	return nil
}

func messagesOrEmpty(messages []chat.Message) []chat.Message {
	if messages == nil {
		return []chat.Message{}
	}
	return messages
}

func scanSession(row pgxv5.Row) (*docstore.ChatSession, error) {
	var (
		session docstore.ChatSession
		blob    []byte
	)

	err := row.Scan(
		&session.ID, &session.Title, &session.DocumentIDs, &blob,
		&session.CreatedAt, &session.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if len(blob) > 0 {
		if err := json.Unmarshal(blob, &session.Messages); err != nil {
			return nil, fmt.Errorf("failed to decode messages: %w", err)
		}
	}
	return &session, nil
}
