package pgx

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	pgxv5 "github.com/jackc/pgx/v5"

	"github.com/corpora-lab/papergraph/pkg/docstore"
	"github.com/corpora-lab/papergraph/pkg/kg"
)

const documentColumns = `id, title, authors, abstract, keywords,
	file_url, file_name, file_type, file_size,
	status, progress, error_message,
	extracted_content, knowledge_graph,
	created_at, updated_at`

func (s *Store) CreateDocument(ctx context.Context, doc *kg.Document) error {
	extracted, err := marshalNullable(doc.ExtractedContent)
	if err != nil {
		return fmt.Errorf("failed to encode extracted content: %w", err)
	}
	graph, err := marshalNullable(doc.Graph)
	if err != nil {
		return fmt.Errorf("failed to encode knowledge graph: %w", err)
	}

	now := time.Now().UTC()
	doc.CreatedAt = now
	doc.UpdatedAt = now

	_, err = s.conn.Exec(ctx, `
		INSERT INTO documents (
			id, title, authors, abstract, keywords,
			file_url, file_name, file_type, file_size,
			status, progress, error_message,
			extracted_content, knowledge_graph,
			created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)`,
		doc.ID, doc.Title, doc.Authors, doc.Abstract, doc.Keywords,
		doc.FileURL, doc.FileName, doc.FileType, doc.FileSize,
		string(doc.Status), doc.Progress, doc.Error,
		extracted, graph,
		doc.CreatedAt, doc.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert document %s: %w", doc.ID, err)
	}
	return nil
}

func (s *Store) GetDocument(ctx context.Context, id string) (*kg.Document, error) {
	row := s.conn.QueryRow(ctx,
		`SELECT `+documentColumns+` FROM documents WHERE id = $1`, id)

	doc, err := scanDocument(row)
	if err != nil {
		if errors.Is(err, pgxv5.ErrNoRows) {
			return nil, docstore.ErrNotFound
		}
		return nil, fmt.Errorf("failed to load document %s: %w", id, err)
	}
	return doc, nil
}

func (s *Store) ListDocuments(ctx context.Context) ([]kg.Document, error) {
	rows, err := s.conn.Query(ctx,
		`SELECT `+documentColumns+` FROM documents ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("failed to list documents: %w", err)
	}
	defer rows.Close()

	var docs []kg.Document
	for rows.Next() {
		doc, err := scanDocument(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan document: %w", err)
		}
		docs = append(docs, *doc)
	}
	return docs, rows.Err()
}

// UpdateDocument applies the non-nil fields of patch and returns the updated
// document. Fields absent from the patch keep their stored value.
func (s *Store) UpdateDocument(ctx context.Context, id string, patch docstore.DocumentPatch) (*kg.Document, error) {
	sets := []string{"updated_at = $1"}
	args := []any{time.Now().UTC()}

	add := func(column string, value any) {
		args = append(args, value)
		sets = append(sets, fmt.Sprintf("%s = $%d", column, len(args)))
	}

	if patch.Title != nil {
		add("title", *patch.Title)
	}
	if patch.Authors != nil {
		add("authors", patch.Authors)
	}
	if patch.Abstract != nil {
		add("abstract", *patch.Abstract)
	}
	if patch.Keywords != nil {
		add("keywords", patch.Keywords)
	}
	if patch.FileURL != nil {
		add("file_url", *patch.FileURL)
	}
	if patch.Status != nil {
		if !patch.Status.Valid() {
			return nil, &kg.ValidationError{Op: "update document", Reason: fmt.Sprintf("unknown status %q", *patch.Status)}
		}
		add("status", string(*patch.Status))
	}
	if patch.Progress != nil {
		add("progress", *patch.Progress)
	}
	if patch.Error != nil {
		add("error_message", *patch.Error)
	}
	if patch.ExtractedContent != nil {
		blob, err := json.Marshal(patch.ExtractedContent)
		if err != nil {
			return nil, fmt.Errorf("failed to encode extracted content: %w", err)
		}
		add("extracted_content", blob)
	}
	if patch.Graph != nil {
		blob, err := json.Marshal(patch.Graph)
		if err != nil {
			return nil, fmt.Errorf("failed to encode knowledge graph: %w", err)
		}
		add("knowledge_graph", blob)
	}

	args = append(args, id)
	query := fmt.Sprintf(
		`UPDATE documents SET %s WHERE id = $%d RETURNING `+documentColumns,
		strings.Join(sets, ", "), len(args),
	)

	doc, err := scanDocument(s.conn.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgxv5.ErrNoRows) {
			return nil, docstore.ErrNotFound
		}
		return nil, fmt.Errorf("failed to update document %s: %w", id, err)
	}
	return doc, nil
}

func (s *Store) UpdateGraph(ctx context.Context, documentID string, graph kg.Graph) error {
	blob, err := json.Marshal(graph)
	if err != nil {
		return fmt.Errorf("failed to encode knowledge graph: %w", err)
	}

	tag, err := s.conn.Exec(ctx, `
		UPDATE documents
		SET knowledge_graph = $1, updated_at = $2
		WHERE id = $3`,
		blob, time.Now().UTC(), documentID,
	)
	if err != nil {
		return fmt.Errorf("failed to update graph of document %s: %w", documentID, err)
	}
	if tag.RowsAffected() == 0 {
		return docstore.ErrNotFound
	}
	return nil
}

func (s *Store) DeleteDocument(ctx context.Context, id string) error {
	tag, err := s.conn.Exec(ctx, `DELETE FROM documents WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete document %s: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return docstore.ErrNotFound
	}
	return nil
}

func marshalNullable(v any) ([]byte, error) {
	switch t := v.(type) {
	case *kg.ExtractedContent:
		if t == nil {
			return nil, nil
		}
	case *kg.Graph:
		if t == nil {
			return nil, nil
		}
	}
	return json.Marshal(v)
}

func scanDocument(row pgxv5.Row) (*kg.Document, error) {
	var (
		doc       kg.Document
		status    string
		extracted []byte
		graph     []byte
	)

	err := row.Scan(
		&doc.ID, &doc.Title, &doc.Authors, &doc.Abstract, &doc.Keywords,
		&doc.FileURL, &doc.FileName, &doc.FileType, &doc.FileSize,
		&status, &doc.Progress, &doc.Error,
		&extracted, &graph,
		&doc.CreatedAt, &doc.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	doc.Status = kg.Status(status)

	if len(extracted) > 0 {
		doc.ExtractedContent = &kg.ExtractedContent{}
		if err := json.Unmarshal(extracted, doc.ExtractedContent); err != nil {
			return nil, fmt.Errorf("failed to decode extracted content: %w", err)
		}
	}
	if len(graph) > 0 {
		doc.Graph = &kg.Graph{}
		if err := json.Unmarshal(graph, doc.Graph); err != nil {
			return nil, fmt.Errorf("failed to decode knowledge graph: %w", err)
		}
	}

	return &doc, nil
}
