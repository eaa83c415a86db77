package queue

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/corpora-lab/papergraph/internal/storage"
	"github.com/corpora-lab/papergraph/internal/util"
	"github.com/corpora-lab/papergraph/pkg/ai"
	"github.com/corpora-lab/papergraph/pkg/docstore"
	"github.com/corpora-lab/papergraph/pkg/extract"
	"github.com/corpora-lab/papergraph/pkg/kg"
	"github.com/corpora-lab/papergraph/pkg/loader"
	"github.com/corpora-lab/papergraph/pkg/logger"
)

// progress checkpoints reported while a document moves through the
// pipeline. Upload reporting (20/40) happens in the server before the
// message is published.
const (
	progressProcessing     = 60
	progressPostProcessing = 80
	progressCompleted      = 100
)

const llmRetries = 3

// ProcessDocument runs the extraction pipeline for one uploaded document:
// fetch the file, pull its text, extract metadata, extract the knowledge
// graph, then mark the document completed. Failures mark the document
// failed and are returned so the caller can retry or dead-letter.
func ProcessDocument(
	ctx context.Context,
	s3Client *s3.Client,
	aiClient ai.Client,
	store docstore.Store,
	msgBody string,
) error {
	var msg ProcessDocumentMsg
	if err := json.Unmarshal([]byte(msgBody), &msg); err != nil {
		return fmt.Errorf("failed to unmarshal process message: %w", err)
	}
	if msg.DocumentID == "" {
		return fmt.Errorf("process message has no document id")
	}

	logger.Info("[Process] Processing document", "document_id", msg.DocumentID, "file", msg.FileName)

	if err := setStatus(ctx, store, msg.DocumentID, kg.StatusProcessing, progressProcessing); err != nil {
		return err
	}

	preset, err := extract.ParsePreset(msg.SchemaPreset)
	if err != nil {
		return markFailed(ctx, store, msg.DocumentID, err)
	}

	content, err := storage.GetDocument(ctx, s3Client, msg.FileKey)
	if err != nil {
		return markFailed(ctx, store, msg.DocumentID, err)
	}

	text, err := loader.Extract(ctx, msg.FileName, content)
	if err != nil {
		return markFailed(ctx, store, msg.DocumentID, err)
	}

	extractor := extract.New(aiClient)

	var opts []ai.GenerateOption
	if msg.Model != "" {
		opts = append(opts, ai.WithModel(msg.Model))
	}

	metadata, err := util.RetryWithContext(ctx, llmRetries, func(ctx context.Context) (*kg.ExtractedContent, error) {
		return extractor.ExtractMetadata(ctx, text, opts...)
	})
	if err != nil {
		return markFailed(ctx, store, msg.DocumentID, err)
	}
	metadata.FullText = text

	status := kg.StatusPostProcessing
	progress := progressPostProcessing
	if _, err := store.UpdateDocument(ctx, msg.DocumentID, docstore.DocumentPatch{
		Status:           &status,
		Progress:         &progress,
		ExtractedContent: metadata,
	}); err != nil {
		return fmt.Errorf("failed to store extracted content: %w", err)
	}

	graph, err := util.RetryWithContext(ctx, llmRetries, func(ctx context.Context) (*kg.Graph, error) {
		return extractor.ExtractGraph(ctx, text, preset, opts...)
	})
	if err != nil {
		return markFailed(ctx, store, msg.DocumentID, err)
	}

	patch := docstore.DocumentPatch{
		Graph: graph,
	}
	completed := kg.StatusCompleted
	done := progressCompleted
	patch.Status = &completed
	patch.Progress = &done
	if metadata.Title != "" {
		patch.Title = &metadata.Title
	}
	if len(metadata.Authors) > 0 {
		patch.Authors = metadata.Authors
	}
	if metadata.Abstract != "" {
		patch.Abstract = &metadata.Abstract
	}
	if len(metadata.Keywords) > 0 {
		patch.Keywords = metadata.Keywords
	}

	if _, err := store.UpdateDocument(ctx, msg.DocumentID, patch); err != nil {
		return fmt.Errorf("failed to store knowledge graph: %w", err)
	}

	logger.Info("[Process] Document completed",
		"document_id", msg.DocumentID,
		"nodes", len(graph.Nodes),
		"relationships", len(graph.Relationships),
	)
	return nil
}

func setStatus(ctx context.Context, store docstore.Store, id string, status kg.Status, progress int) error {
	_, err := store.UpdateDocument(ctx, id, docstore.DocumentPatch{
		Status:   &status,
		Progress: &progress,
	})
	if err != nil {
		return fmt.Errorf("failed to update status of document %s: %w", id, err)
	}
	return nil
}

// markFailed records the error on the document and passes it through so the
// retry machinery still sees the failure.
func markFailed(ctx context.Context, store docstore.Store, id string, cause error) error {
	status := kg.StatusFailed
	msg := cause.Error()
	if _, err := store.UpdateDocument(ctx, id, docstore.DocumentPatch{
		Status: &status,
		Error:  &msg,
	}); err != nil {
		logger.Error("[Process] Failed to mark document as failed", "document_id", id, "err", err)
	}
	return cause
}
