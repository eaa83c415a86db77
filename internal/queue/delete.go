package queue

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/corpora-lab/papergraph/internal/storage"
	"github.com/corpora-lab/papergraph/pkg/logger"
)

// ProcessDelete removes a deleted document's file from object storage. The
// database row is already gone when this runs; only the blob is left to
// clean up.
func ProcessDelete(ctx context.Context, s3Client *s3.Client, msgBody string) error {
	var msg DeleteDocumentMsg
	if err := json.Unmarshal([]byte(msgBody), &msg); err != nil {
		return fmt.Errorf("failed to unmarshal delete message: %w", err)
	}
	if msg.FileKey == "" {
		logger.Debug("[Delete] Document had no stored file", "document_id", msg.DocumentID)
		return nil
	}

	if err := storage.DeleteDocument(ctx, s3Client, msg.FileKey); err != nil {
		return err
	}

	logger.Info("[Delete] Removed document file", "document_id", msg.DocumentID, "key", msg.FileKey)
	return nil
}
