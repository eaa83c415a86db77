package routes

import (
	"encoding/json"
	"net/http"
	"path/filepath"
	"strings"

	gonanoid "github.com/matoous/go-nanoid/v2"

	"github.com/labstack/echo/v4"

	"github.com/corpora-lab/papergraph/internal/queue"
	"github.com/corpora-lab/papergraph/internal/storage"
	"github.com/corpora-lab/papergraph/pkg/docstore"
	"github.com/corpora-lab/papergraph/pkg/extract"
	"github.com/corpora-lab/papergraph/pkg/kg"
	"github.com/corpora-lab/papergraph/pkg/loader"
	"github.com/corpora-lab/papergraph/pkg/logger"
)

const (
	progressUploading = 20
	progressUploaded  = 40
)

// UploadDocumentHandler accepts a multipart upload, stores the file, creates
// the document record and queues it for processing.
func UploadDocumentHandler(c echo.Context) error {
	type uploadResponse struct {
		Message  string       `json:"message"`
		Document *kg.Document `json:"document,omitempty"`
	}

	schemaPreset := c.FormValue("schema")
	if _, err := extract.ParsePreset(schemaPreset); err != nil {
		return c.JSON(http.StatusBadRequest, uploadResponse{Message: "Unknown schema preset"})
	}
	model := c.FormValue("model")

	fileHeader, err := c.FormFile("file")
	if err != nil {
		return c.JSON(http.StatusBadRequest, uploadResponse{Message: "Missing file"})
	}
	if !loader.Supported(fileHeader.Filename) {
		return c.JSON(http.StatusBadRequest, uploadResponse{Message: "Unsupported file type"})
	}

	file, err := fileHeader.Open()
	if err != nil {
		return c.JSON(http.StatusBadRequest, uploadResponse{Message: "Could not read file"})
	}
	defer file.Close()

	id, err := gonanoid.New()
	if err != nil {
		return c.JSON(http.StatusInternalServerError, uploadResponse{Message: "Internal server error"})
	}

	app := appOf(c)
	ctx := c.Request().Context()

	title := strings.TrimSuffix(fileHeader.Filename, filepath.Ext(fileHeader.Filename))
	doc := &kg.Document{
		ID:       id,
		Title:    title,
		FileName: fileHeader.Filename,
		FileType: strings.TrimPrefix(strings.ToLower(filepath.Ext(fileHeader.Filename)), "."),
		FileSize: fileHeader.Size,
		Status:   kg.StatusUploading,
		Progress: progressUploading,
	}
	if err := app.Store.CreateDocument(ctx, doc); err != nil {
		logger.Error("[Upload] Failed to create document", "err", err)
		return c.JSON(http.StatusInternalServerError, uploadResponse{Message: "Internal server error"})
	}

	key, err := storage.PutDocument(ctx, app.S3, id, fileHeader.Filename, file)
	if err != nil {
		logger.Error("[Upload] Failed to store file", "document_id", id, "err", err)
		markUploadFailed(c, id, "failed to store uploaded file")
		return c.JSON(http.StatusInternalServerError, uploadResponse{Message: "Failed to store file"})
	}

	uploaded := kg.StatusUploaded
	progress := progressUploaded
	doc, err = app.Store.UpdateDocument(ctx, id, docstore.DocumentPatch{
		FileURL:  &key,
		Status:   &uploaded,
		Progress: &progress,
	})
	if err != nil {
		logger.Error("[Upload] Failed to update document", "document_id", id, "err", err)
		return c.JSON(http.StatusInternalServerError, uploadResponse{Message: "Internal server error"})
	}

	msg, err := json.Marshal(queue.ProcessDocumentMsg{
		DocumentID:   id,
		FileKey:      key,
		FileName:     fileHeader.Filename,
		SchemaPreset: schemaPreset,
		Model:        model,
	})
	if err != nil {
		return c.JSON(http.StatusInternalServerError, uploadResponse{Message: "Internal server error"})
	}
	if err := queue.PublishFIFO(app.Queue, queue.ProcessQueue, msg); err != nil {
		logger.Error("[Upload] Failed to queue document", "document_id", id, "err", err)
		markUploadFailed(c, id, "failed to queue document for processing")
		return c.JSON(http.StatusInternalServerError, uploadResponse{Message: "Failed to queue document"})
	}

	return c.JSON(http.StatusCreated, uploadResponse{
		Message:  "Document uploaded",
		Document: doc,
	})
}

func markUploadFailed(c echo.Context, id, reason string) {
	failed := kg.StatusFailed
	if _, err := appOf(c).Store.UpdateDocument(c.Request().Context(), id, docstore.DocumentPatch{
		Status: &failed,
		Error:  &reason,
	}); err != nil {
		logger.Error("[Upload] Failed to mark document as failed", "document_id", id, "err", err)
	}
}
