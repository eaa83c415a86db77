package routes

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/corpora-lab/papergraph/internal/queue"
	"github.com/corpora-lab/papergraph/pkg/docstore"
	"github.com/corpora-lab/papergraph/pkg/logger"
)

// DeleteDocumentHandler removes the document record and queues the stored
// file for asynchronous cleanup.
func DeleteDocumentHandler(c echo.Context) error {
	type deleteDocumentData struct {
		ID string `param:"id" validate:"required"`
	}

	type deleteDocumentResponse struct {
		Message string `json:"message"`
	}

	data := new(deleteDocumentData)
	if err := c.Bind(data); err != nil {
		return c.JSON(http.StatusBadRequest, deleteDocumentResponse{Message: "Invalid request params"})
	}
	if err := c.Validate(data); err != nil {
		return c.JSON(http.StatusBadRequest, deleteDocumentResponse{Message: "Invalid request params"})
	}

	app := appOf(c)
	ctx := c.Request().Context()

	doc, err := app.Store.GetDocument(ctx, data.ID)
	if err != nil {
		if errors.Is(err, docstore.ErrNotFound) {
			return c.JSON(http.StatusNotFound, deleteDocumentResponse{Message: "Document not found"})
		}
		return c.JSON(http.StatusInternalServerError, deleteDocumentResponse{Message: "Internal server error"})
	}

	if err := app.Store.DeleteDocument(ctx, data.ID); err != nil {
		return c.JSON(http.StatusInternalServerError, deleteDocumentResponse{Message: "Internal server error"})
	}

	if doc.FileURL != "" {
		msg, err := json.Marshal(queue.DeleteDocumentMsg{
			DocumentID: doc.ID,
			FileKey:    doc.FileURL,
		})
		if err == nil {
			err = queue.PublishFIFO(app.Queue, queue.DeleteQueue, msg)
		}
		if err != nil {
			// record is gone; the blob is orphaned but harmless
			logger.Error("[Delete] Failed to queue file cleanup", "document_id", doc.ID, "err", err)
		}
	}

	return c.JSON(http.StatusOK, deleteDocumentResponse{Message: "Document deleted successfully"})
}
