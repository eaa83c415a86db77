package routes

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/corpora-lab/papergraph/internal/storage"
	"github.com/corpora-lab/papergraph/pkg/docstore"
)

// GetDownloadLinkHandler returns a short-lived presigned URL for the
// document's stored file.
func GetDownloadLinkHandler(c echo.Context) error {
	type downloadData struct {
		ID string `param:"id" validate:"required"`
	}

	type downloadResponse struct {
		Message string `json:"message,omitempty"`
		URL     string `json:"url,omitempty"`
	}

	data := new(downloadData)
	if err := c.Bind(data); err != nil {
		return c.JSON(http.StatusBadRequest, downloadResponse{Message: "Invalid request params"})
	}
	if err := c.Validate(data); err != nil {
		return c.JSON(http.StatusBadRequest, downloadResponse{Message: "Invalid request params"})
	}

	app := appOf(c)
	ctx := c.Request().Context()

	doc, err := app.Store.GetDocument(ctx, data.ID)
	if err != nil {
		if errors.Is(err, docstore.ErrNotFound) {
			return c.JSON(http.StatusNotFound, downloadResponse{Message: "Document not found"})
		}
		return c.JSON(http.StatusInternalServerError, downloadResponse{Message: "Internal server error"})
	}
	if doc.FileURL == "" {
		return c.JSON(http.StatusNotFound, downloadResponse{Message: "Document has no stored file"})
	}

	url, err := storage.GenerateDownloadLink(ctx, app.S3, doc.FileURL)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, downloadResponse{Message: "Failed to generate download link"})
	}

	return c.JSON(http.StatusOK, downloadResponse{URL: url})
}
