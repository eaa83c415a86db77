package routes

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/corpora-lab/papergraph/pkg/docstore"
	"github.com/corpora-lab/papergraph/pkg/kg"
)

// EditDocumentHandler updates a document's editable metadata. Processing
// state and the knowledge graph are owned by the pipeline and cannot be
// patched here.
func EditDocumentHandler(c echo.Context) error {
	type editDocumentData struct {
		ID       string   `param:"id" validate:"required"`
		Title    *string  `json:"title,omitempty"`
		Authors  []string `json:"authors,omitempty"`
		Abstract *string  `json:"abstract,omitempty"`
		Keywords []string `json:"keywords,omitempty"`
	}

	type editDocumentResponse struct {
		Message  string       `json:"message"`
		Document *kg.Document `json:"document,omitempty"`
	}

	data := new(editDocumentData)
	if err := c.Bind(data); err != nil {
		return c.JSON(http.StatusBadRequest, editDocumentResponse{Message: "Invalid request params"})
	}
	if err := c.Validate(data); err != nil {
		return c.JSON(http.StatusBadRequest, editDocumentResponse{Message: "Invalid request params"})
	}

	doc, err := appOf(c).Store.UpdateDocument(c.Request().Context(), data.ID, docstore.DocumentPatch{
		Title:    data.Title,
		Authors:  data.Authors,
		Abstract: data.Abstract,
		Keywords: data.Keywords,
	})
	if err != nil {
		if errors.Is(err, docstore.ErrNotFound) {
			return c.JSON(http.StatusNotFound, editDocumentResponse{Message: "Document not found"})
		}
		return c.JSON(http.StatusInternalServerError, editDocumentResponse{Message: "Internal server error"})
	}

	return c.JSON(http.StatusOK, editDocumentResponse{
		Message:  "Document updated successfully",
		Document: doc,
	})
}
