package routes

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/corpora-lab/papergraph/pkg/docstore"
	"github.com/corpora-lab/papergraph/pkg/kg"
)

func GetDocumentHandler(c echo.Context) error {
	type getDocumentData struct {
		ID string `param:"id" validate:"required"`
	}

	type getDocumentResponse struct {
		Message  string       `json:"message,omitempty"`
		Document *kg.Document `json:"document,omitempty"`
	}

	data := new(getDocumentData)
	if err := c.Bind(data); err != nil {
		return c.JSON(http.StatusBadRequest, getDocumentResponse{Message: "Invalid request params"})
	}
	if err := c.Validate(data); err != nil {
		return c.JSON(http.StatusBadRequest, getDocumentResponse{Message: "Invalid request params"})
	}

	doc, err := appOf(c).Store.GetDocument(c.Request().Context(), data.ID)
	if err != nil {
		if errors.Is(err, docstore.ErrNotFound) {
			return c.JSON(http.StatusNotFound, getDocumentResponse{Message: "Document not found"})
		}
		return c.JSON(http.StatusInternalServerError, getDocumentResponse{Message: "Internal server error"})
	}

	return c.JSON(http.StatusOK, getDocumentResponse{Document: doc})
}
