package routes

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/corpora-lab/papergraph/pkg/kg"
)

func GetDocumentsHandler(c echo.Context) error {
	type getDocumentsResponse struct {
		Message   string        `json:"message,omitempty"`
		Documents []kg.Document `json:"documents"`
	}

	app := appOf(c)
	docs, err := app.Store.ListDocuments(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, getDocumentsResponse{
			Message: "Internal server error",
		})
	}
	if docs == nil {
		docs = []kg.Document{}
	}

	return c.JSON(http.StatusOK, getDocumentsResponse{Documents: docs})
}
