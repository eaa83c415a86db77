package routes

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/corpora-lab/papergraph/pkg/kg"
)

// GetDisconnectedHandler lists nodes with no incident relationship across
// the combined edge set of the selected documents.
func GetDisconnectedHandler(c echo.Context) error {
	type getDisconnectedResponse struct {
		Message string    `json:"message,omitempty"`
		Nodes   []kg.Node `json:"nodes"`
		Count   int       `json:"count"`
	}

	app := appOf(c)
	ctx := c.Request().Context()

	docs, err := app.Store.ListDocuments(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, getDisconnectedResponse{Message: "Internal server error"})
	}

	selection := resolveSelection(docs, selectedIDs(c))
	orphans := kg.Disconnected(
		kg.TagNodes(docs, selection),
		kg.TagRelationships(docs, selection),
	)

	return c.JSON(http.StatusOK, getDisconnectedResponse{
		Nodes: orphans,
		Count: len(orphans),
	})
}
