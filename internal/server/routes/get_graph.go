package routes

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/corpora-lab/papergraph/pkg/kg"
)

// GetGraphHandler returns the combined knowledge graph of the selected
// documents. Selection defaults to every document; documents that are not
// fully processed contribute nothing.
func GetGraphHandler(c echo.Context) error {
	type getGraphResponse struct {
		Message       string            `json:"message,omitempty"`
		Nodes         []kg.Node         `json:"nodes"`
		Relationships []kg.Relationship `json:"relationships"`
		Warnings      *kg.IntegrityStats `json:"warnings,omitempty"`
	}

	app := appOf(c)
	ctx := c.Request().Context()

	docs, err := app.Store.ListDocuments(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, getGraphResponse{Message: "Internal server error"})
	}

	combined, stats, err := kg.Combine(docs, resolveSelection(docs, selectedIDs(c)))
	if err != nil {
		return c.JSON(http.StatusUnprocessableEntity, getGraphResponse{Message: err.Error()})
	}

	resp := getGraphResponse{
		Nodes:         combined.Nodes,
		Relationships: combined.Relationships,
	}
	if stats.UnlabeledNodes > 0 {
		resp.Warnings = stats
	}
	return c.JSON(http.StatusOK, resp)
}
