package routes

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/corpora-lab/papergraph/pkg/kg"
)

// GetStatsHandler summarizes the document corpus and its combined graph.
func GetStatsHandler(c echo.Context) error {
	type getStatsResponse struct {
		Message            string `json:"message,omitempty"`
		TotalDocuments     int    `json:"total_documents"`
		CompletedDocuments int    `json:"completed_documents"`
		FailedDocuments    int    `json:"failed_documents"`
		TotalNodes         int    `json:"total_nodes"`
		TotalRelationships int    `json:"total_relationships"`
		DuplicateGroups    int    `json:"duplicate_groups"`
		DisconnectedNodes  int    `json:"disconnected_nodes"`
	}

	app := appOf(c)
	ctx := c.Request().Context()

	docs, err := app.Store.ListDocuments(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, getStatsResponse{Message: "Internal server error"})
	}

	resp := getStatsResponse{TotalDocuments: len(docs)}
	for i := range docs {
		switch docs[i].Status {
		case kg.StatusCompleted:
			resp.CompletedDocuments++
		case kg.StatusFailed:
			resp.FailedDocuments++
		}
	}

	selection := resolveSelection(docs, nil)
	combined, _, err := kg.Combine(docs, selection)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, getStatsResponse{Message: "Internal server error"})
	}
	resp.TotalNodes = len(combined.Nodes)
	resp.TotalRelationships = len(combined.Relationships)

	tagged := kg.TagNodes(docs, selection)
	resp.DuplicateGroups = len(kg.DuplicateGroups(tagged))
	resp.DisconnectedNodes = len(kg.Disconnected(tagged, kg.TagRelationships(docs, selection)))

	return c.JSON(http.StatusOK, resp)
}
