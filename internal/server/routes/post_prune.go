package routes

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/corpora-lab/papergraph/pkg/kg"
	"github.com/corpora-lab/papergraph/pkg/logger"
)

// PruneNodesHandler deletes the given nodes from every selected document
// that contains them, together with any relationship still touching them.
func PruneNodesHandler(c echo.Context) error {
	type pruneData struct {
		NodeIDs     []string `json:"node_ids" validate:"required"`
		DocumentIDs []string `json:"document_ids,omitempty"`
	}

	type pruneResponse struct {
		Message string             `json:"message"`
		Applied []string           `json:"applied,omitempty"`
		Failed  []kg.DocumentError `json:"failed,omitempty"`
	}

	data := new(pruneData)
	if err := c.Bind(data); err != nil {
		return c.JSON(http.StatusBadRequest, pruneResponse{Message: "Invalid request params"})
	}
	if err := c.Validate(data); err != nil {
		return c.JSON(http.StatusBadRequest, pruneResponse{Message: "Invalid request params"})
	}

	app := appOf(c)
	ctx := c.Request().Context()

	docs, err := app.Store.ListDocuments(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, pruneResponse{Message: "Internal server error"})
	}

	plan := kg.PlanDelete(data.NodeIDs, docs, resolveSelection(docs, data.DocumentIDs))
	if len(plan.Updates) == 0 {
		return c.JSON(http.StatusOK, pruneResponse{Message: "Nothing to delete"})
	}

	report := kg.Apply(ctx, app.Store, plan.Updates)
	if !report.Ok() {
		logger.Error("[Prune] Partial failure", "err", report.Err())
		return c.JSON(http.StatusMultiStatus, pruneResponse{
			Message: report.Err().Error(),
			Applied: report.Applied,
			Failed:  report.Failed,
		})
	}

	return c.JSON(http.StatusOK, pruneResponse{
		Message: "Nodes deleted successfully",
		Applied: report.Applied,
	})
}
