package routes

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/corpora-lab/papergraph/pkg/kg"
)

// GetDuplicatesHandler lists groups of nodes across the selected documents
// sharing a normalized label.
func GetDuplicatesHandler(c echo.Context) error {
	type getDuplicatesResponse struct {
		Message string              `json:"message,omitempty"`
		Groups  []kg.DuplicateGroup `json:"groups"`
	}

	app := appOf(c)
	ctx := c.Request().Context()

	docs, err := app.Store.ListDocuments(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, getDuplicatesResponse{Message: "Internal server error"})
	}

	selection := resolveSelection(docs, selectedIDs(c))
	groups := kg.DuplicateGroups(kg.TagNodes(docs, selection))

	return c.JSON(http.StatusOK, getDuplicatesResponse{Groups: groups})
}
