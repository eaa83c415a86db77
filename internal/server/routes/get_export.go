package routes

import (
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/corpora-lab/papergraph/pkg/kg"
)

// ExportGraphHandler produces a portable snapshot of the combined graph of
// the selected documents, served as a JSON download.
func ExportGraphHandler(c echo.Context) error {
	type exportResponse struct {
		Message string `json:"message"`
	}

	app := appOf(c)
	ctx := c.Request().Context()

	docs, err := app.Store.ListDocuments(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, exportResponse{Message: "Internal server error"})
	}

	selection := resolveSelection(docs, selectedIDs(c))
	combined, _, err := kg.Combine(docs, selection)
	if err != nil {
		return c.JSON(http.StatusUnprocessableEntity, exportResponse{Message: err.Error()})
	}

	snapshot := kg.Export(docs, selection, combined, time.Now())

	c.Response().Header().Set(
		echo.HeaderContentDisposition,
		fmt.Sprintf(`attachment; filename="knowledge-graph-%s.json"`, time.Now().Format("2006-01-02")),
	)
	return c.JSON(http.StatusOK, snapshot)
}
