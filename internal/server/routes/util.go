package routes

import (
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/corpora-lab/papergraph/internal/server/middleware"
	"github.com/corpora-lab/papergraph/pkg/kg"
)

// appOf unwraps the shared application context.
func appOf(c echo.Context) *middleware.App {
	return c.(*middleware.AppContext).App
}

// selectedIDs parses the comma-separated ids query parameter. An empty
// parameter selects every document.
func selectedIDs(c echo.Context) []string {
	raw := c.QueryParam("ids")
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	ids := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			ids = append(ids, p)
		}
	}
	return ids
}

// resolveSelection fills an empty selection with every document, preserving
// the store's listing order.
func resolveSelection(docs []kg.Document, ids []string) []string {
	if len(ids) > 0 {
		return ids
	}
	out := make([]string, 0, len(docs))
	for i := range docs {
		out = append(out, docs[i].ID)
	}
	return out
}
