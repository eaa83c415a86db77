package routes

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/corpora-lab/papergraph/pkg/docstore"
	"github.com/corpora-lab/papergraph/pkg/kg"
)

// EditNodeHandler updates a single node inside one document's graph. The
// node id is only unique per document, so the owning document must be named.
func EditNodeHandler(c echo.Context) error {
	type editNodeData struct {
		NodeID     string  `param:"node_id" validate:"required"`
		DocumentID string  `json:"document_id" validate:"required"`
		Label      *string `json:"label,omitempty"`
		Type       *string `json:"type,omitempty"`
	}

	type editNodeResponse struct {
		Message string   `json:"message"`
		Node    *kg.Node `json:"node,omitempty"`
	}

	data := new(editNodeData)
	if err := c.Bind(data); err != nil {
		return c.JSON(http.StatusBadRequest, editNodeResponse{Message: "Invalid request params"})
	}
	if err := c.Validate(data); err != nil {
		return c.JSON(http.StatusBadRequest, editNodeResponse{Message: "Invalid request params"})
	}
	if data.Label != nil && kg.NormalizeLabel(*data.Label) == "" {
		return c.JSON(http.StatusBadRequest, editNodeResponse{Message: "Label must not be empty"})
	}

	app := appOf(c)
	ctx := c.Request().Context()

	doc, err := app.Store.GetDocument(ctx, data.DocumentID)
	if err != nil {
		if errors.Is(err, docstore.ErrNotFound) {
			return c.JSON(http.StatusNotFound, editNodeResponse{Message: "Document not found"})
		}
		return c.JSON(http.StatusInternalServerError, editNodeResponse{Message: "Internal server error"})
	}
	if doc.Graph == nil {
		return c.JSON(http.StatusNotFound, editNodeResponse{Message: "Document has no knowledge graph"})
	}

	var updated *kg.Node
	for i := range doc.Graph.Nodes {
		if doc.Graph.Nodes[i].ID != data.NodeID {
			continue
		}
		if data.Label != nil {
			doc.Graph.Nodes[i].Label = *data.Label
		}
		if data.Type != nil {
			doc.Graph.Nodes[i].Type = *data.Type
		}
		updated = &doc.Graph.Nodes[i]
		break
	}
	if updated == nil {
		return c.JSON(http.StatusNotFound, editNodeResponse{Message: "Node not found"})
	}

	if err := app.Store.UpdateGraph(ctx, doc.ID, *doc.Graph); err != nil {
		return c.JSON(http.StatusInternalServerError, editNodeResponse{Message: "Internal server error"})
	}

	return c.JSON(http.StatusOK, editNodeResponse{
		Message: "Node updated successfully",
		Node:    updated,
	})
}
