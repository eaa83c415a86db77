package routes

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/corpora-lab/papergraph/pkg/kg"
	"github.com/corpora-lab/papergraph/pkg/logger"
)

// MergeNodesHandler merges every node sharing the given label across the
// selected documents into one survivor. Per-document persistence failures
// are reported individually; the successful updates stand.
func MergeNodesHandler(c echo.Context) error {
	type mergeData struct {
		Label       string   `json:"label" validate:"required"`
		DocumentIDs []string `json:"document_ids,omitempty"`
		Policy      string   `json:"policy,omitempty"`
	}

	type mergeResponse struct {
		Message    string             `json:"message"`
		Primary    *kg.Node           `json:"primary,omitempty"`
		RemovedIDs []string           `json:"removed_ids,omitempty"`
		Applied    []string           `json:"applied,omitempty"`
		Failed     []kg.DocumentError `json:"failed,omitempty"`
	}

	data := new(mergeData)
	if err := c.Bind(data); err != nil {
		return c.JSON(http.StatusBadRequest, mergeResponse{Message: "Invalid request params"})
	}
	if err := c.Validate(data); err != nil {
		return c.JSON(http.StatusBadRequest, mergeResponse{Message: "Invalid request params"})
	}

	policy, err := kg.ParseMergePolicy(data.Policy)
	if err != nil {
		return c.JSON(http.StatusBadRequest, mergeResponse{Message: err.Error()})
	}

	app := appOf(c)
	ctx := c.Request().Context()

	docs, err := app.Store.ListDocuments(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, mergeResponse{Message: "Internal server error"})
	}
	selection := resolveSelection(docs, data.DocumentIDs)

	var group *kg.DuplicateGroup
	key := kg.NormalizeLabel(data.Label)
	for _, g := range kg.DuplicateGroups(kg.TagNodes(docs, selection)) {
		if g.Label == key {
			group = &g
			break
		}
	}
	if group == nil {
		return c.JSON(http.StatusNotFound, mergeResponse{Message: "No duplicate group with that label"})
	}

	edges := kg.TagRelationships(docs, selection)
	plan, err := kg.PlanMerge(*group, docs, edges, policy)
	if err != nil {
		var verr *kg.ValidationError
		if errors.As(err, &verr) {
			return c.JSON(http.StatusUnprocessableEntity, mergeResponse{Message: verr.Error()})
		}
		return c.JSON(http.StatusInternalServerError, mergeResponse{Message: "Internal server error"})
	}

	report := kg.Apply(ctx, app.Store, plan.Updates)
	if !report.Ok() {
		logger.Error("[Merge] Partial failure", "err", report.Err())
		return c.JSON(http.StatusMultiStatus, mergeResponse{
			Message:    report.Err().Error(),
			Primary:    &plan.Primary,
			RemovedIDs: plan.RemovedIDs,
			Applied:    report.Applied,
			Failed:     report.Failed,
		})
	}

	return c.JSON(http.StatusOK, mergeResponse{
		Message:    "Nodes merged successfully",
		Primary:    &plan.Primary,
		RemovedIDs: plan.RemovedIDs,
		Applied:    report.Applied,
	})
}
