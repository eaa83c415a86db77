package routes

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/corpora-lab/papergraph/pkg/docstore"
)

func DeleteChatHandler(c echo.Context) error {
	type deleteChatData struct {
		ID string `param:"id" validate:"required"`
	}

	type deleteChatResponse struct {
		Message string `json:"message"`
	}

	data := new(deleteChatData)
	if err := c.Bind(data); err != nil {
		return c.JSON(http.StatusBadRequest, deleteChatResponse{Message: "Invalid request params"})
	}
	if err := c.Validate(data); err != nil {
		return c.JSON(http.StatusBadRequest, deleteChatResponse{Message: "Invalid request params"})
	}

	if err := appOf(c).Store.DeleteSession(c.Request().Context(), data.ID); err != nil {
		if errors.Is(err, docstore.ErrNotFound) {
			return c.JSON(http.StatusNotFound, deleteChatResponse{Message: "Chat not found"})
		}
		return c.JSON(http.StatusInternalServerError, deleteChatResponse{Message: "Internal server error"})
	}

	return c.JSON(http.StatusOK, deleteChatResponse{Message: "Chat deleted successfully"})
}
