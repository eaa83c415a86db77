package routes

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/corpora-lab/papergraph/pkg/docstore"
)

func GetChatHandler(c echo.Context) error {
	type getChatData struct {
		ID string `param:"id" validate:"required"`
	}

	type getChatResponse struct {
		Message string                `json:"message,omitempty"`
		Session *docstore.ChatSession `json:"session,omitempty"`
	}

	data := new(getChatData)
	if err := c.Bind(data); err != nil {
		return c.JSON(http.StatusBadRequest, getChatResponse{Message: "Invalid request params"})
	}
	if err := c.Validate(data); err != nil {
		return c.JSON(http.StatusBadRequest, getChatResponse{Message: "Invalid request params"})
	}

	session, err := appOf(c).Store.GetSession(c.Request().Context(), data.ID)
	if err != nil {
		if errors.Is(err, docstore.ErrNotFound) {
			return c.JSON(http.StatusNotFound, getChatResponse{Message: "Chat not found"})
		}
		return c.JSON(http.StatusInternalServerError, getChatResponse{Message: "Internal server error"})
	}

	return c.JSON(http.StatusOK, getChatResponse{Session: session})
}
