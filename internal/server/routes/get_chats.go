package routes

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/corpora-lab/papergraph/pkg/docstore"
)

func GetChatsHandler(c echo.Context) error {
	type getChatsResponse struct {
		Message  string                 `json:"message,omitempty"`
		Sessions []docstore.ChatSession `json:"sessions"`
	}

	sessions, err := appOf(c).Store.ListSessions(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, getChatsResponse{Message: "Internal server error"})
	}
	if sessions == nil {
		sessions = []docstore.ChatSession{}
	}

	return c.JSON(http.StatusOK, getChatsResponse{Sessions: sessions})
}
