package routes

import (
	"net/http"

	gonanoid "github.com/matoous/go-nanoid/v2"

	"github.com/labstack/echo/v4"

	"github.com/corpora-lab/papergraph/pkg/chat"
	"github.com/corpora-lab/papergraph/pkg/docstore"
)

func CreateChatHandler(c echo.Context) error {
	type createChatData struct {
		Title       string   `json:"title"`
		DocumentIDs []string `json:"document_ids,omitempty"`
	}

	type createChatResponse struct {
		Message string                `json:"message"`
		Session *docstore.ChatSession `json:"session,omitempty"`
	}

	data := new(createChatData)
	if err := c.Bind(data); err != nil {
		return c.JSON(http.StatusBadRequest, createChatResponse{Message: "Invalid request params"})
	}

	id, err := gonanoid.New()
	if err != nil {
		return c.JSON(http.StatusInternalServerError, createChatResponse{Message: "Internal server error"})
	}

	title := data.Title
	if title == "" {
		title = "New chat"
	}

	session := &docstore.ChatSession{
		ID:          id,
		Title:       title,
		DocumentIDs: data.DocumentIDs,
		Messages:    []chat.Message{},
	}
	if err := appOf(c).Store.CreateSession(c.Request().Context(), session); err != nil {
		return c.JSON(http.StatusInternalServerError, createChatResponse{Message: "Internal server error"})
	}

	return c.JSON(http.StatusCreated, createChatResponse{
		Message: "Chat created",
		Session: session,
	})
}
