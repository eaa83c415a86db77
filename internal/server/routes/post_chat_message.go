package routes

import (
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/corpora-lab/papergraph/pkg/chat"
	"github.com/corpora-lab/papergraph/pkg/docstore"
	"github.com/corpora-lab/papergraph/pkg/kg"
	"github.com/corpora-lab/papergraph/pkg/logger"
)

// PostChatMessageHandler appends a user question to the session, generates
// a grounded answer over the session's documents and appends it too.
func PostChatMessageHandler(c echo.Context) error {
	type postMessageData struct {
		ID      string `param:"id" validate:"required"`
		Message string `json:"message" validate:"required"`
	}

	type postMessageResponse struct {
		Message string        `json:"message,omitempty"`
		Reply   *chat.Message `json:"reply,omitempty"`
	}

	data := new(postMessageData)
	if err := c.Bind(data); err != nil {
		return c.JSON(http.StatusBadRequest, postMessageResponse{Message: "Invalid request params"})
	}
	if err := c.Validate(data); err != nil {
		return c.JSON(http.StatusBadRequest, postMessageResponse{Message: "Invalid request params"})
	}

	app := appOf(c)
	ctx := c.Request().Context()

	session, err := app.Store.GetSession(ctx, data.ID)
	if err != nil {
		if errors.Is(err, docstore.ErrNotFound) {
			return c.JSON(http.StatusNotFound, postMessageResponse{Message: "Chat not found"})
		}
		return c.JSON(http.StatusInternalServerError, postMessageResponse{Message: "Internal server error"})
	}

	docs, err := app.Store.ListDocuments(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, postMessageResponse{Message: "Internal server error"})
	}
	if len(session.DocumentIDs) > 0 {
		selected := make(map[string]bool, len(session.DocumentIDs))
		for _, id := range session.DocumentIDs {
			selected[id] = true
		}
		filtered := make([]kg.Document, 0, len(docs))
		for i := range docs {
			if selected[docs[i].ID] {
				filtered = append(filtered, docs[i])
			}
		}
		docs = filtered
	}

	answer, err := app.Chat.Ask(ctx, docs, session.Messages, data.Message)
	if err != nil {
		var verr *kg.ValidationError
		if errors.As(err, &verr) {
			return c.JSON(http.StatusBadRequest, postMessageResponse{Message: verr.Error()})
		}
		logger.Error("[Chat] Failed to generate answer", "session_id", data.ID, "err", err)
		return c.JSON(http.StatusBadGateway, postMessageResponse{Message: "Failed to generate answer"})
	}

	now := time.Now().UTC()
	reply := chat.Message{
		Role:      "assistant",
		Content:   answer.Content,
		Citations: answer.Citations,
		CreatedAt: now,
	}
	err = app.Store.AppendMessages(ctx, data.ID,
		chat.Message{Role: "user", Content: data.Message, CreatedAt: now},
		reply,
	)
	if err != nil {
		logger.Error("[Chat] Failed to persist messages", "session_id", data.ID, "err", err)
		return c.JSON(http.StatusInternalServerError, postMessageResponse{Message: "Internal server error"})
	}

	return c.JSON(http.StatusOK, postMessageResponse{Reply: &reply})
}
