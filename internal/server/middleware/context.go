package middleware

import (
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/labstack/echo/v4"
	"github.com/rabbitmq/amqp091-go"

	"github.com/corpora-lab/papergraph/pkg/ai"
	"github.com/corpora-lab/papergraph/pkg/chat"
	"github.com/corpora-lab/papergraph/pkg/docstore"
)

// App bundles the collaborators every route handler needs.
type App struct {
	Store    docstore.Store
	Queue    *amqp091.Channel
	S3       *s3.Client
	AiClient ai.Client
	Chat     *chat.Service
}

type AppContext struct {
	echo.Context
	App *App
}

func AppContextMiddleware(app *App) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			cc := &AppContext{c, app}
			return next(cc)
		}
	}
}
