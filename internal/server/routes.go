package server

import (
	"github.com/labstack/echo/v4"

	"github.com/corpora-lab/papergraph/internal/server/routes"
)

func RegisterRoutes(e *echo.Echo) {
	// Health check route
	e.GET("/health", func(c echo.Context) error {
		return c.String(200, "OK")
	})

	apiRoutes := e.Group("/api")

	// Document routes
	apiRoutes.GET("/documents", routes.GetDocumentsHandler)
	apiRoutes.POST("/documents", routes.UploadDocumentHandler)
	apiRoutes.GET("/documents/:id", routes.GetDocumentHandler)
	apiRoutes.PATCH("/documents/:id", routes.EditDocumentHandler)
	apiRoutes.DELETE("/documents/:id", routes.DeleteDocumentHandler)
	apiRoutes.GET("/documents/:id/download", routes.GetDownloadLinkHandler)

	// Graph routes
	apiRoutes.GET("/graph", routes.GetGraphHandler)
	apiRoutes.GET("/graph/duplicates", routes.GetDuplicatesHandler)
	apiRoutes.POST("/graph/merge", routes.MergeNodesHandler)
	apiRoutes.GET("/graph/disconnected", routes.GetDisconnectedHandler)
	apiRoutes.POST("/graph/prune", routes.PruneNodesHandler)
	apiRoutes.GET("/graph/export", routes.ExportGraphHandler)
	apiRoutes.PATCH("/graph/nodes/:node_id", routes.EditNodeHandler)
	apiRoutes.GET("/stats", routes.GetStatsHandler)

	// Chat routes
	apiRoutes.GET("/chats", routes.GetChatsHandler)
	apiRoutes.POST("/chats", routes.CreateChatHandler)
	apiRoutes.GET("/chats/:id", routes.GetChatHandler)
	apiRoutes.POST("/chats/:id/messages", routes.PostChatMessageHandler)
	apiRoutes.DELETE("/chats/:id", routes.DeleteChatHandler)
}
