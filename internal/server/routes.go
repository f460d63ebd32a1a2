package server

import (
	"github.com/OFFIS-RIT/neurix/backend/internal/server/middleware"
	"github.com/OFFIS-RIT/neurix/backend/internal/server/routes"

	"github.com/labstack/echo/v4"
)

func RegisterRoutes(e *echo.Echo) {
	// Health check route
	e.GET("/health", func(c echo.Context) error {
		return c.String(200, "OK")
	})

	apiRoutes := e.Group("/api")

	// Session routes
	apiRoutes.GET("/sessions", routes.GetSessionsHandler)
	apiRoutes.POST("/sessions", routes.CreateSessionHandler)
	apiRoutes.GET("/sessions/:id", routes.GetSessionHandler, middleware.RequireSession)
	apiRoutes.DELETE("/sessions/:id", routes.DeleteSessionHandler, middleware.RequireSession)

	// Session graph routes
	apiRoutes.GET("/sessions/:id/graph", routes.GetGraphHandler, middleware.RequireSession)
	apiRoutes.GET("/sessions/:id/nodes", routes.GetSessionNodesHandler, middleware.RequireSession)
	apiRoutes.POST("/sessions/:id/nodes", routes.CreateNodeHandler, middleware.RequireSession)
	apiRoutes.POST("/sessions/:id/nodes/batch", routes.CreateNodesBatchHandler, middleware.RequireSession)
	apiRoutes.GET("/sessions/:id/nodes/:node_id", routes.GetSessionNodeHandler, middleware.RequireSession)
	apiRoutes.POST("/sessions/:id/files", routes.UploadFileHandler, middleware.RequireSession)
	apiRoutes.GET("/sessions/:id/nodes/:node_id/file", routes.GetNodeFileHandler, middleware.RequireSession)

	// Stored node routes
	apiRoutes.GET("/nodes", routes.GetStoredNodesHandler)
	apiRoutes.GET("/nodes/:node_id", routes.GetStoredNodeHandler)

	apiRoutes.GET("/metrics", routes.GetMetricsHandler)
	apiRoutes.DELETE("/metrics", routes.ResetMetricsHandler)
}
