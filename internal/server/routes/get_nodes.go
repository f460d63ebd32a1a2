package routes

import (
	"errors"
	"net/http"

	"github.com/OFFIS-RIT/neurix/backend/internal/server/middleware"
	"github.com/OFFIS-RIT/neurix/backend/pkg/common"
	"github.com/OFFIS-RIT/neurix/backend/pkg/graph"
	"github.com/OFFIS-RIT/neurix/backend/pkg/logger"
	"github.com/OFFIS-RIT/neurix/backend/pkg/store"

	_ "github.com/go-playground/validator"
	"github.com/labstack/echo/v4"
)

func GetSessionNodesHandler(c echo.Context) error {
	type getNodesResponse struct {
		Nodes []common.Node `json:"nodes"`
	}

	s := c.(*middleware.AppContext).Session
	return c.JSON(http.StatusOK, getNodesResponse{Nodes: s.Graph.AllNodes()})
}

// GetSessionNodeHandler returns a node of the session graph together with
// the nodes it is linked to.
func GetSessionNodeHandler(c echo.Context) error {
	type getNodeParams struct {
		NodeID string `param:"node_id" validate:"required"`
	}

	type getNodeResponse struct {
		Node      common.Node   `json:"node"`
		Neighbors []common.Node `json:"neighbors"`
	}

	params := new(getNodeParams)
	if err := c.Bind(params); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request params"})
	}
	if err := c.Validate(params); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request params"})
	}

	g := c.(*middleware.AppContext).Session.Graph
	n, ok := g.Node(params.NodeID)
	if !ok {
		return c.JSON(http.StatusNotFound, map[string]string{"error": "Node not found"})
	}
	neighbors, _ := g.Neighbors(params.NodeID)

	return c.JSON(http.StatusOK, getNodeResponse{
		Node:      n,
		Neighbors: neighbors,
	})
}

// GetGraphHandler exports a snapshot of the session graph for rendering
func GetGraphHandler(c echo.Context) error {
	cc := c.(*middleware.AppContext)
	desc := graph.ExportWith(cc.Session.Graph, graph.ExportOptions{
		LabelLength: cc.App.LabelLength,
	})
	return c.JSON(http.StatusOK, desc)
}

// GetStoredNodesHandler lists persisted nodes across all sessions, newest
// first.
func GetStoredNodesHandler(c echo.Context) error {
	type getStoredNodesQuery struct {
		Limit  int `query:"limit" validate:"omitempty,min=1,max=1000"`
		Offset int `query:"offset" validate:"omitempty,min=0"`
	}

	type getStoredNodesResponse struct {
		Nodes []common.Node `json:"nodes"`
	}

	query := new(getStoredNodesQuery)
	if err := c.Bind(query); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid query params"})
	}
	if err := c.Validate(query); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid query params"})
	}
	if query.Limit == 0 {
		query.Limit = store.DefaultListLimit
	}

	storage := c.(*middleware.AppContext).App.Storage
	if storage == nil {
		return c.JSON(http.StatusOK, getStoredNodesResponse{Nodes: []common.Node{}})
	}

	nodes, err := storage.ListNodes(c.Request().Context(), query.Limit, query.Offset)
	if err != nil {
		logger.Error("[Node] Failed to list stored nodes", "err", err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Internal server error"})
	}
	return c.JSON(http.StatusOK, getStoredNodesResponse{Nodes: nodes})
}

// GetStoredNodeHandler loads a persisted node by id
func GetStoredNodeHandler(c echo.Context) error {
	type getStoredNodeParams struct {
		NodeID string `param:"node_id" validate:"required"`
	}

	params := new(getStoredNodeParams)
	if err := c.Bind(params); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request params"})
	}
	if err := c.Validate(params); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request params"})
	}

	storage := c.(*middleware.AppContext).App.Storage
	if storage == nil {
		return c.JSON(http.StatusNotFound, map[string]string{"error": "Node not found"})
	}

	n, err := storage.GetNode(c.Request().Context(), params.NodeID)
	if errors.Is(err, store.ErrNotFound) {
		return c.JSON(http.StatusNotFound, map[string]string{"error": "Node not found"})
	}
	if err != nil {
		logger.Error("[Node] Failed to load node", "node_id", params.NodeID, "err", err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Internal server error"})
	}
	return c.JSON(http.StatusOK, n)
}

// GetMetricsHandler reports the model usage since startup
func GetMetricsHandler(c echo.Context) error {
	client := c.(*middleware.AppContext).App.AiClient
	if client == nil {
		return c.JSON(http.StatusNotFound, map[string]string{"error": "No model configured"})
	}
	return c.JSON(http.StatusOK, client.GetMetrics())
}

func ResetMetricsHandler(c echo.Context) error {
	client := c.(*middleware.AppContext).App.AiClient
	if client == nil {
		return c.JSON(http.StatusNotFound, map[string]string{"error": "No model configured"})
	}
	client.ResetMetrics()
	return c.NoContent(http.StatusNoContent)
}
