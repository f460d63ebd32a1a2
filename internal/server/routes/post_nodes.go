package routes

import (
	"errors"
	"net/http"
	"strings"

	"github.com/OFFIS-RIT/neurix/backend/internal/ingest"
	"github.com/OFFIS-RIT/neurix/backend/internal/server/middleware"
	"github.com/OFFIS-RIT/neurix/backend/pkg/common"
	"github.com/OFFIS-RIT/neurix/backend/pkg/graph"
	"github.com/OFFIS-RIT/neurix/backend/pkg/logger"

	_ "github.com/go-playground/validator"
	"github.com/labstack/echo/v4"
)

// MaxBatchSize is the largest number of texts accepted by one batch request.
const MaxBatchSize = 64

type nodeResult struct {
	Node         common.Node `json:"node"`
	Persisted    bool        `json:"persisted"`
	PersistError string      `json:"persist_error,omitempty"`
}

func newNodeResult(res ingest.Result) nodeResult {
	out := nodeResult{
		Node:      res.Node,
		Persisted: res.Persisted(),
	}
	if res.PersistErr != nil {
		out.PersistError = res.PersistErr.Error()
	}
	return out
}

func ingestStatus(err error) (int, string) {
	switch {
	case errors.Is(err, graph.ErrDuplicateNode):
		return http.StatusConflict, "Node already exists"
	case errors.Is(err, graph.ErrInvalidNode):
		return http.StatusBadRequest, "Invalid node"
	default:
		return http.StatusInternalServerError, "Internal server error"
	}
}

// CreateNodeHandler turns a typed note into a node of the session graph
func CreateNodeHandler(c echo.Context) error {
	type createNodeBody struct {
		Text string `json:"text" validate:"required"`
	}

	type createNodeResponse struct {
		Message string `json:"message"`
		nodeResult
	}

	data := new(createNodeBody)
	if err := c.Bind(data); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request body"})
	}
	if err := c.Validate(data); err != nil || strings.TrimSpace(data.Text) == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request body"})
	}

	cc := c.(*middleware.AppContext)
	ctx := c.Request().Context()

	res, err := cc.App.Pipeline.Ingest(ctx, cc.Session.Graph, cc.Session.ID, ingest.Input{
		Text:   data.Text,
		Source: common.SourceUserNote,
	})
	if err != nil {
		logger.Error("[Node] Failed to create node", "session_id", cc.Session.ID, "err", err)
		status, msg := ingestStatus(err)
		return c.JSON(status, map[string]string{"error": msg})
	}

	return c.JSON(http.StatusCreated, createNodeResponse{
		Message:    "Node created successfully",
		nodeResult: newNodeResult(res),
	})
}

// CreateNodesBatchHandler turns several notes into nodes. The nodes are
// added in request order.
func CreateNodesBatchHandler(c echo.Context) error {
	type createNodesBody struct {
		Texts []string `json:"texts" validate:"required,min=1,max=64,dive,required"`
	}

	type createNodesResponse struct {
		Message string       `json:"message"`
		Nodes   []nodeResult `json:"nodes,omitempty"`
	}

	data := new(createNodesBody)
	if err := c.Bind(data); err != nil {
		return c.JSON(http.StatusBadRequest, createNodesResponse{Message: "Invalid request body"})
	}
	if err := c.Validate(data); err != nil {
		return c.JSON(http.StatusBadRequest, createNodesResponse{Message: "Invalid request body"})
	}

	inputs := make([]ingest.Input, 0, len(data.Texts))
	for _, text := range data.Texts {
		inputs = append(inputs, ingest.Input{Text: text, Source: common.SourceUserNote})
	}

	cc := c.(*middleware.AppContext)
	ctx := c.Request().Context()

	results, err := cc.App.Pipeline.IngestBatch(ctx, cc.Session.Graph, cc.Session.ID, inputs)
	if err != nil {
		logger.Error("[Node] Failed to create nodes", "session_id", cc.Session.ID, "created", len(results), "err", err)
		status, msg := ingestStatus(err)
		return c.JSON(status, createNodesResponse{Message: msg})
	}

	nodes := make([]nodeResult, 0, len(results))
	for _, res := range results {
		nodes = append(nodes, newNodeResult(res))
	}

	return c.JSON(http.StatusCreated, createNodesResponse{
		Message: "Nodes created successfully",
		Nodes:   nodes,
	})
}
