package routes

import (
	"mime"
	"net/http"

	"github.com/OFFIS-RIT/neurix/backend/internal/server/middleware"
	"github.com/OFFIS-RIT/neurix/backend/internal/storage"
	"github.com/OFFIS-RIT/neurix/backend/pkg/common"
	"github.com/OFFIS-RIT/neurix/backend/pkg/loader"
	"github.com/OFFIS-RIT/neurix/backend/pkg/logger"

	_ "github.com/go-playground/validator"
	"github.com/labstack/echo/v4"
)

// GetNodeFileHandler returns the archived upload a node was created from
func GetNodeFileHandler(c echo.Context) error {
	type getNodeFileParams struct {
		NodeID string `param:"node_id" validate:"required"`
	}

	params := new(getNodeFileParams)
	if err := c.Bind(params); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request params"})
	}
	if err := c.Validate(params); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request params"})
	}

	cc := c.(*middleware.AppContext)
	if cc.App.Files == nil {
		return c.JSON(http.StatusNotFound, map[string]string{"error": "File archive not configured"})
	}

	n, ok := cc.Session.Graph.Node(params.NodeID)
	if !ok {
		return c.JSON(http.StatusNotFound, map[string]string{"error": "Node not found"})
	}
	if n.Metadata.Source == common.SourceUserNote {
		return c.JSON(http.StatusNotFound, map[string]string{"error": "Node was not created from a file"})
	}

	key := storage.Key(n.ID, n.Metadata.Source)
	data, err := cc.App.Files.GetFile(c.Request().Context(), key)
	if err != nil {
		logger.Warn("[Node] Failed to load archived file", "node_id", n.ID, "key", key, "err", err)
		return c.JSON(http.StatusNotFound, map[string]string{"error": "File not found"})
	}

	contentType := mime.TypeByExtension("." + loader.Extension(n.Metadata.Source))
	if contentType == "" {
		contentType = echo.MIMEOctetStream
	}
	c.Response().Header().Set(echo.HeaderContentDisposition, mime.FormatMediaType("attachment", map[string]string{"filename": n.Metadata.Source}))
	return c.Blob(http.StatusOK, contentType, data)
}
