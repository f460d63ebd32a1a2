package routes

import (
	"errors"
	"io"
	"net/http"
	"path/filepath"

	"github.com/OFFIS-RIT/neurix/backend/internal/server/middleware"
	"github.com/OFFIS-RIT/neurix/backend/pkg/loader"
	"github.com/OFFIS-RIT/neurix/backend/pkg/logger"

	"github.com/labstack/echo/v4"
)

// MaxUploadSize is the largest file accepted by UploadFileHandler.
const MaxUploadSize = 32 << 20

// UploadFileHandler turns an uploaded text file into a node. The file name
// becomes the node source.
func UploadFileHandler(c echo.Context) error {
	file, err := c.FormFile("file")
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Missing file"})
	}
	if file.Size > MaxUploadSize {
		return c.JSON(http.StatusRequestEntityTooLarge, map[string]string{"error": "File too large"})
	}

	src, err := file.Open()
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Failed to read file"})
	}
	defer src.Close()

	data, err := io.ReadAll(io.LimitReader(src, MaxUploadSize))
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Failed to read file"})
	}

	cc := c.(*middleware.AppContext)
	ctx := c.Request().Context()
	name := filepath.Base(file.Filename)

	res, err := cc.App.Pipeline.IngestFile(
		ctx,
		cc.Session.Graph,
		cc.Session.ID,
		name,
		file.Header.Get("Content-Type"),
		data,
	)
	if errors.Is(err, loader.ErrUnsupported) {
		return c.JSON(http.StatusUnsupportedMediaType, map[string]string{"error": "Unsupported file type"})
	}
	if err != nil {
		logger.Error("[Node] Failed to create node from file", "session_id", cc.Session.ID, "file", name, "err", err)
		status, msg := ingestStatus(err)
		return c.JSON(status, map[string]string{"error": msg})
	}

	type uploadFileResponse struct {
		Message string `json:"message"`
		nodeResult
	}
	return c.JSON(http.StatusCreated, uploadFileResponse{
		Message:    "File added successfully",
		nodeResult: newNodeResult(res),
	})
}
