package routes

import (
	"net/http"
	"time"

	"github.com/OFFIS-RIT/neurix/backend/internal/server/middleware"
	"github.com/OFFIS-RIT/neurix/backend/internal/session"
	"github.com/OFFIS-RIT/neurix/backend/pkg/logger"

	_ "github.com/go-playground/validator"
	"github.com/labstack/echo/v4"
)

// CreateSessionHandler starts a session with an empty graph
func CreateSessionHandler(c echo.Context) error {
	type createSessionResponse struct {
		Message string        `json:"message"`
		Session *session.Info `json:"session,omitempty"`
	}

	sessions := c.(*middleware.AppContext).App.Sessions
	s, err := sessions.Create()
	if err != nil {
		logger.Error("[Session] Failed to create session", "err", err)
		return c.JSON(http.StatusInternalServerError, createSessionResponse{
			Message: "Internal server error",
		})
	}

	info := s.Info()
	logger.Info("[Session] Created session", "session_id", s.ID)
	return c.JSON(http.StatusCreated, createSessionResponse{
		Message: "Session created successfully",
		Session: &info,
	})
}

func GetSessionsHandler(c echo.Context) error {
	type getSessionsResponse struct {
		Sessions []session.Info `json:"sessions"`
	}

	sessions := c.(*middleware.AppContext).App.Sessions
	return c.JSON(http.StatusOK, getSessionsResponse{
		Sessions: sessions.List(),
	})
}

func GetSessionHandler(c echo.Context) error {
	s := c.(*middleware.AppContext).Session
	return c.JSON(http.StatusOK, s.Info())
}

// DeleteSessionHandler ends a session and discards its graph. Persisted
// nodes stay in storage.
func DeleteSessionHandler(c echo.Context) error {
	type deleteSessionResponse struct {
		Message string `json:"message"`
	}

	cc := c.(*middleware.AppContext)
	if err := cc.App.Sessions.Delete(cc.Session.ID); err != nil {
		return c.JSON(http.StatusNotFound, deleteSessionResponse{Message: "Session not found"})
	}

	logger.Info("[Session] Deleted session", "session_id", cc.Session.ID, "age", time.Since(cc.Session.CreatedAt).Round(time.Second))
	return c.JSON(http.StatusOK, deleteSessionResponse{Message: "Session deleted successfully"})
}
