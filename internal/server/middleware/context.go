package middleware

import (
	"context"

	"github.com/OFFIS-RIT/neurix/backend/internal/ingest"
	"github.com/OFFIS-RIT/neurix/backend/internal/session"
	"github.com/OFFIS-RIT/neurix/backend/pkg/ai"
	"github.com/OFFIS-RIT/neurix/backend/pkg/store"

	"github.com/labstack/echo/v4"
)

// FileStore returns archived uploads by key.
type FileStore interface {
	GetFile(ctx context.Context, key string) ([]byte, error)
}

// App bundles the long lived services handlers work with.
type App struct {
	Sessions    *session.Manager
	Pipeline    *ingest.Pipeline
	Storage     store.NodeStorage
	AiClient    ai.GraphAIClient
	Files       FileStore
	LabelLength int
}

type AppContext struct {
	echo.Context
	App     *App
	Session *session.Session
}

func AppContextMiddleware(app *App) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			cc := &AppContext{c, app, nil}
			return next(cc)
		}
	}
}
