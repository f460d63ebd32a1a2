package server

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/OFFIS-RIT/neurix/backend/internal/ingest"
	"github.com/OFFIS-RIT/neurix/backend/internal/queue"
	mid "github.com/OFFIS-RIT/neurix/backend/internal/server/middleware"
	"github.com/OFFIS-RIT/neurix/backend/internal/session"
	"github.com/OFFIS-RIT/neurix/backend/internal/storage"
	"github.com/OFFIS-RIT/neurix/backend/internal/util"
	"github.com/OFFIS-RIT/neurix/backend/pkg/ai"
	"github.com/OFFIS-RIT/neurix/backend/pkg/ai/ollama"
	"github.com/OFFIS-RIT/neurix/backend/pkg/ai/openai"
	"github.com/OFFIS-RIT/neurix/backend/pkg/logger"
	"github.com/OFFIS-RIT/neurix/backend/pkg/node"
	"github.com/OFFIS-RIT/neurix/backend/pkg/store"
	"github.com/OFFIS-RIT/neurix/backend/pkg/store/memory"
	pgdb "github.com/OFFIS-RIT/neurix/backend/pkg/store/pgx"

	"github.com/go-playground/validator"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
)

type CustomValidator struct {
	validator *validator.Validate
}

func (cv *CustomValidator) Validate(i any) error {
	if err := cv.validator.Struct(i); err != nil {
		return err
	}
	return nil
}

func NewAIClient(cfg Config) (ai.GraphAIClient, error) {
	switch cfg.AIAdapter {
	case AdapterOllama:
		return ollama.NewGraphOllamaClient(ollama.NewGraphOllamaClientParams{
			SummaryModel:          cfg.ChatModel,
			ExtractionModel:       cfg.ExtractModel,
			BaseURL:               cfg.ChatURL,
			ApiKey:                cfg.ChatKey,
			MaxConcurrentRequests: int64(cfg.ParallelRequests),
		})
	default:
		return openai.NewGraphOpenAIClient(openai.NewGraphOpenAIClientParams{
			SummaryModel:    cfg.ChatModel,
			ExtractionModel: cfg.ExtractModel,
			ChatURL:         cfg.ChatURL,
			ChatKey:         cfg.ChatKey,
		}), nil
	}
}

func NewKeywordExtractor(cfg Config, client ai.GraphAIClient) ai.KeywordExtractor {
	switch cfg.KeywordAdapter {
	case KeywordAdapterHeuristic:
		return ai.NewHeuristicKeywordExtractor()
	case KeywordAdapterStructured:
		return ai.NewStructuredKeywordExtractor(client)
	default:
		return ai.NewModelKeywordExtractor(client, ai.WithModel(cfg.ExtractModel))
	}
}

// NewFactory wires the summarizer and keyword extractor selected by cfg
// into a node factory.
func NewFactory(cfg Config, client ai.GraphAIClient) *node.Factory {
	return node.NewFactory(
		ai.NewModelSummarizer(client),
		NewKeywordExtractor(cfg, client),
		node.WithKeyCap(cfg.KeywordCap),
		node.WithTimeout(cfg.RequestTimeout),
	)
}

func Init() {
	cfg, err := LoadConfig()
	if err != nil {
		logger.Fatal("Invalid configuration", "err", err)
	}

	e := echo.New()
	e.HideBanner = true
	e.Validator = &CustomValidator{validator: validator.New()}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	aiClient, err := NewAIClient(cfg)
	if err != nil {
		logger.Fatal("Failed to create AI client", "adapter", cfg.AIAdapter, "err", err)
	}

	pipelineOpts := []ingest.PipelineOption{ingest.WithParallel(cfg.IngestParallel)}

	var nodeStorage store.NodeStorage
	switch cfg.StoreAdapter {
	case StoreAdapterPostgres:
		conn, err := pgxpool.New(ctx, cfg.DatabaseURL)
		if err != nil {
			logger.Fatal("Failed to connect to database", "err", err)
		}
		defer conn.Close()

		err = util.RetryErrWithContext(ctx, 5, 2*time.Second, conn.Ping)
		if err != nil {
			logger.Fatal("Failed to reach database", "err", err)
		}
		if err := pgdb.Migrate(cfg.DatabaseURL, cfg.MigrationsPath); err != nil {
			logger.Fatal("Failed to migrate database", "err", err)
		}
		nodeStorage = pgdb.NewNodeDBStorageWithConnection(conn)
	default:
		nodeStorage = memory.NewNodeStorage()
	}
	pipelineOpts = append(pipelineOpts, ingest.WithStorage(nodeStorage))

	if queue.Enabled() {
		que := queue.Init()
		defer que.Close()
		ch, err := que.Channel()
		if err != nil {
			logger.Fatal("Failed to open channel", "err", err)
		}
		if err := queue.SetupExchange(ch); err != nil {
			logger.Fatal("Failed to declare exchange", "exchange", queue.EventsExchange, "err", err)
		}
		pipelineOpts = append(pipelineOpts, ingest.WithPublisher(queue.NewPublisher(ch)))
	}

	var files mid.FileStore
	if storage.Enabled() {
		s3, err := storage.NewS3Client(ctx)
		if err != nil {
			logger.Fatal("Failed to create S3 client", "err", err)
		}
		archive := storage.NewArchive(s3, util.GetEnv("AWS_BUCKET"))
		pipelineOpts = append(pipelineOpts, ingest.WithArchiver(archive))
		files = archive
	}

	app := &mid.App{
		Sessions:    session.NewManager(cfg.MatchPolicy),
		Pipeline:    ingest.NewPipeline(NewFactory(cfg, aiClient), pipelineOpts...),
		Storage:     nodeStorage,
		AiClient:    aiClient,
		Files:       files,
		LabelLength: cfg.LabelLength,
	}

	e.Use(mid.AppContextMiddleware(app))
	e.Use(middleware.CORS())
	e.Use(middleware.RequestLogger())
	e.Use(middleware.Recover())
	e.Use(middleware.BodyLimit("64M"))

	RegisterRoutes(e)

	go func() {
		logger.Info("Starting server",
			"port", cfg.Port,
			"ai_adapter", cfg.AIAdapter,
			"keyword_adapter", cfg.KeywordAdapter,
			"store_adapter", cfg.StoreAdapter,
		)
		if err := e.Start(":" + cfg.Port); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Failed shutting down server", "err", err)
		}
	}()

	<-ctx.Done()
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(ctx); err != nil {
		logger.Error("Failed to shutdown server", "err", err)
	}

	m := aiClient.GetMetrics()
	logger.Info("Model usage", "requests", m.Requests, "total_tokens", m.TotalTokens, "duration_ms", m.DurationMs)
}
