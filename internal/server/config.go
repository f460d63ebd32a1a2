package server

import (
	"fmt"
	"strings"
	"time"

	"github.com/OFFIS-RIT/neurix/backend/internal/ingest"
	"github.com/OFFIS-RIT/neurix/backend/internal/util"
	"github.com/OFFIS-RIT/neurix/backend/pkg/ai"
	"github.com/OFFIS-RIT/neurix/backend/pkg/graph"
	"github.com/OFFIS-RIT/neurix/backend/pkg/node"
)

const (
	AdapterOpenAI = "openai"
	AdapterOllama = "ollama"

	KeywordAdapterModel      = "model"
	KeywordAdapterStructured = "structured"
	KeywordAdapterHeuristic  = "heuristic"

	StoreAdapterPostgres = "postgres"
	StoreAdapterMemory   = "memory"
)

// Config is the server configuration read from the environment.
type Config struct {
	Port string

	AIAdapter        string
	ChatModel        string
	ExtractModel     string
	ChatURL          string
	ChatKey          string
	ParallelRequests int
	RequestTimeout   time.Duration

	KeywordAdapter string
	KeywordCap     int
	MatchPolicy    graph.MatchPolicy
	LabelLength    int
	IngestParallel int

	StoreAdapter   string
	DatabaseURL    string
	MigrationsPath string
}

// LoadConfig reads the configuration from the environment. Unknown adapter
// names and missing required variables are reported as an error.
func LoadConfig() (Config, error) {
	cfg := Config{
		Port: util.GetEnvString("PORT", "8080"),

		AIAdapter:        strings.ToLower(util.GetEnvString("AI_ADAPTER", AdapterOpenAI)),
		ChatModel:        util.GetEnv("AI_CHAT_MODEL"),
		ExtractModel:     util.GetEnv("AI_EXTRACT_MODEL"),
		ChatURL:          util.GetEnv("AI_CHAT_URL"),
		ChatKey:          util.GetEnv("AI_CHAT_KEY"),
		ParallelRequests: util.GetEnvInt("AI_PARALLEL_REQ", 15),
		RequestTimeout:   time.Duration(util.GetEnvInt("AI_REQUEST_TIMEOUT_SECONDS", int(node.DefaultTimeout/time.Second))) * time.Second,

		KeywordAdapter: strings.ToLower(util.GetEnvString("KEYWORD_ADAPTER", KeywordAdapterModel)),
		KeywordCap:     util.GetEnvInt("KEYWORD_CAP", ai.DefaultTopK),
		LabelLength:    util.GetEnvInt("LABEL_LENGTH", graph.DefaultLabelLength),
		IngestParallel: util.GetEnvInt("INGEST_PARALLEL", ingest.DefaultParallel),

		StoreAdapter:   strings.ToLower(util.GetEnvString("STORE_ADAPTER", StoreAdapterPostgres)),
		DatabaseURL:    util.GetEnv("DATABASE_URL"),
		MigrationsPath: util.GetEnvString("MIGRATIONS_PATH", "file://migrations"),
	}
	if cfg.ExtractModel == "" {
		cfg.ExtractModel = cfg.ChatModel
	}

	policy, err := graph.ParseMatchPolicy(util.GetEnvString("KEYWORD_MATCH", string(graph.MatchExact)))
	if err != nil {
		return Config{}, err
	}
	cfg.MatchPolicy = policy

	required := []string{"AI_CHAT_MODEL"}
	switch cfg.AIAdapter {
	case AdapterOpenAI:
		required = append(required, "AI_CHAT_KEY")
	case AdapterOllama:
		required = append(required, "AI_CHAT_URL")
	default:
		return Config{}, fmt.Errorf("unknown AI_ADAPTER %q", cfg.AIAdapter)
	}

	switch cfg.KeywordAdapter {
	case KeywordAdapterModel, KeywordAdapterStructured, KeywordAdapterHeuristic:
	default:
		return Config{}, fmt.Errorf("unknown KEYWORD_ADAPTER %q", cfg.KeywordAdapter)
	}

	switch cfg.StoreAdapter {
	case StoreAdapterPostgres:
		required = append(required, "DATABASE_URL")
	case StoreAdapterMemory:
	default:
		return Config{}, fmt.Errorf("unknown STORE_ADAPTER %q", cfg.StoreAdapter)
	}

	if missing := util.MissingEnv(required...); len(missing) > 0 {
		return Config{}, fmt.Errorf("missing required environment variables: %s", strings.Join(missing, ", "))
	}

	return cfg, nil
}
