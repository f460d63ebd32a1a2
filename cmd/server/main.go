package main

import (
	"strings"

	"github.com/OFFIS-RIT/neurix/backend/internal/server"
	"github.com/OFFIS-RIT/neurix/backend/internal/util"
	"github.com/OFFIS-RIT/neurix/backend/pkg/logger"
	"github.com/OFFIS-RIT/neurix/backend/pkg/logger/console"

	_ "github.com/lib/pq"
)

func main() {
	util.LoadEnv()

	debug := util.GetEnvBool("DEBUG", false)
	jsonLogs := strings.EqualFold(util.GetEnv("LOG_FORMAT"), "json")

	consoleLogger := console.NewConsoleLogger(console.ConsoleLoggerParams{
		Debug: debug,
		JSON:  jsonLogs,
	})
	logger.Init(consoleLogger)

	server.Init()
}
