package util

import (
	"os"
	"strconv"
	"strings"

	"github.com/OFFIS-RIT/neurix/backend/pkg/logger"

	"github.com/joho/godotenv"
)

func LoadEnv() {
	if err := godotenv.Load(); err != nil {
		logger.Debug("No .env file found, using system environment variables")
	}
}

func GetEnv(key string) string {
	value, exists := os.LookupEnv(key)
	if !exists {
		return ""
	}
	return value
}

func GetEnvString(key string, defaultValue string) string {
	value, exists := os.LookupEnv(key)
	if !exists || value == "" {
		return defaultValue
	}

	return value
}

func GetEnvNumeric(key string, defaultValue int) float64 {
	value, exists := os.LookupEnv(key)
	if !exists {
		return float64(defaultValue)
	}
	returnValue, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return float64(defaultValue)
	}

	return returnValue
}

// GetEnvInt reads key as a positive integer, falling back to defaultValue
// for missing, malformed or non-positive values.
func GetEnvInt(key string, defaultValue int) int {
	value := int(GetEnvNumeric(key, defaultValue))
	if value <= 0 {
		return defaultValue
	}
	return value
}

func GetEnvBool(key string, defaultValue bool) bool {
	value, exists := os.LookupEnv(key)
	if !exists {
		return defaultValue
	}

	if value == "true" || value == "false" {
		return value == "true"
	}

	return defaultValue
}

// MissingEnv returns the keys that are unset or blank.
func MissingEnv(keys ...string) []string {
	var missing []string
	for _, key := range keys {
		if strings.TrimSpace(GetEnv(key)) == "" {
			missing = append(missing, key)
		}
	}
	return missing
}
