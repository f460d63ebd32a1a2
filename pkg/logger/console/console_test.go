package console

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
)

func TestConsoleLoggerLevels(t *testing.T) {
	var buf bytes.Buffer
	l := NewConsoleLogger(ConsoleLoggerParams{Output: &buf})

	l.Debug("hidden")
	l.Info("visible", "port", "8080")

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Fatalf("debug output without Debug flag: %q", out)
	}
	if !strings.Contains(out, "visible") || !strings.Contains(out, "port=8080") {
		t.Fatalf("missing info line: %q", out)
	}
}

func TestConsoleLoggerJSON(t *testing.T) {
	var buf bytes.Buffer
	l := NewConsoleLogger(ConsoleLoggerParams{Output: &buf, JSON: true, Debug: true})

	l.Warn("degraded", "source", "notes.txt")

	var line map[string]any
	if err := json.Unmarshal(buf.Bytes(), &line); err != nil {
		t.Fatalf("expected one JSON object, got %q: %v", buf.String(), err)
	}
	if line["msg"] != "degraded" || line["source"] != "notes.txt" || line["level"] != "warn" {
		t.Fatalf("unexpected JSON line %v", line)
	}
}
