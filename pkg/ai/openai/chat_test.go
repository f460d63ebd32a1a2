package openai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func newTestServer(t *testing.T, content string, seen *map[string]any) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasSuffix(r.URL.Path, "/chat/completions") {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if seen != nil {
			_ = json.NewDecoder(r.Body).Decode(seen)
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"id":      "chatcmpl-1",
			"object":  "chat.completion",
			"created": 1,
			"model":   "test-model",
			"choices": []map[string]any{{
				"index":         0,
				"finish_reason": "stop",
				"message":       map[string]any{"role": "assistant", "content": content},
			}},
			"usage": map[string]any{"prompt_tokens": 7, "completion_tokens": 3, "total_tokens": 10},
		})
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestGenerateCompletion(t *testing.T) {
	var body map[string]any
	srv := newTestServer(t, "a short summary", &body)

	client := NewGraphOpenAIClient(NewGraphOpenAIClientParams{
		SummaryModel: "test-model",
		ChatURL:      srv.URL,
		ChatKey:      "secret",
	})

	got, err := client.GenerateCompletion(context.Background(), "summarize")
	if err != nil {
		t.Fatalf("GenerateCompletion() error = %v", err)
	}
	if got != "a short summary" {
		t.Fatalf("GenerateCompletion() = %q", got)
	}
	if body["model"] != "test-model" {
		t.Fatalf("model = %v, want test-model", body["model"])
	}
	if _, ok := body["max_completion_tokens"]; ok {
		t.Fatalf("max_completion_tokens should be omitted by default")
	}

	m := client.GetMetrics()
	if m.Requests != 1 || m.TotalTokens != 10 {
		t.Fatalf("unexpected metrics %+v", m)
	}
	client.ResetMetrics()
	if client.GetMetrics().Requests != 0 {
		t.Fatalf("ResetMetrics() did not clear metrics")
	}
}

func TestGenerateCompletionWithFormat(t *testing.T) {
	var body map[string]any
	srv := newTestServer(t, `{"keywords":["ocean","climate"]}`, &body)

	client := NewGraphOpenAIClient(NewGraphOpenAIClientParams{
		SummaryModel:    "summary-model",
		ExtractionModel: "extract-model",
		ChatURL:         srv.URL,
		ChatKey:         "secret",
	})

	var out struct {
		Keywords []string `json:"keywords"`
	}
	if err := client.GenerateCompletionWithFormat(context.Background(), "keywords", "Keywords", "prompt", &out); err != nil {
		t.Fatalf("GenerateCompletionWithFormat() error = %v", err)
	}
	if len(out.Keywords) != 2 || out.Keywords[0] != "ocean" {
		t.Fatalf("unexpected keywords %#v", out.Keywords)
	}
	if body["model"] != "extract-model" {
		t.Fatalf("model = %v, want extract-model", body["model"])
	}
	if _, ok := body["response_format"]; !ok {
		t.Fatalf("response_format missing from request")
	}
}

func TestGenerateCompletionWithoutKey(t *testing.T) {
	client := NewGraphOpenAIClient(NewGraphOpenAIClientParams{SummaryModel: "m"})
	if _, err := client.GenerateCompletion(context.Background(), "prompt"); err == nil {
		t.Fatalf("expected error without configured client")
	}
}
