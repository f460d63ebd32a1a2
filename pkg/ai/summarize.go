package ai

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"
)

// FallbackSummaryLength is the number of characters kept by FallbackSummary.
const FallbackSummaryLength = 200

// FallbackSummary is used in place of a model summary when the summarizer
// fails. Text of FallbackSummaryLength characters or more is cut to that
// length and followed by "...", shorter text is returned unchanged.
func FallbackSummary(text string) string {
	if utf8.RuneCountInString(text) < FallbackSummaryLength {
		return text
	}
	runes := []rune(text)
	return string(runes[:FallbackSummaryLength]) + "..."
}

// ModelSummarizer summarizes text with a GraphAIClient.
type ModelSummarizer struct {
	client GraphAIClient
	opts   []GenerateOption
}

// NewModelSummarizer creates a summarizer that prompts client with
// SummaryPrompt. opts are passed to every completion request.
func NewModelSummarizer(client GraphAIClient, opts ...GenerateOption) *ModelSummarizer {
	return &ModelSummarizer{
		client: client,
		opts:   opts,
	}
}

// Summarize returns the model summary of text. Empty input is returned as is
// without a model call.
func (s *ModelSummarizer) Summarize(ctx context.Context, text string) (string, error) {
	if strings.TrimSpace(text) == "" {
		return text, nil
	}

	prompt := fmt.Sprintf(SummaryPrompt, text)
	res, err := s.client.GenerateCompletion(ctx, prompt, s.opts...)
	if err != nil {
		return "", fmt.Errorf("summary generation failed: %w", err)
	}

	summary := strings.TrimSpace(res)
	if summary == "" {
		return "", fmt.Errorf("summary generation returned no text")
	}
	return summary, nil
}
