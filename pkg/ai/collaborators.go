package ai

import "context"

// DefaultTopK is the default number of keywords extracted per node.
const DefaultTopK = 8

// Summarizer reduces raw text to a short summary.
type Summarizer interface {
	Summarize(ctx context.Context, text string) (string, error)
}

// KeywordExtractor returns up to topK keywords for text, most relevant
// first.
type KeywordExtractor interface {
	ExtractKeys(ctx context.Context, text string, topK int) ([]string, error)
}

// SummarizerFunc adapts a plain function to the Summarizer interface.
type SummarizerFunc func(ctx context.Context, text string) (string, error)

// Summarize calls f(ctx, text).
func (f SummarizerFunc) Summarize(ctx context.Context, text string) (string, error) {
	return f(ctx, text)
}

// KeywordExtractorFunc adapts a plain function to the KeywordExtractor
// interface.
type KeywordExtractorFunc func(ctx context.Context, text string, topK int) ([]string, error)

// ExtractKeys calls f(ctx, text, topK).
func (f KeywordExtractorFunc) ExtractKeys(ctx context.Context, text string, topK int) ([]string, error) {
	return f(ctx, text, topK)
}
