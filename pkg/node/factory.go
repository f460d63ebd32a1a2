package node

import (
	"context"
	"fmt"
	"slices"
	"time"

	"github.com/OFFIS-RIT/neurix/backend/pkg/ai"
	"github.com/OFFIS-RIT/neurix/backend/pkg/common"
	"github.com/OFFIS-RIT/neurix/backend/pkg/logger"

	gonanoid "github.com/matoous/go-nanoid/v2"
)

// DefaultTimeout bounds a single summarizer or keyword extractor call.
const DefaultTimeout = 30 * time.Second

// Factory builds nodes from raw text with a summarizer and a keyword
// extractor. Collaborator failures never abort node creation: a failed
// summary is replaced by ai.FallbackSummary and failed keywords by an empty
// list.
//
// A Factory is safe for concurrent use.
type Factory struct {
	summarizer ai.Summarizer
	extractor  ai.KeywordExtractor

	keyCap  int
	timeout time.Duration
	newID   func() (string, error)
	now     func() time.Time
}

// FactoryOption configures a Factory.
type FactoryOption func(*Factory)

// WithKeyCap sets the maximum number of keywords per node.
func WithKeyCap(limit int) FactoryOption {
	return func(f *Factory) {
		if limit > 0 {
			f.keyCap = limit
		}
	}
}

// WithTimeout sets the per call timeout for both collaborators.
func WithTimeout(timeout time.Duration) FactoryOption {
	return func(f *Factory) {
		if timeout > 0 {
			f.timeout = timeout
		}
	}
}

// WithIDGenerator replaces the nanoid based id generator.
func WithIDGenerator(gen func() (string, error)) FactoryOption {
	return func(f *Factory) {
		if gen != nil {
			f.newID = gen
		}
	}
}

// WithClock sets the clock used by CreateNow.
func WithClock(now func() time.Time) FactoryOption {
	return func(f *Factory) {
		if now != nil {
			f.now = now
		}
	}
}

// NewFactory creates a Factory using summarizer and extractor.
func NewFactory(
	summarizer ai.Summarizer,
	extractor ai.KeywordExtractor,
	opts ...FactoryOption,
) *Factory {
	f := &Factory{
		summarizer: summarizer,
		extractor:  extractor,
		keyCap:     ai.DefaultTopK,
		timeout:    DefaultTimeout,
		newID:      func() (string, error) { return gonanoid.New() },
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// KeyCap returns the configured keyword limit.
func (f *Factory) KeyCap() int {
	return f.keyCap
}

// Create builds a node from raw. The summary is derived from raw and the
// keywords from the summary. source and now end up in the node metadata as
// given; now may be empty.
//
// An error is only returned when ctx is already done or no id could be
// generated.
func (f *Factory) Create(ctx context.Context, raw string, source string, now string) (common.Node, error) {
	if err := ctx.Err(); err != nil {
		return common.Node{}, err
	}

	id, err := f.newID()
	if err != nil {
		return common.Node{}, fmt.Errorf("failed to generate node id: %w", err)
	}

	summary := f.summarize(ctx, raw, source)
	keys := f.extractKeys(ctx, summary, source)

	return common.Node{
		ID:      id,
		Summary: summary,
		Content: raw,
		Keys:    keys,
		Metadata: common.Metadata{
			CreatedAt: now,
			Source:    source,
		},
		IsPublic: false,
	}, nil
}

// CreateNow is Create with the current time of the factory clock in
// RFC 3339 format.
func (f *Factory) CreateNow(ctx context.Context, raw string, source string) (common.Node, error) {
	return f.Create(ctx, raw, source, f.now().UTC().Format(time.RFC3339))
}

func (f *Factory) summarize(ctx context.Context, raw string, source string) string {
	if f.summarizer == nil {
		return ai.FallbackSummary(raw)
	}

	cCtx, cancel := context.WithTimeout(ctx, f.timeout)
	defer cancel()

	summary, err := f.summarizer.Summarize(cCtx, raw)
	if err != nil {
		logger.Warn("[Node] Summarizer failed, using fallback summary", "source", source, "err", err)
		return ai.FallbackSummary(raw)
	}
	return summary
}

func (f *Factory) extractKeys(ctx context.Context, summary string, source string) []string {
	if f.extractor == nil {
		return []string{}
	}

	cCtx, cancel := context.WithTimeout(ctx, f.timeout)
	defer cancel()

	keys, err := f.extractor.ExtractKeys(cCtx, summary, f.keyCap)
	if err != nil {
		logger.Warn("[Node] Keyword extraction failed, node has no keywords", "source", source, "err", err)
		return []string{}
	}
	if keys == nil {
		return []string{}
	}
	if len(keys) > f.keyCap {
		keys = keys[:f.keyCap]
	}
	return slices.Clone(keys)
}
