package ingest

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/OFFIS-RIT/neurix/backend/pkg/common"
	"github.com/OFFIS-RIT/neurix/backend/pkg/graph"
	"github.com/OFFIS-RIT/neurix/backend/pkg/loader"
	"github.com/OFFIS-RIT/neurix/backend/pkg/logger"
	"github.com/OFFIS-RIT/neurix/backend/pkg/node"
	"github.com/OFFIS-RIT/neurix/backend/pkg/store"

	"golang.org/x/sync/errgroup"
)

// ErrPersist marks a node that is part of the graph but could not be saved.
var ErrPersist = errors.New("failed to persist node")

// DefaultParallel is the number of batch inputs processed at the same time.
const DefaultParallel = 4

// EventPublisher announces created nodes.
type EventPublisher interface {
	PublishNodeCreated(ctx context.Context, sessionID string, node common.Node, persisted bool) error
}

// FileArchiver keeps the original bytes of uploaded files.
type FileArchiver interface {
	PutFile(ctx context.Context, nodeID string, name string, data []byte) (string, error)
}

// Input is one piece of text to turn into a node.
type Input struct {
	Text   string
	Source string
}

// Result describes an ingested node. PersistErr is set, wrapping ErrPersist,
// when the node could not be saved; the node is still part of the graph.
type Result struct {
	Node       common.Node
	PersistErr error
}

// Persisted reports whether the node was saved.
func (r Result) Persisted() bool {
	return r.PersistErr == nil
}

// Pipeline turns text into nodes, inserts them into a session graph and
// hands them to the optional storage, publisher and archiver.
type Pipeline struct {
	factory   *node.Factory
	storage   store.NodeStorage
	publisher EventPublisher
	archiver  FileArchiver
	parallel  int
}

// PipelineOption configures a Pipeline.
type PipelineOption func(*Pipeline)

// WithStorage saves every created node to s.
func WithStorage(s store.NodeStorage) PipelineOption {
	return func(p *Pipeline) {
		p.storage = s
	}
}

// WithPublisher publishes a node.created event for every node.
func WithPublisher(pub EventPublisher) PipelineOption {
	return func(p *Pipeline) {
		p.publisher = pub
	}
}

// WithArchiver stores uploaded files before they are ingested.
func WithArchiver(a FileArchiver) PipelineOption {
	return func(p *Pipeline) {
		p.archiver = a
	}
}

// WithParallel limits concurrent node creation in IngestBatch.
func WithParallel(n int) PipelineOption {
	return func(p *Pipeline) {
		if n > 0 {
			p.parallel = n
		}
	}
}

// NewPipeline creates a Pipeline building nodes with factory.
func NewPipeline(factory *node.Factory, opts ...PipelineOption) *Pipeline {
	p := &Pipeline{
		factory:  factory,
		parallel: DefaultParallel,
	}
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		opt(p)
	}
	return p
}

// Ingest creates a node from in and adds it to g.
//
// The returned error is only set when no node was added to the graph.
// Storage failures are reported through Result.PersistErr.
func (p *Pipeline) Ingest(ctx context.Context, g *graph.Store, sessionID string, in Input) (Result, error) {
	n, err := p.factory.CreateNow(ctx, in.Text, in.Source)
	if err != nil {
		return Result{}, err
	}
	return p.commit(ctx, g, sessionID, n)
}

// IngestBatch creates nodes for all inputs concurrently and then adds them
// to g in input order. Nothing is added when a node could not be created.
func (p *Pipeline) IngestBatch(ctx context.Context, g *graph.Store, sessionID string, inputs []Input) ([]Result, error) {
	start := time.Now()
	nodes := make([]common.Node, len(inputs))

	eg, egCtx := errgroup.WithContext(ctx)
	eg.SetLimit(p.parallel)
	for i, in := range inputs {
		eg.Go(func() error {
			n, err := p.factory.CreateNow(egCtx, in.Text, in.Source)
			if err != nil {
				return fmt.Errorf("input %d: %w", i, err)
			}
			nodes[i] = n
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}

	results := make([]Result, 0, len(nodes))
	for _, n := range nodes {
		res, err := p.commit(ctx, g, sessionID, n)
		if err != nil {
			return results, err
		}
		results = append(results, res)
	}

	logger.Debug("[Ingest] Batch ingested", "session_id", sessionID, "nodes", len(results), "duration_ms", time.Since(start).Milliseconds())
	return results, nil
}

// IngestFile decodes an uploaded file and ingests its text with name as
// source. Images are rejected with loader.ErrUnsupported. With an archiver
// configured the original bytes are stored under the node id first.
func (p *Pipeline) IngestFile(
	ctx context.Context,
	g *graph.Store,
	sessionID string,
	name string,
	contentType string,
	data []byte,
) (Result, error) {
	text, err := loader.DecodeText(data, contentType)
	if err != nil {
		return Result{}, err
	}

	n, err := p.factory.CreateNow(ctx, text, name)
	if err != nil {
		return Result{}, err
	}

	if p.archiver != nil {
		if key, err := p.archiver.PutFile(ctx, n.ID, name, data); err != nil {
			logger.Warn("[Ingest] Failed to archive upload", "node_id", n.ID, "file", name, "err", err)
		} else {
			logger.Debug("[Ingest] Archived upload", "node_id", n.ID, "key", key)
		}
	}

	return p.commit(ctx, g, sessionID, n)
}

func (p *Pipeline) commit(ctx context.Context, g *graph.Store, sessionID string, n common.Node) (Result, error) {
	if err := g.Insert(n); err != nil {
		return Result{}, err
	}
	res := Result{Node: n}

	if p.storage != nil {
		if err := p.storage.SaveNode(ctx, n); err != nil {
			res.PersistErr = fmt.Errorf("%w: %w", ErrPersist, err)
			logger.Error("[Ingest] Failed to persist node", "session_id", sessionID, "node_id", n.ID, "err", err)
		}
	}

	if p.publisher != nil {
		if err := p.publisher.PublishNodeCreated(ctx, sessionID, n, res.Persisted()); err != nil {
			logger.Warn("[Ingest] Failed to publish node event", "session_id", sessionID, "node_id", n.ID, "err", err)
		}
	}

	logger.Info("[Ingest] Node created", "session_id", sessionID, "node_id", n.ID, "source", n.Metadata.Source, "keys", len(n.Keys))
	return res, nil
}
