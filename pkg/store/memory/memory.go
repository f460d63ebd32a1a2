package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/OFFIS-RIT/neurix/backend/pkg/common"
	"github.com/OFFIS-RIT/neurix/backend/pkg/store"
)

// NodeStorage keeps persisted nodes in process memory. It is used when no
// database is configured and in tests.
type NodeStorage struct {
	mu    sync.RWMutex
	nodes map[string]common.Node
	order []string
}

// NewNodeStorage creates an empty NodeStorage.
func NewNodeStorage() *NodeStorage {
	return &NodeStorage{
		nodes: make(map[string]common.Node),
	}
}

// SaveNode stores a copy of node. Saving an id twice is an error.
func (s *NodeStorage) SaveNode(ctx context.Context, node common.Node) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.nodes[node.ID]; exists {
		return fmt.Errorf("node %s already saved", node.ID)
	}
	s.nodes[node.ID] = node.Clone()
	s.order = append(s.order, node.ID)
	return nil
}

// GetNode returns the node with id or store.ErrNotFound.
func (s *NodeStorage) GetNode(ctx context.Context, id string) (common.Node, error) {
	if err := ctx.Err(); err != nil {
		return common.Node{}, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	n, ok := s.nodes[id]
	if !ok {
		return common.Node{}, store.ErrNotFound
	}
	return n.Clone(), nil
}

// ListNodes returns up to limit nodes starting at offset, most recently
// saved first.
func (s *NodeStorage) ListNodes(ctx context.Context, limit int, offset int) ([]common.Node, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = store.DefaultListLimit
	}
	offset = max(offset, 0)

	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]common.Node, 0, min(limit, len(s.order)))
	for i := len(s.order) - 1 - offset; i >= 0 && len(out) < limit; i-- {
		out = append(out, s.nodes[s.order[i]].Clone())
	}
	return out, nil
}
