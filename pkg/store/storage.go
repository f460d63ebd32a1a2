package store

import (
	"context"
	"errors"

	"github.com/OFFIS-RIT/neurix/backend/pkg/common"
)

// ErrNotFound is returned when a node does not exist in the storage.
var ErrNotFound = errors.New("node not found")

// DefaultListLimit is used by ListNodes when no positive limit is given.
const DefaultListLimit = 100

// NodeStorage persists created nodes outside of the in-memory graph.
// Saving is done once per node; the graph does not depend on the outcome.
type NodeStorage interface {
	SaveNode(ctx context.Context, node common.Node) error
	GetNode(ctx context.Context, id string) (common.Node, error)
	// ListNodes returns persisted nodes, most recently saved first.
	ListNodes(ctx context.Context, limit int, offset int) ([]common.Node, error)
}
