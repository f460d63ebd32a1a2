package graph

import (
	"errors"
	"fmt"
	"maps"
	"slices"
	"sync"

	"github.com/OFFIS-RIT/neurix/backend/pkg/common"
)

var (
	// ErrInvalidNode is returned when a node without an identifier is inserted.
	ErrInvalidNode = errors.New("node has no id")
	// ErrDuplicateNode is returned when a node id is already part of the graph.
	ErrDuplicateNode = errors.New("node id already exists")
)

// Store holds the nodes of one session and the undirected edges between
// every pair of nodes whose keyword sets intersect.
//
// Nodes keep their insertion order. Edges are maintained incrementally: an
// inverted index from keyword to node positions means an insert only visits
// the nodes that share a keyword with the new node.
//
// All methods are safe for concurrent use. An insert is atomic with respect
// to every other method, so readers never see a node before its edges.
type Store struct {
	policy MatchPolicy

	mu    sync.RWMutex
	nodes []common.Node
	ids   map[string]int
	keys  map[string][]int
	adj   [][]int
	edges int
}

// StoreOption configures a Store.
type StoreOption func(*Store)

// WithMatchPolicy sets how keywords are compared. The default is MatchExact.
func WithMatchPolicy(policy MatchPolicy) StoreOption {
	return func(s *Store) {
		s.policy = policy
	}
}

// NewStore creates an empty graph.
func NewStore(opts ...StoreOption) *Store {
	s := &Store{
		policy: MatchExact,
		ids:    make(map[string]int),
		keys:   make(map[string][]int),
	}
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		opt(s)
	}
	return s
}

// Policy returns the keyword match policy of the store.
func (s *Store) Policy() MatchPolicy {
	return s.policy
}

// Insert appends node to the graph and links it to every node already
// present that shares a keyword with it. Edges among existing nodes are
// never touched.
//
// Inserting a node without an id fails with ErrInvalidNode, inserting an id
// that is already present fails with ErrDuplicateNode. The graph is left
// unchanged in both cases.
func (s *Store) Insert(node common.Node) error {
	if node.ID == "" {
		return ErrInvalidNode
	}
	node = node.Clone()

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.ids[node.ID]; ok {
		return fmt.Errorf("%w: %s", ErrDuplicateNode, node.ID)
	}

	pos := len(s.nodes)
	linked := make(map[int]struct{})
	seen := make(map[string]struct{}, len(node.Keys))
	for _, k := range node.Keys {
		key := s.policy.Key(k)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}

		for _, other := range s.keys[key] {
			linked[other] = struct{}{}
		}
		s.keys[key] = append(s.keys[key], pos)
	}

	neighbors := slices.Sorted(maps.Keys(linked))

	s.nodes = append(s.nodes, node)
	s.ids[node.ID] = pos
	s.adj = append(s.adj, neighbors)
	for _, other := range neighbors {
		// positions grow monotonically, so the lists stay sorted
		s.adj[other] = append(s.adj[other], pos)
	}
	s.edges += len(neighbors)

	return nil
}

// AllNodes returns the nodes of the graph in insertion order.
func (s *Store) AllNodes() []common.Node {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]common.Node, len(s.nodes))
	for i, n := range s.nodes {
		out[i] = n.Clone()
	}
	return out
}

// Node returns the node with the given id.
func (s *Store) Node(id string) (common.Node, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	pos, ok := s.ids[id]
	if !ok {
		return common.Node{}, false
	}
	return s.nodes[pos].Clone(), true
}

// Neighbors returns the nodes linked to id in insertion order. The second
// return value is false if id is not part of the graph.
func (s *Store) Neighbors(id string) ([]common.Node, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	pos, ok := s.ids[id]
	if !ok {
		return nil, false
	}
	out := make([]common.Node, 0, len(s.adj[pos]))
	for _, other := range s.adj[pos] {
		out = append(out, s.nodes[other].Clone())
	}
	return out, true
}

// Len returns the number of nodes.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.nodes)
}

// EdgeCount returns the number of undirected edges.
func (s *Store) EdgeCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.edges
}

// Edges returns every edge once, ordered by the insertion position of the
// source and then the target. Source is the earlier inserted endpoint.
func (s *Store) Edges() []common.GraphEdge {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.edgesLocked()
}

func (s *Store) edgesLocked() []common.GraphEdge {
	out := make([]common.GraphEdge, 0, s.edges)
	for i, neighbors := range s.adj {
		for _, other := range neighbors {
			if other <= i {
				continue
			}
			out = append(out, common.GraphEdge{
				Source: s.nodes[i].ID,
				Target: s.nodes[other].ID,
			})
		}
	}
	return out
}

// Snapshot exports the current graph with the default export options.
func (s *Store) Snapshot() common.GraphDescription {
	return Export(s)
}
