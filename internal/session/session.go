package session

import (
	"cmp"
	"errors"
	"slices"
	"sync"
	"time"

	"github.com/OFFIS-RIT/neurix/backend/pkg/graph"

	gonanoid "github.com/matoous/go-nanoid/v2"
)

// ErrNotFound is returned for unknown session ids.
var ErrNotFound = errors.New("session not found")

// Session owns the graph of one user session.
type Session struct {
	ID        string
	CreatedAt time.Time
	Graph     *graph.Store
}

// Info summarizes a session.
type Info struct {
	ID        string    `json:"id"`
	CreatedAt time.Time `json:"created_at"`
	Nodes     int       `json:"nodes"`
	Edges     int       `json:"edges"`
}

// Info returns the current size of the session graph.
func (s *Session) Info() Info {
	return Info{
		ID:        s.ID,
		CreatedAt: s.CreatedAt,
		Nodes:     s.Graph.Len(),
		Edges:     s.Graph.EdgeCount(),
	}
}

// Manager holds the live sessions. Each session gets its own graph, created
// empty and dropped with the session.
type Manager struct {
	mu       sync.RWMutex
	sessions map[string]*Session
	policy   graph.MatchPolicy
	now      func() time.Time
}

// NewManager creates a Manager whose graphs compare keywords with policy.
func NewManager(policy graph.MatchPolicy) *Manager {
	return &Manager{
		sessions: make(map[string]*Session),
		policy:   policy,
		now:      time.Now,
	}
}

// Create starts a new session with an empty graph.
func (m *Manager) Create() (*Session, error) {
	id, err := gonanoid.New()
	if err != nil {
		return nil, err
	}

	s := &Session{
		ID:        id,
		CreatedAt: m.now().UTC(),
		Graph:     graph.NewStore(graph.WithMatchPolicy(m.policy)),
	}

	m.mu.Lock()
	m.sessions[id] = s
	m.mu.Unlock()

	return s, nil
}

// Get returns the session with id.
func (m *Manager) Get(id string) (*Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	s, ok := m.sessions[id]
	if !ok {
		return nil, ErrNotFound
	}
	return s, nil
}

// Delete ends the session with id and discards its graph.
func (m *Manager) Delete(id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.sessions[id]; !ok {
		return ErrNotFound
	}
	delete(m.sessions, id)
	return nil
}

// List returns all sessions, oldest first.
func (m *Manager) List() []Info {
	m.mu.RLock()
	sessions := make([]*Session, 0, len(m.sessions))
	for _, s := range m.sessions {
		sessions = append(sessions, s)
	}
	m.mu.RUnlock()

	slices.SortFunc(sessions, func(a, b *Session) int {
		if c := a.CreatedAt.Compare(b.CreatedAt); c != 0 {
			return c
		}
		return cmp.Compare(a.ID, b.ID)
	})

	out := make([]Info, 0, len(sessions))
	for _, s := range sessions {
		out = append(out, s.Info())
	}
	return out
}
