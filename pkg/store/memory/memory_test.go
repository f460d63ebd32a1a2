package memory

import (
	"context"
	"errors"
	"testing"

	"github.com/OFFIS-RIT/neurix/backend/pkg/common"
	"github.com/OFFIS-RIT/neurix/backend/pkg/store"
)

var _ store.NodeStorage = (*NodeStorage)(nil)

func TestSaveAndGet(t *testing.T) {
	ctx := context.Background()
	s := NewNodeStorage()

	n := common.Node{ID: "a", Summary: "s", Keys: []string{"ocean"}}
	if err := s.SaveNode(ctx, n); err != nil {
		t.Fatalf("SaveNode() error = %v", err)
	}
	n.Keys[0] = "changed"

	got, err := s.GetNode(ctx, "a")
	if err != nil {
		t.Fatalf("GetNode() error = %v", err)
	}
	if got.Keys[0] != "ocean" {
		t.Fatalf("stored node must not alias the caller's keys")
	}

	if err := s.SaveNode(ctx, common.Node{ID: "a"}); err == nil {
		t.Fatalf("expected error when saving an id twice")
	}
	if _, err := s.GetNode(ctx, "missing"); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestListNodes(t *testing.T) {
	ctx := context.Background()
	s := NewNodeStorage()
	for _, id := range []string{"a", "b", "c", "d"} {
		if err := s.SaveNode(ctx, common.Node{ID: id}); err != nil {
			t.Fatalf("SaveNode() error = %v", err)
		}
	}

	tests := []struct {
		name   string
		limit  int
		offset int
		want   []string
	}{
		{"all", 0, 0, []string{"d", "c", "b", "a"}},
		{"limit", 2, 0, []string{"d", "c"}},
		{"offset", 2, 1, []string{"c", "b"}},
		{"offset past end", 2, 10, []string{}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			nodes, err := s.ListNodes(ctx, tc.limit, tc.offset)
			if err != nil {
				t.Fatalf("ListNodes() error = %v", err)
			}
			if len(nodes) != len(tc.want) {
				t.Fatalf("got %d nodes, want %d", len(nodes), len(tc.want))
			}
			for i, n := range nodes {
				if n.ID != tc.want[i] {
					t.Fatalf("nodes[%d] = %q, want %q", i, n.ID, tc.want[i])
				}
			}
		})
	}
}

func TestCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	s := NewNodeStorage()
	if err := s.SaveNode(ctx, common.Node{ID: "a"}); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}
