package graph

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"reflect"
	"sync"
	"testing"

	"github.com/OFFIS-RIT/neurix/backend/pkg/common"
)

func newNode(id string, keys ...string) common.Node {
	return common.Node{
		ID:      id,
		Summary: "summary of " + id,
		Keys:    keys,
	}
}

func edgeSet(desc common.GraphDescription) map[[2]string]struct{} {
	out := make(map[[2]string]struct{}, len(desc.Edges))
	for _, e := range desc.Edges {
		a, b := e.Source, e.Target
		if b < a {
			a, b = b, a
		}
		out[[2]string{a, b}] = struct{}{}
	}
	return out
}

func TestLinks(t *testing.T) {
	tests := []struct {
		name string
		a    []string
		b    []string
		want bool
	}{
		{"shared keyword", []string{"ocean", "climate"}, []string{"climate", "policy"}, true},
		{"disjoint", []string{"ocean"}, []string{"finance"}, false},
		{"empty left", nil, []string{"finance"}, false},
		{"empty both", []string{}, []string{}, false},
		{"case differs", []string{"Ocean"}, []string{"ocean"}, false},
		{"duplicates", []string{"a", "a"}, []string{"b", "a"}, true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			a := newNode("a", tc.a...)
			b := newNode("b", tc.b...)
			if got := Links(a, b); got != tc.want {
				t.Fatalf("Links(%v, %v) = %v, want %v", tc.a, tc.b, got, tc.want)
			}
			if got := Links(b, a); got != tc.want {
				t.Fatalf("Links is not symmetric for %v, %v", tc.a, tc.b)
			}
		})
	}
}

func TestMatchPolicyFold(t *testing.T) {
	a := newNode("a", "Ocean")
	b := newNode("b", "OCEAN")
	if !MatchFold.Links(a, b) {
		t.Fatalf("fold policy should link %v and %v", a.Keys, b.Keys)
	}
	if MatchExact.Links(a, b) {
		t.Fatalf("exact policy should not link %v and %v", a.Keys, b.Keys)
	}
}

func TestParseMatchPolicy(t *testing.T) {
	tests := []struct {
		in      string
		want    MatchPolicy
		wantErr bool
	}{
		{"", MatchExact, false},
		{"exact", MatchExact, false},
		{" FOLD ", MatchFold, false},
		{"lower", "", true},
	}
	for _, tc := range tests {
		t.Run(tc.in, func(t *testing.T) {
			got, err := ParseMatchPolicy(tc.in)
			if (err != nil) != tc.wantErr {
				t.Fatalf("ParseMatchPolicy(%q) error = %v, wantErr %v", tc.in, err, tc.wantErr)
			}
			if got != tc.want {
				t.Fatalf("ParseMatchPolicy(%q) = %q, want %q", tc.in, got, tc.want)
			}
		})
	}
}

func TestStoreScenario(t *testing.T) {
	s := NewStore()
	for _, n := range []common.Node{
		newNode("A", "ocean", "climate"),
		newNode("B", "climate", "policy"),
		newNode("C", "finance"),
	} {
		if err := s.Insert(n); err != nil {
			t.Fatalf("Insert(%s) failed: %v", n.ID, err)
		}
	}

	if s.Len() != 3 {
		t.Fatalf("expected 3 nodes, got %d", s.Len())
	}

	desc := s.Snapshot()
	want := []common.GraphEdge{{Source: "A", Target: "B"}}
	if !reflect.DeepEqual(desc.Edges, want) {
		t.Fatalf("edges = %#v, want %#v", desc.Edges, want)
	}
	if got := s.Edges(); !reflect.DeepEqual(got, want) {
		t.Fatalf("Edges() = %#v, want %#v", got, want)
	}

	neighbors, ok := s.Neighbors("C")
	if !ok {
		t.Fatal("C should be part of the graph")
	}
	if len(neighbors) != 0 {
		t.Fatalf("C should have no neighbors, got %d", len(neighbors))
	}
}

func TestStoreEmptyKeysNeverLink(t *testing.T) {
	s := NewStore()
	_ = s.Insert(newNode("A", "ocean"))
	_ = s.Insert(newNode("B"))
	_ = s.Insert(newNode("C", "ocean"))

	if s.EdgeCount() != 1 {
		t.Fatalf("expected 1 edge, got %d", s.EdgeCount())
	}
	if n, _ := s.Neighbors("B"); len(n) != 0 {
		t.Fatalf("node without keys should have no neighbors, got %d", len(n))
	}
}

func TestStoreRejectsInvalidAndDuplicate(t *testing.T) {
	s := NewStore()
	if err := s.Insert(newNode("", "x")); !errors.Is(err, ErrInvalidNode) {
		t.Fatalf("expected ErrInvalidNode, got %v", err)
	}
	if err := s.Insert(newNode("A", "x")); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := s.Insert(newNode("A", "x")); !errors.Is(err, ErrDuplicateNode) {
		t.Fatalf("expected ErrDuplicateNode, got %v", err)
	}
	if s.Len() != 1 || s.EdgeCount() != 0 {
		t.Fatalf("store changed after rejected insert: len=%d edges=%d", s.Len(), s.EdgeCount())
	}
}

func TestStoreReturnsCopies(t *testing.T) {
	s := NewStore()
	keys := []string{"ocean"}
	_ = s.Insert(newNode("A", keys...))
	keys[0] = "changed"

	nodes := s.AllNodes()
	nodes[0].Keys[0] = "mutated"

	got, _ := s.Node("A")
	if got.Keys[0] != "ocean" {
		t.Fatalf("graph-resident node was mutated: %v", got.Keys)
	}
}

func TestStoreMatchesEdgeRule(t *testing.T) {
	vocabulary := []string{"ocean", "climate", "policy", "finance", "energy", "Ocean", "water", "tax"}
	r := rand.New(rand.NewPCG(1, 2))

	for _, policy := range []MatchPolicy{MatchExact, MatchFold} {
		t.Run(string(policy), func(t *testing.T) {
			s := NewStore(WithMatchPolicy(policy))
			var inserted []common.Node
			var previous map[[2]string]struct{}

			for i := 0; i < 60; i++ {
				keys := make([]string, r.IntN(4))
				for k := range keys {
					keys[k] = vocabulary[r.IntN(len(vocabulary))]
				}
				n := newNode(fmt.Sprintf("n%02d", i), keys...)
				if err := s.Insert(n); err != nil {
					t.Fatalf("Insert failed: %v", err)
				}
				inserted = append(inserted, n)

				got := edgeSet(s.Snapshot())
				want := make(map[[2]string]struct{})
				for a := 0; a < len(inserted); a++ {
					for b := a + 1; b < len(inserted); b++ {
						if policy.Links(inserted[a], inserted[b]) {
							want[[2]string{inserted[a].ID, inserted[b].ID}] = struct{}{}
						}
					}
				}
				if !reflect.DeepEqual(got, want) {
					t.Fatalf("after %d inserts edges = %v, want %v", i+1, got, want)
				}
				if s.EdgeCount() != len(want) {
					t.Fatalf("EdgeCount = %d, want %d", s.EdgeCount(), len(want))
				}
				for e := range previous {
					if _, ok := got[e]; !ok {
						t.Fatalf("edge %v disappeared after inserting %s", e, n.ID)
					}
				}
				previous = got
			}
		})
	}
}

func TestStoreConcurrentInsert(t *testing.T) {
	s := NewStore()
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_ = s.Insert(newNode(fmt.Sprintf("n%02d", i), "shared"))
			_ = s.Snapshot()
		}(i)
	}
	wg.Wait()

	if s.Len() != 50 {
		t.Fatalf("expected 50 nodes, got %d", s.Len())
	}
	if want := 50 * 49 / 2; s.EdgeCount() != want {
		t.Fatalf("expected %d edges, got %d", want, s.EdgeCount())
	}
}
