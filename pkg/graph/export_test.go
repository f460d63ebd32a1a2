package graph

import (
	"reflect"
	"strings"
	"testing"

	"github.com/OFFIS-RIT/neurix/backend/pkg/common"
)

func TestLabel(t *testing.T) {
	tests := []struct {
		name    string
		summary string
		want    string
	}{
		{"empty", "", ""},
		{"short", "A short summary", "A short summary"},
		{"just below limit", strings.Repeat("a", 29), strings.Repeat("a", 29)},
		{"exactly limit", strings.Repeat("b", 30), strings.Repeat("b", 30) + "..."},
		{"long", strings.Repeat("c", 31) + " tail", strings.Repeat("c", 30) + "..."},
		{"multibyte", strings.Repeat("ü", 35), strings.Repeat("ü", 30) + "..."},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := Label(tc.summary, DefaultLabelLength); got != tc.want {
				t.Fatalf("Label(%q) = %q, want %q", tc.summary, got, tc.want)
			}
		})
	}
}

func TestExportDeterministic(t *testing.T) {
	s := NewStore()
	_ = s.Insert(common.Node{ID: "A", Summary: "Oceans absorb a large share of excess heat", Keys: []string{"ocean", "heat"}})
	_ = s.Insert(common.Node{ID: "B", Summary: "Heat waves", Keys: []string{"heat"}})
	_ = s.Insert(common.Node{ID: "C", Summary: "Ocean policy", Keys: []string{"ocean", "heat"}})

	first := Export(s)
	second := Export(s)
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("Export is not deterministic:\n%#v\n%#v", first, second)
	}

	wantNodes := []common.GraphNode{
		{ID: "A", Label: "Oceans absorb a large share of..."},
		{ID: "B", Label: "Heat waves"},
		{ID: "C", Label: "Ocean policy"},
	}
	if !reflect.DeepEqual(first.Nodes, wantNodes) {
		t.Fatalf("nodes = %#v, want %#v", first.Nodes, wantNodes)
	}

	wantEdges := []common.GraphEdge{
		{Source: "A", Target: "B"},
		{Source: "A", Target: "C"},
		{Source: "B", Target: "C"},
	}
	if !reflect.DeepEqual(first.Edges, wantEdges) {
		t.Fatalf("edges = %#v, want %#v", first.Edges, wantEdges)
	}
}

func TestExportEmptyGraph(t *testing.T) {
	desc := Export(NewStore())
	if desc.Nodes == nil || desc.Edges == nil {
		t.Fatal("empty export should have non-nil slices")
	}
	if len(desc.Nodes) != 0 || len(desc.Edges) != 0 {
		t.Fatalf("expected empty export, got %#v", desc)
	}
}

func TestExportWithLabelLength(t *testing.T) {
	s := NewStore()
	_ = s.Insert(common.Node{ID: "A", Summary: "abcdefghij"})

	desc := ExportWith(s, ExportOptions{LabelLength: 4})
	if desc.Nodes[0].Label != "abcd..." {
		t.Fatalf("unexpected label %q", desc.Nodes[0].Label)
	}
}
