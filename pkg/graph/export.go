package graph

import (
	"unicode/utf8"

	"github.com/OFFIS-RIT/neurix/backend/pkg/common"
)

// DefaultLabelLength is the number of summary characters kept in a
// snapshot label.
const DefaultLabelLength = 30

// Ellipsis marks a truncated label.
const Ellipsis = "..."

// ExportOptions configures Export.
type ExportOptions struct {
	LabelLength int
}

// Export produces a renderable description of the graph with default
// options. See ExportWith.
func Export(s *Store) common.GraphDescription {
	return ExportWith(s, ExportOptions{LabelLength: DefaultLabelLength})
}

// ExportWith produces a renderable description of the graph.
//
// Nodes are listed in insertion order, each with a label cut from its
// summary. Every edge is listed once with the earlier inserted node as
// source, ordered by source and then target position, so two exports of an
// unchanged graph are identical.
func ExportWith(s *Store, opts ExportOptions) common.GraphDescription {
	labelLength := opts.LabelLength
	if labelLength <= 0 {
		labelLength = DefaultLabelLength
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	desc := common.GraphDescription{
		Nodes: make([]common.GraphNode, 0, len(s.nodes)),
		Edges: s.edgesLocked(),
	}
	for _, n := range s.nodes {
		desc.Nodes = append(desc.Nodes, common.GraphNode{
			ID:    n.ID,
			Label: Label(n.Summary, labelLength),
		})
	}

	return desc
}

// Label truncates summary to length characters followed by Ellipsis.
// Summaries shorter than length are returned unchanged.
func Label(summary string, length int) string {
	if utf8.RuneCountInString(summary) < length {
		return summary
	}
	runes := []rune(summary)
	return string(runes[:length]) + Ellipsis
}
