package common

// SourceUserNote is the source label attached to manually entered notes.
const SourceUserNote = "user_note"

// Node is the compact record derived from one unit of ingested text.
// It carries the original content, a short summary, the keywords extracted
// from that summary and free-form metadata.
//
// A Node is immutable once created. Code that hands nodes to other
// components passes copies; see Clone.
type Node struct {
	ID       string   `json:"id"`
	Summary  string   `json:"summary"`
	Content  string   `json:"content"`
	Keys     []string `json:"keys"`
	Metadata Metadata `json:"metadata"`
	IsPublic bool     `json:"is_public"`
}

// Metadata describes where a node came from.
//
// CreatedAt is the caller supplied timestamp and may be empty if unknown.
// Source names the originating file or SourceUserNote for typed notes.
type Metadata struct {
	CreatedAt string `json:"created_at"`
	Source    string `json:"source"`
}

// Clone returns a deep copy of the node so callers can not modify the
// keyword slice of a node held elsewhere.
func (n Node) Clone() Node {
	out := n
	if n.Keys != nil {
		out.Keys = append(make([]string, 0, len(n.Keys)), n.Keys...)
	}
	return out
}

// GraphDescription is a renderable, point-in-time description of a graph.
// Nodes are listed in insertion order. Edge order carries no meaning.
type GraphDescription struct {
	Nodes []GraphNode `json:"nodes"`
	Edges []GraphEdge `json:"edges"`
}

// GraphNode is a vertex of a GraphDescription.
type GraphNode struct {
	ID    string `json:"id"`
	Label string `json:"label"`
}

// GraphEdge is an undirected edge of a GraphDescription. Source is the
// endpoint that was inserted first.
type GraphEdge struct {
	Source string `json:"source"`
	Target string `json:"target"`
}
