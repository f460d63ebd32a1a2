package pgx

import (
	"context"
	"errors"
	"fmt"

	"github.com/OFFIS-RIT/neurix/backend/internal/util"
	"github.com/OFFIS-RIT/neurix/backend/pkg/common"
	"github.com/OFFIS-RIT/neurix/backend/pkg/store"

	pgxv5 "github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

type pgxIConn interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, optionsAndArgs ...any) (pgxv5.Rows, error)
	QueryRow(ctx context.Context, sql string, optionsAndArgs ...any) pgxv5.Row
}

const insertNodeSQL = `
INSERT INTO nodes (id, summary, content, keys, metadata, is_public)
VALUES ($1, $2, $3, $4, $5, $6)`

const selectNodeSQL = `
SELECT id, summary, content, keys, metadata, is_public
FROM nodes
WHERE id = $1`

const listNodesSQL = `
SELECT id, summary, content, keys, metadata, is_public
FROM nodes
ORDER BY inserted_at DESC, id
LIMIT $1 OFFSET $2`

// NodeDBStorage implements store.NodeStorage on PostgreSQL. Nodes live in
// the nodes table with keywords as TEXT[] and metadata as JSONB.
type NodeDBStorage struct {
	conn pgxIConn
}

// NewNodeDBStorageWithConnection creates a NodeDBStorage using an existing
// connection or pool.
func NewNodeDBStorageWithConnection(conn pgxIConn) *NodeDBStorage {
	return &NodeDBStorage{conn: conn}
}

// SaveNode inserts node. Text is stripped of NUL bytes and invalid UTF-8
// which PostgreSQL refuses to store.
func (s *NodeDBStorage) SaveNode(ctx context.Context, node common.Node) error {
	keys := make([]string, len(node.Keys))
	for i, k := range node.Keys {
		keys[i] = util.SanitizePostgresText(k)
	}
	metadata := common.Metadata{
		CreatedAt: util.SanitizePostgresText(node.Metadata.CreatedAt),
		Source:    util.SanitizePostgresText(node.Metadata.Source),
	}

	_, err := s.conn.Exec(
		ctx,
		insertNodeSQL,
		node.ID,
		util.SanitizePostgresText(node.Summary),
		util.SanitizePostgresText(node.Content),
		keys,
		metadata,
		node.IsPublic,
	)
	if err != nil {
		return fmt.Errorf("failed to save node %s: %w", node.ID, err)
	}
	return nil
}

// GetNode loads the node with id or returns store.ErrNotFound.
func (s *NodeDBStorage) GetNode(ctx context.Context, id string) (common.Node, error) {
	n, err := scanNode(s.conn.QueryRow(ctx, selectNodeSQL, id))
	if errors.Is(err, pgxv5.ErrNoRows) {
		return common.Node{}, store.ErrNotFound
	}
	if err != nil {
		return common.Node{}, fmt.Errorf("failed to load node %s: %w", id, err)
	}
	return n, nil
}

// ListNodes returns up to limit nodes starting at offset, most recently
// inserted first.
func (s *NodeDBStorage) ListNodes(ctx context.Context, limit int, offset int) ([]common.Node, error) {
	if limit <= 0 {
		limit = store.DefaultListLimit
	}
	offset = max(offset, 0)

	rows, err := s.conn.Query(ctx, listNodesSQL, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list nodes: %w", err)
	}
	defer rows.Close()

	nodes := make([]common.Node, 0, limit)
	for rows.Next() {
		n, err := scanNode(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan node: %w", err)
		}
		nodes = append(nodes, n)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list nodes: %w", err)
	}
	return nodes, nil
}

func scanNode(row pgxv5.Row) (common.Node, error) {
	var n common.Node
	if err := row.Scan(&n.ID, &n.Summary, &n.Content, &n.Keys, &n.Metadata, &n.IsPublic); err != nil {
		return common.Node{}, err
	}
	if n.Keys == nil {
		n.Keys = []string{}
	}
	return n, nil
}
