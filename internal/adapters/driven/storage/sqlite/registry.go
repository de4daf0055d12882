package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/custodia-labs/ocesync/internal/adapters/driven/storage/nodeid"
	"github.com/custodia-labs/ocesync/internal/core/domain"
	"github.com/custodia-labs/ocesync/internal/core/ports/driven"
)

// nodeRegistry implements driven.NodeRegistry.
type nodeRegistry struct {
	store *Store
}

var _ driven.NodeRegistry = (*nodeRegistry)(nil)

// MintID returns a deterministic id for seed.
func (r *nodeRegistry) MintID(seed string) string {
	return nodeid.Mint(seed)
}

// CreateNode upserts a node and marks it touched.
// Outgoing links are dropped; the caller re-links the node's children.
func (r *nodeRegistry) CreateNode(ctx context.Context, node *domain.Node) error {
	if node == nil || node.ID == "" {
		return fmt.Errorf("%w: node id is required", domain.ErrInvalidInput)
	}

	attrs, err := json.Marshal(node.Attributes)
	if err != nil {
		return fmt.Errorf("marshalling attributes: %w", err)
	}
	fields, err := json.Marshal(node.Fields)
	if err != nil {
		return fmt.Errorf("marshalling fields: %w", err)
	}

	tx, err := r.store.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // no-op after commit

	_, err = tx.ExecContext(ctx, `
		INSERT INTO nodes (id, type, parent, content_digest, attributes, fields, touched_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			type = excluded.type,
			parent = excluded.parent,
			content_digest = excluded.content_digest,
			attributes = excluded.attributes,
			fields = excluded.fields,
			touched_at = excluded.touched_at
	`, node.ID, node.Type, nullString(node.Parent), node.ContentDigest,
		string(attrs), string(fields), r.store.now().UnixNano())
	if err != nil {
		return fmt.Errorf("saving node: %w", err)
	}

	if _, err := tx.ExecContext(ctx, "DELETE FROM node_links WHERE parent_id = ?", node.ID); err != nil {
		return fmt.Errorf("resetting node links: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing node: %w", err)
	}
	return nil
}

// TouchNode marks a node as still referenced.
func (r *nodeRegistry) TouchNode(ctx context.Context, id string) error {
	res, err := r.store.db.ExecContext(ctx,
		"UPDATE nodes SET touched_at = ? WHERE id = ?", r.store.now().UnixNano(), id)
	if err != nil {
		return fmt.Errorf("touching node: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("touching node: %w", err)
	}
	if n == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// LinkParentChild records an edge and sets the child's parent.
func (r *nodeRegistry) LinkParentChild(ctx context.Context, parentID, childID string) error {
	tx, err := r.store.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // no-op after commit

	for _, id := range []string{parentID, childID} {
		var exists int
		err := tx.QueryRowContext(ctx, "SELECT COUNT(*) FROM nodes WHERE id = ?", id).Scan(&exists)
		if err != nil {
			return fmt.Errorf("checking node %s: %w", id, err)
		}
		if exists == 0 {
			return fmt.Errorf("node %s: %w", id, domain.ErrNotFound)
		}
	}

	_, err = tx.ExecContext(ctx, `
		INSERT OR IGNORE INTO node_links (parent_id, child_id, position)
		VALUES (?, ?, (SELECT COUNT(*) FROM node_links WHERE parent_id = ?))
	`, parentID, childID, parentID)
	if err != nil {
		return fmt.Errorf("saving link: %w", err)
	}

	if _, err := tx.ExecContext(ctx, "UPDATE nodes SET parent = ? WHERE id = ?", parentID, childID); err != nil {
		return fmt.Errorf("setting parent: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing link: %w", err)
	}
	return nil
}

// GetNode retrieves a node by id with its children.
func (r *nodeRegistry) GetNode(ctx context.Context, id string) (*domain.Node, error) {
	row := r.store.db.QueryRowContext(ctx, `
		SELECT id, type, parent, content_digest, attributes, fields, touched_at
		FROM nodes WHERE id = ?
	`, id)

	node, err := scanNode(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}

	children, err := r.children(ctx, id)
	if err != nil {
		return nil, err
	}
	node.Children = children
	return node, nil
}

// ListNodes returns nodes of a type, or all nodes, ordered by id.
func (r *nodeRegistry) ListNodes(ctx context.Context, nodeType string) ([]domain.Node, error) {
	query := `
		SELECT id, type, parent, content_digest, attributes, fields, touched_at
		FROM nodes`
	var args []any
	if nodeType != "" {
		query += " WHERE type = ?"
		args = append(args, nodeType)
	}
	query += " ORDER BY id"

	rows, err := r.store.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying nodes: %w", err)
	}

	var nodes []domain.Node
	for rows.Next() {
		node, err := scanNode(rows)
		if err != nil {
			rows.Close()
			return nil, err
		}
		nodes = append(nodes, *node)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, fmt.Errorf("iterating nodes: %w", err)
	}
	rows.Close()

	// Children are loaded after the cursor is closed; the store holds one connection.
	for i := range nodes {
		children, err := r.children(ctx, nodes[i].ID)
		if err != nil {
			return nil, err
		}
		nodes[i].Children = children
	}
	return nodes, nil
}

// Prune deletes nodes not created or touched since before.
func (r *nodeRegistry) Prune(ctx context.Context, before time.Time) (int, error) {
	tx, err := r.store.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // no-op after commit

	res, err := tx.ExecContext(ctx, "DELETE FROM nodes WHERE touched_at < ?", before.UnixNano())
	if err != nil {
		return 0, fmt.Errorf("pruning nodes: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("pruning nodes: %w", err)
	}

	_, err = tx.ExecContext(ctx, `
		UPDATE nodes SET parent = NULL
		WHERE parent IS NOT NULL AND parent NOT IN (SELECT id FROM nodes)
	`)
	if err != nil {
		return 0, fmt.Errorf("clearing orphaned parents: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("committing prune: %w", err)
	}
	return int(n), nil
}

// children returns the linked child ids of a node in link order.
func (r *nodeRegistry) children(ctx context.Context, id string) ([]string, error) {
	rows, err := r.store.db.QueryContext(ctx,
		"SELECT child_id FROM node_links WHERE parent_id = ? ORDER BY position, child_id", id)
	if err != nil {
		return nil, fmt.Errorf("querying children: %w", err)
	}
	defer rows.Close()

	var children []string
	for rows.Next() {
		var child string
		if err := rows.Scan(&child); err != nil {
			return nil, fmt.Errorf("scanning child: %w", err)
		}
		children = append(children, child)
	}
	return children, rows.Err()
}

// rowScanner is satisfied by *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanNode(row rowScanner) (*domain.Node, error) {
	var node domain.Node
	var parent sql.NullString
	var attrs, fields string
	var touched int64

	if err := row.Scan(&node.ID, &node.Type, &parent, &node.ContentDigest, &attrs, &fields, &touched); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scanning node: %w", err)
	}

	if attrs != jsonNull {
		if err := json.Unmarshal([]byte(attrs), &node.Attributes); err != nil {
			return nil, fmt.Errorf("unmarshaling attributes: %w", err)
		}
	}
	if fields != jsonNull {
		if err := json.Unmarshal([]byte(fields), &node.Fields); err != nil {
			return nil, fmt.Errorf("unmarshaling fields: %w", err)
		}
	}
	node.Parent = parent.String
	node.TouchedAt = time.Unix(0, touched)
	return &node, nil
}

// nullString returns a sql.NullString for optional columns.
func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
