// Package netdb exports an assembled network into a SQLite file so the graph
// can be queried with plain SQL alongside the JSON artifacts.
package netdb

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"

	_ "modernc.org/sqlite"

	"github.com/zurstadt/isnad2network/internal/network"
)

// DB wraps a SQLite database connection
type DB struct {
	conn *sql.DB
	Path string
}

// OpenDB opens a SQLite database with WAL mode and foreign keys enabled
func OpenDB(path string) (*DB, error) {
	conn, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	// Enable WAL mode for concurrent reads
	if _, err := conn.Exec("PRAGMA journal_mode=WAL"); err != nil {
		conn.Close()
		return nil, fmt.Errorf("setting WAL mode: %w", err)
	}

	// Enable foreign keys
	if _, err := conn.Exec("PRAGMA foreign_keys=ON"); err != nil {
		conn.Close()
		return nil, fmt.Errorf("enabling foreign keys: %w", err)
	}

	return &DB{conn: conn, Path: path}, nil
}

// Close closes the database connection
func (d *DB) Close() error {
	return d.conn.Close()
}

// Conn returns the underlying sql.DB for custom queries
func (d *DB) Conn() *sql.DB {
	return d.conn
}

const schema = `
CREATE TABLE IF NOT EXISTS metadata (
	key   TEXT PRIMARY KEY,
	value TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS nodes (
	id   TEXT PRIMARY KEY,
	name TEXT NOT NULL,
	type TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS edges (
	id          TEXT PRIMARY KEY,
	source      TEXT NOT NULL REFERENCES nodes(id),
	target      TEXT NOT NULL REFERENCES nodes(id),
	type        TEXT NOT NULL,
	label       TEXT,
	terms       TEXT,
	reader      TEXT,
	transmitter TEXT,
	path        TEXT,
	mode        TEXT,
	path_id     TEXT,
	isnad_id    TEXT
);
CREATE TABLE IF NOT EXISTS paths (
	id       INTEGER PRIMARY KEY,
	path_id  TEXT NOT NULL,
	isnad_id TEXT
);
CREATE TABLE IF NOT EXISTS path_nodes (
	path_ref INTEGER NOT NULL REFERENCES paths(id),
	position INTEGER NOT NULL,
	node_id  TEXT NOT NULL REFERENCES nodes(id),
	PRIMARY KEY (path_ref, position)
);
CREATE TABLE IF NOT EXISTS path_edges (
	path_ref INTEGER NOT NULL REFERENCES paths(id),
	position INTEGER NOT NULL,
	edge_id  TEXT NOT NULL REFERENCES edges(id),
	PRIMARY KEY (path_ref, position)
);
CREATE INDEX IF NOT EXISTS idx_paths_path_id ON paths(path_id);
CREATE INDEX IF NOT EXISTS idx_edges_source ON edges(source);
CREATE INDEX IF NOT EXISTS idx_edges_target ON edges(target);
CREATE INDEX IF NOT EXISTS idx_edges_type ON edges(type);
`

// InitSchema creates the export tables if they do not exist
func (d *DB) InitSchema() error {
	if _, err := d.conn.Exec(schema); err != nil {
		return fmt.Errorf("creating schema: %w", err)
	}
	return nil
}

// ExportNetwork writes the whole network in a single transaction. An existing
// export in the same file is replaced.
func (d *DB) ExportNetwork(n *network.Network) error {
	if err := d.InitSchema(); err != nil {
		return err
	}

	tx, err := d.conn.Begin()
	if err != nil {
		return fmt.Errorf("starting export: %w", err)
	}
	defer tx.Rollback()

	for _, table := range []string{"path_edges", "path_nodes", "paths", "edges", "nodes", "metadata"} {
		if _, err := tx.Exec("DELETE FROM " + table); err != nil {
			return fmt.Errorf("clearing %s: %w", table, err)
		}
	}

	meta := map[string]string{
		"generated":           n.Metadata.Generated,
		"run_id":              n.Metadata.RunID,
		"path_count":          fmt.Sprintf("%d", n.Metadata.PathCount),
		"node_count":          fmt.Sprintf("%d", n.Metadata.NodeCount),
		"edge_count":          fmt.Sprintf("%d", n.Metadata.EdgeCount),
		"paths_with_metadata": fmt.Sprintf("%d", n.Metadata.PathsWithMetadata),
	}
	for key, value := range meta {
		if _, err := tx.Exec("INSERT INTO metadata (key, value) VALUES (?, ?)", key, value); err != nil {
			return fmt.Errorf("writing metadata %s: %w", key, err)
		}
	}

	for _, node := range n.Nodes {
		if _, err := tx.Exec(
			"INSERT INTO nodes (id, name, type) VALUES (?, ?, ?)",
			node.ID, node.Name, node.Type,
		); err != nil {
			return fmt.Errorf("writing node %s: %w", node.ID, err)
		}
	}

	for _, edge := range n.Edges {
		terms, err := marshalTerms(edge.Terms)
		if err != nil {
			return fmt.Errorf("encoding terms for edge %s: %w", edge.ID, err)
		}
		if _, err := tx.Exec(`
			INSERT INTO edges (id, source, target, type, label, terms,
			                   reader, transmitter, path, mode, path_id, isnad_id)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		`, edge.ID, edge.Source, edge.Target, edge.Type, edge.Label, terms,
			edge.Reader, edge.Transmitter, edge.PathLabel, edge.Mode,
			edge.PathID, edge.IsnadID); err != nil {
			return fmt.Errorf("writing edge %s: %w", edge.ID, err)
		}
	}

	// Duplicate path identifiers are legal input, so each summary gets its
	// own surrogate row keyed by rowid.
	for _, path := range n.Paths {
		res, err := tx.Exec(
			"INSERT INTO paths (path_id, isnad_id) VALUES (?, ?)",
			path.PathID, path.IsnadID,
		)
		if err != nil {
			return fmt.Errorf("writing path %s: %w", path.PathID, err)
		}
		pathRef, err := res.LastInsertId()
		if err != nil {
			return fmt.Errorf("resolving row for path %s: %w", path.PathID, err)
		}
		for pos, nodeID := range path.Nodes {
			if _, err := tx.Exec(
				"INSERT INTO path_nodes (path_ref, position, node_id) VALUES (?, ?, ?)",
				pathRef, pos, nodeID,
			); err != nil {
				return fmt.Errorf("writing path %s node %d: %w", path.PathID, pos, err)
			}
		}
		for pos, edgeID := range path.Edges {
			if _, err := tx.Exec(
				"INSERT INTO path_edges (path_ref, position, edge_id) VALUES (?, ?, ?)",
				pathRef, pos, edgeID,
			); err != nil {
				return fmt.Errorf("writing path %s edge %d: %w", path.PathID, pos, err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing export: %w", err)
	}
	return nil
}

// marshalTerms encodes the sub-term list as a JSON array, or NULL when empty.
func marshalTerms(terms []string) (any, error) {
	if len(terms) == 0 {
		return nil, nil
	}
	data, err := json.Marshal(terms)
	if err != nil {
		return nil, err
	}
	return string(data), nil
}

// NodeCount returns the number of exported nodes
func (d *DB) NodeCount() (int, error) {
	var n int
	err := d.conn.QueryRow("SELECT COUNT(*) FROM nodes").Scan(&n)
	return n, err
}

// EdgeCount returns the number of exported edges
func (d *DB) EdgeCount() (int, error) {
	var n int
	err := d.conn.QueryRow("SELECT COUNT(*) FROM edges").Scan(&n)
	return n, err
}

// PathCount returns the number of exported path summaries
func (d *DB) PathCount() (int, error) {
	var n int
	err := d.conn.QueryRow("SELECT COUNT(*) FROM paths").Scan(&n)
	return n, err
}

// EdgeTypeCounts returns the per-classification edge counts, the deduplicated
// counterpart of the cell-level histogram in the path-data artifact.
func (d *DB) EdgeTypeCounts() (map[string]int, error) {
	rows, err := d.conn.Query("SELECT type, COUNT(*) FROM edges GROUP BY type")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var kind string
		var n int
		if err := rows.Scan(&kind, &n); err != nil {
			return nil, err
		}
		counts[kind] = n
	}
	return counts, rows.Err()
}

// SearchNodesByName finds nodes whose name contains the given fragment.
func (d *DB) SearchNodesByName(fragment string, limit int) ([]network.Node, error) {
	rows, err := d.conn.Query(`
		SELECT id, name, type FROM nodes
		WHERE name LIKE ? ESCAPE '\' ORDER BY id LIMIT ?
	`, "%"+escapeLike(fragment)+"%", limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var nodes []network.Node
	for rows.Next() {
		var n network.Node
		if err := rows.Scan(&n.ID, &n.Name, &n.Type); err != nil {
			return nil, err
		}
		nodes = append(nodes, n)
	}
	return nodes, rows.Err()
}

func escapeLike(s string) string {
	s = strings.ReplaceAll(s, "%", `\%`)
	return strings.ReplaceAll(s, "_", `\_`)
}
