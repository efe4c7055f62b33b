package netdb

import (
	"path/filepath"
	"testing"

	"github.com/zurstadt/isnad2network/internal/network"
)

func openTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := OpenDB(filepath.Join(t.TempDir(), "network.db"))
	if err != nil {
		t.Fatalf("OpenDB: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func testNetwork() *network.Network {
	return &network.Network{
		Metadata: network.Metadata{
			Generated: "2026-01-01 00:00:00",
			RunID:     "run-1",
			PathCount: 2,
			NodeCount: 3,
			EdgeCount: 2,
		},
		Nodes: []*network.Node{
			{ID: "n1", Name: "نافع", Type: network.NodeType},
			{ID: "n2", Name: "قالون", Type: network.NodeType},
			{ID: "n3", Name: "ورش", Type: network.NodeType},
		},
		Edges: []*network.Edge{
			{ID: "e1", Source: "n1", Target: "n2", Type: "riwayah",
				Label: "حدثنا", Terms: []string{"حدثنا"}, PathID: "1", IsnadID: "jb_001"},
			{ID: "e2", Source: "n1", Target: "n3", Type: "tilawah",
				Label: "قرأت", Terms: []string{"قرأت"}, PathID: "2", IsnadID: "jb_002"},
		},
		Paths: []*network.PathSummary{
			{PathID: "1", IsnadID: "jb_001", Nodes: []string{"n1", "n2"}, Edges: []string{"e1"}},
			{PathID: "2", IsnadID: "jb_002", Nodes: []string{"n1", "n3"}, Edges: []string{"e2"}},
		},
	}
}

func TestExportNetwork(t *testing.T) {
	db := openTestDB(t)
	if err := db.ExportNetwork(testNetwork()); err != nil {
		t.Fatalf("ExportNetwork: %v", err)
	}

	nodes, err := db.NodeCount()
	if err != nil {
		t.Fatalf("NodeCount: %v", err)
	}
	if nodes != 3 {
		t.Errorf("node count = %d, want 3", nodes)
	}

	edges, err := db.EdgeCount()
	if err != nil {
		t.Fatalf("EdgeCount: %v", err)
	}
	if edges != 2 {
		t.Errorf("edge count = %d, want 2", edges)
	}

	paths, err := db.PathCount()
	if err != nil {
		t.Fatalf("PathCount: %v", err)
	}
	if paths != 2 {
		t.Errorf("path count = %d, want 2", paths)
	}

	var runID string
	if err := db.Conn().QueryRow("SELECT value FROM metadata WHERE key = 'run_id'").Scan(&runID); err != nil {
		t.Fatalf("querying metadata: %v", err)
	}
	if runID != "run-1" {
		t.Errorf("run_id = %q, want run-1", runID)
	}
}

func TestExportNetwork_ReplacesExisting(t *testing.T) {
	db := openTestDB(t)
	if err := db.ExportNetwork(testNetwork()); err != nil {
		t.Fatalf("first export: %v", err)
	}

	small := &network.Network{
		Nodes: []*network.Node{{ID: "n1", Name: "نافع", Type: network.NodeType}},
		Edges: []*network.Edge{},
		Paths: []*network.PathSummary{},
	}
	if err := db.ExportNetwork(small); err != nil {
		t.Fatalf("second export: %v", err)
	}

	nodes, err := db.NodeCount()
	if err != nil {
		t.Fatalf("NodeCount: %v", err)
	}
	if nodes != 1 {
		t.Errorf("node count after re-export = %d, want 1", nodes)
	}
	edges, err := db.EdgeCount()
	if err != nil {
		t.Fatalf("EdgeCount: %v", err)
	}
	if edges != 0 {
		t.Errorf("edge count after re-export = %d, want 0", edges)
	}
}

func TestExportNetwork_DuplicatePathIDs(t *testing.T) {
	db := openTestDB(t)

	// Repeated identifiers survive row filtering upstream, so two summaries
	// can legitimately share one path_id.
	n := testNetwork()
	n.Paths = []*network.PathSummary{
		{PathID: "1", IsnadID: "jb_001", Nodes: []string{"n1", "n2"}, Edges: []string{"e1"}},
		{PathID: "1", IsnadID: "jb_001", Nodes: []string{"n1", "n3"}, Edges: []string{"e2"}},
	}
	if err := db.ExportNetwork(n); err != nil {
		t.Fatalf("ExportNetwork with duplicate path ids: %v", err)
	}

	paths, err := db.PathCount()
	if err != nil {
		t.Fatalf("PathCount: %v", err)
	}
	if paths != 2 {
		t.Errorf("path count = %d, want 2", paths)
	}

	var nodeRows int
	if err := db.Conn().QueryRow(`
		SELECT COUNT(*) FROM path_nodes
		JOIN paths ON paths.id = path_nodes.path_ref
		WHERE paths.path_id = '1'
	`).Scan(&nodeRows); err != nil {
		t.Fatalf("querying path_nodes: %v", err)
	}
	if nodeRows != 4 {
		t.Errorf("path_nodes rows for id 1 = %d, want 4", nodeRows)
	}
}

func TestEdgeTypeCounts(t *testing.T) {
	db := openTestDB(t)
	if err := db.ExportNetwork(testNetwork()); err != nil {
		t.Fatalf("ExportNetwork: %v", err)
	}

	counts, err := db.EdgeTypeCounts()
	if err != nil {
		t.Fatalf("EdgeTypeCounts: %v", err)
	}
	if counts["riwayah"] != 1 || counts["tilawah"] != 1 {
		t.Errorf("edge type counts = %v", counts)
	}
}

func TestSearchNodesByName(t *testing.T) {
	db := openTestDB(t)
	if err := db.ExportNetwork(testNetwork()); err != nil {
		t.Fatalf("ExportNetwork: %v", err)
	}

	nodes, err := db.SearchNodesByName("نافع", 10)
	if err != nil {
		t.Fatalf("SearchNodesByName: %v", err)
	}
	if len(nodes) != 1 || nodes[0].ID != "n1" {
		t.Errorf("search result = %+v", nodes)
	}

	none, err := db.SearchNodesByName("missing", 10)
	if err != nil {
		t.Fatalf("SearchNodesByName: %v", err)
	}
	if len(none) != 0 {
		t.Errorf("expected no matches, got %+v", none)
	}
}
