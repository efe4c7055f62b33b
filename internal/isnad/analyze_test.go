package isnad

import (
	"path/filepath"
	"reflect"
	"testing"

	"github.com/zurstadt/isnad2network/internal/table"
	"github.com/zurstadt/isnad2network/internal/terms"
)

func makeTable(columns []string, rows ...[]string) *table.Table {
	t := table.New(columns)
	for _, r := range rows {
		t.AppendRow(r)
	}
	return t
}

func TestSlotColumns_SortedAndFiltered(t *testing.T) {
	tbl := makeTable([]string{"t2", "path_id", "t1", "isnad_id", "t3", "notes"})
	got := SlotColumns(tbl)
	want := []string{"t1", "t2", "t3"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("SlotColumns = %v, want %v", got, want)
	}
}

func TestRowID_FallsBackToPosition(t *testing.T) {
	tbl := makeTable([]string{"t1"}, []string{"A"}, []string{"B"})
	if id := RowID(tbl, 1); id != "1" {
		t.Errorf("RowID = %q, want row position", id)
	}
	withID := makeTable([]string{"path_id", "t1"}, []string{"x7", "A"})
	if id := RowID(withID, 0); id != "x7" {
		t.Errorf("RowID = %q, want x7", id)
	}
}

func TestAnalyze_BuildsPaths(t *testing.T) {
	names := makeTable([]string{"path_id", "isnad_id", "t1", "t2"},
		[]string{"1", "jb_001", "A", "B"},
		[]string{"2", "jb_002", "C", ""})
	trans := makeTable([]string{"path_id", "isnad_id", "t1", "t2"},
		[]string{"1", "jb_001", "حدثنا", ""},
		[]string{"2", "jb_002", "قرأت", ""})
	meta := makeTable([]string{"path_id", "Reader", "_mode"},
		[]string{"1", "Nafi", "riwayah"})

	a := Analyze(names, trans, meta, Options{})
	if len(a.Paths) != 2 {
		t.Fatalf("expected 2 paths, got %d", len(a.Paths))
	}

	p := a.Paths[0]
	if p.PathID != "1" || p.IsnadID != "jb_001" {
		t.Errorf("path identity wrong: %+v", p)
	}
	if !reflect.DeepEqual(p.Names, map[string]string{"t1": "A", "t2": "B"}) {
		t.Errorf("names = %v", p.Names)
	}
	if p.TermAnalysis["t1"] == nil || p.TermAnalysis["t1"].Classification != terms.Riwayah {
		t.Errorf("t1 term = %+v", p.TermAnalysis["t1"])
	}
	if _, ok := p.TermAnalysis["t2"]; ok {
		t.Error("empty cell must produce no term record")
	}
	if p.Metadata["Reader"] != "Nafi" || p.Metadata["_mode"] != "riwayah" {
		t.Errorf("metadata = %v", p.Metadata)
	}

	// Second path has no metadata row: empty map, not an error.
	if len(a.Paths[1].Metadata) != 0 {
		t.Errorf("missing metadata row must yield empty metadata, got %v", a.Paths[1].Metadata)
	}
}

func TestAnalyze_EmptyPathRetained(t *testing.T) {
	names := makeTable([]string{"path_id", "t1"},
		[]string{"1", ""},
		[]string{"2", "A"})
	trans := makeTable([]string{"path_id", "t1"},
		[]string{"1", ""},
		[]string{"2", "عن"})

	a := Analyze(names, trans, nil, Options{})
	if len(a.Paths) != 2 {
		t.Fatalf("empty paths stay in raw path storage, got %d", len(a.Paths))
	}
	if !a.Paths[0].Empty() {
		t.Error("path 1 should be empty")
	}
	nonEmpty := a.NonEmptyPaths()
	if len(nonEmpty) != 1 || nonEmpty[0].PathID != "2" {
		t.Errorf("NonEmptyPaths = %v", nonEmpty)
	}
}

func TestAnalyze_CellStatistics(t *testing.T) {
	names := makeTable([]string{"path_id", "t1", "t2"},
		[]string{"1", "A", "B"},
		[]string{"2", "A", "B"})
	trans := makeTable([]string{"path_id", "t1", "t2"},
		[]string{"1", "حدثنا", "قرأت عن"},
		[]string{"2", "حدثنا", ""})

	a := Analyze(names, trans, nil, Options{BatchSize: 1})
	if a.CellsWithValue != 3 {
		t.Errorf("cells_with_value = %d, want 3", a.CellsWithValue)
	}
	// The histogram counts cells, not distinct terms or edges.
	if a.Classifications[terms.Riwayah] != 2 {
		t.Errorf("riwayah cells = %d, want 2", a.Classifications[terms.Riwayah])
	}
	if a.Classifications[terms.Mixed] != 1 {
		t.Errorf("mixed cells = %d, want 1", a.Classifications[terms.Mixed])
	}
	if a.UniqueTermCount != 2 {
		t.Errorf("unique terms = %d, want 2", a.UniqueTermCount)
	}
	if len(a.MixedModeCells) != 1 || a.MixedModeCells[0].Column != "t2" {
		t.Errorf("mixed cells = %v", a.MixedModeCells)
	}
}

func TestAnalyze_NilTables(t *testing.T) {
	a := Analyze(nil, nil, nil, Options{})
	if len(a.Paths) != 0 || a.CellsWithValue != 0 {
		t.Errorf("nil input should yield an empty analysis, got %+v", a)
	}
}

func TestPathData_WriteAndLoad(t *testing.T) {
	names := makeTable([]string{"path_id", "t1", "t2"},
		[]string{"1", "نافع", "قالون"})
	trans := makeTable([]string{"path_id", "t1", "t2"},
		[]string{"1", "حدثنا", ""})

	a := Analyze(names, trans, nil, Options{RunID: "run-1"})
	path := filepath.Join(t.TempDir(), "isnad_network_data.json")
	if err := a.Document().WriteFile(path); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	doc, err := LoadPathData(path)
	if err != nil {
		t.Fatalf("LoadPathData: %v", err)
	}
	if doc.Metadata.RunID != "run-1" || doc.Metadata.RowsAnalyzed != 1 {
		t.Errorf("metadata = %+v", doc.Metadata)
	}
	if len(doc.Paths) != 1 || doc.Paths[0].Names["t1"] != "نافع" {
		t.Errorf("paths did not round-trip: %+v", doc.Paths)
	}
	if doc.Paths[0].TermAnalysis["t1"].Classification != terms.Riwayah {
		t.Errorf("term analysis did not round-trip")
	}
	if doc.TermStatistics.ByClassification["riwayah"] != 1 {
		t.Errorf("histogram did not round-trip: %v", doc.TermStatistics.ByClassification)
	}
}
