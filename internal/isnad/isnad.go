// Package isnad turns the tabular chain-of-narration inputs into per-path
// records: transmitter names per slot, classified transmission terms, and
// joined metadata.
package isnad

import (
	"strconv"

	"github.com/zurstadt/isnad2network/internal/table"
	"github.com/zurstadt/isnad2network/internal/terms"
)

const (
	// IDColumn joins the names, transmission-terms, and metadata tables.
	IDColumn = "path_id"
	// IsnadIDColumn carries the opaque chain label.
	IsnadIDColumn = "isnad_id"
	// SlotPrefix marks positional hop columns (t1, t2, ...).
	SlotPrefix = "t"
)

// SlotColumns returns a table's hop columns in sorted lexical order, so that
// adjacency between slots is deterministic.
func SlotColumns(t *table.Table) []string {
	return t.PrefixColumns(SlotPrefix, IDColumn, IsnadIDColumn)
}

// RowID returns the join identifier for a row, falling back to the row
// position when the identifier column is absent or empty.
func RowID(t *table.Table, row int) string {
	if id := t.Cell(row, IDColumn); id != "" {
		return id
	}
	return strconv.Itoa(row)
}

// Path is one chain of narration: one row of the names table joined with its
// transmission-terms row and optional metadata row.
type Path struct {
	PathID       string                 `json:"path_id"`
	IsnadID      string                 `json:"isnad_id"`
	Names        map[string]string      `json:"names"`
	TermAnalysis map[string]*terms.Term `json:"term_analysis"`
	Metadata     map[string]string      `json:"metadata"`
}

// Empty reports whether the path has zero populated name slots. Empty paths
// are kept in the path-data artifact but excluded from graph assembly.
func (p *Path) Empty() bool { return len(p.Names) == 0 }

// MixedCell records one annotation cell that carried both riwayah and
// tilawah vocabulary.
type MixedCell struct {
	PathID string `json:"path_id"`
	Column string `json:"column"`
	Value  string `json:"value"`
}
