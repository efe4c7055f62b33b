// Package check validates structural compatibility between the names table
// and the transmission-terms table before graph assembly.
package check

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"

	"github.com/zurstadt/isnad2network/internal/isnad"
	"github.com/zurstadt/isnad2network/internal/table"
)

// DimensionReport describes which structural conditions failed. The check
// never mutates its inputs.
type DimensionReport struct {
	Valid                   bool `json:"valid"`
	MissingPathIDInNames    bool `json:"missing_path_id_in_names,omitempty"`
	MissingPathIDInTrans    bool `json:"missing_path_id_in_trans,omitempty"`
	MissingPathIDInMetadata bool `json:"missing_path_id_in_metadata,omitempty"`
	RowCountMismatch        bool `json:"row_count_mismatch,omitempty"`
	NamesRows               int  `json:"names_rows"`
	TransRows               int  `json:"trans_rows"`
}

// CheckDimensions confirms the identifier column exists in both tables (and
// the metadata table when present) and that the row counts agree.
func CheckDimensions(names, trans, meta *table.Table) DimensionReport {
	r := DimensionReport{
		Valid:     true,
		NamesRows: names.Len(),
		TransRows: trans.Len(),
	}
	if !names.HasColumn(isnad.IDColumn) {
		r.Valid = false
		r.MissingPathIDInNames = true
	}
	if !trans.HasColumn(isnad.IDColumn) {
		r.Valid = false
		r.MissingPathIDInTrans = true
	}
	if names.Len() != trans.Len() {
		r.Valid = false
		r.RowCountMismatch = true
	}
	if meta != nil && !meta.HasColumn(isnad.IDColumn) {
		r.Valid = false
		r.MissingPathIDInMetadata = true
	}
	return r
}

// FilterInvalid restricts all tables to the identifiers present with a
// non-empty path_id in both the names and transmission-terms tables, and
// reports how many names records were dropped. Best-effort recovery: when
// either table lacks the identifier column the inputs come back unchanged.
func FilterInvalid(names, trans, meta *table.Table) (*table.Table, *table.Table, *table.Table, int) {
	if !names.HasColumn(isnad.IDColumn) || !trans.HasColumn(isnad.IDColumn) {
		return names, trans, meta, 0
	}

	valid := make(map[string]bool)
	inTrans := make(map[string]bool)
	for i := 0; i < trans.Len(); i++ {
		if id := trans.Cell(i, isnad.IDColumn); id != "" {
			inTrans[id] = true
		}
	}
	for i := 0; i < names.Len(); i++ {
		if id := names.Cell(i, isnad.IDColumn); id != "" && inTrans[id] {
			valid[id] = true
		}
	}

	original := names.Len()
	names = names.Filter(func(i int) bool { return valid[names.Cell(i, isnad.IDColumn)] })
	trans = trans.Filter(func(i int) bool { return valid[trans.Cell(i, isnad.IDColumn)] })
	if meta != nil && meta.HasColumn(isnad.IDColumn) {
		meta = meta.Filter(func(i int) bool { return valid[meta.Cell(i, isnad.IDColumn)] })
	}
	return names, trans, meta, original - names.Len()
}

// LengthMismatch is one identifier whose populated-slot counts disagree
// between the two tables.
type LengthMismatch struct {
	PathID      string `json:"path_id"`
	NamesLength int    `json:"names_length"`
	TransLength int    `json:"trans_length"`
	Difference  int    `json:"difference"`
}

// CompareChainLengths counts non-empty slot values in the first matching row
// of each table for every distinct identifier in the names table.
// Identifiers absent from either table are skipped, not counted as
// mismatches; their ids are returned separately for diagnostics.
func CompareChainLengths(names, trans *table.Table) (mismatches []LengthMismatch, skipped []string) {
	if !names.HasColumn(isnad.IDColumn) || !trans.HasColumn(isnad.IDColumn) {
		return nil, nil
	}

	nameCols := isnad.SlotColumns(names)
	transCols := isnad.SlotColumns(trans)
	namesIndex := names.Index(isnad.IDColumn)
	transIndex := trans.Index(isnad.IDColumn)

	seen := make(map[string]bool)
	for i := 0; i < names.Len(); i++ {
		id := names.Cell(i, isnad.IDColumn)
		if id == "" || seen[id] {
			continue
		}
		seen[id] = true

		namesRow, inNames := namesIndex[id]
		transRow, inTrans := transIndex[id]
		if !inNames || !inTrans {
			skipped = append(skipped, id)
			continue
		}

		namesCount := populatedSlots(names, namesRow, nameCols)
		transCount := populatedSlots(trans, transRow, transCols)
		if namesCount != transCount {
			mismatches = append(mismatches, LengthMismatch{
				PathID:      id,
				NamesLength: namesCount,
				TransLength: transCount,
				Difference:  namesCount - transCount,
			})
		}
	}
	return mismatches, skipped
}

func populatedSlots(t *table.Table, row int, cols []string) int {
	n := 0
	for _, col := range cols {
		if t.Cell(row, col) != "" {
			n++
		}
	}
	return n
}

// WriteMismatchReport writes the chain-length mismatch report as CSV.
func WriteMismatchReport(path string, mismatches []LengthMismatch) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write([]string{"path_id", "names_length", "trans_length", "difference"}); err != nil {
		return err
	}
	for _, m := range mismatches {
		record := []string{
			m.PathID,
			strconv.Itoa(m.NamesLength),
			strconv.Itoa(m.TransLength),
			strconv.Itoa(m.Difference),
		}
		if err := w.Write(record); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}
