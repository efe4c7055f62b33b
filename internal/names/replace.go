// Package names standardizes raw transmitter names against a nodelist,
// producing the canonicalized names table the graph layer consumes.
package names

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/zurstadt/isnad2network/internal/isnad"
	"github.com/zurstadt/isnad2network/internal/table"
)

// Result is the outcome of one replacement pass.
type Result struct {
	Replaced      *table.Table
	ReplacedCount int
	// Unmatched lists the distinct raw names with no nodelist entry, in
	// sorted order. Unmatched names pass through to the output unchanged.
	Unmatched []string
}

// Replace rewrites every slot cell of the names table to its canonical
// nodelist value. Identifier and non-slot columns are copied verbatim.
func Replace(namesTable, nodelist *table.Table, rawColumn, canonicalColumn string) (*Result, error) {
	if !nodelist.HasColumn(rawColumn) {
		return nil, fmt.Errorf("nodelist has no %q column", rawColumn)
	}
	if !nodelist.HasColumn(canonicalColumn) {
		return nil, fmt.Errorf("nodelist has no %q column", canonicalColumn)
	}

	mapping := make(map[string]string, nodelist.Len())
	for i := 0; i < nodelist.Len(); i++ {
		raw := nodelist.Cell(i, rawColumn)
		canonical := nodelist.Cell(i, canonicalColumn)
		if raw == "" || canonical == "" {
			continue
		}
		if _, seen := mapping[raw]; !seen {
			mapping[raw] = canonical
		}
	}

	slotCols := make(map[string]bool)
	for _, col := range isnad.SlotColumns(namesTable) {
		slotCols[col] = true
	}

	out := table.New(namesTable.Columns)
	unmatched := make(map[string]bool)
	replaced := 0

	for i := 0; i < namesTable.Len(); i++ {
		record := make([]string, len(namesTable.Columns))
		for j, col := range namesTable.Columns {
			value := namesTable.Cell(i, col)
			if slotCols[col] && value != "" {
				if canonical, ok := mapping[value]; ok {
					value = canonical
					replaced++
				} else {
					unmatched[value] = true
				}
			}
			record[j] = value
		}
		out.AppendRow(record)
	}

	names := make([]string, 0, len(unmatched))
	for name := range unmatched {
		names = append(names, name)
	}
	sort.Strings(names)

	return &Result{Replaced: out, ReplacedCount: replaced, Unmatched: names}, nil
}

// WriteUnmatched writes the unmatched-name side list, one name per line.
func WriteUnmatched(path string, unmatched []string) error {
	var b strings.Builder
	for _, name := range unmatched {
		b.WriteString(name)
		b.WriteByte('\n')
	}
	if err := os.WriteFile(path, []byte(b.String()), 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}
