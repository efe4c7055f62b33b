// Package dict exports annotation scaffolding from arbitrary table columns:
// unique cell values and whitespace-token frequency tables.
package dict

import (
	"encoding/csv"
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/zurstadt/isnad2network/internal/table"
)

// ColumnValues holds the distinct values of one column, sorted.
type ColumnValues struct {
	Column string
	Values []string
}

// WordCount is one whitespace-delimited token and its occurrence count.
type WordCount struct {
	Word  string
	Count int
}

// UniqueValues collects the distinct non-empty values of the given columns.
// Unknown columns are reported as an error rather than silently skipped.
func UniqueValues(t *table.Table, columns []string) ([]ColumnValues, error) {
	var out []ColumnValues
	for _, col := range columns {
		if !t.HasColumn(col) {
			return nil, fmt.Errorf("no such column: %q", col)
		}
		seen := make(map[string]bool)
		for i := 0; i < t.Len(); i++ {
			if v := t.Cell(i, col); v != "" {
				seen[v] = true
			}
		}
		values := make([]string, 0, len(seen))
		for v := range seen {
			values = append(values, v)
		}
		sort.Strings(values)
		out = append(out, ColumnValues{Column: col, Values: values})
	}
	return out, nil
}

// WordFrequencies counts whitespace-delimited tokens across the given
// columns, sorted by descending count then by word.
func WordFrequencies(t *table.Table, columns []string) ([]WordCount, error) {
	counts := make(map[string]int)
	for _, col := range columns {
		if !t.HasColumn(col) {
			return nil, fmt.Errorf("no such column: %q", col)
		}
		for i := 0; i < t.Len(); i++ {
			for _, word := range strings.Fields(t.Cell(i, col)) {
				counts[word]++
			}
		}
	}
	out := make([]WordCount, 0, len(counts))
	for word, count := range counts {
		out = append(out, WordCount{Word: word, Count: count})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Word < out[j].Word
	})
	return out, nil
}

// WriteUniqueCSV writes the unique-values dictionary as `column,value` rows.
func WriteUniqueCSV(path string, values []ColumnValues) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write([]string{"column", "value"}); err != nil {
		return err
	}
	for _, cv := range values {
		for _, v := range cv.Values {
			if err := w.Write([]string{cv.Column, v}); err != nil {
				return err
			}
		}
	}
	w.Flush()
	return w.Error()
}

// WriteFrequencyCSV writes the token-frequency dictionary with empty
// annotation columns for manual classification work.
func WriteFrequencyCSV(path string, words []WordCount) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write([]string{"word", "count", "classification", "notes"}); err != nil {
		return err
	}
	for _, wc := range words {
		if err := w.Write([]string{wc.Word, strconv.Itoa(wc.Count), "", ""}); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}
