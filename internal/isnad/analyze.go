package isnad

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/zurstadt/isnad2network/internal/table"
	"github.com/zurstadt/isnad2network/internal/terms"
)

// DefaultBatchSize bounds peak working-set memory during cell analysis,
// independent of total row count.
const DefaultBatchSize = 100

// Options controls an analysis run.
type Options struct {
	BatchSize int
	RunID     string
}

func (o Options) batchSize() int {
	if o.BatchSize > 0 {
		return o.BatchSize
	}
	return DefaultBatchSize
}

// Analysis is the result of one pass over the input tables: all path records
// plus cell-level term statistics. The classification histogram counts every
// analyzed cell, not every distinct edge, and stays that way downstream.
type Analysis struct {
	RowsAnalyzed    int
	TransColumns    []string
	CellsWithValue  int
	UniqueTermCount int
	MixedModeCells  []MixedCell
	Classifications map[terms.Classification]int
	Paths           []*Path

	runID string
}

// Analyze builds path records from the names table, classifying the matching
// transmission-terms cells and joining optional metadata rows. Both tables
// are expected to be dimension-checked (or filtered) beforehand; rows that do
// not join simply produce paths without term analysis or metadata.
func Analyze(names, trans, meta *table.Table, opts Options) *Analysis {
	a := &Analysis{
		Classifications: make(map[terms.Classification]int),
		MixedModeCells:  []MixedCell{},
		Paths:           []*Path{},
		runID:           opts.RunID,
	}
	if trans != nil {
		a.TransColumns = SlotColumns(trans)
		a.RowsAnalyzed = trans.Len()
	}
	if a.TransColumns == nil {
		a.TransColumns = []string{}
	}

	// Pass 1: classify every populated transmission cell, in batches. The
	// per-batch scratch (raw cell values, duplicate tracking) is dropped at
	// each batch boundary; only the aggregates and the per-path term map
	// survive.
	cellTerms := make(map[string]map[string]*terms.Term)
	if trans != nil {
		uniqueTerms := make(map[string]struct{})
		batch := opts.batchSize()
		for start := 0; start < trans.Len(); start += batch {
			end := start + batch
			if end > trans.Len() {
				end = trans.Len()
			}
			a.analyzeBatch(trans, start, end, cellTerms, uniqueTerms)
		}
		a.UniqueTermCount = len(uniqueTerms)
	}

	// Pass 2: build one path record per names row.
	if names == nil {
		return a
	}
	var metaIndex map[string]int
	if meta != nil && meta.HasColumn(IDColumn) {
		metaIndex = meta.Index(IDColumn)
	}
	nameCols := SlotColumns(names)

	for i := 0; i < names.Len(); i++ {
		pathID := RowID(names, i)
		path := &Path{
			PathID:       pathID,
			IsnadID:      names.Cell(i, IsnadIDColumn),
			Names:        map[string]string{},
			TermAnalysis: map[string]*terms.Term{},
			Metadata:     map[string]string{},
		}
		for _, col := range nameCols {
			if v := names.Cell(i, col); v != "" {
				path.Names[col] = v
			}
		}
		for col, term := range cellTerms[pathID] {
			path.TermAnalysis[col] = term
		}
		if metaIndex != nil {
			if row, ok := metaIndex[pathID]; ok {
				for _, col := range meta.Columns {
					if col == IDColumn {
						continue
					}
					if v := meta.Cell(row, col); v != "" {
						path.Metadata[col] = v
					}
				}
			}
		}
		a.Paths = append(a.Paths, path)
	}
	return a
}

func (a *Analysis) analyzeBatch(trans *table.Table, start, end int, cellTerms map[string]map[string]*terms.Term, uniqueTerms map[string]struct{}) {
	for i := start; i < end; i++ {
		pathID := RowID(trans, i)
		for _, col := range a.TransColumns {
			value := trans.Cell(i, col)
			if value == "" {
				continue
			}
			a.CellsWithValue++
			term := terms.Classify(value)
			if term == nil {
				continue
			}
			a.Classifications[term.Classification]++
			uniqueTerms[term.OriginalText] = struct{}{}
			if term.Classification == terms.Mixed {
				a.MixedModeCells = append(a.MixedModeCells, MixedCell{
					PathID: pathID,
					Column: col,
					Value:  value,
				})
			}
			row := cellTerms[pathID]
			if row == nil {
				row = make(map[string]*terms.Term)
				cellTerms[pathID] = row
			}
			row[col] = term
		}
	}
}

// NonEmptyPaths returns the paths that participate in graph assembly.
func (a *Analysis) NonEmptyPaths() []*Path {
	var out []*Path
	for _, p := range a.Paths {
		if !p.Empty() {
			out = append(out, p)
		}
	}
	return out
}

// PathData is the raw path-data artifact, serialized before the network is
// assembled so paths survive even when assembly is re-run later.
type PathData struct {
	Metadata       PathDataMetadata `json:"metadata"`
	TermStatistics TermStatistics   `json:"term_statistics"`
	MixedModeCells []MixedCell      `json:"mixed_mode_cells"`
	Paths          []*Path          `json:"paths"`
}

// PathDataMetadata summarizes the analysis run.
type PathDataMetadata struct {
	Generated           string   `json:"generated"`
	RunID               string   `json:"run_id,omitempty"`
	RowsAnalyzed        int      `json:"rows_analyzed"`
	TransmissionColumns []string `json:"transmission_columns"`
	MixedModeCells      int      `json:"mixed_mode_cells"`
	CellsWithValue      int      `json:"cells_with_value"`
	UniqueTerms         int      `json:"unique_terms"`
}

// TermStatistics carries the cell-level classification histogram.
type TermStatistics struct {
	ByClassification map[string]int `json:"by_classification"`
}

// Document packages the analysis as the path-data artifact.
func (a *Analysis) Document() *PathData {
	byClass := make(map[string]int, len(a.Classifications))
	for c, n := range a.Classifications {
		byClass[c.String()] = n
	}
	return &PathData{
		Metadata: PathDataMetadata{
			Generated:           time.Now().Format("2006-01-02 15:04:05"),
			RunID:               a.runID,
			RowsAnalyzed:        a.RowsAnalyzed,
			TransmissionColumns: a.TransColumns,
			MixedModeCells:      len(a.MixedModeCells),
			CellsWithValue:      a.CellsWithValue,
			UniqueTerms:         a.UniqueTermCount,
		},
		TermStatistics: TermStatistics{ByClassification: byClass},
		MixedModeCells: a.MixedModeCells,
		Paths:          a.Paths,
	}
}

// WriteFile writes the path-data artifact as indented UTF-8 JSON with
// non-ASCII characters preserved verbatim.
func (d *PathData) WriteFile(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	defer f.Close()

	w := bufio.NewWriter(f)
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(d); err != nil {
		return fmt.Errorf("encoding path data: %w", err)
	}
	return w.Flush()
}

// LoadPathData reads a previously written path-data artifact, for the
// path-to-network re-projection.
func LoadPathData(path string) (*PathData, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	var doc PathData
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	return &doc, nil
}
