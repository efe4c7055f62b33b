package pipeline

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"

	"github.com/zurstadt/isnad2network/internal/check"
	"github.com/zurstadt/isnad2network/internal/config"
	"github.com/zurstadt/isnad2network/internal/isnad"
	"github.com/zurstadt/isnad2network/internal/network"
	"github.com/zurstadt/isnad2network/internal/table"
)

// Artifact file names, fixed so downstream tooling can find them.
const (
	PathDataFile   = "isnad_network_data.json"
	NetworkFile    = "network_graph_data.json"
	MismatchFile   = "chain_length_mismatches.csv"
	NetworkSubdir  = "network"
	ReplacedFile   = "names_replaced.csv"
	UnmatchedFile  = "unmatched_names.txt"
	DictSubdir     = "dictionaries"
	UniqueFile     = "unique_values.csv"
	FrequencyFile  = "term_frequencies.csv"
)

// GenerateResult summarizes one network-generation run.
type GenerateResult struct {
	RunID            string            `json:"run_id"`
	RecordsProcessed int               `json:"records_processed"`
	FilteredRecords  int               `json:"filtered_records"`
	LengthMismatches int               `json:"length_mismatches"`
	UniqueTerms      int               `json:"unique_terms"`
	NodeCount        int               `json:"node_count"`
	EdgeCount        int               `json:"edge_count"`
	OutputFiles      map[string]string `json:"output_files"`
}

// GenerateNetwork runs the core stage: consistency check, optional
// filtering, chain-length audit, path analysis, graph assembly, and
// serialization of both JSON artifacts.
func GenerateNetwork(cfg *config.Config, runID string, logger *log.Logger) (*GenerateResult, error) {
	outDir := filepath.Join(cfg.OutputDir, NetworkSubdir)
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating %s: %w", outDir, err)
	}

	logger.Info("reading names table", "file", cfg.NamesFile)
	names, err := table.Load(cfg.NamesFile)
	if err != nil {
		return nil, &InputError{Path: cfg.NamesFile, Err: err}
	}
	logger.Info("reading transmission terms", "file", cfg.TransFile)
	trans, err := table.Load(cfg.TransFile)
	if err != nil {
		return nil, &InputError{Path: cfg.TransFile, Err: err}
	}
	var meta *table.Table
	if cfg.MetadataFile != "" {
		logger.Info("reading path metadata", "file", cfg.MetadataFile)
		if meta, err = table.Load(cfg.MetadataFile); err != nil {
			return nil, &InputError{Path: cfg.MetadataFile, Err: err}
		}
	}

	result := &GenerateResult{RunID: runID, OutputFiles: map[string]string{}}

	report := check.CheckDimensions(names, trans, meta)
	if !report.Valid {
		logger.Warn("dimension mismatch detected",
			"names_rows", report.NamesRows,
			"trans_rows", report.TransRows,
			"missing_id_names", report.MissingPathIDInNames,
			"missing_id_trans", report.MissingPathIDInTrans)
		if cfg.SkipFiltering {
			if report.MissingPathIDInNames || report.MissingPathIDInTrans {
				return nil, &SchemaError{Detail: "identifier column missing and filtering disabled"}
			}
			logger.Warn("filtering disabled, proceeding on inconsistent data")
		} else {
			var dropped int
			names, trans, meta, dropped = check.FilterInvalid(names, trans, meta)
			result.FilteredRecords = dropped
			logger.Info("filtered invalid records", "dropped", dropped, "remaining", names.Len())
		}
	}

	mismatches, skipped := check.CompareChainLengths(names, trans)
	result.LengthMismatches = len(mismatches)
	for _, id := range skipped {
		logger.Debug("no matching row for identifier", "path_id", id)
	}
	if len(mismatches) > 0 {
		reportPath := filepath.Join(outDir, MismatchFile)
		if err := check.WriteMismatchReport(reportPath, mismatches); err != nil {
			return nil, fmt.Errorf("writing mismatch report: %w", err)
		}
		result.OutputFiles["chain_length_mismatches"] = reportPath
		logger.Warn("chain length mismatches found", "count", len(mismatches), "report", reportPath)
	}

	logger.Info("analyzing cells", "rows", trans.Len(), "batch_size", cfg.BatchSize)
	analysis := isnad.Analyze(names, trans, meta, isnad.Options{
		BatchSize: cfg.BatchSize,
		RunID:     runID,
	})
	logger.Info("cell analysis complete",
		"cells_with_value", analysis.CellsWithValue,
		"unique_terms", analysis.UniqueTermCount,
		"mixed_mode_cells", len(analysis.MixedModeCells))

	pathDataPath := filepath.Join(outDir, PathDataFile)
	if err := analysis.Document().WriteFile(pathDataPath); err != nil {
		return nil, fmt.Errorf("writing path data: %w", err)
	}
	result.OutputFiles["isnad_data"] = pathDataPath

	net := network.Assemble(analysis.Paths, runID)
	networkPath := filepath.Join(outDir, NetworkFile)
	if err := net.WriteFile(networkPath); err != nil {
		return nil, err
	}
	result.OutputFiles["network_graph"] = networkPath

	result.RecordsProcessed = names.Len()
	result.UniqueTerms = analysis.UniqueTermCount
	result.NodeCount = net.Metadata.NodeCount
	result.EdgeCount = net.Metadata.EdgeCount
	logger.Info("network assembled",
		"nodes", result.NodeCount,
		"edges", result.EdgeCount,
		"paths", net.Metadata.PathCount)
	return result, nil
}

// Reproject rebuilds the network from an already-saved path-data artifact,
// so network statistics can be re-derived without the CSV inputs.
func Reproject(pathDataFile, outputFile, runID string, logger *log.Logger) (*network.Network, error) {
	doc, err := isnad.LoadPathData(pathDataFile)
	if err != nil {
		return nil, &InputError{Path: pathDataFile, Err: err}
	}
	logger.Info("re-projecting paths to network", "paths", len(doc.Paths))

	net := network.Assemble(doc.Paths, runID)
	if err := net.WriteFile(outputFile); err != nil {
		return net, err
	}
	logger.Info("network written", "file", outputFile,
		"nodes", net.Metadata.NodeCount, "edges", net.Metadata.EdgeCount)
	return net, nil
}
