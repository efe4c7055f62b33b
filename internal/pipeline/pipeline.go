// Package pipeline runs the full processing chain: name replacement,
// dictionary export, and network generation, with per-stage results.
package pipeline

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/zurstadt/isnad2network/internal/config"
	"github.com/zurstadt/isnad2network/internal/dict"
	"github.com/zurstadt/isnad2network/internal/names"
	"github.com/zurstadt/isnad2network/internal/table"
)

// Stage statuses.
const (
	StatusSuccess = "success"
	StatusError   = "error"
	StatusSkipped = "skipped"
)

// StageResult is the outcome of one pipeline stage.
type StageResult struct {
	Name     string            `json:"name"`
	Status   string            `json:"status"`
	Error    string            `json:"error,omitempty"`
	Duration time.Duration     `json:"duration"`
	Outputs  map[string]string `json:"outputs,omitempty"`
}

// Result summarizes a full pipeline run.
type Result struct {
	RunID    string          `json:"run_id"`
	Stages   []StageResult   `json:"stages"`
	Duration time.Duration   `json:"duration"`
	Network  *GenerateResult `json:"network,omitempty"`
}

// Success reports whether no stage failed.
func (r *Result) Success() bool {
	for _, s := range r.Stages {
		if s.Status == StatusError {
			return false
		}
	}
	return true
}

// Run executes the pipeline stages in order. A failing stage stops the
// pipeline; results of completed stages are preserved in the returned
// Result alongside the error.
func Run(cfg *config.Config, logger *log.Logger) (*Result, error) {
	runID := uuid.NewString()
	logger = logger.With("run_id", runID)
	start := time.Now()
	result := &Result{RunID: runID}

	if err := os.MkdirAll(cfg.OutputDir, 0o755); err != nil {
		return result, fmt.Errorf("creating output directory: %w", err)
	}

	// The network stage reads the replaced names when stage 1 ran.
	cfgCopy := *cfg

	stages := []struct {
		name string
		run  func() (map[string]string, bool, error)
	}{
		{"replace", func() (map[string]string, bool, error) { return runReplace(&cfgCopy, logger) }},
		{"dictionaries", func() (map[string]string, bool, error) { return runDictionaries(&cfgCopy, logger) }},
		{"network", func() (map[string]string, bool, error) {
			gen, err := GenerateNetwork(&cfgCopy, runID, logger)
			if err != nil {
				return nil, false, err
			}
			result.Network = gen
			return gen.OutputFiles, false, nil
		}},
	}

	for _, stage := range stages {
		stageStart := time.Now()
		logger.Info("stage starting", "stage", stage.name)
		outputs, skipped, err := stage.run()
		sr := StageResult{
			Name:     stage.name,
			Status:   StatusSuccess,
			Duration: time.Since(stageStart),
			Outputs:  outputs,
		}
		switch {
		case err != nil:
			sr.Status = StatusError
			sr.Error = err.Error()
			result.Stages = append(result.Stages, sr)
			result.Duration = time.Since(start)
			logger.Error("stage failed", "stage", stage.name, "error", err)
			return result, fmt.Errorf("stage %s: %w", stage.name, err)
		case skipped:
			sr.Status = StatusSkipped
			logger.Info("stage skipped", "stage", stage.name)
		default:
			logger.Info("stage complete", "stage", stage.name, "duration", sr.Duration)
		}
		result.Stages = append(result.Stages, sr)
	}

	result.Duration = time.Since(start)
	return result, nil
}

func runReplace(cfg *config.Config, logger *log.Logger) (map[string]string, bool, error) {
	if cfg.NodelistFile == "" {
		return nil, true, nil
	}

	raw, err := table.Load(cfg.NamesFile)
	if err != nil {
		return nil, false, &InputError{Path: cfg.NamesFile, Err: err}
	}
	nodelist, err := table.Load(cfg.NodelistFile)
	if err != nil {
		return nil, false, &InputError{Path: cfg.NodelistFile, Err: err}
	}

	r, err := names.Replace(raw, nodelist, cfg.NodelistNameColumn, cfg.NodelistValueColumn)
	if err != nil {
		return nil, false, err
	}
	logger.Info("names replaced", "replaced", r.ReplacedCount, "unmatched", len(r.Unmatched))

	replacedPath := filepath.Join(cfg.OutputDir, ReplacedFile)
	if err := r.Replaced.WriteFile(replacedPath); err != nil {
		return nil, false, err
	}
	outputs := map[string]string{"names_replaced": replacedPath}

	if len(r.Unmatched) > 0 {
		unmatchedPath := filepath.Join(cfg.OutputDir, UnmatchedFile)
		if err := names.WriteUnmatched(unmatchedPath, r.Unmatched); err != nil {
			return nil, false, err
		}
		outputs["unmatched_names"] = unmatchedPath
	}

	// Downstream stages consume the canonicalized table.
	cfg.NamesFile = replacedPath
	return outputs, false, nil
}

func runDictionaries(cfg *config.Config, logger *log.Logger) (map[string]string, bool, error) {
	if len(cfg.DictColumns) == 0 {
		return nil, true, nil
	}

	trans, err := table.Load(cfg.TransFile)
	if err != nil {
		return nil, false, &InputError{Path: cfg.TransFile, Err: err}
	}

	dictDir := filepath.Join(cfg.OutputDir, DictSubdir)
	if err := os.MkdirAll(dictDir, 0o755); err != nil {
		return nil, false, fmt.Errorf("creating %s: %w", dictDir, err)
	}

	values, err := dict.UniqueValues(trans, cfg.DictColumns)
	if err != nil {
		return nil, false, err
	}
	uniquePath := filepath.Join(dictDir, UniqueFile)
	if err := dict.WriteUniqueCSV(uniquePath, values); err != nil {
		return nil, false, err
	}

	words, err := dict.WordFrequencies(trans, cfg.DictColumns)
	if err != nil {
		return nil, false, err
	}
	freqPath := filepath.Join(dictDir, FrequencyFile)
	if err := dict.WriteFrequencyCSV(freqPath, words); err != nil {
		return nil, false, err
	}

	logger.Info("dictionaries written", "unique_words", len(words), "columns", len(cfg.DictColumns))
	return map[string]string{
		"unique_values":    uniquePath,
		"term_frequencies": freqPath,
	}, false, nil
}
