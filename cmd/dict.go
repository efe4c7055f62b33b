package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/zurstadt/isnad2network/internal/dict"
	"github.com/zurstadt/isnad2network/internal/pipeline"
	"github.com/zurstadt/isnad2network/internal/table"
)

var (
	dictInput   string
	dictColumns []string
	dictOutput  string
)

var dictCmd = &cobra.Command{
	Use:   "dict",
	Short: "Export unique values and word frequencies from table columns",
	RunE: func(cmd *cobra.Command, args []string) error {
		t, err := table.Load(dictInput)
		if err != nil {
			return fmt.Errorf("loading input: %w", err)
		}
		if err := os.MkdirAll(dictOutput, 0o755); err != nil {
			return fmt.Errorf("creating %s: %w", dictOutput, err)
		}

		values, err := dict.UniqueValues(t, dictColumns)
		if err != nil {
			return err
		}
		uniquePath := filepath.Join(dictOutput, pipeline.UniqueFile)
		if err := dict.WriteUniqueCSV(uniquePath, values); err != nil {
			return err
		}

		words, err := dict.WordFrequencies(t, dictColumns)
		if err != nil {
			return err
		}
		freqPath := filepath.Join(dictOutput, pipeline.FrequencyFile)
		if err := dict.WriteFrequencyCSV(freqPath, words); err != nil {
			return err
		}

		fmt.Printf("  wrote %s\n  wrote %s\n", uniquePath, freqPath)
		return nil
	},
}

func init() {
	dictCmd.Flags().StringVar(&dictInput, "input", "", "Input CSV file")
	dictCmd.Flags().StringSliceVar(&dictColumns, "columns", nil, "Columns to export")
	dictCmd.Flags().StringVar(&dictOutput, "output", "dictionaries", "Output directory")
	dictCmd.MarkFlagRequired("input")
	dictCmd.MarkFlagRequired("columns")
	rootCmd.AddCommand(dictCmd)
}
