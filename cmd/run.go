package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/zurstadt/isnad2network/internal/pipeline"
)

var (
	runNames         string
	runTrans         string
	runMetadata      string
	runNodelist      string
	runOutput        string
	runBatchSize     int
	runSkipFiltering bool
	runDictColumns   []string
	runJSON          bool
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the full pipeline: name replacement, dictionaries, network generation",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		if runNames != "" {
			cfg.NamesFile = runNames
		}
		if runTrans != "" {
			cfg.TransFile = runTrans
		}
		if runMetadata != "" {
			cfg.MetadataFile = runMetadata
		}
		if runNodelist != "" {
			cfg.NodelistFile = runNodelist
		}
		if cmd.Flags().Changed("output") {
			cfg.OutputDir = runOutput
		}
		if cmd.Flags().Changed("batch-size") {
			cfg.BatchSize = runBatchSize
		}
		if cmd.Flags().Changed("skip-filtering") {
			cfg.SkipFiltering = runSkipFiltering
		}
		if len(runDictColumns) > 0 {
			cfg.DictColumns = runDictColumns
		}
		if err := cfg.Validate(); err != nil {
			return err
		}

		result, runErr := pipeline.Run(cfg, newLogger())

		if runJSON {
			enc := json.NewEncoder(os.Stdout)
			enc.SetEscapeHTML(false)
			enc.SetIndent("", "  ")
			if err := enc.Encode(result); err != nil {
				return err
			}
			return runErr
		}

		fmt.Printf("\n  Run %s\n", result.RunID)
		for _, stage := range result.Stages {
			fmt.Printf("  %-14s %s", stage.Name, stage.Status)
			if stage.Error != "" {
				fmt.Printf("  (%s)", stage.Error)
			}
			fmt.Println()
			for name, path := range stage.Outputs {
				fmt.Printf("    %s: %s\n", name, path)
			}
		}
		if result.Network != nil {
			fmt.Printf("\n  records=%d filtered=%d mismatches=%d nodes=%d edges=%d\n",
				result.Network.RecordsProcessed, result.Network.FilteredRecords,
				result.Network.LengthMismatches, result.Network.NodeCount,
				result.Network.EdgeCount)
		}
		fmt.Printf("  completed in %s\n\n", result.Duration.Round(time.Millisecond))
		return runErr
	},
}

func init() {
	runCmd.Flags().StringVar(&runNames, "names", "", "Names CSV file")
	runCmd.Flags().StringVar(&runTrans, "trans", "", "Transmission terms CSV file")
	runCmd.Flags().StringVar(&runMetadata, "metadata", "", "Path metadata CSV file")
	runCmd.Flags().StringVar(&runNodelist, "nodelist", "", "Nodelist CSV for name replacement")
	runCmd.Flags().StringVar(&runOutput, "output", "output", "Output directory")
	runCmd.Flags().IntVar(&runBatchSize, "batch-size", 100, "Rows per analysis batch")
	runCmd.Flags().BoolVar(&runSkipFiltering, "skip-filtering", false, "Fail on dimension mismatch instead of filtering")
	runCmd.Flags().StringSliceVar(&runDictColumns, "dict-columns", nil, "Columns to export as dictionaries")
	runCmd.Flags().BoolVar(&runJSON, "json", false, "Output run summary as JSON")
	rootCmd.AddCommand(runCmd)
}
