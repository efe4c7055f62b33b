package cmd

import (
	"fmt"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/zurstadt/isnad2network/internal/pipeline"
)

var (
	networkNames         string
	networkTrans         string
	networkMetadata      string
	networkOutput        string
	networkBatchSize     int
	networkSkipFiltering bool
	networkFromPaths     string
)

var networkCmd = &cobra.Command{
	Use:   "network",
	Short: "Generate the network graph from the input tables",
	Long: `Generate the network graph from the names and transmission-terms tables,
or re-project a previously written path-data artifact with --from-paths.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		logger := newLogger()
		runID := uuid.NewString()

		if networkFromPaths != "" {
			out := filepath.Join(networkOutput, pipeline.NetworkSubdir, pipeline.NetworkFile)
			net, err := pipeline.Reproject(networkFromPaths, out, runID, logger)
			if err != nil {
				return err
			}
			fmt.Printf("  nodes=%d edges=%d paths=%d\n",
				net.Metadata.NodeCount, net.Metadata.EdgeCount, net.Metadata.PathCount)
			fmt.Printf("  wrote %s\n", out)
			return nil
		}

		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		if networkNames != "" {
			cfg.NamesFile = networkNames
		}
		if networkTrans != "" {
			cfg.TransFile = networkTrans
		}
		if networkMetadata != "" {
			cfg.MetadataFile = networkMetadata
		}
		if cmd.Flags().Changed("output") {
			cfg.OutputDir = networkOutput
		}
		if cmd.Flags().Changed("batch-size") {
			cfg.BatchSize = networkBatchSize
		}
		if cmd.Flags().Changed("skip-filtering") {
			cfg.SkipFiltering = networkSkipFiltering
		}
		if err := cfg.Validate(); err != nil {
			return err
		}

		result, err := pipeline.GenerateNetwork(cfg, runID, logger)
		if err != nil {
			return err
		}

		fmt.Printf("\n  records=%d filtered=%d mismatches=%d\n",
			result.RecordsProcessed, result.FilteredRecords, result.LengthMismatches)
		fmt.Printf("  nodes=%d edges=%d unique_terms=%d\n",
			result.NodeCount, result.EdgeCount, result.UniqueTerms)
		for name, path := range result.OutputFiles {
			fmt.Printf("  %s: %s\n", name, path)
		}
		fmt.Println()
		return nil
	},
}

func init() {
	networkCmd.Flags().StringVar(&networkNames, "names", "", "Names CSV file")
	networkCmd.Flags().StringVar(&networkTrans, "trans", "", "Transmission terms CSV file")
	networkCmd.Flags().StringVar(&networkMetadata, "metadata", "", "Path metadata CSV file")
	networkCmd.Flags().StringVar(&networkOutput, "output", "output", "Output directory")
	networkCmd.Flags().IntVar(&networkBatchSize, "batch-size", 100, "Rows per analysis batch")
	networkCmd.Flags().BoolVar(&networkSkipFiltering, "skip-filtering", false, "Fail on dimension mismatch instead of filtering")
	networkCmd.Flags().StringVar(&networkFromPaths, "from-paths", "", "Re-project an existing path-data JSON file instead of reading CSVs")
	rootCmd.AddCommand(networkCmd)
}
