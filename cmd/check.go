package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/zurstadt/isnad2network/internal/check"
	"github.com/zurstadt/isnad2network/internal/table"
)

var (
	checkNames    string
	checkTrans    string
	checkMetadata string
	checkJSON     bool
)

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Check dimension and chain-length consistency between the input tables",
	RunE: func(cmd *cobra.Command, args []string) error {
		names, err := table.Load(checkNames)
		if err != nil {
			return fmt.Errorf("loading names: %w", err)
		}
		trans, err := table.Load(checkTrans)
		if err != nil {
			return fmt.Errorf("loading transmission terms: %w", err)
		}
		var meta *table.Table
		if checkMetadata != "" {
			if meta, err = table.Load(checkMetadata); err != nil {
				return fmt.Errorf("loading metadata: %w", err)
			}
		}

		dims := check.CheckDimensions(names, trans, meta)
		mismatches, skipped := check.CompareChainLengths(names, trans)

		if checkJSON {
			report := struct {
				Dimensions check.DimensionReport  `json:"dimensions"`
				Mismatches []check.LengthMismatch `json:"length_mismatches"`
				Skipped    []string               `json:"skipped_ids,omitempty"`
			}{dims, mismatches, skipped}
			enc := json.NewEncoder(os.Stdout)
			enc.SetEscapeHTML(false)
			enc.SetIndent("", "  ")
			if err := enc.Encode(report); err != nil {
				return err
			}
		} else {
			fmt.Printf("\n  Rows: names=%d trans=%d\n", dims.NamesRows, dims.TransRows)
			if dims.Valid {
				fmt.Println("  Dimensions: ok")
			} else {
				fmt.Println("  Dimensions: FAILED")
				if dims.MissingPathIDInNames {
					fmt.Println("    names table has no path_id column")
				}
				if dims.MissingPathIDInTrans {
					fmt.Println("    transmission-terms table has no path_id column")
				}
				if dims.MissingPathIDInMetadata {
					fmt.Println("    metadata table has no path_id column")
				}
				if dims.RowCountMismatch {
					fmt.Println("    row counts disagree")
				}
			}
			if len(mismatches) > 0 {
				fmt.Printf("  Chain-length mismatches: %d\n", len(mismatches))
				for _, m := range mismatches {
					fmt.Printf("    %s names=%d trans=%d diff=%d\n",
						m.PathID, m.NamesLength, m.TransLength, m.Difference)
				}
			} else {
				fmt.Println("  Chain lengths: ok")
			}
			if len(skipped) > 0 {
				fmt.Printf("  Skipped (missing in one table): %d ids\n", len(skipped))
			}
			fmt.Println()
		}

		if !dims.Valid {
			return fmt.Errorf("dimension check failed")
		}
		return nil
	},
}

func init() {
	checkCmd.Flags().StringVar(&checkNames, "names", "", "Names CSV file")
	checkCmd.Flags().StringVar(&checkTrans, "trans", "", "Transmission terms CSV file")
	checkCmd.Flags().StringVar(&checkMetadata, "metadata", "", "Path metadata CSV file")
	checkCmd.Flags().BoolVar(&checkJSON, "json", false, "Output as JSON")
	checkCmd.MarkFlagRequired("names")
	checkCmd.MarkFlagRequired("trans")
	rootCmd.AddCommand(checkCmd)
}
