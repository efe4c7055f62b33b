package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/zurstadt/isnad2network/internal/names"
	"github.com/zurstadt/isnad2network/internal/table"
)

var (
	replaceNames       string
	replaceNodelist    string
	replaceNameColumn  string
	replaceValueColumn string
	replaceOut         string
	replaceUnmatched   string
)

var replaceCmd = &cobra.Command{
	Use:   "replace",
	Short: "Replace raw transmitter names with canonical nodelist values",
	RunE: func(cmd *cobra.Command, args []string) error {
		namesTable, err := table.Load(replaceNames)
		if err != nil {
			return fmt.Errorf("loading names: %w", err)
		}
		nodelist, err := table.Load(replaceNodelist)
		if err != nil {
			return fmt.Errorf("loading nodelist: %w", err)
		}

		result, err := names.Replace(namesTable, nodelist, replaceNameColumn, replaceValueColumn)
		if err != nil {
			return err
		}
		if err := result.Replaced.WriteFile(replaceOut); err != nil {
			return err
		}
		if replaceUnmatched != "" {
			if err := names.WriteUnmatched(replaceUnmatched, result.Unmatched); err != nil {
				return err
			}
		}

		fmt.Printf("  replaced=%d unmatched=%d\n", result.ReplacedCount, len(result.Unmatched))
		fmt.Printf("  wrote %s\n", replaceOut)
		return nil
	},
}

func init() {
	replaceCmd.Flags().StringVar(&replaceNames, "names", "", "Names CSV file")
	replaceCmd.Flags().StringVar(&replaceNodelist, "nodelist", "", "Nodelist CSV file")
	replaceCmd.Flags().StringVar(&replaceNameColumn, "name-column", "name", "Nodelist column holding raw names")
	replaceCmd.Flags().StringVar(&replaceValueColumn, "value-column", "value", "Nodelist column holding canonical values")
	replaceCmd.Flags().StringVar(&replaceOut, "out", "names_replaced.csv", "Output CSV file")
	replaceCmd.Flags().StringVar(&replaceUnmatched, "unmatched", "", "Optional file listing names absent from the nodelist")
	replaceCmd.MarkFlagRequired("names")
	replaceCmd.MarkFlagRequired("nodelist")
	rootCmd.AddCommand(replaceCmd)
}
