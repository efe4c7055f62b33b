package cmd

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/zurstadt/isnad2network/internal/netdb"
	"github.com/zurstadt/isnad2network/internal/network"
)

var (
	exportDB   string
	exportFind string
)

var exportCmd = &cobra.Command{
	Use:   "export <network.json>",
	Short: "Export a network graph JSON file into a SQLite database",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		net, err := network.Load(args[0])
		if err != nil {
			return err
		}

		db, err := netdb.OpenDB(exportDB)
		if err != nil {
			return err
		}
		defer db.Close()

		if err := db.ExportNetwork(net); err != nil {
			return err
		}

		fmt.Printf("  exported nodes=%d edges=%d paths=%d to %s\n",
			len(net.Nodes), len(net.Edges), len(net.Paths), exportDB)

		// Deduplicated edge counts, the per-edge counterpart of the
		// cell-level histogram in the path-data artifact.
		counts, err := db.EdgeTypeCounts()
		if err != nil {
			return err
		}
		kinds := make([]string, 0, len(counts))
		for kind := range counts {
			kinds = append(kinds, kind)
		}
		sort.Strings(kinds)
		for _, kind := range kinds {
			fmt.Printf("  edges[%s]=%d\n", kind, counts[kind])
		}

		if exportFind != "" {
			nodes, err := db.SearchNodesByName(exportFind, 10)
			if err != nil {
				return err
			}
			fmt.Printf("  %d node(s) matching %q:\n", len(nodes), exportFind)
			for _, node := range nodes {
				fmt.Printf("    %s %s\n", node.ID, node.Name)
			}
		}
		return nil
	},
}

func init() {
	exportCmd.Flags().StringVar(&exportDB, "db", "network.db", "SQLite database path")
	exportCmd.Flags().StringVar(&exportFind, "find", "", "Print exported nodes whose name contains this fragment")
	rootCmd.AddCommand(exportCmd)
}
