package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/zurstadt/isnad2network/internal/table"
)

var sampleOutput string

// Ten chains, one per canonical reader, small enough to eyeball the
// generated graph by hand.
var (
	sampleNames = [][]string{
		{"1", "jb_001", "نافع", "قالون", "ورش"},
		{"2", "jb_002", "ابن كثير", "البزي", "قنبل"},
		{"3", "jb_003", "أبو عمرو", "الدوري", "السوسي"},
		{"4", "jb_004", "ابن عامر", "هشام", "ابن ذكوان"},
		{"5", "jb_005", "عاصم", "أبو بكر", "حفص"},
		{"6", "jb_006", "حمزة", "خلف", "خلاد"},
		{"7", "jb_007", "الكسائي", "الدوري", "أبو الحارث"},
		{"8", "jb_008", "أبو جعفر", "ابن وردان", "ابن جماز"},
		{"9", "jb_009", "يعقوب", "رويس", "روح"},
		{"10", "jb_010", "خلف", "إسحاق", "إدريس"},
	}
	sampleTerms = [][]string{
		{"1", "jb_001", "حدثنا", "حدثنا", ""},
		{"2", "jb_002", "أخبرنا", "أخبرنا", ""},
		{"3", "jb_003", "عن", "عن", ""},
		{"4", "jb_004", "قرأت", "قرأت", ""},
		{"5", "jb_005", "سمعت", "", ""},
		{"6", "jb_006", "روى", "روى", ""},
		{"7", "jb_007", "قرأ", "قرأ", ""},
		{"8", "jb_008", "حدثنا", "حدثنا", ""},
		{"9", "jb_009", "أخبرنا", "أخبرنا", ""},
		{"10", "jb_010", "قرأت عن", "", ""},
	}
	sampleMeta = [][]string{
		{"1", "riwayah", "Nāfiʿ", "al-Dūrī"},
		{"2", "tilawah", "Ibn Kaṯīr", "al-Bazzī"},
		{"3", "riwayah", "ʾAbū ʿAmr", "al-Sūsī"},
		{"4", "tilawah", "Ibn ʿĀmir", "Hišām"},
		{"5", "riwayah", "ʿĀṣim", "Ḥafṣ"},
		{"6", "tilawah", "Ḥamzah", "Ḫalaf"},
		{"7", "riwayah", "al-Kisāʾī", "ʾAbū al-Ḥāriṯ"},
		{"8", "tilawah", "ʾAbū Ǧaʿfar", "Ibn Wardān"},
		{"9", "riwayah", "Yaʿqūb", "Ruwais"},
		{"10", "mixed", "Ḫalaf", "ʾIsḥāq"},
	}
)

var sampleCmd = &cobra.Command{
	Use:   "sample",
	Short: "Write sample input CSV files for trying out the pipeline",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := os.MkdirAll(sampleOutput, 0o755); err != nil {
			return fmt.Errorf("creating %s: %w", sampleOutput, err)
		}

		files := []struct {
			name    string
			columns []string
			rows    [][]string
		}{
			{"names.csv", []string{"path_id", "isnad_id", "t1", "t2", "t3"}, sampleNames},
			{"transmission_terms.csv", []string{"path_id", "isnad_id", "t1", "t2", "t3"}, sampleTerms},
			{"metadata.csv", []string{"path_id", "_mode", "Reader", "Path"}, sampleMeta},
		}
		for _, f := range files {
			t := table.New(f.columns)
			for _, row := range f.rows {
				t.AppendRow(row)
			}
			path := filepath.Join(sampleOutput, f.name)
			if err := t.WriteFile(path); err != nil {
				return err
			}
			fmt.Printf("  wrote %s\n", path)
		}
		return nil
	},
}

func init() {
	sampleCmd.Flags().StringVar(&sampleOutput, "output", "sample_data", "Directory for the sample files")
	rootCmd.AddCommand(sampleCmd)
}
