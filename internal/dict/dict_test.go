package dict

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/zurstadt/isnad2network/internal/table"
)

func sampleTable() *table.Table {
	t := table.New([]string{"path_id", "t1", "t2"})
	t.AppendRow([]string{"1", "حدثنا عن", "قرأ"})
	t.AppendRow([]string{"2", "حدثنا", ""})
	t.AppendRow([]string{"3", "عن", "قرأ"})
	return t
}

func TestUniqueValues(t *testing.T) {
	values, err := UniqueValues(sampleTable(), []string{"t1", "t2"})
	if err != nil {
		t.Fatal(err)
	}
	if len(values) != 2 {
		t.Fatalf("expected 2 column groups, got %d", len(values))
	}
	if len(values[0].Values) != 3 {
		t.Errorf("t1 should have 3 unique values, got %v", values[0].Values)
	}
	if !reflect.DeepEqual(values[1].Values, []string{"قرأ"}) {
		t.Errorf("t2 unique values: %v", values[1].Values)
	}
}

func TestUniqueValues_UnknownColumn(t *testing.T) {
	if _, err := UniqueValues(sampleTable(), []string{"nope"}); err == nil {
		t.Error("expected an error for an unknown column")
	}
}

func TestWordFrequencies(t *testing.T) {
	words, err := WordFrequencies(sampleTable(), []string{"t1", "t2"})
	if err != nil {
		t.Fatal(err)
	}
	counts := map[string]int{}
	for _, wc := range words {
		counts[wc.Word] = wc.Count
	}
	if counts["حدثنا"] != 2 || counts["عن"] != 2 || counts["قرأ"] != 2 {
		t.Errorf("unexpected counts: %v", counts)
	}
	// Sorted by count desc, then word.
	for i := 1; i < len(words); i++ {
		if words[i-1].Count < words[i].Count {
			t.Errorf("not sorted by count: %v", words)
		}
	}
}

func TestWriteFrequencyCSV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dictionary.csv")
	err := WriteFrequencyCSV(path, []WordCount{{Word: "عن", Count: 4}})
	if err != nil {
		t.Fatal(err)
	}
	f, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	records, err := csv.NewReader(f).ReadAll()
	if err != nil {
		t.Fatal(err)
	}
	if len(records) != 2 || len(records[0]) != 4 {
		t.Fatalf("expected header with annotation columns + 1 row, got %v", records)
	}
	if records[1][0] != "عن" || records[1][1] != "4" || records[1][2] != "" {
		t.Errorf("unexpected row: %v", records[1])
	}
}
