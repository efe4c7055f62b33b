package terms

import "testing"

func TestClassify_EmptyInput(t *testing.T) {
	for _, input := range []string{"", "   ", "\t\n"} {
		if term := Classify(input); term != nil {
			t.Errorf("Classify(%q) = %+v, want nil", input, term)
		}
	}
}

func TestClassify_OnlyDelimiters(t *testing.T) {
	if term := Classify("،، ,"); term != nil {
		t.Errorf("delimiter-only input should yield no term, got %+v", term)
	}
}

func TestClassify_Riwayah(t *testing.T) {
	term := Classify("حدثنا")
	if term == nil {
		t.Fatal("expected a term")
	}
	if term.Classification != Riwayah {
		t.Errorf("expected riwayah, got %s", term.Classification)
	}
	if len(term.Terms) != 1 || term.Terms[0] != "حدثنا" {
		t.Errorf("unexpected sub-terms: %v", term.Terms)
	}
}

func TestClassify_Tilawah(t *testing.T) {
	term := Classify("قرأت")
	if term == nil {
		t.Fatal("expected a term")
	}
	if term.Classification != Tilawah {
		t.Errorf("expected tilawah, got %s", term.Classification)
	}
}

func TestClassify_Mixed(t *testing.T) {
	term := Classify("قرأت عن")
	if term == nil {
		t.Fatal("expected a term")
	}
	if term.Classification != Mixed {
		t.Errorf("expected mixed, got %s", term.Classification)
	}
}

func TestClassify_Other(t *testing.T) {
	term := Classify("كتب إلي")
	if term == nil {
		t.Fatal("expected a term")
	}
	if term.Classification != Other {
		t.Errorf("expected other, got %s", term.Classification)
	}
}

func TestClassify_ArabicCommaSplitting(t *testing.T) {
	term := Classify("حدثنا، أخبرنا")
	if term == nil {
		t.Fatal("expected a term")
	}
	if len(term.Terms) != 2 {
		t.Fatalf("expected 2 sub-terms, got %v", term.Terms)
	}
	if term.Terms[0] != "حدثنا" || term.Terms[1] != "أخبرنا" {
		t.Errorf("unexpected sub-terms: %v", term.Terms)
	}
	if term.Classification != Riwayah {
		t.Errorf("expected riwayah, got %s", term.Classification)
	}
}

func TestClassify_PlainCommaSplitting(t *testing.T) {
	term := Classify("قرأ, تلا")
	if term == nil {
		t.Fatal("expected a term")
	}
	if len(term.Terms) != 2 {
		t.Errorf("expected 2 sub-terms, got %v", term.Terms)
	}
	if term.Classification != Tilawah {
		t.Errorf("expected tilawah, got %s", term.Classification)
	}
}

func TestClassify_TrimsOriginalText(t *testing.T) {
	term := Classify("  روى  ")
	if term == nil {
		t.Fatal("expected a term")
	}
	if term.OriginalText != "روى" {
		t.Errorf("original text not trimmed: %q", term.OriginalText)
	}
}
