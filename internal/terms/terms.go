// Package terms classifies the transmission annotations attached to isnad
// hops: how a text was passed from one transmitter to the next.
package terms

import "strings"

// Classification is the transmission mode derived from an annotation cell.
type Classification string

const (
	Riwayah Classification = "riwayah" // oral-transmission vocabulary only
	Tilawah Classification = "tilawah" // recitation vocabulary only
	Mixed   Classification = "mixed"   // both vocabularies in one annotation
	Other   Classification = "other"   // text present, no indicator matched
	Unknown Classification = "unknown" // no annotation at all
)

func (c Classification) String() string { return string(c) }

// Indicator lexicons. An annotation containing a keyword from both sets is
// classified as mixed.
var (
	riwayahIndicators = []string{"حدثنا", "أخبرنا", "سمعت", "عن", "روى"}
	tilawahIndicators = []string{"قرأت", "قرأ", "تلا"}
)

// Term is the analysis of one non-empty annotation cell.
type Term struct {
	OriginalText   string         `json:"original_text"`
	Terms          []string       `json:"terms"`
	Classification Classification `json:"primary_classification"`
}

// Classify analyzes a raw cell value. It returns nil for empty or
// all-whitespace input, and for input that yields no sub-terms after
// splitting; any other input produces exactly one classified Term.
func Classify(text string) *Term {
	original := strings.TrimSpace(text)
	if original == "" {
		return nil
	}

	// The Arabic comma is treated identically to a plain comma.
	parts := strings.Split(strings.ReplaceAll(original, "،", ","), ",")
	var subTerms []string
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			subTerms = append(subTerms, p)
		}
	}
	if len(subTerms) == 0 {
		return nil
	}

	return &Term{
		OriginalText:   original,
		Terms:          subTerms,
		Classification: classify(original),
	}
}

func classify(text string) Classification {
	hasRiwayah := containsAny(text, riwayahIndicators)
	hasTilawah := containsAny(text, tilawahIndicators)
	switch {
	case hasRiwayah && hasTilawah:
		return Mixed
	case hasRiwayah:
		return Riwayah
	case hasTilawah:
		return Tilawah
	default:
		return Other
	}
}

func containsAny(text string, indicators []string) bool {
	for _, ind := range indicators {
		if strings.Contains(text, ind) {
			return true
		}
	}
	return false
}
