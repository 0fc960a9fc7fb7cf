// Package publication defines the canonical publication record and the
// pipeline that builds the grouped publications list from PubMed.
package publication

import "strings"

// YearUnknown is the bucket key for records with no discoverable year.
const YearUnknown = "Unknown"

// Record is the canonical publication unit. It is built fresh on every run
// from one of the E-utilities response shapes and never persisted by the
// pipeline itself.
type Record struct {
	PMID    string   `json:"pmid"`
	Title   string   `json:"title"`
	Journal string   `json:"journal"`
	Authors []string `json:"authors"` // citation order, as returned by PubMed
	DOI     string   `json:"doi,omitempty"`
	Year    string   `json:"year"` // four digits, or YearUnknown

	// SortDate is a normalized "YYYY/MM/DD" hint used only for ordering
	// within a year group. Empty when the source had no usable date.
	SortDate string `json:"sort_date,omitempty"`
}

// SearchText derives the lowercase haystack used for client-side filtering.
// It is always recomputed from the other fields; there is no independent
// source of truth, and it must never be used for identity.
func (r Record) SearchText() string {
	parts := []string{
		r.Title,
		r.Journal,
		r.Year,
		strings.Join(r.Authors, ", "),
		r.DOI,
		r.PMID,
	}
	return strings.ToLower(strings.Join(parts, " "))
}
