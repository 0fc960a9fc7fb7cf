package publication

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/angerslab/sitegen/internal/eutils"
)

// fourDigitYear matches an exact structured year value.
var fourDigitYear = regexp.MustCompile(`^\d{4}$`)

// looseYear finds a plausible year anywhere in a free-text date string.
var looseYear = regexp.MustCompile(`(19|20)\d{2}`)

// monthNumbers maps PubMed month abbreviations to zero-padded numbers so
// free-text dates become lexically sortable.
var monthNumbers = map[string]string{
	"jan": "01", "feb": "02", "mar": "03", "apr": "04",
	"may": "05", "jun": "06", "jul": "07", "aug": "08",
	"sep": "09", "oct": "10", "nov": "11", "dec": "12",
}

// FromArticle normalizes a verbose efetch XML record.
func FromArticle(a eutils.Article) Record {
	authors := make([]string, 0, len(a.Authors))
	for _, author := range a.Authors {
		if name := author.DisplayName(); name != "" {
			authors = append(authors, name)
		}
	}

	doi := ""
	for _, id := range a.ArticleIDs {
		if strings.EqualFold(id.IDType, "doi") {
			doi = strings.TrimSpace(id.Value)
			break
		}
	}
	if doi == "" {
		for _, loc := range a.ELocationIDs {
			if strings.EqualFold(loc.EIDType, "doi") {
				doi = strings.TrimSpace(loc.Value)
				break
			}
			if parsed := parseDOIMarker(loc.Value); parsed != "" {
				doi = parsed
				break
			}
		}
	}

	year := extractYear(
		[]string{a.ArticleDate.Year, a.PubDate.Year},
		[]string{a.PubDate.MedlineDate},
	)

	return Record{
		PMID:     strings.TrimSpace(a.PMID),
		Title:    normalizeTitle(a.Title),
		Journal:  strings.TrimSpace(a.Journal),
		Authors:  authors,
		DOI:      doi,
		Year:     year,
		SortDate: articleSortDate(a, year),
	}
}

// FromSummary normalizes a compact esummary JSON record.
func FromSummary(doc eutils.DocSummary) Record {
	authors := make([]string, 0, len(doc.Authors))
	for _, author := range doc.Authors {
		if name := strings.TrimSpace(author.Name); name != "" {
			authors = append(authors, name)
		}
	}

	doi := ""
	for _, id := range doc.ArticleIDs {
		if strings.EqualFold(id.IDType, "doi") {
			doi = strings.TrimSpace(id.Value)
			break
		}
	}
	if doi == "" {
		doi = parseDOIMarker(doc.ELocationID)
	}

	journal := doc.FullJournalName
	if journal == "" {
		journal = doc.Source
	}

	year := extractYear(nil, []string{doc.PubDate, doc.EPubDate})

	// sortpubdate is already "YYYY/MM/DD hh:mm"; keep the date part.
	sortDate := doc.SortPubDate
	if i := strings.IndexByte(sortDate, ' '); i >= 0 {
		sortDate = sortDate[:i]
	}

	return Record{
		PMID:     strings.TrimSpace(doc.UID),
		Title:    normalizeTitle(doc.Title),
		Journal:  strings.TrimSpace(journal),
		Authors:  authors,
		DOI:      doi,
		Year:     year,
		SortDate: sortDate,
	}
}

// normalizeTitle trims whitespace and a single trailing period, so rendering
// can append punctuation without producing "Title..".
func normalizeTitle(title string) string {
	title = strings.TrimSpace(title)
	if strings.HasSuffix(title, ".") {
		title = title[:len(title)-1]
	}
	return title
}

// extractYear applies the year policy: the first well-formed structured
// candidate wins, then the first loose match inside a free-text date,
// otherwise YearUnknown.
func extractYear(structured, freeText []string) string {
	for _, y := range structured {
		if fourDigitYear.MatchString(y) {
			return y
		}
	}
	for _, text := range freeText {
		if match := looseYear.FindString(text); match != "" {
			return match
		}
	}
	return YearUnknown
}

// parseDOIMarker pulls a DOI out of a free-text location field such as
// "doi: 10.1234/abc.5678", taking the next whitespace-delimited token.
func parseDOIMarker(text string) string {
	lower := strings.ToLower(text)
	i := strings.Index(lower, "doi:")
	if i < 0 {
		return ""
	}
	rest := strings.TrimSpace(text[i+len("doi:"):])
	if rest == "" {
		return ""
	}
	if j := strings.IndexFunc(rest, func(r rune) bool { return r == ' ' || r == '\t' || r == '\n' }); j >= 0 {
		rest = rest[:j]
	}
	return rest
}

// articleSortDate builds a "YYYY/MM/DD" ordering hint from the article's
// electronic date, falling back to the journal issue date.
func articleSortDate(a eutils.Article, year string) string {
	if year == YearUnknown {
		return ""
	}

	month, day := a.ArticleDate.Month, a.ArticleDate.Day
	if a.ArticleDate.Year == "" {
		month, day = a.PubDate.Month, a.PubDate.Day
	}

	return fmt.Sprintf("%s/%s/%s", year, monthNumber(month), dayNumber(day))
}

// monthNumber converts a month name, abbreviation, or number to "MM".
func monthNumber(month string) string {
	month = strings.ToLower(strings.TrimSpace(month))
	if month == "" {
		return "00"
	}
	if len(month) >= 3 {
		if num, ok := monthNumbers[month[:3]]; ok {
			return num
		}
	}
	if len(month) == 1 {
		return "0" + month
	}
	if len(month) == 2 && month[0] >= '0' && month[0] <= '9' {
		return month
	}
	return "00"
}

// dayNumber zero-pads a day-of-month string.
func dayNumber(day string) string {
	day = strings.TrimSpace(day)
	switch len(day) {
	case 1:
		return "0" + day
	case 2:
		return day
	default:
		return "00"
	}
}
