// Package sitehtml renders the publications fragment and injects it into
// the hand-authored site page.
package sitehtml

import (
	"bytes"
	"html/template"
	"strings"

	"github.com/angerslab/sitegen/internal/publication"
)

// Sentinel markers delimiting the machine-managed region of the page.
// They must appear verbatim exactly once each in the rendered fragment.
const (
	MarkerStart = "<!-- PUBLIST:START -->"
	MarkerEnd   = "<!-- PUBLIST:END -->"
)

// Resolver URL prefixes for the link row.
const (
	doiResolver  = "https://doi.org/"
	pmidResolver = "https://pubmed.ncbi.nlm.nih.gov/"
)

// untitledPlaceholder stands in for records with an empty title.
const untitledPlaceholder = "(untitled)"

// compiledFragment is parsed at init time to fail fast on template errors.
var compiledFragment *template.Template

func init() {
	compiledFragment = template.Must(template.New("publist").Parse(fragmentTemplate))
}

const fragmentTemplate = `{{range .}}<section class="year-block" data-year="{{.Year}}">
  <h2 class="year">{{.Year}}</h2>
  <ol class="pubs">
{{- range .Entries}}
    <li class="pub" data-search="{{.SearchText}}">
      <div class="meta">{{.Meta}}</div>
      <div class="title">{{.Title}}</div>
      <div class="journal">{{.Journal}}</div>
      <div class="links">{{if .DOIURL}}<a href="{{.DOIURL}}" target="_blank" rel="noopener">DOI</a>{{end}}{{if and .DOIURL .PMID}} &middot; {{end}}{{if .PMID}}<a href="{{.PMIDURL}}" target="_blank" rel="noopener">PMID:{{.PMID}}</a>{{end}}</div>
    </li>
{{- end}}
  </ol>
</section>
{{end}}`

// groupView is one year section prepared for the template.
type groupView struct {
	Year    string
	Entries []entryView
}

// entryView is one publication prepared for the template. All fields pass
// through html/template's contextual escaping, so externally-sourced
// bibliographic text can never inject markup.
type entryView struct {
	Meta       string // comma-joined author list
	Title      string
	Journal    string
	SearchText string
	PMID       string
	PMIDURL    string
	DOIURL     string
}

// Render serializes grouped records into the HTML fragment, wrapped in the
// sentinel markers the injector looks for.
func Render(groups []publication.YearGroup) (string, error) {
	views := make([]groupView, 0, len(groups))
	for _, g := range groups {
		view := groupView{Year: g.Year, Entries: make([]entryView, 0, len(g.Records))}
		for _, r := range g.Records {
			entry := entryView{
				Meta:       strings.Join(r.Authors, ", "),
				Title:      r.Title,
				Journal:    r.Journal,
				SearchText: r.SearchText(),
				PMID:       r.PMID,
			}
			if entry.Title == "" {
				entry.Title = untitledPlaceholder
			}
			if r.PMID != "" {
				entry.PMIDURL = pmidResolver + r.PMID + "/"
			}
			if r.DOI != "" {
				entry.DOIURL = doiResolver + r.DOI
			}
			view.Entries = append(view.Entries, entry)
		}
		views = append(views, view)
	}

	var buf bytes.Buffer
	buf.WriteString(MarkerStart)
	buf.WriteString("\n")
	if err := compiledFragment.Execute(&buf, views); err != nil {
		return "", err
	}
	buf.WriteString(MarkerEnd)
	return buf.String(), nil
}
