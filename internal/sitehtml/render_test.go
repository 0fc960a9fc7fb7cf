package sitehtml

import (
	"strings"
	"testing"

	"github.com/angerslab/sitegen/internal/publication"
)

func TestRenderStructure(t *testing.T) {
	groups := publication.GroupByYear([]publication.Record{
		{PMID: "1", Title: "Recent work", Journal: "Nature", Authors: []string{"Smith Jane"}, DOI: "10.1/a", Year: "2021"},
		{PMID: "2", Title: "Older work", Journal: "Cell", Year: "2019"},
		{PMID: "3", Title: "Undated work"},
	})

	frag, err := Render(groups)
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}

	if strings.Count(frag, MarkerStart) != 1 || strings.Count(frag, MarkerEnd) != 1 {
		t.Error("markers must appear verbatim exactly once each")
	}
	if !strings.HasPrefix(frag, MarkerStart) || !strings.HasSuffix(frag, MarkerEnd) {
		t.Error("fragment must be wrapped in the sentinel markers")
	}

	// Section order: 2021, 2019, Unknown
	i2021 := strings.Index(frag, `data-year="2021"`)
	i2019 := strings.Index(frag, `data-year="2019"`)
	iUnknown := strings.Index(frag, `data-year="Unknown"`)
	if i2021 < 0 || i2019 < 0 || iUnknown < 0 {
		t.Fatalf("missing year sections in fragment:\n%s", frag)
	}
	if !(i2021 < i2019 && i2019 < iUnknown) {
		t.Errorf("section order = %d, %d, %d; want 2021 < 2019 < Unknown", i2021, i2019, iUnknown)
	}

	for _, want := range []string{
		`<h2 class="year">2021</h2>`,
		`<ol class="pubs">`,
		`<div class="meta">Smith Jane</div>`,
		`<div class="title">Recent work</div>`,
		`<div class="journal">Nature</div>`,
		`href="https://doi.org/10.1/a"`,
		`href="https://pubmed.ncbi.nlm.nih.gov/1/"`,
		`PMID:1`,
	} {
		if !strings.Contains(frag, want) {
			t.Errorf("fragment missing %q", want)
		}
	}
}

func TestRenderEscapesMarkup(t *testing.T) {
	groups := []publication.YearGroup{{
		Year: "2021",
		Records: []publication.Record{{
			PMID:    "1",
			Title:   `<script>alert("x")</script>`,
			Journal: `A & B`,
			Authors: []string{`<b>Bold Author</b>`},
			Year:    "2021",
		}},
	}}

	frag, err := Render(groups)
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}

	if strings.Contains(frag, "<script>") {
		t.Error("raw <script> leaked into the fragment")
	}
	if !strings.Contains(frag, "&lt;script&gt;") {
		t.Error("title was not entity-escaped")
	}
	if strings.Contains(frag, "<b>Bold Author</b>") {
		t.Error("raw author markup leaked into the fragment")
	}
}

func TestRenderSearchText(t *testing.T) {
	groups := []publication.YearGroup{{
		Year: "2021",
		Records: []publication.Record{{
			PMID:    "42",
			Title:   "WNT Signaling",
			Journal: "Nature",
			Authors: []string{"Smith Jane"},
			Year:    "2021",
		}},
	}}

	frag, err := Render(groups)
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}

	if !strings.Contains(frag, `data-search="wnt signaling nature 2021 smith jane  42"`) {
		t.Errorf("data-search missing or not lowercase:\n%s", frag)
	}
}

func TestRenderUntitledPlaceholder(t *testing.T) {
	groups := []publication.YearGroup{{
		Year:    "2021",
		Records: []publication.Record{{PMID: "1", Year: "2021"}},
	}}

	frag, err := Render(groups)
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	if !strings.Contains(frag, untitledPlaceholder) {
		t.Error("empty title should render the placeholder")
	}
}

func TestRenderLinkSeparator(t *testing.T) {
	groups := []publication.YearGroup{{
		Year: "2021",
		Records: []publication.Record{
			{PMID: "1", Title: "Both links", DOI: "10.1/a", Year: "2021"},
			{PMID: "2", Title: "PMID only", Year: "2021"},
		},
	}}

	frag, err := Render(groups)
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}

	if strings.Count(frag, "&middot;") != 1 {
		t.Errorf("separator should appear only between two present links:\n%s", frag)
	}
}
