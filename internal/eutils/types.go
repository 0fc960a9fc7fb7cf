package eutils

import (
	"encoding/json"
	"strings"
)

// esearchResult is the JSON envelope returned by esearch with retmode=json.
type esearchResult struct {
	Result struct {
		Count  string   `json:"count"`
		IDList []string `json:"idlist"`
	} `json:"esearchresult"`
}

// esearchXMLResult is the XML envelope returned by esearch with retmode=xml.
type esearchXMLResult struct {
	IDs []string `xml:"IdList>Id"`
}

// DocSummary is one record from the esummary JSON document set.
type DocSummary struct {
	UID             string          `json:"uid"`
	Title           string          `json:"title"`
	Source          string          `json:"source"`
	FullJournalName string          `json:"fulljournalname"`
	PubDate         string          `json:"pubdate"`
	EPubDate        string          `json:"epubdate"`
	SortPubDate     string          `json:"sortpubdate"`
	Authors         []SummaryAuthor `json:"authors"`
	ArticleIDs      []SummaryID     `json:"articleids"`
	ELocationID     string          `json:"elocationid"`
}

// SummaryAuthor is an author entry in an esummary record.
type SummaryAuthor struct {
	Name     string `json:"name"`
	AuthType string `json:"authtype"`
}

// SummaryID is an alternate identifier attached to an esummary record.
type SummaryID struct {
	IDType string `json:"idtype"`
	Value  string `json:"value"`
}

// esummaryEnvelope is the outer shape of an esummary JSON response.
// Records are keyed by UID next to a "uids" ordering list, so the
// record map is decoded lazily per UID.
type esummaryEnvelope struct {
	Result map[string]json.RawMessage `json:"result"`
}

// Article is one structured record from the efetch XML document set.
type Article struct {
	PMID         string        `xml:"MedlineCitation>PMID"`
	Title        string        `xml:"MedlineCitation>Article>ArticleTitle"`
	Journal      string        `xml:"MedlineCitation>Article>Journal>Title"`
	Authors      []Author      `xml:"MedlineCitation>Article>AuthorList>Author"`
	ArticleDate  ArticleDate   `xml:"MedlineCitation>Article>ArticleDate"`
	PubDate      JournalDate   `xml:"MedlineCitation>Article>Journal>JournalIssue>PubDate"`
	ELocationIDs []ELocationID `xml:"MedlineCitation>Article>ELocationID"`
	ArticleIDs   []ArticleID   `xml:"PubmedData>ArticleIdList>ArticleId"`
}

// Author is one entry of an efetch AuthorList. CollectiveName is set for
// consortium authors instead of LastName/ForeName.
type Author struct {
	LastName       string `xml:"LastName"`
	ForeName       string `xml:"ForeName"`
	CollectiveName string `xml:"CollectiveName"`
}

// DisplayName returns the name as rendered in a citation: "Last Fore",
// or the collective name for consortium authors.
func (a Author) DisplayName() string {
	if coll := strings.TrimSpace(a.CollectiveName); coll != "" {
		return coll
	}
	last := strings.TrimSpace(a.LastName)
	fore := strings.TrimSpace(a.ForeName)
	switch {
	case last != "" && fore != "":
		return last + " " + fore
	case last != "":
		return last
	default:
		return fore
	}
}

// ArticleDate is the electronic publication date of an article.
type ArticleDate struct {
	Year  string `xml:"Year"`
	Month string `xml:"Month"`
	Day   string `xml:"Day"`
}

// JournalDate is the print publication date from the journal issue.
// MedlineDate holds free-text ranges like "2021 Nov-Dec" when the
// structured fields are absent.
type JournalDate struct {
	Year        string `xml:"Year"`
	Month       string `xml:"Month"`
	Day         string `xml:"Day"`
	MedlineDate string `xml:"MedlineDate"`
}

// ELocationID is an electronic location entry (DOI or PII).
type ELocationID struct {
	EIDType string `xml:"EIdType,attr"`
	Value   string `xml:",chardata"`
}

// ArticleID is an alternate identifier from the PubmedData block.
type ArticleID struct {
	IDType string `xml:"IdType,attr"`
	Value  string `xml:",chardata"`
}

// articleSet is the efetch XML envelope.
type articleSet struct {
	Articles []Article `xml:"PubmedArticle"`
}
