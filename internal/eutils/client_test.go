package eutils

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

// newTestClient returns a client pointed at a test server with fast retries.
func newTestClient(serverURL string) *Client {
	return NewClient(
		WithBaseURL(serverURL),
		WithRetryDelay(time.Millisecond),
		WithAPIKey(""),
		WithEmail(""),
	)
}

func TestSearchJSON(t *testing.T) {
	var gotPath string
	var gotQuery map[string][]string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotQuery = r.URL.Query()
		w.Write([]byte(`{"esearchresult":{"count":"3","idlist":["111","222","333"]}}`))
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	ids, err := client.Search(context.Background(), "wnt signaling", 50)
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}

	want := []string{"111", "222", "333"}
	if len(ids) != len(want) {
		t.Fatalf("Search() returned %d IDs, want %d", len(ids), len(want))
	}
	for i := range want {
		if ids[i] != want[i] {
			t.Errorf("ids[%d] = %q, want %q", i, ids[i], want[i])
		}
	}

	if gotPath != "/esearch.fcgi" {
		t.Errorf("path = %q, want /esearch.fcgi", gotPath)
	}
	checks := map[string]string{
		"db":      "pubmed",
		"term":    "wnt signaling",
		"retmax":  "50",
		"retmode": "json",
		"sort":    "pub+date",
	}
	for key, want := range checks {
		if got := gotQuery[key]; len(got) != 1 || got[0] != want {
			t.Errorf("query %s = %v, want %q", key, got, want)
		}
	}
}

func TestSearchXMLFallback(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<?xml version="1.0"?>
<eSearchResult><Count>2</Count><IdList><Id>999</Id><Id>888</Id></IdList></eSearchResult>`))
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	ids, err := client.Search(context.Background(), "frizzled", 0)
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}
	if len(ids) != 2 || ids[0] != "999" || ids[1] != "888" {
		t.Errorf("Search() = %v, want [999 888]", ids)
	}
}

func TestSearchMalformedBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("not json, not xml"))
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	_, err := client.Search(context.Background(), "x", 10)
	if err == nil {
		t.Fatal("Search() error = nil, want ErrInvalidResponse")
	}
	if !strings.Contains(err.Error(), "invalid response") {
		t.Errorf("Search() error = %v, want invalid response", err)
	}
}

func TestGetRetriesTransportFailures(t *testing.T) {
	attempts := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts++
		if attempts < 3 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		w.Write([]byte(`{"esearchresult":{"idlist":["42"]}}`))
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	ids, err := client.Search(context.Background(), "retry me", 10)
	if err != nil {
		t.Fatalf("Search() error = %v after %d attempts", err, attempts)
	}
	if attempts != 3 {
		t.Errorf("attempts = %d, want 3", attempts)
	}
	if len(ids) != 1 || ids[0] != "42" {
		t.Errorf("Search() = %v, want [42]", ids)
	}
}

func TestGetExhaustsRetries(t *testing.T) {
	attempts := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts++
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	_, err := client.Search(context.Background(), "always down", 10)
	if err == nil {
		t.Fatal("Search() error = nil, want network error")
	}
	if attempts != MaxRetries {
		t.Errorf("attempts = %d, want %d", attempts, MaxRetries)
	}
	if !strings.Contains(err.Error(), "after 3 attempts") {
		t.Errorf("error = %v, want retry exhaustion message", err)
	}
}

func TestUserAgentAndCredentials(t *testing.T) {
	var gotAgent string
	var gotQuery map[string][]string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAgent = r.Header.Get("User-Agent")
		gotQuery = r.URL.Query()
		w.Write([]byte(`{"esearchresult":{"idlist":[]}}`))
	}))
	defer server.Close()

	client := NewClient(
		WithBaseURL(server.URL),
		WithRetryDelay(time.Millisecond),
		WithAPIKey("secret-key"),
		WithEmail("lab@example.edu"),
	)
	if _, err := client.Search(context.Background(), "x", 10); err != nil {
		t.Fatalf("Search() error = %v", err)
	}

	if !strings.HasPrefix(gotAgent, "sitegen/") {
		t.Errorf("User-Agent = %q, want sitegen/ prefix", gotAgent)
	}
	if got := gotQuery["api_key"]; len(got) != 1 || got[0] != "secret-key" {
		t.Errorf("api_key = %v, want secret-key", got)
	}
	if got := gotQuery["email"]; len(got) != 1 || got[0] != "lab@example.edu" {
		t.Errorf("email = %v, want lab@example.edu", got)
	}
}

func TestSummaryBatch(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/esummary.fcgi" {
			t.Errorf("path = %q, want /esummary.fcgi", r.URL.Path)
		}
		w.Write([]byte(`{"result":{
			"uids":["101","102"],
			"101":{"uid":"101","title":"First paper.","source":"Nature","pubdate":"2021 Nov 5",
				"sortpubdate":"2021/11/05 00:00",
				"authors":[{"name":"Smith J","authtype":"Author"}],
				"articleids":[{"idtype":"doi","value":"10.1000/a1"}]},
			"102":{"uid":"102","title":"Second paper","source":"Cell","pubdate":"2019 Mar",
				"sortpubdate":"2019/03/01 00:00","authors":[],"articleids":[]}
		}}`))
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	docs, err := client.SummaryBatch(context.Background(), []string{"101", "102"})
	if err != nil {
		t.Fatalf("SummaryBatch() error = %v", err)
	}
	if len(docs) != 2 {
		t.Fatalf("SummaryBatch() returned %d docs, want 2", len(docs))
	}
	if docs[0].UID != "101" || docs[0].Title != "First paper." {
		t.Errorf("docs[0] = %+v", docs[0])
	}
	if docs[1].UID != "102" || docs[1].Source != "Cell" {
		t.Errorf("docs[1] = %+v", docs[1])
	}
}

func TestFetchBatch(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/efetch.fcgi" {
			t.Errorf("path = %q, want /efetch.fcgi", r.URL.Path)
		}
		w.Write([]byte(`<?xml version="1.0"?>
<PubmedArticleSet>
  <PubmedArticle>
    <MedlineCitation>
      <PMID>12345</PMID>
      <Article>
        <Journal>
          <Title>Nature</Title>
          <JournalIssue><PubDate><Year>2021</Year><Month>Nov</Month></PubDate></JournalIssue>
        </Journal>
        <ArticleTitle>A study of things.</ArticleTitle>
        <AuthorList>
          <Author><LastName>Smith</LastName><ForeName>Jane</ForeName></Author>
          <Author><CollectiveName>The Consortium</CollectiveName></Author>
        </AuthorList>
      </Article>
    </MedlineCitation>
    <PubmedData>
      <ArticleIdList>
        <ArticleId IdType="pubmed">12345</ArticleId>
        <ArticleId IdType="doi">10.1000/xyz</ArticleId>
      </ArticleIdList>
    </PubmedData>
  </PubmedArticle>
</PubmedArticleSet>`))
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	articles, err := client.FetchBatch(context.Background(), []string{"12345"})
	if err != nil {
		t.Fatalf("FetchBatch() error = %v", err)
	}
	if len(articles) != 1 {
		t.Fatalf("FetchBatch() returned %d articles, want 1", len(articles))
	}

	a := articles[0]
	if a.PMID != "12345" {
		t.Errorf("PMID = %q, want 12345", a.PMID)
	}
	if a.Journal != "Nature" {
		t.Errorf("Journal = %q, want Nature", a.Journal)
	}
	if len(a.Authors) != 2 {
		t.Fatalf("len(Authors) = %d, want 2", len(a.Authors))
	}
	if got := a.Authors[0].DisplayName(); got != "Smith Jane" {
		t.Errorf("Authors[0].DisplayName() = %q, want %q", got, "Smith Jane")
	}
	if got := a.Authors[1].DisplayName(); got != "The Consortium" {
		t.Errorf("Authors[1].DisplayName() = %q, want %q", got, "The Consortium")
	}
	if a.PubDate.Year != "2021" {
		t.Errorf("PubDate.Year = %q, want 2021", a.PubDate.Year)
	}
}

func TestBatchSizeLimit(t *testing.T) {
	client := newTestClient("http://unused.invalid")

	ids := make([]string, MaxBatchSize+1)
	for i := range ids {
		ids[i] = "1"
	}
	// Duplicated literal IDs still count toward the limit
	if _, err := client.SummaryBatch(context.Background(), ids); err == nil {
		t.Error("SummaryBatch() error = nil, want batch too large")
	}
	if _, err := client.FetchBatch(context.Background(), ids); err == nil {
		t.Error("FetchBatch() error = nil, want batch too large")
	}
}

func TestEmptyBatchSkipsNetwork(t *testing.T) {
	client := newTestClient("http://unused.invalid")

	docs, err := client.SummaryBatch(context.Background(), []string{"", "  "})
	if err != nil {
		t.Fatalf("SummaryBatch() error = %v", err)
	}
	if docs != nil {
		t.Errorf("SummaryBatch() = %v, want nil", docs)
	}
}
