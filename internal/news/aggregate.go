package news

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/mmcdole/gofeed"
)

// Item is one serialized news entry.
type Item struct {
	Title   string `json:"title"`
	Link    string `json:"link"`
	PubDate string `json:"pubDate"` // RFC 3339, empty when the feed had no parseable date
	Source  string `json:"source"`
}

// Aggregator fetches the configured feeds and produces the filtered,
// deduplicated, newest-first news list.
type Aggregator struct {
	cfg    *Config
	parser *gofeed.Parser
	warnf  func(format string, args ...any)
}

// AggregatorOption configures an Aggregator.
type AggregatorOption func(*Aggregator)

// WithHTTPClient sets a custom HTTP client for feed fetches.
func WithHTTPClient(hc *http.Client) AggregatorOption {
	return func(a *Aggregator) {
		a.parser.Client = hc
	}
}

// WithWarnf redirects warning output (defaults to stderr).
func WithWarnf(fn func(format string, args ...any)) AggregatorOption {
	return func(a *Aggregator) {
		a.warnf = fn
	}
}

// NewAggregator creates an Aggregator for the given configuration.
func NewAggregator(cfg *Config, opts ...AggregatorOption) *Aggregator {
	parser := gofeed.NewParser()
	parser.UserAgent = "sitegen-newsbot/1.0"
	parser.Client = &http.Client{Timeout: 30 * time.Second}

	a := &Aggregator{
		cfg:    cfg,
		parser: parser,
		warnf: func(format string, args ...any) {
			fmt.Fprintf(os.Stderr, "[warn] "+format+"\n", args...)
		},
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Run fetches every feed, filters and deduplicates the items, and returns
// them newest first, capped at the configured maximum. A feed that fails to
// fetch or parse contributes nothing; the run continues.
func (a *Aggregator) Run(ctx context.Context) ([]Item, error) {
	var collected []*gofeed.Item
	for _, feedURL := range a.cfg.Feeds {
		feed, err := a.parser.ParseURLWithContext(feedURL, ctx)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			a.warnf("feed %s: %v", feedURL, err)
			continue
		}
		collected = append(collected, feed.Items...)
	}

	items := a.filter(collected)

	sort.SliceStable(items, func(i, j int) bool {
		return items[i].PubDate > items[j].PubDate
	})
	if len(items) > a.cfg.MaxItems {
		items = items[:a.cfg.MaxItems]
	}

	return items, nil
}

// filter keeps items mentioning the subject and at least one keyword,
// deduplicated by cleaned canonical link (title as a last resort).
func (a *Aggregator) filter(raw []*gofeed.Item) []Item {
	seen := make(map[string]bool)
	items := make([]Item, 0, len(raw))

	for _, it := range raw {
		desc := stripMarkup(it.Description)
		text := strings.Join([]string{it.Title, desc, it.Link}, " ")

		if !a.cfg.subjectRe.MatchString(text) {
			continue
		}
		if !containsKeyword(text, a.cfg.Keywords) {
			continue
		}

		key := canonicalLink(it.Link)
		if key == "" {
			key = strings.TrimSpace(it.Title)
		}
		if key == "" || seen[key] {
			continue
		}
		seen[key] = true

		title := strings.TrimSpace(it.Title)
		if title == "" {
			title = "(untitled)"
		}

		items = append(items, Item{
			Title:   title,
			Link:    strings.TrimSpace(it.Link),
			PubDate: formatDate(it),
			Source:  sourceHost(it.Link),
		})
	}

	return items
}

// containsKeyword reports whether any configured keyword occurs in text.
// An empty keyword list accepts everything.
func containsKeyword(text string, keywords []string) bool {
	if len(keywords) == 0 {
		return true
	}
	lower := strings.ToLower(text)
	for _, kw := range keywords {
		if strings.Contains(lower, strings.ToLower(kw)) {
			return true
		}
	}
	return false
}

// stripMarkup reduces an RSS description to its text content.
func stripMarkup(s string) string {
	if !strings.ContainsAny(s, "<&") {
		return s
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(s))
	if err != nil {
		return s
	}
	return strings.TrimSpace(doc.Text())
}

// canonicalLink normalizes a link for deduplication: no fragment, no
// trailing slash. Google News and Yahoo wrap the same article in slightly
// different URLs, so identity is best-effort on the cleaned form.
func canonicalLink(link string) string {
	link = strings.TrimSpace(link)
	if link == "" {
		return ""
	}
	if u, err := url.Parse(link); err == nil {
		u.Fragment = ""
		link = u.String()
	}
	return strings.TrimSuffix(link, "/")
}

// sourceHost derives a display source from the link host, minus "www.".
func sourceHost(link string) string {
	u, err := url.Parse(strings.TrimSpace(link))
	if err != nil || u.Host == "" {
		return ""
	}
	return strings.TrimPrefix(u.Host, "www.")
}

// formatDate returns the item's published (or updated) time as RFC 3339.
func formatDate(it *gofeed.Item) string {
	when := it.PublishedParsed
	if when == nil {
		when = it.UpdatedParsed
	}
	if when == nil {
		return ""
	}
	return when.UTC().Format(time.RFC3339)
}

// WriteJSON writes the news list as pretty-printed JSON, creating parent
// directories as needed.
func WriteJSON(path string, items []Item) error {
	if items == nil {
		items = []Item{}
	}
	data, err := json.MarshalIndent(items, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding news: %w", err)
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("creating %s: %w", dir, err)
		}
	}
	if err := os.WriteFile(path, append(data, '\n'), 0644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}

	return nil
}
