package sitehtml

import (
	"errors"
	"regexp"
	"strings"
	"time"
)

// Injection fallback anchors and timestamp mechanisms.
const (
	mainClose = "</main>"
	headClose = "</head>"

	// UpdatedToken is the placeholder substituted with the build time.
	UpdatedToken = "__UPDATED_AT__"

	// BuildLabel prefixes the machine-readable build-time comment.
	BuildLabel = "BUILD_UTC:"
)

// ErrNoInsertionPoint indicates the document has neither the sentinel
// markers nor a structural tag to insert before.
var ErrNoInsertionPoint = errors.New("no sentinel markers or </main> tag in target document")

// ErrUnpairedMarker indicates a start marker without a matching end marker.
// Inserting anyway would make the next run treat hand-authored content
// between the stray marker and the new fragment as the managed region.
var ErrUnpairedMarker = errors.New("start marker present without matching end marker")

var (
	updatedAttrRe  = regexp.MustCompile(`(data-updated=")[^"]*(")`)
	buildCommentRe = regexp.MustCompile(`<!-- ` + BuildLabel + `[^>]*-->`)
)

// Inject replaces the marker-delimited region of doc with fragment and
// refreshes the "last updated" indicator. The fragment must already carry
// the sentinel markers (Render emits them).
//
// Fallback chain when no markers are present: insert before </main>;
// if that tag is also absent the document is rejected unmodified. A start
// marker without its end marker is rejected outright. The whole operation
// is idempotent apart from the timestamp.
func Inject(doc, fragment string, now time.Time) (string, error) {
	out, err := replaceFragment(doc, fragment)
	if err != nil {
		return "", err
	}
	return stampUpdated(out, now), nil
}

// replaceFragment swaps the managed region for the new fragment.
func replaceFragment(doc, fragment string) (string, error) {
	start := strings.Index(doc, MarkerStart)
	if start >= 0 {
		rest := doc[start+len(MarkerStart):]
		end := strings.Index(rest, MarkerEnd)
		if end < 0 {
			return "", ErrUnpairedMarker
		}
		tail := rest[end+len(MarkerEnd):]
		return doc[:start] + fragment + tail, nil
	}

	// First run against a hand-authored page: no markers yet.
	if i := strings.Index(doc, mainClose); i >= 0 {
		return doc[:i] + fragment + "\n" + doc[i:], nil
	}

	return "", ErrNoInsertionPoint
}

// stampUpdated refreshes the build time. The visible stamp goes through
// the token placeholder or, failing that, a data-updated attribute. The
// BUILD_UTC head comment is maintained on every run regardless of which
// visible mechanism applied: substituting the token consumes it, and the
// comment is what keeps later runs idempotent.
func stampUpdated(doc string, now time.Time) string {
	stamp := now.UTC().Format("2006-01-02T15:04:05Z")

	if strings.Contains(doc, UpdatedToken) {
		doc = strings.ReplaceAll(doc, UpdatedToken, stamp)
	} else if updatedAttrRe.MatchString(doc) {
		doc = updatedAttrRe.ReplaceAllString(doc, "${1}"+stamp+"${2}")
	}

	comment := "<!-- " + BuildLabel + " " + stamp + " -->"
	if strings.Contains(doc, BuildLabel) {
		return buildCommentRe.ReplaceAllString(doc, comment)
	}
	if i := strings.Index(doc, headClose); i >= 0 {
		return doc[:i] + comment + "\n" + doc[i:]
	}

	// No head to record the build time in; leave the document as is.
	return doc
}
