// Package sanitize is the trust boundary for markup. Everything that will be
// shown or exported as live HTML goes through HTML first: the raw document at
// ingestion, user-typed content for new tags, and every exported element.
package sanitize

import (
	"html"
	"regexp"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

var (
	htmlPolicy  = newHTMLPolicy()
	stripPolicy = bluemonday.StrictPolicy()

	reSpaces = regexp.MustCompile(`\s+`)
)

// newHTMLPolicy starts from the UGC profile and opens up what forum exports
// and the transform pipeline rely on: ids, zone classes and inline styles.
// Scripts, frames, object/embed and on* handlers are never allowed. No
// rel="nofollow" is added to links; the pre-clean step unwraps rel="no..." links.
func newHTMLPolicy() *bluemonday.Policy {
	p := bluemonday.UGCPolicy()
	p.RequireNoFollowOnLinks(false)
	p.AllowAttrs("id", "class", "style").Globally()
	p.AllowElements("div", "span", "font", "center")
	p.AllowAttrs("color", "size").OnElements("font")
	return p
}

// HTML sanitizes markup for safe injection.
func HTML(s string) string {
	return htmlPolicy.Sanitize(s)
}

// Text strips all markup and collapses whitespace. Used for previews.
func Text(s string) string {
	out := stripPolicy.Sanitize(s)
	out = html.UnescapeString(out)
	return strings.TrimSpace(reSpaces.ReplaceAllString(out, " "))
}
