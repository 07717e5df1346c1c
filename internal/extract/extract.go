// Package extract turns a raw thread export into store elements.
package extract

import (
	"fmt"
	"regexp"
	"strings"

	"threadcut/internal/htmlproc"
	"threadcut/internal/model"
	"threadcut/internal/sanitize"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// ParseError means the input could not be read as a markup document. Nothing
// is extracted when it is returned.
type ParseError struct {
	Reason string
	Err    error
}

func (e ParseError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("parse document: %s: %v", e.Reason, e.Err)
	}
	return "parse document: " + e.Reason
}

func (e ParseError) Unwrap() error {
	return e.Err
}

// reQuote is the back-reference marker. Only the first match in the content
// zone counts.
var reQuote = regexp.MustCompile(`>>(\d+)`)

type Result struct {
	// Canonical is the thread's canonical link, if the document declares one.
	Canonical string
	Elements  []model.Element
	// Duplicates lists ids seen more than once; only the first occurrence is kept.
	Duplicates []string
}

// Extract parses doc and returns one element per markup node whose id is all
// digits, in document order.
func Extract(doc string, clean model.CleaningOptions) (Result, error) {
	if strings.TrimSpace(doc) == "" {
		return Result{}, ParseError{Reason: "document is empty"}
	}

	// The sanitizer drops <link>, so the canonical link comes from the raw text.
	raw, err := html.Parse(strings.NewReader(doc))
	if err != nil {
		return Result{}, ParseError{Reason: "read markup", Err: err}
	}
	res := Result{Canonical: canonicalLink(raw)}

	root, err := html.Parse(strings.NewReader(sanitize.HTML(doc)))
	if err != nil {
		return Result{}, ParseError{Reason: "read sanitized markup", Err: err}
	}
	if htmlproc.FindFirst(root, isContentElement) == nil {
		return Result{}, ParseError{Reason: "no markup elements found"}
	}

	seen := map[string]bool{}
	for _, n := range htmlproc.FindAll(root, hasNumericID) {
		id := htmlproc.Attr(n, "id")
		if seen[id] {
			res.Duplicates = append(res.Duplicates, id)
			continue
		}
		seen[id] = true

		outer, err := htmlproc.OuterHTML(n)
		if err != nil {
			return Result{}, ParseError{Reason: "render element " + id, Err: err}
		}
		e := model.Element{ID: id, OriginalHTML: outer}
		e.ProcessedHTML = htmlproc.Process(outer, e.Annotations(clean))
		e.ReferencedID = quotedID(id, e.ProcessedHTML)
		res.Elements = append(res.Elements, e)
	}
	return res, nil
}

// quotedID reads the first back-reference from the content zone. Only
// references to a strictly smaller id are accepted.
func quotedID(id, processed string) *string {
	txt, ok := htmlproc.ContentText(processed)
	if !ok {
		return nil
	}
	m := reQuote.FindStringSubmatch(txt)
	if m == nil || !model.NumericLess(m[1], id) {
		return nil
	}
	return model.StrPtr(m[1])
}

func canonicalLink(doc *html.Node) string {
	n := htmlproc.FindFirst(doc, func(n *html.Node) bool {
		return n.DataAtom == atom.Link && strings.EqualFold(strings.TrimSpace(htmlproc.Attr(n, "rel")), "canonical")
	})
	if n == nil {
		return ""
	}
	return strings.TrimSpace(htmlproc.Attr(n, "href"))
}

func hasNumericID(n *html.Node) bool {
	return model.IsNumericID(htmlproc.Attr(n, "id"))
}

// isContentElement matches anything the parser did not synthesize.
func isContentElement(n *html.Node) bool {
	switch n.DataAtom {
	case atom.Html, atom.Head, atom.Body:
		return false
	}
	return true
}
