// Package htmlproc is the per-element HTML transform pipeline.
//
// Process is pure: the same fragment and options always produce the same
// markup. Callers always feed it an element's original markup, never a
// previously processed result.
package htmlproc

import (
	"regexp"
	"strings"

	"threadcut/internal/model"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// Zone classes recognized in forum exports.
const (
	ClassPost     = "post"
	ClassHeader   = "post-header"
	ClassUsername = "postusername"
	ClassUID      = "uid"
	ClassContent  = "post-content"
)

// Classes added by the pipeline.
const (
	ClassContentStyled = "t_b"
	ClassHeaderStyled  = "t_h"
	ClassIndented      = "t_i"
	ClassTextFrame     = "text_frame01"
)

const (
	usernameColor = "rgb(0, 128, 0)"
	aaFontFamily  = `"ＭＳ Ｐゴシック"`
)

var reUsernameParens = regexp.MustCompile(`\s*\([^)]*\)`)

// Process runs the transform pipeline over fragment.
//
// Zones that are missing are skipped; nothing here fails. If the fragment
// cannot be read at all, it is returned unchanged.
func Process(fragment string, opt model.AnnotationOptions) string {
	body, err := parseFragment(fragment)
	if err != nil {
		return fragment
	}

	for _, n := range findAll(body, isTag(atom.Form)) {
		remove(n)
	}
	for _, n := range findAll(body, isPlainLink) {
		unwrap(n)
	}
	for _, n := range findAll(body, isLayoutSpan) {
		unwrap(n)
	}
	for _, h := range findAll(body, withClass(ClassHeader)) {
		for _, d := range findAll(h, isTag(atom.Div)) {
			unwrap(d)
		}
	}

	if opt.Cleaning.StripUsernameParens {
		for _, n := range findAll(body, withClass(ClassUsername)) {
			if txt := TextContent(n); txt != "" {
				setTextContent(n, reUsernameParens.ReplaceAllString(txt, ""))
			}
		}
	}
	if opt.Cleaning.StripHeaderTags {
		for _, h := range findAll(body, withClass(ClassHeader)) {
			flattenHeader(h)
		}
	}

	for _, c := range findAll(body, withClass(ClassContent)) {
		styleContent(c, opt)
	}
	for _, h := range findAll(body, withClass(ClassHeader)) {
		addClass(h, ClassHeaderStyled)
		if opt.ParentID != nil {
			addClass(h, ClassIndented)
		}
	}
	if opt.IsText {
		for _, p := range findAll(body, withClass(ClassPost)) {
			addClass(p, ClassTextFrame)
		}
	}

	out, err := renderChildren(body)
	if err != nil {
		return fragment
	}
	return out
}

// flattenHeader reduces a header zone to text. The username keeps its element
// (bolded and coloured) and the uid subtree is left as is.
func flattenHeader(h *html.Node) {
	var doomed []*html.Node
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			if c.Type != html.ElementNode {
				continue
			}
			if HasClass(c, ClassUsername) {
				setStyle(c, "font-weight", "bold")
				setStyle(c, "color", usernameColor)
				setTextContent(c, TextContent(c)+" ")
				continue
			}
			if HasClass(c, ClassUID) {
				continue
			}
			// Innermost elements get a trailing space so adjacent fields stay apart.
			if !hasElementChild(c) {
				setTextContent(c, TextContent(c)+" ")
			}
			doomed = append(doomed, c)
			walk(c)
		}
	}
	walk(h)
	for _, n := range doomed {
		unwrap(n)
	}
}

func styleContent(c *html.Node, opt model.AnnotationOptions) {
	addClass(c, ClassContentStyled)
	if opt.ParentID != nil {
		addClass(c, ClassIndented)
	}
	if opt.TextColor != nil && strings.TrimSpace(*opt.TextColor) != "" {
		setStyle(c, "color", strings.TrimSpace(*opt.TextColor))
	}
	if opt.IsBold {
		setStyle(c, "font-weight", "bold")
	}
	if opt.HasBorder {
		setStyle(c, "margin", "5%")
		setStyle(c, "padding", "5%")
		setStyle(c, "border", "solid 1px rgba(0,0,0, 0.5)")
		setStyle(c, "background", "rgba(240,240,240, 1)")
	}
	if opt.IsAA {
		setStyle(c, "font-family", aaFontFamily)
		setStyle(c, "line-height", "1.2em")
		setStyle(c, "font-size", "0.7em")
	}
	// Border wins over line-break wrapping.
	if !opt.HasBorder && (opt.Cleaning.AddContentBr || opt.HasBr) {
		c.InsertBefore(newBr(), c.FirstChild)
		c.AppendChild(newBr())
		c.AppendChild(newBr())
	}
}

func isPlainLink(n *html.Node) bool {
	if n.DataAtom != atom.A {
		return false
	}
	return strings.HasPrefix(Attr(n, "href"), "http") || strings.HasPrefix(Attr(n, "rel"), "no")
}

func isLayoutSpan(n *html.Node) bool {
	if n.DataAtom != atom.Span {
		return false
	}
	st := Attr(n, "style")
	return strings.HasPrefix(st, "width:100%") || strings.HasPrefix(st, "float")
}

// ContentText returns the text of the first content zone in fragment.
func ContentText(fragment string) (string, bool) {
	body, err := parseFragment(fragment)
	if err != nil {
		return "", false
	}
	c := FindFirst(body, withClass(ClassContent))
	if c == nil {
		return "", false
	}
	return TextContent(c), true
}

// FirstNode re-parses fragment and renders only its first top-level node when
// that node is an element.
func FirstNode(fragment string) (string, bool) {
	body, err := parseFragment(fragment)
	if err != nil || body.FirstChild == nil || body.FirstChild.Type != html.ElementNode {
		return "", false
	}
	var b strings.Builder
	if err := html.Render(&b, body.FirstChild); err != nil {
		return "", false
	}
	return b.String(), true
}

// OuterHTML renders n including its own tag.
func OuterHTML(n *html.Node) (string, error) {
	var b strings.Builder
	if err := html.Render(&b, n); err != nil {
		return "", err
	}
	return b.String(), nil
}

// parseFragment parses markup the way a browser fills <body>, and returns a
// detached body node holding the result.
func parseFragment(fragment string) (*html.Node, error) {
	body := &html.Node{Type: html.ElementNode, Data: "body", DataAtom: atom.Body}
	nodes, err := html.ParseFragment(strings.NewReader(fragment), body)
	if err != nil {
		return nil, err
	}
	for _, n := range nodes {
		body.AppendChild(n)
	}
	return body, nil
}

func renderChildren(n *html.Node) (string, error) {
	var b strings.Builder
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if err := html.Render(&b, c); err != nil {
			return "", err
		}
	}
	return b.String(), nil
}
