package sanitize

import (
	"bytes"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer/html"
)

var markdownRenderer = goldmark.New(
	goldmark.WithExtensions(
		extension.GFM,
	),
	// No html.WithUnsafe: raw HTML in Markdown is dropped, and the rendered
	// fragment still goes through HTML() afterwards.
	goldmark.WithRendererOptions(
		html.WithHardWraps(),
	),
)

// Markdown renders authored Markdown into an HTML fragment for a new tag.
func Markdown(src string) (string, error) {
	src = strings.TrimSpace(src)
	if src == "" {
		return "", nil
	}
	var b bytes.Buffer
	if err := markdownRenderer.Convert([]byte(src), &b); err != nil {
		return "", err
	}
	return strings.TrimSpace(b.String()), nil
}
