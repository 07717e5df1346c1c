package format

import (
	"bytes"
	"strings"
	"testing"
)

type row struct {
	ID              string  `json:"id"`
	ProcessedHTML   string  `json:"processedHtml"`
	IsManuallyMoved bool    `json:"isManuallyMoved"`
	IsAA            bool    `json:"isAA"`
	ParentID        *string `json:"parentId"`
	Depth           int     `json:"depth"`
}

func TestWriteJSON_KeepsMarkupReadable(t *testing.T) {
	var buf bytes.Buffer
	if err := Write(&buf, row{ID: "1", ProcessedHTML: `<div class="post">x</div>`}, "", false); err != nil {
		t.Fatalf("Write error: %v", err)
	}
	if !strings.Contains(buf.String(), `"processedHtml":"<div class=\"post\">x</div>"`) {
		t.Fatalf("unexpected json: %s", buf.String())
	}
}

func TestWriteEDN(t *testing.T) {
	var buf bytes.Buffer
	if err := Write(&buf, []row{{ID: "100", IsManuallyMoved: true, Depth: 2}}, "edn", false); err != nil {
		t.Fatalf("Write error: %v", err)
	}
	want := `[{:depth 2 :id "100" :is-aa false :is-manually-moved true :parent-id nil :processed-html ""}]` + "\n"
	if buf.String() != want {
		t.Fatalf("unexpected edn:\n%s\nwant:\n%s", buf.String(), want)
	}
}

func TestWriteEDN_Pretty(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteEDN(&buf, map[string]any{"ids": []string{"1", "2"}}, true); err != nil {
		t.Fatalf("WriteEDN error: %v", err)
	}
	want := "{\n  :ids [\n    \"1\"\n    \"2\"\n  ]\n}\n"
	if buf.String() != want {
		t.Fatalf("unexpected pretty edn: %q", buf.String())
	}
}

func TestWrite_UnknownFormat(t *testing.T) {
	if err := Write(&bytes.Buffer{}, 1, "xml", false); err == nil {
		t.Fatalf("expected error for unknown format")
	}
	if !IsKnown("text") || IsKnown("xml") {
		t.Fatalf("unexpected IsKnown result")
	}
}
