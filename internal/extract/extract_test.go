package extract

import (
	"errors"
	"strings"
	"testing"

	"threadcut/internal/model"
)

const thread = `<!DOCTYPE html>
<html><head>
<link rel="canonical" href="https://example.test/thread/42">
<script>alert("x")</script>
</head><body>
<div class="post" id="100">
  <div class="post-header"><span class="postusername">Anon (sage)</span></div>
  <div class="post-content">first</div>
</div>
<div class="post" id="200" onclick="steal()">
  <div class="post-header"><span class="postusername">Anon</span></div>
  <div class="post-content">&gt;&gt;100 agreed</div>
</div>
<div class="post" id="300">
  <div class="post-content">&gt;&gt;400 forward, then &gt;&gt;100</div>
</div>
<div class="post" id="abc"><div class="post-content">&gt;&gt;100</div></div>
</body></html>`

func TestExtract_ThreadScenario(t *testing.T) {
	res, err := Extract(thread, model.DefaultCleaningOptions())
	if err != nil {
		t.Fatalf("Extract error: %v", err)
	}
	if res.Canonical != "https://example.test/thread/42" {
		t.Fatalf("unexpected canonical link: %q", res.Canonical)
	}

	var ids []string
	for _, e := range res.Elements {
		ids = append(ids, e.ID)
	}
	if got := strings.Join(ids, ","); got != "100,200,300" {
		t.Fatalf("unexpected ids: %s", got)
	}

	e100, e200, e300 := res.Elements[0], res.Elements[1], res.Elements[2]
	if e100.ReferencedID != nil {
		t.Fatalf("expected 100 to have no reference")
	}
	if e200.ReferencedID == nil || *e200.ReferencedID != "100" {
		t.Fatalf("expected 200 to reference 100; got %v", e200.ReferencedID)
	}
	if e200.IsManuallyMoved || e200.IsSelected || e200.IsNewTag || e200.ParentID != nil {
		t.Fatalf("expected default flags; got %+v", e200)
	}
	// Only the first marker counts, and it points forward.
	if e300.ReferencedID != nil {
		t.Fatalf("expected forward reference to be rejected; got %v", *e300.ReferencedID)
	}
}

func TestExtract_SanitizesAndKeepsOuterMarkup(t *testing.T) {
	res, err := Extract(thread, model.DefaultCleaningOptions())
	if err != nil {
		t.Fatalf("Extract error: %v", err)
	}
	e := res.Elements[1]
	if !strings.HasPrefix(e.OriginalHTML, `<div class="post" id="200">`) {
		t.Fatalf("expected outer markup without handlers; got %s", e.OriginalHTML)
	}
	for _, e := range res.Elements {
		if strings.Contains(e.OriginalHTML, "script") || strings.Contains(e.OriginalHTML, "onclick") {
			t.Fatalf("unsanitized markup leaked: %s", e.OriginalHTML)
		}
	}
	if strings.Contains(res.Elements[0].ProcessedHTML, "(sage)") {
		t.Fatalf("expected username parens stripped; got %s", res.Elements[0].ProcessedHTML)
	}
	if !strings.Contains(res.Elements[0].ProcessedHTML, `class="post-content t_b"`) {
		t.Fatalf("expected styled content zone; got %s", res.Elements[0].ProcessedHTML)
	}
}

func TestExtract_UsesActiveCleaningOptions(t *testing.T) {
	res, err := Extract(thread, model.CleaningOptions{})
	if err != nil {
		t.Fatalf("Extract error: %v", err)
	}
	if !strings.Contains(res.Elements[0].ProcessedHTML, "(sage)") {
		t.Fatalf("expected username untouched with stripping off; got %s", res.Elements[0].ProcessedHTML)
	}
}

func TestExtract_Duplicates(t *testing.T) {
	doc := `<div id="1">a</div><div id="1">b</div><div id="2">c</div>`
	res, err := Extract(doc, model.DefaultCleaningOptions())
	if err != nil {
		t.Fatalf("Extract error: %v", err)
	}
	if len(res.Elements) != 2 || res.Elements[0].OriginalHTML != `<div id="1">a</div>` {
		t.Fatalf("expected first occurrence kept; got %+v", res.Elements)
	}
	if len(res.Duplicates) != 1 || res.Duplicates[0] != "1" {
		t.Fatalf("expected duplicate 1 reported; got %v", res.Duplicates)
	}
}

func TestExtract_ParseErrors(t *testing.T) {
	for _, doc := range []string{"", "   \n", "just some words, no markup"} {
		_, err := Extract(doc, model.DefaultCleaningOptions())
		var pe ParseError
		if !errors.As(err, &pe) {
			t.Fatalf("expected ParseError for %q; got %v", doc, err)
		}
	}

	res, err := Extract(`<p>no numbered posts</p>`, model.DefaultCleaningOptions())
	if err != nil {
		t.Fatalf("expected markup without posts to extract nothing; got %v", err)
	}
	if len(res.Elements) != 0 {
		t.Fatalf("expected no elements; got %d", len(res.Elements))
	}
}
