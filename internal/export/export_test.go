package export

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"threadcut/internal/model"
)

func rows() []model.Element {
	return []model.Element{
		{ID: "1", ProcessedHTML: `<div class="post" id="1"><div class="post-content t_b">one</div></div>`, IsSelected: true},
		{ID: "2", ProcessedHTML: `<div class="post" id="2">two</div>`},
		{ID: "3", ProcessedHTML: `<div class="post" id="3" onmouseover="x()">three</div><p>tail</p>`, IsSelected: true},
		{ID: "4", ProcessedHTML: `loose text`, IsSelected: true},
	}
}

func TestRender_SelectedInOrder(t *testing.T) {
	out, n, err := Render(rows())
	if err != nil {
		t.Fatalf("Render error: %v", err)
	}
	if n != 3 {
		t.Fatalf("expected 3 exported elements; got %d", n)
	}
	want := strings.Join([]string{
		`<div class="post" id="1"><div class="post-content t_b">one</div></div>`,
		`<div class="post" id="3">three</div>`,
		`loose text`,
	}, "\n")
	if out != want {
		t.Fatalf("unexpected export:\n%s\nwant:\n%s", out, want)
	}
}

func TestRender_NothingSelected(t *testing.T) {
	_, _, err := Render([]model.Element{{ID: "1", ProcessedHTML: "<div></div>"}})
	if !errors.Is(err, ErrNothingSelected) {
		t.Fatalf("expected ErrNothingSelected; got %v", err)
	}
}

func TestWriteFile(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "out")
	now := time.UnixMilli(1700000000123)

	res, err := WriteFile(rows(), dir, now, WriteOptions{})
	if err != nil {
		t.Fatalf("WriteFile error: %v", err)
	}
	if filepath.Base(res.Path) != "exported_html_1700000000123.html" {
		t.Fatalf("unexpected file name: %s", res.Path)
	}
	b, err := os.ReadFile(res.Path)
	if err != nil {
		t.Fatalf("read export: %v", err)
	}
	if len(b) != res.Bytes || !strings.Contains(string(b), `id="3"`) {
		t.Fatalf("unexpected export contents: %s", string(b))
	}

	if _, err := WriteFile(rows(), dir, now, WriteOptions{}); err == nil {
		t.Fatalf("expected refusal to overwrite")
	}
	if _, err := WriteFile(rows(), dir, now, WriteOptions{Overwrite: true}); err != nil {
		t.Fatalf("expected overwrite to succeed; got %v", err)
	}
	if _, err := WriteFile(rows(), " ", now, WriteOptions{}); err == nil {
		t.Fatalf("expected error for missing dir")
	}
}
