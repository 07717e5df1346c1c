package mutate

import (
	"errors"
	"strings"
	"testing"
	"time"

	"threadcut/internal/model"
	"threadcut/internal/store"
	"threadcut/internal/tree"
)

func seed(t *testing.T, elems ...model.Element) *store.Store {
	t.Helper()
	st := store.New()
	for _, e := range elems {
		if err := st.Add(e); err != nil {
			t.Fatalf("Add(%s): %v", e.ID, err)
		}
	}
	return st
}

func el(id string) model.Element {
	return model.Element{ID: id, OriginalHTML: `<div class="post" id="` + id + `"></div>`}
}

func ref(id, to string) model.Element {
	e := el(id)
	e.ReferencedID = model.StrPtr(to)
	return e
}

func requireValidation(t *testing.T, err error) ValidationError {
	t.Helper()
	var ve ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	return ve
}

func TestMove_ToDestination(t *testing.T) {
	st := seed(t, el("100"), el("200"), ref("300", "100"))

	res, err := Move(st, MoveRequest{TargetID: "300", DestinationID: " 200 "})
	if err != nil {
		t.Fatalf("Move error: %v", err)
	}
	if !res.Changed || !res.Element.IsManuallyMoved || res.Element.ParentID == nil || *res.Element.ParentID != "200" {
		t.Fatalf("unexpected move result: %+v", res)
	}
	if res.Element.ReferencedID == nil || *res.Element.ReferencedID != "100" {
		t.Fatalf("expected referencedId to stay untouched")
	}
}

func TestMove_ToRoot(t *testing.T) {
	st := seed(t, el("100"), ref("200", "100"))

	res, err := Move(st, MoveRequest{TargetID: "200", ToRoot: true})
	if err != nil {
		t.Fatalf("Move error: %v", err)
	}
	if !res.Element.IsManuallyMoved || res.Element.ParentID != nil {
		t.Fatalf("expected manual root; got %+v", res.Element)
	}
	rows := tree.Reconcile(st.All(), model.DefaultCleaningOptions()).Rows
	if rows[1].ID != "200" || rows[1].Depth != 0 {
		t.Fatalf("expected 200 to reconcile as a root; got %+v", rows[1])
	}
}

func TestMove_Validation(t *testing.T) {
	st := seed(t, el("100"), ref("200", "100"), ref("300", "200"))
	before := st.All()

	cases := []struct {
		name string
		req  MoveRequest
	}{
		{"non-numeric destination", MoveRequest{TargetID: "200", DestinationID: "abc"}},
		{"empty destination", MoveRequest{TargetID: "200", DestinationID: ""}},
		{"missing destination", MoveRequest{TargetID: "200", DestinationID: "999"}},
		{"missing target", MoveRequest{TargetID: "999", DestinationID: "100"}},
		{"self move", MoveRequest{TargetID: "200", DestinationID: "200"}},
		{"onto child", MoveRequest{TargetID: "100", DestinationID: "200"}},
		{"onto grandchild", MoveRequest{TargetID: "100", DestinationID: "300"}},
	}
	for _, tc := range cases {
		_, err := Move(st, tc.req)
		requireValidation(t, err)
		after := st.All()
		for i := range before {
			if before[i].IsManuallyMoved != after[i].IsManuallyMoved || (after[i].ParentID != nil) != (before[i].ParentID != nil) {
				t.Fatalf("%s: store changed after rejected move", tc.name)
			}
		}
	}

	_, err := Move(st, MoveRequest{TargetID: "200", DestinationID: "999"})
	var nf NotFoundError
	if !errors.As(err, &nf) || nf.ID != "999" {
		t.Fatalf("expected wrapped NotFoundError for 999; got %v", err)
	}
}

func TestMove_SequenceStaysAcyclic(t *testing.T) {
	st := seed(t, el("1"), el("2"), el("3"), el("4"))
	steps := []MoveRequest{
		{TargetID: "2", DestinationID: "1"},
		{TargetID: "3", DestinationID: "2"},
		{TargetID: "1", DestinationID: "3"}, // rejected: 3 is below 1
		{TargetID: "4", DestinationID: "3"},
		{TargetID: "2", DestinationID: "4"}, // rejected: 4 is below 2
		{TargetID: "3", ToRoot: true},
		{TargetID: "1", DestinationID: "4"},
	}
	for _, s := range steps {
		_, _ = Move(st, s)
		f := tree.Build(st.All())
		for _, e := range st.All() {
			if f.IsDescendant(e.ID, e.ID) {
				t.Fatalf("element %s became its own ancestor after %+v", e.ID, s)
			}
			// Walk up: must terminate without revisiting.
			seen := map[string]bool{e.ID: true}
			cur := e.ID
			for {
				p, ok := f.Parent(cur)
				if !ok {
					break
				}
				if seen[p] {
					t.Fatalf("cycle through %s after %+v", p, s)
				}
				seen[p] = true
				cur = p
			}
		}
	}
	if rows := tree.Reconcile(st.All(), model.DefaultCleaningOptions()); len(rows.Anomalies) != 0 {
		t.Fatalf("expected no anomalies; got %+v", rows.Anomalies)
	}
}

func TestInsert(t *testing.T) {
	st := seed(t, el("100"))
	now := time.UnixMilli(1752000000000)

	e, err := Insert(st, InsertRequest{ParentID: "100", Content: "<p>hi</p>", Cleaning: model.DefaultCleaningOptions()}, now)
	if err != nil {
		t.Fatalf("Insert error: %v", err)
	}
	if e.ID != "1752000000000" || !e.IsNewTag || !e.IsManuallyMoved || e.ReferencedID != nil {
		t.Fatalf("unexpected inserted element: %+v", e)
	}
	if e.ParentID == nil || *e.ParentID != "100" {
		t.Fatalf("expected parent 100; got %v", e.ParentID)
	}
	if e.OriginalHTML != "<p>hi</p>" {
		t.Fatalf("expected tag-wrapped content to be kept as is; got %s", e.OriginalHTML)
	}

	e2, err := Insert(st, InsertRequest{ToRoot: true, Content: "plain text"}, now)
	if err != nil {
		t.Fatalf("Insert error: %v", err)
	}
	if e2.ID == e.ID {
		t.Fatalf("expected unique id for same-millisecond insert")
	}
	if e2.ParentID != nil {
		t.Fatalf("expected root insert")
	}
	want := `<div class="post"><div class="post-content">plain text</div></div>`
	if e2.OriginalHTML != want {
		t.Fatalf("expected wrapped content %s; got %s", want, e2.OriginalHTML)
	}
	if !strings.Contains(e2.ProcessedHTML, "t_b") {
		t.Fatalf("expected processed html to be styled; got %s", e2.ProcessedHTML)
	}
}

func TestInsert_Validation(t *testing.T) {
	st := seed(t, el("100"))
	now := time.Now()

	requireValidation(t, func() error { _, err := Insert(st, InsertRequest{ParentID: "100", Content: "   "}, now); return err }())
	requireValidation(t, func() error { _, err := Insert(st, InsertRequest{Content: "<p>x</p>"}, now); return err }())
	requireValidation(t, func() error {
		_, err := Insert(st, InsertRequest{ToRoot: true, Content: "<script>alert(1)</script>"}, now)
		return err
	}())
	_, err := Insert(st, InsertRequest{ParentID: "999", Content: "<p>x</p>"}, now)
	requireValidation(t, err)
	var nf NotFoundError
	if !errors.As(err, &nf) || nf.ID != "999" {
		t.Fatalf("expected NotFoundError for missing parent; got %v", err)
	}
	if st.Len() != 1 {
		t.Fatalf("expected store unchanged; len=%d", st.Len())
	}
}

func TestInsert_Markdown(t *testing.T) {
	st := seed(t)
	e, err := Insert(st, InsertRequest{ToRoot: true, Content: "**bold** note", Markdown: true}, time.Now())
	if err != nil {
		t.Fatalf("Insert error: %v", err)
	}
	if e.OriginalHTML != "<p><strong>bold</strong> note</p>" {
		t.Fatalf("unexpected markdown insert html: %s", e.OriginalHTML)
	}
}

func TestDelete_Cascade(t *testing.T) {
	st := seed(t,
		el("1"),
		ref("2", "1"),
		ref("3", "2"),
		ref("4", "1"),
		el("5"),
		ref("6", "5"),
	)
	// 4 quotes 1 but was moved under 5 by hand, so it is no longer in 1's subtree.
	if _, err := Move(st, MoveRequest{TargetID: "4", DestinationID: "5"}); err != nil {
		t.Fatalf("Move error: %v", err)
	}

	removed, err := Delete(st, "1")
	if err != nil {
		t.Fatalf("Delete error: %v", err)
	}
	if got := strings.Join(removed, ","); got != "1,2,3" {
		t.Fatalf("unexpected removed ids: %s", got)
	}
	var left []string
	for _, e := range st.All() {
		left = append(left, e.ID)
	}
	if got := strings.Join(left, ","); got != "4,5,6" {
		t.Fatalf("unexpected remaining ids: %s", got)
	}

	removed, err = Delete(st, "missing")
	if err != nil || removed != nil {
		t.Fatalf("expected no-op for missing id; got %v, %v", removed, err)
	}
}

func TestAnnotate(t *testing.T) {
	st := seed(t, el("1"))

	res, err := Annotate(st, "1", model.Patch{AppliedTextColor: model.StrPtr("red"), IsBold: model.BoolPtr(true)})
	if err != nil {
		t.Fatalf("Annotate error: %v", err)
	}
	if res.Element.AppliedTextColor == nil || *res.Element.AppliedTextColor != "#ff0000" || !res.Element.IsBold {
		t.Fatalf("unexpected annotated element: %+v", res.Element)
	}

	requireValidation(t, func() error { _, err := Annotate(st, "1", model.Patch{ClearParent: true}); return err }())
	requireValidation(t, func() error { _, err := Annotate(st, "nope", model.Patch{}); return err }())

	res, err = Annotate(st, "1", model.Patch{AppliedTextColor: model.StrPtr("")})
	if err != nil || res.Element.AppliedTextColor != nil {
		t.Fatalf("expected empty colour to clear; got %+v, %v", res.Element, err)
	}
}
