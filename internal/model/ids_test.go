package model

import (
	"sort"
	"testing"
)

func TestCompareIDs_TotalOrder(t *testing.T) {
	ids := []string{"abc", "200", "1752000000000", "007", "7", "10", "", "9"}
	sort.Slice(ids, func(i, j int) bool { return CompareIDs(ids[i], ids[j]) < 0 })

	want := []string{"007", "7", "9", "10", "200", "1752000000000", "", "abc"}
	for i := range want {
		if ids[i] != want[i] {
			t.Fatalf("unexpected order: got %v, want %v", ids, want)
		}
	}
}

func TestNumericLess(t *testing.T) {
	if !NumericLess("99", "100") {
		t.Fatalf("expected 99 < 100")
	}
	if NumericLess("100", "100") {
		t.Fatalf("expected equal ids not to be less")
	}
	if NumericLess("x", "100") || NumericLess("100", "x") {
		t.Fatalf("expected non-numeric ids never to compare as less")
	}
}

func TestPatchApply(t *testing.T) {
	e := Element{ID: "1", AppliedTextColor: StrPtr("red")}

	if changed := (Patch{IsBold: BoolPtr(true), ClearTextColor: true}).Apply(&e); !changed {
		t.Fatalf("expected changed=true")
	}
	if !e.IsBold || e.AppliedTextColor != nil {
		t.Fatalf("unexpected element after patch: %+v", e)
	}

	if changed := (Patch{IsBold: BoolPtr(true)}).Apply(&e); changed {
		t.Fatalf("expected no-op patch to report changed=false")
	}

	(Patch{ParentID: StrPtr("5"), IsManuallyMoved: BoolPtr(true)}).Apply(&e)
	if e.ParentID == nil || *e.ParentID != "5" || !e.IsManuallyMoved {
		t.Fatalf("expected structural fields to merge; got %+v", e)
	}
	(Patch{ClearParent: true}).Apply(&e)
	if e.ParentID != nil {
		t.Fatalf("expected parent cleared")
	}
}

func TestCloneDoesNotShareParent(t *testing.T) {
	e := Element{ID: "2", ParentID: StrPtr("1")}
	c := e.Clone()
	*c.ParentID = "9"
	if *e.ParentID != "1" {
		t.Fatalf("clone shares ParentID pointer")
	}
}
