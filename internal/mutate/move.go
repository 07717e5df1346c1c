package mutate

import (
	"strings"

	"threadcut/internal/model"
	"threadcut/internal/store"
	"threadcut/internal/tree"
)

type MoveRequest struct {
	TargetID      string
	DestinationID string
	// ToRoot detaches the target instead of re-parenting it.
	ToRoot bool
}

type Result struct {
	Changed bool          `json:"changed"`
	Element model.Element `json:"element"`
}

// Move re-parents an element by hand. Once moved, ParentID (not the inferred
// reference) decides the element's placement.
//
// All checks run against one snapshot taken up front; the store is only
// written after every check passed.
func Move(st *store.Store, req MoveRequest) (Result, error) {
	const op = "move"
	targetID := strings.TrimSpace(req.TargetID)
	if st == nil || targetID == "" {
		return Result{}, invalid(op, "missing target id")
	}

	snapshot := st.All()
	target, ok := findIn(snapshot, targetID)
	if !ok {
		return Result{}, notFound(op, targetID)
	}

	if req.ToRoot {
		return apply(st, target.ID, model.Patch{ClearParent: true, IsManuallyMoved: model.BoolPtr(true)})
	}

	destID := strings.TrimSpace(req.DestinationID)
	if !model.IsNumericID(destID) {
		return Result{}, invalid(op, "destination id must be numeric: "+quoteOrEmpty(destID))
	}
	if _, ok := findIn(snapshot, destID); !ok {
		return Result{}, notFound(op, destID)
	}
	if destID == target.ID {
		return Result{}, invalid(op, "cannot move an element under itself")
	}

	// Check the tree as it would look after the move.
	candidate := make([]model.Element, len(snapshot))
	copy(candidate, snapshot)
	for i := range candidate {
		if candidate[i].ID == target.ID {
			candidate[i].ParentID = model.StrPtr(destID)
			candidate[i].IsManuallyMoved = true
		}
	}
	if tree.Build(candidate).IsDescendant(target.ID, destID) {
		return Result{}, invalid(op, "cannot move "+target.ID+" under its descendant "+destID)
	}

	return apply(st, target.ID, model.Patch{ParentID: model.StrPtr(destID), IsManuallyMoved: model.BoolPtr(true)})
}

func apply(st *store.Store, id string, p model.Patch) (Result, error) {
	changed, err := st.Patch(id, p)
	if err != nil {
		return Result{}, err
	}
	e, _ := st.Find(id)
	return Result{Changed: changed, Element: e}, nil
}

func findIn(elems []model.Element, id string) (model.Element, bool) {
	for _, e := range elems {
		if e.ID == id {
			return e, true
		}
	}
	return model.Element{}, false
}

func quoteOrEmpty(s string) string {
	if s == "" {
		return `""`
	}
	return s
}
