package mutate

import (
	"strings"

	"threadcut/internal/model"
	"threadcut/internal/store"
)

// Annotate applies cosmetic flags and the selection flag. Structural fields
// must go through Move.
func Annotate(st *store.Store, id string, p model.Patch) (Result, error) {
	const op = "annotate"
	id = strings.TrimSpace(id)
	if st == nil || id == "" {
		return Result{}, invalid(op, "missing element id")
	}
	if p.ParentID != nil || p.ClearParent || p.IsManuallyMoved != nil {
		return Result{}, invalid(op, "parent changes must use move")
	}
	if !st.Has(id) {
		return Result{}, notFound(op, id)
	}
	if p.AppliedTextColor != nil {
		c := model.ResolveTextColor(strings.TrimSpace(*p.AppliedTextColor))
		if c == "" {
			p.AppliedTextColor = nil
			p.ClearTextColor = true
		} else {
			p.AppliedTextColor = &c
		}
	}
	return apply(st, id, p)
}
