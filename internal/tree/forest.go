// Package tree derives the reply/quote forest from the flat element list.
//
// Nothing here is stored: children lists are rebuilt from each element's
// ParentID/ReferencedID on every call.
package tree

import (
	"sort"
	"strings"

	"threadcut/internal/model"
)

// EffectiveParent returns the id that places e in the tree: the manual parent
// when e was moved by hand, otherwise the inferred reference.
func EffectiveParent(e model.Element) (string, bool) {
	if e.IsManuallyMoved {
		if e.ParentID == nil || strings.TrimSpace(*e.ParentID) == "" {
			return "", false
		}
		return strings.TrimSpace(*e.ParentID), true
	}
	if e.ReferencedID == nil || strings.TrimSpace(*e.ReferencedID) == "" {
		return "", false
	}
	return strings.TrimSpace(*e.ReferencedID), true
}

// Forest is the adjacency derived from one snapshot of elements.
type Forest struct {
	elems    map[string]model.Element
	order    []string            // input order
	parentOf map[string]string   // attached children only
	children map[string][]string // sorted by CompareIDs
	dangling map[string]string   // id -> missing or self parent id
}

// Build derives the forest for elems. Elements whose effective parent is
// missing or themselves are left unattached.
func Build(elems []model.Element) *Forest {
	f := &Forest{
		elems:    make(map[string]model.Element, len(elems)),
		parentOf: map[string]string{},
		children: map[string][]string{},
		dangling: map[string]string{},
	}
	for _, e := range elems {
		if _, dup := f.elems[e.ID]; dup {
			continue
		}
		f.elems[e.ID] = e
		f.order = append(f.order, e.ID)
	}
	for _, id := range f.order {
		e := f.elems[id]
		pid, ok := EffectiveParent(e)
		if !ok {
			continue
		}
		if _, exists := f.elems[pid]; !exists || pid == id {
			f.dangling[id] = pid
			continue
		}
		f.parentOf[id] = pid
		f.children[pid] = append(f.children[pid], id)
	}
	for pid := range f.children {
		sortIDs(f.children[pid])
	}
	return f
}

func (f *Forest) Has(id string) bool {
	_, ok := f.elems[id]
	return ok
}

// Parent returns the attached parent of id.
func (f *Forest) Parent(id string) (string, bool) {
	p, ok := f.parentOf[id]
	return p, ok
}

// Subtree returns id followed by all of its descendants (pre-order). It is
// empty when id is unknown. Revisits are skipped, so anomalous input cannot
// loop.
func (f *Forest) Subtree(id string) []string {
	if !f.Has(id) {
		return nil
	}
	var out []string
	seen := map[string]bool{}
	var walk func(id string)
	walk = func(id string) {
		if seen[id] {
			return
		}
		seen[id] = true
		out = append(out, id)
		for _, ch := range f.children[id] {
			walk(ch)
		}
	}
	walk(id)
	return out
}

// IsDescendant reports whether id sits anywhere below ancestor.
func (f *Forest) IsDescendant(ancestor, id string) bool {
	for _, d := range f.Subtree(ancestor) {
		if d != ancestor && d == id {
			return true
		}
	}
	return false
}

func sortIDs(ids []string) {
	sort.SliceStable(ids, func(i, j int) bool { return model.CompareIDs(ids[i], ids[j]) < 0 })
}
