package tree

import (
	"threadcut/internal/htmlproc"
	"threadcut/internal/model"
)

type AnomalyKind string

const (
	AnomalyDanglingParent AnomalyKind = "dangling-parent"
	AnomalySelfParent     AnomalyKind = "self-parent"
	AnomalyCycle          AnomalyKind = "cycle"
)

// Anomaly records an element that was promoted to root because its parent
// could not be resolved. These are recovered silently; callers may log them.
type Anomaly struct {
	ID       string      `json:"id"`
	ParentID string      `json:"parentId"`
	Kind     AnomalyKind `json:"kind"`
}

// Row is one entry of the reconciled sequence. ParentID on the embedded
// element is the resolved parent (nil for roots).
type Row struct {
	model.Element
	Index       int  `json:"index"`
	Depth       int  `json:"depth"`
	HasChildren bool `json:"hasChildren"`
}

type Result struct {
	Rows      []Row
	Anomalies []Anomaly
}

// Reconcile rebuilds the full ordering from scratch: roots and siblings in
// ascending id order, each node immediately followed by its subtree, and every
// element's processed markup recomputed from its original markup.
//
// Every input element appears exactly once in the output.
func Reconcile(elems []model.Element, clean model.CleaningOptions) Result {
	f := Build(elems)

	children := make(map[string][]string, len(f.children))
	for pid, ch := range f.children {
		children[pid] = append([]string(nil), ch...)
	}
	resolved := make(map[string]string, len(f.parentOf))
	for id, pid := range f.parentOf {
		resolved[id] = pid
	}

	var res Result
	var roots []string
	for _, id := range f.order {
		if _, ok := resolved[id]; ok {
			continue
		}
		roots = append(roots, id)
		if pid, ok := f.dangling[id]; ok {
			kind := AnomalyDanglingParent
			if pid == id {
				kind = AnomalySelfParent
			}
			res.Anomalies = append(res.Anomalies, Anomaly{ID: id, ParentID: pid, Kind: kind})
		}
	}

	placed := map[string]bool{}
	var mark func(id string)
	mark = func(id string) {
		if placed[id] {
			return
		}
		placed[id] = true
		for _, ch := range children[id] {
			mark(ch)
		}
	}
	for _, r := range roots {
		mark(r)
	}

	// Anything still unplaced hangs off a cycle. Detach it and make it a root.
	for _, id := range f.order {
		if placed[id] {
			continue
		}
		pid := resolved[id]
		children[pid] = without(children[pid], id)
		delete(resolved, id)
		roots = append(roots, id)
		res.Anomalies = append(res.Anomalies, Anomaly{ID: id, ParentID: pid, Kind: AnomalyCycle})
		mark(id)
	}

	sortIDs(roots)

	res.Rows = make([]Row, 0, len(f.order))
	visited := map[string]bool{}
	var walk func(id string, depth int)
	walk = func(id string, depth int) {
		if visited[id] {
			return
		}
		visited[id] = true

		e := f.elems[id].Clone()
		e.ParentID = nil
		if pid, ok := resolved[id]; ok {
			p := pid
			e.ParentID = &p
		}
		e.ProcessedHTML = htmlproc.Process(e.OriginalHTML, e.Annotations(clean))

		res.Rows = append(res.Rows, Row{
			Element:     e,
			Index:       len(res.Rows),
			Depth:       depth,
			HasChildren: len(children[id]) > 0,
		})
		for _, ch := range children[id] {
			walk(ch, depth+1)
		}
	}
	for _, r := range roots {
		walk(r, 0)
	}
	return res
}

func without(ids []string, id string) []string {
	out := ids[:0]
	for _, x := range ids {
		if x != id {
			out = append(out, x)
		}
	}
	return out
}

