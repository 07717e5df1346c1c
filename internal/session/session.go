// Package session holds one user's working state: the element store, the
// active cleaning options and the reconciled row sequence.
//
// Every successful mutation is followed by a full reconcile before the call
// returns, so Rows always reflects the store.
package session

import (
	"errors"
	"io"
	"log/slog"
	"time"

	"threadcut/internal/export"
	"threadcut/internal/extract"
	"threadcut/internal/model"
	"threadcut/internal/mutate"
	"threadcut/internal/store"
	"threadcut/internal/tree"
)

type Session struct {
	st    *store.Store
	clean model.CleaningOptions
	log   *slog.Logger
	now   func() time.Time

	canonical string
	rows      []tree.Row
}

type Option func(*Session)

func WithLogger(l *slog.Logger) Option {
	return func(s *Session) {
		if l != nil {
			s.log = l
		}
	}
}

// WithClock replaces time.Now for inserted-tag ids and export file names.
func WithClock(now func() time.Time) Option {
	return func(s *Session) {
		if now != nil {
			s.now = now
		}
	}
}

func New(clean model.CleaningOptions, opts ...Option) *Session {
	s := &Session{
		st:    store.New(),
		clean: clean,
		log:   slog.New(slog.NewTextHandler(io.Discard, nil)),
		now:   time.Now,
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Load replaces the session's contents with the elements extracted from doc.
// On error the current contents are kept.
func (s *Session) Load(doc string) (extract.Result, error) {
	res, err := extract.Extract(doc, s.clean)
	if err != nil {
		return extract.Result{}, err
	}
	st := store.New()
	for _, e := range res.Elements {
		if err := st.Add(e); err != nil {
			return extract.Result{}, err
		}
	}
	for _, id := range res.Duplicates {
		s.log.Warn("duplicate element id skipped", "id", id)
	}
	s.st = st
	s.canonical = res.Canonical
	s.reconcile("load", "")
	return res, nil
}

func (s *Session) Cleaning() model.CleaningOptions {
	return s.clean
}

// SetCleaning swaps the global cleaning options and re-derives every element.
func (s *Session) SetCleaning(c model.CleaningOptions) {
	s.clean = c
	s.reconcile("options", "")
}

// SetCleaningOption flips a single option by its config key.
func (s *Session) SetCleaningOption(key string, v bool) error {
	c := s.clean
	if err := store.SetCleaningOption(&c, key, v); err != nil {
		return mutate.ValidationError{Op: "options", Err: err}
	}
	s.SetCleaning(c)
	return nil
}

func (s *Session) Annotate(id string, p model.Patch) (mutate.Result, error) {
	res, err := mutate.Annotate(s.st, id, p)
	if err != nil {
		return mutate.Result{}, err
	}
	s.reconcile("annotate", id)
	return s.refreshed(res), nil
}

// Select sets or clears the export flag.
func (s *Session) Select(id string, selected bool) (mutate.Result, error) {
	return s.Annotate(id, model.Patch{IsSelected: model.BoolPtr(selected)})
}

func (s *Session) Move(req mutate.MoveRequest) (mutate.Result, error) {
	res, err := mutate.Move(s.st, req)
	if err != nil {
		return mutate.Result{}, err
	}
	s.reconcile("move", res.Element.ID)
	return s.refreshed(res), nil
}

// Insert adds a new tag. The session's cleaning options apply to it.
func (s *Session) Insert(req mutate.InsertRequest) (model.Element, error) {
	req.Cleaning = s.clean
	e, err := mutate.Insert(s.st, req, s.now())
	if err != nil {
		return model.Element{}, err
	}
	s.reconcile("insert", e.ID)
	if r, ok := s.Find(e.ID); ok {
		return r.Element, nil
	}
	return e, nil
}

func (s *Session) Delete(id string) ([]string, error) {
	removed, err := mutate.Delete(s.st, id)
	if err != nil {
		return nil, err
	}
	if len(removed) > 0 {
		s.reconcile("delete", id)
	}
	return removed, nil
}

// Rows returns the reconciled sequence. The slice is a copy.
func (s *Session) Rows() []tree.Row {
	out := make([]tree.Row, len(s.rows))
	for i, r := range s.rows {
		out[i] = r
		out[i].Element = r.Element.Clone()
	}
	return out
}

// Elements returns the reconciled sequence without row metadata.
func (s *Session) Elements() []model.Element {
	out := make([]model.Element, len(s.rows))
	for i, r := range s.rows {
		out[i] = r.Element.Clone()
	}
	return out
}

// At returns the row shown at index, for scroll-to-position.
func (s *Session) At(index int) (tree.Row, error) {
	if index < 0 || index >= len(s.rows) {
		return tree.Row{}, mutate.ValidationError{Op: "at", Reason: "index out of range"}
	}
	r := s.rows[index]
	r.Element = r.Element.Clone()
	return r, nil
}

// Find returns the reconciled row for id.
func (s *Session) Find(id string) (tree.Row, bool) {
	for _, r := range s.rows {
		if r.ID == id {
			r.Element = r.Element.Clone()
			return r, true
		}
	}
	return tree.Row{}, false
}

type Summary struct {
	Canonical string `json:"canonical,omitempty"`
	Total     int    `json:"total"`
	Selected  int    `json:"selected"`
}

func (s *Session) Summary() Summary {
	sum := Summary{Canonical: s.canonical, Total: len(s.rows)}
	for _, r := range s.rows {
		if r.IsSelected {
			sum.Selected++
		}
	}
	return sum
}

// Export renders the selected rows in reconciled order.
func (s *Session) Export() (string, error) {
	out, _, err := export.Render(s.Elements())
	if err != nil {
		return "", exportErr(err)
	}
	return out, nil
}

// ExportFile writes the export blob into dir.
func (s *Session) ExportFile(dir string, opt export.WriteOptions) (export.WriteResult, error) {
	res, err := export.WriteFile(s.Elements(), dir, s.now(), opt)
	if err != nil {
		return export.WriteResult{}, exportErr(err)
	}
	s.log.Debug("exported", "path", res.Path, "elements", res.Elements)
	return res, nil
}

func exportErr(err error) error {
	if errors.Is(err, export.ErrNothingSelected) {
		return mutate.ValidationError{Op: "export", Err: err}
	}
	return err
}

func (s *Session) reconcile(op, id string) {
	res := tree.Reconcile(s.st.All(), s.clean)
	for _, r := range res.Rows {
		s.st.SetProcessedHTML(r.ID, r.ProcessedHTML)
	}
	for _, a := range res.Anomalies {
		s.log.Debug("promoted to root", "id", a.ID, "parent", a.ParentID, "kind", a.Kind)
	}
	s.rows = res.Rows
	s.log.Debug("reconciled", "op", op, "id", id, "rows", len(res.Rows))
}

// refreshed swaps in the reconciled form of the element, so callers see its
// current processed markup.
func (s *Session) refreshed(res mutate.Result) mutate.Result {
	if r, ok := s.Find(res.Element.ID); ok {
		res.Element = r.Element
	}
	return res
}
