package store

import (
	"fmt"
	"strings"

	"threadcut/internal/model"
)

// Store is the in-memory element collection for one session.
//
// It keeps insertion order and enforces id uniqueness, nothing more: relationship
// integrity is the mutation layer's job.
type Store struct {
	byID  map[string]*model.Element
	order []string
}

type DuplicateIDError struct {
	ID string
}

func (e DuplicateIDError) Error() string {
	return fmt.Sprintf("duplicate element id: %s", e.ID)
}

type NotFoundError struct {
	ID string
}

func (e NotFoundError) Error() string {
	return fmt.Sprintf("element not found: %s", e.ID)
}

func New() *Store {
	return &Store{byID: map[string]*model.Element{}}
}

// Add appends a copy of e. Adding an id that is already present is a caller error.
func (s *Store) Add(e model.Element) error {
	id := strings.TrimSpace(e.ID)
	if id == "" {
		return fmt.Errorf("element id is empty")
	}
	if _, ok := s.byID[id]; ok {
		return DuplicateIDError{ID: id}
	}
	c := e.Clone()
	c.ID = id
	s.byID[id] = &c
	s.order = append(s.order, id)
	return nil
}

// Patch shallow-merges p into the element. It reports whether anything changed.
func (s *Store) Patch(id string, p model.Patch) (bool, error) {
	e, ok := s.byID[strings.TrimSpace(id)]
	if !ok {
		return false, NotFoundError{ID: id}
	}
	return p.Apply(e), nil
}

// SetProcessedHTML stores derived markup. It is not part of Patch because
// processed markup is never user input.
func (s *Store) SetProcessedHTML(id, processed string) {
	if e, ok := s.byID[id]; ok {
		e.ProcessedHTML = processed
	}
}

// RemoveMany deletes every listed id that exists and returns how many were removed.
func (s *Store) RemoveMany(ids []string) int {
	if len(ids) == 0 {
		return 0
	}
	doomed := map[string]bool{}
	for _, id := range ids {
		id = strings.TrimSpace(id)
		if _, ok := s.byID[id]; ok {
			doomed[id] = true
		}
	}
	if len(doomed) == 0 {
		return 0
	}
	kept := s.order[:0]
	for _, id := range s.order {
		if doomed[id] {
			delete(s.byID, id)
			continue
		}
		kept = append(kept, id)
	}
	s.order = kept
	return len(doomed)
}

// Find returns a copy of the element with the given id.
func (s *Store) Find(id string) (model.Element, bool) {
	e, ok := s.byID[strings.TrimSpace(id)]
	if !ok {
		return model.Element{}, false
	}
	return e.Clone(), true
}

func (s *Store) Has(id string) bool {
	_, ok := s.byID[strings.TrimSpace(id)]
	return ok
}

func (s *Store) Len() int {
	return len(s.order)
}

// All returns a snapshot of every element in insertion order. Mutating the
// result does not affect the store.
func (s *Store) All() []model.Element {
	out := make([]model.Element, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, s.byID[id].Clone())
	}
	return out
}

