// Package script replays a YAML list of operations against a session.
//
//	steps:
//	  - op: move
//	    id: "200"
//	    root: true
//	  - op: insert
//	    parent: "100"
//	    content: "**note**"
//	    markdown: true
//	  - op: annotate
//	    id: "100"
//	    set: {color: red, bold: true}
//	  - op: select
//	    ids: ["100", "200"]
//	  - op: export
//	    to: ./out
package script

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"strings"

	"threadcut/internal/export"
	"threadcut/internal/model"
	"threadcut/internal/mutate"
	"threadcut/internal/session"
	"threadcut/internal/store"

	"gopkg.in/yaml.v3"
)

const (
	OpMove     = "move"
	OpInsert   = "insert"
	OpDelete   = "delete"
	OpAnnotate = "annotate"
	OpSelect   = "select"
	OpOptions  = "options"
	OpExport   = "export"
)

type Script struct {
	Steps []Step `yaml:"steps"`
}

type Step struct {
	Op string `yaml:"op"`

	ID   string   `yaml:"id,omitempty"`
	IDs  []string `yaml:"ids,omitempty"`
	Root bool     `yaml:"root,omitempty"`

	// To is the move destination, or the directory for export.
	To string `yaml:"to,omitempty"`

	Parent   string `yaml:"parent,omitempty"`
	Content  string `yaml:"content,omitempty"`
	Markdown bool   `yaml:"markdown,omitempty"`

	Set model.Patch `yaml:"set,omitempty"`
	// Deselect clears the selection flag instead of setting it.
	Deselect bool `yaml:"deselect,omitempty"`

	Options   map[string]bool `yaml:"options,omitempty"`
	Overwrite bool            `yaml:"overwrite,omitempty"`
}

// StepError reports which step failed. Steps before it stay applied.
type StepError struct {
	Index int
	Op    string
	Err   error
}

func (e StepError) Error() string {
	return fmt.Sprintf("step %d (%s): %v", e.Index+1, e.Op, e.Err)
}

func (e StepError) Unwrap() error {
	return e.Err
}

type StepResult struct {
	Index int      `json:"index"`
	Op    string   `json:"op"`
	IDs   []string `json:"ids,omitempty"`
	Path  string   `json:"path,omitempty"`
}

type RunOptions struct {
	// ExportDir is used by export steps that do not name a directory.
	ExportDir string
}

// Parse decodes a script. Unknown keys are rejected.
func Parse(b []byte) (Script, error) {
	dec := yaml.NewDecoder(bytes.NewReader(b))
	dec.KnownFields(true)
	var sc Script
	if err := dec.Decode(&sc); err != nil {
		if errors.Is(err, io.EOF) {
			return Script{}, errors.New("script is empty")
		}
		return Script{}, fmt.Errorf("decode script: %w", err)
	}
	if len(sc.Steps) == 0 {
		return Script{}, errors.New("script has no steps")
	}
	return sc, nil
}

// Run applies the steps in order and stops at the first failure.
func Run(s *session.Session, sc Script, opt RunOptions) ([]StepResult, error) {
	out := make([]StepResult, 0, len(sc.Steps))
	for i, st := range sc.Steps {
		op := strings.ToLower(strings.TrimSpace(st.Op))
		res, err := runStep(s, op, st, opt)
		if err != nil {
			return out, StepError{Index: i, Op: op, Err: err}
		}
		res.Index = i
		res.Op = op
		out = append(out, res)
	}
	return out, nil
}

func runStep(s *session.Session, op string, st Step, opt RunOptions) (StepResult, error) {
	switch op {
	case OpMove:
		r, err := s.Move(mutate.MoveRequest{TargetID: st.ID, DestinationID: st.To, ToRoot: st.Root})
		if err != nil {
			return StepResult{}, err
		}
		return StepResult{IDs: []string{r.Element.ID}}, nil

	case OpInsert:
		e, err := s.Insert(mutate.InsertRequest{ParentID: st.Parent, ToRoot: st.Root, Content: st.Content, Markdown: st.Markdown})
		if err != nil {
			return StepResult{}, err
		}
		return StepResult{IDs: []string{e.ID}}, nil

	case OpDelete:
		removed, err := s.Delete(st.ID)
		if err != nil {
			return StepResult{}, err
		}
		return StepResult{IDs: removed}, nil

	case OpAnnotate:
		if st.Set.IsEmpty() {
			return StepResult{}, errors.New("annotate needs a set: block")
		}
		r, err := s.Annotate(st.ID, st.Set)
		if err != nil {
			return StepResult{}, err
		}
		return StepResult{IDs: []string{r.Element.ID}}, nil

	case OpSelect:
		ids := st.IDs
		if st.ID != "" {
			ids = append([]string{st.ID}, ids...)
		}
		if len(ids) == 0 {
			return StepResult{}, errors.New("select needs id or ids")
		}
		for _, id := range ids {
			if _, err := s.Select(id, !st.Deselect); err != nil {
				return StepResult{}, err
			}
		}
		return StepResult{IDs: ids}, nil

	case OpOptions:
		if len(st.Options) == 0 {
			return StepResult{}, errors.New("options needs at least one key")
		}
		c := s.Cleaning()
		for k, v := range st.Options {
			if err := store.SetCleaningOption(&c, k, v); err != nil {
				return StepResult{}, mutate.ValidationError{Op: op, Err: err}
			}
		}
		s.SetCleaning(c)
		return StepResult{}, nil

	case OpExport:
		dir := st.To
		if strings.TrimSpace(dir) == "" {
			dir = opt.ExportDir
		}
		r, err := s.ExportFile(dir, export.WriteOptions{Overwrite: st.Overwrite})
		if err != nil {
			return StepResult{}, err
		}
		return StepResult{Path: r.Path}, nil

	case "":
		return StepResult{}, errors.New("missing op")
	default:
		return StepResult{}, fmt.Errorf("unknown op: %s", op)
	}
}
