package mutate

import (
	"fmt"
	"strings"
	"time"

	"threadcut/internal/htmlproc"
	"threadcut/internal/model"
	"threadcut/internal/sanitize"
	"threadcut/internal/store"
)

// defaultWrapper gives bare text the zones the transform pipeline looks for.
const defaultWrapper = `<div class="` + htmlproc.ClassPost + `"><div class="` + htmlproc.ClassContent + `">%s</div></div>`

type InsertRequest struct {
	ParentID string
	ToRoot   bool
	Content  string
	// Markdown renders Content as Markdown before sanitizing.
	Markdown bool
	Cleaning model.CleaningOptions
}

// Insert adds a user-authored tag. It gets a fresh time-based id, so it sorts
// after every extracted post.
func Insert(st *store.Store, req InsertRequest, now time.Time) (model.Element, error) {
	const op = "insert"
	if st == nil {
		return model.Element{}, invalid(op, "missing store")
	}
	content := strings.TrimSpace(req.Content)
	if content == "" {
		return model.Element{}, invalid(op, "content is empty")
	}
	parentID := strings.TrimSpace(req.ParentID)
	if !req.ToRoot && parentID == "" {
		return model.Element{}, invalid(op, "missing parent id (or insert as root)")
	}
	if !req.ToRoot && !st.Has(parentID) {
		return model.Element{}, notFound(op, parentID)
	}

	if req.Markdown {
		md, err := sanitize.Markdown(content)
		if err != nil {
			return model.Element{}, ValidationError{Op: op, Reason: "render markdown", Err: err}
		}
		content = md
	}
	clean := strings.TrimSpace(sanitize.HTML(content))
	if clean == "" {
		return model.Element{}, invalid(op, "content is empty after sanitizing")
	}

	original := clean
	if !strings.HasPrefix(clean, "<") || !strings.HasSuffix(clean, ">") {
		original = fmt.Sprintf(defaultWrapper, clean)
	}

	e := model.Element{
		ID:              st.NewTimeID(now),
		OriginalHTML:    original,
		IsManuallyMoved: true,
		IsNewTag:        true,
	}
	if !req.ToRoot {
		e.ParentID = model.StrPtr(parentID)
	}
	e.ProcessedHTML = htmlproc.Process(e.OriginalHTML, e.Annotations(req.Cleaning))

	if err := st.Add(e); err != nil {
		return model.Element{}, err
	}
	return e, nil
}
