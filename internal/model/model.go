package model

// Element is one extracted reply (or a user-inserted tag).
//
// ParentID is the effective parent after a manual override; ReferencedID is the
// parent inferred from quote text at ingestion and never changes afterwards.
type Element struct {
	ID            string `json:"id"`
	OriginalHTML  string `json:"originalHtml"`
	ProcessedHTML string `json:"processedHtml"`
	IsSelected    bool   `json:"isSelected"`

	ParentID        *string `json:"parentId"`
	ReferencedID    *string `json:"referencedId"`
	IsManuallyMoved bool    `json:"isManuallyMoved"`
	IsNewTag        bool    `json:"isNewTag"`

	AppliedTextColor *string `json:"appliedTextColor"`
	IsBold           bool    `json:"isBold"`
	HasBorder        bool    `json:"hasBorder"`
	IsAA             bool    `json:"isAA"`
	IsText           bool    `json:"isText"`
	HasBr            bool    `json:"hasBr"`
}

// CleaningOptions are the session-wide toggles applied uniformly to every element.
type CleaningOptions struct {
	StripHeaderTags     bool `json:"stripHeaderTags"`
	StripUsernameParens bool `json:"stripUsernameParens"`
	AddContentBr        bool `json:"addContentBr"`
}

func DefaultCleaningOptions() CleaningOptions {
	return CleaningOptions{
		StripHeaderTags:     true,
		StripUsernameParens: true,
		AddContentBr:        false,
	}
}

// AnnotationOptions is everything the transform pipeline needs for one element:
// the element's own flags, its resolved parent and the global cleaning options.
type AnnotationOptions struct {
	TextColor *string
	IsBold    bool
	HasBorder bool
	IsAA      bool
	IsText    bool
	HasBr     bool

	// ParentID only matters for the "has relationship" marker.
	ParentID *string

	Cleaning CleaningOptions
}

// Annotations combines the element's own flags with the active cleaning options.
func (e Element) Annotations(clean CleaningOptions) AnnotationOptions {
	return AnnotationOptions{
		TextColor: e.AppliedTextColor,
		IsBold:    e.IsBold,
		HasBorder: e.HasBorder,
		IsAA:      e.IsAA,
		IsText:    e.IsText,
		HasBr:     e.HasBr,
		ParentID:  e.ParentID,
		Cleaning:  clean,
	}
}

// Clone returns a copy that shares no pointers with e.
func (e Element) Clone() Element {
	out := e
	out.ParentID = cloneStr(e.ParentID)
	out.ReferencedID = cloneStr(e.ReferencedID)
	out.AppliedTextColor = cloneStr(e.AppliedTextColor)
	return out
}

// Patch is a shallow partial update. Nil fields are left untouched.
//
// Nullable fields use a Clear* companion because a nil pointer already means
// "no change".
type Patch struct {
	IsSelected *bool `json:"isSelected,omitempty" yaml:"selected,omitempty"`

	AppliedTextColor *string `json:"appliedTextColor,omitempty" yaml:"color,omitempty"`
	ClearTextColor   bool    `json:"clearTextColor,omitempty" yaml:"clearColor,omitempty"`
	IsBold           *bool   `json:"isBold,omitempty" yaml:"bold,omitempty"`
	HasBorder        *bool   `json:"hasBorder,omitempty" yaml:"border,omitempty"`
	IsAA             *bool   `json:"isAA,omitempty" yaml:"aa,omitempty"`
	IsText           *bool   `json:"isText,omitempty" yaml:"text,omitempty"`
	HasBr            *bool   `json:"hasBr,omitempty" yaml:"br,omitempty"`

	// Structural fields. Only the mutation layer should set these.
	ParentID        *string `json:"parentId,omitempty" yaml:"-"`
	ClearParent     bool    `json:"clearParent,omitempty" yaml:"-"`
	IsManuallyMoved *bool   `json:"isManuallyMoved,omitempty" yaml:"-"`
}

// Apply merges p into e and reports whether anything changed.
func (p Patch) Apply(e *Element) bool {
	if e == nil {
		return false
	}
	changed := false
	setBool := func(dst *bool, v *bool) {
		if v != nil && *dst != *v {
			*dst = *v
			changed = true
		}
	}
	setBool(&e.IsSelected, p.IsSelected)
	setBool(&e.IsBold, p.IsBold)
	setBool(&e.HasBorder, p.HasBorder)
	setBool(&e.IsAA, p.IsAA)
	setBool(&e.IsText, p.IsText)
	setBool(&e.HasBr, p.HasBr)
	setBool(&e.IsManuallyMoved, p.IsManuallyMoved)

	if p.ClearTextColor {
		if e.AppliedTextColor != nil {
			e.AppliedTextColor = nil
			changed = true
		}
	} else if p.AppliedTextColor != nil && !strEq(e.AppliedTextColor, p.AppliedTextColor) {
		e.AppliedTextColor = cloneStr(p.AppliedTextColor)
		changed = true
	}

	if p.ClearParent {
		if e.ParentID != nil {
			e.ParentID = nil
			changed = true
		}
	} else if p.ParentID != nil && !strEq(e.ParentID, p.ParentID) {
		e.ParentID = cloneStr(p.ParentID)
		changed = true
	}
	return changed
}

// IsEmpty reports whether p carries no updates at all.
func (p Patch) IsEmpty() bool {
	return p.IsSelected == nil &&
		p.AppliedTextColor == nil && !p.ClearTextColor &&
		p.IsBold == nil && p.HasBorder == nil && p.IsAA == nil && p.IsText == nil && p.HasBr == nil &&
		p.ParentID == nil && !p.ClearParent && p.IsManuallyMoved == nil
}

// TextColors is the palette offered by the annotation commands. Any CSS colour
// string is accepted as well.
var TextColors = map[string]string{
	"black":  "#000000",
	"red":    "#ff0000",
	"blue":   "#0000ff",
	"green":  "#008000",
	"orange": "#ff8c00",
	"purple": "#800080",
	"gray":   "#808080",
}

// ResolveTextColor maps a palette name to its CSS value; other inputs pass through.
func ResolveTextColor(s string) string {
	if v, ok := TextColors[s]; ok {
		return v
	}
	return s
}

func StrPtr(s string) *string { return &s }

func BoolPtr(b bool) *bool { return &b }

func cloneStr(p *string) *string {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

func strEq(a, b *string) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}
