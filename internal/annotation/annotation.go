// Package annotation defines the client-side annotation model: the richer
// in-memory shape carrying UI flags and timestamps, the minimal exported
// shape exchanged with the task service, and partial-update patches.
package annotation

import (
	"fmt"
	"sync/atomic"
	"time"

	"image-annotator/pkg/geometry"
)

// Type identifies the kind of annotation.
type Type string

const (
	TypeBBox    Type = "bbox"
	TypePolygon Type = "polygon"
	TypePoint   Type = "point"
)

// Valid reports whether t is a known annotation type.
func (t Type) Valid() bool {
	switch t {
	case TypeBBox, TypePolygon, TypePoint:
		return true
	}
	return false
}

// Body holds the user-entered content of an annotation.
type Body struct {
	Text string   `json:"text"`
	Tags []string `json:"tags"`
}

// Annotation is the client-side annotation shape. The boolean flags and
// ResizeHandle are transient UI state and are never persisted.
type Annotation struct {
	ID        string        `json:"id"`
	Type      Type          `json:"type"`
	Bounds    geometry.Rect `json:"bounds"`
	Body      Body          `json:"annotation"`
	CreatedAt time.Time     `json:"created_at"`
	UpdatedAt time.Time     `json:"updated_at"`

	Selected     bool            `json:"-"`
	Editing      bool            `json:"-"`
	Dragging     bool            `json:"-"`
	ResizeHandle geometry.Handle `json:"-"`
}

// idSeq is a process-local monotonic counter. Combined with the timestamp
// it makes generated ids unique within a session without relying on
// randomness.
var idSeq atomic.Uint64

// NewID generates a new client-local annotation id. Ids are replaced by
// server-assigned ids after a save round-trip.
func NewID() string {
	return fmt.Sprintf("annotation_%d_%d", time.Now().UnixMilli(), idSeq.Add(1))
}

// New creates an annotation of the given type with empty text and tags.
func New(t Type, bounds geometry.Rect) *Annotation {
	now := time.Now()
	return &Annotation{
		ID:        NewID(),
		Type:      t,
		Bounds:    bounds,
		Body:      Body{Tags: []string{}},
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// Validate checks that the annotation can be committed: a known type and
// positive bounds lying entirely inside the image.
func (a *Annotation) Validate(imageWidth, imageHeight float64) error {
	if a == nil {
		return fmt.Errorf("annotation is nil")
	}
	if !a.Type.Valid() {
		return fmt.Errorf("unknown annotation type %q", a.Type)
	}
	b := a.Bounds
	if b.Width <= 0 || b.Height <= 0 {
		return fmt.Errorf("bounds must have positive size, got %gx%g", b.Width, b.Height)
	}
	if b.X < 0 || b.Y < 0 || b.X+b.Width > imageWidth || b.Y+b.Height > imageHeight {
		return fmt.Errorf("bounds (%g,%g %gx%g) outside image %gx%g",
			b.X, b.Y, b.Width, b.Height, imageWidth, imageHeight)
	}
	return nil
}

// Clone returns a deep copy of the annotation.
func (a *Annotation) Clone() *Annotation {
	if a == nil {
		return nil
	}
	out := *a
	out.Body.Tags = append([]string(nil), a.Body.Tags...)
	return &out
}

// Exported is the minimal persisted shape exchanged with the task service.
// Transient UI flags, the client-local id, and timestamps are stripped.
type Exported struct {
	Type   Type          `json:"type"`
	Bounds geometry.Rect `json:"bounds"`
	Body   Body          `json:"annotation"`
}

// Export strips transient state, returning the persisted shape.
func (a *Annotation) Export() Exported {
	return Exported{
		Type:   a.Type,
		Bounds: a.Bounds,
		Body:   Body{Text: a.Body.Text, Tags: append([]string(nil), a.Body.Tags...)},
	}
}

// Patch describes a partial update. Nil fields are left unchanged.
type Patch struct {
	Text   *string        `json:"text,omitempty"`
	Tags   *[]string      `json:"tags,omitempty"`
	Bounds *geometry.Rect `json:"bounds,omitempty"`
}

// Empty reports whether the patch changes nothing.
func (p Patch) Empty() bool {
	return p.Text == nil && p.Tags == nil && p.Bounds == nil
}

// Apply applies the patch to the annotation and bumps UpdatedAt.
func (a *Annotation) Apply(p Patch) {
	if p.Text != nil {
		a.Body.Text = *p.Text
	}
	if p.Tags != nil {
		a.Body.Tags = append([]string(nil), (*p.Tags)...)
	}
	if p.Bounds != nil {
		a.Bounds = *p.Bounds
	}
	a.UpdatedAt = time.Now()
}

// Inverse captures the annotation's current values for exactly the fields
// the patch would change. Applying the result after Apply(p) restores the
// annotation, which is what makes update actions undoable.
func (a *Annotation) Inverse(p Patch) Patch {
	var inv Patch
	if p.Text != nil {
		text := a.Body.Text
		inv.Text = &text
	}
	if p.Tags != nil {
		tags := append([]string(nil), a.Body.Tags...)
		inv.Tags = &tags
	}
	if p.Bounds != nil {
		bounds := a.Bounds
		inv.Bounds = &bounds
	}
	return inv
}
