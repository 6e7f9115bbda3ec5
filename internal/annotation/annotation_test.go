package annotation

import (
	"strings"
	"testing"

	"image-annotator/pkg/colorutil"
	"image-annotator/pkg/geometry"
)

func TestNewID(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		id := NewID()
		if !strings.HasPrefix(id, "annotation_") {
			t.Fatalf("unexpected id format %q", id)
		}
		if seen[id] {
			t.Fatalf("duplicate id %q", id)
		}
		seen[id] = true
	}
}

func TestNew(t *testing.T) {
	bounds := geometry.Rect{X: 10, Y: 20, Width: 30, Height: 40}
	a := New(TypeBBox, bounds)

	if a.ID == "" {
		t.Error("empty id")
	}
	if a.Type != TypeBBox {
		t.Errorf("type = %v", a.Type)
	}
	if a.Bounds != bounds {
		t.Errorf("bounds = %v", a.Bounds)
	}
	if a.Body.Tags == nil {
		t.Error("tags should be empty, not nil")
	}
	if a.CreatedAt.IsZero() || a.UpdatedAt.IsZero() {
		t.Error("timestamps not set")
	}
}

func TestValidate(t *testing.T) {
	const imgW, imgH = 100.0, 100.0
	tests := []struct {
		name    string
		a       *Annotation
		wantErr bool
	}{
		{
			name:    "valid",
			a:       &Annotation{Type: TypeBBox, Bounds: geometry.Rect{X: 10, Y: 10, Width: 20, Height: 20}},
			wantErr: false,
		},
		{
			name:    "fills the whole image",
			a:       &Annotation{Type: TypeBBox, Bounds: geometry.Rect{X: 0, Y: 0, Width: 100, Height: 100}},
			wantErr: false,
		},
		{
			name:    "unknown type",
			a:       &Annotation{Type: "circle", Bounds: geometry.Rect{X: 10, Y: 10, Width: 20, Height: 20}},
			wantErr: true,
		},
		{
			name:    "zero width",
			a:       &Annotation{Type: TypeBBox, Bounds: geometry.Rect{X: 10, Y: 10, Width: 0, Height: 20}},
			wantErr: true,
		},
		{
			name:    "negative height",
			a:       &Annotation{Type: TypeBBox, Bounds: geometry.Rect{X: 10, Y: 10, Width: 20, Height: -5}},
			wantErr: true,
		},
		{
			name:    "extends past right edge",
			a:       &Annotation{Type: TypeBBox, Bounds: geometry.Rect{X: 90, Y: 10, Width: 20, Height: 20}},
			wantErr: true,
		},
		{
			name:    "negative origin",
			a:       &Annotation{Type: TypeBBox, Bounds: geometry.Rect{X: -1, Y: 10, Width: 20, Height: 20}},
			wantErr: true,
		},
		{
			name:    "nil annotation",
			a:       nil,
			wantErr: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.a.Validate(imgW, imgH)
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestCloneIsDeep(t *testing.T) {
	a := New(TypeBBox, geometry.Rect{X: 1, Y: 2, Width: 30, Height: 40})
	a.Body.Text = "label"
	a.Body.Tags = []string{"one", "two"}

	c := a.Clone()
	if c == a {
		t.Fatal("Clone returned the same pointer")
	}
	c.Body.Tags[0] = "changed"
	if a.Body.Tags[0] != "one" {
		t.Error("mutating clone tags changed the original")
	}

	if (*Annotation)(nil).Clone() != nil {
		t.Error("Clone of nil should be nil")
	}
}

func TestPatchApplyInverse(t *testing.T) {
	a := New(TypeBBox, geometry.Rect{X: 5, Y: 5, Width: 50, Height: 50})
	a.Body.Text = "before"
	a.Body.Tags = []string{"old"}

	newText := "after"
	newTags := []string{"new", "tags"}
	newBounds := geometry.Rect{X: 10, Y: 10, Width: 60, Height: 60}
	p := Patch{Text: &newText, Tags: &newTags, Bounds: &newBounds}

	inv := a.Inverse(p)
	a.Apply(p)

	if a.Body.Text != "after" || a.Bounds != newBounds || len(a.Body.Tags) != 2 {
		t.Fatalf("Apply did not take: %+v", a)
	}

	a.Apply(inv)
	if a.Body.Text != "before" {
		t.Errorf("text not restored: %q", a.Body.Text)
	}
	if len(a.Body.Tags) != 1 || a.Body.Tags[0] != "old" {
		t.Errorf("tags not restored: %v", a.Body.Tags)
	}
	if a.Bounds != (geometry.Rect{X: 5, Y: 5, Width: 50, Height: 50}) {
		t.Errorf("bounds not restored: %v", a.Bounds)
	}
}

func TestPatchPartial(t *testing.T) {
	a := New(TypeBBox, geometry.Rect{X: 0, Y: 0, Width: 10, Height: 10})
	a.Body.Text = "keep"

	text := "changed"
	a.Apply(Patch{Text: &text})
	if a.Body.Text != "changed" {
		t.Errorf("text = %q", a.Body.Text)
	}
	if a.Bounds != (geometry.Rect{X: 0, Y: 0, Width: 10, Height: 10}) {
		t.Error("bounds changed by a text-only patch")
	}

	// Inverse of a text-only patch only carries text.
	inv := a.Inverse(Patch{Text: &text})
	if inv.Tags != nil || inv.Bounds != nil {
		t.Errorf("inverse carries untouched fields: %+v", inv)
	}
}

func TestPatchEmpty(t *testing.T) {
	if !(Patch{}).Empty() {
		t.Error("zero patch should be empty")
	}
	s := "x"
	if (Patch{Text: &s}).Empty() {
		t.Error("patch with text should not be empty")
	}
}

func TestExport(t *testing.T) {
	a := New(TypeBBox, geometry.Rect{X: 1, Y: 2, Width: 3, Height: 4})
	a.Body.Text = "label"
	a.Body.Tags = []string{"t"}
	a.Selected = true
	a.Dragging = true

	e := a.Export()
	if e.Type != TypeBBox || e.Bounds != a.Bounds || e.Body.Text != "label" {
		t.Errorf("Export = %+v", e)
	}
	// The exported tag slice must not alias the annotation's.
	e.Body.Tags[0] = "changed"
	if a.Body.Tags[0] != "t" {
		t.Error("Export shares the tags slice with the annotation")
	}
}

func TestTypeValid(t *testing.T) {
	for _, typ := range []Type{TypeBBox, TypePolygon, TypePoint} {
		if !typ.Valid() {
			t.Errorf("%v.Valid() = false", typ)
		}
	}
	if Type("blob").Valid() {
		t.Error(`Type("blob").Valid() = true`)
	}
}

func TestStyleFor(t *testing.T) {
	base := StyleFor(TypeBBox, false, false)
	if base.Stroke != colorutil.Green {
		t.Errorf("base stroke = %v", base.Stroke)
	}

	hover := StyleFor(TypeBBox, false, true)
	if hover.Stroke != colorutil.Cyan {
		t.Errorf("hover stroke = %v", hover.Stroke)
	}

	// Selection wins over hover.
	sel := StyleFor(TypeBBox, true, true)
	if sel.Stroke != colorutil.Yellow {
		t.Errorf("selected stroke = %v", sel.Stroke)
	}

	// Unknown types fall back to the bbox styles.
	if got := StyleFor(Type("mystery"), false, false); got != base {
		t.Errorf("unknown type style = %+v, want bbox base", got)
	}
}
