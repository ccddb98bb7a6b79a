package domain

import "math"

// ElementKind identifies the drawable variant of an element.
type ElementKind string

const (
	KindText      ElementKind = "text"
	KindRectangle ElementKind = "rectangle"
	KindCircle    ElementKind = "circle"
	KindTriangle  ElementKind = "triangle"
)

// Style holds the shared visual attributes of an element.
// Colors are hex strings ("#rrggbb" or "#rrggbbaa"); "transparent" is valid.
type Style struct {
	Fill        string  `json:"fill"`
	Stroke      string  `json:"stroke"`
	StrokeWidth float64 `json:"strokeWidth"`
	Opacity     float64 `json:"opacity"`
}

// TextProps is the kind-specific payload carried only by text elements.
type TextProps struct {
	Content    string  `json:"content"`
	FontFamily string  `json:"fontFamily"`
	FontSize   float64 `json:"fontSize"`
	FontWeight int     `json:"fontWeight"`
}

// Element is a single drawable scene object. X/Y is the top-left of the
// bounding box in scene units. Rotation is in degrees about the box center
// and is not range-limited. Text is non-nil exactly when Kind == KindText.
type Element struct {
	ID       string      `json:"id"`
	Kind     ElementKind `json:"kind"`
	X        float64     `json:"x"`
	Y        float64     `json:"y"`
	Width    float64     `json:"width"`
	Height   float64     `json:"height"`
	Rotation float64     `json:"rotation"`
	Style    Style       `json:"style"`
	Visible  bool        `json:"visible"`
	Text     *TextProps  `json:"text,omitempty"`
}

// Bounds returns the element's unrotated axis-aligned bounding box.
func (e Element) Bounds() Rect {
	return Rect{X: e.X, Y: e.Y, W: e.Width, H: e.Height}
}

// Clone returns a deep copy (the Text payload is not shared).
func (e Element) Clone() Element {
	c := e
	if e.Text != nil {
		t := *e.Text
		c.Text = &t
	}
	return c
}

// Rect is an axis-aligned rectangle.
type Rect struct {
	X, Y, W, H float64
}

// Contains reports whether the point lies inside the rectangle, edges included.
func (r Rect) Contains(x, y float64) bool {
	return x >= r.X && x <= r.X+r.W && y >= r.Y && y <= r.Y+r.H
}

// Expand grows the rectangle by m on every side.
func (r Rect) Expand(m float64) Rect {
	return Rect{X: r.X - m, Y: r.Y - m, W: r.W + 2*m, H: r.H + 2*m}
}

// MinSize is the smallest committed width or height of an element.
// In-progress resizes may pass through smaller or negative values, but
// NormalizeSize is applied before anything reaches history or the renderer.
const MinSize = 1.0

// NormalizeSize maps a transient size to its committed form: absolute
// value, clamped to at least MinSize per axis.
func NormalizeSize(w, h float64) (float64, float64) {
	w, h = math.Abs(w), math.Abs(h)
	if w < MinSize {
		w = MinSize
	}
	if h < MinSize {
		h = MinSize
	}
	return w, h
}
