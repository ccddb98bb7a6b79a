package scene

import (
	"github.com/google/uuid"

	"easel/internal/domain"
)

// ─────────────────────────────────────────────────────────────
// Store — the ordered element collection
// ─────────────────────────────────────────────────────────────

// Direction selects a reorder neighbor.
type Direction string

const (
	Forward  Direction = "forward"  // toward the front (higher index)
	Backward Direction = "backward" // toward the back (lower index)
)

// Creation defaults. Text sizing follows the current default font size so a
// freshly placed label fits its placeholder.
const (
	defaultShapeSize   = 100.0
	defaultFontSize    = 16.0
	defaultFontFamily  = "sans-serif"
	defaultFontWeight  = 400
	textPlaceholder    = "Text"
	duplicateOffset    = 16.0
	defaultStrokeWidth = 2.0
)

func defaultStyle() domain.Style {
	return domain.Style{
		Fill:        "#3b82f6",
		Stroke:      "#1e1e1e",
		StrokeWidth: defaultStrokeWidth,
		Opacity:     1,
	}
}

// Store owns the ordered sequence of elements. The slice index is the sole
// source of z-order: index 0 is back-most, the last index is front-most.
// At most one element is selected at a time.
type Store struct {
	elements []domain.Element
	selected string
	fontSize float64 // default font size for new text elements
}

// NewStore returns an empty store.
func NewStore() *Store {
	return &Store{fontSize: defaultFontSize}
}

// SetDefaultFontSize adjusts the font size applied to new text elements.
// Non-positive values are ignored.
func (s *Store) SetDefaultFontSize(size float64) {
	if size > 0 {
		s.fontSize = size
	}
}

// Elements returns the live element sequence as a read-only view. Callers
// must not mutate it; use Update and friends instead.
func (s *Store) Elements() []domain.Element {
	return s.elements
}

// Len returns the number of elements.
func (s *Store) Len() int {
	return len(s.elements)
}

// SelectedID returns the selected element id, or "" when nothing is selected.
func (s *Store) SelectedID() string {
	return s.selected
}

// Select marks the element as selected. Selecting a missing id is a no-op;
// Select("") clears the selection.
func (s *Store) Select(id string) {
	if id == "" {
		s.selected = ""
		return
	}
	if s.indexOf(id) >= 0 {
		s.selected = id
	}
}

// ClearSelection deselects whatever is selected.
func (s *Store) ClearSelection() {
	s.selected = ""
}

// Create allocates a new element of the given kind at (x, y) with
// kind-specific defaults and appends it at the front-most index.
func (s *Store) Create(kind domain.ElementKind, x, y float64) domain.Element {
	el := domain.Element{
		ID:      uuid.New().String(),
		Kind:    kind,
		X:       x,
		Y:       y,
		Width:   defaultShapeSize,
		Height:  defaultShapeSize,
		Style:   defaultStyle(),
		Visible: true,
	}
	if kind == domain.KindText {
		el.Width = s.fontSize * 8
		el.Height = s.fontSize * 1.5
		el.Text = &domain.TextProps{
			Content:    textPlaceholder,
			FontFamily: defaultFontFamily,
			FontSize:   s.fontSize,
			FontWeight: defaultFontWeight,
		}
	}
	s.elements = append(s.elements, el)
	return el.Clone()
}

// Get returns a copy of the element, or false if the id is unknown.
func (s *Store) Get(id string) (domain.Element, bool) {
	i := s.indexOf(id)
	if i < 0 {
		return domain.Element{}, false
	}
	return s.elements[i].Clone(), true
}

// Patch is a partial element update; nil fields are left unchanged. Text
// fields only apply to text elements and are ignored on shapes, keeping
// shape/text payloads from mixing.
type Patch struct {
	X           *float64
	Y           *float64
	Width       *float64
	Height      *float64
	Rotation    *float64
	Fill        *string
	Stroke      *string
	StrokeWidth *float64
	Opacity     *float64
	Visible     *bool

	TextContent *string
	FontFamily  *string
	FontSize    *float64
	FontWeight  *int
}

// Update applies the patch to the element. Unknown ids are a silent no-op so
// stale references to deleted elements can never resurrect them.
func (s *Store) Update(id string, p Patch) {
	i := s.indexOf(id)
	if i < 0 {
		return
	}
	el := &s.elements[i]
	if p.X != nil {
		el.X = *p.X
	}
	if p.Y != nil {
		el.Y = *p.Y
	}
	if p.Width != nil {
		el.Width = *p.Width
	}
	if p.Height != nil {
		el.Height = *p.Height
	}
	if p.Rotation != nil {
		el.Rotation = *p.Rotation
	}
	if p.Fill != nil {
		el.Style.Fill = *p.Fill
	}
	if p.Stroke != nil {
		el.Style.Stroke = *p.Stroke
	}
	if p.StrokeWidth != nil && *p.StrokeWidth >= 0 {
		el.Style.StrokeWidth = *p.StrokeWidth
	}
	if p.Opacity != nil {
		el.Style.Opacity = clamp01(*p.Opacity)
	}
	if p.Visible != nil {
		el.Visible = *p.Visible
	}
	if el.Text != nil {
		if p.TextContent != nil {
			el.Text.Content = *p.TextContent
		}
		if p.FontFamily != nil {
			el.Text.FontFamily = *p.FontFamily
		}
		if p.FontSize != nil && *p.FontSize > 0 {
			el.Text.FontSize = *p.FontSize
		}
		if p.FontWeight != nil {
			el.Text.FontWeight = *p.FontWeight
		}
	}
}

// Remove deletes the element. If it was selected, the selection is cleared.
// Unknown ids are a no-op.
func (s *Store) Remove(id string) {
	i := s.indexOf(id)
	if i < 0 {
		return
	}
	s.elements = append(s.elements[:i], s.elements[i+1:]...)
	if s.selected == id {
		s.selected = ""
	}
}

// Duplicate clones the element under a fresh id, offset so the copy never
// exactly overlaps its source, and appends it front-most.
func (s *Store) Duplicate(id string) (domain.Element, bool) {
	i := s.indexOf(id)
	if i < 0 {
		return domain.Element{}, false
	}
	c := s.elements[i].Clone()
	c.ID = uuid.New().String()
	c.X += duplicateOffset
	c.Y += duplicateOffset
	s.elements = append(s.elements, c)
	return c.Clone(), true
}

// Reorder swaps the element with its immediate neighbor in the given
// direction. At either end of the sequence it is a no-op; it never wraps.
func (s *Store) Reorder(id string, dir Direction) {
	i := s.indexOf(id)
	if i < 0 {
		return
	}
	j := i
	switch dir {
	case Forward:
		j = i + 1
	case Backward:
		j = i - 1
	default:
		return
	}
	if j < 0 || j >= len(s.elements) {
		return
	}
	s.elements[i], s.elements[j] = s.elements[j], s.elements[i]
}

// Snapshot deep-copies the current scene and selection.
func (s *Store) Snapshot() domain.Snapshot {
	return domain.NewSnapshot(s.elements, s.selected)
}

// Restore replaces the live scene and selection with the snapshot contents.
// The snapshot itself is never aliased.
func (s *Store) Restore(snap domain.Snapshot) {
	c := snap.Clone()
	s.elements = c.Elements
	s.selected = c.SelectedID
}

func (s *Store) indexOf(id string) int {
	for i := range s.elements {
		if s.elements[i].ID == id {
			return i
		}
	}
	return -1
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
