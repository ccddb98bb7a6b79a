package scene

import "easel/internal/domain"

// PointInside reports whether the point lies inside the element's unrotated
// bounding box. Rotation is deliberately ignored: selection has always been
// resolved against the axis-aligned box, and rotated elements must keep
// hitting the same region they always have.
func PointInside(x, y float64, el domain.Element) bool {
	return el.Bounds().Contains(x, y)
}

// TopmostAt scans from front-most to back-most and returns the first visible
// element whose box contains the point. Invisible elements are skipped
// entirely; they are never selectable by click.
func (s *Store) TopmostAt(x, y float64) (domain.Element, bool) {
	for i := len(s.elements) - 1; i >= 0; i-- {
		el := s.elements[i]
		if !el.Visible {
			continue
		}
		if PointInside(x, y, el) {
			return el.Clone(), true
		}
	}
	return domain.Element{}, false
}
