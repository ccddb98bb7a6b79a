package scene

import (
	"testing"

	"easel/internal/domain"
)

func TestTopmostAtPrefersFrontMost(t *testing.T) {
	s := NewStore()
	back := s.Create(domain.KindRectangle, 0, 0)
	front := s.Create(domain.KindRectangle, 0, 0)

	hit, ok := s.TopmostAt(50, 50)
	if !ok {
		t.Fatal("expected a hit inside two overlapping elements")
	}
	if hit.ID != front.ID {
		t.Fatalf("expected the front-most element %s, got %s", front.ID, hit.ID)
	}
	_ = back
}

func TestTopmostAtSkipsInvisible(t *testing.T) {
	s := NewStore()
	back := s.Create(domain.KindRectangle, 0, 0)
	front := s.Create(domain.KindRectangle, 0, 0)

	vis := false
	s.Update(front.ID, Patch{Visible: &vis})

	hit, ok := s.TopmostAt(50, 50)
	if !ok {
		t.Fatal("the visible element underneath should still be hit")
	}
	if hit.ID != back.ID {
		t.Fatalf("invisible element intercepted the hit: got %s", hit.ID)
	}
}

func TestTopmostAtMiss(t *testing.T) {
	s := NewStore()
	s.Create(domain.KindRectangle, 0, 0)
	if _, ok := s.TopmostAt(500, 500); ok {
		t.Fatal("hit reported outside every element")
	}
}

func TestHitTestEdgesInclusive(t *testing.T) {
	s := NewStore()
	el := s.Create(domain.KindRectangle, 10, 10)
	b := el.Bounds()
	for _, p := range [][2]float64{
		{b.X, b.Y},
		{b.X + b.W, b.Y + b.H},
		{b.X, b.Y + b.H},
	} {
		if _, ok := s.TopmostAt(p[0], p[1]); !ok {
			t.Fatalf("edge point (%v, %v) should count as inside", p[0], p[1])
		}
	}
}

// Hit-testing uses the unrotated bounding box, so a point inside the
// axis-aligned box still hits a rotated element even when it falls outside
// the rotated outline.
func TestHitTestIgnoresRotation(t *testing.T) {
	s := NewStore()
	el := s.Create(domain.KindRectangle, 0, 0)
	rot := 45.0
	s.Update(el.ID, Patch{Rotation: &rot})

	// The corner of the unrotated box is outside the rotated outline.
	if _, ok := s.TopmostAt(el.X+1, el.Y+1); !ok {
		t.Fatal("rotated element should still hit within its unrotated box")
	}
}

func TestPointInsideNonRect(t *testing.T) {
	s := NewStore()
	el := s.Create(domain.KindCircle, 0, 0)

	// Circles hit on their bounding box, corners included.
	if _, ok := s.TopmostAt(el.X+2, el.Y+2); !ok {
		t.Fatal("circle should hit anywhere inside its bounding box")
	}
}
