package render

import (
	"image"
	"image/color"
	"math"

	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/math/f64"
	"golang.org/x/image/math/fixed"

	"easel/internal/domain"
)

// drawText renders a text element's content left-aligned at the element's
// top-left corner. Stroke never applies to glyphs; the fill color with the
// element opacity is the glyph color. Rotated text is rasterized to a
// scratch surface and composited through an affine transform about the box
// center.
func (r *Renderer) drawText(img *image.RGBA, el domain.Element) {
	if el.Text == nil || el.Text.Content == "" {
		return
	}
	face := r.face(el.Text.FontSize, el.Text.FontWeight)
	if face == nil {
		return
	}

	col := applyAlpha(parseColor(el.Style.Fill), el.Style.Opacity)
	if col.A == 0 {
		return
	}

	if normalizedDegrees(el.Rotation) == 0 {
		drawString(img, face, col, el.X, el.Y, el.Text.Content)
		return
	}

	// Rasterize upright into a scratch surface the size of the box, then
	// rotate that surface about the box center into the destination.
	sw := int(math.Ceil(el.Width))
	sh := int(math.Ceil(el.Height))
	if sw <= 0 || sh <= 0 {
		return
	}
	scratch := image.NewRGBA(image.Rect(0, 0, sw, sh))
	drawString(scratch, face, col, 0, 0, el.Text.Content)

	rad := el.Rotation * math.Pi / 180
	sin, cos := math.Sin(rad), math.Cos(rad)
	cx, cy := el.X+el.Width/2, el.Y+el.Height/2
	w2, h2 := el.Width/2, el.Height/2
	m := f64.Aff3{
		cos, -sin, cx - cos*w2 + sin*h2,
		sin, cos, cy - sin*w2 - cos*h2,
	}
	draw.BiLinear.Transform(img, m, scratch, scratch.Bounds(), draw.Over, nil)
}

// drawString draws s with its ascent anchored so the glyph box starts at
// (x, y), the element's top-left.
func drawString(dst *image.RGBA, face font.Face, col color.NRGBA, x, y float64, s string) {
	ascent := face.Metrics().Ascent
	d := font.Drawer{
		Dst:  dst,
		Src:  image.NewUniform(col),
		Face: face,
		Dot: fixed.Point26_6{
			X: fixed.Int26_6(x * 64),
			Y: fixed.Int26_6(y*64) + ascent,
		},
	}
	d.DrawString(s)
}

func applyAlpha(c color.NRGBA, opacity float64) color.NRGBA {
	if opacity >= 1 {
		return c
	}
	if opacity < 0 {
		opacity = 0
	}
	c.A = uint8(math.Round(float64(c.A) * opacity))
	return c
}

// normalizedDegrees folds a rotation into [0, 360).
func normalizedDegrees(deg float64) float64 {
	d := math.Mod(deg, 360)
	if d < 0 {
		d += 360
	}
	return d
}
