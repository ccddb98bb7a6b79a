// Package render rasterizes a scene into an RGBA surface by wrapping
// rasterx: a filler for shape fills and a dasher for strokes and the dashed
// selection outline.
package render

import (
	"image"
	"image/color"
	"image/draw"
	"math"

	"github.com/srwiley/rasterx"
	"golang.org/x/image/font"
	"golang.org/x/image/math/fixed"

	"easel/internal/domain"
)

// Selection indicator: a dashed outline around the unrotated bounding box,
// expanded by a fixed margin. Drawn in scene space regardless of the
// element's own rotation, mirroring the axis-aligned hit-test behavior.
const (
	selectionMargin = 4.0
	selectionWidth  = 1.0
)

var (
	selectionColor = parseColor("#3b82f6")
	selectionDash  = []float64{4, 4}
)

// Renderer draws scenes into *image.RGBA surfaces. It retains no scene
// state between calls — only a font face cache — so every call is a pure
// function of its arguments. Not safe for concurrent use.
type Renderer struct {
	faces map[faceKey]font.Face
}

// New returns a Renderer.
func New() *Renderer {
	return &Renderer{faces: make(map[faceKey]font.Face)}
}

// Render clears img to the background color, then draws the elements in
// index order (back-to-front), skipping invisible ones, and finally the
// selection outline if selectedID names a visible element.
func (r *Renderer) Render(img *image.RGBA, elements []domain.Element, selectedID, background string) {
	bg := parseColor(background)
	if background == "" {
		bg = color.NRGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}
	}
	draw.Draw(img, img.Bounds(), image.NewUniform(bg), image.Point{}, draw.Src)

	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	scanner := rasterx.NewScannerGV(w, h, img, b)
	filler := rasterx.NewFiller(w, h, scanner)
	dasher := rasterx.NewDasher(w, h, scanner)

	for _, el := range elements {
		if !el.Visible {
			continue
		}
		if el.Kind == domain.KindText {
			r.drawText(img, el)
			continue
		}
		r.drawShape(filler, dasher, el)
	}

	if selectedID != "" {
		for _, el := range elements {
			if el.ID == selectedID && el.Visible {
				drawSelection(dasher, el)
				break
			}
		}
	}
}

// drawShape fills and then outlines one shape element. The path is built
// rotated about the box center; stroke is skipped at width zero.
func (r *Renderer) drawShape(filler *rasterx.Filler, dasher *rasterx.Dasher, el domain.Element) {
	fill := parseColor(el.Style.Fill)
	if fill.A > 0 {
		filler.Scanner.SetColor(rasterx.ApplyOpacity(fill, el.Style.Opacity))
		addShapePath(filler, el)
		filler.Draw()
		filler.Clear()
	}

	stroke := parseColor(el.Style.Stroke)
	if el.Style.StrokeWidth > 0 && stroke.A > 0 {
		dasher.SetStroke(
			fixed.Int26_6(el.Style.StrokeWidth*64), fixed.Int26_6(4*64),
			rasterx.ButtCap, rasterx.ButtCap, rasterx.FlatGap, rasterx.Miter,
			nil, 0,
		)
		dasher.Scanner.SetColor(rasterx.ApplyOpacity(stroke, el.Style.Opacity))
		addShapePath(dasher, el)
		dasher.Draw()
		dasher.Clear()
	}
}

// addShapePath appends the element's outline to the adder, rotated by the
// element's rotation about its bounding-box center.
func addShapePath(p rasterx.Adder, el domain.Element) {
	switch el.Kind {
	case domain.KindRectangle:
		rasterx.AddRect(el.X, el.Y, el.X+el.Width, el.Y+el.Height, el.Rotation, p)
	case domain.KindCircle:
		cx, cy := el.X+el.Width/2, el.Y+el.Height/2
		rasterx.AddEllipse(cx, cy, el.Width/2, el.Height/2, el.Rotation, p)
	case domain.KindTriangle:
		cx, cy := el.X+el.Width/2, el.Y+el.Height/2
		rad := el.Rotation * math.Pi / 180
		sin, cos := math.Sin(rad), math.Cos(rad)
		rot := func(x, y float64) fixed.Point26_6 {
			dx, dy := x-cx, y-cy
			return rasterx.ToFixedP(cx+dx*cos-dy*sin, cy+dx*sin+dy*cos)
		}
		p.Start(rot(el.X+el.Width/2, el.Y)) // apex, top center
		p.Line(rot(el.X+el.Width, el.Y+el.Height))
		p.Line(rot(el.X, el.Y+el.Height))
		p.Stop(true)
	}
}

// drawSelection outlines the unrotated bounding box with a dashed stroke.
func drawSelection(dasher *rasterx.Dasher, el domain.Element) {
	box := el.Bounds().Expand(selectionMargin)
	dasher.SetStroke(
		fixed.Int26_6(selectionWidth*64), fixed.Int26_6(4*64),
		rasterx.ButtCap, rasterx.ButtCap, rasterx.FlatGap, rasterx.Miter,
		selectionDash, 0,
	)
	dasher.Scanner.SetColor(selectionColor)
	rasterx.AddRect(box.X, box.Y, box.X+box.W, box.Y+box.H, 0, dasher)
	dasher.Draw()
	dasher.Clear()
}
