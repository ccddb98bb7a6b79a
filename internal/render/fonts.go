package render

import (
	"fmt"
	"math"

	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/font/sfnt"
)

// Text glyphs come from the bundled Go fonts. Families requested through
// the style are not resolved against system fonts; weight picks between the
// regular and bold faces. 600 is the CSS semi-bold threshold.

const boldWeightMin = 600

var (
	fontRegular = mustParseFont(goregular.TTF)
	fontBold    = mustParseFont(gobold.TTF)
)

func mustParseFont(ttf []byte) *sfnt.Font {
	f, err := opentype.Parse(ttf)
	if err != nil {
		panic(fmt.Sprintf("render: parse embedded font: %v", err))
	}
	return f
}

type faceKey struct {
	bold bool
	size int // font size in fixed tenths, enough resolution for a cache key
}

func (r *Renderer) face(size float64, weight int) font.Face {
	if size <= 0 {
		size = 1
	}
	key := faceKey{bold: weight >= boldWeightMin, size: int(math.Round(size * 10))}
	if f, ok := r.faces[key]; ok {
		return f
	}
	src := fontRegular
	if key.bold {
		src = fontBold
	}
	f, err := opentype.NewFace(src, &opentype.FaceOptions{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingFull,
	})
	if err != nil {
		// NewFace on the embedded fonts only fails for degenerate sizes,
		// which are clamped above. Fall back to no glyphs.
		return nil
	}
	r.faces[key] = f
	return f
}
