package render

import (
	"image/color"
	"strconv"
	"strings"
)

// parseColor parses "#rgb", "#rrggbb" and "#rrggbbaa" hex colors. The empty
// string and "transparent" yield a fully transparent color. Anything else
// falls back to opaque black; the engine never reports style errors.
func parseColor(s string) color.NRGBA {
	s = strings.TrimSpace(strings.ToLower(s))
	if s == "" || s == "transparent" || s == "none" {
		return color.NRGBA{}
	}
	s = strings.TrimPrefix(s, "#")

	hex := func(sub string) (uint8, bool) {
		v, err := strconv.ParseUint(sub, 16, 8)
		if err != nil {
			return 0, false
		}
		return uint8(v), true
	}

	switch len(s) {
	case 3:
		r, ok1 := hex(s[0:1] + s[0:1])
		g, ok2 := hex(s[1:2] + s[1:2])
		b, ok3 := hex(s[2:3] + s[2:3])
		if ok1 && ok2 && ok3 {
			return color.NRGBA{R: r, G: g, B: b, A: 0xff}
		}
	case 6:
		r, ok1 := hex(s[0:2])
		g, ok2 := hex(s[2:4])
		b, ok3 := hex(s[4:6])
		if ok1 && ok2 && ok3 {
			return color.NRGBA{R: r, G: g, B: b, A: 0xff}
		}
	case 8:
		r, ok1 := hex(s[0:2])
		g, ok2 := hex(s[2:4])
		b, ok3 := hex(s[4:6])
		a, ok4 := hex(s[6:8])
		if ok1 && ok2 && ok3 && ok4 {
			return color.NRGBA{R: r, G: g, B: b, A: a}
		}
	}
	return color.NRGBA{A: 0xff}
}
