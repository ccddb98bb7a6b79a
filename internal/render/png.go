package render

import (
	"bytes"
	"fmt"
	"image"
	"image/png"
)

// EncodePNG serializes a rendered surface to PNG bytes. Rasterization of
// the scene and delivery of the file are the host's concern; the engine
// only exposes the encoded surface.
func EncodePNG(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("encode png: %w", err)
	}
	return buf.Bytes(), nil
}
