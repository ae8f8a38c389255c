package encoder

import (
	"fmt"
	"image"
	"image/png"
	"os"

	"github.com/anthonynsimon/bild/transform"
)

// SavePNG writes an RGBA readback to a PNG file. GL rows come back
// bottom-up, so the image is flipped before encoding.
func SavePNG(path string, pix []byte, width, height int) error {
	if len(pix) != width*height*4 {
		return fmt.Errorf("pixel buffer is %d bytes, want %d", len(pix), width*height*4)
	}
	img := &image.RGBA{Pix: pix, Stride: width * 4, Rect: image.Rect(0, 0, width, height)}
	flipped := transform.FlipV(img)

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := png.Encode(f, flipped); err != nil {
		f.Close()
		return fmt.Errorf("encoding %s: %w", path, err)
	}
	return f.Close()
}
