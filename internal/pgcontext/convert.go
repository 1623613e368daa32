package pgcontext

import (
	stdimage "image"
	"image/color"

	pgimage "github.com/pixelgrab/pixelgrab/internal/image"
)

// bgraToGoImage copies a BGRA8 Image into a standard library image.RGBA so
// it can be fed to imaging.Resize, the only piece of the pack's resize
// vocabulary the magnifier needs.
func bgraToGoImage(img *pgimage.Image) *stdimage.RGBA {
	w, h := img.Width(), img.Height()
	out := stdimage.NewRGBA(stdimage.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			b, g, r, a := img.At(x, y)
			out.SetRGBA(x, y, color.RGBA{R: r, G: g, B: b, A: a})
		}
	}
	return out
}

// goImageToBGRA writes an image.RGBA's pixels back into a BGRA8 Image of
// matching dimensions.
func goImageToBGRA(src *stdimage.RGBA, dst *pgimage.Image) {
	bounds := src.Bounds()
	for y := 0; y < dst.Height(); y++ {
		for x := 0; x < dst.Width(); x++ {
			c := src.RGBAAt(bounds.Min.X+x, bounds.Min.Y+y)
			dst.Set(x, y, c.B, c.G, c.R, c.A)
		}
	}
}
