// Package annorender implements the pluggable 2-D drawing backend used by
// annotation sessions and the watermark renderer: a thin wrapper over
// github.com/fogleman/gg giving vector primitives (rect/ellipse/line/arrow/
// polyline/text) anti-aliased straight onto a BGRA8 image buffer.
package annorender

import (
	"image"
	stdcolor "image/color"
	"math"

	"github.com/fogleman/gg"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"

	pgimage "github.com/pixelgrab/pixelgrab/internal/image"
	"github.com/pixelgrab/pixelgrab/internal/pgerr"
)

// Canvas brackets a drawing batch over a single target image, mirroring
// the BeginRender/EndRender contract: acquire, draw a batch of primitives,
// flush back into the target's pixel buffer.
type Canvas struct {
	target *pgimage.Image
	ctx    *gg.Context
	rgba   *image.RGBA
	active bool
}

// BeginRender acquires a drawing context backed by img's pixel buffer.
func BeginRender(img *pgimage.Image) (*Canvas, *pgerr.Error) {
	if img == nil {
		return nil, pgerr.New(pgerr.InvalidParam, "nil target image")
	}
	rgba := bgraToRGBA(img)
	return &Canvas{
		target: img,
		ctx:    gg.NewContextForRGBA(rgba),
		rgba:   rgba,
		active: true,
	}, nil
}

// EndRender flushes pending operations back into the target image and
// releases the drawing context.
func (c *Canvas) EndRender() {
	if !c.active {
		return
	}
	rgbaToBGRA(c.rgba, c.target)
	c.active = false
}

func bgraToRGBA(img *pgimage.Image) *image.RGBA {
	w, h := img.Width(), img.Height()
	out := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			b, g, r, a := img.At(x, y)
			out.SetRGBA(x, y, stdcolor.RGBA{R: r, G: g, B: b, A: a})
		}
	}
	return out
}

func rgbaToBGRA(rgba *image.RGBA, img *pgimage.Image) {
	w, h := img.Width(), img.Height()
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			c := rgba.RGBAAt(x, y)
			img.Set(x, y, c.B, c.G, c.R, c.A)
		}
	}
}

func argbComponents(argb uint32) (r, g, b, a uint8) {
	a = uint8(argb >> 24)
	r = uint8(argb >> 16)
	g = uint8(argb >> 8)
	b = uint8(argb)
	return
}

func (c *Canvas) setStrokeColor(argb uint32) {
	r, g, b, a := argbComponents(argb)
	c.ctx.SetRGBA255(int(r), int(g), int(b), int(a))
}

// DrawRect strokes (and optionally fills) an axis-aligned rectangle.
func (c *Canvas) DrawRect(x, y, w, h float64, strokeARGB, fillARGB uint32, strokeWidth float64, filled bool) {
	c.ctx.DrawRectangle(x, y, w, h)
	c.finishPath(strokeARGB, fillARGB, strokeWidth, filled)
}

// DrawEllipse strokes (and optionally fills) an ellipse centered at (cx, cy).
func (c *Canvas) DrawEllipse(cx, cy, rx, ry float64, strokeARGB, fillARGB uint32, strokeWidth float64, filled bool) {
	c.ctx.DrawEllipse(cx, cy, rx, ry)
	c.finishPath(strokeARGB, fillARGB, strokeWidth, filled)
}

// DrawLine strokes a single straight segment with round caps.
func (c *Canvas) DrawLine(x1, y1, x2, y2 float64, strokeARGB uint32, strokeWidth float64) {
	c.ctx.SetLineCap(gg.LineCapRound)
	c.ctx.SetLineJoin(gg.LineJoinRound)
	c.ctx.SetLineWidth(strokeWidth)
	c.setStrokeColor(strokeARGB)
	c.ctx.DrawLine(x1, y1, x2, y2)
	c.ctx.Stroke()
}

// DrawArrow strokes a line from (x1,y1) to (x2,y2) and caps it with a
// filled triangular head at (x2,y2), sized by headLen/headWidth.
func (c *Canvas) DrawArrow(x1, y1, x2, y2 float64, headLen, headWidth float64, strokeARGB uint32, strokeWidth float64) {
	c.DrawLine(x1, y1, x2, y2, strokeARGB, strokeWidth)

	angle := math.Atan2(y2-y1, x2-x1)
	backX := x2 - headLen*math.Cos(angle)
	backY := y2 - headLen*math.Sin(angle)
	perpX := math.Cos(angle + math.Pi/2)
	perpY := math.Sin(angle + math.Pi/2)

	p1x, p1y := backX+perpX*headWidth/2, backY+perpY*headWidth/2
	p2x, p2y := backX-perpX*headWidth/2, backY-perpY*headWidth/2

	c.ctx.MoveTo(x2, y2)
	c.ctx.LineTo(p1x, p1y)
	c.ctx.LineTo(p2x, p2y)
	c.ctx.ClosePath()
	c.setStrokeColor(strokeARGB)
	c.ctx.Fill()
}

// DrawPolyline strokes a connected sequence of points with round joins
// and caps.
func (c *Canvas) DrawPolyline(points [][2]float64, strokeARGB uint32, strokeWidth float64) {
	if len(points) < 2 {
		return
	}
	c.ctx.SetLineCap(gg.LineCapRound)
	c.ctx.SetLineJoin(gg.LineJoinRound)
	c.ctx.SetLineWidth(strokeWidth)
	c.setStrokeColor(strokeARGB)
	c.ctx.MoveTo(points[0][0], points[0][1])
	for _, p := range points[1:] {
		c.ctx.LineTo(p[0], p[1])
	}
	c.ctx.Stroke()
}

var defaultFace = loadDefaultFace()

func loadDefaultFace() *opentype.Font {
	f, err := opentype.Parse(goregular.TTF)
	if err != nil {
		panic(err)
	}
	return f
}

// DrawText draws a UTF-8 string at (x, y) (top-left origin) in the given
// pixel size and ARGB color, anti-aliased.
func (c *Canvas) DrawText(text string, x, y, size float64, argb uint32) *pgerr.Error {
	face, err := opentype.NewFace(defaultFace, &opentype.FaceOptions{
		Size: size,
		DPI:  72,
	})
	if err != nil {
		return pgerr.New(pgerr.AnnotationFailed, "failed to load font face: "+err.Error())
	}
	c.ctx.SetFontFace(face)
	r, g, b, a := argbComponents(argb)
	c.ctx.SetRGBA255(int(r), int(g), int(b), int(a))
	// gg anchors DrawString at the text baseline; approximate a top-left
	// origin by offsetting down by the requested pixel size.
	c.ctx.DrawString(text, x, y+size)
	return nil
}

// MeasureText returns the pixel width/height of text at the given size
// using the default font face, for callers that need to lay out text
// before drawing it (anchored watermarks, tiled watermark spacing).
func (c *Canvas) MeasureText(text string, size float64) (w, h float64, pgErr *pgerr.Error) {
	face, err := opentype.NewFace(defaultFace, &opentype.FaceOptions{Size: size, DPI: 72})
	if err != nil {
		return 0, 0, pgerr.New(pgerr.AnnotationFailed, "failed to load font face: "+err.Error())
	}
	c.ctx.SetFontFace(face)
	w, h = c.ctx.MeasureString(text)
	return w, h, nil
}

func (c *Canvas) finishPath(strokeARGB, fillARGB uint32, strokeWidth float64, filled bool) {
	if filled && fillARGB != 0 {
		fr, fg, fb, fa := argbComponents(fillARGB)
		c.ctx.SetRGBA255(int(fr), int(fg), int(fb), int(fa))
		c.ctx.FillPreserve()
	}
	c.ctx.SetLineWidth(strokeWidth)
	c.setStrokeColor(strokeARGB)
	c.ctx.Stroke()
}
