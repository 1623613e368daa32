// Package watermark implements text and image watermark composition over
// an Image: single anchored text and tiled text drawn through
// internal/annorender's drawing canvas, and alpha-blended image overlays
// composited per pixel.
package watermark

import (
	"math"

	pgimage "github.com/pixelgrab/pixelgrab/internal/image"
	"github.com/pixelgrab/pixelgrab/internal/pgerr"

	"github.com/pixelgrab/pixelgrab/internal/annorender"
)

// Position selects one of the five fixed anchors, or Custom for an
// explicit (X, Y).
type Position int32

const (
	PositionTopLeft Position = iota
	PositionTopRight
	PositionBottomLeft
	PositionBottomRight
	PositionCenter
	PositionCustom
)

// TextConfig configures a single text watermark placement.
type TextConfig struct {
	Text       string
	Position   Position
	X, Y       int // used only when Position == PositionCustom
	FontSize   float64
	Margin     int // default 10 when zero
	RotateDeg  float64
}

const defaultMargin = 10

func (cfg TextConfig) margin() int {
	if cfg.Margin <= 0 {
		return defaultMargin
	}
	return cfg.Margin
}

func (cfg TextConfig) fontSize() float64 {
	if cfg.FontSize <= 0 {
		return 18
	}
	return cfg.FontSize
}

// ApplyTextWatermark renders cfg.Text onto img at the configured anchor,
// black fill with a white outline. A nonzero RotateDeg rotates the text's
// draw origin about its bounding-box center; the glyphs themselves are
// drawn unrotated.
func ApplyTextWatermark(img *pgimage.Image, cfg TextConfig) *pgerr.Error {
	if img == nil {
		return pgerr.New(pgerr.InvalidParam, "nil target image")
	}
	if cfg.Text == "" {
		return pgerr.New(pgerr.InvalidParam, "empty watermark text")
	}

	canvas, err := annorender.BeginRender(img)
	if err != nil {
		return err
	}
	defer canvas.EndRender()

	w, h, err := canvas.MeasureText(cfg.Text, cfg.fontSize())
	if err != nil {
		return err
	}
	x, y := anchorPosition(cfg, img.Width(), img.Height(), w, h)

	drawOutlinedText(canvas, cfg.Text, x, y, cfg.fontSize(), cfg.RotateDeg, w, h)
	return nil
}

func anchorPosition(cfg TextConfig, imgW, imgH int, textW, textH float64) (x, y float64) {
	margin := float64(cfg.margin())
	switch cfg.Position {
	case PositionTopLeft:
		return margin, margin
	case PositionTopRight:
		return float64(imgW) - textW - margin, margin
	case PositionBottomLeft:
		return margin, float64(imgH) - textH - margin
	case PositionBottomRight:
		return float64(imgW) - textW - margin, float64(imgH) - textH - margin
	case PositionCenter:
		return (float64(imgW) - textW) / 2, (float64(imgH) - textH) / 2
	default: // PositionCustom
		return float64(cfg.X), float64(cfg.Y)
	}
}

// drawOutlinedText draws text with a white outline and black fill. The
// outline is approximated by drawing the white fill offset in the eight
// surrounding directions before the black fill on top — the "stroke via
// offset copies" technique common to simple text-outline renderers.
// When rotateDeg is nonzero, each draw origin is rotated by rotateDeg
// degrees about the text's bounding-box center; annorender.Canvas has no
// rotated-text primitive, so the glyphs are drawn unrotated.
func drawOutlinedText(canvas *annorender.Canvas, text string, x, y, size, rotateDeg float64, w, h float64) {
	const outline = 1.0
	offsets := [][2]float64{
		{-outline, -outline}, {0, -outline}, {outline, -outline},
		{-outline, 0}, {outline, 0},
		{-outline, outline}, {0, outline}, {outline, outline},
	}
	cx, cy := x+w/2, y+h/2
	rad := rotateDeg * math.Pi / 180
	rotate := func(px, py float64) (float64, float64) {
		if rotateDeg == 0 {
			return px, py
		}
		dx, dy := px-cx, py-cy
		sin, cos := math.Sin(rad), math.Cos(rad)
		return cx + dx*cos - dy*sin, cy + dx*sin + dy*cos
	}

	const white = 0xFFFFFFFF
	const black = 0xFF000000
	for _, o := range offsets {
		ox, oy := rotate(x+o[0], y+o[1])
		canvas.DrawText(text, ox, oy, size, white)
	}
	fx, fy := rotate(x, y)
	canvas.DrawText(text, fx, fy, size, black)
}

// TiledTextConfig configures a repeating text watermark grid.
type TiledTextConfig struct {
	Text     string
	FontSize float64
}

func (cfg TiledTextConfig) fontSize() float64 {
	if cfg.FontSize <= 0 {
		return 18
	}
	return cfg.FontSize
}

// ApplyTiledTextWatermark tiles cfg.Text across img with spacing (sx, sy),
// rotated by angleDeg about the image center. The tiling region is
// expanded by the image diagonal so rotated coverage has no gaps at the
// corners.
func ApplyTiledTextWatermark(img *pgimage.Image, cfg TiledTextConfig, angleDeg float64, sx, sy int) *pgerr.Error {
	if img == nil {
		return pgerr.New(pgerr.InvalidParam, "nil target image")
	}
	if cfg.Text == "" {
		return pgerr.New(pgerr.InvalidParam, "empty watermark text")
	}
	if sx <= 0 || sy <= 0 {
		return pgerr.New(pgerr.InvalidParam, "tile spacing must be positive")
	}

	canvas, err := annorender.BeginRender(img)
	if err != nil {
		return err
	}
	defer canvas.EndRender()

	w, h := img.Width(), img.Height()
	cx, cy := float64(w)/2, float64(h)/2
	diagonal := math.Hypot(float64(w), float64(h))

	rad := angleDeg * math.Pi / 180
	sin, cos := math.Sin(rad), math.Cos(rad)
	rotate := func(px, py float64) (float64, float64) {
		return cx + px*cos - py*sin, cy + px*sin + py*cos
	}

	const black = 0xC0000000 // semi-transparent black, typical watermark tile color
	for ty := -diagonal; ty <= diagonal; ty += float64(sy) {
		for tx := -diagonal; tx <= diagonal; tx += float64(sx) {
			px, py := rotate(tx, ty)
			if px < -diagonal || px > float64(w)+diagonal || py < -diagonal || py > float64(h)+diagonal {
				continue
			}
			canvas.DrawText(cfg.Text, px, py, cfg.fontSize(), black)
		}
	}
	return nil
}

// ApplyImageWatermark alpha-blends overlay onto target at (x, y), scaling
// overlay's per-pixel alpha by clamp(opacity, 0, 1). Source-over
// compositing with straight alpha; regions outside target are clipped.
func ApplyImageWatermark(target, overlay *pgimage.Image, x, y int, opacity float64) *pgerr.Error {
	if target == nil || overlay == nil {
		return pgerr.New(pgerr.InvalidParam, "nil target or overlay image")
	}
	opacity = clamp01(opacity)

	for oy := 0; oy < overlay.Height(); oy++ {
		dy := y + oy
		if dy < 0 || dy >= target.Height() {
			continue
		}
		for ox := 0; ox < overlay.Width(); ox++ {
			dx := x + ox
			if dx < 0 || dx >= target.Width() {
				continue
			}
			sb, sg, sr, sa := overlay.At(ox, oy)
			db, dg, dr, da := target.At(dx, dy)

			a := float64(sa) / 255 * opacity
			blend := func(s, d uint8) uint8 {
				v := float64(s)*a + float64(d)*(1-a)
				return roundByte(v)
			}
			outAlpha := math.Min(255, float64(sa)*a+float64(da)*(1-a))

			target.Set(dx, dy, blend(sb, db), blend(sg, dg), blend(sr, dr), roundByte(outAlpha))
		}
	}
	return nil
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

func roundByte(v float64) uint8 {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return uint8(math.Round(v))
}
