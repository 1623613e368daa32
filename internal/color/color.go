// Package color implements the PixelGrabColor / PixelGrabColorHsv value
// types and the hex/HSV conversions the C ABI exposes as pixelgrab_color_*.
package color

import (
	"fmt"
	"math"
	"strings"

	"github.com/pixelgrab/pixelgrab/internal/pgerr"
)

// Color is four 8-bit channels, mirroring PixelGrabColor.
type Color struct {
	R, G, B, A uint8
}

// Hsv is hue in [0,360), saturation and value in [0,1], mirroring
// PixelGrabColorHsv.
type Hsv struct {
	H, S, V float32
}

// ARGB packs a Color into the 0xAARRGGBB layout used by ShapeStyle and
// watermark color fields throughout the annotation/watermark surface.
func (c Color) ARGB() uint32 {
	return uint32(c.A)<<24 | uint32(c.R)<<16 | uint32(c.G)<<8 | uint32(c.B)
}

// FromARGB unpacks a 0xAARRGGBB value into a Color.
func FromARGB(argb uint32) Color {
	return Color{
		A: uint8(argb >> 24),
		R: uint8(argb >> 16),
		G: uint8(argb >> 8),
		B: uint8(argb),
	}
}

// RGBToHSV converts an RGB color to HSV, matching color_utils.cpp's RgbToHsv.
func RGBToHSV(c Color) Hsv {
	r := float32(c.R) / 255.0
	g := float32(c.G) / 255.0
	b := float32(c.B) / 255.0

	maxVal := max3(r, g, b)
	minVal := min3(r, g, b)
	delta := maxVal - minVal

	var hsv Hsv
	hsv.V = maxVal

	if maxVal < 1e-6 {
		hsv.S = 0
	} else {
		hsv.S = delta / maxVal
	}

	switch {
	case delta < 1e-6:
		hsv.H = 0
	case maxVal == r:
		hsv.H = 60 * float32(math.Mod(float64((g-b)/delta), 6))
	case maxVal == g:
		hsv.H = 60 * ((b-r)/delta + 2)
	default:
		hsv.H = 60 * ((r-g)/delta + 4)
	}

	if hsv.H < 0 {
		hsv.H += 360
	}
	return hsv
}

// HSVToRGB converts an HSV color to RGB, matching color_utils.cpp's
// HsvToRgb. Alpha is always set to 255.
func HSVToRGB(hsv Hsv) Color {
	h := hsv.H
	if h < 0 || h >= 360 {
		h = 0
	}
	s := clamp01(hsv.S)
	v := clamp01(hsv.V)

	c := v * s
	x := c * (1 - float32(math.Abs(math.Mod(float64(h/60), 2)-1)))
	m := v - c

	var r1, g1, b1 float32
	switch {
	case h < 60:
		r1, g1, b1 = c, x, 0
	case h < 120:
		r1, g1, b1 = x, c, 0
	case h < 180:
		r1, g1, b1 = 0, c, x
	case h < 240:
		r1, g1, b1 = 0, x, c
	case h < 300:
		r1, g1, b1 = x, 0, c
	default:
		r1, g1, b1 = c, 0, x
	}

	return Color{
		R: roundByte((r1 + m) * 255),
		G: roundByte((g1 + m) * 255),
		B: roundByte((b1 + m) * 255),
		A: 255,
	}
}

// ToHex formats a Color as "#RRGGBB" or, with includeAlpha, "#RRGGBBAA".
func ToHex(c Color, includeAlpha bool) string {
	if includeAlpha {
		return fmt.Sprintf("#%02X%02X%02X%02X", c.R, c.G, c.B, c.A)
	}
	return fmt.Sprintf("#%02X%02X%02X", c.R, c.G, c.B)
}

// FromHex parses "#RGB", "#RRGGBB", or "#RRGGBBAA" (the leading '#' is
// optional) into a Color.
func FromHex(hex string) (Color, *pgerr.Error) {
	s := strings.TrimPrefix(hex, "#")

	hexVal := func(c byte) int {
		switch {
		case c >= '0' && c <= '9':
			return int(c - '0')
		case c >= 'a' && c <= 'f':
			return int(c-'a') + 10
		case c >= 'A' && c <= 'F':
			return int(c-'A') + 10
		default:
			return -1
		}
	}
	pair := func(hi, lo byte) (int, bool) {
		h, l := hexVal(hi), hexVal(lo)
		if h < 0 || l < 0 {
			return 0, false
		}
		return h*16 + l, true
	}

	invalid := func() (Color, *pgerr.Error) {
		return Color{}, pgerr.New(pgerr.InvalidParam, fmt.Sprintf("invalid hex color %q", hex))
	}

	switch len(s) {
	case 3:
		r, g, b := hexVal(s[0]), hexVal(s[1]), hexVal(s[2])
		if r < 0 || g < 0 || b < 0 {
			return invalid()
		}
		return Color{R: uint8(r * 17), G: uint8(g * 17), B: uint8(b * 17), A: 255}, nil
	case 6:
		r, ok1 := pair(s[0], s[1])
		g, ok2 := pair(s[2], s[3])
		b, ok3 := pair(s[4], s[5])
		if !ok1 || !ok2 || !ok3 {
			return invalid()
		}
		return Color{R: uint8(r), G: uint8(g), B: uint8(b), A: 255}, nil
	case 8:
		r, ok1 := pair(s[0], s[1])
		g, ok2 := pair(s[2], s[3])
		b, ok3 := pair(s[4], s[5])
		a, ok4 := pair(s[6], s[7])
		if !ok1 || !ok2 || !ok3 || !ok4 {
			return invalid()
		}
		return Color{R: uint8(r), G: uint8(g), B: uint8(b), A: uint8(a)}, nil
	default:
		return invalid()
	}
}

func max3(a, b, c float32) float32 {
	m := a
	if b > m {
		m = b
	}
	if c > m {
		m = c
	}
	return m
}

func min3(a, b, c float32) float32 {
	m := a
	if b < m {
		m = b
	}
	if c < m {
		m = c
	}
	return m
}

func clamp01(v float32) float32 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

func roundByte(v float32) uint8 {
	r := math.Round(float64(v))
	if r < 0 {
		r = 0
	}
	if r > 255 {
		r = 255
	}
	return uint8(r)
}
