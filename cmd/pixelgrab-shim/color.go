package main

/*
#include <string.h>
#include "pixelgrab_abi.h"
*/
import "C"

import (
	"github.com/pixelgrab/pixelgrab/internal/color"
)

func colorFromC(c C.PixelGrabColor) color.Color {
	return color.Color{R: uint8(c.r), G: uint8(c.g), B: uint8(c.b), A: uint8(c.a)}
}

//export pixelgrab_color_rgb_to_hsv
func pixelgrab_color_rgb_to_hsv(rgb C.PixelGrabColor, out *C.PixelGrabColorHsv) {
	if out == nil {
		return
	}
	hsv := color.RGBToHSV(colorFromC(rgb))
	out.h = C.float(hsv.H)
	out.s = C.float(hsv.S)
	out.v = C.float(hsv.V)
}

//export pixelgrab_color_hsv_to_rgb
func pixelgrab_color_hsv_to_rgb(hsv C.PixelGrabColorHsv, out *C.PixelGrabColor) {
	if out == nil {
		return
	}
	rgb := color.HSVToRGB(color.Hsv{H: float32(hsv.h), S: float32(hsv.s), V: float32(hsv.v)})
	fillColor(out, rgb)
}

//export pixelgrab_color_to_hex
func pixelgrab_color_to_hex(rgb C.PixelGrabColor, includeAlpha C.int, out *C.char, outLen C.int) {
	if out == nil || outLen <= 0 {
		return
	}
	hex := color.ToHex(colorFromC(rgb), cToBool(includeAlpha))
	cStringCopy(out, int(outLen), hex)
}

//export pixelgrab_color_from_hex
func pixelgrab_color_from_hex(hex *C.char, out *C.PixelGrabColor) C.int {
	if out == nil {
		return C.int(-2)
	}
	c, pgErr := color.FromHex(goString(hex))
	if pgErr != nil {
		return C.int(pgErr.Code)
	}
	fillColor(out, c)
	return 0
}
