package main

/*
#include "pixelgrab_abi.h"
*/
import "C"

//export pixelgrab_watermark_is_supported
func pixelgrab_watermark_is_supported(h *C.PixelGrabContext) C.int {
	ctx := ctxFromHandle(h)
	if ctx == nil {
		return 0
	}
	return boolToC(ctx.WatermarkIsSupported())
}

//export pixelgrab_watermark_apply_text
func pixelgrab_watermark_apply_text(h *C.PixelGrabContext, img *C.PixelGrabImage, cfg *C.PixelGrabTextWatermarkConfig) C.int {
	ctx := ctxFromHandle(h)
	image := imgFromHandle(img)
	if ctx == nil || image == nil || cfg == nil {
		return C.int(-2)
	}
	tc := textWatermarkFromC(cfg)
	pgErr := ctx.ApplyTextWatermark(image, *tc)
	if pgErr != nil {
		return C.int(pgErr.Code)
	}
	return 0
}

//export pixelgrab_watermark_apply_image
func pixelgrab_watermark_apply_image(h *C.PixelGrabContext, target, overlay *C.PixelGrabImage, x, y C.int, opacity C.float) C.int {
	ctx := ctxFromHandle(h)
	targetImg := imgFromHandle(target)
	overlayImg := imgFromHandle(overlay)
	if ctx == nil || targetImg == nil || overlayImg == nil {
		return C.int(-2)
	}
	pgErr := ctx.ApplyImageWatermark(targetImg, overlayImg, int(x), int(y), float64(opacity))
	if pgErr != nil {
		return C.int(pgErr.Code)
	}
	return 0
}
