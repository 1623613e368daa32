package main

/*
#include <stdlib.h>
#include "pixelgrab_abi.h"
*/
import "C"

import "github.com/pixelgrab/pixelgrab/internal/pgcontext"

//export pixelgrab_ocr_is_supported
func pixelgrab_ocr_is_supported(h *C.PixelGrabContext) C.int {
	ctx := ctxFromHandle(h)
	if ctx == nil {
		return 0
	}
	return boolToC(ctx.OCRIsSupported())
}

//export pixelgrab_ocr_recognize
func pixelgrab_ocr_recognize(h *C.PixelGrabContext, img *C.PixelGrabImage, language *C.char) *C.char {
	ctx := ctxFromHandle(h)
	image := imgFromHandle(img)
	if ctx == nil || image == nil {
		return nil
	}
	text, pgErr := ctx.OCRRecognize(image, goString(language))
	if pgErr != nil {
		return nil
	}
	return C.CString(text)
}

//export pixelgrab_translate_set_config
func pixelgrab_translate_set_config(h *C.PixelGrabContext, provider, appID, secretKey *C.char) C.int {
	ctx := ctxFromHandle(h)
	if ctx == nil {
		return C.int(-2)
	}
	pgErr := ctx.SetTranslateConfig(pgcontext.TranslateConfig{
		Provider:  goString(provider),
		AppID:     goString(appID),
		SecretKey: goString(secretKey),
	})
	if pgErr != nil {
		return C.int(pgErr.Code)
	}
	return 0
}

//export pixelgrab_translate_is_supported
func pixelgrab_translate_is_supported(h *C.PixelGrabContext) C.int {
	ctx := ctxFromHandle(h)
	if ctx == nil {
		return 0
	}
	return boolToC(ctx.TranslateIsSupported())
}

//export pixelgrab_translate_text
func pixelgrab_translate_text(h *C.PixelGrabContext, text, sourceLang, targetLang *C.char) *C.char {
	ctx := ctxFromHandle(h)
	if ctx == nil {
		return nil
	}
	out, pgErr := ctx.TranslateText(goString(text), goString(sourceLang), goString(targetLang))
	if pgErr != nil {
		return nil
	}
	return C.CString(out)
}
