package main

/*
#include <stdlib.h>
#include "pixelgrab_abi.h"
*/
import "C"

//export pixelgrab_clipboard_get_format
func pixelgrab_clipboard_get_format(h *C.PixelGrabContext) C.int {
	ctx := ctxFromHandle(h)
	if ctx == nil {
		return 0
	}
	return C.int(ctx.ClipboardFormat())
}

//export pixelgrab_clipboard_get_image
func pixelgrab_clipboard_get_image(h *C.PixelGrabContext) *C.PixelGrabImage {
	ctx := ctxFromHandle(h)
	if ctx == nil {
		return nil
	}
	img, pgErr := ctx.ClipboardImage()
	if pgErr != nil {
		return nil
	}
	return newImageHandle(img)
}

//export pixelgrab_clipboard_get_text
func pixelgrab_clipboard_get_text(h *C.PixelGrabContext) *C.char {
	ctx := ctxFromHandle(h)
	if ctx == nil {
		return nil
	}
	text, pgErr := ctx.ClipboardText()
	if pgErr != nil {
		return nil
	}
	return C.CString(text)
}
