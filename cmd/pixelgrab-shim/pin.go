package main

/*
#include "pixelgrab_abi.h"
*/
import "C"

import (
	"unsafe"

	"github.com/pixelgrab/pixelgrab/internal/pin"
)

// pinBox stores the owning manager alongside the pin id so every
// PixelGrabPinWindow* operation (which carries no context argument in the
// header) can still reach the right Manager — the same back-pointer
// pattern as annotationBox.
type pinBox struct {
	mgr *pin.Manager
	id  int
}

func pinFromHandle(h *C.PixelGrabPinWindow) *pinBox {
	b, _ := handleValue(unsafe.Pointer(h)).(*pinBox)
	return b
}

func newPinHandle(mgr *pin.Manager, id int) *C.PixelGrabPinWindow {
	if id <= 0 {
		return nil
	}
	return (*C.PixelGrabPinWindow)(newHandleBox(&pinBox{mgr: mgr, id: id}))
}

func fillPinInfo(out *C.PixelGrabPinInfo, info pin.Info) {
	out.id = C.int(info.ID)
	out.x = C.int(info.X)
	out.y = C.int(info.Y)
	out.width = C.int(info.W)
	out.height = C.int(info.H)
	out.opacity = C.float(info.Opacity)
	out.is_visible = boolToC(info.Visible)
	contentType := C.int(0)
	if info.IsText {
		contentType = 1
	}
	out.content_type = contentType
}

//export pixelgrab_pin_image
func pixelgrab_pin_image(ctxHandle *C.PixelGrabContext, img *C.PixelGrabImage, x, y C.int) *C.PixelGrabPinWindow {
	ctx := ctxFromHandle(ctxHandle)
	image := imgFromHandle(img)
	if ctx == nil || image == nil {
		return nil
	}
	id := ctx.Pins().PinImage(image, int(x), int(y))
	return newPinHandle(ctx.Pins(), id)
}

//export pixelgrab_pin_text
func pixelgrab_pin_text(ctxHandle *C.PixelGrabContext, text *C.char, x, y C.int) *C.PixelGrabPinWindow {
	ctx := ctxFromHandle(ctxHandle)
	if ctx == nil {
		return nil
	}
	id := ctx.Pins().PinText(goString(text), int(x), int(y))
	return newPinHandle(ctx.Pins(), id)
}

//export pixelgrab_pin_clipboard
func pixelgrab_pin_clipboard(ctxHandle *C.PixelGrabContext, x, y C.int) *C.PixelGrabPinWindow {
	ctx := ctxFromHandle(ctxHandle)
	if ctx == nil {
		return nil
	}
	id := ctx.PinClipboard(int(x), int(y))
	return newPinHandle(ctx.Pins(), id)
}

//export pixelgrab_pin_destroy
func pixelgrab_pin_destroy(h *C.PixelGrabPinWindow) {
	if b := pinFromHandle(h); b != nil {
		b.mgr.DestroyPin(b.id)
	}
	freeHandleBox(unsafe.Pointer(h))
}

//export pixelgrab_pin_set_opacity
func pixelgrab_pin_set_opacity(h *C.PixelGrabPinWindow, opacity C.float) C.int {
	b := pinFromHandle(h)
	if b == nil {
		return C.int(-2)
	}
	if pgErr := b.mgr.SetOpacity(b.id, float64(opacity)); pgErr != nil {
		return C.int(pgErr.Code)
	}
	return 0
}

//export pixelgrab_pin_get_opacity
func pixelgrab_pin_get_opacity(h *C.PixelGrabPinWindow) C.float {
	b := pinFromHandle(h)
	if b == nil {
		return 0
	}
	info, pgErr := b.mgr.GetInfo(b.id)
	if pgErr != nil {
		return 0
	}
	return C.float(info.Opacity)
}

//export pixelgrab_pin_set_position
func pixelgrab_pin_set_position(h *C.PixelGrabPinWindow, x, y C.int) C.int {
	b := pinFromHandle(h)
	if b == nil {
		return C.int(-2)
	}
	if pgErr := b.mgr.SetPosition(b.id, int(x), int(y)); pgErr != nil {
		return C.int(pgErr.Code)
	}
	return 0
}

//export pixelgrab_pin_set_size
func pixelgrab_pin_set_size(h *C.PixelGrabPinWindow, w, hgt C.int) C.int {
	b := pinFromHandle(h)
	if b == nil {
		return C.int(-2)
	}
	if pgErr := b.mgr.SetSize(b.id, int(w), int(hgt)); pgErr != nil {
		return C.int(pgErr.Code)
	}
	return 0
}

//export pixelgrab_pin_set_visible
func pixelgrab_pin_set_visible(h *C.PixelGrabPinWindow, visible C.int) C.int {
	b := pinFromHandle(h)
	if b == nil {
		return C.int(-2)
	}
	if pgErr := b.mgr.SetVisible(b.id, cToBool(visible)); pgErr != nil {
		return C.int(pgErr.Code)
	}
	return 0
}

// pixelgrab_pin_process_events pumps the platform's pin-window message
// loop. The pin backend is software-composited (no native window), so
// there is no event queue to pump; kept as a no-op for ABI parity with
// consumers that call it every frame.
//
//export pixelgrab_pin_process_events
func pixelgrab_pin_process_events(ctxHandle *C.PixelGrabContext) {}

//export pixelgrab_pin_count
func pixelgrab_pin_count(ctxHandle *C.PixelGrabContext) C.int {
	ctx := ctxFromHandle(ctxHandle)
	if ctx == nil {
		return 0
	}
	return C.int(ctx.Pins().Count())
}

//export pixelgrab_pin_destroy_all
func pixelgrab_pin_destroy_all(ctxHandle *C.PixelGrabContext) {
	if ctx := ctxFromHandle(ctxHandle); ctx != nil {
		ctx.Pins().DestroyAll()
	}
}

//export pixelgrab_pin_enumerate
func pixelgrab_pin_enumerate(ctxHandle *C.PixelGrabContext, out *C.PixelGrabPinInfo, maxCount C.int) C.int {
	ctx := ctxFromHandle(ctxHandle)
	if ctx == nil || out == nil || maxCount <= 0 {
		return 0
	}
	infos := ctx.Pins().Enumerate(int(maxCount))
	outSlice := unsafe.Slice(out, int(maxCount))
	n := len(infos)
	if n > int(maxCount) {
		n = int(maxCount)
	}
	for i := 0; i < n; i++ {
		fillPinInfo(&outSlice[i], infos[i])
	}
	return C.int(n)
}

//export pixelgrab_pin_get_info
func pixelgrab_pin_get_info(h *C.PixelGrabPinWindow, out *C.PixelGrabPinInfo) C.int {
	b := pinFromHandle(h)
	if b == nil || out == nil {
		return C.int(-2)
	}
	info, pgErr := b.mgr.GetInfo(b.id)
	if pgErr != nil {
		return C.int(pgErr.Code)
	}
	fillPinInfo(out, info)
	return 0
}

//export pixelgrab_pin_get_image
func pixelgrab_pin_get_image(h *C.PixelGrabPinWindow) *C.PixelGrabImage {
	b := pinFromHandle(h)
	if b == nil {
		return nil
	}
	img, pgErr := b.mgr.GetImage(b.id)
	if pgErr != nil || img == nil {
		return nil
	}
	return newImageHandle(img)
}

//export pixelgrab_pin_set_image
func pixelgrab_pin_set_image(h *C.PixelGrabPinWindow, img *C.PixelGrabImage) C.int {
	b := pinFromHandle(h)
	image := imgFromHandle(img)
	if b == nil || image == nil {
		return C.int(-2)
	}
	if pgErr := b.mgr.SetImage(b.id, image); pgErr != nil {
		return C.int(pgErr.Code)
	}
	return 0
}

//export pixelgrab_pin_set_visible_all
func pixelgrab_pin_set_visible_all(ctxHandle *C.PixelGrabContext, visible C.int) {
	if ctx := ctxFromHandle(ctxHandle); ctx != nil {
		ctx.Pins().SetVisibleAll(cToBool(visible))
	}
}

//export pixelgrab_pin_duplicate
func pixelgrab_pin_duplicate(h *C.PixelGrabPinWindow, dx, dy C.int) *C.PixelGrabPinWindow {
	b := pinFromHandle(h)
	if b == nil {
		return nil
	}
	id := b.mgr.Duplicate(b.id, int(dx), int(dy))
	return newPinHandle(b.mgr, id)
}

// pixelgrab_pin_get_native_handle returns the platform window handle
// backing a pin. The pin backend is software-composited (see
// internal/pin/backend.go), so there is no native handle to return.
//
//export pixelgrab_pin_get_native_handle
func pixelgrab_pin_get_native_handle(h *C.PixelGrabPinWindow) C.uintptr_t {
	return 0
}

// --- capture excluding pins -------------------------------------------

//export pixelgrab_capture_screen_exclude_pins
func pixelgrab_capture_screen_exclude_pins(ctxHandle *C.PixelGrabContext, index C.int) *C.PixelGrabImage {
	ctx := ctxFromHandle(ctxHandle)
	if ctx == nil {
		return nil
	}
	img, pgErr := ctx.CaptureScreenExcludePins(int(index))
	if pgErr != nil {
		return nil
	}
	return newImageHandle(img)
}

//export pixelgrab_capture_region_exclude_pins
func pixelgrab_capture_region_exclude_pins(ctxHandle *C.PixelGrabContext, x, y, w, hgt C.int) *C.PixelGrabImage {
	ctx := ctxFromHandle(ctxHandle)
	if ctx == nil {
		return nil
	}
	img, pgErr := ctx.CaptureRegionExcludePins(int(x), int(y), int(w), int(hgt))
	if pgErr != nil {
		return nil
	}
	return newImageHandle(img)
}
