package main

/*
#include <stdlib.h>
#include "pixelgrab_abi.h"
*/
import "C"

import (
	"unsafe"

	"github.com/pixelgrab/pixelgrab/internal/capture"
	"github.com/pixelgrab/pixelgrab/internal/color"
	pgimage "github.com/pixelgrab/pixelgrab/internal/image"
	"github.com/pixelgrab/pixelgrab/internal/pgcontext"
)

func ctxFromHandle(h *C.PixelGrabContext) *pgcontext.Context {
	ctx, _ := handleValue(unsafe.Pointer(h)).(*pgcontext.Context)
	return ctx
}

func imgFromHandle(h *C.PixelGrabImage) *pgimage.Image {
	img, _ := handleValue(unsafe.Pointer(h)).(*pgimage.Image)
	return img
}

func newImageHandle(img *pgimage.Image) *C.PixelGrabImage {
	return (*C.PixelGrabImage)(newHandleBox(img))
}

//export pixelgrab_context_create
func pixelgrab_context_create() *C.PixelGrabContext {
	ctx, pgErr := pgcontext.New()
	if pgErr != nil {
		return nil
	}
	return (*C.PixelGrabContext)(newHandleBox(ctx))
}

//export pixelgrab_context_destroy
func pixelgrab_context_destroy(h *C.PixelGrabContext) {
	if ctx := ctxFromHandle(h); ctx != nil {
		ctx.Destroy()
	}
	freeHandleBox(unsafe.Pointer(h))
}

//export pixelgrab_get_last_error
func pixelgrab_get_last_error(h *C.PixelGrabContext) C.int {
	ctx := ctxFromHandle(h)
	if ctx == nil {
		return C.int(-99)
	}
	if err := ctx.LastError(); err != nil {
		return C.int(err.Code)
	}
	return 0
}

//export pixelgrab_get_last_error_message
func pixelgrab_get_last_error_message(h *C.PixelGrabContext) *C.char {
	ctx := ctxFromHandle(h)
	if ctx == nil {
		return C.CString("invalid context")
	}
	if err := ctx.LastError(); err != nil {
		return C.CString(err.Message)
	}
	return C.CString("")
}

//export pixelgrab_free_string
func pixelgrab_free_string(s *C.char) {
	C.free(unsafe.Pointer(s))
}

// --- screens / capture ---------------------------------------------------

//export pixelgrab_get_screen_count
func pixelgrab_get_screen_count(h *C.PixelGrabContext) C.int {
	ctx := ctxFromHandle(h)
	if ctx == nil {
		return 0
	}
	screens, pgErr := ctx.GetScreens()
	if pgErr != nil {
		return 0
	}
	return C.int(len(screens))
}

func fillScreenInfo(out *C.PixelGrabScreenInfo, s capture.ScreenInfo) {
	out.index = C.int(s.Index)
	out.x = C.int(s.OriginX)
	out.y = C.int(s.OriginY)
	out.width = C.int(s.Width)
	out.height = C.int(s.Height)
	out.is_primary = boolToC(s.IsPrimary)
	cStringCopy(&out.name[0], len(out.name), s.Name)
}

//export pixelgrab_get_screen_info
func pixelgrab_get_screen_info(h *C.PixelGrabContext, index C.int, out *C.PixelGrabScreenInfo) C.int {
	ctx := ctxFromHandle(h)
	if ctx == nil || out == nil {
		return C.int(-2)
	}
	info, pgErr := ctx.GetScreenInfo(int(index))
	if pgErr != nil {
		return C.int(pgErr.Code)
	}
	fillScreenInfo(out, info)
	return 0
}

//export pixelgrab_capture_screen
func pixelgrab_capture_screen(h *C.PixelGrabContext, index C.int) *C.PixelGrabImage {
	ctx := ctxFromHandle(h)
	if ctx == nil {
		return nil
	}
	img, pgErr := ctx.CaptureScreen(int(index))
	if pgErr != nil {
		return nil
	}
	return newImageHandle(img)
}

//export pixelgrab_capture_region
func pixelgrab_capture_region(h *C.PixelGrabContext, x, y, w, hgt C.int) *C.PixelGrabImage {
	ctx := ctxFromHandle(h)
	if ctx == nil {
		return nil
	}
	img, pgErr := ctx.CaptureRegion(int(x), int(y), int(w), int(hgt))
	if pgErr != nil {
		return nil
	}
	return newImageHandle(img)
}

//export pixelgrab_capture_window
func pixelgrab_capture_window(h *C.PixelGrabContext, windowID C.PixelGrabWindowId) *C.PixelGrabImage {
	ctx := ctxFromHandle(h)
	if ctx == nil {
		return nil
	}
	img, pgErr := ctx.CaptureWindow(uintptr(windowID))
	if pgErr != nil {
		return nil
	}
	return newImageHandle(img)
}

func fillWindowInfo(out *C.PixelGrabWindowInfo, w capture.WindowInfo) {
	out.id = C.PixelGrabWindowId(w.ID)
	out.x = C.int(w.X)
	out.y = C.int(w.Y)
	out.width = C.int(w.W)
	out.height = C.int(w.H)
	out.is_visible = boolToC(w.IsVisible)
	cStringCopy(&out.title[0], len(out.title), w.Title)
	cStringCopy(&out.process_name[0], len(out.process_name), w.ProcessName)
}

// pixelgrab_enumerate_windows fills the caller-allocated out_windows array
// (capacity max_count) with visible top-level windows and returns the
// number of entries written, or -1 on error.
//
//export pixelgrab_enumerate_windows
func pixelgrab_enumerate_windows(h *C.PixelGrabContext, outWindows *C.PixelGrabWindowInfo, maxCount C.int) C.int {
	ctx := ctxFromHandle(h)
	if ctx == nil || outWindows == nil || maxCount <= 0 {
		return C.int(-1)
	}
	windows, pgErr := ctx.EnumerateWindows()
	if pgErr != nil {
		return C.int(-1)
	}
	outSlice := unsafe.Slice(outWindows, int(maxCount))
	n := len(windows)
	if n > int(maxCount) {
		n = int(maxCount)
	}
	for i := 0; i < n; i++ {
		fillWindowInfo(&outSlice[i], windows[i])
	}
	return C.int(n)
}

// --- DPI ------------------------------------------------------------------

//export pixelgrab_enable_dpi_awareness
func pixelgrab_enable_dpi_awareness(h *C.PixelGrabContext) C.int {
	ctx := ctxFromHandle(h)
	if ctx == nil {
		return 0
	}
	return boolToC(ctx.EnableDpiAwareness())
}

//export pixelgrab_get_dpi_info
func pixelgrab_get_dpi_info(h *C.PixelGrabContext, screenIndex C.int, out *C.PixelGrabDpiInfo) C.int {
	ctx := ctxFromHandle(h)
	if ctx == nil || out == nil {
		return C.int(-2)
	}
	dpi, pgErr := ctx.GetDpiInfo(int(screenIndex))
	if pgErr != nil {
		return C.int(pgErr.Code)
	}
	out.screen_index = screenIndex
	out.scale_x = C.float(dpi.ScaleX)
	out.scale_y = C.float(dpi.ScaleY)
	out.dpi_x = C.int(dpi.DpiX)
	out.dpi_y = C.int(dpi.DpiY)
	return 0
}

//export pixelgrab_logical_to_physical
func pixelgrab_logical_to_physical(h *C.PixelGrabContext, screenIndex C.int, lx, ly C.float, outX, outY *C.float) C.int {
	ctx := ctxFromHandle(h)
	if ctx == nil {
		return C.int(-2)
	}
	px, py, pgErr := ctx.LogicalToPhysical(int(screenIndex), float64(lx), float64(ly))
	if pgErr != nil {
		return C.int(pgErr.Code)
	}
	if outX != nil {
		*outX = C.float(px)
	}
	if outY != nil {
		*outY = C.float(py)
	}
	return 0
}

//export pixelgrab_physical_to_logical
func pixelgrab_physical_to_logical(h *C.PixelGrabContext, screenIndex C.int, px, py C.float, outX, outY *C.float) C.int {
	ctx := ctxFromHandle(h)
	if ctx == nil {
		return C.int(-2)
	}
	lx, ly, pgErr := ctx.PhysicalToLogical(int(screenIndex), float64(px), float64(py))
	if pgErr != nil {
		return C.int(pgErr.Code)
	}
	if outX != nil {
		*outX = C.float(lx)
	}
	if outY != nil {
		*outY = C.float(ly)
	}
	return 0
}

// --- color picker / magnifier ---------------------------------------------

//export pixelgrab_pick_color
func pixelgrab_pick_color(h *C.PixelGrabContext, x, y C.int, out *C.PixelGrabColor) C.int {
	ctx := ctxFromHandle(h)
	if ctx == nil || out == nil {
		return C.int(-2)
	}
	col, pgErr := ctx.PickColor(int(x), int(y))
	if pgErr != nil {
		return C.int(pgErr.Code)
	}
	fillColor(out, col)
	return 0
}

//export pixelgrab_get_magnifier
func pixelgrab_get_magnifier(h *C.PixelGrabContext, x, y, radius, magnification C.int) *C.PixelGrabImage {
	ctx := ctxFromHandle(h)
	if ctx == nil {
		return nil
	}
	img, pgErr := ctx.GetMagnifier(int(x), int(y), int(radius), int(magnification))
	if pgErr != nil {
		return nil
	}
	return newImageHandle(img)
}

func fillColor(out *C.PixelGrabColor, c color.Color) {
	out.r = C.uint8_t(c.R)
	out.g = C.uint8_t(c.G)
	out.b = C.uint8_t(c.B)
	out.a = C.uint8_t(c.A)
}
