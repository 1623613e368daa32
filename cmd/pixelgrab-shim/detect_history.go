package main

/*
#include "pixelgrab_abi.h"
*/
import "C"

import (
	"unsafe"

	"github.com/pixelgrab/pixelgrab/internal/history"
	"github.com/pixelgrab/pixelgrab/internal/snap"
)

// unsafeElementRects views a caller-allocated C array of n
// PixelGrabElementRect structs as a Go slice so fillElementRect can write
// into each entry by index.
func unsafeElementRects(first *C.PixelGrabElementRect, n int) []C.PixelGrabElementRect {
	return unsafe.Slice(first, n)
}

func fillElementRect(out *C.PixelGrabElementRect, e snap.ElementInfo) {
	out.x = C.int(e.Rect.X)
	out.y = C.int(e.Rect.Y)
	out.width = C.int(e.Rect.W)
	out.height = C.int(e.Rect.H)
	cStringCopy(&out.name[0], len(out.name), e.Name)
	cStringCopy(&out.role[0], len(out.role), e.Role)
}

//export pixelgrab_detect_element
func pixelgrab_detect_element(h *C.PixelGrabContext, x, y C.int, out *C.PixelGrabElementRect) C.int {
	ctx := ctxFromHandle(h)
	if ctx == nil || out == nil {
		return C.int(-2)
	}
	info, pgErr := ctx.DetectElement(int(x), int(y))
	if pgErr != nil {
		return C.int(pgErr.Code)
	}
	fillElementRect(out, info)
	return 0
}

//export pixelgrab_detect_elements
func pixelgrab_detect_elements(h *C.PixelGrabContext, x, y C.int, out *C.PixelGrabElementRect, maxCount C.int) C.int {
	ctx := ctxFromHandle(h)
	if ctx == nil || out == nil || maxCount <= 0 {
		return 0
	}
	chain := ctx.DetectElements(int(x), int(y), int(maxCount))
	outSlice := unsafeElementRects(out, int(maxCount))
	n := len(chain)
	if n > int(maxCount) {
		n = int(maxCount)
	}
	for i := 0; i < n; i++ {
		fillElementRect(&outSlice[i], chain[i])
	}
	return C.int(n)
}

//export pixelgrab_snap_to_element
func pixelgrab_snap_to_element(h *C.PixelGrabContext, x, y, snapDistance C.int, out *C.PixelGrabElementRect) C.int {
	ctx := ctxFromHandle(h)
	if ctx == nil || out == nil {
		return C.int(-2)
	}
	rect, pgErr := ctx.SnapToElement(int(x), int(y), int(snapDistance))
	if pgErr != nil {
		return C.int(pgErr.Code)
	}
	out.x = C.int(rect.X)
	out.y = C.int(rect.Y)
	out.width = C.int(rect.W)
	out.height = C.int(rect.H)
	out.name[0] = 0
	out.role[0] = 0
	return 0
}

// --- history ---------------------------------------------------------

func fillHistoryEntry(out *C.PixelGrabHistoryEntry, e history.Entry) {
	out.id = C.int(e.ID)
	out.region_x = C.int(e.X)
	out.region_y = C.int(e.Y)
	out.region_width = C.int(e.W)
	out.region_height = C.int(e.H)
	out.timestamp = C.int64_t(e.Timestamp)
}

//export pixelgrab_history_count
func pixelgrab_history_count(h *C.PixelGrabContext) C.int {
	ctx := ctxFromHandle(h)
	if ctx == nil {
		return 0
	}
	return C.int(ctx.HistoryCount())
}

//export pixelgrab_history_get_entry
func pixelgrab_history_get_entry(h *C.PixelGrabContext, index C.int, out *C.PixelGrabHistoryEntry) C.int {
	ctx := ctxFromHandle(h)
	if ctx == nil || out == nil {
		return C.int(-2)
	}
	e, pgErr := ctx.HistoryGetEntry(int(index))
	if pgErr != nil {
		return C.int(pgErr.Code)
	}
	fillHistoryEntry(out, e)
	return 0
}

//export pixelgrab_history_recapture
func pixelgrab_history_recapture(h *C.PixelGrabContext, historyID C.int) *C.PixelGrabImage {
	ctx := ctxFromHandle(h)
	if ctx == nil {
		return nil
	}
	img, pgErr := ctx.HistoryRecapture(int(historyID))
	if pgErr != nil {
		return nil
	}
	return newImageHandle(img)
}

//export pixelgrab_recapture_last
func pixelgrab_recapture_last(h *C.PixelGrabContext) *C.PixelGrabImage {
	ctx := ctxFromHandle(h)
	if ctx == nil {
		return nil
	}
	img, pgErr := ctx.HistoryRecaptureLast()
	if pgErr != nil {
		return nil
	}
	return newImageHandle(img)
}

//export pixelgrab_history_clear
func pixelgrab_history_clear(h *C.PixelGrabContext) {
	if ctx := ctxFromHandle(h); ctx != nil {
		ctx.HistoryClear()
	}
}

//export pixelgrab_history_set_max_count
func pixelgrab_history_set_max_count(h *C.PixelGrabContext, n C.int) {
	if ctx := ctxFromHandle(h); ctx != nil {
		ctx.HistorySetMaxCount(int(n))
	}
}
