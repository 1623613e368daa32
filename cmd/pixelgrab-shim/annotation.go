package main

/*
#include "pixelgrab_abi.h"
*/
import "C"

import (
	"unsafe"

	"github.com/pixelgrab/pixelgrab/internal/annotation"
	"github.com/pixelgrab/pixelgrab/internal/pgcontext"
)

// annotationBox pairs a session with the context that owns its error slot,
// the back-pointer the context's own cyclic-handle pattern uses for every
// other handle kind issued off a Context.
type annotationBox struct {
	ctx     *pgcontext.Context
	session *annotation.Session
}

func annFromHandle(h *C.PixelGrabAnnotation) *annotationBox {
	b, _ := handleValue(unsafe.Pointer(h)).(*annotationBox)
	return b
}

func styleFromC(s C.PixelGrabShapeStyle) annotation.Style {
	return annotation.Style{
		StrokeARGB:  uint32(s.stroke_color),
		FillARGB:    uint32(s.fill_color),
		StrokeWidth: float32(s.stroke_width),
		Filled:      cToBool(s.filled),
	}
}

//export pixelgrab_annotation_create
func pixelgrab_annotation_create(ctxHandle *C.PixelGrabContext, base *C.PixelGrabImage) *C.PixelGrabAnnotation {
	ctx := ctxFromHandle(ctxHandle)
	img := imgFromHandle(base)
	if ctx == nil || img == nil {
		return nil
	}
	session, pgErr := ctx.CreateAnnotation(img)
	if pgErr != nil {
		return nil
	}
	return (*C.PixelGrabAnnotation)(newHandleBox(&annotationBox{ctx: ctx, session: session}))
}

//export pixelgrab_annotation_destroy
func pixelgrab_annotation_destroy(h *C.PixelGrabAnnotation) {
	freeHandleBox(unsafe.Pointer(h))
}

//export pixelgrab_annotation_add_rect
func pixelgrab_annotation_add_rect(h *C.PixelGrabAnnotation, x, y, w, hgt C.int, style C.PixelGrabShapeStyle) C.int {
	b := annFromHandle(h)
	if b == nil {
		return 0
	}
	shape := annotation.NewRect(int(x), int(y), int(w), int(hgt), styleFromC(style))
	id, pgErr := b.session.AddShape(shape)
	b.ctx.SetError(pgErr)
	return C.int(id)
}

//export pixelgrab_annotation_add_ellipse
func pixelgrab_annotation_add_ellipse(h *C.PixelGrabAnnotation, cx, cy, rx, ry C.int, style C.PixelGrabShapeStyle) C.int {
	b := annFromHandle(h)
	if b == nil {
		return 0
	}
	shape := annotation.NewEllipse(int(cx), int(cy), int(rx), int(ry), styleFromC(style))
	id, pgErr := b.session.AddShape(shape)
	b.ctx.SetError(pgErr)
	return C.int(id)
}

//export pixelgrab_annotation_add_line
func pixelgrab_annotation_add_line(h *C.PixelGrabAnnotation, x1, y1, x2, y2 C.int, style C.PixelGrabShapeStyle) C.int {
	b := annFromHandle(h)
	if b == nil {
		return 0
	}
	shape := annotation.NewLine(int(x1), int(y1), int(x2), int(y2), styleFromC(style))
	id, pgErr := b.session.AddShape(shape)
	b.ctx.SetError(pgErr)
	return C.int(id)
}

//export pixelgrab_annotation_add_arrow
func pixelgrab_annotation_add_arrow(h *C.PixelGrabAnnotation, x1, y1, x2, y2 C.int, headSize C.float, style C.PixelGrabShapeStyle) C.int {
	b := annFromHandle(h)
	if b == nil {
		return 0
	}
	shape := annotation.NewArrow(int(x1), int(y1), int(x2), int(y2), float32(headSize), styleFromC(style))
	id, pgErr := b.session.AddShape(shape)
	b.ctx.SetError(pgErr)
	return C.int(id)
}

//export pixelgrab_annotation_add_pencil
func pixelgrab_annotation_add_pencil(h *C.PixelGrabAnnotation, xs, ys *C.int, count C.int, style C.PixelGrabShapeStyle) C.int {
	b := annFromHandle(h)
	if b == nil || xs == nil || ys == nil || count <= 0 {
		return 0
	}
	n := int(count)
	xSlice := unsafe.Slice(xs, n)
	ySlice := unsafe.Slice(ys, n)
	points := make([]annotation.Point, n)
	for i := 0; i < n; i++ {
		points[i] = annotation.Point{X: int(xSlice[i]), Y: int(ySlice[i])}
	}
	shape := annotation.NewPencil(points, styleFromC(style))
	id, pgErr := b.session.AddShape(shape)
	b.ctx.SetError(pgErr)
	return C.int(id)
}

//export pixelgrab_annotation_add_text
func pixelgrab_annotation_add_text(h *C.PixelGrabAnnotation, x, y C.int, text, font *C.char, fontSize C.int, argb C.uint32_t) C.int {
	b := annFromHandle(h)
	if b == nil {
		return 0
	}
	shape := annotation.NewText(int(x), int(y), goString(text), goString(font), int(fontSize), uint32(argb))
	id, pgErr := b.session.AddShape(shape)
	b.ctx.SetError(pgErr)
	return C.int(id)
}

//export pixelgrab_annotation_add_mosaic
func pixelgrab_annotation_add_mosaic(h *C.PixelGrabAnnotation, x, y, w, hgt, block C.int) C.int {
	b := annFromHandle(h)
	if b == nil {
		return 0
	}
	shape := annotation.NewMosaicRegion(int(x), int(y), int(w), int(hgt), int(block))
	id, pgErr := b.session.AddShape(shape)
	b.ctx.SetError(pgErr)
	return C.int(id)
}

//export pixelgrab_annotation_add_blur
func pixelgrab_annotation_add_blur(h *C.PixelGrabAnnotation, x, y, w, hgt, radius C.int) C.int {
	b := annFromHandle(h)
	if b == nil {
		return 0
	}
	shape := annotation.NewBlurRegion(int(x), int(y), int(w), int(hgt), int(radius))
	id, pgErr := b.session.AddShape(shape)
	b.ctx.SetError(pgErr)
	return C.int(id)
}

//export pixelgrab_annotation_remove_shape
func pixelgrab_annotation_remove_shape(h *C.PixelGrabAnnotation, shapeID C.int) C.int {
	b := annFromHandle(h)
	if b == nil {
		return C.int(-2)
	}
	pgErr := b.session.RemoveShape(int(shapeID))
	b.ctx.SetError(pgErr)
	if pgErr != nil {
		return C.int(pgErr.Code)
	}
	return 0
}

//export pixelgrab_annotation_undo
func pixelgrab_annotation_undo(h *C.PixelGrabAnnotation) C.int {
	b := annFromHandle(h)
	if b == nil {
		return C.int(-2)
	}
	pgErr := b.session.Undo()
	b.ctx.SetError(pgErr)
	if pgErr != nil {
		return C.int(pgErr.Code)
	}
	return 0
}

//export pixelgrab_annotation_redo
func pixelgrab_annotation_redo(h *C.PixelGrabAnnotation) C.int {
	b := annFromHandle(h)
	if b == nil {
		return C.int(-2)
	}
	pgErr := b.session.Redo()
	b.ctx.SetError(pgErr)
	if pgErr != nil {
		return C.int(pgErr.Code)
	}
	return 0
}

//export pixelgrab_annotation_can_undo
func pixelgrab_annotation_can_undo(h *C.PixelGrabAnnotation) C.int {
	b := annFromHandle(h)
	if b == nil {
		return 0
	}
	return boolToC(b.session.CanUndo())
}

//export pixelgrab_annotation_can_redo
func pixelgrab_annotation_can_redo(h *C.PixelGrabAnnotation) C.int {
	b := annFromHandle(h)
	if b == nil {
		return 0
	}
	return boolToC(b.session.CanRedo())
}

//export pixelgrab_annotation_get_result
func pixelgrab_annotation_get_result(h *C.PixelGrabAnnotation) *C.PixelGrabImage {
	b := annFromHandle(h)
	if b == nil {
		return nil
	}
	return newImageHandle(b.session.GetResult())
}

//export pixelgrab_annotation_export
func pixelgrab_annotation_export(h *C.PixelGrabAnnotation) *C.PixelGrabImage {
	b := annFromHandle(h)
	if b == nil {
		return nil
	}
	return newImageHandle(b.session.Export())
}
