package main

/*
#include "pixelgrab_abi.h"
*/
import "C"

import (
	"unsafe"

	"github.com/pixelgrab/pixelgrab/internal/pgcontext"
	"github.com/pixelgrab/pixelgrab/internal/recorder"
	"github.com/pixelgrab/pixelgrab/internal/watermark"
)

// recorderBox carries the owning context alongside the recorder so
// pixelgrab_recorder_* calls (none of which take a PixelGrabContext*) can
// still set that context's last-error slot, the same back-pointer
// pattern as annotationBox/pinBox.
type recorderBox struct {
	ctx *pgcontext.Context
	rec *recorder.Recorder
}

func recFromHandle(h *C.PixelGrabRecorder) *recorderBox {
	b, _ := handleValue(unsafe.Pointer(h)).(*recorderBox)
	return b
}

func textWatermarkFromC(cfg *C.PixelGrabTextWatermarkConfig) *watermark.TextConfig {
	if cfg == nil {
		return nil
	}
	return &watermark.TextConfig{
		Text:      goString(cfg.text),
		Position:  watermark.Position(cfg.position),
		X:         int(cfg.x),
		Y:         int(cfg.y),
		FontSize:  float64(cfg.font_size),
		Margin:    int(cfg.margin),
		RotateDeg: float64(cfg.rotation),
	}
}

//export pixelgrab_recorder_is_supported
func pixelgrab_recorder_is_supported(h *C.PixelGrabContext) C.int {
	ctx := ctxFromHandle(h)
	if ctx == nil {
		return 0
	}
	return boolToC(ctx.RecorderIsSupported())
}

//export pixelgrab_recorder_create
func pixelgrab_recorder_create(ctxHandle *C.PixelGrabContext, cfg *C.PixelGrabRecordConfig) *C.PixelGrabRecorder {
	ctx := ctxFromHandle(ctxHandle)
	if ctx == nil || cfg == nil {
		return nil
	}

	rc := recorder.Config{
		OutputPath:      goString(cfg.output_path),
		X:               int(cfg.region_x),
		Y:               int(cfg.region_y),
		W:               int(cfg.region_width),
		H:               int(cfg.region_height),
		FPS:             int(cfg.fps),
		BitrateBps:      int(cfg.bitrate),
		Audio:           recorder.AudioMode(cfg.audio_source),
		AudioDeviceID:   goString(cfg.audio_device_id),
		AudioSampleRate: int(cfg.audio_sample_rate),
		Watermark:       textWatermarkFromC(cfg.watermark),
		UserWatermark:   textWatermarkFromC(cfg.user_watermark),
		AutoCapture:     cToBool(cfg.auto_capture),
		GpuHint:         recorder.GpuHint(cfg.gpu_hint),
	}
	if rc.AutoCapture {
		rc.CaptureBackend = ctx.CaptureBackend()
	}

	rec := ctx.NewRecorder()
	if pgErr := rec.Initialize(rc); pgErr != nil {
		ctx.SetError(pgErr)
		return nil
	}
	ctx.SetError(nil)
	return (*C.PixelGrabRecorder)(newHandleBox(&recorderBox{ctx: ctx, rec: rec}))
}

//export pixelgrab_recorder_destroy
func pixelgrab_recorder_destroy(h *C.PixelGrabRecorder) {
	freeHandleBox(unsafe.Pointer(h))
}

//export pixelgrab_recorder_start
func pixelgrab_recorder_start(h *C.PixelGrabRecorder) C.int {
	b := recFromHandle(h)
	if b == nil {
		return C.int(-2)
	}
	pgErr := b.rec.Start()
	b.ctx.SetError(pgErr)
	if pgErr != nil {
		return C.int(pgErr.Code)
	}
	return 0
}

//export pixelgrab_recorder_pause
func pixelgrab_recorder_pause(h *C.PixelGrabRecorder) C.int {
	b := recFromHandle(h)
	if b == nil {
		return C.int(-2)
	}
	pgErr := b.rec.Pause()
	b.ctx.SetError(pgErr)
	if pgErr != nil {
		return C.int(pgErr.Code)
	}
	return 0
}

//export pixelgrab_recorder_resume
func pixelgrab_recorder_resume(h *C.PixelGrabRecorder) C.int {
	b := recFromHandle(h)
	if b == nil {
		return C.int(-2)
	}
	pgErr := b.rec.Resume()
	b.ctx.SetError(pgErr)
	if pgErr != nil {
		return C.int(pgErr.Code)
	}
	return 0
}

//export pixelgrab_recorder_stop
func pixelgrab_recorder_stop(h *C.PixelGrabRecorder) C.int {
	b := recFromHandle(h)
	if b == nil {
		return C.int(-2)
	}
	pgErr := b.rec.Stop()
	b.ctx.SetError(pgErr)
	if pgErr != nil {
		return C.int(pgErr.Code)
	}
	return 0
}

//export pixelgrab_recorder_get_state
func pixelgrab_recorder_get_state(h *C.PixelGrabRecorder) C.int {
	b := recFromHandle(h)
	if b == nil {
		return C.int(recorder.StateIdle)
	}
	return C.int(b.rec.GetState())
}

//export pixelgrab_recorder_get_duration_ms
func pixelgrab_recorder_get_duration_ms(h *C.PixelGrabRecorder) C.int64_t {
	b := recFromHandle(h)
	if b == nil {
		return 0
	}
	return C.int64_t(b.rec.GetDurationMs())
}

//export pixelgrab_recorder_write_frame
func pixelgrab_recorder_write_frame(h *C.PixelGrabRecorder, img *C.PixelGrabImage) C.int {
	b := recFromHandle(h)
	image := imgFromHandle(img)
	if b == nil || image == nil {
		return C.int(-2)
	}
	pgErr := b.rec.WriteFrame(image)
	b.ctx.SetError(pgErr)
	if pgErr != nil {
		return C.int(pgErr.Code)
	}
	return 0
}
