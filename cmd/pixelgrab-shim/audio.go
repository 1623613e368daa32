package main

/*
#include "pixelgrab_abi.h"
*/
import "C"

import (
	"unsafe"

	"github.com/pixelgrab/pixelgrab/internal/audio"
)

func fillAudioDeviceInfo(out *C.PixelGrabAudioDeviceInfo, d audio.DeviceInfo) {
	cStringCopy(&out.id[0], len(out.id), d.ID)
	cStringCopy(&out.name[0], len(out.name), d.Name)
	out.is_default = boolToC(d.IsDefault)
	out.is_input = boolToC(d.IsInput)
}

//export pixelgrab_audio_is_supported
func pixelgrab_audio_is_supported(h *C.PixelGrabContext) C.int {
	ctx := ctxFromHandle(h)
	if ctx == nil {
		return 0
	}
	return boolToC(ctx.AudioIsSupported())
}

//export pixelgrab_audio_enumerate_devices
func pixelgrab_audio_enumerate_devices(h *C.PixelGrabContext, out *C.PixelGrabAudioDeviceInfo, maxCount C.int) C.int {
	ctx := ctxFromHandle(h)
	if ctx == nil || out == nil || maxCount <= 0 {
		return 0
	}
	devices, pgErr := ctx.AudioEnumerateDevices()
	if pgErr != nil {
		return 0
	}
	outSlice := unsafe.Slice(out, int(maxCount))
	n := len(devices)
	if n > int(maxCount) {
		n = int(maxCount)
	}
	for i := 0; i < n; i++ {
		fillAudioDeviceInfo(&outSlice[i], devices[i])
	}
	return C.int(n)
}

//export pixelgrab_audio_get_default_device
func pixelgrab_audio_get_default_device(h *C.PixelGrabContext, isInput C.int, out *C.PixelGrabAudioDeviceInfo) C.int {
	ctx := ctxFromHandle(h)
	if ctx == nil || out == nil {
		return C.int(-2)
	}
	d, pgErr := ctx.AudioGetDefaultDevice(cToBool(isInput))
	if pgErr != nil {
		return C.int(pgErr.Code)
	}
	fillAudioDeviceInfo(out, d)
	return 0
}
