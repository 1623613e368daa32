package main

/*
#include "pixelgrab_abi.h"
*/
import "C"

import "unsafe"

//export pixelgrab_image_destroy
func pixelgrab_image_destroy(h *C.PixelGrabImage) {
	freeHandleBox(unsafe.Pointer(h))
}

//export pixelgrab_image_get_width
func pixelgrab_image_get_width(h *C.PixelGrabImage) C.int {
	img := imgFromHandle(h)
	if img == nil {
		return 0
	}
	return C.int(img.Width())
}

//export pixelgrab_image_get_height
func pixelgrab_image_get_height(h *C.PixelGrabImage) C.int {
	img := imgFromHandle(h)
	if img == nil {
		return 0
	}
	return C.int(img.Height())
}

//export pixelgrab_image_get_stride
func pixelgrab_image_get_stride(h *C.PixelGrabImage) C.int {
	img := imgFromHandle(h)
	if img == nil {
		return 0
	}
	return C.int(img.Stride())
}

//export pixelgrab_image_get_format
func pixelgrab_image_get_format(h *C.PixelGrabImage) C.int {
	img := imgFromHandle(h)
	if img == nil {
		return 0
	}
	return C.int(img.Format())
}

// pixelgrab_image_get_data returns a pointer to the image's raw pixel
// buffer. Valid only for the handle's lifetime; callers must copy out
// anything they need to retain past pixelgrab_image_destroy.
//
//export pixelgrab_image_get_data
func pixelgrab_image_get_data(h *C.PixelGrabImage) *C.uint8_t {
	img := imgFromHandle(h)
	if img == nil {
		return nil
	}
	b := img.Bytes()
	if len(b) == 0 {
		return nil
	}
	return (*C.uint8_t)(unsafe.Pointer(&b[0]))
}

//export pixelgrab_image_get_data_size
func pixelgrab_image_get_data_size(h *C.PixelGrabImage) C.size_t {
	img := imgFromHandle(h)
	if img == nil {
		return 0
	}
	return C.size_t(len(img.Bytes()))
}
