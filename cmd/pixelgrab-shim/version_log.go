package main

/*
#include <stdlib.h>
#include "pixelgrab_abi.h"

static inline void pixelgrab_invoke_log_callback(pixelgrab_log_callback_t cb, PixelGrabLogLevel level, const char* message, void* userdata) {
  if (cb != NULL) {
    cb(level, message, userdata);
  }
}
*/
import "C"

import (
	"sync"
	"unsafe"

	"github.com/pixelgrab/pixelgrab/internal/logging"
	"github.com/pixelgrab/pixelgrab/internal/pgcontext"
)

//export pixelgrab_version_string
func pixelgrab_version_string() *C.char {
	return C.CString(pgcontext.VersionString)
}

//export pixelgrab_version_major
func pixelgrab_version_major() C.int { return C.int(pgcontext.VersionMajor) }

//export pixelgrab_version_minor
func pixelgrab_version_minor() C.int { return C.int(pgcontext.VersionMinor) }

//export pixelgrab_version_patch
func pixelgrab_version_patch() C.int { return C.int(pgcontext.VersionPatch) }

var (
	logCallbackMu sync.Mutex
	logCallback   C.pixelgrab_log_callback_t
	logUserdata   unsafe.Pointer
)

//export pixelgrab_set_log_level
func pixelgrab_set_log_level(level C.int) {
	logging.SetLevel(logging.Level(level))
}

//export pixelgrab_set_log_callback
func pixelgrab_set_log_callback(cb C.pixelgrab_log_callback_t, userdata unsafe.Pointer) {
	logCallbackMu.Lock()
	logCallback = cb
	logUserdata = userdata
	logCallbackMu.Unlock()

	if cb == nil {
		logging.SetCallback(nil)
		return
	}
	logging.SetCallback(func(level logging.Level, message string) {
		logCallbackMu.Lock()
		cb, userdata := logCallback, logUserdata
		logCallbackMu.Unlock()
		if cb == nil {
			return
		}
		cMessage := C.CString(message)
		C.pixelgrab_invoke_log_callback(cb, C.PixelGrabLogLevel(level), cMessage, userdata)
		C.free(unsafe.Pointer(cMessage))
	})
}

//export pixelgrab_log
func pixelgrab_log(level C.int, message *C.char) {
	logging.Log(logging.Level(level), goString(message))
}
