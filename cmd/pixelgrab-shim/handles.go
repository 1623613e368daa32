// Command pixelgrab-shim is the cgo C ABI surface: it translates C calls
// into github.com/pixelgrab/pixelgrab/internal/pgcontext operations,
// validates arguments that can only be checked at the boundary (null
// pointers, string encoding), and marshals results into the fixed-layout
// structs original_source/include/pixelgrab/pixelgrab.h declares. Built
// with `go build -buildmode=c-shared`.
package main

/*
#include <stdlib.h>
#include "pixelgrab_abi.h"
*/
import "C"

import (
	"runtime/cgo"
	"unsafe"
)

// Every opaque C handle (PixelGrabContext*, PixelGrabImage*, ...) is a
// C-malloc'd box holding a single cgo.Handle value. Go is not allowed to
// hand a raw Go pointer to C and have C store it past the call that
// produced it (the cgo pointer-passing rules forbid that); boxing the
// handle in C-owned memory sidesteps the rule entirely, the same
// indirection pattern the teacher's Windows ipc/auth cgo shims use for
// SECURITY_ATTRIBUTES lifetimes.
func newHandleBox(v interface{}) unsafe.Pointer {
	h := cgo.NewHandle(v)
	box := C.malloc(C.size_t(unsafe.Sizeof(C.uintptr_t(0))))
	*(*C.uintptr_t)(box) = C.uintptr_t(h)
	return box
}

func handleValue(box unsafe.Pointer) interface{} {
	if box == nil {
		return nil
	}
	h := cgo.Handle(*(*C.uintptr_t)(box))
	return h.Value()
}

func freeHandleBox(box unsafe.Pointer) {
	if box == nil {
		return
	}
	h := cgo.Handle(*(*C.uintptr_t)(box))
	h.Delete()
	C.free(box)
}

// cStringCopy writes s (NUL-terminated, truncated if necessary) into a
// fixed-size C char array field such as PixelGrabWindowInfo.title.
func cStringCopy(dst *C.char, dstLen int, s string) {
	if dstLen <= 0 {
		return
	}
	b := []byte(s)
	n := len(b)
	if n > dstLen-1 {
		n = dstLen - 1
	}
	out := unsafe.Slice((*byte)(unsafe.Pointer(dst)), dstLen)
	copy(out, b[:n])
	out[n] = 0
}

// goString reads a NUL-terminated C string, returning "" for a nil
// pointer (several optional parameters, e.g. font_name, are documented
// "NULL = default").
func goString(s *C.char) string {
	if s == nil {
		return ""
	}
	return C.GoString(s)
}

func boolToC(b bool) C.int {
	if b {
		return 1
	}
	return 0
}

func cToBool(v C.int) bool { return v != 0 }
