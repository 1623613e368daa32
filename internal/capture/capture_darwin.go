//go:build darwin

package capture

/*
#cgo LDFLAGS: -framework CoreGraphics -framework CoreFoundation

#include <CoreGraphics/CoreGraphics.h>
#include <stdlib.h>

typedef struct {
    void* data;
    int width;
    int height;
    int bytesPerRow;
    int error;
} pg_capture_result;

static pg_capture_result pg_capture_display_region(CGDirectDisplayID display, int x, int y, int width, int height) {
    pg_capture_result result = {0};

    CGImageRef full = CGDisplayCreateImage(display);
    if (full == NULL) {
        result.error = 1;
        return result;
    }

    CGRect rect = CGRectMake(x, y, width, height);
    CGImageRef cropped = CGImageCreateWithImageInRect(full, rect);
    CGImageRelease(full);
    if (cropped == NULL) {
        result.error = 2;
        return result;
    }

    int w = (int)CGImageGetWidth(cropped);
    int h = (int)CGImageGetHeight(cropped);
    if (w <= 0 || h <= 0) {
        CGImageRelease(cropped);
        result.error = 3;
        return result;
    }

    int bytesPerRow = w * 4;
    void* buf = malloc((size_t)bytesPerRow * h);
    if (buf == NULL) {
        CGImageRelease(cropped);
        result.error = 4;
        return result;
    }

    CGColorSpaceRef colorSpace = CGColorSpaceCreateDeviceRGB();
    CGContextRef ctx = CGBitmapContextCreate(buf, w, h, 8, bytesPerRow, colorSpace,
        kCGImageAlphaPremultipliedFirst | kCGBitmapByteOrder32Little);
    CGColorSpaceRelease(colorSpace);
    if (ctx == NULL) {
        free(buf);
        CGImageRelease(cropped);
        result.error = 5;
        return result;
    }

    CGContextDrawImage(ctx, CGRectMake(0, 0, w, h), cropped);
    CGContextRelease(ctx);
    CGImageRelease(cropped);

    result.data = buf;
    result.width = w;
    result.height = h;
    result.bytesPerRow = bytesPerRow;
    return result;
}

static void pg_free_capture(void* data) {
    if (data != NULL) {
        free(data);
    }
}
*/
import "C"

import (
	"fmt"
	"sync"

	"github.com/pixelgrab/pixelgrab/internal/image"
)

type darwinBackend struct {
	mu sync.Mutex
}

func newPlatformBackend() (Backend, error) {
	return &darwinBackend{}, nil
}

func (b *darwinBackend) Initialize() error { return nil }

func (b *darwinBackend) Shutdown() {}

func (b *darwinBackend) GetScreens() ([]ScreenInfo, error) {
	w := int(C.CGDisplayPixelsWide(C.CGMainDisplayID()))
	h := int(C.CGDisplayPixelsHigh(C.CGMainDisplayID()))
	return []ScreenInfo{{Index: 0, Width: w, Height: h, IsPrimary: true, Name: "Main display"}}, nil
}

func (b *darwinBackend) CaptureScreen(index int) (*image.Image, error) {
	w := int(C.CGDisplayPixelsWide(C.CGMainDisplayID()))
	h := int(C.CGDisplayPixelsHigh(C.CGMainDisplayID()))
	return b.CaptureRegion(0, 0, w, h)
}

func (b *darwinBackend) CaptureRegion(x, y, w, h int) (*image.Image, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	result := C.pg_capture_display_region(C.CGMainDisplayID(), C.int(x), C.int(y), C.int(w), C.int(h))
	if result.error != 0 {
		return nil, translateCGError(int(result.error))
	}
	defer C.pg_free_capture(result.data)

	width := int(result.width)
	height := int(result.height)
	stride := int(result.bytesPerRow)
	data := C.GoBytes(result.data, C.int(stride*height))

	// CGBitmapContextCreate with kCGBitmapByteOrder32Little + premultiplied-
	// first lays out bytes B,G,R,A in memory, matching FormatBGRA8.
	out, pgErr := image.CreateFromData(width, height, stride, image.FormatBGRA8, data)
	if pgErr != nil {
		return nil, fmt.Errorf("%s", pgErr.Message)
	}
	return out, nil
}

// CaptureWindow needs CGWindowListCreateImage with a window id from
// CGWindowListCopyWindowInfo; not wired up on this backend.
func (b *darwinBackend) CaptureWindow(nativeWindowID uintptr) (*image.Image, error) {
	return nil, ErrNotSupported
}

func (b *darwinBackend) EnumerateWindows() ([]WindowInfo, error) {
	return nil, ErrNotSupported
}

func (b *darwinBackend) EnableDpiAwareness() bool {
	return true
}

func (b *darwinBackend) GetDpiInfo(screenIndex int) (DpiInfo, error) {
	// CGDisplayCreateImage already returns pixels at the backing scale
	// factor, so logical and physical coordinates coincide here.
	return DpiInfo{ScaleX: 1, ScaleY: 1, DpiX: 72, DpiY: 72}, nil
}

func translateCGError(code int) error {
	switch code {
	case 1:
		return fmt.Errorf("CGDisplayCreateImage failed")
	case 2:
		return fmt.Errorf("CGImageCreateWithImageInRect failed (region out of bounds?)")
	case 3:
		return fmt.Errorf("requested region is empty")
	case 4:
		return fmt.Errorf("memory allocation failed")
	case 5:
		return fmt.Errorf("CGBitmapContextCreate failed")
	default:
		return fmt.Errorf("unknown CoreGraphics capture error: %d", code)
	}
}
