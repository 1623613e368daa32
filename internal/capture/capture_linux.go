//go:build linux

package capture

/*
#cgo LDFLAGS: -lX11 -lXext

#include <X11/Xlib.h>
#include <X11/Xutil.h>
#include <X11/extensions/XShm.h>
#include <sys/ipc.h>
#include <sys/shm.h>
#include <stdlib.h>
#include <string.h>

typedef struct {
    void* data;
    int width;
    int height;
    int bytesPerRow;
    int error;
} pg_capture_result;

typedef struct {
    Display* display;
    Window root;
    int screen;
    int width;
    int height;
    int useShm;
    XShmSegmentInfo shmInfo;
    XImage* shmImage;
} pg_x11_ctx;

static pg_x11_ctx g_ctx = {0};

static int pg_init_x11(void) {
    if (g_ctx.display != NULL) {
        return 0;
    }
    g_ctx.display = XOpenDisplay(NULL);
    if (g_ctx.display == NULL) {
        return 1;
    }
    g_ctx.screen = DefaultScreen(g_ctx.display);
    g_ctx.root = RootWindow(g_ctx.display, g_ctx.screen);
    g_ctx.width = DisplayWidth(g_ctx.display, g_ctx.screen);
    g_ctx.height = DisplayHeight(g_ctx.display, g_ctx.screen);

    int major, minor;
    Bool pixmaps;
    if (XShmQueryVersion(g_ctx.display, &major, &minor, &pixmaps)) {
        g_ctx.shmImage = XShmCreateImage(
            g_ctx.display,
            DefaultVisual(g_ctx.display, g_ctx.screen),
            DefaultDepth(g_ctx.display, g_ctx.screen),
            ZPixmap, NULL, &g_ctx.shmInfo, g_ctx.width, g_ctx.height);
        if (g_ctx.shmImage != NULL) {
            g_ctx.shmInfo.shmid = shmget(IPC_PRIVATE,
                g_ctx.shmImage->bytes_per_line * g_ctx.shmImage->height,
                IPC_CREAT | 0777);
            if (g_ctx.shmInfo.shmid >= 0) {
                g_ctx.shmInfo.shmaddr = g_ctx.shmImage->data = shmat(g_ctx.shmInfo.shmid, 0, 0);
                g_ctx.shmInfo.readOnly = False;
                if (XShmAttach(g_ctx.display, &g_ctx.shmInfo)) {
                    g_ctx.useShm = 1;
                    return 0;
                }
            }
            XDestroyImage(g_ctx.shmImage);
            g_ctx.shmImage = NULL;
        }
    }
    return 0;
}

static void pg_cleanup_x11(void) {
    if (g_ctx.shmImage != NULL) {
        XShmDetach(g_ctx.display, &g_ctx.shmInfo);
        shmdt(g_ctx.shmInfo.shmaddr);
        shmctl(g_ctx.shmInfo.shmid, IPC_RMID, 0);
        XDestroyImage(g_ctx.shmImage);
        g_ctx.shmImage = NULL;
    }
    if (g_ctx.display != NULL) {
        XCloseDisplay(g_ctx.display);
        g_ctx.display = NULL;
    }
    memset(&g_ctx, 0, sizeof(g_ctx));
}

static void pg_image_to_bgra(XImage* image, int width, int height, int bytesPerRow, unsigned char* dst) {
    int depth = image->bits_per_pixel;
    for (int y = 0; y < height; y++) {
        for (int x = 0; x < width; x++) {
            unsigned long pixel = XGetPixel(image, x, y);
            int idx = y * bytesPerRow + x * 4;
            if (depth == 32 || depth == 24) {
                dst[idx + 0] = pixel & 0xFF;         // B
                dst[idx + 1] = (pixel >> 8) & 0xFF;  // G
                dst[idx + 2] = (pixel >> 16) & 0xFF; // R
                dst[idx + 3] = 255;                   // A
            } else if (depth == 16) {
                dst[idx + 0] = (pixel & 0x1F) * 255 / 31;
                dst[idx + 1] = ((pixel >> 5) & 0x3F) * 255 / 63;
                dst[idx + 2] = ((pixel >> 11) & 0x1F) * 255 / 31;
                dst[idx + 3] = 255;
            }
        }
    }
}

static pg_capture_result pg_capture_region(int x, int y, int width, int height) {
    pg_capture_result result = {0};
    int initResult = pg_init_x11();
    if (initResult != 0) {
        result.error = initResult;
        return result;
    }

    if (x < 0) x = 0;
    if (y < 0) y = 0;
    if (x + width > g_ctx.width) width = g_ctx.width - x;
    if (y + height > g_ctx.height) height = g_ctx.height - y;
    if (width <= 0 || height <= 0) {
        result.error = 5;
        return result;
    }

    XImage* image;
    if (g_ctx.useShm && g_ctx.shmImage != NULL && x == 0 && y == 0 &&
        width == g_ctx.width && height == g_ctx.height) {
        if (!XShmGetImage(g_ctx.display, g_ctx.root, g_ctx.shmImage, 0, 0, AllPlanes)) {
            result.error = 2;
            return result;
        }
        image = g_ctx.shmImage;
    } else {
        image = XGetImage(g_ctx.display, g_ctx.root, x, y, width, height, AllPlanes, ZPixmap);
        if (image == NULL) {
            result.error = 3;
            return result;
        }
    }

    result.width = width;
    result.height = height;
    result.bytesPerRow = width * 4;
    result.data = malloc((size_t)result.bytesPerRow * height);
    if (result.data == NULL) {
        if (image != g_ctx.shmImage) XDestroyImage(image);
        result.error = 4;
        return result;
    }

    pg_image_to_bgra(image, width, height, result.bytesPerRow, (unsigned char*)result.data);

    if (image != g_ctx.shmImage) {
        XDestroyImage(image);
    }
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

type linuxBackend struct {
	mu sync.Mutex
}

func newPlatformBackend() (Backend, error) {
	return &linuxBackend{}, nil
}

func (b *linuxBackend) Initialize() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if code := C.pg_init_x11(); code != 0 {
		return translateX11Error(int(code))
	}
	return nil
}

func (b *linuxBackend) Shutdown() {
	b.mu.Lock()
	defer b.mu.Unlock()
	C.pg_cleanup_x11()
}

func (b *linuxBackend) GetScreens() ([]ScreenInfo, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if code := C.pg_init_x11(); code != 0 {
		return nil, translateX11Error(int(code))
	}
	return []ScreenInfo{{
		Index:     0,
		Width:     int(C.g_ctx.width),
		Height:    int(C.g_ctx.height),
		IsPrimary: true,
		Name:      "X11 default screen",
	}}, nil
}

func (b *linuxBackend) CaptureScreen(index int) (*image.Image, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if code := C.pg_init_x11(); code != 0 {
		return nil, translateX11Error(int(code))
	}
	return b.captureRegionLocked(0, 0, int(C.g_ctx.width), int(C.g_ctx.height))
}

func (b *linuxBackend) CaptureRegion(x, y, w, h int) (*image.Image, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.captureRegionLocked(x, y, w, h)
}

func (b *linuxBackend) captureRegionLocked(x, y, w, h int) (*image.Image, error) {
	result := C.pg_capture_region(C.int(x), C.int(y), C.int(w), C.int(h))
	if result.error != 0 {
		return nil, translateX11Error(int(result.error))
	}
	defer C.pg_free_capture(result.data)

	width := int(result.width)
	height := int(result.height)
	stride := int(result.bytesPerRow)
	data := C.GoBytes(result.data, C.int(stride*height))
	out, err := image.CreateFromData(width, height, stride, image.FormatBGRA8, data)
	if err != nil {
		return nil, fmt.Errorf("%s", err.Message)
	}
	return out, nil
}

// CaptureWindow is not supported by the plain X11 root-window path; a
// compositing-aware capture would need XComposite, which this backend does
// not link against.
func (b *linuxBackend) CaptureWindow(nativeWindowID uintptr) (*image.Image, error) {
	return nil, ErrNotSupported
}

func (b *linuxBackend) EnumerateWindows() ([]WindowInfo, error) {
	return nil, ErrNotSupported
}

func (b *linuxBackend) EnableDpiAwareness() bool {
	return true
}

func (b *linuxBackend) GetDpiInfo(screenIndex int) (DpiInfo, error) {
	return DpiInfo{ScaleX: 1, ScaleY: 1, DpiX: 96, DpiY: 96}, nil
}

func translateX11Error(code int) error {
	switch code {
	case 1:
		return fmt.Errorf("failed to open X11 display (is DISPLAY set?)")
	case 2:
		return fmt.Errorf("XShmGetImage failed")
	case 3:
		return fmt.Errorf("XGetImage failed")
	case 4:
		return fmt.Errorf("memory allocation failed")
	case 5:
		return fmt.Errorf("requested region is empty")
	default:
		return fmt.Errorf("unknown X11 capture error: %d", code)
	}
}
