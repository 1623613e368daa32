// Package capture implements the screen-capture platform adapter: screen
// and window enumeration, region/window capture, DPI awareness, and the
// color-picker/coordinate-conversion helpers built on top of a capture.
package capture

import (
	"fmt"

	"github.com/pixelgrab/pixelgrab/internal/color"
	"github.com/pixelgrab/pixelgrab/internal/image"
	"github.com/pixelgrab/pixelgrab/internal/logging"
	"github.com/pixelgrab/pixelgrab/internal/pgerr"
)

var log = logging.L("capture")

// ScreenInfo describes one display in the virtual desktop.
type ScreenInfo struct {
	Index      int
	OriginX    int
	OriginY    int
	Width      int
	Height     int
	IsPrimary  bool
	Name       string
}

// WindowInfo describes one top-level window as reported by the platform.
type WindowInfo struct {
	ID          uintptr
	X, Y, W, H  int
	IsVisible   bool
	Title       string
	ProcessName string
}

// DpiInfo reports per-screen DPI scaling.
type DpiInfo struct {
	ScaleX float64
	ScaleY float64
	DpiX   float64
	DpiY   float64
}

// Backend is the platform adapter contract consumed by the context.
type Backend interface {
	Initialize() error
	// Shutdown releases platform resources. Idempotent.
	Shutdown()
	GetScreens() ([]ScreenInfo, error)
	CaptureScreen(index int) (*image.Image, error)
	CaptureRegion(x, y, w, h int) (*image.Image, error)
	CaptureWindow(nativeWindowID uintptr) (*image.Image, error)
	EnumerateWindows() ([]WindowInfo, error)
	EnableDpiAwareness() bool
	GetDpiInfo(screenIndex int) (DpiInfo, error)
}

// ErrNotSupported is returned when capture is unavailable on the platform.
var ErrNotSupported = fmt.Errorf("screen capture not supported on this platform")

// ErrPermissionDenied is returned when the OS denies screen-recording access.
var ErrPermissionDenied = fmt.Errorf("screen capture permission denied")

// New returns the platform-specific Backend implementation.
func New() (Backend, error) {
	return newPlatformBackend()
}

// PickColor reads the color at (x, y) within img, the common tail end of
// the platform's "pick a pixel under the cursor" flow: callers capture a
// region (or the full screen) and then sample it.
func PickColor(img *image.Image, x, y int) (color.Color, *pgerr.Error) {
	if img == nil {
		return color.Color{}, pgerr.New(pgerr.InvalidParam, "nil image")
	}
	if x < 0 || y < 0 || x >= img.Width() || y >= img.Height() {
		return color.Color{}, pgerr.New(pgerr.InvalidParam, "coordinates out of bounds")
	}
	b, g, r, a := img.At(x, y)
	switch img.Format() {
	case image.FormatRGBA8:
		return color.Color{R: b, G: g, B: r, A: a}, nil
	default: // Bgra8, Native
		return color.Color{R: r, G: g, B: b, A: a}, nil
	}
}

// LogicalToPhysical converts a logical (DPI-independent) coordinate to a
// physical pixel coordinate using the given screen's DPI scale.
func LogicalToPhysical(dpi DpiInfo, x, y float64) (px, py float64) {
	return x * dpi.ScaleX, y * dpi.ScaleY
}

// PhysicalToLogical is the inverse of LogicalToPhysical.
func PhysicalToLogical(dpi DpiInfo, x, y float64) (lx, ly float64) {
	sx, sy := dpi.ScaleX, dpi.ScaleY
	if sx == 0 {
		sx = 1
	}
	if sy == 0 {
		sy = 1
	}
	return x / sx, y / sy
}
