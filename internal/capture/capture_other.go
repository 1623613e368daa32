//go:build !linux && !windows && !darwin

package capture

import "github.com/pixelgrab/pixelgrab/internal/image"

type otherBackend struct{}

func newPlatformBackend() (Backend, error) {
	return &otherBackend{}, nil
}

func (b *otherBackend) Initialize() error { return nil }
func (b *otherBackend) Shutdown()         {}

func (b *otherBackend) GetScreens() ([]ScreenInfo, error)             { return nil, ErrNotSupported }
func (b *otherBackend) CaptureScreen(int) (*image.Image, error)       { return nil, ErrNotSupported }
func (b *otherBackend) CaptureRegion(int, int, int, int) (*image.Image, error) {
	return nil, ErrNotSupported
}
func (b *otherBackend) CaptureWindow(uintptr) (*image.Image, error) { return nil, ErrNotSupported }
func (b *otherBackend) EnumerateWindows() ([]WindowInfo, error)     { return nil, ErrNotSupported }
func (b *otherBackend) EnableDpiAwareness() bool                    { return false }
func (b *otherBackend) GetDpiInfo(int) (DpiInfo, error) {
	return DpiInfo{ScaleX: 1, ScaleY: 1, DpiX: 96, DpiY: 96}, nil
}
