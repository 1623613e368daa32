//go:build windows

package capture

import (
	"fmt"
	"sync"
	"unsafe"

	"golang.org/x/sys/windows"

	"github.com/pixelgrab/pixelgrab/internal/image"
)

var (
	user32 = windows.NewLazySystemDLL("user32.dll")
	gdi32  = windows.NewLazySystemDLL("gdi32.dll")

	procGetDC              = user32.NewProc("GetDC")
	procReleaseDC          = user32.NewProc("ReleaseDC")
	procGetSystemMetrics   = user32.NewProc("GetSystemMetrics")
	procSetProcessDPIAware = user32.NewProc("SetProcessDPIAware")

	procCreateCompatibleDC     = gdi32.NewProc("CreateCompatibleDC")
	procCreateCompatibleBitmap = gdi32.NewProc("CreateCompatibleBitmap")
	procSelectObject           = gdi32.NewProc("SelectObject")
	procBitBlt                 = gdi32.NewProc("BitBlt")
	procDeleteDC               = gdi32.NewProc("DeleteDC")
	procDeleteObject           = gdi32.NewProc("DeleteObject")
	procGetDIBits              = gdi32.NewProc("GetDIBits")
)

const (
	smCxScreen = 0
	smCyScreen = 1
	srcCopy    = 0x00CC0020
	captureBlt = 0x40000000
	biRGB      = 0
)

type bitmapInfoHeader struct {
	BiSize          uint32
	BiWidth         int32
	BiHeight        int32
	BiPlanes        uint16
	BiBitCount      uint16
	BiCompression   uint32
	BiSizeImage     uint32
	BiXPelsPerMeter int32
	BiYPelsPerMeter int32
	BiClrUsed       uint32
	BiClrImportant  uint32
}

type bitmapInfo struct {
	BmiHeader bitmapInfoHeader
	BmiColors [1]uint32
}

// windowsBackend implements Backend using GDI BitBlt, grounded on the
// teacher's cgo-free DXGI fallback path: persistent handles, rebuilt on
// resolution change or BitBlt failure.
type windowsBackend struct {
	mu sync.Mutex

	screenDC  uintptr
	memDC     uintptr
	hBitmap   uintptr
	oldBitmap uintptr
	bi        bitmapInfo
	width     int
	height    int
	inited    bool
}

func newPlatformBackend() (Backend, error) {
	return &windowsBackend{}, nil
}

func (b *windowsBackend) Initialize() error {
	procSetProcessDPIAware.Call()
	return nil
}

func (b *windowsBackend) Shutdown() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.releaseHandlesLocked()
}

func (b *windowsBackend) GetScreens() ([]ScreenInfo, error) {
	w, h, err := b.screenSize()
	if err != nil {
		return nil, err
	}
	return []ScreenInfo{{
		Index: 0, Width: w, Height: h, IsPrimary: true, Name: "Primary",
	}}, nil
}

func (b *windowsBackend) screenSize() (int, int, error) {
	w, _, _ := procGetSystemMetrics.Call(smCxScreen)
	h, _, _ := procGetSystemMetrics.Call(smCyScreen)
	if w == 0 || h == 0 {
		return 0, 0, fmt.Errorf("GetSystemMetrics returned zero dimensions")
	}
	return int(w), int(h), nil
}

func (b *windowsBackend) ensureHandlesLocked() error {
	width, height, err := b.screenSize()
	if err != nil {
		return err
	}
	if b.inited && b.width == width && b.height == height {
		return nil
	}
	b.releaseHandlesLocked()

	hdc, _, _ := procGetDC.Call(0)
	if hdc == 0 {
		return fmt.Errorf("GetDC failed")
	}
	memDC, _, _ := procCreateCompatibleDC.Call(hdc)
	if memDC == 0 {
		procReleaseDC.Call(0, hdc)
		return fmt.Errorf("CreateCompatibleDC failed")
	}
	hBitmap, _, _ := procCreateCompatibleBitmap.Call(hdc, uintptr(width), uintptr(height))
	if hBitmap == 0 {
		procDeleteDC.Call(memDC)
		procReleaseDC.Call(0, hdc)
		return fmt.Errorf("CreateCompatibleBitmap failed")
	}
	oldBitmap, _, _ := procSelectObject.Call(memDC, hBitmap)
	if oldBitmap == 0 {
		procDeleteObject.Call(hBitmap)
		procDeleteDC.Call(memDC)
		procReleaseDC.Call(0, hdc)
		return fmt.Errorf("SelectObject failed")
	}

	b.screenDC = hdc
	b.memDC = memDC
	b.hBitmap = hBitmap
	b.oldBitmap = oldBitmap
	b.width = width
	b.height = height
	b.inited = true
	b.bi = bitmapInfo{BmiHeader: bitmapInfoHeader{
		BiSize:        uint32(unsafe.Sizeof(bitmapInfoHeader{})),
		BiWidth:       int32(width),
		BiHeight:      -int32(height),
		BiPlanes:      1,
		BiBitCount:    32,
		BiCompression: biRGB,
	}}
	return nil
}

func (b *windowsBackend) releaseHandlesLocked() {
	if !b.inited {
		return
	}
	if b.oldBitmap != 0 && b.memDC != 0 {
		procSelectObject.Call(b.memDC, b.oldBitmap)
	}
	if b.hBitmap != 0 {
		procDeleteObject.Call(b.hBitmap)
	}
	if b.memDC != 0 {
		procDeleteDC.Call(b.memDC)
	}
	if b.screenDC != 0 {
		procReleaseDC.Call(0, b.screenDC)
	}
	b.inited = false
	b.screenDC, b.memDC, b.hBitmap, b.oldBitmap = 0, 0, 0, 0
}

func (b *windowsBackend) captureFullLocked() (*image.Image, error) {
	if err := b.ensureHandlesLocked(); err != nil {
		return nil, err
	}
	ret, _, _ := procBitBlt.Call(b.memDC, 0, 0, uintptr(b.width), uintptr(b.height),
		b.screenDC, 0, 0, srcCopy|captureBlt)
	if ret == 0 {
		ret, _, _ = procBitBlt.Call(b.memDC, 0, 0, uintptr(b.width), uintptr(b.height),
			b.screenDC, 0, 0, srcCopy)
		if ret == 0 {
			return nil, fmt.Errorf("BitBlt failed")
		}
	}

	stride := b.width * 4
	pix := make([]byte, stride*b.height)
	ret, _, _ = procGetDIBits.Call(
		b.memDC, b.hBitmap, 0, uintptr(b.height),
		uintptr(unsafe.Pointer(&pix[0])), uintptr(unsafe.Pointer(&b.bi)), 0)
	if ret == 0 {
		return nil, fmt.Errorf("GetDIBits failed")
	}

	out, pgErr := image.CreateFromData(b.width, b.height, stride, image.FormatBGRA8, pix)
	if pgErr != nil {
		return nil, fmt.Errorf("%s", pgErr.Message)
	}
	return out, nil
}

func (b *windowsBackend) CaptureScreen(index int) (*image.Image, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.captureFullLocked()
}

func (b *windowsBackend) CaptureRegion(x, y, w, h int) (*image.Image, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	full, err := b.captureFullLocked()
	if err != nil {
		return nil, err
	}
	if x < 0 || y < 0 || w <= 0 || h <= 0 || x+w > full.Width() || y+h > full.Height() {
		return nil, fmt.Errorf("region out of bounds")
	}
	sub, pgErr := full.SubImage(x, y, w, h)
	if pgErr != nil {
		return nil, fmt.Errorf("%s", pgErr.Message)
	}
	return sub, nil
}

// CaptureWindow is not implemented on the BitBlt path: capturing an
// individual HWND (vs the desktop) needs PrintWindow, which this backend
// does not yet wire up.
func (b *windowsBackend) CaptureWindow(nativeWindowID uintptr) (*image.Image, error) {
	return nil, ErrNotSupported
}

func (b *windowsBackend) EnumerateWindows() ([]WindowInfo, error) {
	return nil, ErrNotSupported
}

func (b *windowsBackend) EnableDpiAwareness() bool {
	ret, _, _ := procSetProcessDPIAware.Call()
	return ret != 0
}

func (b *windowsBackend) GetDpiInfo(screenIndex int) (DpiInfo, error) {
	// SetProcessDPIAware puts the whole process in system-DPI-aware mode,
	// so logical and physical coordinates coincide once that call has run.
	return DpiInfo{ScaleX: 1, ScaleY: 1, DpiX: 96, DpiY: 96}, nil
}
