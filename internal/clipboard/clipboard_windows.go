//go:build windows

package clipboard

import (
	"unicode/utf16"
	"unsafe"

	"golang.org/x/sys/windows"

	pgimage "github.com/pixelgrab/pixelgrab/internal/image"
	"github.com/pixelgrab/pixelgrab/internal/pgerr"
)

var (
	clipUser32 = windows.NewLazySystemDLL("user32.dll")
	clipKernel32 = windows.NewLazySystemDLL("kernel32.dll")

	procOpenClipboard     = clipUser32.NewProc("OpenClipboard")
	procCloseClipboard    = clipUser32.NewProc("CloseClipboard")
	procGetClipboardData  = clipUser32.NewProc("GetClipboardData")
	procIsClipboardFormat = clipUser32.NewProc("IsClipboardFormatAvailable")

	procGlobalLock   = clipKernel32.NewProc("GlobalLock")
	procGlobalUnlock = clipKernel32.NewProc("GlobalUnlock")
	procGlobalSize   = clipKernel32.NewProc("GlobalSize")
)

const (
	cfUnicodeText = 13
	cfDIBV5       = 17
)

type bitmapV5Header struct {
	Size          uint32
	Width         int32
	Height        int32
	Planes        uint16
	BitCount      uint16
	Compression   uint32
	SizeImage     uint32
	XPelsPerMeter int32
	YPelsPerMeter int32
	ClrUsed       uint32
	ClrImportant  uint32
	// remaining BITMAPV5HEADER fields omitted; only the common
	// BITMAPINFOHEADER prefix is needed to read raw pixel data.
}

type windowsReader struct{}

func newPlatformReader() Reader {
	return &windowsReader{}
}

func (r *windowsReader) Read() (Content, *pgerr.Error) {
	if img, ok := readImage(); ok {
		return Content{Type: ContentImage, Image: img}, nil
	}
	if text, ok := readText(); ok {
		return Content{Type: ContentText, Text: text}, nil
	}
	return Content{Type: ContentEmpty}, nil
}

func readText() (string, bool) {
	avail, _, _ := procIsClipboardFormat.Call(cfUnicodeText)
	if avail == 0 {
		return "", false
	}
	ret, _, _ := procOpenClipboard.Call(0)
	if ret == 0 {
		return "", false
	}
	defer procCloseClipboard.Call()

	handle, _, _ := procGetClipboardData.Call(cfUnicodeText)
	if handle == 0 {
		return "", false
	}
	ptr, _, _ := procGlobalLock.Call(handle)
	if ptr == 0 {
		return "", false
	}
	defer procGlobalUnlock.Call(handle)

	// Find the UTF-16 NUL terminator.
	var units []uint16
	for i := 0; ; i++ {
		u := *(*uint16)(unsafe.Pointer(ptr + uintptr(i)*2))
		if u == 0 {
			break
		}
		units = append(units, u)
	}
	return string(utf16.Decode(units)), true
}

func readImage() (*pgimage.Image, bool) {
	avail, _, _ := procIsClipboardFormat.Call(cfDIBV5)
	if avail == 0 {
		return nil, false
	}
	ret, _, _ := procOpenClipboard.Call(0)
	if ret == 0 {
		return nil, false
	}
	defer procCloseClipboard.Call()

	handle, _, _ := procGetClipboardData.Call(cfDIBV5)
	if handle == 0 {
		return nil, false
	}
	ptr, _, _ := procGlobalLock.Call(handle)
	if ptr == 0 {
		return nil, false
	}
	defer procGlobalUnlock.Call(handle)

	hdr := (*bitmapV5Header)(unsafe.Pointer(ptr))
	if hdr.BitCount != 32 {
		// Only the common 32bpp DIBV5 case is handled; 24bpp clipboard
		// bitmaps are rare from modern screenshot tools.
		return nil, false
	}
	width := int(hdr.Width)
	height := int(hdr.Height)
	topDown := height < 0
	if topDown {
		height = -height
	}
	if width <= 0 || height <= 0 {
		return nil, false
	}

	pixelsPtr := ptr + uintptr(hdr.Size)
	stride := width * 4
	out, pgErr := pgimage.Create(width, height, pgimage.FormatBGRA8)
	if pgErr != nil {
		return nil, false
	}
	for y := 0; y < height; y++ {
		srcRow := y
		if !topDown {
			srcRow = height - 1 - y
		}
		srcOff := pixelsPtr + uintptr(srcRow*stride)
		row := unsafe.Slice((*byte)(unsafe.Pointer(srcOff)), stride)
		dstOff := out.RowOffset(y)
		copy(out.Bytes()[dstOff:dstOff+stride], row)
	}
	return out, true
}
