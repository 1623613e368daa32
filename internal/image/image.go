// Package image implements the immutable pixel buffer type (PixelGrabImage)
// shared by capture, annotation, watermark, and the recorder.
package image

import (
	"fmt"

	"github.com/pixelgrab/pixelgrab/internal/pgerr"
)

// Format mirrors PixelGrabPixelFormat.
type Format int32

const (
	FormatBGRA8 Format = iota
	FormatRGBA8
	FormatNative
)

const bytesPerPixel = 4

// Image is an immutable width*height pixel buffer with a byte stride that
// may exceed width*4 for alignment. The zero value is not valid; construct
// with Create or CreateFromData.
type Image struct {
	width  int
	height int
	stride int
	format Format
	pixels []byte
}

// Width returns the image width in pixels.
func (img *Image) Width() int { return img.width }

// Height returns the image height in pixels.
func (img *Image) Height() int { return img.height }

// Stride returns the byte stride between rows.
func (img *Image) Stride() int { return img.stride }

// Format returns the pixel format.
func (img *Image) Format() Format { return img.format }

// Bytes returns the raw pixel buffer. Callers must not retain a mutable
// view across the Image's lifetime; use Clone to get an owned copy before
// mutating.
func (img *Image) Bytes() []byte { return img.pixels }

// roundUpStride rounds width*bytesPerPixel up to a 4-byte boundary, the
// same alignment rule the original capture backends applied to DIB/X11
// scanlines.
func roundUpStride(width int) int {
	raw := width * bytesPerPixel
	return (raw + 3) &^ 3
}

func validateDims(width, height int) *pgerr.Error {
	if width <= 0 || height <= 0 {
		return pgerr.New(pgerr.InvalidParam, fmt.Sprintf("invalid image dimensions %dx%d", width, height))
	}
	const maxDim = 1 << 16
	if width > maxDim || height > maxDim {
		return pgerr.New(pgerr.InvalidParam, fmt.Sprintf("image dimensions %dx%d exceed maximum", width, height))
	}
	stride := roundUpStride(width)
	if stride != 0 && height > (1<<31)/stride {
		return pgerr.New(pgerr.OutOfMemory, "image buffer size overflows")
	}
	return nil
}

// Create allocates a zero-filled image of the given dimensions and format.
func Create(width, height int, format Format) (*Image, *pgerr.Error) {
	if err := validateDims(width, height); err != nil {
		return nil, err
	}
	stride := roundUpStride(width)
	return &Image{
		width:  width,
		height: height,
		stride: stride,
		format: format,
		pixels: make([]byte, stride*height),
	}, nil
}

// CreateFromData wraps caller-supplied pixel data. data is copied, so the
// caller retains ownership of its original buffer.
func CreateFromData(width, height, stride int, format Format, data []byte) (*Image, *pgerr.Error) {
	if err := validateDims(width, height); err != nil {
		return nil, err
	}
	minStride := roundUpStride(width)
	if stride < minStride {
		return nil, pgerr.New(pgerr.InvalidParam, fmt.Sprintf("stride %d smaller than minimum %d", stride, minStride))
	}
	if len(data) < stride*height {
		return nil, pgerr.New(pgerr.InvalidParam, "data buffer smaller than stride*height")
	}
	owned := make([]byte, stride*height)
	copy(owned, data[:stride*height])
	return &Image{
		width:  width,
		height: height,
		stride: stride,
		format: format,
		pixels: owned,
	}, nil
}

// Clone returns a deep copy.
func (img *Image) Clone() *Image {
	pixels := make([]byte, len(img.pixels))
	copy(pixels, img.pixels)
	return &Image{
		width:  img.width,
		height: img.height,
		stride: img.stride,
		format: img.format,
		pixels: pixels,
	}
}

// RowOffset returns the byte offset of the start of row y.
func (img *Image) RowOffset(y int) int {
	return y * img.stride
}

// At returns the BGRA8/RGBA8 channel quad for pixel (x, y). Callers in the
// Native format should not call At; it assumes a 4-byte packed layout.
func (img *Image) At(x, y int) (c0, c1, c2, c3 uint8) {
	off := img.RowOffset(y) + x*bytesPerPixel
	p := img.pixels[off : off+4 : off+4]
	return p[0], p[1], p[2], p[3]
}

// Set writes the channel quad for pixel (x, y). The Image must be an
// owned, uniquely-held buffer (as returned by Create/Clone) — Images
// obtained from a capture result are conventionally treated as read-only
// by callers even though Go cannot enforce that across a C ABI boundary.
func (img *Image) Set(x, y int, c0, c1, c2, c3 uint8) {
	off := img.RowOffset(y) + x*bytesPerPixel
	p := img.pixels[off : off+4 : off+4]
	p[0], p[1], p[2], p[3] = c0, c1, c2, c3
}

// SubImage returns a newly allocated image containing the region
// [x,y,w,h). A region that is empty or extends past the source bounds is
// rejected with InvalidParam rather than clamped.
func (img *Image) SubImage(x, y, w, h int) (*Image, *pgerr.Error) {
	if x < 0 || y < 0 || w <= 0 || h <= 0 || x+w > img.width || y+h > img.height {
		return nil, pgerr.New(pgerr.InvalidParam, "sub-image region out of bounds")
	}
	out, err := Create(w, h, img.format)
	if err != nil {
		return nil, err
	}
	for row := 0; row < h; row++ {
		srcOff := img.RowOffset(y+row) + x*bytesPerPixel
		dstOff := out.RowOffset(row)
		copy(out.pixels[dstOff:dstOff+w*bytesPerPixel], img.pixels[srcOff:srcOff+w*bytesPerPixel])
	}
	return out, nil
}
