//go:build darwin

package clipboard

/*
#cgo CFLAGS: -x objective-c -fobjc-arc
#cgo LDFLAGS: -framework Cocoa

#import <Cocoa/Cocoa.h>

static int pg_clipboard_get_text(char **out, int *length) {
	@autoreleasepool {
		NSPasteboard *pb = [NSPasteboard generalPasteboard];
		NSString *value = [pb stringForType:NSPasteboardTypeString];
		if (!value) {
			return 0;
		}
		const char *utf8 = [value UTF8String];
		if (!utf8) {
			return 0;
		}
		int len = (int)strlen(utf8);
		char *buffer = (char *)malloc(len);
		memcpy(buffer, utf8, len);
		*out = buffer;
		*length = len;
		return 1;
	}
}

static int pg_clipboard_get_png(void **out, int *length) {
	@autoreleasepool {
		NSPasteboard *pb = [NSPasteboard generalPasteboard];
		NSData *data = [pb dataForType:NSPasteboardTypePNG];
		if (!data) {
			return 0;
		}
		int len = (int)[data length];
		void *buffer = malloc(len);
		memcpy(buffer, [data bytes], len);
		*out = buffer;
		*length = len;
		return 1;
	}
}
*/
import "C"

import (
	"bytes"
	goimage "image"
	_ "image/png"
	"unsafe"

	pgimage "github.com/pixelgrab/pixelgrab/internal/image"
	"github.com/pixelgrab/pixelgrab/internal/pgerr"
)

type darwinReader struct{}

func newPlatformReader() Reader {
	return &darwinReader{}
}

func (r *darwinReader) Read() (Content, *pgerr.Error) {
	if data, ok := readPNG(); ok {
		img, pgErr := decodePNGToImage(data)
		if pgErr != nil {
			return Content{}, pgErr
		}
		return Content{Type: ContentImage, Image: img}, nil
	}
	if text, ok := readText(); ok {
		return Content{Type: ContentText, Text: text}, nil
	}
	return Content{Type: ContentEmpty}, nil
}

func readText() (string, bool) {
	var out *C.char
	var length C.int
	if C.pg_clipboard_get_text(&out, &length) == 0 {
		return "", false
	}
	defer C.free(unsafe.Pointer(out))
	return C.GoStringN(out, length), true
}

func readPNG() ([]byte, bool) {
	var out unsafe.Pointer
	var length C.int
	if C.pg_clipboard_get_png((*unsafe.Pointer)(&out), &length) == 0 {
		return nil, false
	}
	defer C.free(out)
	return C.GoBytes(out, length), true
}

func decodePNGToImage(data []byte) (*pgimage.Image, *pgerr.Error) {
	decoded, _, err := goimage.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, pgerr.New(pgerr.ClipboardFormatUnsupported, "failed to decode clipboard PNG: "+err.Error())
	}
	bounds := decoded.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	out, pgErr := pgimage.Create(w, h, pgimage.FormatBGRA8)
	if pgErr != nil {
		return nil, pgErr
	}
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			r, g, b, a := decoded.At(bounds.Min.X+x, bounds.Min.Y+y).RGBA()
			out.Set(x, y, uint8(b>>8), uint8(g>>8), uint8(r>>8), uint8(a>>8))
		}
	}
	return out, nil
}
