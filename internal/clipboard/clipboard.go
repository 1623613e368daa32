// Package clipboard implements the read-only clipboard adapter consumed
// by PinClipboard: detect the current system clipboard content (image,
// text, or unsupported) without ever writing to it.
package clipboard

import (
	pgimage "github.com/pixelgrab/pixelgrab/internal/image"
	"github.com/pixelgrab/pixelgrab/internal/pgerr"
)

// ContentType discriminates what the clipboard currently holds.
type ContentType int

const (
	ContentEmpty ContentType = iota
	ContentImage
	ContentText
)

// Content is the result of a clipboard read.
type Content struct {
	Type  ContentType
	Image *pgimage.Image
	Text  string
}

// Reader is the platform clipboard adapter contract. It is read-only: the
// core never writes to the system clipboard.
type Reader interface {
	Read() (Content, *pgerr.Error)
}

// New returns the platform Reader implementation.
func New() Reader {
	return newPlatformReader()
}
