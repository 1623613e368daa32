// Package ocr exposes the OCR backend surface. Text recognition itself
// is out of scope (see project non-goals): this package keeps the ABI
// shape other packages depend on without shipping a recognition engine,
// mirroring the teacher's build-tag "unsupported" stub pattern.
package ocr

import "github.com/pixelgrab/pixelgrab/internal/pgerr"

// Backend recognizes text within an image region.
type Backend interface {
	RecognizeText(imageBytes []byte, width, height int) (string, *pgerr.Error)
}

type unsupportedBackend struct{}

// New returns the stub backend; every call fails with NotSupported.
func New() Backend {
	return unsupportedBackend{}
}

func (unsupportedBackend) RecognizeText(imageBytes []byte, width, height int) (string, *pgerr.Error) {
	return "", pgerr.New(pgerr.NotSupported, "OCR is not supported in this build")
}
