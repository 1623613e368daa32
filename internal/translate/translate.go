// Package translate exposes the network translation backend surface.
// Online machine translation is an explicit non-goal: this package keeps
// the ABI shape other packages depend on without shipping a translation
// client, mirroring the teacher's build-tag "unsupported" stub pattern.
package translate

import "github.com/pixelgrab/pixelgrab/internal/pgerr"

// Backend translates text between language codes.
type Backend interface {
	Translate(text, sourceLang, targetLang string) (string, *pgerr.Error)
}

type unsupportedBackend struct{}

// New returns the stub backend; every call fails with NotSupported.
func New() Backend {
	return unsupportedBackend{}
}

func (unsupportedBackend) Translate(text, sourceLang, targetLang string) (string, *pgerr.Error) {
	return "", pgerr.New(pgerr.NotSupported, "translation is not supported in this build")
}
