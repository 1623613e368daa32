package pin

import (
	"sync"

	"github.com/fogleman/gg"
	"github.com/google/uuid"

	pgimage "github.com/pixelgrab/pixelgrab/internal/image"
	"github.com/pixelgrab/pixelgrab/internal/logging"
	"github.com/pixelgrab/pixelgrab/internal/pgerr"
)

var backendLog = logging.L("pin.backend")

// softwareFactory produces compositedBackend instances. Creating a real
// always-on-top native overlay window is inherently per-toolkit (Win32
// layered windows, NSPanel, an X11 override-redirect window with a
// compositing manager) and none of those windowing stacks are otherwise
// exercised by this module's capture/clipboard adapters, so the pin
// backend is a software composite: it tracks the same state a native
// pin window would (origin, size, opacity, visibility, content) and
// renders its content on demand. GetBackend's "hide all, capture,
// restore" path works identically whether or not a real window backs it.
type softwareFactory struct{}

func newPlatformFactory() platformFactory {
	return &softwareFactory{}
}

func (softwareFactory) createImagePin(img *pgimage.Image, x, y int) (Backend, *pgerr.Error) {
	if img == nil {
		return nil, pgerr.New(pgerr.InvalidParam, "nil pin image")
	}
	handle := uuid.NewString()
	backendLog.Debug("created image pin backend", "native_handle", handle)
	return &compositedBackend{
		x: x, y: y,
		w: img.Width(), h: img.Height(),
		opacity:      1,
		visible:      true,
		img:          img.Clone(),
		nativeHandle: handle,
	}, nil
}

func (softwareFactory) createTextPin(text string, x, y int) (Backend, *pgerr.Error) {
	const fontSize = 16.0
	w, h := measureText(text, fontSize)
	handle := uuid.NewString()
	backendLog.Debug("created text pin backend", "native_handle", handle)
	return &compositedBackend{
		x: x, y: y,
		w: w, h: h,
		opacity:      1,
		visible:      true,
		isText:       true,
		text:         text,
		nativeHandle: handle,
	}, nil
}

func measureText(text string, size float64) (w, h int) {
	ctx := gg.NewContext(1, 1)
	mw, mh := ctx.MeasureString(text)
	w = int(mw) + 1
	h = int(mh) + 1
	if w < 1 {
		w = 1
	}
	if h < 1 {
		h = 1
	}
	return w, h
}

// compositedBackend is a software-only pin window: an in-memory record of
// position/size/opacity/visibility plus either an owned image or a text
// string. nativeHandle stands in for the real platform window handle a
// Win32 layered window / NSPanel / X11 override-redirect backend would
// carry; it exists purely so log lines and diagnostics can name a pin
// backend independently of its manager-assigned id.
type compositedBackend struct {
	mu           sync.Mutex
	x, y         int
	w, h         int
	opacity      float64
	visible      bool
	isText       bool
	text         string
	img          *pgimage.Image
	nativeHandle string
}

func (b *compositedBackend) SetOpacity(opacity float64) *pgerr.Error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.opacity = opacity
	return nil
}

func (b *compositedBackend) SetPosition(x, y int) *pgerr.Error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.x, b.y = x, y
	return nil
}

func (b *compositedBackend) SetSize(w, h int) *pgerr.Error {
	if w <= 0 || h <= 0 {
		return pgerr.New(pgerr.InvalidParam, "pin size must be positive")
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	b.w, b.h = w, h
	return nil
}

func (b *compositedBackend) SetVisible(visible bool) *pgerr.Error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.visible = visible
	return nil
}

func (b *compositedBackend) GetInfo() Info {
	b.mu.Lock()
	defer b.mu.Unlock()
	return Info{
		X: b.x, Y: b.y,
		W: b.w, H: b.h,
		Opacity: b.opacity,
		Visible: b.visible,
		IsText:  b.isText,
	}
}

func (b *compositedBackend) GetImage() *pgimage.Image {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.isText || b.img == nil {
		return nil
	}
	return b.img.Clone()
}

func (b *compositedBackend) SetImage(img *pgimage.Image) *pgerr.Error {
	if img == nil {
		return pgerr.New(pgerr.InvalidParam, "nil image")
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.isText {
		return pgerr.New(pgerr.InvalidParam, "cannot set image content on a text pin")
	}
	b.img = img.Clone()
	b.w, b.h = img.Width(), img.Height()
	return nil
}

func (b *compositedBackend) Destroy() {
	b.mu.Lock()
	defer b.mu.Unlock()
	backendLog.Debug("destroyed pin backend", "native_handle", b.nativeHandle)
	b.img = nil
}
