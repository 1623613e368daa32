// Package pgcontext is the composition root: the single per-context owner
// of the capture backend, element detector, snap engine, history, and
// pin-window manager, plus the lazily-constructed clipboard, audio, OCR,
// and translate backends. It carries the last-error slot every C ABI call
// reads via pixelgrab_get_last_error(_message), mirroring the teacher's
// pattern of one composition-root struct wiring a fleet of platform
// adapters (internal/remote/desktop.Session wiring capturer/encoder/input).
package pgcontext

import (
	"context"
	"sync"
	"time"

	"github.com/disintegration/imaging"

	"github.com/pixelgrab/pixelgrab/internal/annotation"
	"github.com/pixelgrab/pixelgrab/internal/audio"
	"github.com/pixelgrab/pixelgrab/internal/capture"
	"github.com/pixelgrab/pixelgrab/internal/clipboard"
	"github.com/pixelgrab/pixelgrab/internal/color"
	"github.com/pixelgrab/pixelgrab/internal/history"
	pgimage "github.com/pixelgrab/pixelgrab/internal/image"
	"github.com/pixelgrab/pixelgrab/internal/logging"
	"github.com/pixelgrab/pixelgrab/internal/ocr"
	"github.com/pixelgrab/pixelgrab/internal/pgerr"
	"github.com/pixelgrab/pixelgrab/internal/pin"
	"github.com/pixelgrab/pixelgrab/internal/recorder"
	"github.com/pixelgrab/pixelgrab/internal/secmem"
	"github.com/pixelgrab/pixelgrab/internal/snap"
	"github.com/pixelgrab/pixelgrab/internal/translate"
	"github.com/pixelgrab/pixelgrab/internal/watermark"
	"github.com/pixelgrab/pixelgrab/internal/workerpool"
)

// screenCapturePoolSize bounds how many screens are captured concurrently
// from CaptureAllScreens. Multi-monitor rigs rarely exceed a handful of
// heads, so a small fixed pool avoids spawning one goroutine per screen.
const screenCapturePoolSize = 4

var log = logging.L("context")

// Context is the composition root. It is not internally synchronized for
// concurrent use of the SAME context from multiple goroutines (per spec
// §5, that is the caller's bug); the last-error slot alone is guarded so a
// debug goroutine may safely poll it without tripping the race detector.
type Context struct {
	capture  capture.Backend
	detector snap.Detector
	snapper  *snap.Engine
	history  *history.History
	pins     *pin.Manager

	clipboardOnce sync.Once
	clipboardImpl clipboard.Reader

	audioOnce sync.Once
	audioImpl audio.Backend

	ocrOnce sync.Once
	ocrImpl ocr.Backend

	translateOnce sync.Once
	translateImpl translate.Backend
	translateCfg  translateCfgInternal

	errMu   sync.Mutex
	lastErr *pgerr.Error
}

// TranslateConfig holds the credentials passed to SetTranslateConfig.
type TranslateConfig struct {
	Provider  string
	AppID     string
	SecretKey string
}

// translateCfgInternal mirrors TranslateConfig but keeps the secret out of
// plain string form once stored, so a stray %#v of the context never
// leaks it into logs.
type translateCfgInternal struct {
	Provider  string
	AppID     string
	SecretKey *secmem.SecureString
}

// New creates a context and eagerly initializes the capture backend,
// element detector, and snap engine, matching "Capture backend, element
// detector, and snap engine are created on Initialize" (§4.11). All other
// subsystems are lazy.
func New() (*Context, *pgerr.Error) {
	backend, err := capture.New()
	if err != nil {
		return nil, pgerr.New(pgerr.NotInitialized, err.Error())
	}
	if err := backend.Initialize(); err != nil {
		return nil, pgerr.New(pgerr.NotInitialized, err.Error())
	}

	ctx := &Context{
		capture: backend,
		history: history.New(func() int64 { return time.Now().Unix() }),
		pins:    pin.NewManager(),
	}
	ctx.detector = snap.NewWindowDetector(backend)
	ctx.snapper = snap.NewEngine(ctx.detector)
	return ctx, nil
}

// Destroy releases the capture backend and tears down every pin window.
// Idempotent, matching the backend's own Shutdown contract.
func (c *Context) Destroy() {
	c.pins.DestroyAll()
	c.capture.Shutdown()
	if c.audioImpl != nil {
		c.audioImpl.Close()
	}
	if c.translateCfg.SecretKey != nil {
		c.translateCfg.SecretKey.Zero()
	}
}

// --- error slot -------------------------------------------------------

// SetError records a failure for GetLastError/GetLastErrorMessage to read.
// A nil err clears the slot, matching "every successful operation clears
// it".
func (c *Context) SetError(err *pgerr.Error) {
	c.errMu.Lock()
	c.lastErr = err
	c.errMu.Unlock()
	if err != nil {
		log.Warn("operation failed", "code", err.Code, "message", err.Message)
	}
}

// LastError returns the last recorded error, or nil if the previous
// operation succeeded.
func (c *Context) LastError() *pgerr.Error {
	c.errMu.Lock()
	defer c.errMu.Unlock()
	return c.lastErr
}

// track records err in the last-error slot (or clears the slot when err
// is nil) and returns it. Every context method funnels through this so the shim
// layer never has to remember to call SetError itself.
func (c *Context) track(err *pgerr.Error) *pgerr.Error {
	c.SetError(err)
	return err
}

// --- screens / capture -------------------------------------------------

// GetScreens returns every connected display.
func (c *Context) GetScreens() ([]capture.ScreenInfo, *pgerr.Error) {
	screens, err := c.capture.GetScreens()
	if err != nil {
		return nil, c.track(pgerr.New(pgerr.CaptureFailed, err.Error()))
	}
	c.track(nil)
	return screens, nil
}

// GetScreenInfo returns the screen at the given index.
func (c *Context) GetScreenInfo(index int) (capture.ScreenInfo, *pgerr.Error) {
	screens, pgErr := c.GetScreens()
	if pgErr != nil {
		return capture.ScreenInfo{}, pgErr
	}
	if index < 0 || index >= len(screens) {
		return capture.ScreenInfo{}, c.track(pgerr.New(pgerr.InvalidParam, "screen index out of range"))
	}
	c.track(nil)
	return screens[index], nil
}

// CaptureScreen captures an entire display.
func (c *Context) CaptureScreen(index int) (*pgimage.Image, *pgerr.Error) {
	img, err := c.capture.CaptureScreen(index)
	if err != nil || img == nil {
		msg := "capture failed"
		if err != nil {
			msg = err.Error()
		}
		return nil, c.track(pgerr.New(pgerr.CaptureFailed, msg))
	}
	c.track(nil)
	return img, nil
}

// CaptureAllScreens captures every connected display concurrently, bounded
// by screenCapturePoolSize workers. The backend's CaptureScreen must be
// safe for concurrent calls with distinct indices; platform backends only
// read per-monitor state so this holds in practice. Results preserve
// screen order regardless of completion order.
func (c *Context) CaptureAllScreens() ([]*pgimage.Image, *pgerr.Error) {
	screens, pgErr := c.GetScreens()
	if pgErr != nil {
		return nil, pgErr
	}

	results := make([]*pgimage.Image, len(screens))
	errs := make([]error, len(screens))

	pool := workerpool.New(screenCapturePoolSize, len(screens))
	var wg sync.WaitGroup
	for i := range screens {
		i := i
		wg.Add(1)
		submitted := pool.Submit(func() {
			defer wg.Done()
			img, err := c.capture.CaptureScreen(i)
			results[i] = img
			errs[i] = err
		})
		if !submitted {
			wg.Done()
			img, err := c.capture.CaptureScreen(i)
			results[i], errs[i] = img, err
		}
	}
	wg.Wait()
	pool.Shutdown(context.Background())

	for i, err := range errs {
		if err != nil || results[i] == nil {
			msg := "capture failed"
			if err != nil {
				msg = err.Error()
			}
			return nil, c.track(pgerr.New(pgerr.CaptureFailed, msg))
		}
	}
	c.track(nil)
	return results, nil
}

// CaptureRegion captures an arbitrary rectangle of the virtual desktop and
// records it in history.
func (c *Context) CaptureRegion(x, y, w, h int) (*pgimage.Image, *pgerr.Error) {
	if w <= 0 || h <= 0 {
		return nil, c.track(pgerr.New(pgerr.InvalidParam, "region width/height must be positive"))
	}
	img, err := c.capture.CaptureRegion(x, y, w, h)
	if err != nil || img == nil {
		msg := "capture failed"
		if err != nil {
			msg = err.Error()
		}
		return nil, c.track(pgerr.New(pgerr.CaptureFailed, msg))
	}
	c.history.Record(x, y, w, h)
	c.track(nil)
	return img, nil
}

// CaptureWindow captures a single top-level window and records its rect
// in history.
func (c *Context) CaptureWindow(nativeWindowID uintptr) (*pgimage.Image, *pgerr.Error) {
	img, err := c.capture.CaptureWindow(nativeWindowID)
	if err != nil || img == nil {
		msg := "capture failed"
		if err != nil {
			msg = err.Error()
		}
		return nil, c.track(pgerr.New(pgerr.CaptureFailed, msg))
	}
	windows, _ := c.capture.EnumerateWindows()
	for _, w := range windows {
		if w.ID == nativeWindowID {
			c.history.Record(w.X, w.Y, w.W, w.H)
			break
		}
	}
	c.track(nil)
	return img, nil
}

// EnumerateWindows returns the platform's visible top-level windows.
func (c *Context) EnumerateWindows() ([]capture.WindowInfo, *pgerr.Error) {
	windows, err := c.capture.EnumerateWindows()
	if err != nil {
		return nil, c.track(pgerr.New(pgerr.CaptureFailed, err.Error()))
	}
	c.track(nil)
	return windows, nil
}

// EnableDpiAwareness enables per-monitor DPI awareness.
func (c *Context) EnableDpiAwareness() bool {
	ok := c.capture.EnableDpiAwareness()
	c.track(nil)
	return ok
}

// GetDpiInfo returns DPI scaling for the given screen.
func (c *Context) GetDpiInfo(screenIndex int) (capture.DpiInfo, *pgerr.Error) {
	info, err := c.capture.GetDpiInfo(screenIndex)
	if err != nil {
		return capture.DpiInfo{}, c.track(pgerr.New(pgerr.InvalidParam, err.Error()))
	}
	c.track(nil)
	return info, nil
}

// LogicalToPhysical converts logical to physical pixel coordinates using
// the given screen's DPI scale.
func (c *Context) LogicalToPhysical(screenIndex int, lx, ly float64) (px, py float64, pgErr *pgerr.Error) {
	dpi, pgErr := c.GetDpiInfo(screenIndex)
	if pgErr != nil {
		return 0, 0, pgErr
	}
	px, py = capture.LogicalToPhysical(dpi, lx, ly)
	return px, py, nil
}

// PhysicalToLogical converts physical pixel to logical coordinates using
// the given screen's DPI scale.
func (c *Context) PhysicalToLogical(screenIndex int, px, py float64) (lx, ly float64, pgErr *pgerr.Error) {
	dpi, pgErr := c.GetDpiInfo(screenIndex)
	if pgErr != nil {
		return 0, 0, pgErr
	}
	lx, ly = capture.PhysicalToLogical(dpi, px, py)
	return lx, ly, nil
}

// PickColor samples the pixel color at virtual screen coordinates (x, y)
// by capturing a 1x1 region and reading it back.
func (c *Context) PickColor(x, y int) (color.Color, *pgerr.Error) {
	img, pgErr := c.CaptureRegionSilent(x, y, 1, 1)
	if pgErr != nil {
		return color.Color{}, pgErr
	}
	col, colErr := capture.PickColor(img, 0, 0)
	if colErr != nil {
		return color.Color{}, c.track(colErr)
	}
	c.track(nil)
	return col, nil
}

// CaptureRegionSilent is CaptureRegion without the history side-effect,
// used internally by color-picker/magnifier helpers that capture tiny
// probe regions nobody would want cluttering the user's capture history.
func (c *Context) CaptureRegionSilent(x, y, w, h int) (*pgimage.Image, *pgerr.Error) {
	if w <= 0 || h <= 0 {
		return nil, c.track(pgerr.New(pgerr.InvalidParam, "region width/height must be positive"))
	}
	img, err := c.capture.CaptureRegion(x, y, w, h)
	if err != nil || img == nil {
		msg := "capture failed"
		if err != nil {
			msg = err.Error()
		}
		return nil, c.track(pgerr.New(pgerr.CaptureFailed, msg))
	}
	c.track(nil)
	return img, nil
}

// GetMagnifier captures a (radius*2+1) square around (x, y) and upsamples
// it by magnification using nearest-neighbor resampling, matching a
// pixel-level magnifier loupe (no interpolation blur at the sampled edge).
func (c *Context) GetMagnifier(x, y, radius, magnification int) (*pgimage.Image, *pgerr.Error) {
	if radius <= 0 {
		return nil, c.track(pgerr.New(pgerr.InvalidParam, "radius must be positive"))
	}
	if magnification < 2 || magnification > 32 {
		return nil, c.track(pgerr.New(pgerr.InvalidParam, "magnification must be in [2,32]"))
	}
	side := radius*2 + 1
	src, pgErr := c.CaptureRegionSilent(x-radius, y-radius, side, side)
	if pgErr != nil {
		return nil, pgErr
	}

	rgba := bgraToGoImage(src)
	outSide := side * magnification
	resized := imaging.Resize(rgba, outSide, outSide, imaging.NearestNeighbor)

	out, imgErr := pgimage.Create(outSide, outSide, pgimage.FormatBGRA8)
	if imgErr != nil {
		return nil, c.track(imgErr)
	}
	goImageToBGRA(resized, out)
	c.track(nil)
	return out, nil
}

// --- annotation ----------------------------------------------------------

// CreateAnnotation opens an annotation session over a deep copy of base.
func (c *Context) CreateAnnotation(base *pgimage.Image) (*annotation.Session, *pgerr.Error) {
	session, err := annotation.NewSession(base)
	c.track(err)
	return session, err
}

// --- element detection / snap -------------------------------------------

// DetectElement returns the deepest element at (x, y).
func (c *Context) DetectElement(x, y int) (snap.ElementInfo, *pgerr.Error) {
	info, ok := c.detector.DetectElement(x, y)
	if !ok {
		return snap.ElementInfo{}, c.track(pgerr.New(pgerr.NoElement, "no element at point"))
	}
	c.track(nil)
	return info, nil
}

// DetectElements returns the full hit-test chain at (x, y), deepest first.
func (c *Context) DetectElements(x, y, max int) []snap.ElementInfo {
	chain := c.detector.DetectElements(x, y, max)
	c.track(nil)
	return chain
}

// SnapToElement finds the nearest element edge within snapDistance pixels
// (0 falls back to the engine's default of 8px).
func (c *Context) SnapToElement(x, y, snapDistance int) (snap.Rect, *pgerr.Error) {
	if snapDistance > 0 {
		c.snapper.SetSnapDistance(snapDistance)
	} else {
		c.snapper.SetSnapDistance(snap.DefaultSnapDistance)
	}
	rect, ok := c.snapper.TrySnap(x, y)
	if !ok {
		return snap.Rect{}, c.track(pgerr.New(pgerr.NoElement, "nothing within snap distance"))
	}
	c.track(nil)
	return rect, nil
}

// --- history ---------------------------------------------------------

// HistoryCount returns the number of retained capture history entries.
func (c *Context) HistoryCount() int { return c.history.Count() }

// HistoryGetEntry reads by recency index (0 = most recent).
func (c *Context) HistoryGetEntry(index int) (history.Entry, *pgerr.Error) {
	e, ok := c.history.GetEntry(index)
	if !ok {
		return history.Entry{}, c.track(pgerr.New(pgerr.HistoryEmpty, "history index out of range"))
	}
	c.track(nil)
	return e, nil
}

// HistoryRecapture re-captures the region recorded under historyID.
func (c *Context) HistoryRecapture(historyID int) (*pgimage.Image, *pgerr.Error) {
	e, ok := c.history.FindById(historyID)
	if !ok {
		return nil, c.track(pgerr.New(pgerr.HistoryEmpty, "unknown history id"))
	}
	return c.CaptureRegion(e.X, e.Y, e.W, e.H)
}

// HistoryRecaptureLast re-captures the most recently recorded region.
func (c *Context) HistoryRecaptureLast() (*pgimage.Image, *pgerr.Error) {
	e, ok := c.history.GetEntry(0)
	if !ok {
		return nil, c.track(pgerr.New(pgerr.HistoryEmpty, "history is empty"))
	}
	return c.CaptureRegion(e.X, e.Y, e.W, e.H)
}

// HistoryClear empties the history buffer.
func (c *Context) HistoryClear() { c.history.Clear() }

// HistorySetMaxCount resizes the FIFO capacity.
func (c *Context) HistorySetMaxCount(n int) { c.history.SetMaxCount(n) }

// --- pin windows ----------------------------------------------------

// Pins returns the context's pin-window manager.
func (c *Context) Pins() *pin.Manager { return c.pins }

// PinClipboard pins the current clipboard content (image or text).
func (c *Context) PinClipboard(x, y int) int {
	return c.pins.PinClipboard(c.ClipboardReader(), x, y)
}

// CaptureScreenExcludePins hides every pin window, captures the screen,
// then restores prior visibility — the "capture excluding pins" path of
// §4.7.
func (c *Context) CaptureScreenExcludePins(index int) (*pgimage.Image, *pgerr.Error) {
	return c.withPinsHidden(func() (*pgimage.Image, *pgerr.Error) {
		return c.CaptureScreen(index)
	})
}

// CaptureRegionExcludePins is the region-capture equivalent.
func (c *Context) CaptureRegionExcludePins(x, y, w, h int) (*pgimage.Image, *pgerr.Error) {
	return c.withPinsHidden(func() (*pgimage.Image, *pgerr.Error) {
		return c.CaptureRegion(x, y, w, h)
	})
}

func (c *Context) withPinsHidden(capture func() (*pgimage.Image, *pgerr.Error)) (*pgimage.Image, *pgerr.Error) {
	prior := make(map[int]bool)
	for _, info := range c.pins.Enumerate(1 << 20) {
		prior[info.ID] = info.Visible
	}
	c.pins.SetVisibleAll(false)
	time.Sleep(time.Millisecond)
	img, pgErr := capture()
	for id, visible := range prior {
		c.pins.SetVisible(id, visible)
	}
	return img, pgErr
}

// --- clipboard --------------------------------------------------------

// ClipboardReader returns the lazily-constructed clipboard reader.
func (c *Context) ClipboardReader() clipboard.Reader {
	c.clipboardOnce.Do(func() { c.clipboardImpl = clipboard.New() })
	return c.clipboardImpl
}

// ClipboardFormat reports the current clipboard content type.
func (c *Context) ClipboardFormat() clipboard.ContentType {
	content, err := c.ClipboardReader().Read()
	if err != nil {
		c.track(err)
		return clipboard.ContentEmpty
	}
	c.track(nil)
	return content.Type
}

// ClipboardImage reads an image from the clipboard, or nil if it does not
// currently hold one.
func (c *Context) ClipboardImage() (*pgimage.Image, *pgerr.Error) {
	content, err := c.ClipboardReader().Read()
	if err != nil {
		return nil, c.track(err)
	}
	if content.Type != clipboard.ContentImage {
		return nil, c.track(pgerr.New(pgerr.ClipboardFormatUnsupported, "clipboard does not hold an image"))
	}
	c.track(nil)
	return content.Image, nil
}

// ClipboardText reads text from the clipboard, or "" if it does not
// currently hold any.
func (c *Context) ClipboardText() (string, *pgerr.Error) {
	content, err := c.ClipboardReader().Read()
	if err != nil {
		return "", c.track(err)
	}
	if content.Type != clipboard.ContentText {
		return "", c.track(pgerr.New(pgerr.ClipboardFormatUnsupported, "clipboard does not hold text"))
	}
	c.track(nil)
	return content.Text, nil
}

// --- recorder ----------------------------------------------------------

// NewRecorder constructs an idle recorder. It is not bound to this
// context's capture backend; auto-capture callers pass CaptureBackend()
// in the recorder's Config.
func (c *Context) NewRecorder() *recorder.Recorder { return recorder.New() }

// RecorderIsSupported reports whether the software encoder pipeline is
// available; always true since the CPU path has no platform dependency.
func (c *Context) RecorderIsSupported() bool { return true }

// CaptureBackend exposes the context's capture backend for recorder
// auto-capture configuration.
func (c *Context) CaptureBackend() capture.Backend { return c.capture }

// --- watermark -----------------------------------------------------------

// WatermarkIsSupported reports whether watermark rendering is available;
// always true since it only depends on internal/annorender.
func (c *Context) WatermarkIsSupported() bool { return true }

// ApplyTextWatermark renders cfg onto img in place.
func (c *Context) ApplyTextWatermark(img *pgimage.Image, cfg watermark.TextConfig) *pgerr.Error {
	err := watermark.ApplyTextWatermark(img, cfg)
	c.track(err)
	return err
}

// ApplyImageWatermark alpha-blends overlay onto target in place.
func (c *Context) ApplyImageWatermark(target, overlay *pgimage.Image, x, y int, opacity float64) *pgerr.Error {
	err := watermark.ApplyImageWatermark(target, overlay, x, y, opacity)
	c.track(err)
	return err
}

// --- audio ---------------------------------------------------------------

// AudioBackend returns the lazily-constructed platform audio backend.
func (c *Context) AudioBackend() audio.Backend {
	c.audioOnce.Do(func() { c.audioImpl = audio.New() })
	return c.audioImpl
}

// AudioIsSupported reports whether the platform audio backend answers.
func (c *Context) AudioIsSupported() bool {
	_, pgErr := c.AudioBackend().EnumerateDevices()
	return pgErr == nil
}

// AudioEnumerateDevices lists capturable devices.
func (c *Context) AudioEnumerateDevices() ([]audio.DeviceInfo, *pgerr.Error) {
	devices, err := c.AudioBackend().EnumerateDevices()
	c.track(err)
	return devices, err
}

// AudioGetDefaultDevice returns the default input or output device.
func (c *Context) AudioGetDefaultDevice(isInput bool) (audio.DeviceInfo, *pgerr.Error) {
	devices, pgErr := c.AudioEnumerateDevices()
	if pgErr != nil {
		return audio.DeviceInfo{}, pgErr
	}
	for _, d := range devices {
		if d.IsDefault && d.IsInput == isInput {
			c.track(nil)
			return d, nil
		}
	}
	return audio.DeviceInfo{}, c.track(pgerr.New(pgerr.NotSupported, "no default device for that direction"))
}

// --- OCR / translate (stub collaborators, §6 non-goals) -------------------

// OCRBackend returns the lazily-constructed OCR backend (always the
// NotSupported stub — OCR is an explicit non-goal).
func (c *Context) OCRBackend() ocr.Backend {
	c.ocrOnce.Do(func() { c.ocrImpl = ocr.New() })
	return c.ocrImpl
}

// OCRIsSupported reports whether OCR is available.
func (c *Context) OCRIsSupported() bool { return false }

// OCRRecognize runs OCR over img. Always NotSupported in this build.
func (c *Context) OCRRecognize(img *pgimage.Image, language string) (string, *pgerr.Error) {
	text, err := c.OCRBackend().RecognizeText(img.Bytes(), img.Width(), img.Height())
	c.track(err)
	return text, err
}

// TranslateBackend returns the lazily-constructed translation backend
// (always the NotSupported stub — online translation is an explicit
// non-goal).
func (c *Context) TranslateBackend() translate.Backend {
	c.translateOnce.Do(func() { c.translateImpl = translate.New() })
	return c.translateImpl
}

// SetTranslateConfig records provider credentials. Since translation is
// never actually supported in this build, this only stores the values
// (without validating them) and has no further effect. The previous secret, if any, is zeroed
// before being replaced.
func (c *Context) SetTranslateConfig(cfg TranslateConfig) *pgerr.Error {
	if c.translateCfg.SecretKey != nil {
		c.translateCfg.SecretKey.Zero()
	}
	c.translateCfg = translateCfgInternal{
		Provider:  cfg.Provider,
		AppID:     cfg.AppID,
		SecretKey: secmem.NewSecureString(cfg.SecretKey),
	}
	c.track(nil)
	return nil
}

// TranslateIsSupported reports whether translation credentials are
// configured AND a provider actually answers; always false in this build.
func (c *Context) TranslateIsSupported() bool { return false }

// TranslateText translates text. Always NotSupported in this build.
func (c *Context) TranslateText(text, sourceLang, targetLang string) (string, *pgerr.Error) {
	out, err := c.TranslateBackend().Translate(text, sourceLang, targetLang)
	c.track(err)
	return out, err
}
