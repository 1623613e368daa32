// Package pin implements the pin-window manager: a map of monotonic ids to
// per-window platform backends, modeled on the teacher's session-manager
// pattern (map + mutex + monotonic id counter).
package pin

import (
	"sync"

	"github.com/pixelgrab/pixelgrab/internal/clipboard"
	pgimage "github.com/pixelgrab/pixelgrab/internal/image"
	"github.com/pixelgrab/pixelgrab/internal/logging"
	"github.com/pixelgrab/pixelgrab/internal/pgerr"
)

var log = logging.L("pin")

// Info mirrors PinInfo: the externally observable state of one pin window.
type Info struct {
	ID      int
	X, Y    int
	W, H    int
	Opacity float64
	Visible bool
	IsText  bool
}

// Backend is the platform adapter for a single pin window.
type Backend interface {
	SetOpacity(opacity float64) *pgerr.Error
	SetPosition(x, y int) *pgerr.Error
	SetSize(w, h int) *pgerr.Error
	SetVisible(visible bool) *pgerr.Error
	GetInfo() Info
	// GetImage returns a deep copy of the current image content, or nil
	// for text pins.
	GetImage() *pgimage.Image
	// SetImage fails for text pins.
	SetImage(img *pgimage.Image) *pgerr.Error
	Destroy()
}

// platformFactory is implemented per-platform to create the backing
// native window. Platforms without a windowing backend return a
// software-composited Backend so the manager still functions headlessly.
type platformFactory interface {
	createImagePin(img *pgimage.Image, x, y int) (Backend, *pgerr.Error)
	createTextPin(text string, x, y int) (Backend, *pgerr.Error)
}

// Manager owns the id -> Backend map for one context. Ids are never reused.
type Manager struct {
	mu      sync.Mutex
	pins    map[int]Backend
	nextID  int
	factory platformFactory
}

// NewManager constructs a Manager using the platform's pin backend factory.
func NewManager() *Manager {
	return &Manager{
		pins:    make(map[int]Backend),
		nextID:  1,
		factory: newPlatformFactory(),
	}
}

// PinImage creates a platform backend for an image pin at (x, y) and
// returns its id (0 on failure).
func (m *Manager) PinImage(img *pgimage.Image, x, y int) int {
	if img == nil {
		return 0
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	backend, pgErr := m.factory.createImagePin(img, x, y)
	if pgErr != nil {
		log.Warn("PinImage failed", "error", pgErr.Error())
		return 0
	}
	id := m.nextID
	m.nextID++
	m.pins[id] = backend
	return id
}

// PinText creates a text pin whose dimensions are platform-computed.
func (m *Manager) PinText(text string, x, y int) int {
	m.mu.Lock()
	defer m.mu.Unlock()

	backend, pgErr := m.factory.createTextPin(text, x, y)
	if pgErr != nil {
		log.Warn("PinText failed", "error", pgErr.Error())
		return 0
	}
	id := m.nextID
	m.nextID++
	m.pins[id] = backend
	return id
}

// PinClipboard reads the current clipboard content and pins it: an image
// becomes an image pin, text becomes a text pin, anything else (or a read
// failure) fails and returns 0.
func (m *Manager) PinClipboard(reader clipboard.Reader, x, y int) int {
	content, pgErr := reader.Read()
	if pgErr != nil {
		log.Warn("PinClipboard read failed", "error", pgErr.Error())
		return 0
	}
	switch content.Type {
	case clipboard.ContentImage:
		return m.PinImage(content.Image, x, y)
	case clipboard.ContentText:
		return m.PinText(content.Text, x, y)
	default:
		return 0
	}
}

// DestroyPin tears down the backend and removes the map entry.
func (m *Manager) DestroyPin(id int) *pgerr.Error {
	m.mu.Lock()
	defer m.mu.Unlock()
	backend, ok := m.pins[id]
	if !ok {
		return pgerr.New(pgerr.WindowCreateFailed, "no pin with that id")
	}
	backend.Destroy()
	delete(m.pins, id)
	return nil
}

// DestroyAll drains the map.
func (m *Manager) DestroyAll() {
	m.mu.Lock()
	defer m.mu.Unlock()
	for id, backend := range m.pins {
		backend.Destroy()
		delete(m.pins, id)
	}
}

// Count reports the current number of pins.
func (m *Manager) Count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.pins)
}

// Enumerate returns Info for every live pin, in no particular order, up to
// maxCount entries.
func (m *Manager) Enumerate(maxCount int) []Info {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]Info, 0, len(m.pins))
	for id, backend := range m.pins {
		if len(out) >= maxCount {
			break
		}
		info := backend.GetInfo()
		info.ID = id
		out = append(out, info)
	}
	return out
}

func (m *Manager) get(id int) (Backend, *pgerr.Error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	backend, ok := m.pins[id]
	if !ok {
		return nil, pgerr.New(pgerr.WindowCreateFailed, "no pin with that id")
	}
	return backend, nil
}

// GetBackend returns an internal borrow used by the capture-excluding-pins
// path.
func (m *Manager) GetBackend(id int) (Backend, *pgerr.Error) {
	return m.get(id)
}

func (m *Manager) SetOpacity(id int, opacity float64) *pgerr.Error {
	b, err := m.get(id)
	if err != nil {
		return err
	}
	return b.SetOpacity(clamp01(opacity))
}

func (m *Manager) SetPosition(id, x, y int) *pgerr.Error {
	b, err := m.get(id)
	if err != nil {
		return err
	}
	return b.SetPosition(x, y)
}

func (m *Manager) SetSize(id, w, h int) *pgerr.Error {
	b, err := m.get(id)
	if err != nil {
		return err
	}
	return b.SetSize(w, h)
}

func (m *Manager) SetVisible(id int, visible bool) *pgerr.Error {
	b, err := m.get(id)
	if err != nil {
		return err
	}
	return b.SetVisible(visible)
}

func (m *Manager) GetInfo(id int) (Info, *pgerr.Error) {
	b, err := m.get(id)
	if err != nil {
		return Info{}, err
	}
	info := b.GetInfo()
	info.ID = id
	return info, nil
}

// GetImage returns a deep copy of the pin's current image content, or nil
// for text pins.
func (m *Manager) GetImage(id int) (*pgimage.Image, *pgerr.Error) {
	b, err := m.get(id)
	if err != nil {
		return nil, err
	}
	return b.GetImage(), nil
}

// SetImage fails for text pins.
func (m *Manager) SetImage(id int, img *pgimage.Image) *pgerr.Error {
	b, err := m.get(id)
	if err != nil {
		return err
	}
	return b.SetImage(img)
}

// Duplicate creates a new image pin with a copy of the source's current
// image at (origin+(dx,dy)). Fails for text pins.
func (m *Manager) Duplicate(id int, dx, dy int) int {
	b, err := m.get(id)
	if err != nil {
		return 0
	}
	img := b.GetImage()
	if img == nil {
		return 0
	}
	info := b.GetInfo()
	return m.PinImage(img, info.X+dx, info.Y+dy)
}

// SetVisibleAll toggles every backend.
func (m *Manager) SetVisibleAll(visible bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, b := range m.pins {
		b.SetVisible(visible)
	}
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
