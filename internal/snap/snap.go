// Package snap implements the element detector contract and the snap
// engine that finds the nearest UI element edge to the cursor, caching
// the most recent element chain to avoid re-querying on every small
// cursor movement.
package snap

import "time"

// Rect is an axis-aligned integer rectangle.
type Rect struct {
	X, Y, W, H int
}

// ElementInfo describes one UI element in a detection chain.
type ElementInfo struct {
	Rect  Rect
	Name  string
	Role  string
	Depth int
}

// Detector is the platform accessibility adapter contract.
type Detector interface {
	// DetectElement returns the deepest element containing (x, y), or ok=false.
	DetectElement(x, y int) (ElementInfo, bool)
	// DetectElements returns the full chain from deepest to root, skipping
	// zero-area elements, capped at max entries.
	DetectElements(x, y, max int) []ElementInfo
}

const (
	cacheInvalidateDistance = 5
	cacheInvalidateAge      = 100 * time.Millisecond
	// DefaultSnapDistance is the default maximum cursor-to-edge distance
	// that still counts as a snap.
	DefaultSnapDistance = 8
)

// Engine caches the most recent element chain keyed by cursor position and
// finds the nearest element edge within a snap distance.
type Engine struct {
	detector     Detector
	snapDistance int

	cached    []ElementInfo
	cacheX    int
	cacheY    int
	cacheAt   time.Time
	hasCache  bool
}

// NewEngine constructs a snap Engine with the default snap distance.
func NewEngine(detector Detector) *Engine {
	return &Engine{detector: detector, snapDistance: DefaultSnapDistance}
}

// SetSnapDistance overrides the default 8px snap distance.
func (e *Engine) SetSnapDistance(px int) {
	if px > 0 {
		e.snapDistance = px
	}
}

func (e *Engine) chainAt(x, y int, now time.Time) []ElementInfo {
	if e.hasCache {
		dx := x - e.cacheX
		dy := y - e.cacheY
		if dx < 0 {
			dx = -dx
		}
		if dy < 0 {
			dy = -dy
		}
		if dx <= cacheInvalidateDistance && dy <= cacheInvalidateDistance && now.Sub(e.cacheAt) < cacheInvalidateAge {
			return e.cached
		}
	}

	chain := e.detector.DetectElements(x, y, 64)
	e.cached = chain
	e.cacheX = x
	e.cacheY = y
	e.cacheAt = now
	e.hasCache = true
	return chain
}

func edgeDistance(r Rect, x, y int) int {
	if x >= r.X && x <= r.X+r.W && y >= r.Y && y <= r.Y+r.H {
		return 0
	}
	dx := 0
	if x < r.X {
		dx = r.X - x
	} else if x > r.X+r.W {
		dx = x - (r.X + r.W)
	}
	dy := 0
	if y < r.Y {
		dy = r.Y - y
	} else if y > r.Y+r.H {
		dy = y - (r.Y + r.H)
	}
	if dx > dy {
		return dx
	}
	return dy
}

// TrySnap finds the element with the smallest distance from (x, y) to any
// of its edges (0 when the cursor is inside), breaking ties by greater
// depth (innermost wins). Returns the element's rect if the closest
// distance is within the snap distance; otherwise ok is false.
func (e *Engine) TrySnap(x, y int) (Rect, bool) {
	chain := e.chainAt(x, y, time.Now())
	if len(chain) == 0 {
		return Rect{}, false
	}

	bestDist := -1
	bestDepth := -1
	var best Rect
	found := false

	for _, el := range chain {
		d := edgeDistance(el.Rect, x, y)
		if bestDist == -1 || d < bestDist || (d == bestDist && el.Depth > bestDepth) {
			bestDist = d
			bestDepth = el.Depth
			best = el.Rect
			found = true
		}
	}

	if !found || bestDist > e.snapDistance {
		return Rect{}, false
	}
	return best, true
}
