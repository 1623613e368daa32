package snap

import (
	"sort"

	"github.com/pixelgrab/pixelgrab/internal/capture"
)

// windowSource is the slice of a capture.Backend the detector needs;
// narrowed so tests can supply a fake without pulling in a real backend.
type windowSource interface {
	EnumerateWindows() ([]capture.WindowInfo, error)
}

// windowDetector implements Detector over the capture backend's window
// list: the only UI geometry every platform already exposes without a
// dedicated accessibility-tree walk (UIAutomation/AXUIElement/AT-SPI).
// Top-level windows only, no nested control hit-testing: among the windows
// containing the point, Depth ranks them by area, the smallest getting the
// greatest depth and the largest depth 0.
type windowDetector struct {
	source windowSource
}

// NewWindowDetector returns a Detector grounded on the given capture
// backend's EnumerateWindows, used as the context's default element
// detector so DetectElement/DetectElements have something real to answer
// with even without a platform accessibility backend.
func NewWindowDetector(source windowSource) Detector {
	return &windowDetector{source: source}
}

func (d *windowDetector) chain(x, y int) []ElementInfo {
	windows, err := d.source.EnumerateWindows()
	if err != nil {
		return nil
	}

	var hits []ElementInfo
	for _, w := range windows {
		if !w.IsVisible {
			continue
		}
		if w.W <= 0 || w.H <= 0 {
			continue
		}
		if x < w.X || x >= w.X+w.W || y < w.Y || y >= w.Y+w.H {
			continue
		}
		role := "window"
		name := w.Title
		if name == "" {
			name = w.ProcessName
		}
		hits = append(hits, ElementInfo{
			Rect: Rect{X: w.X, Y: w.Y, W: w.W, H: w.H},
			Name: name,
			Role: role,
		})
	}

	// Smallest area first: the innermost/topmost overlapping window is the
	// most precise hit, matching DetectElement's "deepest element" contract.
	sort.SliceStable(hits, func(i, j int) bool {
		return hits[i].Rect.W*hits[i].Rect.H < hits[j].Rect.W*hits[j].Rect.H
	})
	for i := range hits {
		hits[i].Depth = len(hits) - 1 - i
	}
	return hits
}

func (d *windowDetector) DetectElement(x, y int) (ElementInfo, bool) {
	chain := d.chain(x, y)
	if len(chain) == 0 {
		return ElementInfo{}, false
	}
	return chain[0], true
}

func (d *windowDetector) DetectElements(x, y, max int) []ElementInfo {
	chain := d.chain(x, y)
	if max > 0 && len(chain) > max {
		chain = chain[:max]
	}
	return chain
}
