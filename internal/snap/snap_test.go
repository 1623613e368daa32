package snap

import "testing"

type fakeDetector struct {
	chain []ElementInfo
	calls int
}

func (f *fakeDetector) DetectElement(x, y int) (ElementInfo, bool) {
	if len(f.chain) == 0 {
		return ElementInfo{}, false
	}
	return f.chain[0], true
}

func (f *fakeDetector) DetectElements(x, y, max int) []ElementInfo {
	f.calls++
	return f.chain
}

func TestTrySnapInsideElement(t *testing.T) {
	d := &fakeDetector{chain: []ElementInfo{{Rect: Rect{X: 0, Y: 0, W: 100, H: 100}, Depth: 0}}}
	e := NewEngine(d)

	r, ok := e.TrySnap(50, 50)
	if !ok {
		t.Fatal("expected snap when cursor is inside the element")
	}
	if r.W != 100 || r.H != 100 {
		t.Fatalf("unexpected rect: %+v", r)
	}
}

func TestTrySnapWithinDistance(t *testing.T) {
	d := &fakeDetector{chain: []ElementInfo{{Rect: Rect{X: 0, Y: 0, W: 100, H: 100}, Depth: 0}}}
	e := NewEngine(d)

	_, ok := e.TrySnap(105, 50)
	if !ok {
		t.Fatal("expected snap within default 8px distance")
	}
}

func TestTrySnapBeyondDistance(t *testing.T) {
	d := &fakeDetector{chain: []ElementInfo{{Rect: Rect{X: 0, Y: 0, W: 100, H: 100}, Depth: 0}}}
	e := NewEngine(d)

	_, ok := e.TrySnap(200, 200)
	if ok {
		t.Fatal("expected no snap far from any element")
	}
}

func TestTrySnapTiesBrokenByDepth(t *testing.T) {
	d := &fakeDetector{chain: []ElementInfo{
		{Rect: Rect{X: 0, Y: 0, W: 100, H: 100}, Depth: 0},
		{Rect: Rect{X: 10, Y: 10, W: 40, H: 40}, Depth: 2},
	}}
	e := NewEngine(d)

	r, ok := e.TrySnap(25, 25)
	if !ok {
		t.Fatal("expected snap")
	}
	// The cursor is inside both rects, so both are at distance 0; the
	// deeper (inner) element must win the tie.
	if r != (Rect{X: 10, Y: 10, W: 40, H: 40}) {
		t.Fatalf("expected the deeper element's rect, got %+v", r)
	}
}

func TestCacheAvoidsRedundantDetection(t *testing.T) {
	d := &fakeDetector{chain: []ElementInfo{{Rect: Rect{X: 0, Y: 0, W: 100, H: 100}, Depth: 0}}}
	e := NewEngine(d)

	e.TrySnap(10, 10)
	e.TrySnap(12, 11) // within 5px, should reuse cache
	if d.calls != 1 {
		t.Fatalf("expected 1 detection call, got %d", d.calls)
	}

	e.TrySnap(30, 30) // beyond 5px, should re-detect
	if d.calls != 2 {
		t.Fatalf("expected 2 detection calls, got %d", d.calls)
	}
}
