package history

import "testing"

func fakeClock(t *int64) func() int64 {
	return func() int64 {
		*t++
		return *t
	}
}

func TestRecordNewestFirst(t *testing.T) {
	var clock int64
	h := New(fakeClock(&clock))

	e1 := h.Record(0, 0, 10, 10)
	e2 := h.Record(1, 1, 20, 20)

	got, ok := h.GetEntry(0)
	if !ok || got.ID != e2.ID {
		t.Fatalf("GetEntry(0) = %+v, want most recent entry %+v", got, e2)
	}
	got, ok = h.GetEntry(1)
	if !ok || got.ID != e1.ID {
		t.Fatalf("GetEntry(1) = %+v, want oldest entry %+v", got, e1)
	}
}

func TestIdsMonotonicNeverReused(t *testing.T) {
	var clock int64
	h := New(fakeClock(&clock))

	e1 := h.Record(0, 0, 1, 1)
	e2 := h.Record(0, 0, 1, 1)
	if e2.ID <= e1.ID {
		t.Fatalf("expected monotonically increasing ids, got %d then %d", e1.ID, e2.ID)
	}
}

func TestCapacityTrimsTail(t *testing.T) {
	var clock int64
	h := New(fakeClock(&clock))
	h.SetMaxCount(3)

	for i := 0; i < 5; i++ {
		h.Record(i, i, 1, 1)
	}
	if h.Count() != 3 {
		t.Fatalf("Count() = %d, want 3", h.Count())
	}
	newest, _ := h.GetEntry(0)
	if newest.X != 4 {
		t.Fatalf("newest entry X = %d, want 4", newest.X)
	}
}

func TestFindById(t *testing.T) {
	var clock int64
	h := New(fakeClock(&clock))
	e := h.Record(5, 5, 5, 5)

	got, ok := h.FindById(e.ID)
	if !ok || got.X != 5 {
		t.Fatalf("FindById(%d) = %+v, ok=%v", e.ID, got, ok)
	}

	if _, ok := h.FindById(9999); ok {
		t.Fatal("expected FindById to fail for unknown id")
	}
}

func TestClear(t *testing.T) {
	var clock int64
	h := New(fakeClock(&clock))
	h.Record(0, 0, 1, 1)
	h.Clear()
	if h.Count() != 0 {
		t.Fatalf("Count() = %d after Clear, want 0", h.Count())
	}
}
