package audio

import "testing"

func TestRingBufferDrainClearsQueue(t *testing.T) {
	var r ringBuffer
	r.configure(44100, 2)
	r.push([]byte{1, 2, 3, 4})
	samples := r.drain()
	if samples.SR != 44100 || samples.CH != 2 {
		t.Fatalf("expected sr=44100 ch=2, got sr=%d ch=%d", samples.SR, samples.CH)
	}
	if len(samples.Data) != 4 {
		t.Fatalf("expected 4 bytes, got %d", len(samples.Data))
	}

	second := r.drain()
	if len(second.Data) != 0 {
		t.Fatalf("expected drained queue, got %d leftover bytes", len(second.Data))
	}
}

func TestRingBufferAccumulatesAcrossPushes(t *testing.T) {
	var r ringBuffer
	r.configure(16000, 1)
	r.push([]byte{1, 2})
	r.push([]byte{3, 4})
	samples := r.drain()
	if len(samples.Data) != 4 {
		t.Fatalf("expected 4 accumulated bytes, got %d", len(samples.Data))
	}
}

func TestNewReturnsNonNilBackend(t *testing.T) {
	b := New()
	if b == nil {
		t.Fatalf("expected non-nil backend")
	}
}
