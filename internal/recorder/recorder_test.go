package recorder

import (
	"bytes"
	"os"
	"testing"

	pgimage "github.com/pixelgrab/pixelgrab/internal/image"
)

type fakeEncoder struct {
	calls int
}

func (f *fakeEncoder) EncodeBGRA(bgra []byte, width, height int, forceKeyframe bool) ([]byte, bool, []byte, []byte, error) {
	f.calls++
	return []byte{0, 0, 0, 1, 0x65, byte(f.calls)}, f.calls == 1, []byte{0x67, 0x64, 0, 0x1f}, []byte{0x68, 0xeb}, nil
}

func (f *fakeEncoder) Close() error { return nil }

func newTestRecorder(t *testing.T, cfg Config) *Recorder {
	t.Helper()
	r := New()
	r.state = StateIdle
	r.cfg = cfg
	r.width = roundUpEven(cfg.W)
	r.height = roundUpEven(cfg.H)
	r.enc = &fakeEncoder{}
	return r
}

func frame(t *testing.T, w, h int) *pgimage.Image {
	t.Helper()
	img, err := pgimage.Create(w, h, pgimage.FormatBGRA8)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	return img
}

func TestManualModeRecordsThirtyFrames(t *testing.T) {
	cfg := Config{OutputPath: t.TempDir() + "/out.mp4", W: 1080, H: 720, FPS: 15, BitrateBps: 2_000_000}
	r := newTestRecorder(t, cfg)

	if err := r.Start(); err != nil {
		t.Fatalf("Start: %v", err)
	}
	if r.GetState() != StateRecording {
		t.Fatalf("expected Recording state")
	}
	for i := 0; i < 30; i++ {
		if err := r.WriteFrame(frame(t, r.width, r.height)); err != nil {
			t.Fatalf("WriteFrame %d: %v", i, err)
		}
	}
	if err := r.Stop(); err != nil {
		t.Fatalf("Stop: %v", err)
	}
	if r.GetState() != StateStopped {
		t.Fatalf("expected Stopped state")
	}
	if r.GetFrameCount() != 30 {
		t.Fatalf("expected 30 frames, got %d", r.GetFrameCount())
	}
	if got, want := r.GetDurationMs(), int64(2000); got != want {
		t.Fatalf("expected duration %dms, got %dms", want, got)
	}
}

func TestWriteFrameRejectsWrongFormat(t *testing.T) {
	cfg := Config{OutputPath: t.TempDir() + "/out.mp4", W: 64, H: 64, FPS: 30, BitrateBps: 1_000_000}
	r := newTestRecorder(t, cfg)
	r.Start()

	rgba, err := pgimage.Create(r.width, r.height, pgimage.FormatRGBA8)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if err := r.WriteFrame(rgba); err == nil {
		t.Fatalf("expected error writing non-Bgra8 frame")
	}
}

func TestWriteFrameRejectsWrongDimensions(t *testing.T) {
	cfg := Config{OutputPath: t.TempDir() + "/out.mp4", W: 64, H: 64, FPS: 30, BitrateBps: 1_000_000}
	r := newTestRecorder(t, cfg)
	r.Start()
	if err := r.WriteFrame(frame(t, 32, 32)); err == nil {
		t.Fatalf("expected error for mismatched dimensions")
	}
}

func TestWriteFrameRejectedInAutoCaptureMode(t *testing.T) {
	cfg := Config{OutputPath: t.TempDir() + "/out.mp4", W: 64, H: 64, FPS: 30, BitrateBps: 1_000_000, AutoCapture: true}
	r := newTestRecorder(t, cfg)
	r.state = StateRecording
	if err := r.WriteFrame(frame(t, r.width, r.height)); err == nil {
		t.Fatalf("expected WriteFrame to be rejected in auto mode")
	}
}

func TestWriteFrameRejectedWhilePaused(t *testing.T) {
	cfg := Config{OutputPath: t.TempDir() + "/out.mp4", W: 64, H: 64, FPS: 30, BitrateBps: 1_000_000}
	r := newTestRecorder(t, cfg)
	r.Start()
	if err := r.Pause(); err != nil {
		t.Fatalf("Pause: %v", err)
	}
	if err := r.WriteFrame(frame(t, r.width, r.height)); err == nil {
		t.Fatalf("expected WriteFrame to be rejected while Paused")
	}
}

func TestBackwardsTransitionsForbidden(t *testing.T) {
	cfg := Config{OutputPath: t.TempDir() + "/out.mp4", W: 64, H: 64, FPS: 30, BitrateBps: 1_000_000}
	r := newTestRecorder(t, cfg)
	if err := r.Resume(); err == nil {
		t.Fatalf("expected error resuming from Idle")
	}
	if err := r.Pause(); err == nil {
		t.Fatalf("expected error pausing from Idle")
	}
	r.Start()
	r.Stop()
	if err := r.Start(); err == nil {
		t.Fatalf("expected error restarting a Stopped recorder")
	}
}

func TestRoundUpEven(t *testing.T) {
	if roundUpEven(1079) != 1080 {
		t.Fatalf("expected 1079 rounded up to 1080")
	}
	if roundUpEven(720) != 720 {
		t.Fatalf("expected already-even dimension unchanged")
	}
}

func TestStopWritesNonEmptyFile(t *testing.T) {
	path := t.TempDir() + "/out.mp4"
	cfg := Config{OutputPath: path, W: 32, H: 32, FPS: 10, BitrateBps: 500_000}
	r := newTestRecorder(t, cfg)
	r.Start()
	r.WriteFrame(frame(t, r.width, r.height))
	if err := r.Stop(); err != nil {
		t.Fatalf("Stop: %v", err)
	}

	data, readErr := os.ReadFile(path)
	if readErr != nil {
		t.Fatalf("reading output: %v", readErr)
	}
	if len(data) == 0 {
		t.Fatalf("expected non-empty output file")
	}
	if !bytes.Contains(data, []byte("ftyp")) {
		t.Fatalf("expected ftyp box in output")
	}
}
