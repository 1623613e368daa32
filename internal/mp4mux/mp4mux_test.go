package mp4mux

import (
	"bytes"
	"encoding/binary"
	"testing"
)

func TestFinalizeProducesValidTopLevelBoxes(t *testing.T) {
	w := NewWriter(VideoTrack{
		Width: 64, Height: 64, TimescaleHz: 15,
		SPS: []byte{0x67, 0x64, 0x00, 0x1f}, PPS: []byte{0x68, 0xeb},
	}, nil)
	for i := 0; i < 5; i++ {
		w.WriteVideoSample([]byte{0, 0, 0, 1, 0x65, 1, 2, 3}, 1, i == 0)
	}

	var out bytes.Buffer
	if err := w.Finalize(&out); err != nil {
		t.Fatalf("Finalize: %v", err)
	}

	data := out.Bytes()
	if len(data) < 16 {
		t.Fatalf("output too small: %d bytes", len(data))
	}
	if string(data[4:8]) != "ftyp" {
		t.Fatalf("expected ftyp box first, got %q", data[4:8])
	}

	// Walk top-level boxes and confirm they're well-formed and exhaustive.
	offset := 0
	var sawMoov, sawMdat bool
	for offset < len(data) {
		if offset+8 > len(data) {
			t.Fatalf("truncated box header at offset %d", offset)
		}
		size := binary.BigEndian.Uint32(data[offset : offset+4])
		name := string(data[offset+4 : offset+8])
		if size < 8 || int(offset)+int(size) > len(data) {
			t.Fatalf("box %q at %d has invalid size %d", name, offset, size)
		}
		switch name {
		case "moov":
			sawMoov = true
		case "mdat":
			sawMdat = true
		}
		offset += int(size)
	}
	if !sawMoov || !sawMdat {
		t.Fatalf("expected moov and mdat boxes, got moov=%v mdat=%v", sawMoov, sawMdat)
	}
}

func TestFinalizeWithAudioTrack(t *testing.T) {
	w := NewWriter(VideoTrack{Width: 32, Height: 32, TimescaleHz: 30, SPS: []byte{0x67}, PPS: []byte{0x68}},
		&AudioTrack{SampleRate: 16000, Channels: 1})
	w.WriteVideoSample([]byte{0, 0, 0, 1, 0x65}, 1, true)
	w.WriteAudioSample(make([]byte, 320), 160)

	var out bytes.Buffer
	if err := w.Finalize(&out); err != nil {
		t.Fatalf("Finalize: %v", err)
	}
	if out.Len() == 0 {
		t.Fatalf("expected non-empty output")
	}
}
