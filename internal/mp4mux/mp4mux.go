// Package mp4mux implements a minimal progressive MP4 muxer: buffer
// length-prefixed H.264 Annex-B/AVCC samples (and, optionally, raw PCM
// audio samples) in memory, then write a single ftyp/moov/mdat file on
// Finalize. No MP4 muxing library appears anywhere in the retrieval
// pack's dependency surface, so this is a from-scratch box writer kept
// deliberately small: one video track, one optional audio track,
// progressive (non-fragmented) layout.
package mp4mux

import (
	"bytes"
	"encoding/binary"
	"io"
)

// VideoTrack describes the H.264 elementary stream track.
type VideoTrack struct {
	Width, Height int
	TimescaleHz   uint32 // ticks per second; the recorder passes fps, so 1 tick = 1/fps seconds
	SPS, PPS      []byte
}

// AudioTrack describes a raw interleaved 16-bit PCM track. This is a
// deliberate deviation from the source format's AAC audio: no AAC
// encoder appears anywhere in the example pack's dependency surface,
// so recorded audio is muxed as linear PCM instead of re-deriving an
// encoder from scratch.
type AudioTrack struct {
	SampleRate uint32
	Channels   uint16
}

type sample struct {
	data       []byte
	durationTB uint32 // duration in the track's timescale
	keyframe   bool
}

// Writer accumulates samples for one optional video and one optional
// audio track and serializes a complete MP4 container on Finalize.
type Writer struct {
	video      *VideoTrack
	audio      *AudioTrack
	videoSamp  []sample
	audioSamp  []sample
}

// NewWriter constructs a muxer for the given tracks. audio may be nil.
func NewWriter(video VideoTrack, audio *AudioTrack) *Writer {
	v := video
	return &Writer{video: &v, audio: audio}
}

// WriteVideoSample appends one encoded AVCC-framed access unit (4-byte
// big-endian length prefixes per NAL unit, as H.264 RTP/MP4 payloads
// use) with a duration in track ticks.
func (w *Writer) WriteVideoSample(avcc []byte, durationTicks uint32, keyframe bool) {
	w.videoSamp = append(w.videoSamp, sample{data: avcc, durationTB: durationTicks, keyframe: keyframe})
}

// WriteAudioSample appends one raw PCM chunk.
func (w *Writer) WriteAudioSample(pcm []byte, durationTicks uint32) {
	w.audioSamp = append(w.audioSamp, sample{data: pcm, durationTB: durationTicks, keyframe: true})
}

// Finalize writes the complete container to out.
func (w *Writer) Finalize(out io.Writer) error {
	var mdat bytes.Buffer
	videoOffsets := writeSamplesTo(&mdat, w.videoSamp)
	var audioOffsets []uint32
	if w.audio != nil {
		audioOffsets = writeSamplesTo(&mdat, w.audioSamp)
	}

	// mdat box offsets are relative to file start; ftyp is fixed-size and
	// precedes moov, so compute the mdat payload's absolute start once
	// both box sizes are known.
	ftyp := buildFtyp()
	moovPlaceholder := w.buildMoov(videoOffsets, audioOffsets, 0)
	mdatHeaderSize := uint32(8)
	dataStart := uint32(len(ftyp)) + uint32(len(moovPlaceholder)) + mdatHeaderSize
	moov := w.buildMoov(videoOffsets, audioOffsets, dataStart)

	if _, err := out.Write(ftyp); err != nil {
		return err
	}
	if _, err := out.Write(moov); err != nil {
		return err
	}
	if err := writeBoxHeader(out, uint32(len(mdat.Bytes())+8), "mdat"); err != nil {
		return err
	}
	_, err := out.Write(mdat.Bytes())
	return err
}

func writeSamplesTo(buf *bytes.Buffer, samples []sample) []uint32 {
	offsets := make([]uint32, len(samples))
	for i, s := range samples {
		offsets[i] = uint32(buf.Len())
		buf.Write(s.data)
	}
	return offsets
}

func buildFtyp() []byte {
	var b bytes.Buffer
	writeBoxHeader(&b, 0, "") // placeholder, fixed below
	b.Reset()
	body := new(bytes.Buffer)
	body.WriteString("isom")
	binary.Write(body, binary.BigEndian, uint32(512))
	body.WriteString("isom")
	body.WriteString("mp42")
	return box("ftyp", body.Bytes())
}

// box wraps body in a standard 32-bit-size BMFF box.
func box(fourcc string, body []byte) []byte {
	out := make([]byte, 8+len(body))
	binary.BigEndian.PutUint32(out[0:4], uint32(8+len(body)))
	copy(out[4:8], fourcc)
	copy(out[8:], body)
	return out
}

func writeBoxHeader(w io.Writer, size uint32, fourcc string) error {
	var hdr [8]byte
	binary.BigEndian.PutUint32(hdr[0:4], size)
	copy(hdr[4:8], fourcc)
	_, err := w.Write(hdr[:])
	return err
}
