package mp4mux

import (
	"bytes"
	"encoding/binary"
)

func (w *Writer) buildMoov(videoOffsets, audioOffsets []uint32, mdatDataStart uint32) []byte {
	var body bytes.Buffer

	duration := trackDuration(w.videoSamp)
	body.Write(mvhd(duration))

	trackID := uint32(1)
	body.Write(w.videoTrak(trackID, videoOffsets, mdatDataStart))
	if w.audio != nil {
		audioStart := mdatDataStart
		if len(videoOffsets) > 0 {
			audioStart += sumSampleSizes(w.videoSamp)
		}
		body.Write(w.audioTrak(trackID+1, audioOffsets, audioStart))
	}

	return box("moov", body.Bytes())
}

func trackDuration(samples []sample) uint32 {
	var total uint32
	for _, s := range samples {
		total += s.durationTB
	}
	return total
}

func sumSampleSizes(samples []sample) uint32 {
	var total uint32
	for _, s := range samples {
		total += uint32(len(s.data))
	}
	return total
}

func mvhd(duration uint32) []byte {
	b := make([]byte, 100)
	binary.BigEndian.PutUint32(b[12:16], 1000) // timescale
	binary.BigEndian.PutUint32(b[16:20], duration)
	binary.BigEndian.PutUint32(b[20:24], 0x00010000) // rate 1.0
	binary.BigEndian.PutUint16(b[24:26], 0x0100)     // volume 1.0
	// unity matrix
	identity := []uint32{0x00010000, 0, 0, 0, 0x00010000, 0, 0, 0, 0x40000000}
	off := 36
	for _, v := range identity {
		binary.BigEndian.PutUint32(b[off:off+4], v)
		off += 4
	}
	binary.BigEndian.PutUint32(b[96:100], 2) // next track id
	return box("mvhd", b)
}

func (w *Writer) videoTrak(trackID uint32, offsets []uint32, dataStart uint32) []byte {
	var body bytes.Buffer
	duration := trackDuration(w.videoSamp)
	body.Write(tkhd(trackID, duration, uint32(w.video.Width), uint32(w.video.Height)))

	var mdiaBody bytes.Buffer
	mdiaBody.Write(mdhd(w.video.TimescaleHz, duration))
	mdiaBody.Write(hdlr("vide", "VideoHandler"))
	mdiaBody.Write(minfVideo(w.video, w.videoSamp, offsets, dataStart))
	body.Write(box("mdia", mdiaBody.Bytes()))

	return box("trak", body.Bytes())
}

func (w *Writer) audioTrak(trackID uint32, offsets []uint32, dataStart uint32) []byte {
	var body bytes.Buffer
	duration := trackDuration(w.audioSamp)
	body.Write(tkhd(trackID, duration, 0, 0))

	var mdiaBody bytes.Buffer
	mdiaBody.Write(mdhd(w.audio.SampleRate, duration))
	mdiaBody.Write(hdlr("soun", "SoundHandler"))
	mdiaBody.Write(minfAudio(w.audio, w.audioSamp, offsets, dataStart))
	body.Write(box("mdia", mdiaBody.Bytes()))

	return box("trak", body.Bytes())
}

func tkhd(trackID, duration, width, height uint32) []byte {
	b := make([]byte, 84)
	b[0] = 0
	b[3] = 0x07 // flags: enabled | in-movie | in-preview
	binary.BigEndian.PutUint32(b[12:16], trackID)
	binary.BigEndian.PutUint32(b[20:24], duration)
	identity := []uint32{0x00010000, 0, 0, 0, 0x00010000, 0, 0, 0, 0x40000000}
	off := 36
	for _, v := range identity {
		binary.BigEndian.PutUint32(b[off:off+4], v)
		off += 4
	}
	binary.BigEndian.PutUint32(b[76:80], width<<16)
	binary.BigEndian.PutUint32(b[80:84], height<<16)
	return box("tkhd", b)
}

func mdhd(timescale, duration uint32) []byte {
	b := make([]byte, 20)
	binary.BigEndian.PutUint32(b[4:8], timescale)
	binary.BigEndian.PutUint32(b[8:12], duration)
	binary.BigEndian.PutUint16(b[12:14], 0x55c4) // language "und"
	return box("mdhd", b)
}

func hdlr(handlerType, name string) []byte {
	var b bytes.Buffer
	b.Write(make([]byte, 8)) // version/flags + pre_defined
	b.WriteString(handlerType)
	b.Write(make([]byte, 12)) // reserved
	b.WriteString(name)
	b.WriteByte(0)
	return box("hdlr", b.Bytes())
}

func minfVideo(v *VideoTrack, samples []sample, offsets []uint32, dataStart uint32) []byte {
	var body bytes.Buffer
	body.Write(box("vmhd", make([]byte, 12)))
	body.Write(dinf())
	body.Write(stbl(avc1SampleEntry(v), samples, offsets, dataStart))
	return box("minf", body.Bytes())
}

func minfAudio(a *AudioTrack, samples []sample, offsets []uint32, dataStart uint32) []byte {
	var body bytes.Buffer
	body.Write(box("smhd", make([]byte, 8)))
	body.Write(dinf())
	body.Write(stbl(pcmSampleEntry(a), samples, offsets, dataStart))
	return box("minf", body.Bytes())
}

func dinf() []byte {
	urlBox := box("url ", []byte{0, 0, 0, 1}) // flags: self-contained
	dref := make([]byte, 8)
	binary.BigEndian.PutUint32(dref[4:8], 1)
	return box("dinf", box("dref", append(dref, urlBox...)))
}

func avc1SampleEntry(v *VideoTrack) []byte {
	b := make([]byte, 78)
	binary.BigEndian.PutUint16(b[6:8], 1) // data_reference_index
	binary.BigEndian.PutUint16(b[24:26], uint16(v.Width))
	binary.BigEndian.PutUint16(b[26:28], uint16(v.Height))
	binary.BigEndian.PutUint32(b[28:32], 0x00480000) // h-res 72dpi
	binary.BigEndian.PutUint32(b[32:36], 0x00480000) // v-res 72dpi
	binary.BigEndian.PutUint16(b[40:42], 1)          // frame_count
	binary.BigEndian.PutUint16(b[74:76], 0x0018)     // depth 24
	binary.BigEndian.PutUint16(b[76:78], 0xFFFF)     // pre_defined

	var avcc bytes.Buffer
	avcc.WriteByte(1) // configurationVersion
	if len(v.SPS) > 1 {
		avcc.WriteByte(v.SPS[1])
		avcc.WriteByte(v.SPS[2])
		avcc.WriteByte(v.SPS[3])
	} else {
		avcc.Write([]byte{0x64, 0, 0x1f})
	}
	avcc.WriteByte(0xFF) // lengthSizeMinusOne=3, reserved bits set
	avcc.WriteByte(0xE1) // numSPS=1, reserved bits set
	binary.Write(&avcc, binary.BigEndian, uint16(len(v.SPS)))
	avcc.Write(v.SPS)
	avcc.WriteByte(1) // numPPS
	binary.Write(&avcc, binary.BigEndian, uint16(len(v.PPS)))
	avcc.Write(v.PPS)

	return box("avc1", append(b, box("avcC", avcc.Bytes())...))
}

func pcmSampleEntry(a *AudioTrack) []byte {
	b := make([]byte, 28)
	binary.BigEndian.PutUint16(b[6:8], 1) // data_reference_index
	binary.BigEndian.PutUint16(b[8:10], uint16(a.Channels))
	binary.BigEndian.PutUint16(b[10:12], 16) // bits per sample
	binary.BigEndian.PutUint32(b[20:24], a.SampleRate<<16)
	return box("sowt", b) // twos-complement little-endian PCM
}

func stbl(sampleEntry []byte, samples []sample, offsets []uint32, dataStart uint32) []byte {
	var body bytes.Buffer
	body.Write(stsd(sampleEntry))
	body.Write(stts(samples))
	body.Write(stsc(len(samples)))
	body.Write(stsz(samples))
	body.Write(stco(offsets, dataStart))
	body.Write(stss(samples))
	return box("stbl", body.Bytes())
}

func stsd(sampleEntry []byte) []byte {
	b := make([]byte, 8)
	binary.BigEndian.PutUint32(b[4:8], 1)
	return box("stsd", append(b, sampleEntry...))
}

func stts(samples []sample) []byte {
	type run struct {
		count, delta uint32
	}
	var runs []run
	for _, s := range samples {
		if len(runs) > 0 && runs[len(runs)-1].delta == s.durationTB {
			runs[len(runs)-1].count++
			continue
		}
		runs = append(runs, run{count: 1, delta: s.durationTB})
	}
	b := make([]byte, 8)
	binary.BigEndian.PutUint32(b[4:8], uint32(len(runs)))
	for _, r := range runs {
		entry := make([]byte, 8)
		binary.BigEndian.PutUint32(entry[0:4], r.count)
		binary.BigEndian.PutUint32(entry[4:8], r.delta)
		b = append(b, entry...)
	}
	return box("stts", b)
}

func stsc(sampleCount int) []byte {
	b := make([]byte, 8)
	binary.BigEndian.PutUint32(b[4:8], 1)
	entry := make([]byte, 12)
	binary.BigEndian.PutUint32(entry[0:4], 1) // first_chunk
	binary.BigEndian.PutUint32(entry[4:8], uint32(sampleCount))
	binary.BigEndian.PutUint32(entry[8:12], 1) // sample_description_index
	return box("stsc", append(b, entry...))
}

func stsz(samples []sample) []byte {
	b := make([]byte, 12)
	binary.BigEndian.PutUint32(b[8:12], uint32(len(samples)))
	for _, s := range samples {
		sz := make([]byte, 4)
		binary.BigEndian.PutUint32(sz, uint32(len(s.data)))
		b = append(b, sz...)
	}
	return box("stsz", b)
}

func stco(offsets []uint32, dataStart uint32) []byte {
	b := make([]byte, 8)
	binary.BigEndian.PutUint32(b[4:8], uint32(len(offsets)))
	for _, off := range offsets {
		entry := make([]byte, 4)
		binary.BigEndian.PutUint32(entry, dataStart+off)
		b = append(b, entry...)
	}
	return box("stco", b)
}

// stss lists keyframe sample numbers (1-based) for tracks where only some
// samples are sync samples (video lists its actual IDR frames). When every
// sample is a sync sample (raw PCM audio), it returns nil and no stss box
// is written.
func stss(samples []sample) []byte {
	var indices []uint32
	for i, s := range samples {
		if s.keyframe {
			indices = append(indices, uint32(i+1))
		}
	}
	if len(indices) == len(samples) {
		// Every sample is a sync sample (e.g. raw PCM audio); omitting
		// stss entirely means "all samples are sync samples" per spec.
		return nil
	}
	b := make([]byte, 8)
	binary.BigEndian.PutUint32(b[4:8], uint32(len(indices)))
	for _, idx := range indices {
		entry := make([]byte, 4)
		binary.BigEndian.PutUint32(entry, idx)
		b = append(b, entry...)
	}
	return box("stss", b)
}
