// Package audio implements the platform audio backend: device
// enumeration and PCM capture (loopback for system audio, direct for
// microphone input), grounded on the teacher's WASAPI loopback capturer.
package audio

import (
	"sync"

	"github.com/pixelgrab/pixelgrab/internal/logging"
	"github.com/pixelgrab/pixelgrab/internal/pgerr"
)

var log = logging.L("audio")

// Source selects which audio path Initialize opens.
type Source int32

const (
	SourceSystem Source = iota // loopback capture of whatever is playing
	SourceMicrophone
)

// DeviceInfo describes one capturable audio endpoint.
type DeviceInfo struct {
	ID        string
	Name      string
	IsDefault bool
	IsInput   bool
}

// Samples is the drained result of ReadSamples: interleaved 16-bit
// little-endian PCM at sample rate SR with CH channels.
type Samples struct {
	Data []byte
	SR   int
	CH   int
}

// Backend is the platform audio capture adapter.
type Backend interface {
	EnumerateDevices() ([]DeviceInfo, *pgerr.Error)
	Initialize(deviceID string, source Source, sampleRate int) *pgerr.Error
	Start() *pgerr.Error
	Stop() *pgerr.Error
	// ReadSamples drains and clears the backend's internal queue.
	ReadSamples() Samples
	Close()
}

// New returns the platform Backend implementation.
func New() Backend {
	return newPlatformBackend()
}

// ringBuffer is the queue the WASAPI backend appends captured frames
// into and ReadSamples drains, matching the
// teacher's capture-goroutine-feeds-a-queue shape used for WASAPI frames.
type ringBuffer struct {
	mu         sync.Mutex
	data       []byte
	sampleRate int
	channels   int
}

func (r *ringBuffer) push(frame []byte) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.data = append(r.data, frame...)
}

func (r *ringBuffer) drain() Samples {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := r.data
	r.data = nil
	return Samples{Data: out, SR: r.sampleRate, CH: r.channels}
}

func (r *ringBuffer) configure(sampleRate, channels int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sampleRate = sampleRate
	r.channels = channels
}
