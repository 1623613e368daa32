//go:build !windows

package audio

import "github.com/pixelgrab/pixelgrab/internal/pgerr"

// otherBackend covers Linux/macOS/everything else. A loopback-capable
// backend there means PulseAudio monitor sources or CoreAudio's
// kAudioHardwarePropertyDefaultOutputDevice + aggregate-device trickery,
// both of which are whole subsystems the rest of this module doesn't
// otherwise touch; unsupported here mirrors the teacher's audio_other.go
// stub.
type otherBackend struct{}

func newPlatformBackend() Backend {
	return &otherBackend{}
}

func (b *otherBackend) EnumerateDevices() ([]DeviceInfo, *pgerr.Error) {
	return nil, pgerr.New(pgerr.NotSupported, "audio capture not supported on this platform")
}

func (b *otherBackend) Initialize(deviceID string, source Source, sampleRate int) *pgerr.Error {
	return pgerr.New(pgerr.NotSupported, "audio capture not supported on this platform")
}

func (b *otherBackend) Start() *pgerr.Error {
	return pgerr.New(pgerr.NotSupported, "audio capture not supported on this platform")
}

func (b *otherBackend) Stop() *pgerr.Error {
	return nil
}

func (b *otherBackend) ReadSamples() Samples {
	return Samples{}
}

func (b *otherBackend) Close() {}
