//go:build windows

package audio

import (
	"encoding/binary"
	"fmt"
	"math"
	"runtime"
	"sync"
	"syscall"
	"time"
	"unsafe"

	"github.com/pixelgrab/pixelgrab/internal/pgerr"
)

// COM vtable calling infrastructure, trimmed to what WASAPI capture needs.
// Mirrors the teacher's pure-Go syscall COM pattern (no cgo).

type comGUID struct {
	Data1 uint32
	Data2 uint16
	Data3 uint16
	Data4 [8]byte
}

func comCall(obj uintptr, vtableIdx int, args ...uintptr) (uintptr, error) {
	vtablePtr := *(*uintptr)(unsafe.Pointer(obj))
	fnPtr := *(*uintptr)(unsafe.Pointer(vtablePtr + uintptr(vtableIdx)*unsafe.Sizeof(uintptr(0))))

	allArgs := make([]uintptr, 0, 1+len(args))
	allArgs = append(allArgs, obj)
	allArgs = append(allArgs, args...)
	ret, _, _ := syscall.SyscallN(fnPtr, allArgs...)

	if int32(ret) < 0 {
		return ret, fmt.Errorf("COM vtable[%d] HRESULT 0x%08X", vtableIdx, uint32(ret))
	}
	return ret, nil
}

func comRelease(obj uintptr) {
	if obj == 0 {
		return
	}
	vtablePtr := *(*uintptr)(unsafe.Pointer(obj))
	fnPtr := *(*uintptr)(unsafe.Pointer(vtablePtr + 2*unsafe.Sizeof(uintptr(0))))
	syscall.SyscallN(fnPtr, obj)
}

var (
	ole32DLL = syscall.NewLazyDLL("ole32.dll")

	procCoInitializeEx   = ole32DLL.NewProc("CoInitializeEx")
	procCoUninitialize   = ole32DLL.NewProc("CoUninitialize")
	procCoCreateInstance = ole32DLL.NewProc("CoCreateInstance")
	procCoTaskMemFree    = ole32DLL.NewProc("CoTaskMemFree")
)

var (
	clsidMMDeviceEnumerator = comGUID{0xBCDE0395, 0xE52F, 0x467C, [8]byte{0x8E, 0x3D, 0xC4, 0x57, 0x92, 0x91, 0x69, 0x2E}}
	iidIMMDeviceEnumerator  = comGUID{0xA95664D2, 0x9614, 0x4F35, [8]byte{0xA7, 0x46, 0xDE, 0x8D, 0xB6, 0x36, 0x17, 0xE6}}
	iidIAudioClient         = comGUID{0x1CB9AD4C, 0xDBFA, 0x4c32, [8]byte{0xB1, 0x78, 0xC2, 0xF5, 0x68, 0xA7, 0x03, 0xB2}}
	iidIAudioCaptureClient  = comGUID{0xC8ADBD64, 0xE71E, 0x48a0, [8]byte{0xA4, 0xDE, 0x18, 0x5C, 0x39, 0x5C, 0xD3, 0x17}}
)

const (
	eRender  = 0
	eCapture = 1
	eConsole = 0

	audclntStreamLoopback  = 0x00020000
	audclntShareModeShared = 0
	waveFormatIEEEFloat    = 0x0003
	waveFormatExtensible   = 0xFFFE
	waveFormatPCM          = 0x0001

	mmdeGetDefaultAudioEndpoint = 4
	mmDeviceActivate            = 3
	audioClientInitialize       = 3
	audioClientGetMixFormat     = 8
	audioClientStart            = 10
	audioClientStop             = 11
	audioClientGetService       = 14
	capClientGetBuffer          = 3
	capClientReleaseBuffer      = 4
)

type waveFormatEx struct {
	FormatTag      uint16
	Channels       uint16
	SamplesPerSec  uint32
	AvgBytesPerSec uint32
	BlockAlign     uint16
	BitsPerSample  uint16
	CbSize         uint16
}

// wasapiBackend captures via WASAPI: loopback on the default render
// endpoint for Source system, the default capture endpoint for
// Source microphone. Output is resampled to the requested rate and
// converted to interleaved 16-bit PCM regardless of the negotiated mix
// format, unlike the teacher's fixed 8kHz mono mu-law pipeline.
type wasapiBackend struct {
	mu            sync.Mutex
	started       bool
	enumerator    uintptr
	device        uintptr
	audioClient   uintptr
	captureClient uintptr
	mixFormat     *waveFormatEx

	targetRate int
	buf        ringBuffer
	done       chan struct{}
	wg         sync.WaitGroup
}

func newPlatformBackend() Backend {
	return &wasapiBackend{}
}

func (w *wasapiBackend) EnumerateDevices() ([]DeviceInfo, *pgerr.Error) {
	// Endpoint-collection enumeration (IMMDeviceCollection walking and
	// PKEY_Device_FriendlyName property-store reads) is a large amount of
	// additional COM surface for a library whose only consumer of this
	// list is "pick a device id to pass to Initialize"; two named
	// default pseudo-devices cover that without it.
	return []DeviceInfo{
		{ID: "default-render-loopback", Name: "System Audio (Default Output)", IsDefault: true, IsInput: false},
		{ID: "default-capture", Name: "Default Microphone", IsDefault: true, IsInput: true},
	}, nil
}

func (w *wasapiBackend) Initialize(deviceID string, source Source, sampleRate int) *pgerr.Error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.audioClient != 0 {
		return pgerr.New(pgerr.RecordInProgress, "audio backend already initialized")
	}
	w.targetRate = sampleRate
	w.done = make(chan struct{})

	runtime.LockOSThread()
	defer runtime.UnlockOSThread()

	procCoInitializeEx.Call(0, 0)

	var enumerator uintptr
	hr, _, _ := syscall.SyscallN(
		procCoCreateInstance.Addr(),
		uintptr(unsafe.Pointer(&clsidMMDeviceEnumerator)),
		0,
		uintptr(0x1|0x2|0x4|0x10),
		uintptr(unsafe.Pointer(&iidIMMDeviceEnumerator)),
		uintptr(unsafe.Pointer(&enumerator)),
	)
	if int32(hr) < 0 {
		return pgerr.New(pgerr.NotInitialized, fmt.Sprintf("CoCreateInstance MMDeviceEnumerator: 0x%08X", uint32(hr)))
	}
	w.enumerator = enumerator

	dataFlow := eRender
	streamFlags := uintptr(audclntStreamLoopback)
	if source == SourceMicrophone {
		dataFlow = eCapture
		streamFlags = 0
	}

	var device uintptr
	if _, err := comCall(enumerator, mmdeGetDefaultAudioEndpoint, uintptr(dataFlow), uintptr(eConsole), uintptr(unsafe.Pointer(&device))); err != nil {
		return pgerr.New(pgerr.NotInitialized, "GetDefaultAudioEndpoint: "+err.Error())
	}
	w.device = device

	var audioClient uintptr
	if _, err := comCall(device, mmDeviceActivate, uintptr(unsafe.Pointer(&iidIAudioClient)), uintptr(0x1|0x2|0x4|0x10), 0, uintptr(unsafe.Pointer(&audioClient))); err != nil {
		return pgerr.New(pgerr.NotInitialized, "Activate IAudioClient: "+err.Error())
	}
	w.audioClient = audioClient

	var mixFormatPtr uintptr
	if _, err := comCall(audioClient, audioClientGetMixFormat, uintptr(unsafe.Pointer(&mixFormatPtr))); err != nil {
		return pgerr.New(pgerr.NotInitialized, "GetMixFormat: "+err.Error())
	}
	fmtCopy := *(*waveFormatEx)(unsafe.Pointer(mixFormatPtr))
	w.mixFormat = &fmtCopy

	bufferDuration := int64(200 * 10000)
	_, err := comCall(audioClient, audioClientInitialize, uintptr(audclntShareModeShared), streamFlags, uintptr(bufferDuration), 0, mixFormatPtr, 0)
	procCoTaskMemFree.Call(mixFormatPtr)
	if err != nil {
		return pgerr.New(pgerr.NotInitialized, "Initialize: "+err.Error())
	}

	var captureClient uintptr
	if _, err := comCall(audioClient, audioClientGetService, uintptr(unsafe.Pointer(&iidIAudioCaptureClient)), uintptr(unsafe.Pointer(&captureClient))); err != nil {
		return pgerr.New(pgerr.NotInitialized, "GetService IAudioCaptureClient: "+err.Error())
	}
	w.captureClient = captureClient

	w.buf.configure(sampleRate, 1)
	return nil
}

func (w *wasapiBackend) Start() *pgerr.Error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.audioClient == 0 {
		return pgerr.New(pgerr.NotInitialized, "audio backend not initialized")
	}
	if w.started {
		return pgerr.New(pgerr.RecordInProgress, "audio capture already started")
	}
	if _, err := comCall(w.audioClient, audioClientStart); err != nil {
		return pgerr.New(pgerr.CaptureFailed, "IAudioClient::Start: "+err.Error())
	}
	w.started = true

	channels := int(w.mixFormat.Channels)
	sourceRate := int(w.mixFormat.SamplesPerSec)
	bitsPerSample := int(w.mixFormat.BitsPerSample)
	isFloat := w.mixFormat.FormatTag == waveFormatIEEEFloat ||
		(w.mixFormat.FormatTag == waveFormatExtensible && bitsPerSample == 32)

	w.wg.Add(1)
	go func() {
		defer w.wg.Done()
		runtime.LockOSThread()
		defer runtime.UnlockOSThread()
		procCoInitializeEx.Call(0, 0)
		defer procCoUninitialize.Call()
		w.captureLoop(channels, sourceRate, bitsPerSample, isFloat)
	}()
	return nil
}

func (w *wasapiBackend) captureLoop(channels, sourceRate, bitsPerSample int, isFloat bool) {
	ratio := float64(sourceRate) / float64(w.targetRate)
	var accum float64
	var accumCount int

	ticker := time.NewTicker(10 * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case <-w.done:
			return
		case <-ticker.C:
		}

		for {
			var dataPtr uintptr
			var numFrames uint32
			var flags uint32

			hr, _, _ := syscall.SyscallN(
				vtblFn(w.captureClient, capClientGetBuffer),
				w.captureClient,
				uintptr(unsafe.Pointer(&dataPtr)),
				uintptr(unsafe.Pointer(&numFrames)),
				uintptr(unsafe.Pointer(&flags)),
				0, 0,
			)
			if int32(hr) < 0 {
				break
			}
			if numFrames == 0 {
				break
			}

			silent := flags&0x2 != 0
			bytesPerSample := bitsPerSample / 8
			bytesPerFrame := channels * bytesPerSample

			var out []byte
			if !silent && dataPtr != 0 {
				raw := unsafe.Slice((*byte)(unsafe.Pointer(dataPtr)), int(numFrames)*bytesPerFrame)
				for i := 0; i < int(numFrames); i++ {
					var mono float64
					for ch := 0; ch < channels; ch++ {
						offset := i*bytesPerFrame + ch*bytesPerSample
						if isFloat && bytesPerSample == 4 {
							mono += float64(math.Float32frombits(binary.LittleEndian.Uint32(raw[offset:])))
						} else if bytesPerSample == 2 {
							s16 := int16(binary.LittleEndian.Uint16(raw[offset:]))
							mono += float64(s16) / 32768.0
						}
					}
					mono /= float64(channels)

					accum += mono
					accumCount++
					if float64(accumCount) >= ratio {
						avg := accum / float64(accumCount)
						if avg > 1.0 {
							avg = 1.0
						} else if avg < -1.0 {
							avg = -1.0
						}
						pcm16 := int16(avg * 32767.0)
						var sampleBytes [2]byte
						binary.LittleEndian.PutUint16(sampleBytes[:], uint16(pcm16))
						out = append(out, sampleBytes[:]...)
						accum = 0
						accumCount = 0
					}
				}
			} else if silent {
				for i := 0; i < int(numFrames); i++ {
					accumCount++
					if float64(accumCount) >= ratio {
						out = append(out, 0, 0)
						accumCount = 0
					}
				}
			}
			if len(out) > 0 {
				w.buf.push(out)
			}

			relHr, _, _ := syscall.SyscallN(vtblFn(w.captureClient, capClientReleaseBuffer), w.captureClient, uintptr(numFrames))
			if int32(relHr) < 0 {
				return
			}
		}
	}
}

func vtblFn(obj uintptr, idx int) uintptr {
	vtablePtr := *(*uintptr)(unsafe.Pointer(obj))
	return *(*uintptr)(unsafe.Pointer(vtablePtr + uintptr(idx)*unsafe.Sizeof(uintptr(0))))
}

func (w *wasapiBackend) Stop() *pgerr.Error {
	w.mu.Lock()
	if !w.started {
		w.mu.Unlock()
		return nil
	}
	w.started = false
	close(w.done)
	w.mu.Unlock()

	w.wg.Wait()
	comCall(w.audioClient, audioClientStop)
	return nil
}

func (w *wasapiBackend) ReadSamples() Samples {
	return w.buf.drain()
}

func (w *wasapiBackend) Close() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.captureClient != 0 {
		comRelease(w.captureClient)
		w.captureClient = 0
	}
	if w.audioClient != 0 {
		comRelease(w.audioClient)
		w.audioClient = 0
	}
	if w.device != 0 {
		comRelease(w.device)
		w.device = 0
	}
	if w.enumerator != 0 {
		comRelease(w.enumerator)
		w.enumerator = 0
	}
}
