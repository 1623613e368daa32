// Package recorder implements the capture->watermark->encode->mux
// recording pipeline: an explicit Idle/Recording/Paused/Stopped state
// machine wrapping an H.264 software encoder and a minimal MP4 muxer,
// with an optional auto-capture worker thread mirroring the teacher's
// encoder-pipeline-plus-dedicated-goroutine shape.
package recorder

import (
	"os"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/pixelgrab/pixelgrab/internal/audio"
	"github.com/pixelgrab/pixelgrab/internal/capture"
	pgimage "github.com/pixelgrab/pixelgrab/internal/image"
	"github.com/pixelgrab/pixelgrab/internal/logging"
	"github.com/pixelgrab/pixelgrab/internal/mp4mux"
	"github.com/pixelgrab/pixelgrab/internal/pgerr"
	"github.com/pixelgrab/pixelgrab/internal/watermark"
)

var log = logging.L("recorder")

// State mirrors RecordState.
type State int32

const (
	StateIdle State = iota
	StateRecording
	StatePaused
	StateStopped
)

// AudioMode selects which audio sources, if any, the recorder captures.
type AudioMode int32

const (
	AudioNone AudioMode = iota
	AudioMic
	AudioSystem
	AudioBoth
)

// Config mirrors RecordConfig.
type Config struct {
	OutputPath      string
	X, Y, W, H      int
	FPS             int
	BitrateBps      int
	Audio           AudioMode
	AudioDeviceID   string
	AudioSampleRate int
	Watermark       *watermark.TextConfig
	UserWatermark   *watermark.TextConfig
	AutoCapture     bool
	GpuHint         GpuHint

	// CaptureBackend is required when AutoCapture is true; the recorder
	// borrows it for its lifetime, it does not own it.
	CaptureBackend capture.Backend
	// AudioBackend overrides the platform default, mainly for tests.
	AudioBackend audio.Backend
}

type bufferedSample struct {
	payload    []byte
	keyframe   bool
	durationTB uint32
}

// Recorder drives one recording session.
type Recorder struct {
	sessionID string

	mu     sync.Mutex
	cfg    Config
	state  State
	width  int
	height int

	enc h264Encoder
	sps []byte
	pps []byte

	videoSamples []bufferedSample
	audioSamples []bufferedSample
	frameCount   int

	audioBackend   audio.Backend
	audioOwned     bool
	captureBackend capture.Backend

	paused  atomic.Bool
	stopCh  chan struct{}
	wg      sync.WaitGroup
}

// New constructs an idle recorder. Each recorder gets a correlation id
// carried on every log line so a multi-recorder process (or a single
// recorder across Initialize/Start/Stop) can be traced in aggregated logs.
func New() *Recorder {
	return &Recorder{state: StateIdle, sessionID: uuid.NewString()}
}

func roundUpEven(v int) int {
	if v%2 != 0 {
		return v + 1
	}
	return v
}

// Initialize opens the encoder (and audio backend, if configured) for
// the given configuration. Must be called while Idle.
func (r *Recorder) Initialize(cfg Config) *pgerr.Error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.state != StateIdle {
		return pgerr.New(pgerr.InvalidParam, "recorder must be Idle to Initialize")
	}
	if cfg.W <= 0 || cfg.H <= 0 {
		return pgerr.New(pgerr.InvalidParam, "recorder region must have positive dimensions")
	}
	if cfg.FPS < 1 || cfg.FPS > 60 {
		return pgerr.New(pgerr.InvalidParam, "fps must be in 1..60")
	}
	if cfg.AutoCapture && cfg.CaptureBackend == nil {
		return pgerr.New(pgerr.InvalidParam, "auto capture requires a capture backend")
	}

	r.cfg = cfg
	r.width = roundUpEven(cfg.W)
	r.height = roundUpEven(cfg.H)
	r.captureBackend = cfg.CaptureBackend

	enc, pgErr := openEncoder(cfg.GpuHint, r.width, r.height, cfg.BitrateBps, cfg.FPS)
	if pgErr != nil {
		return pgErr
	}
	r.enc = enc

	if cfg.Audio != AudioNone {
		backend := cfg.AudioBackend
		if backend == nil {
			backend = audio.New()
			r.audioOwned = true
		}
		source := audio.SourceSystem
		if cfg.Audio == AudioMic {
			source = audio.SourceMicrophone
		}
		if pgErr := backend.Initialize(cfg.AudioDeviceID, source, cfg.AudioSampleRate); pgErr != nil {
			r.enc.Close()
			return pgErr
		}
		if pgErr := backend.Start(); pgErr != nil {
			backend.Close()
			r.enc.Close()
			return pgErr
		}
		r.audioBackend = backend
	}

	return nil
}

func openEncoder(hint GpuHint, width, height, bitrateBps, fps int) (h264Encoder, *pgerr.Error) {
	switch hint {
	case GpuPreferGpu:
		return newGPUEncoder(width, height, bitrateBps, fps)
	case GpuForceCpu:
		return newCPUEncoder(width, height, bitrateBps, fps)
	default: // GpuAuto
		if enc, pgErr := newGPUEncoder(width, height, bitrateBps, fps); pgErr == nil {
			return enc, nil
		}
		return newCPUEncoder(width, height, bitrateBps, fps)
	}
}

// Start transitions Idle->Recording, resets counters, and in auto mode
// spawns the capture thread.
func (r *Recorder) Start() *pgerr.Error {
	r.mu.Lock()
	if r.state != StateIdle {
		r.mu.Unlock()
		return pgerr.New(pgerr.InvalidParam, "Start requires Idle state")
	}
	r.state = StateRecording
	r.frameCount = 0
	r.paused.Store(false)
	r.stopCh = make(chan struct{})
	autoCapture := r.cfg.AutoCapture
	r.mu.Unlock()

	if autoCapture {
		r.wg.Add(1)
		go r.captureLoop()
	}
	return nil
}

// Pause transitions Recording->Paused.
func (r *Recorder) Pause() *pgerr.Error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.state != StateRecording {
		return pgerr.New(pgerr.InvalidParam, "Pause requires Recording state")
	}
	r.state = StatePaused
	r.paused.Store(true)
	return nil
}

// Resume transitions Paused->Recording.
func (r *Recorder) Resume() *pgerr.Error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.state != StatePaused {
		return pgerr.New(pgerr.InvalidParam, "Resume requires Paused state")
	}
	r.state = StateRecording
	r.paused.Store(false)
	return nil
}

// StartCaptureLoop/StopCaptureLoop are meaningful only in auto mode; in
// manual mode they are no-ops as the caller drives WriteFrame directly.
func (r *Recorder) StartCaptureLoop() *pgerr.Error {
	return nil
}

func (r *Recorder) StopCaptureLoop() *pgerr.Error {
	return nil
}

// WriteFrame submits a caller-captured frame in manual mode. The image
// must be Bgra8 and match the configured (rounded) dimensions.
func (r *Recorder) WriteFrame(img *pgimage.Image) *pgerr.Error {
	r.mu.Lock()
	if r.cfg.AutoCapture {
		r.mu.Unlock()
		return pgerr.New(pgerr.InvalidParam, "WriteFrame is rejected in auto-capture mode")
	}
	if r.state == StatePaused {
		r.mu.Unlock()
		return pgerr.New(pgerr.InvalidParam, "WriteFrame is rejected while Paused in manual mode")
	}
	if r.state != StateRecording {
		r.mu.Unlock()
		return pgerr.New(pgerr.InvalidParam, "WriteFrame requires Recording state")
	}
	if img == nil || img.Format() != pgimage.FormatBGRA8 {
		r.mu.Unlock()
		return pgerr.New(pgerr.InvalidParam, "frame must be a non-nil Bgra8 image")
	}
	if img.Width() != r.width || img.Height() != r.height {
		r.mu.Unlock()
		return pgerr.New(pgerr.InvalidParam, "frame dimensions do not match recorder configuration")
	}
	r.mu.Unlock()

	return r.encodeAndEnqueue(img)
}

func (r *Recorder) captureLoop() {
	defer r.wg.Done()
	interval := time.Second / time.Duration(r.cfg.FPS)
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-r.stopCh:
			return
		case <-ticker.C:
		}
		if r.paused.Load() {
			continue
		}

		img, err := r.captureBackend.CaptureRegion(r.cfg.X, r.cfg.Y, r.width, r.height)
		if err != nil {
			log.Warn("auto-capture tick failed", logging.KeySessionID, r.sessionID, "error", err)
			continue
		}

		if r.cfg.Watermark != nil {
			if pgErr := watermark.ApplyTextWatermark(img, *r.cfg.Watermark); pgErr != nil {
				log.Warn("system watermark failed, frame enqueued unwatermarked", logging.KeySessionID, r.sessionID, "error", pgErr.Error())
			}
		}
		if r.cfg.UserWatermark != nil {
			if pgErr := watermark.ApplyTextWatermark(img, *r.cfg.UserWatermark); pgErr != nil {
				log.Warn("user watermark failed, frame enqueued unwatermarked", logging.KeySessionID, r.sessionID, "error", pgErr.Error())
			}
		}

		if pgErr := r.encodeAndEnqueue(img); pgErr != nil {
			log.Error("encode failed, stopping recorder", logging.KeySessionID, r.sessionID, "error", pgErr.Error())
			r.mu.Lock()
			r.state = StateStopped
			r.mu.Unlock()
			return
		}
	}
}

func (r *Recorder) encodeAndEnqueue(img *pgimage.Image) *pgerr.Error {
	payload, isKeyframe, sps, pps, err := r.enc.EncodeBGRA(img.Bytes(), r.width, r.height, r.frameCount == 0)
	if err != nil {
		return pgerr.New(pgerr.RecordFailed, "encode failed: "+err.Error())
	}
	if len(sps) > 0 {
		r.sps = sps
	}
	if len(pps) > 0 {
		r.pps = pps
	}

	r.mu.Lock()
	r.videoSamples = append(r.videoSamples, bufferedSample{payload: payload, keyframe: isKeyframe, durationTB: 1})
	r.frameCount++
	r.mu.Unlock()

	if r.audioBackend != nil {
		samples := r.audioBackend.ReadSamples()
		if len(samples.Data) > 0 {
			r.mu.Lock()
			r.audioSamples = append(r.audioSamples, bufferedSample{payload: samples.Data, keyframe: true, durationTB: uint32(len(samples.Data) / 2)})
			r.mu.Unlock()
		}
	}
	return nil
}

// Stop signals end-of-stream, waits for the auto-capture goroutine to
// exit (bounded by a 5s timeout), closes the encoder, finalizes the MP4
// container to disk, and tears the pipeline down. Once Stopped the recorder accepts no further frames.
func (r *Recorder) Stop() *pgerr.Error {
	r.mu.Lock()
	if r.state != StateRecording && r.state != StatePaused {
		r.mu.Unlock()
		return pgerr.New(pgerr.InvalidParam, "Stop requires Recording or Paused state")
	}
	wasAuto := r.cfg.AutoCapture
	stopCh := r.stopCh
	r.mu.Unlock()

	if wasAuto && stopCh != nil {
		close(stopCh)
		drained := make(chan struct{})
		go func() {
			r.wg.Wait()
			close(drained)
		}()
		select {
		case <-drained:
		case <-time.After(5 * time.Second):
			log.Warn("capture thread did not drain within timeout", logging.KeySessionID, r.sessionID)
		}
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.state = StateStopped

	if r.audioBackend != nil {
		r.audioBackend.Stop()
		if r.audioOwned {
			r.audioBackend.Close()
		}
	}
	if r.enc != nil {
		r.enc.Close()
	}

	if pgErr := r.writeOutputLocked(); pgErr != nil {
		return pgErr
	}
	return nil
}

func (r *Recorder) writeOutputLocked() *pgerr.Error {
	video := mp4mux.VideoTrack{
		Width: r.width, Height: r.height,
		TimescaleHz: uint32(r.cfg.FPS),
		SPS:         r.sps, PPS: r.pps,
	}
	var audioTrack *mp4mux.AudioTrack
	if r.cfg.Audio != AudioNone {
		audioTrack = &mp4mux.AudioTrack{SampleRate: uint32(r.cfg.AudioSampleRate), Channels: 1}
	}

	w := mp4mux.NewWriter(video, audioTrack)
	for _, s := range r.videoSamples {
		w.WriteVideoSample(s.payload, s.durationTB, s.keyframe)
	}
	for _, s := range r.audioSamples {
		w.WriteAudioSample(s.payload, s.durationTB)
	}

	f, err := os.Create(r.cfg.OutputPath)
	if err != nil {
		return pgerr.New(pgerr.RecordFailed, "failed to create output file: "+err.Error())
	}
	defer f.Close()
	if err := w.Finalize(f); err != nil {
		return pgerr.New(pgerr.RecordFailed, "failed to finalize mp4: "+err.Error())
	}
	return nil
}

// GetState returns the current state.
func (r *Recorder) GetState() State {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.state
}

// GetFrameCount returns the number of frames accepted so far.
func (r *Recorder) GetFrameCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.frameCount
}

// GetDurationMs returns frame_count * 1000 / fps.
func (r *Recorder) GetDurationMs() int64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.cfg.FPS == 0 {
		return 0
	}
	return int64(r.frameCount) * 1000 / int64(r.cfg.FPS)
}
