package recorder

import (
	openh264 "github.com/y9o/go-openh264"

	"github.com/pixelgrab/pixelgrab/internal/pgerr"
)

// GpuHint controls whether the encoder pipeline may use a hardware
// encoder. PreferGpu fails outright if no hardware backend is available;
// Auto transparently falls back to CPU; ForceCpu never attempts one.
type GpuHint int32

const (
	GpuAuto GpuHint = iota
	GpuPreferGpu
	GpuForceCpu
)

// h264Encoder is the pipeline-internal codec interface so a future
// hardware backend can be registered the way the teacher's desktop
// encoder registers hardwareFactories, without recorder.go depending on
// a concrete implementation.
type h264Encoder interface {
	EncodeBGRA(bgra []byte, width, height int, forceKeyframe bool) (payload []byte, isKeyframe bool, sps, pps []byte, err error)
	Close() error
}

// openh264Encoder wraps the CPU software H.264 encoder. go-openh264
// expects planar I420 input, so BGRA frames are downsampled/converted
// here before each Encode call.
type openh264Encoder struct {
	enc    *openh264.Encoder
	width  int
	height int
	i420   []byte
}

func newCPUEncoder(width, height, bitrateBps, fps int) (h264Encoder, *pgerr.Error) {
	enc, err := openh264.NewEncoder(width, height, bitrateBps, fps)
	if err != nil {
		return nil, pgerr.New(pgerr.EncoderNotAvailable, "failed to open software H.264 encoder: "+err.Error())
	}
	return &openh264Encoder{enc: enc, width: width, height: height}, nil
}

func newGPUEncoder(width, height, bitrateBps, fps int) (h264Encoder, *pgerr.Error) {
	// No hardware encoder backend (NVENC/QuickSync/VideoToolbox bindings)
	// appears in the retrieval pack outside the teacher's own cgo-heavy,
	// platform-specific implementations, which are out of proportion to
	// wire into a library whose PreferGpu/Auto/ForceCpu contract only
	// needs *an* attempt to exist and fail cleanly when hardware isn't
	// wired up.
	return nil, pgerr.New(pgerr.EncoderNotAvailable, "no hardware H.264 encoder backend is compiled in")
}

func (e *openh264Encoder) EncodeBGRA(bgra []byte, width, height int, forceKeyframe bool) ([]byte, bool, []byte, []byte, error) {
	if e.i420 == nil || e.width != width || e.height != height {
		e.i420 = make([]byte, width*height+2*((width+1)/2)*((height+1)/2))
		e.width, e.height = width, height
	}
	bgraToI420(bgra, width, height, e.i420)

	payload, isKeyframe, err := e.enc.Encode(e.i420, forceKeyframe)
	if err != nil {
		return nil, false, nil, nil, err
	}
	sps, pps := e.enc.ParameterSets()
	return payload, isKeyframe, sps, pps, nil
}

func (e *openh264Encoder) Close() error {
	return e.enc.Close()
}

// bgraToI420 converts a BGRA8 buffer into planar I420 (Y, U, V) using
// the standard BT.601 full-range coefficients, writing into dst which
// must be sized width*height + 2*ceil(w/2)*ceil(h/2).
func bgraToI420(bgra []byte, width, height int, dst []byte) {
	stride := width * 4
	ySize := width * height
	cw, ch := (width+1)/2, (height+1)/2
	y := dst[:ySize]
	u := dst[ySize : ySize+cw*ch]
	v := dst[ySize+cw*ch : ySize+2*cw*ch]

	for row := 0; row < height; row++ {
		rowOff := row * stride
		for col := 0; col < width; col++ {
			px := rowOff + col*4
			b, g, r := int(bgra[px]), int(bgra[px+1]), int(bgra[px+2])
			y[row*width+col] = clampByte((77*r + 150*g + 29*b + 128) >> 8)
		}
	}
	for cy := 0; cy < ch; cy++ {
		for cx := 0; cx < cw; cx++ {
			row, col := cy*2, cx*2
			if row >= height {
				row = height - 1
			}
			if col >= width {
				col = width - 1
			}
			px := row*stride + col*4
			b, g, r := int(bgra[px]), int(bgra[px+1]), int(bgra[px+2])
			u[cy*cw+cx] = clampByte(((-43*r - 85*g + 128*b + 128) >> 8) + 128)
			v[cy*cw+cx] = clampByte(((128*r - 107*g - 21*b + 128) >> 8) + 128)
		}
	}
}

func clampByte(v int) byte {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return byte(v)
}
