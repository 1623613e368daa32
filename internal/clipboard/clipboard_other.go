//go:build !windows && !darwin

package clipboard

import "github.com/pixelgrab/pixelgrab/internal/pgerr"

// otherReader covers Linux and any other platform. X11 clipboard access
// requires owning a selection-request event loop (XConvertSelection plus
// a SelectionNotify wait), which the capture backend's X11 connection does
// not provide; wiring it up would need a second, dedicated X11 connection
// solely for clipboard polling.
type otherReader struct{}

func newPlatformReader() Reader {
	return &otherReader{}
}

func (r *otherReader) Read() (Content, *pgerr.Error) {
	return Content{}, pgerr.New(pgerr.NotSupported, "clipboard access not supported on this platform")
}
