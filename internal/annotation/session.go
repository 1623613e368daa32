package annotation

import (
	"github.com/pixelgrab/pixelgrab/internal/annorender"
	pgimage "github.com/pixelgrab/pixelgrab/internal/image"
	"github.com/pixelgrab/pixelgrab/internal/logging"
	"github.com/pixelgrab/pixelgrab/internal/pgerr"
)

var log = logging.L("annotation")

const (
	minPencilPoints = 2
	maxPencilPoints = 100000
)

type commandKind int

const (
	cmdAdd commandKind = iota
	cmdRemove
)

// command is an undo/redo log entry, mirroring AnnotationCommand.
type command struct {
	kind      commandKind
	shapeID   int
	savedShape Shape // present for Remove, and for Add entries moved to redo
}

// Session owns a base image, a composite image, the active shape list, and
// the undo/redo logs, matching AnnotationSession.
type Session struct {
	base      *pgimage.Image
	composite *pgimage.Image
	shapes    []Shape
	undo      []command
	redo      []command
	nextID    int
	dirty     bool

	snapshot      *pgimage.Image
	snapshotCount int
}

// NewSession deep-copies base and produces an idle session.
func NewSession(base *pgimage.Image) (*Session, *pgerr.Error) {
	if base == nil {
		return nil, pgerr.New(pgerr.InvalidParam, "nil base image")
	}
	s := &Session{
		base:      base.Clone(),
		composite: base.Clone(),
		nextID:    1,
		dirty:     false,
	}
	return s, nil
}

// AddShape assigns a new positive id, appends to the active list, pushes
// Add{id} onto the undo log, clears the redo log, and marks dirty.
func (s *Session) AddShape(shape Shape) (int, *pgerr.Error) {
	if shape.Kind == KindPencil {
		n := len(shape.Points)
		if n < minPencilPoints || n > maxPencilPoints {
			return 0, pgerr.New(pgerr.InvalidParam, "pencil shape point count out of range")
		}
	}

	shape.ID = s.nextID
	s.nextID++
	s.shapes = append(s.shapes, shape)
	s.undo = append(s.undo, command{kind: cmdAdd, shapeID: shape.ID})
	s.redo = nil
	s.dirty = true
	return shape.ID, nil
}

func (s *Session) indexOf(id int) int {
	for i, sh := range s.shapes {
		if sh.ID == id {
			return i
		}
	}
	return -1
}

// RemoveShape locates and removes the shape, pushes Remove{id, saved}
// onto the undo log, clears redo, marks dirty, and invalidates any
// snapshot whose prefix contains the removed index.
func (s *Session) RemoveShape(id int) *pgerr.Error {
	idx := s.indexOf(id)
	if idx < 0 {
		return pgerr.New(pgerr.InvalidParam, "no shape with that id")
	}
	saved := s.shapes[idx].clone()
	s.shapes = append(s.shapes[:idx], s.shapes[idx+1:]...)
	s.undo = append(s.undo, command{kind: cmdRemove, shapeID: id, savedShape: saved})
	s.redo = nil
	s.dirty = true
	if idx < s.snapshotCount {
		s.invalidateSnapshot()
	}
	return nil
}

func (s *Session) invalidateSnapshot() {
	s.snapshot = nil
	s.snapshotCount = 0
}

// CanUndo reports whether the undo log is non-empty.
func (s *Session) CanUndo() bool { return len(s.undo) > 0 }

// CanRedo reports whether the redo log is non-empty.
func (s *Session) CanRedo() bool { return len(s.redo) > 0 }

// Undo pops the undo log and inverts it: an Add becomes a removal (saving
// the shape onto the redo log); a Remove becomes a reinsertion at the
// tail of the active list.
func (s *Session) Undo() *pgerr.Error {
	if len(s.undo) == 0 {
		return pgerr.New(pgerr.AnnotationFailed, "undo log is empty")
	}
	cmd := s.undo[len(s.undo)-1]
	s.undo = s.undo[:len(s.undo)-1]

	switch cmd.kind {
	case cmdAdd:
		idx := s.indexOf(cmd.shapeID)
		var saved Shape
		if idx >= 0 {
			saved = s.shapes[idx].clone()
			if idx < s.snapshotCount {
				s.invalidateSnapshot()
			}
			s.shapes = append(s.shapes[:idx], s.shapes[idx+1:]...)
		}
		s.redo = append(s.redo, command{kind: cmdAdd, shapeID: cmd.shapeID, savedShape: saved})
	case cmdRemove:
		s.shapes = append(s.shapes, cmd.savedShape.clone())
		s.redo = append(s.redo, command{kind: cmdRemove, shapeID: cmd.shapeID, savedShape: cmd.savedShape})
	}
	s.dirty = true
	return nil
}

// Redo is the mirror of Undo against the redo log.
func (s *Session) Redo() *pgerr.Error {
	if len(s.redo) == 0 {
		return pgerr.New(pgerr.AnnotationFailed, "redo log is empty")
	}
	cmd := s.redo[len(s.redo)-1]
	s.redo = s.redo[:len(s.redo)-1]

	switch cmd.kind {
	case cmdAdd:
		s.shapes = append(s.shapes, cmd.savedShape.clone())
		s.undo = append(s.undo, command{kind: cmdAdd, shapeID: cmd.shapeID})
	case cmdRemove:
		idx := s.indexOf(cmd.shapeID)
		if idx >= 0 {
			if idx < s.snapshotCount {
				s.invalidateSnapshot()
			}
			s.shapes = append(s.shapes[:idx], s.shapes[idx+1:]...)
		}
		s.undo = append(s.undo, command{kind: cmdRemove, shapeID: cmd.shapeID, savedShape: cmd.savedShape})
	}
	s.dirty = true
	return nil
}

// GetResult returns the current composite image, redrawing first if dirty.
// The returned pointer is valid until the next mutating call on the
// session.
func (s *Session) GetResult() *pgimage.Image {
	s.redraw()
	return s.composite
}

// Export returns a deep copy of the current composite.
func (s *Session) Export() *pgimage.Image {
	s.redraw()
	return s.composite.Clone()
}

// redraw implements the incremental rendering algorithm: if a cached
// snapshot covers a prefix of the current shape list, resume from there;
// otherwise start fresh from the base image.
func (s *Session) redraw() {
	if !s.dirty {
		return
	}

	startIdx := 0
	if s.snapshot != nil && s.snapshotCount <= len(s.shapes) {
		s.composite = s.snapshot.Clone()
		startIdx = s.snapshotCount
	} else {
		s.composite = s.base.Clone()
		startIdx = 0
	}

	var canvas *annorender.Canvas
	for i := startIdx; i < len(s.shapes); i++ {
		shape := s.shapes[i]
		if shape.isPixelEffect() {
			if canvas != nil {
				canvas.EndRender()
				canvas = nil
			}
			applyPixelEffect(s.composite, shape)
			continue
		}

		if canvas == nil {
			var pgErr *pgerr.Error
			canvas, pgErr = annorender.BeginRender(s.composite)
			if pgErr != nil {
				log.Warn("BeginRender failed mid-redraw", "error", pgErr.Error())
				continue
			}
		}
		drawShape(canvas, shape)
	}
	if canvas != nil {
		canvas.EndRender()
	}

	snap := s.composite.Clone()
	s.snapshot = snap
	s.snapshotCount = len(s.shapes)
	s.dirty = false
}

func applyPixelEffect(img *pgimage.Image, shape Shape) {
	switch shape.Kind {
	case KindMosaicRegion:
		applyMosaic(img, shape.X, shape.Y, shape.W, shape.H, shape.BlockSize)
	case KindBlurRegion:
		applyBlur(img, shape.X, shape.Y, shape.W, shape.H, shape.Radius)
	}
}

func drawShape(canvas *annorender.Canvas, shape Shape) {
	switch shape.Kind {
	case KindRect:
		canvas.DrawRect(float64(shape.X), float64(shape.Y), float64(shape.W), float64(shape.H),
			shape.Style.StrokeARGB, shape.Style.FillARGB, float64(shape.Style.StrokeWidth), shape.Style.Filled)
	case KindEllipse:
		canvas.DrawEllipse(float64(shape.X), float64(shape.Y), float64(shape.RX), float64(shape.RY),
			shape.Style.StrokeARGB, shape.Style.FillARGB, float64(shape.Style.StrokeWidth), shape.Style.Filled)
	case KindLine:
		canvas.DrawLine(float64(shape.X1), float64(shape.Y1), float64(shape.X2), float64(shape.Y2),
			shape.Style.StrokeARGB, float64(shape.Style.StrokeWidth))
	case KindArrow:
		headLen := float64(shape.HeadSize)
		canvas.DrawArrow(float64(shape.X1), float64(shape.Y1), float64(shape.X2), float64(shape.Y2),
			headLen, headLen*0.6, shape.Style.StrokeARGB, float64(shape.Style.StrokeWidth))
	case KindPencil:
		points := make([][2]float64, len(shape.Points))
		for i, p := range shape.Points {
			points[i] = [2]float64{float64(p.X), float64(p.Y)}
		}
		canvas.DrawPolyline(points, shape.Style.StrokeARGB, float64(shape.Style.StrokeWidth))
	case KindText:
		if err := canvas.DrawText(shape.Text, float64(shape.X), float64(shape.Y), float64(shape.FontSize), shape.ARGB); err != nil {
			log.Warn("DrawText failed", "error", err.Error())
		}
	}
}
