// Package annotation implements the shape model and AnnotationSession:
// insertion-ordered vector shapes and pixel effects over a base image,
// with undo/redo and incremental re-rendering.
package annotation

// Kind discriminates the Shape sum type.
type Kind int

const (
	KindRect Kind = iota
	KindEllipse
	KindLine
	KindArrow
	KindPencil
	KindText
	KindMosaicRegion
	KindBlurRegion
)

// Style mirrors ShapeStyle: stroke color (packed ARGB), fill color (packed
// ARGB, 0 means no fill), stroke width, filled flag.
type Style struct {
	StrokeARGB  uint32
	FillARGB    uint32
	StrokeWidth float32
	Filled      bool
}

// Point is a single (x, y) vertex, used by Pencil.
type Point struct {
	X, Y int
}

// Shape is a tagged variant over the eight annotation shape kinds. Only the
// fields relevant to Kind are meaningful; the zero value of the rest is
// ignored. Every shape carries a session-unique positive ID assigned on
// insertion.
type Shape struct {
	ID   int
	Kind Kind

	// Rect, Ellipse, MosaicRegion, BlurRegion
	X, Y, W, H int
	// Ellipse uses (X,Y) as center and (RX,RY) as its radii, as stored by
	// NewEllipse; W/H are unused for ellipses.
	RX, RY int

	// Line, Arrow
	X1, Y1, X2, Y2 int
	HeadSize       float32

	// Pencil
	Points []Point

	// Text
	Text     string
	Font     string
	FontSize int
	ARGB     uint32

	// MosaicRegion
	BlockSize int
	// BlurRegion
	Radius int

	Style Style
}

// NewRect constructs a Rect shape.
func NewRect(x, y, w, h int, style Style) Shape {
	return Shape{Kind: KindRect, X: x, Y: y, W: w, H: h, Style: style}
}

// NewEllipse constructs an Ellipse shape centered at (cx, cy) with radii (rx, ry).
func NewEllipse(cx, cy, rx, ry int, style Style) Shape {
	return Shape{Kind: KindEllipse, X: cx, Y: cy, RX: rx, RY: ry, Style: style}
}

// NewLine constructs a Line shape.
func NewLine(x1, y1, x2, y2 int, style Style) Shape {
	return Shape{Kind: KindLine, X1: x1, Y1: y1, X2: x2, Y2: y2, Style: style}
}

// NewArrow constructs an Arrow shape with a filled triangular head.
func NewArrow(x1, y1, x2, y2 int, headSize float32, style Style) Shape {
	return Shape{Kind: KindArrow, X1: x1, Y1: y1, X2: x2, Y2: y2, HeadSize: headSize, Style: style}
}

// NewPencil constructs a freehand Pencil shape. Callers must supply between
// 2 and 100,000 points; validation happens in AddShape.
func NewPencil(points []Point, style Style) Shape {
	return Shape{Kind: KindPencil, Points: points, Style: style}
}

// NewText constructs a Text shape.
func NewText(x, y int, text, font string, fontSize int, argb uint32) Shape {
	return Shape{Kind: KindText, X: x, Y: y, Text: text, Font: font, FontSize: fontSize, ARGB: argb}
}

// NewMosaicRegion constructs a mosaic pixel effect over a rectangular region.
func NewMosaicRegion(x, y, w, h, block int) Shape {
	return Shape{Kind: KindMosaicRegion, X: x, Y: y, W: w, H: h, BlockSize: block}
}

// NewBlurRegion constructs a box-blur pixel effect over a rectangular region.
func NewBlurRegion(x, y, w, h, radius int) Shape {
	return Shape{Kind: KindBlurRegion, X: x, Y: y, W: w, H: h, Radius: radius}
}

// isPixelEffect reports whether a shape is applied directly to composite
// pixels rather than drawn through the vector renderer.
func (s Shape) isPixelEffect() bool {
	return s.Kind == KindMosaicRegion || s.Kind == KindBlurRegion
}

func (s Shape) clone() Shape {
	c := s
	if s.Points != nil {
		c.Points = append([]Point(nil), s.Points...)
	}
	return c
}
