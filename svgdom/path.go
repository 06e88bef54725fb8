package svgdom

import (
	"fmt"
	"strings"

	"golang.org/x/image/math/fixed"
)

// Operation groups the different SVG commands.
type Operation interface {
	// drawTo sends the command to the backend `d`, after applying
	// the transformation `M`.
	drawTo(d Drawer, M Matrix2D)

	// appendSVG writes the command in the 'd' path attribute syntax.
	appendSVG(b *strings.Builder)
}

// MoveTo moves the current point.
type MoveTo fixed.Point26_6

// LineTo draws a line from the current point.
type LineTo fixed.Point26_6

// QuadTo draws a quadratic Bezier curve from the current
// point, using an intermediate control point.
type QuadTo [2]fixed.Point26_6

// CubicTo draws a cubic Bezier curve from the current point,
// using two intermediate control points.
type CubicTo [3]fixed.Point26_6

// Close closes the current subpath.
type Close struct{}

// starts a new subpath, closing none of the previous points
func (op MoveTo) drawTo(d Drawer, M Matrix2D) {
	d.Stop(false) // implicit stop if currently in path
	d.Start(M.trMove(op))
}

func (op LineTo) drawTo(d Drawer, M Matrix2D) { d.Line(M.trLine(op)) }

func (op QuadTo) drawTo(d Drawer, M Matrix2D) {
	b, c := M.trQuad(op)
	d.QuadBezier(b, c)
}

func (op CubicTo) drawTo(d Drawer, M Matrix2D) {
	b, c, d_ := M.trCubic(op)
	d.CubeBezier(b, c, d_)
}

func (op Close) drawTo(d Drawer, _ Matrix2D) { d.Stop(true) }

// Path describes a sequence of basic SVG operations, which should not be nil.
// Higher-level shapes may be reduced to a path.
type Path []Operation

// ToSVGPath returns a string representation of the path,
// in the SVG 'd' attribute syntax.
func (p Path) ToSVGPath() string {
	var b strings.Builder
	for i, op := range p {
		if i > 0 {
			b.WriteByte(' ')
		}
		op.appendSVG(&b)
	}
	return b.String()
}

// String returns a readable representation of a Path.
func (p Path) String() string {
	return p.ToSVGPath()
}

func appendPoint(b *strings.Builder, pt fixed.Point26_6) {
	fmt.Fprintf(b, "%4.3f,%4.3f", float64(pt.X)/64, float64(pt.Y)/64)
}

func (op MoveTo) appendSVG(b *strings.Builder) {
	b.WriteByte('M')
	appendPoint(b, fixed.Point26_6(op))
}

func (op LineTo) appendSVG(b *strings.Builder) {
	b.WriteByte('L')
	appendPoint(b, fixed.Point26_6(op))
}

func (op QuadTo) appendSVG(b *strings.Builder) {
	b.WriteByte('Q')
	appendPoint(b, op[0])
	b.WriteByte(' ')
	appendPoint(b, op[1])
}

func (op CubicTo) appendSVG(b *strings.Builder) {
	b.WriteByte('C')
	appendPoint(b, op[0])
	b.WriteByte(' ')
	appendPoint(b, op[1])
	b.WriteByte(' ')
	appendPoint(b, op[2])
}

func (op Close) appendSVG(b *strings.Builder) {
	b.WriteByte('Z')
}

// Clear zeroes the path slice, keeping the underlying storage.
func (p *Path) Clear() {
	*p = (*p)[:0]
}

// Start starts a new subpath at the given point.
func (p *Path) Start(a fixed.Point26_6) {
	*p = append(*p, MoveTo(a))
}

// Line adds a linear segment to the current subpath.
func (p *Path) Line(b fixed.Point26_6) {
	*p = append(*p, LineTo(b))
}

// QuadBezier adds a quadratic segment to the current subpath.
func (p *Path) QuadBezier(b, c fixed.Point26_6) {
	*p = append(*p, QuadTo{b, c})
}

// CubeBezier adds a cubic segment to the current subpath.
func (p *Path) CubeBezier(b, c, d fixed.Point26_6) {
	*p = append(*p, CubicTo{b, c, d})
}

// Stop joins the ends of the subpath when `closeLoop` is true.
func (p *Path) Stop(closeLoop bool) {
	if closeLoop {
		*p = append(*p, Close{})
	}
}
