package svgdom

import (
	"fmt"
	"math"

	"golang.org/x/image/math/fixed"
)

// Matrix2D represents an SVG transformation matrix
// mapping (x, y) to (A*x + C*y + E, B*x + D*y + F).
type Matrix2D struct {
	A, B, C, D, E, F float64
}

// Identity is the identity matrix.
var Identity = Matrix2D{1, 0, 0, 1, 0, 0}

// Mult returns a * b.
func (a Matrix2D) Mult(b Matrix2D) Matrix2D {
	return Matrix2D{
		A: a.A*b.A + a.C*b.B,
		B: a.B*b.A + a.D*b.B,
		C: a.A*b.C + a.C*b.D,
		D: a.B*b.C + a.D*b.D,
		E: a.A*b.E + a.C*b.F + a.E,
		F: a.B*b.E + a.D*b.F + a.F,
	}
}

// Translate postmultiplies a translation by x, y.
func (a Matrix2D) Translate(x, y float64) Matrix2D {
	return a.Mult(Matrix2D{1, 0, 0, 1, x, y})
}

// Scale postmultiplies a scale by x, y.
func (a Matrix2D) Scale(x, y float64) Matrix2D {
	return a.Mult(Matrix2D{x, 0, 0, y, 0, 0})
}

// Rotate postmultiplies a rotation around the origin by theta radians.
func (a Matrix2D) Rotate(theta float64) Matrix2D {
	sin, cos := math.Sin(theta), math.Cos(theta)
	return a.Mult(Matrix2D{cos, sin, -sin, cos, 0, 0})
}

// SkewX postmultiplies a skew along the x axis by theta radians.
func (a Matrix2D) SkewX(theta float64) Matrix2D {
	return a.Mult(Matrix2D{1, 0, math.Tan(theta), 1, 0, 0})
}

// SkewY postmultiplies a skew along the y axis by theta radians.
func (a Matrix2D) SkewY(theta float64) Matrix2D {
	return a.Mult(Matrix2D{1, math.Tan(theta), 0, 1, 0, 0})
}

// Transform applies the matrix to the point (x, y).
func (a Matrix2D) Transform(x, y float64) (float64, float64) {
	return a.A*x + a.C*y + a.E, a.B*x + a.D*y + a.F
}

// TFixed applies the matrix to a fixed point.
func (a Matrix2D) TFixed(x fixed.Point26_6) fixed.Point26_6 {
	return fixed.Point26_6{
		X: fixed.Int26_6(float64(x.X)*a.A + float64(x.Y)*a.C + a.E*64),
		Y: fixed.Int26_6(float64(x.X)*a.B + float64(x.Y)*a.D + a.F*64),
	}
}

// maxScale bounds the factor by which the matrix stretches
// any unit vector. Used to expand extents by stroke widths.
func (a Matrix2D) maxScale() float64 {
	return math.Max(math.Hypot(a.A, a.B), math.Hypot(a.C, a.D))
}

// String returns the matrix in the SVG transform attribute syntax.
func (a Matrix2D) String() string {
	return fmt.Sprintf("matrix(%g,%g,%g,%g,%g,%g)", a.A, a.B, a.C, a.D, a.E, a.F)
}

func (a Matrix2D) trMove(op MoveTo) fixed.Point26_6 {
	return a.TFixed(fixed.Point26_6(op))
}

func (a Matrix2D) trLine(op LineTo) fixed.Point26_6 {
	return a.TFixed(fixed.Point26_6(op))
}

func (a Matrix2D) trQuad(op QuadTo) (fixed.Point26_6, fixed.Point26_6) {
	return a.TFixed(op[0]), a.TFixed(op[1])
}

func (a Matrix2D) trCubic(op CubicTo) (fixed.Point26_6, fixed.Point26_6, fixed.Point26_6) {
	return a.TFixed(op[0]), a.TFixed(op[1]), a.TFixed(op[2])
}

// matrixAdder applies a transformation matrix to
// path commands before accumulating them.
type matrixAdder struct {
	path *Path
	M    Matrix2D
}

func (t *matrixAdder) Start(a fixed.Point26_6) {
	t.path.Start(t.M.TFixed(a))
}

func (t *matrixAdder) Line(b fixed.Point26_6) {
	t.path.Line(t.M.TFixed(b))
}

func (t *matrixAdder) QuadBezier(b, c fixed.Point26_6) {
	t.path.QuadBezier(t.M.TFixed(b), t.M.TFixed(c))
}

func (t *matrixAdder) CubeBezier(b, c, d fixed.Point26_6) {
	t.path.CubeBezier(t.M.TFixed(b), t.M.TFixed(c), t.M.TFixed(d))
}

func (t *matrixAdder) Stop(closeLoop bool) {
	t.path.Stop(closeLoop)
}
