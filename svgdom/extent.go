package svgdom

// Geometry extents, used for element measurement and content
// cropping. Curve extrema are located by zeroing the derivative of
// the bezier polynomials.

import (
	"math"

	"golang.org/x/image/math/fixed"
)

func fixedTof(p fixed.Point26_6) (x, y float64) {
	return float64(p.X) / 64, float64(p.Y) / 64
}

type line [2]fixed.Point26_6

func (l line) criticalPoints() (tX, tY []float64) {
	return nil, nil
}

func (l line) evaluateCurve(t float64) (x, y float64) {
	p0x, p0y := fixedTof(l[0])
	p1x, p1y := fixedTof(l[1])
	return bezierLine(p0x, p1x, t), bezierLine(p0y, p1y, t)
}

func bezierLine(p0, p1, t float64) float64 {
	return (p1-p0)*t + p0
}

type quadBezier [3]fixed.Point26_6

// quadratic polynomial
// x = At^2 + Bt + C
// where
// A = p0 + p2 - 2p1
// B = 2(p1 - p0)
// C = p0
func bezierQuad(p0, p1, p2, t float64) float64 {
	return (p0+p2-2*p1)*t*t + 2*(p1-p0)*t + p0
}

// derivative as at + b where a, b :
func quadraticDerivative(p0, p1, p2 float64) (a, b float64) {
	return 2 * (p2 - p1 - (p1 - p0)), 2 * (p1 - p0)
}

// handle the case where a = 0
func linearRoots(a, b float64) []float64 {
	if a == 0 {
		return nil
	}
	return []float64{-b / a}
}

func (cu quadBezier) criticalPoints() (tX, tY []float64) {
	p0x, p0y := fixedTof(cu[0])
	p1x, p1y := fixedTof(cu[1])
	p2x, p2y := fixedTof(cu[2])

	aX, bX := quadraticDerivative(p0x, p1x, p2x)
	aY, bY := quadraticDerivative(p0y, p1y, p2y)

	return linearRoots(aX, bX), linearRoots(aY, bY)
}

func (cu quadBezier) evaluateCurve(t float64) (x, y float64) {
	p0x, p0y := fixedTof(cu[0])
	p1x, p1y := fixedTof(cu[1])
	p2x, p2y := fixedTof(cu[2])
	return bezierQuad(p0x, p1x, p2x, t), bezierQuad(p0y, p1y, p2y, t)
}

type cubicBezier [4]fixed.Point26_6

func (cu cubicBezier) criticalPoints() (tX, tY []float64) {
	p1x, p1y := fixedTof(cu[0])
	c1x, c1y := fixedTof(cu[1])
	c2x, c2y := fixedTof(cu[2])
	p2x, p2y := fixedTof(cu[3])

	aX, bX, cX := cubicDerivative(p1x, c1x, c2x, p2x)
	aY, bY, cY := cubicDerivative(p1y, c1y, c2y, p2y)

	return quadraticRoots(aX, bX, cX), quadraticRoots(aY, bY, cY)
}

func (cu cubicBezier) evaluateCurve(t float64) (x, y float64) {
	p0x, p0y := fixedTof(cu[0])
	p1x, p1y := fixedTof(cu[1])
	p2x, p2y := fixedTof(cu[2])
	p3x, p3y := fixedTof(cu[3])
	return bezierSpline(p0x, p1x, p2x, p3x, t), bezierSpline(p0y, p1y, p2y, p3y, t)
}

// cubic polynomial
// x = At^3 + Bt^2 + Ct + D
// where A, B, C, D:
// A = p3 - 3*p2 + 3*p1 - p0
// B = 3*p2 - 6*p1 + 3*p0
// C = 3*p1 - 3*p0
// D = p0
func bezierSpline(p0, p1, p2, p3, t float64) float64 {
	return (p3-3*p2+3*p1-p0)*t*t*t +
		(3*p2-6*p1+3*p0)*t*t +
		(3*p1-3*p0)*t +
		(p0)
}

// the derivative of the cubic polynomial, taken as at^2 + bt + c
func cubicDerivative(p0, p1, p2, p3 float64) (a, b, c float64) {
	return 3*p3 - 9*p2 + 9*p1 - 3*p0, 6*p2 - 12*p1 + 6*p0, 3*p1 - 3*p0
}

func determinant(a, b, c float64) float64 { return b*b - 4*a*c }

func solveQuadratic(a, b, c float64, s bool) float64 {
	sign := 1.
	if !s {
		sign = -1.
	}
	return (-b + (math.Sqrt(b*b-4*a*c) * sign)) / (2 * a)
}

func quadraticRoots(a, b, c float64) []float64 {
	d := determinant(a, b, c)
	if d < 0 {
		return nil
	}

	if a == 0 {
		// bt + c is a simple line: t = -c / b
		return []float64{-c / b}
	}

	if d == 0 {
		return []float64{solveQuadratic(a, b, c, true)}
	}
	return []float64{
		solveQuadratic(a, b, c, true),
		solveQuadratic(a, b, c, false),
	}
}

type bezier interface {
	// criticalPoints computes the t values zeroing the derivative
	criticalPoints() (tX, tY []float64)
	// evaluateCurve computes the point at time t
	evaluateCurve(t float64) (x, y float64)
}

// extentAccum unions curve extents in user space.
type extentAccum struct {
	minX, minY, maxX, maxY float64
	set                    bool
}

func (e *extentAccum) addPoint(x, y float64) {
	if !e.set {
		e.minX, e.maxX = x, x
		e.minY, e.maxY = y, y
		e.set = true
		return
	}
	e.minX = math.Min(e.minX, x)
	e.minY = math.Min(e.minY, y)
	e.maxX = math.Max(e.maxX, x)
	e.maxY = math.Max(e.maxY, y)
}

// addCurve extends the accumulator with the extent of the curve,
// evaluated at its endpoints and at every critical point.
func (e *extentAccum) addCurve(curve bezier) {
	resX, resY := curve.criticalPoints()
	for _, t := range append(append(resX, 0, 1), resY...) {
		if !(0 <= t && t <= 1) { // filter invalid values
			continue
		}
		e.addPoint(curve.evaluateCurve(t))
	}
}

// expand adds a margin on all four sides.
func (e *extentAccum) expand(margin float64) {
	e.minX -= margin
	e.minY -= margin
	e.maxX += margin
	e.maxY += margin
}

func (e *extentAccum) bounds() Bounds {
	return Bounds{X: e.minX, Y: e.minY, W: e.maxX - e.minX, H: e.maxY - e.minY}
}

// extent accumulates the bounding box of the path transformed by m.
// An affine image of a bezier curve is the curve built on the
// transformed control points, so the extent is exact.
func (p Path) extent(m Matrix2D) extentAccum {
	var acc extentAccum
	var from, start fixed.Point26_6
	for _, op := range p {
		switch op := op.(type) {
		case MoveTo:
			from = m.trMove(op)
			start = from
		case LineTo:
			to := m.trLine(op)
			acc.addCurve(line{from, to})
			from = to
		case QuadTo:
			b, c := m.trQuad(op)
			acc.addCurve(quadBezier{from, b, c})
			from = c
		case CubicTo:
			b, c, d := m.trCubic(op)
			acc.addCurve(cubicBezier{from, b, c, d})
			from = d
		case Close:
			// the closing line stays inside the accumulated extent
			from = start
		}
	}
	return acc
}

// accumulatePathExtent measures one styled path, expanding by half
// the stroke width when the path is stroked.
func accumulatePathExtent(acc *extentAccum, sp StyledPath) {
	pacc := sp.Path.extent(sp.Style.transform)
	if !pacc.set {
		return
	}
	if sp.Style.LinerColor != nil {
		pacc.expand(sp.Style.LineWidth / 2 * sp.Style.transform.maxScale())
	}
	acc.addPoint(pacc.minX, pacc.minY)
	acc.addPoint(pacc.maxX, pacc.maxY)
}

// ContentExtent returns the smallest rectangle covering every drawn
// path, in user space units, and whether the document draws anything
// at all.
func (doc *Document) ContentExtent() (Bounds, bool) {
	var acc extentAccum
	for _, sp := range doc.Paths {
		accumulatePathExtent(&acc, sp)
	}
	if !acc.set {
		return Bounds{}, false
	}
	return acc.bounds(), true
}

// ElementExtent measures the paths contributed by the element with
// the given id. It returns false for unknown ids and for elements
// without geometry.
func (doc *Document) ElementExtent(id string) (Bounds, bool) {
	var acc extentAccum
	for _, i := range doc.ids[id] {
		accumulatePathExtent(&acc, doc.Paths[i])
	}
	if !acc.set {
		return Bounds{}, false
	}
	return acc.bounds(), true
}
