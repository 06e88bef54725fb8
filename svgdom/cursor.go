package svgdom

import (
	"errors"
	"fmt"
	"log"
	"math"
	"strconv"
	"strings"
	"unicode"

	"golang.org/x/image/math/fixed"
)

// ErrorMode controls how the parser reacts to SVG content
// it does not handle.
type ErrorMode uint8

const (
	// IgnoreErrorMode skips unsupported elements silently.
	IgnoreErrorMode ErrorMode = iota
	// WarnErrorMode logs unsupported elements and keeps parsing.
	WarnErrorMode
	// StrictErrorMode aborts parsing at the first unsupported element.
	StrictErrorMode
)

var (
	errParamMismatch = errors.New("param mismatch")
	errZeroLengthID  = errors.New("zero length id")
)

// parseFloat is a shortcut to keep the parsing code short
var parseFloat = strconv.ParseFloat

// parseBasicFloat parses a float value, ignoring a trailing unit.
func parseBasicFloat(s string) (float64, error) {
	s = strings.TrimSpace(s)
	if i := strings.IndexFunc(s, func(r rune) bool {
		return !(unicode.IsDigit(r) || r == '.' || r == '-' || r == '+' || r == 'e' || r == 'E')
	}); i != -1 {
		s = s[:i]
	}
	return parseFloat(s, 64)
}

// pathCursor decodes an SVG path description ('d' attribute)
// into a Path.
type pathCursor struct {
	path                   Path
	placeX, placeY         float64
	curX, curY             float64
	cntlPtX, cntlPtY       float64
	pathStartX, pathStartY float64
	points                 []float64
	lastKey                uint8
	errorMode              ErrorMode
	inPath                 bool
}

func (c *pathCursor) handleError(format string, args ...any) error {
	switch c.errorMode {
	case StrictErrorMode:
		return fmt.Errorf(format, args...)
	case WarnErrorMode:
		log.Printf(format, args...)
	}
	return nil
}

// getPoints reads a set of floating point values from the SVG format number string,
// and adds them to the cursor's points slice.
func (c *pathCursor) getPoints(dataPoints string) error {
	lastIndex := -1
	c.points = c.points[0:0]
	lr := ' '
	for i, r := range dataPoints {
		if !unicode.IsNumber(r) && r != '.' && !(r == '-' && lr == 'e') && r != 'e' {
			if lastIndex != -1 {
				value, err := parseFloat(dataPoints[lastIndex:i], 64)
				if err != nil {
					return err
				}
				c.points = append(c.points, value)
			}
			if r == '-' {
				lastIndex = i
			} else {
				lastIndex = -1
			}
		} else if lastIndex == -1 {
			lastIndex = i
		}
		lr = r
	}
	if lastIndex != -1 && lastIndex != len(dataPoints) {
		value, err := parseFloat(dataPoints[lastIndex:], 64)
		if err != nil {
			return err
		}
		c.points = append(c.points, value)
	}
	return nil
}

// compilePath translates the svgPath description string into a path.
// All valid SVG path elements are interpreted to fixed point arcs and bezier curves.
func (c *pathCursor) compilePath(svgPath string) error {
	c.placeX = 0.0
	c.placeY = 0.0
	c.points = c.points[0:0]
	c.lastKey = ' '
	c.path.Clear()
	c.inPath = false
	lastIndex := -1
	for i, v := range svgPath {
		if unicode.IsLetter(v) && v != 'e' {
			if lastIndex != -1 {
				if err := c.addSeg(svgPath[lastIndex:i]); err != nil {
					return err
				}
			}
			lastIndex = i
		}
	}
	if lastIndex != -1 {
		if err := c.addSeg(svgPath[lastIndex:]); err != nil {
			return err
		}
	}
	return nil
}

func (c *pathCursor) point() fixed.Point26_6 {
	return fixed.Point26_6{
		X: fixed.Int26_6(c.placeX * 64),
		Y: fixed.Int26_6(c.placeY * 64)}
}

// hasSetsOrPoints reports whether the cursor has parsed
// a whole number of n-value groups.
func (c *pathCursor) hasSetsOrPoints(l, n int) bool {
	return l%n == 0 && l >= n
}

// valsToAbs makes the parsed values absolute, accumulating from last.
func (c *pathCursor) valsToAbs(last float64) {
	for i := 0; i < len(c.points); i++ {
		last += c.points[i]
		c.points[i] = last
	}
}

// setToAbs makes one group of sets values, starting at j,
// absolute against the current place.
func (c *pathCursor) setToAbs(j, sets int) {
	for i := 0; i < sets; i++ {
		if i%2 == 0 {
			c.points[i+j] += c.placeX
		} else {
			c.points[i+j] += c.placeY
		}
	}
}

func reflect(px, py, rx, ry float64) (x, y float64) {
	return px*2 - rx, py*2 - ry
}

// reflectControlQuad reflects the last quadratic control point
// around the current place, per the SVG T command.
func (c *pathCursor) reflectControlQuad() {
	switch c.lastKey {
	case 'q', 'Q', 'T', 't':
		c.cntlPtX, c.cntlPtY = reflect(c.placeX, c.placeY, c.cntlPtX, c.cntlPtY)
	default:
		c.cntlPtX, c.cntlPtY = c.placeX, c.placeY
	}
}

// reflectControlCube reflects the last cubic control point
// around the current place, per the SVG S command.
func (c *pathCursor) reflectControlCube() {
	switch c.lastKey {
	case 'c', 'C', 's', 'S':
		c.cntlPtX, c.cntlPtY = reflect(c.placeX, c.placeY, c.cntlPtX, c.cntlPtY)
	default:
		c.cntlPtX, c.cntlPtY = c.placeX, c.placeY
	}
}

// addSeg decodes an SVG segment (submovement) into equivalent path operations.
// Each segment begins with a single letter, followed by a set of
// floating point values.
func (c *pathCursor) addSeg(segString string) error {
	if err := c.getPoints(segString[1:]); err != nil {
		return err
	}
	l := len(c.points)
	k := segString[0]
	rel := false
	switch k {
	case 'z':
		fallthrough
	case 'Z':
		if l != 0 {
			return errParamMismatch
		}
		if c.inPath {
			c.path.Stop(true)
			c.placeX = c.pathStartX
			c.placeY = c.pathStartY
			c.inPath = false
		}
	case 'm':
		rel = true
		fallthrough
	case 'M':
		if !c.hasSetsOrPoints(l, 2) {
			return errParamMismatch
		}
		for j := 0; j < l; j += 2 {
			if rel {
				c.placeX += c.points[j]
				c.placeY += c.points[j+1]
			} else {
				c.placeX = c.points[j]
				c.placeY = c.points[j+1]
			}
			if j == 0 {
				// the first pair moves; following pairs are implicit lines
				c.pathStartX, c.pathStartY = c.placeX, c.placeY
				c.path.Start(c.point())
				c.inPath = true
			} else {
				c.path.Line(c.point())
			}
		}
	case 'l':
		rel = true
		fallthrough
	case 'L':
		if !c.hasSetsOrPoints(l, 2) {
			return errParamMismatch
		}
		for j := 0; j < l; j += 2 {
			if rel {
				c.placeX += c.points[j]
				c.placeY += c.points[j+1]
			} else {
				c.placeX = c.points[j]
				c.placeY = c.points[j+1]
			}
			c.path.Line(c.point())
		}
	case 'v':
		c.valsToAbs(c.placeY)
		fallthrough
	case 'V':
		if !c.hasSetsOrPoints(l, 1) {
			return errParamMismatch
		}
		for _, p := range c.points {
			c.placeY = p
			c.path.Line(c.point())
		}
	case 'h':
		c.valsToAbs(c.placeX)
		fallthrough
	case 'H':
		if !c.hasSetsOrPoints(l, 1) {
			return errParamMismatch
		}
		for _, p := range c.points {
			c.placeX = p
			c.path.Line(c.point())
		}
	case 'q':
		rel = true
		fallthrough
	case 'Q':
		if !c.hasSetsOrPoints(l, 4) {
			return errParamMismatch
		}
		for j := 0; j < l; j += 4 {
			if rel {
				c.setToAbs(j, 4)
			}
			c.cntlPtX, c.cntlPtY = c.points[j], c.points[j+1]
			c.placeX = c.points[j+2]
			c.placeY = c.points[j+3]
			c.path.QuadBezier(toFixedP(c.cntlPtX, c.cntlPtY), c.point())
		}
	case 't':
		rel = true
		fallthrough
	case 'T':
		if !c.hasSetsOrPoints(l, 2) {
			return errParamMismatch
		}
		for j := 0; j < l; j += 2 {
			if rel {
				c.setToAbs(j, 2)
			}
			c.reflectControlQuad()
			c.placeX = c.points[j]
			c.placeY = c.points[j+1]
			c.path.QuadBezier(toFixedP(c.cntlPtX, c.cntlPtY), c.point())
			c.lastKey = k
		}
	case 'c':
		rel = true
		fallthrough
	case 'C':
		if !c.hasSetsOrPoints(l, 6) {
			return errParamMismatch
		}
		for j := 0; j < l; j += 6 {
			if rel {
				c.setToAbs(j, 6)
			}
			x1, y1 := c.points[j], c.points[j+1]
			c.cntlPtX, c.cntlPtY = c.points[j+2], c.points[j+3]
			c.placeX = c.points[j+4]
			c.placeY = c.points[j+5]
			c.path.CubeBezier(toFixedP(x1, y1), toFixedP(c.cntlPtX, c.cntlPtY), c.point())
		}
	case 's':
		rel = true
		fallthrough
	case 'S':
		if !c.hasSetsOrPoints(l, 4) {
			return errParamMismatch
		}
		for j := 0; j < l; j += 4 {
			if rel {
				c.setToAbs(j, 4)
			}
			c.reflectControlCube()
			x1, y1 := c.cntlPtX, c.cntlPtY
			c.cntlPtX, c.cntlPtY = c.points[j], c.points[j+1]
			c.placeX = c.points[j+2]
			c.placeY = c.points[j+3]
			c.path.CubeBezier(toFixedP(x1, y1), toFixedP(c.cntlPtX, c.cntlPtY), c.point())
			c.lastKey = k
		}
	case 'a', 'A':
		if !c.hasSetsOrPoints(l, 7) {
			return errParamMismatch
		}
		for j := 0; j < l-6; j += 7 {
			if k == 'a' {
				c.points[j+5] += c.placeX
				c.points[j+6] += c.placeY
			}
			c.addArcFromA(c.points[j:])
		}
	default:
		if err := c.handleError("invalid path command %q", k); err != nil {
			return err
		}
	}
	c.lastKey = k
	return nil
}

// ellipseAt adds a closed path approximating the ellipse centered
// at cx, cy with radii rx and ry.
func (c *pathCursor) ellipseAt(cx, cy, rx, ry float64) {
	c.placeX, c.placeY = cx+rx, cy
	c.points = c.points[0:0]
	c.points = append(c.points, rx, ry, 0.0, 1.0, 0.0, c.placeX, c.placeY)
	c.path.Start(c.point())
	c.placeX, c.placeY = c.path.addArc(c.points, cx, cy, c.placeX, c.placeY)
	c.path.Stop(true)
}

// addArcFromA adds a path of an arc element to the cursor path
func (c *pathCursor) addArcFromA(points []float64) {
	cx, cy := findEllipseCenter(&points[0], &points[1], points[2]*math.Pi/180, c.placeX,
		c.placeY, points[5], points[6], points[4] == 0, points[3] == 0)
	c.placeX, c.placeY = c.path.addArc(points, cx, cy, c.placeX, c.placeY)
}
