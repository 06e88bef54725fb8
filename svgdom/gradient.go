package svgdom

// Gradient paints, shared by the painting drivers.

import (
	"encoding/xml"
	"image/color"
	"strings"
)

// GradientUnits selects the coordinate space of the gradient geometry.
type GradientUnits byte

// SVG gradient units constants
const (
	ObjectBoundingBox GradientUnits = iota
	UserSpaceOnUse
)

// SpreadMethod controls how a gradient paints outside of its bounds.
type SpreadMethod byte

// SVG spread parameter constants
const (
	PadSpread SpreadMethod = iota
	ReflectSpread
	RepeatSpread
)

// GradStop is one color stop of a gradient ramp.
type GradStop struct {
	StopColor color.Color
	Offset    float64
	Opacity   float64
}

// Gradient holds a description of an SVG gradient paint.
type Gradient struct {
	Direction gradientDirecter
	Stops     []GradStop
	Bounds    Bounds
	Matrix    Matrix2D
	Spread    SpreadMethod
	Units     GradientUnits
}

type gradientDirecter interface {
	isRadial() bool
}

// Linear defines a linear gradient direction: x1, y1, x2, y2.
type Linear [4]float64

func (Linear) isRadial() bool { return false }

// Radial defines a radial gradient direction: cx, cy, fx, fy, r, fr.
type Radial [6]float64

func (Radial) isRadial() bool { return true }

// readGradURL resolves a url(#id) paint reference against the
// gradients seen so far. The returned gradient is a value copy, so
// stops added to the definition afterwards do not propagate. Stops
// without an explicit color inherit defaultColor when it is plain.
func (c *docCursor) readGradURL(v string, defaultColor Pattern) (grad Gradient, ok bool) {
	if !strings.HasPrefix(v, "url(") || !strings.HasSuffix(v, ")") {
		return
	}
	urlStr := strings.TrimSpace(v[4 : len(v)-1])
	if !strings.HasPrefix(urlStr, "#") {
		return
	}
	g, has := c.doc.grads[urlStr[1:]]
	if !has {
		return
	}
	grad, ok = *g, true
	inherited := color.Color(color.NRGBA{A: 0xFF})
	if p, isPlain := defaultColor.(PlainColor); isPlain {
		inherited = p
	}
	for i, stop := range grad.Stops {
		if stop.StopColor != nil {
			continue
		}
		// the definition is shared, replace the stops before writing
		grad.Stops = append([]GradStop{}, grad.Stops...)
		for j := i; j < len(grad.Stops); j++ {
			if grad.Stops[j].StopColor == nil {
				grad.Stops[j].StopColor = inherited
			}
		}
		break
	}
	return
}

// readGradAttr handles the attributes shared by linearGradient and
// radialGradient elements.
func (c *docCursor) readGradAttr(attr xml.Attr) (err error) {
	switch attr.Name.Local {
	case "gradientTransform":
		c.grad.Matrix, err = c.parseTransformFrom(attr.Value, Identity)
	case "gradientUnits":
		switch strings.TrimSpace(attr.Value) {
		case "userSpaceOnUse":
			c.grad.Units = UserSpaceOnUse
		case "objectBoundingBox":
			c.grad.Units = ObjectBoundingBox
		}
	case "spreadMethod":
		switch strings.TrimSpace(attr.Value) {
		case "pad":
			c.grad.Spread = PadSpread
		case "reflect":
			c.grad.Spread = ReflectSpread
		case "repeat":
			c.grad.Spread = RepeatSpread
		}
	case "href":
		// inherit the stops of the referenced gradient
		if id := strings.TrimPrefix(attr.Value, "#"); id != attr.Value {
			if g, ok := c.doc.grads[id]; ok {
				c.grad.Stops = append([]GradStop{}, g.Stops...)
			}
		}
	}
	return
}
