package svgdom

import (
	"fmt"
	"image/color"
	"strconv"
	"strings"

	"golang.org/x/image/colornames"
)

// Pattern groups the different paint origins, either
// a PlainColor or a Gradient.
type Pattern interface {
	isPattern()
}

// PlainColor is a solid, non premultiplied color.
type PlainColor struct {
	color.NRGBA
}

// NewPlainColor builds a PlainColor from its components.
func NewPlainColor(r, g, b, a uint8) PlainColor {
	return PlainColor{NRGBA: color.NRGBA{R: r, G: g, B: b, A: a}}
}

func (PlainColor) isPattern() {}
func (Gradient) isPattern()   {}

// optionalColor distinguishes the "none" value from an actual color.
type optionalColor struct {
	color PlainColor
	valid bool
}

func validColor(c PlainColor) optionalColor {
	return optionalColor{color: c, valid: true}
}

// asPattern returns nil for "none", which disables painting.
func (o optionalColor) asPattern() Pattern {
	if !o.valid {
		return nil
	}
	return o.color
}

func (o optionalColor) asColor() color.Color {
	if !o.valid {
		return color.NRGBA{}
	}
	return o.color
}

// parseColorValue reads a color component, as an integer in [0, 255]
// or as a percentage.
func parseColorValue(v string) (uint8, error) {
	v = strings.TrimSpace(v)
	if strings.HasSuffix(v, "%") {
		n, err := strconv.Atoi(strings.TrimSpace(strings.TrimSuffix(v, "%")))
		if err != nil {
			return 0, err
		}
		if n > 100 {
			n = 100
		} else if n < 0 {
			n = 0
		}
		return uint8(n * 0xFF / 100), nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, err
	}
	if n > 0xFF {
		n = 0xFF
	} else if n < 0 {
		n = 0
	}
	return uint8(n), nil
}

func parseRGBColor(v string) (optionalColor, error) {
	open := strings.IndexByte(v, '(')
	if open == -1 || !strings.HasSuffix(v, ")") {
		return optionalColor{}, fmt.Errorf("invalid rgb color %q", v)
	}
	values := strings.Split(v[open+1:len(v)-1], ",")
	hasAlpha := strings.HasPrefix(v, "rgba")
	if (hasAlpha && len(values) != 4) || (!hasAlpha && len(values) != 3) {
		return optionalColor{}, fmt.Errorf("invalid rgb color %q", v)
	}
	var comps [3]uint8
	for i := range comps {
		c, err := parseColorValue(values[i])
		if err != nil {
			return optionalColor{}, err
		}
		comps[i] = c
	}
	alpha := 1.0
	if hasAlpha {
		a, err := parseFloat(strings.TrimSpace(values[3]), 64)
		if err != nil {
			return optionalColor{}, err
		}
		if a < 0 {
			a = 0
		} else if a > 1 {
			a = 1
		}
		alpha = a
	}
	return validColor(NewPlainColor(comps[0], comps[1], comps[2], uint8(alpha*0xFF))), nil
}

func parseHexColor(v string) (optionalColor, error) {
	var c color.NRGBA
	c.A = 0xFF
	var err error
	switch len(v) {
	case 7:
		_, err = fmt.Sscanf(v, "#%02x%02x%02x", &c.R, &c.G, &c.B)
	case 4:
		_, err = fmt.Sscanf(v, "#%1x%1x%1x", &c.R, &c.G, &c.B)
		// expand the compressed form: #abc -> #aabbcc
		c.R *= 17
		c.G *= 17
		c.B *= 17
	default:
		err = fmt.Errorf("invalid color string %q", v)
	}
	if err != nil {
		return optionalColor{}, err
	}
	return validColor(PlainColor{NRGBA: c}), nil
}

// parseSVGColor parses an SVG color value, which may be a named
// color, a #-hex form, or an rgb()/rgba() function. The value
// "none" yields an invalid color, disabling painting.
func parseSVGColor(colorStr string) (optionalColor, error) {
	v := strings.ToLower(strings.TrimSpace(colorStr))
	switch v {
	case "none", "":
		return optionalColor{}, nil
	case "transparent":
		return validColor(NewPlainColor(0, 0, 0, 0)), nil
	case "currentcolor":
		// document colors are not tracked, default to black
		return validColor(NewPlainColor(0, 0, 0, 0xFF)), nil
	}
	switch {
	case strings.HasPrefix(v, "rgb"):
		return parseRGBColor(v)
	case strings.HasPrefix(v, "#"):
		return parseHexColor(v)
	default:
		if cn, ok := colornames.Map[v]; ok {
			return validColor(NewPlainColor(cn.R, cn.G, cn.B, 0xFF)), nil
		}
		return optionalColor{}, fmt.Errorf("unknown color name %q", colorStr)
	}
}
