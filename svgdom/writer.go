package svgdom

// Serialization of a parsed document back to standalone SVG markup.

import (
	"encoding/xml"
	"fmt"
	"image/color"
	"io"
	"strconv"
	"strings"
)

// WriteSVG serializes the document as a standalone SVG image of the
// given pixel size. When id is not empty, only the paths contributed
// by that element are written and the viewBox is cropped to its
// extent. Gradient paints are emitted as defs referenced by the path
// elements.
func (doc *Document) WriteSVG(w io.Writer, width, height float64, id string) error {
	viewBox := doc.ViewBox
	var indices []int
	if id == "" {
		indices = make([]int, len(doc.Paths))
		for i := range indices {
			indices[i] = i
		}
	} else {
		indices = doc.ids[id]
		if ext, ok := doc.ElementExtent(id); ok {
			viewBox = ext
		}
	}

	sw := &svgWriter{}
	fmt.Fprintf(&sw.b, "<?xml version=\"1.0\" encoding=\"UTF-8\"?>\n"+
		"<svg xmlns=\"http://www.w3.org/2000/svg\" width=\"%s\" height=\"%s\" viewBox=\"%s %s %s %s\">\n",
		fmtFloat(width), fmtFloat(height),
		fmtFloat(viewBox.X), fmtFloat(viewBox.Y), fmtFloat(viewBox.W), fmtFloat(viewBox.H))
	for _, t := range doc.Titles {
		sw.textElement("title", t)
	}
	for _, d := range doc.Descriptions {
		sw.textElement("desc", d)
	}

	// gradient paints are resolved first so that the defs block
	// comes before the paths referencing it
	var defs strings.Builder
	paints := make([]pathPaint, len(indices))
	for k, i := range indices {
		st := doc.Paths[i].Style
		paints[k] = pathPaint{
			fill:   sw.paintDef(&defs, st.FillerColor),
			stroke: sw.paintDef(&defs, st.LinerColor),
		}
	}
	if defs.Len() > 0 {
		sw.b.WriteString("  <defs>\n")
		sw.b.WriteString(defs.String())
		sw.b.WriteString("  </defs>\n")
	}

	for k, i := range indices {
		sw.path(doc.Paths[i], paints[k])
	}
	sw.b.WriteString("</svg>\n")
	_, err := io.WriteString(w, sw.b.String())
	return err
}

// svgWriter accumulates the output markup. Gradients are assigned
// sequential ids in the order their paints are first seen.
type svgWriter struct {
	b         strings.Builder
	gradCount int
}

// pathPaint holds the resolved paint attribute values of one path.
type pathPaint struct {
	fill, stroke string
}

func fmtFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

func colorHex(c color.Color) string {
	n := color.NRGBAModel.Convert(c).(color.NRGBA)
	return fmt.Sprintf("#%02x%02x%02x", n.R, n.G, n.B)
}

func colorAlpha(c color.Color) float64 {
	n := color.NRGBAModel.Convert(c).(color.NRGBA)
	return float64(n.A) / 0xFF
}

// paintOpacity folds the alpha of a plain paint color into the
// opacity attribute, since the paint is written as an opaque hex
// triplet.
func paintOpacity(base float64, p Pattern) float64 {
	if c, ok := p.(PlainColor); ok {
		return base * float64(c.A) / 0xFF
	}
	return base
}

func (sw *svgWriter) textElement(tag, text string) {
	fmt.Fprintf(&sw.b, "  <%s>", tag)
	xml.EscapeText(&sw.b, []byte(text))
	fmt.Fprintf(&sw.b, "</%s>\n", tag)
}

// paintDef returns the paint attribute value for p, appending a
// gradient definition to defs when needed.
func (sw *svgWriter) paintDef(defs *strings.Builder, p Pattern) string {
	switch p := p.(type) {
	case PlainColor:
		return colorHex(p)
	case Gradient:
		name := fmt.Sprintf("grad%d", sw.gradCount)
		sw.gradCount++
		writeGradientDef(defs, name, p)
		return "url(#" + name + ")"
	}
	return "none"
}

func writeGradientDef(defs *strings.Builder, name string, g Gradient) {
	var attrs strings.Builder
	if g.Units == UserSpaceOnUse {
		attrs.WriteString(` gradientUnits="userSpaceOnUse"`)
	}
	switch g.Spread {
	case ReflectSpread:
		attrs.WriteString(` spreadMethod="reflect"`)
	case RepeatSpread:
		attrs.WriteString(` spreadMethod="repeat"`)
	}
	if g.Matrix != Identity {
		fmt.Fprintf(&attrs, " gradientTransform=%q", g.Matrix.String())
	}
	switch dir := g.Direction.(type) {
	case Linear:
		fmt.Fprintf(defs, "    <linearGradient id=%q x1=%q y1=%q x2=%q y2=%q%s>\n",
			name, fmtFloat(dir[0]), fmtFloat(dir[1]), fmtFloat(dir[2]), fmtFloat(dir[3]),
			attrs.String())
		writeStops(defs, g.Stops)
		defs.WriteString("    </linearGradient>\n")
	case Radial:
		if dir[5] != 0 {
			fmt.Fprintf(&attrs, " fr=%q", fmtFloat(dir[5]))
		}
		fmt.Fprintf(defs, "    <radialGradient id=%q cx=%q cy=%q fx=%q fy=%q r=%q%s>\n",
			name, fmtFloat(dir[0]), fmtFloat(dir[1]), fmtFloat(dir[2]), fmtFloat(dir[3]),
			fmtFloat(dir[4]), attrs.String())
		writeStops(defs, g.Stops)
		defs.WriteString("    </radialGradient>\n")
	}
}

func writeStops(defs *strings.Builder, stops []GradStop) {
	for _, s := range stops {
		fmt.Fprintf(defs, "      <stop offset=%q", fmtFloat(s.Offset))
		opacity := s.Opacity
		if s.StopColor != nil {
			fmt.Fprintf(defs, " stop-color=%q", colorHex(s.StopColor))
			opacity *= colorAlpha(s.StopColor)
		}
		if opacity != 1 {
			fmt.Fprintf(defs, " stop-opacity=%q", fmtFloat(opacity))
		}
		defs.WriteString("/>\n")
	}
}

func capName(c CapMode) string {
	switch c {
	case ButtCap:
		return "butt"
	case RoundCap:
		return "round"
	case SquareCap:
		return "square"
	default:
		return "" // nonstandard caps have no attribute value
	}
}

func joinName(j JoinMode) string {
	switch j {
	case Miter:
		return "miter"
	case MiterClip:
		return "miter-clip"
	case Round:
		return "round"
	case Bevel:
		return "bevel"
	case Arc:
		return "arc"
	case ArcClip:
		return "arc-clip"
	default:
		return ""
	}
}

func (sw *svgWriter) path(sp StyledPath, paints pathPaint) {
	st := sp.Style
	fmt.Fprintf(&sw.b, "  <path d=%q fill=%q", sp.Path.ToSVGPath(), paints.fill)
	if op := paintOpacity(st.FillOpacity, st.FillerColor); op != 1 {
		fmt.Fprintf(&sw.b, " fill-opacity=%q", fmtFloat(op))
	}
	if !st.UseNonZeroWinding {
		sw.b.WriteString(` fill-rule="evenodd"`)
	}
	if st.LinerColor != nil {
		fmt.Fprintf(&sw.b, " stroke=%q stroke-width=%q", paints.stroke, fmtFloat(st.LineWidth))
		if op := paintOpacity(st.LineOpacity, st.LinerColor); op != 1 {
			fmt.Fprintf(&sw.b, " stroke-opacity=%q", fmtFloat(op))
		}
		if name := capName(st.Join.TrailLineCap); name != "" && name != "butt" {
			fmt.Fprintf(&sw.b, " stroke-linecap=%q", name)
		}
		if name := joinName(st.Join.LineJoin); name != "" && name != "miter" {
			fmt.Fprintf(&sw.b, " stroke-linejoin=%q", name)
		}
		if limit := float64(st.Join.MiterLimit) / 64; limit != 4 {
			fmt.Fprintf(&sw.b, " stroke-miterlimit=%q", fmtFloat(limit))
		}
		if len(st.Dash.Dash) > 0 {
			dashes := make([]string, len(st.Dash.Dash))
			for i, d := range st.Dash.Dash {
				dashes[i] = fmtFloat(d)
			}
			fmt.Fprintf(&sw.b, " stroke-dasharray=%q", strings.Join(dashes, " "))
			if st.Dash.DashOffset != 0 {
				fmt.Fprintf(&sw.b, " stroke-dashoffset=%q", fmtFloat(st.Dash.DashOffset))
			}
		}
	}
	if st.transform != Identity {
		fmt.Fprintf(&sw.b, " transform=%q", st.transform.String())
	}
	sw.b.WriteString("/>\n")
}
