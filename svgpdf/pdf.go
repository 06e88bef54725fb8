// Implements a PDF backend to render SVG documents,
// by wrapping github.com/benoitkugler/pdf.
package svgpdf

import (
	"bytes"
	"image/color"

	"github.com/benoitkugler/pdf/contentstream"
	"github.com/benoitkugler/pdf/model"
	"github.com/ionagamed/rsvg/svgdom"
	"golang.org/x/image/math/fixed"
)

// assert interface conformance
var (
	_ svgdom.Driver  = Renderer{}
	_ svgdom.Filler  = (*filler)(nil)
	_ svgdom.Stroker = (*stroker)(nil)
	_ svgdom.Stroker = (*patherStroker)(nil)
)

// Renderer writes the draw operations into a PDF
// appearance stream.
type Renderer struct {
	pdf                 *contentstream.Appearance
	fillOpacityStates   map[float64]*model.GraphicState
	strokeOpacityStates map[float64]*model.GraphicState
}

// NewRenderer returns a renderer which will
// write to the given `cs`.
func NewRenderer(cs *contentstream.Appearance) Renderer {
	return Renderer{
		pdf:                 cs,
		fillOpacityStates:   make(map[float64]*model.GraphicState),
		strokeOpacityStates: make(map[float64]*model.GraphicState),
	}
}

// implements the common path commands,
// shared by the filler and the stroker
type pather struct {
	pdf     *contentstream.Appearance
	color   svgdom.Pattern
	opacity float64
}

// implements the filling operation
type filler struct {
	pather
	useNonZeroWinding bool
	fillOpacityStates map[float64]*model.GraphicState
}

// implements the stroking operation, while
// also writing the path
type patherStroker struct {
	pather
	strokeOpacityStates map[float64]*model.GraphicState
}

// only strokes the current path, established by
// the filler
type stroker struct {
	patherStroker
}

func (r Renderer) SetupDrawers(willFill, willStroke bool) (f svgdom.Filler, s svgdom.Stroker) {
	if willFill {
		f = &filler{pather: pather{pdf: r.pdf}, fillOpacityStates: r.fillOpacityStates}
		if willStroke { // dont write the same path twice
			s = &stroker{patherStroker{pather: pather{pdf: r.pdf}, strokeOpacityStates: r.strokeOpacityStates}}
		}
	} else if willStroke { // write the path
		s = &patherStroker{pather: pather{pdf: r.pdf}, strokeOpacityStates: r.strokeOpacityStates}
	}
	return f, s
}

func fixedTof(a fixed.Point26_6) (float64, float64) {
	return float64(a.X) / 64, float64(a.Y) / 64
}

func (p *pather) Clear() {
	p.color = nil
	p.opacity = 0
}

func (p *pather) Start(a fixed.Point26_6) {
	x, y := fixedTof(a)
	p.pdf.Ops(contentstream.OpMoveTo{X: x, Y: y})
}

func (p *pather) Line(b fixed.Point26_6) {
	x, y := fixedTof(b)
	p.pdf.Ops(contentstream.OpLineTo{X: x, Y: y})
}

func (p *pather) QuadBezier(b, c fixed.Point26_6) {
	cx, cy := fixedTof(b)
	x, y := fixedTof(c)
	p.pdf.Ops(contentstream.OpCurveTo1{X2: cx, Y2: cy, X3: x, Y3: y})
}

func (p *pather) CubeBezier(b, c, d fixed.Point26_6) {
	cx0, cy0 := fixedTof(b)
	cx1, cy1 := fixedTof(c)
	x, y := fixedTof(d)
	p.pdf.Ops(contentstream.OpCubicTo{X1: cx0, Y1: cy0, X2: cx1, Y2: cy1, X3: x, Y3: y})
}

func (p *pather) Stop(closeLoop bool) {
	if closeLoop {
		p.pdf.Ops(contentstream.OpClosePath{})
	}
}

func (p *pather) SetColor(color svgdom.Pattern, opacity float64) {
	p.color = color
	p.opacity = opacity
}

// flatGradientColor approximates a gradient by its first visible
// stop, used until shading patterns are supported.
func flatGradientColor(g svgdom.Gradient) (svgdom.PlainColor, bool) {
	for _, stop := range g.Stops {
		if stop.StopColor == nil {
			continue
		}
		nrgba := color.NRGBAModel.Convert(stop.StopColor).(color.NRGBA)
		nrgba.A = uint8(float64(nrgba.A) * stop.Opacity)
		return svgdom.PlainColor{NRGBA: nrgba}, true
	}
	return svgdom.PlainColor{}, false
}

func (f *filler) setFillState(c svgdom.PlainColor, opacity float64) {
	f.pdf.SetColorFill(c)
	opacity *= float64(c.A) / 255.
	// cache the opacity states
	gs, ok := f.fillOpacityStates[opacity]
	if !ok {
		gs = &model.GraphicState{Ca: model.ObjFloat(opacity), BM: []model.Name{"Normal"}}
		f.fillOpacityStates[opacity] = gs
	}
	name := f.pdf.AddExtGState(gs)
	f.pdf.Ops(contentstream.OpSetExtGState{Dict: name})
}

// TODO: support gradient shading patterns
func (f *filler) Draw() {
	switch c := f.color.(type) {
	case svgdom.PlainColor:
		f.setFillState(c, f.opacity)
	case svgdom.Gradient:
		if flat, ok := flatGradientColor(c); ok {
			f.setFillState(flat, f.opacity)
		}
	}
	if f.useNonZeroWinding {
		f.pdf.Ops(contentstream.OpFill{})
	} else {
		f.pdf.Ops(contentstream.OpEOFill{})
	}
}

func (f *filler) SetWinding(useNonZeroWinding bool) {
	f.useNonZeroWinding = useNonZeroWinding
}

func (f *patherStroker) SetStrokeOptions(options svgdom.StrokeOptions) {
	var capStyle, joinStyle uint8
	switch options.Join.TrailLineCap {
	case svgdom.ButtCap:
		capStyle = 0
	case svgdom.RoundCap:
		capStyle = 1
	case svgdom.SquareCap:
		capStyle = 2
	}
	switch options.Join.LineJoin {
	case svgdom.Miter:
		joinStyle = 0
	case svgdom.Round:
		joinStyle = 1
	case svgdom.Bevel:
		joinStyle = 2
	}

	f.pdf.Ops(
		contentstream.OpSetDash{Dash: model.DashPattern{
			Array: options.Dash.Dash,
			Phase: options.Dash.DashOffset,
		}},
		contentstream.OpSetLineWidth{W: float64(options.LineWidth) / 64},
		contentstream.OpSetLineCap{Style: capStyle},
		contentstream.OpSetLineJoin{Style: joinStyle},
		contentstream.OpSetMiterLimit{Limit: float64(options.Join.MiterLimit) / 64},
	)
}

func (f *patherStroker) setStrokeState(c svgdom.PlainColor, opacity float64) {
	f.pdf.SetColorStroke(c)
	opacity *= float64(c.A) / 255.
	// cache the opacity states
	gs, ok := f.strokeOpacityStates[opacity]
	if !ok {
		gs = &model.GraphicState{CA: model.ObjFloat(opacity), BM: []model.Name{"Normal"}}
		f.strokeOpacityStates[opacity] = gs
	}
	name := f.pdf.AddExtGState(gs)
	f.pdf.Ops(contentstream.OpSetExtGState{Dict: name})
}

// TODO: support gradient shading patterns
func (f *patherStroker) Draw() {
	switch c := f.color.(type) {
	case svgdom.PlainColor:
		f.setStrokeState(c, f.opacity)
	case svgdom.Gradient:
		if flat, ok := flatGradientColor(c); ok {
			f.setStrokeState(flat, f.opacity)
		}
	}
	f.pdf.Ops(contentstream.OpStroke{})
}

// the stroker doesnt write the path again

func (p *stroker) Start(a fixed.Point26_6) {}

func (p *stroker) Line(b fixed.Point26_6) {}

func (p *stroker) QuadBezier(b, c fixed.Point26_6) {}

func (p *stroker) CubeBezier(b, c, d fixed.Point26_6) {}

func (p *stroker) Stop(closeLoop bool) {}

// RenderPDF renders the given region of the document onto a single
// widthPt x heightPt page and returns the assembled PDF. If `id` is
// not empty, only the paths contributed by this element are drawn.
// A degenerate region yields a blank page.
func RenderPDF(doc *svgdom.Document, region svgdom.Bounds, widthPt, heightPt float64, id string) ([]byte, error) {
	ap := contentstream.NewAppearance(widthPt, heightPt)
	renderer := NewRenderer(&ap)
	ap.Ops(
		contentstream.OpSave{},
		// svg space grows downwards, pdf space upwards
		contentstream.OpConcat{Matrix: model.Matrix{1, 0, 0, -1, 0, heightPt}},
	)
	if region.W > 0 && region.H > 0 {
		doc.SetTargetRegion(region, 0, 0, widthPt, heightPt)
		if id == "" {
			doc.Draw(renderer, 1.0)
		} else {
			doc.DrawElement(renderer, id, 1.0)
		}
	}
	ap.Ops(contentstream.OpRestore{})

	var out model.Document
	var page model.PageObject
	ap.ApplyToPageObject(&page, true)
	out.Catalog.Pages.Kids = append(out.Catalog.Pages.Kids, &page)
	var buf bytes.Buffer
	if err := out.Write(&buf, nil); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
