// Implements a raster backend to render SVG documents,
// by wrapping rasterx.
package svgraster

import (
	"image"

	"github.com/ionagamed/rsvg/svgdom"
	"github.com/srwiley/rasterx"
)

// assert interface conformance
var (
	_ svgdom.Driver  = (*Renderer)(nil)
	_ svgdom.Filler  = filler{}
	_ svgdom.Stroker = stroker{}
)

// Renderer rasterizes a parsed SVG document. Filling and stroking
// use separated rasterx instances to avoid shared state, writing
// to a common scanner.
type Renderer struct {
	dasher *rasterx.Dasher
	filler *rasterx.Filler
}

// NewRenderer returns a renderer writing to `scanner`.
// In addition to rasterizing lines like a Scanner,
// it can also rasterize quadratic and cubic bezier curves.
func NewRenderer(width, height int, scanner rasterx.Scanner) *Renderer {
	return &Renderer{
		dasher: rasterx.NewDasher(width, height, scanner),
		filler: rasterx.NewFiller(width, height, scanner),
	}
}

// SetupDrawers implements svgdom.Driver.
func (rd *Renderer) SetupDrawers(willFill, willStroke bool) (f svgdom.Filler, s svgdom.Stroker) {
	if willFill {
		f = filler{rd.filler}
	}
	if willStroke {
		s = stroker{rd.dasher}
	}
	return f, s
}

// filler exposes the filling rasterizer, translating the paint
// values to scanner colors.
type filler struct {
	*rasterx.Filler
}

func (f filler) SetColor(color svgdom.Pattern, opacity float64) {
	setColorFromPattern(color, opacity, f.Scanner)
}

// stroker exposes the dashed line rasterizer, translating paints
// and stroke options.
type stroker struct {
	*rasterx.Dasher
}

func (s stroker) SetColor(color svgdom.Pattern, opacity float64) {
	setColorFromPattern(color, opacity, s.Scanner)
}

func (s stroker) SetStrokeOptions(options svgdom.StrokeOptions) {
	s.SetStroke(
		options.LineWidth, options.Join.MiterLimit, capToFunc[options.Join.LeadLineCap],
		capToFunc[options.Join.TrailLineCap], gapToFunc[options.Join.LineGap],
		joinToJoin[options.Join.LineJoin], options.Dash.Dash, options.Dash.DashOffset,
	)
}

func toRasterxGradient(grad svgdom.Gradient) rasterx.Gradient {
	var (
		points   [5]float64
		isRadial bool
	)
	switch dir := grad.Direction.(type) {
	case svgdom.Linear:
		points[0], points[1], points[2], points[3] = dir[0], dir[1], dir[2], dir[3]
		isRadial = false
	case svgdom.Radial:
		points[0], points[1], points[2], points[3], points[4], _ = dir[0], dir[1], dir[2], dir[3], dir[4], dir[5] // in rasterx fr is ignored
		isRadial = true
	}
	stops := make([]rasterx.GradStop, len(grad.Stops))
	for i := range grad.Stops {
		stops[i] = rasterx.GradStop(grad.Stops[i])
	}
	return rasterx.Gradient{
		Points:   points,
		Stops:    stops,
		Bounds:   grad.Bounds,
		Matrix:   rasterx.Matrix2D(grad.Matrix),
		Spread:   rasterx.SpreadMethod(grad.Spread),
		Units:    rasterx.GradientUnits(grad.Units),
		IsRadial: isRadial,
	}
}

// resolve gradient color
func setColorFromPattern(color svgdom.Pattern, opacity float64, scanner rasterx.Scanner) {
	switch fillerColor := color.(type) {
	case svgdom.PlainColor:
		scanner.SetColor(rasterx.ApplyOpacity(fillerColor, opacity))
	case svgdom.Gradient:
		if fillerColor.Units == svgdom.ObjectBoundingBox {
			fRect := scanner.GetPathExtent()
			mnx, mny := float64(fRect.Min.X)/64, float64(fRect.Min.Y)/64
			mxx, mxy := float64(fRect.Max.X)/64, float64(fRect.Max.Y)/64
			fillerColor.Bounds.X, fillerColor.Bounds.Y = mnx, mny
			fillerColor.Bounds.W, fillerColor.Bounds.H = mxx-mnx, mxy-mny
		}
		rasterxGradient := toRasterxGradient(fillerColor)
		scanner.SetColor(rasterxGradient.GetColorFunction(opacity))
	}
}

var (
	joinToJoin = [...]rasterx.JoinMode{
		svgdom.Round:     rasterx.Round,
		svgdom.Bevel:     rasterx.Bevel,
		svgdom.Miter:     rasterx.Miter,
		svgdom.MiterClip: rasterx.MiterClip,
		svgdom.Arc:       rasterx.Arc,
		svgdom.ArcClip:   rasterx.ArcClip,
	}

	capToFunc = [...]rasterx.CapFunc{
		svgdom.ButtCap:      rasterx.ButtCap,
		svgdom.SquareCap:    rasterx.SquareCap,
		svgdom.RoundCap:     rasterx.RoundCap,
		svgdom.CubicCap:     rasterx.CubicCap,
		svgdom.QuadraticCap: rasterx.QuadraticCap,
	}

	gapToFunc = [...]rasterx.GapFunc{
		svgdom.FlatGap:      rasterx.FlatGap,
		svgdom.RoundGap:     rasterx.RoundGap,
		svgdom.CubicGap:     rasterx.CubicGap,
		svgdom.QuadraticGap: rasterx.QuadraticGap,
	}
)

// RenderImage rasterizes the `region` of the document into a
// width x height RGBA image, using a ScannerGV instance. If `id` is
// not empty, only the paths contributed by this element are drawn.
// A degenerate region yields a fully transparent image.
func RenderImage(doc *svgdom.Document, region svgdom.Bounds, width, height int, id string) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	if width <= 0 || height <= 0 || region.W <= 0 || region.H <= 0 {
		return img
	}
	scanner := rasterx.NewScannerGV(width, height, img, img.Bounds())
	renderer := NewRenderer(width, height, scanner)
	doc.SetTargetRegion(region, 0, 0, float64(width), float64(height))
	if id == "" {
		doc.Draw(renderer, 1.0)
	} else {
		doc.DrawElement(renderer, id, 1.0)
	}
	return img
}
