package rsvg

import (
	"bytes"
	"math"

	"github.com/ionagamed/rsvg/svgdom"
	"github.com/ionagamed/rsvg/svgpdf"
	"github.com/ionagamed/rsvg/svgraster"
)

// BoundingBox locates a measured region in user units. Boxes returned
// by Document methods have every field rounded to three decimals.
type BoundingBox struct {
	X      float64
	Y      float64
	Width  float64
	Height float64
}

func round3(v float64) float64 { return math.Round(v*1000) / 1000 }

func roundBox(b BoundingBox) BoundingBox {
	return BoundingBox{
		X:      round3(b.X),
		Y:      round3(b.Y),
		Width:  round3(b.Width),
		Height: round3(b.Height),
	}
}

// Engine parses SVG sources into render-ready handles. The built-in
// engine returned by NewEngine is backed by the svgdom parser with
// the svgraster and svgpdf drivers; alternative engines can adapt
// other rendering backends to the same contract.
type Engine interface {
	Parse(data []byte) (Handle, error)
}

// Handle is one loaded document inside an engine. Element ids are
// passed bare, without the "#" prefix accepted by Document methods.
// A handle must not be used after Close.
type Handle interface {
	// Width and Height report the intrinsic pixel size, resolved
	// once at load time.
	Width() int
	Height() int

	BaseURI() string
	SetBaseURI(uri string)

	// DPI setters may clamp unusable values; the getters report the
	// effective resolution, resets restore the engine default.
	DPIX() float64
	DPIY() float64
	SetDPIX(dpi float64)
	SetDPIY(dpi float64)
	ResetDPIX()
	ResetDPIY()

	// HasElement reports whether the id was declared anywhere in the
	// document, whether or not it produces geometry.
	HasElement(id string) bool
	// Dimensions measures one element, or the whole document for an
	// empty id.
	Dimensions(id string) (BoundingBox, error)
	// Autocrop measures the tight box around the drawable content,
	// reporting false when there is none.
	Autocrop() (BoundingBox, bool)

	// Render produces the requested output. The request arrives
	// fully resolved except for Width and Height, which the handle
	// derives from the target when zero.
	Render(req RenderRequest) (*RenderResult, error)

	// ReleaseLoadResources drops state only needed while loading.
	// Called once after a successful parse; queries and renders
	// stay valid afterwards.
	ReleaseLoadResources()
	Close() error
}

// NewEngine returns the built-in rendering engine.
func NewEngine() Engine { return nativeEngine{} }

type nativeEngine struct{}

func (nativeEngine) Parse(data []byte) (Handle, error) {
	doc, err := svgdom.ReadStream(bytes.NewReader(data), svgdom.IgnoreErrorMode)
	if err != nil {
		return nil, err
	}
	return &nativeHandle{
		doc:  doc,
		dpiX: svgdom.DefaultDPI,
		dpiY: svgdom.DefaultDPI,
	}, nil
}

// nativeHandle owns one parsed document.
type nativeHandle struct {
	doc     *svgdom.Document
	baseURI string
	dpiX    float64
	dpiY    float64
}

func (h *nativeHandle) Width() int {
	w, _ := h.doc.IntrinsicSize()
	return w
}

func (h *nativeHandle) Height() int {
	_, ht := h.doc.IntrinsicSize()
	return ht
}

func (h *nativeHandle) BaseURI() string { return h.baseURI }

func (h *nativeHandle) SetBaseURI(uri string) { h.baseURI = uri }

// clampDPI substitutes the default for non-positive and NaN values.
func clampDPI(dpi float64) float64 {
	if !(dpi > 0) {
		return svgdom.DefaultDPI
	}
	return dpi
}

func (h *nativeHandle) DPIX() float64 { return h.dpiX }
func (h *nativeHandle) DPIY() float64 { return h.dpiY }

func (h *nativeHandle) SetDPIX(dpi float64) { h.dpiX = clampDPI(dpi) }
func (h *nativeHandle) SetDPIY(dpi float64) { h.dpiY = clampDPI(dpi) }

func (h *nativeHandle) ResetDPIX() { h.dpiX = svgdom.DefaultDPI }
func (h *nativeHandle) ResetDPIY() { h.dpiY = svgdom.DefaultDPI }

func (h *nativeHandle) HasElement(id string) bool { return h.doc.HasElement(id) }

func (h *nativeHandle) Dimensions(id string) (BoundingBox, error) {
	if id == "" {
		w, ht := h.doc.IntrinsicSize()
		return BoundingBox{Width: float64(w), Height: float64(ht)}, nil
	}
	if !h.doc.HasElement(id) {
		return BoundingBox{}, ErrElementNotFound
	}
	// ids declared without geometry (gradients, empty groups)
	// measure as a zero box
	ext, _ := h.doc.ElementExtent(id)
	return BoundingBox{X: ext.X, Y: ext.Y, Width: ext.W, Height: ext.H}, nil
}

func (h *nativeHandle) Autocrop() (BoundingBox, bool) {
	ext, ok := h.doc.ContentExtent()
	if !ok {
		return BoundingBox{}, false
	}
	visible, ok := intersectBounds(ext, h.doc.ViewBox)
	if !ok {
		return BoundingBox{}, false
	}
	return BoundingBox{X: visible.X, Y: visible.Y, Width: visible.W, Height: visible.H}, true
}

// intersectBounds clips a to b, reporting false for an empty overlap.
func intersectBounds(a, b svgdom.Bounds) (svgdom.Bounds, bool) {
	minX := math.Max(a.X, b.X)
	minY := math.Max(a.Y, b.Y)
	maxX := math.Min(a.X+a.W, b.X+b.W)
	maxY := math.Min(a.Y+a.H, b.Y+b.H)
	if maxX <= minX || maxY <= minY {
		return svgdom.Bounds{}, false
	}
	return svgdom.Bounds{X: minX, Y: minY, W: maxX - minX, H: maxY - minY}, true
}

var pixelFormats = map[Format]svgraster.PixelFormat{
	FormatRasterARGB32:    svgraster.ARGB32,
	FormatRasterRGB24:     svgraster.RGB24,
	FormatRasterA8:        svgraster.A8,
	FormatRasterA1:        svgraster.A1,
	FormatRasterRGB16_565: svgraster.RGB16_565,
	FormatRasterRGB30:     svgraster.RGB30,
}

// renderRegion locates the source rectangle of a render, the viewBox
// for the whole document or the extent of one element.
func (h *nativeHandle) renderRegion(elementID string) (svgdom.Bounds, error) {
	if elementID == "" {
		return h.doc.ViewBox, nil
	}
	if !h.doc.HasElement(elementID) {
		return svgdom.Bounds{}, ErrElementNotFound
	}
	ext, _ := h.doc.ElementExtent(elementID)
	return ext, nil
}

// resolveSize completes missing output dimensions from the source
// region, preserving its aspect ratio when only one axis is given.
func resolveSize(reqW, reqH int, region svgdom.Bounds) (int, int) {
	switch {
	case reqW > 0 && reqH > 0:
		return reqW, reqH
	case reqW > 0:
		if region.W <= 0 {
			return reqW, 0
		}
		return reqW, int(math.Round(float64(reqW) * region.H / region.W))
	case reqH > 0:
		if region.H <= 0 {
			return 0, reqH
		}
		return int(math.Round(float64(reqH) * region.W / region.H)), reqH
	default:
		return int(math.Round(region.W)), int(math.Round(region.H))
	}
}

func (h *nativeHandle) Render(req RenderRequest) (*RenderResult, error) {
	region, err := h.renderRegion(req.ElementID)
	if err != nil {
		return nil, err
	}
	width, height := resolveSize(req.Width, req.Height, region)

	res := &RenderResult{Format: req.Format, Width: width, Height: height}
	if req.Format.IsRaster() {
		res.PixelFormat = pixelFormats[req.Format].String()
	}
	if width <= 0 || height <= 0 || region.W <= 0 || region.H <= 0 {
		// nothing to draw, reported as an empty result rather
		// than an error
		res.Data = []byte{}
		res.Width, res.Height = 0, 0
		return res, nil
	}

	switch {
	case req.Format.IsRaster():
		img := svgraster.RenderImage(h.doc, region, width, height, req.ElementID)
		res.Data = svgraster.Pack(img, pixelFormats[req.Format])
	case req.Format == FormatPNG:
		img := svgraster.RenderImage(h.doc, region, width, height, req.ElementID)
		res.Data, err = svgraster.EncodePNG(img)
		if err != nil {
			return nil, err
		}
	case req.Format == FormatPDF:
		res.Data, err = svgpdf.RenderPDF(h.doc, region, float64(width), float64(height), req.ElementID)
		if err != nil {
			return nil, err
		}
	case req.Format == FormatSVG:
		var buf bytes.Buffer
		if err := h.doc.WriteSVG(&buf, float64(width), float64(height), req.ElementID); err != nil {
			return nil, err
		}
		res.Data = buf.Bytes()
	default:
		return nil, ErrUnsupportedFormat
	}
	return res, nil
}

func (h *nativeHandle) ReleaseLoadResources() { h.doc.ReleaseParseResources() }

func (h *nativeHandle) Close() error {
	h.doc = nil
	return nil
}
