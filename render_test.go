package rsvg

import (
	"bytes"
	"errors"
	"image/png"
	"strings"
	"testing"
)

func TestRenderDefault(t *testing.T) {
	doc := load(t, testDoc)
	defer doc.Close()

	res, err := doc.Render(RenderRequest{})
	if err != nil {
		t.Fatalf("render: %s", err)
	}
	if res.Format != FormatRasterARGB32 || res.PixelFormat != "argb32" {
		t.Errorf("unexpected format %s / %q", res.Format, res.PixelFormat)
	}
	if res.Width != 100 || res.Height != 100 {
		t.Errorf("unexpected output size %dx%d", res.Width, res.Height)
	}
	if len(res.Data) != 100*100*4 {
		t.Fatalf("unexpected payload length %d", len(res.Data))
	}

	// (50, 20) lies inside the green rectangle
	off := (20*100 + 50) * 4
	if a, r, g, b := res.Data[off], res.Data[off+1], res.Data[off+2], res.Data[off+3]; a != 0xFF || r != 0 || g != 0xFF || b != 0 {
		t.Errorf("unexpected pixel %02x %02x %02x %02x", a, r, g, b)
	}
}

func TestRenderRasterLengths(t *testing.T) {
	doc := load(t, testDoc)
	defer doc.Close()

	lengths := map[Format]int{
		FormatRasterARGB32:    100 * 100 * 4,
		FormatRasterRGB24:     100 * 100 * 3,
		FormatRasterA8:        100 * 100,
		FormatRasterA1:        100 * 100 / 8,
		FormatRasterRGB16_565: 100 * 100 * 2,
		FormatRasterRGB30:     100 * 100 * 4,
	}
	for format, want := range lengths {
		res, err := doc.Render(RenderRequest{Format: format})
		if err != nil {
			t.Fatalf("%s: %s", format, err)
		}
		if len(res.Data) != want {
			t.Errorf("%s: payload length %d, want %d", format, len(res.Data), want)
		}
		if res.PixelFormat == "" {
			t.Errorf("%s: missing pixel format tag", format)
		}
	}
}

func TestRenderPNGOutput(t *testing.T) {
	doc := load(t, testDoc)
	defer doc.Close()

	res, err := doc.Render(RenderRequest{Format: FormatPNG})
	if err != nil {
		t.Fatalf("render: %s", err)
	}
	if res.Format != FormatPNG || res.PixelFormat != "" {
		t.Errorf("unexpected format %s / %q", res.Format, res.PixelFormat)
	}
	img, err := png.Decode(bytes.NewReader(res.Data))
	if err != nil {
		t.Fatalf("the payload should be a png image: %s", err)
	}
	if b := img.Bounds(); b.Dx() != 100 || b.Dy() != 100 {
		t.Errorf("unexpected image size %dx%d", b.Dx(), b.Dy())
	}
}

func TestRenderAspectRatio(t *testing.T) {
	doc := load(t, testDoc)
	defer doc.Close()

	res, err := doc.Render(RenderRequest{Width: 50})
	if err != nil {
		t.Fatalf("render: %s", err)
	}
	if res.Width != 50 || res.Height != 50 {
		t.Errorf("expected the height to follow the width, got %dx%d", res.Width, res.Height)
	}
	if len(res.Data) != 50*50*4 {
		t.Errorf("unexpected payload length %d", len(res.Data))
	}

	res, err = doc.Render(RenderRequest{Height: 25})
	if err != nil {
		t.Fatalf("render: %s", err)
	}
	if res.Width != 25 || res.Height != 25 {
		t.Errorf("expected the width to follow the height, got %dx%d", res.Width, res.Height)
	}
}

func TestRenderPDFOutput(t *testing.T) {
	doc := load(t, testDoc)
	defer doc.Close()

	res, err := doc.Render(RenderRequest{Format: FormatPDF, Width: 200, Height: 100})
	if err != nil {
		t.Fatalf("render: %s", err)
	}
	// the page is sized to the request, not to the intrinsic size
	if res.Width != 200 || res.Height != 100 {
		t.Errorf("unexpected output size %dx%d", res.Width, res.Height)
	}
	if !bytes.HasPrefix(res.Data, []byte("%PDF-")) {
		t.Error("the payload should start with a pdf header")
	}
	if !bytes.Contains(res.Data, []byte("%%EOF")) {
		t.Error("the payload should contain a pdf trailer")
	}
}

func TestRenderSVGOutput(t *testing.T) {
	doc := load(t, testDoc)
	defer doc.Close()

	res, err := doc.Render(RenderRequest{Format: FormatSVG})
	if err != nil {
		t.Fatalf("render: %s", err)
	}
	text := string(res.Data)
	if !strings.HasPrefix(text, "<?xml") || !strings.Contains(text, "<svg") {
		t.Fatalf("unexpected svg output %q", text)
	}

	reloaded := load(t, text)
	defer reloaded.Close()
	if reloaded.Width() != 100 || reloaded.Height() != 100 {
		t.Errorf("the reloaded document measures %dx%d", reloaded.Width(), reloaded.Height())
	}
}

func TestRenderElement(t *testing.T) {
	doc := load(t, testDoc)
	defer doc.Close()

	res, err := doc.Render(RenderRequest{ElementID: "#box"})
	if err != nil {
		t.Fatalf("render: %s", err)
	}
	// the element is cropped to its own extent
	if res.Width != 50 || res.Height != 30 {
		t.Errorf("unexpected output size %dx%d", res.Width, res.Height)
	}
	if len(res.Data) != 50*30*4 {
		t.Errorf("unexpected payload length %d", len(res.Data))
	}

	for _, id := range []string{"#missing", "box"} {
		if _, err := doc.Render(RenderRequest{ElementID: id}); !errors.Is(err, ErrElementNotFound) {
			t.Errorf("Render(%q): expected ErrElementNotFound, got %v", id, err)
		}
	}
}

func TestRenderGeometrylessElement(t *testing.T) {
	doc := load(t, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 10 10">
  <defs>
    <linearGradient id="fade">
      <stop offset="0" stop-color="#ff0000"/>
      <stop offset="1" stop-color="#0000ff"/>
    </linearGradient>
  </defs>
  <rect x="1" y="1" width="8" height="8" fill="url(#fade)"/>
</svg>`)
	defer doc.Close()

	res, err := doc.Render(RenderRequest{ElementID: "#fade"})
	if err != nil {
		t.Fatalf("render: %s", err)
	}
	if len(res.Data) != 0 || res.Width != 0 || res.Height != 0 {
		t.Errorf("expected an empty result, got %d bytes at %dx%d", len(res.Data), res.Width, res.Height)
	}
}

func TestRenderEmptyDocument(t *testing.T) {
	doc := load(t, `<svg xmlns="http://www.w3.org/2000/svg" width="0" height="0"></svg>`)
	defer doc.Close()

	res, err := doc.Render(RenderRequest{})
	if err != nil {
		t.Fatalf("render: %s", err)
	}
	if len(res.Data) != 0 || res.Width != 0 || res.Height != 0 {
		t.Errorf("expected an empty result, got %d bytes at %dx%d", len(res.Data), res.Width, res.Height)
	}
}

func TestRenderUnknownFormat(t *testing.T) {
	doc := load(t, testDoc)
	defer doc.Close()

	if _, err := doc.Render(RenderRequest{Format: Format(99)}); !errors.Is(err, ErrUnsupportedFormat) {
		t.Errorf("expected ErrUnsupportedFormat, got %v", err)
	}
}

func TestLegacyHelpers(t *testing.T) {
	doc := load(t, testDoc)
	defer doc.Close()

	canonical, err := doc.Render(RenderRequest{Width: 40, Height: 40})
	if err != nil {
		t.Fatalf("render: %s", err)
	}
	raw, err := doc.RenderRaw(40, 40, "")
	if err != nil {
		t.Fatalf("legacy raw render: %s", err)
	}
	if !bytes.Equal(raw.Data, canonical.Data) {
		t.Error("RenderRaw should match the canonical render byte for byte")
	}
	if raw.Format != canonical.Format || raw.PixelFormat != canonical.PixelFormat {
		t.Errorf("unexpected format %s / %q", raw.Format, raw.PixelFormat)
	}

	pngWant, err := doc.Render(RenderRequest{Format: FormatPNG, Width: 40, Height: 40})
	if err != nil {
		t.Fatalf("render: %s", err)
	}
	pngGot, err := doc.RenderPNG(40, 40, "")
	if err != nil {
		t.Fatalf("legacy png render: %s", err)
	}
	if !bytes.Equal(pngGot.Data, pngWant.Data) {
		t.Error("RenderPNG should match the canonical render byte for byte")
	}

	svgWant, err := doc.Render(RenderRequest{Format: FormatSVG})
	if err != nil {
		t.Fatalf("render: %s", err)
	}
	svgGot, err := doc.RenderSVG(0, 0, "")
	if err != nil {
		t.Fatalf("legacy svg render: %s", err)
	}
	if !bytes.Equal(svgGot.Data, svgWant.Data) {
		t.Error("RenderSVG should match the canonical render byte for byte")
	}

	named, err := doc.RenderFormat(40, 40, "RAW", "")
	if err != nil {
		t.Fatalf("named format render: %s", err)
	}
	if !bytes.Equal(named.Data, canonical.Data) {
		t.Error("RenderFormat should match the canonical render byte for byte")
	}
}

func TestLegacyHelperPDF(t *testing.T) {
	doc := load(t, testDoc)
	defer doc.Close()

	res, err := doc.RenderPDF(80, 80, "")
	if err != nil {
		t.Fatalf("legacy pdf render: %s", err)
	}
	if res.Format != FormatPDF || res.Width != 80 || res.Height != 80 {
		t.Errorf("unexpected result %s at %dx%d", res.Format, res.Width, res.Height)
	}
	if !bytes.HasPrefix(res.Data, []byte("%PDF-")) {
		t.Error("the payload should start with a pdf header")
	}
}

func TestRenderFormatUnknownName(t *testing.T) {
	doc := load(t, testDoc)
	defer doc.Close()

	if _, err := doc.RenderFormat(0, 0, "bmp", ""); !errors.Is(err, ErrUnsupportedFormat) {
		t.Errorf("expected ErrUnsupportedFormat, got %v", err)
	}
}

// fakeEngine scripts render outcomes to exercise the retry policy.
type fakeEngine struct{ handle *fakeHandle }

func (e fakeEngine) Parse([]byte) (Handle, error) { return e.handle, nil }

type fakeHandle struct {
	intrinsicW, intrinsicH int
	resultW, resultH       int
	failures               int // renders yielding no payload before one succeeds
	attempts               int
}

func (h *fakeHandle) Width() int  { return h.intrinsicW }
func (h *fakeHandle) Height() int { return h.intrinsicH }

func (h *fakeHandle) BaseURI() string   { return "" }
func (h *fakeHandle) SetBaseURI(string) {}

func (h *fakeHandle) DPIX() float64   { return 90 }
func (h *fakeHandle) DPIY() float64   { return 90 }
func (h *fakeHandle) SetDPIX(float64) {}
func (h *fakeHandle) SetDPIY(float64) {}
func (h *fakeHandle) ResetDPIX()      {}
func (h *fakeHandle) ResetDPIY()      {}

func (h *fakeHandle) HasElement(string) bool { return false }

func (h *fakeHandle) Dimensions(string) (BoundingBox, error) {
	return BoundingBox{}, ErrElementNotFound
}

func (h *fakeHandle) Autocrop() (BoundingBox, bool) { return BoundingBox{}, false }

func (h *fakeHandle) Render(req RenderRequest) (*RenderResult, error) {
	h.attempts++
	res := &RenderResult{Format: req.Format, Width: h.resultW, Height: h.resultH, Data: []byte{}}
	if h.attempts > h.failures {
		res.Data = []byte{0xAB}
	}
	return res, nil
}

func (h *fakeHandle) ReleaseLoadResources() {}
func (h *fakeHandle) Close() error          { return nil }

func loadFake(t *testing.T, h *fakeHandle) *Document {
	t.Helper()
	doc, err := NewWithEngine(fakeEngine{handle: h}, []byte("<svg/>"))
	if err != nil {
		t.Fatalf("can't load through the fake engine: %s", err)
	}
	return doc
}

func TestRenderRetryRecovers(t *testing.T) {
	h := &fakeHandle{intrinsicW: 10, intrinsicH: 10, resultW: 10, resultH: 10, failures: 2}
	doc := loadFake(t, h)

	res, err := doc.Render(RenderRequest{})
	if err != nil {
		t.Fatalf("render: %s", err)
	}
	if len(res.Data) == 0 {
		t.Error("expected a payload after retrying")
	}
	if h.attempts != 3 {
		t.Errorf("expected 3 attempts, got %d", h.attempts)
	}
}

func TestRenderRetryExhausted(t *testing.T) {
	h := &fakeHandle{intrinsicW: 10, intrinsicH: 10, resultW: 10, resultH: 10, failures: 10}
	doc := loadFake(t, h)

	_, err := doc.Render(RenderRequest{})
	if !errors.Is(err, ErrRenderFailed) {
		t.Fatalf("expected ErrRenderFailed, got %v", err)
	}
	if h.attempts != maxRenderAttempts {
		t.Errorf("expected %d attempts, got %d", maxRenderAttempts, h.attempts)
	}
}

func TestRenderNoRetryWithoutGeometry(t *testing.T) {
	// an empty payload with zero dimensions is a valid outcome,
	// not a fault to mask
	h := &fakeHandle{intrinsicW: 10, intrinsicH: 10, failures: 10}
	doc := loadFake(t, h)

	res, err := doc.Render(RenderRequest{})
	if err != nil {
		t.Fatalf("render: %s", err)
	}
	if len(res.Data) != 0 {
		t.Errorf("expected an empty payload, got %d bytes", len(res.Data))
	}
	if h.attempts != 1 {
		t.Errorf("expected a single attempt, got %d", h.attempts)
	}
}

func TestRenderNoRetryDegenerateDocument(t *testing.T) {
	// documents with a zero intrinsic size never retry
	h := &fakeHandle{resultW: 5, resultH: 5, failures: 10}
	doc := loadFake(t, h)

	res, err := doc.Render(RenderRequest{})
	if err != nil {
		t.Fatalf("render: %s", err)
	}
	if len(res.Data) != 0 {
		t.Errorf("expected an empty payload, got %d bytes", len(res.Data))
	}
	if h.attempts != 1 {
		t.Errorf("expected a single attempt, got %d", h.attempts)
	}
}
