package rsvg

import (
	"errors"
	"strings"
	"testing"
)

const testDoc = `<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="100" height="100" viewBox="0 0 100 100">
  <title>facade fixture</title>
  <rect id="box" x="10" y="10" width="50" height="30" fill="#00ff00"/>
  <circle id="dot" cx="70" cy="70" r="20" fill="#0000ff"/>
</svg>
`

func load(t *testing.T, src any) *Document {
	t.Helper()
	doc, err := New(src)
	if err != nil {
		t.Fatalf("can't load document: %s", err)
	}
	return doc
}

func TestNewFromBytesAndString(t *testing.T) {
	fromBytes := load(t, []byte(testDoc))
	defer fromBytes.Close()
	fromString := load(t, testDoc)
	defer fromString.Close()

	if fromBytes.Width() != 100 || fromBytes.Height() != 100 {
		t.Errorf("unexpected intrinsic size %dx%d", fromBytes.Width(), fromBytes.Height())
	}
	if fromBytes.Width() != fromString.Width() || fromBytes.Height() != fromString.Height() {
		t.Error("byte and string sources should load identically")
	}
}

func TestNewInvalidInput(t *testing.T) {
	for _, src := range []any{42, 3.14, nil, []rune(testDoc)} {
		_, err := New(src)
		if !errors.Is(err, ErrInvalidInput) {
			t.Errorf("New(%T): expected ErrInvalidInput, got %v", src, err)
		}
	}
}

func TestNewLoadFailure(t *testing.T) {
	_, err := New("this is not svg")
	if err == nil {
		t.Fatal("expected a load failure")
	}
	var le *LoadError
	if !errors.As(err, &le) {
		t.Fatalf("expected a LoadError, got %T", err)
	}
	if le.Unwrap() == nil {
		t.Error("the engine diagnostic should be wrapped")
	}
	// the diagnostic must be readable from the error message itself
	if !strings.Contains(err.Error(), "rsvg: load failed") ||
		!strings.Contains(err.Error(), "missing svg element") {
		t.Errorf("unexpected error message %q", err)
	}
}

func TestBaseURI(t *testing.T) {
	doc := load(t, testDoc)
	defer doc.Close()

	if got := doc.BaseURI(); got != "" {
		t.Errorf("the base URI should start out empty, got %q", got)
	}
	doc.SetBaseURI("file:///assets/icons.svg")
	if got := doc.BaseURI(); got != "file:///assets/icons.svg" {
		t.Errorf("unexpected base URI %q", got)
	}
}

func TestDPI(t *testing.T) {
	doc := load(t, testDoc)
	defer doc.Close()

	if x, y := doc.DPI(); x != 90 || y != 90 {
		t.Fatalf("expected the default 90x90 dpi, got %gx%g", x, y)
	}

	doc.SetDPI(300)
	if x, y := doc.DPI(); x != 300 || y != 300 {
		t.Errorf("SetDPI should set both axes, got %gx%g", x, y)
	}
	if doc.Width() != 100 || doc.Height() != 100 {
		t.Error("the intrinsic size must not depend on the dpi")
	}

	doc.SetDPIX(120)
	if x, y := doc.DPI(); x != 120 || y != 300 {
		t.Errorf("SetDPIX should only touch the x axis, got %gx%g", x, y)
	}

	// unusable values are clamped to the default by the engine
	doc.SetDPIY(-5)
	if got := doc.DPIY(); got != 90 {
		t.Errorf("expected a negative dpi to clamp to 90, got %g", got)
	}
	doc.SetDPIX(0)
	if got := doc.DPIX(); got != 90 {
		t.Errorf("expected a zero dpi to clamp to 90, got %g", got)
	}

	doc.SetDPI(200)
	doc.ResetDPI()
	if x, y := doc.DPI(); x != 90 || y != 90 {
		t.Errorf("ResetDPI should restore the default, got %gx%g", x, y)
	}
}

func TestDimensions(t *testing.T) {
	doc := load(t, testDoc)
	defer doc.Close()

	whole, err := doc.Dimensions("")
	if err != nil {
		t.Fatalf("dimensions: %s", err)
	}
	if whole != (BoundingBox{Width: 100, Height: 100}) {
		t.Errorf("unexpected document box %+v", whole)
	}

	box, err := doc.Dimensions("#box")
	if err != nil {
		t.Fatalf("dimensions: %s", err)
	}
	if box != (BoundingBox{X: 10, Y: 10, Width: 50, Height: 30}) {
		t.Errorf("unexpected element box %+v", box)
	}

	for _, id := range []string{"#missing", "box", "#"} {
		if _, err := doc.Dimensions(id); !errors.Is(err, ErrElementNotFound) {
			t.Errorf("Dimensions(%q): expected ErrElementNotFound, got %v", id, err)
		}
	}
}

func TestDimensionsRounded(t *testing.T) {
	doc := load(t, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 40 40">
  <rect id="r" x="5.555" y="10.03" width="20.2" height="20.2" fill="#000000"/>
</svg>`)
	defer doc.Close()

	box, err := doc.Dimensions("#r")
	if err != nil {
		t.Fatalf("dimensions: %s", err)
	}
	// coordinates snap to the 1/64 grid and come back rounded to
	// three decimals
	want := BoundingBox{X: 5.547, Y: 10.016, Width: 20.203, Height: 20.203}
	if box != want {
		t.Errorf("got %+v, want %+v", box, want)
	}
}

func TestHasElement(t *testing.T) {
	doc := load(t, testDoc)
	defer doc.Close()

	for _, id := range []string{"#box", "#dot"} {
		if !doc.HasElement(id) {
			t.Errorf("HasElement(%q) = false", id)
		}
	}
	for _, id := range []string{"#missing", "box", "", "#"} {
		if doc.HasElement(id) {
			t.Errorf("HasElement(%q) = true", id)
		}
	}
}

func TestAutocrop(t *testing.T) {
	doc := load(t, `<svg xmlns="http://www.w3.org/2000/svg" width="100" height="100">
  <rect x="-20" y="10.03" width="50" height="29.97" fill="#ff0000"/>
  <rect x="60" y="60" width="80" height="20" fill="#00ff00"/>
</svg>`)
	defer doc.Close()

	box, err := doc.Autocrop()
	if err != nil {
		t.Fatalf("autocrop: %s", err)
	}
	// content poking out of the viewport is clipped away
	want := BoundingBox{X: 0, Y: 10.016, Width: 100, Height: 69.984}
	if box != want {
		t.Errorf("got %+v, want %+v", box, want)
	}
}

func TestAutocropEmptyDocument(t *testing.T) {
	doc := load(t, `<svg xmlns="http://www.w3.org/2000/svg" width="10" height="10">
  <title>nothing to draw</title>
</svg>`)
	defer doc.Close()

	box, err := doc.Autocrop()
	if err != nil {
		t.Fatalf("autocrop: %s", err)
	}
	if box != (BoundingBox{}) {
		t.Errorf("expected a zero box for an empty document, got %+v", box)
	}
}

func TestClose(t *testing.T) {
	doc := load(t, testDoc)
	if err := doc.Close(); err != nil {
		t.Fatalf("close: %s", err)
	}
	if err := doc.Close(); err != nil {
		t.Errorf("closing twice should be a no-op, got %s", err)
	}

	if _, err := doc.Render(RenderRequest{}); !errors.Is(err, ErrClosed) {
		t.Errorf("Render after Close: expected ErrClosed, got %v", err)
	}
	if _, err := doc.Dimensions(""); !errors.Is(err, ErrClosed) {
		t.Errorf("Dimensions after Close: expected ErrClosed, got %v", err)
	}
	if _, err := doc.Autocrop(); !errors.Is(err, ErrClosed) {
		t.Errorf("Autocrop after Close: expected ErrClosed, got %v", err)
	}
	if doc.HasElement("#box") {
		t.Error("HasElement after Close should report false")
	}
	if doc.BaseURI() != "" {
		t.Error("BaseURI after Close should be empty")
	}
	if x, y := doc.DPI(); x != 0 || y != 0 {
		t.Errorf("DPI after Close should be zero, got %gx%g", x, y)
	}
	// the intrinsic size survives, it was resolved at load time
	if doc.Width() != 100 || doc.Height() != 100 {
		t.Error("the intrinsic size should survive Close")
	}
}

func TestDocumentString(t *testing.T) {
	doc := load(t, testDoc)
	defer doc.Close()
	doc.SetBaseURI("file:///x.svg")

	s := doc.String()
	for _, part := range []string{"width: 100", "height: 100", `baseURI: "file:///x.svg"`} {
		if !strings.Contains(s, part) {
			t.Errorf("String() = %q, missing %q", s, part)
		}
	}
}
