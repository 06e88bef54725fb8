package rsvg

import (
	"testing"

	"github.com/ionagamed/rsvg/svgdom"
)

func TestResolveSize(t *testing.T) {
	region := svgdom.Bounds{W: 100, H: 50}
	tests := []struct {
		reqW, reqH   int
		wantW, wantH int
	}{
		{0, 0, 100, 50},
		{200, 0, 200, 100},
		{0, 25, 50, 25},
		{30, 40, 30, 40},
	}
	for _, tc := range tests {
		w, h := resolveSize(tc.reqW, tc.reqH, region)
		if w != tc.wantW || h != tc.wantH {
			t.Errorf("resolveSize(%d, %d) = %dx%d, want %dx%d",
				tc.reqW, tc.reqH, w, h, tc.wantW, tc.wantH)
		}
	}

	// a degenerate region keeps only the explicit axis
	if w, h := resolveSize(10, 0, svgdom.Bounds{}); w != 10 || h != 0 {
		t.Errorf("resolveSize on an empty region = %dx%d, want 10x0", w, h)
	}
}

func TestIntersectBounds(t *testing.T) {
	viewport := svgdom.Bounds{X: 0, Y: 0, W: 100, H: 100}

	got, ok := intersectBounds(svgdom.Bounds{X: -20, Y: 10, W: 50, H: 40}, viewport)
	if !ok {
		t.Fatal("expected an overlap")
	}
	if got != (svgdom.Bounds{X: 0, Y: 10, W: 30, H: 40}) {
		t.Errorf("unexpected intersection %+v", got)
	}

	if _, ok := intersectBounds(svgdom.Bounds{X: 200, Y: 0, W: 10, H: 10}, viewport); ok {
		t.Error("disjoint boxes should not intersect")
	}
	// boxes sharing only an edge have no area in common
	if _, ok := intersectBounds(svgdom.Bounds{X: 100, Y: 0, W: 10, H: 10}, viewport); ok {
		t.Error("touching boxes should not intersect")
	}
}

func TestNativeHandleGeometrylessElement(t *testing.T) {
	const doc = `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 10 10">
  <defs>
    <linearGradient id="fade">
      <stop offset="0" stop-color="#ff0000"/>
      <stop offset="1" stop-color="#0000ff"/>
    </linearGradient>
  </defs>
  <rect x="1" y="1" width="8" height="8" fill="url(#fade)"/>
</svg>`

	h, err := NewEngine().Parse([]byte(doc))
	if err != nil {
		t.Fatalf("can't parse svg source: %s", err)
	}
	if !h.HasElement("fade") {
		t.Fatal("the gradient id should be known to the handle")
	}
	// declared ids without geometry measure as a zero box
	box, err := h.Dimensions("fade")
	if err != nil {
		t.Fatalf("dimensions: %s", err)
	}
	if box != (BoundingBox{}) {
		t.Errorf("expected a zero box, got %+v", box)
	}
}
