package svgdom

import (
	"bytes"
	"strings"
	"testing"
)

func rewrite(t *testing.T, doc *Document, width, height float64, id string) (*Document, string) {
	t.Helper()
	var buf bytes.Buffer
	if err := doc.WriteSVG(&buf, width, height, id); err != nil {
		t.Fatalf("writing failed: %s", err)
	}
	out, err := ReadStream(bytes.NewReader(buf.Bytes()), StrictErrorMode)
	if err != nil {
		t.Fatalf("reading back failed: %s\n%s", err, buf.String())
	}
	return out, buf.String()
}

func TestWriteSVGRoundTrip(t *testing.T) {
	doc, err := ReadFile("testdata/basic.svg", StrictErrorMode)
	if err != nil {
		t.Fatal(err)
	}
	out, text := rewrite(t, doc, 100, 100, "")
	if len(out.Paths) != len(doc.Paths) {
		t.Fatalf("got %d paths, want %d", len(out.Paths), len(doc.Paths))
	}
	if out.ViewBox != doc.ViewBox {
		t.Errorf("got viewBox %v, want %v", out.ViewBox, doc.ViewBox)
	}
	if w, h := out.IntrinsicSize(); w != 100 || h != 100 {
		t.Errorf("unexpected intrinsic size %dx%d", w, h)
	}
	if len(out.Titles) != 1 || out.Titles[0] != "Basic shapes" {
		t.Errorf("lost the title: %q", out.Titles)
	}

	before, ok := doc.ContentExtent()
	if !ok {
		t.Fatal("expected geometry")
	}
	after, ok := out.ContentExtent()
	if !ok {
		t.Fatal("expected geometry after the round trip")
	}
	// coordinates are written with three decimals
	if !boundsClose(after, before, 0.01) {
		t.Errorf("extent moved from %v to %v\n%s", before, after, text)
	}
}

func TestWriteSVGElement(t *testing.T) {
	doc, err := ReadFile("testdata/basic.svg", StrictErrorMode)
	if err != nil {
		t.Fatal(err)
	}
	out, _ := rewrite(t, doc, 50, 30, "box")
	if len(out.Paths) != 1 {
		t.Fatalf("got %d paths, want 1", len(out.Paths))
	}
	// the view box crops to the element
	if want := (Bounds{10, 10, 50, 30}); !boundsClose(out.ViewBox, want, 0.01) {
		t.Errorf("got viewBox %v, want %v", out.ViewBox, want)
	}

	out, _ = rewrite(t, doc, 10, 10, "nope")
	if len(out.Paths) != 0 {
		t.Errorf("got %d paths for an unknown id, want none", len(out.Paths))
	}
}

func TestWriteSVGStyles(t *testing.T) {
	doc, err := ReadFile("testdata/transform.svg", StrictErrorMode)
	if err != nil {
		t.Fatal(err)
	}
	out, text := rewrite(t, doc, 100, 100, "")
	if len(out.Paths) != 2 {
		t.Fatalf("got %d paths, want 2\n%s", len(out.Paths), text)
	}

	rect := out.Paths[0].Style
	if rect.FillOpacity != 0.5 {
		t.Errorf("unexpected fill opacity %g", rect.FillOpacity)
	}
	if rect.transform != doc.Paths[0].Style.transform {
		t.Errorf("got transform %v, want %v", rect.transform, doc.Paths[0].Style.transform)
	}

	line := out.Paths[1].Style
	if line.LinerColor == nil {
		t.Fatal("lost the stroke paint")
	}
	if line.LineWidth != 4 {
		t.Errorf("unexpected stroke width %g", line.LineWidth)
	}
	if line.Join.TrailLineCap != RoundCap || line.Join.LineJoin != Round {
		t.Errorf("unexpected stroke style %s, %s", line.Join.TrailLineCap, line.Join.LineJoin)
	}
	if len(line.Dash.Dash) != 2 || line.Dash.Dash[0] != 4 || line.Dash.Dash[1] != 2 {
		t.Errorf("unexpected dashes %v", line.Dash.Dash)
	}
	if line.Dash.DashOffset != 1 {
		t.Errorf("unexpected dash offset %g", line.Dash.DashOffset)
	}
}

func TestWriteSVGGradients(t *testing.T) {
	doc, err := ReadFile("testdata/gradient.svg", StrictErrorMode)
	if err != nil {
		t.Fatal(err)
	}
	out, text := rewrite(t, doc, 200, 100, "")
	if !strings.Contains(text, "<linearGradient") || !strings.Contains(text, "<radialGradient") {
		t.Fatalf("missing gradient definitions:\n%s", text)
	}
	if !strings.Contains(text, `fill="url(#`) {
		t.Fatalf("missing gradient references:\n%s", text)
	}

	grad, ok := out.Paths[0].Style.FillerColor.(Gradient)
	if !ok {
		t.Fatalf("expected a gradient fill, got %v", out.Paths[0].Style.FillerColor)
	}
	if len(grad.Stops) != 2 {
		t.Fatalf("expected 2 stops, got %d", len(grad.Stops))
	}
	if grad.Stops[1].Opacity != 0.5 {
		t.Errorf("unexpected stop opacity %g", grad.Stops[1].Opacity)
	}
	if _, ok := out.Paths[1].Style.FillerColor.(Gradient); !ok {
		t.Errorf("expected a gradient fill, got %v", out.Paths[1].Style.FillerColor)
	}
}
