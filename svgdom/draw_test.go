package svgdom

import (
	"fmt"
	"strings"
	"testing"

	"golang.org/x/image/math/fixed"
)

// drawRecorder implements Driver and keeps a readable trace of the
// calls, so that tests can check their order.
type drawRecorder struct {
	log    []string
	starts []fixed.Point26_6
	stroke StrokeOptions
}

func (rec *drawRecorder) SetupDrawers(willFill, willStroke bool) (Filler, Stroker) {
	var f Filler
	var s Stroker
	if willFill {
		f = &recordingPen{rec: rec, name: "fill"}
	}
	if willStroke {
		s = &recordingPen{rec: rec, name: "stroke"}
	}
	return f, s
}

type recordingPen struct {
	rec  *drawRecorder
	name string
}

func (r *recordingPen) add(format string, args ...any) {
	r.rec.log = append(r.rec.log, r.name+" "+fmt.Sprintf(format, args...))
}

func (r *recordingPen) Clear() { r.add("clear") }

func (r *recordingPen) Start(a fixed.Point26_6) {
	r.rec.starts = append(r.rec.starts, a)
	r.add("start")
}

func (r *recordingPen) Line(b fixed.Point26_6) { r.add("line") }

func (r *recordingPen) QuadBezier(b, c fixed.Point26_6) { r.add("quad") }

func (r *recordingPen) CubeBezier(b, c, d fixed.Point26_6) { r.add("cube") }

func (r *recordingPen) Stop(closeLoop bool) { r.add("stop %t", closeLoop) }

func (r *recordingPen) SetColor(color Pattern, opacity float64) { r.add("color %.2f", opacity) }

func (r *recordingPen) Draw() { r.add("draw") }

func (r *recordingPen) SetWinding(useNonZeroWinding bool) { r.add("winding %t", useNonZeroWinding) }

func (r *recordingPen) SetStrokeOptions(options StrokeOptions) {
	r.rec.stroke = options
	r.add("options")
}

func TestDrawSequence(t *testing.T) {
	doc := readString(t, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 10 10">
		<path d="M0 0 L4 0 L4 4 Z" fill="red" fill-opacity="0.5" stroke="blue" stroke-width="2"/>
	</svg>`, StrictErrorMode)
	rec := &drawRecorder{}
	doc.Draw(rec, 0.5)
	want := []string{
		"fill clear",
		"fill winding true",
		"fill stop false",
		"fill start",
		"fill line",
		"fill line",
		"fill stop true",
		"fill stop false",
		"fill color 0.25",
		"fill draw",
		"fill winding true",
		"stroke clear",
		"stroke options",
		"stroke stop false",
		"stroke start",
		"stroke line",
		"stroke line",
		"stroke stop true",
		"stroke stop false",
		"stroke color 0.50",
		"stroke draw",
	}
	if got := strings.Join(rec.log, "\n"); got != strings.Join(want, "\n") {
		t.Errorf("unexpected draw sequence:\n%s", got)
	}
}

func TestDrawStrokeOptions(t *testing.T) {
	doc := readString(t, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 10 10">
		<line x1="0" y1="0" x2="4" y2="4" stroke="black" stroke-width="2"/>
	</svg>`, StrictErrorMode)
	rec := &drawRecorder{}
	doc.Draw(rec, 1)
	opts := rec.stroke
	if opts.LineWidth != fixed.Int26_6(2*64) {
		t.Errorf("unexpected line width %v", opts.LineWidth)
	}
	// unset caps resolve to the defaults before reaching the driver
	if opts.Join.TrailLineCap != ButtCap || opts.Join.LeadLineCap != ButtCap {
		t.Errorf("unexpected caps %s, %s", opts.Join.TrailLineCap, opts.Join.LeadLineCap)
	}
	if opts.Join.LineJoin != Bevel {
		t.Errorf("unexpected join %s", opts.Join.LineJoin)
	}
	if opts.Join.MiterLimit != fToFixed(4) {
		t.Errorf("unexpected miter limit %v", opts.Join.MiterLimit)
	}
}

func TestDrawFillOnly(t *testing.T) {
	doc := readString(t, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 10 10">
		<rect width="4" height="4"/>
	</svg>`, StrictErrorMode)
	rec := &drawRecorder{}
	doc.Draw(rec, 1)
	for _, entry := range rec.log {
		if strings.HasPrefix(entry, "stroke") {
			t.Fatalf("unexpected stroke call %q", entry)
		}
	}
	if len(rec.log) == 0 {
		t.Fatal("expected fill calls")
	}
}

func TestDrawElement(t *testing.T) {
	doc, err := ReadFile("testdata/basic.svg", StrictErrorMode)
	if err != nil {
		t.Fatal(err)
	}
	rec := &drawRecorder{}
	doc.DrawElement(rec, "dot", 1)
	draws, cubes := 0, 0
	for _, entry := range rec.log {
		switch entry {
		case "fill draw":
			draws++
		case "fill cube":
			cubes++
		}
	}
	if draws != 1 {
		t.Errorf("expected a single path, got %d", draws)
	}
	if cubes == 0 {
		t.Error("expected curve segments for the circle")
	}

	rec = &drawRecorder{}
	doc.DrawElement(rec, "nope", 1)
	if len(rec.log) != 0 {
		t.Errorf("unexpected calls for an unknown id: %v", rec.log)
	}
}

func TestDrawTargetTransform(t *testing.T) {
	doc := readString(t, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 10 10">
		<rect x="1" y="1" width="2" height="2" transform="translate(1,1)"/>
	</svg>`, StrictErrorMode)
	doc.SetTarget(0, 0, 20, 20)
	rec := &drawRecorder{}
	doc.Draw(rec, 1)
	if len(rec.starts) != 1 {
		t.Fatalf("expected one subpath, got %d", len(rec.starts))
	}
	// the viewport scale composes with the element transform
	if want := toFixedP(4, 4); rec.starts[0] != want {
		t.Errorf("got start %v, want %v", rec.starts[0], want)
	}
}
