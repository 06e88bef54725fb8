// Package rsvg loads SVG documents and renders them to raw pixel
// buffers, PNG, PDF or back to SVG text.
//
// A Document wraps one handle of a rendering engine, by default the
// built-in engine backed by the svgdom parser with the svgraster and
// svgpdf drivers. All operations are synchronous and a Document is
// not safe for concurrent use; callers needing parallel renders load
// one Document per goroutine.
package rsvg

import (
	"fmt"
	"strings"
)

// Document is a loaded SVG source, bound to one engine handle until
// Close. The intrinsic size is resolved once at load time and never
// changes afterwards.
type Document struct {
	engine Engine
	handle Handle
	width  int
	height int
}

// New loads an SVG document with the built-in engine. The source
// must be a byte slice or a string holding the SVG text; any other
// type fails with ErrInvalidInput. Parse failures are reported as a
// LoadError wrapping the engine diagnostic.
//
// Call Close when done with the document to release the engine
// handle promptly instead of waiting for the garbage collector.
func New(src any) (*Document, error) {
	return NewWithEngine(NewEngine(), src)
}

// NewWithEngine loads an SVG document through the given engine.
func NewWithEngine(engine Engine, src any) (*Document, error) {
	var data []byte
	switch src := src.(type) {
	case []byte:
		data = src
	case string:
		data = []byte(src)
	default:
		return nil, fmt.Errorf("%w, got %T", ErrInvalidInput, src)
	}
	handle, err := engine.Parse(data)
	if err != nil {
		return nil, &LoadError{Err: err}
	}
	d := &Document{
		engine: engine,
		handle: handle,
		width:  handle.Width(),
		height: handle.Height(),
	}
	// the document structure is final once parsed
	handle.ReleaseLoadResources()
	return d, nil
}

// Width returns the intrinsic width in pixels, as declared by the
// source. It does not change with the DPI settings.
func (d *Document) Width() int { return d.width }

// Height returns the intrinsic height in pixels.
func (d *Document) Height() int { return d.height }

// BaseURI returns the base URI used to resolve relative references,
// empty when unset or after Close.
func (d *Document) BaseURI() string {
	if d.handle == nil {
		return ""
	}
	return d.handle.BaseURI()
}

// SetBaseURI sets the base URI for reference resolution. Calls on a
// closed document are ignored.
func (d *Document) SetBaseURI(uri string) {
	if d.handle == nil {
		return
	}
	d.handle.SetBaseURI(uri)
}

// DPI returns the effective horizontal and vertical resolution as
// tracked by the engine, including any clamping it applied.
func (d *Document) DPI() (x, y float64) {
	if d.handle == nil {
		return 0, 0
	}
	return d.handle.DPIX(), d.handle.DPIY()
}

// DPIX returns the effective horizontal resolution.
func (d *Document) DPIX() float64 {
	x, _ := d.DPI()
	return x
}

// DPIY returns the effective vertical resolution.
func (d *Document) DPIY() float64 {
	_, y := d.DPI()
	return y
}

// SetDPI sets both axes to the same resolution. The engine clamps
// values it can't use, so a non-positive dpi restores its default.
func (d *Document) SetDPI(dpi float64) {
	if d.handle == nil {
		return
	}
	d.handle.SetDPIX(dpi)
	d.handle.SetDPIY(dpi)
}

// SetDPIX sets the horizontal resolution.
func (d *Document) SetDPIX(dpi float64) {
	if d.handle == nil {
		return
	}
	d.handle.SetDPIX(dpi)
}

// SetDPIY sets the vertical resolution.
func (d *Document) SetDPIY(dpi float64) {
	if d.handle == nil {
		return
	}
	d.handle.SetDPIY(dpi)
}

// ResetDPI restores both axes to the engine default.
func (d *Document) ResetDPI() {
	d.ResetDPIX()
	d.ResetDPIY()
}

// ResetDPIX restores the horizontal resolution to the engine default.
func (d *Document) ResetDPIX() {
	if d.handle == nil {
		return
	}
	d.handle.ResetDPIX()
}

// ResetDPIY restores the vertical resolution to the engine default.
func (d *Document) ResetDPIY() {
	if d.handle == nil {
		return
	}
	d.handle.ResetDPIY()
}

// splitElementID validates the "#id" form and strips the prefix.
func splitElementID(id string) (string, error) {
	if !strings.HasPrefix(id, "#") || len(id) == 1 {
		return "", fmt.Errorf("%w: %q", ErrElementNotFound, id)
	}
	return id[1:], nil
}

// Dimensions measures the whole document (empty id) or one element
// addressed as "#id". Every field of the returned box is rounded to
// three decimals. Missing and malformed ids fail with
// ErrElementNotFound.
func (d *Document) Dimensions(id string) (BoundingBox, error) {
	if d.handle == nil {
		return BoundingBox{}, ErrClosed
	}
	if id == "" {
		return BoundingBox{Width: float64(d.width), Height: float64(d.height)}, nil
	}
	bare, err := splitElementID(id)
	if err != nil {
		return BoundingBox{}, err
	}
	box, err := d.handle.Dimensions(bare)
	if err != nil {
		return BoundingBox{}, err
	}
	return roundBox(box), nil
}

// HasElement reports whether the document declares an element
// addressed as "#id". Malformed ids and closed documents report
// false, never an error.
func (d *Document) HasElement(id string) bool {
	if d.handle == nil {
		return false
	}
	bare, err := splitElementID(id)
	if err != nil {
		return false
	}
	return d.handle.HasElement(bare)
}

// Autocrop measures the smallest box enclosing all drawable content,
// clipped to the viewport, with every field rounded to three
// decimals. Documents without any drawable content yield a zero box.
func (d *Document) Autocrop() (BoundingBox, error) {
	if d.handle == nil {
		return BoundingBox{}, ErrClosed
	}
	box, ok := d.handle.Autocrop()
	if !ok {
		return BoundingBox{}, nil
	}
	return roundBox(box), nil
}

// Close releases the engine handle. Subsequent operations report
// ErrClosed; closing an already closed document is a no-op.
func (d *Document) Close() error {
	if d.handle == nil {
		return nil
	}
	err := d.handle.Close()
	d.handle = nil
	return err
}

// String returns a short diagnostic summary.
func (d *Document) String() string {
	return fmt.Sprintf("rsvg.Document{width: %d, height: %d, baseURI: %q}",
		d.width, d.height, d.BaseURI())
}
