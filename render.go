package rsvg

import "fmt"

// RenderRequest describes one render operation. The zero value
// renders the whole document at its intrinsic size to raw
// raster-argb32 pixels.
type RenderRequest struct {
	Format Format
	// Width and Height are the output size in pixels (points for
	// pdf). A zero axis is derived from the render target so that
	// its aspect ratio is kept.
	Width  int
	Height int
	// ElementID addresses a single element as "#id". Empty renders
	// the whole document.
	ElementID string
}

// RenderResult is the outcome of one render.
type RenderResult struct {
	// Data holds the encoded output, binary for raster, png and pdf
	// formats and UTF-8 text for svg.
	Data   []byte
	Format Format
	// Width and Height are the dimensions actually produced, which
	// may differ from the requested ones.
	Width  int
	Height int
	// PixelFormat names the raw pixel layout ("argb32", "rgb24",
	// ...) for raster formats and is empty for the others.
	PixelFormat string
}

// Renders yielding no payload for a document with a positive
// intrinsic size are repeated up to this many times in total.
const maxRenderAttempts = 3

// Render renders the document, or one of its elements, according to
// req. Empty results from the engine are retried a bounded number of
// times before giving up with ErrRenderFailed, except for documents
// and elements with no geometry at all, which yield an empty result
// with zero dimensions and no error.
func (d *Document) Render(req RenderRequest) (*RenderResult, error) {
	if d.handle == nil {
		return nil, ErrClosed
	}
	if int(req.Format) >= len(formatNames) {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, req.Format)
	}
	if req.ElementID != "" {
		bare, err := splitElementID(req.ElementID)
		if err != nil {
			return nil, err
		}
		req.ElementID = bare
	}

	for attempt := 1; ; attempt++ {
		res, err := d.handle.Render(req)
		if err != nil {
			return nil, err
		}
		if len(res.Data) > 0 {
			return res, nil
		}
		// an empty payload with zero reported dimensions is the
		// engine's way of saying there was nothing to draw
		if res.Width == 0 && res.Height == 0 {
			return res, nil
		}
		if d.width+d.height == 0 {
			return res, nil
		}
		if attempt == maxRenderAttempts {
			return nil, ErrRenderFailed
		}
	}
}

// RenderRaw renders raw raster-argb32 pixels.
//
// Deprecated: use Render with an explicit RenderRequest.
func (d *Document) RenderRaw(width, height int, elementID string) (*RenderResult, error) {
	return d.Render(RenderRequest{
		Format:    FormatRasterARGB32,
		Width:     width,
		Height:    height,
		ElementID: elementID,
	})
}

// RenderPNG renders a PNG file.
//
// Deprecated: use Render with an explicit RenderRequest.
func (d *Document) RenderPNG(width, height int, elementID string) (*RenderResult, error) {
	return d.Render(RenderRequest{
		Format:    FormatPNG,
		Width:     width,
		Height:    height,
		ElementID: elementID,
	})
}

// RenderPDF renders a single page PDF file.
//
// Deprecated: use Render with an explicit RenderRequest.
func (d *Document) RenderPDF(width, height int, elementID string) (*RenderResult, error) {
	return d.Render(RenderRequest{
		Format:    FormatPDF,
		Width:     width,
		Height:    height,
		ElementID: elementID,
	})
}

// RenderSVG re-serializes the document as SVG text.
//
// Deprecated: use Render with an explicit RenderRequest.
func (d *Document) RenderSVG(width, height int, elementID string) (*RenderResult, error) {
	return d.Render(RenderRequest{
		Format:    FormatSVG,
		Width:     width,
		Height:    height,
		ElementID: elementID,
	})
}

// RenderFormat renders with the format given by name, as accepted by
// ParseFormat.
//
// Deprecated: use Render with an explicit RenderRequest.
func (d *Document) RenderFormat(width, height int, format, elementID string) (*RenderResult, error) {
	f, err := ParseFormat(format)
	if err != nil {
		return nil, err
	}
	return d.Render(RenderRequest{
		Format:    f,
		Width:     width,
		Height:    height,
		ElementID: elementID,
	})
}
