package rsvg

import (
	"fmt"
	"strings"
)

// Format selects the output encoding of a render. The zero value is
// FormatRasterARGB32, raw pixels in the layout cairo calls ARGB32.
type Format uint8

const (
	// FormatRasterARGB32 packs each pixel as four bytes, alpha
	// first, with premultiplied color channels.
	FormatRasterARGB32 Format = iota
	// FormatRasterRGB24 packs each pixel as three bytes, red first,
	// dropping alpha.
	FormatRasterRGB24
	// FormatRasterA8 packs the alpha channel only, one byte per pixel.
	FormatRasterA8
	// FormatRasterA1 packs the alpha channel as a continuous MSB
	// first bit stream, one bit per pixel with no row alignment.
	FormatRasterA1
	// FormatRasterRGB16_565 packs each pixel as a little endian
	// 16 bit word, five bits red, six bits green, five bits blue.
	FormatRasterRGB16_565
	// FormatRasterRGB30 packs each pixel as a little endian 32 bit
	// word, ten bits per color channel.
	FormatRasterRGB30
	// FormatPNG encodes the raster as a PNG file.
	FormatPNG
	// FormatPDF renders onto a single PDF page sized to the request.
	FormatPDF
	// FormatSVG re-serializes the parsed document as SVG text.
	FormatSVG
)

var formatNames = [...]string{
	FormatRasterARGB32:    "raster-argb32",
	FormatRasterRGB24:     "raster-rgb24",
	FormatRasterA8:        "raster-a8",
	FormatRasterA1:        "raster-a1",
	FormatRasterRGB16_565: "raster-rgb16_565",
	FormatRasterRGB30:     "raster-rgb30",
	FormatPNG:             "png",
	FormatPDF:             "pdf",
	FormatSVG:             "svg",
}

func (f Format) String() string {
	if int(f) < len(formatNames) {
		return formatNames[f]
	}
	return "unknown"
}

// IsRaster reports whether the format is a raw pixel layout, as
// opposed to an encoded file format.
func (f Format) IsRaster() bool { return f <= FormatRasterRGB30 }

// ParseFormat maps a format name to its Format value. Matching
// ignores case and surrounding space, and accepts the historical
// alias "raw" for FormatRasterARGB32.
func ParseFormat(name string) (Format, error) {
	cleaned := strings.ToLower(strings.TrimSpace(name))
	if cleaned == "raw" {
		return FormatRasterARGB32, nil
	}
	for f, known := range formatNames {
		if cleaned == known {
			return Format(f), nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnsupportedFormat, name)
}
