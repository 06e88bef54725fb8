package svgraster

import (
	"bytes"
	"image"
	"image/png"
)

// PixelFormat selects the memory layout of a packed raster buffer.
type PixelFormat uint8

const (
	// ARGB32 stores each pixel as four bytes, alpha first,
	// with premultiplied color channels.
	ARGB32 PixelFormat = iota
	// RGB24 stores each pixel as three bytes, red first, dropping alpha.
	RGB24
	// A8 stores the alpha channel only, one byte per pixel.
	A8
	// A1 stores the alpha channel as a continuous MSB first bit
	// stream, one bit per pixel with no row alignment.
	A1
	// RGB16_565 stores each pixel as a little endian 16 bit word,
	// five bits red, six bits green, five bits blue.
	RGB16_565
	// RGB30 stores each pixel as a little endian 32 bit word,
	// ten bits per color channel, the two top bits unused.
	RGB30
)

var pixelFormatNames = [...]string{
	ARGB32:    "argb32",
	RGB24:     "rgb24",
	A8:        "a8",
	A1:        "a1",
	RGB16_565: "rgb16_565",
	RGB30:     "rgb30",
}

func (f PixelFormat) String() string {
	if int(f) < len(pixelFormatNames) {
		return pixelFormatNames[f]
	}
	return "unknown"
}

// widen expands an 8 bit channel to 10 bits.
func widen(c uint8) uint32 { return uint32(c)<<2 | uint32(c)>>6 }

// Pack flattens the image to the given layout. Rows are packed
// tightly, without padding; only A1 packs across row boundaries.
func Pack(img *image.RGBA, format PixelFormat) []byte {
	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()

	var out []byte
	switch format {
	case ARGB32:
		out = make([]byte, w*h*4)
	case RGB24:
		out = make([]byte, w*h*3)
	case A8:
		out = make([]byte, w*h)
	case A1:
		out = make([]byte, (w*h+7)/8)
	case RGB16_565:
		out = make([]byte, w*h*2)
	case RGB30:
		out = make([]byte, w*h*4)
	}

	i := 0
	for y := 0; y < h; y++ {
		start := img.PixOffset(bounds.Min.X, bounds.Min.Y+y)
		row := img.Pix[start : start+w*4]
		for x := 0; x < w; x++ {
			r, g, b, a := row[x*4], row[x*4+1], row[x*4+2], row[x*4+3]
			switch format {
			case ARGB32:
				out[i*4] = a
				out[i*4+1] = r
				out[i*4+2] = g
				out[i*4+3] = b
			case RGB24:
				out[i*3] = r
				out[i*3+1] = g
				out[i*3+2] = b
			case A8:
				out[i] = a
			case A1:
				if a >= 0x80 {
					out[i>>3] |= 1 << (7 - uint(i&7))
				}
			case RGB16_565:
				v := uint16(r>>3)<<11 | uint16(g>>2)<<5 | uint16(b>>3)
				out[i*2] = byte(v)
				out[i*2+1] = byte(v >> 8)
			case RGB30:
				v := widen(r)<<20 | widen(g)<<10 | widen(b)
				out[i*4] = byte(v)
				out[i*4+1] = byte(v >> 8)
				out[i*4+2] = byte(v >> 16)
				out[i*4+3] = byte(v >> 24)
			}
			i++
		}
	}
	return out
}

// EncodePNG returns the PNG encoding of the image.
func EncodePNG(img *image.RGBA) ([]byte, error) {
	var b bytes.Buffer
	if err := png.Encode(&b, img); err != nil {
		return nil, err
	}
	return b.Bytes(), nil
}
