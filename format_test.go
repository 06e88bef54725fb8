package rsvg

import (
	"errors"
	"testing"
)

func TestParseFormat(t *testing.T) {
	valid := []struct {
		in   string
		want Format
	}{
		{"raster-argb32", FormatRasterARGB32},
		{"raster-rgb24", FormatRasterRGB24},
		{"raster-a8", FormatRasterA8},
		{"raster-a1", FormatRasterA1},
		{"raster-rgb16_565", FormatRasterRGB16_565},
		{"raster-rgb30", FormatRasterRGB30},
		{"png", FormatPNG},
		{"pdf", FormatPDF},
		{"svg", FormatSVG},
		{"raw", FormatRasterARGB32},
		{"RAW", FormatRasterARGB32},
		{"Raster-ARGB32", FormatRasterARGB32},
		{"PNG", FormatPNG},
		{" pdf ", FormatPDF},
	}
	for _, tc := range valid {
		got, err := ParseFormat(tc.in)
		if err != nil {
			t.Fatalf("ParseFormat(%q): %s", tc.in, err)
		}
		if got != tc.want {
			t.Errorf("ParseFormat(%q) = %s, want %s", tc.in, got, tc.want)
		}
	}

	for _, in := range []string{"", "bmp", "argb32", "raster-", "rawest"} {
		if _, err := ParseFormat(in); !errors.Is(err, ErrUnsupportedFormat) {
			t.Errorf("ParseFormat(%q): expected ErrUnsupportedFormat, got %v", in, err)
		}
	}
}

func TestFormatZeroValue(t *testing.T) {
	var f Format
	if f != FormatRasterARGB32 {
		t.Errorf("the zero Format should be raster-argb32, got %s", f)
	}
}

func TestFormatString(t *testing.T) {
	names := map[Format]string{
		FormatRasterARGB32:    "raster-argb32",
		FormatRasterRGB16_565: "raster-rgb16_565",
		FormatPNG:             "png",
		FormatPDF:             "pdf",
		FormatSVG:             "svg",
		Format(42):            "unknown",
	}
	for f, want := range names {
		if got := f.String(); got != want {
			t.Errorf("Format(%d).String() = %q, want %q", f, got, want)
		}
	}
}

func TestFormatIsRaster(t *testing.T) {
	rasters := []Format{
		FormatRasterARGB32, FormatRasterRGB24, FormatRasterA8,
		FormatRasterA1, FormatRasterRGB16_565, FormatRasterRGB30,
	}
	for _, f := range rasters {
		if !f.IsRaster() {
			t.Errorf("%s should be a raster format", f)
		}
	}
	for _, f := range []Format{FormatPNG, FormatPDF, FormatSVG} {
		if f.IsRaster() {
			t.Errorf("%s should not be a raster format", f)
		}
	}
}
