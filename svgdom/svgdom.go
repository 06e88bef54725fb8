// Package svgdom parses SVG files into a list of styled paths, which
// can then be drawn through a Driver implementation, measured, or
// serialized back to SVG.
//
// Only a subset of the SVG standard is supported: path geometry, the
// basic shapes, group and use elements, plain color and gradient
// paints. Text, filters and external references are ignored.
package svgdom

import (
	"encoding/xml"
	"errors"
	"io"
	"math"
	"os"

	"golang.org/x/image/math/fixed"
	"golang.org/x/net/html/charset"
)

// DefaultDPI is the resolution used to convert physical units
// (in, cm, mm, pt, pc) into pixels.
const DefaultDPI = 90.0

func fToFixed(f float64) fixed.Int26_6 { return fixed.Int26_6(f * 64) }

// Bounds is a rectangle in user space units.
type Bounds struct {
	X, Y, W, H float64
}

// PathStyle holds the drawing state of the SVG style attributes.
type PathStyle struct {
	FillOpacity, LineOpacity float64
	LineWidth                float64
	UseNonZeroWinding        bool

	Join JoinOptions
	Dash DashOptions

	FillerColor, LinerColor Pattern // either PlainColor or Gradient, nil to disable painting

	transform Matrix2D // current transform
}

// DefaultStyle sets the default PathStyle to fill black, winding
// rule, full opacity, no stroke, ButtCap line end and Bevel line join.
var DefaultStyle = PathStyle{
	FillOpacity:       1.0,
	LineOpacity:       1.0,
	LineWidth:         2.0,
	UseNonZeroWinding: true,
	Join: JoinOptions{
		MiterLimit:   fToFixed(4),
		LineJoin:     Bevel,
		TrailLineCap: ButtCap,
	},
	FillerColor: NewPlainColor(0x00, 0x00, 0x00, 0xff),
	transform:   Identity,
}

// StyledPath binds a path to the style context it was parsed in.
type StyledPath struct {
	Path  Path
	Style PathStyle
}

// definition is a tag snapshot inside a defs element, replayed by use.
type definition struct {
	ID, Tag string
	Attrs   []xml.Attr
}

// Document is a parsed SVG file, ready to be drawn or measured.
type Document struct {
	ViewBox      Bounds
	Titles       []string // title elements collected in the document
	Descriptions []string // desc elements collected in the document
	Paths        []StyledPath
	Transform    Matrix2D // transform applied to the whole document when drawing

	// Width and Height are the intrinsic pixel size, resolved from
	// the root element attributes at DefaultDPI. They fall back to
	// the viewBox size when the attributes are missing and are zero
	// for percentage values.
	Width, Height float64

	grads map[string]*Gradient
	defs  map[string][]definition
	ids   map[string][]int
}

// IntrinsicSize returns the pixel size declared by the document root,
// rounded to the nearest integer.
func (doc *Document) IntrinsicSize() (int, int) {
	return int(math.Round(doc.Width)), int(math.Round(doc.Height))
}

// HasElement reports whether an element with the given id exists,
// whether or not it produces any geometry.
func (doc *Document) HasElement(id string) bool {
	_, ok := doc.ids[id]
	return ok
}

// registerID claims an id for the element that first declares it.
// Later duplicates are ignored.
func (doc *Document) registerID(id string) bool {
	if _, ok := doc.ids[id]; ok {
		return false
	}
	doc.ids[id] = nil
	return true
}

// ReleaseParseResources drops the structures that are only needed
// while parsing (raw defs and gradient definitions). The document can
// still be drawn and measured afterwards.
func (doc *Document) ReleaseParseResources() {
	doc.grads = nil
	doc.defs = nil
}

// SetTarget sets Transform so that the viewBox maps onto the
// rectangle arguments.
func (doc *Document) SetTarget(x, y, w, h float64) {
	doc.SetTargetRegion(doc.ViewBox, x, y, w, h)
}

// SetTargetRegion sets Transform so that the given source region maps
// onto the rectangle arguments. The region must not be empty.
func (doc *Document) SetTargetRegion(region Bounds, x, y, w, h float64) {
	doc.Transform = Identity.Translate(x, y).Scale(w/region.W, h/region.H).Translate(-region.X, -region.Y)
}

// ReadFile reads the SVG file at the given path.
func ReadFile(path string, errMode ErrorMode) (*Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ReadStream(f, errMode)
}

// ReadStream reads an SVG document from the given stream. errMode
// determines whether the parser ignores, errors out, or logs a
// warning when it encounters an element or attribute it does not
// handle.
func ReadStream(stream io.Reader, errMode ErrorMode) (*Document, error) {
	doc := &Document{
		Transform: Identity,
		grads:     make(map[string]*Gradient),
		defs:      make(map[string][]definition),
		ids:       make(map[string][]int),
	}
	cursor := &docCursor{doc: doc, styleStack: []PathStyle{DefaultStyle}, dpi: DefaultDPI}
	cursor.errorMode = errMode
	decoder := xml.NewDecoder(stream)
	decoder.CharsetReader = charset.NewReaderLabel
	for {
		t, err := decoder.Token()
		if err != nil {
			if err == io.EOF {
				break
			}
			return doc, err
		}
		switch se := t.(type) {
		case xml.StartElement:
			// Reads all recognized style attributes from the start
			// element and places them on top of the styleStack.
			err = cursor.pushStyle(se.Attr)
			if err != nil {
				return doc, err
			}
			cursor.pushID(se.Attr)
			err = cursor.readStartElement(se)
			if err != nil {
				return doc, err
			}
		case xml.EndElement:
			// pop style and id
			cursor.styleStack = cursor.styleStack[:len(cursor.styleStack)-1]
			cursor.idStack = cursor.idStack[:len(cursor.idStack)-1]
			switch se.Name.Local {
			case "g":
				if cursor.inDefs {
					cursor.currentDef = append(cursor.currentDef, definition{
						Tag: "endg",
					})
				}
			case "title":
				cursor.inTitleText = false
			case "desc":
				cursor.inDescText = false
			case "defs":
				if len(cursor.currentDef) > 0 {
					cursor.doc.defs[cursor.currentDef[0].ID] = cursor.currentDef
					cursor.currentDef = make([]definition, 0)
				}
				cursor.inDefs = false
			case "radialGradient", "linearGradient":
				cursor.inGrad = false
			}
		case xml.CharData:
			if cursor.inTitleText {
				doc.Titles[len(doc.Titles)-1] += string(se)
			}
			if cursor.inDescText {
				doc.Descriptions[len(doc.Descriptions)-1] += string(se)
			}
		}
	}
	if !cursor.seenSvg {
		return doc, errors.New("invalid svg document: missing svg element")
	}
	return doc, nil
}
