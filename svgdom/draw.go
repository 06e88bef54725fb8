package svgdom

// This file defines the interface needed to render a parsed document.

import (
	"golang.org/x/image/math/fixed"
)

// Driver knows how to do the actual drawing operations, but does not
// need any SVG knowledge. In particular, transformation matrices are
// already applied to the points before sending them to the Driver.
type Driver interface {
	// SetupDrawers returns the drawers to use for the filling and
	// stroking operations, or nil if the operation should not be
	// performed.
	SetupDrawers(willFill, willStroke bool) (Filler, Stroker)
}

// Drawer knows how to receive a path.
type Drawer interface {
	// Clear resets the path.
	Clear()
	// Start starts a new path at the given point.
	Start(a fixed.Point26_6)
	// Line adds a line from the current point to b.
	Line(b fixed.Point26_6)
	// QuadBezier adds a quadratic bezier curve to the path.
	QuadBezier(b, c fixed.Point26_6)
	// CubeBezier adds a cubic bezier curve to the path.
	CubeBezier(b, c, d fixed.Point26_6)
	// Stop closes the path to the start point if closeLoop is true.
	Stop(closeLoop bool)

	// SetColor sets the paint for the current path.
	SetColor(color Pattern, opacity float64)

	// Draw renders the accumulated path using the current settings.
	Draw()
}

// Filler is a Drawer for filling operations.
type Filler interface {
	Drawer

	// SetWinding sets the winding rule for the current path.
	SetWinding(useNonZeroWinding bool)
}

// Stroker is a Drawer for stroking operations.
type Stroker interface {
	Drawer

	// SetStrokeOptions sets the stroking options for the current path.
	SetStrokeOptions(options StrokeOptions)
}

// JoinMode type to specify how segments join.
type JoinMode uint8

// JoinMode constants determine how stroke segments bridge the gap at a join
const (
	Arc JoinMode = iota // New in SVG2
	Round
	Bevel
	Miter
	MiterClip // New in SVG2
	ArcClip   // Like MiterClip applied to arcs, and is a nonstandard extension.
)

func (j JoinMode) String() string {
	switch j {
	case Round:
		return "Round"
	case Bevel:
		return "Bevel"
	case Miter:
		return "Miter"
	case MiterClip:
		return "MiterClip"
	case Arc:
		return "Arc"
	case ArcClip:
		return "ArcClip"
	default:
		return "<unknown JoinMode>"
	}
}

// CapMode defines how to draw caps on the ends of lines.
type CapMode uint8

const (
	// NilCap default value
	NilCap CapMode = iota
	// ButtCap straight line cap
	ButtCap
	// SquareCap square line cap
	SquareCap
	// RoundCap round line cap
	RoundCap
	// CubicCap cubic line cap
	CubicCap
	// QuadraticCap quadratic line cap
	QuadraticCap
)

func (c CapMode) String() string {
	switch c {
	case NilCap:
		return "NilCap"
	case ButtCap:
		return "ButtCap"
	case SquareCap:
		return "SquareCap"
	case RoundCap:
		return "RoundCap"
	case CubicCap:
		return "CubicCap"
	case QuadraticCap:
		return "QuadraticCap"
	default:
		return "<unknown CapMode>"
	}
}

// GapMode defines how to bridge gaps when the miter limit is exceeded.
type GapMode uint8

const (
	// NilGap default value
	NilGap GapMode = iota
	// FlatGap caps the gap with a straight line
	FlatGap
	// RoundGap caps the gap with a circular arc
	RoundGap
	// CubicGap caps the gap with a cubic bezier
	CubicGap
	// QuadraticGap caps the gap with a quadratic bezier
	QuadraticGap
)

func (g GapMode) String() string {
	switch g {
	case NilGap:
		return "NilGap"
	case FlatGap:
		return "FlatGap"
	case RoundGap:
		return "RoundGap"
	case CubicGap:
		return "CubicGap"
	case QuadraticGap:
		return "QuadraticGap"
	default:
		return "<unknown GapMode>"
	}
}

// JoinOptions groups the settings for stroke joins and caps.
type JoinOptions struct {
	MiterLimit   fixed.Int26_6 // the miter cutoff value for miter, arc, miterclip and arcClip joinModes
	LineJoin     JoinMode      // JoinMode for curve segments
	TrailLineCap CapMode       // capping functions for leading and trailing line ends. If one is nil, the other function is used at both ends.

	LeadLineCap CapMode // not part of the standard specification
	LineGap     GapMode // not part of the standard specification. determines how a gap on the convex side of two lines joining is filled
}

// DashOptions describes the dash pattern of a stroke.
type DashOptions struct {
	Dash       []float64 // values for the dash pattern (nil or an empty slice for no dashes)
	DashOffset float64   // starting offset into the dash array
}

// StrokeOptions groups the settings for stroking a path.
type StrokeOptions struct {
	LineWidth fixed.Int26_6 // width of the line
	Join      JoinOptions
	Dash      DashOptions
}

// drawTransformed draws the path into the driver d, taking t and the
// style transform into account.
func (sp *StyledPath) drawTransformed(d Driver, opacity float64, t Matrix2D) {
	m := sp.Style.transform
	sp.Style.transform = t.Mult(m)
	defer func() { sp.Style.transform = m }() // restore the original transform

	filler, stroker := d.SetupDrawers(sp.Style.FillerColor != nil, sp.Style.LinerColor != nil)
	if filler != nil { // nil interface means no filling
		filler.Clear()
		filler.SetWinding(sp.Style.UseNonZeroWinding)
		for _, op := range sp.Path {
			op.drawTo(filler, sp.Style.transform)
		}
		filler.Stop(false)
		filler.SetColor(sp.Style.FillerColor, sp.Style.FillOpacity*opacity)
		filler.Draw()
		filler.SetWinding(true) // default is true
	}

	if stroker != nil { // nil interface means no stroking
		stroker.Clear()
		lineGap := sp.Style.Join.LineGap
		if lineGap == NilGap {
			lineGap = DefaultStyle.Join.LineGap
		}
		lineCap := sp.Style.Join.TrailLineCap
		if lineCap == NilCap {
			lineCap = DefaultStyle.Join.TrailLineCap
		}
		leadLineCap := lineCap
		if sp.Style.Join.LeadLineCap != NilCap {
			leadLineCap = sp.Style.Join.LeadLineCap
		}
		stroker.SetStrokeOptions(StrokeOptions{
			LineWidth: fixed.Int26_6(sp.Style.LineWidth * 64),
			Join: JoinOptions{
				MiterLimit:   sp.Style.Join.MiterLimit,
				LineJoin:     sp.Style.Join.LineJoin,
				TrailLineCap: lineCap,
				LeadLineCap:  leadLineCap,
				LineGap:      lineGap,
			},
			Dash: sp.Style.Dash,
		})
		for _, op := range sp.Path {
			op.drawTo(stroker, sp.Style.transform)
		}
		stroker.Stop(false)
		stroker.SetColor(sp.Style.LinerColor, sp.Style.LineOpacity*opacity)
		stroker.Draw()
	}
}

// Draw renders the whole document into the driver d.
// opacity is composed (multiplied) with the path opacities.
func (doc *Document) Draw(d Driver, opacity float64) {
	for _, sp := range doc.Paths {
		sp.drawTransformed(d, opacity, doc.Transform)
	}
}

// DrawElement renders only the paths contributed by the element with
// the given id. Unknown ids draw nothing.
func (doc *Document) DrawElement(d Driver, id string, opacity float64) {
	for _, i := range doc.ids[id] {
		sp := doc.Paths[i]
		sp.drawTransformed(d, opacity, doc.Transform)
	}
}
