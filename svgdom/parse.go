package svgdom

import (
	"encoding/xml"
	"math"
	"strings"
)

// docCursor extends the path cursor with the document level state
// used while walking the XML tree.
type docCursor struct {
	pathCursor

	doc        *Document
	styleStack []PathStyle
	idStack    []string // one entry per open element, "" when it has no id

	grad       *Gradient
	currentDef []definition

	dpi float64

	seenSvg     bool
	inDefs      bool
	inGrad      bool
	inTitleText bool
	inDescText  bool
}

// pushID records the element id attribute, if any, so that the paths
// drawn until the matching end tag are attributed to it. Duplicate
// ids belong to their first occurrence.
func (c *docCursor) pushID(attrs []xml.Attr) {
	id := ""
	for _, attr := range attrs {
		if attr.Name.Local == "id" {
			id = attr.Value
			break
		}
	}
	if id != "" && !c.doc.registerID(id) {
		id = ""
	}
	c.idStack = append(c.idStack, id)
}

// recordPathIndex attributes a parsed path to every open element
// carrying an id.
func (c *docCursor) recordPathIndex(index int) {
	for _, id := range c.idStack {
		if id != "" {
			c.doc.ids[id] = append(c.doc.ids[id], index)
		}
	}
}

// percentageReference defines the direction used to resolve
// percentage values.
type percentageReference uint8

const (
	widthPercentage percentageReference = iota
	heightPercentage
	diagPercentage
)

// parseUnit converts a length with an optional unit into pixels.
// Physical units resolve at the cursor resolution, percentages
// against the document viewBox.
func (c *docCursor) parseUnit(s string, asPerc percentageReference) (float64, error) {
	s = strings.TrimSpace(s)
	factor := 1.0
	switch {
	case strings.HasSuffix(s, "px"):
		s = strings.TrimSuffix(s, "px")
	case strings.HasSuffix(s, "pt"):
		s = strings.TrimSuffix(s, "pt")
		factor = c.dpi / 72
	case strings.HasSuffix(s, "pc"):
		s = strings.TrimSuffix(s, "pc")
		factor = c.dpi / 6
	case strings.HasSuffix(s, "mm"):
		s = strings.TrimSuffix(s, "mm")
		factor = c.dpi / 25.4
	case strings.HasSuffix(s, "cm"):
		s = strings.TrimSuffix(s, "cm")
		factor = c.dpi / 2.54
	case strings.HasSuffix(s, "in"):
		s = strings.TrimSuffix(s, "in")
		factor = c.dpi
	case strings.HasSuffix(s, "%"):
		s = strings.TrimSuffix(s, "%")
		vb := c.doc.ViewBox
		switch asPerc {
		case widthPercentage:
			factor = vb.W / 100
		case heightPercentage:
			factor = vb.H / 100
		case diagPercentage:
			factor = math.Sqrt(vb.W*vb.W+vb.H*vb.H) / math.Sqrt2 / 100
		}
	}
	v, err := parseFloat(strings.TrimSpace(s), 64)
	return v * factor, err
}

// readFraction reads a percentage or a bare float value.
func readFraction(v string) (f float64, err error) {
	v = strings.TrimSpace(v)
	d := 1.0
	if strings.HasSuffix(v, "%") {
		d = 100
		v = strings.TrimSuffix(v, "%")
	}
	f, err = parseFloat(v, 64)
	return f / d, err
}

func splitOnCommaOrSpace(s string) []string {
	return strings.FieldsFunc(s,
		func(r rune) bool {
			return r == ',' || r == ' '
		})
}

// readTransformAttr applies the transform function k, with its
// arguments already loaded into c.points, on top of m1.
func (c *docCursor) readTransformAttr(m1 Matrix2D, k string) (Matrix2D, error) {
	ln := len(c.points)
	switch k {
	case "rotate":
		if ln == 1 {
			m1 = m1.Rotate(c.points[0] * math.Pi / 180)
		} else if ln == 3 {
			m1 = m1.Translate(c.points[1], c.points[2]).
				Rotate(c.points[0]*math.Pi/180).
				Translate(-c.points[1], -c.points[2])
		} else {
			return m1, errParamMismatch
		}
	case "translate":
		if ln == 1 {
			m1 = m1.Translate(c.points[0], 0)
		} else if ln == 2 {
			m1 = m1.Translate(c.points[0], c.points[1])
		} else {
			return m1, errParamMismatch
		}
	case "skewx":
		if ln == 1 {
			m1 = m1.SkewX(c.points[0] * math.Pi / 180)
		} else {
			return m1, errParamMismatch
		}
	case "skewy":
		if ln == 1 {
			m1 = m1.SkewY(c.points[0] * math.Pi / 180)
		} else {
			return m1, errParamMismatch
		}
	case "scale":
		if ln == 1 {
			m1 = m1.Scale(c.points[0], c.points[0])
		} else if ln == 2 {
			m1 = m1.Scale(c.points[0], c.points[1])
		} else {
			return m1, errParamMismatch
		}
	case "matrix":
		if ln == 6 {
			m1 = m1.Mult(Matrix2D{
				A: c.points[0],
				B: c.points[1],
				C: c.points[2],
				D: c.points[3],
				E: c.points[4],
				F: c.points[5],
			})
		} else {
			return m1, errParamMismatch
		}
	default:
		return m1, errParamMismatch
	}
	return m1, nil
}

// parseTransformFrom parses a transform attribute value, composing
// the transform functions on top of m1.
func (c *docCursor) parseTransformFrom(v string, m1 Matrix2D) (Matrix2D, error) {
	ts := strings.Split(v, ")")
	for _, t := range ts {
		t = strings.TrimSpace(t)
		if len(t) == 0 {
			continue
		}
		d := strings.Split(t, "(")
		if len(d) != 2 || len(d[1]) < 1 { // badly formed transformation
			return m1, errParamMismatch
		}
		err := c.getPoints(d[1])
		if err != nil {
			return m1, err
		}
		m1, err = c.readTransformAttr(m1, strings.ToLower(strings.TrimSpace(d[0])))
		if err != nil {
			return m1, err
		}
	}
	return m1, nil
}

// parseTransform parses a transform attribute on a drawing element,
// composing with the inherited transform.
func (c *docCursor) parseTransform(v string) (Matrix2D, error) {
	return c.parseTransformFrom(v, c.styleStack[len(c.styleStack)-1].transform)
}

// readStyleAttr processes a style attribute or presentation
// attribute pair.
func (c *docCursor) readStyleAttr(curStyle *PathStyle, k, v string) error {
	switch k {
	case "fill":
		gradient, ok := c.readGradURL(v, curStyle.FillerColor)
		if ok {
			curStyle.FillerColor = gradient
			break
		}
		optCol, errc := parseSVGColor(v)
		curStyle.FillerColor = optCol.asPattern()
		return errc
	case "stroke":
		gradient, ok := c.readGradURL(v, curStyle.LinerColor)
		if ok {
			curStyle.LinerColor = gradient
			break
		}
		optCol, errc := parseSVGColor(v)
		if errc != nil {
			return errc
		}
		curStyle.LinerColor = optCol.asPattern()
	case "stroke-linegap":
		switch v {
		case "flat":
			curStyle.Join.LineGap = FlatGap
		case "round":
			curStyle.Join.LineGap = RoundGap
		case "cubic":
			curStyle.Join.LineGap = CubicGap
		case "quadratic":
			curStyle.Join.LineGap = QuadraticGap
		}
	case "stroke-leadlinecap":
		switch v {
		case "butt":
			curStyle.Join.LeadLineCap = ButtCap
		case "round":
			curStyle.Join.LeadLineCap = RoundCap
		case "square":
			curStyle.Join.LeadLineCap = SquareCap
		case "cubic":
			curStyle.Join.LeadLineCap = CubicCap
		case "quadratic":
			curStyle.Join.LeadLineCap = QuadraticCap
		}
	case "stroke-linecap":
		switch v {
		case "butt":
			curStyle.Join.TrailLineCap = ButtCap
		case "round":
			curStyle.Join.TrailLineCap = RoundCap
		case "square":
			curStyle.Join.TrailLineCap = SquareCap
		case "cubic":
			curStyle.Join.TrailLineCap = CubicCap
		case "quadratic":
			curStyle.Join.TrailLineCap = QuadraticCap
		}
	case "stroke-linejoin":
		switch v {
		case "miter":
			curStyle.Join.LineJoin = Miter
		case "miter-clip":
			curStyle.Join.LineJoin = MiterClip
		case "arc-clip":
			curStyle.Join.LineJoin = ArcClip
		case "round":
			curStyle.Join.LineJoin = Round
		case "arc":
			curStyle.Join.LineJoin = Arc
		case "bevel":
			curStyle.Join.LineJoin = Bevel
		}
	case "stroke-miterlimit":
		mLimit, err := parseFloat(v, 64)
		if err != nil {
			return err
		}
		curStyle.Join.MiterLimit = fToFixed(mLimit)
	case "stroke-width":
		width, err := c.parseUnit(v, widthPercentage)
		if err != nil {
			return err
		}
		curStyle.LineWidth = width
	case "stroke-dashoffset":
		dashOffset, err := c.parseUnit(v, diagPercentage)
		if err != nil {
			return err
		}
		curStyle.Dash.DashOffset = dashOffset
	case "stroke-dasharray":
		if v != "none" {
			dashes := splitOnCommaOrSpace(v)
			dList := make([]float64, len(dashes))
			for i, dstr := range dashes {
				d, err := parseFloat(strings.TrimSpace(dstr), 64)
				if err != nil {
					return err
				}
				dList[i] = d
			}
			curStyle.Dash.Dash = dList
		}
	case "opacity", "stroke-opacity", "fill-opacity":
		op, err := readFraction(v)
		if err != nil {
			return err
		}
		if k != "stroke-opacity" {
			curStyle.FillOpacity *= op
		}
		if k != "fill-opacity" {
			curStyle.LineOpacity *= op
		}
	case "transform":
		m, err := c.parseTransform(v)
		if err != nil {
			return err
		}
		curStyle.transform = m
	case "fill-rule":
		switch v {
		case "evenodd":
			curStyle.UseNonZeroWinding = false
		case "nonzero":
			curStyle.UseNonZeroWinding = true
		}
	}
	return nil
}

// pushStyle parses the style attributes of an element and pushes the
// result on the style stack. Drawing elements inside will use it.
func (c *docCursor) pushStyle(attrs []xml.Attr) error {
	var pairs []string
	for _, attr := range attrs {
		switch strings.ToLower(attr.Name.Local) {
		case "style":
			pairs = append(pairs, strings.Split(attr.Value, ";")...)
		default:
			pairs = append(pairs, attr.Name.Local+":"+attr.Value)
		}
	}
	stj := c.styleStack[len(c.styleStack)-1] // copy of the top of the stack
	for _, pair := range pairs {
		kv := strings.SplitN(pair, ":", 2)
		if len(kv) == 2 {
			k := strings.ToLower(strings.TrimSpace(kv[0]))
			v := strings.TrimSpace(kv[1])
			err := c.readStyleAttr(&stj, k, v)
			if err != nil {
				return err
			}
		}
	}
	c.styleStack = append(c.styleStack, stj) // push the new style
	return nil
}

// readStartElement processes the start of an XML element.
func (c *docCursor) readStartElement(se xml.StartElement) (err error) {
	var skipDef bool
	if se.Name.Local == "radialGradient" || se.Name.Local == "linearGradient" || c.inGrad {
		skipDef = true
	}
	if c.inDefs && !skipDef {
		ID := ""
		for _, attr := range se.Attr {
			if attr.Name.Local == "id" {
				ID = attr.Value
			}
		}
		if ID != "" && len(c.currentDef) > 0 {
			c.doc.defs[c.currentDef[0].ID] = c.currentDef
			c.currentDef = make([]definition, 0)
		}
		c.currentDef = append(c.currentDef, definition{
			ID:    ID,
			Tag:   se.Name.Local,
			Attrs: se.Attr,
		})
		return nil
	}
	df, ok := drawFuncs[se.Name.Local]
	if !ok {
		return c.handleError("cannot process svg element %q", se.Name.Local)
	}
	err = df(c, se.Attr)

	if len(c.path) > 0 {
		// the cursor parsed a path from the element
		pathCopy := append(Path{}, c.path...)
		c.doc.Paths = append(c.doc.Paths,
			StyledPath{Path: pathCopy, Style: c.styleStack[len(c.styleStack)-1]})
		c.recordPathIndex(len(c.doc.Paths) - 1)
		c.path = c.path[:0]
	}
	return err
}
