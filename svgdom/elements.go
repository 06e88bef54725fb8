package svgdom

import (
	"encoding/xml"
	"strings"
)

type svgFunc func(c *docCursor, attrs []xml.Attr) error

var drawFuncs = map[string]svgFunc{
	"svg":            svgF,
	"g":              gF,
	"line":           lineF,
	"stop":           stopF,
	"rect":           rectF,
	"circle":         circleF,
	"ellipse":        circleF, // circleF handles ellipses
	"polyline":       polylineF,
	"polygon":        polygonF,
	"path":           pathF,
	"desc":           descF,
	"defs":           defsF,
	"title":          titleF,
	"linearGradient": linearGradientF,
	"radialGradient": radialGradientF,
}

func init() {
	// registered here to avoid an initialization loop with drawFuncs
	drawFuncs["use"] = useF
}

func svgF(c *docCursor, attrs []xml.Attr) error {
	c.seenSvg = true
	// the viewBox is read first so that percentage and fallback
	// sizes can resolve against it
	for _, attr := range attrs {
		if attr.Name.Local != "viewBox" {
			continue
		}
		err := c.getPoints(attr.Value)
		if err != nil {
			return err
		}
		if len(c.points) != 4 {
			return errParamMismatch
		}
		c.doc.ViewBox.X = c.points[0]
		c.doc.ViewBox.Y = c.points[1]
		c.doc.ViewBox.W = c.points[2]
		c.doc.ViewBox.H = c.points[3]
	}
	var width, height float64
	var err error
	for _, attr := range attrs {
		v := strings.TrimSpace(attr.Value)
		switch attr.Name.Local {
		case "width":
			if strings.HasSuffix(v, "%") {
				break // no intrinsic width, the viewBox decides
			}
			width, err = c.parseUnit(v, widthPercentage)
		case "height":
			if strings.HasSuffix(v, "%") {
				break
			}
			height, err = c.parseUnit(v, heightPercentage)
		}
		if err != nil {
			return err
		}
	}
	if c.doc.ViewBox.W == 0 {
		c.doc.ViewBox.W = width
	}
	if c.doc.ViewBox.H == 0 {
		c.doc.ViewBox.H = height
	}
	c.doc.Width = width
	c.doc.Height = height
	if c.doc.Width == 0 {
		c.doc.Width = c.doc.ViewBox.W
	}
	if c.doc.Height == 0 {
		c.doc.Height = c.doc.ViewBox.H
	}
	return nil
}

func gF(*docCursor, []xml.Attr) error { return nil } // g only pushes its style

func rectF(c *docCursor, attrs []xml.Attr) error {
	var x, y, w, h, rx, ry float64
	var err error
	for _, attr := range attrs {
		switch attr.Name.Local {
		case "x":
			x, err = c.parseUnit(attr.Value, widthPercentage)
		case "y":
			y, err = c.parseUnit(attr.Value, heightPercentage)
		case "width":
			w, err = c.parseUnit(attr.Value, widthPercentage)
		case "height":
			h, err = c.parseUnit(attr.Value, heightPercentage)
		case "rx":
			rx, err = c.parseUnit(attr.Value, widthPercentage)
		case "ry":
			ry, err = c.parseUnit(attr.Value, heightPercentage)
		}
		if err != nil {
			return err
		}
	}
	if w == 0 || h == 0 { // not drawn, but not an error
		return nil
	}
	if rx == 0 {
		rx = ry
	} else if ry == 0 {
		ry = rx
	}
	c.path.addRoundRect(x+c.curX, y+c.curY, w+x+c.curX, h+y+c.curY, rx, ry, 0)
	return nil
}

func circleF(c *docCursor, attrs []xml.Attr) error {
	var cx, cy, rx, ry float64
	var err error
	for _, attr := range attrs {
		switch attr.Name.Local {
		case "cx":
			cx, err = c.parseUnit(attr.Value, widthPercentage)
		case "cy":
			cy, err = c.parseUnit(attr.Value, heightPercentage)
		case "r":
			rx, err = c.parseUnit(attr.Value, diagPercentage)
			ry = rx
		case "rx":
			rx, err = c.parseUnit(attr.Value, widthPercentage)
		case "ry":
			ry, err = c.parseUnit(attr.Value, heightPercentage)
		}
		if err != nil {
			return err
		}
	}
	if rx == 0 || ry == 0 { // not drawn, but not an error
		return nil
	}
	c.ellipseAt(cx+c.curX, cy+c.curY, rx, ry)
	return nil
}

func lineF(c *docCursor, attrs []xml.Attr) error {
	var x1, x2, y1, y2 float64
	var err error
	for _, attr := range attrs {
		switch attr.Name.Local {
		case "x1":
			x1, err = c.parseUnit(attr.Value, widthPercentage)
		case "x2":
			x2, err = c.parseUnit(attr.Value, widthPercentage)
		case "y1":
			y1, err = c.parseUnit(attr.Value, heightPercentage)
		case "y2":
			y2, err = c.parseUnit(attr.Value, heightPercentage)
		}
		if err != nil {
			return err
		}
	}
	c.path.Start(toFixedP(x1+c.curX, y1+c.curY))
	c.path.Line(toFixedP(x2+c.curX, y2+c.curY))
	return nil
}

func polylineF(c *docCursor, attrs []xml.Attr) error {
	var err error
	for _, attr := range attrs {
		switch attr.Name.Local {
		case "points":
			err = c.getPoints(attr.Value)
			if len(c.points)%2 != 0 {
				// odd number of points is an error
				err = errParamMismatch
			}
		}
		if err != nil {
			return err
		}
	}
	if len(c.points) >= 4 {
		c.path.Start(toFixedP(c.points[0]+c.curX, c.points[1]+c.curY))
		for i := 2; i < len(c.points)-1; i += 2 {
			c.path.Line(toFixedP(c.points[i]+c.curX, c.points[i+1]+c.curY))
		}
	}
	return nil
}

func polygonF(c *docCursor, attrs []xml.Attr) error {
	err := polylineF(c, attrs)
	if err != nil {
		return err
	}
	if len(c.points) >= 4 {
		c.path.Stop(true)
	}
	return nil
}

func pathF(c *docCursor, attrs []xml.Attr) error {
	var err error
	for _, attr := range attrs {
		switch attr.Name.Local {
		case "d":
			err = c.compilePath(attr.Value)
		}
		if err != nil {
			return err
		}
	}
	return nil
}

func descF(c *docCursor, _ []xml.Attr) error {
	c.inDescText = true
	c.doc.Descriptions = append(c.doc.Descriptions, "")
	return nil
}

func titleF(c *docCursor, _ []xml.Attr) error {
	c.inTitleText = true
	c.doc.Titles = append(c.doc.Titles, "")
	return nil
}

func defsF(c *docCursor, _ []xml.Attr) error {
	c.inDefs = true
	return nil
}

func linearGradientF(c *docCursor, attrs []xml.Attr) error {
	c.inGrad = true
	direction := Linear{0, 0, 1, 0}
	c.grad = &Gradient{Direction: direction, Bounds: c.doc.ViewBox,
		Matrix: Identity, Spread: PadSpread, Units: ObjectBoundingBox}
	for _, attr := range attrs {
		if attr.Name.Local == "id" {
			if len(attr.Value) > 0 {
				c.doc.grads[attr.Value] = c.grad
				c.doc.registerID(attr.Value)
			} else {
				return errZeroLengthID
			}
		}
	}
	for _, attr := range attrs {
		err := c.readGradAttr(attr)
		if err != nil {
			return err
		}
		switch attr.Name.Local {
		case "x1":
			direction[0], err = readFraction(attr.Value)
		case "y1":
			direction[1], err = readFraction(attr.Value)
		case "x2":
			direction[2], err = readFraction(attr.Value)
		case "y2":
			direction[3], err = readFraction(attr.Value)
		}
		if err != nil {
			return err
		}
	}
	c.grad.Direction = direction
	return nil
}

func radialGradientF(c *docCursor, attrs []xml.Attr) error {
	c.inGrad = true
	direction := Radial{0.5, 0.5, 0.5, 0.5, 0.5, 0}
	c.grad = &Gradient{Direction: direction, Bounds: c.doc.ViewBox,
		Matrix: Identity, Spread: PadSpread, Units: ObjectBoundingBox}
	setFx, setFy := false, false
	for _, attr := range attrs {
		if attr.Name.Local == "id" {
			if len(attr.Value) > 0 {
				c.doc.grads[attr.Value] = c.grad
				c.doc.registerID(attr.Value)
			} else {
				return errZeroLengthID
			}
		}
	}
	for _, attr := range attrs {
		err := c.readGradAttr(attr)
		if err != nil {
			return err
		}
		switch attr.Name.Local {
		case "cx":
			direction[0], err = readFraction(attr.Value)
		case "cy":
			direction[1], err = readFraction(attr.Value)
		case "fx":
			setFx = true
			direction[2], err = readFraction(attr.Value)
		case "fy":
			setFy = true
			direction[3], err = readFraction(attr.Value)
		case "r":
			direction[4], err = readFraction(attr.Value)
		case "fr":
			direction[5], err = readFraction(attr.Value)
		}
		if err != nil {
			return err
		}
	}
	if !setFx { // set fx to cx by default
		direction[2] = direction[0]
	}
	if !setFy { // set fy to cy by default
		direction[3] = direction[1]
	}
	c.grad.Direction = direction
	return nil
}

func stopF(c *docCursor, attrs []xml.Attr) error {
	if !c.inGrad {
		return nil
	}
	// stop properties may be set as attributes or through the
	// style attribute
	var pairs [][2]string
	for _, attr := range attrs {
		if attr.Name.Local == "style" {
			for _, pair := range strings.Split(attr.Value, ";") {
				if kv := strings.SplitN(pair, ":", 2); len(kv) == 2 {
					pairs = append(pairs, [2]string{strings.TrimSpace(kv[0]), strings.TrimSpace(kv[1])})
				}
			}
		} else {
			pairs = append(pairs, [2]string{attr.Name.Local, attr.Value})
		}
	}
	stop := GradStop{Opacity: 1.0}
	var err error
	for _, kv := range pairs {
		switch kv[0] {
		case "offset":
			stop.Offset, err = readFraction(kv[1])
		case "stop-color":
			var optColor optionalColor
			optColor, err = parseSVGColor(kv[1])
			stop.StopColor = optColor.asColor()
		case "stop-opacity":
			stop.Opacity, err = parseFloat(kv[1], 64)
		}
		if err != nil {
			return err
		}
	}
	c.grad.Stops = append(c.grad.Stops, stop)
	return nil
}

func useF(c *docCursor, attrs []xml.Attr) error {
	var (
		href string
		x, y float64
		err  error
	)
	for _, attr := range attrs {
		switch attr.Name.Local {
		case "href":
			href = attr.Value
		case "x":
			x, err = c.parseUnit(attr.Value, widthPercentage)
		case "y":
			y, err = c.parseUnit(attr.Value, heightPercentage)
		}
		if err != nil {
			return err
		}
	}
	c.curX, c.curY = x, y
	defer func() {
		c.curX, c.curY = 0, 0
	}()
	if href == "" {
		return c.handleError("only use tags with href are supported")
	}
	if !strings.HasPrefix(href, "#") {
		return c.handleError("only the ID CSS selector is supported")
	}
	defs, ok := c.doc.defs[href[1:]]
	if !ok {
		return c.handleError("href id in use statement was not found in saved defs")
	}
	for _, def := range defs {
		if def.Tag == "endg" {
			// pop style
			c.styleStack = c.styleStack[:len(c.styleStack)-1]
			continue
		}
		if err = c.pushStyle(def.Attrs); err != nil {
			return err
		}
		df, ok := drawFuncs[def.Tag]
		if !ok {
			if err = c.handleError("cannot process svg element %q", def.Tag); err != nil {
				return err
			}
		} else if err = df(c, def.Attrs); err != nil {
			return err
		}
		if def.Tag != "g" {
			// pop style
			c.styleStack = c.styleStack[:len(c.styleStack)-1]
		}
	}
	return nil
}
