package pptxjson

import (
	"fmt"
	"math"
)

// customPath implements spec.md §6's external custom-path helper:
// customPath(custGeom, w, h) -> svg-path. The path commands themselves
// are read in the path's own a:path coordinate space (its w/h
// attributes) and scaled to the element's own a:ext dimensions, the
// same moveTo/lnTo/cubicBezTo/quadBezTo/arcTo/close command set the
// teacher's reader_slide.go tracks as PathCommand values.
func customPath(custGeom *XmlNode, w, h float64) string {
	if custGeom == nil {
		return ""
	}
	pathLst := custGeom.Child("pathLst")
	if pathLst == nil {
		return ""
	}

	var out string
	for _, path := range pathLst.Children("path") {
		pw := parseFloatAttr(path, "w")
		ph := parseFloatAttr(path, "h")
		if pw == 0 {
			pw = w
		}
		if ph == 0 {
			ph = h
		}
		sx, sy := 1.0, 1.0
		if pw != 0 {
			sx = w / pw
		}
		if ph != 0 {
			sy = h / ph
		}
		out += renderPathCommands(path, sx, sy)
	}
	return out
}

// renderPathCommands walks one a:path's command list, tracking the
// current point in the path's own (unscaled) coordinate space so an
// arcTo command — whose SVG equivalent needs a terminal x,y, not just
// the two radii — can compute that endpoint from the ellipse stAng and
// swAng angles before the result is scaled into output space.
func renderPathCommands(path *XmlNode, sx, sy float64) string {
	var out string
	curX, curY := 0.0, 0.0
	for _, cmd := range path.Kids {
		switch cmd.Name {
		case "moveTo":
			if pt := firstPt(cmd); pt != nil {
				x, y := parseFloatAttr(pt, "x"), parseFloatAttr(pt, "y")
				out += fmt.Sprintf("M%g,%g ", x*sx, y*sy)
				curX, curY = x, y
			}
		case "lnTo":
			if pt := firstPt(cmd); pt != nil {
				x, y := parseFloatAttr(pt, "x"), parseFloatAttr(pt, "y")
				out += fmt.Sprintf("L%g,%g ", x*sx, y*sy)
				curX, curY = x, y
			}
		case "cubicBezTo":
			pts := cmd.Children("pt")
			if len(pts) == 3 {
				out += fmt.Sprintf("C%g,%g %g,%g %g,%g ",
					scalePt(pts[0], "x", sx), scalePt(pts[0], "y", sy),
					scalePt(pts[1], "x", sx), scalePt(pts[1], "y", sy),
					scalePt(pts[2], "x", sx), scalePt(pts[2], "y", sy))
				curX, curY = parseFloatAttr(pts[2], "x"), parseFloatAttr(pts[2], "y")
			}
		case "quadBezTo":
			pts := cmd.Children("pt")
			if len(pts) == 2 {
				out += fmt.Sprintf("Q%g,%g %g,%g ",
					scalePt(pts[0], "x", sx), scalePt(pts[0], "y", sy),
					scalePt(pts[1], "x", sx), scalePt(pts[1], "y", sy))
				curX, curY = parseFloatAttr(pts[1], "x"), parseFloatAttr(pts[1], "y")
			}
		case "arcTo":
			wR := parseFloatAttr(cmd, "wR")
			hR := parseFloatAttr(cmd, "hR")
			stAng := parseFloatAttr(cmd, "stAng") / angleDenom
			swAng := parseFloatAttr(cmd, "swAng") / angleDenom
			large := 0
			if swAng > 180 || swAng < -180 {
				large = 1
			}
			sweep := 1
			if swAng < 0 {
				sweep = 0
			}
			// The current point lies on the ellipse at stAng; solve for
			// the ellipse center, then walk to stAng+swAng for the end.
			stRad := stAng * math.Pi / 180
			endRad := (stAng + swAng) * math.Pi / 180
			ecx := curX - wR*math.Cos(stRad)
			ecy := curY - hR*math.Sin(stRad)
			ex := ecx + wR*math.Cos(endRad)
			ey := ecy + hR*math.Sin(endRad)
			out += fmt.Sprintf("A%g,%g 0 %d,%d %g,%g ", wR*sx, hR*sy, large, sweep, ex*sx, ey*sy)
			curX, curY = ex, ey
		case "close":
			out += "Z "
		}
	}
	return out
}

func firstPt(cmd *XmlNode) *XmlNode {
	return cmd.Child("pt")
}

func scalePt(pt *XmlNode, attr string, scale float64) float64 {
	return parseFloatAttr(pt, attr) * scale
}
