package pptxjson

import "strings"

// BorderDescriptor is the {borderColor, borderWidth, borderType,
// strokeDasharray} record the external border helper returns per
// spec.md §6. Field names and the line-style vocabulary are adapted
// from style.go's Border/BorderStyle.
type BorderDescriptor struct {
	BorderColor     string
	BorderWidth     float64 // points
	BorderType      string  // "solid" | "dash" | "dot" | "none"
	StrokeDasharray string
}

// dashPatterns maps a:prstDash's val vocabulary to an SVG stroke-dasharray,
// keyed on the teacher's BorderStyle three-way split (solid/dash/dot)
// generalized to every ECMA-376 preset-dash value.
var dashPatterns = map[string]string{
	"solid":          "",
	"dot":            "1,3",
	"dash":           "4,3",
	"lgDash":         "8,3",
	"dashDot":        "4,3,1,3",
	"lgDashDot":      "8,3,1,3",
	"lgDashDotDot":   "8,3,1,3,1,3",
	"sysDash":        "3,1",
	"sysDot":         "1,1",
	"sysDashDot":     "3,1,1,1",
	"sysDashDotDot":  "3,1,1,1,1,1",
}

// getBorder implements spec.md §6's external border helper over a
// shape's p:spPr/a:ln. nodeType is kept in the signature for shape-vs-
// table-cell call-site symmetry, but a:ln's schema doesn't vary by it.
func getBorder(node *XmlNode, nodeType string, warp *WarpContext, clrMap map[string]string, phClr string) BorderDescriptor {
	ln := node.Child("ln")
	if ln == nil {
		return BorderDescriptor{BorderType: "none"}
	}
	return resolveLineProps(ln, warp, clrMap, phClr)
}

// resolveLineProps implements the CT_LineProperties schema shared by
// p:spPr/a:ln and each a:tcBdr edge (a:left/a:right/a:top/a:bottom) —
// both carry w/solidFill/prstDash directly, not nested one level
// further, so getTableBorders calls this directly on the edge node.
func resolveLineProps(ln *XmlNode, warp *WarpContext, clrMap map[string]string, phClr string) BorderDescriptor {
	if ln.Child("noFill") != nil {
		return BorderDescriptor{BorderType: "none"}
	}

	width := 12700.0 // ECMA-376 default hairline, 1pt in EMU
	if w, ok := ln.Attr("w"); ok {
		width = float64(parseEMU(w))
	}

	color := "#000000"
	if solid := ln.Child("solidFill"); solid != nil {
		if c := resolveColor(solid, warp, clrMap, phClr); c != "" {
			color = c
		}
	}

	dashVal := "solid"
	if dash := ln.Child("prstDash"); dash != nil {
		dashVal = dash.AttrOr("val", "solid")
	}
	pattern, known := dashPatterns[dashVal]
	if !known {
		pattern = ""
	}

	borderType := "solid"
	if strings.HasPrefix(dashVal, "dot") || strings.HasSuffix(dashVal, "Dot") || dashVal == "sysDot" {
		borderType = "dot"
	} else if dashVal != "solid" {
		borderType = "dash"
	}

	return BorderDescriptor{
		BorderColor:     color,
		BorderWidth:     emuToPt(int64(width)),
		BorderType:      borderType,
		StrokeDasharray: pattern,
	}
}
