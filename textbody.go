package pptxjson

import (
	"fmt"
	"strconv"
	"strings"
)

// genTextBody implements spec.md §6's external text builder: renders a
// p:txBody into an HTML string, consulting the layout placeholder for
// default run properties, the way the teacher's Paragraph/TextRun model
// separates per-run from per-paragraph formatting. Bullet markers come
// from each paragraph's own a:pPr only; the master's txStyles are not
// consulted.
func genTextBody(txBody, layoutNode *XmlNode, shapeType string, warp *WarpContext, clrMap map[string]string) string {
	if txBody == nil {
		return ""
	}
	var sb strings.Builder
	for _, p := range txBody.Children("p") {
		sb.WriteString(renderParagraph(p, txBody, layoutNode, shapeType, warp, clrMap))
	}
	return sb.String()
}

func renderParagraph(p, txBody, layoutNode *XmlNode, shapeType string, warp *WarpContext, clrMap map[string]string) string {
	pPr := p.Child("pPr")
	align := paragraphAlign(pPr)

	var runs strings.Builder
	hasContent := false
	for _, kid := range p.Kids {
		switch kid.Name {
		case "r":
			runs.WriteString(renderRun(kid, pPr, layoutNode, warp, clrMap))
			hasContent = true
		case "br":
			runs.WriteString("<br/>")
			hasContent = true
		case "fld":
			if t := kid.Child("t"); t != nil {
				runs.WriteString(htmlEscape(t.CharData))
				hasContent = true
			}
		}
	}
	if !hasContent {
		runs.WriteString("<br/>")
	}

	bulletHTML := renderBullet(pPr, p)
	style := fmt.Sprintf("text-align:%s;", align)
	if marL, ok := marginLeft(pPr); ok {
		style += fmt.Sprintf("margin-left:%gpt;", marL)
	}

	return fmt.Sprintf(`<p style="%s">%s%s</p>`, style, bulletHTML, runs.String())
}

func paragraphAlign(pPr *XmlNode) string {
	if pPr == nil {
		return "left"
	}
	switch pPr.AttrOr("algn", "l") {
	case "ctr":
		return "center"
	case "r":
		return "right"
	case "just", "justLow":
		return "justify"
	default:
		return "left"
	}
}

func marginLeft(pPr *XmlNode) (float64, bool) {
	if pPr == nil {
		return 0, false
	}
	if v, ok := pPr.Attr("marL"); ok {
		return emuToPt(parseEMU(v)), true
	}
	return 0, false
}

// renderBullet reads a paragraph's buChar/buAutoNum/buNone and renders a
// leading bullet/number marker, or nothing for buNone / an unset level.
func renderBullet(pPr, p *XmlNode) string {
	if pPr == nil {
		return ""
	}
	if pPr.Child("buNone") != nil {
		return ""
	}
	if bu := pPr.Child("buChar"); bu != nil {
		return htmlEscape(bu.AttrOr("char", "•")) + " "
	}
	if pPr.Child("buAutoNum") != nil {
		return "1. "
	}
	return ""
}

// renderRun renders one a:r as a <span>, applying rPr's bold/italic/
// underline/strike/size/color/font-family, falling back to the layout
// placeholder's own default run properties when rPr is absent.
func renderRun(r, pPr, layoutNode *XmlNode, warp *WarpContext, clrMap map[string]string) string {
	t := r.Child("t")
	if t == nil {
		return ""
	}
	text := htmlEscape(t.CharData)
	rPr := r.Child("rPr")
	if rPr == nil {
		rPr = defaultRunProps(layoutNode)
	}
	if rPr == nil {
		return text
	}

	var style strings.Builder
	if rPr.AttrOr("b", "0") == "1" {
		style.WriteString("font-weight:bold;")
	}
	if rPr.AttrOr("i", "0") == "1" {
		style.WriteString("font-style:italic;")
	}
	switch rPr.AttrOr("u", "none") {
	case "none":
	default:
		style.WriteString("text-decoration:underline;")
	}
	if rPr.AttrOr("strike", "noStrike") != "noStrike" {
		style.WriteString("text-decoration:line-through;")
	}
	if sz, ok := rPr.Attr("sz"); ok {
		if v, err := strconv.Atoi(sz); err == nil {
			style.WriteString(fmt.Sprintf("font-size:%gpt;", float64(v)/100))
		}
	}
	if color := resolveColor(rPr.Child("solidFill"), warp, clrMap, ""); color != "" {
		style.WriteString(fmt.Sprintf("color:%s;", color))
	}
	if latin := rPr.Child("latin"); latin != nil {
		if face, ok := latin.Attr("typeface"); ok {
			style.WriteString(fmt.Sprintf("font-family:%s;", face))
		}
	}

	if style.Len() == 0 {
		return text
	}
	return fmt.Sprintf(`<span style="%s">%s</span>`, style.String(), text)
}

// defaultRunProps looks up the layout placeholder's lstStyle/defRPr (or
// its first paragraph's own rPr) as the run-property fallback for a
// slide run that carries no rPr of its own.
func defaultRunProps(layoutNode *XmlNode) *XmlNode {
	if layoutNode == nil {
		return nil
	}
	txBody := layoutNode.Child("txBody")
	if txBody == nil {
		return nil
	}
	if lst := txBody.Child("lstStyle"); lst != nil {
		if lvl1 := lst.Child("lvl1pPr"); lvl1 != nil {
			if def := lvl1.Child("defRPr"); def != nil {
				return def
			}
		}
	}
	if p := txBody.Child("p"); p != nil {
		if pPr := p.Child("pPr"); pPr != nil {
			if def := pPr.Child("defRPr"); def != nil {
				return def
			}
		}
		if r := p.Child("r"); r != nil {
			return r.Child("rPr")
		}
	}
	return nil
}
