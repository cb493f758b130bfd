package pptxjson

// buildShape implements spec.md §4.8 end to end for one p:sp / p:cxnSp
// node, given the slide-level placeholder lookup context.
func buildShape(node *XmlNode, source string, warp *WarpContext, layoutTables, masterTables *InheritTables) Element {
	nv := node.Child("nvSpPr")
	if nv == nil {
		nv = node.Child("nvCxnSpPr")
	}

	phType, phIdx, layoutPh, masterPh := resolveShapePlaceholder(nv, layoutTables, masterTables)

	isTxBox := false
	if nv != nil {
		if cNvSpPr := nv.Child("cNvSpPr"); cNvSpPr != nil {
			isTxBox = cNvSpPr.AttrOr("txBox", "0") == "1"
		}
	}
	if phType == "" {
		if isTxBox {
			phType = "text"
		} else if layoutPh != nil {
			phType = placeholderType(layoutPh)
		} else if masterPh != nil {
			phType = placeholderType(masterPh)
		} else if source == "diagramBg" {
			phType = "diagram"
		} else {
			phType = "obj"
		}
	}

	spPr := node.Child("spPr")
	var layoutSpPr, masterSpPr *XmlNode
	if layoutPh != nil {
		layoutSpPr = layoutPh.Child("spPr")
	}
	if masterPh != nil {
		masterSpPr = masterPh.Child("spPr")
	}

	var slideXfrm, layoutXfrm, masterXfrm *XmlNode
	if spPr != nil {
		slideXfrm = spPr.Child("xfrm")
	}
	if layoutSpPr != nil {
		layoutXfrm = layoutSpPr.Child("xfrm")
	}
	if masterSpPr != nil {
		masterXfrm = masterSpPr.Child("xfrm")
	}
	rect := resolveXfrmChain(slideXfrm, layoutXfrm, masterXfrm)

	var shapType, path string
	isCustom := false
	if spPr != nil {
		if prst := spPr.Child("prstGeom"); prst != nil {
			shapType = prst.AttrOr("prst", "rect")
		} else if cust := spPr.Child("custGeom"); cust != nil {
			isCustom = true
			shapType = "custom"
			path = customPath(cust, rect.Width, rect.Height)
		}
	}
	if shapType == "" {
		shapType = "rect"
	}

	textRotate := rect.Rotate
	txBody := node.Child("txBody")
	if txBody != nil {
		if txXfrm := txBody.Child("bodyPr"); txXfrm != nil {
			if rot, ok := txXfrm.Attr("rot"); ok {
				textRotate = angleToDegrees(rot) + 90
			}
		}
	}

	clrMap := resolveClrMap(warp)
	fillColor := resolveShapeFill(node, warp, clrMap, "")
	var border BorderDescriptor
	if spPr != nil {
		border = getBorder(spPr, "shape", warp, clrMap, "")
	}
	var shadow *ShadowDescriptor
	if spPr != nil {
		if effectLst := spPr.Child("effectLst"); effectLst != nil {
			if outer := effectLst.Child("outerShdw"); outer != nil {
				sd := getShadow(outer, warp, clrMap, "")
				shadow = &sd
			}
		}
	}

	var content string
	var layoutTxBody *XmlNode
	if layoutPh != nil {
		layoutTxBody = layoutPh
	}
	if txBody != nil {
		content = genTextBody(txBody, layoutTxBody, phType, warp, clrMap)
	}

	hyperlink := extractHyperlink(node, warp)

	el := Element{
		Left: rect.Left, Top: rect.Top, Width: rect.Width, Height: rect.Height,
		Rotate: rect.Rotate, IsFlipH: rect.FlipH, IsFlipV: rect.FlipV,
		Name:                  shapeName(nv),
		FillColor:             fillColor,
		BorderColor:           border.BorderColor,
		BorderWidth:           border.BorderWidth,
		BorderType:            border.BorderType,
		BorderStrokeDasharray: border.StrokeDasharray,
		Shadow:                shadow,
		Content:               content,
		Hyperlink:             hyperlink,
	}

	switch {
	case isCustom && phType != "diagram":
		el.Type = "shape"
		el.ShapType = "custom"
		el.Path = path
	case !isCustom && (phType == "obj" || phType == ""):
		el.Type = "shape"
		el.ShapType = shapType
	default:
		el.Type = "text"
		el.IsVertical = isVerticalTextDirection(txBody)
		el.Rotate = textRotate
		el.VAlign = textVAlign(txBody)
	}
	_ = phIdx
	return el
}

// resolveShapePlaceholder reads a shape's own ph type/idx and resolves
// its layout/master counterpart nodes, per spec.md §4.8 step 1 /
// §4.6's type-then-idx precedence (see lookupPlaceholderPair).
func resolveShapePlaceholder(nv *XmlNode, layoutTables, masterTables *InheritTables) (phType, phIdx string, layoutPh, masterPh *XmlNode) {
	if nv == nil {
		return "", "", nil, nil
	}
	nvPr := nv.Child("nvPr")
	if nvPr == nil {
		return "", "", nil, nil
	}
	ph := nvPr.Child("ph")
	if ph == nil {
		return "", "", nil, nil
	}
	phType = ph.AttrOr("type", "")
	phIdx, _ = ph.Attr("idx")
	if layoutTables != nil {
		layoutPh, masterPh = lookupPlaceholderPair(ph, layoutTables, masterTables)
	}
	return phType, phIdx, layoutPh, masterPh
}

func lookupPlaceholderPair(ph *XmlNode, layoutTables, masterTables *InheritTables) (*XmlNode, *XmlNode) {
	phType := ph.AttrOr("type", "")
	idx, hasIdx := ph.Attr("idx")
	var layoutPh, masterPh *XmlNode
	if phType != "" {
		layoutPh = layoutTables.ByType[phType]
		masterPh = masterTables.ByType[phType]
	}
	if layoutPh == nil && hasIdx {
		layoutPh = layoutTables.ByIdx[idx]
	}
	if masterPh == nil && hasIdx {
		masterPh = masterTables.ByIdx[idx]
	}
	return layoutPh, masterPh
}

func placeholderType(phNode *XmlNode) string {
	nv := firstNonNilChild(phNode, "nvSpPr", "nvPicPr", "nvGraphicFramePr", "nvCxnSpPr")
	if nv == nil {
		return ""
	}
	nvPr := nv.Child("nvPr")
	if nvPr == nil {
		return ""
	}
	if ph := nvPr.Child("ph"); ph != nil {
		return ph.AttrOr("type", "")
	}
	return ""
}

func shapeName(nv *XmlNode) string {
	if nv == nil {
		return ""
	}
	if cNvPr := nv.Child("cNvPr"); cNvPr != nil {
		return cNvPr.AttrOr("name", "")
	}
	return ""
}

// resolveClrMap builds the active color map per spec.md §4.2's
// precedence: slide override ▸ layout override ▸ master clrMap.
// An override's p:clrMapOvr/a:overrideClrMapping carries the same
// attribute set as the master's own p:clrMap; a:masterClrMapping means
// "defer to the next level down" and is treated as absent here.
func resolveClrMap(warp *WarpContext) map[string]string {
	if warp == nil {
		return nil
	}
	if m := clrMapOverride(warp.SlideContent); m != nil {
		return m
	}
	if m := clrMapOverride(warp.SlideLayoutContent); m != nil {
		return m
	}
	if warp.SlideMasterContent == nil {
		return nil
	}
	clrMapNode := warp.SlideMasterContent.Child("clrMap")
	if clrMapNode == nil {
		return nil
	}
	return attrsToMap(clrMapNode)
}

func clrMapOverride(content *XmlNode) map[string]string {
	ovr := lookup(content, "clrMapOvr", "overrideClrMapping")
	if ovr == nil {
		return nil
	}
	return attrsToMap(ovr)
}

func attrsToMap(n *XmlNode) map[string]string {
	out := make(map[string]string, len(n.Attrs))
	for k, v := range n.Attrs {
		out[k] = v
	}
	return out
}

func isVerticalTextDirection(txBody *XmlNode) bool {
	if txBody == nil {
		return false
	}
	bodyPr := txBody.Child("bodyPr")
	if bodyPr == nil {
		return false
	}
	switch bodyPr.AttrOr("vert", "horz") {
	case "vert", "vert270", "eaVert":
		return true
	}
	return false
}

func textVAlign(txBody *XmlNode) string {
	if txBody == nil {
		return ""
	}
	bodyPr := txBody.Child("bodyPr")
	if bodyPr == nil {
		return ""
	}
	switch bodyPr.AttrOr("anchor", "t") {
	case "ctr":
		return "middle"
	case "b":
		return "bottom"
	default:
		return "top"
	}
}

// extractHyperlink resolves a shape-level a:hlinkClick (either directly
// under the shape's nvSpPr/cNvPr, or the first run's rPr) through the
// slide ResObj map into a URL, the SUPPLEMENTED hyperlink-extraction
// feature.
func extractHyperlink(node *XmlNode, warp *WarpContext) string {
	nv := node.Child("nvSpPr")
	if nv != nil {
		if cNvPr := nv.Child("cNvPr"); cNvPr != nil {
			if hlink := cNvPr.Child("hlinkClick"); hlink != nil {
				return resolveHyperlinkTarget(hlink, warp)
			}
		}
	}
	txBody := node.Child("txBody")
	if txBody == nil {
		return ""
	}
	for _, p := range txBody.Children("p") {
		for _, r := range p.Children("r") {
			rPr := r.Child("rPr")
			if rPr == nil {
				continue
			}
			if hlink := rPr.Child("hlinkClick"); hlink != nil {
				if u := resolveHyperlinkTarget(hlink, warp); u != "" {
					return u
				}
			}
		}
	}
	return ""
}

func resolveHyperlinkTarget(hlink *XmlNode, warp *WarpContext) string {
	rID, ok := hlink.Attr("r:id")
	if !ok || rID == "" || warp == nil {
		return ""
	}
	rel, ok := warp.SlideResObj[rID]
	if !ok {
		return ""
	}
	return rel.Target
}
