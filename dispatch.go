package pptxjson

// dispatchChildren implements spec.md §4.7: walks spTree's children in
// document order, routing each by tag name to its handler. Unroutable
// keys (p:nvGrpSpPr, p:grpSpPr) are skipped; mc:AlternateContent
// recurses into its Fallback as if it were a group.
func dispatchChildren(spTree *XmlNode, source string, warp *WarpContext, layoutTables, masterTables *InheritTables) []Element {
	var out []Element
	for _, kid := range spTree.Kids {
		el, err := dispatchOne(kid, source, warp, layoutTables, masterTables)
		if err != nil {
			// A handler error (only a chart part that cannot be read
			// returns one) drops that element; the error is not passed
			// on, and the rest of the slide is still emitted.
			continue
		}
		if el != nil {
			out = append(out, *el)
		}
	}
	return out
}

func dispatchOne(node *XmlNode, source string, warp *WarpContext, layoutTables, masterTables *InheritTables) (*Element, error) {
	switch node.Name {
	case "sp", "cxnSp":
		el := buildShape(node, source, warp, layoutTables, masterTables)
		return &el, nil
	case "pic":
		el := buildPicture(node, warp)
		return &el, nil
	case "graphicFrame":
		return buildGraphicFrame(node, warp, layoutTables, masterTables)
	case "grpSp":
		el := buildGroup(node, source, warp, layoutTables, masterTables)
		return &el, nil
	case "AlternateContent":
		fallback := node.Child("Fallback")
		if fallback == nil {
			return nil, nil
		}
		children := dispatchChildren(fallback, source, warp, layoutTables, masterTables)
		if len(children) == 1 {
			return &children[0], nil
		}
		if len(children) == 0 {
			return nil, nil
		}
		return &Element{Type: "group", Elements: children}, nil
	case "nvGrpSpPr", "grpSpPr":
		return nil, nil
	}
	return nil, nil
}

// buildGroup implements the recursive group handler: resolves the
// group's own parent-space rect and child-space transform (C4), walks
// its children with the ordinary dispatcher, then remaps every child's
// already-resolved rect into the group's frame before returning.
func buildGroup(node *XmlNode, source string, warp *WarpContext, layoutTables, masterTables *InheritTables) Element {
	grpSpPr := node.Child("grpSpPr")
	groupRect, transform := groupTransformFromNode(grpSpPr)

	children := dispatchChildren(node, source, warp, layoutTables, masterTables)
	for i := range children {
		remapElementRect(&children[i], transform)
	}

	return Element{
		Type: "group",
		Left: groupRect.Left, Top: groupRect.Top,
		Width: groupRect.Width, Height: groupRect.Height,
		Rotate:   groupRect.Rotate,
		Name:     shapeName(node.Child("nvGrpSpPr")),
		Elements: children,
	}
}

// remapElementRect applies t to el's own frame, and recurses into
// nested group/diagram elements so doubly-nested groups compose by
// sequential application (innermost transform applied first, as each
// level of the walk unwinds).
func remapElementRect(el *Element, t groupTransform) {
	r := Rect{Left: el.Left, Top: el.Top, Width: el.Width, Height: el.Height}
	remapped := t.apply(r)
	el.Left, el.Top, el.Width, el.Height = remapped.Left, remapped.Top, remapped.Width, remapped.Height
	for i := range el.Elements {
		remapElementRect(&el.Elements[i], t)
	}
}
