package pptxjson

// InheritTables is the result of C6: a layout or master's p:spTree shapes
// indexed three ways, so a placeholder on a slide can be matched against
// its layout/master ancestor by whichever key it carries. Per spec.md
// §4.6, later shapes win on collision (last-write-wins), matching the
// teacher's own "later entries overwrite" indexing convention; the one
// exception is the "body" default given to untyped placeholders (see
// indexShapeNode).
type InheritTables struct {
	ByID   map[string]*XmlNode
	ByIdx  map[string]*XmlNode
	ByType map[string]*XmlNode
}

// buildInheritTables walks root's p:cSld/p:spTree (or, defensively, a
// direct spTree child if cSld is absent) and indexes every non-group
// shape node by its nvSpPr id, its placeholder idx, and its placeholder
// type. Shapes that declare no ph element still get indexed by id.
func buildInheritTables(root *XmlNode) *InheritTables {
	t := &InheritTables{
		ByID:   make(map[string]*XmlNode),
		ByIdx:  make(map[string]*XmlNode),
		ByType: make(map[string]*XmlNode),
	}
	if root == nil {
		return t
	}
	spTree := lookup(root, "cSld", "spTree")
	if spTree == nil {
		spTree = root.Child("spTree")
	}
	if spTree == nil {
		return t
	}
	for _, kid := range spTree.Kids {
		indexShapeNode(t, kid)
	}
	return t
}

// indexShapeNode indexes one spTree child (sp, pic, graphicFrame, cxnSp,
// grpSp) by its nvXxPr's id/idx/ph-type. Group shapes are not recursed
// into: placeholder inheritance does not cross into a group's own
// children per spec.md §4.6's Non-goal on group content inheritance.
func indexShapeNode(t *InheritTables, node *XmlNode) {
	nv := firstNonNilChild(node, "nvSpPr", "nvPicPr", "nvGraphicFramePr", "nvCxnSpPr", "nvGrpSpPr")
	if nv == nil {
		return
	}
	cNvPr := nv.Child("cNvPr")
	if cNvPr != nil {
		if id, ok := cNvPr.Attr("id"); ok && id != "" {
			t.ByID[id] = node
		}
	}
	ph := nv.Child("nvPr")
	if ph == nil {
		return
	}
	phEl := ph.Child("ph")
	if phEl == nil {
		return
	}
	if idx, ok := phEl.Attr("idx"); ok && idx != "" {
		t.ByIdx[idx] = node
	}
	phType := phEl.AttrOr("type", "")
	if phType != "" {
		t.ByType[phType] = node
	} else {
		// An untyped placeholder defaults to "body" per ECMA-376's
		// ST_PlaceholderType default, matching spec.md's placeholder
		// resolution fallback chain. Unlike the other keys, it takes
		// the "body" slot only if no earlier shape has filled it.
		if _, exists := t.ByType["body"]; !exists {
			t.ByType["body"] = node
		}
	}
}

func firstNonNilChild(node *XmlNode, names ...string) *XmlNode {
	for _, name := range names {
		if c := node.Child(name); c != nil {
			return c
		}
	}
	return nil
}
