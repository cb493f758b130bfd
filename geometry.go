package pptxjson

// Point is a resolved {left, top} pair in points.
type Point struct {
	Left, Top float64
}

// Extent is a resolved {width, height} pair in points.
type Extent struct {
	Width, Height float64
}

// Rect is the fully-resolved shape frame emitted for every shape/text
// record: position plus size plus rotation/flip.
type Rect struct {
	Left, Top, Width, Height float64
	Rotate                   int
	FlipH, FlipV             bool
}

// firstOff returns the first a:off found across the slide/layout/master
// xfrm chain, in that precedence order, or nil if none carries one.
func firstOff(xfrms ...*XmlNode) *XmlNode {
	for _, x := range xfrms {
		if x == nil {
			continue
		}
		if off := x.Child("off"); off != nil {
			return off
		}
	}
	return nil
}

func firstExt(xfrms ...*XmlNode) *XmlNode {
	for _, x := range xfrms {
		if x == nil {
			continue
		}
		if ext := x.Child("ext"); ext != nil {
			return ext
		}
	}
	return nil
}

// position implements spec.md §4.4's position(): for each axis, the
// first xfrm in the chain that provides a:off wins; missing → 0.
func position(slideXfrm, layoutXfrm, masterXfrm *XmlNode) Point {
	off := firstOff(slideXfrm, layoutXfrm, masterXfrm)
	if off == nil {
		return Point{}
	}
	return Point{
		Left: emuToPt(parseEMU(off.AttrOr("x", ""))),
		Top:  emuToPt(parseEMU(off.AttrOr("y", ""))),
	}
}

// size implements spec.md §4.4's size(), analogous to position() over
// a:ext's cx/cy.
func size(slideXfrm, layoutXfrm, masterXfrm *XmlNode) Extent {
	ext := firstExt(slideXfrm, layoutXfrm, masterXfrm)
	if ext == nil {
		return Extent{}
	}
	return Extent{
		Width:  emuToPt(parseEMU(ext.AttrOr("cx", ""))),
		Height: emuToPt(parseEMU(ext.AttrOr("cy", ""))),
	}
}

// resolveXfrmChain walks an xfrm element to produce a Rect, using the
// first-wins precedence of position()/size() but reading rotation and
// flip flags straight off the slide-level xfrm only, since layouts and
// masters never override rotation/flip for an inherited shape.
func resolveXfrmChain(slideXfrm, layoutXfrm, masterXfrm *XmlNode) Rect {
	p := position(slideXfrm, layoutXfrm, masterXfrm)
	s := size(slideXfrm, layoutXfrm, masterXfrm)
	r := Rect{Left: p.Left, Top: p.Top, Width: s.Width, Height: s.Height}
	if slideXfrm != nil {
		r.Rotate = angleToDegrees(slideXfrm.AttrOr("rot", ""))
		r.FlipH = slideXfrm.AttrOr("flipH", "") == "1"
		r.FlipV = slideXfrm.AttrOr("flipV", "") == "1"
	}
	return r
}

// groupTransform describes the affine remap spec.md §4.4 defines for a
// group's coordinate system: scale factors plus the child-space origin
// to subtract before scaling.
type groupTransform struct {
	sx, sy     float64
	chX, chY   float64
}

// newGroupTransform builds the transform for one grpSp from its own
// already-resolved off/ext (parent space) and its chOff/chExt (child
// space), per spec.md §4.4: sx = cx/chcx, sy = cy/chcy.
func newGroupTransform(ext Extent, chOffX, chOffY, chExtCX, chExtCY float64) groupTransform {
	t := groupTransform{chX: chOffX, chY: chOffY, sx: 1, sy: 1}
	if chExtCX != 0 {
		t.sx = ext.Width / chExtCX
	}
	if chExtCY != 0 {
		t.sy = ext.Height / chExtCY
	}
	return t
}

// apply remaps a child's already-resolved rect into parent-space units
// relative to the group's own origin: ((left-chx)*sx, (top-chy)*sy,
// width*sx, height*sy); the group's off is not added. Rotation,
// fills, and colors are left untouched by the caller.
func (t groupTransform) apply(r Rect) Rect {
	out := r
	out.Left = (r.Left - t.chX) * t.sx
	out.Top = (r.Top - t.chY) * t.sy
	out.Width = r.Width * t.sx
	out.Height = r.Height * t.sy
	return out
}

// groupTransformFromNode reads a grpSp's own p:grpSpPr/a:xfrm (off, ext,
// chOff, chExt all in EMU on this one node — no layout/master chain
// applies to a group's own frame) and builds its groupTransform plus the
// group's own resolved parent-space Rect.
func groupTransformFromNode(grpSpPr *XmlNode) (Rect, groupTransform) {
	xfrm := grpSpPr.Child("xfrm")
	if xfrm == nil {
		return Rect{}, groupTransform{sx: 1, sy: 1}
	}
	off := xfrm.Child("off")
	ext := xfrm.Child("ext")
	chOff := xfrm.Child("chOff")
	chExt := xfrm.Child("chExt")

	r := Rect{Rotate: angleToDegrees(xfrm.AttrOr("rot", ""))}
	if off != nil {
		r.Left = emuToPt(parseEMU(off.AttrOr("x", "")))
		r.Top = emuToPt(parseEMU(off.AttrOr("y", "")))
	}
	if ext != nil {
		r.Width = emuToPt(parseEMU(ext.AttrOr("cx", "")))
		r.Height = emuToPt(parseEMU(ext.AttrOr("cy", "")))
	}

	var chOffX, chOffY, chExtCX, chExtCY float64
	if chOff != nil {
		chOffX = emuToPt(parseEMU(chOff.AttrOr("x", "")))
		chOffY = emuToPt(parseEMU(chOff.AttrOr("y", "")))
	}
	if chExt != nil {
		chExtCX = emuToPt(parseEMU(chExt.AttrOr("cx", "")))
		chExtCY = emuToPt(parseEMU(chExt.AttrOr("cy", "")))
	}
	return r, newGroupTransform(Extent{Width: r.Width, Height: r.Height}, chOffX, chOffY, chExtCX, chExtCY)
}

// Nested groups compose by sequential application, not by precomputing
// a single combined transform: a child of a doubly-nested group has
// apply() called on it once per enclosing group, innermost first, as
// the shape tree walk unwinds back out to the slide's top-level spTree.
