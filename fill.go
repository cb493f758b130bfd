package pptxjson

import (
	"bytes"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"sort"
	"strconv"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
)

// FillKind enumerates the six mutually-exclusive fill kinds spec.md
// §4.3 dispatches on.
type FillKind int

const (
	FillNone FillKind = iota
	FillSolid
	FillGradient
	FillPattern
	FillPicture
	FillGroup
)

// fillKind inspects node's p:spPr-level children and returns which of
// a:noFill/a:solidFill/a:gradFill/a:pattFill/a:blipFill/a:grpFill is
// present. Absence of all six is also FillNone.
func fillKind(node *XmlNode) FillKind {
	if node == nil {
		return FillNone
	}
	switch {
	case node.Child("noFill") != nil:
		return FillNone
	case node.Child("solidFill") != nil:
		return FillSolid
	case node.Child("gradFill") != nil:
		return FillGradient
	case node.Child("pattFill") != nil:
		return FillPattern
	case node.Child("blipFill") != nil:
		return FillPicture
	case node.Child("grpFill") != nil:
		return FillGroup
	}
	return FillNone
}

// GradientStop is one a:gs entry of a resolved gradient.
type GradientStop struct {
	Pos   string
	Color string
}

// GradientRec is the {rot, colors} record spec.md §4.3 describes.
type GradientRec struct {
	Rot    int
	Colors []GradientStop
}

// Fill is the tagged fill value attached to shapes and backgrounds.
type Fill struct {
	Type   string // "color" | "gradient" | "image" | "none"
	Color  string
	Grad   *GradientRec
	Image  string
	ImageW int // natural pixel width, 0 if undecodable (svg/emf/wmf)
	ImageH int
}

// resolveSolid delegates straight to C2's resolveColor over a
// a:solidFill (or bare color-bearing) node.
func resolveSolid(node *XmlNode, warp *WarpContext, clrMap map[string]string, phClr string) string {
	return resolveColor(node, warp, clrMap, phClr)
}

// resolveGradient implements spec.md §4.3's resolveGradient: each
// a:gsLst/a:gs stop resolves its own color via resolveSolid, stops sort
// ascending by numeric position, and rot is angleToDegrees(lin.ang)+90
// (default 90, i.e. no a:lin element at all).
func resolveGradient(gradFill *XmlNode, warp *WarpContext, clrMap map[string]string, phClr string) *GradientRec {
	rec := &GradientRec{Rot: 90}
	if gradFill == nil {
		return rec
	}
	if lin := gradFill.Child("lin"); lin != nil {
		rec.Rot = angleToDegrees(lin.AttrOr("ang", "")) + 90
	}
	gsLst := gradFill.Child("gsLst")
	if gsLst == nil {
		return rec
	}
	type posStop struct {
		pos   float64
		stop  GradientStop
	}
	var stops []posStop
	for _, gs := range gsLst.Children("gs") {
		posRaw, _ := parseFloatAttrOr(gs, "pos")
		color := resolveSolid(gs, warp, clrMap, phClr)
		stops = append(stops, posStop{
			pos:  posRaw,
			stop: GradientStop{Pos: fmt.Sprintf("%g%%", posRaw/gradPosDenom), Color: color},
		})
	}
	sort.Slice(stops, func(i, j int) bool { return stops[i].pos < stops[j].pos })
	for _, s := range stops {
		rec.Colors = append(rec.Colors, s.stop)
	}
	return rec
}

func parseFloatAttrOr(n *XmlNode, attr string) (float64, bool) {
	if _, ok := n.Attr(attr); !ok {
		return 0, false
	}
	return parseFloatAttr(n, attr), true
}

// imageFillKind selects which *ResObj map on warp a blip's r:embed
// should be looked up in, per spec.md §4.3.
type imageFillKind int

const (
	ImgSlide imageFillKind = iota
	ImgSlideBg
	ImgSlideLayoutBg
	ImgSlideMasterBg
	ImgThemeBg
	ImgDiagramBg
)

// resolveImageFill implements spec.md §4.3's resolveImageFill: reads
// a:blip's r:embed off node, resolves it through the ResObj map
// selected by kind, skips vector (.xml) targets, reads and
// base64-encodes the bytes, and memoizes the result in warp.ImageCache.
func resolveImageFill(kind imageFillKind, node *XmlNode, warp *WarpContext) string {
	out, _, _ := resolveImageFillDetailed(kind, node, warp)
	return out
}

// resolveImageFillDetailed is resolveImageFill plus the image's natural
// pixel dimensions (0,0 when the format has no ecosystem decoder, e.g.
// svg/emf/wmf), so a picture fill lacking an explicit a:srcRect can still
// report an aspect ratio.
func resolveImageFillDetailed(kind imageFillKind, node *XmlNode, warp *WarpContext) (string, int, int) {
	if node == nil || warp == nil {
		return "", 0, 0
	}
	blip := node.Child("blipFill")
	if blip == nil {
		blip = node
	}
	blipEl := blip.Child("blip")
	if blipEl == nil {
		return "", 0, 0
	}
	rID, ok := blipEl.Attr("r:embed")
	if !ok {
		return "", 0, 0
	}

	var resObj RelMap
	switch kind {
	case ImgSlide, ImgSlideBg:
		resObj = warp.SlideResObj
	case ImgSlideLayoutBg:
		resObj = warp.LayoutResObj
	case ImgSlideMasterBg:
		resObj = warp.MasterResObj
	case ImgThemeBg:
		resObj = warp.ThemeResObj
	case ImgDiagramBg:
		resObj = warp.DiagramResObj
	}
	rel, ok := resObj[rID]
	if !ok {
		return "", 0, 0
	}
	target := rel.Target
	if fileExt(target) == "xml" {
		return "", 0, 0
	}

	if cached, ok := warp.ImageCache[target]; ok {
		w, h := decodeImageDimensions(fileExt(target), nil)
		return cached, w, h
	}
	data, err := warp.Zip.read(target)
	if err != nil {
		return "", 0, 0
	}
	out := dataURL(mimeOfData(fileExt(target), data), data)
	warp.ImageCache[target] = out
	w, h := decodeImageDimensions(fileExt(target), data)
	return out, w, h
}

// decodeImageDimensions reads just the header of a raster image to get
// its natural pixel size, covering jpeg/png/gif via the standard library
// and bmp/tiff via golang.org/x/image (neither of which the stdlib image
// package can decode). svg/emf/wmf have no registered decoder and yield
// (0, 0); data == nil also yields (0, 0) (used for already-cached hits
// where re-decoding the bytes isn't worth doing).
func decodeImageDimensions(ext string, data []byte) (int, int) {
	if data == nil {
		return 0, 0
	}
	switch ext {
	case "jpg", "jpeg", "png", "gif", "bmp", "tif", "tiff":
		cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
		if err != nil {
			return 0, 0
		}
		return cfg.Width, cfg.Height
	default:
		return 0, 0
	}
}

// bgPrOrRef returns the first p:bgPr (for solid/gradient/picture) found
// by walking bg.Child("bgPr") or bg.Child("bgRef"), and which one it
// found, or nil/false if bg carries neither.
func bgPrOrRef(bg *XmlNode) (prOrRef *XmlNode, isRef bool) {
	if bg == nil {
		return nil, false
	}
	if pr := bg.Child("bgPr"); pr != nil {
		return pr, false
	}
	if ref := bg.Child("bgRef"); ref != nil {
		return ref, true
	}
	return nil, false
}

// resolveBgRef resolves a p:bgRef element against warp.Theme's fill
// style matrices, per spec.md §4.3's literal idx convention: idx
// 1001-1002 index fillStyleLst at position idx-1000; idx 1003+ index
// bgFillStyleLst at position idx-1002. The matched fill-style node is
// then tinted by the bgRef's own schemeClr before being treated as an
// ordinary solid/gradient/picture fill.
func resolveBgRef(ref *XmlNode, warp *WarpContext, clrMap map[string]string) Fill {
	if ref == nil || warp == nil || warp.Theme == nil {
		return Fill{Type: "color", Color: "#FFFFFF"}
	}
	idx := 0
	if v, ok := ref.Attr("idx"); ok {
		idx, _ = strconv.Atoi(v)
	}

	var styleNode *XmlNode
	switch {
	case idx >= 1001 && idx <= 1002:
		pos := idx - 1000
		if pos-1 >= 0 && pos-1 < len(warp.Theme.FillStyleLst) {
			styleNode = warp.Theme.FillStyleLst[pos-1]
		}
	case idx >= 1003:
		pos := idx - 1002
		if pos-1 >= 0 && pos-1 < len(warp.Theme.BgFillStyleLst) {
			styleNode = warp.Theme.BgFillStyleLst[pos-1]
		}
	}
	if styleNode == nil {
		return Fill{Type: "color", Color: "#FFFFFF"}
	}

	phClr := resolveColor(ref, warp, clrMap, "")
	return fillFromStyleNode(styleNode, warp, clrMap, phClr)
}

// fillFromStyleNode treats a fillStyleLst/bgFillStyleLst entry (itself
// one of solidFill/gradFill/blipFill/pattFill/noFill — parseTheme
// stores the fill elements directly as fillStyleLst's Kids, not a
// further container around them) as a fill, substituting phClr for any
// literal phClr color reference it contains.
func fillFromStyleNode(styleNode *XmlNode, warp *WarpContext, clrMap map[string]string, phClr string) Fill {
	if styleNode == nil {
		return Fill{Type: "color", Color: "#FFFFFF"}
	}
	switch styleNode.Name {
	case "solidFill":
		return Fill{Type: "color", Color: resolveSolid(styleNode, warp, clrMap, phClr)}
	case "gradFill":
		return Fill{Type: "gradient", Grad: resolveGradient(styleNode, warp, clrMap, phClr)}
	case "blipFill":
		img, w, h := resolveImageFillDetailed(ImgThemeBg, styleNode, warp)
		return Fill{Type: "image", Image: img, ImageW: w, ImageH: h}
	default:
		return Fill{Type: "color", Color: "#FFFFFF"}
	}
}

// resolveBackgroundFill implements spec.md §4.3's precedence chain:
// slide bgPr/bgRef, then layout, then master. Defaults to opaque white.
// clrMap is the slide▸layout▸master color map spec.md line 89 requires
// gradient/solid stop resolution to go through — the same map
// resolveClrMap(warp) computes for shape fills.
func resolveBackgroundFill(warp *WarpContext, clrMap map[string]string) Fill {
	chain := []*XmlNode{warp.SlideContent, warp.SlideLayoutContent, warp.SlideMasterContent}
	for _, content := range chain {
		bg := lookup(content, "cSld", "bg")
		prOrRef, isRef := bgPrOrRef(bg)
		if prOrRef == nil {
			continue
		}
		if isRef {
			return resolveBgRef(prOrRef, warp, clrMap)
		}
		switch fillKind(prOrRef) {
		case FillSolid:
			return Fill{Type: "color", Color: resolveSolid(prOrRef.Child("solidFill"), warp, clrMap, "")}
		case FillGradient:
			return Fill{Type: "gradient", Grad: resolveGradient(prOrRef.Child("gradFill"), warp, clrMap, "")}
		case FillPicture:
			img, w, h := resolveImageFillDetailed(ImgSlideBg, prOrRef, warp)
			return Fill{Type: "image", Image: img, ImageW: w, ImageH: h}
		case FillNone:
			continue
		}
	}
	return Fill{Type: "color", Color: "#FFFFFF"}
}

// resolveShapeFill implements spec.md §4.3's resolveShapeFill
// precedence: explicit noFill, then solidFill/srgbClr, then
// solidFill/schemeClr, then style/fillRef/schemeClr, applying any
// lumMod/lumOff pair directly under the winning scheme-color node with
// L' = L*lumMod + lumOff (default 1.0 / 0).
func resolveShapeFill(shapeNode *XmlNode, warp *WarpContext, clrMap map[string]string, phClr string) string {
	spPr := shapeNode.Child("spPr")
	if spPr != nil {
		if spPr.Child("noFill") != nil {
			return "none"
		}
		if solid := spPr.Child("solidFill"); solid != nil {
			if srgb := solid.Child("srgbClr"); srgb != nil {
				return decodeColorElement(srgb, warp, clrMap, phClr)
			}
			if scheme := solid.Child("schemeClr"); scheme != nil {
				return resolveSchemeWithLumPair(scheme, warp, clrMap, phClr)
			}
		}
	}
	style := shapeNode.Child("style")
	if style != nil {
		if fillRef := style.Child("fillRef"); fillRef != nil {
			if scheme := fillRef.Child("schemeClr"); scheme != nil {
				return resolveSchemeWithLumPair(scheme, warp, clrMap, phClr)
			}
		}
	}
	return ""
}

// resolveSchemeWithLumPair resolves a schemeClr node's base color, then
// reapplies lumMod/lumOff as a single combined L' = L*mod + off step
// rather than the two independent sequential steps decodeColorElement
// otherwise applies, matching spec.md §4.3's distinct formula for this
// one call site.
func resolveSchemeWithLumPair(scheme *XmlNode, warp *WarpContext, clrMap map[string]string, phClr string) string {
	base := resolveScheme(scheme.AttrOr("val", ""), warp, clrMap, phClr)
	if base == "" {
		return ""
	}
	lumMod := 1.0
	lumOff := 0.0
	if m := scheme.Child("lumMod"); m != nil {
		if v, ok := percentVal(m.AttrOr("val", "")); ok {
			lumMod = v
		}
	}
	if o := scheme.Child("lumOff"); o != nil {
		if v, ok := percentVal(o.AttrOr("val", "")); ok {
			lumOff = v
		}
	}
	if lumMod == 1.0 && lumOff == 0.0 {
		return "#" + base
	}
	r, g, b := hexToRGB(base)
	h, s, l := rgbToHSL(r, g, b)
	l = clamp01(l*lumMod + lumOff)
	r, g, b = hslToRGB(h, s, l)
	return "#" + rgbToHex(r, g, b)
}
