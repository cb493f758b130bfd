package pptxjson

import "strconv"

// ShadowDescriptor is the record the external shadow-descriptor builder
// returns per spec.md §6, adapted from style.go's Shadow type (Visible/
// Direction/Distance/Color/Alpha) to the shapes this pipeline resolves.
type ShadowDescriptor struct {
	Visible   bool
	Direction int // degrees, normalized 0-359
	Distance  float64 // points
	BlurRadius float64 // points
	Color     string
	Alpha     int // 0-100
}

// getShadow implements spec.md §6's external shadow helper over a
// p:effectLst/a:outerShdw node. A nil node yields an invisible shadow,
// the same zero-value convention style.go's NewShadow establishes.
func getShadow(outerShdw *XmlNode, warp *WarpContext, clrMap map[string]string, phClr string) ShadowDescriptor {
	if outerShdw == nil {
		return ShadowDescriptor{Visible: false, Color: "#000000", Alpha: 50}
	}

	dist := emuToPt(parseEMU(outerShdw.AttrOr("dist", "0")))
	dir := angleToDegrees(outerShdw.AttrOr("dir", "0"))
	dir = ((dir % 360) + 360) % 360
	blur := emuToPt(parseEMU(outerShdw.AttrOr("blurRad", "0")))

	color := "#000000"
	alpha := 100
	if c := findColorChild(outerShdw); c != nil {
		hex := decodeColorElement(c, warp, clrMap, phClr)
		if len(hex) >= 7 {
			color = hex[:7]
		}
		if len(hex) == 9 {
			if a, err := strconv.ParseInt(hex[7:9], 16, 64); err == nil {
				alpha = int(a*100) / 255
			}
		}
	}

	return ShadowDescriptor{
		Visible:    true,
		Direction:  dir,
		Distance:   dist,
		BlurRadius: blur,
		Color:      color,
		Alpha:      alpha,
	}
}
