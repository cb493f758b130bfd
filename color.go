package pptxjson

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// colorChildNames lists the six mutually-exclusive color element kinds in
// the order spec.md §4.2 enumerates them for base-color decoding.
var colorChildNames = []string{"srgbClr", "schemeClr", "scrgbClr", "prstClr", "hslClr", "sysClr"}

// modulationOrder is the fixed, non-commutative order spec.md §4.2 step 3
// requires: hueMod, lumMod, lumOff, satMod, shade, tint.
var modulationOrder = []string{"hueMod", "lumMod", "lumOff", "satMod", "shade", "tint"}

// findColorChild returns the first color-kind child element of parent, or
// nil if none of the six kinds is present.
func findColorChild(parent *XmlNode) *XmlNode {
	if parent == nil {
		return nil
	}
	for _, name := range colorChildNames {
		if c := parent.Child(name); c != nil {
			return c
		}
	}
	return nil
}

// resolveColor decodes whichever color-kind child of parent is present
// into "#RRGGBB" / "#RRGGBBAA", or "" if parent has no color child.
// clrMap/phClr are threaded through to resolveScheme for scheme-color and
// placeholder-color resolution.
func resolveColor(parent *XmlNode, warp *WarpContext, clrMap map[string]string, phClr string) string {
	c := findColorChild(parent)
	if c == nil {
		return ""
	}
	return decodeColorElement(c, warp, clrMap, phClr)
}

// decodeColorElement implements spec.md §4.2 in full: base color, alpha,
// then the fixed hueMod/lumMod/lumOff/satMod/shade/tint modulation chain.
func decodeColorElement(c *XmlNode, warp *WarpContext, clrMap map[string]string, phClr string) string {
	if c == nil {
		return ""
	}

	var hex string // 6 uppercase hex digits, no '#'
	switch c.Name {
	case "srgbClr":
		hex = strings.ToUpper(c.AttrOr("val", ""))
	case "schemeClr":
		val := c.AttrOr("val", "")
		if phClr != "" && val == "phClr" {
			return phClr
		}
		hex = resolveScheme(val, warp, clrMap, phClr)
	case "scrgbClr":
		r := parsePercentAttr(c, "r")
		g := parsePercentAttr(c, "g")
		b := parsePercentAttr(c, "b")
		hex = rgbToHex(r, g, b)
	case "prstClr":
		hex = presetColorHex(c.AttrOr("val", ""))
	case "hslClr":
		hue := parseFloatAttr(c, "hue") / 100000.0 // 1/100000 of a degree
		sat, _ := percentVal(c.AttrOr("sat", ""))
		lum, _ := percentVal(c.AttrOr("lum", ""))
		r, g, b := hslToRGB(math.Mod(hue, 360)/360.0, clamp01(sat), clamp01(lum))
		hex = rgbToHex(r, g, b)
	case "sysClr":
		hex = strings.ToUpper(c.AttrOr("lastClr", ""))
	}
	if hex == "" {
		return ""
	}
	if len(hex) != 6 {
		return ""
	}

	result := "#" + hex
	isAlpha := false
	if a := c.Child("alpha"); a != nil {
		if v, ok := percentVal(a.AttrOr("val", "")); ok {
			isAlpha = true
			result += hexUpper(hexByte(int(math.Round(clamp01(v) * 255))))
		}
	}

	for _, kind := range modulationOrder {
		m := c.Child(kind)
		if m == nil {
			continue
		}
		v, ok := percentVal(m.AttrOr("val", ""))
		if !ok {
			continue
		}
		result = applyModulation(result, kind, v, isAlpha)
	}

	if !strings.HasPrefix(result, "#") {
		result = "#" + result
	}
	return result
}

func hexUpper(s string) string { return strings.ToUpper(s) }

func parsePercentAttr(n *XmlNode, attr string) float64 {
	v, ok := percentVal(n.AttrOr(attr, ""))
	if !ok {
		return 0
	}
	return clamp01(v)
}

func parseFloatAttr(n *XmlNode, attr string) float64 {
	s, ok := n.Attr(attr)
	if !ok {
		return 0
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return f
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// resolveScheme resolves a scheme-color slot name (e.g. "bg1") through the
// active color map into a theme clrScheme slot (e.g. "lt1"), then indexes
// the theme. A non-empty phClr whose resolved reference is the literal
// "phClr" is returned verbatim, per spec.md §4.2's placeholder-text-color
// inheritance rule (handled by the caller before this is reached for the
// common case; repeated here for direct callers of resolveScheme).
func resolveScheme(name string, warp *WarpContext, clrMap map[string]string, phClr string) string {
	if name == "" || warp == nil || warp.Theme == nil {
		return ""
	}
	if phClr != "" && name == "phClr" {
		return phClr
	}
	slot := name
	if clrMap != nil {
		if mapped, ok := clrMap[name]; ok {
			slot = mapped
		}
	}
	return warp.Theme.ClrScheme[slot]
}

// applyModulation applies one step of the HSL modulation chain to a
// "#RRGGBB" or "#RRGGBBAA" color string and re-encodes it, preserving the
// alpha byte when isAlpha is set.
func applyModulation(color string, kind string, v float64, isAlpha bool) string {
	hex := strings.TrimPrefix(color, "#")
	var alphaHex string
	if isAlpha && len(hex) >= 8 {
		alphaHex = hex[6:8]
		hex = hex[:6]
	}
	r, g, b := hexToRGB(hex)
	h, s, l := rgbToHSL(r, g, b)

	switch kind {
	case "hueMod":
		h = math.Mod(h*v, 1.0)
		if h < 0 {
			h += 1.0
		}
	case "lumMod":
		l = clamp01(l * v)
	case "lumOff":
		l = clamp01(l + v)
	case "satMod":
		s = clamp01(s * v)
	case "shade":
		l = clamp01(l * v)
	case "tint":
		l = clamp01(l + (1-l)*v)
	}

	r, g, b = hslToRGB(h, s, l)
	out := "#" + rgbToHex(r, g, b)
	if isAlpha {
		out += alphaHex
	}
	return out
}

func hexToRGB(hex string) (r, g, b float64) {
	if len(hex) != 6 {
		return 0, 0, 0
	}
	iv, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return 0, 0, 0
	}
	r = float64((iv>>16)&0xFF) / 255.0
	g = float64((iv>>8)&0xFF) / 255.0
	b = float64(iv&0xFF) / 255.0
	return
}

// rgbToHex expects r,g,b in 0..1 and returns 6 uppercase hex digits.
func rgbToHex(r, g, b float64) string {
	ri := int(math.Round(clamp01(r) * 255))
	gi := int(math.Round(clamp01(g) * 255))
	bi := int(math.Round(clamp01(b) * 255))
	return strings.ToUpper(fmt.Sprintf("%02x%02x%02x", ri, gi, bi))
}

// rgbToHSL converts 0..1 RGB to h,s,l each in 0..1 (h is a fraction of a
// full turn, not degrees).
func rgbToHSL(r, g, b float64) (h, s, l float64) {
	max := math.Max(r, math.Max(g, b))
	min := math.Min(r, math.Min(g, b))
	l = (max + min) / 2

	d := max - min
	if d == 0 {
		return 0, 0, l
	}

	if l > 0.5 {
		s = d / (2 - max - min)
	} else {
		s = d / (max + min)
	}

	switch max {
	case r:
		h = math.Mod((g-b)/d, 6)
	case g:
		h = (b-r)/d + 2
	default:
		h = (r-g)/d + 4
	}
	h /= 6
	if h < 0 {
		h += 1
	}
	return h, s, l
}

// hslToRGB converts h,s,l (each 0..1, h a fraction of a turn) to 0..1 RGB.
func hslToRGB(h, s, l float64) (r, g, b float64) {
	if s == 0 {
		return l, l, l
	}
	var q float64
	if l < 0.5 {
		q = l * (1 + s)
	} else {
		q = l + s - l*s
	}
	p := 2*l - q
	r = hueToRGB(p, q, h+1.0/3.0)
	g = hueToRGB(p, q, h)
	b = hueToRGB(p, q, h-1.0/3.0)
	return
}

func hueToRGB(p, q, t float64) float64 {
	if t < 0 {
		t += 1
	}
	if t > 1 {
		t -= 1
	}
	switch {
	case t < 1.0/6.0:
		return p + (q-p)*6*t
	case t < 1.0/2.0:
		return q
	case t < 2.0/3.0:
		return p + (q-p)*(2.0/3.0-t)*6
	default:
		return p
	}
}

// presetColorHex maps the OOXML ST_PresetColorVal name table (ECMA-376
// part 1, §20.1.10.48) to 6-digit hex. This is the closed preset-color set
// referenced by spec.md §4.2 step 1; only the commonly produced subset is
// listed, matching the density of similar closed tables in the teacher.
var presetColorTable = map[string]string{
	"black": "000000", "white": "FFFFFF", "red": "FF0000", "green": "008000",
	"blue": "0000FF", "yellow": "FFFF00", "cyan": "00FFFF", "magenta": "FF00FF",
	"gray": "808080", "grey": "808080", "darkGray": "A9A9A9", "darkGrey": "A9A9A9",
	"lightGray": "D3D3D3", "lightGrey": "D3D3D3", "silver": "C0C0C0",
	"maroon": "800000", "olive": "808000", "purple": "800080", "teal": "008080",
	"navy": "000080", "orange": "FFA500", "brown": "A52A2A", "pink": "FFC0CB",
	"gold": "FFD700", "indigo": "4B0082", "violet": "EE82EE", "coral": "FF7F50",
	"salmon": "FA8072", "khaki": "F0E68C", "lavender": "E6E6FA", "plum": "DDA0DD",
	"tan": "D2B48C", "turquoise": "40E0D0", "orchid": "DA70D6", "crimson": "DC143C",
	"chocolate": "D2691E", "tomato": "FF6347", "skyBlue": "87CEEB", "steelBlue": "4682B4",
	"royalBlue": "4169E1", "forestGreen": "228B22", "seaGreen": "2E8B57",
	"lightBlue": "ADD8E6", "lightGreen": "90EE90", "lightYellow": "FFFFE0",
	"darkRed": "8B0000", "darkGreen": "006400", "darkBlue": "00008B",
	"darkOrange": "FF8C00", "darkViolet": "9400D3", "hotPink": "FF69B4",
	"deepPink": "FF1493", "dodgerBlue": "1E90FF", "beige": "F5F5DC",
	"ivory": "FFFFF0", "aquamarine": "7FFFD4", "chartreuse": "7FFF00",
}

func presetColorHex(name string) string {
	if hex, ok := presetColorTable[name]; ok {
		return strings.ToUpper(hex)
	}
	return ""
}

// applyLumMod multiplies a Color's HSL luminance channel by fraction,
// preserving alpha. Exposed standalone (in addition to applyModulation)
// because the teacher's reader_slide.go calls an applyLumMod of this exact
// shape at its schemeClr/srgbClr sites; no body for it exists anywhere in
// the retrieved copy (see DESIGN.md), so this is the real implementation
// matching that call shape, usable directly against a "#RRGGBB[AA]" string.
func applyLumMod(color *string, fraction float64) {
	*color = applyModulation(*color, "lumMod", fraction, len(strings.TrimPrefix(*color, "#")) > 6)
}

// applyLumOff adds fraction to a Color's HSL luminance channel.
func applyLumOff(color *string, fraction float64) {
	*color = applyModulation(*color, "lumOff", fraction, len(strings.TrimPrefix(*color, "#")) > 6)
}

// applyTint blends a Color toward white by fraction.
func applyTint(color *string, fraction float64) {
	*color = applyModulation(*color, "tint", fraction, len(strings.TrimPrefix(*color, "#")) > 6)
}

// applyShade blends a Color toward black by fraction.
func applyShade(color *string, fraction float64) {
	*color = applyModulation(*color, "shade", fraction, len(strings.TrimPrefix(*color, "#")) > 6)
}
