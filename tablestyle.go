package pptxjson

// TableCellStyle is the resolved per-cell appearance produced by the
// table-style helpers: fill color plus the border/font pieces a table
// style slot can override.
type TableCellStyle struct {
	FillColor   string
	BorderColor string
	FontColor   string
	Bold        bool
}

// CellParams is the position-flag bundle spec.md §4.9 lists for slot
// selection: first/last row/col, band row/col, and which of the four
// corners this cell sits in.
type CellParams struct {
	Row, Col         int
	RowCount, ColCount int
	FirstRow, LastRow bool
	FirstCol, LastCol bool
	BandRow, BandCol  bool
	// bandRowIdx/bandColIdx number rows/cols from the first one a
	// firstRow/firstCol override does not claim; banding parity uses them.
	bandRowIdx, bandColIdx int
}

// cellParamsFor builds a CellParams for (row, col) in a rowCount x
// colCount grid, given the table's firstRow/lastRow/firstCol/lastCol/
// bandRow/bandCol override toggles read from a:tblPr.
func cellParamsFor(row, col, rowCount, colCount int, firstRowOn, lastRowOn, firstColOn, lastColOn, bandRowOn, bandColOn bool) CellParams {
	p := CellParams{
		Row: row, Col: col, RowCount: rowCount, ColCount: colCount,
		FirstRow: firstRowOn && row == 0,
		LastRow:  lastRowOn && row == rowCount-1,
		FirstCol: firstColOn && col == 0,
		LastCol:  lastColOn && col == colCount-1,
		BandRow:  bandRowOn,
		BandCol:  bandColOn,
	}
	p.bandRowIdx, p.bandColIdx = row, col
	if firstRowOn {
		p.bandRowIdx--
	}
	if firstColOn {
		p.bandColIdx--
	}
	return p
}

// getTableStyleSlot selects which named child of a ppt/tableStyles.xml
// entry applies to a given cell, per spec.md §4.9's precedence: the four
// corner slots first (when both adjoining edges apply), then first/last
// row/col, then banding (counted from the first row/column a firstRow/
// firstCol override does not claim: that one takes band1H/band1V, the
// next band2H/band2V, and so on alternately), then wholeTbl as the
// fallback.
func getTableStyleSlot(styleEntry *XmlNode, p CellParams) *XmlNode {
	if styleEntry == nil {
		return nil
	}
	corner := func(name string) *XmlNode { return styleEntry.Child(name) }

	switch {
	case p.FirstRow && p.FirstCol:
		if n := corner("nwCell"); n != nil {
			return n
		}
	case p.FirstRow && p.LastCol:
		if n := corner("neCell"); n != nil {
			return n
		}
	case p.LastRow && p.FirstCol:
		if n := corner("swCell"); n != nil {
			return n
		}
	case p.LastRow && p.LastCol:
		if n := corner("seCell"); n != nil {
			return n
		}
	}

	if p.FirstRow {
		if n := styleEntry.Child("firstRow"); n != nil {
			return n
		}
	}
	if p.LastRow {
		if n := styleEntry.Child("lastRow"); n != nil {
			return n
		}
	}
	if p.FirstCol {
		if n := styleEntry.Child("firstCol"); n != nil {
			return n
		}
	}
	if p.LastCol {
		if n := styleEntry.Child("lastCol"); n != nil {
			return n
		}
	}

	if p.BandRow && !p.FirstRow && !p.LastRow {
		if p.bandRowIdx%2 == 1 {
			if n := styleEntry.Child("band2H"); n != nil {
				return n
			}
		} else {
			if n := styleEntry.Child("band1H"); n != nil {
				return n
			}
		}
	}
	if p.BandCol && !p.FirstCol && !p.LastCol {
		if p.bandColIdx%2 == 1 {
			if n := styleEntry.Child("band2V"); n != nil {
				return n
			}
		} else {
			if n := styleEntry.Child("band1V"); n != nil {
				return n
			}
		}
	}

	return styleEntry.Child("wholeTbl")
}

// getTableBorders resolves the border descriptors a table-style slot's
// a:tcBdr carries (top/bottom/left/right), delegating each edge to the
// shared border helper.
func getTableBorders(slot *XmlNode, warp *WarpContext, clrMap map[string]string) map[string]BorderDescriptor {
	out := map[string]BorderDescriptor{}
	if slot == nil {
		return out
	}
	tcStyle := slot.Child("tcStyle")
	if tcStyle == nil {
		return out
	}
	tcBdr := tcStyle.Child("tcBdr")
	if tcBdr == nil {
		return out
	}
	for _, edge := range []string{"left", "right", "top", "bottom"} {
		if e := tcBdr.Child(edge); e != nil {
			out[edge] = resolveLineProps(e, warp, clrMap, "")
		}
	}
	return out
}

// getRowParams reads a:tr's own height (h, EMU) for row-level layout.
func getRowParams(tr *XmlNode) (heightPt float64) {
	if tr == nil {
		return 0
	}
	return emuToPt(parseEMU(tr.AttrOr("h", "0")))
}

// getCellParams resolves one a:tc's style via its table's selected
// style entry and this cell's CellParams; the cell's own a:tcPr
// solidFill, when present, overrides the slot's fill, since spec.md
// §4.3's shape-fill precedence (explicit formatting wins over inherited
// style) applies here too. Borders come from the slot only; a:tcPr
// borders are not read. Font color/bold come from the
// style slot's a:tcTxStyle first, then the cell's own run formatting
// (the first run of the cell's own text body), matching the same
// inherited-then-direct precedence as fill.
func getCellParams(tc *XmlNode, slot *XmlNode, warp *WarpContext, clrMap map[string]string) TableCellStyle {
	style := TableCellStyle{FillColor: "", FontColor: "", BorderColor: ""}
	if slot != nil {
		if fill := slot.Child("tcStyle"); fill != nil {
			if solid := fill.Child("fill"); solid != nil {
				style.FillColor = resolveSolid(solid.Child("solidFill"), warp, clrMap, "")
			}
			if edges := getTableBorders(slot, warp, clrMap); len(edges) > 0 {
				if bd, ok := firstBorderEdge(edges); ok {
					style.BorderColor = bd.BorderColor
				}
			}
		}
		if txStyle := slot.Child("tcTxStyle"); txStyle != nil {
			if c := resolveColor(txStyle, warp, clrMap, ""); c != "" {
				style.FontColor = c
			}
			style.Bold = onOffAttr(txStyle.AttrOr("b", ""))
		}
	}
	if tcPr := tc.Child("tcPr"); tcPr != nil {
		if c := resolveSolid(tcPr.Child("solidFill"), warp, clrMap, ""); c != "" {
			style.FillColor = c
		}
	}
	if fc, bold, ok := cellRunFormatting(tc, warp, clrMap); ok {
		if fc != "" {
			style.FontColor = fc
		}
		if bold {
			style.Bold = true
		}
	}
	return style
}

// firstBorderEdge picks one representative edge (top, then left, then
// bottom, then right) out of getTableBorders' per-edge map, since
// TableCell (record.go) carries a single BorderColor, not one per side.
func firstBorderEdge(edges map[string]BorderDescriptor) (BorderDescriptor, bool) {
	for _, edge := range []string{"top", "left", "bottom", "right"} {
		if bd, ok := edges[edge]; ok && bd.BorderType != "none" {
			return bd, true
		}
	}
	return BorderDescriptor{}, false
}

// onOffAttr parses ST_OnOffStyleType ("on"/"off"/"def") as well as the
// plain boolean "1"/"0" some producers emit for a:tcTxStyle's b/i
// attributes.
func onOffAttr(v string) bool {
	switch v {
	case "on", "1", "true":
		return true
	default:
		return false
	}
}

// cellRunFormatting reads the first run's rPr of a cell's own text body
// as the most-specific font color/bold override, mirroring renderRun's
// direct-formatting read for shape text.
func cellRunFormatting(tc *XmlNode, warp *WarpContext, clrMap map[string]string) (color string, bold bool, ok bool) {
	txBody := tc.Child("txBody")
	if txBody == nil {
		return "", false, false
	}
	for _, p := range txBody.Children("p") {
		for _, r := range p.Children("r") {
			rPr := r.Child("rPr")
			if rPr == nil {
				continue
			}
			if c := resolveColor(rPr.Child("solidFill"), warp, clrMap, ""); c != "" {
				color = c
			}
			if rPr.AttrOr("b", "0") == "1" {
				bold = true
			}
			return color, bold, true
		}
	}
	return "", false, false
}
