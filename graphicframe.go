package pptxjson

import "strconv"

// graphicDataURIs are the a:graphicData.uri suffixes spec.md §4.9
// dispatches on.
const (
	uriTable   = "http://schemas.openxmlformats.org/drawingml/2006/table"
	uriChart   = "http://schemas.openxmlformats.org/drawingml/2006/chart"
	uriDiagram = "http://schemas.openxmlformats.org/drawingml/2006/diagram"
	uriOLE     = "http://schemas.openxmlformats.org/presentationml/2006/ole"
)

// buildGraphicFrame implements spec.md §4.9: routes a p:graphicFrame by
// its a:graphic/a:graphicData.uri to the table/chart/diagram builder, or
// to nothing for OLE (§9's documented "intentionally unimplemented").
func buildGraphicFrame(node *XmlNode, warp *WarpContext, layoutTables, masterTables *InheritTables) (*Element, error) {
	graphic := node.Child("graphic")
	if graphic == nil {
		return nil, nil
	}
	graphicData := graphic.Child("graphicData")
	if graphicData == nil {
		return nil, nil
	}
	uri := graphicData.AttrOr("uri", "")

	xfrm := node.Child("xfrm")
	rect := resolveXfrmChain(xfrm, nil, nil)
	name := ""
	if nv := node.Child("nvGraphicFramePr"); nv != nil {
		name = shapeName(nv)
	}

	switch uri {
	case uriTable:
		tbl := graphicData.Child("tbl")
		if tbl == nil {
			return nil, nil
		}
		el := buildTable(tbl, warp)
		el.Left, el.Top, el.Width, el.Height = rect.Left, rect.Top, rect.Width, rect.Height
		el.Name = name
		return &el, nil
	case uriChart:
		el, err := buildChart(graphicData, warp)
		if err != nil {
			return nil, err
		}
		if el == nil {
			return nil, nil
		}
		el.Left, el.Top, el.Width, el.Height = rect.Left, rect.Top, rect.Width, rect.Height
		el.Name = name
		return el, nil
	case uriDiagram:
		el := buildDiagram(warp, layoutTables, masterTables)
		el.Left, el.Top, el.Width, el.Height = rect.Left, rect.Top, rect.Width, rect.Height
		el.Name = name
		return &el, nil
	case uriOLE:
		return nil, nil
	}
	return nil, nil
}

// buildTable implements the table branch of spec.md §4.9: a row-major
// matrix from a:tr/a:tc, gridSpan/rowSpan merges, hMerge/vMerge
// continuation flags, and per-cell style resolved from the table-style
// registry by position (first/last row/col, banding, corners).
func buildTable(tbl *XmlNode, warp *WarpContext) Element {
	tblPr := tbl.Child("tblPr")
	firstRowOn := tblPr != nil && tblPr.AttrOr("firstRow", "0") == "1"
	lastRowOn := tblPr != nil && tblPr.AttrOr("lastRow", "0") == "1"
	firstColOn := tblPr != nil && tblPr.AttrOr("firstCol", "0") == "1"
	lastColOn := tblPr != nil && tblPr.AttrOr("lastCol", "0") == "1"
	bandRowOn := tblPr != nil && tblPr.AttrOr("bandRow", "0") == "1"
	bandColOn := tblPr != nil && tblPr.AttrOr("bandCol", "0") == "1"

	var styleEntry *XmlNode
	if tblPr != nil {
		if styleIDNode := tblPr.Child("tableStyleId"); styleIDNode != nil {
			styleEntry = lookupTableStyle(warp, styleIDNode.CharData)
		}
	}

	clrMap := resolveClrMap(warp)

	rows := tbl.Children("tr")
	rowCount := len(rows)
	var grid [][]TableCell
	var rowHeights []float64

	for ri, tr := range rows {
		rowHeights = append(rowHeights, getRowParams(tr))
		var row []TableCell
		col := 0
		for _, tc := range tr.Children("tc") {
			gridSpan := 1
			if v, ok := tc.Attr("gridSpan"); ok {
				gridSpan = atoiOr(v, 1)
			}
			rowSpan := 1
			if v, ok := tc.Attr("rowSpan"); ok {
				rowSpan = atoiOr(v, 1)
			}
			hMerge := tc.AttrOr("hMerge", "0") == "1"
			vMerge := tc.AttrOr("vMerge", "0") == "1"

			cell := TableCell{
				Text:    extractCellText(tc),
				ColSpan: gridSpan,
				RowSpan: rowSpan,
				HMerge:  hMerge,
				VMerge:  vMerge,
			}
			if cell.ColSpan <= 1 {
				cell.ColSpan = 0
			}
			if cell.RowSpan <= 1 {
				cell.RowSpan = 0
			}

			colCount := countColumns(rows)
			params := cellParamsFor(ri, col, rowCount, colCount, firstRowOn, lastRowOn, firstColOn, lastColOn, bandRowOn, bandColOn)
			slot := getTableStyleSlot(styleEntry, params)
			style := getCellParams(tc, slot, warp, clrMap)
			cell.FillColor = style.FillColor
			cell.FontColor = style.FontColor
			cell.FontBold = style.Bold
			cell.BorderColor = style.BorderColor

			row = append(row, cell)
			col += gridSpan
		}
		grid = append(grid, row)
	}

	return Element{Type: "table", Data: grid, RowHeights: rowHeights}
}

func countColumns(rows []*XmlNode) int {
	max := 0
	for _, tr := range rows {
		n := 0
		for _, tc := range tr.Children("tc") {
			span := 1
			if v, ok := tc.Attr("gridSpan"); ok {
				span = atoiOr(v, 1)
			}
			n += span
		}
		if n > max {
			max = n
		}
	}
	return max
}

func atoiOr(s string, def int) int {
	n, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return n
}

func extractCellText(tc *XmlNode) string {
	txBody := tc.Child("txBody")
	if txBody == nil {
		return ""
	}
	var out string
	for _, p := range txBody.Children("p") {
		for _, r := range p.Children("r") {
			if t := r.Child("t"); t != nil {
				out += t.CharData
			}
		}
	}
	return out
}

// lookupTableStyle finds the a:tblStyle entry in warp.TableStyles
// matching styleId.
func lookupTableStyle(warp *WarpContext, styleID string) *XmlNode {
	if warp == nil || warp.TableStyles == nil || styleID == "" {
		return nil
	}
	for _, style := range warp.TableStyles.Children("tblStyle") {
		if style.AttrOr("styleId", "") == styleID {
			return style
		}
	}
	return nil
}

// buildChart implements the chart branch: loads the chart part via
// c:chart.r:id in the slide ResObj, walks to c:chartSpace/c:chart/
// c:plotArea, and delegates to getChartInfo.
func buildChart(graphicData *XmlNode, warp *WarpContext) (*Element, error) {
	chartRef := graphicData.Child("chart")
	if chartRef == nil {
		return nil, nil
	}
	rID, ok := chartRef.Attr("r:id")
	if !ok {
		return nil, nil
	}
	rel, ok := warp.SlideResObj[rID]
	if !ok {
		return nil, nil // reference-dangling: no element emitted for this frame.
	}
	chartTree, err := warp.Zip.readXML(rel.Target)
	if err != nil {
		return nil, err // part-unreadable propagates per spec.md §7.
	}
	plotArea := lookup(chartTree, "chart", "plotArea")
	info := getChartInfo(plotArea)
	if info == nil {
		return nil, nil
	}
	return &Element{
		Type:      "chart",
		ChartType: info.Type,
		ChartData: info.Data,
		Marker:    info.Marker,
		BarDir:    info.BarDir,
		HoleSize:  info.HoleSize,
		Grouping:  info.Grouping,
		Style:     info.Style,
	}, nil
}

// buildDiagram implements the diagram branch: iterates the p:spTree
// under warp.DiagramContent (the diagram's p:drawing root) through the
// shape handler
// with source "diagramBg", wrapping the results in a diagram element.
func buildDiagram(warp *WarpContext, layoutTables, masterTables *InheritTables) Element {
	el := Element{Type: "diagram"}
	if warp.DiagramContent == nil {
		return el
	}
	spTree := lookup(warp.DiagramContent, "spTree")
	if spTree == nil {
		return el
	}
	el.Elements = dispatchChildren(spTree, "diagramBg", warp, layoutTables, masterTables)
	return el
}
