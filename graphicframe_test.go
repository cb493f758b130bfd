package pptxjson

import "testing"

func TestAtoiOr(t *testing.T) {
	if got := atoiOr("3", 1); got != 3 {
		t.Fatalf("got %d, want 3", got)
	}
	if got := atoiOr("not-a-number", 7); got != 7 {
		t.Fatalf("got %d, want the fallback 7", got)
	}
}

func TestExtractCellText(t *testing.T) {
	t1 := node("t", nil)
	t1.CharData = "hello "
	t2 := node("t", nil)
	t2.CharData = "world"
	tc := node("tc", nil, node("txBody", nil,
		node("p", nil, node("r", nil, t1), node("r", nil, t2)),
	))
	if got := extractCellText(tc); got != "hello world" {
		t.Fatalf("got %q, want concatenated run text", got)
	}
}

func TestExtractCellTextNoTxBody(t *testing.T) {
	tc := node("tc", nil)
	if got := extractCellText(tc); got != "" {
		t.Fatalf("got %q, want empty for a cell with no txBody", got)
	}
}

func TestCountColumns(t *testing.T) {
	rows := []*XmlNode{
		node("tr", nil, node("tc", nil), node("tc", map[string]string{"gridSpan": "2"}), node("tc", nil)),
		node("tr", nil, node("tc", nil), node("tc", nil)),
	}
	if got := countColumns(rows); got != 4 {
		t.Fatalf("got %d columns, want 4 (row 0 spans 1+2+1)", got)
	}
}

func TestLookupTableStyleFindsByID(t *testing.T) {
	styles := node("tblStyleLst", nil,
		node("tblStyle", map[string]string{"styleId": "{AAA}"}),
		node("tblStyle", map[string]string{"styleId": "{BBB}"}),
	)
	warp := &WarpContext{TableStyles: styles}
	got := lookupTableStyle(warp, "{BBB}")
	if got == nil || got.AttrOr("styleId", "") != "{BBB}" {
		t.Fatalf("got %v, want the {BBB} entry", got)
	}
}

func TestLookupTableStyleMissing(t *testing.T) {
	warp := &WarpContext{TableStyles: nil}
	if got := lookupTableStyle(warp, "{AAA}"); got != nil {
		t.Fatalf("got %v, want nil with no TableStyles part", got)
	}
}

// buildSimpleTable returns an a:tbl with one a:tr per cellText row and
// one plain text cell per entry, and no tblPr styling, for tests that
// only care about the grid shape.
func buildSimpleTable(cellText [][]string) *XmlNode {
	var rows []*XmlNode
	for _, r := range cellText {
		var tcs []*XmlNode
		for _, text := range r {
			tNode := node("t", nil)
			tNode.CharData = text
			tcs = append(tcs, node("tc", nil, node("txBody", nil, node("p", nil, node("r", nil, tNode)))))
		}
		kids := make([]*XmlNode, len(tcs))
		copy(kids, tcs)
		rows = append(rows, node("tr", map[string]string{"h": "914400"}, kids...))
	}
	trKids := make([]*XmlNode, 0, len(rows)+1)
	trKids = append(trKids, node("tblPr", nil))
	trKids = append(trKids, rows...)
	return node("tbl", nil, trKids...)
}

func TestBuildTableGridShapeAndRowHeights(t *testing.T) {
	tbl := buildSimpleTable([][]string{{"a", "b"}, {"c", "d"}})
	warp := &WarpContext{}
	el := buildTable(tbl, warp)

	if el.Type != "table" {
		t.Fatalf("got type %q, want table", el.Type)
	}
	if len(el.Data) != 2 || len(el.Data[0]) != 2 {
		t.Fatalf("got grid %v, want a 2x2 grid", el.Data)
	}
	if el.Data[0][0].Text != "a" || el.Data[1][1].Text != "d" {
		t.Fatalf("got grid %v, want cell text preserved in row/col order", el.Data)
	}
	if len(el.RowHeights) != 2 || el.RowHeights[0] == 0 {
		t.Fatalf("got row heights %v, want two non-zero heights from a:tr.h", el.RowHeights)
	}
}

func TestBuildTableMergeFlags(t *testing.T) {
	tc1 := node("tc", map[string]string{"gridSpan": "2"}, node("txBody", nil))
	tc2 := node("tc", map[string]string{"hMerge": "1"}, node("txBody", nil))
	tr := node("tr", nil, tc1, tc2)
	tbl := node("tbl", nil, node("tblPr", nil), tr)

	el := buildTable(tbl, &WarpContext{})
	row := el.Data[0]
	if row[0].ColSpan != 2 {
		t.Fatalf("got colspan %d, want 2", row[0].ColSpan)
	}
	if !row[1].HMerge {
		t.Fatalf("got HMerge=false, want true for the hMerge continuation cell")
	}
}

// TestBuildTableFirstRowStyling covers spec.md §8 scenario 6: a table
// with firstRow styling plus banding resolves the header row via the
// firstRow slot instead of the alternating band slots.
func TestBuildTableFirstRowStyling(t *testing.T) {
	firstRow := node("firstRow", nil,
		node("tcStyle", nil, node("fill", nil, node("solidFill", nil, node("srgbClr", map[string]string{"val": "FF0000"})))),
		node("tcTxStyle", map[string]string{"b": "on"}),
	)
	band2H := node("band2H", nil,
		node("tcStyle", nil, node("fill", nil, node("solidFill", nil, node("srgbClr", map[string]string{"val": "00FF00"})))),
	)
	styleEntry := node("tblStyle", map[string]string{"styleId": "{S}"}, firstRow, band2H)
	styles := node("tblStyleLst", nil, styleEntry)

	tbl := buildSimpleTable([][]string{{"head"}, {"row1"}, {"row2"}})
	tbl.Kids[0] = node("tblPr", map[string]string{"firstRow": "1", "bandRow": "1"}, node("tableStyleId", nil))
	tbl.Kids[0].Kids[0].CharData = "{S}"

	warp := &WarpContext{TableStyles: styles}
	el := buildTable(tbl, warp)

	if el.Data[0][0].FillColor != "#FF0000" {
		t.Fatalf("got header fill %q, want #FF0000 from the firstRow slot", el.Data[0][0].FillColor)
	}
	if !el.Data[0][0].FontBold {
		t.Fatalf("expected the header cell to be bold via the firstRow tcTxStyle")
	}
	if el.Data[1][0].FillColor != "" {
		t.Fatalf("got row1 fill %q, want none: the first banded row takes band1H, which this style lacks", el.Data[1][0].FillColor)
	}
	if el.Data[2][0].FillColor != "#00FF00" {
		t.Fatalf("got row2 fill %q, want #00FF00 from band2H", el.Data[2][0].FillColor)
	}
}

func TestBuildGraphicFrameTableRoute(t *testing.T) {
	tbl := buildSimpleTable([][]string{{"x"}})
	graphicData := node("graphicData", map[string]string{"uri": uriTable}, tbl)
	graphic := node("graphic", nil, graphicData)
	xfrm := node("xfrm", nil,
		node("off", map[string]string{"x": "914400", "y": "0"}),
		node("ext", map[string]string{"cx": "914400", "cy": "914400"}),
	)
	gf := node("graphicFrame", nil, node("nvGraphicFramePr", nil, node("cNvPr", map[string]string{"name": "Table 1"})), xfrm, graphic)

	el, err := buildGraphicFrame(gf, &WarpContext{}, nil, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if el == nil || el.Type != "table" {
		t.Fatalf("got %v, want a table element", el)
	}
	if el.Name != "Table 1" {
		t.Fatalf("got name %q, want Table 1", el.Name)
	}
}

func TestBuildGraphicFrameOLEIsUnimplemented(t *testing.T) {
	graphicData := node("graphicData", map[string]string{"uri": uriOLE})
	graphic := node("graphic", nil, graphicData)
	gf := node("graphicFrame", nil, graphic)

	el, err := buildGraphicFrame(gf, &WarpContext{}, nil, nil)
	if err != nil || el != nil {
		t.Fatalf("got el=%v err=%v, want (nil, nil) for the unimplemented OLE branch", el, err)
	}
}

func TestBuildGraphicFrameNoGraphicData(t *testing.T) {
	gf := node("graphicFrame", nil, node("graphic", nil))
	el, err := buildGraphicFrame(gf, &WarpContext{}, nil, nil)
	if err != nil || el != nil {
		t.Fatalf("got el=%v err=%v, want (nil, nil) with no graphicData", el, err)
	}
}

func TestBuildChartDanglingReference(t *testing.T) {
	chartRef := node("chart", map[string]string{"r:id": "rIdMissing"})
	graphicData := node("graphicData", map[string]string{"uri": uriChart}, chartRef)
	warp := &WarpContext{SlideResObj: RelMap{}}

	el, err := buildChart(graphicData, warp)
	if err != nil || el != nil {
		t.Fatalf("got el=%v err=%v, want (nil, nil) for a dangling chart reference", el, err)
	}
}

func TestBuildDiagramNoContent(t *testing.T) {
	el := buildDiagram(&WarpContext{}, nil, nil)
	if el.Type != "diagram" || len(el.Elements) != 0 {
		t.Fatalf("got %v, want an empty diagram element when DiagramContent is nil", el)
	}
}
