package pptxjson

import "strconv"

// ChartSeriesData is one series contributed to a ChartInfo, named the
// way the teacher's ChartSeries (title + categories + values) models a
// series for its builder API.
type ChartSeriesData struct {
	Title      string
	Categories []string
	Values     []float64
	Color      string
}

// ChartInfo is getChartInfo's return record per spec.md §6: {type,
// data, marker?, barDir?, holeSize?, grouping?, style?}.
type ChartInfo struct {
	Type     string
	Data     []ChartSeriesData
	Marker   string
	BarDir   string
	HoleSize int
	Grouping string
	Style    string
}

// chartTypeTags lists the c:barChart/c:lineChart/... container names
// getChartInfo recognizes; the matching tag name is surfaced as
// ChartInfo.Type. A plotArea holding none of these yields nil, so an
// unlisted chart type produces no chart info.
var chartTypeTags = []string{
	"barChart", "bar3DChart",
	"lineChart", "line3DChart",
	"pieChart", "pie3DChart", "doughnutChart",
	"areaChart", "area3DChart",
	"scatterChart", "bubbleChart", "radarChart", "ofPieChart", "stockChart", "surfaceChart",
}

// getChartInfo implements spec.md §6's chart-series shape extractor
// over a c:plotArea: finds the first recognized chart container, reads
// its series (c:ser), categories (c:cat/c:strRef or c:numRef), and
// values (c:val/c:numRef), plus the type-specific extras (barDir,
// grouping, holeSize for doughnuts, marker presence for line/scatter).
func getChartInfo(plotArea *XmlNode) *ChartInfo {
	if plotArea == nil {
		return nil
	}
	var chartNode *XmlNode
	var chartTag string
	for _, tag := range chartTypeTags {
		if n := plotArea.Child(tag); n != nil {
			chartNode = n
			chartTag = tag
			break
		}
	}
	if chartNode == nil {
		return nil
	}

	info := &ChartInfo{Type: chartTag}
	if barDir := chartNode.Child("barDir"); barDir != nil {
		info.BarDir = barDir.AttrOr("val", "col")
	}
	if grouping := chartNode.Child("grouping"); grouping != nil {
		info.Grouping = grouping.AttrOr("val", "standard")
	}
	if hole := chartNode.Child("holeSize"); hole != nil {
		if v, err := strconv.Atoi(hole.AttrOr("val", "0")); err == nil {
			info.HoleSize = v
		}
	}
	if chartNode.Child("marker") != nil {
		info.Marker = "shown"
	}

	for _, ser := range chartNode.Children("ser") {
		info.Data = append(info.Data, extractSeries(ser))
	}
	return info
}

func extractSeries(ser *XmlNode) ChartSeriesData {
	s := ChartSeriesData{}
	if tx := ser.Child("tx"); tx != nil {
		if strRef := tx.Child("strRef"); strRef != nil {
			s.Title = firstCacheString(strRef)
		}
	}
	if cat := ser.Child("cat"); cat != nil {
		s.Categories = extractStringValues(cat)
	}
	if val := ser.Child("val"); val != nil {
		s.Values = extractNumericValues(val)
	}
	if spPr := ser.Child("spPr"); spPr != nil {
		// getChartInfo's contract takes no warp (spec.md §6), so a
		// schemeClr series color can't be theme-resolved here; srgbClr
		// (the common case for chart series fills) still resolves fine.
		if solid := spPr.Child("solidFill"); solid != nil {
			s.Color = resolveColor(solid, nil, nil, "")
		}
	}
	return s
}

func firstCacheString(ref *XmlNode) string {
	strCache := ref.Child("strCache")
	if strCache == nil {
		return ""
	}
	if pt := strCache.Child("pt"); pt != nil {
		if v := pt.Child("v"); v != nil {
			return v.CharData
		}
	}
	return ""
}

func extractStringValues(cat *XmlNode) []string {
	var src *XmlNode
	if strRef := cat.Child("strRef"); strRef != nil {
		src = strRef.Child("strCache")
	} else if numRef := cat.Child("numRef"); numRef != nil {
		src = numRef.Child("numCache")
	}
	if src == nil {
		return nil
	}
	var out []string
	for _, pt := range src.Children("pt") {
		if v := pt.Child("v"); v != nil {
			out = append(out, v.CharData)
		} else {
			out = append(out, "")
		}
	}
	return out
}

func extractNumericValues(val *XmlNode) []float64 {
	numRef := val.Child("numRef")
	if numRef == nil {
		return nil
	}
	numCache := numRef.Child("numCache")
	if numCache == nil {
		return nil
	}
	var out []float64
	for _, pt := range numCache.Children("pt") {
		v := pt.Child("v")
		if v == nil {
			out = append(out, 0)
			continue
		}
		f, _ := strconv.ParseFloat(v.CharData, 64)
		out = append(out, f)
	}
	return out
}
