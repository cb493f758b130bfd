package pptxjson

import "testing"

func numCachePt(idx, val string) *XmlNode {
	return node("pt", map[string]string{"idx": idx}, node("v", nil).withCharData(val))
}

func (n *XmlNode) withCharData(s string) *XmlNode {
	n.CharData = s
	return n
}

func TestGetChartInfoBarChart(t *testing.T) {
	ser := node("ser", nil,
		node("tx", nil, node("strRef", nil, node("strCache", nil, numCachePt("0", "Revenue")))),
		node("cat", nil, node("strRef", nil, node("strCache", nil, numCachePt("0", "Q1"), numCachePt("1", "Q2")))),
		node("val", nil, node("numRef", nil, node("numCache", nil, numCachePt("0", "10"), numCachePt("1", "20")))),
	)
	barChart := node("barChart", nil,
		node("barDir", map[string]string{"val": "col"}),
		node("grouping", map[string]string{"val": "clustered"}),
		ser,
	)
	plotArea := node("plotArea", nil, barChart)

	info := getChartInfo(plotArea)
	if info == nil {
		t.Fatalf("expected a non-nil ChartInfo")
	}
	if info.Type != "barChart" || info.BarDir != "col" || info.Grouping != "clustered" {
		t.Fatalf("got %+v", info)
	}
	if len(info.Data) != 1 || info.Data[0].Title != "Revenue" {
		t.Fatalf("got data %+v", info.Data)
	}
	if len(info.Data[0].Categories) != 2 || info.Data[0].Categories[1] != "Q2" {
		t.Fatalf("got categories %+v", info.Data[0].Categories)
	}
	if len(info.Data[0].Values) != 2 || info.Data[0].Values[1] != 20 {
		t.Fatalf("got values %+v", info.Data[0].Values)
	}
}

func TestGetChartInfoDoughnutHoleSize(t *testing.T) {
	doughnut := node("doughnutChart", nil, node("holeSize", map[string]string{"val": "35"}))
	plotArea := node("plotArea", nil, doughnut)
	info := getChartInfo(plotArea)
	if info == nil || info.HoleSize != 35 {
		t.Fatalf("got %+v", info)
	}
}

func TestGetChartInfoNoRecognizedChart(t *testing.T) {
	plotArea := node("plotArea", nil, node("someUnknownChart", nil))
	if got := getChartInfo(plotArea); got != nil {
		t.Fatalf("an unrecognized plot area should yield a nil ChartInfo, got %+v", got)
	}
}
