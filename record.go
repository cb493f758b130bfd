package pptxjson

// Element is the tagged output record described by spec.md §3,
// discriminated by Type. Unlike the teacher's Shape interface
// hierarchy (BaseShape + per-kind struct), this pipeline's output is a
// one-way JSON tree, not an editable object graph, so one flat struct
// with type-specific fields left at their zero value is the natural
// shape for the thing actually being produced: a JSON document.
type Element struct {
	Type string `json:"type"`

	Left   float64 `json:"left"`
	Top    float64 `json:"top"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
	Rotate int     `json:"rotate"`
	IsFlipH bool   `json:"isFlipH,omitempty"`
	IsFlipV bool   `json:"isFlipV,omitempty"`
	Name    string `json:"name,omitempty"`

	// shape / text
	ShapType              string            `json:"shapType,omitempty"`
	Path                  string            `json:"path,omitempty"`
	FillColor             string            `json:"fillColor,omitempty"`
	BorderColor           string            `json:"borderColor,omitempty"`
	BorderWidth           float64           `json:"borderWidth,omitempty"`
	BorderType            string            `json:"borderType,omitempty"`
	BorderStrokeDasharray string            `json:"borderStrokeDasharray,omitempty"`
	Shadow                *ShadowDescriptor `json:"shadow,omitempty"`
	Content               string            `json:"content,omitempty"`
	IsVertical            bool              `json:"isVertical,omitempty"`
	VAlign                string            `json:"vAlign,omitempty"`
	Hyperlink             string            `json:"hyperlink,omitempty"`

	// image
	Src string `json:"src,omitempty"`

	// video / audio
	Blob string `json:"blob,omitempty"`

	// table
	Data       [][]TableCell `json:"data,omitempty"`
	RowHeights []float64     `json:"rowHeights,omitempty"`

	// chart
	ChartType string            `json:"chartType,omitempty"`
	ChartData []ChartSeriesData `json:"chartData,omitempty"`
	Marker    string            `json:"marker,omitempty"`
	BarDir    string            `json:"barDir,omitempty"`
	HoleSize  int               `json:"holeSize,omitempty"`
	Grouping  string            `json:"grouping,omitempty"`
	Style     string            `json:"style,omitempty"`

	// diagram / group
	Elements []Element `json:"elements,omitempty"`
}

// TableCell is one cell of a table Element's Data grid, per spec.md §3.
type TableCell struct {
	Text        string  `json:"text"`
	RowSpan     int     `json:"rowSpan,omitempty"`
	ColSpan     int     `json:"colSpan,omitempty"`
	VMerge      bool    `json:"vMerge,omitempty"`
	HMerge      bool    `json:"hMerge,omitempty"`
	FillColor   string  `json:"fillColor,omitempty"`
	FontColor   string  `json:"fontColor,omitempty"`
	FontBold    bool    `json:"fontBold,omitempty"`
	BorderColor string  `json:"borderColor,omitempty"`
	BorderWidth float64 `json:"borderWidth,omitempty"`
}

// FillJSON is the JSON shape of a background/shape Fill, matching
// spec.md §3/§6's {type, value} background record.
type FillJSON struct {
	Type  string       `json:"type"`
	Value interface{}  `json:"value"`
}

func (f Fill) toJSON() FillJSON {
	switch f.Type {
	case "gradient":
		return FillJSON{Type: "gradient", Value: f.Grad}
	case "image":
		return FillJSON{Type: "image", Value: f.Image}
	case "none":
		return FillJSON{Type: "color", Value: ""}
	default:
		return FillJSON{Type: "color", Value: f.Color}
	}
}
