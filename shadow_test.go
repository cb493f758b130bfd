package pptxjson

import "testing"

func TestGetShadowNilIsInvisible(t *testing.T) {
	s := getShadow(nil, nil, nil, "")
	if s.Visible {
		t.Fatalf("a nil outerShdw should yield an invisible shadow")
	}
}

func TestGetShadowReadsDistDirBlurAndColor(t *testing.T) {
	outer := node("outerShdw", map[string]string{"dist": "38100", "dir": "2700000", "blurRad": "50800"},
		node("srgbClr", map[string]string{"val": "000000"}, node("alpha", map[string]string{"val": "50000"})))
	s := getShadow(outer, nil, nil, "")
	if !s.Visible {
		t.Fatalf("expected a visible shadow")
	}
	if s.Distance != 3 {
		t.Fatalf("got distance %v, want 3pt", s.Distance)
	}
	if s.Direction != 45 {
		t.Fatalf("got direction %v, want 45 degrees", s.Direction)
	}
	if s.BlurRadius != 4 {
		t.Fatalf("got blur radius %v, want 4pt", s.BlurRadius)
	}
	if s.Alpha < 45 || s.Alpha > 55 {
		t.Fatalf("got alpha %d, want roughly 50", s.Alpha)
	}
}

func TestGetShadowDirectionNormalizesNegative(t *testing.T) {
	outer := node("outerShdw", map[string]string{"dir": "-5400000"})
	s := getShadow(outer, nil, nil, "")
	if s.Direction != 270 {
		t.Fatalf("got direction %v, want 270 (normalized from -90)", s.Direction)
	}
}
