package pptxjson

import "testing"

// fixtureSlideGradientBg is spec.md §8 scenario 3: a slide background
// with a two-stop linear gradient at a 90-degree angle.
const fixtureSlideGradientBg = `<?xml version="1.0"?>
<p:sld xmlns:p="http://schemas.openxmlformats.org/presentationml/2006/main"
       xmlns:a="http://schemas.openxmlformats.org/drawingml/2006/main">
  <p:cSld>
    <p:bg>
      <p:bgPr>
        <a:gradFill>
          <a:gsLst>
            <a:gs pos="0"><a:srgbClr val="FFFFFF"/></a:gs>
            <a:gs pos="100000"><a:srgbClr val="000000"/></a:gs>
          </a:gsLst>
          <a:lin ang="5400000"/>
        </a:gradFill>
      </p:bgPr>
    </p:bg>
    <p:spTree>
      <p:nvGrpSpPr/>
      <p:grpSpPr/>
    </p:spTree>
  </p:cSld>
</p:sld>`

func gradientFixturePackage() []byte {
	return buildFixtureZip(map[string]string{
		"[Content_Types].xml":                          fixtureContentTypes,
		"ppt/presentation.xml":                          fixturePresentation,
		"ppt/_rels/presentation.xml.rels":               fixturePresentationRels,
		"ppt/theme/theme1.xml":                           fixtureTheme,
		"ppt/slides/slide1.xml":                          fixtureSlideGradientBg,
		"ppt/slides/_rels/slide1.xml.rels":               "<?xml version=\"1.0\"?><Relationships xmlns=\"http://schemas.openxmlformats.org/package/2006/relationships\"><Relationship Id=\"rId1\" Type=\"http://schemas.openxmlformats.org/officeDocument/2006/relationships/slideLayout\" Target=\"../slideLayouts/slideLayout1.xml\"/></Relationships>",
		"ppt/slideLayouts/slideLayout1.xml":              fixtureSlideLayout,
		"ppt/slideLayouts/_rels/slideLayout1.xml.rels":   fixtureSlideLayoutRels,
		"ppt/slideMasters/slideMaster1.xml":              fixtureSlideMaster,
		"ppt/slideMasters/_rels/slideMaster1.xml.rels":   fixtureSlideMasterRels,
	})
}

// TestProcessBytesGradientBackground covers spec.md §8 scenario 3: a
// two-stop gradient background resolves to {rot:180, colors:[...]}
// (ang=5400000 -> 90 degrees -> +90 -> 180).
func TestProcessBytesGradientBackground(t *testing.T) {
	out, err := ProcessBytes(gradientFixturePackage())
	if err != nil {
		t.Fatalf("Process failed: %v", err)
	}
	fill := out.Slides[0].Fill
	if fill.Type != "gradient" {
		t.Fatalf("got fill type %q, want gradient", fill.Type)
	}
	grad, ok := fill.Value.(*GradientRec)
	if !ok {
		t.Fatalf("got fill value %T, want *GradientRec", fill.Value)
	}
	if grad.Rot != 180 {
		t.Fatalf("got rot %d, want 180", grad.Rot)
	}
	if len(grad.Colors) != 2 || grad.Colors[0].Color != "#FFFFFF" || grad.Colors[1].Color != "#000000" {
		t.Fatalf("got colors %+v, want white then black", grad.Colors)
	}
	if grad.Colors[0].Pos != "0%" || grad.Colors[1].Pos != "100%" {
		t.Fatalf("got positions %+v, want 0%% then 100%%", grad.Colors)
	}
}

// fixtureSlideGroup is spec.md §8 scenario 4: a group shape with a
// non-identity child coordinate system (chExt double the group's own
// ext), containing one rectangle at the child-space origin.
const fixtureSlideGroup = `<?xml version="1.0"?>
<p:sld xmlns:p="http://schemas.openxmlformats.org/presentationml/2006/main"
       xmlns:a="http://schemas.openxmlformats.org/drawingml/2006/main">
  <p:cSld>
    <p:spTree>
      <p:nvGrpSpPr/>
      <p:grpSpPr/>
      <p:grpSp>
        <p:nvGrpSpPr><p:cNvPr id="2" name="Group 1"/></p:nvGrpSpPr>
        <p:grpSpPr>
          <a:xfrm>
            <a:off x="914400" y="914400"/>
            <a:ext cx="914400" cy="914400"/>
            <a:chOff x="0" y="0"/>
            <a:chExt cx="1828800" cy="1828800"/>
          </a:xfrm>
        </p:grpSpPr>
        <p:sp>
          <p:nvSpPr>
            <p:cNvPr id="3" name="Inner Rect"/>
            <p:cNvSpPr/>
            <p:nvPr/>
          </p:nvSpPr>
          <p:spPr>
            <a:xfrm>
              <a:off x="0" y="0"/>
              <a:ext cx="914400" cy="914400"/>
            </a:xfrm>
            <a:prstGeom prst="rect"/>
            <a:solidFill><a:srgbClr val="0000FF"/></a:solidFill>
          </p:spPr>
        </p:sp>
      </p:grpSp>
    </p:spTree>
  </p:cSld>
</p:sld>`

func groupFixturePackage() []byte {
	return buildFixtureZip(map[string]string{
		"[Content_Types].xml":                          fixtureContentTypes,
		"ppt/presentation.xml":                          fixturePresentation,
		"ppt/_rels/presentation.xml.rels":               fixturePresentationRels,
		"ppt/theme/theme1.xml":                           fixtureTheme,
		"ppt/slides/slide1.xml":                          fixtureSlideGroup,
		"ppt/slides/_rels/slide1.xml.rels":               "<?xml version=\"1.0\"?><Relationships xmlns=\"http://schemas.openxmlformats.org/package/2006/relationships\"><Relationship Id=\"rId1\" Type=\"http://schemas.openxmlformats.org/officeDocument/2006/relationships/slideLayout\" Target=\"../slideLayouts/slideLayout1.xml\"/></Relationships>",
		"ppt/slideLayouts/slideLayout1.xml":              fixtureSlideLayout,
		"ppt/slideLayouts/_rels/slideLayout1.xml.rels":   fixtureSlideLayoutRels,
		"ppt/slideMasters/slideMaster1.xml":              fixtureSlideMaster,
		"ppt/slideMasters/_rels/slideMaster1.xml.rels":   fixtureSlideMasterRels,
	})
}

// TestProcessBytesGroupNonIdentityCoordinateSystem covers spec.md §8
// scenario 4: the group's own box is 72x72pt but its child space is
// 144x144pt, so a 72x72pt child shape at the child origin remaps to a
// 36x36pt rect at 0,0 relative to the group's own origin; the group
// element itself carries that origin (72,72).
func TestProcessBytesGroupNonIdentityCoordinateSystem(t *testing.T) {
	out, err := ProcessBytes(groupFixturePackage())
	if err != nil {
		t.Fatalf("Process failed: %v", err)
	}
	if len(out.Slides[0].Elements) != 1 {
		t.Fatalf("expected one top-level group element, got %d", len(out.Slides[0].Elements))
	}
	grp := out.Slides[0].Elements[0]
	if grp.Type != "group" || len(grp.Elements) != 1 {
		t.Fatalf("got %+v, want a group with one child", grp)
	}
	child := grp.Elements[0]
	if child.Width != 36 || child.Height != 36 {
		t.Fatalf("got child width=%g height=%g, want 36,36 (scaled by 0.5)", child.Width, child.Height)
	}
	if child.Left != 0 || child.Top != 0 || grp.Left != 72 || grp.Top != 72 {
		t.Fatalf("got child left=%g top=%g, group left=%g top=%g; want child 0,0 relative to a group at 72,72", child.Left, child.Top, grp.Left, grp.Top)
	}
}

// fixtureSlideTable is spec.md §8 scenario 6: a two-row table with
// firstRow styling active, so the header row picks up the firstRow
// slot's fill while the body row falls back to the cell's own direct
// formatting.
const fixtureSlideTable = `<?xml version="1.0"?>
<p:sld xmlns:p="http://schemas.openxmlformats.org/presentationml/2006/main"
       xmlns:a="http://schemas.openxmlformats.org/drawingml/2006/main">
  <p:cSld>
    <p:spTree>
      <p:nvGrpSpPr/>
      <p:grpSpPr/>
      <p:graphicFrame>
        <p:nvGraphicFramePr><p:cNvPr id="2" name="Table 1"/></p:nvGraphicFramePr>
        <p:xfrm>
          <a:off x="0" y="0"/>
          <a:ext cx="3657600" cy="914400"/>
        </p:xfrm>
        <a:graphic>
          <a:graphicData uri="http://schemas.openxmlformats.org/drawingml/2006/table">
            <a:tbl>
              <a:tblPr firstRow="1">
                <a:tableStyleId>{FIXTURE-STYLE}</a:tableStyleId>
              </a:tblPr>
              <a:tr h="457200">
                <a:tc><a:txBody><a:p><a:r><a:t>Header</a:t></a:r></a:p></a:txBody></a:tc>
              </a:tr>
              <a:tr h="457200">
                <a:tc>
                  <a:tcPr><a:solidFill><a:srgbClr val="CCCCCC"/></a:solidFill></a:tcPr>
                  <a:txBody><a:p><a:r><a:t>Body</a:t></a:r></a:p></a:txBody>
                </a:tc>
              </a:tr>
            </a:tbl>
          </a:graphicData>
        </a:graphic>
      </p:graphicFrame>
    </p:spTree>
  </p:cSld>
</p:sld>`

const fixtureTableStyles = `<?xml version="1.0"?>
<a:tblStyleLst xmlns:a="http://schemas.openxmlformats.org/drawingml/2006/main">
  <a:tblStyle styleId="{FIXTURE-STYLE}">
    <a:firstRow>
      <a:tcStyle><a:fill><a:solidFill><a:srgbClr val="336699"/></a:solidFill></a:fill></a:tcStyle>
      <a:tcTxStyle b="on"/>
    </a:firstRow>
  </a:tblStyle>
</a:tblStyleLst>`

func tableFixturePackage() []byte {
	return buildFixtureZip(map[string]string{
		"[Content_Types].xml":                          fixtureContentTypes,
		"ppt/presentation.xml":                          fixturePresentation,
		"ppt/_rels/presentation.xml.rels":               fixturePresentationRels,
		"ppt/theme/theme1.xml":                           fixtureTheme,
		"ppt/tableStyles.xml":                            fixtureTableStyles,
		"ppt/slides/slide1.xml":                          fixtureSlideTable,
		"ppt/slides/_rels/slide1.xml.rels":               "<?xml version=\"1.0\"?><Relationships xmlns=\"http://schemas.openxmlformats.org/package/2006/relationships\"><Relationship Id=\"rId1\" Type=\"http://schemas.openxmlformats.org/officeDocument/2006/relationships/slideLayout\" Target=\"../slideLayouts/slideLayout1.xml\"/></Relationships>",
		"ppt/slideLayouts/slideLayout1.xml":              fixtureSlideLayout,
		"ppt/slideLayouts/_rels/slideLayout1.xml.rels":   fixtureSlideLayoutRels,
		"ppt/slideMasters/slideMaster1.xml":              fixtureSlideMaster,
		"ppt/slideMasters/_rels/slideMaster1.xml.rels":   fixtureSlideMasterRels,
	})
}

func TestProcessBytesTableFirstRowAndDirectFormatting(t *testing.T) {
	out, err := ProcessBytes(tableFixturePackage())
	if err != nil {
		t.Fatalf("Process failed: %v", err)
	}
	el := out.Slides[0].Elements[0]
	if el.Type != "table" {
		t.Fatalf("got type %q, want table", el.Type)
	}
	header := el.Data[0][0]
	if header.Text != "Header" || header.FillColor != "#336699" || !header.FontBold {
		t.Fatalf("got header cell %+v, want firstRow styling applied", header)
	}
	body := el.Data[1][0]
	if body.Text != "Body" || body.FillColor != "#CCCCCC" {
		t.Fatalf("got body cell %+v, want direct tcPr fill #CCCCCC", body)
	}
}

// fixtureSlidePlaceholderOnly is the boundary case for spec.md §4.6's
// placeholder-inheritance chain: a shape that carries a p:ph but no
// a:xfrm of its own, and neither the layout nor the master define a
// matching placeholder either, resolves to an all-zero rect rather than
// erroring.
const fixtureSlidePlaceholderOnly = `<?xml version="1.0"?>
<p:sld xmlns:p="http://schemas.openxmlformats.org/presentationml/2006/main"
       xmlns:a="http://schemas.openxmlformats.org/drawingml/2006/main">
  <p:cSld>
    <p:spTree>
      <p:nvGrpSpPr/>
      <p:grpSpPr/>
      <p:sp>
        <p:nvSpPr>
          <p:cNvPr id="2" name="Orphan Placeholder"/>
          <p:cNvSpPr/>
          <p:nvPr><p:ph type="body" idx="99"/></p:nvPr>
        </p:nvSpPr>
        <p:spPr/>
      </p:sp>
    </p:spTree>
  </p:cSld>
</p:sld>`

func placeholderOnlyFixturePackage() []byte {
	return buildFixtureZip(map[string]string{
		"[Content_Types].xml":                          fixtureContentTypes,
		"ppt/presentation.xml":                          fixturePresentation,
		"ppt/_rels/presentation.xml.rels":               fixturePresentationRels,
		"ppt/theme/theme1.xml":                           fixtureTheme,
		"ppt/slides/slide1.xml":                          fixtureSlidePlaceholderOnly,
		"ppt/slides/_rels/slide1.xml.rels":               "<?xml version=\"1.0\"?><Relationships xmlns=\"http://schemas.openxmlformats.org/package/2006/relationships\"><Relationship Id=\"rId1\" Type=\"http://schemas.openxmlformats.org/officeDocument/2006/relationships/slideLayout\" Target=\"../slideLayouts/slideLayout1.xml\"/></Relationships>",
		"ppt/slideLayouts/slideLayout1.xml":              fixtureSlideLayout,
		"ppt/slideLayouts/_rels/slideLayout1.xml.rels":   fixtureSlideLayoutRels,
		"ppt/slideMasters/slideMaster1.xml":              fixtureSlideMaster,
		"ppt/slideMasters/_rels/slideMaster1.xml.rels":   fixtureSlideMasterRels,
	})
}

func TestProcessBytesPlaceholderWithNoGeometryAnywhereIsZeroRect(t *testing.T) {
	out, err := ProcessBytes(placeholderOnlyFixturePackage())
	if err != nil {
		t.Fatalf("Process failed: %v", err)
	}
	el := out.Slides[0].Elements[0]
	if el.Left != 0 || el.Top != 0 || el.Width != 0 || el.Height != 0 {
		t.Fatalf("got rect (%g,%g,%g,%g), want all zero", el.Left, el.Top, el.Width, el.Height)
	}
}
