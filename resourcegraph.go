package pptxjson

import (
	"archive/zip"
	"fmt"
	"io"
	"regexp"
	"sort"
	"strconv"
	"strings"
)

// Zip size/entry limits, carried over from the teacher's reader.go
// defensive guards (zip-bomb protection). Nothing in spec.md asks this
// module to trust an input archive unconditionally.
const (
	maxZipEntrySize = 50 << 20  // 50 MB per part
	maxZipTotalSize = 200 << 20 // 200 MB whole archive
	maxZipEntries   = 10000
)

// zipArchive is the "zip handle supporting read(path) → bytes" described
// by spec.md §3's WarpContext.zip field, with the teacher's own read
// guards and a part cache (every part is read at most once).
type zipArchive struct {
	zr    *zip.Reader
	files map[string]*zip.File
	cache map[string][]byte
}

func newZipArchive(r io.ReaderAt, size int64) (*zipArchive, error) {
	if size <= 0 {
		return nil, fmt.Errorf("invalid archive size: %d", size)
	}
	if size > int64(maxZipTotalSize) {
		return nil, fmt.Errorf("archive size %d exceeds maximum allowed (%d bytes)", size, maxZipTotalSize)
	}
	zr, err := zip.NewReader(r, size)
	if err != nil {
		return nil, fmt.Errorf("open zip: %w", err)
	}
	if len(zr.File) > maxZipEntries {
		return nil, fmt.Errorf("archive contains too many entries (%d > %d)", len(zr.File), maxZipEntries)
	}
	files := make(map[string]*zip.File, len(zr.File))
	for _, f := range zr.File {
		files[f.Name] = f
	}
	return &zipArchive{zr: zr, files: files, cache: make(map[string][]byte)}, nil
}

// read returns the bytes of path, a package-malformed-or-part-unreadable
// error per spec.md §7 if it is missing, too large, or corrupt.
func (z *zipArchive) read(path string) ([]byte, error) {
	if b, ok := z.cache[path]; ok {
		return b, nil
	}
	f, ok := z.files[path]
	if !ok {
		return nil, fmt.Errorf("part not found in archive: %s", path)
	}
	if f.UncompressedSize64 > maxZipEntrySize {
		return nil, fmt.Errorf("part %s exceeds maximum allowed size (%d bytes)", path, maxZipEntrySize)
	}
	rc, err := f.Open()
	if err != nil {
		return nil, fmt.Errorf("open part %s: %w", path, err)
	}
	defer rc.Close()
	data, err := io.ReadAll(io.LimitReader(rc, int64(maxZipEntrySize)+1))
	if err != nil {
		return nil, fmt.Errorf("read part %s: %w", path, err)
	}
	if int64(len(data)) > int64(maxZipEntrySize) {
		return nil, fmt.Errorf("part %s actual size exceeds maximum allowed size", path)
	}
	z.cache[path] = data
	return data, nil
}

func (z *zipArchive) has(path string) bool {
	_, ok := z.files[path]
	return ok
}

func (z *zipArchive) readXML(path string) (*XmlNode, error) {
	data, err := z.read(path)
	if err != nil {
		return nil, err
	}
	return parseXMLTree(data)
}

// RelEntry is one row of a .rels part: rId → {type, target}. Target is
// already normalized from "../foo" to the package-rooted "ppt/foo" form
// spec.md §3 requires.
type RelEntry struct {
	Type   string
	Target string
}

// RelMap is one of the four *ResObj maps described by spec.md §3.
type RelMap map[string]RelEntry

// loadRels parses a .rels part into a RelMap, tolerant of both the
// single-relationship and multi-relationship XML shapes the way
// spec.md §4.5 requires ("tolerance for both single-element and array
// shapes"); XmlNode.Children already normalizes that. A missing rels
// part is not an error — spec.md §4.5 notes rels files may not exist.
func loadRels(z *zipArchive, partPath string) (RelMap, error) {
	relsPath := relsPathFor(partPath)
	if !z.has(relsPath) {
		return RelMap{}, nil
	}
	tree, err := z.readXML(relsPath)
	if err != nil {
		return nil, fmt.Errorf("load rels %s: %w", relsPath, err)
	}
	out := make(RelMap)
	for _, rel := range tree.Children("Relationship") {
		id, ok := rel.Attr("Id")
		if !ok {
			continue
		}
		typeURI := rel.AttrOr("Type", "")
		tail := typeURI
		if i := strings.LastIndex(typeURI, "/"); i >= 0 {
			tail = typeURI[i+1:]
		}
		target := rel.AttrOr("Target", "")
		if rel.AttrOr("TargetMode", "") == "External" {
			out[id] = RelEntry{Type: tail, Target: target}
			continue
		}
		out[id] = RelEntry{Type: tail, Target: normalizeTarget(partPath, target)}
	}
	return out, nil
}

// relsPathFor returns the "<dir>/_rels/<file>.rels" path for partPath.
func relsPathFor(partPath string) string {
	dir := "."
	file := partPath
	if i := strings.LastIndex(partPath, "/"); i >= 0 {
		dir = partPath[:i]
		file = partPath[i+1:]
	}
	if dir == "." {
		return "_rels/" + file + ".rels"
	}
	return dir + "/_rels/" + file + ".rels"
}

// Theme holds the parsed clrScheme slots plus the fill-style matrices
// a:bgRef indexes into.
type Theme struct {
	ClrScheme      map[string]string // slot name (dk1, lt1, accent1, ...) -> 6-digit hex
	FillStyleLst   []*XmlNode        // a:fillStyleLst children, 1-indexed by bgRef idx-1000
	BgFillStyleLst []*XmlNode        // a:bgFillStyleLst children
}

func parseTheme(root *XmlNode) *Theme {
	th := &Theme{ClrScheme: make(map[string]string)}
	clrScheme := lookup(root, "themeElements", "clrScheme")
	if clrScheme != nil {
		for _, slotNode := range clrScheme.Kids {
			hex := decodeColorElement(findColorChild(slotNode), nil, nil, "")
			if hex == "" {
				continue
			}
			th.ClrScheme[slotNode.Name] = strings.TrimPrefix(hex, "#")
		}
	}
	fmtScheme := lookup(root, "themeElements", "fmtScheme")
	if fmtScheme != nil {
		if fs := fmtScheme.Child("fillStyleLst"); fs != nil {
			th.FillStyleLst = fs.Kids
		}
		if bg := fmtScheme.Child("bgFillStyleLst"); bg != nil {
			th.BgFillStyleLst = bg.Kids
		}
	}
	return th
}

// WarpContext is the per-slide, read-mostly resolution environment
// described by spec.md §3. Every field except ImageCache is fixed after
// construction.
type WarpContext struct {
	Zip *zipArchive

	SlideContent       *XmlNode
	SlideLayoutContent *XmlNode
	SlideMasterContent *XmlNode
	ThemeContent       *XmlNode
	DiagramContent     *XmlNode

	SlideResObj   RelMap
	LayoutResObj  RelMap
	MasterResObj  RelMap
	ThemeResObj   RelMap
	DiagramResObj RelMap

	SlideLayoutTables *InheritTables
	SlideMasterTables *InheritTables

	TableStyles           *XmlNode
	SlideMasterTextStyles *XmlNode
	DefaultTextStyle      *XmlNode

	Theme *Theme

	ImageCache map[string]string
}

// Package is the result of C5's loadPackage: everything shared across
// every slide in the presentation.
type Package struct {
	zip *zipArchive

	SlideParts       []string
	SlideLayoutParts []string

	Theme     *Theme
	ThemePath string

	SizeWidthPt  float64
	SizeHeightPt float64
	SizeAspect   string

	DefaultTextStyle *XmlNode
	TableStyles      *XmlNode

	Info DocumentInfo
}

// DocumentInfo is the best-effort docProps/core.xml extraction described
// by SPEC_FULL.md's supplemented-features section. A read failure here is
// non-fatal: the zero value is used.
type DocumentInfo struct {
	Title          string
	Creator        string
	LastModifiedBy string
	Created        string
	Modified       string
}

var contentTypePartSuffix = regexp.MustCompile(`(\d+)\.xml$`)

const (
	slideContentType  = "application/vnd.openxmlformats-officedocument.presentationml.slide+xml"
	layoutContentType = "application/vnd.openxmlformats-officedocument.presentationml.slideLayout+xml"
)

// sortPartsByNumericSuffix sorts part paths ascending by the numeric
// suffix in "slideN.xml", per spec.md §4.5: this, not .rels ordering, is
// the authoritative slide order.
func sortPartsByNumericSuffix(parts []string) {
	sort.Slice(parts, func(i, j int) bool {
		return numericSuffix(parts[i]) < numericSuffix(parts[j])
	})
}

func numericSuffix(path string) int {
	m := contentTypePartSuffix.FindStringSubmatch(path)
	if m == nil {
		return 0
	}
	n, _ := strconv.Atoi(m[1])
	return n
}

// LoadPackage implements C5: parses [Content_Types].xml for slide/layout
// ordering, ppt/presentation.xml for slide size and default text style,
// and resolves the package theme via the presentation's relationships.
func LoadPackage(z *zipArchive) (*Package, error) {
	ctTree, err := z.readXML("[Content_Types].xml")
	if err != nil {
		return nil, fmt.Errorf("package-malformed: %w", err)
	}

	var slides, layouts []string
	for _, o := range ctTree.Children("Override") {
		partName := strings.TrimPrefix(o.AttrOr("PartName", ""), "/")
		switch o.AttrOr("ContentType", "") {
		case slideContentType:
			slides = append(slides, partName)
		case layoutContentType:
			layouts = append(layouts, partName)
		}
	}
	sortPartsByNumericSuffix(slides)
	sortPartsByNumericSuffix(layouts)

	presTree, err := z.readXML("ppt/presentation.xml")
	if err != nil {
		return nil, fmt.Errorf("package-malformed: %w", err)
	}
	pkg := &Package{zip: z, SlideParts: slides, SlideLayoutParts: layouts}

	if sz := presTree.Child("sldSz"); sz != nil {
		pkg.SizeWidthPt = emuToPt(parseEMU(sz.AttrOr("cx", "")))
		pkg.SizeHeightPt = emuToPt(parseEMU(sz.AttrOr("cy", "")))
		pkg.SizeAspect = sz.AttrOr("type", "")
	}
	if defTxStyle := presTree.Child("defaultTextStyle"); defTxStyle != nil {
		pkg.DefaultTextStyle = defTxStyle
	}

	presRels, err := loadRels(z, "ppt/presentation.xml")
	if err != nil {
		return nil, fmt.Errorf("package-malformed: %w", err)
	}
	themeTarget := ""
	for _, rel := range presRels {
		if rel.Type == "theme" {
			themeTarget = rel.Target
			break
		}
	}
	if themeTarget == "" {
		return nil, fmt.Errorf("package-malformed: no theme relationship in ppt/_rels/presentation.xml.rels")
	}
	themeTree, err := z.readXML(themeTarget)
	if err != nil {
		return nil, fmt.Errorf("package-malformed: %w", err)
	}
	pkg.Theme = parseTheme(themeTree)
	pkg.ThemePath = themeTarget

	if z.has("ppt/tableStyles.xml") {
		if ts, err := z.readXML("ppt/tableStyles.xml"); err == nil {
			pkg.TableStyles = ts
		}
	}

	pkg.Info = readDocumentInfo(z)

	return pkg, nil
}

// readDocumentInfo is the supplemented docProps/core.xml extraction; any
// failure is swallowed and the zero value returned, per spec.md §7's
// part-unreadable recovery rule for non-slide-boundary failures.
func readDocumentInfo(z *zipArchive) DocumentInfo {
	if !z.has("docProps/core.xml") {
		return DocumentInfo{}
	}
	tree, err := z.readXML("docProps/core.xml")
	if err != nil {
		return DocumentInfo{}
	}
	get := func(name string) string {
		if c := tree.Child(name); c != nil {
			return c.CharData
		}
		return ""
	}
	return DocumentInfo{
		Title:          get("title"),
		Creator:        get("creator"),
		LastModifiedBy: get("lastModifiedBy"),
		Created:        get("created"),
		Modified:       get("modified"),
	}
}

// relByType returns the target of the first relationship in m whose type
// tail equals want, and whether one was found.
func relByType(m RelMap, want string) (string, bool) {
	for _, rel := range m {
		if rel.Type == want {
			return rel.Target, true
		}
	}
	return "", false
}

// LoadSlide implements the recursive slide→layout→master→(theme, diagram)
// resolution in spec.md §4.5's loadSlide, producing the WarpContext for
// one slide.
func LoadSlide(pkg *Package, slidePath string) (*WarpContext, error) {
	z := pkg.zip
	warp := &WarpContext{
		Zip:              z,
		Theme:            pkg.Theme,
		TableStyles:      pkg.TableStyles,
		DefaultTextStyle: pkg.DefaultTextStyle,
		ImageCache:       make(map[string]string),
	}

	slideTree, err := z.readXML(slidePath)
	if err != nil {
		return nil, fmt.Errorf("part-unreadable: slide %s: %w", slidePath, err)
	}
	warp.SlideContent = slideTree

	slideRels, err := loadRels(z, slidePath)
	if err != nil {
		return nil, fmt.Errorf("part-unreadable: slide rels %s: %w", slidePath, err)
	}
	warp.SlideResObj = slideRels

	layoutTarget, ok := relByType(slideRels, "slideLayout")
	if !ok {
		return nil, fmt.Errorf("package-malformed: slide %s has no slideLayout relationship", slidePath)
	}
	layoutTree, err := z.readXML(layoutTarget)
	if err != nil {
		return nil, fmt.Errorf("part-unreadable: layout %s: %w", layoutTarget, err)
	}
	warp.SlideLayoutContent = layoutTree

	layoutRels, err := loadRels(z, layoutTarget)
	if err != nil {
		return nil, fmt.Errorf("part-unreadable: layout rels %s: %w", layoutTarget, err)
	}
	warp.LayoutResObj = layoutRels

	masterTarget, ok := relByType(layoutRels, "slideMaster")
	if !ok {
		return nil, fmt.Errorf("package-malformed: layout %s has no slideMaster relationship", layoutTarget)
	}
	masterTree, err := z.readXML(masterTarget)
	if err != nil {
		return nil, fmt.Errorf("part-unreadable: master %s: %w", masterTarget, err)
	}
	warp.SlideMasterContent = masterTree

	masterRels, err := loadRels(z, masterTarget)
	if err != nil {
		return nil, fmt.Errorf("part-unreadable: master rels %s: %w", masterTarget, err)
	}
	warp.MasterResObj = masterRels

	if themeTarget, ok := relByType(masterRels, "theme"); ok {
		if themeTree, err := z.readXML(themeTarget); err == nil {
			warp.ThemeContent = themeTree
			if themeRels, err := loadRels(z, themeTarget); err == nil {
				warp.ThemeResObj = themeRels
			}
		}
	}

	if txStyles := masterTree.Child("txStyles"); txStyles != nil {
		warp.SlideMasterTextStyles = txStyles
	}

	warp.SlideLayoutTables = buildInheritTables(layoutTree)
	warp.SlideMasterTables = buildInheritTables(masterTree)

	if diagramTarget, ok := relByType(slideRels, "diagramDrawing"); ok {
		if diagData, err := z.read(diagramTarget); err == nil {
			diagData = substituteDiagramNamespace(diagData)
			if diagTree, err := parseXMLTree(diagData); err == nil {
				warp.DiagramContent = diagTree
				if diagRels, err := loadRels(z, diagramTarget); err == nil {
					warp.DiagramResObj = diagRels
				}
			}
		}
	}

	return warp, nil
}
