package pptxjson

import (
	"bytes"
	"fmt"
	"io"
	"os"
)

// SlideRecord is one entry of the top-level Output.Slides array, per
// spec.md §6's `{fill, elements}` per-slide shape.
type SlideRecord struct {
	Fill     FillJSON  `json:"fill"`
	Elements []Element `json:"elements"`
	Notes    string    `json:"notes,omitempty"`
}

// SizeRecord is the top-level size record, extended with the
// SUPPLEMENTED aspect field (informational only).
type SizeRecord struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
	Aspect string  `json:"aspect,omitempty"`
}

// Output is the full return value of Process, per spec.md §6 plus the
// SUPPLEMENTED-FEATURES DocumentInfo addition.
type Output struct {
	Size   SizeRecord    `json:"size"`
	Slides []SlideRecord `json:"slides"`
	Info   DocumentInfo  `json:"info,omitempty"`
}

// Process implements C11, the entry point: accepts a ZIP archive
// (reader plus its size), loads the package-level context once (C5),
// then runs the slide orchestrator (C10) over every slide in numeric
// order. Per spec.md §5, this is a single awaitable unit — a
// package-malformed error, or a slide/layout/master part that cannot be
// read, aborts the whole parse; no partial slide output is exposed. A
// chart part that cannot be read only drops that chart element (see
// dispatchChildren).
func Process(r io.ReaderAt, size int64) (*Output, error) {
	zip, err := newZipArchive(r, size)
	if err != nil {
		return nil, fmt.Errorf("package-malformed: %w", err)
	}
	pkg, err := LoadPackage(zip)
	if err != nil {
		return nil, err
	}

	out := &Output{
		Size: SizeRecord{Width: pkg.SizeWidthPt, Height: pkg.SizeHeightPt, Aspect: pkg.SizeAspect},
		Info: pkg.Info,
	}

	for _, slidePath := range pkg.SlideParts {
		rec, err := processSlide(pkg, slidePath)
		if err != nil {
			return nil, fmt.Errorf("slide %s: %w", slidePath, err)
		}
		out.Slides = append(out.Slides, *rec)
	}
	return out, nil
}

// ProcessFile opens path as a PresentationML ZIP package and runs
// Process over it, the convenience entry point cmd/pptx2json uses.
func ProcessFile(path string) (*Output, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	info, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("stat %s: %w", path, err)
	}
	return Process(f, info.Size())
}

// ProcessBytes runs Process over an in-memory archive, used by tests
// that build small fixture ZIPs rather than loading .pptx files from
// disk.
func ProcessBytes(data []byte) (*Output, error) {
	return Process(bytes.NewReader(data), int64(len(data)))
}

// processSlide implements C10: loads the slide's WarpContext (C5),
// resolves the background (C3/C2), runs the dispatcher (C7) over the
// slide's shape tree, and reads the SUPPLEMENTED speaker-notes stub.
func processSlide(pkg *Package, slidePath string) (*SlideRecord, error) {
	warp, err := LoadSlide(pkg, slidePath)
	if err != nil {
		return nil, err
	}

	fill := resolveBackgroundFill(warp, resolveClrMap(warp))

	layoutTables := warp.SlideLayoutTables
	masterTables := warp.SlideMasterTables

	spTree := lookup(warp.SlideContent, "cSld", "spTree")
	var elements []Element
	if spTree != nil {
		elements = dispatchChildren(spTree, "slide", warp, layoutTables, masterTables)
	}

	notes := readSpeakerNotes(pkg.zip, slidePath)

	return &SlideRecord{
		Fill:     fill.toJSON(),
		Elements: elements,
		Notes:    notes,
	}, nil
}

// readSpeakerNotes implements the SUPPLEMENTED-FEATURES speaker-notes
// stub: locates the slide's notesSlide relationship and extracts the
// concatenated plain text of its body placeholder. Any failure (no
// notes, unreadable part) yields "", never fatal.
func readSpeakerNotes(z *zipArchive, slidePath string) string {
	rels, err := loadRels(z, slidePath)
	if err != nil {
		return ""
	}
	notesTarget, ok := relByType(rels, "notesSlide")
	if !ok {
		return ""
	}
	notesTree, err := z.readXML(notesTarget)
	if err != nil {
		return ""
	}
	spTree := lookup(notesTree, "cSld", "spTree")
	if spTree == nil {
		return ""
	}
	var out string
	for _, sp := range spTree.Children("sp") {
		nv := sp.Child("nvSpPr")
		if nv == nil {
			continue
		}
		nvPr := nv.Child("nvPr")
		if nvPr == nil {
			continue
		}
		ph := nvPr.Child("ph")
		if ph == nil || ph.AttrOr("type", "") != "body" {
			continue
		}
		out += extractCellText(sp)
	}
	return out
}
