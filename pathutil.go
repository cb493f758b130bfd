package pptxjson

import (
	"encoding/base64"
	"fmt"
	"math"
	"path"
	"regexp"
	"strconv"
	"strings"

	"github.com/gabriel-vasile/mimetype"
)

// EMU/angle/percentage constants, per spec.md §3 and §6.
const (
	emuPerPoint  = 12700
	emuToPoint   = 1.0 / emuPerPoint
	angleDenom   = 60000.0
	percentDenom = 100000.0
	gradPosDenom = 1000.0
)

// emuToPt converts an EMU length (as found in a:off/a:ext attributes) to
// points, the unit every emitted coordinate in the output uses.
func emuToPt(emu int64) float64 {
	return float64(emu) * emuToPoint
}

// parseEMU parses an OOXML length attribute (a plain decimal integer,
// given in EMU) into an int64. Returns 0 on a missing or malformed value —
// utility-level failures return falsy sentinels per spec.md §7.
func parseEMU(s string) int64 {
	v, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0
	}
	return v
}

// angleToDegrees rounds an OOXML 60000ths-of-a-degree angle to signed
// whole degrees. "" or an unparsable value yields 0, matching the
// source's "0 for null/absent" rule.
func angleToDegrees(s string) int {
	if s == "" {
		return 0
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return int(math.Round(v / angleDenom))
}

// percentVal parses a val/100000 style OOXML percentage attribute into a
// 0..1+ float64 (callers clamp where the spec requires it). Returns
// (0, false) when absent or malformed.
func percentVal(s string) (float64, bool) {
	if s == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return v / percentDenom, true
}

// base64Encode is a thin wrapper documenting the "streaming 3-byte-group"
// contract from spec.md §4.1; Go's stdlib encoder already streams groups
// of three bytes internally, so there is nothing to hand-roll here.
func base64Encode(b []byte) string {
	return base64.StdEncoding.EncodeToString(b)
}

// hexByte renders n (0-255) as two zero-padded hex digits.
func hexByte(n int) string {
	if n < 0 {
		n = 0
	}
	if n > 255 {
		n = 255
	}
	return fmt.Sprintf("%02x", n)
}

// closed MIME table, per spec.md §6.
var mimeByExt = map[string]string{
	"jpg":  "image/jpeg",
	"jpeg": "image/jpeg",
	"png":  "image/png",
	"gif":  "image/gif",
	"svg":  "image/svg+xml",
	"tif":  "image/tiff",
	"tiff": "image/tiff",
	"emf":  "image/x-emf",
	"wmf":  "image/x-wmf",
	"mp4":  "video/mp4",
	"webm": "video/webm",
	"ogg":  "video/ogg",
	"avi":  "video/avi",
	"mpg":  "video/mpg",
	"wmv":  "video/wmv",
	"mp3":  "audio/mpeg",
	"wav":  "audio/wav",
}

// mimeOf maps a file extension (without the leading dot, any case) to its
// MIME type from the closed set in spec.md §6. Unknown extensions yield "".
func mimeOf(ext string) string {
	return mimeByExt[strings.ToLower(strings.TrimPrefix(ext, "."))]
}

// mimeOfData is mimeOf's fallback for media relationship targets whose
// extension is absent from the closed table (real OOXML packages
// occasionally store a part like "ppt/media/image7" with no extension):
// content-sniffs the bytes instead of returning "".
func mimeOfData(ext string, data []byte) string {
	if m := mimeOf(ext); m != "" {
		return m
	}
	return mimetype.Detect(data).String()
}

// fileExt returns the lowercase extension of name, without the dot.
func fileExt(name string) string {
	ext := path.Ext(name)
	return strings.ToLower(strings.TrimPrefix(ext, "."))
}

// isImageExt reports whether ext (no dot) is one of the raster/vector
// image extensions in the closed MIME table.
func isImageExt(ext string) bool {
	switch strings.ToLower(ext) {
	case "jpg", "jpeg", "png", "gif", "svg", "tif", "tiff", "emf", "wmf":
		return true
	}
	return false
}

func isVideoExt(ext string) bool {
	switch strings.ToLower(ext) {
	case "mp4", "webm", "ogg", "avi", "mpg", "wmv":
		return true
	}
	return false
}

func isAudioExt(ext string) bool {
	switch strings.ToLower(ext) {
	case "mp3", "wav":
		return true
	}
	return false
}

var videoURLPattern = regexp.MustCompile(`(?i)^(https?|ftp)://[^\s]+\.(mp4|webm|ogg|avi|mpg|mpeg|mov|wmv)(\?[^\s]*)?$`)

// isVideoURL reports whether s looks like an HTTP/FTP URL pointing at a
// known video file, per spec.md §4.1's "closed TLD set" note (closed in
// the sense of a closed extension set, matched here rather than a TLD
// list — an external video URL is identified by its file extension, not
// its host).
func isVideoURL(s string) bool {
	return videoURLPattern.MatchString(s)
}

// htmlEscape escapes the five characters that are unsafe to place
// literally inside HTML text/attribute content.
func htmlEscape(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		switch r {
		case '&':
			b.WriteString("&amp;")
		case '<':
			b.WriteString("&lt;")
		case '>':
			b.WriteString("&gt;")
		case '"':
			b.WriteString("&quot;")
		case '\'':
			b.WriteString("&#39;")
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}

// dataURL builds a data: URL for the given MIME type and raw bytes.
func dataURL(mime string, data []byte) string {
	if mime == "" {
		mime = "application/octet-stream"
	}
	return "data:" + mime + ";base64," + base64Encode(data)
}

// normalizeTarget resolves an OOXML relationship Target (which may be
// relative, e.g. "../media/image1.png" from within ppt/slides/_rels/) into
// a package-rooted path such as "ppt/media/image1.png".
func normalizeTarget(base, target string) string {
	if strings.HasPrefix(target, "/") {
		return strings.TrimPrefix(target, "/")
	}
	dir := path.Dir(base)
	return path.Clean(path.Join(dir, target))
}
