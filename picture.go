package pptxjson

// buildPicture implements the p:pic handler from spec.md §4.7's
// dispatch table: a picture's blip target's extension decides whether
// it's emitted as image, video, or audio. Video/audio media ship as a
// blob (object-URL-shaped data URL, matching the teacher's external-vs-
// embedded Hyperlink split in spirit) or, for an external-URL target,
// as src verbatim.
func buildPicture(node *XmlNode, warp *WarpContext) Element {
	nv := node.Child("nvPicPr")
	spPr := node.Child("spPr")
	var slideXfrm *XmlNode
	if spPr != nil {
		slideXfrm = spPr.Child("xfrm")
	}
	rect := resolveXfrmChain(slideXfrm, nil, nil)

	el := Element{
		Left: rect.Left, Top: rect.Top, Width: rect.Width, Height: rect.Height,
		Rotate: rect.Rotate, IsFlipH: rect.FlipH, IsFlipV: rect.FlipV,
		Name: shapeName(nv),
	}

	blipFill := node.Child("blipFill")
	if blipFill == nil {
		el.Type = "image"
		return el
	}
	blip := blipFill.Child("blip")
	if blip == nil {
		el.Type = "image"
		return el
	}

	rID, hasEmbed := blip.Attr("r:embed")
	rLink, hasLink := blip.Attr("r:link")

	switch {
	case hasEmbed:
		rel, ok := warp.SlideResObj[rID]
		if !ok {
			// reference-dangling: placeholder box, no media (spec.md §7).
			el.Type = "image"
			return el
		}
		ext := fileExt(rel.Target)
		switch {
		case isVideoExt(ext):
			el.Type = "video"
			el.Blob = mediaBlob(rel.Target, warp)
		case isAudioExt(ext):
			el.Type = "audio"
			el.Blob = mediaBlob(rel.Target, warp)
		default:
			el.Type = "image"
			el.Src = mediaBlob(rel.Target, warp)
		}
	case hasLink:
		rel, ok := warp.SlideResObj[rLink]
		target := rLink
		if ok {
			target = rel.Target
		}
		if isVideoURL(target) {
			el.Type = "video"
			el.Src = target
		} else if isAudioExt(fileExt(target)) {
			el.Type = "audio"
			el.Src = target
		} else {
			el.Type = "image"
			el.Src = target
		}
	default:
		el.Type = "image"
	}
	return el
}

func mediaBlob(target string, warp *WarpContext) string {
	if cached, ok := warp.ImageCache[target]; ok {
		return cached
	}
	data, err := warp.Zip.read(target)
	if err != nil {
		return ""
	}
	out := dataURL(mimeOfData(fileExt(target), data), data)
	warp.ImageCache[target] = out
	return out
}
