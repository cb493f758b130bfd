package pptxjson

import (
	"encoding/xml"
	"fmt"
	"io"
	"strings"
)

// XmlNode is a loosely-typed XML element: attributes plus an ordered list
// of children. Repeated child names simply appear multiple times in Kids;
// Children normalizes the "one vs many" ambiguity described in spec.md's
// design notes at the single place every other lookup goes through.
//
// Namespace prefixes are dropped: OOXML's namespace set is fixed and the
// teacher's own decoder (reader_slide.go) already switches on local names
// only (schemeClr, lumMod, sp, pic, ...), so this tree does the same.
type XmlNode struct {
	Name     string
	Attrs    map[string]string
	Kids     []*XmlNode
	CharData string
}

// parseXMLTree decodes an XML document into an XmlNode tree using a raw
// token loop, the same technique reader_slide.go uses to decode
// PresentationML (struct-tag unmarshalling can't express OOXML's
// order-independent, arbitrarily nested children).
func parseXMLTree(data []byte) (*XmlNode, error) {
	dec := xml.NewDecoder(strings.NewReader(string(data)))
	dec.Strict = false

	var root *XmlNode
	var stack []*XmlNode

	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("parse xml: %w", err)
		}
		switch t := tok.(type) {
		case xml.StartElement:
			node := &XmlNode{
				Name:  t.Name.Local,
				Attrs: make(map[string]string, len(t.Attr)),
			}
			for _, a := range t.Attr {
				key := a.Name.Local
				// OOXML attributes in the relationships namespace (r:id,
				// r:embed, ...) routinely share a local name with an
				// unrelated, unprefixed attribute on the same element
				// (e.g. <p:sldId id="256" r:id="rId2"/>). Keep the prefix
				// for that one namespace so the two don't collide.
				if strings.Contains(a.Name.Space, "relationships") {
					key = "r:" + key
				}
				node.Attrs[key] = a.Value
			}
			if len(stack) > 0 {
				parent := stack[len(stack)-1]
				parent.Kids = append(parent.Kids, node)
			} else if root == nil {
				root = node
			}
			stack = append(stack, node)
		case xml.EndElement:
			if len(stack) > 0 {
				stack = stack[:len(stack)-1]
			}
		case xml.CharData:
			if len(stack) > 0 {
				stack[len(stack)-1].CharData += string(t)
			}
		}
	}
	if root == nil {
		return nil, fmt.Errorf("parse xml: empty document")
	}
	return root, nil
}

// substituteDiagramNamespace rewrites the dsp: namespace prefix to p: in
// the raw diagram drawing XML so the same shape dispatcher used for slides
// can walk diagram shapes without special-casing. This is applied to the
// serialized bytes, per spec.md's documented (not schema-aware) behavior.
func substituteDiagramNamespace(data []byte) []byte {
	s := string(data)
	s = strings.ReplaceAll(s, "dsp:", "p:")
	return []byte(s)
}

// Children returns all direct children with the given local name, or nil.
func (n *XmlNode) Children(name string) []*XmlNode {
	if n == nil {
		return nil
	}
	var out []*XmlNode
	for _, k := range n.Kids {
		if k.Name == name {
			out = append(out, k)
		}
	}
	return out
}

// Child returns the first direct child with the given local name, or nil.
func (n *XmlNode) Child(name string) *XmlNode {
	if n == nil {
		return nil
	}
	for _, k := range n.Kids {
		if k.Name == name {
			return k
		}
	}
	return nil
}

// Attr returns an attribute value and whether it was present.
func (n *XmlNode) Attr(name string) (string, bool) {
	if n == nil || n.Attrs == nil {
		return "", false
	}
	v, ok := n.Attrs[name]
	return v, ok
}

// AttrOr returns an attribute value, or def if absent.
func (n *XmlNode) AttrOr(name, def string) string {
	if v, ok := n.Attr(name); ok {
		return v
	}
	return def
}

// lookup walks successive child names, returning nil on the first missing
// step. It is the XmlNode analogue of spec.md C1's `lookup(tree, [keys])`;
// Go's static typing means the "path argument is not a sequence" error case
// from the source has no equivalent here.
func lookup(n *XmlNode, path ...string) *XmlNode {
	cur := n
	for _, key := range path {
		if cur == nil {
			return nil
		}
		cur = cur.Child(key)
	}
	return cur
}
