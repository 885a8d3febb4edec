// Copyright 2025 Kadir Pekel
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package document

import (
	"encoding/xml"
	"math"
	"strconv"
	"strings"
)

// FontSize is a font size in half-points, the unit of w:sz.
type FontSize int

// Points converts a size in points to a FontSize.
func Points(pt float64) FontSize {
	return FontSize(math.Round(pt * 2))
}

// Points returns the size in points.
func (s FontSize) Points() float64 {
	return float64(s) / 2
}

// Run is a mutable view of one w:r element.
type Run struct {
	el     *Element
	parent *Element
	doc    *Document
}

// Text returns the run text held in its w:t elements.
func (r *Run) Text() string {
	var b strings.Builder
	for _, el := range r.textElements() {
		b.WriteString(elementText(el))
	}
	return b.String()
}

// textElements returns the run's w:t elements in order.
func (r *Run) textElements() []*Element {
	var out []*Element
	for _, el := range r.el.elements() {
		if r.doc.is(el, "t") {
			out = append(out, el)
		}
	}
	return out
}

func elementText(t *Element) string {
	var b strings.Builder
	for _, c := range t.Children {
		if cd, ok := c.(CharData); ok {
			b.WriteString(string(cd))
		}
	}
	return b.String()
}

// setElementText replaces the character data of a w:t element, marking
// leading or trailing spaces as significant.
func setElementText(t *Element, text string) {
	t.Children = nil
	if text != "" {
		t.Children = []Node{CharData(text)}
	}
	if text != strings.TrimSpace(text) {
		t.setAttr("xml", "space", "preserve")
	} else {
		t.removeAttr("xml", "space")
	}
}

// SetText replaces the run text. The text goes into the first w:t element,
// which is created when missing; further w:t elements are removed.
func (r *Run) SetText(text string) {
	var first *Element
	kept := r.el.Children[:0]
	for _, c := range r.el.Children {
		el, ok := c.(*Element)
		if ok && r.doc.is(el, "t") {
			if first != nil {
				continue
			}
			first = el
		}
		kept = append(kept, c)
	}
	r.el.Children = kept

	if first == nil {
		if text == "" {
			return
		}
		first = &Element{Name: xml.Name{Space: r.doc.w, Local: "t"}}
		r.el.Children = append(r.el.Children, first)
	}

	setElementText(first, text)
}

// FontSize returns the run's explicit font size, if it has one.
func (r *Run) FontSize() (FontSize, bool) {
	rPr := r.properties(false)
	if rPr == nil {
		return 0, false
	}
	for _, el := range rPr.elements() {
		if !r.doc.is(el, "sz") {
			continue
		}
		v, ok := el.attr(r.doc.w, "val")
		if !ok {
			return 0, false
		}
		n, err := strconv.Atoi(v)
		if err != nil {
			return 0, false
		}
		return FontSize(n), true
	}
	return 0, false
}

// SetFontSize sets w:sz and w:szCs on the run.
func (r *Run) SetFontSize(size FontSize) {
	rPr := r.properties(true)
	val := strconv.Itoa(int(size))
	for _, name := range []string{"sz", "szCs"} {
		el := r.property(rPr, name)
		el.setAttr(r.doc.w, "val", val)
	}
}

// properties returns w:rPr, creating it as the first child when create is set.
func (r *Run) properties(create bool) *Element {
	for _, el := range r.el.elements() {
		if r.doc.is(el, "rPr") {
			return el
		}
	}
	if !create {
		return nil
	}
	rPr := &Element{Name: xml.Name{Space: r.doc.w, Local: "rPr"}}
	r.el.Children = append([]Node{rPr}, r.el.Children...)
	return rPr
}

// runPropertyOrder is the CT_RPr child sequence; Word rejects out-of-order
// run properties.
var runPropertyOrder = []string{
	"rStyle", "rFonts", "b", "bCs", "i", "iCs", "caps", "smallCaps", "strike",
	"dstrike", "outline", "shadow", "emboss", "imprint", "noProof", "snapToGrid",
	"vanish", "webHidden", "color", "spacing", "w", "kern", "position", "sz",
	"szCs", "highlight", "u", "effect", "bdr", "shd", "fitText", "vertAlign",
	"rtl", "cs", "em", "lang", "eastAsianLayout", "specVanish", "oMath",
}

func propertyRank(local string) int {
	for i, name := range runPropertyOrder {
		if name == local {
			return i
		}
	}
	return len(runPropertyOrder)
}

// property finds the named child of rPr or inserts it in schema order.
func (r *Run) property(rPr *Element, local string) *Element {
	rank := propertyRank(local)
	insertAt := len(rPr.Children)
	for i, c := range rPr.Children {
		el, ok := c.(*Element)
		if !ok {
			continue
		}
		if r.doc.is(el, local) {
			return el
		}
		if el.Name.Space == r.doc.w && propertyRank(el.Name.Local) > rank && insertAt == len(rPr.Children) {
			insertAt = i
		}
	}

	el := &Element{Name: xml.Name{Space: r.doc.w, Local: local}}
	rPr.Children = append(rPr.Children, nil)
	copy(rPr.Children[insertAt+1:], rPr.Children[insertAt:])
	rPr.Children[insertAt] = el
	return el
}

// isEmpty reports whether the run carries nothing besides properties:
// no text element, tab, break, drawing or other content.
func (r *Run) isEmpty() bool {
	for _, el := range r.el.elements() {
		if !r.doc.is(el, "rPr") {
			return false
		}
	}
	return true
}

func (r *Run) remove() {
	r.parent.removeChild(r.el)
}
