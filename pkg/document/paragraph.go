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
	"strings"
)

// Kind distinguishes where a paragraph lives.
type Kind int

const (
	// FreeParagraph is a paragraph directly inside the document body.
	FreeParagraph Kind = iota
	// TableCellParagraph is a paragraph inside a table cell, at any nesting depth.
	TableCellParagraph
)

func (k Kind) String() string {
	switch k {
	case FreeParagraph:
		return "paragraph"
	case TableCellParagraph:
		return "table-cell"
	default:
		return "unknown"
	}
}

// Paragraph is a mutable view of one w:p element.
type Paragraph struct {
	Kind Kind
	// Table, Row and Cell locate a TableCellParagraph; they are -1 for free paragraphs.
	Table, Row, Cell int
	// Index is the position among the paragraphs of the same container.
	Index int

	el   *Element
	doc  *Document
	cell *Element
}

// WalkFunc is called for every paragraph visited by Walk.
// Returning an error stops the walk.
type WalkFunc func(p *Paragraph) error

// Walk visits every paragraph of the body in document order, descending into
// table rows and cells, including tables nested inside cells.
func (d *Document) Walk(fn WalkFunc) error {
	table := 0
	index := 0
	for _, el := range d.body.elements() {
		switch {
		case d.is(el, "p"):
			p := &Paragraph{Kind: FreeParagraph, Table: -1, Row: -1, Cell: -1, Index: index, el: el, doc: d}
			index++
			if err := fn(p); err != nil {
				return err
			}
		case d.is(el, "tbl"):
			if err := d.walkTable(el, table, fn); err != nil {
				return err
			}
			table++
		}
	}
	return nil
}

func (d *Document) walkTable(tbl *Element, table int, fn WalkFunc) error {
	row := 0
	for _, tr := range tbl.elements() {
		if !d.is(tr, "tr") {
			continue
		}
		cell := 0
		for _, tc := range tr.elements() {
			if !d.is(tc, "tc") {
				continue
			}
			if err := d.walkCell(tc, table, row, cell, fn); err != nil {
				return err
			}
			cell++
		}
		row++
	}
	return nil
}

func (d *Document) walkCell(tc *Element, table, row, cell int, fn WalkFunc) error {
	index := 0
	for _, el := range tc.elements() {
		switch {
		case d.is(el, "p"):
			p := &Paragraph{Kind: TableCellParagraph, Table: table, Row: row, Cell: cell, Index: index, el: el, doc: d, cell: tc}
			index++
			if err := fn(p); err != nil {
				return err
			}
		case d.is(el, "tbl"):
			if err := d.walkTable(el, table, fn); err != nil {
				return err
			}
		}
	}
	return nil
}

// Paragraphs returns every paragraph in Walk order.
func (d *Document) Paragraphs() []*Paragraph {
	var out []*Paragraph
	_ = d.Walk(func(p *Paragraph) error {
		out = append(out, p)
		return nil
	})
	return out
}

// runContainers are paragraph children whose runs count as paragraph text.
var runContainers = []string{"hyperlink", "smartTag", "ins", "fldSimple"}

// Runs returns the paragraph's runs in order, including runs wrapped in
// hyperlinks and similar inline containers.
func (p *Paragraph) Runs() []*Run {
	var runs []*Run
	for _, el := range p.el.elements() {
		if p.doc.is(el, "r") {
			runs = append(runs, &Run{el: el, parent: p.el, doc: p.doc})
			continue
		}
		for _, name := range runContainers {
			if !p.doc.is(el, name) {
				continue
			}
			for _, inner := range el.elements() {
				if p.doc.is(inner, "r") {
					runs = append(runs, &Run{el: inner, parent: el, doc: p.doc})
				}
			}
		}
	}
	return runs
}

// Text returns the concatenated text of all runs.
func (p *Paragraph) Text() string {
	var b strings.Builder
	for _, r := range p.Runs() {
		b.WriteString(r.Text())
	}
	return b.String()
}

// FirstInCell returns the first paragraph of the cell holding p, or nil
// for free paragraphs.
func (p *Paragraph) FirstInCell() *Paragraph {
	if p.cell == nil {
		return nil
	}
	for _, el := range p.cell.elements() {
		if p.doc.is(el, "p") {
			return &Paragraph{Kind: TableCellParagraph, Table: p.Table, Row: p.Row, Cell: p.Cell, Index: 0, el: el, doc: p.doc, cell: p.cell}
		}
	}
	return nil
}

// textSegment is one w:t element and the run holding it.
type textSegment struct {
	run *Run
	t   *Element
}

// segments returns every w:t element of the paragraph in order.
func (p *Paragraph) segments() []textSegment {
	var segs []textSegment
	for _, r := range p.Runs() {
		for _, t := range r.textElements() {
			segs = append(segs, textSegment{run: r, t: t})
		}
	}
	return segs
}

// ReplaceAll replaces every non-overlapping occurrence of old in the
// paragraph text with replacement and returns the number of occurrences.
//
// Matching runs over the flattened paragraph text, so a token split across
// several runs or text elements is still found. The replacement is written
// into the text element where the match starts; characters of the match
// held by later text elements are removed from them. Text elements emptied
// this way are dropped, and so are runs left with nothing but properties.
// Tabs, breaks and text outside the matches keep their place and formatting.
func (p *Paragraph) ReplaceAll(old, replacement string) int {
	if old == "" {
		return 0
	}

	segs := p.segments()
	texts := make([]string, len(segs))
	var b strings.Builder
	for i, seg := range segs {
		texts[i] = elementText(seg.t)
		b.WriteString(texts[i])
	}
	full := b.String()

	var matches [][2]int
	for i := 0; i <= len(full); {
		j := strings.Index(full[i:], old)
		if j < 0 {
			break
		}
		start := i + j
		matches = append(matches, [2]int{start, start + len(old)})
		i = start + len(old)
	}
	if len(matches) == 0 {
		return 0
	}

	var emptied []*Run
	offset, m := 0, 0
	for i, text := range texts {
		start, end := offset, offset+len(text)
		offset = end

		var out strings.Builder
		for k := start; k < end; {
			for m < len(matches) && matches[m][1] <= k {
				m++
			}
			if m < len(matches) && matches[m][0] <= k {
				if matches[m][0] == k {
					out.WriteString(replacement)
				}
				k = min(end, matches[m][1])
				continue
			}
			next := end
			if m < len(matches) && matches[m][0] < end {
				next = matches[m][0]
			}
			out.WriteString(full[k:next])
			k = next
		}

		updated := out.String()
		if updated == text {
			continue
		}
		seg := segs[i]
		if updated != "" {
			setElementText(seg.t, updated)
			continue
		}
		seg.run.el.removeChild(seg.t)
		if len(emptied) == 0 || emptied[len(emptied)-1] != seg.run {
			emptied = append(emptied, seg.run)
		}
	}

	for _, r := range emptied {
		if r.isEmpty() {
			r.remove()
		}
	}

	return len(matches)
}
