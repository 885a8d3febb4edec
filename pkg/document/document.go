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

// Package document loads Word (.docx) documents into a mutable tree of
// paragraphs, table cells and runs, and writes the mutated tree back out.
//
// The .docx container itself is handled by github.com/nguyenthenguyen/docx;
// this package only rewrites the main document part (word/document.xml).
package document

import (
	"bytes"
	"fmt"
	"log/slog"
	"strings"

	"github.com/nguyenthenguyen/docx"
)

// WordNamespace is the WordprocessingML main namespace.
const WordNamespace = "http://schemas.openxmlformats.org/wordprocessingml/2006/main"

// Document is an in-memory Word document.
//
// A Document is not safe for concurrent use. Callers that need the same
// template in several goroutines must load one Document per goroutine.
type Document struct {
	name   string
	nodes  []Node
	root   *Element
	body   *Element
	w      string
	source *docx.ReplaceDocx
}

// Parse builds a Document from the raw main document part.
// The returned Document cannot be saved; use Open or FromBytes for that.
func Parse(content string) (*Document, error) {
	return parse("", content)
}

func parse(name, content string) (*Document, error) {
	nodes, err := parseMarkup(content)
	if err != nil {
		return nil, &TemplateStructureError{Path: name, Reason: "malformed document part", Err: err}
	}

	d := &Document{name: name, nodes: nodes}
	for _, n := range nodes {
		if el, ok := n.(*Element); ok {
			d.root = el
			break
		}
	}
	if d.root == nil || d.root.Name.Local != "document" {
		return nil, &TemplateStructureError{Path: name, Reason: "missing document element"}
	}

	d.w = wordPrefix(d.root)
	for _, el := range d.root.elements() {
		if d.is(el, "body") {
			d.body = el
			break
		}
	}
	if d.body == nil {
		return nil, &TemplateStructureError{Path: name, Reason: "missing document body"}
	}
	return d, nil
}

// wordPrefix finds the prefix bound to the WordprocessingML namespace.
func wordPrefix(root *Element) string {
	for _, a := range root.Attr {
		if a.Value != WordNamespace {
			continue
		}
		if a.Name.Space == "xmlns" {
			return a.Name.Local
		}
		if a.Name.Space == "" && a.Name.Local == "xmlns" {
			return ""
		}
	}
	return root.Name.Space
}

// Open reads a .docx file. The file is only read; Save always writes
// to a separate path.
func Open(path string) (*Document, error) {
	src, err := docx.ReadDocxFile(path)
	if err != nil {
		return nil, &TemplateStructureError{Path: path, Reason: "unreadable docx", Err: err}
	}
	return fromSource(path, src)
}

// FromBytes reads a .docx held in memory. name is only used in errors.
func FromBytes(name string, data []byte) (*Document, error) {
	src, err := docx.ReadDocxFromMemory(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, &TemplateStructureError{Path: name, Reason: "unreadable docx", Err: err}
	}
	return fromSource(name, src)
}

func fromSource(name string, src *docx.ReplaceDocx) (*Document, error) {
	d, err := parse(name, src.Editable().GetContent())
	if err != nil {
		src.Close()
		return nil, err
	}
	d.source = src
	return d, nil
}

// Name returns the path or name the document was loaded from.
func (d *Document) Name() string {
	return d.name
}

// XML serializes the main document part.
func (d *Document) XML() string {
	var b strings.Builder
	for _, n := range d.nodes {
		n.writeTo(&b)
	}
	return b.String()
}

// Save writes the document, with every other package part copied from the
// source container, to path. An existing file at path is replaced.
func (d *Document) Save(path string) error {
	if d.source == nil {
		return fmt.Errorf("document %q has no source container", d.name)
	}

	editable := d.source.Editable()
	editable.SetContent(d.XML())
	if err := editable.WriteToFile(path); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}

	slog.Debug("Saved document", "source", d.name, "path", path)
	return nil
}

// Close releases the source container.
func (d *Document) Close() error {
	if d.source == nil {
		return nil
	}
	return d.source.Close()
}

// CheckStructure reports a TemplateStructureError when the body holds
// neither paragraphs nor tables.
func (d *Document) CheckStructure() error {
	for _, el := range d.body.elements() {
		if d.is(el, "p") || d.is(el, "tbl") {
			return nil
		}
	}
	return &TemplateStructureError{Path: d.name, Reason: "document has no paragraphs or tables"}
}

// is reports whether el is the WordprocessingML element with the given local name.
func (d *Document) is(el *Element, local string) bool {
	return el.Name.Space == d.w && el.Name.Local == local
}
