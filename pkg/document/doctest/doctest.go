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

// Package doctest builds minimal .docx packages for tests.
package doctest

import (
	"archive/zip"
	"bytes"
	"os"
	"strings"
	"testing"
)

const contentTypes = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<Types xmlns="http://schemas.openxmlformats.org/package/2006/content-types"><Default Extension="rels" ContentType="application/vnd.openxmlformats-package.relationships+xml"/><Default Extension="xml" ContentType="application/xml"/><Override PartName="/word/document.xml" ContentType="application/vnd.openxmlformats-officedocument.wordprocessingml.document.main+xml"/></Types>`

const packageRels = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships"><Relationship Id="rId1" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/officeDocument" Target="word/document.xml"/></Relationships>`

const documentRels = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships"></Relationships>`

// Header is the XML declaration and opening tags of a main document part.
const Header = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main"><w:body>`

// Footer closes a part opened with Header.
const Footer = `<w:sectPr/></w:body></w:document>`

// Part wraps body markup into a complete main document part.
func Part(body ...string) string {
	return Header + strings.Join(body, "") + Footer
}

// Run renders a plain run.
func Run(text string) string {
	return `<w:r><w:t xml:space="preserve">` + escape(text) + `</w:t></w:r>`
}

// SizedRun renders a bold run with an explicit size in half-points.
func SizedRun(text, halfPoints string) string {
	return `<w:r><w:rPr><w:b/><w:sz w:val="` + halfPoints + `"/></w:rPr><w:t xml:space="preserve">` + escape(text) + `</w:t></w:r>`
}

// Paragraph renders a paragraph holding the given runs.
func Paragraph(runs ...string) string {
	return `<w:p>` + strings.Join(runs, "") + `</w:p>`
}

// Cell renders a table cell holding the given paragraphs.
func Cell(paragraphs ...string) string {
	return `<w:tc><w:tcPr><w:tcW w:w="2000" w:type="dxa"/></w:tcPr>` + strings.Join(paragraphs, "") + `</w:tc>`
}

// Table renders a table; each row is a list of cells.
func Table(rows ...[]string) string {
	var b strings.Builder
	b.WriteString(`<w:tbl><w:tblPr/>`)
	for _, row := range rows {
		b.WriteString(`<w:tr>`)
		for _, cell := range row {
			b.WriteString(cell)
		}
		b.WriteString(`</w:tr>`)
	}
	b.WriteString(`</w:tbl>`)
	return b.String()
}

// Build packs a main document part into a .docx container.
func Build(t testing.TB, part string) []byte {
	t.Helper()

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	files := []struct{ name, body string }{
		{"[Content_Types].xml", contentTypes},
		{"_rels/.rels", packageRels},
		{"word/_rels/document.xml.rels", documentRels},
		{"word/document.xml", part},
	}
	for _, f := range files {
		w, err := zw.Create(f.name)
		if err != nil {
			t.Fatalf("failed to create %s: %v", f.name, err)
		}
		if _, err := w.Write([]byte(f.body)); err != nil {
			t.Fatalf("failed to write %s: %v", f.name, err)
		}
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("failed to close docx: %v", err)
	}
	return buf.Bytes()
}

// WriteFile builds a .docx and writes it to path.
func WriteFile(t testing.TB, path, part string) {
	t.Helper()
	if err := os.WriteFile(path, Build(t, part), 0644); err != nil {
		t.Fatalf("failed to write %s: %v", path, err)
	}
}

// MainPart extracts word/document.xml from a .docx file.
func MainPart(t testing.TB, path string) string {
	t.Helper()

	zr, err := zip.OpenReader(path)
	if err != nil {
		t.Fatalf("failed to open %s: %v", path, err)
	}
	defer zr.Close()

	for _, f := range zr.File {
		if f.Name != "word/document.xml" {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			t.Fatalf("failed to open document part: %v", err)
		}
		defer rc.Close()
		var buf bytes.Buffer
		if _, err := buf.ReadFrom(rc); err != nil {
			t.Fatalf("failed to read document part: %v", err)
		}
		return buf.String()
	}
	t.Fatalf("%s has no word/document.xml", path)
	return ""
}

var escaper = strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;")

func escape(s string) string {
	return escaper.Replace(s)
}
