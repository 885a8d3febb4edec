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

package document_test

import (
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kadirpekel/welcomer/pkg/document"
	"github.com/kadirpekel/welcomer/pkg/document/doctest"
)

func texts(d *document.Document) []string {
	var out []string
	for _, p := range d.Paragraphs() {
		out = append(out, p.Text())
	}
	return out
}

func TestParse_RoundTrip(t *testing.T) {
	part := doctest.Part(
		doctest.Paragraph(doctest.Run("Hello "), doctest.SizedRun("World", "24")),
		`<!-- note -->`,
		doctest.Table([]string{doctest.Cell(doctest.Paragraph(doctest.Run("a & b")))}),
	)

	d, err := document.Parse(part)
	require.NoError(t, err)

	again, err := document.Parse(d.XML())
	require.NoError(t, err)
	assert.Equal(t, d.XML(), again.XML())
	assert.Equal(t, []string{"Hello World", "a & b"}, texts(again))
	assert.Contains(t, d.XML(), "<!-- note -->")
	assert.True(t, strings.HasPrefix(d.XML(), `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>`))
}

func TestParse_StructureErrors(t *testing.T) {
	tests := []struct {
		name string
		part string
	}{
		{"malformed", `<w:document><w:body>`},
		{"no document element", `<?xml version="1.0"?><root/>`},
		{"no body", `<w:document xmlns:w="` + document.WordNamespace + `"></w:document>`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := document.Parse(tt.part)
			var structErr *document.TemplateStructureError
			require.True(t, errors.As(err, &structErr), "got %v", err)
		})
	}
}

func TestCheckStructure(t *testing.T) {
	empty, err := document.Parse(doctest.Part())
	require.NoError(t, err)
	var structErr *document.TemplateStructureError
	assert.True(t, errors.As(empty.CheckStructure(), &structErr))

	onlyTable, err := document.Parse(doctest.Part(doctest.Table([]string{doctest.Cell()})))
	require.NoError(t, err)
	assert.NoError(t, onlyTable.CheckStructure())
}

func TestWalk_KindsAndPositions(t *testing.T) {
	nested := doctest.Table([]string{doctest.Cell(doctest.Paragraph(doctest.Run("inner")))})
	part := doctest.Part(
		doctest.Paragraph(doctest.Run("first")),
		doctest.Table(
			[]string{doctest.Cell(doctest.Paragraph(doctest.Run("r0c0"))), doctest.Cell(doctest.Paragraph(doctest.Run("r0c1")))},
			[]string{doctest.Cell(doctest.Paragraph(doctest.Run("r1c0a")), doctest.Paragraph(doctest.Run("r1c0b")), nested)},
		),
		doctest.Paragraph(doctest.Run("last")),
	)

	d, err := document.Parse(part)
	require.NoError(t, err)

	var got []string
	require.NoError(t, d.Walk(func(p *document.Paragraph) error {
		got = append(got, p.Kind.String()+":"+p.Text())
		return nil
	}))
	assert.Equal(t, []string{
		"paragraph:first",
		"table-cell:r0c0",
		"table-cell:r0c1",
		"table-cell:r1c0a",
		"table-cell:r1c0b",
		"table-cell:inner",
		"paragraph:last",
	}, got)

	ps := d.Paragraphs()
	assert.Equal(t, -1, ps[0].Table)
	assert.Equal(t, 1, ps[4].Row)
	assert.Equal(t, 1, ps[4].Index)
	assert.Equal(t, "r1c0a", ps[4].FirstInCell().Text())
	assert.Nil(t, ps[0].FirstInCell())
}

func TestWalk_StopsOnError(t *testing.T) {
	d, err := document.Parse(doctest.Part(doctest.Paragraph(), doctest.Paragraph()))
	require.NoError(t, err)

	stop := errors.New("stop")
	calls := 0
	err = d.Walk(func(p *document.Paragraph) error {
		calls++
		return stop
	})
	assert.ErrorIs(t, err, stop)
	assert.Equal(t, 1, calls)
}

func TestReplaceAll(t *testing.T) {
	tests := []struct {
		name     string
		runs     []string
		old, new string
		want     string
		count    int
		runCount int
	}{
		{"single run", []string{"Dear <<Name>>,"}, "<<Name>>", "Jane", "Dear Jane,", 1, 1},
		{"all occurrences", []string{"<<X>> and <<X>>"}, "<<X>>", "y", "y and y", 2, 1},
		{"split across runs", []string{"Dear <<Na", "me>>", ", hi"}, "<<Name>>", "Jane", "Dear Jane, hi", 1, 2},
		{"token fills a run", []string{"Dear ", "<<Name>>", "!"}, "<<Name>>", "", "Dear !", 1, 2},
		{"no match", []string{"plain"}, "<<Name>>", "Jane", "plain", 0, 1},
		{"empty needle", []string{"plain"}, "", "x", "plain", 0, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var runs []string
			for _, r := range tt.runs {
				runs = append(runs, doctest.Run(r))
			}
			d, err := document.Parse(doctest.Part(doctest.Paragraph(runs...)))
			require.NoError(t, err)

			p := d.Paragraphs()[0]
			assert.Equal(t, tt.count, p.ReplaceAll(tt.old, tt.new))
			assert.Equal(t, tt.want, p.Text())
			assert.Len(t, p.Runs(), tt.runCount)
		})
	}
}

func TestReplaceAll_KeepsSurroundingFormatting(t *testing.T) {
	d, err := document.Parse(doctest.Part(doctest.Paragraph(
		doctest.SizedRun("Bold ", "28"),
		doctest.Run("<<Name>>"),
		doctest.SizedRun(" tail", "20"),
	)))
	require.NoError(t, err)

	p := d.Paragraphs()[0]
	p.ReplaceAll("<<Name>>", "Jane")

	runs := p.Runs()
	require.Len(t, runs, 3)
	size, ok := runs[0].FontSize()
	require.True(t, ok)
	assert.Equal(t, document.FontSize(28), size)
	assert.Equal(t, "Jane", runs[1].Text())
	size, ok = runs[2].FontSize()
	require.True(t, ok)
	assert.Equal(t, document.FontSize(20), size)
}

func TestReplaceAll_KeepsRunsWithOtherContent(t *testing.T) {
	d, err := document.Parse(doctest.Part(`<w:p><w:r><w:t>&lt;&lt;A</w:t></w:r><w:r><w:tab/><w:t>&gt;&gt;</w:t></w:r></w:p>`))
	require.NoError(t, err)

	p := d.Paragraphs()[0]
	assert.Equal(t, 1, p.ReplaceAll("<<A>>", "v"))
	assert.Equal(t, "v", p.Text())
	assert.Len(t, p.Runs(), 2)
	assert.Contains(t, d.XML(), "<w:tab/>")
}

func TestReplaceAll_KeepsBreaksAndTabsInPlace(t *testing.T) {
	tests := []struct {
		name string
		part string
		old  string
		new  string
		want string
	}{
		{
			name: "break before token",
			part: `<w:p><w:r><w:t>Dear</w:t><w:br/><w:t>&lt;&lt;Client Name&gt;&gt;</w:t></w:r></w:p>`,
			old:  "<<Client Name>>",
			new:  "Jane Doe",
			want: `<w:r><w:t>Dear</w:t><w:br/><w:t>Jane Doe</w:t></w:r>`,
		},
		{
			name: "tab after label",
			part: `<w:p><w:r><w:t>Mobile:</w:t><w:tab/><w:t>&lt;&lt;Mobile&gt;&gt;</w:t><w:cr/><w:t>end</w:t></w:r></w:p>`,
			old:  "<<Mobile>>",
			new:  "+919876543210",
			want: `<w:r><w:t>Mobile:</w:t><w:tab/><w:t>+919876543210</w:t><w:cr/><w:t>end</w:t></w:r>`,
		},
		{
			name: "token split around a break",
			part: `<w:p><w:r><w:t>a &lt;&lt;X</w:t><w:br/><w:t>&gt;&gt; b</w:t></w:r></w:p>`,
			old:  "<<X>>",
			new:  "y",
			want: `<w:r><w:t>a y</w:t><w:br/><w:t xml:space="preserve"> b</w:t></w:r>`,
		},
		{
			name: "emptied text element is dropped",
			part: `<w:p><w:r><w:t>Dear</w:t><w:br/><w:t>&lt;&lt;X&gt;&gt;</w:t></w:r></w:p>`,
			old:  "<<X>>",
			new:  "",
			want: `<w:r><w:t>Dear</w:t><w:br/></w:r>`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, err := document.Parse(doctest.Part(tt.part))
			require.NoError(t, err)

			p := d.Paragraphs()[0]
			assert.Equal(t, 1, p.ReplaceAll(tt.old, tt.new))
			assert.Contains(t, d.XML(), tt.want)
			assert.Len(t, p.Runs(), 1)
		})
	}
}

func TestRun_SetFontSizeOrder(t *testing.T) {
	d, err := document.Parse(doctest.Part(`<w:p><w:r><w:rPr><w:b/><w:u w:val="single"/></w:rPr><w:t>x</w:t></w:r><w:r><w:t>y</w:t></w:r></w:p>`))
	require.NoError(t, err)

	for _, r := range d.Paragraphs()[0].Runs() {
		r.SetFontSize(document.Points(9))
	}

	xml := d.XML()
	assert.Contains(t, xml, `<w:rPr><w:b/><w:sz w:val="18"/><w:szCs w:val="18"/><w:u w:val="single"/></w:rPr>`)
	assert.Contains(t, xml, `<w:r><w:rPr><w:sz w:val="18"/><w:szCs w:val="18"/></w:rPr><w:t>y</w:t></w:r>`)
	assert.Equal(t, 9.0, document.FontSize(18).Points())
}

func TestRun_SetTextPreservesSpaces(t *testing.T) {
	d, err := document.Parse(doctest.Part(`<w:p><w:r><w:t>a</w:t><w:t>b</w:t></w:r></w:p>`))
	require.NoError(t, err)

	r := d.Paragraphs()[0].Runs()[0]
	r.SetText(" padded ")
	assert.Equal(t, " padded ", r.Text())
	assert.Contains(t, d.XML(), `<w:t xml:space="preserve"> padded </w:t>`)
	assert.Equal(t, 1, strings.Count(d.XML(), "<w:t"))
}

func TestRuns_IncludeHyperlinks(t *testing.T) {
	d, err := document.Parse(doctest.Part(`<w:p><w:r><w:t>see </w:t></w:r><w:hyperlink><w:r><w:t>&lt;&lt;Link&gt;&gt;</w:t></w:r></w:hyperlink></w:p>`))
	require.NoError(t, err)

	p := d.Paragraphs()[0]
	assert.Equal(t, "see <<Link>>", p.Text())
	assert.Equal(t, 1, p.ReplaceAll("<<Link>>", "here"))
	assert.Equal(t, "see here", p.Text())
}

func TestWordPrefix_DefaultNamespace(t *testing.T) {
	part := `<document xmlns="` + document.WordNamespace + `"><body><p><r><t>hi</t></r></p></body></document>`
	d, err := document.Parse(part)
	require.NoError(t, err)
	assert.Equal(t, []string{"hi"}, texts(d))
}

func TestOpenSave(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "template.docx")
	dst := filepath.Join(dir, "out.docx")
	doctest.WriteFile(t, src, doctest.Part(doctest.Paragraph(doctest.Run("Hello <<Name>>"))))

	d, err := document.Open(src)
	require.NoError(t, err)
	defer d.Close()
	assert.Equal(t, src, d.Name())

	d.Paragraphs()[0].ReplaceAll("<<Name>>", "Jane")
	require.NoError(t, d.Save(dst))

	assert.Contains(t, doctest.MainPart(t, dst), "Hello Jane")
	assert.Contains(t, doctest.MainPart(t, src), "Hello &lt;&lt;Name&gt;&gt;")
}

func TestFromBytes(t *testing.T) {
	data := doctest.Build(t, doctest.Part(doctest.Paragraph(doctest.Run("x"))))
	d, err := document.FromBytes("mem.docx", data)
	require.NoError(t, err)
	defer d.Close()
	assert.Equal(t, []string{"x"}, texts(d))

	_, err = document.FromBytes("junk.docx", []byte("not a zip"))
	var structErr *document.TemplateStructureError
	assert.True(t, errors.As(err, &structErr))
}

func TestSave_WithoutSource(t *testing.T) {
	d, err := document.Parse(doctest.Part(doctest.Paragraph()))
	require.NoError(t, err)
	assert.Error(t, d.Save(filepath.Join(t.TempDir(), "x.docx")))
	assert.NoError(t, d.Close())
}
