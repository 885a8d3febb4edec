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
	"errors"
	"fmt"
	"io"
	"strings"
)

// Node is one piece of parsed markup. Namespace prefixes are kept verbatim
// so that a parsed part serializes back to equivalent markup.
type Node interface {
	writeTo(b *strings.Builder)
}

// Element is a markup element with its raw (prefixed) name.
type Element struct {
	Name     xml.Name
	Attr     []xml.Attr
	Children []Node
}

// CharData is decoded character data.
type CharData string

// Comment is an XML comment.
type Comment string

// ProcInst is a processing instruction such as the XML declaration.
type ProcInst struct {
	Target string
	Inst   string
}

// Directive is a <!...> directive.
type Directive string

var (
	textEscaper = strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;", "\r", "&#xD;")
	attrEscaper = strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;", `"`, "&quot;",
		"\n", "&#xA;", "\r", "&#xD;", "\t", "&#x9;")
)

func qualified(n xml.Name) string {
	if n.Space == "" {
		return n.Local
	}
	return n.Space + ":" + n.Local
}

func (e *Element) writeTo(b *strings.Builder) {
	name := qualified(e.Name)
	b.WriteByte('<')
	b.WriteString(name)
	for _, a := range e.Attr {
		b.WriteByte(' ')
		b.WriteString(qualified(a.Name))
		b.WriteString(`="`)
		b.WriteString(attrEscaper.Replace(a.Value))
		b.WriteByte('"')
	}
	if len(e.Children) == 0 {
		b.WriteString("/>")
		return
	}
	b.WriteByte('>')
	for _, c := range e.Children {
		c.writeTo(b)
	}
	b.WriteString("</")
	b.WriteString(name)
	b.WriteByte('>')
}

func (c CharData) writeTo(b *strings.Builder) {
	b.WriteString(textEscaper.Replace(string(c)))
}

func (c Comment) writeTo(b *strings.Builder) {
	b.WriteString("<!--")
	b.WriteString(string(c))
	b.WriteString("-->")
}

func (p ProcInst) writeTo(b *strings.Builder) {
	b.WriteString("<?")
	b.WriteString(p.Target)
	if p.Inst != "" {
		b.WriteByte(' ')
		b.WriteString(p.Inst)
	}
	b.WriteString("?>")
}

func (d Directive) writeTo(b *strings.Builder) {
	b.WriteString("<!")
	b.WriteString(string(d))
	b.WriteByte('>')
}

// attr returns the value of the attribute with the given raw name.
func (e *Element) attr(space, local string) (string, bool) {
	for _, a := range e.Attr {
		if a.Name.Space == space && a.Name.Local == local {
			return a.Value, true
		}
	}
	return "", false
}

func (e *Element) setAttr(space, local, value string) {
	for i, a := range e.Attr {
		if a.Name.Space == space && a.Name.Local == local {
			e.Attr[i].Value = value
			return
		}
	}
	e.Attr = append(e.Attr, xml.Attr{Name: xml.Name{Space: space, Local: local}, Value: value})
}

func (e *Element) removeAttr(space, local string) {
	for i, a := range e.Attr {
		if a.Name.Space == space && a.Name.Local == local {
			e.Attr = append(e.Attr[:i], e.Attr[i+1:]...)
			return
		}
	}
}

// elements returns the element children of e.
func (e *Element) elements() []*Element {
	var out []*Element
	for _, c := range e.Children {
		if el, ok := c.(*Element); ok {
			out = append(out, el)
		}
	}
	return out
}

func (e *Element) removeChild(child *Element) bool {
	for i, c := range e.Children {
		if el, ok := c.(*Element); ok && el == child {
			e.Children = append(e.Children[:i], e.Children[i+1:]...)
			return true
		}
	}
	return false
}

// parseMarkup parses a complete XML part into its top-level nodes.
func parseMarkup(content string) ([]Node, error) {
	dec := xml.NewDecoder(strings.NewReader(content))

	var roots []Node
	var stack []*Element
	push := func(n Node) {
		if len(stack) == 0 {
			roots = append(roots, n)
			return
		}
		top := stack[len(stack)-1]
		top.Children = append(top.Children, n)
	}

	for {
		tok, err := dec.RawToken()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}

		switch t := tok.(type) {
		case xml.StartElement:
			el := &Element{Name: t.Name, Attr: append([]xml.Attr(nil), t.Attr...)}
			push(el)
			stack = append(stack, el)
		case xml.EndElement:
			if len(stack) == 0 || stack[len(stack)-1].Name != t.Name {
				return nil, fmt.Errorf("unexpected end element </%s>", qualified(t.Name))
			}
			stack = stack[:len(stack)-1]
		case xml.CharData:
			push(CharData(string(t)))
		case xml.Comment:
			push(Comment(string(t)))
		case xml.ProcInst:
			push(ProcInst{Target: t.Target, Inst: string(t.Inst)})
		case xml.Directive:
			push(Directive(string(t)))
		}
	}

	if len(stack) != 0 {
		return nil, fmt.Errorf("unclosed element <%s>", qualified(stack[len(stack)-1].Name))
	}
	return roots, nil
}
