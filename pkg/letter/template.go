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

package letter

import (
	"os"

	"github.com/kadirpekel/welcomer/pkg/document"
	"github.com/kadirpekel/welcomer/pkg/placeholder"
)

// Template is a letter template read once and shared by every letter.
// It holds only the file bytes; each letter parses its own Document.
type Template struct {
	path string
	data []byte
	keys []string
}

// OpenTemplate reads and validates the template at path. Any failure is a
// *document.TemplateStructureError.
func OpenTemplate(path string) (*Template, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &document.TemplateStructureError{Path: path, Reason: "unreadable template", Err: err}
	}

	doc, err := document.FromBytes(path, data)
	if err != nil {
		return nil, err
	}
	defer doc.Close()

	if err := doc.CheckStructure(); err != nil {
		return nil, err
	}

	seen := make(map[string]bool)
	var keys []string
	for _, p := range doc.Paragraphs() {
		for _, key := range placeholder.FindKeys(p.Text()) {
			if !seen[key] {
				seen[key] = true
				keys = append(keys, key)
			}
		}
	}

	return &Template{path: path, data: data, keys: keys}, nil
}

// Path returns the template location.
func (t *Template) Path() string {
	return t.path
}

// Keys returns the placeholder keys found in the template, in document order.
func (t *Template) Keys() []string {
	return append([]string(nil), t.keys...)
}

// UnknownKeys returns template keys that no letter field fills.
func (t *Template) UnknownKeys() []string {
	known := make(map[string]bool, len(Keys))
	for _, k := range Keys {
		known[k] = true
	}
	var unknown []string
	for _, k := range t.keys {
		if !known[k] {
			unknown = append(unknown, k)
		}
	}
	return unknown
}

// NewDocument returns a fresh, private copy of the template.
func (t *Template) NewDocument() (*document.Document, error) {
	return document.FromBytes(t.path, t.data)
}
