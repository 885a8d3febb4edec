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

// Package placeholder substitutes <<key>> tokens in a document.
//
// Matching is a literal, case-sensitive substring match with no escaping.
// Every key is applied once per paragraph, in map order; replaced values are
// not expanded again for the same key.
package placeholder

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/kadirpekel/welcomer/pkg/document"
)

// DefaultFontSize is the size, in points, given to paragraph runs.
const DefaultFontSize = 9.0

// CellNormalization selects which runs of a table cell get their font size
// reset after a replacement.
type CellNormalization int

const (
	// CellAllRuns resets every run of the paragraph that changed.
	CellAllRuns CellNormalization = iota
	// CellFirstRun resets only the first run of the first paragraph of the cell.
	CellFirstRun
)

func (c CellNormalization) String() string {
	switch c {
	case CellAllRuns:
		return "all"
	case CellFirstRun:
		return "first"
	default:
		return fmt.Sprintf("CellNormalization(%d)", int(c))
	}
}

// ParseCellNormalization parses "all" or "first". Empty means "all".
func ParseCellNormalization(s string) (CellNormalization, error) {
	switch strings.ToLower(s) {
	case "", "all":
		return CellAllRuns, nil
	case "first":
		return CellFirstRun, nil
	default:
		return CellAllRuns, fmt.Errorf("invalid cell normalization %q (valid: all, first)", s)
	}
}

// Stats summarizes one Substitute call.
type Stats struct {
	Paragraphs     int
	CellParagraphs int
	Replacements   int
	// Keys counts replaced occurrences per key.
	Keys map[string]int
}

// Engine replaces placeholder tokens in documents. An Engine holds no
// per-document state and may be shared.
type Engine struct {
	fontSize document.FontSize
	cells    CellNormalization
}

// Option configures an Engine.
type Option func(*Engine)

// WithFontSize sets the run font size in points.
func WithFontSize(pt float64) Option {
	return func(e *Engine) {
		if pt > 0 {
			e.fontSize = document.Points(pt)
		}
	}
}

// WithCellNormalization sets how table cells are re-formatted after a replacement.
func WithCellNormalization(c CellNormalization) Option {
	return func(e *Engine) {
		e.cells = c
	}
}

// NewEngine creates an Engine.
func NewEngine(opts ...Option) *Engine {
	e := &Engine{
		fontSize: document.Points(DefaultFontSize),
		cells:    CellAllRuns,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// FontSize returns the size applied to runs.
func (e *Engine) FontSize() document.FontSize {
	return e.fontSize
}

// Substitute replaces every token of m found in doc, in place.
//
// Free paragraphs have all their runs set to the engine font size whether
// or not anything is replaced. Table cell paragraphs are only re-formatted
// after a replacement, as selected by CellNormalization. Tokens whose key is
// not in m are left as they are, and a nil m replaces nothing.
func (e *Engine) Substitute(doc *document.Document, m *Map) (Stats, error) {
	stats := Stats{Keys: make(map[string]int)}
	if err := doc.CheckStructure(); err != nil {
		return stats, err
	}

	err := doc.Walk(func(p *document.Paragraph) error {
		switch p.Kind {
		case document.FreeParagraph:
			stats.Paragraphs++
			e.normalize(p.Runs())
			e.replace(p, m, &stats, func() {
				e.normalize(p.Runs())
			})
		case document.TableCellParagraph:
			stats.CellParagraphs++
			e.replace(p, m, &stats, func() {
				e.normalizeCell(p)
			})
		}
		return nil
	})
	if err != nil {
		return stats, err
	}

	slog.Debug("Substituted placeholders",
		"document", doc.Name(),
		"paragraphs", stats.Paragraphs,
		"cell_paragraphs", stats.CellParagraphs,
		"replacements", stats.Replacements)
	return stats, nil
}

func (e *Engine) replace(p *document.Paragraph, m *Map, stats *Stats, after func()) {
	if m == nil {
		return
	}
	for _, entry := range m.entries {
		token := Token(entry.Key)
		if !strings.Contains(p.Text(), token) {
			continue
		}
		n := p.ReplaceAll(token, entry.Value)
		stats.Replacements += n
		stats.Keys[entry.Key] += n
		after()
	}
}

func (e *Engine) normalize(runs []*document.Run) {
	for _, r := range runs {
		r.SetFontSize(e.fontSize)
	}
}

func (e *Engine) normalizeCell(p *document.Paragraph) {
	if e.cells == CellAllRuns {
		e.normalize(p.Runs())
		return
	}

	first := p.FirstInCell()
	if first == nil {
		return
	}
	if runs := first.Runs(); len(runs) > 0 {
		runs[0].SetFontSize(e.fontSize)
	}
}
