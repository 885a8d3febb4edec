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
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/kadirpekel/welcomer/pkg/account"
	"github.com/kadirpekel/welcomer/pkg/placeholder"
)

const (
	tracerName    = "github.com/kadirpekel/welcomer/pkg/letter"
	defaultPrefix = "welcome_letter_"
)

// RecordSource looks up one account.
type RecordSource interface {
	FetchByAccountCode(ctx context.Context, code string) (*account.Record, error)
}

// Recorder observes letter outcomes.
type Recorder interface {
	LetterGenerated(ctx context.Context, elapsed time.Duration)
	LetterFailed(ctx context.Context, reason string)
}

type nopRecorder struct{}

func (nopRecorder) LetterGenerated(context.Context, time.Duration) {}
func (nopRecorder) LetterFailed(context.Context, string)           {}

// Generator produces one letter per account code.
type Generator struct {
	records  RecordSource
	template *Template
	engine   *placeholder.Engine
	dir      string
	prefix   string
	format   Format
	now      func() time.Time
	recorder Recorder
	tracer   trace.Tracer
}

// GeneratorOption configures a Generator.
type GeneratorOption func(*Generator)

// WithEngine sets the substitution engine.
func WithEngine(e *placeholder.Engine) GeneratorOption {
	return func(g *Generator) {
		g.engine = e
	}
}

// WithPrefix sets the output file name prefix.
func WithPrefix(prefix string) GeneratorOption {
	return func(g *Generator) {
		if prefix != "" {
			g.prefix = prefix
		}
	}
}

// WithFormat sets how values are displayed.
func WithFormat(f Format) GeneratorOption {
	return func(g *Generator) {
		g.format = f
	}
}

// WithClock sets the clock that dates the letters.
func WithClock(now func() time.Time) GeneratorOption {
	return func(g *Generator) {
		g.now = now
	}
}

// WithRecorder sets the outcome recorder.
func WithRecorder(r Recorder) GeneratorOption {
	return func(g *Generator) {
		if r != nil {
			g.recorder = r
		}
	}
}

// NewGenerator creates a Generator writing into dir.
func NewGenerator(records RecordSource, tmpl *Template, dir string, opts ...GeneratorOption) *Generator {
	g := &Generator{
		records:  records,
		template: tmpl,
		engine:   placeholder.NewEngine(),
		dir:      dir,
		prefix:   defaultPrefix,
		now:      time.Now,
		recorder: nopRecorder{},
		tracer:   otel.Tracer(tracerName),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// OutputPath returns where the letter for code is written. Characters that
// could leave the output directory are replaced.
func (g *Generator) OutputPath(code string) string {
	return filepath.Join(g.dir, g.prefix+sanitize(code)+".docx")
}

// Generate writes the letter for code and returns its path.
//
// A code without data yields ErrNoData and a record missing a required
// value yields *FieldDerivationError; neither writes a file.
func (g *Generator) Generate(ctx context.Context, code string) (path string, err error) {
	start := time.Now()
	ctx, span := g.tracer.Start(ctx, "letter.Generate",
		trace.WithAttributes(attribute.String("account.code", code)))
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			g.recorder.LetterFailed(ctx, failureKind(err))
		} else {
			span.SetAttributes(attribute.String("letter.path", path))
			g.recorder.LetterGenerated(ctx, time.Since(start))
		}
		span.End()
	}()

	rec, err := g.records.FetchByAccountCode(ctx, code)
	if err != nil {
		return "", err
	}
	if rec == nil {
		return "", fmt.Errorf("account %s: %w", code, ErrNoData)
	}

	m, err := BuildPlaceholders(rec, g.now(), g.format)
	if err != nil {
		return "", err
	}

	doc, err := g.template.NewDocument()
	if err != nil {
		return "", err
	}
	defer doc.Close()

	stats, err := g.engine.Substitute(doc, m)
	if err != nil {
		return "", err
	}
	span.SetAttributes(attribute.Int("letter.replacements", stats.Replacements))

	if err := os.MkdirAll(g.dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create output directory: %w", err)
	}

	path = g.OutputPath(code)
	if err := doc.Save(path); err != nil {
		return "", err
	}

	slog.Debug("Generated letter", "code", code, "path", path, "replacements", stats.Replacements)
	return path, nil
}

// sanitize keeps letters, digits, '-', '_' and '.' and percent-encodes
// every other byte, so distinct codes never share a file name. A name made
// only of dots has its dots encoded too.
func sanitize(code string) string {
	onlyDots := strings.Trim(code, ".") == ""
	var b strings.Builder
	for i := 0; i < len(code); i++ {
		c := code[i]
		switch {
		case c == '.' && onlyDots:
			fmt.Fprintf(&b, "%%%02X", c)
		case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c >= '0' && c <= '9', c == '-', c == '_', c == '.':
			b.WriteByte(c)
		default:
			fmt.Fprintf(&b, "%%%02X", c)
		}
	}
	return b.String()
}
