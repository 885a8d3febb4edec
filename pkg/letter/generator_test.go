package letter

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kadirpekel/welcomer/pkg/account"
	"github.com/kadirpekel/welcomer/pkg/config"
	"github.com/kadirpekel/welcomer/pkg/document"
	"github.com/kadirpekel/welcomer/pkg/document/doctest"
)

var (
	activation = time.Date(2024, time.January, 15, 0, 0, 0, 0, time.UTC)
	fixedNow   = time.Date(2024, time.March, 5, 9, 0, 0, 0, time.UTC)
)

func letterTemplate() string {
	return doctest.Part(
		doctest.Paragraph(doctest.Run("Date: <<date>>")),
		doctest.Paragraph(doctest.Run("Dear <<Client Name>>, activated on <<Date of Activation>>.")),
		doctest.Table(
			[]string{doctest.Cell(doctest.Paragraph(doctest.Run("Mobile"))), doctest.Cell(doctest.Paragraph(doctest.SizedRun("<<Registered Mobile no.>>", "28")))},
			[]string{doctest.Cell(doctest.Paragraph(doctest.Run("RM"))), doctest.Cell(doctest.Paragraph(doctest.Run("<<Name of RM>>")))},
			[]string{doctest.Cell(doctest.Paragraph(doctest.Run("Corpus"))), doctest.Cell(doctest.Paragraph(doctest.Run("<<Total Corpus>>")))},
		),
	)
}

func writeTemplate(t *testing.T, part string) *Template {
	t.Helper()
	path := filepath.Join(t.TempDir(), "welcome_letter_draft.docx")
	doctest.WriteFile(t, path, part)

	tmpl, err := OpenTemplate(path)
	require.NoError(t, err)
	return tmpl
}

func newAccountDB(t *testing.T, seeds ...*account.Seed) *account.Fetcher {
	t.Helper()

	cfg := &config.DatabaseConfig{Driver: "sqlite", Database: filepath.Join(t.TempDir(), "accounts.db")}
	cfg.SetDefaults()

	db, err := config.Connect(context.Background(), cfg)
	require.NoError(t, err)
	defer db.Close()

	require.NoError(t, account.CreateSchema(context.Background(), db, cfg.Dialect()))
	for _, s := range seeds {
		require.NoError(t, s.Insert(context.Background(), db, cfg.Dialect()))
	}

	return account.NewFetcher(cfg, account.WithClock(func() time.Time { return fixedNow }))
}

func paragraphTexts(t *testing.T, path string) []string {
	t.Helper()
	doc, err := document.Open(path)
	require.NoError(t, err)
	defer doc.Close()

	var out []string
	for _, p := range doc.Paragraphs() {
		out = append(out, p.Text())
	}
	return out
}

type recordFunc func(ctx context.Context, code string) (*account.Record, error)

func (f recordFunc) FetchByAccountCode(ctx context.Context, code string) (*account.Record, error) {
	return f(ctx, code)
}

type countingRecorder struct {
	mu        sync.Mutex
	generated int
	failures  []string
}

func (r *countingRecorder) LetterGenerated(context.Context, time.Duration) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.generated++
}

func (r *countingRecorder) LetterFailed(_ context.Context, reason string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.failures = append(r.failures, reason)
}

func TestGenerate_EndToEnd(t *testing.T) {
	fetcher := newAccountDB(t, account.DemoSeed("PMS001", activation))
	tmpl := writeTemplate(t, letterTemplate())
	out := filepath.Join(t.TempDir(), "letters", "2024")
	rec := &countingRecorder{}

	g := NewGenerator(fetcher, tmpl, out,
		WithClock(func() time.Time { return fixedNow }),
		WithRecorder(rec))

	path, err := g.Generate(context.Background(), "PMS001")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(out, "welcome_letter_PMS001.docx"), path)

	assert.Equal(t, []string{
		"Date: 05/03/2024",
		"Dear Jane Doe, activated on 15-01-2024.",
		"Mobile", "+919876543210",
		"RM", "RAJ KUMAR",
		"Corpus", "Rs. 5000000.00",
	}, paragraphTexts(t, path))

	part := doctest.MainPart(t, path)
	assert.NotContains(t, part, `w:val="28"`)
	assert.Contains(t, part, `<w:sz w:val="18"/>`)

	assert.Contains(t, paragraphTexts(t, tmpl.Path()), "Dear <<Client Name>>, activated on <<Date of Activation>>.")
	assert.Equal(t, 1, rec.generated)
}

func TestGenerate_OverwritesExisting(t *testing.T) {
	fetcher := newAccountDB(t, account.DemoSeed("PMS001", activation))
	tmpl := writeTemplate(t, letterTemplate())
	out := t.TempDir()

	path := filepath.Join(out, "letter_PMS001.docx")
	require.NoError(t, os.WriteFile(path, []byte("stale"), 0644))

	g := NewGenerator(fetcher, tmpl, out, WithPrefix("letter_"))
	got, err := g.Generate(context.Background(), "PMS001")
	require.NoError(t, err)
	assert.Equal(t, path, got)
	assert.Contains(t, paragraphTexts(t, path), "Dear Jane Doe, activated on 15-01-2024.")
}

func TestGenerate_NoData(t *testing.T) {
	fetcher := newAccountDB(t)
	tmpl := writeTemplate(t, letterTemplate())
	out := t.TempDir()
	rec := &countingRecorder{}

	g := NewGenerator(fetcher, tmpl, out, WithRecorder(rec))
	path, err := g.Generate(context.Background(), "MISSING")
	require.ErrorIs(t, err, ErrNoData)
	assert.Contains(t, err.Error(), "MISSING")
	assert.Empty(t, path)

	entries, err := os.ReadDir(out)
	require.NoError(t, err)
	assert.Empty(t, entries)
	assert.Equal(t, []string{"no_data"}, rec.failures)
}

func TestGenerate_FieldDerivation(t *testing.T) {
	tmpl := writeTemplate(t, letterTemplate())
	source := recordFunc(func(context.Context, string) (*account.Record, error) {
		r := sampleRecord()
		r.Mobile = nil
		return r, nil
	})

	_, err := NewGenerator(source, tmpl, t.TempDir()).Generate(context.Background(), "PMS001")
	var fieldErr *FieldDerivationError
	require.ErrorAs(t, err, &fieldErr)
	assert.Equal(t, KeyMobile, fieldErr.Field)
}

func TestGenerate_DataSourceError(t *testing.T) {
	tmpl := writeTemplate(t, letterTemplate())
	boom := &account.DataSourceError{Op: "connect", Err: errors.New("login failed")}
	source := recordFunc(func(context.Context, string) (*account.Record, error) {
		return nil, boom
	})

	_, err := NewGenerator(source, tmpl, t.TempDir()).Generate(context.Background(), "PMS001")
	assert.ErrorIs(t, err, boom)
	assert.False(t, IsAccountFailure(err))
}

func TestGenerate_SanitizesFileName(t *testing.T) {
	tmpl := writeTemplate(t, letterTemplate())
	source := recordFunc(func(context.Context, string) (*account.Record, error) {
		return sampleRecord(), nil
	})
	out := t.TempDir()

	path, err := NewGenerator(source, tmpl, out).Generate(context.Background(), "../../evil")
	require.NoError(t, err)
	assert.Equal(t, out, filepath.Dir(path))
	assert.Equal(t, "welcome_letter_..%2F..%2Fevil.docx", filepath.Base(path))
}

func TestOpenTemplate(t *testing.T) {
	tmpl := writeTemplate(t, doctest.Part(
		doctest.Paragraph(doctest.Run("Dear <<Client Name>>, <<Greeting>>")),
		doctest.Table([]string{doctest.Cell(doctest.Paragraph(doctest.Run("<<Client Name>> <<Fund>>")))}),
	))

	assert.Equal(t, []string{"Client Name", "Greeting", "Fund"}, tmpl.Keys())
	assert.Equal(t, []string{"Greeting"}, tmpl.UnknownKeys())

	a, err := tmpl.NewDocument()
	require.NoError(t, err)
	defer a.Close()
	b, err := tmpl.NewDocument()
	require.NoError(t, err)
	defer b.Close()

	a.Paragraphs()[0].ReplaceAll("<<Client Name>>", "X")
	assert.Equal(t, "Dear <<Client Name>>, <<Greeting>>", b.Paragraphs()[0].Text())
}

func TestOpenTemplate_Errors(t *testing.T) {
	var structErr *document.TemplateStructureError

	_, err := OpenTemplate(filepath.Join(t.TempDir(), "missing.docx"))
	require.ErrorAs(t, err, &structErr)
	assert.Equal(t, "unreadable template", structErr.Reason)

	empty := filepath.Join(t.TempDir(), "empty.docx")
	doctest.WriteFile(t, empty, doctest.Part())
	_, err = OpenTemplate(empty)
	require.ErrorAs(t, err, &structErr)

	notZip := filepath.Join(t.TempDir(), "plain.docx")
	require.NoError(t, os.WriteFile(notZip, []byte("not a zip"), 0644))
	_, err = OpenTemplate(notZip)
	require.ErrorAs(t, err, &structErr)
}
