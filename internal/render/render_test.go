package render

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pestdocs/pestdocs/internal/layout"
	"github.com/pestdocs/pestdocs/internal/printable"
)

type stubPDF struct {
	html string
	err  error
}

func (s *stubPDF) RenderHTML(_ context.Context, html string) ([]byte, error) {
	s.html = html
	if s.err != nil {
		return nil, s.err
	}
	return []byte("%PDF-stub"), nil
}

func composedDocument(t *testing.T) layout.Document {
	t.Helper()
	p := printable.BuildProjection(map[string]any{
		"code":         "OS-7",
		"status":       "Concluída",
		"scheduled_at": "2024-03-10",
		"client":       map[string]any{"name": "Padaria Pão & Cia"},
		"lines": []any{
			map[string]any{"pest": "Barata", "product_name": "Gel Max", "registration_number": "MS-9"},
			map[string]any{"pest": "Formiga", "product_name": "Isca Pro"},
		},
	})
	doc, err := layout.ComposeWorkOrder(p, layout.Options{Copies: 2, IncludeCertificate: true, GeneratedAt: time.Date(2024, 3, 11, 9, 0, 0, 0, time.UTC)})
	require.NoError(t, err)
	return doc
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestRendererHTML(t *testing.T) {
	pdf := &stubPDF{}
	r, err := NewRenderer(pdf)
	require.NoError(t, err)

	doc := composedDocument(t)
	before := doc.Pages[0].Sections[0].Grid[0]
	out, err := r.Render(context.Background(), doc)
	require.NoError(t, err)
	assert.Equal(t, "%PDF-stub", string(out))

	assert.Contains(t, pdf.html, "ORDEM DE SERVIÇO")
	assert.Contains(t, pdf.html, "Via do cliente")
	assert.Contains(t, pdf.html, "Via da empresa")
	assert.Contains(t, pdf.html, "Padaria Pão &amp; Cia")
	assert.Contains(t, pdf.html, "Registro MS: MS-9")
	assert.Contains(t, pdf.html, `class="striped"`)
	assert.Contains(t, pdf.html, "Página 1 de 3")
	assert.Contains(t, pdf.html, "CERTIFICADO DE EXECUÇÃO DE SERVIÇO")
	assert.Contains(t, pdf.html, "10/09/2024")
	assert.Equal(t, before, doc.Pages[0].Sections[0].Grid[0])
}

func TestNewRendererRequiresClient(t *testing.T) {
	_, err := NewRenderer(nil)
	require.Error(t, err)
}

func TestExportWritesAttachmentAndCleansUp(t *testing.T) {
	tmp := t.TempDir()
	r, err := NewRenderer(&stubPDF{})
	require.NoError(t, err)
	e := NewExporter(r, tmp, discardLogger())

	doc := composedDocument(t)
	rec := httptest.NewRecorder()
	require.NoError(t, e.Export(context.Background(), doc, rec))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/pdf", rec.Header().Get("Content-Type"))
	assert.Equal(t, `attachment; filename=ordem-servico_OS-7_Padaria_Pao_Cia.pdf`, rec.Header().Get("Content-Disposition"))
	assert.Equal(t, "9", rec.Header().Get("Content-Length"))
	assert.Equal(t, "%PDF-stub", rec.Body.String())
	assertEmptyDir(t, tmp)
}

func TestExportRenderFailureWritesNothing(t *testing.T) {
	tmp := t.TempDir()
	boom := errors.New("engine down")
	r, err := NewRenderer(&stubPDF{err: boom})
	require.NoError(t, err)
	e := NewExporter(r, tmp, discardLogger())

	rec := httptest.NewRecorder()
	err = e.Export(context.Background(), composedDocument(t), rec)
	require.ErrorIs(t, err, boom)
	assert.Empty(t, rec.Header().Get("Content-Disposition"))
	assert.Zero(t, rec.Body.Len())
	assertEmptyDir(t, tmp)
}

type brokenWriter struct{ header http.Header }

func (b *brokenWriter) Header() http.Header       { return b.header }
func (b *brokenWriter) WriteHeader(int)           {}
func (b *brokenWriter) Write([]byte) (int, error) { return 0, errors.New("client went away") }

func TestExportStreamFailureStillCleansUp(t *testing.T) {
	tmp := t.TempDir()
	r, err := NewRenderer(&stubPDF{})
	require.NoError(t, err)
	e := NewExporter(r, tmp, discardLogger())

	err = e.Export(context.Background(), composedDocument(t), &brokenWriter{header: http.Header{}})
	require.Error(t, err)
	assertEmptyDir(t, tmp)
}

func TestExportRejectsEmptyDocument(t *testing.T) {
	e := NewExporter(&stubRenderer{}, t.TempDir(), discardLogger())
	err := e.Export(context.Background(), layout.Document{}, httptest.NewRecorder())
	require.ErrorIs(t, err, ErrEmptyDocument)
}

type stubRenderer struct{}

func (stubRenderer) Render(context.Context, layout.Document) ([]byte, error) { return []byte("x"), nil }

func TestSaveMovesFileIntoPlace(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "documents")
	r, err := NewRenderer(&stubPDF{})
	require.NoError(t, err)
	e := NewExporter(r, "", discardLogger())

	doc := composedDocument(t)
	path, err := e.Save(context.Background(), doc, dir)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, doc.FileName), path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "%PDF-stub", string(data))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func assertEmptyDir(t *testing.T, dir string) {
	t.Helper()
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}
