package render

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime"
	"net/http"
	"os"
	"path/filepath"
	"strconv"

	"github.com/pestdocs/pestdocs/internal/layout"
)

// ErrEmptyDocument is returned for documents without pages.
var ErrEmptyDocument = errors.New("render: document has no pages")

// DocumentRenderer produces PDF bytes for a composed document.
type DocumentRenderer interface {
	Render(ctx context.Context, doc layout.Document) ([]byte, error)
}

// Exporter spools rendered PDFs through temporary files on their way to a download
// or to storage. Temporary files are removed on every path.
type Exporter struct {
	renderer DocumentRenderer
	tempDir  string
	logger   *slog.Logger
}

// NewExporter wires an Exporter. An empty tempDir uses the OS default.
func NewExporter(renderer DocumentRenderer, tempDir string, logger *slog.Logger) *Exporter {
	if logger == nil {
		logger = slog.Default()
	}
	return &Exporter{renderer: renderer, tempDir: tempDir, logger: logger}
}

// Export renders doc and streams it as an attachment named doc.FileName. Nothing is
// written to w when rendering fails.
func (e *Exporter) Export(ctx context.Context, doc layout.Document, w http.ResponseWriter) error {
	f, size, err := e.spool(ctx, doc)
	if err != nil {
		return err
	}
	defer e.release(f)

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": doc.FileName}))
	w.Header().Set("Content-Length", strconv.FormatInt(size, 10))
	w.WriteHeader(http.StatusOK)
	if _, err := io.Copy(w, f); err != nil {
		return fmt.Errorf("stream %s: %w", doc.FileName, err)
	}
	return nil
}

// Save renders doc into dir under doc.FileName and returns the final path.
func (e *Exporter) Save(ctx context.Context, doc layout.Document, dir string) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}
	f, _, err := e.spoolIn(ctx, doc, dir)
	if err != nil {
		return "", err
	}
	tmp := f.Name()
	if err := f.Close(); err != nil {
		_ = os.Remove(tmp)
		return "", err
	}
	path := filepath.Join(dir, doc.FileName)
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return "", err
	}
	return path, nil
}

func (e *Exporter) spool(ctx context.Context, doc layout.Document) (*os.File, int64, error) {
	return e.spoolIn(ctx, doc, e.tempDir)
}

// spoolIn renders doc into a new temporary file positioned at its start.
func (e *Exporter) spoolIn(ctx context.Context, doc layout.Document, dir string) (*os.File, int64, error) {
	if len(doc.Pages) == 0 {
		return nil, 0, ErrEmptyDocument
	}
	pdf, err := e.renderer.Render(ctx, doc)
	if err != nil {
		return nil, 0, err
	}
	f, err := os.CreateTemp(dir, "pestdocs-*.pdf")
	if err != nil {
		return nil, 0, err
	}
	if _, err := f.Write(pdf); err != nil {
		e.release(f)
		return nil, 0, err
	}
	if _, err := f.Seek(0, io.SeekStart); err != nil {
		e.release(f)
		return nil, 0, err
	}
	return f, int64(len(pdf)), nil
}

func (e *Exporter) release(f *os.File) {
	name := f.Name()
	_ = f.Close()
	if err := os.Remove(name); err != nil && !errors.Is(err, os.ErrNotExist) {
		e.logger.Warn("remove spooled pdf", slog.String("file", name), slog.Any("error", err))
	}
}
