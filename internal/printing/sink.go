package printing

import (
	"context"
	"net/http"

	"github.com/pestdocs/pestdocs/internal/layout"
)

// Exporter is the render adapter used by the sinks.
type Exporter interface {
	Export(ctx context.Context, doc layout.Document, w http.ResponseWriter) error
	Save(ctx context.Context, doc layout.Document, dir string) (string, error)
}

// Download streams the rendered document to w as an attachment.
func Download(exp Exporter, w http.ResponseWriter) Sink {
	return func(ctx context.Context, doc layout.Document) error {
		return exp.Export(ctx, doc, w)
	}
}

// Store renders the document into dir and reports the final path through path.
func Store(exp Exporter, dir string, path *string) Sink {
	return func(ctx context.Context, doc layout.Document) error {
		saved, err := exp.Save(ctx, doc, dir)
		if err != nil {
			return err
		}
		if path != nil {
			*path = saved
		}
		return nil
	}
}
