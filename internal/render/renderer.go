// Package render turns composed documents into PDF bytes and downloads.
package render

import (
	"bytes"
	"context"
	"fmt"
	"html/template"

	"github.com/pestdocs/pestdocs/internal/layout"
	"github.com/pestdocs/pestdocs/web"
)

// PDFClient exposes the subset of the report client used by the renderer.
type PDFClient interface {
	RenderHTML(ctx context.Context, html string) ([]byte, error)
}

// Renderer executes the document template and converts the HTML to PDF.
type Renderer struct {
	tpl    *template.Template
	client PDFClient
}

// NewRenderer parses the embedded document template and wires the PDF client.
func NewRenderer(client PDFClient) (*Renderer, error) {
	if client == nil {
		return nil, fmt.Errorf("render: pdf client required")
	}
	tpl, err := template.New("document.html").ParseFS(web.Templates, "templates/documents/document.html")
	if err != nil {
		return nil, err
	}
	return &Renderer{tpl: tpl, client: client}, nil
}

// HTML executes the template. The document is only read.
func (r *Renderer) HTML(doc layout.Document) (string, error) {
	if r == nil || r.tpl == nil {
		return "", fmt.Errorf("render: renderer not initialised")
	}
	buf := &bytes.Buffer{}
	if err := r.tpl.Execute(buf, doc); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// Render produces the PDF bytes of doc.
func (r *Renderer) Render(ctx context.Context, doc layout.Document) ([]byte, error) {
	html, err := r.HTML(doc)
	if err != nil {
		return nil, err
	}
	return r.client.RenderHTML(ctx, html)
}
