// Package backend is the REST client for the external business backend. It owns no
// business rules: payloads come back as loosely shaped JSON for the normalizers.
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"strconv"
	"strings"
	"time"

	"github.com/sony/gobreaker"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/pestdocs/pestdocs/internal/faes"
)

var tracer = otel.Tracer("backend")

var (
	// ErrNotFound is returned for 404 responses.
	ErrNotFound = errors.New("backend: resource not found")
	// ErrUnavailable is returned when the circuit breaker rejects a call.
	ErrUnavailable = errors.New("backend: unavailable")
)

// StatusError is a non-success HTTP response.
type StatusError struct {
	Method string
	Path   string
	Status int
	Body   string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("backend: %s %s returned %d: %s", e.Method, e.Path, e.Status, e.Body)
}

// Is lets errors.Is(err, ErrNotFound) match 404 responses.
func (e *StatusError) Is(target error) bool {
	return target == ErrNotFound && e.Status == http.StatusNotFound
}

// Config configures the Client.
type Config struct {
	BaseURL string
	Token   string
	Timeout time.Duration
}

// Client calls the backend through a circuit breaker. There are no retries.
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
	cb         *gobreaker.CircuitBreaker
}

// New constructs a Client.
func New(cfg Config) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &Client{
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		token:      cfg.Token,
		httpClient: &http.Client{Timeout: timeout},
		cb:         NewCircuitBreaker("backend"),
	}
}

// FetchServiceOrder returns the raw service-order record.
func (c *Client) FetchServiceOrder(ctx context.Context, id int64) (map[string]any, error) {
	var out map[string]any
	err := c.do(ctx, "FetchServiceOrder", http.MethodGet, "/service-orders/"+strconv.FormatInt(id, 10), nil, "", &out)
	return out, err
}

// FetchPrintable returns the joined printable bundle of a service order.
func (c *Client) FetchPrintable(ctx context.Context, id int64) (map[string]any, error) {
	var out map[string]any
	err := c.do(ctx, "FetchPrintable", http.MethodGet, "/service-orders/"+strconv.FormatInt(id, 10)+"/printable", nil, "", &out)
	return out, err
}

// FetchSubmission returns the raw FAES submission.
func (c *Client) FetchSubmission(ctx context.Context, id int64) (map[string]any, error) {
	var out map[string]any
	err := c.do(ctx, "FetchSubmission", http.MethodGet, "/faes/submissions/"+strconv.FormatInt(id, 10), nil, "", &out)
	return out, err
}

// FetchSchema returns a validated FAES schema version.
func (c *Client) FetchSchema(ctx context.Context, id int64) (faes.Schema, error) {
	var raw json.RawMessage
	if err := c.do(ctx, "FetchSchema", http.MethodGet, "/faes/schemas/"+strconv.FormatInt(id, 10), nil, "", &raw); err != nil {
		return faes.Schema{}, err
	}
	return faes.ParseSchema(raw)
}

// FetchCompanyProfile returns the issuer profile object.
func (c *Client) FetchCompanyProfile(ctx context.Context) (map[string]any, error) {
	var out map[string]any
	err := c.do(ctx, "FetchCompanyProfile", http.MethodGet, "/company/profile", nil, "", &out)
	return out, err
}

// ListProducts returns the product catalogue. Both bare arrays and {"items": [...]}
// or {"data": [...]} envelopes are accepted.
func (c *Client) ListProducts(ctx context.Context) ([]map[string]any, error) {
	var raw json.RawMessage
	if err := c.do(ctx, "ListProducts", http.MethodGet, "/products", nil, "", &raw); err != nil {
		return nil, err
	}
	var list []map[string]any
	if err := json.Unmarshal(raw, &list); err == nil {
		return list, nil
	}
	var envelope struct {
		Items []map[string]any `json:"items"`
		Data  []map[string]any `json:"data"`
	}
	if err := json.Unmarshal(raw, &envelope); err != nil {
		return nil, fmt.Errorf("backend: decode products: %w", err)
	}
	if envelope.Items != nil {
		return envelope.Items, nil
	}
	if envelope.Data != nil {
		return envelope.Data, nil
	}
	return []map[string]any{}, nil
}

// Upload stores one file and returns its URL.
func (c *Client) Upload(ctx context.Context, f faes.File) (string, error) {
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="file"; filename=%q`, f.Name))
	h.Set("Content-Type", contentTypeFor(f.Name, f.ContentType))
	part, err := writer.CreatePart(h)
	if err != nil {
		return "", err
	}
	if _, err := part.Write(f.Data); err != nil {
		return "", err
	}
	if err := writer.Close(); err != nil {
		return "", err
	}

	var out struct {
		URL string `json:"url"`
	}
	if err := c.do(ctx, "Upload", http.MethodPost, "/uploads", body, writer.FormDataContentType(), &out); err != nil {
		return "", err
	}
	if out.URL == "" {
		return "", fmt.Errorf("backend: upload of %s returned no url", f.Name)
	}
	return out.URL, nil
}

// SaveSubmission creates or updates a FAES submission.
func (c *Client) SaveSubmission(ctx context.Context, in faes.SubmissionInput) (map[string]any, error) {
	payload, err := json.Marshal(in)
	if err != nil {
		return nil, err
	}
	method, path := http.MethodPost, "/faes/submissions"
	if in.ID != 0 {
		method, path = http.MethodPut, "/faes/submissions/"+strconv.FormatInt(in.ID, 10)
	}
	var out map[string]any
	err = c.do(ctx, "SaveSubmission", method, path, bytes.NewReader(payload), "application/json", &out)
	return out, err
}

func (c *Client) do(ctx context.Context, op, method, path string, body io.Reader, contentType string, out any) error {
	ctx, span := tracer.Start(ctx, "backend."+op)
	defer span.End()
	span.SetAttributes(
		attribute.String("http.method", method),
		attribute.String("http.path", path),
	)

	_, err := c.cb.Execute(func() (any, error) {
		req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
		if err != nil {
			return nil, err
		}
		req.Header.Set("Accept", "application/json")
		if contentType != "" {
			req.Header.Set("Content-Type", contentType)
		}
		if c.token != "" {
			req.Header.Set("Authorization", "Bearer "+c.token)
		}
		resp, err := c.httpClient.Do(req)
		if err != nil {
			return nil, err
		}
		defer func() {
			_ = resp.Body.Close()
		}()
		if resp.StatusCode >= 300 {
			snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
			return nil, &StatusError{Method: method, Path: path, Status: resp.StatusCode, Body: strings.TrimSpace(string(snippet))}
		}
		if out == nil {
			return nil, nil
		}
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return nil, fmt.Errorf("backend: decode %s %s: %w", method, path, err)
		}
		return nil, nil
	})
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		err = fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	return err
}
