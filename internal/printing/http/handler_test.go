package printinghttp

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/hibiken/asynq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pestdocs/pestdocs/internal/backend"
	"github.com/pestdocs/pestdocs/internal/faes"
	"github.com/pestdocs/pestdocs/internal/layout"
	"github.com/pestdocs/pestdocs/internal/printable"
	"github.com/pestdocs/pestdocs/internal/printing"
	"github.com/pestdocs/pestdocs/jobs"
)

type stubService struct {
	opts layout.Options
	err  error
}

func (s *stubService) Projection(_ context.Context, id int64) (printable.Projection, error) {
	if s.err != nil {
		return printable.Projection{}, s.err
	}
	return printable.Projection{ID: id, Code: "OS-2024-0042", Status: printable.StatusInProgress}, nil
}

func (s *stubService) WorkOrder(ctx context.Context, id int64, opts layout.Options, sink printing.Sink) (layout.Document, error) {
	return s.generate(ctx, layout.KindWorkOrder, opts, sink)
}

func (s *stubService) FAES(ctx context.Context, id int64, opts layout.Options, sink printing.Sink) (layout.Document, error) {
	return s.generate(ctx, layout.KindFAES, opts, sink)
}

func (s *stubService) generate(ctx context.Context, kind layout.Kind, opts layout.Options, sink printing.Sink) (layout.Document, error) {
	s.opts = opts
	if s.err != nil {
		return layout.Document{}, s.err
	}
	doc := layout.Document{Kind: kind, Code: "OS-2024-0042", FileName: "os_OS-2024-0042.pdf", Pages: []layout.Page{{}}}
	if err := sink(ctx, doc); err != nil {
		return doc, &printing.StageError{Stage: printing.StageRendering, Err: err}
	}
	return doc, nil
}

type stubExporter struct {
	partial bool
}

func (e *stubExporter) Export(_ context.Context, doc layout.Document, w http.ResponseWriter) error {
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", "attachment; filename="+doc.FileName)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("%PDF-1.7"))
	if e.partial {
		return errors.New("client went away")
	}
	return nil
}

func (e *stubExporter) Save(context.Context, layout.Document, string) (string, error) {
	return "", errors.New("not used")
}

type stubSubmitter struct {
	got    faes.SubmitRequest
	result faes.SubmitResult
	err    error
}

func (s *stubSubmitter) Submit(_ context.Context, req faes.SubmitRequest) (faes.SubmitResult, error) {
	s.got = req
	return s.result, s.err
}

type stubSchemas struct{}

func (stubSchemas) FetchSchema(_ context.Context, id int64) (faes.Schema, error) {
	if id != 3 {
		return faes.Schema{}, &backend.StatusError{Status: http.StatusNotFound}
	}
	return faes.Schema{ID: 3, Title: "FAES", Sections: []faes.Section{{
		ID: "visita",
		Fields: []faes.Field{
			{ID: "responsavel", Label: "Responsável no local", Type: faes.FieldText, Required: true},
		},
	}}}, nil
}

type stubQueue struct {
	got  jobs.DocumentPayload
	seen map[string]bool
}

func (q *stubQueue) EnqueueDocument(_ context.Context, payload jobs.DocumentPayload) (*asynq.TaskInfo, error) {
	if q.seen[payload.RequestID] {
		return nil, jobs.ErrDuplicateRequest
	}
	if q.seen == nil {
		q.seen = map[string]bool{}
	}
	q.seen[payload.RequestID] = true
	q.got = payload
	return &asynq.TaskInfo{ID: payload.RequestID, Queue: jobs.QueueDefault}, nil
}

type fixture struct {
	router    chi.Router
	service   *stubService
	exporter  *stubExporter
	submitter *stubSubmitter
	queue     *stubQueue
}

func newFixture(withQueue bool) *fixture {
	f := &fixture{
		service:   &stubService{},
		exporter:  &stubExporter{},
		submitter: &stubSubmitter{},
		queue:     &stubQueue{},
	}
	cfg := Config{
		Service:   f.service,
		Exporter:  f.exporter,
		Submitter: f.submitter,
		Schemas:   stubSchemas{},
		Logger:    slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	if withQueue {
		cfg.Jobs = f.queue
	}
	f.router = chi.NewRouter()
	NewHandler(cfg).MountRoutes(f.router)
	return f
}

func (f *fixture) do(req *http.Request) *httptest.ResponseRecorder {
	rr := httptest.NewRecorder()
	f.router.ServeHTTP(rr, req)
	return rr
}

func problemErrors(t *testing.T, rr *httptest.ResponseRecorder) map[string]string {
	t.Helper()
	var body struct {
		Errors map[string]string `json:"errors"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	return body.Errors
}

func TestWorkOrderDocumentDownload(t *testing.T) {
	f := newFixture(false)

	rr := f.do(httptest.NewRequest(http.MethodGet, "/service-orders/42/document?copies=2&certificate=true&variant=compact", nil))

	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "application/pdf", rr.Header().Get("Content-Type"))
	assert.Equal(t, "%PDF-1.7", rr.Body.String())
	assert.Equal(t, layout.Options{Copies: 2, IncludeCertificate: true, Variant: layout.VariantCompact}, f.service.opts)
}

func TestWorkOrderDocumentRejectsBadOptions(t *testing.T) {
	cases := map[string]string{
		"/service-orders/42/document?copies=3":        "copies",
		"/service-orders/42/document?copies=two":      "copies",
		"/service-orders/42/document?variant=poster":  "variant",
		"/service-orders/42/document?certificate=sim": "certificate",
		"/service-orders/abc/document":                "id",
	}
	for url, field := range cases {
		f := newFixture(false)
		rr := f.do(httptest.NewRequest(http.MethodGet, url, nil))

		require.Equal(t, http.StatusBadRequest, rr.Code, url)
		assert.Contains(t, problemErrors(t, rr), field, url)
	}
}

func TestDocumentErrorMapping(t *testing.T) {
	cases := []struct {
		err    error
		status int
	}{
		{&printing.StageError{Stage: printing.StageNormalizing, Err: &backend.StatusError{Status: http.StatusNotFound}}, http.StatusNotFound},
		{&printing.StageError{Stage: printing.StageNormalizing, Err: backend.ErrUnavailable}, http.StatusServiceUnavailable},
		{&printing.StageError{Stage: printing.StageNormalizing, Err: &backend.StatusError{Status: http.StatusInternalServerError}}, http.StatusBadGateway},
		{&printing.StageError{Stage: printing.StageRendering, Err: errors.New("gotenberg response 500")}, http.StatusBadGateway},
		{&printing.StageError{Stage: printing.StageComposing, Err: layout.ErrUnknownVariant}, http.StatusBadRequest},
		{&printing.StageError{Stage: printing.StageComposing, Err: errors.New("boom")}, http.StatusInternalServerError},
	}
	for _, tc := range cases {
		f := newFixture(false)
		f.service.err = tc.err

		rr := f.do(httptest.NewRequest(http.MethodGet, "/faes/7/document", nil))
		assert.Equal(t, tc.status, rr.Code, tc.err.Error())
		assert.Equal(t, "application/problem+json", rr.Header().Get("Content-Type"))
	}
}

func TestInterruptedDownloadKeepsStatus(t *testing.T) {
	f := newFixture(false)
	f.exporter.partial = true

	rr := f.do(httptest.NewRequest(http.MethodGet, "/service-orders/42/document", nil))

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "%PDF-1.7", rr.Body.String())
}

func TestProjectionJSON(t *testing.T) {
	f := newFixture(false)

	rr := f.do(httptest.NewRequest(http.MethodGet, "/service-orders/42/projection", nil))

	require.Equal(t, http.StatusOK, rr.Code)
	var p printable.Projection
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &p))
	assert.Equal(t, "OS-2024-0042", p.Code)
	assert.Equal(t, printable.StatusInProgress, p.Status)
}

func TestValidateFAESWithInlineSchema(t *testing.T) {
	f := newFixture(false)
	body := `{
		"schema": {"id": 1, "version": 2, "title": "FAES", "sections": [{"id": "s", "title": "S", "fields": [
			{"id": "area", "label": "Área tratada", "type": "number", "required": true},
			{"id": "obs", "label": "Observações", "type": "text"}
		]}]},
		"data": {"obs": "ok"}
	}`

	rr := f.do(httptest.NewRequest(http.MethodPost, "/faes/validate", strings.NewReader(body)))

	require.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"missing":["Área tratada"],"complete":false}`, rr.Body.String())
}

func TestValidateFAESWithSchemaID(t *testing.T) {
	f := newFixture(false)

	rr := f.do(httptest.NewRequest(http.MethodPost, "/faes/validate", strings.NewReader(`{"schema_id":3,"data":{"responsavel":"Carla"}}`)))
	require.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"missing":[],"complete":true}`, rr.Body.String())

	rr = f.do(httptest.NewRequest(http.MethodPost, "/faes/validate", strings.NewReader(`{"schema_id":4,"data":{}}`)))
	assert.Equal(t, http.StatusNotFound, rr.Code)

	rr = f.do(httptest.NewRequest(http.MethodPost, "/faes/validate", strings.NewReader(`{"data":{}}`)))
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func multipartSubmission(t *testing.T, payload string, files map[string]string) *http.Request {
	t.Helper()
	buf := &bytes.Buffer{}
	mw := multipart.NewWriter(buf)
	require.NoError(t, mw.WriteField("payload", payload))
	for field, name := range files {
		part, err := mw.CreateFormFile(field, name)
		require.NoError(t, err)
		_, err = part.Write([]byte("jpeg-bytes"))
		require.NoError(t, err)
	}
	require.NoError(t, mw.Close())
	req := httptest.NewRequest(http.MethodPost, "/faes", buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func TestSubmitFAESResolvesFileParts(t *testing.T) {
	f := newFixture(false)
	f.submitter.result = faes.SubmitResult{Saved: map[string]any{"id": float64(12)}}
	payload := `{"schema_id":3,"client_id":9,"finalized":true,"data":{"responsavel":"Carla","fotos":[{"$file":"foto1"}]}}`

	rr := f.do(multipartSubmission(t, payload, map[string]string{"foto1": "fachada.jpg"}))

	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
	assert.JSONEq(t, `{"submission":{"id":12}}`, rr.Body.String())

	got := f.submitter.got
	assert.True(t, got.Finalize)
	assert.Equal(t, int64(3), got.SchemaID)
	require.Equal(t, faes.KindObject, got.Data.Kind)
	photos := got.Data.Fields["fotos"]
	require.Len(t, photos.Items, 1)
	require.Equal(t, faes.KindFile, photos.Items[0].Kind)
	assert.Equal(t, "fachada.jpg", photos.Items[0].File.Name)
	assert.Equal(t, []byte("jpeg-bytes"), photos.Items[0].File.Data)
}

func TestSubmitFAESRefused(t *testing.T) {
	f := newFixture(false)
	f.submitter.result = faes.SubmitResult{Missing: []string{"Responsável no local"}}

	rr := f.do(multipartSubmission(t, `{"schema_id":3,"client_id":9,"finalized":true,"data":{}}`, nil))

	assert.Equal(t, http.StatusUnprocessableEntity, rr.Code)
	assert.JSONEq(t, `{"missing":["Responsável no local"]}`, rr.Body.String())
}

func TestSubmitFAESRejectsBadRequests(t *testing.T) {
	f := newFixture(false)

	rr := f.do(multipartSubmission(t, `{"schema_id":3,"client_id":9,"data":{"foto":{"$file":"absent"}}}`, nil))
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	rr = f.do(multipartSubmission(t, `{"client_id":9,"data":{}}`, nil))
	require.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Contains(t, problemErrors(t, rr), "schema_id")

	rr = f.do(httptest.NewRequest(http.MethodPost, "/faes", strings.NewReader(`{}`)))
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestSubmitFAESUploadFailure(t *testing.T) {
	f := newFixture(false)
	f.submitter.err = errors.New("upload foto1: backend response 500")

	rr := f.do(multipartSubmission(t, `{"schema_id":3,"client_id":9,"data":{}}`, nil))

	assert.Equal(t, http.StatusBadGateway, rr.Code)
}

func TestEnqueueDocument(t *testing.T) {
	f := newFixture(true)

	rr := f.do(httptest.NewRequest(http.MethodPost, "/documents/jobs", strings.NewReader(`{"kind":"work_order","id":42,"copies":2,"certificate":true}`)))

	require.Equal(t, http.StatusAccepted, rr.Code)
	var body jobResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	assert.NotEmpty(t, body.RequestID)
	assert.Equal(t, body.RequestID, f.queue.got.RequestID)
	assert.Equal(t, jobs.QueueDefault, body.Queue)
	assert.Equal(t, int64(42), f.queue.got.ID)
	assert.True(t, f.queue.got.Certificate)
}

func TestEnqueueDocumentDuplicateRequest(t *testing.T) {
	f := newFixture(true)
	body := `{"request_id":"0b7f3c1e-8f4a-4a4e-9a51-2f0c6d5e7a10","kind":"faes","id":3}`

	rr := f.do(httptest.NewRequest(http.MethodPost, "/documents/jobs", strings.NewReader(body)))
	require.Equal(t, http.StatusAccepted, rr.Code)
	assert.Equal(t, "0b7f3c1e-8f4a-4a4e-9a51-2f0c6d5e7a10", f.queue.got.RequestID)

	rr = f.do(httptest.NewRequest(http.MethodPost, "/documents/jobs", strings.NewReader(body)))
	assert.Equal(t, http.StatusConflict, rr.Code)
}

func TestEnqueueDocumentValidation(t *testing.T) {
	f := newFixture(true)

	rr := f.do(httptest.NewRequest(http.MethodPost, "/documents/jobs", strings.NewReader(`{"kind":"invoice","id":0}`)))

	require.Equal(t, http.StatusBadRequest, rr.Code)
	errs := problemErrors(t, rr)
	assert.Contains(t, errs, "kind")
	assert.Contains(t, errs, "id")
}

func TestEnqueueDocumentWithoutQueue(t *testing.T) {
	f := newFixture(false)

	rr := f.do(httptest.NewRequest(http.MethodPost, "/documents/jobs", strings.NewReader(`{"kind":"faes","id":1}`)))

	assert.Equal(t, http.StatusServiceUnavailable, rr.Code)
}
