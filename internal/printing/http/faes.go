package printinghttp

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"path/filepath"

	"github.com/google/uuid"

	"github.com/pestdocs/pestdocs/internal/faes"
	"github.com/pestdocs/pestdocs/internal/platform/httpx"
)

const maxMultipartMemory = 32 << 20

type validateRequest struct {
	SchemaID int64           `json:"schema_id" validate:"gte=0,required_without=Schema"`
	Schema   json.RawMessage `json:"schema,omitempty"`
	Data     map[string]any  `json:"data"`
}

type validateResponse struct {
	Missing  []string `json:"missing"`
	Complete bool     `json:"complete"`
}

func (h *Handler) validateFAES(w http.ResponseWriter, r *http.Request) {
	var req validateRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.RespondError(w, err)
		return
	}
	if invalid := h.check(req); len(invalid) > 0 {
		httpx.InvalidFields(w, invalid)
		return
	}

	var schema faes.Schema
	if len(req.Schema) > 0 {
		parsed, err := faes.ParseSchema(req.Schema)
		if err != nil {
			httpx.RespondError(w, fmt.Errorf("%w: %v", httpx.ErrValidation, err))
			return
		}
		schema = parsed
	} else {
		fetched, err := h.schemas.FetchSchema(r.Context(), req.SchemaID)
		if err != nil {
			h.logger.Warn("fetch faes schema", slog.Int64("schema_id", req.SchemaID), slog.Any("error", err))
			httpx.RespondError(w, classifyUpstream(err))
			return
		}
		schema = fetched
	}

	missing := faes.ValidateForFinalization(schema, req.Data)
	httpx.JSON(w, http.StatusOK, validateResponse{Missing: missing, Complete: len(missing) == 0})
}

// submitPayload is the "payload" part of a submission. File leaves in data reference
// other parts of the same request as {"$file": "<part name>"}.
type submitPayload struct {
	faes.SubmitRequest
	Data map[string]any `json:"data"`
}

type submitResponse struct {
	Missing    []string       `json:"missing,omitempty"`
	Submission map[string]any `json:"submission,omitempty"`
}

func (h *Handler) submitFAES(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxMultipartMemory); err != nil {
		httpx.RespondError(w, fmt.Errorf("%w: %v", httpx.ErrValidation, err))
		return
	}
	defer func() {
		_ = r.MultipartForm.RemoveAll()
	}()

	var payload submitPayload
	if err := json.Unmarshal([]byte(r.FormValue("payload")), &payload); err != nil {
		httpx.InvalidFields(w, map[string]string{"payload": "must be a JSON object"})
		return
	}
	if invalid := h.check(payload.SubmitRequest); len(invalid) > 0 {
		httpx.InvalidFields(w, invalid)
		return
	}

	files, err := readParts(r.MultipartForm.File)
	if err != nil {
		httpx.RespondError(w, fmt.Errorf("%w: %v", httpx.ErrValidation, err))
		return
	}
	data := payload.Data
	if data == nil {
		data = map[string]any{}
	}
	tree, err := faes.BuildTree(data, files)
	if err != nil {
		httpx.RespondError(w, fmt.Errorf("%w: %v", httpx.ErrValidation, err))
		return
	}

	req := payload.SubmitRequest
	req.Data = tree
	result, err := h.submitter.Submit(r.Context(), req)
	switch {
	case errors.Is(err, faes.ErrSchemaMismatch):
		httpx.RespondError(w, fmt.Errorf("%w: %v", httpx.ErrValidation, err))
		return
	case err != nil:
		h.logger.Error("submit faes", slog.Int64("schema_id", req.SchemaID), slog.Any("error", err))
		httpx.RespondError(w, classifyUpstream(err))
		return
	}
	if result.Refused() {
		httpx.JSON(w, http.StatusUnprocessableEntity, submitResponse{Missing: result.Missing})
		return
	}
	httpx.JSON(w, http.StatusCreated, submitResponse{Submission: result.Saved})
}

// readParts loads every uploaded part keyed by its form field name. Parts sent without
// a file name get a generated one so uploads never collide.
func readParts(parts map[string][]*multipart.FileHeader) (map[string]faes.File, error) {
	files := make(map[string]faes.File, len(parts))
	for field, headers := range parts {
		if len(headers) == 0 {
			continue
		}
		fh := headers[0]
		f, err := fh.Open()
		if err != nil {
			return nil, fmt.Errorf("open part %q: %w", field, err)
		}
		data, err := io.ReadAll(f)
		_ = f.Close()
		if err != nil {
			return nil, fmt.Errorf("read part %q: %w", field, err)
		}
		name := filepath.Base(fh.Filename)
		if fh.Filename == "" || name == "." || name == "/" {
			name = uuid.NewString()
		}
		files[field] = faes.File{Name: name, ContentType: fh.Header.Get("Content-Type"), Data: data}
	}
	return files, nil
}
