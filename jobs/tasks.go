package jobs

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
)

const (
	// QueueDefault is the default queue name for background jobs.
	QueueDefault = "default"
	// TaskTypeDocumentGenerate renders a document into the storage directory.
	TaskTypeDocumentGenerate = "document:generate"
)

// Document kinds accepted by TaskTypeDocumentGenerate.
const (
	DocumentWorkOrder = "work_order"
	DocumentFAES      = "faes"
)

var (
	// ErrInvalidPayload reports a document request that can never succeed.
	ErrInvalidPayload = errors.New("jobs: invalid document payload")
	// ErrDuplicateRequest reports a request id that is already queued.
	ErrDuplicateRequest = errors.New("jobs: duplicate request")
)

// DocumentPayload describes one background generation request.
type DocumentPayload struct {
	RequestID   string `json:"request_id"`
	Kind        string `json:"kind"`
	ID          int64  `json:"id"`
	Copies      int    `json:"copies,omitempty"`
	Certificate bool   `json:"certificate,omitempty"`
	Variant     string `json:"variant,omitempty"`
}

// Validate checks the fields every handler relies on.
func (p DocumentPayload) Validate() error {
	if p.Kind != DocumentWorkOrder && p.Kind != DocumentFAES {
		return fmt.Errorf("%w: kind %q", ErrInvalidPayload, p.Kind)
	}
	if p.ID <= 0 {
		return fmt.Errorf("%w: id %d", ErrInvalidPayload, p.ID)
	}
	return nil
}

// NewDocumentTask constructs an Asynq task. A request id is assigned when missing and
// doubles as the task id, so re-enqueueing the same request is rejected by Asynq.
func NewDocumentTask(payload DocumentPayload) (*asynq.Task, error) {
	if err := payload.Validate(); err != nil {
		return nil, err
	}
	if payload.RequestID == "" {
		payload.RequestID = uuid.NewString()
	}
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskTypeDocumentGenerate, data,
		asynq.TaskID(payload.RequestID),
		asynq.Queue(QueueDefault),
		asynq.MaxRetry(3)), nil
}

// ParseDocumentPayload decodes and validates a task payload. Malformed payloads are
// reported with asynq.SkipRetry.
func ParseDocumentPayload(t *asynq.Task) (DocumentPayload, error) {
	var payload DocumentPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return DocumentPayload{}, fmt.Errorf("%w: %v", asynq.SkipRetry, err)
	}
	if err := payload.Validate(); err != nil {
		return DocumentPayload{}, fmt.Errorf("%w: %v", asynq.SkipRetry, err)
	}
	return payload, nil
}
