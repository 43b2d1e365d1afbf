package jobs

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/hibiken/asynq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewDocumentTaskAssignsRequestID(t *testing.T) {
	task, err := NewDocumentTask(DocumentPayload{Kind: DocumentWorkOrder, ID: 42, Copies: 2})
	require.NoError(t, err)
	assert.Equal(t, TaskTypeDocumentGenerate, task.Type())

	var payload DocumentPayload
	require.NoError(t, json.Unmarshal(task.Payload(), &payload))
	assert.NotEmpty(t, payload.RequestID)
	assert.Equal(t, int64(42), payload.ID)
	assert.Equal(t, 2, payload.Copies)
}

func TestNewDocumentTaskKeepsRequestID(t *testing.T) {
	task, err := NewDocumentTask(DocumentPayload{RequestID: "req-1", Kind: DocumentFAES, ID: 3})
	require.NoError(t, err)

	parsed, err := ParseDocumentPayload(task)
	require.NoError(t, err)
	assert.Equal(t, "req-1", parsed.RequestID)
	assert.Equal(t, DocumentFAES, parsed.Kind)
}

func TestNewDocumentTaskRejectsInvalidPayload(t *testing.T) {
	_, err := NewDocumentTask(DocumentPayload{Kind: "invoice", ID: 1})
	assert.ErrorIs(t, err, ErrInvalidPayload)

	_, err = NewDocumentTask(DocumentPayload{Kind: DocumentWorkOrder})
	assert.ErrorIs(t, err, ErrInvalidPayload)
}

func TestParseDocumentPayloadSkipsRetryOnGarbage(t *testing.T) {
	_, err := ParseDocumentPayload(asynq.NewTask(TaskTypeDocumentGenerate, []byte("{")))
	assert.True(t, errors.Is(err, asynq.SkipRetry))

	_, err = ParseDocumentPayload(asynq.NewTask(TaskTypeDocumentGenerate, []byte(`{"kind":"faes","id":0}`)))
	assert.True(t, errors.Is(err, asynq.SkipRetry))
}
