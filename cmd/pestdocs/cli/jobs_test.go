package cli

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/pestdocs/pestdocs/jobs"
)

func TestParseEnqueueArgs(t *testing.T) {
	payload, err := ParseEnqueueArgs([]string{"work_order", "42", "2"})
	require.NoError(t, err)
	require.Equal(t, jobs.DocumentPayload{Kind: jobs.DocumentWorkOrder, ID: 42, Copies: 2}, payload)

	payload, err = ParseEnqueueArgs([]string{"faes", "7"})
	require.NoError(t, err)
	require.Equal(t, 1, payload.Copies)

	for _, args := range [][]string{
		{"work_order"},
		{"invoice", "1"},
		{"faes", "abc"},
		{"faes", "0"},
		{"faes", "1", "two"},
	} {
		_, err := ParseEnqueueArgs(args)
		require.Error(t, err, "%v", args)
	}
}

func TestRunRejectsBadUsage(t *testing.T) {
	cases := [][]string{
		nil,
		{"purge"},
		{"stats", "extra"},
		{"enqueue", "work_order"},
	}
	for _, args := range cases {
		stdout := new(bytes.Buffer)
		stderr := new(bytes.Buffer)
		code := Run(context.Background(), "127.0.0.1:6379", args, stdout, stderr)
		require.Equal(t, 2, code, "%v", args)
		require.Empty(t, stdout.String())
		require.Contains(t, stderr.String(), "usage:")
	}
}

func TestNilCLIErrors(t *testing.T) {
	var c *JobsCLI
	_, err := c.Enqueue(context.Background(), jobs.DocumentPayload{Kind: jobs.DocumentFAES, ID: 1})
	require.Error(t, err)
	_, err = c.InspectQueue(context.Background())
	require.Error(t, err)
	_, err = c.ListScheduled(context.Background(), 0)
	require.Error(t, err)

	_, err = NewJobsCLI("")
	require.Error(t, err)
}
