package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"

	"github.com/hibiken/asynq"

	"github.com/pestdocs/pestdocs/jobs"
)

// JobsCLI wraps manual management helpers for Asynq jobs.
type JobsCLI struct {
	client    *asynq.Client
	inspector *asynq.Inspector
}

// NewJobsCLI initialises the CLI helpers using the provided Redis address.
func NewJobsCLI(redisAddr string) (*JobsCLI, error) {
	if redisAddr == "" {
		return nil, errors.New("jobs cli: redis address required")
	}
	client := asynq.NewClient(asynq.RedisClientOpt{Addr: redisAddr})
	inspector := asynq.NewInspector(asynq.RedisClientOpt{Addr: redisAddr})
	return &JobsCLI{client: client, inspector: inspector}, nil
}

// Close releases underlying resources.
func (c *JobsCLI) Close() error {
	var err error
	if c.inspector != nil {
		if closeErr := c.inspector.Close(); closeErr != nil {
			err = closeErr
		}
	}
	if c.client != nil {
		if closeErr := c.client.Close(); closeErr != nil {
			err = closeErr
		}
	}
	return err
}

// Enqueue submits a document generation task.
func (c *JobsCLI) Enqueue(ctx context.Context, payload jobs.DocumentPayload) (*asynq.TaskInfo, error) {
	if c == nil || c.client == nil {
		return nil, errors.New("jobs cli: client not configured")
	}
	task, err := jobs.NewDocumentTask(payload)
	if err != nil {
		return nil, err
	}
	return c.client.EnqueueContext(ctx, task)
}

// QueueStats summarises the current queue state.
type QueueStats struct {
	Queue     string
	Pending   int
	Active    int
	Scheduled int
	Retry     int
}

// InspectQueue reports the queue metrics for the default queue.
func (c *JobsCLI) InspectQueue(ctx context.Context) (QueueStats, error) {
	if c == nil || c.inspector == nil {
		return QueueStats{}, errors.New("jobs cli: inspector not configured")
	}
	info, err := c.inspector.GetQueueInfo(jobs.QueueDefault)
	if err != nil {
		return QueueStats{}, err
	}
	stats := QueueStats{Queue: jobs.QueueDefault}
	if info != nil {
		stats.Pending = int(info.Pending)
		stats.Active = int(info.Active)
		stats.Scheduled = int(info.Scheduled)
		stats.Retry = int(info.Retry)
	}
	return stats, nil
}

// ListScheduled returns scheduled task infos for observability.
func (c *JobsCLI) ListScheduled(ctx context.Context, size int) ([]*asynq.TaskInfo, error) {
	if c == nil || c.inspector == nil {
		return nil, errors.New("jobs cli: inspector not configured")
	}
	if size <= 0 {
		size = 10
	}
	return c.inspector.ListScheduledTasks(jobs.QueueDefault, asynq.PageSize(size), asynq.Page(1))
}

const usage = `usage:
  pestdocs jobs stats
  pestdocs jobs scheduled
  pestdocs jobs enqueue <work_order|faes> <id> [copies]`

// ParseEnqueueArgs turns "enqueue" arguments into a validated payload.
func ParseEnqueueArgs(args []string) (jobs.DocumentPayload, error) {
	if len(args) < 2 || len(args) > 3 {
		return jobs.DocumentPayload{}, errors.New("enqueue takes a kind, an id and optional copies")
	}
	id, err := strconv.ParseInt(args[1], 10, 64)
	if err != nil {
		return jobs.DocumentPayload{}, fmt.Errorf("invalid id %q", args[1])
	}
	payload := jobs.DocumentPayload{Kind: args[0], ID: id, Copies: 1}
	if len(args) == 3 {
		copies, err := strconv.Atoi(args[2])
		if err != nil {
			return jobs.DocumentPayload{}, fmt.Errorf("invalid copies %q", args[2])
		}
		payload.Copies = copies
	}
	if err := payload.Validate(); err != nil {
		return jobs.DocumentPayload{}, err
	}
	return payload, nil
}

// Run executes a jobs subcommand and returns the process exit code.
func Run(ctx context.Context, redisAddr string, args []string, stdout, stderr io.Writer) int {
	if len(args) == 0 {
		_, _ = fmt.Fprintln(stderr, usage)
		return 2
	}
	var payload jobs.DocumentPayload
	switch args[0] {
	case "stats", "scheduled":
		if len(args) != 1 {
			_, _ = fmt.Fprintln(stderr, usage)
			return 2
		}
	case "enqueue":
		var err error
		payload, err = ParseEnqueueArgs(args[1:])
		if err != nil {
			_, _ = fmt.Fprintf(stderr, "jobs enqueue: %v\n%s\n", err, usage)
			return 2
		}
	default:
		_, _ = fmt.Fprintf(stderr, "unknown jobs command %q\n%s\n", args[0], usage)
		return 2
	}

	c, err := NewJobsCLI(redisAddr)
	if err != nil {
		_, _ = fmt.Fprintf(stderr, "jobs: %v\n", err)
		return 1
	}
	defer func() { _ = c.Close() }()

	switch args[0] {
	case "stats":
		stats, err := c.InspectQueue(ctx)
		if err != nil {
			_, _ = fmt.Fprintf(stderr, "jobs stats: %v\n", err)
			return 1
		}
		_, _ = fmt.Fprintf(stdout, "queue=%s pending=%d active=%d scheduled=%d retry=%d\n",
			stats.Queue, stats.Pending, stats.Active, stats.Scheduled, stats.Retry)
	case "scheduled":
		tasks, err := c.ListScheduled(ctx, 20)
		if err != nil {
			_, _ = fmt.Fprintf(stderr, "jobs scheduled: %v\n", err)
			return 1
		}
		for _, t := range tasks {
			_, _ = fmt.Fprintf(stdout, "%s\t%s\t%s\n", t.ID, t.Type, t.NextProcessAt.Format("2006-01-02T15:04:05Z07:00"))
		}
	case "enqueue":
		info, err := c.Enqueue(ctx, payload)
		if err != nil {
			_, _ = fmt.Fprintf(stderr, "jobs enqueue: %v\n", err)
			return 1
		}
		_, _ = fmt.Fprintf(stdout, "enqueued %s on %s\n", info.ID, info.Queue)
	}
	return 0
}
