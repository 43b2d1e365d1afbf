package inventory

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/hibiken/asynq"

	"github.com/pestdocs/pestdocs/jobs"
)

// AlertCounter receives per-level alert totals after each scan.
type AlertCounter interface {
	AddAlerts(level string, count int)
}

// ScanJob logs stock alerts on a schedule.
type ScanJob struct {
	service *Service
	logger  *slog.Logger
	counter AlertCounter
}

// NewScanJob constructs the job.
func NewScanJob(service *Service, logger *slog.Logger) *ScanJob {
	if logger == nil {
		logger = slog.Default()
	}
	return &ScanJob{service: service, logger: logger}
}

// WithCounter attaches an AlertCounter.
func (j *ScanJob) WithCounter(c AlertCounter) *ScanJob {
	j.counter = c
	return j
}

// Handle fulfils the asynq.HandlerFunc contract.
func (j *ScanJob) Handle(ctx context.Context, t *asynq.Task) error {
	var payload jobs.InventoryAlertScanPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return fmt.Errorf("%w: %v", asynq.SkipRetry, err)
	}
	alerts, err := j.service.Alerts(ctx, payload.MinUrgency)
	if err != nil {
		return err
	}
	perLevel := make(map[string]int)
	for _, a := range alerts {
		perLevel[a.Level]++
		j.logger.Warn("stock below minimum",
			slog.Int64("product_id", a.ID),
			slog.String("product", a.Name),
			slog.Int("urgency", a.Urgency),
			slog.String("level", a.Level))
	}
	if j.counter != nil {
		for level, n := range perLevel {
			j.counter.AddAlerts(level, n)
		}
	}
	j.logger.Info("inventory alert scan finished", slog.Int("alerts", len(alerts)))
	return nil
}
