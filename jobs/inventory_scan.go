package jobs

import (
	"encoding/json"
	"time"

	"github.com/hibiken/asynq"
)

const (
	// TaskInventoryAlertScan logs products whose stock urgency reached a threshold.
	TaskInventoryAlertScan = "inventory:alert_scan"
)

// InventoryAlertScanPayload carries scheduling metadata and the reporting threshold.
type InventoryAlertScanPayload struct {
	ScheduledFor time.Time `json:"scheduled_for"`
	MinUrgency   int       `json:"min_urgency"`
}

// NewInventoryAlertScanTask constructs an Asynq task for the stock urgency scan.
func NewInventoryAlertScanTask(at time.Time, minUrgency int) (*asynq.Task, error) {
	body, err := json.Marshal(InventoryAlertScanPayload{ScheduledFor: at, MinUrgency: minUrgency})
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskInventoryAlertScan, body, asynq.Queue(QueueDefault)), nil
}
