package jobs

import (
	"encoding/json"
	"fmt"

	"github.com/hibiken/asynq"
	telebot "gopkg.in/telebot.v3"
)

const (
	TaskTypeProcessUpdate = "update:process"
	TaskTypeDrainTopics   = "topics:drain"
)

const (
	QueueCritical = "critical"
	QueueDefault  = "default"
	QueueLow      = "low"
)

// Queues is the weighted queue set served by the worker. Inbound updates go
// to the critical queue so a long drain never delays interactive replies.
var Queues = map[string]int{
	QueueCritical: 6,
	QueueDefault:  3,
	QueueLow:      1,
}

// ProcessUpdatePayload carries one Telegram update as received by the webhook.
type ProcessUpdatePayload struct {
	Update        telebot.Update `json:"update"`
	CorrelationID string         `json:"correlation_id,omitempty"`
}

// NewProcessUpdateTask wraps update for the worker. Updates are never retried.
func NewProcessUpdateTask(update telebot.Update, correlationID string) (*asynq.Task, error) {
	payload, err := json.Marshal(ProcessUpdatePayload{Update: update, CorrelationID: correlationID})
	if err != nil {
		return nil, fmt.Errorf("encode update %d: %w", update.ID, err)
	}

	return asynq.NewTask(TaskTypeProcessUpdate, payload, asynq.Queue(QueueCritical), asynq.MaxRetry(0)), nil
}

// NewDrainTopicsTask asks the worker for one scheduled topic drain pass.
func NewDrainTopicsTask() *asynq.Task {
	return asynq.NewTask(TaskTypeDrainTopics, nil, asynq.Queue(QueueLow), asynq.MaxRetry(0))
}
