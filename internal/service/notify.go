package service

import (
	"encoding/json"
	"time"

	"github.com/hibiken/asynq"
	"go.uber.org/zap"
)

// TaskTypeNotification is the asynq task type for lifecycle events.
const TaskTypeNotification = "notification:event"

// Lifecycle event types carried by notification tasks.
const (
	EventApplicationReceived = "job.application_received"
	EventWorkerSelected      = "job.worker_selected"
	EventJobCancelled        = "job.cancelled"
	EventContractActivated   = "contract.activated"
	EventSessionConfirmed    = "work.session_confirmed"
)

// NotificationEvent is the payload of one notification task.
type NotificationEvent struct {
	Type   string                 `json:"type"`
	UserID string                 `json:"userId"`
	Data   map[string]interface{} `json:"data,omitempty"`
}

// Notifier enqueues lifecycle events for asynchronous dispatch. Only
// the decision to notify lives here; delivery belongs to the worker.
// Enqueue failures are logged, never surfaced to the caller: a missed
// notification must not fail a state transition.
type Notifier struct {
	client *asynq.Client
	log    *zap.Logger
}

func NewNotifier(client *asynq.Client, log *zap.Logger) *Notifier {
	return &Notifier{client: client, log: log}
}

// Notify enqueues one event. Safe on a nil notifier.
func (n *Notifier) Notify(event NotificationEvent) {
	if n == nil || n.client == nil {
		return
	}
	payload, err := json.Marshal(event)
	if err != nil {
		n.log.Error("marshal notification", zap.String("type", event.Type), zap.Error(err))
		return
	}
	task := asynq.NewTask(TaskTypeNotification, payload)
	if _, err := n.client.Enqueue(task,
		asynq.Queue("notifications"),
		asynq.MaxRetry(3),
		asynq.Retention(24*time.Hour),
	); err != nil {
		n.log.Error("enqueue notification", zap.String("type", event.Type), zap.Error(err))
	}
}
