package worker

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/hibiken/asynq"
	"go.uber.org/zap"

	"github.com/ronilson-users/backend-work-v2/internal/service"
)

// NotificationWorker dispatches lifecycle events enqueued by the
// orchestrator. Delivery channels (email, push) plug in behind
// Dispatcher; the default just records the event.
type NotificationWorker struct {
	dispatcher Dispatcher
	log        *zap.Logger
}

// Dispatcher delivers one event to one user.
type Dispatcher interface {
	Dispatch(ctx context.Context, event service.NotificationEvent) error
}

// LogDispatcher records events without external delivery.
type LogDispatcher struct {
	Log *zap.Logger
}

func (d *LogDispatcher) Dispatch(_ context.Context, event service.NotificationEvent) error {
	d.Log.Info("notification dispatched",
		zap.String("type", event.Type),
		zap.String("userId", event.UserID),
		zap.Any("data", event.Data),
	)
	return nil
}

func NewNotificationWorker(dispatcher Dispatcher, log *zap.Logger) *NotificationWorker {
	return &NotificationWorker{dispatcher: dispatcher, log: log}
}

// ProcessTask handles one notification task.
func (w *NotificationWorker) ProcessTask(ctx context.Context, t *asynq.Task) error {
	var event service.NotificationEvent
	if err := json.Unmarshal(t.Payload(), &event); err != nil {
		return fmt.Errorf("failed to unmarshal notification payload: %w", err)
	}

	if err := w.dispatcher.Dispatch(ctx, event); err != nil {
		w.log.Warn("notification dispatch failed",
			zap.String("type", event.Type),
			zap.String("userId", event.UserID),
			zap.Error(err),
		)
		return err
	}
	return nil
}
