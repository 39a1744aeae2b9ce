package delivery

import (
	"context"

	"case_notification_service/internal/domain/notification"

	"github.com/sirupsen/logrus"
)

// PermissionSource answers the current notification permission of a
// subscriber. Implemented by the application permission gate.
type PermissionSource interface {
	Status(subscriberID int64) notification.PermissionState
}

// Dispatcher implements the delivery preference order: the worker-backed
// persistent path when a worker registration is active, otherwise the
// in-page fallback, otherwise nothing. Permission is checked once here;
// a non-granted recipient is a silent no-op.
type Dispatcher struct {
	worker      *WorkerChannel
	page        *PageChannel
	permissions PermissionSource
	logger      *logrus.Logger
}

func NewDispatcher(worker *WorkerChannel, page *PageChannel, permissions PermissionSource, logger *logrus.Logger) *Dispatcher {
	return &Dispatcher{worker: worker, page: page, permissions: permissions, logger: logger}
}

func (d *Dispatcher) Deliver(ctx context.Context, msg notification.Message) error {
	// Recipient 0 targets the firm-wide channel owned by the service itself;
	// per-subscriber permission does not apply to it.
	if msg.Recipient != 0 && d.permissions.Status(msg.Recipient) != notification.PermissionGranted {
		d.logger.WithFields(logrus.Fields{
			"subscriber_id": msg.Recipient,
			"task_id":       msg.TaskID,
		}).Debug("Notification skipped: permission not granted")
		return nil
	}

	if d.worker.Active(ctx) {
		return d.worker.Deliver(ctx, msg)
	}
	return d.page.Deliver(ctx, msg)
}
