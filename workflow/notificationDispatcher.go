package workflow

import (
	"context"
	"encoding/json"
	"time"

	"bitbucket.org/akitdaekm/membership_backend/config"
	"bitbucket.org/akitdaekm/membership_backend/models"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// NotificationSender delivers one outbox row to its channel.
type NotificationSender interface {
	Send(ctx context.Context, record *models.NotificationRecord) error
}

// NotificationDispatcher drains the notification outbox: claim a batch, hand
// each row to the sender, mark SENT or reschedule with backoff. Rows that keep
// failing go DEAD rather than clogging the queue.
type NotificationDispatcher struct {
	Logger       *logrus.Logger
	Sender       NotificationSender
	DispatcherID string

	BatchSize    int
	PollInterval time.Duration
}

func NewNotificationDispatcher(logger *logrus.Logger) *NotificationDispatcher {
	return &NotificationDispatcher{
		Logger:       logger,
		Sender:       defaultSender(logger),
		DispatcherID: uuid.NewString(),
		BatchSize:    50,
		PollInterval: 2 * time.Second,
	}
}

func (d *NotificationDispatcher) Run(ctx context.Context) {
	if ctx == nil {
		ctx = context.Background()
	}
	for {
		select {
		case <-ctx.Done():
			return
		default:
		}
		d.dispatchOnce(ctx)
		select {
		case <-ctx.Done():
			return
		case <-time.After(d.PollInterval):
		}
	}
}

func (d *NotificationDispatcher) dispatchOnce(ctx context.Context) {
	records, err := models.ClaimDueNotifications(ctx, d.BatchSize)
	if err != nil {
		if d.Logger != nil {
			d.Logger.WithFields(logrus.Fields{
				"field":         "NotificationDispatcher",
				"dispatcher_id": d.DispatcherID,
			}).Error("claim batch failed: " + err.Error())
		}
		return
	}

	for i := range records {
		rec := &records[i]
		if err := d.Sender.Send(ctx, rec); err != nil {
			if markErr := models.MarkNotificationFailed(ctx, rec, err); markErr != nil && d.Logger != nil {
				d.Logger.WithFields(logrus.Fields{
					"field":     "NotificationDispatcher",
					"record_id": rec.ID,
				}).Error("mark failed errored: " + markErr.Error())
			}
			continue
		}
		if err := models.MarkNotificationSent(ctx, rec.ID); err != nil && d.Logger != nil {
			d.Logger.WithFields(logrus.Fields{
				"field":     "NotificationDispatcher",
				"record_id": rec.ID,
			}).Error("mark sent errored: " + err.Error())
		}
	}
}

// defaultSender logs the delivery and, when NOTIFICATIONS_VIA_PUBSUB is on,
// also hands the message to the pub/sub topic for a downstream gateway. The
// SMS/WhatsApp/email providers are not integrated yet, so the structured log
// is the delivery of record in development.
func defaultSender(logger *logrus.Logger) NotificationSender {
	return &logSender{logger: logger}
}

type logSender struct {
	logger *logrus.Logger
}

func (s *logSender) Send(ctx context.Context, record *models.NotificationRecord) error {
	if s.logger != nil {
		s.logger.WithFields(logrus.Fields{
			"field":          "NotificationDispatcher",
			"channel":        string(record.Channel),
			"recipient":      record.Recipient,
			"subject":        record.Subject,
			"correlation_id": record.CorrelationId,
		}).Info(record.Body)
	}

	if !config.NotificationsViaPubSub() {
		return nil
	}
	payload, err := json.Marshal(record)
	if err != nil {
		return err
	}
	_, err = config.PublishNotificationWithResult(ctx, payload, map[string]string{
		"channel":   string(record.Channel),
		"recipient": record.Recipient,
	})
	return err
}
