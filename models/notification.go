package models

import (
	"context"
	"fmt"
	"time"

	"bitbucket.org/akitdaekm/membership_backend/config"
	"bitbucket.org/akitdaekm/membership_backend/utils"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// NotificationRecord is a transactional-outbox row. Producers only insert
// PENDING rows; the dispatcher claims, delivers and retries them, so a flaky
// SMS gateway can never fail a registration or a payment verification.
type NotificationRecord struct {
	ID            string              `gorm:"primaryKey;size:36" json:"id"`
	Channel       NotificationChannel `gorm:"size:20;not null" json:"channel"`
	Recipient     string              `gorm:"size:255;not null" json:"recipient"`
	Subject       string              `gorm:"size:255" json:"subject"`
	Body          string              `gorm:"type:text;not null" json:"body"`
	Status        NotificationStatus  `gorm:"size:20;not null;default:PENDING;index" json:"status"`
	Attempts      int                 `gorm:"not null;default:0" json:"attempts"`
	NextAttemptAt time.Time           `gorm:"index" json:"next_attempt_at"`
	LastError     string              `gorm:"size:512" json:"last_error"`
	CorrelationId string              `gorm:"size:64" json:"correlation_id"`
	CreatedAt     time.Time           `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt     time.Time           `gorm:"autoUpdateTime" json:"updated_at"`
}

// QueueNotification enqueues one message. Failures are logged and swallowed;
// no caller's workflow depends on the outbox accepting a row.
func QueueNotification(ctx context.Context, channel NotificationChannel, recipient, subject, body string) {
	logger := config.GetLogger()
	if recipient == "" {
		return
	}
	correlationId, _ := utils.GetCorrelationIdFromContext(ctx)
	record := NotificationRecord{
		ID:            uuid.NewString(),
		Channel:       channel,
		Recipient:     recipient,
		Subject:       subject,
		Body:          body,
		Status:        NotificationStatusPending,
		NextAttemptAt: time.Now(),
		CorrelationId: correlationId,
	}
	db := config.GetDB()
	if err := db.WithContext(ctx).Create(&record).Error; err != nil {
		config.LogError(logger, "notification", "QueueNotification", "enqueue", record.Recipient, err)
	}
}

// NotifyAdminsNewApplication tells every committee member that a new
// application arrived, over each channel they can receive.
func NotifyAdminsNewApplication(ctx context.Context, companyName string) {
	logger := config.GetLogger()
	admins, err := ListAdmins(ctx)
	if err != nil {
		config.LogError(logger, "notification", "NotifyAdminsNewApplication", "list admins", companyName, err)
		return
	}
	subject := "New membership application"
	body := fmt.Sprintf("A new membership application has been received from %s. Please review it in the admin dashboard.", companyName)
	for _, admin := range admins {
		QueueNotification(ctx, NotificationChannelEmail, admin.Email, subject, body)
		if admin.Phone != "" {
			QueueNotification(ctx, NotificationChannelSMS, admin.Phone, subject, body)
			QueueNotification(ctx, NotificationChannelWhatsApp, admin.Phone, subject, body)
		}
	}
}

// SendPaymentReceiptNotification sends the member their receipt and, on first
// activation, their membership id.
func SendPaymentReceiptNotification(ctx context.Context, member *Member, payment *Payment) {
	receipt := ""
	if payment.ReceiptNumber != nil {
		receipt = *payment.ReceiptNumber
	}
	membershipId := ""
	if member.MembershipId != nil {
		membershipId = *member.MembershipId
	}
	subject := "Payment received - " + receipt
	body := fmt.Sprintf(
		"Dear %s, your payment of Rs. %s has been received. Receipt number: %s. Membership ID: %s. Your membership is now active.",
		member.CompanyName, payment.Amount.StringFixed(2), receipt, membershipId,
	)
	QueueNotification(ctx, NotificationChannelEmail, member.PrimaryEmail, subject, body)
	QueueNotification(ctx, NotificationChannelSMS, member.PrimaryMobile, subject, body)
	QueueNotification(ctx, NotificationChannelWhatsApp, member.PrimaryMobile, subject, body)
}

// SendStatusNotification tells the applicant their application moved.
func SendStatusNotification(ctx context.Context, member *Member) {
	var subject, body string
	switch member.Status {
	case MemberStatusApproved:
		subject = "Application approved"
		body = fmt.Sprintf("Dear %s, your membership application has been approved. Please complete the payment of Rs. %s to activate your membership.",
			member.CompanyName, MembershipFee.StringFixed(2))
	case MemberStatusRejected:
		subject = "Application update"
		body = fmt.Sprintf("Dear %s, we regret to inform you that your membership application was not approved. Please contact the association office for details.",
			member.CompanyName)
	default:
		return
	}
	QueueNotification(ctx, NotificationChannelEmail, member.PrimaryEmail, subject, body)
	QueueNotification(ctx, NotificationChannelSMS, member.PrimaryMobile, subject, body)
}

const (
	notificationMaxAttempts = 5
	notificationBaseBackoff = 30 * time.Second
)

// ClaimDueNotifications atomically moves up to limit due PENDING/FAILED rows
// to PROCESSING and returns them. Rows are claimed with a row lock so
// concurrent dispatcher instances never deliver the same message twice.
func ClaimDueNotifications(ctx context.Context, limit int) ([]NotificationRecord, error) {
	db := config.GetDB()
	tx := db.Begin()

	var records []NotificationRecord
	err := tx.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE", Options: "SKIP LOCKED"}).
		Where("status IN ? AND next_attempt_at <= ?",
			[]NotificationStatus{NotificationStatusPending, NotificationStatusFailed}, time.Now()).
		Order("next_attempt_at ASC").
		Limit(limit).
		Find(&records).Error
	if err != nil {
		tx.Rollback()
		return nil, err
	}
	if len(records) == 0 {
		tx.Rollback()
		return nil, nil
	}

	ids := make([]string, 0, len(records))
	for i := range records {
		ids = append(ids, records[i].ID)
		records[i].Status = NotificationStatusProcessing
	}
	if err := tx.WithContext(ctx).Model(&NotificationRecord{}).
		Where("id IN ?", ids).
		Update("status", NotificationStatusProcessing).Error; err != nil {
		tx.Rollback()
		return nil, err
	}
	if err := tx.Commit().Error; err != nil {
		return nil, err
	}
	return records, nil
}

// MarkNotificationSent finalizes a delivered row.
func MarkNotificationSent(ctx context.Context, id string) error {
	db := config.GetDB()
	return db.WithContext(ctx).Model(&NotificationRecord{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"status":   NotificationStatusSent,
			"attempts": gorm.Expr("attempts + 1"),
		}).Error
}

// MarkNotificationFailed schedules a retry with exponential backoff, or parks
// the row as DEAD once max attempts is reached.
func MarkNotificationFailed(ctx context.Context, record *NotificationRecord, deliveryErr error) error {
	attempts := record.Attempts + 1
	status := NotificationStatusFailed
	next := time.Now().Add(notificationBaseBackoff * time.Duration(1<<min(attempts, 6)))
	if attempts >= notificationMaxAttempts {
		status = NotificationStatusDead
	}
	msg := deliveryErr.Error()
	if len(msg) > 512 {
		msg = msg[:512]
	}
	db := config.GetDB()
	return db.WithContext(ctx).Model(&NotificationRecord{}).
		Where("id = ?", record.ID).
		Updates(map[string]interface{}{
			"status":          status,
			"attempts":        attempts,
			"next_attempt_at": next,
			"last_error":      msg,
		}).Error
}
