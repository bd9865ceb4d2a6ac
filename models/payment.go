package models

import (
	"context"
	"errors"
	"strings"
	"time"

	"bitbucket.org/akitdaekm/membership_backend/config"
	"bitbucket.org/akitdaekm/membership_backend/utils"
	"github.com/bsm/redislock"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// MembershipFee is the flat annual fee in INR.
var MembershipFee = decimal.NewFromInt(5000)

type Payment struct {
	ID            string          `gorm:"primaryKey;size:36" json:"id"`
	MemberId      string          `gorm:"size:36;index;not null" json:"member_id"`
	Amount        decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"amount"`
	Status        PaymentStatus   `gorm:"size:20;not null;default:PENDING" json:"status"`
	Method        string          `gorm:"size:50" json:"method"`
	TransactionId string          `gorm:"size:100;not null" json:"transaction_id"`
	ReceiptNumber *string         `gorm:"size:20;uniqueIndex" json:"receipt_number"`
	Year          int             `gorm:"not null" json:"year"`
	PaymentDate   time.Time       `gorm:"not null" json:"payment_date"`
	PaidAt        *time.Time      `json:"paid_at"`
	CreatedAt     time.Time       `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt     time.Time       `gorm:"autoUpdateTime" json:"updated_at"`
}

type NewPayment struct {
	Method        string     `json:"method"`
	TransactionId string     `json:"transactionId" binding:"required"`
	PaymentDate   *time.Time `json:"paymentDate"`
}

func (in *NewPayment) validate() error {
	if strings.TrimSpace(in.TransactionId) == "" {
		return utils.NewValidationError("transactionId is required")
	}
	return nil
}

// submittedPaymentDate is the date the member says they paid; absent or zero
// falls back to the submission time.
func submittedPaymentDate(in NewPayment, now time.Time) time.Time {
	if in.PaymentDate != nil && !in.PaymentDate.IsZero() {
		return *in.PaymentDate
	}
	return now
}

// SubmitPayment records a member's declaration that the fee was paid: a bank
// or UPI transaction reference, optionally the date it was made. The payment
// starts PENDING and the member moves to PAYMENT_PENDING until the treasurer
// verifies it.
//
// When REQUIRE_APPROVAL_FOR_PAYMENT is on, submission is refused until the
// application has reached APPROVED (or is already mid-payment).
func SubmitPayment(ctx context.Context, memberId string, input NewPayment) (*Payment, error) {
	if err := input.validate(); err != nil {
		return nil, err
	}

	now := time.Now()
	paymentDate := submittedPaymentDate(input, now)

	db := config.GetDB()
	tx := db.Begin()

	var member Member
	if err := tx.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ?", memberId).
		Take(&member).Error; err != nil {
		tx.Rollback()
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, utils.ErrorRecordNotFound
		}
		return nil, err
	}

	if config.RequireApprovalForPayment() {
		switch member.Status {
		case MemberStatusApproved, MemberStatusPaymentPending, MemberStatusActive:
		default:
			tx.Rollback()
			return nil, utils.NewValidationError("application must be approved before payment")
		}
	}

	payment := Payment{
		ID:            uuid.NewString(),
		MemberId:      member.ID,
		Amount:        MembershipFee,
		Status:        PaymentStatusPending,
		Method:        input.Method,
		TransactionId: strings.TrimSpace(input.TransactionId),
		Year:          now.Year(),
		PaymentDate:   paymentDate,
	}
	if err := tx.WithContext(ctx).Create(&payment).Error; err != nil {
		tx.Rollback()
		return nil, err
	}
	if err := tx.WithContext(ctx).Model(&member).
		Update("status", MemberStatusPaymentPending).Error; err != nil {
		tx.Rollback()
		return nil, err
	}
	if err := tx.Commit().Error; err != nil {
		return nil, err
	}
	return &payment, nil
}

// VerificationResult is what the treasurer gets back after confirming a
// payment: the issued receipt and, on first activation, the new membership id.
type VerificationResult struct {
	Member        *Member  `json:"member"`
	Payment       *Payment `json:"payment"`
	ReceiptNumber string   `json:"receiptNumber"`
	MembershipId  string   `json:"membershipId"`
}

// paidPaymentUpdates finalizes a verified payment. Year is rebucketed from
// the calendar year recorded at submission to the fiscal start year the
// receipt belongs to.
func paidPaymentUpdates(fy utils.FiscalYear, receipt string, now time.Time) map[string]interface{} {
	return map[string]interface{}{
		"status":         PaymentStatusPaid,
		"receipt_number": receipt,
		"paid_at":        now,
		"year":           fy.StartYear,
	}
}

// activationMembershipId picks the membership id to persist at activation. An
// id assigned by an earlier verification is never replaced; mint runs only
// for first-time activations.
func activationMembershipId(m *Member, mint func() (string, error)) (string, bool, error) {
	if m.MembershipId != nil && *m.MembershipId != "" {
		return *m.MembershipId, false, nil
	}
	id, err := mint()
	if err != nil {
		return "", false, err
	}
	return id, true, nil
}

// VerifyPayment confirms the member's latest pending payment. In one
// transaction it issues the next receipt number for the current fiscal year,
// marks the payment PAID, assigns a membership id if the member has none, and
// activates the member.
//
// A per-member redis lock keeps double-clicked verifications from racing; the
// MySQL advisory numbering lock is the authoritative serializer for the
// sequences themselves, so verification stays correct without redis. Counter
// values taken from redis are handed back on rollback, keeping committed
// receipts gapless.
func VerifyPayment(ctx context.Context, memberId string) (*VerificationResult, error) {
	logger := config.GetLogger()

	if locker := config.GetRedisLock(); locker != nil {
		lock, err := locker.Obtain(ctx, "lock:payment:verify:"+memberId, 30*time.Second, nil)
		if err == nil {
			defer lock.Release(context.WithoutCancel(ctx))
		} else if err != redislock.ErrNotObtained {
			config.LogError(logger, "payment", "VerifyPayment", "redis lock", memberId, err)
		}
	}

	db := config.GetDB()
	tx := db.Begin()

	if err := AcquireNumberingLock(ctx, tx); err != nil {
		tx.Rollback()
		return nil, err
	}

	var allocatedKeys []string
	releaseAllocations := func() {
		for _, key := range allocatedKeys {
			if rerr := utils.ReleaseSequence(ctx, key); rerr != nil {
				config.LogError(logger, "payment", "VerifyPayment", "release sequence", key, rerr)
			}
		}
	}
	fail := func(err error) (*VerificationResult, error) {
		releaseAllocations()
		_ = ReleaseNumberingLock(ctx, tx)
		tx.Rollback()
		return nil, err
	}

	var member Member
	if err := tx.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ?", memberId).
		Take(&member).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fail(utils.ErrorRecordNotFound)
		}
		return fail(err)
	}

	var payment Payment
	if err := tx.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("member_id = ? AND status = ?", memberId, PaymentStatusPending).
		Order("created_at DESC").
		Take(&payment).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fail(utils.ErrorRecordNotFound)
		}
		return fail(err)
	}

	now := time.Now()
	fy := utils.FinancialYear(now)

	seq, err := utils.NextSequence(ctx, receiptCounterKey(fy), func(ctx context.Context) (int64, error) {
		return receiptSeed(ctx, tx, fy)
	})
	if err != nil {
		return fail(err)
	}
	allocatedKeys = append(allocatedKeys, receiptCounterKey(fy))
	receipt := formatReceiptNumber(fy, seq)

	if err := tx.WithContext(ctx).Model(&payment).
		Updates(paidPaymentUpdates(fy, receipt, now)).Error; err != nil {
		return fail(err)
	}

	membershipId, minted, err := activationMembershipId(&member, func() (string, error) {
		mseq, merr := utils.NextSequence(ctx, membershipCounterKey, func(ctx context.Context) (int64, error) {
			return membershipSeed(ctx, tx)
		})
		if merr != nil {
			return "", merr
		}
		allocatedKeys = append(allocatedKeys, membershipCounterKey)
		return formatMembershipId(mseq), nil
	})
	if err != nil {
		return fail(err)
	}

	memberUpdates := map[string]interface{}{"status": MemberStatusActive}
	if minted {
		memberUpdates["membership_id"] = membershipId
	}
	if err := tx.WithContext(ctx).Model(&member).Updates(memberUpdates).Error; err != nil {
		return fail(err)
	}

	if err := ReleaseNumberingLock(ctx, tx); err != nil {
		return fail(err)
	}
	if err := tx.Commit().Error; err != nil {
		releaseAllocations()
		return nil, err
	}

	payment.Status = PaymentStatusPaid
	payment.ReceiptNumber = &receipt
	payment.PaidAt = &now
	payment.Year = fy.StartYear
	member.Status = MemberStatusActive
	member.MembershipId = &membershipId

	// Fire-and-forget: receipt delivery failures never undo the verification.
	SendPaymentReceiptNotification(ctx, &member, &payment)

	return &VerificationResult{
		Member:        &member,
		Payment:       &payment,
		ReceiptNumber: receipt,
		MembershipId:  membershipId,
	}, nil
}

// ListPaymentsForMember returns a member's payment history, newest first.
func ListPaymentsForMember(ctx context.Context, memberId string) ([]Payment, error) {
	db := config.GetDB()
	var payments []Payment
	err := db.WithContext(ctx).
		Where("member_id = ?", memberId).
		Order("created_at DESC").
		Find(&payments).Error
	if err != nil {
		return nil, err
	}
	return payments, nil
}
