package models

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"bitbucket.org/akitdaekm/membership_backend/utils"
	"gorm.io/gorm"
)

// Receipt numbers and membership ids are issued under a single MySQL advisory
// lock so concurrent verifications can never mint duplicates or leave gaps.
// Redis counters are a fast path only; the lock is the serializer.

const numberingLockName = "membership_numbering"
const numberingLockTimeoutSec = 30

const membershipIdPrefix = "AKEKM"

// AcquireNumberingLock takes the advisory lock on the transaction's
// connection. It must be released on the same transaction before commit.
func AcquireNumberingLock(ctx context.Context, tx *gorm.DB) error {
	var acquired int
	err := tx.WithContext(ctx).
		Raw("SELECT GET_LOCK(?, ?)", numberingLockName, numberingLockTimeoutSec).
		Scan(&acquired).Error
	if err != nil {
		return err
	}
	if acquired != 1 {
		return fmt.Errorf("could not acquire %s lock within %ds", numberingLockName, numberingLockTimeoutSec)
	}
	return nil
}

func ReleaseNumberingLock(ctx context.Context, tx *gorm.DB) error {
	var released int
	return tx.WithContext(ctx).
		Raw("SELECT RELEASE_LOCK(?)", numberingLockName).
		Scan(&released).Error
}

// formatReceiptNumber renders EKM/{YY}{YY2}/{NNN}, e.g. EKM/2526/007 for the
// seventh receipt of fiscal year 2025-26. The sequence is zero-padded to three
// digits but not truncated beyond that.
func formatReceiptNumber(fy utils.FiscalYear, seq int64) string {
	return fmt.Sprintf("EKM/%02d%02d/%03d", fy.StartYear%100, fy.EndYear%100, seq)
}

func receiptNumberPrefix(fy utils.FiscalYear) string {
	return fmt.Sprintf("EKM/%02d%02d/", fy.StartYear%100, fy.EndYear%100)
}

func receiptCounterKey(fy utils.FiscalYear) string {
	return "seq:receipt:" + fy.Label
}

const membershipCounterKey = "seq:membership"

// receiptSeed returns the count of receipts already issued in the fiscal year,
// i.e. the high-water mark of the per-year sequence.
func receiptSeed(ctx context.Context, tx *gorm.DB, fy utils.FiscalYear) (int64, error) {
	var count int64
	err := tx.WithContext(ctx).Model(&Payment{}).
		Where("receipt_number LIKE ?", receiptNumberPrefix(fy)+"%").
		Count(&count).Error
	return count, err
}

func formatMembershipId(seq int64) string {
	return fmt.Sprintf("%s%03d", membershipIdPrefix, seq)
}

// parseMembershipSuffix extracts the numeric suffix of an AKEKM id. Returns 0
// for anything it cannot parse (legacy free-form ids are ignored for seeding).
func parseMembershipSuffix(id string) int64 {
	if !strings.HasPrefix(id, membershipIdPrefix) {
		return 0
	}
	n, err := strconv.ParseInt(strings.TrimPrefix(id, membershipIdPrefix), 10, 64)
	if err != nil || n < 0 {
		return 0
	}
	return n
}

// membershipSeed returns the highest AKEKM suffix ever issued. Ordering by
// length before value keeps AKEKM100 above AKEKM099 despite lexicographic
// comparison.
func membershipSeed(ctx context.Context, tx *gorm.DB) (int64, error) {
	var ids []string
	err := tx.WithContext(ctx).Model(&Member{}).
		Where("membership_id LIKE ?", membershipIdPrefix+"%").
		Order("LENGTH(membership_id) DESC, membership_id DESC").
		Limit(1).
		Pluck("membership_id", &ids).Error
	if err != nil {
		return 0, err
	}
	if len(ids) == 0 {
		return 0, nil
	}
	return parseMembershipSuffix(ids[0]), nil
}
