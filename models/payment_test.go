package models

import (
	"context"
	"testing"
	"time"

	"bitbucket.org/akitdaekm/membership_backend/utils"
)

func TestNewPaymentValidate(t *testing.T) {
	cases := []struct {
		name    string
		input   NewPayment
		wantErr bool
	}{
		{"ok", NewPayment{TransactionId: "UTR123456"}, false},
		{"empty", NewPayment{TransactionId: ""}, true},
		{"whitespace", NewPayment{TransactionId: "   "}, true},
	}
	for _, tc := range cases {
		err := tc.input.validate()
		if tc.wantErr {
			if !utils.IsValidationError(err) {
				t.Fatalf("%s: expected validation error, got %v", tc.name, err)
			}
			continue
		}
		if err != nil {
			t.Fatalf("%s: unexpected error %v", tc.name, err)
		}
	}
}

// A blank transaction id must be rejected before any database work starts: no
// connection is configured here, so reaching the transaction would panic.
func TestSubmitPayment_RejectsBlankTransactionIdBeforeDB(t *testing.T) {
	for _, tid := range []string{"", "   "} {
		_, err := SubmitPayment(context.Background(), "member-1", NewPayment{TransactionId: tid})
		if !utils.IsValidationError(err) {
			t.Fatalf("transactionId %q: expected validation error, got %v", tid, err)
		}
	}
}

func TestSubmittedPaymentDate(t *testing.T) {
	now := time.Date(2025, time.June, 10, 12, 0, 0, 0, time.UTC)
	declared := time.Date(2025, time.June, 8, 0, 0, 0, 0, time.UTC)

	if got := submittedPaymentDate(NewPayment{TransactionId: "x"}, now); !got.Equal(now) {
		t.Fatalf("absent date should fall back to now, got %v", got)
	}
	var zero time.Time
	if got := submittedPaymentDate(NewPayment{TransactionId: "x", PaymentDate: &zero}, now); !got.Equal(now) {
		t.Fatalf("zero date should fall back to now, got %v", got)
	}
	if got := submittedPaymentDate(NewPayment{TransactionId: "x", PaymentDate: &declared}, now); !got.Equal(declared) {
		t.Fatalf("declared date should win, got %v", got)
	}
}

func TestPaidPaymentUpdates_RebucketsToFiscalStartYear(t *testing.T) {
	// Verified in February 2026: the receipt belongs to the fiscal year that
	// started April 2025, and the payment's year column must say so.
	now := time.Date(2026, time.February, 10, 0, 0, 0, 0, time.UTC)
	fy := utils.FinancialYear(now)
	updates := paidPaymentUpdates(fy, "EKM/2526/004", now)

	if updates["year"] != 2025 {
		t.Fatalf("expected year 2025, got %v", updates["year"])
	}
	if updates["status"] != PaymentStatusPaid {
		t.Fatalf("expected status PAID, got %v", updates["status"])
	}
	if updates["receipt_number"] != "EKM/2526/004" {
		t.Fatalf("expected receipt EKM/2526/004, got %v", updates["receipt_number"])
	}
	if updates["paid_at"] != now {
		t.Fatalf("expected paid_at %v, got %v", now, updates["paid_at"])
	}
}

func TestActivationMembershipId_NeverReassigns(t *testing.T) {
	existing := "AKEKM042"
	m := &Member{MembershipId: &existing}

	id, minted, err := activationMembershipId(m, func() (string, error) {
		t.Fatal("mint must not run for a member that already has an id")
		return "", nil
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if minted {
		t.Fatal("expected minted=false for an already-assigned member")
	}
	if id != existing {
		t.Fatalf("expected %s to be kept, got %s", existing, id)
	}
}

func TestActivationMembershipId_MintsOnFirstActivation(t *testing.T) {
	for _, m := range []*Member{{}, {MembershipId: new(string)}} {
		id, minted, err := activationMembershipId(m, func() (string, error) {
			return "AKEKM007", nil
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !minted || id != "AKEKM007" {
			t.Fatalf("expected fresh AKEKM007, got %s (minted=%v)", id, minted)
		}
	}
}
