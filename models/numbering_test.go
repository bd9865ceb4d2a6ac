package models

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"bitbucket.org/akitdaekm/membership_backend/utils"
)

func TestFormatReceiptNumber(t *testing.T) {
	fy := utils.FinancialYear(time.Date(2025, time.July, 1, 0, 0, 0, 0, time.UTC))
	cases := []struct {
		seq  int64
		want string
	}{
		{1, "EKM/2526/001"},
		{7, "EKM/2526/007"},
		{42, "EKM/2526/042"},
		{999, "EKM/2526/999"},
		{1000, "EKM/2526/1000"},
	}
	for _, tc := range cases {
		if got := formatReceiptNumber(fy, tc.seq); got != tc.want {
			t.Fatalf("formatReceiptNumber(%d): got %q, want %q", tc.seq, got, tc.want)
		}
	}
}

func TestFormatReceiptNumber_YearRollover(t *testing.T) {
	// A receipt issued in March belongs to the fiscal year that started the
	// previous April.
	march := utils.FinancialYear(time.Date(2026, time.February, 1, 0, 0, 0, 0, time.UTC))
	if got := formatReceiptNumber(march, 1); got != "EKM/2526/001" {
		t.Fatalf("february receipt: got %q, want EKM/2526/001", got)
	}
	april := utils.FinancialYear(time.Date(2026, time.April, 1, 0, 0, 0, 0, time.UTC))
	if got := formatReceiptNumber(april, 1); got != "EKM/2627/001" {
		t.Fatalf("april receipt: got %q, want EKM/2627/001", got)
	}
}

func TestMembershipIdFormatAndParse(t *testing.T) {
	if got := formatMembershipId(7); got != "AKEKM007" {
		t.Fatalf("formatMembershipId(7): got %q", got)
	}
	if got := formatMembershipId(1234); got != "AKEKM1234" {
		t.Fatalf("formatMembershipId(1234): got %q", got)
	}
	cases := []struct {
		id   string
		want int64
	}{
		{"AKEKM007", 7},
		{"AKEKM100", 100},
		{"AKEKM1234", 1234},
		{"EKM007", 0},
		{"AKEKMxyz", 0},
		{"", 0},
	}
	for _, tc := range cases {
		if got := parseMembershipSuffix(tc.id); got != tc.want {
			t.Fatalf("parseMembershipSuffix(%q): got %d, want %d", tc.id, got, tc.want)
		}
	}
}

// fakeAllocator mirrors the verification flow's numbering discipline: an
// exclusive lock held across read-increment-format.
type fakeAllocator struct {
	mu   sync.Mutex
	next int64
}

func (a *fakeAllocator) allocate(fy utils.FiscalYear) string {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.next++
	return formatReceiptNumber(fy, a.next)
}

// allocateOrRollback takes the next value and, when the surrounding work
// fails, hands it straight back under the same lock, the way a failed
// verification releases its counter before the numbering lock is dropped.
func (a *fakeAllocator) allocateOrRollback(fy utils.FiscalYear, commit bool) (string, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.next++
	if !commit {
		a.next--
		return "", false
	}
	return formatReceiptNumber(fy, a.next), true
}

func TestReceiptAllocation_ConcurrentDistinctAndGapless(t *testing.T) {
	fy := utils.FinancialYear(time.Date(2025, time.June, 1, 0, 0, 0, 0, time.UTC))
	a := &fakeAllocator{}

	const n = 100
	results := make(chan string, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			results <- a.allocate(fy)
		}()
	}
	wg.Wait()
	close(results)

	seen := map[string]bool{}
	for r := range results {
		if seen[r] {
			t.Fatalf("duplicate receipt number issued: %s", r)
		}
		seen[r] = true
	}
	for i := 1; i <= n; i++ {
		want := fmt.Sprintf("EKM/2526/%03d", i)
		if !seen[want] {
			t.Fatalf("gap in receipt sequence: missing %s", want)
		}
	}
}

func TestReceiptAllocation_RollbackLeavesNoGap(t *testing.T) {
	fy := utils.FinancialYear(time.Date(2025, time.June, 1, 0, 0, 0, 0, time.UTC))
	a := &fakeAllocator{}

	// Every third verification fails and releases its number; the committed
	// receipts must still come out contiguous from 001 with no value skipped.
	const n = 90
	results := make(chan string, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			receipt, committed := a.allocateOrRollback(fy, i%3 != 0)
			if committed {
				results <- receipt
			}
		}(i)
	}
	wg.Wait()
	close(results)

	seen := map[string]bool{}
	for r := range results {
		if seen[r] {
			t.Fatalf("duplicate receipt number issued: %s", r)
		}
		seen[r] = true
	}
	for i := 1; i <= len(seen); i++ {
		want := fmt.Sprintf("EKM/2526/%03d", i)
		if !seen[want] {
			t.Fatalf("gap after rollbacks: missing %s", want)
		}
	}
	if a.next != int64(len(seen)) {
		t.Fatalf("counter drifted: next=%d, committed=%d", a.next, len(seen))
	}
}
