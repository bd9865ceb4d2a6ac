package utils

import "testing"

func TestIsValidEmail(t *testing.T) {
	valid := []string{"a@b.co", "member.one+tag@akitdaekm.com"}
	for _, e := range valid {
		if !IsValidEmail(e) {
			t.Fatalf("expected %q to be valid", e)
		}
	}
	invalid := []string{"", "no-at-sign", "a@b", "a @b.co"}
	for _, e := range invalid {
		if IsValidEmail(e) {
			t.Fatalf("expected %q to be invalid", e)
		}
	}
}

func TestNilIfEmpty(t *testing.T) {
	if got := NilIfEmpty(""); got != nil {
		t.Fatalf("expected nil for empty string, got %v", *got)
	}
	got := NilIfEmpty("AKEKM007")
	if got == nil || *got != "AKEKM007" {
		t.Fatalf("expected pointer to value, got %v", got)
	}
}
