package main

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"bitbucket.org/akitdaekm/membership_backend/utils"
	"github.com/gin-gonic/gin"
)

func init() { gin.SetMode(gin.TestMode) }

// memberRequest builds a gin context carrying an authenticated member session,
// the way the auth middleware would have left it.
func memberRequest(t *testing.T, memberId, body string) (*gin.Context, *httptest.ResponseRecorder) {
	t.Helper()
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req := httptest.NewRequest(http.MethodPut, "/", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	req = req.WithContext(utils.SetMemberIdInContext(context.Background(), memberId))
	c.Request = req
	return c, w
}

func TestOtpMatches_MockFallback(t *testing.T) {
	// Without redis the mock code is the only valid one.
	ctx := context.Background()
	if !otpMatches(ctx, "member-1", mockOTP) {
		t.Fatal("mock code must be accepted when no code is stored")
	}
	for _, code := range []string{"", "000000", "12345", "1234567"} {
		if otpMatches(ctx, "member-1", code) {
			t.Fatalf("code %q must be rejected", code)
		}
	}
}

func TestUpdateMemberAddress_WrongOtpUnauthorized(t *testing.T) {
	// The OTP check runs before any database work; no connection is configured
	// here, so passing the check would make the handler blow up.
	c, w := memberRequest(t, "member-1", `{"otp":"999999","district":"Ernakulam"}`)
	updateMemberAddressHandler()(c)
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 for a wrong code, got %d (%s)", w.Code, w.Body.String())
	}
}

func TestUpdateMemberAddress_MissingOtpBadRequest(t *testing.T) {
	c, w := memberRequest(t, "member-1", `{"district":"Ernakulam"}`)
	updateMemberAddressHandler()(c)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 without an otp, got %d (%s)", w.Code, w.Body.String())
	}
}

func TestUpdateMemberAddress_NoSessionUnauthorized(t *testing.T) {
	c, w := memberRequest(t, "", `{"otp":"123456"}`)
	updateMemberAddressHandler()(c)
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without a session, got %d", w.Code)
	}
}

func TestSubmitPayment_MissingTransactionIdBadRequest(t *testing.T) {
	for _, body := range []string{"", "{}", `{"method":"UPI"}`} {
		c, w := memberRequest(t, "member-1", body)
		submitPaymentHandler()(c)
		if w.Code != http.StatusBadRequest {
			t.Fatalf("body %q: expected 400, got %d (%s)", body, w.Code, w.Body.String())
		}
	}
}
