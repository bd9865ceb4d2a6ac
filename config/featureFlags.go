package config

import (
	"os"
	"strings"
)

// RequireApprovalForPayment gates payment submission on Member.status == APPROVED.
// The legacy behavior accepts a payment from any authenticated member regardless
// of status, so the flag defaults to off.
//
// Set via env:
// - REQUIRE_APPROVAL_FOR_PAYMENT=true
func RequireApprovalForPayment() bool {
	return boolFromEnv("REQUIRE_APPROVAL_FOR_PAYMENT")
}

// NotificationsViaPubSub enables dispatching queued notifications to a Pub/Sub
// topic in addition to the structured log sink.
//
// Set via env:
// - NOTIFICATIONS_VIA_PUBSUB=true
// - NOTIFICATIONS_TOPIC=membership-notifications
func NotificationsViaPubSub() bool {
	return boolFromEnv("NOTIFICATIONS_VIA_PUBSUB")
}

func boolFromEnv(key string) bool {
	v := strings.ToLower(strings.TrimSpace(os.Getenv(key)))
	return v == "1" || v == "true" || v == "yes" || v == "y"
}
