package config

import (
	"context"
	"errors"
	"os"
	"sync"

	"cloud.google.com/go/pubsub"
	"github.com/joho/godotenv"
	"google.golang.org/api/option"
)

var (
	pubsubClient   *pubsub.Client
	pubsubClientMu sync.Mutex
)

func init() {
	// Load env from .env
	godotenv.Load()
}

func getPubSubProjectID() string {
	if v := os.Getenv("PUBSUB_PROJECT_ID"); v != "" {
		return v
	}
	if v := os.Getenv("GOOGLE_CLOUD_PROJECT"); v != "" {
		return v
	}
	return ""
}

func getPubSubClient(ctx context.Context) (*pubsub.Client, error) {
	pubsubClientMu.Lock()
	defer pubsubClientMu.Unlock()
	if pubsubClient != nil {
		return pubsubClient, nil
	}

	projectID := getPubSubProjectID()
	if projectID == "" {
		return nil, errors.New("PUBSUB_PROJECT_ID/GOOGLE_CLOUD_PROJECT not set")
	}

	var (
		c   *pubsub.Client
		err error
	)
	if credJSON := os.Getenv("PUBSUB_CREDENTIALS_JSON"); credJSON != "" {
		c, err = pubsub.NewClient(ctx, projectID, option.WithCredentialsJSON([]byte(credJSON)))
	} else {
		// Application Default Credentials (service account or GOOGLE_APPLICATION_CREDENTIALS).
		c, err = pubsub.NewClient(ctx, projectID)
	}
	if err != nil {
		return nil, err
	}
	pubsubClient = c
	return pubsubClient, nil
}

func notificationsTopicName() string {
	if v := os.Getenv("NOTIFICATIONS_TOPIC"); v != "" {
		return v
	}
	return "membership-notifications"
}

// PublishNotificationWithResult publishes a notification payload and returns the
// Pub/Sub message ID. Callers treat failures as retryable; nothing here blocks
// the originating request.
func PublishNotificationWithResult(ctx context.Context, payload []byte, attrs map[string]string) (string, error) {
	client, err := getPubSubClient(ctx)
	if err != nil {
		return "", err
	}
	topic := client.Topic(notificationsTopicName())
	res := topic.Publish(ctx, &pubsub.Message{
		Data:       payload,
		Attributes: attrs,
	})
	return res.Get(ctx)
}
