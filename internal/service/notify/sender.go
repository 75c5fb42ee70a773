package notify

import (
	"context"

	"firebase.google.com/go/v4/messaging"
	"go.uber.org/zap"

	applog "github.com/Kamrul101/donate-red-server/internal/platform/logging"
)

// Message is the payload pushed to a device.
type Message struct {
	Title string
	Body  string
	// Data carries string key/values for the client app, such as a request ID.
	Data map[string]string
}

// Sender delivers one message to one subscription token.
type Sender interface {
	Send(ctx context.Context, token string, msg Message) error
}

// FCMSender delivers through Firebase Cloud Messaging.
type FCMSender struct {
	client *messaging.Client
}

// NewFCMSender wraps an initialized messaging client.
func NewFCMSender(client *messaging.Client) *FCMSender {
	return &FCMSender{client: client}
}

func (s *FCMSender) Send(ctx context.Context, token string, msg Message) error {
	_, err := s.client.Send(ctx, &messaging.Message{
		Token: token,
		Notification: &messaging.Notification{
			Title: msg.Title,
			Body:  msg.Body,
		},
		Data: msg.Data,
		Webpush: &messaging.WebpushConfig{
			Notification: &messaging.WebpushNotification{
				Title: msg.Title,
				Body:  msg.Body,
			},
		},
	})
	return err
}

// LogSender records messages in the log instead of delivering them. It is
// used when the server runs without Firebase.
type LogSender struct{}

func (LogSender) Send(ctx context.Context, token string, msg Message) error {
	applog.LogInfo(ctx, "push notification",
		zap.String("token", redact(token)),
		zap.String("title", msg.Title),
		zap.String("body", msg.Body),
	)
	return nil
}

// redact keeps only the tail of a device token.
func redact(token string) string {
	const keep = 6
	if len(token) <= keep {
		return "***"
	}
	return "***" + token[len(token)-keep:]
}

// Compile-time interface checks
var (
	_ Sender = (*FCMSender)(nil)
	_ Sender = LogSender{}
)
