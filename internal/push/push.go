package push

import (
	"context"
	"fmt"

	"udinder-backend/internal/config"

	"github.com/sideshow/apns2"
	"github.com/sideshow/apns2/certificate"
	"github.com/sideshow/apns2/payload"
)

// Notification is a user-visible alert
type Notification struct {
	Title string
	Body  string
	Data  map[string]string
}

// Notifier delivers alerts to a device
type Notifier interface {
	Notify(ctx context.Context, deviceToken string, n Notification) error
}

// Noop drops every notification. Used when APNs is not configured.
type Noop struct{}

func (Noop) Notify(context.Context, string, Notification) error { return nil }

// APNs sends notifications through Apple Push Notification service
type APNs struct {
	client *apns2.Client
	topic  string
}

// NewAPNs creates an APNs notifier from a .p12 certificate
func NewAPNs(cfg config.APNSConfig) (*APNs, error) {
	cert, err := certificate.FromP12File(cfg.CertFile, cfg.CertPass)
	if err != nil {
		return nil, fmt.Errorf("failed to load apns certificate: %w", err)
	}

	client := apns2.NewClient(cert)
	if cfg.Production {
		client = client.Production()
	} else {
		client = client.Development()
	}

	return NewAPNsWithClient(client, cfg.Topic), nil
}

// NewAPNsWithClient wraps an existing apns2 client
func NewAPNsWithClient(client *apns2.Client, topic string) *APNs {
	return &APNs{client: client, topic: topic}
}

// Notify pushes n to deviceToken
func (a *APNs) Notify(ctx context.Context, deviceToken string, n Notification) error {
	if deviceToken == "" {
		return fmt.Errorf("device token is required")
	}

	p := payload.NewPayload().AlertTitle(n.Title).AlertBody(n.Body).Sound("default")
	for k, v := range n.Data {
		p = p.Custom(k, v)
	}

	res, err := a.client.PushWithContext(ctx, &apns2.Notification{
		DeviceToken: deviceToken,
		Topic:       a.topic,
		Payload:     p,
	})
	if err != nil {
		return fmt.Errorf("failed to push notification: %w", err)
	}
	if !res.Sent() {
		return fmt.Errorf("apns rejected notification: %d %s", res.StatusCode, res.Reason)
	}
	return nil
}
