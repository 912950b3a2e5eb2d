package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/cenkalti/backoff/v4"

	"github.com/quipay/keysmith/internal/errors"
	rotationDomain "github.com/quipay/keysmith/internal/rotation/domain"
)

// Webhook defaults.
const (
	DefaultWebhookTimeout     = 10 * time.Second
	DefaultWebhookMaxAttempts = 3
	DefaultWebhookInitialWait = 500 * time.Millisecond
)

// WebhookConfig configures the webhook notifier.
type WebhookConfig struct {
	URL         string
	Timeout     time.Duration
	MaxAttempts int
	InitialWait time.Duration
	Headers     map[string]string
}

// WebhookNotifier posts rotation events as JSON to an HTTP endpoint.
type WebhookNotifier struct {
	config WebhookConfig
	client *http.Client
	logger *slog.Logger
}

// webhookPayload is the request body. Key material is never part of it.
type webhookPayload struct {
	Type  string                       `json:"type"`
	Event rotationDomain.RotationEvent `json:"event"`
}

// NewWebhookNotifier creates a WebhookNotifier, applying defaults to zero fields.
func NewWebhookNotifier(config WebhookConfig, logger *slog.Logger) *WebhookNotifier {
	if config.Timeout <= 0 {
		config.Timeout = DefaultWebhookTimeout
	}
	if config.MaxAttempts <= 0 {
		config.MaxAttempts = DefaultWebhookMaxAttempts
	}
	if config.InitialWait <= 0 {
		config.InitialWait = DefaultWebhookInitialWait
	}

	return &WebhookNotifier{
		config: config,
		client: &http.Client{Timeout: config.Timeout},
		logger: logger,
	}
}

// NotifyRotation delivers the event, retrying server errors with exponential backoff.
func (n *WebhookNotifier) NotifyRotation(ctx context.Context, event rotationDomain.RotationEvent) error {
	body, err := json.Marshal(webhookPayload{Type: "key.rotated", Event: event})
	if err != nil {
		return errors.Wrap(err, "failed to encode webhook payload")
	}

	policy := backoff.WithContext(
		backoff.WithMaxRetries(
			backoff.NewExponentialBackOff(backoff.WithInitialInterval(n.config.InitialWait)),
			uint64(n.config.MaxAttempts-1),
		),
		ctx,
	)

	notify := func(err error, wait time.Duration) {
		n.logger.Warn("rotation webhook attempt failed",
			slog.String("event_id", event.ID.String()),
			slog.Duration("retry_in", wait),
			slog.Any("error", err),
		)
	}

	if err := backoff.RetryNotify(func() error { return n.send(ctx, body) }, policy, notify); err != nil {
		return errors.Wrapf(err, "rotation webhook for %s", event.KeyName)
	}
	return nil
}

func (n *WebhookNotifier) send(ctx context.Context, body []byte) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.config.URL, bytes.NewReader(body))
	if err != nil {
		return backoff.Permanent(errors.Wrap(err, "failed to create request"))
	}
	req.Header.Set("Content-Type", "application/json")
	for key, value := range n.config.Headers {
		req.Header.Set(key, value)
	}

	resp, err := n.client.Do(req)
	if err != nil {
		return errors.Wrap(errors.ErrUnavailable, err.Error())
	}
	defer func() { _ = resp.Body.Close() }()
	_, _ = io.Copy(io.Discard, resp.Body)

	switch {
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		return nil
	case resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500:
		return errors.Wrap(errors.ErrUnavailable, fmt.Sprintf("webhook returned status %d", resp.StatusCode))
	default:
		return backoff.Permanent(
			errors.Wrap(errors.ErrInvalidInput, fmt.Sprintf("webhook returned status %d", resp.StatusCode)),
		)
	}
}
