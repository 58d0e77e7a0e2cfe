package dispatch

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/mudassar003/scholarsync/internal/domain"
)

const defaultWebhookTimeout = 10 * time.Second

type webhookRequest struct {
	To      string `json:"to"`
	Channel string `json:"channel"`
	Message string `json:"message"`
}

// WebhookDispatcher posts rendered reminders to an HTTP endpoint, for setups
// where an external relay (Zapier hook, internal mailer) handles delivery.
type WebhookDispatcher struct {
	client   *resty.Client
	channel  domain.Channel
	endpoint string
}

func NewWebhookDispatcher(channel domain.Channel, endpoint string) (*WebhookDispatcher, error) {
	client := resty.New()
	client.SetTimeout(defaultWebhookTimeout)
	client.SetRetryCount(0)

	return NewWebhookDispatcherWithClient(channel, endpoint, client)
}

func NewWebhookDispatcherWithClient(channel domain.Channel, endpoint string, client *resty.Client) (*WebhookDispatcher, error) {
	trimmedEndpoint := strings.TrimSpace(endpoint)
	if trimmedEndpoint == "" {
		return nil, fmt.Errorf("webhook endpoint is required")
	}
	if _, err := url.ParseRequestURI(trimmedEndpoint); err != nil {
		return nil, fmt.Errorf("invalid webhook endpoint: %w", err)
	}
	if !channel.IsValid() {
		return nil, fmt.Errorf("invalid channel %q", channel)
	}
	if client == nil {
		return nil, fmt.Errorf("resty client is required")
	}

	if client.GetClient().Timeout == 0 {
		client.SetTimeout(defaultWebhookTimeout)
	}
	client.SetRetryCount(0)

	return &WebhookDispatcher{
		client:   client,
		channel:  channel,
		endpoint: trimmedEndpoint,
	}, nil
}

func (d *WebhookDispatcher) Channel() domain.Channel { return d.channel }

func (d *WebhookDispatcher) Send(ctx context.Context, msg Message) (*Result, error) {
	if d == nil || d.client == nil {
		return nil, fmt.Errorf("dispatcher is not initialized")
	}
	if strings.TrimSpace(msg.Recipient) == "" {
		return nil, &DispatchError{Message: "recipient is required"}
	}

	reqBody := webhookRequest{
		To:      msg.Recipient,
		Channel: d.channel.String(),
		Message: msg.Body,
	}

	response, err := d.client.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(reqBody).
		Post(d.endpoint)
	if err != nil {
		return nil, &DispatchError{
			Message:   "webhook request failed",
			Transient: !errors.Is(err, context.Canceled),
			Cause:     err,
		}
	}
	if response == nil {
		return nil, &DispatchError{
			Message:   "webhook returned empty response",
			Transient: true,
		}
	}

	statusCode := response.StatusCode()
	responseBody := strings.TrimSpace(response.String())

	if statusCode >= http.StatusOK && statusCode < http.StatusMultipleChoices {
		return &Result{
			StatusCode: statusCode,
			Body:       responseBody,
			MessageID:  webhookMessageID(response),
		}, nil
	}

	return nil, &DispatchError{
		StatusCode: statusCode,
		Message:    webhookErrorMessage(statusCode, responseBody),
		Transient:  isTransientHTTPStatus(statusCode),
	}
}

func isTransientHTTPStatus(statusCode int) bool {
	return statusCode == http.StatusTooManyRequests || (statusCode >= http.StatusInternalServerError && statusCode <= 599)
}

func webhookErrorMessage(statusCode int, body string) string {
	base := fmt.Sprintf("webhook returned status %d", statusCode)
	if body == "" {
		return base
	}
	return fmt.Sprintf("%s: %s", base, body)
}

func webhookMessageID(response *resty.Response) string {
	if response == nil {
		return ""
	}

	for _, key := range []string{"X-Request-ID", "X-Request-Id", "X-Message-ID", "X-Message-Id"} {
		if value := strings.TrimSpace(response.Header().Get(key)); value != "" {
			return value
		}
	}

	return ""
}
