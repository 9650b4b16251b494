package notify

import (
	"context"

	apperrors "claims-registry/internal/common/errors"
	httpclient "claims-registry/internal/common/http"
	"claims-registry/internal/models"
)

// WebhookPoster is the subset of the outbound HTTP client used here.
type WebhookPoster interface {
	PostJSON(ctx context.Context, url string, body interface{}) error
}

// WebhookNotifier posts each notification as JSON to a fixed URL.
type WebhookNotifier struct {
	client WebhookPoster
	url    string
}

var _ WebhookPoster = (*httpclient.Client)(nil)

func NewWebhookNotifier(client WebhookPoster, url string) *WebhookNotifier {
	return &WebhookNotifier{client: client, url: url}
}

func (w *WebhookNotifier) Notify(ctx context.Context, n models.Notification) error {
	if err := w.client.PostJSON(ctx, w.url, Stamp(n)); err != nil {
		return apperrors.NewNotificationSendFailedError("webhook", err)
	}
	return nil
}
