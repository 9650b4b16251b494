// Package notify delivers registry notifications to logs, email, SMS topics
// and webhooks.
package notify

import (
	"context"
	"errors"
	"sync"
	"time"

	"claims-registry/internal/common/config"
	httpclient "claims-registry/internal/common/http"
	"claims-registry/internal/common/logger"
	"claims-registry/internal/models"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/aws/aws-sdk-go-v2/service/sns"
	"github.com/google/uuid"
)

// Notifier delivers one notification.
type Notifier interface {
	Notify(ctx context.Context, n models.Notification) error
}

// Stamp fills the id and creation time when absent.
func Stamp(n models.Notification) models.Notification {
	if n.ID == "" {
		n.ID = uuid.NewString()
	}
	if n.CreatedAt.IsZero() {
		n.CreatedAt = time.Now().UTC()
	}
	if n.Severity == "" {
		n.Severity = models.SeverityInfo
	}
	return n
}

// LogNotifier writes notifications to the structured log.
type LogNotifier struct {
	logger logger.Logger
}

func NewLogNotifier(log logger.Logger) *LogNotifier {
	return &LogNotifier{logger: log.WithFields(map[string]interface{}{"component": "notify"})}
}

func (l *LogNotifier) Notify(_ context.Context, n models.Notification) error {
	n = Stamp(n)
	fields := map[string]interface{}{
		"notificationId": n.ID,
		"sessionId":      n.SessionID,
		"title":          n.Title,
		"message":        n.Message,
		"severity":       n.Severity,
	}
	if n.Severity == models.SeverityError {
		l.logger.Warn("notification", fields)
	} else {
		l.logger.Info("notification", fields)
	}
	return nil
}

// Multi fans out to every notifier and joins their errors.
type Multi []Notifier

func (m Multi) Notify(ctx context.Context, n models.Notification) error {
	n = Stamp(n)
	var errs []error
	for _, notifier := range m {
		if err := notifier.Notify(ctx, n); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Recorder keeps the most recent notifications in memory.
type Recorder struct {
	mu    sync.Mutex
	limit int
	items []models.Notification
}

// NewRecorder keeps at most limit notifications; limit below 1 keeps all.
func NewRecorder(limit int) *Recorder {
	return &Recorder{limit: limit}
}

func (r *Recorder) Notify(_ context.Context, n models.Notification) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items = append(r.items, Stamp(n))
	if r.limit > 0 && len(r.items) > r.limit {
		r.items = r.items[len(r.items)-r.limit:]
	}
	return nil
}

// All returns a copy of the recorded notifications, oldest first.
func (r *Recorder) All() []models.Notification {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]models.Notification(nil), r.items...)
}

// Last returns the newest notification.
func (r *Recorder) Last() (models.Notification, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.items) == 0 {
		return models.Notification{}, false
	}
	return r.items[len(r.items)-1], true
}

// FromConfig builds the notifier chain: always the log, plus the webhook,
// SES and SNS channels that are enabled.
func FromConfig(ctx context.Context, cfg config.NotificationConfig, log logger.Logger) (Notifier, error) {
	chain := Multi{NewLogNotifier(log)}
	if cfg.Webhook.Enabled {
		client := httpclient.NewClient(config.GetDuration(cfg.Webhook.Timeout))
		if cfg.Webhook.Token != "" {
			client.WithHeader("Authorization", "Bearer "+cfg.Webhook.Token)
		}
		chain = append(chain, NewWebhookNotifier(client, cfg.Webhook.URL))
	}
	if !cfg.Email.Enabled && !cfg.SMS.Enabled {
		return chain, nil
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(cfg.AWS.Region))
	if err != nil {
		return nil, err
	}
	if cfg.Email.Enabled {
		chain = append(chain, NewSESNotifier(ses.NewFromConfig(awsCfg), cfg.Email.FromEmail, cfg.Email.Recipients))
	}
	if cfg.SMS.Enabled {
		chain = append(chain, NewSNSNotifier(sns.NewFromConfig(awsCfg), cfg.SMS.TopicARN))
	}
	return chain, nil
}
