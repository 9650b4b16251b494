package notify

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"claims-registry/internal/common/config"
	apperrors "claims-registry/internal/common/errors"
	"claims-registry/internal/common/logger"
	"claims-registry/internal/models"

	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/aws/aws-sdk-go-v2/service/sns"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ==========================
// Mock Implementations
// ==========================

type MockSESService struct {
	SendEmailFunc func(ctx context.Context, params *ses.SendEmailInput, optFns ...func(*ses.Options)) (*ses.SendEmailOutput, error)
}

func (m *MockSESService) SendEmail(ctx context.Context, params *ses.SendEmailInput, optFns ...func(*ses.Options)) (*ses.SendEmailOutput, error) {
	return m.SendEmailFunc(ctx, params, optFns...)
}

type MockSNSService struct {
	PublishFunc func(ctx context.Context, params *sns.PublishInput, optFns ...func(*sns.Options)) (*sns.PublishOutput, error)
}

func (m *MockSNSService) Publish(ctx context.Context, params *sns.PublishInput, optFns ...func(*sns.Options)) (*sns.PublishOutput, error) {
	return m.PublishFunc(ctx, params, optFns...)
}

func submitted() models.Notification {
	return models.Notification{
		SessionID: "session-1",
		Title:     "Claim Submitted",
		Message:   "Claim CLM-1 has been successfully submitted for review.",
		Severity:  models.SeveritySuccess,
	}
}

// ==========================
// Tests
// ==========================

func TestSESNotifier(t *testing.T) {
	mockSES := &MockSESService{
		SendEmailFunc: func(ctx context.Context, params *ses.SendEmailInput, optFns ...func(*ses.Options)) (*ses.SendEmailOutput, error) {
			assert.Equal(t, []string{"ops@example.com", "audit@example.com"}, params.Destination.ToAddresses)
			assert.Equal(t, "claims@example.com", *params.Source)
			assert.Equal(t, "[success] Claim Submitted", *params.Message.Subject.Data)
			assert.Contains(t, *params.Message.Body.Text.Data, "CLM-1")
			return &ses.SendEmailOutput{}, nil
		},
	}

	n := NewSESNotifier(mockSES, "claims@example.com", []string{"ops@example.com", "audit@example.com"})
	require.NoError(t, n.Notify(context.Background(), submitted()))
}

func TestSESNotifier_Failure(t *testing.T) {
	mockSES := &MockSESService{
		SendEmailFunc: func(ctx context.Context, params *ses.SendEmailInput, optFns ...func(*ses.Options)) (*ses.SendEmailOutput, error) {
			return nil, errors.New("throttled")
		},
	}

	err := NewSESNotifier(mockSES, "claims@example.com", []string{"ops@example.com"}).Notify(context.Background(), submitted())
	require.Error(t, err)
	assert.True(t, apperrors.HasCode(err, apperrors.ErrCodeNotificationSendFailed))
}

func TestSNSNotifier(t *testing.T) {
	mockSNS := &MockSNSService{
		PublishFunc: func(ctx context.Context, params *sns.PublishInput, optFns ...func(*sns.Options)) (*sns.PublishOutput, error) {
			assert.Equal(t, "arn:aws:sns:us-east-1:123456789012:claims", *params.TopicArn)
			assert.Equal(t, "Claim Submitted", *params.Subject)
			assert.Equal(t, "success", *params.MessageAttributes["severity"].StringValue)
			return &sns.PublishOutput{}, nil
		},
	}

	n := NewSNSNotifier(mockSNS, "arn:aws:sns:us-east-1:123456789012:claims")
	require.NoError(t, n.Notify(context.Background(), submitted()))
}

func TestMulti_DeliversToAllAndJoinsErrors(t *testing.T) {
	rec := NewRecorder(0)
	failing := &MockSNSService{
		PublishFunc: func(ctx context.Context, params *sns.PublishInput, optFns ...func(*sns.Options)) (*sns.PublishOutput, error) {
			return nil, errors.New("topic missing")
		},
	}

	m := Multi{NewLogNotifier(logger.NewTestLogger(t)), NewSNSNotifier(failing, "arn"), rec}
	err := m.Notify(context.Background(), submitted())

	require.Error(t, err)
	assert.Contains(t, err.Error(), "NOTIFICATION_SEND_FAILED")
	require.Len(t, rec.All(), 1)
	assert.NotEmpty(t, rec.All()[0].ID)
	assert.False(t, rec.All()[0].CreatedAt.IsZero())
}

func TestRecorder_Limit(t *testing.T) {
	rec := NewRecorder(2)
	for _, title := range []string{"one", "two", "three"} {
		require.NoError(t, rec.Notify(context.Background(), models.Notification{Title: title}))
	}

	all := rec.All()
	require.Len(t, all, 2)
	assert.Equal(t, "two", all[0].Title)

	last, ok := rec.Last()
	require.True(t, ok)
	assert.Equal(t, "three", last.Title)
	assert.Equal(t, models.SeverityInfo, last.Severity)
}

func TestFromConfig_LogOnly(t *testing.T) {
	n, err := FromConfig(context.Background(), config.NotificationConfig{}, logger.NewNoOpLogger())
	require.NoError(t, err)
	require.IsType(t, Multi{}, n)
	assert.Len(t, n.(Multi), 1)
	assert.NoError(t, n.Notify(context.Background(), submitted()))
}

func TestFromConfig_Webhook(t *testing.T) {
	var got models.Notification
	var auth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		auth = r.Header.Get("Authorization")
		_ = json.NewDecoder(r.Body).Decode(&got)
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	cfg := config.NotificationConfig{}
	cfg.Webhook.Enabled = true
	cfg.Webhook.URL = srv.URL
	cfg.Webhook.Token = "secret"
	cfg.Webhook.Timeout = 1000

	n, err := FromConfig(context.Background(), cfg, logger.NewNoOpLogger())
	require.NoError(t, err)
	assert.Len(t, n.(Multi), 2)

	require.NoError(t, n.Notify(context.Background(), submitted()))
	assert.Equal(t, "Bearer secret", auth)
	assert.Equal(t, submitted().Title, got.Title)
	assert.NotEmpty(t, got.ID)
}

// ==========================
// Webhook
// ==========================

type MockPoster struct {
	err  error
	url  string
	body interface{}
}

func (m *MockPoster) PostJSON(_ context.Context, url string, body interface{}) error {
	m.url, m.body = url, body
	return m.err
}

func TestWebhookNotifier(t *testing.T) {
	poster := &MockPoster{}
	n := NewWebhookNotifier(poster, "https://hooks.example.com/claims")

	require.NoError(t, n.Notify(context.Background(), submitted()))
	assert.Equal(t, "https://hooks.example.com/claims", poster.url)
	sent, ok := poster.body.(models.Notification)
	require.True(t, ok)
	assert.NotEmpty(t, sent.ID)
	assert.False(t, sent.CreatedAt.IsZero())
}

func TestWebhookNotifier_Failure(t *testing.T) {
	n := NewWebhookNotifier(&MockPoster{err: errors.New("connection refused")}, "https://hooks.example.com/claims")
	err := n.Notify(context.Background(), submitted())
	assert.True(t, apperrors.HasCode(err, apperrors.ErrCodeNotificationSendFailed))
}
