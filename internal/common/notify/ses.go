package notify

import (
	"context"
	"fmt"

	apperrors "claims-registry/internal/common/errors"
	"claims-registry/internal/models"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/aws/aws-sdk-go-v2/service/ses/types"
)

// SESService is the subset of the SES client used here.
type SESService interface {
	SendEmail(ctx context.Context, params *ses.SendEmailInput, optFns ...func(*ses.Options)) (*ses.SendEmailOutput, error)
}

// SESNotifier emails notifications to a fixed recipient list.
type SESNotifier struct {
	client     SESService
	from       string
	recipients []string
}

func NewSESNotifier(client SESService, from string, recipients []string) *SESNotifier {
	return &SESNotifier{client: client, from: from, recipients: recipients}
}

func (s *SESNotifier) Notify(ctx context.Context, n models.Notification) error {
	n = Stamp(n)
	subject := fmt.Sprintf("[%s] %s", n.Severity, n.Title)
	_, err := s.client.SendEmail(ctx, &ses.SendEmailInput{
		Destination: &types.Destination{
			ToAddresses: s.recipients,
		},
		Message: &types.Message{
			Subject: &types.Content{Data: aws.String(subject)},
			Body: &types.Body{
				Text: &types.Content{Data: aws.String(n.Message)},
			},
		},
		Source: aws.String(s.from),
	})
	if err != nil {
		return apperrors.NewNotificationSendFailedError("email", err)
	}
	return nil
}
