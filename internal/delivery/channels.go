package delivery

import (
	"context"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	sestypes "github.com/aws/aws-sdk-go-v2/service/ses/types"
	"github.com/aws/aws-sdk-go-v2/service/sns"

	"performance-prime/internal/common/logger"
	"performance-prime/internal/common/metrics"
	"performance-prime/internal/common/retry"
	"performance-prime/internal/models"
)

// SESService and SNSService mirror the SDK methods so tests can swap in
// fakes.
type SESService interface {
	SendEmail(ctx context.Context, params *ses.SendEmailInput, optFns ...func(*ses.Options)) (*ses.SendEmailOutput, error)
}

type SNSService interface {
	Publish(ctx context.Context, params *sns.PublishInput, optFns ...func(*sns.Options)) (*sns.PublishOutput, error)
}

// Config gates the channels and carries the sender identity.
type Config struct {
	EmailEnabled bool
	PushEnabled  bool
	FromEmail    string
}

// Channels fans a sent reminder out to email and push. Failures are
// logged and counted but never bubble up: the in-app entry is the
// source of truth and out-of-app channels are best effort.
type Channels struct {
	cfg        Config
	email      SESService
	push       SNSService
	logger     logger.Logger
	retryDelay time.Duration
}

func NewChannels(cfg Config, email SESService, push SNSService, log logger.Logger) *Channels {
	return &Channels{
		cfg:        cfg,
		email:      email,
		push:       push,
		logger:     log.WithFields(map[string]interface{}{"component": "delivery"}),
		retryDelay: 500 * time.Millisecond,
	}
}

func (c *Channels) Deliver(ctx context.Context, n models.ScheduledNotification) {
	if c.cfg.EmailEnabled && c.email != nil && n.EmailTo != "" {
		c.deliverEmail(ctx, n)
	}
	if c.cfg.PushEnabled && c.push != nil && n.PushTarget != "" {
		c.deliverPush(ctx, n)
	}
}

func (c *Channels) deliverEmail(ctx context.Context, n models.ScheduledNotification) {
	err := retry.Do(ctx, func() error {
		_, sendErr := c.email.SendEmail(ctx, &ses.SendEmailInput{
			Destination: &sestypes.Destination{
				ToAddresses: []string{n.EmailTo},
			},
			Message: &sestypes.Message{
				Subject: &sestypes.Content{Data: aws.String(n.Title)},
				Body: &sestypes.Body{
					Text: &sestypes.Content{Data: aws.String(n.Message)},
					Html: &sestypes.Content{Data: aws.String(n.Message)},
				},
			},
			Source: aws.String(c.cfg.FromEmail),
		})
		return sendErr
	}, 3, c.retryDelay)

	if err != nil {
		c.logger.WithError(err).Error("email delivery failed", map[string]interface{}{
			"reminderId": n.ID,
		})
		metrics.DeliveriesSent.WithLabelValues("email", "failed").Inc()
		return
	}
	metrics.DeliveriesSent.WithLabelValues("email", "sent").Inc()
}

func (c *Channels) deliverPush(ctx context.Context, n models.ScheduledNotification) {
	err := retry.Do(ctx, func() error {
		_, pubErr := c.push.Publish(ctx, &sns.PublishInput{
			TargetArn: aws.String(n.PushTarget),
			Subject:   aws.String(n.Title),
			Message:   aws.String(n.Message),
		})
		return pubErr
	}, 3, c.retryDelay)

	if err != nil {
		c.logger.WithError(err).Error("push delivery failed", map[string]interface{}{
			"reminderId": n.ID,
		})
		metrics.DeliveriesSent.WithLabelValues("push", "failed").Inc()
		return
	}
	metrics.DeliveriesSent.WithLabelValues("push", "sent").Inc()
}
