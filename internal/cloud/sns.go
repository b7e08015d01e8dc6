package cloud

import (
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/sns"
	"github.com/rs/zerolog/log"

	"github.com/Shogund21/assetguardian-dev-sub003/internal/domain"
)

// SNSClient publishes predictive-maintenance notifications to an SNS topic.
// It implements alert.Notifier.
type SNSClient struct {
	svc      *sns.Client
	topicArn string
}

// NewSNSClient loads AWS configuration and wires the topic.
func NewSNSClient(ctx context.Context, region, topicArn string) (*SNSClient, error) {
	cfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("unable to load SDK config: %w", err)
	}
	return &SNSClient{
		svc:      sns.NewFromConfig(cfg),
		topicArn: topicArn,
	}, nil
}

// NotifyAlert publishes one alert. Called by the alert engine for newly
// created and escalated alerts.
func (c *SNSClient) NotifyAlert(ctx context.Context, a domain.PredictiveAlert) error {
	subject := fmt.Sprintf("Predictive Maintenance Alert: %s [%s]", a.Kind, a.Severity)
	message := fmt.Sprintf(
		"Equipment Condition Detected\n\n"+
			"Equipment ID: %s\n"+
			"Condition: %s\n"+
			"Severity: %s\n"+
			"Detail: %s\n"+
			"Time: %s\n\n"+
			"Please schedule an inspection.",
		a.EquipmentID,
		a.Kind,
		a.Severity,
		a.Message,
		a.UpdatedAt.Format(time.RFC3339),
	)

	result, err := c.svc.Publish(ctx, &sns.PublishInput{
		TopicArn: aws.String(c.topicArn),
		Subject:  aws.String(subject),
		Message:  aws.String(message),
	})
	if err != nil {
		return fmt.Errorf("failed to publish to SNS: %w", err)
	}

	log.Info().
		Str("message_id", aws.ToString(result.MessageId)).
		Str("alert_id", a.ID).
		Msg("alert notification published")
	return nil
}
