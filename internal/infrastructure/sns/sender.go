package sns

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/sns"
	"github.com/go-push-worker/internal/config"
	"github.com/go-push-worker/internal/domain"
)

// BroadcastChannel is the logical channel foreground windows listen on.
const BroadcastChannel = "web-push-broadcast"

// Publisher mirrors message broadcasts to an SNS topic so worker instances
// other than the one that received the push can notify their windows.
type Publisher interface {
	PublishMessage(ctx context.Context, m *domain.Message) error
}

type publishAPI interface {
	Publish(ctx context.Context, in *sns.PublishInput, optFns ...func(*sns.Options)) (*sns.PublishOutput, error)
}

type publisher struct {
	client   publishAPI
	topicARN string
}

func NewPublisher(ctx context.Context, cfg *config.Config) (Publisher, error) {
	if cfg.SNSBroadcastTopicARN == "" {
		return nil, fmt.Errorf("SNS_BROADCAST_TOPIC_ARN not set")
	}
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(cfg.SNSRegion),
	)
	if err != nil {
		return nil, err
	}
	return &publisher{client: sns.NewFromConfig(awsCfg), topicARN: cfg.SNSBroadcastTopicARN}, nil
}

func (p *publisher) PublishMessage(ctx context.Context, m *domain.Message) error {
	body, err := json.Marshal(m)
	if err != nil {
		return fmt.Errorf("marshal broadcast message: %w", err)
	}
	_, err = p.client.Publish(ctx, &sns.PublishInput{
		TopicArn: aws.String(p.topicARN),
		Message:  aws.String(string(body)),
		Subject:  aws.String(BroadcastChannel),
	})
	return err
}
