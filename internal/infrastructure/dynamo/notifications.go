package dynamo

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/go-push-worker/internal/domain"
	"github.com/go-push-worker/internal/pkg/id"
)

// notificationRecord is the stored shape of a domain.Notification.
// New is 0/1 rather than a bool, the encoding the foreground app reads.
// Notifications without a sequence id get a generated sort key.
type notificationRecord struct {
	SubscriptionID string         `dynamodbav:"subscription_id"`
	SequenceID     string         `dynamodbav:"sequence_id"`
	GeneratedKey   bool           `dynamodbav:"generated_key,omitempty"`
	New            int            `dynamodbav:"new"`
	Message        domain.Message `dynamodbav:"message"`
}

func toRecord(n *domain.Notification) notificationRecord {
	rec := notificationRecord{
		SubscriptionID: n.SubscriptionID,
		SequenceID:     n.SequenceID,
		Message:        n.Message,
	}
	if rec.SequenceID == "" {
		rec.SequenceID = id.New()
		rec.GeneratedKey = true
	}
	if n.State == domain.Unread {
		rec.New = 1
	}
	return rec
}

func (rec notificationRecord) toDomain() domain.Notification {
	n := domain.Notification{
		SubscriptionID: rec.SubscriptionID,
		SequenceID:     rec.SequenceID,
		State:          domain.Read,
		Message:        rec.Message,
	}
	if rec.GeneratedKey {
		n.SequenceID = ""
	}
	if rec.New == 1 {
		n.State = domain.Unread
	}
	return n
}

// NotificationRepo provides typed DynamoDB operations for the notifications table.
// Items are keyed by (subscription_id, sequence_id), which makes the
// one-notification-per-sequence invariant a property of the key itself.
type NotificationRepo struct {
	client    notificationAPI
	tableName string
}

// notificationAPI is the part of *dynamodb.Client the repo uses.
type notificationAPI interface {
	PutItem(ctx context.Context, in *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error)
	DeleteItem(ctx context.Context, in *dynamodb.DeleteItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.DeleteItemOutput, error)
	UpdateItem(ctx context.Context, in *dynamodb.UpdateItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.UpdateItemOutput, error)
	Query(ctx context.Context, in *dynamodb.QueryInput, optFns ...func(*dynamodb.Options)) (*dynamodb.QueryOutput, error)
	Scan(ctx context.Context, in *dynamodb.ScanInput, optFns ...func(*dynamodb.Options)) (*dynamodb.ScanOutput, error)
}

func NewNotificationRepo(client notificationAPI, tableName string) *NotificationRepo {
	return &NotificationRepo{client: client, tableName: tableName}
}

func (r *NotificationRepo) Put(ctx context.Context, n *domain.Notification) error {
	item, err := attributevalue.MarshalMap(toRecord(n))
	if err != nil {
		return fmt.Errorf("marshal notification: %w", err)
	}
	_, err = r.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(r.tableName),
		Item:      item,
	})
	return err
}

// DeleteBySequence removes the notification for (subscriptionID, sequenceID).
// Deleting a missing item is not an error.
func (r *NotificationRepo) DeleteBySequence(ctx context.Context, subscriptionID, sequenceID string) error {
	_, err := r.client.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName: aws.String(r.tableName),
		Key:       compositeKey(fieldSubscriptionID, subscriptionID, fieldSequenceID, sequenceID),
	})
	return err
}

// MarkReadBySequence sets new=0 on the matching notification, if there is one.
func (r *NotificationRepo) MarkReadBySequence(ctx context.Context, subscriptionID, sequenceID string) error {
	ue, err := buildUpdateExpr(map[string]interface{}{fieldNew: 0})
	if err != nil {
		return err
	}
	_, err = r.client.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName:                 aws.String(r.tableName),
		Key:                       compositeKey(fieldSubscriptionID, subscriptionID, fieldSequenceID, sequenceID),
		UpdateExpression:          aws.String(ue.Expr),
		ConditionExpression:       aws.String("attribute_exists(" + fieldSequenceID + ")"),
		ExpressionAttributeNames:  ue.Names,
		ExpressionAttributeValues: ue.Values,
	})
	if isConditionFailed(err) {
		return nil
	}
	return err
}

// CountUnread counts notifications with new=1 across all subscriptions.
// It reads the base table with strongly consistent reads so the count
// includes a write that completed just before it.
func (r *NotificationRepo) CountUnread(ctx context.Context) (int, error) {
	input := &dynamodb.ScanInput{
		TableName:                aws.String(r.tableName),
		ConsistentRead:           aws.Bool(true),
		FilterExpression:         aws.String("#n = :one"),
		ExpressionAttributeNames: map[string]string{"#n": fieldNew},
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":one": &types.AttributeValueMemberN{Value: "1"},
		},
		Select: types.SelectCount,
	}
	total := 0
	for {
		out, err := r.client.Scan(ctx, input)
		if err != nil {
			return 0, err
		}
		total += int(out.Count)
		if len(out.LastEvaluatedKey) == 0 {
			return total, nil
		}
		input.ExclusiveStartKey = out.LastEvaluatedKey
	}
}

// ListBySubscription returns every stored notification of a subscription.
func (r *NotificationRepo) ListBySubscription(ctx context.Context, subscriptionID string) ([]domain.Notification, error) {
	input := &dynamodb.QueryInput{
		TableName:              aws.String(r.tableName),
		KeyConditionExpression: aws.String("#s = :sid"),
		ExpressionAttributeNames: map[string]string{
			"#s": fieldSubscriptionID,
		},
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":sid": &types.AttributeValueMemberS{Value: subscriptionID},
		},
	}
	var notifications []domain.Notification
	for {
		out, err := r.client.Query(ctx, input)
		if err != nil {
			return nil, err
		}
		var recs []notificationRecord
		if err := attributevalue.UnmarshalListOfMaps(out.Items, &recs); err != nil {
			return nil, err
		}
		for _, rec := range recs {
			notifications = append(notifications, rec.toDomain())
		}
		if len(out.LastEvaluatedKey) == 0 {
			return notifications, nil
		}
		input.ExclusiveStartKey = out.LastEvaluatedKey
	}
}
