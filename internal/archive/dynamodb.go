package archive

import (
	"context"
	"log/slog"
	"time"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"trendscope/internal/models"
)

const dynamoMaxBatchSize = 25

// DynamoArchive keeps long-term history beyond the relational
// retention window: every fresh batch is mirrored into a DynamoDB
// table with an item TTL, so the hot store stays small while the
// archive ages out on its own.
type DynamoArchive struct {
	client *dynamodb.Client
	table  string
	ttl    time.Duration
}

type archiveItem struct {
	ID         string  `dynamodbav:"id"`
	Platform   string  `dynamodbav:"platform"`
	Title      string  `dynamodbav:"title"`
	URL        string  `dynamodbav:"url"`
	Score      float64 `dynamodbav:"score"`
	Engagement float64 `dynamodbav:"engagement"`
	Topic      string  `dynamodbav:"topic"`
	Author     string  `dynamodbav:"author,omitempty"`
	CreatedAt  string  `dynamodbav:"created_at"`
	ExpiresAt  int64   `dynamodbav:"expires_at"`
}

func NewDynamoArchive(ctx context.Context, table string, ttlHours int) (*DynamoArchive, error) {
	cfg, err := awsconfig.LoadDefaultConfig(ctx)
	if err != nil {
		return nil, err
	}

	slog.Info("[DynamoArchive] Initialized archive sink",
		slog.String("table", table))
	return &DynamoArchive{
		client: dynamodb.NewFromConfig(cfg),
		table:  table,
		ttl:    time.Duration(ttlHours) * time.Hour,
	}, nil
}

// Publish mirrors the batch into the archive table in chunks of 25,
// the BatchWriteItem ceiling.
func (d *DynamoArchive) Publish(ctx context.Context, topics []models.TrendingTopic) {
	expiresAt := time.Now().Add(d.ttl).Unix()

	for start := 0; start < len(topics); start += dynamoMaxBatchSize {
		select {
		case <-ctx.Done():
			slog.Warn("[DynamoArchive] Context cancelled during archive")
			return
		default:
		}

		end := start + dynamoMaxBatchSize
		if end > len(topics) {
			end = len(topics)
		}

		writeRequests := make([]types.WriteRequest, 0, end-start)
		for _, topic := range topics[start:end] {
			item, err := attributevalue.MarshalMap(archiveItem{
				ID:         topic.ID,
				Platform:   topic.Platform,
				Title:      topic.Title,
				URL:        topic.URL,
				Score:      topic.Score,
				Engagement: topic.Engagement,
				Topic:      topic.Topic,
				Author:     topic.Author,
				CreatedAt:  topic.CreatedAt.Format(time.RFC3339),
				ExpiresAt:  expiresAt,
			})
			if err != nil {
				slog.Warn("[DynamoArchive] Failed to marshal item",
					slog.String("id", topic.ID),
					slog.String("error", err.Error()))
				continue
			}

			writeRequests = append(writeRequests, types.WriteRequest{
				PutRequest: &types.PutRequest{Item: item},
			})
		}

		if len(writeRequests) == 0 {
			continue
		}

		_, err := d.client.BatchWriteItem(ctx, &dynamodb.BatchWriteItemInput{
			RequestItems: map[string][]types.WriteRequest{
				d.table: writeRequests,
			},
		})
		if err != nil {
			slog.Warn("[DynamoArchive] Batch write failed",
				slog.Int("batch_size", len(writeRequests)),
				slog.String("error", err.Error()))
		}
	}
}
