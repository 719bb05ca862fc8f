package events

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/confluentinc/confluent-kafka-go/kafka"

	"trendscope/internal/models"
)

// KafkaPublisher streams every fresh batch to a Kafka topic so
// downstream consumers (alerting, archival replays) see updates
// without polling the store. Publishing is best-effort; a broker
// outage never fails an aggregation cycle.
type KafkaPublisher struct {
	producer *kafka.Producer
	topic    string
}

func NewKafkaPublisher(broker, topic string) (*KafkaPublisher, error) {
	slog.Info("[KafkaPublisher] Initializing Kafka producer...")

	p, err := kafka.NewProducer(&kafka.ConfigMap{
		"bootstrap.servers":                     broker,
		"security.protocol":                     "PLAINTEXT",
		"api.version.request":                   "true",
		"enable.idempotence":                    true,
		"acks":                                  "all",
		"max.in.flight.requests.per.connection": 1,
	})
	if err != nil {
		return nil, fmt.Errorf("[KafkaPublisher] failed to create producer: %w", err)
	}

	slog.Info("[KafkaPublisher] Kafka producer initialized successfully")
	return &KafkaPublisher{producer: p, topic: topic}, nil
}

func (p *KafkaPublisher) Close() {
	slog.Info("[KafkaPublisher] Flushing Kafka producer before shutdown...")
	if remaining := p.producer.Flush(5000); remaining > 0 {
		slog.Warn("[KafkaPublisher] Not all messages were delivered before shutdown",
			slog.Int("remaining", remaining))
	}
	p.producer.Close()
}

// Publish sends one message per topic, keyed by topic ID.
func (p *KafkaPublisher) Publish(ctx context.Context, topics []models.TrendingTopic) {
	published := 0
	for _, topic := range topics {
		select {
		case <-ctx.Done():
			slog.Warn("[KafkaPublisher] Context cancelled during publish")
			return
		default:
		}

		jsonData, err := json.Marshal(topic)
		if err != nil {
			slog.Warn("[KafkaPublisher] Failed to marshal topic",
				slog.String("id", topic.ID),
				slog.String("error", err.Error()))
			continue
		}

		msg := &kafka.Message{
			TopicPartition: kafka.TopicPartition{Topic: &p.topic, Partition: kafka.PartitionAny},
			Key:            []byte(topic.ID),
			Value:          jsonData,
		}

		if err := p.producer.Produce(msg, nil); err != nil {
			slog.Warn("[KafkaPublisher] Failed to produce message",
				slog.String("id", topic.ID),
				slog.String("error", err.Error()))
			continue
		}
		published++
	}

	if remaining := p.producer.Flush(5000); remaining > 0 {
		slog.Warn("[KafkaPublisher] Messages still queued after flush",
			slog.Int("remaining", remaining))
	}

	slog.Info("[KafkaPublisher] Published fresh batch",
		slog.Int("published", published),
		slog.Int("batch", len(topics)))
}
