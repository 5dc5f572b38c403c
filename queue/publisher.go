package queue

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/studyforge/backend/config"
	"github.com/studyforge/backend/metrics"

	"github.com/google/uuid"
	kafka "github.com/segmentio/kafka-go"
)

// ProcessJob is the payload published for each upload. The consumer mirrors
// this schema.
type ProcessJob struct {
	LibraryID   string    `json:"library_id"`
	RequestedAt time.Time `json:"requested_at"`
}

type Publisher struct {
	writer *kafka.Writer
	topic  string
}

func NewPublisher(cfg *config.KafkaConfig) *Publisher {
	writer := kafka.NewWriter(kafka.WriterConfig{
		Brokers:  SplitBrokers(cfg.Brokers),
		Topic:    cfg.Topic,
		Balancer: &kafka.LeastBytes{},
	})
	return &Publisher{writer: writer, topic: cfg.Topic}
}

func (p *Publisher) PublishProcessRequest(ctx context.Context, libraryID uuid.UUID) error {
	job := ProcessJob{
		LibraryID:   libraryID.String(),
		RequestedAt: time.Now().UTC(),
	}
	value, err := json.Marshal(job)
	if err != nil {
		return err
	}
	if err := p.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(job.LibraryID),
		Value: value,
	}); err != nil {
		metrics.RecordKafkaMessage(p.topic, "error")
		return err
	}
	metrics.RecordKafkaMessage(p.topic, "published")
	return nil
}

func (p *Publisher) Close() error {
	return p.writer.Close()
}

func SplitBrokers(brokers string) []string {
	parts := strings.Split(brokers, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
