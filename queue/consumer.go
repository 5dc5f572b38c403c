package queue

import (
	"context"
	"encoding/json"
	"time"

	"github.com/studyforge/backend/config"
	"github.com/studyforge/backend/metrics"

	"github.com/google/uuid"
	kafka "github.com/segmentio/kafka-go"
	"github.com/sirupsen/logrus"
)

// Runner executes one pipeline run for a library item.
type Runner interface {
	Run(ctx context.Context, libraryID uuid.UUID) error
}

type messageSource interface {
	FetchMessage(ctx context.Context) (kafka.Message, error)
	CommitMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

type Consumer struct {
	source messageSource
	topic  string
	group  string
	runner Runner
	logger *logrus.Logger
}

func NewConsumer(cfg *config.KafkaConfig, runner Runner, logger *logrus.Logger) *Consumer {
	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:  SplitBrokers(cfg.Brokers),
		GroupID:  cfg.GroupID,
		Topic:    cfg.Topic,
		MinBytes: 1,
		MaxBytes: 10 << 20,
	})
	return &Consumer{
		source: reader,
		topic:  cfg.Topic,
		group:  cfg.GroupID,
		runner: runner,
		logger: logger,
	}
}

// Start consumes process jobs until ctx is cancelled. Messages are committed
// whether the run succeeded or failed: there is no retry, the failure is
// recorded on the library item itself.
func (c *Consumer) Start(ctx context.Context) {
	defer c.source.Close()
	c.logger.Infof("Kafka consumer started: topic=%s group=%s", c.topic, c.group)

	for {
		msg, err := c.source.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			c.logger.Errorf("kafka fetch: %v", err)
			time.Sleep(time.Second)
			continue
		}
		c.handle(ctx, msg)
	}
}

func (c *Consumer) handle(ctx context.Context, msg kafka.Message) {
	var job ProcessJob
	if err := json.Unmarshal(msg.Value, &job); err != nil {
		c.logger.Errorf("bad job json: %v", err)
		metrics.RecordKafkaMessage(c.topic, "invalid")
		c.commit(msg)
		return
	}

	libraryID, err := uuid.Parse(job.LibraryID)
	if err != nil {
		c.logger.Errorf("bad library id %q: %v", job.LibraryID, err)
		metrics.RecordKafkaMessage(c.topic, "invalid")
		c.commit(msg)
		return
	}

	if err := c.runner.Run(ctx, libraryID); err != nil {
		c.logger.Errorf("pipeline run for %s: %v", libraryID, err)
		metrics.RecordKafkaMessage(c.topic, "error")
	} else {
		metrics.RecordKafkaMessage(c.topic, "consumed")
	}
	c.commit(msg)
}

// commit failures cause redelivery of an already-run job, so they must at
// least be visible in the logs.
func (c *Consumer) commit(msg kafka.Message) {
	if err := c.source.CommitMessages(context.Background(), msg); err != nil {
		c.logger.Errorf("kafka commit at offset %d: %v", msg.Offset, err)
	}
}
