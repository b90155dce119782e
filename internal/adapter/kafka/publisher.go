// Package kafka publishes completed tick results to a Kafka topic so host
// systems can subscribe to scrape updates without polling the HTTP API.
// The publisher is optional and feature-flagged via KAFKA_ENABLED.
package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/malosaaa/weerplaza-scraper/internal/config"
	"github.com/malosaaa/weerplaza-scraper/internal/domain"
	kafkago "github.com/segmentio/kafka-go"
)

// Publisher produces tick results to the configured topic.
type Publisher struct {
	writer *kafkago.Writer
	logger *slog.Logger
}

// NewPublisher creates a Kafka producer for the configured tick topic.
func NewPublisher(cfg *config.Config, logger *slog.Logger) *Publisher {
	w := &kafkago.Writer{
		Addr:         kafkago.TCP(cfg.KafkaBrokers...),
		Topic:        cfg.KafkaTopic,
		Balancer:     &kafkago.LeastBytes{},
		RequiredAcks: kafkago.RequireAll,
	}
	return &Publisher{writer: w, logger: logger}
}

// Publish sends one tick result. Error ticks are logged but not published;
// subscribers read staleness from the snapshot diagnostics instead.
func (p *Publisher) Publish(ctx context.Context, result domain.TickResult) error {
	if result.Status == domain.TickError {
		return nil
	}
	msg, err := serializeToMessage(result)
	if err != nil {
		return err
	}
	return p.writer.WriteMessages(ctx, msg)
}

// HandleTick adapts Publish into a poll.Subscriber callback with its own
// bounded deadline, logging failures instead of propagating them into the
// tick path.
func (p *Publisher) HandleTick(result domain.TickResult) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := p.Publish(ctx, result); err != nil {
		p.logger.Error("publish tick failed", "location", result.Location, "error", err)
	}
}

func (p *Publisher) Close() error {
	return p.writer.Close()
}

// tickPayload is the wire form of a published tick.
type tickPayload struct {
	Location string         `json:"location"`
	Status   string         `json:"status"`
	At       time.Time      `json:"at"`
	Record   *domain.Record `json:"record,omitempty"`
}

// serializeToMessage marshals a tick result into a Kafka message keyed by
// location, so per-location ordering is preserved within a partition.
func serializeToMessage(result domain.TickResult) (kafkago.Message, error) {
	data, err := json.Marshal(tickPayload{
		Location: result.Location,
		Status:   string(result.Status),
		At:       result.At,
		Record:   result.Record,
	})
	if err != nil {
		return kafkago.Message{}, fmt.Errorf("serialize tick result: %w", err)
	}
	return kafkago.Message{
		Key:   []byte(result.Location),
		Value: data,
		Headers: []kafkago.Header{
			{Key: "status", Value: []byte(result.Status)},
			{Key: "tick_at", Value: []byte(result.At.Format(time.RFC3339))},
		},
	}, nil
}
