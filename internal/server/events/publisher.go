// Package events publishes vote events for downstream consumers.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/dmitrijs2005/audiovote/internal/server/models"
	"github.com/segmentio/kafka-go"
)

// Publisher delivers vote events. Publish is called after the vote
// transaction has committed.
type Publisher interface {
	Publish(ctx context.Context, event *models.VoteEvent) error
	Close() error
}

// NopPublisher drops every event. Used when no broker is configured.
type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, *models.VoteEvent) error { return nil }
func (NopPublisher) Close() error                                     { return nil }

// messageWriter is the part of *kafka.Writer we use.
type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// KafkaPublisher writes JSON events keyed by audiobook id, so all events for
// one item land on the same partition in order.
type KafkaPublisher struct {
	writer messageWriter
}

func NewKafkaPublisher(brokers []string, topic string) *KafkaPublisher {
	w := &kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Topic:                  topic,
		Balancer:               &kafka.Hash{},
		RequiredAcks:           kafka.RequireOne,
		AllowAutoTopicCreation: true,
		BatchTimeout:           50 * time.Millisecond,
	}
	return &KafkaPublisher{writer: w}
}

func (p *KafkaPublisher) Publish(ctx context.Context, event *models.VoteEvent) error {
	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("encode vote event: %w", err)
	}

	msg := kafka.Message{
		Key:   []byte(strconv.FormatInt(event.AudiobookID, 10)),
		Value: data,
		Time:  event.VotedAt,
	}
	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("publish vote event: %w", err)
	}
	return nil
}

func (p *KafkaPublisher) Close() error {
	return p.writer.Close()
}
