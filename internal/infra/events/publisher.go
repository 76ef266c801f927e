package events

import (
	"context"
	"encoding/json"
	"strconv"
	"time"

	"eshop/internal/domain/model"

	"github.com/segmentio/kafka-go"
)

const eventTypeOrderStatusChanged = "order.status_changed"

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// KafkaPublisher は注文ステータス変更をKafkaへ送る。キーは注文IDなので同一注文の順序は保たれる。
type KafkaPublisher struct {
	w messageWriter
}

func NewKafkaPublisher(brokers []string, topic string) *KafkaPublisher {
	return &KafkaPublisher{w: &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafka.Hash{},
		RequiredAcks: kafka.RequireOne,
		BatchTimeout: 10 * time.Millisecond,
	}}
}

func (p *KafkaPublisher) PublishOrderStatusChanged(ctx context.Context, ev model.OrderStatusChanged) error {
	data, err := json.Marshal(ev)
	if err != nil {
		return err
	}
	return p.w.WriteMessages(ctx, kafka.Message{
		Key:     []byte(strconv.FormatInt(ev.OrderID, 10)),
		Value:   data,
		Time:    ev.OccurredAt.UTC(),
		Headers: []kafka.Header{{Key: "event_type", Value: []byte(eventTypeOrderStatusChanged)}},
	})
}

func (p *KafkaPublisher) Close() error {
	return p.w.Close()
}

// NopPublisher はブローカー未設定時に使う。
type NopPublisher struct{}

func (NopPublisher) PublishOrderStatusChanged(context.Context, model.OrderStatusChanged) error {
	return nil
}

func (NopPublisher) Close() error { return nil }
