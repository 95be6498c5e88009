package events

import (
	"context"
	"encoding/json"

	"github.com/segmentio/kafka-go"

	"clinicbook/internal/domain"
)

// KafkaSink writes lifecycle events to a single topic, keyed by appointment
// id so all events for one appointment land on the same partition.
type KafkaSink struct {
	writer *kafka.Writer
}

func NewKafkaSink(brokers []string, topic string) *KafkaSink {
	return &KafkaSink{
		writer: kafka.NewWriter(kafka.WriterConfig{
			Brokers:  brokers,
			Topic:    topic,
			Balancer: &kafka.Hash{},
		}),
	}
}

func (s *KafkaSink) Publish(ctx context.Context, e domain.Event) error {
	payload, err := json.Marshal(e)
	if err != nil {
		return err
	}
	return s.writer.WriteMessages(ctx, kafka.Message{
		Key:   messageKey(e),
		Value: payload,
		Headers: []kafka.Header{
			{Key: "event_type", Value: []byte(e.EventName())},
		},
	})
}

func (s *KafkaSink) Close() error {
	return s.writer.Close()
}

func messageKey(e domain.Event) []byte {
	switch ev := e.(type) {
	case domain.AppointmentBooked:
		return []byte(ev.AppointmentID.String())
	case domain.AppointmentCancelled:
		return []byte(ev.AppointmentID.String())
	case domain.AppointmentRescheduled:
		return []byte(ev.AppointmentID.String())
	default:
		return nil
	}
}
