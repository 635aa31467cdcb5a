package events

import (
	"context"
	"encoding/json"

	"github.com/rs/zerolog/log"
	"github.com/segmentio/kafka-go"
)

// Publisher fans committed ledger events out to an external sink. A nil
// Publisher is valid and means DB-log only.
type Publisher interface {
	Produce(eventType string, payload map[string]interface{})
	Close()
}

// KafkaWriter is the subset of kafka.Writer the producer needs.
type KafkaWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

type message struct {
	EventType string                 `json:"event_type"`
	Payload   map[string]interface{} `json:"payload"`
}

// Producer publishes events to Kafka from a buffered channel so ledger
// operations never block on the broker. A full buffer drops the event with a
// warning; the DB log remains the source of truth.
type Producer struct {
	writer    KafkaWriter
	events    chan message
	closeChan chan struct{}
}

func NewProducer(brokers []string, topic string) *Producer {
	p := &Producer{
		writer: &kafka.Writer{
			Addr:     kafka.TCP(brokers...),
			Balancer: &kafka.LeastBytes{},
			Topic:    topic,
		},
		events:    make(chan message, 1000),
		closeChan: make(chan struct{}),
	}
	go p.eventLoop()
	return p
}

func (p *Producer) Produce(eventType string, payload map[string]interface{}) {
	select {
	case p.events <- message{EventType: eventType, Payload: payload}:
	default:
		log.Warn().Str("event_type", eventType).Msg("kafka producer queue full, dropping event")
	}
}

func (p *Producer) eventLoop() {
	for {
		select {
		case msg := <-p.events:
			data, err := json.Marshal(msg)
			if err != nil {
				log.Error().Err(err).Msg("marshal kafka event")
				continue
			}
			err = p.writer.WriteMessages(context.Background(), kafka.Message{
				Key:   []byte(msg.EventType),
				Value: data,
			})
			if err != nil {
				log.Error().Err(err).Str("event_type", msg.EventType).Msg("write kafka event")
			}
		case <-p.closeChan:
			return
		}
	}
}

func (p *Producer) Close() {
	close(p.closeChan)
	if err := p.writer.Close(); err != nil {
		log.Error().Err(err).Msg("close kafka writer")
	}
}
