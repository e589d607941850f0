package events

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"github.com/segmentio/kafka-go"
)

// Publisher emits order events. Publishing is fire-and-forget: order flow
// never fails because the stream is down.
type Publisher interface {
	Publish(env Envelope)
	Close()
}

type nopPublisher struct{}

func (nopPublisher) Publish(Envelope) {}
func (nopPublisher) Close()           {}

// NewNop returns a publisher that drops events, used when KAFKA_BROKERS is
// not configured.
func NewNop() Publisher { return nopPublisher{} }

type kafkaPublisher struct {
	w     *kafka.Writer
	inbox chan kafka.Message
	done  chan struct{}
}

// NewKafka starts an async producer draining an in-process inbox, so the
// request path only does a channel send.
func NewKafka(brokers []string, topic string) Publisher {
	p := &kafkaPublisher{
		w: &kafka.Writer{
			Addr:         kafka.TCP(brokers...),
			Topic:        topic,
			Balancer:     &kafka.Hash{},
			RequiredAcks: kafka.RequireAll,
		},
		inbox: make(chan kafka.Message, 256),
		done:  make(chan struct{}),
	}

	go func() {
		defer close(p.done)
		for m := range p.inbox {
			if err := p.w.WriteMessages(context.Background(), m); err != nil {
				log.Println("[EVENTS] [ERROR] publish failed:", err)
			}
		}
		_ = p.w.Close()
	}()

	return p
}

func (p *kafkaPublisher) Publish(env Envelope) {
	value, err := json.Marshal(env)
	if err != nil {
		log.Println("[EVENTS] [ERROR] envelope marshal failed:", err)
		return
	}

	msg := kafka.Message{
		Key:   []byte(env.OrderID),
		Value: value,
		Time:  time.Now(),
	}

	select {
	case p.inbox <- msg:
	default:
		log.Println("[EVENTS] [ERROR] inbox full, dropping", env.EventType, env.OrderID)
	}
}

// Close flushes queued messages and stops the producer goroutine.
func (p *kafkaPublisher) Close() {
	close(p.inbox)
	<-p.done
}
