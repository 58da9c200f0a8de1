package bus

import (
	"encoding/json"
	"log/slog"

	"github.com/nats-io/nats.go"
)

type Publisher struct {
	Conn *nats.Conn
}

func NewPublisher(url string) (*Publisher, error) {
	conn, err := nats.Connect(url,
		nats.RetryOnFailedConnect(true),
		nats.MaxReconnects(-1),
	)
	if err != nil {
		return nil, err
	}
	return &Publisher{Conn: conn}, nil
}

func (p *Publisher) Close() {
	if p.Conn != nil {
		p.Conn.Drain()
		p.Conn.Close()
	}
}

func (p *Publisher) Publish(subject string, payload any) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	return p.Conn.Publish(subject, data)
}

type Subscriber struct {
	Conn   *nats.Conn
	Logger *slog.Logger
}

func NewSubscriber(url string, logger *slog.Logger) (*Subscriber, error) {
	conn, err := nats.Connect(url,
		nats.RetryOnFailedConnect(true),
		nats.MaxReconnects(-1),
	)
	if err != nil {
		return nil, err
	}
	return &Subscriber{Conn: conn, Logger: logger}, nil
}

func (s *Subscriber) Close() {
	if s.Conn != nil {
		s.Conn.Drain()
		s.Conn.Close()
	}
}

// SubscribeAlarmEvents delivers decoded alarm events to handler, one
// invocation in flight at a time; the connection buffers behind a slow
// handler. Undecodable payloads are logged and dropped.
func (s *Subscriber) SubscribeAlarmEvents(subject string, handler func(AlarmEvent)) (*nats.Subscription, error) {
	return s.Conn.Subscribe(subject, func(msg *nats.Msg) {
		var evt AlarmEvent
		if err := json.Unmarshal(msg.Data, &evt); err != nil {
			s.Logger.Warn("dropping undecodable alarm event", slog.String("subject", subject), slog.String("error", err.Error()))
			return
		}
		handler(evt)
	})
}
