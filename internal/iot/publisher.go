package iot

import (
	"encoding/json"
	"log/slog"
	"sync"

	mqtt "github.com/eclipse/paho.mqtt.golang"
)

// AlarmMessage is the wire payload on the alarm topic.
type AlarmMessage struct {
	CameraID string `json:"cameraId"`
	AlarmID  string `json:"alarmId"`
}

// Publisher publishes alarm signals at QoS 1. While the broker is
// unreachable, outbound messages accumulate in an unbounded in-process
// queue and are flushed on reconnect; an alarm signal is never dropped
// because of a disconnect.
type Publisher struct {
	client mqtt.Client
	topic  string
	logger *slog.Logger

	mu      sync.Mutex
	pending [][]byte
}

func NewPublisher(cfg Config, logger *slog.Logger) (*Publisher, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	tlsCfg, err := cfg.tlsConfig()
	if err != nil {
		return nil, err
	}

	p := &Publisher{topic: cfg.Topic, logger: logger}

	opts := mqtt.NewClientOptions().
		AddBroker(cfg.brokerURL()).
		SetClientID(cfg.ClientID).
		SetTLSConfig(tlsCfg).
		SetKeepAlive(keepAlive).
		SetConnectTimeout(connectTimeout).
		SetWriteTimeout(operationTimeout).
		SetAutoReconnect(true).
		SetMaxReconnectInterval(maxReconnectInterval).
		SetConnectRetry(true).
		SetConnectRetryInterval(connectRetryInterval).
		SetOrderMatters(true)
	opts.SetOnConnectHandler(func(mqtt.Client) {
		p.flushPending()
	})
	opts.SetConnectionLostHandler(func(_ mqtt.Client, err error) {
		logger.Warn("mqtt connection lost", slog.String("error", err.Error()))
	})

	p.client = mqtt.NewClient(opts)
	// ConnectRetry is set, so a broker that is down at startup is not fatal;
	// the token resolves once the first connect attempt succeeds.
	p.client.Connect()
	return p, nil
}

// Fire publishes the alarm signal for alarmID. Failures are queued, not
// surfaced: the transport owns eventual delivery.
func (p *Publisher) Fire(cameraID, alarmID string) error {
	payload, err := json.Marshal(AlarmMessage{CameraID: cameraID, AlarmID: alarmID})
	if err != nil {
		return err
	}
	p.publishOrQueue(payload)
	return nil
}

func (p *Publisher) publishOrQueue(payload []byte) {
	if !p.client.IsConnectionOpen() {
		p.enqueue(payload)
		return
	}
	token := p.client.Publish(p.topic, qosAtLeastOnce, false, payload)
	if !token.WaitTimeout(operationTimeout) || token.Error() != nil {
		p.enqueue(payload)
	}
}

func (p *Publisher) enqueue(payload []byte) {
	p.mu.Lock()
	p.pending = append(p.pending, payload)
	n := len(p.pending)
	p.mu.Unlock()
	p.logger.Warn("alarm signal queued while offline", slog.Int("queued", n))
}

func (p *Publisher) flushPending() {
	p.mu.Lock()
	pending := p.pending
	p.pending = nil
	p.mu.Unlock()
	for _, payload := range pending {
		p.publishOrQueue(payload)
	}
}

func (p *Publisher) Close() {
	p.client.Disconnect(disconnectQuiesceMs)
}
