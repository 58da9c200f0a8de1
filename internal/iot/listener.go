package iot

import (
	"encoding/json"
	"fmt"
	"log/slog"

	mqtt "github.com/eclipse/paho.mqtt.golang"
)

// Listener is the edge-side subscription on the alarm topic. Delivery is at
// least once; the handler must tolerate duplicates.
type Listener struct {
	client mqtt.Client
	topic  string
	logger *slog.Logger
}

func NewListener(cfg Config, logger *slog.Logger) (*Listener, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	tlsCfg, err := cfg.tlsConfig()
	if err != nil {
		return nil, err
	}

	opts := mqtt.NewClientOptions().
		AddBroker(cfg.brokerURL()).
		SetClientID(cfg.ClientID).
		SetTLSConfig(tlsCfg).
		SetKeepAlive(keepAlive).
		SetConnectTimeout(connectTimeout).
		SetAutoReconnect(true).
		SetMaxReconnectInterval(maxReconnectInterval).
		SetConnectRetryInterval(connectRetryInterval).
		SetOrderMatters(true)
	opts.SetConnectionLostHandler(func(_ mqtt.Client, err error) {
		logger.Warn("mqtt connection lost", slog.String("error", err.Error()))
	})

	client := mqtt.NewClient(opts)
	token := client.Connect()
	if !token.WaitTimeout(connectTimeout) {
		return nil, fmt.Errorf("connect to %s timed out", cfg.brokerURL())
	}
	if err := token.Error(); err != nil {
		return nil, fmt.Errorf("connect to %s: %w", cfg.brokerURL(), err)
	}
	return &Listener{client: client, topic: cfg.Topic, logger: logger}, nil
}

// Subscribe registers handler for decoded alarm messages at QoS 1.
func (l *Listener) Subscribe(handler func(AlarmMessage)) error {
	token := l.client.Subscribe(l.topic, qosAtLeastOnce, func(_ mqtt.Client, msg mqtt.Message) {
		var decoded AlarmMessage
		if err := json.Unmarshal(msg.Payload(), &decoded); err != nil {
			l.logger.Warn("dropping undecodable alarm message", slog.String("error", err.Error()))
			return
		}
		handler(decoded)
	})
	if !token.WaitTimeout(operationTimeout) {
		return fmt.Errorf("subscribe to %s timed out", l.topic)
	}
	return token.Error()
}

// Close unsubscribes before disconnecting so no message is cut off mid
// flight by an abrupt socket close.
func (l *Listener) Close() {
	token := l.client.Unsubscribe(l.topic)
	token.WaitTimeout(operationTimeout)
	l.client.Disconnect(disconnectQuiesceMs)
}
