package iot

import (
	"crypto/tls"
	"crypto/x509"
	"fmt"
	"os"
	"time"
)

const (
	DefaultTopic    = "ppe_alarm_topic"
	DefaultClientID = "alarm1"

	defaultTLSPort       = 8883
	defaultWebsocketPort = 443

	// Transport tuning: reconnect backoff bounds are separate from the
	// per-operation timeouts so a stalled broker cannot hang a caller.
	connectRetryInterval = 1 * time.Second
	maxReconnectInterval = 32 * time.Second
	connectTimeout       = 10 * time.Second
	operationTimeout     = 5 * time.Second
	keepAlive            = 300 * time.Second
	disconnectQuiesceMs  = 1000

	// QoS 1: at least once delivery.
	qosAtLeastOnce = 1
)

// ConfigurationError is fatal at startup; it never occurs at runtime.
type ConfigurationError struct {
	Reason string
}

func (e *ConfigurationError) Error() string {
	return "configuration: " + e.Reason
}

// Config describes one MQTT endpoint. Certificate and websocket credentials
// are mutually exclusive.
type Config struct {
	Endpoint     string
	RootCAPath   string
	CertPath     string
	KeyPath      string
	Port         int
	UseWebsocket bool
	ClientID     string
	Topic        string
}

// Validate checks the credential combination and fills in defaults
// (port 443 for websocket, 8883 for direct TLS).
func (c *Config) Validate() error {
	if c.Endpoint == "" {
		return &ConfigurationError{Reason: "endpoint is required"}
	}
	if c.RootCAPath == "" {
		return &ConfigurationError{Reason: "root CA path is required"}
	}
	if c.UseWebsocket && (c.CertPath != "" || c.KeyPath != "") {
		return &ConfigurationError{Reason: "X.509 cert authentication and websocket are mutually exclusive"}
	}
	if !c.UseWebsocket && (c.CertPath == "" || c.KeyPath == "") {
		return &ConfigurationError{Reason: "missing credentials: certificate and key are both required"}
	}
	if c.Port == 0 {
		if c.UseWebsocket {
			c.Port = defaultWebsocketPort
		} else {
			c.Port = defaultTLSPort
		}
	}
	if c.ClientID == "" {
		c.ClientID = DefaultClientID
	}
	if c.Topic == "" {
		c.Topic = DefaultTopic
	}
	return nil
}

func (c *Config) brokerURL() string {
	if c.UseWebsocket {
		return fmt.Sprintf("wss://%s:%d/mqtt", c.Endpoint, c.Port)
	}
	return fmt.Sprintf("ssl://%s:%d", c.Endpoint, c.Port)
}

func (c *Config) tlsConfig() (*tls.Config, error) {
	ca, err := os.ReadFile(c.RootCAPath)
	if err != nil {
		return nil, fmt.Errorf("read root CA: %w", err)
	}
	pool := x509.NewCertPool()
	if !pool.AppendCertsFromPEM(ca) {
		return nil, fmt.Errorf("root CA %s contains no certificates", c.RootCAPath)
	}
	cfg := &tls.Config{RootCAs: pool}
	if !c.UseWebsocket {
		cert, err := tls.LoadX509KeyPair(c.CertPath, c.KeyPath)
		if err != nil {
			return nil, fmt.Errorf("load client certificate: %w", err)
		}
		cfg.Certificates = []tls.Certificate{cert}
	}
	return cfg, nil
}
