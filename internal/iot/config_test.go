package iot

import (
	"errors"
	"testing"
)

func TestValidateWebsocketRejectsCert(t *testing.T) {
	cfg := Config{Endpoint: "broker", RootCAPath: "ca.pem", UseWebsocket: true, CertPath: "c.pem", KeyPath: "k.pem"}
	var confErr *ConfigurationError
	if err := cfg.Validate(); !errors.As(err, &confErr) {
		t.Fatalf("expected ConfigurationError, got %v", err)
	}
}

func TestValidateDirectRequiresCertAndKey(t *testing.T) {
	cfg := Config{Endpoint: "broker", RootCAPath: "ca.pem", CertPath: "c.pem"}
	var confErr *ConfigurationError
	if err := cfg.Validate(); !errors.As(err, &confErr) {
		t.Fatalf("expected ConfigurationError, got %v", err)
	}
}

func TestValidateRequiresEndpoint(t *testing.T) {
	cfg := Config{RootCAPath: "ca.pem", CertPath: "c.pem", KeyPath: "k.pem"}
	if err := cfg.Validate(); err == nil {
		t.Fatalf("expected error for missing endpoint")
	}
}

func TestValidateDefaultPorts(t *testing.T) {
	ws := Config{Endpoint: "broker", RootCAPath: "ca.pem", UseWebsocket: true}
	if err := ws.Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ws.Port != 443 {
		t.Fatalf("websocket default port = %d, want 443", ws.Port)
	}

	direct := Config{Endpoint: "broker", RootCAPath: "ca.pem", CertPath: "c.pem", KeyPath: "k.pem"}
	if err := direct.Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if direct.Port != 8883 {
		t.Fatalf("direct default port = %d, want 8883", direct.Port)
	}
}

func TestValidatePortOverrideKept(t *testing.T) {
	cfg := Config{Endpoint: "broker", RootCAPath: "ca.pem", CertPath: "c.pem", KeyPath: "k.pem", Port: 9000}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Port != 9000 {
		t.Fatalf("override lost, got %d", cfg.Port)
	}
}

func TestValidateDefaultsClientIDAndTopic(t *testing.T) {
	cfg := Config{Endpoint: "broker", RootCAPath: "ca.pem", CertPath: "c.pem", KeyPath: "k.pem"}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.ClientID != DefaultClientID || cfg.Topic != DefaultTopic {
		t.Fatalf("defaults not applied: %+v", cfg)
	}
}

func TestBrokerURL(t *testing.T) {
	ws := Config{Endpoint: "broker", RootCAPath: "ca.pem", UseWebsocket: true}
	ws.Validate()
	if got := ws.brokerURL(); got != "wss://broker:443/mqtt" {
		t.Fatalf("unexpected websocket url %s", got)
	}
	direct := Config{Endpoint: "broker", RootCAPath: "ca.pem", CertPath: "c.pem", KeyPath: "k.pem"}
	direct.Validate()
	if got := direct.brokerURL(); got != "ssl://broker:8883" {
		t.Fatalf("unexpected direct url %s", got)
	}
}
