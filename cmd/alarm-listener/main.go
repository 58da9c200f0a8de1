package main

import (
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"ppewatch-backend/internal/iot"
)

func main() {
	endpoint := flag.String("endpoint", "", "MQTT broker endpoint (required)")
	rootCA := flag.String("root-ca", "", "root CA file path (required)")
	cert := flag.String("cert", "", "client certificate file path")
	key := flag.String("key", "", "client private key file path")
	port := flag.Int("port", 0, "port override (defaults: 8883 direct, 443 websocket)")
	websocket := flag.Bool("websocket", false, "use MQTT over websocket")
	clientID := flag.String("client-id", iot.DefaultClientID, "targeted client id")
	topic := flag.String("topic", iot.DefaultTopic, "alarm topic")
	interval := flag.Int("interval", 5, "local debounce interval in seconds")
	playerCmd := flag.String("player", "omxplayer", "audio player command")
	sound := flag.String("sound", "not_protected.ogg", "alarm sound file")
	flag.Parse()

	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	cfg := iot.Config{
		Endpoint:     *endpoint,
		RootCAPath:   *rootCA,
		CertPath:     *cert,
		KeyPath:      *key,
		Port:         *port,
		UseWebsocket: *websocket,
		ClientID:     *clientID,
		Topic:        *topic,
	}
	if err := cfg.Validate(); err != nil {
		var confErr *iot.ConfigurationError
		if errors.As(err, &confErr) {
			fmt.Fprintln(os.Stderr, err)
			flag.Usage()
			os.Exit(2)
		}
		logger.Error("invalid configuration", slog.String("error", err.Error()))
		os.Exit(1)
	}

	listener, err := iot.NewListener(cfg, logger)
	if err != nil {
		logger.Error("failed to connect to alarm channel", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer listener.Close()

	handler := iot.NewAlarmHandler(cfg.ClientID,
		time.Duration(*interval)*time.Second,
		iot.ExecPlayer{Command: *playerCmd, Args: []string{*sound}},
		logger)

	if err := listener.Subscribe(handler.Handle); err != nil {
		logger.Error("failed to subscribe", slog.String("topic", cfg.Topic), slog.String("error", err.Error()))
		os.Exit(1)
	}

	logger.Info("watching for alarms", slog.String("clientId", cfg.ClientID), slog.String("topic", cfg.Topic))

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, syscall.SIGINT, syscall.SIGTERM)
	<-shutdown
}
