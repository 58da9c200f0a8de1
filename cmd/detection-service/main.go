package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"ppewatch-backend/internal/api"
	"ppewatch-backend/internal/bus"
	"ppewatch-backend/internal/detect"
	"ppewatch-backend/internal/dispatch"
	"ppewatch-backend/internal/iot"
	"ppewatch-backend/internal/metrics"
)

// busSink publishes alarm events on the pipeline invocation subject,
// fire-and-forget.
type busSink struct {
	pub     *bus.Publisher
	subject string
}

func (s *busSink) Emit(ev bus.AlarmEvent) error {
	return s.pub.Publish(s.subject, ev)
}

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	port := getenv("PORT", "8092")
	oracleURL := getenv("ORACLE_URL", "")
	oracleTimeout := time.Duration(getenvInt("ORACLE_TIMEOUT_SECONDS", 10)) * time.Second
	natsURL := getenv("NATS_URL", "nats://localhost:4222")
	eventSubject := getenv("EVENT_SUBJECT", "ppe.alarm.event")
	debounce := time.Duration(getenvInt("DEBOUNCE_SECONDS", 5)) * time.Second

	if oracleURL == "" {
		logger.Error("ORACLE_URL is required")
		os.Exit(1)
	}

	mqttCfg := iot.Config{
		Endpoint:     getenv("MQTT_ENDPOINT", ""),
		RootCAPath:   getenv("MQTT_ROOT_CA", ""),
		CertPath:     getenv("MQTT_CERT", ""),
		KeyPath:      getenv("MQTT_KEY", ""),
		Port:         getenvInt("MQTT_PORT", 0),
		UseWebsocket: getenv("MQTT_WEBSOCKET", "") == "true",
		ClientID:     getenv("MQTT_CLIENT_ID", "ppe-detection-service"),
		Topic:        getenv("ALARM_TOPIC", iot.DefaultTopic),
	}

	signalPub, err := iot.NewPublisher(mqttCfg, logger)
	if err != nil {
		logger.Error("failed to configure alarm channel", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer signalPub.Close()

	eventPub, err := bus.NewPublisher(natsURL)
	if err != nil {
		logger.Error("failed to connect to nats", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer eventPub.Close()

	m := metrics.New()
	detector := detect.NewClient(oracleURL, oracleTimeout)
	dispatcher := dispatch.New(signalPub, &busSink{pub: eventPub, subject: eventSubject}, debounce, logger)
	handler := api.NewHandler(detector, dispatcher, m, logger, oracleTimeout+5*time.Second)

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	handler.RegisterRoutes(r, m.Handler())

	server := &http.Server{
		Addr:              ":" + port,
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		logger.Info("detection service listening", slog.String("port", port))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server error", slog.String("error", err.Error()))
			os.Exit(1)
		}
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, syscall.SIGINT, syscall.SIGTERM)
	<-shutdown

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		logger.Error("shutdown error", slog.String("error", err.Error()))
	}
}

func getenv(key, fallback string) string {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	return val
}

func getenvInt(key string, fallback int) int {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	if parsed, err := strconv.Atoi(val); err == nil {
		return parsed
	}
	return fallback
}
