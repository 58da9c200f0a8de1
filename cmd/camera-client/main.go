package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"ppewatch-backend/internal/camera"
)

// verdictLogger submits frames and logs the returned verdict; the local
// display of the original client is out of scope.
type verdictLogger struct {
	client *camera.DetectClient
	logger *slog.Logger
}

func (s *verdictLogger) Submit(ctx context.Context, frame camera.Frame) error {
	verdict, err := s.client.Submit(ctx, frame)
	if err != nil {
		return err
	}
	s.logger.Info("verdict received", slog.Bool("compliant", verdict.Compliant))
	return nil
}

func main() {
	configPath := flag.String("config", "camera.yaml", "camera client config file")
	flag.Parse()

	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	cfg, err := camera.LoadConfig(*configPath)
	if err != nil {
		logger.Error("failed to load config", slog.String("path", *configPath), slog.String("error", err.Error()))
		os.Exit(1)
	}

	source, err := camera.NewDirSource(cfg.FramesDir)
	if err != nil {
		logger.Error("failed to open frame source", slog.String("error", err.Error()))
		os.Exit(1)
	}

	interval := time.Duration(cfg.SampleIntervalSeconds) * time.Second
	client := camera.NewDetectClient(cfg.DetectURL, cfg.CameraID, cfg.AlarmID, interval+10*time.Second)

	loop := &camera.Loop{
		Source:   source,
		Submit:   &verdictLogger{client: client, logger: logger},
		Interval: interval,
		Logger:   logger,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	logger.Info("camera client sampling",
		slog.String("cameraId", cfg.CameraID),
		slog.String("alarmId", cfg.AlarmID),
		slog.Int("intervalSeconds", cfg.SampleIntervalSeconds))
	loop.Run(ctx)
}
