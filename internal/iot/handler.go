package iot

import (
	"log/slog"
	"sync"
	"time"

	"ppewatch-backend/internal/monitor"
)

// AlarmHandler reacts to delivered alarm messages on an edge device. It only
// plays the alarm when the message targets its own client id, and it keeps
// its own debounce window independent of the dispatcher's: the two run on
// different machines with different clocks, and delivery is at least once,
// so the suppression has to happen on both sides.
type AlarmHandler struct {
	ClientID string
	Interval time.Duration
	Player   Player
	Logger   *slog.Logger

	now func() time.Time

	mu         sync.Mutex
	lastPlayed time.Time
}

func NewAlarmHandler(clientID string, interval time.Duration, player Player, logger *slog.Logger) *AlarmHandler {
	return &AlarmHandler{
		ClientID: clientID,
		Interval: interval,
		Player:   player,
		Logger:   logger,
		now:      time.Now,
	}
}

func (h *AlarmHandler) Handle(msg AlarmMessage) {
	if msg.AlarmID != h.ClientID {
		h.Logger.Debug("alert: worker without PPE caught", slog.String("cameraId", msg.CameraID), slog.String("alarmId", msg.AlarmID))
		return
	}
	h.Logger.Info("alert: worker without PPE caught", slog.String("cameraId", msg.CameraID))

	h.mu.Lock()
	now := h.now()
	play := !monitor.WithinCooldown(h.lastPlayed, now, h.Interval)
	if play {
		h.lastPlayed = now
	}
	h.mu.Unlock()

	if !play {
		return
	}
	if err := h.Player.Play(); err != nil {
		h.Logger.Error("alarm playback failed", slog.String("error", err.Error()))
	}
}
