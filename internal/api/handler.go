package api

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"ppewatch-backend/internal/compliance"
	"ppewatch-backend/internal/detect"
	"ppewatch-backend/internal/dispatch"
	"ppewatch-backend/internal/metrics"
)

type Detector interface {
	Detect(ctx context.Context, img []byte) (detect.LabelSet, error)
}

type VerdictDispatcher interface {
	Dispatch(cameraID, alarmID string, ts time.Time, img []byte, v compliance.Verdict) dispatch.Result
}

type Handler struct {
	Detector   Detector
	Dispatcher VerdictDispatcher
	Metrics    *metrics.Metrics
	Logger     *slog.Logger
	Timeout    time.Duration
	now        func() time.Time
}

func NewHandler(detector Detector, dispatcher VerdictDispatcher, m *metrics.Metrics, logger *slog.Logger, timeout time.Duration) *Handler {
	return &Handler{
		Detector:   detector,
		Dispatcher: dispatcher,
		Metrics:    m,
		Logger:     logger,
		Timeout:    timeout,
		now:        time.Now,
	}
}

type detectRequest struct {
	CameraID string `json:"cameraId"`
	AlarmID  string `json:"alarmId"`
	Img      string `json:"img"`
}

type errorResponse struct {
	Ok      bool   `json:"ok"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (h *Handler) handleDetect(w http.ResponseWriter, r *http.Request) {
	var req detectRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "BAD_REQUEST", "invalid json body")
		return
	}
	if req.CameraID == "" || req.AlarmID == "" || req.Img == "" {
		writeError(w, http.StatusBadRequest, "BAD_REQUEST", "cameraId, alarmId and img are required")
		return
	}
	img, err := base64.StdEncoding.DecodeString(req.Img)
	if err != nil {
		writeError(w, http.StatusBadRequest, "BAD_REQUEST", "img is not valid base64")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), h.Timeout)
	defer cancel()

	ts := h.now()
	h.Metrics.FramesAnalyzed.Inc()
	labels, err := h.Detector.Detect(ctx, img)
	if err != nil {
		h.Metrics.InferenceErrors.Inc()
		var infErr *detect.InferenceError
		if errors.As(err, &infErr) {
			h.Logger.Error("inference failed",
				slog.String("cameraId", req.CameraID),
				slog.String("error", err.Error()))
			writeError(w, http.StatusBadGateway, "INFERENCE_ERROR", err.Error())
			return
		}
		writeError(w, http.StatusInternalServerError, "INTERNAL", err.Error())
		return
	}

	verdict := compliance.Evaluate(labels)
	if !verdict.Compliant {
		h.Metrics.Violations.Inc()
	}
	res := h.Dispatcher.Dispatch(req.CameraID, req.AlarmID, ts, img, verdict)
	if !verdict.Compliant {
		if res.Fired {
			h.Metrics.AlarmsFired.Inc()
		} else {
			h.Metrics.AlarmsSuppressed.Inc()
		}
	}
	if res.Emitted {
		h.Metrics.EventsEmitted.Inc()
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(verdict)
}

func (h *Handler) handleHealthz(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{"status": "ok"})
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(errorResponse{Code: code, Message: message})
}
