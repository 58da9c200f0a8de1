package notify

import (
	"context"
	"fmt"
	"log/slog"

	"ppewatch-backend/internal/annotate"
	"ppewatch-backend/internal/blob"
	"ppewatch-backend/internal/bus"
	"ppewatch-backend/internal/storage"
)

// StorageFailure fails the whole record: no index row is written and no
// notification referencing the missing evidence is ever sent.
type StorageFailure struct {
	BaseKey string
	Err     error
}

func (e *StorageFailure) Error() string {
	return fmt.Sprintf("storage failure for %s: %v", e.BaseKey, e.Err)
}

func (e *StorageFailure) Unwrap() error { return e.Err }

// RecordIndex is the idempotency ledger keyed by baseKey.
type RecordIndex interface {
	RecordExists(ctx context.Context, baseKey string) (bool, error)
	ClaimRecord(ctx context.Context, rec storage.NotificationRecord) (bool, error)
}

// Notifier delivers the human message to the distribution topic.
// Best-effort: a failure never rolls back the stored artifacts.
type Notifier interface {
	Send(n bus.Notification) error
}

type Outcome int

const (
	OutcomeProcessed Outcome = iota
	OutcomeDuplicate
)

// Pipeline processes alarm events exactly-effectively-once per baseKey.
type Pipeline struct {
	Blob    blob.Store
	Records RecordIndex
	Notify  Notifier
	Logger  *slog.Logger
}

// Process produces the record for one alarm event. Redelivery of an event
// whose baseKey is already recorded is a no-op. The image upload strictly
// precedes the notification send.
func (p *Pipeline) Process(ctx context.Context, ev bus.AlarmEvent) (Outcome, error) {
	baseKey := BaseKey(ev.Timestamp, ev.CameraID)
	log := p.Logger.With(slog.String("baseKey", baseKey), slog.String("eventId", ev.EventID))

	exists, err := p.Records.RecordExists(ctx, baseKey)
	if err != nil {
		return OutcomeProcessed, fmt.Errorf("record lookup for %s: %w", baseKey, err)
	}
	if exists {
		log.Info("record already exists, skipping redelivery")
		return OutcomeDuplicate, nil
	}

	annotated, err := annotate.Render(ev.Image, ev.Labels, ev.Compliant)
	if err != nil {
		return OutcomeProcessed, fmt.Errorf("annotate %s: %w", baseKey, err)
	}

	imageURL, err := p.Blob.PutImage(ctx, baseKey, annotated)
	if err != nil {
		return OutcomeProcessed, &StorageFailure{BaseKey: baseKey, Err: err}
	}
	csvURL, err := p.Blob.PutCSV(ctx, baseKey, CSVRow(ev))
	if err != nil {
		return OutcomeProcessed, &StorageFailure{BaseKey: baseKey, Err: err}
	}

	claimed, err := p.Records.ClaimRecord(ctx, storage.NotificationRecord{
		BaseKey:  baseKey,
		CameraID: ev.CameraID,
		TakenAt:  ev.Timestamp,
		ImageURL: imageURL,
		CSVURL:   csvURL,
	})
	if err != nil {
		return OutcomeProcessed, fmt.Errorf("claim record %s: %w", baseKey, err)
	}
	if !claimed {
		log.Info("lost record claim to concurrent delivery, skipping notification")
		return OutcomeDuplicate, nil
	}

	if err := p.Notify.Send(BuildNotification(ev.Timestamp, ev.CameraID, imageURL)); err != nil {
		log.Error("notification send failed, stored artifacts stand", slog.String("error", err.Error()))
		return OutcomeProcessed, nil
	}

	log.Info("notification record produced",
		slog.String("cameraId", ev.CameraID),
		slog.String("imageUrl", imageURL))
	return OutcomeProcessed, nil
}
