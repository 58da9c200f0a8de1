package storage

import (
	"context"
	"time"
)

// NotificationRecord is the immutable index row for one processed alarm
// event. BaseKey has one-second resolution, so events for the same camera
// inside the same second collapse into the first record (first claim wins).
type NotificationRecord struct {
	BaseKey  string
	CameraID string
	TakenAt  time.Time
	ImageURL string
	CSVURL   string
}

type Repository struct {
	store *Store
}

func NewRepository(store *Store) *Repository {
	return &Repository{store: store}
}

func (r *Repository) RecordExists(ctx context.Context, baseKey string) (bool, error) {
	var exists bool
	err := r.store.Pool.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM notification_records WHERE base_key = $1)`,
		baseKey).Scan(&exists)
	if err != nil {
		return false, err
	}
	return exists, nil
}

// ClaimRecord inserts the record and reports whether this caller won the
// claim. A duplicate delivery racing on the same baseKey loses the claim
// and must not send a notification.
func (r *Repository) ClaimRecord(ctx context.Context, rec NotificationRecord) (bool, error) {
	tag, err := r.store.Pool.Exec(ctx,
		`INSERT INTO notification_records (base_key, camera_id, taken_at, image_url, csv_url, created_at)
		 VALUES ($1, $2, $3, $4, $5, now())
		 ON CONFLICT (base_key) DO NOTHING`,
		rec.BaseKey, rec.CameraID, rec.TakenAt, rec.ImageURL, rec.CSVURL)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() == 1, nil
}
