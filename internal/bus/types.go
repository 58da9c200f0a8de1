package bus

import (
	"time"

	"ppewatch-backend/internal/detect"
)

// AlarmEvent is the payload handed from the alarm dispatcher to the
// notification pipeline. EventID is unique per detection; several cameras
// may share an AlarmID.
type AlarmEvent struct {
	EventID   string          `json:"eventId"`
	CameraID  string          `json:"cameraId"`
	AlarmID   string          `json:"alarmId"`
	Timestamp time.Time       `json:"timestamp"`
	Image     []byte          `json:"img"`
	Compliant bool            `json:"compliant"`
	Labels    detect.LabelSet `json:"labels"`
}

// Notification is the human-readable message published on the distribution
// subject: a short default line plus a longer email body.
type Notification struct {
	Subject string `json:"subject"`
	Default string `json:"default"`
	Email   string `json:"email"`
}
