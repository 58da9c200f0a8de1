// Package notify turns a delivered alarm event into its durable,
// human-reviewable record: annotated image, CSV log row, index record, and
// one notification on the distribution topic.
package notify

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"ppewatch-backend/internal/bus"
	"ppewatch-backend/internal/detect"
)

// BaseKey derives the record identity from capture time and camera, e.g.
// "2019-03-05T20-11-22-cam1". Resolution is one second: repeated violations
// on the same camera within a second share a key and collapse into the
// first record.
func BaseKey(ts time.Time, cameraID string) string {
	return ts.UTC().Format("2006-01-02T15-04-05") + "-" + cameraID
}

// CSVRow is the single structured log line per record:
// date, time, camera, person count, helmet count.
func CSVRow(ev bus.AlarmEvent) string {
	ts := ev.Timestamp.UTC()
	return strings.Join([]string{
		ts.Format("2006-01-02"),
		ts.Format("15:04:05"),
		ev.CameraID,
		strconv.Itoa(ev.Labels.Count(detect.LabelPerson)),
		strconv.Itoa(ev.Labels.Count(detect.LabelHelmet)),
	}, ",")
}

// BuildNotification assembles the human message. The image URL must already
// be retrievable: callers only invoke this after the upload completed.
func BuildNotification(ts time.Time, cameraID, imageURL string) bus.Notification {
	ftime := ts.UTC().Format("Jan 2, 2006, 3:04:05 PM (GMT)")
	return bus.Notification{
		Subject: fmt.Sprintf("Alert: worker without PPE caught on %s", cameraID),
		Default: fmt.Sprintf("Alert: worker without PPE caught on %s", imageURL),
		Email:   fmt.Sprintf("Camera: %s\nDate: %s\nImage: %s", cameraID, ftime, imageURL),
	}
}
