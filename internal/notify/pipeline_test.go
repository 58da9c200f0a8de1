package notify

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/jpeg"
	"io"
	"log/slog"
	"testing"
	"time"

	"ppewatch-backend/internal/bus"
	"ppewatch-backend/internal/detect"
	"ppewatch-backend/internal/storage"
)

type callLog struct {
	calls []string
}

func (c *callLog) add(name string) { c.calls = append(c.calls, name) }

type fakeBlob struct {
	log      *callLog
	imageErr error
	csvErr   error
}

func (f *fakeBlob) PutImage(ctx context.Context, baseKey string, data []byte) (string, error) {
	if f.imageErr != nil {
		return "", f.imageErr
	}
	f.log.add("putImage")
	return "https://store/images/" + baseKey + ".jpg", nil
}

func (f *fakeBlob) PutCSV(ctx context.Context, baseKey string, row string) (string, error) {
	if f.csvErr != nil {
		return "", f.csvErr
	}
	f.log.add("putCSV")
	return "https://store/responses/" + baseKey + ".csv", nil
}

type fakeIndex struct {
	log      *callLog
	existing map[string]bool
	denied   bool
	claimed  []storage.NotificationRecord
}

func (f *fakeIndex) RecordExists(ctx context.Context, baseKey string) (bool, error) {
	return f.existing[baseKey], nil
}

func (f *fakeIndex) ClaimRecord(ctx context.Context, rec storage.NotificationRecord) (bool, error) {
	if f.denied {
		return false, nil
	}
	f.log.add("claim")
	f.claimed = append(f.claimed, rec)
	return true, nil
}

type fakeNotifier struct {
	log  *callLog
	err  error
	sent []bus.Notification
}

func (f *fakeNotifier) Send(n bus.Notification) error {
	if f.err != nil {
		return f.err
	}
	f.log.add("send")
	f.sent = append(f.sent, n)
	return nil
}

func testEvent(t *testing.T) bus.AlarmEvent {
	t.Helper()
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, image.NewRGBA(image.Rect(0, 0, 32, 32)), nil); err != nil {
		t.Fatalf("encode frame: %v", err)
	}
	labels, err := detect.Normalize([]detect.Label{
		{Name: detect.LabelPerson, Instances: make([]detect.Instance, 2)},
		{Name: detect.LabelHelmet, Instances: make([]detect.Instance, 1)},
	})
	if err != nil {
		t.Fatalf("normalize: %v", err)
	}
	return bus.AlarmEvent{
		EventID:   "ev-1",
		CameraID:  "cam1",
		AlarmID:   "alarm1",
		Timestamp: time.Date(2019, 3, 5, 20, 11, 22, 0, time.UTC),
		Image:     buf.Bytes(),
		Compliant: false,
		Labels:    labels,
	}
}

func newTestPipeline() (*Pipeline, *fakeBlob, *fakeIndex, *fakeNotifier, *callLog) {
	log := &callLog{}
	blobStore := &fakeBlob{log: log}
	index := &fakeIndex{log: log, existing: map[string]bool{}}
	notifier := &fakeNotifier{log: log}
	p := &Pipeline{
		Blob:    blobStore,
		Records: index,
		Notify:  notifier,
		Logger:  slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	return p, blobStore, index, notifier, log
}

func TestProcessProducesRecordAndNotification(t *testing.T) {
	p, _, index, notifier, log := newTestPipeline()
	outcome, err := p.Process(context.Background(), testEvent(t))
	if err != nil {
		t.Fatalf("process: %v", err)
	}
	if outcome != OutcomeProcessed {
		t.Fatalf("unexpected outcome %v", outcome)
	}
	if len(index.claimed) != 1 {
		t.Fatalf("expected one claimed record")
	}
	rec := index.claimed[0]
	if rec.BaseKey != "2019-03-05T20-11-22-cam1" {
		t.Fatalf("unexpected base key %s", rec.BaseKey)
	}
	if len(notifier.sent) != 1 {
		t.Fatalf("expected one notification")
	}
	n := notifier.sent[0]
	if n.Subject != "Alert: worker without PPE caught on cam1" {
		t.Fatalf("unexpected subject %q", n.Subject)
	}
	if !bytes.Contains([]byte(n.Email), []byte(rec.ImageURL)) {
		t.Fatalf("email body must embed the image url")
	}

	want := []string{"putImage", "putCSV", "claim", "send"}
	if len(log.calls) != len(want) {
		t.Fatalf("unexpected call sequence %v", log.calls)
	}
	for i, name := range want {
		if log.calls[i] != name {
			t.Fatalf("call %d = %s, want %s (upload must precede notification)", i, log.calls[i], name)
		}
	}
}

func TestProcessRedeliveryIsNoOp(t *testing.T) {
	p, _, index, notifier, _ := newTestPipeline()
	index.existing["2019-03-05T20-11-22-cam1"] = true
	outcome, err := p.Process(context.Background(), testEvent(t))
	if err != nil {
		t.Fatalf("process: %v", err)
	}
	if outcome != OutcomeDuplicate {
		t.Fatalf("expected duplicate outcome")
	}
	if len(notifier.sent) != 0 {
		t.Fatalf("redelivery must not re-notify")
	}
}

func TestProcessImageUploadFailure(t *testing.T) {
	p, blobStore, index, notifier, _ := newTestPipeline()
	blobStore.imageErr = errors.New("bucket gone")
	_, err := p.Process(context.Background(), testEvent(t))
	var storageErr *StorageFailure
	if !errors.As(err, &storageErr) {
		t.Fatalf("expected StorageFailure, got %v", err)
	}
	if len(index.claimed) != 0 {
		t.Fatalf("no record may exist after failed upload")
	}
	if len(notifier.sent) != 0 {
		t.Fatalf("no notification may reference missing evidence")
	}
}

func TestProcessCSVUploadFailure(t *testing.T) {
	p, blobStore, _, notifier, _ := newTestPipeline()
	blobStore.csvErr = errors.New("bucket gone")
	_, err := p.Process(context.Background(), testEvent(t))
	var storageErr *StorageFailure
	if !errors.As(err, &storageErr) {
		t.Fatalf("expected StorageFailure, got %v", err)
	}
	if len(notifier.sent) != 0 {
		t.Fatalf("no notification after csv failure")
	}
}

func TestProcessLostClaimSkipsNotification(t *testing.T) {
	p, _, index, notifier, _ := newTestPipeline()
	index.denied = true
	outcome, err := p.Process(context.Background(), testEvent(t))
	if err != nil {
		t.Fatalf("process: %v", err)
	}
	if outcome != OutcomeDuplicate {
		t.Fatalf("lost claim must report duplicate")
	}
	if len(notifier.sent) != 0 {
		t.Fatalf("lost claim must not notify")
	}
}

func TestProcessNotificationFailureKeepsRecord(t *testing.T) {
	p, _, index, notifier, _ := newTestPipeline()
	notifier.err = errors.New("distribution down")
	outcome, err := p.Process(context.Background(), testEvent(t))
	if err != nil {
		t.Fatalf("notification failure must not fail the record: %v", err)
	}
	if outcome != OutcomeProcessed {
		t.Fatalf("unexpected outcome %v", outcome)
	}
	if len(index.claimed) != 1 {
		t.Fatalf("record must stand after notification failure")
	}
}

func TestBaseKeyFormat(t *testing.T) {
	ts := time.Date(2019, 3, 5, 20, 11, 22, 500, time.UTC)
	if got := BaseKey(ts, "cam1"); got != "2019-03-05T20-11-22-cam1" {
		t.Fatalf("unexpected base key %s", got)
	}
}

func TestCSVRow(t *testing.T) {
	row := CSVRow(testEvent(t))
	if row != "2019-03-05,20:11:22,cam1,2,1" {
		t.Fatalf("unexpected csv row %q", row)
	}
}

func TestBuildNotificationBody(t *testing.T) {
	ts := time.Date(2019, 3, 5, 20, 11, 22, 0, time.UTC)
	n := BuildNotification(ts, "cam1", "https://store/images/x.jpg")
	if n.Default != "Alert: worker without PPE caught on https://store/images/x.jpg" {
		t.Fatalf("unexpected default line %q", n.Default)
	}
	if n.Email != "Camera: cam1\nDate: Mar 5, 2019, 8:11:22 PM (GMT)\nImage: https://store/images/x.jpg" {
		t.Fatalf("unexpected email body %q", n.Email)
	}
}
