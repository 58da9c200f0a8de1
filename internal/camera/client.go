package camera

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"ppewatch-backend/internal/compliance"
)

// DetectClient submits frames to the detection service.
type DetectClient struct {
	url      string
	cameraID string
	alarmID  string
	http     *http.Client
}

func NewDetectClient(url, cameraID, alarmID string, timeout time.Duration) *DetectClient {
	return &DetectClient{
		url:      url,
		cameraID: cameraID,
		alarmID:  alarmID,
		http:     &http.Client{Timeout: timeout},
	}
}

func (c *DetectClient) Submit(ctx context.Context, frame Frame) (compliance.Verdict, error) {
	body, err := json.Marshal(map[string]string{
		"cameraId": c.cameraID,
		"alarmId":  c.alarmID,
		"img":      base64.StdEncoding.EncodeToString(frame.Data),
	})
	if err != nil {
		return compliance.Verdict{}, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return compliance.Verdict{}, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return compliance.Verdict{}, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return compliance.Verdict{}, fmt.Errorf("detection service returned status %d", resp.StatusCode)
	}
	var verdict compliance.Verdict
	if err := json.NewDecoder(resp.Body).Decode(&verdict); err != nil {
		return compliance.Verdict{}, fmt.Errorf("decode verdict: %w", err)
	}
	return verdict, nil
}
