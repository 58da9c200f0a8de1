package detect

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// InferenceError marks a failed or malformed exchange with the inference
// oracle. Callers skip the current frame; retrying is their decision.
type InferenceError struct {
	Op  string
	Err error
}

func (e *InferenceError) Error() string {
	return fmt.Sprintf("inference %s: %v", e.Op, e.Err)
}

func (e *InferenceError) Unwrap() error { return e.Err }

type oracleResponse struct {
	Labels []Label `json:"labels"`
}

// Client calls the inference oracle over HTTP. It performs no retries.
type Client struct {
	endpoint string
	http     *http.Client
}

func NewClient(endpoint string, timeout time.Duration) *Client {
	return &Client{
		endpoint: endpoint,
		http:     &http.Client{Timeout: timeout},
	}
}

// Detect submits an encoded image and returns the normalized label set.
func (c *Client) Detect(ctx context.Context, img []byte) (LabelSet, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(img))
	if err != nil {
		return nil, &InferenceError{Op: "request", Err: err}
	}
	req.Header.Set("Content-Type", "image/jpeg")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, &InferenceError{Op: "call", Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		return nil, &InferenceError{Op: "read", Err: err}
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &InferenceError{Op: "call", Err: fmt.Errorf("oracle returned status %d", resp.StatusCode)}
	}

	var decoded oracleResponse
	if err := json.Unmarshal(body, &decoded); err != nil {
		return nil, &InferenceError{Op: "decode", Err: err}
	}
	set, err := Normalize(decoded.Labels)
	if err != nil {
		return nil, &InferenceError{Op: "normalize", Err: err}
	}
	return set, nil
}
