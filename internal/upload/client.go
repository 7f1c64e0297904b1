package upload

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/claude/meetprep/internal/ingest"
)

// ErrRejected is returned when the server refuses an export as malformed.
// Rejected files are not retried.
var ErrRejected = errors.New("export rejected by server")

// Client sends Alpha Progression exports to a meetprep server over HTTP.
type Client struct {
	serverURL  string
	httpClient *http.Client
	backoff    time.Duration
}

// NewClient creates a new HTTP client for the meetprep server.
func NewClient(serverURL string) *Client {
	return &Client{
		serverURL: strings.TrimRight(serverURL, "/"),
		httpClient: &http.Client{
			Timeout: 60 * time.Second,
		},
		backoff: time.Second,
	}
}

// Send POSTs an export to the server's training import endpoint.
// Retries up to 3 times with exponential backoff on transport and 5xx failures.
func (c *Client) Send(ctx context.Context, r io.Reader) (*ingest.Result, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("reading export: %w", err)
	}

	var lastErr error
	for attempt := range 3 {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(c.backoff << uint(attempt-1)):
			}
		}

		result, err := c.post(ctx, data)
		if err == nil || errors.Is(err, ErrRejected) {
			return result, err
		}
		lastErr = err
	}

	return nil, fmt.Errorf("after 3 attempts: %w", lastErr)
}

func (c *Client) post(ctx context.Context, data []byte) (*ingest.Result, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.serverURL+"/api/v1/training/import", bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "text/csv")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)

	switch {
	case resp.StatusCode == http.StatusOK:
		var result ingest.Result
		if err := json.Unmarshal(body, &result); err != nil {
			return nil, fmt.Errorf("decoding import result: %w", err)
		}
		return &result, nil
	case resp.StatusCode >= 400 && resp.StatusCode < 500:
		return nil, fmt.Errorf("%w (status %d): %s", ErrRejected, resp.StatusCode, strings.TrimSpace(string(body)))
	default:
		return nil, fmt.Errorf("import failed (status %d): %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}
}
