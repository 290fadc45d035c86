package push

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"

	"conversync/models"
)

// StreamSource consumes the session push endpoint as a long-lived HTTP
// response of newline-delimited JSON events. Malformed lines are skipped.
type StreamSource struct {
	body    io.ReadCloser
	scanner *bufio.Scanner
}

// StreamConfig carries StreamSource settings.
type StreamConfig struct {
	// URL of the session-scoped subscription endpoint.
	URL string
	// Token is sent as a bearer Authorization header when non-empty.
	Token string
	// HTTPClient defaults to http.DefaultClient; it must not enforce an
	// overall request timeout, the response streams indefinitely.
	HTTPClient *http.Client
}

// NewStreamSource opens the subscription. The context governs the request for
// its whole lifetime; cancelling it tears the stream down.
func NewStreamSource(ctx context.Context, cfg StreamConfig) (*StreamSource, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, cfg.URL, nil)
	if err != nil {
		return nil, fmt.Errorf("build subscription request: %w", err)
	}
	req.Header.Set("Accept", "application/x-ndjson")
	if cfg.Token != "" {
		req.Header.Set("Authorization", "Bearer "+cfg.Token)
	}

	client := cfg.HTTPClient
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("open subscription: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		resp.Body.Close()
		return nil, fmt.Errorf("open subscription: unexpected status %d", resp.StatusCode)
	}

	return &StreamSource{
		body:    resp.Body,
		scanner: bufio.NewScanner(resp.Body),
	}, nil
}

// Next returns the next decoded event, or the stream error that ended the
// subscription.
func (s *StreamSource) Next(ctx context.Context) (models.PushEvent, error) {
	for s.scanner.Scan() {
		if err := ctx.Err(); err != nil {
			return models.PushEvent{}, err
		}
		line := bytes.TrimSpace(s.scanner.Bytes())
		if len(line) == 0 {
			continue
		}
		var ev models.PushEvent
		if err := json.Unmarshal(line, &ev); err != nil {
			log.Printf("conversync: skipping malformed push line: %v", err)
			continue
		}
		return ev, nil
	}
	if err := s.scanner.Err(); err != nil {
		return models.PushEvent{}, err
	}
	return models.PushEvent{}, io.EOF
}

// Close tears down the stream.
func (s *StreamSource) Close() error {
	return s.body.Close()
}
