package hardware

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"auradash/internal/models"
)

// DefaultTimeout bounds every request so a hung gateway can never block a
// sync pass indefinitely.
const DefaultTimeout = 2 * time.Second

// Client talks to a gateway's HTTP control API.
type Client struct {
	http    *http.Client
	timeout time.Duration
}

// NewClient builds a client with the given per-request timeout; zero means
// DefaultTimeout. A caller context with an earlier deadline wins, which is
// how discovery runs its short probes through the same client.
func NewClient(timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Client{
		http:    &http.Client{},
		timeout: timeout,
	}
}

func (c *Client) GetStatus(ctx context.Context, addr string) (ServerStatus, error) {
	var out ServerStatus
	if err := c.do(ctx, http.MethodGet, addr, "/api/v1/status", nil, &out); err != nil {
		return ServerStatus{}, err
	}
	return out, nil
}

func (c *Client) GetLinkedNodes(ctx context.Context, addr string) ([]LinkedNode, error) {
	var out []LinkedNode
	if err := c.do(ctx, http.MethodGet, addr, "/api/v1/nodes", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) SetNodeState(ctx context.Context, addr, nodeID, state string) error {
	body := map[string]string{"state": state}
	return c.do(ctx, http.MethodPut, addr, "/api/v1/nodes/"+nodeID+"/state", body, nil)
}

func (c *Client) SyncTelemetry(ctx context.Context, addr string, since int64) (TelemetryBatch, error) {
	var out TelemetryBatch
	path := fmt.Sprintf("/api/v1/sync?lastSyncTimestamp=%d", since)
	if err := c.do(ctx, http.MethodGet, addr, path, nil, &out); err != nil {
		return TelemetryBatch{}, err
	}
	return out, nil
}

func (c *Client) AcknowledgeTelemetry(ctx context.Context, addr string, watermark int64) error {
	body := map[string]int64{"clearUntilTimestamp": watermark}
	return c.do(ctx, http.MethodDelete, addr, "/api/v1/sync", body, nil)
}

func (c *Client) CreateSchedule(ctx context.Context, addr string, s models.Schedule) error {
	return c.do(ctx, http.MethodPost, addr, "/api/v1/schedules", s, nil)
}

func (c *Client) UpdateSchedule(ctx context.Context, addr string, s models.Schedule) error {
	return c.do(ctx, http.MethodPut, addr, fmt.Sprintf("/api/v1/schedules/%d", s.ID), s, nil)
}

func (c *Client) DeleteSchedule(ctx context.Context, addr string, scheduleID int64) error {
	return c.do(ctx, http.MethodDelete, addr, fmt.Sprintf("/api/v1/schedules/%d", scheduleID), nil, nil)
}

// do performs one bounded request. Every failure mode collapses into
// ErrUnreachable so callers never branch on the kind of failure.
func (c *Client) do(ctx context.Context, method, addr, path string, body, out any) error {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return ErrUnreachable
		}
		reader = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, "http://"+addr+path, reader)
	if err != nil {
		return ErrUnreachable
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return ErrUnreachable
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return ErrUnreachable
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return ErrUnreachable
		}
	}
	return nil
}
