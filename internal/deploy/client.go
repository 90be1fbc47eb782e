package deploy

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// Client talks to the remote deployment store: a REST-ish JSON key-value
// service addressed as <base>/<player>/<deploymentId>.json.
type Client struct {
	base string
	http *http.Client
}

// NewClient builds a client for the store rooted at base. An empty base
// yields a nil client, which callers treat as "no remote store configured".
func NewClient(base string) *Client {
	base = strings.TrimRight(strings.TrimSpace(base), "/")
	if base == "" {
		return nil
	}
	return &Client{
		base: base,
		http: &http.Client{Timeout: 10 * time.Second},
	}
}

// documentURL percent-encodes each path segment, keeping literal slashes
// between them.
func (c *Client) documentURL(player, deploymentID string) string {
	return fmt.Sprintf("%s/%s/%s.json", c.base, url.PathEscape(player), url.PathEscape(deploymentID))
}

// FetchDeployment fetches a payload from the remote store. A 404 or a JSON
// null body yields (nil, nil): absence, not failure.
func (c *Client) FetchDeployment(ctx context.Context, player, deploymentID string) (*Payload, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.documentURL(player, deploymentID), nil)
	if err != nil {
		return nil, fmt.Errorf("build fetch request: %w", err)
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch deployment %s: %w", deploymentID, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, nil
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch deployment %s: status %d", deploymentID, resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("read deployment %s: %w", deploymentID, err)
	}
	trimmed := strings.TrimSpace(string(body))
	if trimmed == "" || trimmed == "null" {
		return nil, nil
	}

	var p Payload
	if err := json.Unmarshal(body, &p); err != nil {
		return nil, fmt.Errorf("parse deployment %s: %w", deploymentID, err)
	}
	if p.ID == "" {
		p.ID = deploymentID
	}
	if p.Player == "" {
		p.Player = player
	}
	return &p, nil
}

// StatusUpdate is the PATCH body for deployment status writes. Zero-valued
// optional fields are stripped before send.
type StatusUpdate struct {
	Status             string         `json:"status"`
	StartedAt          string         `json:"startedAt,omitempty"`
	CompletedAt        string         `json:"completedAt,omitempty"`
	CancelledAt        string         `json:"cancelledAt,omitempty"`
	ExpiredAt          string         `json:"expiredAt,omitempty"`
	LastClientUpdateAt string         `json:"lastClientUpdateAt"`
	Outcome            map[string]any `json:"outcome,omitempty"`
}

// UpdateStatus PATCHes status fields onto the stored deployment document.
func (c *Client) UpdateStatus(ctx context.Context, player, deploymentID string, update StatusUpdate) error {
	body, err := json.Marshal(update)
	if err != nil {
		return fmt.Errorf("encode status update: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPatch, c.documentURL(player, deploymentID), bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build status request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("patch deployment %s: %w", deploymentID, err)
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, io.LimitReader(resp.Body, 1<<16))

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("patch deployment %s: status %d", deploymentID, resp.StatusCode)
	}
	return nil
}
