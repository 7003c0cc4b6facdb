// Package twitter talks to the X API v2 on behalf of the watch run.
package twitter

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	log "github.com/sirupsen/logrus"
)

const (
	apiBase        = "https://api.twitter.com/2"
	resolveTimeout = 20 * time.Second
	fetchTimeout   = 30 * time.Second
	maxResults     = 20
)

// Sentinel outcomes the watch run dispatches on.
var (
	// ErrRateLimited signals upstream throttling. Never fatal: the run
	// skips and the next scheduled invocation retries.
	ErrRateLimited = errors.New("rate limited")

	// ErrNotFound signals that the watched handle does not resolve.
	ErrNotFound = errors.New("user not found")
)

// UpstreamError is any other non-success response from the X API.
type UpstreamError struct {
	Status int
	Body   string
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("upstream status %d: %s", e.Status, e.Body)
}

// Client fetches recent original posts for one account.
type Client struct {
	bearer  string
	client  *http.Client
	baseURL string
}

// NewClient creates an X API client authenticated with a bearer token.
func NewClient(bearer string) (*Client, error) {
	if bearer == "" {
		return nil, errors.New("twitter: bearer token is required")
	}
	return &Client{
		bearer:  bearer,
		client:  &http.Client{Timeout: fetchTimeout},
		baseURL: apiBase,
	}, nil
}

// ResolveUser maps a handle to the stable account id.
func (c *Client) ResolveUser(ctx context.Context, handle string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, resolveTimeout)
	defer cancel()

	u := fmt.Sprintf("%s/users/by/username/%s?user.fields=id", c.baseURL, url.PathEscape(handle))
	status, body, err := c.get(ctx, u)
	if err != nil {
		return "", fmt.Errorf("resolve %s: %w", handle, err)
	}

	switch {
	case status == http.StatusTooManyRequests:
		return "", fmt.Errorf("resolve %s: %w", handle, ErrRateLimited)
	case status != http.StatusOK:
		return "", &UpstreamError{Status: status, Body: string(body)}
	}

	var payload struct {
		Data struct {
			ID string `json:"id"`
		} `json:"data"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return "", fmt.Errorf("resolve %s: decode: %w", handle, err)
	}
	if payload.Data.ID == "" {
		return "", fmt.Errorf("resolve %s: %w", handle, ErrNotFound)
	}
	return payload.Data.ID, nil
}

// RecentOriginals returns the account's recent posts newer than sinceID, or
// the most recent page when sinceID is empty. Replies and reposts are
// excluded server-side; quote detection is left to the caller because the
// upstream API cannot filter quotes. A rate-limited response degrades to an
// empty page so a transient 429 never fails the scheduled job.
func (c *Client) RecentOriginals(ctx context.Context, userID, sinceID string) ([]Post, error) {
	ctx, cancel := context.WithTimeout(ctx, fetchTimeout)
	defer cancel()

	q := url.Values{}
	q.Set("max_results", strconv.Itoa(maxResults))
	q.Set("exclude", "replies,retweets")
	q.Set("tweet.fields", "created_at,referenced_tweets")
	if sinceID != "" {
		q.Set("since_id", sinceID)
	}

	u := fmt.Sprintf("%s/users/%s/tweets?%s", c.baseURL, url.PathEscape(userID), q.Encode())
	status, body, err := c.get(ctx, u)
	if err != nil {
		return nil, fmt.Errorf("fetch tweets: %w", err)
	}

	switch {
	case status == http.StatusTooManyRequests:
		log.WithFields(log.Fields{"user_id": userID}).Info("Rate limited fetching tweets, skipping")
		return nil, nil
	case status != http.StatusOK:
		return nil, &UpstreamError{Status: status, Body: string(body)}
	}

	var payload struct {
		Data []Post `json:"data"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, fmt.Errorf("fetch tweets: decode: %w", err)
	}
	return payload.Data, nil
}

func (c *Client) get(ctx context.Context, rawURL string) (int, []byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return 0, nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.bearer)

	resp, err := c.client.Do(req)
	if err != nil {
		return 0, nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, nil, fmt.Errorf("read response: %w", err)
	}
	return resp.StatusCode, body, nil
}
