// Package telegram delivers messages to a chat via the Bot API.
package telegram

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"
)

const (
	apiBase     = "https://api.telegram.org"
	sendTimeout = 20 * time.Second
)

// APIError is a non-success response from the Bot API.
type APIError struct {
	Status int
	Body   string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("telegram status %d: %s", e.Status, e.Body)
}

// Notifier sends messages to one chat.
type Notifier struct {
	token   string
	chatID  string
	client  *http.Client
	baseURL string
}

// NewNotifier creates a notifier for the given bot token and chat.
func NewNotifier(token, chatID string) (*Notifier, error) {
	if token == "" {
		return nil, errors.New("telegram: bot token is required")
	}
	if chatID == "" {
		return nil, errors.New("telegram: chat id is required")
	}
	return &Notifier{
		token:   token,
		chatID:  chatID,
		client:  &http.Client{Timeout: sendTimeout},
		baseURL: apiBase,
	}, nil
}

type sendMessageRequest struct {
	ChatID                string `json:"chat_id"`
	Text                  string `json:"text"`
	ParseMode             string `json:"parse_mode"`
	DisableWebPagePreview bool   `json:"disable_web_page_preview"`
}

// Notify sends one message to the configured chat.
func (n *Notifier) Notify(ctx context.Context, text string) error {
	ctx, cancel := context.WithTimeout(ctx, sendTimeout)
	defer cancel()

	payload, err := json.Marshal(sendMessageRequest{
		ChatID:    n.chatID,
		Text:      text,
		ParseMode: "HTML",
	})
	if err != nil {
		return fmt.Errorf("encode message: %w", err)
	}

	url := fmt.Sprintf("%s/bot%s/sendMessage", n.baseURL, n.token)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := n.client.Do(req)
	if err != nil {
		return fmt.Errorf("send message: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return &APIError{Status: resp.StatusCode, Body: string(body)}
	}
	return nil
}
