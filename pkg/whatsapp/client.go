package whatsapp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// RejectedError is returned when the gateway answers with a non-2xx status.
type RejectedError struct {
	StatusCode int
	Status     string
}

func (e *RejectedError) Error() string {
	return fmt.Sprintf("whatsapp gateway rejected message: %s", e.Status)
}

type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
}

func NewClient(baseURL, token string) *Client {
	return &Client{
		baseURL: baseURL,
		token:   token,
		httpClient: &http.Client{
			Timeout: 15 * time.Second,
		},
	}
}

type sendRequest struct {
	To   string `json:"to"`
	Body string `json:"body"`
}

// SendMessage dispatches one message to the given phone number. It either
// succeeds or fails immediately; retries are the caller's decision.
func (c *Client) SendMessage(ctx context.Context, to, body string) error {
	payload, err := json.Marshal(sendRequest{To: to, Body: body})
	if err != nil {
		return fmt.Errorf("failed to encode message: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/messages", bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.token)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to reach whatsapp gateway: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &RejectedError{StatusCode: resp.StatusCode, Status: resp.Status}
	}

	return nil
}
