package client

import (
	"context"
	"fmt"
	"time"

	"resty.dev/v3"
)

type EventRequest struct {
	TerminalID string  `json:"terminal_id"`
	ReceiptID  string  `json:"receipt_id"`
	Amount     float64 `json:"amount"`
	Currency   string  `json:"currency,omitempty"`
}

type EventResponse struct {
	ID         int64   `json:"id"`
	TerminalID string  `json:"terminal_id"`
	ReceiptID  string  `json:"receipt_id"`
	Amount     float64 `json:"amount"`
	Currency   string  `json:"currency"`
	Status     string  `json:"status"`
	CreatedAt  string  `json:"created_at"`
}

// EventsClient talks to the ingestion API.
type EventsClient struct {
	client *resty.Client
}

func NewEventsClient(baseURL string, timeout time.Duration) *EventsClient {
	c := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(timeout).
		SetHeader("Content-Type", "application/json")
	return &EventsClient{client: c}
}

func (c *EventsClient) Close() error {
	return c.client.Close()
}

func (c *EventsClient) SendEvent(ctx context.Context, event EventRequest) (*EventResponse, error) {
	var created EventResponse
	resp, err := c.client.R().
		SetContext(ctx).
		SetBody(event).
		SetResult(&created).
		Post("/events")
	if err != nil {
		return nil, fmt.Errorf("do request: %w", err)
	}

	if resp.IsError() {
		return nil, fmt.Errorf("unexpected status: %d, body: %s", resp.StatusCode(), resp.String())
	}
	return &created, nil
}
