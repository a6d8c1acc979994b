// Package assistant holds the request/response contract with the external
// natural-language expense parser. The parser itself is an external
// collaborator; this package only shapes and transports its messages.
package assistant

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// ParsedSplit is one participant share proposed by the parser.
type ParsedSplit struct {
	UserID string  `json:"userId"`
	Amount float64 `json:"amount"`
}

// ParsedExpense is the structured expense the parser extracts from free
// text. The ledger accepts it as a create-expense input only after the
// user confirms it; parsing alone creates nothing.
type ParsedExpense struct {
	Description     string        `json:"description"`
	TotalAmount     float64       `json:"totalAmount"`
	Category        string        `json:"category"`
	Subcategory     string        `json:"subcategory,omitempty"`
	Splits          []ParsedSplit `json:"splits,omitempty"`
	AllParticipants []string      `json:"allParticipants,omitempty"`
}

// Parser extracts a structured expense proposal from a free-text message.
type Parser interface {
	Parse(ctx context.Context, userID, message string) (*ParsedExpense, error)
}

// Client talks to the external parsing service over JSON HTTP.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a parser client for the given base URL.
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: 15 * time.Second},
	}
}

var _ Parser = (*Client)(nil)

// Parse sends the message to the parsing service and decodes its proposal.
func (c *Client) Parse(ctx context.Context, userID, message string) (*ParsedExpense, error) {
	body, err := json.Marshal(map[string]string{
		"userId":  userID,
		"message": message,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to encode parse request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/parse", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to build parse request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("parse request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("parser returned status %d", resp.StatusCode)
	}

	var parsed ParsedExpense
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("failed to decode parser response: %w", err)
	}
	return &parsed, nil
}
