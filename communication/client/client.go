package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"chessbot/communication"
)

// Client talks to a ranking service.
type Client struct {
	baseURL string
	http    *http.Client
}

// NewClient returns a client for the service at baseURL. A nil httpClient
// uses a client with a 30 second timeout.
func NewClient(baseURL string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    httpClient,
	}
}

func (c *Client) Rank(ctx context.Context, req communication.RankRequest) (communication.RankResponse, error) {
	data, err := json.Marshal(req)
	if err != nil {
		return communication.RankResponse{}, fmt.Errorf("encode rank request: %w", err)
	}
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/rank", bytes.NewReader(data))
	if err != nil {
		return communication.RankResponse{}, err
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(httpReq)
	if err != nil {
		return communication.RankResponse{}, fmt.Errorf("rank: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return communication.RankResponse{}, decodeError(resp)
	}
	var ranked communication.RankResponse
	if err := json.NewDecoder(resp.Body).Decode(&ranked); err != nil {
		return communication.RankResponse{}, fmt.Errorf("decode rank response: %w", err)
	}
	return ranked, nil
}

// Health returns nil when the service answers its health check.
func (c *Client) Health(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/healthz", nil)
	if err != nil {
		return err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("health: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return &communication.APIError{Status: resp.StatusCode, Code: http.StatusText(resp.StatusCode)}
	}
	return nil
}

func decodeError(resp *http.Response) error {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<16))
	var payload communication.ErrorResponse
	if err := json.Unmarshal(body, &payload); err != nil || payload.Error == "" {
		return &communication.APIError{Status: resp.StatusCode, Code: http.StatusText(resp.StatusCode), Detail: strings.TrimSpace(string(body))}
	}
	return &communication.APIError{Status: resp.StatusCode, Code: payload.Error, Detail: payload.Detail}
}
