// internal/telephony/client.go
package telephony

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Client talks to the hosted AI voice backend over HTTP.
type Client struct {
	baseURL string
	apiKey  string
	http    *http.Client
}

func NewClient(apiKey, baseURL string) *Client {
	return &Client{
		baseURL: baseURL,
		apiKey:  apiKey,
		http:    &http.Client{Timeout: 10 * time.Second},
	}
}

type callResponse struct {
	Outcome     string `json:"outcome"`
	Transferred bool   `json:"transferred"`
	DurationSec int    `json:"duration_sec"`
	Error       string `json:"error,omitempty"`
}

// Call places one outbound call and waits for its outcome.
func (c *Client) Call(req CallRequest) (*CallResult, error) {
	url := fmt.Sprintf("%s/v1/calls", c.baseURL)

	jsonBody, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("marshal call request: %w", err)
	}

	httpReq, err := http.NewRequest("POST", url, bytes.NewBuffer(jsonBody))
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.http.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("voice backend request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("voice backend returned status %d: %s", resp.StatusCode, string(body))
	}

	var response callResponse
	if err := json.NewDecoder(resp.Body).Decode(&response); err != nil {
		return nil, fmt.Errorf("decode voice backend response: %w", err)
	}
	if response.Error != "" {
		return nil, fmt.Errorf("voice backend: %s", response.Error)
	}

	return &CallResult{
		Outcome:     response.Outcome,
		Transferred: response.Transferred,
		DurationSec: response.DurationSec,
	}, nil
}

var _ Dialer = (*Client)(nil)
