package provider

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/arkadyv/fangate/internal/config"
)

// BrevoClient sends transactional email through the Brevo HTTP API.
type BrevoClient struct {
	baseURL    string
	apiKey     string
	fromEmail  string
	fromName   string
	httpClient *http.Client
}

// NewBrevoClient creates a Brevo API client from the provider config.
func NewBrevoClient(cfg config.ProviderConfig) *BrevoClient {
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 30 * time.Second
	}
	return &BrevoClient{
		baseURL:   cfg.BaseURL,
		apiKey:    cfg.APIKey,
		fromEmail: cfg.FromEmail,
		fromName:  cfg.FromName,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

type brevoAddress struct {
	Email string `json:"email"`
	Name  string `json:"name,omitempty"`
}

type brevoSendRequest struct {
	Sender      brevoAddress      `json:"sender"`
	To          []brevoAddress    `json:"to"`
	Subject     string            `json:"subject"`
	HTMLContent string            `json:"htmlContent"`
	Headers     map[string]string `json:"headers,omitempty"`
}

type brevoSendResponse struct {
	MessageID string `json:"messageId"`
}

type brevoError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Send delivers one email through POST /v3/smtp/email.
func (c *BrevoClient) Send(ctx context.Context, req *SendRequest) (*SendResponse, error) {
	body := brevoSendRequest{
		Sender:      brevoAddress{Email: c.fromEmail, Name: c.fromName},
		To:          []brevoAddress{{Email: req.To, Name: req.ToName}},
		Subject:     req.Subject,
		HTMLContent: req.HTML,
	}
	if req.UnsubscribeToken != "" {
		body.Headers = map[string]string{
			"List-Unsubscribe": "<https://fangate.app/u/" + req.UnsubscribeToken + ">",
		}
	}

	var resp brevoSendResponse
	if err := c.request(ctx, http.MethodPost, "/v3/smtp/email", body, &resp); err != nil {
		return nil, err
	}
	return &SendResponse{MessageID: resp.MessageID}, nil
}

// request performs an HTTP request to the Brevo API
func (c *BrevoClient) request(ctx context.Context, method, path string, body any, result any) error {
	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}

	req.Header.Set("api-key", c.apiKey)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		var errResp brevoError
		if err := json.NewDecoder(resp.Body).Decode(&errResp); err != nil {
			return fmt.Errorf("HTTP %d", resp.StatusCode)
		}
		return fmt.Errorf("provider error: %s", errResp.Message)
	}

	if result != nil && resp.StatusCode != http.StatusNoContent {
		if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
			return fmt.Errorf("decode response: %w", err)
		}
	}

	return nil
}
