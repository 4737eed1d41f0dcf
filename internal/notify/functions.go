package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"stridewms/internal/config"
)

// FunctionClient invokes the hosted serverless functions used for test
// sends. Fire-and-forget: one attempt, a success boolean back, no retries.
type FunctionClient struct {
	cfg        config.Config
	httpClient *http.Client
}

type functionResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

func NewFunctionClient(cfg config.Config) *FunctionClient {
	return &FunctionClient{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: time.Duration(cfg.FunctionsTimeoutMs) * time.Millisecond},
	}
}

func (c *FunctionClient) Invoke(ctx context.Context, name string, payload any) (bool, error) {
	if strings.TrimSpace(c.cfg.FunctionsBaseURL) == "" {
		return false, errors.New("FUNCTIONS_BASE_URL is not configured")
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return false, err
	}

	url := strings.TrimRight(c.cfg.FunctionsBaseURL, "/") + "/" + name
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return false, err
	}
	req.Header.Set("Content-Type", "application/json")
	if c.cfg.FunctionsToken != "" {
		req.Header.Set("Authorization", "Bearer "+c.cfg.FunctionsToken)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return false, err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return false, err
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return false, fmt.Errorf("function %s: status=%d body=%s", name, resp.StatusCode, string(raw))
	}

	var parsed functionResponse
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return false, err
	}
	return parsed.Success, nil
}

func (c *FunctionClient) SendTestSMS(ctx context.Context, to, body string) (bool, error) {
	return c.Invoke(ctx, "send-test-sms", map[string]string{"to": to, "body": body})
}

func (c *FunctionClient) SendTestEmail(ctx context.Context, to, subject, html string) (bool, error) {
	return c.Invoke(ctx, "send-test-email", map[string]string{"to": to, "subject": subject, "html": html})
}
