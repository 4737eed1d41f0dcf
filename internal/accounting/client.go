package accounting

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math/rand"
	"net/http"
	"strings"
	"time"

	"golang.org/x/oauth2/clientcredentials"

	"stridewms/internal/config"
)

// Client talks to the third-party accounting provider's export API.
// Authentication is OAuth2 client credentials; requests are rate limited
// and retried with jittered backoff on throttling and server errors.
type Client struct {
	cfg        config.Config
	httpClient *http.Client
	limiter    *RateLimiter
}

type apiResponse struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Errors  json.RawMessage `json:"errors"`
	Data    json.RawMessage `json:"data"`
}

// ProviderStatus is what the admin screens display for the sync panel.
type ProviderStatus struct {
	Provider        string  `json:"provider"`
	Connected       bool    `json:"connected"`
	LastExportAt    *string `json:"lastExportAt"`
	PendingInvoices int     `json:"pendingInvoices"`
}

// Charge is one rate-card line pushed to the provider.
type Charge struct {
	ServiceCode string  `json:"serviceCode"`
	ServiceName string  `json:"serviceName"`
	ClassCode   *string `json:"classCode,omitempty"`
	BillingUnit string  `json:"billingUnit"`
	Rate        float64 `json:"rate"`
	Taxable     bool    `json:"taxable"`
}

func NewClient(cfg config.Config) *Client {
	timeout := time.Duration(cfg.AccountingTimeoutMs) * time.Millisecond

	httpClient := &http.Client{Timeout: timeout}
	if cfg.AccountingClientID != "" && cfg.AccountingTokenURL != "" {
		creds := clientcredentials.Config{
			ClientID:     cfg.AccountingClientID,
			ClientSecret: cfg.AccountingClientSecret,
			TokenURL:     cfg.AccountingTokenURL,
		}
		httpClient = creds.Client(context.Background())
		httpClient.Timeout = timeout
	}

	return &Client{
		cfg:        cfg,
		httpClient: httpClient,
		limiter:    NewRateLimiter(cfg.AccountingRateLimitRPS),
	}
}

func (c *Client) GetStatus(ctx context.Context) (ProviderStatus, error) {
	body, err := c.doJSON(ctx, http.MethodGet, "export/status", nil)
	if err != nil {
		return ProviderStatus{}, err
	}
	var out ProviderStatus
	if err := json.Unmarshal(body, &out); err != nil {
		return ProviderStatus{}, err
	}
	if out.Provider == "" {
		out.Provider = c.cfg.AccountingProvider
	}
	return out, nil
}

// PushCharges exports rate-card lines and returns how many the provider
// accepted.
func (c *Client) PushCharges(ctx context.Context, charges []Charge) (int, error) {
	if len(charges) == 0 {
		return 0, nil
	}
	payload, err := json.Marshal(map[string]any{"charges": charges})
	if err != nil {
		return 0, err
	}
	body, err := c.doJSON(ctx, http.MethodPost, "export/charges", payload)
	if err != nil {
		return 0, err
	}
	var out struct {
		Accepted int `json:"accepted"`
	}
	if err := json.Unmarshal(body, &out); err != nil {
		return 0, err
	}
	return out.Accepted, nil
}

func (c *Client) doJSON(ctx context.Context, method, endpoint string, payload []byte) ([]byte, error) {
	if strings.TrimSpace(c.cfg.AccountingAPIBaseURL) == "" {
		return nil, errors.New("missing ACCOUNTING_API_BASE_URL")
	}

	url := strings.TrimRight(c.cfg.AccountingAPIBaseURL, "/") + "/" + endpoint

	var lastErr error
	for attempt := 1; attempt <= 5; attempt++ {
		c.limiter.WaitTurn()

		var reqBody io.Reader
		if payload != nil {
			reqBody = bytes.NewReader(payload)
		}
		req, err := http.NewRequestWithContext(ctx, method, url, reqBody)
		if err != nil {
			return nil, err
		}
		req.Header.Set("Accept", "application/json")
		if payload != nil {
			req.Header.Set("Content-Type", "application/json")
		}

		resp, err := c.httpClient.Do(req)
		if err != nil {
			lastErr = err
			continue
		}

		body, readErr := io.ReadAll(resp.Body)
		_ = resp.Body.Close()
		if readErr != nil {
			lastErr = readErr
			continue
		}

		if resp.StatusCode < 200 || resp.StatusCode >= 300 {
			if isRetryableStatus(resp.StatusCode) && attempt < 5 {
				backoff := time.Duration(250*(1<<(attempt-1))+rand.Intn(100)) * time.Millisecond
				time.Sleep(backoff)
				lastErr = fmt.Errorf("accounting status %d", resp.StatusCode)
				continue
			}
			return nil, fmt.Errorf("accounting api error: status=%d body=%s", resp.StatusCode, string(body))
		}

		var apiResp apiResponse
		if err := json.Unmarshal(body, &apiResp); err != nil {
			return nil, err
		}
		if !apiResp.Success {
			return nil, fmt.Errorf("accounting api unsuccessful: %s", string(apiResp.Errors))
		}
		return apiResp.Data, nil
	}

	if lastErr == nil {
		lastErr = errors.New("accounting request failed")
	}
	return nil, lastErr
}

func isRetryableStatus(status int) bool {
	switch status {
	case 429, 500, 502, 503, 504:
		return true
	default:
		return false
	}
}
