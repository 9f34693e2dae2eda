// Package mail dispatches account lifecycle messages through the mail
// relay service.
package mail

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/hdmon/uaa/internal/domain/user"
)

// RelayClientConfig contains configuration for RelayClient.
type RelayClientConfig struct {
	// BaseURL is the base URL of the mail relay service.
	BaseURL string

	// APIKey authenticates this service against the relay.
	APIKey string

	// HTTPClient is an optional custom HTTP client.
	HTTPClient *http.Client
}

const defaultMailHTTPTimeout = 30 * time.Second

// RelayClient sends activation mail through the relay's HTTP API. It
// implements the application layer's user.ActivationSender.
type RelayClient struct {
	config     RelayClientConfig
	httpClient *http.Client
}

// NewRelayClient creates a new mail relay client.
func NewRelayClient(config RelayClientConfig) *RelayClient {
	httpClient := config.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{
			Timeout: defaultMailHTTPTimeout,
		}
	}

	return &RelayClient{
		config: RelayClientConfig{
			BaseURL: strings.TrimSuffix(config.BaseURL, "/"),
			APIKey:  config.APIKey,
		},
		httpClient: httpClient,
	}
}

// activationRequest is the relay's payload for an activation message.
// A user without a real email carries the placeholder; the relay routes
// those to SMS activation using the mobile number.
type activationRequest struct {
	Login     string `json:"login"`
	Email     string `json:"email,omitempty"`
	Mobile    string `json:"mobile,omitempty"`
	Template  string `json:"template"`
	CreatedAt string `json:"created_at"`
}

const activationTemplate = "account-activation"

// SendActivation asks the relay to deliver the activation message for a
// freshly created user.
func (c *RelayClient) SendActivation(ctx context.Context, u *user.User) error {
	if u == nil {
		return fmt.Errorf("user is required")
	}

	payload := activationRequest{
		Login:     u.Login(),
		Email:     u.RealEmail(),
		Mobile:    u.Mobile(),
		Template:  activationTemplate,
		CreatedAt: u.CreatedAt().UTC().Format(time.RFC3339),
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to encode activation request: %w", err)
	}

	reqURL := c.config.BaseURL + "/api/v1/messages"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, reqURL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.config.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.config.APIKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("activation request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusAccepted {
		respBody, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("activation send failed with status %d: %s", resp.StatusCode, string(respBody))
	}

	return nil
}
