// Package publicip resolves the host's public address at startup so registry
// entries can advertise it without hardcoding.
package publicip

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// DefaultEndpoint is the ipify JSON endpoint.
const DefaultEndpoint = "https://api.ipify.org?format=json"

// UnknownAddress is displayed when resolution fails; the bot still starts.
const UnknownAddress = "unknown"

// Resolver fetches the public IP address over HTTP.
type Resolver struct {
	endpoint string
	client   *http.Client
}

// NewResolver creates a resolver against the default endpoint.
func NewResolver() *Resolver {
	return NewResolverWithEndpoint(DefaultEndpoint)
}

// NewResolverWithEndpoint creates a resolver against a custom endpoint,
// mainly for tests.
func NewResolverWithEndpoint(endpoint string) *Resolver {
	return &Resolver{
		endpoint: endpoint,
		client:   &http.Client{Timeout: 5 * time.Second},
	}
}

// Fetch returns the public IP address as reported by the endpoint.
func (r *Resolver) Fetch(ctx context.Context) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, r.endpoint, nil)
	if err != nil {
		return "", fmt.Errorf("failed to build public ip request: %w", err)
	}

	resp, err := r.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to fetch public ip: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("public ip endpoint returned status %d", resp.StatusCode)
	}

	var payload struct {
		IP string `json:"ip"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return "", fmt.Errorf("failed to decode public ip response: %w", err)
	}
	if payload.IP == "" {
		return "", fmt.Errorf("public ip endpoint returned an empty address")
	}

	return payload.IP, nil
}
