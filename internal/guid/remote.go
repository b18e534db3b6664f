// Package guid provides identifier sources for tagging error report
// entries: a remote GUID-generation API client with retry, a local random
// fallback, and a decorator composing the two so that identifier
// acquisition never fails.
package guid

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/thiri-win/helix/internal/common"
	"github.com/thiri-win/helix/internal/service"
)

// DefaultAPIURL is the GUID generation endpoint used when none is configured.
const DefaultAPIURL = "https://www.uuidtools.com/api/generate/v4"

const requestTimeout = 5 * time.Second

// RemoteSource fetches identifiers from an HTTP GUID-generation API. Each
// Generate call is bounded by the client timeout and a small fixed number
// of retries.
type RemoteSource struct {
	client *http.Client
	url    string
	retry  service.RetryOptions
}

// NewRemoteSource creates a remote identifier source for the given API URL.
func NewRemoteSource(url string) *RemoteSource {
	return &RemoteSource{
		url:    url,
		client: &http.Client{Timeout: requestTimeout},
		retry: service.RetryOptions{
			MaxAttempts:  3,
			InitialDelay: time.Second,
			MaxDelay:     time.Second,
		},
	}
}

// WithRetryOptions overrides the retry behavior. Intended for tests.
func (s *RemoteSource) WithRetryOptions(opts service.RetryOptions) *RemoteSource {
	s.retry = opts
	return s
}

// Generate requests one identifier from the API.
func (s *RemoteSource) Generate(ctx context.Context) (string, service.IdentifierOrigin, error) {
	var id string
	err := common.WithRetry(ctx, func() error {
		var err error
		id, err = s.fetch(ctx)
		return err
	}, s.retry)
	if err != nil {
		return "", service.OriginAPI, fmt.Errorf("%w: %v", common.ErrIdentifierService, err)
	}
	return id, service.OriginAPI, nil
}

func (s *RemoteSource) fetch(ctx context.Context) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.url, nil)
	if err != nil {
		return "", fmt.Errorf("failed to build request: %w", err)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("invalid API response: %d", resp.StatusCode)
	}

	// The API returns a JSON array of GUID strings.
	var guids []string
	if err := json.NewDecoder(resp.Body).Decode(&guids); err != nil {
		return "", fmt.Errorf("failed to decode response: %w", err)
	}
	if len(guids) == 0 || guids[0] == "" {
		return "", fmt.Errorf("empty API response")
	}
	return guids[0], nil
}
