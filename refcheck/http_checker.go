// api/refcheck/http_checker.go
package refcheck

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/conditioncraft/composer/api/model"
)

// HTTPChecker calls an external validate-conditions endpoint.
type HTTPChecker struct {
	endpoint string
	client   *http.Client
}

func NewHTTPChecker(endpoint string) *HTTPChecker {
	return &HTTPChecker{
		endpoint: endpoint,
		client:   &http.Client{Timeout: 10 * time.Second},
	}
}

func (c *HTTPChecker) CheckConditions(ctx context.Context, conditions []model.ConditionPayload) (*model.CheckResult, error) {
	body, err := json.Marshal(model.CheckRequest{Conditions: conditions})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal check request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to build check request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("reference validation call failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("reference validation returned status %d", resp.StatusCode)
	}

	var result model.CheckResult
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("failed to decode check response: %w", err)
	}
	return &result, nil
}
