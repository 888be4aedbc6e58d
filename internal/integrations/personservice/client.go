package personservice

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Client клиент для работы с PersonService
type Client struct {
	baseURL    string
	httpClient *http.Client
	log        Logger
}

// NewClient создает новый экземпляр клиента PersonService
func NewClient(baseURL string, timeout time.Duration, log Logger) *Client {
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		log: log,
	}
}

// GetRiskFlags получает признаки повышенного риска для списка CRN
func (c *Client) GetRiskFlags(ctx context.Context, crns []string) (RiskFlags, error) {
	flags := make(RiskFlags, len(crns))
	if len(crns) == 0 {
		return flags, nil
	}

	body, err := json.Marshal(RiskSearchRequest{CRNs: crns})
	if err != nil {
		return nil, fmt.Errorf("%w: failed to marshal request: %v", ErrInternal, err)
	}

	url := fmt.Sprintf("%s/internal/people/risks/search", c.baseURL)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("%w: failed to create request: %v", ErrInternal, err)
	}

	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to execute request: %v", ErrInternal, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("%w: unexpected status code %d: %s", ErrInvalidResponse, resp.StatusCode, string(respBody))
	}

	var result RiskSearchResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("%w: failed to decode response: %v", ErrInvalidResponse, err)
	}

	for _, p := range result.People {
		flags[p.CRN] = p.ElevatedRisk
	}

	return flags, nil
}

// GetRiskFlagsWithGracefulDegradation получает признаки риска с graceful degradation
// При недоступности PersonService возвращает пустой набор признаков и ErrServiceDegraded:
// результаты поиска остаются корректными, только без пометок о риске
func (c *Client) GetRiskFlagsWithGracefulDegradation(ctx context.Context, crns []string) (RiskFlags, error) {
	flags, err := c.GetRiskFlags(ctx, crns)
	if err != nil {
		c.log.Error("PersonService unavailable, applying graceful degradation for %d crns: %v", len(crns), err)
		return RiskFlags{}, fmt.Errorf("%w: %v", ErrServiceDegraded, err)
	}

	c.log.Info("Fetched risk flags for %d crns", len(crns))
	return flags, nil
}
