// Package search resolves free-text company queries against the source
// site's search API.
package search

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"ScreenerFetcher/internal/domain"
	"ScreenerFetcher/internal/ports"
)

const searchUserAgent = "Mozilla/5.0"

// Client is a small JSON client for the company search endpoint.
type Client struct {
	baseURL string
	http    *http.Client
}

var _ ports.CompanySearcher = (*Client)(nil)

// NewClient wires the site base URL and an optional HTTP client.
func NewClient(baseURL string, client *http.Client) *Client {
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}
	return &Client{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		http:    client,
	}
}

// Search returns matching company records for the query. Callers treat any
// failure as an empty result set.
func (c *Client) Search(ctx context.Context, query string) ([]domain.Company, error) {
	endpoint := fmt.Sprintf("%s/api/company/search/?q=%s", c.baseURL, url.QueryEscape(query))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("User-Agent", searchUserAgent)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("search request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("search returned %s", resp.Status)
	}

	var companies []domain.Company
	if err := json.NewDecoder(resp.Body).Decode(&companies); err != nil {
		return nil, fmt.Errorf("decode search response: %w", err)
	}
	return companies, nil
}

// PageURL resolves a company record's relative URL against the site base.
func (c *Client) PageURL(company domain.Company) string {
	if strings.HasPrefix(company.URL, "http") {
		return company.URL
	}
	return c.baseURL + company.URL
}
