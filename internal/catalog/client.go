package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5/middleware"

	"github.com/Tsaleem123/game-inventory-backend/internal/model"
)

const defaultPageSize = 20

// Client queries a RAWG-style games catalog API.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

// SearchResult holds one page of catalog search results.
type SearchResult struct {
	Total int
	Games []model.CatalogGame
}

// NewClient creates a catalog client for the given API base URL and key.
func NewClient(baseURL, apiKey string) *Client {
	return &Client{
		baseURL:    baseURL,
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
}

// Search queries the catalog for games matching the query. Pages start at 1.
func (c *Client) Search(ctx context.Context, query string, page int) (*SearchResult, error) {
	params := url.Values{
		"key":       {c.apiKey},
		"search":    {query},
		"page":      {strconv.Itoa(page)},
		"page_size": {strconv.Itoa(defaultPageSize)},
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/games?"+params.Encode(), nil)
	if err != nil {
		return nil, err
	}

	// Propagate the inbound request id so upstream calls can be correlated.
	if reqID := middleware.GetReqID(ctx); reqID != "" {
		req.Header.Set("X-Request-Id", reqID)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("catalog returned status %d", resp.StatusCode)
	}

	var payload searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("failed to decode catalog response: %w", err)
	}

	return &SearchResult{
		Total: payload.Count,
		Games: payload.Results,
	}, nil
}

// searchResponse mirrors the catalog API's paginated envelope.
type searchResponse struct {
	Count   int                 `json:"count"`
	Results []model.CatalogGame `json:"results"`
}
