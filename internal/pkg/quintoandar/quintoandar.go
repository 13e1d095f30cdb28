// Package quintoandar talks to the QuintoAndar search API. The portal only
// answers for a bounded viewport and a bounded page window, which is why the
// discovery phase upstream walks a grid of small cells instead of asking for
// everything at once.
package quintoandar

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/landomo-com/landomo-brazil-quintoandar/internal/pkg/grid"
)

const defaultBaseURL = "https://www.quintoandar.com.br/api/yellow-pages"

// ErrNotFound is returned by FetchDetail when a listing no longer exists
// upstream. It is terminal and must not be retried.
var ErrNotFound = errors.New("quintoandar: listing not found")

// SearchPage is one page of a region's search results. Total is the API's
// authoritative listing count for the queried viewport, it is established by
// the first page and drives the pagination.
type SearchPage struct {
	IDs   []string
	Total int
}

// Client is the boundary the pipeline consumes: paged ID search, detail
// fetch, and outbound identity rotation.
type Client interface {
	FetchIDs(ctx context.Context, region grid.Region, offset, pageSize int) (*SearchPage, error)
	FetchDetail(ctx context.Context, id string) (json.RawMessage, error)
	Rotate()
}

// searchResponse mirrors the portal's Elasticsearch-shaped search payload
type searchResponse struct {
	Hits struct {
		Hits []struct {
			ID string `json:"_id"`
		} `json:"hits"`
		Total struct {
			Value int `json:"value"`
		} `json:"total"`
	} `json:"hits"`
}

// HTTPClient implement Client against the live portal
type HTTPClient struct {
	client      *http.Client
	baseURL     string
	fingerprint *fingerprint
}

// NewHTTPClient initialize a client with the given request timeout. A zero
// timeout falls back to 30 seconds.
func NewHTTPClient(baseURL string, timeout time.Duration) *HTTPClient {
	if baseURL == "" {
		baseURL = defaultBaseURL
	}

	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	return &HTTPClient{
		client:      &http.Client{Timeout: timeout},
		baseURL:     baseURL,
		fingerprint: newFingerprint(),
	}
}

// FetchIDs query one page of listing IDs for a region's viewport
func (c *HTTPClient) FetchIDs(ctx context.Context, region grid.Region, offset, pageSize int) (*SearchPage, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/v2/search", nil)
	if err != nil {
		return nil, err
	}

	q := req.URL.Query()
	q.Set("lat", strconv.FormatFloat(region.CenterLat, 'f', -1, 64))
	q.Set("lng", strconv.FormatFloat(region.CenterLng, 'f', -1, 64))
	q.Set("north", strconv.FormatFloat(region.Viewport.North, 'f', -1, 64))
	q.Set("south", strconv.FormatFloat(region.Viewport.South, 'f', -1, 64))
	q.Set("east", strconv.FormatFloat(region.Viewport.East, 'f', -1, 64))
	q.Set("west", strconv.FormatFloat(region.Viewport.West, 'f', -1, 64))
	q.Set("offset", strconv.Itoa(offset))
	q.Set("page_size", strconv.Itoa(pageSize))
	q.Set("return", "id")
	req.URL.RawQuery = q.Encode()

	c.fingerprint.apply(req)

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("quintoandar: search returned HTTP %d", resp.StatusCode)
	}

	var parsed searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("quintoandar: cannot decode search response: %w", err)
	}

	page := &SearchPage{Total: parsed.Hits.Total.Value}
	for _, hit := range parsed.Hits.Hits {
		page.IDs = append(page.IDs, hit.ID)
	}

	return page, nil
}

// FetchDetail retrieve the full raw record of one listing. The payload is
// passed through opaquely, normalization happens at the sink boundary.
func (c *HTTPClient) FetchDetail(ctx context.Context, id string) (json.RawMessage, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/v1/house/"+id, nil)
	if err != nil {
		return nil, err
	}

	c.fingerprint.apply(req)

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound || resp.StatusCode == http.StatusGone {
		return nil, ErrNotFound
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("quintoandar: detail returned HTTP %d", resp.StatusCode)
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("quintoandar: cannot read detail response: %w", err)
	}

	return json.RawMessage(raw), nil
}

// Rotate swap the outbound request fingerprint. Safe to call between
// requests from any goroutine.
func (c *HTTPClient) Rotate() {
	c.fingerprint.rotate()
}
