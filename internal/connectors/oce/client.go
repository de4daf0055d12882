package oce

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/custodia-labs/ocesync/internal/core/domain"
	"github.com/custodia-labs/ocesync/internal/core/ports/driven"
	"github.com/custodia-labs/ocesync/internal/logger"
)

// maxErrorBody bounds how much of an error response is kept in APIError.
const maxErrorBody = 512

// Ensure Client implements the interfaces.
var (
	_ driven.ContentSource = (*Client)(nil)
	_ driven.BinarySource  = (*Client)(nil)
)

// Client talks to the content server's delivery API.
type Client struct {
	cfg           Config
	http          *http.Client
	tokenProvider driven.TokenProvider
	rateLimiter   *RateLimiter
}

// NewClient creates a content client. A nil httpClient uses a default
// client with DefaultTimeout; a nil tokenProvider sends no credential.
func NewClient(cfg Config, httpClient *http.Client, tokenProvider driven.TokenProvider) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: DefaultTimeout}
	}
	return &Client{
		cfg:           cfg,
		http:          httpClient,
		tokenProvider: tokenProvider,
		rateLimiter:   NewRateLimiter(cfg.RequestsPerSecond),
	}
}

// listResponse is the body of the listing endpoint.
type listResponse struct {
	Count        int              `json:"count"`
	HasMore      bool             `json:"hasMore"`
	Limit        int              `json:"limit"`
	TotalResults int              `json:"totalResults"`
	ScrollID     string           `json:"scrollId"`
	Items        []domain.RawItem `json:"items"`
}

// ListItems fetches one page of the item listing.
func (c *Client) ListItems(ctx context.Context, req driven.ListRequest) (*driven.ItemPage, error) {
	u := c.listURL(req)
	logger.Debug("oce: list %s", u)

	var body listResponse
	if err := c.getJSON(ctx, u, &body); err != nil {
		return nil, fmt.Errorf("list items: %w", err)
	}

	return &driven.ItemPage{
		Count:        body.Count,
		HasMore:      body.HasMore,
		Limit:        body.Limit,
		TotalResults: body.TotalResults,
		ScrollID:     body.ScrollID,
		Items:        body.Items,
	}, nil
}

// GetItem fetches one item with all references expanded.
func (c *Client) GetItem(ctx context.Context, id string) (domain.RawItem, error) {
	u := c.itemURL(id)
	logger.Debug("oce: get item %s", id)

	var item domain.RawItem
	if err := c.getJSON(ctx, u, &item); err != nil {
		return nil, fmt.Errorf("get item %s: %w", id, err)
	}
	return item, nil
}

// OpenBinary starts a download of a binary on the content server.
func (c *Client) OpenBinary(ctx context.Context, rawURL string) (io.ReadCloser, error) {
	resp, err := c.do(ctx, rawURL)
	if err != nil {
		return nil, fmt.Errorf("download %s: %w", rawURL, err)
	}
	return resp.Body, nil
}

// listURL builds the listing URL for either continuation protocol.
func (c *Client) listURL(req driven.ListRequest) string {
	limit := req.Limit
	if limit <= 0 {
		limit = domain.FallbackItemsLimit
	}

	q := url.Values{}
	q.Set("limit", strconv.Itoa(limit))
	if req.Protocol == domain.PaginationOffset {
		q.Set("offset", strconv.Itoa(req.Offset))
		q.Set("totalResults", "true")
	} else {
		q.Set("scroll", "true")
	}
	q.Set("orderBy", "id:asc")
	q.Set("channelToken", c.cfg.ChannelToken)
	if req.Query != "" {
		q.Set("q", req.Query)
	}
	if req.ScrollID != "" {
		q.Set("scrollId", req.ScrollID)
	}

	return c.cfg.apiBase() + "/items?" + q.Encode()
}

// itemURL builds the URL of one item.
func (c *Client) itemURL(id string) string {
	q := url.Values{}
	q.Set("channelToken", c.cfg.ChannelToken)
	q.Set("expand", "all")
	return c.cfg.apiBase() + "/items/" + url.PathEscape(id) + "?" + q.Encode()
}

// getJSON issues a GET and decodes the JSON body into out.
func (c *Client) getJSON(ctx context.Context, rawURL string, out any) error {
	resp, err := c.do(ctx, rawURL)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response from %s: %w", rawURL, err)
	}
	return nil
}

// do issues an authenticated GET and returns a successful response.
// The caller must close the body.
func (c *Client) do(ctx context.Context, rawURL string) (*http.Response, error) {
	if err := c.rateLimiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit wait: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "*/*")
	if c.cfg.UserAgent != "" {
		req.Header.Set("User-Agent", c.cfg.UserAgent)
	}
	if c.tokenProvider != nil {
		auth, err := c.tokenProvider.GetToken(ctx)
		if err != nil {
			return nil, fmt.Errorf("get token: %w", err)
		}
		if auth != "" {
			req.Header.Set("Authorization", auth)
		}
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}

	if err := c.rateLimiter.CheckRateLimit(resp); err != nil {
		resp.Body.Close()
		return nil, err
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		defer resp.Body.Close()
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return nil, &APIError{
			StatusCode: resp.StatusCode,
			Message:    strings.TrimSpace(string(msg)),
			URL:        rawURL,
		}
	}
	return resp, nil
}

// RateLimiter returns the rate limiter for external access.
func (c *Client) RateLimiter() *RateLimiter {
	return c.rateLimiter
}
