package unsplash

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/go-kit/kit/log"
	"github.com/go-kit/kit/log/level"
	"github.com/google/uuid"
	"github.com/pkg/errors"
)

const (
	// DefaultBaseURL is the production API endpoint.
	DefaultBaseURL = "https://api.unsplash.com"

	// DefaultPerPage is the page size requested when none is configured.
	DefaultPerPage = 25

	// MaxPerPage is the largest page size the API accepts.
	MaxPerPage = 30

	requestIDHeader = "X-Request-Id"
)

// ErrNoAccessKey is returned by NewClient without an access key.
var ErrNoAccessKey = errors.New("unsplash access key is required")

// APIError is returned for responses with a non-2xx status code.
type APIError struct {
	StatusCode int
	Messages   []string
}

func (e *APIError) Error() string {
	if len(e.Messages) == 0 {
		return fmt.Sprintf("unsplash: unexpected status %d", e.StatusCode)
	}
	return fmt.Sprintf("unsplash: unexpected status %d: %s", e.StatusCode, strings.Join(e.Messages, "; "))
}

// Client searches photos.
type Client struct {
	accessKey  string
	baseURL    string
	perPage    int
	httpClient *http.Client
	logger     log.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithBaseURL points the client at another API endpoint.
func WithBaseURL(baseURL string) Option {
	return func(c *Client) {
		c.baseURL = strings.TrimSuffix(baseURL, "/")
	}
}

// WithPerPage sets the number of photos requested per search.
func WithPerPage(n int) Option {
	return func(c *Client) {
		c.perPage = n
	}
}

// WithHTTPClient sets the HTTP client used for requests.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		c.httpClient = client
	}
}

// WithLogger sets the logger for requests.
func WithLogger(logger log.Logger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

// NewClient creates a Client authenticating with accessKey.
func NewClient(accessKey string, opts ...Option) (*Client, error) {
	if accessKey == "" {
		return nil, ErrNoAccessKey
	}
	c := &Client{
		accessKey:  accessKey,
		baseURL:    DefaultBaseURL,
		perPage:    DefaultPerPage,
		httpClient: http.DefaultClient,
		logger:     log.NewNopLogger(),
	}
	for _, o := range opts {
		o(c)
	}
	if c.perPage < 1 || c.perPage > MaxPerPage {
		return nil, errors.Errorf("per page must be between 1 and %d, got %d", MaxPerPage, c.perPage)
	}
	if _, err := url.Parse(c.baseURL); err != nil {
		return nil, errors.Wrapf(err, "parsing base URL %q", c.baseURL)
	}
	return c, nil
}

// Search returns the first page of photos matching query.
func (c *Client) Search(ctx context.Context, query string) (*SearchResult, error) {
	q := url.Values{}
	q.Set("query", query)
	q.Set("per_page", strconv.Itoa(c.perPage))
	endpoint := c.baseURL + "/search/photos?" + q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, errors.Wrap(err, "creating search request")
	}
	requestID := uuid.NewString()
	req.Header.Set("Authorization", "Client-ID "+c.accessKey)
	req.Header.Set("Accept-Version", "v1")
	req.Header.Set(requestIDHeader, requestID)

	level.Debug(c.logger).Log("op", "Search", "query", query, "request_id", requestID)
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, errors.Wrapf(err, "searching %q", query)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &APIError{StatusCode: resp.StatusCode}
		var body struct {
			Errors []string `json:"errors"`
		}
		if err := json.NewDecoder(io.LimitReader(resp.Body, 64<<10)).Decode(&body); err == nil {
			apiErr.Messages = body.Errors
		}
		level.Warn(c.logger).Log("op", "Search", "query", query, "request_id", requestID, "err", apiErr)
		return nil, apiErr
	}

	var result SearchResult
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, errors.Wrap(err, "decoding search result")
	}
	return &result, nil
}
