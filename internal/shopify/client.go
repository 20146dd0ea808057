package shopify

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"

	"github.com/signal-over-noise/shopify-invoice-app/internal/config"
)

var (
	ErrMissingStore = errors.New("shopify store url is required")
	ErrMissingToken = errors.New("shopify admin api token is required")
)

// APIError is returned for any non-2xx answer from the Admin API. No retries
// are attempted here; the caller decides what to do with it.
type APIError struct {
	StatusCode int
	Status     string
	Path       string
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("shopify api error: %d - %s", e.StatusCode, e.Status)
}

// IsNotFound reports whether err is an upstream 404
func IsNotFound(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusNotFound
}

type Client struct {
	http    *resty.Client
	images  *resty.Client
	baseURL string
	logger  *zap.Logger
}

// Option customises a Client at construction time
type Option func(*Client)

// WithBaseURL points the client at a different Admin API root, e.g. a test server.
func WithBaseURL(baseURL string) Option {
	return func(c *Client) {
		c.baseURL = strings.TrimSuffix(baseURL, "/")
	}
}

// NewClient creates a Shopify Admin API client for REST and GraphQL calls
func NewClient(cfg config.ShopifyConfig, logger *zap.Logger, opts ...Option) (*Client, error) {
	if strings.TrimSpace(cfg.StoreURL) == "" {
		return nil, ErrMissingStore
	}
	if strings.TrimSpace(cfg.AccessToken) == "" {
		return nil, ErrMissingToken
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	apiVersion := cfg.APIVersion
	if apiVersion == "" {
		apiVersion = "2023-10"
	}

	c := &Client{
		baseURL: BaseURL(cfg.StoreURL, apiVersion),
		logger:  logger.Named("shopify"),
	}
	for _, opt := range opts {
		opt(c)
	}

	c.http = resty.New().
		SetBaseURL(c.baseURL).
		SetHeader("X-Shopify-Access-Token", cfg.AccessToken).
		SetHeader("Content-Type", "application/json").
		SetHeader("Accept", "application/json").
		SetTimeout(timeout).
		SetRetryCount(0)
	c.images = resty.New().SetTimeout(timeout).SetRetryCount(0)

	return c, nil
}

var myshopifyRe = regexp.MustCompile(`^https?://([^./]+)\.myshopify\.com`)

// StoreName extracts the store handle from a bare name, a myshopify domain or a full URL
func StoreName(storeURL string) string {
	s := strings.TrimSpace(storeURL)
	if m := myshopifyRe.FindStringSubmatch(s); m != nil {
		return m[1]
	}
	s = strings.TrimPrefix(s, "https://")
	s = strings.TrimPrefix(s, "http://")
	if i := strings.Index(s, "/"); i >= 0 {
		s = s[:i]
	}
	return strings.TrimSuffix(s, ".myshopify.com")
}

// BaseURL builds the canonical versioned Admin API root for a store
func BaseURL(storeURL, apiVersion string) string {
	return fmt.Sprintf("https://%s.myshopify.com/admin/api/%s", StoreName(storeURL), apiVersion)
}

// get performs a REST GET, decodes the JSON body into out and returns the
// pagination parsed from the Link header.
func (c *Client) get(ctx context.Context, path string, query url.Values, out interface{}) (Pagination, error) {
	req := c.http.R().SetContext(ctx)
	if len(query) > 0 {
		req.SetQueryParamsFromValues(query)
	}
	resp, err := req.Get(path)
	if err != nil {
		return Pagination{}, fmt.Errorf("failed to execute request %s: %w", path, err)
	}

	if resp.StatusCode() < 200 || resp.StatusCode() >= 300 {
		apiErr := &APIError{
			StatusCode: resp.StatusCode(),
			Status:     http.StatusText(resp.StatusCode()),
			Path:       path,
			Body:       string(resp.Body()),
		}
		c.logger.Error("Shopify API error",
			zap.Int("status", apiErr.StatusCode),
			zap.String("status_text", apiErr.Status),
			zap.String("path", path),
			zap.String("body", truncate(apiErr.Body, 512)),
		)
		return Pagination{}, apiErr
	}

	if out != nil {
		if err := json.Unmarshal(resp.Body(), out); err != nil {
			return Pagination{}, fmt.Errorf("failed to unmarshal response %s: %w", path, err)
		}
	}

	return ParseLinkHeader(resp.Header().Get("Link")), nil
}

// GraphQLRequest represents a GraphQL request
type GraphQLRequest struct {
	Query     string                 `json:"query"`
	Variables map[string]interface{} `json:"variables,omitempty"`
}

// GraphQLResponse represents a GraphQL response
type GraphQLResponse struct {
	Data   json.RawMessage `json:"data"`
	Errors []GraphQLError  `json:"errors,omitempty"`
}

// GraphQLError represents a GraphQL error
type GraphQLError struct {
	Message string        `json:"message"`
	Path    []interface{} `json:"path,omitempty"`
}

// Execute executes a GraphQL query against the same API version as the REST calls
func (c *Client) Execute(ctx context.Context, query string, variables map[string]interface{}) (*GraphQLResponse, error) {
	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(GraphQLRequest{Query: query, Variables: variables}).
		Post("/graphql.json")
	if err != nil {
		return nil, fmt.Errorf("failed to execute request: %w", err)
	}

	if resp.StatusCode() != http.StatusOK {
		return nil, &APIError{
			StatusCode: resp.StatusCode(),
			Status:     http.StatusText(resp.StatusCode()),
			Path:       "/graphql.json",
			Body:       string(resp.Body()),
		}
	}

	var graphQLResp GraphQLResponse
	if err := json.Unmarshal(resp.Body(), &graphQLResp); err != nil {
		return nil, fmt.Errorf("failed to unmarshal response: %w", err)
	}

	if len(graphQLResp.Errors) > 0 {
		errorMessages := make([]string, len(graphQLResp.Errors))
		for i, err := range graphQLResp.Errors {
			errorMessages[i] = err.Message
		}
		return nil, fmt.Errorf("graphQL errors: %s", strings.Join(errorMessages, "; "))
	}

	return &graphQLResp, nil
}

// FetchImage downloads an image (usually from the Shopify CDN) and returns its
// bytes and content type. The admin token is not sent.
func (c *Client) FetchImage(ctx context.Context, imageURL string) ([]byte, string, error) {
	resp, err := c.images.R().SetContext(ctx).Get(imageURL)
	if err != nil {
		return nil, "", fmt.Errorf("download image: %w", err)
	}
	if resp.StatusCode() < 200 || resp.StatusCode() >= 300 {
		return nil, "", &APIError{
			StatusCode: resp.StatusCode(),
			Status:     http.StatusText(resp.StatusCode()),
			Path:       imageURL,
		}
	}
	return resp.Body(), resp.Header().Get("Content-Type"), nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
