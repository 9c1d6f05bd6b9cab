package build

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/thruflo/cmwatch/internal/config"
	"github.com/thruflo/cmwatch/internal/logging"
)

// maxErrorBody bounds how much of an error response is kept in APIError.
const maxErrorBody = 512

// APIError is returned for any response other than 200 OK.
type APIError struct {
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("API error (status %d)", e.StatusCode)
	}
	return fmt.Sprintf("API error (status %d): %s", e.StatusCode, e.Body)
}

// IsNotFound reports whether err is an APIError with status 404.
func IsNotFound(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusNotFound
}

// Client fetches builds from the build API.
type Client struct {
	baseURL    string
	creds      config.Credentials
	authHeader string
	userAgent  string
	httpClient *http.Client
	logger     *logging.Logger
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(client *http.Client) ClientOption {
	return func(c *Client) {
		c.httpClient = client
	}
}

// WithTimeout sets the per-request timeout of the default HTTP client.
func WithTimeout(timeout time.Duration) ClientOption {
	return func(c *Client) {
		c.httpClient.Timeout = timeout
	}
}

// WithAuthHeader sets the header that carries the token. When the header is
// Authorization the token is sent as a bearer token.
func WithAuthHeader(header string) ClientOption {
	return func(c *Client) {
		c.authHeader = header
	}
}

// WithUserAgent sets the User-Agent header.
func WithUserAgent(ua string) ClientOption {
	return func(c *Client) {
		c.userAgent = ua
	}
}

// WithLogger sets the logger used for request tracing.
func WithLogger(logger *logging.Logger) ClientOption {
	return func(c *Client) {
		c.logger = logger
	}
}

// NewClient creates a Client for the API at baseURL.
func NewClient(baseURL string, creds config.Credentials, opts ...ClientOption) *Client {
	c := &Client{
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		creds:      creds,
		authHeader: config.DefaultAuthHeader,
		userAgent:  "cmwatch",
		httpClient: &http.Client{
			Timeout: config.DefaultTimeout,
		},
		logger: logging.Default(),
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// NewClientFromConfig creates a Client using the API section of cfg.
func NewClientFromConfig(cfg *config.Config, creds config.Credentials, opts ...ClientOption) *Client {
	base := []ClientOption{
		WithAuthHeader(cfg.API.AuthHeader),
		WithTimeout(cfg.API.Timeout),
	}
	return NewClient(cfg.API.BaseURL, creds, append(base, opts...)...)
}

// ListBuilds returns up to limit of the most recent builds for the app,
// newest first.
func (c *Client) ListBuilds(ctx context.Context, limit int) ([]Snapshot, error) {
	q := url.Values{}
	q.Set("appId", c.creds.AppID)
	q.Set("limit", strconv.Itoa(limit))

	body, err := c.get(ctx, "/builds?"+q.Encode())
	if err != nil {
		return nil, fmt.Errorf("failed to fetch builds: %w", err)
	}

	builds, skipped, err := DecodeBuildList(body)
	if err != nil {
		return nil, err
	}
	if skipped > 0 {
		c.logger.Warn("Skipped malformed build entries", "count", skipped)
	}
	return builds, nil
}

// GetBuild returns the current snapshot of one build.
func (c *Client) GetBuild(ctx context.Context, id string) (*Snapshot, error) {
	body, err := c.GetBuildRaw(ctx, id)
	if err != nil {
		return nil, err
	}
	return DecodeBuild(body)
}

// GetBuildRaw returns the build document exactly as the API sent it.
func (c *Client) GetBuildRaw(ctx context.Context, id string) (json.RawMessage, error) {
	if strings.TrimSpace(id) == "" {
		return nil, errors.New("build ID is required")
	}

	body, err := c.get(ctx, "/builds/"+url.PathEscape(id))
	if err != nil {
		return nil, fmt.Errorf("failed to fetch build details: %w", err)
	}
	if !json.Valid(body) {
		return nil, errors.New("failed to fetch build details: response is not valid JSON")
	}
	return json.RawMessage(body), nil
}

// get performs one authenticated GET and returns the body of a 200 response.
// Credentials are checked first so a misconfigured client never touches the
// network.
func (c *Client) get(ctx context.Context, path string) ([]byte, error) {
	if err := c.creds.Validate(); err != nil {
		return nil, err
	}

	reqURL := c.baseURL + path
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	c.addAuthHeader(req)
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)

	c.logger.Debug("Making API request", "method", req.Method, "url", reqURL)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	c.logger.Debug("Received API response", "status_code", resp.StatusCode)

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, &APIError{
			StatusCode: resp.StatusCode,
			Body:       truncateBody(body),
		}
	}

	return body, nil
}

func (c *Client) addAuthHeader(req *http.Request) {
	if strings.EqualFold(c.authHeader, "Authorization") {
		req.Header.Set("Authorization", "Bearer "+c.creds.Token)
		return
	}
	req.Header.Set(c.authHeader, c.creds.Token)
}

func truncateBody(body []byte) string {
	body = bytes.TrimSpace(body)
	if len(body) > maxErrorBody {
		return string(body[:maxErrorBody]) + "..."
	}
	return string(body)
}
