package cricbuzz

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

const (
	// DefaultLibraryBaseURL is where the pycricbuzz-compatible bridge listens
	DefaultLibraryBaseURL = "http://localhost:5001"

	// DefaultRESTBaseURL is the RapidAPI Cricbuzz endpoint
	DefaultRESTBaseURL = "https://cricbuzz-cricket.p.rapidapi.com"

	// DefaultRESTHost is sent as X-RapidAPI-Host
	DefaultRESTHost = "cricbuzz-cricket.p.rapidapi.com"

	// DefaultTimeout is the default HTTP client timeout
	DefaultTimeout = 8 * time.Second
)

// Client talks to both Cricbuzz flavours: the library bridge and the REST API.
type Client struct {
	libraryURL string
	restURL    string
	restHost   string
	apiKey     string
	httpClient *http.Client
}

// Config holds the configuration for the API client
type Config struct {
	LibraryBaseURL string
	RESTBaseURL    string
	RESTHost       string
	APIKey         string
	Timeout        time.Duration
}

// NewClient creates a client with default endpoints
func NewClient(apiKey string) *Client {
	return NewClientWithConfig(Config{APIKey: apiKey})
}

// NewClientWithConfig creates a new client with custom configuration
func NewClientWithConfig(config Config) *Client {
	if config.LibraryBaseURL == "" {
		config.LibraryBaseURL = DefaultLibraryBaseURL
	}
	if config.RESTBaseURL == "" {
		config.RESTBaseURL = DefaultRESTBaseURL
	}
	if config.RESTHost == "" {
		config.RESTHost = DefaultRESTHost
	}
	if config.Timeout == 0 {
		config.Timeout = DefaultTimeout
	}

	return &Client{
		libraryURL: config.LibraryBaseURL,
		restURL:    config.RESTBaseURL,
		restHost:   config.RESTHost,
		apiKey:     config.APIKey,
		httpClient: &http.Client{
			Timeout: config.Timeout,
		},
	}
}

// doRequest performs an HTTP GET and returns the body of a 200 response
func (c *Client) doRequest(ctx context.Context, base, endpoint string, params url.Values, header http.Header) ([]byte, error) {
	u, err := url.Parse(base + endpoint)
	if err != nil {
		return nil, fmt.Errorf("failed to parse URL: %w", err)
	}
	if params != nil {
		u.RawQuery = params.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	for k, v := range header {
		req.Header[k] = v
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		apiErr := &APIError{Code: resp.StatusCode}
		if err := json.Unmarshal(body, apiErr); err != nil || apiErr.Message == "" {
			apiErr.Message = http.StatusText(resp.StatusCode)
		}
		apiErr.Code = resp.StatusCode
		return nil, apiErr
	}

	return body, nil
}

// getLibrary hits the library bridge
func (c *Client) getLibrary(ctx context.Context, endpoint string) ([]byte, error) {
	return c.doRequest(ctx, c.libraryURL, endpoint, nil, nil)
}

// getREST hits the RapidAPI endpoint with credentials
func (c *Client) getREST(ctx context.Context, endpoint string) ([]byte, error) {
	h := http.Header{}
	h.Set("X-RapidAPI-Key", c.apiKey)
	h.Set("X-RapidAPI-Host", c.restHost)
	return c.doRequest(ctx, c.restURL, endpoint, nil, h)
}

// APIError represents a non-200 response
type APIError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// Error implements the error interface
func (e *APIError) Error() string {
	return fmt.Sprintf("API error %d: %s", e.Code, e.Message)
}
