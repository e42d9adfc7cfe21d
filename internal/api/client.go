package api

import (
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/charmbracelet/log"
)

const (
	defaultTimeout = 30 * time.Second
	userAgent      = "memberctl/1.0"
)

// Client talks to a membersys instance. Authentication is an opaque
// session cookie obtained out of band; the client never refreshes it.
type Client struct {
	baseURL    string
	cookie     string
	httpClient *http.Client
	logger     *log.Logger
}

// NewClient creates a membersys API client. baseURL is the instance
// root, e.g. "https://admin.starship-factory.ch".
func NewClient(baseURL, cookie string, logger *log.Logger) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		cookie:  cookie,
		httpClient: &http.Client{
			Timeout: defaultTimeout,
		},
		logger: logger,
	}
}

// BaseURL returns the configured instance root.
func (c *Client) BaseURL() string {
	return c.baseURL
}

func (c *Client) newRequest(method, path string, body io.Reader) (*http.Request, error) {
	req, err := http.NewRequest(method, c.baseURL+path, body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "application/json")
	if c.cookie != "" {
		req.Header.Set("Cookie", c.cookie)
	}
	return req, nil
}

// get issues a GET against path with the given query parameters and
// returns the response body. Any non-200 status is an error.
func (c *Client) get(path string, params url.Values) ([]byte, error) {
	target := path
	if len(params) > 0 {
		target = fmt.Sprintf("%s?%s", path, params.Encode())
	}

	req, err := c.newRequest("GET", target, nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if c.logger != nil {
		c.logger.Debug("GET", "path", path, "bytes", len(data))
	}
	return data, nil
}

// postForm issues a form-encoded POST against path and returns the
// response body. Any non-200 status is an error.
func (c *Client) postForm(path string, form url.Values) ([]byte, error) {
	req, err := c.newRequest("POST", path, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status code: %d (%s)", resp.StatusCode, strings.TrimSpace(string(data)))
	}

	if c.logger != nil {
		c.logger.Debug("POST", "path", path, "bytes", len(data))
	}
	return data, nil
}
