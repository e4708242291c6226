package feed

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/mmcdole/gofeed"
)

const (
	// DefaultURL is the ESPNcricinfo live scores feed
	DefaultURL = "https://static.cricinfo.com/rss/livescores.xml"

	// DefaultTimeout is the default HTTP client timeout
	DefaultTimeout = 8 * time.Second

	userAgent = "cricket-hub/1.0 (+rss)"
)

// Entry is one RSS item reduced to the fields the dashboard reads.
type Entry struct {
	Title       string     `json:"title"`
	Link        string     `json:"link"`
	GUID        string     `json:"guid,omitempty"`
	Description string     `json:"description,omitempty"`
	Published   *time.Time `json:"published,omitempty"`
}

// Client fetches and parses one RSS/Atom feed.
type Client struct {
	url        string
	httpClient *http.Client
}

// NewClient creates a feed client; zero values fall back to defaults.
func NewClient(feedURL string, timeout time.Duration) *Client {
	if feedURL == "" {
		feedURL = DefaultURL
	}
	if timeout == 0 {
		timeout = DefaultTimeout
	}
	return &Client{
		url:        feedURL,
		httpClient: &http.Client{Timeout: timeout},
	}
}

// URL returns the feed address.
func (c *Client) URL() string { return c.url }

// Fetch downloads and parses the feed.
func (c *Client) Fetch(ctx context.Context) ([]Entry, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)

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
		return nil, fmt.Errorf("feed request failed with status %d", resp.StatusCode)
	}

	return Parse(bytes.NewReader(body))
}

// Parse reads a feed document into entries, preserving item order.
func Parse(r io.Reader) ([]Entry, error) {
	f, err := gofeed.NewParser().Parse(r)
	if err != nil {
		return nil, fmt.Errorf("failed to parse feed: %w", err)
	}

	entries := make([]Entry, 0, len(f.Items))
	for _, item := range f.Items {
		if item == nil {
			continue
		}
		e := Entry{
			Title:       strings.TrimSpace(item.Title),
			Link:        strings.TrimSpace(item.Link),
			GUID:        strings.TrimSpace(item.GUID),
			Description: StripHTML(item.Description),
		}
		if item.PublishedParsed != nil {
			t := item.PublishedParsed.UTC()
			e.Published = &t
		}
		entries = append(entries, e)
	}
	return entries, nil
}

// StripHTML returns the visible text of an HTML fragment with whitespace collapsed.
func StripHTML(s string) string {
	if !strings.ContainsAny(s, "<&") {
		return strings.Join(strings.Fields(s), " ")
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(s))
	if err != nil {
		return strings.Join(strings.Fields(s), " ")
	}
	return strings.Join(strings.Fields(doc.Text()), " ")
}
